package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	apperrors "github.com/huanfeng/rustoredl/internal/errors"
	"github.com/huanfeng/rustoredl/internal/i18n"
)

// ChunkSize bounds each read from the response body
const ChunkSize = 32 * 1024

// ProgressReporter receives cumulative transfer progress
type ProgressReporter interface {
	Start(description string, total int64)
	Update(current int64)
	Finish()
	Abort()
}

type noopProgress struct{}

func (noopProgress) Start(string, int64) {}
func (noopProgress) Update(int64)        {}
func (noopProgress) Finish()             {}
func (noopProgress) Abort()              {}

// Downloader streams a single URL to a single local file
type Downloader struct {
	client   *http.Client
	progress ProgressReporter
}

// NewDownloader creates a downloader. A nil client uses transport defaults
// with no overall timeout; a nil reporter disables progress output.
func NewDownloader(client *http.Client, progress ProgressReporter) *Downloader {
	if client == nil {
		client = &http.Client{}
	}
	if progress == nil {
		progress = noopProgress{}
	}
	return &Downloader{
		client:   client,
		progress: progress,
	}
}

// ProgressWriter wraps an io.Writer to report cumulative bytes written
type ProgressWriter struct {
	writer   io.Writer
	written  int64
	reporter ProgressReporter
}

// NewProgressWriter creates a new progress writer
func NewProgressWriter(writer io.Writer, reporter ProgressReporter) *ProgressWriter {
	return &ProgressWriter{
		writer:   writer,
		reporter: reporter,
	}
}

// Write implements io.Writer interface with progress reporting
func (pw *ProgressWriter) Write(p []byte) (int, error) {
	n, err := pw.writer.Write(p)
	pw.written += int64(n)
	pw.reporter.Update(pw.written)
	return n, err
}

// Written returns the number of bytes written so far
func (pw *ProgressWriter) Written() int64 {
	return pw.written
}

// Download streams url into localPath. A non-success status yields a
// TransferError before anything is written. Once the file has been created,
// any failure removes it and yields DownloadInterrupted, so a truncated file
// is never left behind.
func (d *Downloader) Download(ctx context.Context, url, localPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to start download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperrors.NewTransferError(url, resp.StatusCode)
	}

	// ContentLength is -1 when the header is absent
	total := resp.ContentLength

	if dir := filepath.Dir(localPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create download directory: %w", err)
		}
	}

	out, err := os.OpenFile(localPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	description := ""
	if total <= 0 {
		description = i18n.T("progress.unknownTotal")
	}
	d.progress.Start(description, total)

	if err := d.stream(ctx, out, resp.Body, total); err != nil {
		out.Close()
		os.Remove(localPath)
		d.progress.Abort()
		return apperrors.NewDownloadInterruptedError(localPath, err)
	}

	if err := out.Close(); err != nil {
		os.Remove(localPath)
		d.progress.Abort()
		return apperrors.NewDownloadInterruptedError(localPath, err)
	}

	d.progress.Finish()
	return nil
}

// stream copies body to out in ChunkSize pieces
func (d *Downloader) stream(ctx context.Context, out io.Writer, body io.Reader, total int64) error {
	pw := NewProgressWriter(out, d.progress)

	// A struct wrapper hides ReaderFrom/WriterTo so CopyBuffer honors the buffer size
	if _, err := io.CopyBuffer(struct{ io.Writer }{pw}, struct{ io.Reader }{body}, make([]byte, ChunkSize)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if written := pw.Written(); total > 0 && written != total {
		return fmt.Errorf("incomplete transfer: expected %d bytes, got %d bytes", total, written)
	}
	return nil
}
