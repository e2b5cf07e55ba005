package client

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/huanfeng/rustoredl/internal/i18n"
	"github.com/huanfeng/rustoredl/pkg/models"
	"github.com/huanfeng/rustoredl/pkg/store"
)

// Transferer streams one URL to one local file
type Transferer interface {
	Download(ctx context.Context, url, localPath string) error
}

// ManifestReader reads the manifest of a downloaded artifact
type ManifestReader interface {
	ReadManifest(path string) (*models.ManifestInfo, error)
}

// Logger interface for service logging
type Logger interface {
	Debug(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
}

// ServiceOptions configures a Service
type ServiceOptions struct {
	OutputDir string
	Verifier  ManifestReader // nil disables post-download verification
	Logger    Logger
}

// Service implements the search, download and get-link operations
type Service struct {
	backend   store.Backend
	transfer  Transferer
	verifier  ManifestReader
	out       io.Writer
	outputDir string
	logger    Logger
}

// NewService creates a service printing status lines to out
func NewService(backend store.Backend, transfer Transferer, out io.Writer, opts ServiceOptions) *Service {
	outputDir := opts.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	return &Service{
		backend:   backend,
		transfer:  transfer,
		verifier:  opts.Verifier,
		out:       out,
		outputDir: outputDir,
		logger:    opts.Logger,
	}
}

// DownloadPackage downloads every installable artifact of packageName.
// Transfers run one at a time in the order the backend listed them and stop
// at the first failure.
func (s *Service) DownloadPackage(ctx context.Context, packageName string) error {
	record, err := s.backend.LookupPackage(ctx, packageName)
	if err != nil {
		return err
	}

	s.println(i18n.T("download.start", map[string]interface{}{
		"Package": packageName,
		"Version": record.VersionName,
	}))

	urls, err := s.backend.ResolveDownloadLinks(ctx, record.AppID)
	if err != nil {
		return err
	}

	selection := SelectArtifacts(packageName, urls)
	if selection.SplitBundle() {
		s.println(i18n.T("download.splitBundle"))
	}

	skipped := selection.Skipped
	for _, target := range selection.Targets {
		// Skip notices keep their position relative to the transfers
		for len(skipped) > 0 && skipped[0].Index < target.Index {
			s.printSkip(skipped[0])
			skipped = skipped[1:]
		}

		if err := s.fetch(ctx, packageName, target); err != nil {
			return err
		}
	}
	for _, skip := range skipped {
		s.printSkip(skip)
	}

	if len(selection.Targets) == 0 {
		s.println(i18n.T("download.none", map[string]interface{}{"Package": packageName}))
	}

	s.println(i18n.T("download.done"))
	return nil
}

func (s *Service) fetch(ctx context.Context, packageName string, target models.DownloadTarget) error {
	destination := filepath.Join(s.outputDir, target.LocalPath)
	s.println(i18n.T("download.file", map[string]interface{}{
		"URL":         target.URL,
		"Destination": destination,
	}))

	if s.logger != nil {
		s.logger.Debug("transfer %d: %s -> %s", target.Index, target.URL, destination)
	}

	if err := s.transfer.Download(ctx, target.URL, destination); err != nil {
		return err
	}

	s.verify(packageName, destination)
	return nil
}

// verify reports what the downloaded file declares. Problems are warnings
// only; a completed transfer is never removed.
func (s *Service) verify(packageName, path string) {
	if s.verifier == nil {
		return
	}

	info, err := s.verifier.ReadManifest(path)
	if err != nil {
		if s.logger != nil {
			s.logger.Warn("verification of %s failed: %v", path, err)
		}
		s.println(i18n.T("download.verifyFailed", map[string]interface{}{
			"File":  path,
			"Error": err.Error(),
		}))
		return
	}

	if info.PackageName != packageName {
		s.println(i18n.T("download.verifyMismatch", map[string]interface{}{
			"File":     path,
			"Actual":   info.PackageName,
			"Expected": packageName,
		}))
		return
	}

	s.println(i18n.T("download.verified", map[string]interface{}{
		"File":    path,
		"Package": info.PackageName,
		"Version": info.VersionName,
	}))
}

func (s *Service) printSkip(skip SkippedURL) {
	s.println(i18n.T("download.skip", map[string]interface{}{"URL": skip.URL}))
}

// PrintLinks prints every download URL of packageName, numbered from 1
func (s *Service) PrintLinks(ctx context.Context, packageName string) error {
	record, err := s.backend.LookupPackage(ctx, packageName)
	if err != nil {
		return err
	}

	s.println(i18n.T("links.start", map[string]interface{}{
		"Package": packageName,
		"Version": record.VersionName,
	}))

	urls, err := s.backend.ResolveDownloadLinks(ctx, record.AppID)
	if err != nil {
		return err
	}

	for i, u := range urls {
		fmt.Fprintf(s.out, "[%d] %s\n", i+1, u)
	}
	return nil
}

// Search runs an interactive search and hands the selected package to
// PrintLinks when linkOnly is set and to DownloadPackage otherwise.
func (s *Service) Search(ctx context.Context, prompter Prompter, linkOnly bool) (*SearchOutcome, error) {
	session := NewSearchSession(s.backend, prompter, s.out)

	outcome, err := session.Run(ctx)
	if err != nil {
		return outcome, err
	}
	if outcome.State != StateSelected {
		return outcome, nil
	}

	packageName := outcome.Selected.PackageName
	if s.logger != nil {
		s.logger.Debug("selected %s on page %d", packageName, outcome.Page)
	}

	if linkOnly {
		return outcome, s.PrintLinks(ctx, packageName)
	}
	return outcome, s.DownloadPackage(ctx, packageName)
}

func (s *Service) println(line string) {
	fmt.Fprintln(s.out, line)
}
