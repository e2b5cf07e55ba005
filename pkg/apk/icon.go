package apk

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
	"golang.org/x/image/webp"
)

const (
	// StandardIconSize is the edge length of generated thumbnails
	StandardIconSize = 144

	maxIconBytes = 8 << 20
)

// IconProcessor fetches application icons and normalizes them to PNG thumbnails
type IconProcessor struct {
	targetSize uint
	client     *http.Client
}

// NewIconProcessor creates a processor. A nil client uses transport defaults.
func NewIconProcessor(client *http.Client) *IconProcessor {
	if client == nil {
		client = &http.Client{}
	}
	return &IconProcessor{
		targetSize: StandardIconSize,
		client:     client,
	}
}

// FetchIcon downloads the store icon at iconURL and returns a PNG thumbnail
func (p *IconProcessor) FetchIcon(ctx context.Context, iconURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, iconURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch icon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("failed to fetch icon: HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxIconBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read icon: %w", err)
	}

	return p.Thumbnail(data)
}

// ExtractIcon finds the launcher icon inside an APK and returns a PNG thumbnail
func (p *IconProcessor) ExtractIcon(apkPath string) ([]byte, error) {
	reader, err := zip.OpenReader(apkPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open APK: %w", err)
	}
	defer reader.Close()

	// Highest density first
	priorities := []string{
		"res/mipmap-xxxhdpi/ic_launcher.png",
		"res/mipmap-xxhdpi/ic_launcher.png",
		"res/mipmap-xhdpi/ic_launcher.png",
		"res/mipmap-hdpi/ic_launcher.png",
		"res/drawable-xxxhdpi/ic_launcher.png",
		"res/drawable-xxhdpi/ic_launcher.png",
		"res/drawable-xhdpi/ic_launcher.png",
		"res/drawable-hdpi/ic_launcher.png",
		"res/mipmap-xxxhdpi/ic_launcher.webp",
		"res/mipmap-xxhdpi/ic_launcher.webp",
		"res/mipmap-xhdpi/ic_launcher.webp",
		"res/mipmap-hdpi/ic_launcher.webp",
	}

	files := make(map[string]*zip.File, len(reader.File))
	for _, file := range reader.File {
		files[file.Name] = file
	}

	for _, name := range priorities {
		if file, ok := files[name]; ok {
			if thumb, err := p.thumbnailFromZip(file); err == nil {
				return thumb, nil
			}
		}
	}

	for _, file := range reader.File {
		name := file.Name
		ext := filepath.Ext(name)
		if !strings.Contains(name, "ic_launcher") || (ext != ".png" && ext != ".webp") {
			continue
		}
		if strings.Contains(name, "_foreground") || strings.Contains(name, "_background") {
			continue
		}
		if thumb, err := p.thumbnailFromZip(file); err == nil {
			return thumb, nil
		}
	}

	return nil, fmt.Errorf("no launcher icon found in APK")
}

func (p *IconProcessor) thumbnailFromZip(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxIconBytes))
	if err != nil {
		return nil, err
	}
	return p.Thumbnail(data)
}

// Thumbnail decodes a PNG, JPEG or WebP image and re-encodes it as a square PNG
func (p *IconProcessor) Thumbnail(data []byte) ([]byte, error) {
	var img image.Image
	var err error

	if isWebP(data) {
		img, err = webp.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode webp: %w", err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to decode image: %w", err)
		}
	}

	resized := resize.Resize(p.targetSize, p.targetSize, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := png.Encode(&buf, resized); err != nil {
		return nil, fmt.Errorf("failed to encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func isWebP(data []byte) bool {
	return len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WEBP"
}
