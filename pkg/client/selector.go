package client

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/huanfeng/rustoredl/pkg/models"
)

const (
	// installableMarker is the path segment the backend uses for APK artifacts
	installableMarker = "/apk/"
	// DefaultExtension is used when a URL's final segment has no extension
	DefaultExtension = ".apk"
)

// SkippedURL is a download candidate that is not an installable artifact
type SkippedURL struct {
	Index int // 1-based position in the backend's URL list
	URL   string
}

// ArtifactSelection is the outcome of classifying a package's download links
type ArtifactSelection struct {
	Targets []models.DownloadTarget
	Skipped []SkippedURL
}

// SplitBundle reports whether more than one installable artifact was found
func (s *ArtifactSelection) SplitBundle() bool {
	return len(s.Targets) > 1
}

// IsInstallable reports whether a download candidate is an APK artifact
func IsInstallable(rawURL string) bool {
	return strings.Contains(rawURL, installableMarker)
}

// SelectArtifacts classifies urls in backend order and names each
// installable one <package>.<position><ext>. Positions are the original
// 1-based indexes, so skipped URLs leave gaps in the numbering.
func SelectArtifacts(packageName string, urls []string) *ArtifactSelection {
	selection := &ArtifactSelection{}
	base := filepath.Base(packageName)

	for i, rawURL := range urls {
		if !IsInstallable(rawURL) {
			selection.Skipped = append(selection.Skipped, SkippedURL{Index: i + 1, URL: rawURL})
			continue
		}

		selection.Targets = append(selection.Targets, models.DownloadTarget{
			Index:     i + 1,
			URL:       rawURL,
			LocalPath: fmt.Sprintf("%s.%d%s", base, i+1, ArtifactExtension(rawURL)),
		})
	}

	return selection
}

// ArtifactExtension returns the extension of the URL's final path segment
func ArtifactExtension(rawURL string) string {
	segment := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		segment = u.Path
	}
	segment = segment[strings.LastIndex(segment, "/")+1:]

	ext := path.Ext(segment)
	if ext == "" || ext == "." {
		return DefaultExtension
	}
	return ext
}
