package apk

import (
	"archive/zip"
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	apperrors "github.com/huanfeng/rustoredl/internal/errors"
)

func samplePNG(t *testing.T, size int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for x := 0; x < size; x++ {
		for y := 0; y < size; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	return buf.Bytes()
}

func writeZip(t *testing.T, path string, files map[string][]byte) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create zip: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for name, data := range files {
		entry, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to add %s: %v", name, err)
		}
		entry.Write(data)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finish zip: %v", err)
	}
}

func assertThumbnail(t *testing.T, data []byte) {
	t.Helper()
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Thumbnail is not a valid image: %v", err)
	}
	if format != "png" {
		t.Errorf("Expected png output, got %s", format)
	}
	bounds := img.Bounds()
	if bounds.Dx() != StandardIconSize || bounds.Dy() != StandardIconSize {
		t.Errorf("Expected %dx%d thumbnail, got %dx%d", StandardIconSize, StandardIconSize, bounds.Dx(), bounds.Dy())
	}
}

func TestThumbnail(t *testing.T) {
	thumb, err := NewIconProcessor(nil).Thumbnail(samplePNG(t, 512))
	if err != nil {
		t.Fatalf("Thumbnail returned error: %v", err)
	}
	assertThumbnail(t, thumb)
}

func TestThumbnailRejectsGarbage(t *testing.T) {
	if _, err := NewIconProcessor(nil).Thumbnail([]byte("not an image")); err == nil {
		t.Error("Expected error for undecodable data")
	}
}

func TestIsWebP(t *testing.T) {
	if !isWebP([]byte("RIFF\x00\x00\x00\x00WEBPVP8 ")) {
		t.Error("Expected RIFF/WEBP header to be detected")
	}
	if isWebP(samplePNG(t, 4)) {
		t.Error("PNG data misdetected as WebP")
	}
}

func TestFetchIcon(t *testing.T) {
	icon := samplePNG(t, 64)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			http.NotFound(w, r)
			return
		}
		w.Write(icon)
	}))
	defer server.Close()

	processor := NewIconProcessor(nil)

	thumb, err := processor.FetchIcon(context.Background(), server.URL+"/icon.png")
	if err != nil {
		t.Fatalf("FetchIcon returned error: %v", err)
	}
	assertThumbnail(t, thumb)

	if _, err := processor.FetchIcon(context.Background(), server.URL+"/missing.png"); err == nil {
		t.Error("Expected error for missing icon")
	}
}

func TestExtractIcon(t *testing.T) {
	apkPath := filepath.Join(t.TempDir(), "app.apk")
	files := map[string][]byte{
		"AndroidManifest.xml":             []byte("binary"),
		"res/mipmap-hdpi/ic_launcher.png": samplePNG(t, 72),
	}
	files["res/mipmap-anydpi/ic_launcher_foreground.png"] = []byte("skip me")
	writeZip(t, apkPath, files)

	thumb, err := NewIconProcessor(nil).ExtractIcon(apkPath)
	if err != nil {
		t.Fatalf("ExtractIcon returned error: %v", err)
	}
	assertThumbnail(t, thumb)
}

func TestExtractIconMissing(t *testing.T) {
	apkPath := filepath.Join(t.TempDir(), "app.apk")
	writeZip(t, apkPath, map[string][]byte{"classes.dex": []byte("dex")})

	if _, err := NewIconProcessor(nil).ExtractIcon(apkPath); err == nil {
		t.Error("Expected error when no launcher icon exists")
	}
}

func TestNativeABIs(t *testing.T) {
	apkPath := filepath.Join(t.TempDir(), "app.apk")
	writeZip(t, apkPath, map[string][]byte{
		"lib/x86_64/libfoo.so":    []byte("so"),
		"lib/arm64-v8a/libfoo.so": []byte("so"),
		"lib/arm64-v8a/libbar.so": []byte("so"),
		"classes.dex":             []byte("dex"),
	})

	got := nativeABIs(apkPath)
	want := []string{"arm64-v8a", "x86_64"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("nativeABIs = %v, want %v", got, want)
	}
}

func TestReadManifestInvalidArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.apk")
	if err := os.WriteFile(path, []byte("this is not a zip"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	_, err := NewManifestReader().ReadManifest(path)
	var storeErr *apperrors.StoreError
	if !apperrors.As(err, &storeErr) {
		t.Fatalf("Expected StoreError, got %v", err)
	}
	if storeErr.Type != apperrors.ErrorTypeParsing {
		t.Errorf("Expected parsing error, got %v", storeErr.Type)
	}
}
