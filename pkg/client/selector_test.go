package client

import (
	"testing"
)

func TestSelectArtifactsSingleWithResource(t *testing.T) {
	selection := SelectArtifacts("com.example.app", []string{
		"https://cdn/apk/base.apk",
		"https://cdn/res/lang.apk",
	})

	if len(selection.Targets) != 1 {
		t.Fatalf("Expected 1 target, got %d", len(selection.Targets))
	}
	if got := selection.Targets[0].LocalPath; got != "com.example.app.1.apk" {
		t.Errorf("Expected 'com.example.app.1.apk', got %q", got)
	}
	if len(selection.Skipped) != 1 || selection.Skipped[0].Index != 2 {
		t.Errorf("Expected index 2 to be skipped, got %+v", selection.Skipped)
	}
	if selection.SplitBundle() {
		t.Error("Did not expect a split bundle")
	}
}

func TestSelectArtifactsSplitBundle(t *testing.T) {
	selection := SelectArtifacts("com.example.app", []string{
		"https://cdn/apk/base.apk",
		"https://cdn/apk/split_config.arm64.apk",
	})

	if !selection.SplitBundle() {
		t.Error("Expected a split bundle")
	}
	want := []string{"com.example.app.1.apk", "com.example.app.2.apk"}
	for i, target := range selection.Targets {
		if target.LocalPath != want[i] {
			t.Errorf("Target %d = %q, want %q", i, target.LocalPath, want[i])
		}
	}
}

func TestSelectArtifactsKeepsOriginalPositions(t *testing.T) {
	selection := SelectArtifacts("pkg", []string{
		"https://cdn/res/a.bin",
		"https://cdn/apk/base.apk",
		"https://cdn/res/b.bin",
		"https://cdn/apk/split.apk",
	})

	if len(selection.Targets) != 2 {
		t.Fatalf("Expected 2 targets, got %d", len(selection.Targets))
	}
	if selection.Targets[0].LocalPath != "pkg.2.apk" || selection.Targets[1].LocalPath != "pkg.4.apk" {
		t.Errorf("Expected original positions 2 and 4, got %+v", selection.Targets)
	}
}

func TestSelectArtifactsEmpty(t *testing.T) {
	selection := SelectArtifacts("pkg", nil)
	if len(selection.Targets) != 0 || len(selection.Skipped) != 0 {
		t.Errorf("Expected empty selection, got %+v", selection)
	}
}

func TestSelectArtifactsStripsDirectories(t *testing.T) {
	selection := SelectArtifacts("../../etc/evil", []string{"https://cdn/apk/base.apk"})
	if got := selection.Targets[0].LocalPath; got != "evil.1.apk" {
		t.Errorf("Expected path components to be stripped, got %q", got)
	}
}

func TestArtifactExtension(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://cdn/apk/base.apk", ".apk"},
		{"https://cdn/apk/base.apk?token=abc", ".apk"},
		{"https://cdn/apk/download", ".apk"},
		{"https://cdn/apk/archive.zip", ".zip"},
		{"https://cdn/apk/1a2b3c", ".apk"},
	}
	for _, tt := range tests {
		if got := ArtifactExtension(tt.url); got != tt.want {
			t.Errorf("ArtifactExtension(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
