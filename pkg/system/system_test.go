package system

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckBackend(t *testing.T) {
	var gotDevice string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotDevice = r.Header.Get("deviceId")
		if r.URL.Path == "/broken" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	checker := NewNetworkChecker(nil, server.Client())
	header := http.Header{}
	header.Set("deviceId", "abc123")

	status := checker.CheckBackend(context.Background(), server.URL, header)
	if !status.Reachable {
		t.Fatalf("Expected backend to be reachable, got %+v", status)
	}
	if status.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", status.StatusCode)
	}
	if gotDevice != "abc123" {
		t.Errorf("Expected identity header to be forwarded, got %q", gotDevice)
	}

	status = checker.CheckBackend(context.Background(), server.URL+"/broken", nil)
	if status.Reachable {
		t.Error("Expected 503 to count as unreachable")
	}
	if status.ErrorType != "server_error" {
		t.Errorf("Expected server_error, got %q", status.ErrorType)
	}
}

func TestCheckBackendConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	status := NewNetworkChecker(nil, nil).CheckBackend(context.Background(), url, nil)
	if status.Reachable {
		t.Fatal("Expected closed server to be unreachable")
	}
	if status.ErrorType != "connection_refused" {
		t.Errorf("Expected connection_refused, got %q (%s)", status.ErrorType, status.Error)
	}
}

func TestCategorizeNetworkError(t *testing.T) {
	tests := []struct {
		err  string
		want string
	}{
		{"dial tcp: lookup backapi.example: no such host", "dns_failure"},
		{"dial tcp 127.0.0.1:1: connect: connection refused", "connection_refused"},
		{"Client.Timeout exceeded while awaiting headers", "timeout"},
		{"context deadline exceeded", "timeout"},
		{"context canceled", "cancelled"},
		{"x509: certificate signed by unknown authority", "tls_certificate_error"},
		{"proxyconnect tcp: EOF", "proxy_error"},
		{"something odd", "unknown"},
	}

	for _, tt := range tests {
		if got := categorizeNetworkError(errors.New(tt.err)); got != tt.want {
			t.Errorf("categorizeNetworkError(%q) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestCheckOutputDir(t *testing.T) {
	checker := NewResourceChecker(nil)
	dir := t.TempDir()

	t.Run("existing directory", func(t *testing.T) {
		status := checker.CheckOutputDir(dir)
		if !status.Exists || !status.Writable {
			t.Fatalf("Expected existing writable dir, got %+v", status)
		}
		if status.Disk == nil || status.Disk.Total == 0 {
			t.Errorf("Expected disk usage, got %+v", status.Disk)
		}
		entries, _ := os.ReadDir(dir)
		if len(entries) != 0 {
			t.Errorf("Expected temporary file to be removed, found %d entries", len(entries))
		}
	})

	t.Run("missing directory uses parent", func(t *testing.T) {
		status := checker.CheckOutputDir(filepath.Join(dir, "apks", "nested"))
		if status.Exists {
			t.Error("Expected missing directory to be reported")
		}
		if status.CheckedAt != dir {
			t.Errorf("Expected check against %s, got %s", dir, status.CheckedAt)
		}
		if !status.Writable {
			t.Errorf("Expected parent to be writable: %s", status.Error)
		}
	})

	t.Run("path is a file", func(t *testing.T) {
		file := filepath.Join(dir, "plain.txt")
		if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
		status := checker.CheckOutputDir(file)
		if status.Error == "" || status.Writable {
			t.Errorf("Expected error for file path, got %+v", status)
		}
	})
}
