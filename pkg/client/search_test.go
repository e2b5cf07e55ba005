package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/huanfeng/rustoredl/pkg/models"
)

// scriptedPrompter answers prompts from a fixed script, then reports EOF
type scriptedPrompter struct {
	answers  []string
	labels   []string
	onPrompt func(n int) error
}

func (p *scriptedPrompter) Prompt(ctx context.Context, label string) (string, error) {
	p.labels = append(p.labels, label)
	if p.onPrompt != nil {
		if err := p.onPrompt(len(p.labels)); err != nil {
			return "", err
		}
	}
	if len(p.answers) == 0 {
		return "", io.EOF
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	return answer, nil
}

func catalogPage(prefix string, n int) []*models.CatalogEntry {
	entries := make([]*models.CatalogEntry, n)
	for i := range entries {
		entries[i] = &models.CatalogEntry{
			PackageName:      fmt.Sprintf("com.%s%d", prefix, i+1),
			AppName:          fmt.Sprintf("App %s%d", prefix, i+1),
			ShortDescription: "Does things",
			CompanyName:      "ACME",
			VersionCode:      int64(100 + i),
			UpdatedAt:        time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC),
		}
	}
	return entries
}

func paginatedBackend() *fakeBackend {
	return &fakeBackend{
		pages: [][]*models.CatalogEntry{
			catalogPage("a", 5),
			catalogPage("b", 5),
			catalogPage("c", 2),
			{},
		},
	}
}

func TestSearchSessionAdvancesOnInvalidInput(t *testing.T) {
	backend := paginatedBackend()
	prompter := &scriptedPrompter{answers: []string{"maps", "9", "abc", "3", ""}}
	var out bytes.Buffer

	outcome, err := NewSearchSession(backend, prompter, &out).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if outcome.State != StateAborted {
		t.Errorf("Expected aborted outcome after EOF, got %v", outcome.State)
	}

	// Out of range on page 0, garbage on page 1, out of range on the short
	// page 2, anything on the empty page 3, then EOF while page 4 is shown
	if want := []int{0, 1, 2, 3, 4}; !reflect.DeepEqual(backend.requestedPages, want) {
		t.Errorf("Requested pages = %v, want %v", backend.requestedPages, want)
	}

	wantLabels := []string{"Query> ", "[1-5]> ", "[1-5]> ", "[1-2]> ", "> ", "> "}
	if !reflect.DeepEqual(prompter.labels, wantLabels) {
		t.Errorf("Prompt labels = %q, want %q", prompter.labels, wantLabels)
	}

	if !strings.Contains(out.String(), "No results on this page") {
		t.Errorf("Expected empty-page notice, got:\n%s", out.String())
	}
}

func TestSearchSessionSelects(t *testing.T) {
	backend := paginatedBackend()
	prompter := &scriptedPrompter{answers: []string{"  maps  ", "0", " 2 "}}
	var out bytes.Buffer

	session := NewSearchSession(backend, prompter, &out)
	outcome, err := session.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if outcome.State != StateSelected || session.State() != StateSelected {
		t.Fatalf("Expected selected outcome, got %v", outcome.State)
	}
	if outcome.Query != "maps" {
		t.Errorf("Expected trimmed query, got %q", outcome.Query)
	}
	if outcome.Page != 1 {
		t.Errorf("Expected selection on page 1, got %d", outcome.Page)
	}
	if outcome.Selected.PackageName != "com.b2" {
		t.Errorf("Expected com.b2, got %s", outcome.Selected.PackageName)
	}

	output := out.String()
	for _, want := range []string{
		"Page [1]",
		"Page [2]",
		"[2]━┳━[com.b2] [App b2]",
		"    ┣━ Description: Does things",
		"    ┣━ Company: ACME",
		"    ┣━ Version: 101",
		"    ┗━ Updated: 15.01.2024 08:30",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestSearchSessionEOFAtQuery(t *testing.T) {
	backend := paginatedBackend()

	outcome, err := NewSearchSession(backend, &scriptedPrompter{}, &bytes.Buffer{}).Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if outcome.State != StateAborted {
		t.Errorf("Expected aborted outcome, got %v", outcome.State)
	}
	if len(backend.requestedPages) != 0 {
		t.Errorf("Expected no searches, got %v", backend.requestedPages)
	}
}

func TestSearchSessionTransportError(t *testing.T) {
	transportErr := errors.New("dial tcp: connection refused")
	backend := &fakeBackend{searchErr: transportErr}
	prompter := &scriptedPrompter{answers: []string{"maps", "1"}}

	outcome, err := NewSearchSession(backend, prompter, &bytes.Buffer{}).Run(context.Background())
	if !errors.Is(err, transportErr) {
		t.Fatalf("Expected transport error, got %v", err)
	}
	if outcome != nil {
		t.Errorf("Expected no outcome, got %+v", outcome)
	}
	if len(prompter.labels) != 1 {
		t.Errorf("Expected no selection prompt after a failed search, got %q", prompter.labels)
	}
}

func TestSearchSessionCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	backend := paginatedBackend()
	prompter := &scriptedPrompter{
		answers: []string{"maps", "9", "9"},
		onPrompt: func(n int) error {
			if n == 3 {
				cancel()
				return ctx.Err()
			}
			return nil
		},
	}

	outcome, err := NewSearchSession(backend, prompter, &bytes.Buffer{}).Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected cancellation, got %v", err)
	}
	if outcome.State != StateAborted {
		t.Errorf("Expected aborted outcome, got %v", outcome.State)
	}
	if want := []int{0, 1}; !reflect.DeepEqual(backend.requestedPages, want) {
		t.Errorf("Requested pages = %v, want %v", backend.requestedPages, want)
	}
}

func TestServiceSearchHandsOffSelection(t *testing.T) {
	backend := exampleBackend("https://cdn/apk/base.apk")
	backend.pages = [][]*models.CatalogEntry{{
		{PackageName: "com.example.app", AppName: "Example"},
	}}

	t.Run("link only", func(t *testing.T) {
		transfer := &fakeTransfer{}
		var out bytes.Buffer
		service := NewService(backend, transfer, &out, ServiceOptions{OutputDir: t.TempDir()})

		outcome, err := service.Search(context.Background(), &scriptedPrompter{answers: []string{"example", "1"}}, true)
		if err != nil {
			t.Fatalf("Search returned error: %v", err)
		}
		if outcome.State != StateSelected {
			t.Errorf("Expected selected outcome, got %v", outcome.State)
		}
		if !strings.Contains(out.String(), "[1] https://cdn/apk/base.apk") {
			t.Errorf("Expected links to be printed, got:\n%s", out.String())
		}
		if len(transfer.calls) != 0 {
			t.Errorf("Expected no downloads, got %v", transfer.calls)
		}
	})

	t.Run("download", func(t *testing.T) {
		transfer := &fakeTransfer{}
		service := NewService(backend, transfer, &bytes.Buffer{}, ServiceOptions{OutputDir: t.TempDir()})

		if _, err := service.Search(context.Background(), &scriptedPrompter{answers: []string{"example", "1"}}, false); err != nil {
			t.Fatalf("Search returned error: %v", err)
		}
		if !reflect.DeepEqual(transfer.calls, []string{"com.example.app.1.apk"}) {
			t.Errorf("Unexpected transfers: %v", transfer.calls)
		}
	})

	t.Run("aborted", func(t *testing.T) {
		transfer := &fakeTransfer{}
		service := NewService(backend, transfer, &bytes.Buffer{}, ServiceOptions{OutputDir: t.TempDir()})

		outcome, err := service.Search(context.Background(), &scriptedPrompter{}, false)
		if err != nil || outcome.State != StateAborted {
			t.Fatalf("Expected clean abort, got %v, %v", outcome, err)
		}
		if len(transfer.calls) != 0 {
			t.Errorf("Expected no downloads, got %v", transfer.calls)
		}
	})
}

func TestLinePrompter(t *testing.T) {
	var out bytes.Buffer
	prompter := NewLinePrompter(strings.NewReader("first\r\nsecond"), &out)

	for _, want := range []string{"first", "second"} {
		got, err := prompter.Prompt(context.Background(), "> ")
		if err != nil {
			t.Fatalf("Prompt returned error: %v", err)
		}
		if got != want {
			t.Errorf("Prompt = %q, want %q", got, want)
		}
	}

	if _, err := prompter.Prompt(context.Background(), "> "); !errors.Is(err, io.EOF) {
		t.Errorf("Expected io.EOF, got %v", err)
	}
	if out.String() != "> > > " {
		t.Errorf("Unexpected prompt output %q", out.String())
	}
}

func TestLinePrompterCancelled(t *testing.T) {
	reader, writer := io.Pipe()
	defer writer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	prompter := NewLinePrompter(reader, io.Discard)

	done := make(chan error, 1)
	go func() {
		_, err := prompter.Prompt(ctx, "> ")
		done <- err
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Prompt did not return after cancellation")
	}
}
