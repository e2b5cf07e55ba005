package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/huanfeng/rustoredl/internal/i18n"
	"github.com/huanfeng/rustoredl/pkg/models"
)

// SearchState is a state of the interactive search loop
type SearchState int

const (
	StateAwaitingQuery SearchState = iota
	StateShowingPage
	StateSelected
	StateAborted
)

func (s SearchState) String() string {
	switch s {
	case StateAwaitingQuery:
		return "awaiting-query"
	case StateShowingPage:
		return "showing-page"
	case StateSelected:
		return "selected"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// UpdatedLayout formats catalog timestamps as dd.MM.yyyy HH:mm
const UpdatedLayout = "02.01.2006 15:04"

// CatalogSearcher fetches one page of catalog search results
type CatalogSearcher interface {
	SearchCatalog(ctx context.Context, query string, pageNumber int) (*models.SearchResultPage, error)
}

// SearchOutcome is the terminal result of a search session
type SearchOutcome struct {
	State    SearchState
	Query    string
	Page     int // 0-based page the selection was made on
	Selected *models.CatalogEntry
}

// SearchSession drives the query, page and selection prompts
type SearchSession struct {
	catalog  CatalogSearcher
	prompter Prompter
	out      io.Writer

	state SearchState
	query string
	page  int

	header  lipgloss.Style
	ordinal lipgloss.Style
	label   lipgloss.Style
}

// NewSearchSession creates a session in the AwaitingQuery state
func NewSearchSession(catalog CatalogSearcher, prompter Prompter, out io.Writer) *SearchSession {
	renderer := lipgloss.NewRenderer(out)
	return &SearchSession{
		catalog:  catalog,
		prompter: prompter,
		out:      out,
		state:    StateAwaitingQuery,
		header:   renderer.NewStyle().Faint(true),
		ordinal:  renderer.NewStyle().Bold(true),
		label:    renderer.NewStyle().Faint(true),
	}
}

// State returns the current state
func (s *SearchSession) State() SearchState {
	return s.state
}

// Run loops until an entry is selected or the operator gives up.
// End of input yields an Aborted outcome with a nil error; cancellation
// yields an Aborted outcome together with ctx.Err(). Backend failures end the
// loop and are returned as-is.
func (s *SearchSession) Run(ctx context.Context) (*SearchOutcome, error) {
	for {
		switch s.state {
		case StateAwaitingQuery:
			query, err := s.prompter.Prompt(ctx, i18n.T("search.query"))
			if err != nil {
				return s.abort(ctx, err)
			}
			s.query = strings.TrimSpace(query)
			s.page = 0
			s.state = StateShowingPage

		case StateShowingPage:
			if err := ctx.Err(); err != nil {
				return s.abort(ctx, err)
			}

			page, err := s.catalog.SearchCatalog(ctx, s.query, s.page)
			if err != nil {
				if ctx.Err() != nil {
					return s.abort(ctx, ctx.Err())
				}
				return nil, err
			}
			s.renderPage(page)

			label := "> "
			if n := len(page.Entries); n > 0 {
				label = fmt.Sprintf("[1-%d]> ", n)
			}
			answer, err := s.prompter.Prompt(ctx, label)
			if err != nil {
				return s.abort(ctx, err)
			}

			entry, ok := selectEntry(page.Entries, answer)
			if !ok {
				s.page++
				continue
			}

			s.state = StateSelected
			return &SearchOutcome{State: StateSelected, Query: s.query, Page: s.page, Selected: entry}, nil

		default:
			return &SearchOutcome{State: s.state, Query: s.query, Page: s.page}, nil
		}
	}
}

func (s *SearchSession) abort(ctx context.Context, err error) (*SearchOutcome, error) {
	s.state = StateAborted
	outcome := &SearchOutcome{State: StateAborted, Query: s.query, Page: s.page}
	if errors.Is(err, io.EOF) {
		fmt.Fprintln(s.out)
		return outcome, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return outcome, ctxErr
	}
	return outcome, err
}

// selectEntry parses a 1-based selection. Anything that is not an integer in
// range reports false, which advances the loop to the next page.
func selectEntry(entries []*models.CatalogEntry, answer string) (*models.CatalogEntry, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil || n < 1 || n > len(entries) {
		return nil, false
	}
	return entries[n-1], true
}

func (s *SearchSession) renderPage(page *models.SearchResultPage) {
	fmt.Fprintln(s.out, s.header.Render(i18n.T("search.page", map[string]interface{}{
		"Page": page.Number + 1,
	})))

	if len(page.Entries) == 0 {
		fmt.Fprintln(s.out, s.label.Render(i18n.T("search.empty")))
		return
	}

	for i, entry := range page.Entries {
		fmt.Fprintf(s.out, "%s━┳━[%s] [%s]\n", s.ordinal.Render(fmt.Sprintf("[%d]", i+1)), entry.PackageName, entry.AppName)
		s.renderField("┣━", "search.description", entry.ShortDescription)
		s.renderField("┣━", "search.company", entry.CompanyName)
		s.renderField("┣━", "search.version", strconv.FormatInt(entry.VersionCode, 10))
		s.renderField("┗━", "search.updated", formatUpdated(entry))
	}
}

func (s *SearchSession) renderField(branch, key, value string) {
	fmt.Fprintf(s.out, "    %s %s %s\n", branch, s.label.Render(i18n.T(key)+":"), value)
}

func formatUpdated(entry *models.CatalogEntry) string {
	if entry.UpdatedAt.IsZero() {
		return entry.RawUpdatedAt
	}
	return entry.UpdatedAt.Format(UpdatedLayout)
}
