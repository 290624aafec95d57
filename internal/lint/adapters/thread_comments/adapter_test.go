package threadcomments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-github/v68/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpp-linter/cpp-linter-action/internal/lint/domain"
)

type renderFunc func(domain.Report) (string, error)

func (f renderFunc) RenderSummary(r domain.Report) (string, error) { return f(r) }

type comment struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
}

// thread fakes the issue comments API for acme/widgets#42.
type thread struct {
	mu      sync.Mutex
	pages   [][]comment
	deleted []int64
	posted  []string
}

func newTestAdapter(t *testing.T, th *thread, render Renderer) *Adapter {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	mux.HandleFunc("/repos/acme/widgets/issues/42/comments", func(w http.ResponseWriter, r *http.Request) {
		th.mu.Lock()
		defer th.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")

		switch r.Method {
		case http.MethodGet:
			page := 1
			if p := r.URL.Query().Get("page"); p != "" {
				page, _ = strconv.Atoi(p)
			}
			if page < len(th.pages) {
				next := fmt.Sprintf("%s/repos/acme/widgets/issues/42/comments?page=%d&per_page=100", srv.URL, page+1)
				w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="next"`, next))
			}
			_ = json.NewEncoder(w).Encode(th.pages[page-1])
		case http.MethodPost:
			var c comment
			if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
				t.Errorf("decoding comment: %v", err)
			}
			th.posted = append(th.posted, c.Body)
			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(comment{ID: 99, Body: c.Body})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/repos/acme/widgets/issues/comments/", func(w http.ResponseWriter, r *http.Request) {
		th.mu.Lock()
		defer th.mu.Unlock()
		if r.Method != http.MethodDelete {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		id, err := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/repos/acme/widgets/issues/comments/"), 10, 64)
		if err != nil {
			t.Errorf("comment id: %v", err)
		}
		th.deleted = append(th.deleted, id)
		w.WriteHeader(http.StatusNoContent)
	})

	client := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	return New(client, render, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func failedReport() domain.Report {
	return domain.Report{
		Event:    domain.PullRequestEvent{Owner: "acme", Repo: "widgets", Number: 42},
		Files:    []string{"a.c"},
		ExitCode: 1,
	}
}

func TestAdapter_Report_ReplacesOldComments(t *testing.T) {
	th := &thread{pages: [][]comment{
		{{ID: 1, Body: Marker + "\nold results"}, {ID: 2, Body: "LGTM"}},
		{{ID: 3, Body: Marker + "\nolder results"}, {ID: 4, Body: "quoting " + Marker}},
	}}
	render := renderFunc(func(r domain.Report) (string, error) {
		return Marker + "\n## results for " + r.Event.FullName(), nil
	})
	a := newTestAdapter(t, th, render)

	require.NoError(t, a.Report(context.Background(), failedReport()))

	assert.Equal(t, []int64{1, 3}, th.deleted)
	assert.Equal(t, []string{Marker + "\n## results for acme/widgets"}, th.posted)
}

func TestAdapter_Report_AddsMarker(t *testing.T) {
	th := &thread{pages: [][]comment{{}}}
	a := newTestAdapter(t, th, renderFunc(func(domain.Report) (string, error) {
		return "plain body", nil
	}))

	require.NoError(t, a.Report(context.Background(), failedReport()))

	require.Len(t, th.posted, 1)
	assert.Equal(t, Marker+"\nplain body", th.posted[0])
}

func TestAdapter_Report_CleanRunOnlyRemoves(t *testing.T) {
	th := &thread{pages: [][]comment{{{ID: 7, Body: Marker + "\nstale"}}}}
	rendered := false
	a := newTestAdapter(t, th, renderFunc(func(domain.Report) (string, error) {
		rendered = true
		return "", nil
	}))

	report := failedReport()
	report.ExitCode = 0
	require.NoError(t, a.Report(context.Background(), report))

	assert.Equal(t, []int64{7}, th.deleted)
	assert.Empty(t, th.posted)
	assert.False(t, rendered)
}

func TestAdapter_Report_RenderError(t *testing.T) {
	th := &thread{pages: [][]comment{{}}}
	a := newTestAdapter(t, th, renderFunc(func(domain.Report) (string, error) {
		return "", errors.New("template broke")
	}))

	err := a.Report(context.Background(), failedReport())

	assert.ErrorContains(t, err, "template broke")
	assert.Empty(t, th.posted)
}

func TestAdapter_Report_ListError(t *testing.T) {
	th := &thread{pages: [][]comment{{}}}
	a := newTestAdapter(t, th, renderFunc(func(domain.Report) (string, error) { return "x", nil }))

	report := failedReport()
	report.Event.Number = 43
	err := a.Report(context.Background(), report)

	assert.ErrorContains(t, err, "listing thread comments")
}
