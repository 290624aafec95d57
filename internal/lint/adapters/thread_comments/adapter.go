// Package threadcomments posts the run's summary as a pull request comment.
package threadcomments

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/go-github/v68/github"

	"github.com/cpp-linter/cpp-linter-action/internal/lint/domain"
)

// Marker opens every comment this adapter writes. Older comments starting
// with it are replaced on each run.
const Marker = "<!-- cpp linter action -->"

// Renderer produces the markdown body for a report.
type Renderer interface {
	RenderSummary(report domain.Report) (string, error)
}

// Adapter implements ports.Reporter by keeping a single up-to-date comment
// on the pull request thread.
type Adapter struct {
	client *github.Client
	render Renderer
	logger *slog.Logger
}

// New creates a thread comment adapter.
func New(client *github.Client, render Renderer, logger *slog.Logger) *Adapter {
	return &Adapter{client: client, render: render, logger: logger}
}

// Report removes earlier comments carrying Marker, then posts a new one when
// the checks failed. A clean run leaves the thread without a comment.
func (a *Adapter) Report(ctx context.Context, report domain.Report) error {
	owner, repo, number := report.Event.Owner, report.Event.Repo, report.Event.Number

	removed, err := a.removeStale(ctx, owner, repo, number)
	if err != nil {
		return err
	}
	if removed > 0 {
		a.logger.Info("removed outdated thread comments", "count", removed)
	}

	if !report.ChecksFailed() {
		return nil
	}

	body, err := a.render.RenderSummary(report)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(body, Marker) {
		body = Marker + "\n" + body
	}

	comment, _, err := a.client.Issues.CreateComment(ctx, owner, repo, number, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return fmt.Errorf("posting thread comment: %w", err)
	}
	a.logger.Info("posted thread comment", "comment_id", comment.GetID())
	return nil
}

// removeStale deletes this action's earlier comments. Matching comments are
// collected across all pages before any is deleted so deletions cannot
// shift the pagination.
func (a *Adapter) removeStale(ctx context.Context, owner, repo string, number int) (int, error) {
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var stale []int64
	for {
		comments, resp, err := a.client.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return 0, fmt.Errorf("listing thread comments: %w", err)
		}
		for _, c := range comments {
			if strings.HasPrefix(c.GetBody(), Marker) {
				stale = append(stale, c.GetID())
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	for _, id := range stale {
		if _, err := a.client.Issues.DeleteComment(ctx, owner, repo, id); err != nil {
			return 0, fmt.Errorf("deleting thread comment %d: %w", id, err)
		}
	}
	return len(stale), nil
}
