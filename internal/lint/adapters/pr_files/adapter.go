package prfiles

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v68/github"
	"golang.org/x/time/rate"

	"github.com/cpp-linter/cpp-linter-action/internal/lint/domain"
)

const (
	// PerPage is the largest page size the pull request files endpoint accepts.
	PerPage = 100
	// DefaultMaxFiles matches the number of files GitHub will list for one pull request.
	DefaultMaxFiles = 3000
)

// Adapter implements ports.ChangedFilesPort by querying the GitHub API
// for files changed in a pull request.
type Adapter struct {
	client   *github.Client
	limiter  *rate.Limiter
	maxFiles int
	logger   *slog.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithMaxFiles caps the number of files fetched. Values <= 0 select DefaultMaxFiles.
func WithMaxFiles(n int) Option {
	return func(a *Adapter) {
		if n > 0 {
			a.maxFiles = n
		}
	}
}

// WithRateLimit paces page requests to rps per second. Values <= 0 disable pacing.
func WithRateLimit(rps float64) Option {
	return func(a *Adapter) {
		if rps > 0 {
			a.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			a.limiter = rate.NewLimiter(rate.Inf, 1)
		}
	}
}

// WithLogger sets the logger used for truncation warnings.
func WithLogger(l *slog.Logger) Option {
	return func(a *Adapter) { a.logger = l }
}

// New creates a new PR files adapter.
func New(client *github.Client, opts ...Option) *Adapter {
	a := &Adapter{
		client:   client,
		limiter:  rate.NewLimiter(rate.Inf, 1),
		maxFiles: DefaultMaxFiles,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ListChangedFiles returns the files modified in the PR in API order,
// following pagination until exhausted or the cap is reached.
func (a *Adapter) ListChangedFiles(ctx context.Context, owner, repo string, prNumber int) ([]domain.ChangedFile, error) {
	client := a.client

	var changedFiles []domain.ChangedFile
	opts := &github.ListOptions{
		PerPage: PerPage,
	}

	for {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}

		files, resp, err := client.PullRequests.ListFiles(ctx, owner, repo, prNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("listing PR files: %w", err)
		}

		for _, file := range files {
			if len(changedFiles) == a.maxFiles {
				a.logger.Warn("pull request file list truncated", "max_files", a.maxFiles)
				return changedFiles, nil
			}
			changedFiles = append(changedFiles, domain.ChangedFile{
				Filename: file.GetFilename(),
				Status:   file.GetStatus(),
				Patch:    file.GetPatch(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		if len(changedFiles) >= a.maxFiles {
			a.logger.Warn("pull request file list truncated", "max_files", a.maxFiles)
			return changedFiles, nil
		}
		opts.Page = resp.NextPage
	}

	return changedFiles, nil
}
