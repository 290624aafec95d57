// Package ports declares the boundaries between the lint workflow and the
// outside world.
package ports

import (
	"context"

	"github.com/cpp-linter/cpp-linter-action/internal/lint/domain"
)

// EventSource loads the pull request event that triggered the run.
type EventSource interface {
	Load(ctx context.Context) (domain.PullRequestEvent, error)
}

// ChangedFilesPort lists the files touched by a pull request.
type ChangedFilesPort interface {
	ListChangedFiles(ctx context.Context, owner, repo string, number int) ([]domain.ChangedFile, error)
}

// SourcePort makes sure changed files exist in the local checkout.
type SourcePort interface {
	EnsurePresent(ctx context.Context, owner, repo, ref string, files []string) ([]string, error)
}

// LinterPort runs the analysis tool and returns its exit status.
type LinterPort interface {
	// NewFixesPath reserves a fresh file for the tool's fix export.
	NewFixesPath() (string, error)
	Run(ctx context.Context, args []string) (int, error)
}

// FixesParser reads a fix-export file into diagnostics.
type FixesParser interface {
	Parse(path string) ([]domain.Diagnostic, error)
}

// FormatPort checks a file against the configured clang-format style.
// It returns an empty diff when the file is already formatted.
type FormatPort interface {
	CheckFormat(ctx context.Context, file string) (string, error)
}

// Reporter publishes a finished run to the CI platform.
type Reporter interface {
	Report(ctx context.Context, report domain.Report) error
}
