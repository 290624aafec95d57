// Package sourcectrl fills in changed files missing from the local checkout.
package sourcectrl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	gogithub "github.com/google/go-github/v68/github"
	"github.com/spf13/afero"

	"github.com/cpp-linter/cpp-linter-action/internal/lint/domain"
)

// Adapter implements ports.SourcePort by downloading file contents from
// GitHub at the pull request's head commit.
type Adapter struct {
	client *gogithub.Client
	fs     afero.Fs
	logger *slog.Logger
}

// New creates a source control adapter writing into fs, which should be rooted
// at the workspace directory.
func New(client *gogithub.Client, fs afero.Fs, logger *slog.Logger) *Adapter {
	return &Adapter{client: client, fs: fs, logger: logger}
}

// EnsurePresent downloads every file in files that does not exist locally.
// It returns the names that had to be fetched.
func (a *Adapter) EnsurePresent(ctx context.Context, owner, repo, ref string, files []string) ([]string, error) {
	var fetched []string
	for _, name := range files {
		if err := validatePath(name); err != nil {
			return fetched, err
		}

		exists, err := afero.Exists(a.fs, name)
		if err != nil {
			return fetched, fmt.Errorf("checking %s: %w", name, err)
		}
		if exists {
			continue
		}

		a.logger.Warn("file missing from checkout, downloading", "file", name, "ref", ref)
		if err := a.download(ctx, owner, repo, ref, name); err != nil {
			return fetched, err
		}
		fetched = append(fetched, name)
	}
	return fetched, nil
}

func (a *Adapter) download(ctx context.Context, owner, repo, ref, name string) error {
	rc, resp, err := a.client.Repositories.DownloadContents(ctx, owner, repo, name, &gogithub.RepositoryContentGetOptions{
		Ref: ref,
	})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			err = domain.NewNotFoundError(name, ref)
		}
		return fmt.Errorf("downloading %s: %w", name, err)
	}
	//nolint:errcheck // Deferred cleanup, error not actionable
	defer func() { _ = rc.Close() }()

	//nolint:gosec // G301: Standard directory permissions for checked-out sources
	if err := a.fs.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return fmt.Errorf("creating parent directory: %w", err)
	}

	f, err := a.fs.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}

	if _, err := io.Copy(f, rc); err != nil {
		//nolint:errcheck // Best effort cleanup on error path
		_ = f.Close()
		return fmt.Errorf("writing file: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing file: %w", err)
	}
	return nil
}

// validatePath rejects names that would escape the workspace.
func validatePath(name string) error {
	clean := filepath.Clean(name)
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(os.PathSeparator)) {
		return fmt.Errorf("illegal file path from API: %s", name)
	}
	return nil
}
