// Package clangtidy runs the clang-tidy executable as a subprocess.
package clangtidy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/cpp-linter/cpp-linter-action/internal/lint/domain"
)

// ToolName is the executable's base name.
const ToolName = "clang-tidy"

// Adapter implements ports.LinterPort by invoking clang-tidy with the
// parent's standard streams.
type Adapter struct {
	binary  string
	workDir string
	tempDir string
	fs      afero.Fs

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithTempDir sets where fix-export files are created.
func WithTempDir(dir string) Option {
	return func(a *Adapter) { a.tempDir = dir }
}

// WithFs sets the filesystem used to reserve fix-export files.
func WithFs(fs afero.Fs) Option {
	return func(a *Adapter) { a.fs = fs }
}

// WithStreams overrides the inherited standard streams.
func WithStreams(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(a *Adapter) {
		a.stdin, a.stdout, a.stderr = stdin, stdout, stderr
	}
}

// New creates a clang-tidy adapter that runs binary from workDir.
func New(binary, workDir string, opts ...Option) *Adapter {
	a := &Adapter{
		binary:  binary,
		workDir: workDir,
		tempDir: os.TempDir(),
		fs:      afero.NewOsFs(),
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Resolve finds the executable for tool. An explicit path wins; otherwise a
// versioned name such as clang-tidy-17 is preferred over the bare name.
func Resolve(tool, explicit, version string) (string, error) {
	if explicit != "" {
		p, err := exec.LookPath(explicit)
		if err != nil {
			return "", domain.NewToolNotFoundError(tool, []string{explicit})
		}
		return p, nil
	}

	candidates := []string{tool}
	if version != "" {
		candidates = []string{tool + "-" + version, tool}
	}
	for _, c := range candidates {
		if p, err := exec.LookPath(c); err == nil {
			return p, nil
		}
	}
	return "", domain.NewToolNotFoundError(tool, candidates)
}

// NewFixesPath creates an empty, uniquely named file for the fix export.
// The file is left in place after the run for downstream reporting steps.
func (a *Adapter) NewFixesPath() (string, error) {
	path := filepath.Join(a.tempDir, "clang-tidy-fixes-"+uuid.NewString()+".yaml")
	f, err := a.fs.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("creating fixes file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing fixes file: %w", err)
	}
	return path, nil
}

// Run executes clang-tidy and returns its exit status unchanged. An error is
// returned only when the process could not be started or did not exit normally.
func (a *Adapter) Run(ctx context.Context, args []string) (int, error) {
	//nolint:gosec // G204: arguments are the operator's own clang-tidy options
	cmd := exec.CommandContext(ctx, a.binary, args...)
	cmd.Dir = a.workDir
	cmd.Stdin = a.stdin
	cmd.Stdout = a.stdout
	cmd.Stderr = a.stderr

	err := cmd.Run()
	if err == nil {
		return domain.ExitSuccess, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode(), nil
	}
	return domain.ExitFailure, fmt.Errorf("running %s: %w", filepath.Base(a.binary), err)
}
