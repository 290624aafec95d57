// Package clangformat checks files against a clang-format style.
package clangformat

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/spf13/afero"
)

// ToolName is the executable's base name.
const ToolName = "clang-format"

// Differ computes a unified diff between two versions of a file.
type Differ interface {
	ComputeDiff(baseName, headName string, base, head []byte) string
}

// Adapter implements ports.FormatPort by running clang-format and diffing its
// output against the file on disk.
type Adapter struct {
	binary  string
	style   string
	workDir string
	fs      afero.Fs
	differ  Differ
}

// New creates a clang-format adapter. Files are resolved relative to workDir.
func New(binary, style, workDir string, differ Differ) *Adapter {
	return &Adapter{
		binary:  binary,
		style:   style,
		workDir: workDir,
		fs:      afero.NewBasePathFs(afero.NewOsFs(), workDir),
		differ:  differ,
	}
}

// CheckFormat returns the diff clang-format would apply to file, or an empty
// string when the file already conforms.
func (a *Adapter) CheckFormat(ctx context.Context, file string) (string, error) {
	original, err := afero.ReadFile(a.fs, file)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", file, err)
	}

	//nolint:gosec // G204: binary is resolved from PATH, file comes from the PR file list
	cmd := exec.CommandContext(ctx, a.binary, "-style="+a.style, file)
	cmd.Dir = a.workDir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running clang-format on %s: %w: %s", file, err, strings.TrimSpace(stderr.String()))
	}

	return a.differ.ComputeDiff(file, file+" (clang-format)", original, stdout.Bytes()), nil
}
