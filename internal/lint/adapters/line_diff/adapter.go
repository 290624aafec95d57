// Package linediff produces unified diffs between two versions of a file.
package linediff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// ContextLines is the number of unchanged lines shown around each hunk.
const ContextLines = 3

// Adapter computes line-based unified diffs with go-difflib.
type Adapter struct{}

// New creates a new line diff adapter.
func New() *Adapter {
	return &Adapter{}
}

// ComputeDiff returns a unified diff from base to head, or an empty string
// when the contents are identical.
func (a *Adapter) ComputeDiff(baseName, headName string, base, head []byte) string {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(base)),
		B:        difflib.SplitLines(string(head)),
		FromFile: baseName,
		ToFile:   headName,
		Context:  ContextLines,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return ""
	}
	return strings.TrimRight(text, " \n")
}
