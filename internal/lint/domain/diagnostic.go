package domain

import "strconv"

// Level is the severity clang-tidy attached to a diagnostic.
type Level string

const (
	LevelWarning Level = "Warning"
	LevelError   Level = "Error"
	LevelRemark  Level = "Remark"
)

// Replacement is a single suggested edit from a fix export.
type Replacement struct {
	File   string
	Offset int
	Length int
	Text   string
	Line   int
	Column int
}

// Diagnostic represents one finding read from clang-tidy's fix export.
type Diagnostic struct {
	Name         string
	Message      string
	File         string
	Offset       int
	Line         int // 1-based, 0 when the source could not be read
	Column       int // 1-based, 0 when the source could not be read
	Level        Level
	Replacements []Replacement
}

// Location renders "file:line:col", omitting unknown parts.
func (d Diagnostic) Location() string {
	if d.Line == 0 {
		return d.File
	}
	return d.File + ":" + strconv.Itoa(d.Line) + ":" + strconv.Itoa(d.Column)
}

// HasFix reports whether clang-tidy suggested at least one replacement.
func (d Diagnostic) HasFix() bool {
	return len(d.Replacements) > 0
}

// CountByLevel returns counts of diagnostics grouped by level.
// Diagnostics without a level are counted as warnings.
func CountByLevel(diags []Diagnostic) (warnings, errs, remarks int) {
	for _, d := range diags {
		switch d.Level {
		case LevelError:
			errs++
		case LevelRemark:
			remarks++
		default:
			warnings++
		}
	}
	return
}

// GroupByFile groups diagnostics by File, preserving first-seen order.
func GroupByFile(diags []Diagnostic) [][]Diagnostic {
	order := make(map[string]int)
	var groups [][]Diagnostic

	for _, d := range diags {
		idx, exists := order[d.File]
		if !exists {
			idx = len(groups)
			order[d.File] = idx
			groups = append(groups, nil)
		}
		groups[idx] = append(groups[idx], d)
	}
	return groups
}

// FormatFinding is a file whose clang-format output differs from its contents.
type FormatFinding struct {
	File  string
	Diff  string
	Lines []int // lines of the original file clang-format rewrites
}

// Report aggregates everything produced by one run for the reporting sinks.
type Report struct {
	Event       PullRequestEvent
	Files       []string
	FixesPath   string
	ExitCode    int
	Diagnostics []Diagnostic
	Formatting  []FormatFinding

	// LinesChangedOnly and Changes scope findings to the pull request diff.
	LinesChangedOnly LinesChangedOnly
	Changes          map[string]ChangedLines
}

// InScope reports whether a finding at file:line should be published.
// Outside LinesAll, files without a recorded patch are out of scope.
func (r Report) InScope(file string, line int) bool {
	if r.LinesChangedOnly == LinesAll {
		return true
	}
	changes, ok := r.Changes[file]
	if !ok {
		return false
	}
	return changes.Contains(r.LinesChangedOnly, line)
}

// ScopedDiagnostics returns the diagnostics that are in scope, preserving order.
func (r Report) ScopedDiagnostics() []Diagnostic {
	if r.LinesChangedOnly == LinesAll {
		return r.Diagnostics
	}
	var out []Diagnostic
	for _, d := range r.Diagnostics {
		if r.InScope(d.File, d.Line) {
			out = append(out, d)
		}
	}
	return out
}

// ScopedFormatting returns formatting findings with Lines narrowed to the
// lines in scope. Findings left without lines are dropped unless every line
// is in scope.
func (r Report) ScopedFormatting() []FormatFinding {
	if r.LinesChangedOnly == LinesAll {
		return r.Formatting
	}
	var out []FormatFinding
	for _, f := range r.Formatting {
		if lines := r.ScopedLines(f); len(lines) > 0 {
			f.Lines = lines
			out = append(out, f)
		}
	}
	return out
}

// ScopedLines returns the lines of f that are in scope.
func (r Report) ScopedLines(f FormatFinding) []int {
	if r.LinesChangedOnly == LinesAll {
		return f.Lines
	}
	var out []int
	for _, n := range f.Lines {
		if r.InScope(f.File, n) {
			out = append(out, n)
		}
	}
	return out
}

// ChecksFailed reports whether the run produced any finding or a non-zero tool status.
func (r Report) ChecksFailed() bool {
	return r.ExitCode != ExitSuccess || len(r.Diagnostics) > 0 || len(r.Formatting) > 0
}
