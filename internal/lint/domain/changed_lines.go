package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// LinesChangedOnly selects which lines of a changed file findings are
// reported on.
type LinesChangedOnly int

const (
	// LinesAll reports findings anywhere in a changed file.
	LinesAll LinesChangedOnly = iota
	// LinesDiff limits findings to the hunks shown in the pull request diff.
	LinesDiff
	// LinesAdded limits findings to lines the pull request added.
	LinesAdded
)

// ParseLinesChangedOnly accepts off, diff or added. The boolean spellings
// true and false map to diff and off.
func ParseLinesChangedOnly(s string) (LinesChangedOnly, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "off", "false", "0":
		return LinesAll, nil
	case "diff", "true", "1":
		return LinesDiff, nil
	case "added", "2":
		return LinesAdded, nil
	}
	return LinesAll, fmt.Errorf("unknown lines-changed-only mode %q (want off, diff or added)", s)
}

func (m LinesChangedOnly) String() string {
	switch m {
	case LinesDiff:
		return "diff"
	case LinesAdded:
		return "added"
	default:
		return "off"
	}
}

// LineRange is the half-open range [Start, End) of 1-based line numbers.
type LineRange struct {
	Start int
	End   int
}

// Contains reports whether line falls inside the range.
func (r LineRange) Contains(line int) bool {
	return line >= r.Start && line < r.End
}

// ChangedLines records which lines of the new file version a patch touches.
type ChangedLines struct {
	Hunks []LineRange
	Added []LineRange
}

// Contains reports whether line is in scope for mode. Every line is in scope
// for LinesAll.
func (c ChangedLines) Contains(mode LinesChangedOnly, line int) bool {
	var ranges []LineRange
	switch mode {
	case LinesDiff:
		ranges = c.Hunks
	case LinesAdded:
		ranges = c.Added
	default:
		return true
	}
	for _, r := range ranges {
		if r.Contains(line) {
			return true
		}
	}
	return false
}

// ParsePatch reads a unified diff fragment as returned by the pull request
// files API and returns the hunk and added-line ranges of the new version.
func ParsePatch(patch string) ChangedLines {
	var (
		out    ChangedLines
		added  []int
		line   int
		inHunk bool
	)
	for _, text := range strings.Split(patch, "\n") {
		if h, ok := parseHunkHeader(text); ok {
			out.Hunks = append(out.Hunks, LineRange{Start: h.newStart, End: h.newStart + h.newLen})
			line = h.newStart
			inHunk = true
			continue
		}
		if !inHunk {
			continue
		}
		switch {
		case strings.HasPrefix(text, "+"):
			added = append(added, line)
			line++
		case strings.HasPrefix(text, "-"), strings.HasPrefix(text, `\`):
		default:
			line++
		}
	}
	out.Added = ConsolidateLines(added)
	return out
}

// ChangedLinesByFile parses the patch of every file, keyed by file name.
func ChangedLinesByFile(files []ChangedFile) map[string]ChangedLines {
	out := make(map[string]ChangedLines, len(files))
	for _, f := range files {
		out[f.Filename] = ParsePatch(f.Patch)
	}
	return out
}

// ConsolidateLines merges ascending line numbers into contiguous ranges.
func ConsolidateLines(lines []int) []LineRange {
	var ranges []LineRange
	for _, n := range lines {
		if last := len(ranges) - 1; last >= 0 && ranges[last].End == n {
			ranges[last].End = n + 1
			continue
		}
		ranges = append(ranges, LineRange{Start: n, End: n + 1})
	}
	return ranges
}

// ReformattedLines returns the lines of the original file that a unified
// diff (original first, formatted second) rewrites. A pure insertion is
// reported at the line it precedes.
func ReformattedLines(diff string) []int {
	var (
		lines  []int
		line   int
		inHunk bool
		prev   string
	)
	record := func(n int) {
		if len(lines) == 0 || lines[len(lines)-1] != n {
			lines = append(lines, n)
		}
	}
	for _, text := range strings.Split(diff, "\n") {
		if h, ok := parseHunkHeader(text); ok {
			line = h.oldStart
			inHunk = true
			prev = ""
			continue
		}
		if !inHunk {
			continue
		}
		switch {
		case strings.HasPrefix(text, "-"):
			record(line)
			line++
		case strings.HasPrefix(text, "+"):
			if !strings.HasPrefix(prev, "-") && !strings.HasPrefix(prev, "+") {
				record(line)
			}
		case strings.HasPrefix(text, `\`):
		default:
			line++
		}
		prev = text
	}
	return lines
}

type hunkHeader struct {
	oldStart, oldLen int
	newStart, newLen int
}

// parseHunkHeader reads "@@ -a,b +c,d @@". Omitted lengths default to 1.
func parseHunkHeader(s string) (hunkHeader, bool) {
	if !strings.HasPrefix(s, "@@ -") {
		return hunkHeader{}, false
	}
	body := s[3:]
	end := strings.Index(body, " @@")
	if end < 0 {
		return hunkHeader{}, false
	}
	fields := strings.Fields(body[:end])
	if len(fields) != 2 || !strings.HasPrefix(fields[0], "-") || !strings.HasPrefix(fields[1], "+") {
		return hunkHeader{}, false
	}

	var h hunkHeader
	var okOld, okNew bool
	h.oldStart, h.oldLen, okOld = parseHunkRange(fields[0][1:])
	h.newStart, h.newLen, okNew = parseHunkRange(fields[1][1:])
	return h, okOld && okNew
}

func parseHunkRange(s string) (start, length int, ok bool) {
	startText, lenText, found := strings.Cut(s, ",")
	start, err := strconv.Atoi(startText)
	if err != nil {
		return 0, 0, false
	}
	if !found {
		return start, 1, true
	}
	length, err = strconv.Atoi(lenText)
	if err != nil {
		return 0, 0, false
	}
	return start, length, true
}
