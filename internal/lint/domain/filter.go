package domain

import (
	"path"
	"strings"
)

// DefaultExtensions are the C/C++ source and header extensions linted by default.
var DefaultExtensions = []string{"c", "h", "C", "H", "cpp", "hpp", "cc", "hh", "c++", "h++", "cxx", "hxx"}

// ExtensionSet is an allowlist of file extensions, without the leading dot.
// Matching is case-sensitive: "C" and "c" are distinct entries.
type ExtensionSet map[string]struct{}

// NewExtensionSet builds a set from extensions such as "cpp" or ".cpp".
// Blank entries are ignored.
func NewExtensionSet(exts []string) ExtensionSet {
	set := make(ExtensionSet, len(exts))
	for _, e := range exts {
		e = strings.TrimPrefix(strings.TrimSpace(e), ".")
		if e == "" {
			continue
		}
		set[e] = struct{}{}
	}
	return set
}

// Matches reports whether the extension of filename is in the set.
// Only the base name is inspected, so directories containing dots do not match.
func (s ExtensionSet) Matches(filename string) bool {
	base := path.Base(filename)
	idx := strings.LastIndexByte(base, '.')
	if idx <= 0 || idx == len(base)-1 {
		return false
	}
	_, ok := s[base[idx+1:]]
	return ok
}

// PathFilter decides which repository paths are excluded from linting.
// Entries match a file if they equal it or are one of its parent directories.
type PathFilter struct {
	Ignored    []string
	NotIgnored []string
}

// ParsePathFilter parses a "|"-separated list of paths. Entries prefixed with
// "!" are explicitly not ignored, which takes precedence over any ignored parent.
func ParsePathFilter(list string) PathFilter {
	var pf PathFilter
	for _, raw := range strings.Split(list, "|") {
		p := strings.TrimSpace(raw)
		include := strings.HasPrefix(p, "!")
		p = strings.TrimPrefix(p, "!")
		p = strings.TrimPrefix(p, "./")
		p = strings.TrimSuffix(p, "/")
		if p == "" {
			continue
		}
		if include {
			pf.NotIgnored = append(pf.NotIgnored, p)
		} else {
			pf.Ignored = append(pf.Ignored, p)
		}
	}
	return pf
}

// Excludes reports whether filename should be skipped.
func (pf PathFilter) Excludes(filename string) bool {
	if !containsPath(pf.Ignored, filename) {
		return false
	}
	return !containsPath(pf.NotIgnored, filename)
}

func containsPath(paths []string, filename string) bool {
	for _, p := range paths {
		if p == "." || filename == p || strings.HasPrefix(filename, p+"/") {
			return true
		}
	}
	return false
}

// FilterSourceFiles returns the files worth linting, preserving API order.
// Removed files are dropped since there is nothing left on disk to analyze.
func FilterSourceFiles(files []ChangedFile, exts ExtensionSet, paths PathFilter) []ChangedFile {
	var out []ChangedFile
	for _, f := range files {
		if f.Status == FileRemoved {
			continue
		}
		if !exts.Matches(f.Filename) {
			continue
		}
		if paths.Excludes(f.Filename) {
			continue
		}
		out = append(out, f)
	}
	return out
}
