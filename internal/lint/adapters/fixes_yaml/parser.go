// Package fixesyaml reads the YAML file clang-tidy writes for -export-fixes.
package fixesyaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/cpp-linter/cpp-linter-action/internal/lint/domain"
)

type exportFile struct {
	MainSourceFile string           `yaml:"MainSourceFile"`
	Diagnostics    []yamlDiagnostic `yaml:"Diagnostics"`
}

type yamlMessage struct {
	Message      string            `yaml:"Message"`
	FilePath     string            `yaml:"FilePath"`
	FileOffset   int               `yaml:"FileOffset"`
	Replacements []yamlReplacement `yaml:"Replacements"`
}

// yamlDiagnostic accepts both layouts: clang-tidy 9+ nests the message under
// DiagnosticMessage, older releases inline it.
type yamlDiagnostic struct {
	DiagnosticName    string       `yaml:"DiagnosticName"`
	DiagnosticMessage *yamlMessage `yaml:"DiagnosticMessage"`
	Level             string       `yaml:"Level"`
	yamlMessage       `yaml:",inline"`
}

type yamlReplacement struct {
	FilePath        string `yaml:"FilePath"`
	Offset          int    `yaml:"Offset"`
	Length          int    `yaml:"Length"`
	ReplacementText string `yaml:"ReplacementText"`
}

// Parser implements ports.FixesParser.
type Parser struct {
	fs   afero.Fs
	root string

	// sources caches file contents used for offset translation.
	sources map[string][]byte
}

// New creates a parser. Paths under root are reported relative to it.
func New(fs afero.Fs, root string) *Parser {
	return &Parser{fs: fs, root: root, sources: make(map[string][]byte)}
}

// Parse reads the export file at path. An empty file yields no diagnostics.
func (p *Parser) Parse(path string) ([]domain.Diagnostic, error) {
	raw, err := afero.ReadFile(p.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading fixes file: %w", err)
	}

	var diags []domain.Diagnostic
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	for {
		var doc exportFile
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding fixes file: %w", err)
		}
		for _, d := range doc.Diagnostics {
			diags = append(diags, p.convert(doc.MainSourceFile, d))
		}
	}
	return diags, nil
}

func (p *Parser) convert(mainFile string, d yamlDiagnostic) domain.Diagnostic {
	msg := d.yamlMessage
	if d.DiagnosticMessage != nil {
		msg = *d.DiagnosticMessage
	}

	file := msg.FilePath
	if file == "" {
		file = mainFile
	}

	diag := domain.Diagnostic{
		Name:    d.DiagnosticName,
		Message: msg.Message,
		File:    p.relative(file),
		Offset:  msg.FileOffset,
		Level:   domain.Level(d.Level),
	}
	diag.Line, diag.Column = p.position(file, msg.FileOffset)

	for _, r := range msg.Replacements {
		rfile := r.FilePath
		if rfile == "" {
			rfile = file
		}
		line, col := p.position(rfile, r.Offset)
		diag.Replacements = append(diag.Replacements, domain.Replacement{
			File:   p.relative(rfile),
			Offset: r.Offset,
			Length: r.Length,
			Text:   r.ReplacementText,
			Line:   line,
			Column: col,
		})
	}
	return diag
}

func (p *Parser) relative(file string) string {
	if p.root == "" || !filepath.IsAbs(file) {
		return filepath.ToSlash(file)
	}
	rel, err := filepath.Rel(p.root, file)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(file)
	}
	return filepath.ToSlash(rel)
}

// position translates a byte offset into a 1-based line and column.
// It returns zeros when the source cannot be read.
func (p *Parser) position(file string, offset int) (int, int) {
	src, ok := p.sources[file]
	if !ok {
		path := file
		if !filepath.IsAbs(path) && p.root != "" {
			path = filepath.Join(p.root, path)
		}
		data, err := afero.ReadFile(p.fs, path)
		if err != nil {
			data = nil
		}
		p.sources[file] = data
		src = data
	}
	if src == nil || offset < 0 || offset > len(src) {
		return 0, 0
	}
	return LineColumn(src, offset)
}

// LineColumn converts a byte offset within src into a 1-based line and column.
func LineColumn(src []byte, offset int) (int, int) {
	before := src[:offset]
	line := bytes.Count(before, []byte{'\n'}) + 1
	col := offset - bytes.LastIndexByte(before, '\n')
	return line, col
}
