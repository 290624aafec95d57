package workflow

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/spf13/afero"

	"github.com/cpp-linter/cpp-linter-action/internal/lint/domain"
)

//go:embed summary.md.tmpl
var summaryTemplate string

// Options selects which sinks the reporter writes to. Empty paths disable
// the corresponding sink.
type Options struct {
	OutputPath  string // GITHUB_OUTPUT
	SummaryPath string // GITHUB_STEP_SUMMARY
	Annotations bool
	Style       string // clang-format style named in formatting annotations
}

// Reporter implements ports.Reporter for GitHub Actions runners.
type Reporter struct {
	out    io.Writer
	fs     afero.Fs
	opts   Options
	tmpl   *template.Template
	logger *slog.Logger
}

// New creates a reporter writing workflow commands to out.
func New(out io.Writer, fs afero.Fs, opts Options, logger *slog.Logger) *Reporter {
	tmpl := template.Must(template.New("summary").Funcs(sprig.TxtFuncMap()).Parse(summaryTemplate))
	return &Reporter{out: out, fs: fs, opts: opts, tmpl: tmpl, logger: logger}
}

// StartGroup opens a collapsible log group.
func (r *Reporter) StartGroup(name string) {
	fmt.Fprintln(r.out, "::group::"+dataEscaper.Replace(name))
}

// EndGroup closes the current log group.
func (r *Reporter) EndGroup() {
	fmt.Fprintln(r.out, "::endgroup::")
}

// Report publishes annotations, step outputs and the job summary. Every sink
// is attempted; the returned error joins all failures.
func (r *Reporter) Report(_ context.Context, report domain.Report) error {
	if r.opts.Annotations {
		n := r.annotate(report)
		r.logger.Info("created annotations", "count", n)
	}

	var errs []error
	if err := r.writeOutputs(report); err != nil {
		errs = append(errs, err)
	}
	if err := r.writeSummary(report); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (r *Reporter) annotate(report domain.Report) int {
	count := 0
	for _, d := range report.ScopedDiagnostics() {
		props := map[string]string{
			"file":  d.File,
			"title": fmt.Sprintf("%s [%s]", d.Location(), d.Name),
		}
		if d.Line > 0 {
			props["line"] = strconv.Itoa(d.Line)
			props["col"] = strconv.Itoa(d.Column)
		}
		fmt.Fprintln(r.out, Command(annotationLevel(d.Level), props, d.Message))
		count++
	}
	for _, f := range report.ScopedFormatting() {
		fmt.Fprintln(r.out, formatCommand(f, r.opts.Style))
		count++
	}
	return count
}

// formatCommand renders a notice pointing at the first line clang-format
// rewrites and listing the rest in the message.
func formatCommand(f domain.FormatFinding, style string) string {
	props := map[string]string{
		"file":  f.File,
		"title": "Run clang-format on " + f.File,
	}
	msg := fmt.Sprintf("File %s: Code does not conform to %s style guidelines.", f.File, styleName(style))
	if len(f.Lines) > 0 {
		props["line"] = strconv.Itoa(f.Lines[0])
		lines := make([]string, 0, len(f.Lines))
		for _, n := range f.Lines {
			lines = append(lines, strconv.Itoa(n))
		}
		msg = fmt.Sprintf("File %s (lines %s): Code does not conform to %s style guidelines.",
			f.File, strings.Join(lines, ", "), styleName(style))
	}
	return Command("notice", props, msg)
}

// styleName renders a predefined clang-format style the way its authors
// spell it. Anything else, such as "file" or an inline configuration, is Custom.
func styleName(style string) string {
	switch style {
	case "llvm", "gnu":
		return strings.ToUpper(style)
	case "google", "webkit", "mozilla":
		return strings.ToUpper(style[:1]) + style[1:]
	default:
		return "Custom"
	}
}

func annotationLevel(l domain.Level) string {
	switch l {
	case domain.LevelError:
		return "error"
	case domain.LevelRemark:
		return "notice"
	default:
		return "warning"
	}
}

func (r *Reporter) writeOutputs(report domain.Report) error {
	if r.opts.OutputPath == "" {
		return nil
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "fixes-file=%s\n", report.FixesPath)
	fmt.Fprintf(&sb, "checks-failed=%t\n", report.ChecksFailed())
	fmt.Fprintf(&sb, "exit-code=%d\n", report.ExitCode)
	return r.appendFile(r.opts.OutputPath, sb.String())
}

type summaryData struct {
	domain.Report
	Groups   [][]domain.Diagnostic
	Warnings int
	Errors   int
	Remarks  int
}

// RenderSummary renders the markdown job summary for report, limited to the
// findings in scope.
func (r *Reporter) RenderSummary(report domain.Report) (string, error) {
	report.Diagnostics = report.ScopedDiagnostics()
	report.Formatting = report.ScopedFormatting()
	data := summaryData{Report: report, Groups: domain.GroupByFile(report.Diagnostics)}
	data.Warnings, data.Errors, data.Remarks = domain.CountByLevel(report.Diagnostics)

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering summary: %w", err)
	}
	return buf.String(), nil
}

func (r *Reporter) writeSummary(report domain.Report) error {
	if r.opts.SummaryPath == "" {
		return nil
	}
	md, err := r.RenderSummary(report)
	if err != nil {
		return err
	}
	return r.appendFile(r.opts.SummaryPath, md)
}

func (r *Reporter) appendFile(path, content string) error {
	f, err := r.fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		//nolint:errcheck // Best effort cleanup on error path
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
