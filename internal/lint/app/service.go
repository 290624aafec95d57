// Package app wires the lint workflow: read the event, list the pull
// request's files, run clang-tidy on the C/C++ ones and report.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cpp-linter/cpp-linter-action/internal/lint/domain"
	"github.com/cpp-linter/cpp-linter-action/internal/lint/ports"
)

// Grouper folds log output into collapsible sections on the runner.
type Grouper interface {
	StartGroup(name string)
	EndGroup()
}

// Deps are the adapters the service drives. Sources, Fixes, Format, Reporter
// and Groups are optional.
type Deps struct {
	Events   ports.EventSource
	Files    ports.ChangedFilesPort
	Sources  ports.SourcePort
	Linter   ports.LinterPort
	Fixes    ports.FixesParser
	Format   ports.FormatPort
	Reporter ports.Reporter
	Groups   Grouper
}

// Service runs one pull request check.
type Service struct {
	deps         Deps
	exts         domain.ExtensionSet
	paths        domain.PathFilter
	operatorArgs []string
	linesOnly    domain.LinesChangedOnly
	logger       *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLinesChangedOnly limits published findings to the lines mode selects.
func WithLinesChangedOnly(mode domain.LinesChangedOnly) Option {
	return func(s *Service) { s.linesOnly = mode }
}

// NewService creates a service. operatorArgs are forwarded to clang-tidy ahead
// of the fix-export flag and the file list.
func NewService(deps Deps, exts domain.ExtensionSet, paths domain.PathFilter, operatorArgs []string, logger *slog.Logger, opts ...Option) *Service {
	if deps.Groups == nil {
		deps.Groups = noopGrouper{}
	}
	s := &Service{
		deps:         deps,
		exts:         exts,
		paths:        paths,
		operatorArgs: operatorArgs,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run executes the check and returns the process exit code: clang-tidy's own
// status, ExitNeutral when no source file changed, or ExitFailure when
// anything before the tool's completion went wrong.
func (s *Service) Run(ctx context.Context) int {
	code, err := s.run(ctx)
	if err != nil {
		s.logger.Error("clang-tidy action failed", "error", err)
		return domain.ExitFailure
	}
	return code
}

func (s *Service) run(ctx context.Context) (int, error) {
	event, err := s.deps.Events.Load(ctx)
	if err != nil {
		return domain.ExitFailure, fmt.Errorf("loading event: %w", err)
	}
	log := s.logger.With("repo", event.FullName(), "pr", event.Number)
	log.Info("processing pull request event", "event", event.EventName)

	s.deps.Groups.StartGroup("Get list of changed source files")
	changed, err := s.deps.Files.ListChangedFiles(ctx, event.Owner, event.Repo, event.Number)
	if err != nil {
		s.deps.Groups.EndGroup()
		return domain.ExitFailure, err
	}
	sources := domain.FilterSourceFiles(changed, s.exts, s.paths)
	files := domain.Filenames(sources)
	log.Info("filtered changed files", "changed", len(changed), "sources", len(files))
	for _, f := range files {
		log.Debug("source file", "file", f)
	}
	s.deps.Groups.EndGroup()

	if len(files) == 0 {
		log.Info("no C/C++ files changed, skipping clang-tidy")
		return domain.ExitNeutral, nil
	}

	if s.deps.Sources != nil {
		fetched, err := s.deps.Sources.EnsurePresent(ctx, event.Owner, event.Repo, event.HeadSHA, files)
		if err != nil {
			return domain.ExitFailure, fmt.Errorf("fetching missing sources: %w", err)
		}
		if len(fetched) > 0 {
			log.Warn("downloaded files missing from checkout", "count", len(fetched))
		}
	}

	fixesPath, err := s.deps.Linter.NewFixesPath()
	if err != nil {
		return domain.ExitFailure, err
	}
	args := domain.BuildInvocation(s.operatorArgs, fixesPath, files)

	s.deps.Groups.StartGroup("Run clang-tidy")
	log.Info("running clang-tidy", "files", len(files), "fixes_file", fixesPath)
	code, err := s.deps.Linter.Run(ctx, args)
	s.deps.Groups.EndGroup()
	if err != nil {
		return domain.ExitFailure, err
	}
	log.Info("clang-tidy finished", "exit_code", code)

	report := domain.Report{
		Event:            event,
		Files:            files,
		FixesPath:        fixesPath,
		ExitCode:         code,
		LinesChangedOnly: s.linesOnly,
	}
	if s.linesOnly != domain.LinesAll {
		report.Changes = domain.ChangedLinesByFile(sources)
	}
	s.report(ctx, log, report)
	return code, nil
}

// report gathers findings and publishes them. Failures here are logged and
// never change the exit code.
func (s *Service) report(ctx context.Context, log *slog.Logger, report domain.Report) {
	if s.deps.Fixes != nil {
		diags, err := s.deps.Fixes.Parse(report.FixesPath)
		if err != nil {
			log.Warn("could not parse fixes file", "error", err)
		}
		report.Diagnostics = diags
	}

	if s.deps.Format != nil {
		s.deps.Groups.StartGroup("Run clang-format")
		for _, f := range report.Files {
			diff, err := s.deps.Format.CheckFormat(ctx, f)
			if err != nil {
				log.Warn("clang-format check failed", "file", f, "error", err)
				continue
			}
			if diff != "" {
				log.Info("file needs formatting", "file", f)
				log.Debug("clang-format diff", "file", f, "diff", diff)
				report.Formatting = append(report.Formatting, domain.FormatFinding{
					File:  f,
					Diff:  diff,
					Lines: domain.ReformattedLines(diff),
				})
			}
		}
		s.deps.Groups.EndGroup()
	}

	if s.deps.Reporter == nil {
		return
	}
	if err := s.deps.Reporter.Report(ctx, report); err != nil {
		log.Warn("could not publish report", "error", err)
	}
}

// Reporters fans a report out to several sinks. Every sink is attempted and
// the returned error joins all failures.
type Reporters []ports.Reporter

// Report implements ports.Reporter.
func (rs Reporters) Report(ctx context.Context, report domain.Report) error {
	var errs []error
	for _, r := range rs {
		if err := r.Report(ctx, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type noopGrouper struct{}

func (noopGrouper) StartGroup(string) {}
func (noopGrouper) EndGroup()         {}
