// Package main runs clang-tidy on the C/C++ files changed by a pull request.
//
// Every command-line argument is forwarded to clang-tidy unchanged. The
// action's own settings come from the environment (see internal/config).
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/cpp-linter/cpp-linter-action/internal/config"
	clangformat "github.com/cpp-linter/cpp-linter-action/internal/lint/adapters/clang_format"
	clangtidy "github.com/cpp-linter/cpp-linter-action/internal/lint/adapters/clang_tidy"
	eventfile "github.com/cpp-linter/cpp-linter-action/internal/lint/adapters/event_file"
	fixesyaml "github.com/cpp-linter/cpp-linter-action/internal/lint/adapters/fixes_yaml"
	ghclient "github.com/cpp-linter/cpp-linter-action/internal/lint/adapters/gh_client"
	linediff "github.com/cpp-linter/cpp-linter-action/internal/lint/adapters/line_diff"
	prfiles "github.com/cpp-linter/cpp-linter-action/internal/lint/adapters/pr_files"
	sourcectrl "github.com/cpp-linter/cpp-linter-action/internal/lint/adapters/source_ctrl"
	threadcomments "github.com/cpp-linter/cpp-linter-action/internal/lint/adapters/thread_comments"
	"github.com/cpp-linter/cpp-linter-action/internal/lint/adapters/workflow"
	"github.com/cpp-linter/cpp-linter-action/internal/lint/app"
	"github.com/cpp-linter/cpp-linter-action/internal/lint/domain"
)

func main() {
	exitCode := domain.ExitFailure
	cmd := newRootCmd(&exitCode)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(domain.ExitFailure)
	}
	os.Exit(exitCode)
}

func newRootCmd(exitCode *int) *cobra.Command {
	return &cobra.Command{
		Use:   "clang-tidy-action [clang-tidy args...]",
		Short: "Run clang-tidy on the C/C++ files changed by a pull request",
		Long: `Reads the pull request event from GITHUB_EVENT_PATH, lists the changed files
through the GitHub API and runs clang-tidy on the C/C++ sources among them.

All arguments are passed to clang-tidy verbatim, followed by
-export-fixes=<tmp file> and the file list. The process exits with clang-tidy's
status, 78 when no source file changed, or 1 on any other failure.`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		SilenceErrors:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".env")
			if err != nil {
				return err
			}
			*exitCode = run(cmd.Context(), cfg, args)
			return nil
		},
	}
}

func run(ctx context.Context, cfg config.Config, operatorArgs []string) int {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})).
		With("run_id", uuid.NewString())

	client, err := ghclient.New(ghclient.Options{
		APIURL:         cfg.APIURL,
		Token:          cfg.Token,
		AppID:          cfg.AppID,
		InstallationID: cfg.InstallationID,
		PrivateKeyPath: cfg.PrivateKeyPath,
		RetryMax:       cfg.APIRetries,
		Logger:         logger,
	})
	if err != nil {
		logger.Error("creating GitHub client", "error", err)
		return domain.ExitFailure
	}

	osFs := afero.NewOsFs()
	reporter := workflow.New(os.Stdout, osFs, workflow.Options{
		OutputPath:  cfg.OutputPath,
		SummaryPath: cfg.SummaryPath,
		Annotations: cfg.Annotations,
		Style:       cfg.Style,
	}, logger)
	reporters := app.Reporters{reporter}
	if cfg.ThreadComments {
		reporters = append(reporters, threadcomments.New(client, reporter, logger))
	}

	deps := app.Deps{
		Events: eventfile.New(osFs, cfg.EventPath, cfg.EventName),
		Files: prfiles.New(client,
			prfiles.WithMaxFiles(cfg.MaxFiles),
			prfiles.WithRateLimit(cfg.APIRate),
			prfiles.WithLogger(logger),
		),
		Linter:   clangtidy.New(resolveTool(logger, clangtidy.ToolName, cfg.ClangTidy, cfg.Version), cfg.WorkspaceDir),
		Fixes:    fixesyaml.New(osFs, cfg.WorkspaceDir),
		Reporter: reporters,
		Groups:   reporter,
	}

	if cfg.Download {
		deps.Sources = sourcectrl.New(client, afero.NewBasePathFs(osFs, cfg.WorkspaceDir), logger)
	}

	if cfg.Style != "" {
		if bin, err := clangtidy.Resolve(clangformat.ToolName, cfg.ClangFormat, cfg.Version); err != nil {
			logger.Warn("clang-format check disabled", "error", err)
		} else {
			deps.Format = clangformat.New(bin, cfg.Style, cfg.WorkspaceDir, linediff.New())
		}
	}

	svc := app.NewService(
		deps,
		domain.NewExtensionSet(cfg.Extensions),
		domain.ParsePathFilter(cfg.Ignore),
		operatorArgs,
		logger,
		app.WithLinesChangedOnly(cfg.LinesChangedOnly),
	)
	return svc.Run(ctx)
}

// resolveTool falls back to the bare tool name so a missing binary surfaces
// as a launch failure only once there are files to lint.
func resolveTool(logger *slog.Logger, tool, explicit, version string) string {
	bin, err := clangtidy.Resolve(tool, explicit, version)
	if err != nil {
		logger.Debug("tool lookup failed", "tool", tool, "error", err)
		if explicit != "" {
			return explicit
		}
		return tool
	}
	return bin
}
