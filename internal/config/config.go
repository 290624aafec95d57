// Package config reads the action's settings from the environment once, at
// process start, into an explicit Config value.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/cpp-linter/cpp-linter-action/internal/lint/domain"
)

// Environment keys.
const (
	KeyEventPath      = "GITHUB_EVENT_PATH"
	KeyEventName      = "GITHUB_EVENT_NAME"
	KeyToken          = "GITHUB_TOKEN"
	KeyWorkspace      = "GITHUB_WORKSPACE"
	KeyAPIURL         = "GITHUB_API_URL"
	KeyOutput         = "GITHUB_OUTPUT"
	KeyStepSummary    = "GITHUB_STEP_SUMMARY"
	KeyAppID          = "GITHUB_APP_ID"
	KeyInstallationID = "GITHUB_INSTALLATION_ID"
	KeyPrivateKeyPath = "GITHUB_APP_PRIVATE_KEY_PATH"
	KeyExtensions     = "CPP_LINTER_EXTENSIONS"
	KeyIgnore         = "CPP_LINTER_IGNORE"
	KeyMaxFiles       = "CPP_LINTER_MAX_FILES"
	KeyAPIRetries     = "CPP_LINTER_API_RETRIES"
	KeyAPIRate        = "CPP_LINTER_API_RPS"
	KeyStyle          = "CPP_LINTER_STYLE"
	KeyAnnotations    = "CPP_LINTER_ANNOTATIONS"
	KeyVersion        = "CPP_LINTER_VERSION"
	KeyLogLevel       = "CPP_LINTER_LOG_LEVEL"
	KeyDownload       = "CPP_LINTER_DOWNLOAD_MISSING"
	KeyLinesOnly      = "CPP_LINTER_LINES_CHANGED_ONLY"
	KeyThreadComments = "CPP_LINTER_THREAD_COMMENTS"
	KeyClangTidy      = "CLANG_TIDY"
	KeyClangFormat    = "CLANG_FORMAT"
)

// Config holds everything the run needs from its environment.
type Config struct {
	EventPath    string
	EventName    string
	Token        string
	WorkspaceDir string
	APIURL       string

	OutputPath  string
	SummaryPath string

	AppID          int64
	InstallationID int64
	PrivateKeyPath string

	Extensions  []string
	Ignore      string
	MaxFiles    int
	APIRetries  int
	APIRate     float64
	Style       string
	Annotations bool
	Download    bool
	Version     string
	LogLevel    slog.Level

	LinesChangedOnly domain.LinesChangedOnly
	ThreadComments   bool

	ClangTidy   string
	ClangFormat string
}

// HasAppCredentials reports whether GitHub App authentication is configured.
func (c Config) HasAppCredentials() bool {
	return c.AppID != 0 && c.InstallationID != 0 && c.PrivateKeyPath != ""
}

// Validate checks required settings.
func (c Config) Validate() error {
	var errs []error
	if c.EventPath == "" {
		errs = append(errs, fmt.Errorf("%s is required", KeyEventPath))
	}
	if c.Token == "" && !c.HasAppCredentials() {
		errs = append(errs, fmt.Errorf("%s is required unless GitHub App credentials are set", KeyToken))
	}
	if len(c.Extensions) == 0 {
		errs = append(errs, fmt.Errorf("%s must list at least one extension", KeyExtensions))
	}
	if c.MaxFiles < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyMaxFiles))
	}
	if c.APIRetries < 0 {
		errs = append(errs, fmt.Errorf("%s must not be negative", KeyAPIRetries))
	}
	return errors.Join(errs...)
}

// Load reads settings from the process environment. When envFile exists it is
// loaded first without overriding variables already set, which lets local runs
// outside CI keep their settings in a .env file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := Config{
		EventPath:      v.GetString(KeyEventPath),
		EventName:      v.GetString(KeyEventName),
		Token:          v.GetString(KeyToken),
		WorkspaceDir:   v.GetString(KeyWorkspace),
		APIURL:         v.GetString(KeyAPIURL),
		OutputPath:     v.GetString(KeyOutput),
		SummaryPath:    v.GetString(KeyStepSummary),
		AppID:          v.GetInt64(KeyAppID),
		InstallationID: v.GetInt64(KeyInstallationID),
		PrivateKeyPath: v.GetString(KeyPrivateKeyPath),
		Extensions:     splitList(v.GetString(KeyExtensions)),
		Ignore:         v.GetString(KeyIgnore),
		MaxFiles:       v.GetInt(KeyMaxFiles),
		APIRetries:     v.GetInt(KeyAPIRetries),
		APIRate:        v.GetFloat64(KeyAPIRate),
		Style:          v.GetString(KeyStyle),
		Annotations:    v.GetBool(KeyAnnotations),
		Download:       v.GetBool(KeyDownload),
		ThreadComments: v.GetBool(KeyThreadComments),
		Version:        v.GetString(KeyVersion),
		ClangTidy:      v.GetString(KeyClangTidy),
		ClangFormat:    v.GetString(KeyClangFormat),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString(KeyLogLevel))); err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", KeyLogLevel, err)
	}

	linesOnly, err := domain.ParseLinesChangedOnly(v.GetString(KeyLinesOnly))
	if err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", KeyLinesOnly, err)
	}
	cfg.LinesChangedOnly = linesOnly

	if cfg.WorkspaceDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("resolving working directory: %w", err)
		}
		cfg.WorkspaceDir = wd
	}
	abs, err := filepath.Abs(cfg.WorkspaceDir)
	if err != nil {
		return Config{}, fmt.Errorf("resolving %s: %w", KeyWorkspace, err)
	}
	cfg.WorkspaceDir = abs

	return cfg, cfg.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIURL, "https://api.github.com")
	v.SetDefault(KeyExtensions, strings.Join(domain.DefaultExtensions, ","))
	v.SetDefault(KeyMaxFiles, 3000)
	v.SetDefault(KeyAPIRetries, 0)
	v.SetDefault(KeyAPIRate, 10)
	v.SetDefault(KeyAnnotations, true)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyDownload, false)
	v.SetDefault(KeyLinesOnly, "off")
	v.SetDefault(KeyThreadComments, false)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
