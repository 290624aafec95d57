package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpp-linter/cpp-linter-action/internal/lint/domain"
)

// clearEnv blanks every key so the host's CI variables do not leak into tests.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		KeyEventPath, KeyEventName, KeyToken, KeyWorkspace, KeyAPIURL, KeyOutput,
		KeyStepSummary, KeyAppID, KeyInstallationID, KeyPrivateKeyPath, KeyExtensions,
		KeyIgnore, KeyMaxFiles, KeyAPIRetries, KeyAPIRate, KeyStyle, KeyAnnotations,
		KeyVersion, KeyLogLevel, KeyDownload, KeyLinesOnly, KeyThreadComments,
		KeyClangTidy, KeyClangFormat,
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	workspace := t.TempDir()
	t.Setenv(KeyEventPath, "/github/workflow/event.json")
	t.Setenv(KeyToken, "t0ken")
	t.Setenv(KeyWorkspace, workspace)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/github/workflow/event.json", cfg.EventPath)
	assert.Equal(t, "t0ken", cfg.Token)
	assert.Equal(t, workspace, cfg.WorkspaceDir)
	assert.Equal(t, "https://api.github.com", cfg.APIURL)
	assert.Equal(t, domain.DefaultExtensions, cfg.Extensions)
	assert.Equal(t, 3000, cfg.MaxFiles)
	assert.Equal(t, 0, cfg.APIRetries)
	assert.Equal(t, 10.0, cfg.APIRate)
	assert.True(t, cfg.Annotations)
	assert.False(t, cfg.Download)
	assert.False(t, cfg.ThreadComments)
	assert.Equal(t, domain.LinesAll, cfg.LinesChangedOnly)
	assert.Empty(t, cfg.Style)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(KeyEventPath, "/e.json")
	t.Setenv(KeyToken, "t0ken")
	t.Setenv(KeyWorkspace, t.TempDir())
	t.Setenv(KeyExtensions, " cpp, .hpp ,")
	t.Setenv(KeyMaxFiles, "250")
	t.Setenv(KeyAnnotations, "false")
	t.Setenv(KeyStyle, "file")
	t.Setenv(KeyLogLevel, "debug")
	t.Setenv(KeyLinesOnly, "added")
	t.Setenv(KeyThreadComments, "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, []string{"cpp", ".hpp"}, cfg.Extensions)
	assert.Equal(t, 250, cfg.MaxFiles)
	assert.False(t, cfg.Annotations)
	assert.Equal(t, "file", cfg.Style)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, domain.LinesAdded, cfg.LinesChangedOnly)
	assert.True(t, cfg.ThreadComments)
}

func TestLoad_InvalidLinesChangedOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv(KeyEventPath, "/e.json")
	t.Setenv(KeyToken, "t0ken")
	t.Setenv(KeyWorkspace, t.TempDir())
	t.Setenv(KeyLinesOnly, "sometimes")

	_, err := Load("")
	assert.ErrorContains(t, err, KeyLinesOnly)
}

func TestLoad_MissingRequired(t *testing.T) {
	clearEnv(t)
	t.Setenv(KeyWorkspace, t.TempDir())

	_, err := Load("")
	require.Error(t, err)
	assert.ErrorContains(t, err, KeyEventPath)
	assert.ErrorContains(t, err, KeyToken)
}

func TestLoad_AppCredentialsReplaceToken(t *testing.T) {
	clearEnv(t)
	t.Setenv(KeyEventPath, "/e.json")
	t.Setenv(KeyWorkspace, t.TempDir())
	t.Setenv(KeyAppID, "12")
	t.Setenv(KeyInstallationID, "34")
	t.Setenv(KeyPrivateKeyPath, "/key.pem")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.HasAppCredentials())
	assert.Equal(t, int64(34), cfg.InstallationID)
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv(KeyLogLevel, "loud")

	_, err := Load("")
	assert.ErrorContains(t, err, KeyLogLevel)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	content := "GITHUB_EVENT_PATH=/from/dotenv.json\nGITHUB_TOKEN=dotenv-token\nGITHUB_WORKSPACE=" + dir + "\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))
	t.Setenv(KeyToken, "real-token")

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "/from/dotenv.json", cfg.EventPath)
	assert.Equal(t, "real-token", cfg.Token, "existing variables win over .env")
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv(KeyEventPath, "/e.json")
	t.Setenv(KeyToken, "t0ken")
	t.Setenv(KeyWorkspace, t.TempDir())

	_, err := Load(filepath.Join(t.TempDir(), ".env"))
	assert.NoError(t, err)
}
