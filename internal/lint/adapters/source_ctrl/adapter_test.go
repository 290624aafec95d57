package sourcectrl

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	gogithub "github.com/google/go-github/v68/github"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpp-linter/cpp-linter-action/internal/lint/domain"
)

const remoteSource = "int remote(void) { return 1; }\n"

func newTestAdapter(t *testing.T) (*Adapter, afero.Fs) {
	t.Helper()

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	entry := map[string]string{
		"type":         "file",
		"name":         "b.c",
		"path":         "src/b.c",
		"encoding":     "base64",
		"content":      base64.StdEncoding.EncodeToString([]byte(remoteSource)),
		"download_url": srv.URL + "/raw/src/b.c",
	}
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}
	mux.HandleFunc("/repos/acme/widgets/contents/src/b.c", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc123", r.URL.Query().Get("ref"))
		writeJSON(w, entry)
	})
	mux.HandleFunc("/repos/acme/widgets/contents/src", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc123", r.URL.Query().Get("ref"))
		writeJSON(w, []map[string]string{entry})
	})
	mux.HandleFunc("/raw/src/b.c", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, remoteSource)
	})

	client := gogithub.NewClient(nil)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base

	fs := afero.NewMemMapFs()
	return New(client, fs, slog.New(slog.NewTextHandler(io.Discard, nil))), fs
}

func TestAdapter_EnsurePresent(t *testing.T) {
	a, fs := newTestAdapter(t)
	require.NoError(t, afero.WriteFile(fs, "src/a.c", []byte("int local;\n"), 0o644))

	fetched, err := a.EnsurePresent(context.Background(), "acme", "widgets", "abc123", []string{"src/a.c", "src/b.c"})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/b.c"}, fetched)

	got, err := afero.ReadFile(fs, "src/b.c")
	require.NoError(t, err)
	assert.Equal(t, remoteSource, string(got))

	local, err := afero.ReadFile(fs, "src/a.c")
	require.NoError(t, err)
	assert.Equal(t, "int local;\n", string(local), "existing files are left untouched")
}

func TestAdapter_EnsurePresent_NotFound(t *testing.T) {
	a, _ := newTestAdapter(t)

	_, err := a.EnsurePresent(context.Background(), "acme", "widgets", "abc123", []string{"lib/missing.c"})
	assert.ErrorContains(t, err, "downloading lib/missing.c")
	assert.True(t, domain.IsNotFound(err))
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"src/a.c", false},
		{"a.c", false},
		{"../etc/passwd.c", true},
		{"src/../../x.c", true},
		{"/abs/x.c", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePath(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
