// Package ghclient builds an authenticated GitHub API client.
package ghclient

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bradleyfalzon/ghinstallation/v2"
	"github.com/google/go-github/v68/github"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/oauth2"
)

// DefaultAPIURL is the public GitHub REST endpoint.
const DefaultAPIURL = "https://api.github.com"

// Options selects how the client authenticates and where it connects.
type Options struct {
	APIURL string
	Token  string

	AppID          int64
	InstallationID int64
	PrivateKeyPath string

	RetryMax int
	Logger   *slog.Logger
}

func (o Options) useApp() bool {
	return o.AppID != 0 && o.InstallationID != 0 && o.PrivateKeyPath != ""
}

// New returns a go-github client. GitHub App credentials take precedence over
// a token when both are set.
func New(opts Options) (*github.Client, error) {
	base := baseTransport(opts)

	var transport http.RoundTripper
	switch {
	case opts.useApp():
		itr, err := ghinstallation.NewKeyFromFile(base, opts.AppID, opts.InstallationID, opts.PrivateKeyPath)
		if err != nil {
			return nil, fmt.Errorf("creating installation transport: %w", err)
		}
		if !isPublicAPI(opts.APIURL) {
			itr.BaseURL = strings.TrimSuffix(opts.APIURL, "/")
		}
		transport = itr
	case opts.Token != "":
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token}),
			Base:   base,
		}
	default:
		return nil, errors.New("github token or app credentials required")
	}

	client := github.NewClient(&http.Client{Transport: transport})
	if isPublicAPI(opts.APIURL) {
		return client, nil
	}

	client, err := client.WithEnterpriseURLs(opts.APIURL, opts.APIURL)
	if err != nil {
		return nil, fmt.Errorf("configuring enterprise URL: %w", err)
	}
	return client, nil
}

// baseTransport is a pooled transport with optional retries. A RetryMax of
// zero makes every failed request terminal.
func baseTransport(opts Options) http.RoundTripper {
	rc := retryablehttp.NewClient()
	rc.HTTPClient = cleanhttp.DefaultPooledClient()
	rc.RetryMax = max(opts.RetryMax, 0)
	// Hand the final response back so go-github can decode the API error.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = nil
	if opts.Logger != nil {
		rc.Logger = opts.Logger
	}
	return rc.StandardClient().Transport
}

func isPublicAPI(apiURL string) bool {
	return apiURL == "" || strings.TrimSuffix(apiURL, "/") == DefaultAPIURL
}
