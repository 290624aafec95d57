// Package eventfile reads the CI platform's event payload from disk.
package eventfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/go-github/v68/github"
	"github.com/spf13/afero"

	"github.com/cpp-linter/cpp-linter-action/internal/lint/domain"
)

// Adapter implements ports.EventSource by decoding the JSON payload the
// runner writes to GITHUB_EVENT_PATH.
type Adapter struct {
	fs        afero.Fs
	path      string
	eventName string
}

// New creates a new event file adapter. eventName is only used for messages.
func New(fs afero.Fs, path, eventName string) *Adapter {
	return &Adapter{fs: fs, path: path, eventName: eventName}
}

// Load parses the payload and returns the pull request it describes.
func (a *Adapter) Load(_ context.Context) (domain.PullRequestEvent, error) {
	if a.path == "" {
		return domain.PullRequestEvent{}, errors.New("event payload path is empty")
	}

	raw, err := afero.ReadFile(a.fs, a.path)
	if err != nil {
		return domain.PullRequestEvent{}, fmt.Errorf("reading event payload: %w", err)
	}

	return Decode(raw, a.eventName)
}

// Decode converts a raw pull_request payload into a domain event.
func Decode(raw []byte, eventName string) (domain.PullRequestEvent, error) {
	var payload github.PullRequestEvent
	if err := json.Unmarshal(raw, &payload); err != nil {
		return domain.PullRequestEvent{}, fmt.Errorf("decoding event payload: %w", err)
	}

	if payload.PullRequest == nil {
		return domain.PullRequestEvent{}, domain.NewNotPullRequestError(eventName)
	}

	repo := payload.GetRepo()
	if repo.GetOwner().GetLogin() == "" || repo.GetName() == "" {
		return domain.PullRequestEvent{}, errors.New("event payload is missing repository owner or name")
	}

	number := payload.GetPullRequest().GetNumber()
	if number == 0 {
		number = payload.GetNumber()
	}
	if number <= 0 {
		return domain.PullRequestEvent{}, errors.New("event payload has no pull request number")
	}

	return domain.PullRequestEvent{
		EventName: eventName,
		Owner:     repo.GetOwner().GetLogin(),
		Repo:      repo.GetName(),
		Number:    number,
		HeadSHA:   payload.GetPullRequest().GetHead().GetSHA(),
		Private:   repo.GetPrivate(),
	}, nil
}
