package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotPullRequestError(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		want      string
	}{
		{
			name:      "with event name",
			eventName: "push",
			want:      `event "push" has no pull_request; only pull request events are supported`,
		},
		{
			name: "without event name",
			want: "event payload has no pull_request; only pull request events are supported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewNotPullRequestError(tt.eventName)
			if err.Error() != tt.want {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.want)
			}
		})
	}
}

func TestIsNotPullRequest(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "typed error",
			err:  NewNotPullRequestError("push"),
			want: true,
		},
		{
			name: "wrapped typed error",
			err:  fmt.Errorf("loading event: %w", NewNotPullRequestError("push")),
			want: true,
		},
		{
			name: "unrelated error with similar message",
			err:  errors.New("no pull_request"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotPullRequest(tt.err); got != tt.want {
				t.Errorf("IsNotPullRequest(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsToolNotFound(t *testing.T) {
	err := fmt.Errorf("resolving: %w", NewToolNotFoundError("clang-tidy", []string{"clang-tidy-17", "clang-tidy"}))
	if !IsToolNotFound(err) {
		t.Errorf("IsToolNotFound() = false, want true")
	}
	if IsToolNotFound(errors.New("clang-tidy not found")) {
		t.Errorf("IsToolNotFound() = true for untyped error, want false")
	}
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "typed NotFoundError", err: NewNotFoundError("src/a.c", "abc123"), want: true},
		{name: "wrapped NotFoundError", err: fmt.Errorf("downloading: %w", NewNotFoundError("src/a.c", "abc123")), want: true},
		{name: "other error", err: errors.New("boom"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.want {
				t.Errorf("IsNotFound() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("src/a.c", "abc123")
	expected := "src/a.c not found at ref abc123"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}
