package domain

import (
	"errors"
	"fmt"
)

// NotPullRequestError is returned when the triggering event carries no pull request.
type NotPullRequestError struct {
	EventName string
}

func (e *NotPullRequestError) Error() string {
	if e.EventName == "" {
		return "event payload has no pull_request; only pull request events are supported"
	}
	return fmt.Sprintf("event %q has no pull_request; only pull request events are supported", e.EventName)
}

// NewNotPullRequestError creates a new NotPullRequestError.
func NewNotPullRequestError(eventName string) *NotPullRequestError {
	return &NotPullRequestError{EventName: eventName}
}

// IsNotPullRequest checks if an error is or wraps a NotPullRequestError.
func IsNotPullRequest(err error) bool {
	var target *NotPullRequestError
	return errors.As(err, &target)
}

// ToolNotFoundError is returned when none of the candidate executables is on PATH.
type ToolNotFoundError struct {
	Tool       string
	Candidates []string
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("%s not found on PATH (tried %v)", e.Tool, e.Candidates)
}

// NewToolNotFoundError creates a new ToolNotFoundError.
func NewToolNotFoundError(tool string, candidates []string) *ToolNotFoundError {
	return &ToolNotFoundError{Tool: tool, Candidates: candidates}
}

// IsToolNotFound checks if an error is or wraps a ToolNotFoundError.
func IsToolNotFound(err error) bool {
	var target *ToolNotFoundError
	return errors.As(err, &target)
}

// NotFoundError represents a file that was not found at a specific ref.
type NotFoundError struct {
	Resource string
	Ref      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found at ref %s", e.Resource, e.Ref)
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resource, ref string) *NotFoundError {
	return &NotFoundError{Resource: resource, Ref: ref}
}

// IsNotFound checks if an error is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}
