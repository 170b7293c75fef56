package agent

import (
	"github.com/cockroachdb/errors"
)

var (
	// ErrInvalidStep is returned when a model reply does not decode into a Step.
	ErrInvalidStep = errors.New("invalid step")

	// ErrEmptyResponse is returned when the LLM response has no content.
	ErrEmptyResponse = errors.New("no content in LLM response")

	// ErrStepLimit is returned when a query exceeds MaxSteps model calls.
	ErrStepLimit = errors.New("agent loop limit exceeded")

	// ErrMissingAPIKey is returned when no API key is configured for the LLM provider.
	ErrMissingAPIKey = errors.New("missing API key")
)
