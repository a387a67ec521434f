package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ValidationError reports client attributes that could not be encoded.
type ValidationError struct {
	Missing []string
	Invalid map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, 2)
	if len(e.Missing) > 0 {
		parts = append(parts, "missing: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		keys := make([]string, 0, len(e.Invalid))
		for k := range e.Invalid {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		invalid := make([]string, 0, len(keys))
		for _, k := range keys {
			invalid = append(invalid, fmt.Sprintf("%s (%s)", k, e.Invalid[k]))
		}
		parts = append(parts, "invalid: "+strings.Join(invalid, ", "))
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// HasProblems is false when nothing was recorded.
func (e *ValidationError) HasProblems() bool {
	return len(e.Missing) > 0 || len(e.Invalid) > 0
}

// ModelUnavailableError means there is no usable model to score with.
type ModelUnavailableError struct {
	Model  string
	Reason string
}

func (e *ModelUnavailableError) Error() string {
	if e.Model == "" {
		return "model unavailable: " + e.Reason
	}
	return fmt.Sprintf("model %q unavailable: %s", e.Model, e.Reason)
}

// PredictionError means the model was invoked but the call failed or returned
// something that does not match the request shape.
type PredictionError struct {
	Model  string
	Reason string
	Err    error
}

func (e *PredictionError) Error() string {
	msg := fmt.Sprintf("prediction failed for model %q: %s", e.Model, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PredictionError) Unwrap() error {
	return e.Err
}

// ErrClientNotFound is returned by client lookups for unknown ids.
var ErrClientNotFound = errors.New("client not found")
