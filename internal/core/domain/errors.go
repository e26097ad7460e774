package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by repositories when a lookup has no result.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput marks caller mistakes (empty ids, bad numbers, ...).
	ErrInvalidInput = errors.New("invalid input")
)

// GenerationErrorKind classifies failures of the generation service.
type GenerationErrorKind string

const (
	GenerationCredentialMissing GenerationErrorKind = "credential_missing"
	GenerationCredentialInvalid GenerationErrorKind = "credential_invalid"
	GenerationBilling           GenerationErrorKind = "billing"
	GenerationQuota             GenerationErrorKind = "quota"
	GenerationTransport         GenerationErrorKind = "transport"
)

// GenerationError wraps a failed call to the generation service.
// It always aborts the operation that issued the call.
type GenerationError struct {
	Kind GenerationErrorKind
	Err  error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return "generation: " + string(e.Kind)
	}
	return fmt.Sprintf("generation %s: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// NewGenerationError builds a GenerationError of the given kind.
func NewGenerationError(kind GenerationErrorKind, err error) *GenerationError {
	return &GenerationError{Kind: kind, Err: err}
}

// GenerationKind returns the kind of a generation failure and whether err is one.
func GenerationKind(err error) (GenerationErrorKind, bool) {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Kind, true
	}
	return "", false
}

// UserMessage turns a failure into the passive notification shown to the rider.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	kind, ok := GenerationKind(err)
	if !ok {
		return "Something went wrong, try again in a moment."
	}
	switch kind {
	case GenerationCredentialMissing:
		return "The AI key is not configured. Open the settings and select a key."
	case GenerationCredentialInvalid:
		return "The AI key is invalid or expired. Please select it again."
	case GenerationBilling:
		return "Billing error: make sure billing is enabled for the selected project."
	case GenerationQuota:
		return "The AI quota is exhausted for now. Try again later."
	default:
		var ge *GenerationError
		errors.As(err, &ge)
		if ge != nil && ge.Err != nil {
			return "AI error: " + ge.Err.Error()
		}
		return "AI error: try again in a moment."
	}
}
