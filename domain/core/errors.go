package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Estimation errors (recoverable, surfaced per feature)
	ErrInsufficientData = errors.New("insufficient data for estimate")

	// Caller contract violations (fatal to the call)
	ErrEmptyCandidateSet    = errors.New("empty candidate feature set")
	ErrInvalidMaxFeatures   = errors.New("max features must be positive")
	ErrDuplicateObservation = errors.New("duplicate observation time for subject")

	// Context graph errors
	ErrDanglingSourceReference = errors.New("derived node references missing source")
	ErrSubjectNotFound         = errors.New("subject not found")
	ErrFeatureNotFound         = errors.New("feature not found")

	// Causaloid graph construction errors (no evaluation may proceed)
	ErrCyclicCausaloidGraph      = errors.New("causaloid graph contains a cycle")
	ErrUnknownCausaloidReference = errors.New("edge references unknown causaloid")
	ErrDuplicateCausaloid        = errors.New("duplicate causaloid id")
)

// Error constructors with context
func NewInsufficientDataError(feature string, got, want int) error {
	return fmt.Errorf("%w: feature %s has %d known-pair samples, need %d",
		ErrInsufficientData, feature, got, want)
}

func NewDanglingSourceError(name string, source int64) error {
	return fmt.Errorf("%w: derived node %s references node %d", ErrDanglingSourceReference, name, source)
}

func NewUnknownCausaloidError(id string) error {
	return fmt.Errorf("%w: %s", ErrUnknownCausaloidReference, id)
}

// Error checking helpers
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrInsufficientData) ||
		errors.Is(err, ErrDanglingSourceReference)
}

func IsContractViolation(err error) bool {
	return errors.Is(err, ErrEmptyCandidateSet) ||
		errors.Is(err, ErrInvalidMaxFeatures)
}

func IsGraphConstructionError(err error) bool {
	return errors.Is(err, ErrCyclicCausaloidGraph) ||
		errors.Is(err, ErrUnknownCausaloidReference) ||
		errors.Is(err, ErrDuplicateCausaloid)
}
