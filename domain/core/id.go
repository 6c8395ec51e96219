package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	// SubjectID identifies one monitored subject (patient). All per-subject
	// state - context graph, assessments - is keyed by it.
	SubjectID string

	// FeatureName identifies one named column of the validated input table.
	FeatureName string

	// CausaloidID identifies an atomic causal predicate. Stable string id,
	// never a pointer, so definitions can be shared across evaluations.
	CausaloidID string

	// RuleID identifies a deontic guard rule for audit records.
	RuleID string

	// AssessmentID identifies one produced risk assessment.
	AssessmentID ID
)

func (s SubjectID) String() string    { return string(s) }
func (f FeatureName) String() string  { return string(f) }
func (c CausaloidID) String() string  { return string(c) }
func (r RuleID) String() string       { return string(r) }
func (a AssessmentID) String() string { return ID(a).String() }

// NewAssessmentID mints a fresh assessment identifier.
func NewAssessmentID() AssessmentID {
	return AssessmentID(NewID())
}

// ParseSubjectID parses a string into a SubjectID
func ParseSubjectID(s string) (SubjectID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("subject ID cannot be empty")
	}
	return SubjectID(s), nil
}

// ParseFeatureName parses a string into a FeatureName
func ParseFeatureName(s string) (FeatureName, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("feature name cannot be empty")
	}
	return FeatureName(s), nil
}
