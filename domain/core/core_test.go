package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIDIsUnique(t *testing.T) {
	seen := make(map[ID]struct{})
	for i := 0; i < 100; i++ {
		id := NewID()
		require.False(t, id.IsEmpty())
		_, dup := seen[id]
		require.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestParseSubjectID(t *testing.T) {
	id, err := ParseSubjectID("subject_001")
	require.NoError(t, err)
	assert.Equal(t, SubjectID("subject_001"), id)

	_, err = ParseSubjectID("   ")
	assert.Error(t, err)
}

func TestParseFeatureName(t *testing.T) {
	f, err := ParseFeatureName("Lactate")
	require.NoError(t, err)
	assert.Equal(t, FeatureName("Lactate"), f)

	_, err = ParseFeatureName("")
	assert.Error(t, err)
}

func TestWindowContains(t *testing.T) {
	w := Window{From: 2, To: 5}
	assert.True(t, w.Contains(2))
	assert.True(t, w.Contains(5))
	assert.False(t, w.Contains(1))
	assert.False(t, w.Contains(6))

	assert.True(t, AllTime().Contains(-1<<40))
	assert.True(t, Until(3).Contains(-100))
	assert.False(t, Until(3).Contains(4))
}

func TestErrorConstructorsWrapSentinels(t *testing.T) {
	err := NewInsufficientDataError("Lactate", 12, 30)
	assert.ErrorIs(t, err, ErrInsufficientData)
	assert.Contains(t, err.Error(), "Lactate")
	assert.Contains(t, err.Error(), "12")

	err = NewDanglingSourceError("shock_index", 42)
	assert.ErrorIs(t, err, ErrDanglingSourceReference)

	err = NewUnknownCausaloidError("ghost")
	assert.ErrorIs(t, err, ErrUnknownCausaloidReference)
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		err          error
		recoverable  bool
		contract     bool
		construction bool
	}{
		{ErrInsufficientData, true, false, false},
		{ErrDanglingSourceReference, true, false, false},
		{ErrEmptyCandidateSet, false, true, false},
		{ErrInvalidMaxFeatures, false, true, false},
		{ErrCyclicCausaloidGraph, false, false, true},
		{ErrUnknownCausaloidReference, false, false, true},
		{ErrDuplicateCausaloid, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.Equal(t, tt.recoverable, IsRecoverable(wrapped))
			assert.Equal(t, tt.contract, IsContractViolation(wrapped))
			assert.Equal(t, tt.construction, IsGraphConstructionError(wrapped))
		})
	}
}
