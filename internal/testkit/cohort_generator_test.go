package testkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIsDeterministicForSameSeed(t *testing.T) {
	cfg := DefaultCohortConfig()

	a, err := NewCohortGenerator(cfg).Generate()
	require.NoError(t, err)
	b, err := NewCohortGenerator(cfg).Generate()
	require.NoError(t, err)

	assert.Equal(t, a.Rows(), b.Rows())
}

func TestGenerateSplitsIntoEqualSubsets(t *testing.T) {
	set, err := NewCohortGenerator(DefaultCohortConfig()).Generate()
	require.NoError(t, err)

	assert.Equal(t, 200, set.Len())
	assert.Len(t, set.Subjects(), 20)

	pos, neg := set.SplitByOutcome()
	assert.Equal(t, 100, pos.Len())
	assert.Equal(t, 100, neg.Len())
}

func TestGenerateSepticSubjectsDrift(t *testing.T) {
	set, err := NewCohortGenerator(DefaultCohortConfig()).Generate()
	require.NoError(t, err)
	pos, neg := set.SplitByOutcome()

	posHR, _ := ColumnSummary(pos, "HR")
	negHR, _ := ColumnSummary(neg, "HR")
	assert.Greater(t, posHR, negHR)

	posMAP, _ := ColumnSummary(pos, "MAP")
	negMAP, _ := ColumnSummary(neg, "MAP")
	assert.Less(t, posMAP, negMAP)

	posLac, _ := ColumnSummary(pos, "Lactate")
	negLac, _ := ColumnSummary(neg, "Lactate")
	assert.Greater(t, posLac, negLac)
}

func TestGenerateMissingRateProducesUnknowns(t *testing.T) {
	cfg := DefaultCohortConfig()
	cfg.MissingRate = 0.3

	set, err := NewCohortGenerator(cfg).Generate()
	require.NoError(t, err)

	unknown := 0
	total := 0
	for _, f := range VitalNames {
		for _, v := range set.Column(f) {
			total++
			if !v.IsKnown() {
				unknown++
			}
		}
	}
	ratio := float64(unknown) / float64(total)
	assert.Greater(t, ratio, 0.2)
	assert.Less(t, ratio, 0.4)
}
