package information

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KeSeaman/deep-causality/domain/core"
	"github.com/KeSeaman/deep-causality/domain/measure"
)

const tol = 1e-12

func TestEntropyOfFairCoinIsOneBit(t *testing.T) {
	est := NewEstimator(2)

	h, err := est.Entropy([]int{0, 1, 0, 1, 0, 1, 0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, h.Bits, tol)
	assert.Equal(t, 8, h.SampleCount)
}

func TestEntropyOfConstantIsZero(t *testing.T) {
	est := NewEstimator(2)

	h, err := est.Entropy([]int{3, 3, 3, 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, h.Bits, tol)
}

func TestEntropySkipsUnknownBins(t *testing.T) {
	est := NewEstimator(2)

	h, err := est.Entropy([]int{0, UnknownBin, 1, UnknownBin, 0, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, h.Bits, tol)
	assert.Equal(t, 4, h.SampleCount)
}

func TestEntropyInsufficientData(t *testing.T) {
	est := NewEstimator(5)

	res, err := est.Entropy([]int{0, 1, UnknownBin, 0})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
	assert.Equal(t, 3, res.SampleCount)
}

func TestMutualInformationOfIdenticalColumnsEqualsEntropy(t *testing.T) {
	est := NewEstimator(2)
	xs := []int{0, 1, 2, 0, 1, 2, 0, 1, 2}

	h, err := est.Entropy(xs)
	require.NoError(t, err)

	mi, err := est.MutualInformation(xs, xs)
	require.NoError(t, err)
	assert.InDelta(t, h.Bits, mi.Bits, tol)
}

func TestMutualInformationOfIndependentColumnsIsZero(t *testing.T) {
	est := NewEstimator(2)
	// Every (x, y) pair appears exactly once: the empirical joint is the
	// product of the marginals.
	xs := []int{0, 0, 1, 1}
	ys := []int{0, 1, 0, 1}

	mi, err := est.MutualInformation(xs, ys)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, mi.Bits, tol)
}

func TestMutualInformationIsNonNegativeAndSymmetric(t *testing.T) {
	est := NewEstimator(2)
	xs := []int{0, 1, 1, 0, 2, 2, 1, 0}
	ys := []int{1, 1, 0, 0, 1, 0, 1, 0}

	a, err := est.MutualInformation(xs, ys)
	require.NoError(t, err)
	b, err := est.MutualInformation(ys, xs)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, a.Bits, 0.0)
	assert.Equal(t, a.Bits, b.Bits)
}

func TestMutualInformationExcludesPairwiseUnknowns(t *testing.T) {
	est := NewEstimator(2)
	xs := []int{0, UnknownBin, 1, 0, 1}
	ys := []int{0, 0, 1, UnknownBin, 1}

	mi, err := est.MutualInformation(xs, ys)
	require.NoError(t, err)
	assert.Equal(t, 3, mi.SampleCount)
	assert.InDelta(t, mustEntropy(t, est, []int{0, 1, 1}), mi.Bits, tol)
}

func mustEntropy(t *testing.T, e *Estimator, xs []int) float64 {
	t.Helper()
	h, err := e.Entropy(xs)
	require.NoError(t, err)
	return h.Bits
}

func TestMutualInformationLengthMismatch(t *testing.T) {
	est := NewEstimator(1)
	_, err := est.MutualInformation([]int{0, 1}, []int{0})
	assert.Error(t, err)
}

func TestJointMutualInformationCapturesSynergy(t *testing.T) {
	est := NewEstimator(2)
	xs := []int{0, 0, 1, 1, 0, 1, 0, 1}
	zs := []int{0, 1, 0, 1, 1, 0, 0, 1}
	ys := []int{0, 1, 1, 0, 1, 1, 0, 0} // y = x xor z

	joint, err := est.JointMutualInformation(xs, zs, ys)
	require.NoError(t, err)
	single, err := est.MutualInformation(xs, ys)
	require.NoError(t, err)

	// The xor outcome is fully determined by the pair but not by either part.
	assert.InDelta(t, 1.0, joint.Bits, tol)
	assert.InDelta(t, 0.0, single.Bits, tol)
}

func TestCombineIsDeterministicAndPropagatesUnknown(t *testing.T) {
	xs := []int{1, 0, UnknownBin, 1}
	zs := []int{0, 0, 1, UnknownBin}

	a := Combine(xs, zs)
	b := Combine(xs, zs)
	assert.Equal(t, a, b)
	assert.Equal(t, UnknownBin, a[2])
	assert.Equal(t, UnknownBin, a[3])
	assert.NotEqual(t, a[0], a[1])
}

func TestDiscretizeEqualFrequency(t *testing.T) {
	vals := []measure.Value{
		measure.Known(1), measure.Known(1), measure.Known(1), measure.Known(1),
		measure.Known(10), measure.Known(10), measure.Known(10), measure.Known(10),
	}

	binned := Discretize(vals, 2)
	assert.Equal(t, []int{0, 0, 0, 0, 1, 1, 1, 1}, binned)
}

func TestDiscretizeMapsUnknownToSentinel(t *testing.T) {
	vals := []measure.Value{
		measure.Known(1), measure.Unknown(), measure.Known(5), measure.Known(9),
	}

	binned := Discretize(vals, 2)
	assert.Equal(t, UnknownBin, binned[1])
	for i, b := range binned {
		if i == 1 {
			continue
		}
		assert.GreaterOrEqual(t, b, 0)
	}
}

func TestDiscretizeAllUnknownColumn(t *testing.T) {
	vals := []measure.Value{measure.Unknown(), measure.Unknown()}
	assert.Equal(t, []int{UnknownBin, UnknownBin}, Discretize(vals, 4))
}

func TestDiscretizeIsDeterministic(t *testing.T) {
	vals := make([]measure.Value, 0, 50)
	for i := 0; i < 50; i++ {
		vals = append(vals, measure.Known(math.Sin(float64(i))*40+80))
	}

	a := Discretize(vals, 8)
	b := Discretize(vals, 8)
	assert.Equal(t, a, b)
}
