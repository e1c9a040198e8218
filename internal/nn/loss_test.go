package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/deepthought-ml/deepthought/internal/dual"
)

func TestMSECompute(t *testing.T) {
	pred := mat.NewDense(2, 2, []float64{1, 2, 3, 4})
	target := mat.NewDense(2, 2, []float64{1, 0, 0, 4})

	losses, err := MSE{}.Compute(pred, target)
	require.NoError(t, err)

	// Sample 0: ((1-1)² + (2-0)²)/2 = 2; sample 1: ((3-0)² + 0)/2 = 4.5
	assert.Equal(t, 2, losses.Len())
	assert.InDelta(t, 2.0, losses.PerSample()[0], 1e-12)
	assert.InDelta(t, 4.5, losses.PerSample()[1], 1e-12)
	assert.InDelta(t, 6.5, losses.Sum(), 1e-12)
	assert.InDelta(t, 3.25, losses.Mean(), 1e-12)
}

func TestMSEComputeShapeMismatch(t *testing.T) {
	pred := mat.NewDense(2, 2, nil)
	target := mat.NewDense(2, 3, nil)

	_, err := MSE{}.Compute(pred, target)
	var shapeErr *dual.ShapeError
	require.ErrorAs(t, err, &shapeErr)
}

func TestMSEDualAgreesWithCompute(t *testing.T) {
	// The dual path and the float path must produce the same value.
	predVals := []float64{0.2, 0.9, -0.4}
	target := []float64{0, 1, -1}

	space := dual.NewSpace(3)
	preds := make([]dual.Dual, 3)
	for i, v := range predVals {
		preds[i] = space.Var(v, i)
	}

	loss, err := MSE{}.Dual(preds, target)
	require.NoError(t, err)

	losses, err := MSE{}.Compute(
		mat.NewDense(1, 3, predVals),
		mat.NewDense(1, 3, target),
	)
	require.NoError(t, err)
	assert.InDelta(t, losses.Mean(), loss.Value(), 1e-12)

	// dMSE/dpred_i = 2(pred_i - target_i)/n
	for i := range predVals {
		want := 2 * (predVals[i] - target[i]) / 3
		assert.InDelta(t, want, loss.Derivative(i), 1e-12)
	}
}

func TestMSEDualLengthMismatch(t *testing.T) {
	space := dual.NewSpace(1)
	_, err := MSE{}.Dual([]dual.Dual{space.Var(1, 0)}, []float64{1, 2})
	var shapeErr *dual.ShapeError
	require.ErrorAs(t, err, &shapeErr)
}

func TestLossesEmpty(t *testing.T) {
	l := &Losses{}
	assert.Equal(t, 0.0, l.Mean())
	assert.Equal(t, 0.0, l.Sum())
	assert.Equal(t, 0, l.Len())
}
