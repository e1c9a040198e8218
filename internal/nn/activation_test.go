package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deepthought-ml/deepthought/internal/dual"
)

// applyOne runs an activation on a single seeded variable and returns the
// output value and its derivative with respect to that variable.
func applyOne(t *testing.T, a Activation, x float64) (value, deriv float64) {
	t.Helper()
	space := dual.NewSpace(1)
	out, err := a.Apply([]dual.Dual{space.Var(x, 0)})
	require.NoError(t, err)
	require.Len(t, out, 1)
	return out[0].Value(), out[0].Derivative(0)
}

func TestIdentity(t *testing.T) {
	v, d := applyOne(t, Identity{}, 3.5)
	assert.Equal(t, 3.5, v)
	assert.Equal(t, 1.0, d)
}

func TestSigmoidAnchors(t *testing.T) {
	v, d := applyOne(t, Sigmoid{}, 0)
	assert.InDelta(t, 0.5, v, 1e-12)
	assert.InDelta(t, 0.25, d, 1e-12)

	// Saturated tails stay finite and the derivative flattens.
	v, d = applyOne(t, Sigmoid{}, 40)
	assert.InDelta(t, 1.0, v, 1e-12)
	assert.InDelta(t, 0.0, d, 1e-12)

	v, d = applyOne(t, Sigmoid{}, -40)
	assert.InDelta(t, 0.0, v, 1e-12)
	assert.InDelta(t, 0.0, d, 1e-12)
}

func TestReLU(t *testing.T) {
	v, d := applyOne(t, ReLU{}, 2.5)
	assert.Equal(t, 2.5, v)
	assert.Equal(t, 1.0, d)

	v, d = applyOne(t, ReLU{}, -2.5)
	assert.Equal(t, 0.0, v)
	assert.Equal(t, 0.0, d)

	// At x = 0 the sub-gradient convention gives derivative 0.
	v, d = applyOne(t, ReLU{}, 0)
	assert.Equal(t, 0.0, v)
	assert.Equal(t, 0.0, d)
}

func TestLeakyReLU(t *testing.T) {
	a := LeakyReLU{Slope: 0.01}

	v, d := applyOne(t, a, 2.0)
	assert.Equal(t, 2.0, v)
	assert.Equal(t, 1.0, d)

	v, d = applyOne(t, a, -2.0)
	assert.InDelta(t, -0.02, v, 1e-12)
	assert.InDelta(t, 0.01, d, 1e-12)
}

func TestTanh(t *testing.T) {
	v, d := applyOne(t, Tanh{}, 0.7)
	assert.InDelta(t, math.Tanh(0.7), v, 1e-12)
	th := math.Tanh(0.7)
	assert.InDelta(t, 1-th*th, d, 1e-12)
}

func TestSoftmaxSumsToOne(t *testing.T) {
	space := dual.NewSpace(3)
	xs := []dual.Dual{space.Var(1, 0), space.Var(2, 1), space.Var(3, 2)}

	out, err := Softmax{}.Apply(xs)
	require.NoError(t, err)
	require.Len(t, out, 3)

	var sum float64
	for _, o := range out {
		sum += o.Value()
	}
	assert.InDelta(t, 1.0, sum, 1e-12)

	// Monotone in the inputs.
	assert.Less(t, out[0].Value(), out[1].Value())
	assert.Less(t, out[1].Value(), out[2].Value())

	// Shift-invariance: each output's derivatives sum to zero, since adding
	// the same amount to every input leaves softmax unchanged.
	for _, o := range out {
		var dsum float64
		for i := 0; i < 3; i++ {
			dsum += o.Derivative(i)
		}
		assert.InDelta(t, 0.0, dsum, 1e-12)
	}
}

func TestSoftmaxLargeInputs(t *testing.T) {
	// Without the max shift these inputs would overflow to +Inf.
	space := dual.NewSpace(2)
	out, err := Softmax{}.Apply([]dual.Dual{space.Var(1000, 0), space.Var(1001, 1)})
	require.NoError(t, err)

	assert.False(t, math.IsNaN(out[0].Value()))
	assert.InDelta(t, 1.0, out[0].Value()+out[1].Value(), 1e-12)
}

func TestActivationByName(t *testing.T) {
	for _, a := range []Activation{Identity{}, Sigmoid{}, ReLU{}, LeakyReLU{Slope: 0.2}, Tanh{}, Softmax{}} {
		got, err := ActivationByName(a.Name(), activationSlope(a))
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}

	_, err := ActivationByName("swish", 0)
	assert.Error(t, err)
}
