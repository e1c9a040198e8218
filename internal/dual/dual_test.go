package dual

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpace_Var(t *testing.T) {
	space := NewSpace(3)

	x := space.Var(2.5, 1)

	assert.Equal(t, 2.5, x.Value())
	assert.Equal(t, 0.0, x.Derivative(0))
	assert.Equal(t, 1.0, x.Derivative(1))
	assert.Equal(t, 0.0, x.Derivative(2))
	assert.False(t, x.IsConstant())
}

func TestSpace_Var_OutOfRange(t *testing.T) {
	space := NewSpace(2)

	assert.Panics(t, func() { space.Var(1.0, 2) })
	assert.Panics(t, func() { space.Var(1.0, -1) })
}

func TestConstant(t *testing.T) {
	c := Constant(4.0)

	assert.Equal(t, 4.0, c.Value())
	assert.True(t, c.IsConstant())
	assert.Equal(t, 0.0, c.Derivative(0))
}

// TestAdd_SumRule checks (a + b)' = a' + b' in multivariable mode.
func TestAdd_SumRule(t *testing.T) {
	space := NewSpace(2)
	a := space.Var(1.5, 0)
	b := space.Var(-2.0, 1)

	sum := a.Add(b)

	assert.Equal(t, -0.5, sum.Value())
	assert.Equal(t, 1.0, sum.Derivative(0))
	assert.Equal(t, 1.0, sum.Derivative(1))
}

// TestMul_ProductRule checks (ab)' = b·a' + a·b'.
func TestMul_ProductRule(t *testing.T) {
	space := NewSpace(2)
	a := space.Var(3.0, 0)
	b := space.Var(5.0, 1)

	prod := a.Mul(b)

	assert.Equal(t, 15.0, prod.Value())
	assert.Equal(t, 5.0, prod.Derivative(0)) // d(ab)/da = b
	assert.Equal(t, 3.0, prod.Derivative(1)) // d(ab)/db = a
}

// TestMul_SameVariable checks the x² case: both derivative vectors refer to
// the same slot and must accumulate.
func TestMul_SameVariable(t *testing.T) {
	space := NewSpace(1)
	x := space.Var(3.0, 0)

	y := x.Mul(x)

	assert.Equal(t, 9.0, y.Value())
	assert.Equal(t, 6.0, y.Derivative(0)) // d(x²)/dx = 2x
}

// TestDiv_QuotientRule checks (a/b)' = a'/b - a·b'/b².
func TestDiv_QuotientRule(t *testing.T) {
	space := NewSpace(2)
	a := space.Var(6.0, 0)
	b := space.Var(2.0, 1)

	q, err := a.Div(b)
	require.NoError(t, err)

	assert.Equal(t, 3.0, q.Value())
	assert.InDelta(t, 0.5, q.Derivative(0), 1e-12)  // 1/b
	assert.InDelta(t, -1.5, q.Derivative(1), 1e-12) // -a/b²
}

func TestDiv_ByZero(t *testing.T) {
	space := NewSpace(1)
	x := space.Var(1.0, 0)

	_, err := x.Div(Constant(0))
	require.Error(t, err)

	var domainErr *DomainError
	assert.True(t, errors.As(err, &domainErr))
}

func TestMixedSpaces_Panics(t *testing.T) {
	a := NewSpace(2).Var(1.0, 0)
	b := NewSpace(2).Var(1.0, 0)

	assert.Panics(t, func() { a.Add(b) })
	assert.Panics(t, func() { a.Mul(b) })
}

// TestConstants_MixFreely verifies untagged constants combine with duals
// from any space without disturbing their derivative layout.
func TestConstants_MixFreely(t *testing.T) {
	space := NewSpace(1)
	x := space.Var(2.0, 0)

	y := Constant(3.0).Mul(x).AddScalar(1)

	assert.Equal(t, 7.0, y.Value())
	assert.Equal(t, 3.0, y.Derivative(0))
}

// TestSigmoid_AtZero anchors the composite derivative chain:
// σ(0) = 0.5 with derivative σ'(0) = 0.25.
func TestSigmoid_AtZero(t *testing.T) {
	space := NewSpace(1)
	x := space.Var(0.0, 0)

	y, err := Sigmoid(x)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, y.Value(), 1e-12)
	assert.InDelta(t, 0.25, y.Derivative(0), 1e-12)
}

func TestTanh_Extremes(t *testing.T) {
	space := NewSpace(1)

	lo, err := Tanh(space.Var(-30.0, 0))
	require.NoError(t, err)
	hi, err := Tanh(space.Var(30.0, 0))
	require.NoError(t, err)

	assert.InDelta(t, -1.0, lo.Value(), 1e-9)
	assert.InDelta(t, 1.0, hi.Value(), 1e-9)
}

func TestGradient_Copies(t *testing.T) {
	space := NewSpace(2)
	x := space.Var(1.0, 0)

	g := x.Gradient()
	g[0] = 99

	assert.Equal(t, 1.0, x.Derivative(0))
}

func TestSeeded(t *testing.T) {
	space := NewSpace(3)
	x := space.Seeded(2.0, []float64{1, 0.5, -1})

	y := x.Scale(2)

	assert.Equal(t, 4.0, y.Value())
	assert.Equal(t, 2.0, y.Derivative(0))
	assert.Equal(t, 1.0, y.Derivative(1))
	assert.Equal(t, -2.0, y.Derivative(2))
}

// TestSigmoid_SaturatedTails checks inputs past the float64 exp overflow
// point. The single-form σ = 1/(1+e^(-x)) overflows e^(-x) to +Inf on the
// negative tail and the quotient rule would yield a 0·Inf = NaN derivative;
// both value and derivative must instead saturate to finite limits.
func TestSigmoid_SaturatedTails(t *testing.T) {
	for _, x := range []float64{-800, -1000, 800, 1000} {
		space := NewSpace(1)
		y, err := Sigmoid(space.Var(x, 0))
		require.NoError(t, err)

		assert.False(t, math.IsNaN(y.Value()), "sigmoid(%v) value is NaN", x)
		assert.False(t, math.IsNaN(y.Derivative(0)), "sigmoid(%v) derivative is NaN", x)

		if x < 0 {
			assert.InDelta(t, 0.0, y.Value(), 1e-12)
		} else {
			assert.InDelta(t, 1.0, y.Value(), 1e-12)
		}
		assert.InDelta(t, 0.0, y.Derivative(0), 1e-12)
	}
}

// TestTanh_SaturatedTails is the same property for tanh, whose exponent
// e^(2x) overflows already at |x| > ~354.
func TestTanh_SaturatedTails(t *testing.T) {
	for _, x := range []float64{-400, -1000, 400, 1000} {
		space := NewSpace(1)
		y, err := Tanh(space.Var(x, 0))
		require.NoError(t, err)

		assert.False(t, math.IsNaN(y.Value()), "tanh(%v) value is NaN", x)
		assert.False(t, math.IsNaN(y.Derivative(0)), "tanh(%v) derivative is NaN", x)

		want := 1.0
		if x < 0 {
			want = -1.0
		}
		assert.InDelta(t, want, y.Value(), 1e-12)
		assert.InDelta(t, 0.0, y.Derivative(0), 1e-12)
	}
}
