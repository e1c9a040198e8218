package optim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdamDefaults(t *testing.T) {
	adam := NewAdam(nil, AdamConfig{})
	assert.Equal(t, 0.001, adam.GetLR())
	assert.Equal(t, 0.9, adam.beta1)
	assert.Equal(t, 0.999, adam.beta2)
	assert.Equal(t, 1e-8, adam.eps)
}

func TestAdamFirstStep(t *testing.T) {
	net := newTestNetwork(t)
	adam := NewAdam(net.Parameters(), AdamConfig{LR: 0.001})

	adam.Step(constGradients(net, 3.0))

	// After bias correction the first step is -lr * g/(|g| + eps),
	// i.e. -lr * sign(g), regardless of gradient magnitude.
	want := -0.001 * 3.0 / (3.0 + 1e-8)
	for _, p := range net.Parameters() {
		assert.InDelta(t, want, p.Matrix().At(0, 0), 1e-12)
	}
}

func TestAdamDescendsQuadratic(t *testing.T) {
	// Minimize f(w) = w² elementwise; the gradient is 2w.
	net := newTestNetwork(t)
	for _, p := range net.Parameters() {
		r, c := p.Matrix().Dims()
		for i := 0; i < r; i++ {
			for j := 0; j < c; j++ {
				p.Matrix().Set(i, j, 1.0)
			}
		}
	}

	adam := NewAdam(net.Parameters(), AdamConfig{LR: 0.05})
	for step := 0; step < 200; step++ {
		g := constGradients(net, 0)
		for _, p := range net.Parameters() {
			r, c := p.Matrix().Dims()
			for i := 0; i < r; i++ {
				for j := 0; j < c; j++ {
					g[p].Set(i, j, 2*p.Matrix().At(i, j))
				}
			}
		}
		adam.Step(g)
	}

	for _, p := range net.Parameters() {
		assert.Less(t, math.Abs(p.Matrix().At(0, 0)), 0.1)
	}
}

func TestAdamStateDictRoundTrip(t *testing.T) {
	net := newTestNetwork(t)
	adam := NewAdam(net.Parameters(), AdamConfig{})
	grads := constGradients(net, 1.0)
	adam.Step(grads)
	adam.Step(grads)

	state := adam.StateDict()
	require.Contains(t, state, "step")
	assert.Equal(t, 2.0, state["step"].At(0, 0))

	restored := NewAdam(net.Parameters(), AdamConfig{})
	require.NoError(t, restored.LoadStateDict(state))
	assert.Equal(t, 2, restored.t)

	// Moment buffers are copies, not aliases.
	state["m.0"].Set(0, 0, 99)
	assert.NotEqual(t, 99.0, restored.m[net.Parameters()[0]].At(0, 0))
}
