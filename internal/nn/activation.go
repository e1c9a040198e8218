package nn

import (
	"fmt"

	"github.com/deepthought-ml/deepthought/internal/dual"
)

// Activation is an elementwise (or, for Softmax, vector-level) mapping
// applied to a layer's pre-activation values.
//
// Every activation is expressed purely in terms of dual-number engine
// operations, never as a hand-coded derivative, so gradients propagate
// automatically and are exact by construction.
type Activation interface {
	// Apply transforms a vector of pre-activation duals into the layer's
	// output duals. Elementwise activations map slot by slot; Softmax
	// couples all slots.
	Apply(xs []dual.Dual) ([]dual.Dual, error)

	// Name returns the activation's serialization name.
	Name() string
}

// Identity passes values through unchanged: f(x) = x.
// This is the default activation of a layer, matching f(x) = x.
type Identity struct{}

// Apply returns the input unchanged.
func (Identity) Apply(xs []dual.Dual) ([]dual.Dual, error) {
	return xs, nil
}

// Name returns "identity".
func (Identity) Name() string { return "identity" }

// Sigmoid squashes every input into (0, 1): σ(x) = 1 / (1 + e^(-x)).
type Sigmoid struct{}

// Apply applies σ elementwise.
func (Sigmoid) Apply(xs []dual.Dual) ([]dual.Dual, error) {
	out := make([]dual.Dual, len(xs))
	for i, x := range xs {
		y, err := dual.Sigmoid(x)
		if err != nil {
			return nil, err
		}
		out[i] = y
	}
	return out, nil
}

// Name returns "sigmoid".
func (Sigmoid) Name() string { return "sigmoid" }

// ReLU zeroes negative inputs: f(x) = max(0, x).
//
// The derivative at exactly x = 0 is a documented discontinuity; this
// implementation uses the sub-gradient convention and treats it as 0.
type ReLU struct{}

// Apply applies ReLU elementwise.
func (ReLU) Apply(xs []dual.Dual) ([]dual.Dual, error) {
	out := make([]dual.Dual, len(xs))
	for i, x := range xs {
		if x.Value() > 0 {
			out[i] = x
		} else {
			out[i] = dual.Constant(0)
		}
	}
	return out, nil
}

// Name returns "relu".
func (ReLU) Name() string { return "relu" }

// LeakyReLU scales negative inputs by a small slope instead of zeroing
// them, so gradients never vanish entirely. LeakyReLU with Slope 0 is ReLU.
type LeakyReLU struct {
	Slope float64
}

// Apply applies LeakyReLU elementwise.
func (a LeakyReLU) Apply(xs []dual.Dual) ([]dual.Dual, error) {
	out := make([]dual.Dual, len(xs))
	for i, x := range xs {
		if x.Value() > 0 {
			out[i] = x
		} else {
			out[i] = x.Scale(a.Slope)
		}
	}
	return out, nil
}

// Name returns "leaky_relu".
func (LeakyReLU) Name() string { return "leaky_relu" }

// Tanh squashes every input into (-1, 1).
type Tanh struct{}

// Apply applies tanh elementwise.
func (Tanh) Apply(xs []dual.Dual) ([]dual.Dual, error) {
	out := make([]dual.Dual, len(xs))
	for i, x := range xs {
		y, err := dual.Tanh(x)
		if err != nil {
			return nil, err
		}
		out[i] = y
	}
	return out, nil
}

// Name returns "tanh".
func (Tanh) Name() string { return "tanh" }

// Softmax normalizes the whole vector so its outputs sum to 1, yielding a
// probability distribution over the output slots.
//
// Inputs are shifted by -max(inputs) before exponentiation to prevent
// overflow; softmax is shift-invariant so values and derivatives are
// unaffected.
type Softmax struct{}

// Apply applies softmax to the whole vector.
func (Softmax) Apply(xs []dual.Dual) ([]dual.Dual, error) {
	if len(xs) == 0 {
		return xs, nil
	}

	maxIdx := 0
	for i, x := range xs {
		if x.Value() > xs[maxIdx].Value() {
			maxIdx = i
		}
	}
	shiftedMax := xs[maxIdx]

	exps := make([]dual.Dual, len(xs))
	sum := dual.Constant(0)
	for i, x := range xs {
		exps[i] = dual.Exp(x.Sub(shiftedMax))
		sum = sum.Add(exps[i])
	}

	out := make([]dual.Dual, len(xs))
	for i, e := range exps {
		y, err := e.Div(sum)
		if err != nil {
			return nil, err
		}
		out[i] = y
	}
	return out, nil
}

// Name returns "softmax".
func (Softmax) Name() string { return "softmax" }

// activationSlope returns the serialized slope for activations that carry
// one (LeakyReLU), and 0 otherwise.
func activationSlope(a Activation) float64 {
	if lr, ok := a.(LeakyReLU); ok {
		return lr.Slope
	}
	return 0
}

// ActivationByName resolves a serialized activation name back to an
// Activation. The slope argument is only meaningful for "leaky_relu".
func ActivationByName(name string, slope float64) (Activation, error) {
	switch name {
	case "identity", "":
		return Identity{}, nil
	case "sigmoid":
		return Sigmoid{}, nil
	case "relu":
		return ReLU{}, nil
	case "leaky_relu":
		return LeakyReLU{Slope: slope}, nil
	case "tanh":
		return Tanh{}, nil
	case "softmax":
		return Softmax{}, nil
	default:
		return nil, fmt.Errorf("unknown activation %q", name)
	}
}
