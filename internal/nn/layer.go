package nn

import (
	"gonum.org/v1/gonum/mat"

	"github.com/deepthought-ml/deepthought/internal/dual"
)

// Layer is a fully connected layer.
//
// It owns a weight matrix with shape [out, in], a bias vector with shape
// [out, 1], and an activation, and computes activation(W·x + b) over dual
// numbers so every output's derivative reflects its sensitivity to the
// seeded weights, biases, and inputs.
//
// Weights and biases are initialized from U(-1, 1) at network construction;
// the optimizer mutates them in place after each batch.
type Layer struct {
	in, out    int
	weight     *Parameter
	bias       *Parameter
	activation Activation
}

// InDim returns the expected input vector length.
func (l *Layer) InDim() int { return l.in }

// OutDim returns the output vector length.
func (l *Layer) OutDim() int { return l.out }

// Weight returns the weight parameter ([out, in]).
func (l *Layer) Weight() *Parameter { return l.weight }

// Bias returns the bias parameter ([out, 1]).
func (l *Layer) Bias() *Parameter { return l.bias }

// Activation returns the layer's activation.
func (l *Layer) Activation() Activation { return l.activation }

// SetParameters replaces the layer's weights and biases.
//
// Fails with a ShapeError if the replacement dimensions do not match the
// layer's existing dimensions.
func (l *Layer) SetParameters(weight, bias *mat.Dense) error {
	if r, c := weight.Dims(); r != l.out || c != l.in {
		return &dual.ShapeError{Op: "Layer.SetParameters", Expected: []int{l.out, l.in}, Found: []int{r, c}}
	}
	if r, c := bias.Dims(); r != l.out || c != 1 {
		return &dual.ShapeError{Op: "Layer.SetParameters", Expected: []int{l.out, 1}, Found: []int{r, c}}
	}
	l.weight.data.Copy(weight)
	l.bias.data.Copy(bias)
	return nil
}

// layerDuals holds a layer's parameters lifted into dual numbers, prepared
// once per forward pass and shared read-only across samples.
type layerDuals struct {
	w []dual.Dual // len out*in, row-major
	b []dual.Dual // len out
}

// paramDuals lifts the layer's weights and biases into the given space.
//
// When seeded is true every scalar parameter becomes an independent
// variable at its assigned derivative slot; otherwise parameters are plain
// constants (inference mode).
func (l *Layer) paramDuals(space *dual.Space, seeded bool) layerDuals {
	wData := l.weight.data.RawMatrix().Data
	bData := l.bias.data.RawMatrix().Data

	ld := layerDuals{
		w: make([]dual.Dual, len(wData)),
		b: make([]dual.Dual, len(bData)),
	}
	for i, v := range wData {
		if seeded {
			ld.w[i] = space.Var(v, l.weight.offset+i)
		} else {
			ld.w[i] = dual.Constant(v)
		}
	}
	for i, v := range bData {
		if seeded {
			ld.b[i] = space.Var(v, l.bias.offset+i)
		} else {
			ld.b[i] = dual.Constant(v)
		}
	}
	return ld
}

// forward computes activation(W·x + b) for one sample.
//
// Fails with a ShapeError if the input length does not match the layer's
// input dimension.
func (l *Layer) forward(x []dual.Dual, params layerDuals) ([]dual.Dual, error) {
	if len(x) != l.in {
		return nil, &dual.ShapeError{Op: "Layer.forward", Expected: []int{l.in}, Found: []int{len(x)}}
	}

	z := make([]dual.Dual, l.out)
	for i := 0; i < l.out; i++ {
		acc := params.b[i]
		row := params.w[i*l.in : (i+1)*l.in]
		for j, w := range row {
			acc = acc.Add(w.Mul(x[j]))
		}
		z[i] = acc
	}

	return l.activation.Apply(z)
}
