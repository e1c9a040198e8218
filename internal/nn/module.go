// Package nn implements feedforward neural networks trained with
// forward-mode automatic differentiation.
//
// This package provides the building blocks for fully-connected networks:
//   - Parameter: a trainable weight or bias matrix
//   - Layer: dense layer computing activation(W·x + b) over dual numbers
//   - Activations: Identity, Sigmoid, ReLU, LeakyReLU, Tanh, Softmax
//   - Loss functions: MSE with a per-sample Losses container
//   - Network: ordered layer composition built from a validating Config
//
// Unlike reverse-mode frameworks, there is no backward pass: every training
// step threads dual numbers (internal/dual) through the layers, and the
// gradient with respect to every seeded weight and bias falls out of the
// loss value's derivative slots at the end of the forward pass.
package nn

import (
	"gonum.org/v1/gonum/mat"
)

// Parameter represents a trainable parameter of a network.
//
// Parameters own their data matrix and know the range of derivative slots
// that belong to them: slots offset..offset+NumElements() in the dual space
// the network seeds for training.
type Parameter struct {
	name   string
	data   *mat.Dense
	offset int
}

func newParameter(name string, data *mat.Dense, offset int) *Parameter {
	return &Parameter{name: name, data: data, offset: offset}
}

// Name returns the parameter name (e.g. "layer.0.weight").
func (p *Parameter) Name() string {
	return p.name
}

// Matrix returns the underlying parameter matrix.
//
// The matrix is owned by the parameter; optimizers mutate it in place.
func (p *Parameter) Matrix() *mat.Dense {
	return p.data
}

// Offset returns the first derivative slot assigned to this parameter.
func (p *Parameter) Offset() int {
	return p.offset
}

// NumElements returns the number of scalar values in the parameter.
func (p *Parameter) NumElements() int {
	r, c := p.data.Dims()
	return r * c
}
