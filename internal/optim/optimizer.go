// Package optim implements optimization algorithms for training networks.
//
// This package provides:
//   - Optimizer interface: Step over a gradient map from Network.Gradients
//   - SGD: gradient descent with momentum
//   - Adam: adaptive moment estimation
//
// There is no ZeroGrad: forward-mode differentiation returns a fresh
// gradient map per batch, nothing accumulates on the parameters.
//
// Example usage:
//
//	sgd := optim.NewSGD(net.Parameters(), optim.SGDConfig{LR: 0.3, Momentum: 0.1})
//	for epoch := 0; epoch < epochs; epoch++ {
//	    it := ds.IterTrain()
//	    for batch, ok := it.Next(); ok; batch, ok = it.Next() {
//	        grads, _, err := net.Gradients(batch.Samples, batch.Labels, nn.MSE{})
//	        if err != nil {
//	            return err
//	        }
//	        sgd.Step(grads)
//	    }
//	}
package optim

import (
	"github.com/deepthought-ml/deepthought/internal/nn"
)

// Optimizer is the base interface for all optimization algorithms.
//
// Optimizers mutate parameter matrices in place, strictly after a batch's
// gradients have been fully computed (single writer per parameter).
type Optimizer interface {
	// Step applies one update using the gradient map from
	// Network.Gradients. Parameters without an entry are skipped.
	Step(grads nn.Gradients)

	// GetLR returns the current learning rate.
	GetLR() float64

	// SetLR updates the learning rate. Useful for scheduling.
	SetLR(lr float64)
}
