// Copyright 2025 The deepthought Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim is the public API for optimization algorithms.
//
// Example:
//
//	sgd := optim.NewSGD(net.Parameters(), optim.SGDConfig{LR: 0.3, Momentum: 0.1})
//	grads, loss, err := net.Gradients(batch.Samples, batch.Labels, nn.MSE{})
//	if err != nil {
//	    return err
//	}
//	sgd.Step(grads)
//	_ = loss
package optim

import (
	"github.com/deepthought-ml/deepthought/internal/nn"
	"github.com/deepthought-ml/deepthought/internal/optim"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer = optim.Optimizer

// SGD is stochastic gradient descent with optional momentum.
type SGD = optim.SGD

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer over the given parameters.
func NewSGD(params []*nn.Parameter, config SGDConfig) *SGD {
	return optim.NewSGD(params, config)
}

// NewSGDFromNetwork creates an SGD optimizer from a network's own
// learning rate and momentum.
func NewSGDFromNetwork(net *nn.Network) *SGD {
	return optim.NewSGDFromNetwork(net)
}

// Adam is the Adam optimizer.
type Adam = optim.Adam

// AdamConfig holds configuration for the Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer with defaulted hyperparameters.
func NewAdam(params []*nn.Parameter, config AdamConfig) *Adam {
	return optim.NewAdam(params, config)
}
