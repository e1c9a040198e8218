// Copyright 2025 The deepthought Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn is the public API for building and training feedforward
// neural networks with forward-mode automatic differentiation.
//
// Networks are described by an explicit Config and built with New:
//
//	net, err := nn.New(nn.Config{
//	    Layers: []nn.LayerConfig{
//	        {In: 2, Out: 3, Activation: nn.Sigmoid{}},
//	        {In: 3, Out: 3, Activation: nn.Sigmoid{}},
//	        {In: 3, Out: 1, Activation: nn.Sigmoid{}},
//	    },
//	    LearningRate: 0.3,
//	    Momentum:     0.1,
//	    Seed:         42,
//	})
//
// Training extracts exact gradients from a single forward pass over dual
// numbers; see Network.Gradients and the optim package.
package nn
