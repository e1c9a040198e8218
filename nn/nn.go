// Copyright 2025 The deepthought Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/deepthought-ml/deepthought/internal/nn"
)

// Core types

// Network is an ordered composition of fully connected layers.
type Network = nn.Network

// Config describes a whole network; validated by New.
type Config = nn.Config

// LayerConfig describes one fully connected layer.
type LayerConfig = nn.LayerConfig

// Layer is a fully connected layer.
type Layer = nn.Layer

// Parameter is a trainable weight or bias matrix.
type Parameter = nn.Parameter

// Gradients maps parameters to their gradient matrices.
type Gradients = nn.Gradients

// New validates a Config and constructs the network.
func New(cfg Config) (*Network, error) {
	return nn.New(cfg)
}

// Activations

// Activation maps a layer's pre-activation duals to its outputs.
type Activation = nn.Activation

// Identity passes values through unchanged.
type Identity = nn.Identity

// Sigmoid squashes every input into (0, 1).
type Sigmoid = nn.Sigmoid

// ReLU zeroes negative inputs; its derivative at 0 is 0.
type ReLU = nn.ReLU

// LeakyReLU scales negative inputs by Slope.
type LeakyReLU = nn.LeakyReLU

// Tanh squashes every input into (-1, 1).
type Tanh = nn.Tanh

// Softmax normalizes a vector into a probability distribution.
type Softmax = nn.Softmax

// ActivationByName resolves a serialized activation name.
func ActivationByName(name string, slope float64) (Activation, error) {
	return nn.ActivationByName(name, slope)
}

// Losses

// Loss compares predictions against labels.
type Loss = nn.Loss

// Losses holds one error value per sample of a batch.
type Losses = nn.Losses

// MSE is mean squared error.
type MSE = nn.MSE

// Persistence

// OptimizerState is an optimizer with serializable buffers.
type OptimizerState = nn.OptimizerState

// Checkpoint is a complete training-state snapshot.
type Checkpoint = nn.Checkpoint

// Save writes a network's weights and configuration to a .dth file.
func Save(net *Network, path string) error {
	return nn.Save(net, path)
}

// Load reads a .dth file written by Save and reconstructs the network.
func Load(path string) (*Network, error) {
	return nn.Load(path)
}

// LoadCheckpoint restores a checkpoint into a network and optimizer.
func LoadCheckpoint(path string, net *Network, opt OptimizerState) (*Checkpoint, error) {
	return nn.LoadCheckpoint(path, net, opt)
}
