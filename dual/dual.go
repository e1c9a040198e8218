// Copyright 2025 The deepthought Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dual is the public API for the forward-mode dual-number engine.
//
// Example:
//
//	space := dual.NewSpace(1)
//	x := space.Var(3.0, 0)
//	y := x.Mul(x)
//	fmt.Println(y.Derivative(0)) // 6.0
package dual

import (
	"github.com/deepthought-ml/deepthought/internal/dual"
)

// Dual is a value paired with its derivative vector.
type Dual = dual.Dual

// Space identifies one family of jointly-seeded dual numbers.
type Space = dual.Space

// NewSpace creates a Space with the given number of independent variables.
func NewSpace(size int) *Space {
	return dual.NewSpace(size)
}

// Constant creates a dual number with zero derivative everywhere.
func Constant(value float64) Dual {
	return dual.Constant(value)
}

// Exp returns e^d.
func Exp(d Dual) Dual {
	return dual.Exp(d)
}

// Sigmoid returns 1 / (1 + e^(-d)).
func Sigmoid(d Dual) (Dual, error) {
	return dual.Sigmoid(d)
}

// Tanh returns the hyperbolic tangent of d.
func Tanh(d Dual) (Dual, error) {
	return dual.Tanh(d)
}

// Error taxonomy

// ShapeError reports a dimension mismatch.
type ShapeError = dual.ShapeError

// ConfigError reports an invalid hyperparameter or construction argument.
type ConfigError = dual.ConfigError

// DomainError reports a mathematically undefined operation.
type DomainError = dual.DomainError
