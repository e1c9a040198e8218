// Package dual implements forward-mode automatic differentiation using
// dual numbers.
//
// A Dual carries a value together with a derivative vector holding the
// sensitivity of that value to every independent variable seeded in its
// Space. Arithmetic on duals propagates derivatives exactly, using the sum,
// product, quotient, and chain rules, so after a forward pass the derivative
// slots of the result already hold the gradient. No separate backward pass
// is needed.
//
// Architecture:
//   - Space: allocates one derivative slot per independent variable and tags
//     every dual created from it. Duals from different spaces must never be
//     combined; binary operations enforce this at runtime.
//   - Dual: immutable (value, derivative-vector) pair. Constants carry a nil
//     derivative vector, which every operation treats as all-zeros.
//   - Binary operations combine the two derivative vectors linearly:
//     d(f(a,b)) = ∂f/∂a·da + ∂f/∂b·db.
//
// Usage:
//
//	space := dual.NewSpace(1)
//	x := space.Var(3.0, 0)      // seed dx/dx = 1
//	y := x.Mul(x)               // y = x²
//	fmt.Println(y.Derivative(0)) // dy/dx = 2x = 6.0
//
// The package also hosts the library-wide error taxonomy (ShapeError,
// ConfigError, DomainError); see errors.go.
package dual

import "fmt"

// Space identifies one family of jointly-seeded dual numbers.
//
// Its size is the number of independent variables being differentiated
// against; every non-constant Dual created from a Space carries a derivative
// vector of exactly that length, one slot per variable.
//
// Duals from two different spaces have incompatible derivative layouts.
// Binary operations panic when mixing them; this is a programming error, not
// a data-dependent failure.
type Space struct {
	size int
}

// NewSpace creates a Space with the given number of independent variables.
//
// Panics if size is negative. A zero-size space is valid and useful for
// derivative-free evaluation: all duals in it behave as constants.
func NewSpace(size int) *Space {
	if size < 0 {
		panic(fmt.Sprintf("dual: NewSpace: negative size %d", size))
	}
	return &Space{size: size}
}

// Size returns the number of independent variables in the space.
func (s *Space) Size() int {
	return s.size
}

// Var creates a dual number seeded as the i-th independent variable:
// its derivative vector is 1 at slot i and 0 everywhere else.
//
// Panics if i is outside [0, Size()).
func (s *Space) Var(value float64, i int) Dual {
	if i < 0 || i >= s.size {
		panic(fmt.Sprintf("dual: Var: slot %d out of range [0, %d)", i, s.size))
	}
	deriv := make([]float64, s.size)
	deriv[i] = 1
	return Dual{value: value, deriv: deriv, space: s}
}

// Seeded creates a dual number with an explicit seed derivative vector.
//
// The seed is copied. Panics if len(seed) != Size().
func (s *Space) Seeded(value float64, seed []float64) Dual {
	if len(seed) != s.size {
		panic(fmt.Sprintf("dual: Seeded: seed length %d, space size %d", len(seed), s.size))
	}
	deriv := make([]float64, s.size)
	copy(deriv, seed)
	return Dual{value: value, deriv: deriv, space: s}
}

// Dual is a value paired with its derivative vector.
//
// Duals are immutable value types: every operation returns a new Dual and
// never mutates its operands. A nil derivative vector means "constant"
// (all derivatives zero) and lets constants skip allocation entirely.
type Dual struct {
	value float64
	deriv []float64
	space *Space
}

// Constant creates a dual number with zero derivative against every
// variable. Constants belong to no space and combine freely with duals from
// any space.
func Constant(value float64) Dual {
	return Dual{value: value}
}

// Value returns the real value component.
func (d Dual) Value() float64 {
	return d.value
}

// IsConstant reports whether the dual carries no derivative information.
func (d Dual) IsConstant() bool {
	return d.deriv == nil
}

// Derivative returns the derivative with respect to the i-th variable of the
// dual's space. Constants return 0 for every slot.
func (d Dual) Derivative(i int) float64 {
	if d.deriv == nil {
		return 0
	}
	return d.deriv[i]
}

// Gradient returns a copy of the full derivative vector.
//
// For constants in no space the result is nil; callers that need a
// fixed-length gradient should create constants through arithmetic with
// space-tagged duals instead.
func (d Dual) Gradient() []float64 {
	if d.deriv == nil {
		if d.space == nil {
			return nil
		}
		return make([]float64, d.space.size)
	}
	out := make([]float64, len(d.deriv))
	copy(out, d.deriv)
	return out
}

// joinSpace resolves the space of a binary operation's result and enforces
// the no-mixing invariant.
func joinSpace(a, b Dual) *Space {
	switch {
	case a.space == nil:
		return b.space
	case b.space == nil || a.space == b.space:
		return a.space
	default:
		panic("dual: cannot combine duals from different spaces")
	}
}

// combine builds the derivative vector ca·da + cb·db, treating nil vectors
// as zero. Returns nil when both inputs are constant, so constant-only
// arithmetic never allocates.
func combine(ca float64, da []float64, cb float64, db []float64) []float64 {
	if da == nil && db == nil {
		return nil
	}
	n := len(da)
	if n == 0 {
		n = len(db)
	}
	out := make([]float64, n)
	if da != nil {
		for i, v := range da {
			out[i] = ca * v
		}
	}
	if db != nil {
		for i, v := range db {
			out[i] += cb * v
		}
	}
	return out
}

// Add returns d + o. Sum rule: derivatives add.
func (d Dual) Add(o Dual) Dual {
	return Dual{
		value: d.value + o.value,
		deriv: combine(1, d.deriv, 1, o.deriv),
		space: joinSpace(d, o),
	}
}

// Sub returns d - o.
func (d Dual) Sub(o Dual) Dual {
	return Dual{
		value: d.value - o.value,
		deriv: combine(1, d.deriv, -1, o.deriv),
		space: joinSpace(d, o),
	}
}

// Mul returns d * o. Product rule: (ab)' = b·a' + a·b'.
func (d Dual) Mul(o Dual) Dual {
	return Dual{
		value: d.value * o.value,
		deriv: combine(o.value, d.deriv, d.value, o.deriv),
		space: joinSpace(d, o),
	}
}

// Div returns d / o.
//
// Quotient rule: (a/b)' = a'/b - a·b'/b². Fails with a DomainError when the
// divisor's value is exactly zero; the derivative would be undefined and
// silent NaN propagation defeats exact-derivative training.
func (d Dual) Div(o Dual) (Dual, error) {
	if o.value == 0 {
		return Dual{}, &DomainError{Op: "Div", Reason: "division by dual with value 0"}
	}
	inv := 1 / o.value
	return Dual{
		value: d.value * inv,
		deriv: combine(inv, d.deriv, -d.value*inv*inv, o.deriv),
		space: joinSpace(d, o),
	}, nil
}

// Neg returns -d.
func (d Dual) Neg() Dual {
	return Dual{
		value: -d.value,
		deriv: combine(-1, d.deriv, 0, nil),
		space: d.space,
	}
}

// Scale returns c·d for a plain scalar c.
func (d Dual) Scale(c float64) Dual {
	return Dual{
		value: c * d.value,
		deriv: combine(c, d.deriv, 0, nil),
		space: d.space,
	}
}

// AddScalar returns d + c for a plain scalar c.
func (d Dual) AddScalar(c float64) Dual {
	return Dual{
		value: d.value + c,
		deriv: combine(1, d.deriv, 0, nil),
		space: d.space,
	}
}
