package dual

import "math"

// Elementary functions over dual numbers.
//
// Each function applies the chain rule: for y = f(x), the derivative vector
// of y is f'(x.Value()) times the derivative vector of x. Composite helpers
// (Sigmoid, Tanh) are built only from engine primitives, never from
// hand-coded derivatives, so their gradients are correct by construction.

// Exp returns e^d. Chain rule with (e^x)' = e^x.
func Exp(d Dual) Dual {
	e := math.Exp(d.value)
	return Dual{
		value: e,
		deriv: combine(e, d.deriv, 0, nil),
		space: d.space,
	}
}

// Sigmoid returns 1 / (1 + e^(-d)), composed from Exp, Add, and Div.
//
// σ(0) = 0.5 with derivative 0.25·dx, per the standard σ' = σ(1-σ).
//
// Branches on sign so the exponent argument is never positive: the naive
// single-form evaluation overflows Exp to +Inf on one tail, and an Inf
// derivative vector through the quotient rule turns into 0·Inf = NaN even
// though the analytic derivative underflows to 0. With the exponent
// non-positive, e^(-|d|) at worst underflows to exactly 0 and both value and
// derivative stay finite on the whole real line.
func Sigmoid(d Dual) (Dual, error) {
	if d.value >= 0 {
		return Constant(1).Div(Exp(d.Neg()).AddScalar(1))
	}
	// σ(x) = e^x / (1 + e^x) for x < 0
	e := Exp(d)
	return e.Div(e.AddScalar(1))
}

// Tanh returns the hyperbolic tangent of d.
//
// Uses the sign-symmetric forms (1 - e^(-2d))/(1 + e^(-2d)) for d ≥ 0 and
// (e^(2d) - 1)/(e^(2d) + 1) for d < 0, keeping the exponent argument
// non-positive for the same overflow reason as Sigmoid. The denominator is
// always in [1, 2], so Div cannot fail on a zero divisor.
func Tanh(d Dual) (Dual, error) {
	if d.value >= 0 {
		e := Exp(d.Scale(-2))
		return e.Neg().AddScalar(1).Div(e.AddScalar(1))
	}
	e := Exp(d.Scale(2))
	return e.AddScalar(-1).Div(e.AddScalar(1))
}
