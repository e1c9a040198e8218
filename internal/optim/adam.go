package optim

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/deepthought-ml/deepthought/internal/nn"
)

// Adam implements the Adam (Adaptive Moment Estimation) optimizer.
//
// Adam keeps exponential moving averages of gradients (first moment) and
// squared gradients (second moment), with bias correction for their zero
// initialization:
//
//	m = beta1*m + (1-beta1)*g
//	v = beta2*v + (1-beta2)*g²
//	param -= lr * (m / (1-beta1^t)) / (sqrt(v / (1-beta2^t)) + eps)
//
// Reference: "Adam: A Method for Stochastic Optimization" (Kingma & Ba, 2014).
type Adam struct {
	params []*nn.Parameter
	lr     float64
	beta1  float64
	beta2  float64
	eps    float64
	t      int // Timestep for bias correction
	m      map[*nn.Parameter]*mat.Dense
	v      map[*nn.Parameter]*mat.Dense
}

// AdamConfig holds configuration for the Adam optimizer.
type AdamConfig struct {
	LR    float64    // Learning rate (default: 0.001)
	Betas [2]float64 // Moment decay rates (default: [0.9, 0.999])
	Eps   float64    // Numerical stability term (default: 1e-8)
}

// NewAdam creates a new Adam optimizer with defaulted hyperparameters.
func NewAdam(params []*nn.Parameter, config AdamConfig) *Adam {
	if config.LR == 0 {
		config.LR = 0.001
	}
	if config.Betas == [2]float64{} {
		config.Betas = [2]float64{0.9, 0.999}
	}
	if config.Eps == 0 {
		config.Eps = 1e-8
	}
	return &Adam{
		params: params,
		lr:     config.LR,
		beta1:  config.Betas[0],
		beta2:  config.Betas[1],
		eps:    config.Eps,
		m:      make(map[*nn.Parameter]*mat.Dense),
		v:      make(map[*nn.Parameter]*mat.Dense),
	}
}

// Step applies one Adam update to every parameter with a gradient.
func (a *Adam) Step(grads nn.Gradients) {
	a.t++
	corr1 := 1 - math.Pow(a.beta1, float64(a.t))
	corr2 := 1 - math.Pow(a.beta2, float64(a.t))

	for _, p := range a.params {
		grad, ok := grads[p]
		if !ok {
			continue
		}

		w := p.Matrix()
		r, c := w.Dims()

		m, exists := a.m[p]
		if !exists {
			m = mat.NewDense(r, c, nil)
			a.m[p] = m
		}
		v, exists := a.v[p]
		if !exists {
			v = mat.NewDense(r, c, nil)
			a.v[p] = v
		}

		wData := w.RawMatrix().Data
		mData := m.RawMatrix().Data
		vData := v.RawMatrix().Data
		gData := grad.RawMatrix().Data

		for i, g := range gData {
			mData[i] = a.beta1*mData[i] + (1-a.beta1)*g
			vData[i] = a.beta2*vData[i] + (1-a.beta2)*g*g
			mHat := mData[i] / corr1
			vHat := vData[i] / corr2
			wData[i] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		}
	}
}

// GetLR returns the current learning rate.
func (a *Adam) GetLR() float64 { return a.lr }

// SetLR updates the learning rate.
func (a *Adam) SetLR(lr float64) { a.lr = lr }

// StateDict exports the moment buffers and timestep, keyed "m.{i}", "v.{i}",
// and "step".
func (a *Adam) StateDict() map[string]*mat.Dense {
	state := make(map[string]*mat.Dense)
	for i, p := range a.params {
		if m, exists := a.m[p]; exists {
			state[fmt.Sprintf("m.%d", i)] = m
		}
		if v, exists := a.v[p]; exists {
			state[fmt.Sprintf("v.%d", i)] = v
		}
	}
	state["step"] = mat.NewDense(1, 1, []float64{float64(a.t)})
	return state
}

// LoadStateDict restores moment buffers and the timestep.
func (a *Adam) LoadStateDict(state map[string]*mat.Dense) error {
	a.m = make(map[*nn.Parameter]*mat.Dense)
	a.v = make(map[*nn.Parameter]*mat.Dense)
	for i, p := range a.params {
		if m, exists := state[fmt.Sprintf("m.%d", i)]; exists {
			a.m[p] = mat.DenseCopyOf(m)
		}
		if v, exists := state[fmt.Sprintf("v.%d", i)]; exists {
			a.v[p] = mat.DenseCopyOf(v)
		}
	}
	if step, exists := state["step"]; exists {
		a.t = int(step.At(0, 0))
	}
	return nil
}
