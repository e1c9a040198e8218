package optim

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/deepthought-ml/deepthought/internal/dual"
	"github.com/deepthought-ml/deepthought/internal/nn"
)

// SGD implements stochastic gradient descent with optional momentum.
//
// Update rule without momentum:
//
//	param -= lr * gradient
//
// Update rule with momentum (the learning rate scales the gradient inside
// the velocity, so the velocity is the applied step):
//
//	velocity = momentum * velocity + lr * gradient
//	param -= velocity
//
// Momentum keeps an exponentially-weighted moving average of past gradients,
// accelerating descent along consistent directions and damping oscillation.
type SGD struct {
	params     []*nn.Parameter
	lr         float64
	momentum   float64
	velocities map[*nn.Parameter]*mat.Dense
}

// SGDConfig holds configuration for the SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer over the given parameters.
func NewSGD(params []*nn.Parameter, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	return &SGD{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[*nn.Parameter]*mat.Dense),
	}
}

// NewSGDFromNetwork creates an SGD optimizer over all of a network's
// parameters, taking learning rate and momentum from the network's config.
func NewSGDFromNetwork(net *nn.Network) *SGD {
	return NewSGD(net.Parameters(), SGDConfig{LR: net.LearningRate(), Momentum: net.Momentum()})
}

// Step applies one gradient-descent update to every parameter that has a
// gradient in the map.
func (s *SGD) Step(grads nn.Gradients) {
	for _, p := range s.params {
		grad, ok := grads[p]
		if !ok {
			continue
		}

		w := p.Matrix()
		r, c := w.Dims()

		step := mat.NewDense(r, c, nil)
		step.Scale(s.lr, grad)

		if s.momentum != 0 {
			velocity, exists := s.velocities[p]
			if !exists {
				velocity = mat.NewDense(r, c, nil)
				s.velocities[p] = velocity
			}
			// velocity = momentum*velocity + lr*grad
			velocity.Scale(s.momentum, velocity)
			velocity.Add(velocity, step)
			step = velocity
		}

		w.Sub(w, step)
	}
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 { return s.lr }

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float64) { s.lr = lr }

// StateDict exports the velocity buffers for serialization, keyed
// "velocity.{param_index}". Without momentum the map is empty.
func (s *SGD) StateDict() map[string]*mat.Dense {
	state := make(map[string]*mat.Dense)
	if s.momentum == 0 {
		return state
	}
	for i, p := range s.params {
		velocity, exists := s.velocities[p]
		if !exists {
			continue // not used in training yet
		}
		state[fmt.Sprintf("velocity.%d", i)] = velocity
	}
	return state
}

// LoadStateDict restores velocity buffers. Missing entries are initialized
// lazily on the next Step; shape mismatches fail with a ShapeError.
func (s *SGD) LoadStateDict(state map[string]*mat.Dense) error {
	if s.momentum == 0 {
		return nil
	}
	s.velocities = make(map[*nn.Parameter]*mat.Dense)
	for i, p := range s.params {
		velocity, exists := state[fmt.Sprintf("velocity.%d", i)]
		if !exists {
			continue
		}
		pr, pc := p.Matrix().Dims()
		vr, vc := velocity.Dims()
		if vr != pr || vc != pc {
			return &dual.ShapeError{
				Op:       fmt.Sprintf("SGD.LoadStateDict: velocity.%d", i),
				Expected: []int{pr, pc},
				Found:    []int{vr, vc},
			}
		}
		s.velocities[p] = mat.DenseCopyOf(velocity)
	}
	return nil
}
