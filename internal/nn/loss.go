package nn

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/deepthought-ml/deepthought/internal/dual"
)

// Loss is a stateless comparison between predictions and labels.
//
// Compute is the evaluation path: it reduces a whole batch to one error per
// sample. Dual is the training path: it reduces one sample's dual-number
// predictions to a scalar dual loss whose derivative slots carry the
// gradient. Both paths must agree; Dual is expressed only through dual
// engine operations so that agreement is structural, not maintained by hand.
type Loss interface {
	// Compute returns the per-sample error container for a batch.
	// predictions and targets must both have shape [batch, outDim].
	Compute(predictions, targets mat.Matrix) (*Losses, error)

	// Dual computes the loss for a single sample's dual predictions.
	Dual(predictions []dual.Dual, target []float64) (dual.Dual, error)

	// Name returns the loss's serialization name.
	Name() string
}

// Losses holds one error value per sample of a batch.
type Losses struct {
	perSample []float64
}

// Mean returns the average per-sample error. Returns 0 for an empty batch.
func (l *Losses) Mean() float64 {
	if len(l.perSample) == 0 {
		return 0
	}
	return floats.Sum(l.perSample) / float64(len(l.perSample))
}

// Sum returns the total error over the batch.
func (l *Losses) Sum() float64 {
	return floats.Sum(l.perSample)
}

// PerSample returns a copy of the per-sample errors.
func (l *Losses) PerSample() []float64 {
	out := make([]float64, len(l.perSample))
	copy(out, l.perSample)
	return out
}

// Len returns the number of samples.
func (l *Losses) Len() int {
	return len(l.perSample)
}

// MSE is mean squared error: mean((prediction - target)²) over the output
// components of each sample.
type MSE struct{}

// Compute returns per-sample MSE for a batch.
func (MSE) Compute(predictions, targets mat.Matrix) (*Losses, error) {
	pr, pc := predictions.Dims()
	tr, tc := targets.Dims()
	if pr != tr || pc != tc {
		return nil, &dual.ShapeError{Op: "MSE.Compute", Expected: []int{pr, pc}, Found: []int{tr, tc}}
	}

	perSample := make([]float64, pr)
	for i := 0; i < pr; i++ {
		var sum float64
		for j := 0; j < pc; j++ {
			d := predictions.At(i, j) - targets.At(i, j)
			sum += d * d
		}
		perSample[i] = sum / float64(pc)
	}
	return &Losses{perSample: perSample}, nil
}

// Dual computes one sample's MSE through the dual engine, so the result's
// derivative slots hold dLoss/dparam for every seeded parameter.
func (MSE) Dual(predictions []dual.Dual, target []float64) (dual.Dual, error) {
	if len(predictions) != len(target) {
		return dual.Dual{}, &dual.ShapeError{
			Op:       "MSE.Dual",
			Expected: []int{len(predictions)},
			Found:    []int{len(target)},
		}
	}

	sum := dual.Constant(0)
	for i, p := range predictions {
		diff := p.AddScalar(-target[i])
		sum = sum.Add(diff.Mul(diff))
	}
	return sum.Scale(1 / float64(len(predictions))), nil
}

// Name returns "mse".
func (MSE) Name() string { return "mse" }
