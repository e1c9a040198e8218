// Package dataset wraps input/label matrices and serves them to the
// training loop in configurable batches.
//
// A Dataset owns copies of its matrices, splits them into a train and a
// test partition by a fraction, and hands out lazy, restartable batch
// iterators. The batch size policy is One (stochastic), Full (full-batch),
// or any fixed positive N (mini-batch).
package dataset

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/deepthought-ml/deepthought/internal/dual"
)

// BatchSize is the rule determining how many samples are grouped per
// gradient update.
type BatchSize int

// Batch size policies. Any positive value is a fixed mini-batch size.
const (
	Full BatchSize = 0 // one batch spanning the whole partition
	One  BatchSize = 1 // one sample per batch (stochastic)
)

// Batch is one group of samples with their labels.
//
// Both matrices are views into the dataset's storage; callers must not
// modify them.
type Batch struct {
	Samples *mat.Dense // [batchRows, inputDim]
	Labels  *mat.Dense // [batchRows, labelDim]
}

// Dataset owns an input matrix and a label matrix with matching row counts,
// a train/test split, and a batch size policy.
type Dataset struct {
	inputs *mat.Dense
	labels *mat.Dense
	nTrain int
	batch  BatchSize
}

// New creates a Dataset from input and label matrices.
//
// The matrices are deep-copied; the dataset has exclusive ownership of its
// storage. The first floor(trainFraction·rows) rows form the train
// partition, the rest the test partition.
//
// Fails with a ShapeError if the row counts differ, and with a ConfigError
// if trainFraction is outside (0, 1] or the batch size is negative.
func New(inputs, labels mat.Matrix, trainFraction float64, batchSize BatchSize) (*Dataset, error) {
	inRows, _ := inputs.Dims()
	labRows, _ := labels.Dims()
	if inRows != labRows {
		return nil, &dual.ShapeError{Op: "dataset.New", Expected: []int{inRows}, Found: []int{labRows}}
	}
	if trainFraction <= 0 || trainFraction > 1 {
		return nil, &dual.ConfigError{Field: "trainFraction", Reason: "must be in (0, 1]"}
	}
	if batchSize < 0 {
		return nil, &dual.ConfigError{Field: "batchSize", Reason: "must not be negative"}
	}

	return &Dataset{
		inputs: mat.DenseCopyOf(inputs),
		labels: mat.DenseCopyOf(labels),
		nTrain: int(trainFraction * float64(inRows)),
		batch:  batchSize,
	}, nil
}

// NumSamples returns the total number of samples.
func (d *Dataset) NumSamples() int {
	r, _ := d.inputs.Dims()
	return r
}

// NumTrain returns the number of samples in the train partition.
func (d *Dataset) NumTrain() int { return d.nTrain }

// NumTest returns the number of samples in the test partition.
func (d *Dataset) NumTest() int { return d.NumSamples() - d.nTrain }

// BatchSize returns the configured batch size policy.
func (d *Dataset) BatchSize() BatchSize { return d.batch }

// Shuffle permutes samples and labels in tandem, using the given seed for a
// reproducible permutation. Shuffle before iterating; it invalidates
// outstanding iterators' views.
func (d *Dataset) Shuffle(seed uint64) {
	rows := d.NumSamples()
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(rows, func(i, j int) {
		swapRows(d.inputs, i, j)
		swapRows(d.labels, i, j)
	})
}

func swapRows(m *mat.Dense, i, j int) {
	ri := mat.Row(nil, i, m)
	rj := mat.Row(nil, j, m)
	m.SetRow(i, rj)
	m.SetRow(j, ri)
}

// IterTrain returns a fresh batch iterator over the train partition.
func (d *Dataset) IterTrain() *Iterator {
	return newIterator(d, 0, d.nTrain)
}

// IterTest returns a fresh batch iterator over the test partition.
func (d *Dataset) IterTest() *Iterator {
	return newIterator(d, d.nTrain, d.NumSamples())
}
