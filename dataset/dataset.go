// Copyright 2025 The deepthought Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package dataset is the public API for dataset wrapping and batching.
//
// Example:
//
//	ds, err := dataset.New(inputs, labels, 0.8, dataset.BatchSize(2))
//	if err != nil {
//	    return err
//	}
//	it := ds.IterTrain()
//	for batch, ok := it.Next(); ok; batch, ok = it.Next() {
//	    // ... train on batch.Samples / batch.Labels ...
//	}
package dataset

import (
	"gonum.org/v1/gonum/mat"

	"github.com/deepthought-ml/deepthought/internal/dataset"
)

// Dataset owns input and label matrices, a train/test split, and a batch
// size policy.
type Dataset = dataset.Dataset

// BatchSize is the rule determining how many samples form one batch.
type BatchSize = dataset.BatchSize

// Batch size policies. Any positive BatchSize is a fixed mini-batch size.
const (
	Full = dataset.Full // one batch spanning the whole partition
	One  = dataset.One  // one sample per batch (stochastic)
)

// Batch is one group of samples with their labels.
type Batch = dataset.Batch

// Iterator is a lazy, restartable cursor over one dataset partition.
type Iterator = dataset.Iterator

// New creates a Dataset from input and label matrices.
func New(inputs, labels mat.Matrix, trainFraction float64, batchSize BatchSize) (*Dataset, error) {
	return dataset.New(inputs, labels, trainFraction, batchSize)
}
