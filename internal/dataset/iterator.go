package dataset

import "gonum.org/v1/gonum/mat"

// Iterator is an explicit cursor over one partition of a Dataset.
//
// It produces a lazy, restartable sequence of batches honoring the
// dataset's batch size policy. When the partition size does not divide
// evenly, the final batch is yielded short rather than padded or dropped;
// this policy is fixed.
//
// Usage:
//
//	it := dataset.IterTrain()
//	for batch, ok := it.Next(); ok; batch, ok = it.Next() {
//	    // ... train on batch ...
//	}
//	it.Reset() // start over for the next epoch
type Iterator struct {
	ds         *Dataset
	start, end int // partition row range [start, end)
	size       int // resolved rows per batch
	pos        int
}

func newIterator(ds *Dataset, start, end int) *Iterator {
	size := int(ds.batch)
	if ds.batch == Full {
		size = end - start
	}
	return &Iterator{ds: ds, start: start, end: end, size: size, pos: start}
}

// Next returns the next batch. The second result is false once the
// partition is exhausted; call Reset to iterate again.
func (it *Iterator) Next() (Batch, bool) {
	if it.pos >= it.end {
		return Batch{}, false
	}

	hi := it.pos + it.size
	if hi > it.end {
		hi = it.end // short final batch
	}

	_, inCols := it.ds.inputs.Dims()
	_, labCols := it.ds.labels.Dims()
	batch := Batch{
		Samples: it.ds.inputs.Slice(it.pos, hi, 0, inCols).(*mat.Dense),
		Labels:  it.ds.labels.Slice(it.pos, hi, 0, labCols).(*mat.Dense),
	}
	it.pos = hi
	return batch, true
}

// Reset rewinds the cursor to the start of the partition.
func (it *Iterator) Reset() {
	it.pos = it.start
}

// NumBatches returns the number of batches one full pass yields.
func (it *Iterator) NumBatches() int {
	n := it.end - it.start
	if n == 0 || it.size == 0 {
		return 0
	}
	return (n + it.size - 1) / it.size
}

// BatchSize returns the resolved number of rows per full batch.
func (it *Iterator) BatchSize() int {
	return it.size
}
