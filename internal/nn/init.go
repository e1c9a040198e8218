package nn

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// uniformInit returns an r×c matrix with entries drawn from U(-1, 1).
//
// This is the library's documented weight-initialization scheme for both
// weights and biases. The source is derived from the network's seed, so
// construction is reproducible when an explicit seed is configured.
func uniformInit(r, c int, src rand.Source) *mat.Dense {
	u := distuv.Uniform{Min: -1, Max: 1, Src: src}
	data := make([]float64, r*c)
	for i := range data {
		data[i] = u.Rand()
	}
	return mat.NewDense(r, c, data)
}
