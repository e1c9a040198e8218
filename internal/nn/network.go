package nn

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"

	"github.com/deepthought-ml/deepthought/internal/dual"
	"github.com/deepthought-ml/deepthought/internal/parallel"
)

// defaultLearningRate matches the historical library default.
const defaultLearningRate = 0.01

// LayerConfig describes one fully connected layer.
type LayerConfig struct {
	In         int        // Input dimension
	Out        int        // Output dimension
	Activation Activation // nil means Identity
}

// Config describes a whole network.
//
// This is deliberately a plain struct with named fields rather than a
// fluent builder: there is no partially-constructed state, and New validates
// everything in one place.
type Config struct {
	// Layers, in forward order. Adjacent dimensions must chain:
	// Layers[i].In == Layers[i-1].Out.
	Layers []LayerConfig

	// LearningRate for the update step. 0 selects the default (0.01);
	// negative values are rejected.
	LearningRate float64

	// Momentum factor in [0, 1).
	Momentum float64

	// Seed for weight initialization. 0 selects a time-based seed; set it
	// explicitly for reproducible construction.
	Seed uint64
}

// Network is an ordered composition of fully connected layers.
//
// The layer topology is immutable after construction; the weights inside
// are mutated in place by optimizers during training.
type Network struct {
	layers    []*Layer
	params    []*Parameter
	lr        float64
	momentum  float64
	seed      uint64
	numParams int
	pcfg      parallel.Config
}

// New validates a Config and constructs the network, initializing every
// weight and bias from U(-1, 1) using the configured seed.
//
// Fails with a ConfigError for invalid hyperparameters (negative learning
// rate, momentum outside [0, 1), missing or non-positive layer dimensions)
// and with a ShapeError when adjacent layer dimensions do not chain.
func New(cfg Config) (*Network, error) {
	if len(cfg.Layers) == 0 {
		return nil, &dual.ConfigError{Field: "Layers", Reason: "at least one layer is required"}
	}
	if cfg.LearningRate < 0 {
		return nil, &dual.ConfigError{Field: "LearningRate", Reason: "must not be negative"}
	}
	if cfg.Momentum < 0 || cfg.Momentum >= 1 {
		return nil, &dual.ConfigError{Field: "Momentum", Reason: "must be in [0, 1)"}
	}
	for i, lc := range cfg.Layers {
		if lc.In <= 0 || lc.Out <= 0 {
			return nil, &dual.ConfigError{
				Field:  fmt.Sprintf("Layers[%d]", i),
				Reason: fmt.Sprintf("dimensions must be positive, got %dx%d", lc.In, lc.Out),
			}
		}
		if i > 0 && lc.In != cfg.Layers[i-1].Out {
			return nil, &dual.ShapeError{
				Op:       fmt.Sprintf("nn.New: Layers[%d]", i),
				Expected: []int{cfg.Layers[i-1].Out},
				Found:    []int{lc.In},
			}
		}
	}

	lr := cfg.LearningRate
	if lr == 0 {
		lr = defaultLearningRate
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	src := rand.NewSource(seed)
	net := &Network{
		lr:       lr,
		momentum: cfg.Momentum,
		seed:     seed,
		pcfg:     parallel.DefaultConfig(),
	}

	offset := 0
	for i, lc := range cfg.Layers {
		act := lc.Activation
		if act == nil {
			act = Identity{}
		}

		weight := newParameter(fmt.Sprintf("layer.%d.weight", i), uniformInit(lc.Out, lc.In, src), offset)
		offset += weight.NumElements()
		bias := newParameter(fmt.Sprintf("layer.%d.bias", i), uniformInit(lc.Out, 1, src), offset)
		offset += bias.NumElements()

		net.layers = append(net.layers, &Layer{
			in:         lc.In,
			out:        lc.Out,
			weight:     weight,
			bias:       bias,
			activation: act,
		})
		net.params = append(net.params, weight, bias)
	}
	net.numParams = offset

	return net, nil
}

// InDim returns the input dimension of the first layer.
func (n *Network) InDim() int { return n.layers[0].in }

// OutDim returns the output dimension of the last layer.
func (n *Network) OutDim() int { return n.layers[len(n.layers)-1].out }

// Layers returns the network's layers in forward order.
func (n *Network) Layers() []*Layer { return n.layers }

// Parameters returns all trainable parameters, weights and biases
// interleaved in layer order.
func (n *Network) Parameters() []*Parameter { return n.params }

// NumParams returns the total number of scalar parameters, which is also
// the size of the dual space seeded during training.
func (n *Network) NumParams() int { return n.numParams }

// LearningRate returns the configured learning rate.
func (n *Network) LearningRate() float64 { return n.lr }

// Momentum returns the configured momentum factor.
func (n *Network) Momentum() float64 { return n.momentum }

// Seed returns the seed weights were initialized with.
func (n *Network) Seed() uint64 { return n.seed }

// paramDuals lifts every layer's parameters into the given space.
func (n *Network) paramDuals(space *dual.Space, seeded bool) []layerDuals {
	params := make([]layerDuals, len(n.layers))
	for i, l := range n.layers {
		params[i] = l.paramDuals(space, seeded)
	}
	return params
}

// runSample threads one input row through every layer.
func (n *Network) runSample(row []float64, params []layerDuals) ([]dual.Dual, error) {
	x := make([]dual.Dual, len(row))
	for j, v := range row {
		x[j] = dual.Constant(v)
	}

	var err error
	for i, l := range n.layers {
		x, err = l.forward(x, params[i])
		if err != nil {
			return nil, err
		}
	}
	return x, nil
}

// Forward passes a batch of input rows through the network.
//
// batch has shape [batchSize, InDim()]; the result has shape
// [batchSize, OutDim()] regardless of batch size. No derivatives are
// tracked; use Gradients for training.
func (n *Network) Forward(batch mat.Matrix) (*mat.Dense, error) {
	rows, cols := batch.Dims()
	if cols != n.InDim() {
		return nil, &dual.ShapeError{Op: "Network.Forward", Expected: []int{n.InDim()}, Found: []int{cols}}
	}

	space := dual.NewSpace(0)
	params := n.paramDuals(space, false)

	out := mat.NewDense(rows, n.OutDim(), nil)
	errs := make([]error, rows)
	parallel.For(rows, func(i int) {
		pred, err := n.runSample(mat.Row(nil, i, batch), params)
		if err != nil {
			errs[i] = err
			return
		}
		for j, p := range pred {
			out.Set(i, j, p.Value())
		}
	}, n.pcfg)

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Gradients is the exact gradient of a batch loss, one matrix per
// parameter, shaped like the parameter it belongs to.
type Gradients map[*Parameter]*mat.Dense

// Gradients runs the training forward pass and extracts the gradient.
//
// Every weight and bias is seeded as an independent variable in one dual
// space, the batch is forwarded data-parallel (weights are read-only during
// the pass), per-sample dual losses are averaged, and the mean loss's
// derivative vector is split back into per-parameter gradient matrices.
// This is the backprop-equivalent step: there is no separate backward pass.
//
// Returns the gradient map and the scalar batch loss. A loss that comes out
// NaN or Inf is surfaced as a DomainError rather than silently applied.
func (n *Network) Gradients(samples, labels mat.Matrix, lossFn Loss) (Gradients, float64, error) {
	rows, cols := samples.Dims()
	lRows, lCols := labels.Dims()
	switch {
	case cols != n.InDim():
		return nil, 0, &dual.ShapeError{Op: "Network.Gradients", Expected: []int{n.InDim()}, Found: []int{cols}}
	case lCols != n.OutDim():
		return nil, 0, &dual.ShapeError{Op: "Network.Gradients", Expected: []int{n.OutDim()}, Found: []int{lCols}}
	case lRows != rows:
		return nil, 0, &dual.ShapeError{Op: "Network.Gradients", Expected: []int{rows}, Found: []int{lRows}}
	case rows == 0:
		return nil, 0, &dual.ConfigError{Field: "batch", Reason: "empty batch"}
	}

	space := dual.NewSpace(n.numParams)
	params := n.paramDuals(space, true)

	sampleLosses := make([]dual.Dual, rows)
	errs := make([]error, rows)
	parallel.For(rows, func(i int) {
		pred, err := n.runSample(mat.Row(nil, i, samples), params)
		if err != nil {
			errs[i] = err
			return
		}
		sampleLosses[i], errs[i] = lossFn.Dual(pred, mat.Row(nil, i, labels))
	}, n.pcfg)

	for _, err := range errs {
		if err != nil {
			return nil, 0, err
		}
	}

	total := dual.Constant(0)
	for _, sl := range sampleLosses {
		total = total.Add(sl)
	}
	batchLoss := total.Scale(1 / float64(rows))

	if v := batchLoss.Value(); math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, 0, &dual.DomainError{Op: "Network.Gradients", Reason: fmt.Sprintf("batch loss is %v", v)}
	}

	grad := batchLoss.Gradient()
	if grad == nil {
		// The loss lost all parameter dependence (e.g. every ReLU dead);
		// the gradient is identically zero.
		grad = make([]float64, n.numParams)
	}
	for i, v := range grad {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			// A finite loss does not guarantee a finite gradient; reject
			// before an optimizer step can write the corruption into weights.
			return nil, 0, &dual.DomainError{
				Op:     "Network.Gradients",
				Reason: fmt.Sprintf("gradient slot %d is %v", i, v),
			}
		}
	}
	grads := make(Gradients, len(n.params))
	for _, p := range n.params {
		seg := grad[p.offset : p.offset+p.NumElements()]
		data := make([]float64, len(seg))
		copy(data, seg)
		pr, pc := p.data.Dims()
		grads[p] = mat.NewDense(pr, pc, data)
	}

	return grads, batchLoss.Value(), nil
}

// StateDict returns the live parameter matrices keyed by parameter name
// ("layer.0.weight", "layer.0.bias", ...).
func (n *Network) StateDict() map[string]*mat.Dense {
	state := make(map[string]*mat.Dense, len(n.params))
	for _, p := range n.params {
		state[p.name] = p.data
	}
	return state
}

// LoadStateDict copies parameter values from a state dictionary.
//
// Every parameter of the network must be present with matching dimensions;
// mismatches fail with a ShapeError.
func (n *Network) LoadStateDict(state map[string]*mat.Dense) error {
	for _, p := range n.params {
		src, ok := state[p.name]
		if !ok {
			return fmt.Errorf("missing %s in state dict", p.name)
		}
		pr, pc := p.data.Dims()
		sr, sc := src.Dims()
		if sr != pr || sc != pc {
			return &dual.ShapeError{Op: "Network.LoadStateDict: " + p.name, Expected: []int{pr, pc}, Found: []int{sr, sc}}
		}
		p.data.Copy(src)
	}
	return nil
}
