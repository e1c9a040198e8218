package nn

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/deepthought-ml/deepthought/internal/dual"
	"github.com/deepthought-ml/deepthought/internal/serialization"
)

// OptimizerState is an optimizer that can save and restore its internal
// buffers (momentum velocities, Adam moments). Optimizers from the optim
// package implement it; the interface lives here to avoid an import cycle,
// since checkpoints are written from this package.
type OptimizerState interface {
	StateDict() map[string]*mat.Dense
	LoadStateDict(state map[string]*mat.Dense) error
	GetLR() float64
}

// networkMeta captures a network's hyperparameters and topology for the
// file header, so Load can rebuild the network before copying weights in.
func networkMeta(net *Network) *serialization.NetworkMeta {
	meta := &serialization.NetworkMeta{
		LearningRate: net.lr,
		Momentum:     net.momentum,
		Seed:         net.seed,
	}
	for _, l := range net.layers {
		meta.Layers = append(meta.Layers, serialization.LayerMeta{
			In:         l.in,
			Out:        l.out,
			Activation: l.activation.Name(),
			Slope:      activationSlope(l.activation),
		})
	}
	return meta
}

// configFromMeta is the inverse of networkMeta.
func configFromMeta(meta *serialization.NetworkMeta) (Config, error) {
	cfg := Config{
		LearningRate: meta.LearningRate,
		Momentum:     meta.Momentum,
		Seed:         meta.Seed,
	}
	for i, lm := range meta.Layers {
		act, err := ActivationByName(lm.Activation, lm.Slope)
		if err != nil {
			return Config{}, fmt.Errorf("layer %d: %w", i, err)
		}
		cfg.Layers = append(cfg.Layers, LayerConfig{In: lm.In, Out: lm.Out, Activation: act})
	}
	return cfg, nil
}

// Save writes the network's weights and configuration to a .dth file.
//
// The saved file is self-describing: Load rebuilds an identical network
// from it, and a loaded network produces identical forward-pass outputs for
// the same input.
func Save(net *Network, path string) (err error) {
	writer, err := serialization.NewWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create writer: %w", err)
	}
	defer func() {
		if closeErr := writer.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	header := serialization.Header{
		ModelType: "Network",
		Network:   networkMeta(net),
	}
	return writer.WriteStateDict(net.StateDict(), header)
}

// Load reads a .dth file written by Save and reconstructs the network.
func Load(path string) (*Network, error) {
	reader, err := serialization.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	header := reader.Header()
	if header.Network == nil {
		return nil, fmt.Errorf("%s: file has no network metadata", path)
	}

	cfg, err := configFromMeta(header.Network)
	if err != nil {
		return nil, err
	}
	net, err := New(cfg)
	if err != nil {
		return nil, err
	}

	state, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if err := net.LoadStateDict(state); err != nil {
		return nil, err
	}
	return net, nil
}

// Checkpoint is a complete training-state snapshot: model weights,
// optimizer buffers, and progress counters. Checkpoints let long training
// runs resume after interruption.
type Checkpoint struct {
	Network   *Network
	Optimizer OptimizerState
	Epoch     int
	Step      int64
	Loss      float64
	Metadata  map[string]string
}

// Save writes the checkpoint to a .dth file. Optimizer buffers are stored
// under an "optimizer." prefix next to the model weights.
func (c *Checkpoint) Save(path string) (err error) {
	writer, err := serialization.NewWriter(path)
	if err != nil {
		return fmt.Errorf("failed to create writer: %w", err)
	}
	defer func() {
		if closeErr := writer.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	combined := make(map[string]*mat.Dense)
	for name, m := range c.Network.StateDict() {
		combined[name] = m
	}
	for name, m := range c.Optimizer.StateDict() {
		combined["optimizer."+name] = m
	}

	header := serialization.Header{
		ModelType: "Network",
		Network:   networkMeta(c.Network),
		Metadata:  c.Metadata,
		Checkpoint: &serialization.CheckpointMeta{
			Epoch:         c.Epoch,
			Step:          c.Step,
			Loss:          c.Loss,
			OptimizerType: optimizerTypeName(c.Optimizer),
			OptimizerConfig: map[string]float64{
				"lr": c.Optimizer.GetLR(),
			},
		},
	}
	return writer.WriteStateDict(combined, header)
}

// LoadCheckpoint restores a checkpoint into an existing network and
// optimizer. Both must be non-nil: the network must have the topology the
// checkpoint was saved with, and the optimizer receives the stored buffers.
// The returned Checkpoint carries the stored progress counters.
func LoadCheckpoint(path string, net *Network, opt OptimizerState) (*Checkpoint, error) {
	if net == nil {
		return nil, &dual.ConfigError{Field: "network", Reason: "must not be nil"}
	}
	if opt == nil {
		return nil, &dual.ConfigError{Field: "optimizer", Reason: "must not be nil"}
	}

	reader, err := serialization.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	header := reader.Header()
	if header.Checkpoint == nil {
		return nil, fmt.Errorf("%s: not a checkpoint file", path)
	}

	state, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	modelState := make(map[string]*mat.Dense)
	optState := make(map[string]*mat.Dense)
	for name, m := range state {
		if rest, ok := strings.CutPrefix(name, "optimizer."); ok {
			optState[rest] = m
		} else {
			modelState[name] = m
		}
	}

	if err := net.LoadStateDict(modelState); err != nil {
		return nil, err
	}
	if err := opt.LoadStateDict(optState); err != nil {
		return nil, err
	}

	return &Checkpoint{
		Network:   net,
		Optimizer: opt,
		Epoch:     header.Checkpoint.Epoch,
		Step:      header.Checkpoint.Step,
		Loss:      header.Checkpoint.Loss,
		Metadata:  header.Metadata,
	}, nil
}

// optimizerTypeName reduces "*optim.SGD" to "SGD" for the header.
func optimizerTypeName(opt OptimizerState) string {
	name := fmt.Sprintf("%T", opt)
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
