// Package serialization implements the .dth persisted-state format.
//
// A .dth file is a versioned, self-describing container for a network's
// weights plus enough metadata to rebuild the network that owns them:
//
//	[fixed header, 64 bytes]
//	  magic "DPTH" | format version | flags | JSON header size |
//	  SHA-256 checksum of everything after the fixed header | reserved
//	[JSON header]   library version, created-at, network hyperparameters
//	                and per-layer activation configs, tensor table
//	[padding]       zero bytes up to 64-byte alignment
//	[tensor data]   flat float64 little-endian arrays at the offsets the
//	                tensor table declares
//
// The checksum makes corruption detectable before any tensor is trusted;
// the tensor table is validated for bounds and overlaps on read.
package serialization

import "time"

// Format constants.
const (
	MagicBytes      = "DPTH"
	FormatVersion   = 1
	FixedHeaderSize = 64 // magic + version + flags + header size + checksum + reserved
	HeaderAlignment = 64 // tensor data alignment
	ChecksumSize    = 32 // SHA-256

	// MaxHeaderSize bounds the JSON header to keep hostile files from
	// forcing huge allocations.
	MaxHeaderSize = 100 * 1024 * 1024

	// MaxTensors bounds the tensor table for the same reason.
	MaxTensors = 1 << 20
)

// Flags for the .dth format.
const (
	FlagHasOptimizer uint32 = 1 << 0 // optimizer state included (checkpoint)
	FlagHasMetadata  uint32 = 1 << 1 // custom metadata included
)

// libraryVersion is stamped into every written file.
const libraryVersion = "0.2.0"

// Header is the JSON header of a .dth file.
type Header struct {
	FormatVersion  int               `json:"format_version"`
	LibraryVersion string            `json:"library_version"`
	ModelType      string            `json:"model_type"`
	CreatedAt      time.Time         `json:"created_at"`
	Network        *NetworkMeta      `json:"network,omitempty"`
	Tensors        []TensorMeta      `json:"tensors"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	Checkpoint     *CheckpointMeta   `json:"checkpoint,omitempty"`
}

// NetworkMeta records the hyperparameters and topology needed to rebuild a
// network before loading its weights.
type NetworkMeta struct {
	LearningRate float64     `json:"learning_rate"`
	Momentum     float64     `json:"momentum"`
	Seed         uint64      `json:"seed"`
	Layers       []LayerMeta `json:"layers"`
}

// LayerMeta describes one layer's shape and activation.
type LayerMeta struct {
	In         int     `json:"in"`
	Out        int     `json:"out"`
	Activation string  `json:"activation"`
	Slope      float64 `json:"slope,omitempty"` // leaky_relu only
}

// CheckpointMeta carries training state for resumable checkpoints.
type CheckpointMeta struct {
	Epoch           int                `json:"epoch"`
	Step            int64              `json:"step"`
	Loss            float64            `json:"loss"`
	OptimizerType   string             `json:"optimizer_type"`
	OptimizerConfig map[string]float64 `json:"optimizer_config,omitempty"`
}

// TensorMeta describes one tensor in the data section.
type TensorMeta struct {
	Name   string `json:"name"`
	DType  string `json:"dtype"` // always "float64" in format version 1
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"` // bytes from the start of the data section
	Size   int64  `json:"size"`   // bytes
}

// DTypeFloat64 is the only data type of format version 1.
const DTypeFloat64 = "float64"
