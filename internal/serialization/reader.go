package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// Reader reads models from .dth format.
//
// The whole payload is read and checksum-verified up front, before any
// tensor is trusted; ReadTensor then decodes from the verified bytes.
type Reader struct {
	header     Header
	flags      uint32
	payload    []byte // verified payload: JSON header + padding + data
	dataOffset int64  // offset of the data section within the payload
}

// NewReader opens and fully validates a .dth file: magic, version,
// checksum, and tensor-table bounds and overlaps.
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(file, fixed); err != nil {
		return nil, fmt.Errorf("failed to read fixed header: %w", err)
	}

	if string(fixed[0:4]) != MagicBytes {
		return nil, ErrInvalidMagic
	}
	version := binary.LittleEndian.Uint32(fixed[4:8])
	if version != FormatVersion {
		return nil, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}

	r := &Reader{flags: binary.LittleEndian.Uint32(fixed[8:12])}

	headerSize := binary.LittleEndian.Uint64(fixed[12:20])
	if headerSize > MaxHeaderSize {
		return nil, ErrHeaderTooLarge
	}
	var checksum [ChecksumSize]byte
	copy(checksum[:], fixed[20:20+ChecksumSize])

	r.payload, err = io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	if !verifyChecksum(r.payload, checksum) {
		return nil, ErrChecksumMismatch
	}
	if uint64(len(r.payload)) < headerSize {
		return nil, fmt.Errorf("payload truncated: %d bytes, header claims %d", len(r.payload), headerSize)
	}

	if err := json.Unmarshal(r.payload[:headerSize], &r.header); err != nil {
		return nil, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	pos := int64(FixedHeaderSize) + int64(headerSize)
	padding := (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment
	r.dataOffset = int64(headerSize) + padding

	if err := r.validateTensors(); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	return r, nil
}

// validateTensors checks the tensor table against the data section.
func (r *Reader) validateTensors() error {
	if len(r.header.Tensors) > MaxTensors {
		return ErrTooManyTensors
	}
	dataSize := int64(len(r.payload)) - r.dataOffset

	sorted := make([]TensorMeta, len(r.header.Tensors))
	copy(sorted, r.header.Tensors)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Offset < sorted[j].Offset })

	var prev *TensorMeta
	for i := range sorted {
		t := &sorted[i]
		if t.Name == "" {
			return &ValidationError{Tensor: t.Name, Err: ErrInvalidTensorName}
		}
		if t.DType != DTypeFloat64 {
			return &ValidationError{Tensor: t.Name, Err: ErrUnknownDType}
		}
		if t.Offset < 0 || t.Size < 0 {
			return &ValidationError{Tensor: t.Name, Err: ErrNegativeOffset}
		}
		elems := int64(1)
		for _, d := range t.Shape {
			// Negative dimensions could multiply back to a plausible element
			// count and then panic at matrix construction.
			if d <= 0 {
				return &ValidationError{Tensor: t.Name, Err: ErrInvalidShape}
			}
			elems *= int64(d)
		}
		if t.Size != elems*8 || t.Offset+t.Size > dataSize {
			return &ValidationError{Tensor: t.Name, Err: ErrOutOfBounds}
		}
		if prev != nil && t.Offset < prev.Offset+prev.Size {
			return &ValidationError{Tensor: prev.Name, Tensor2: t.Name, Err: ErrOffsetOverlap}
		}
		prev = t
	}
	return nil
}

// Header returns the parsed file header.
func (r *Reader) Header() Header {
	return r.header
}

// HasOptimizerState reports whether the file carries optimizer state.
func (r *Reader) HasOptimizerState() bool {
	return r.flags&FlagHasOptimizer != 0
}

// ReadTensor decodes the named tensor from the verified payload.
func (r *Reader) ReadTensor(name string) (*mat.Dense, error) {
	for _, t := range r.header.Tensors {
		if t.Name != name {
			continue
		}
		if len(t.Shape) != 2 {
			return nil, fmt.Errorf("tensor %s: expected 2-D shape, got %v", name, t.Shape)
		}
		raw := r.payload[r.dataOffset+t.Offset : r.dataOffset+t.Offset+t.Size]
		data := make([]float64, t.Size/8)
		for i := range data {
			data[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*8:]))
		}
		return mat.NewDense(t.Shape[0], t.Shape[1], data), nil
	}
	return nil, fmt.Errorf("tensor %s not found", name)
}

// ReadAll decodes every tensor in the file.
func (r *Reader) ReadAll() (map[string]*mat.Dense, error) {
	out := make(map[string]*mat.Dense, len(r.header.Tensors))
	for _, t := range r.header.Tensors {
		m, err := r.ReadTensor(t.Name)
		if err != nil {
			return nil, err
		}
		out[t.Name] = m
	}
	return out, nil
}
