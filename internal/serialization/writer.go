package serialization

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Writer writes models in .dth format.
type Writer struct {
	file   *os.File
	closed bool
}

// NewWriter creates a new .dth file writer.
func NewWriter(path string) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return &Writer{file: file}, nil
}

// WriteStateDict writes a state dictionary and header to the file.
//
// The caller fills the header's ModelType, Network, Metadata, and
// Checkpoint fields; format version, library version, creation time, and
// the tensor table are filled in here. Tensors are laid out in
// lexicographic name order so identical state always produces identical
// files.
func (w *Writer) WriteStateDict(state map[string]*mat.Dense, header Header) error {
	if w.closed {
		return fmt.Errorf("writer is closed")
	}

	names := make([]string, 0, len(state))
	for name := range state {
		if name == "" {
			return &ValidationError{Tensor: name, Err: ErrInvalidTensorName}
		}
		names = append(names, name)
	}
	sort.Strings(names)

	header.FormatVersion = FormatVersion
	header.LibraryVersion = libraryVersion
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}

	// Tensor table with running offsets into the data section.
	var offset int64
	header.Tensors = make([]TensorMeta, 0, len(names))
	for _, name := range names {
		m := state[name]
		r, c := m.Dims()
		size := int64(r * c * 8)
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   name,
			DType:  DTypeFloat64,
			Shape:  []int{r, c},
			Offset: offset,
			Size:   size,
		})
		offset += size
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	if len(headerJSON) > MaxHeaderSize {
		return ErrHeaderTooLarge
	}

	// Assemble the payload (everything after the fixed header) in memory
	// so the checksum can go into the fixed header.
	var payload bytes.Buffer
	payload.Write(headerJSON)

	pos := int64(FixedHeaderSize + len(headerJSON))
	if padding := (HeaderAlignment - pos%HeaderAlignment) % HeaderAlignment; padding > 0 {
		payload.Write(make([]byte, padding))
	}

	for _, name := range names {
		if err := writeDense(&payload, state[name]); err != nil {
			return fmt.Errorf("failed to encode tensor %s: %w", name, err)
		}
	}

	checksum := computeChecksum(payload.Bytes())

	// Fixed header.
	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], FormatVersion)
	binary.LittleEndian.PutUint32(fixed[8:12], w.flags(header))
	binary.LittleEndian.PutUint64(fixed[12:20], uint64(len(headerJSON)))
	copy(fixed[20:20+ChecksumSize], checksum[:])

	if _, err := w.file.Write(fixed); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}
	if _, err := w.file.Write(payload.Bytes()); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}
	return nil
}

func (w *Writer) flags(header Header) uint32 {
	var flags uint32
	if header.Checkpoint != nil {
		flags |= FlagHasOptimizer
	}
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	return flags
}

// Close closes the underlying file.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}

// writeDense encodes a matrix as flat row-major float64 little-endian.
func writeDense(buf *bytes.Buffer, m *mat.Dense) error {
	r, c := m.Dims()
	rm := m.RawMatrix()
	b := make([]byte, 8)
	for i := 0; i < r; i++ {
		row := rm.Data[i*rm.Stride : i*rm.Stride+c]
		for _, v := range row {
			binary.LittleEndian.PutUint64(b, math.Float64bits(v))
			if _, err := buf.Write(b); err != nil {
				return err
			}
		}
	}
	return nil
}
