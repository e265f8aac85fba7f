package mesh

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// MaxIndex is the largest value a 16-bit index buffer can hold.
const MaxIndex = math.MaxUint16

// ElementType is the scalar type stored in a Buffer.
type ElementType uint8

// Element types.
const (
	Float32 ElementType = iota
	Uint16
)

// Size returns the element size in bytes.
func (t ElementType) Size() int {
	switch t {
	case Float32:
		return 4
	case Uint16:
		return 2
	default:
		return 0
	}
}

// String returns the element type name.
func (t ElementType) String() string {
	switch t {
	case Float32:
		return "float32"
	case Uint16:
		return "uint16"
	default:
		return fmt.Sprintf("ElementType(%d)", t)
	}
}

// Buffer is a contiguous, tightly packed byte region in native byte order.
// Its contents never change after packing.
type Buffer struct {
	data  []byte
	elem  ElementType
	count int
}

// PackFloat32 packs values as 32-bit floats, 4 bytes each.
func PackFloat32(values []float32) *Buffer {
	data := make([]byte, 4*len(values))
	for i, v := range values {
		binary.NativeEndian.PutUint32(data[i*4:], math.Float32bits(v))
	}
	return &Buffer{data: data, elem: Float32, count: len(values)}
}

// PackIndices packs indices as 16-bit unsigned integers, 2 bytes each.
func PackIndices(indices []int) (*Buffer, error) {
	data := make([]byte, 2*len(indices))
	for i, idx := range indices {
		if idx < 0 || idx > MaxIndex {
			return nil, &IndexOverflowError{Count: len(indices), Index: idx}
		}
		binary.NativeEndian.PutUint16(data[i*2:], uint16(idx))
	}
	return &Buffer{data: data, elem: Uint16, count: len(indices)}, nil
}

// packUint16 packs indices already known to fit.
func packUint16(indices []uint16) *Buffer {
	data := make([]byte, 2*len(indices))
	for i, idx := range indices {
		binary.NativeEndian.PutUint16(data[i*2:], idx)
	}
	return &Buffer{data: data, elem: Uint16, count: len(indices)}
}

// Bytes returns the packed bytes. Callers must not modify them.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the size in bytes.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Count returns the number of elements.
func (b *Buffer) Count() int {
	return b.count
}

// Element returns the element type.
func (b *Buffer) Element() ElementType {
	return b.elem
}

// Order returns the byte order of the packed elements.
func (b *Buffer) Order() binary.ByteOrder {
	return binary.NativeEndian
}

// NewReader returns a reader positioned at the start of the buffer.
func (b *Buffer) NewReader() *bytes.Reader {
	return bytes.NewReader(b.data)
}

// Float32s unpacks a Float32 buffer.
func (b *Buffer) Float32s() ([]float32, error) {
	if b.elem != Float32 {
		return nil, fmt.Errorf("unpacking %s buffer as float32", b.elem)
	}
	out := make([]float32, b.count)
	for i := range out {
		out[i] = math.Float32frombits(binary.NativeEndian.Uint32(b.data[i*4:]))
	}
	return out, nil
}

// Uint16s unpacks a Uint16 buffer.
func (b *Buffer) Uint16s() ([]uint16, error) {
	if b.elem != Uint16 {
		return nil, fmt.Errorf("unpacking %s buffer as uint16", b.elem)
	}
	out := make([]uint16, b.count)
	for i := range out {
		out[i] = binary.NativeEndian.Uint16(b.data[i*2:])
	}
	return out, nil
}
