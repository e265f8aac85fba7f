package mesh

import (
	"errors"
	"fmt"
)

// Mesh building errors.
var (
	ErrIndexResolution = errors.New("unresolved attribute index")
	ErrIndexOverflow   = errors.New("index exceeds 16-bit range")
)

// Pool names an attribute pool.
type Pool uint8

// Attribute pools referenced by face corners.
const (
	PoolPosition Pool = iota
	PoolNormal
	PoolColor
)

// String returns the pool name.
func (p Pool) String() string {
	switch p {
	case PoolPosition:
		return "position"
	case PoolNormal:
		return "normal"
	case PoolColor:
		return "color"
	default:
		return fmt.Sprintf("Pool(%d)", p)
	}
}

// IndexResolutionError reports a corner that references an attribute that was never parsed.
type IndexResolutionError struct {
	Face   int  // 0-based face index
	Corner int  // 0-based corner within the face
	Line   int  // source line, 0 when not parsed from text
	Pool   Pool // pool that could not resolve the index
	Index  int  // 1-based index as written
	Size   int  // entries available in the pool
}

func (e *IndexResolutionError) Error() string {
	loc := fmt.Sprintf("face %d corner %d", e.Face, e.Corner)
	if e.Line > 0 {
		loc = fmt.Sprintf("line %d: %s", e.Line, loc)
	}
	return fmt.Sprintf("%s: %s index %d out of range (%d entries): %s",
		loc, e.Pool, e.Index, e.Size, ErrIndexResolution)
}

// Is reports ErrIndexResolution as a match.
func (e *IndexResolutionError) Is(target error) bool { return target == ErrIndexResolution }

// IndexOverflowError reports more corners than a 16-bit index buffer can address.
type IndexOverflowError struct {
	Count int // number of indices
	Index int // first index that does not fit
}

func (e *IndexOverflowError) Error() string {
	return fmt.Sprintf("%s: index %d of %d corners (max %d)", ErrIndexOverflow, e.Index, e.Count, MaxIndex)
}

// Is reports ErrIndexOverflow as a match.
func (e *IndexOverflowError) Is(target error) bool { return target == ErrIndexOverflow }
