package mesh

import (
	"context"

	"github.com/Faultbox/objmesh/pkg/formats"
)

// Expanded holds one vertex record per face corner.
type Expanded struct {
	Positions []float32 // 3 per corner
	Normals   []float32 // 3 per corner
	Colors    []float32 // 4 per corner, nil unless colored
	Indices   []int     // 0..n-1 in emission order
}

// Count returns the number of corners.
func (e *Expanded) Count() int {
	return len(e.Indices)
}

// Expand resolves every face corner of obj into its own vertex record. Corners are never
// shared, even when they reference identical source indices. The context is checked
// between faces.
func Expand(ctx context.Context, obj *formats.OBJ, colors bool) (*Expanded, error) {
	corners := obj.Counts().Corners
	out := &Expanded{
		Positions: make([]float32, 0, corners*formats.PositionStride),
		Normals:   make([]float32, 0, corners*formats.NormalStride),
		Indices:   make([]int, 0, corners),
	}
	if colors {
		out.Colors = make([]float32, 0, corners*formats.ColorStride)
	}

	for fi, face := range obj.Faces {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for ci, c := range face.Corners {
			var err error
			out.Positions, err = resolve(out.Positions, obj.Positions, c.Position, formats.PositionStride)
			if err != nil {
				return nil, cornerError(fi, ci, face.Line, PoolPosition, c.Position, len(obj.Positions)/formats.PositionStride)
			}
			out.Normals, err = resolve(out.Normals, obj.Normals, c.Normal, formats.NormalStride)
			if err != nil {
				return nil, cornerError(fi, ci, face.Line, PoolNormal, c.Normal, len(obj.Normals)/formats.NormalStride)
			}
			if colors {
				out.Colors, err = resolve(out.Colors, obj.Colors, c.Color, formats.ColorStride)
				if err != nil {
					return nil, cornerError(fi, ci, face.Line, PoolColor, c.Color, len(obj.Colors)/formats.ColorStride)
				}
			}
			out.Indices = append(out.Indices, len(out.Indices))
		}
	}

	return out, nil
}

// resolve appends entry idx of a pool with the given stride to dst.
func resolve(dst, pool []float32, idx, stride int) ([]float32, error) {
	if idx < 0 || idx >= len(pool)/stride {
		return dst, ErrIndexResolution
	}
	off := idx * stride
	return append(dst, pool[off:off+stride]...), nil
}

func cornerError(face, corner, line int, pool Pool, idx, size int) error {
	return &IndexResolutionError{
		Face:   face,
		Corner: corner,
		Line:   line,
		Pool:   pool,
		Index:  idx + 1,
		Size:   size,
	}
}
