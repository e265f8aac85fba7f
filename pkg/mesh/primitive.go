package mesh

import (
	"fmt"

	"github.com/Faultbox/objmesh/pkg/math"
)

// Triangle is a flat triangle defined directly by its corners.
type Triangle struct {
	V1, V2, V3 math.Vec3
}

// Normal returns the unnormalized surface normal shared by all three corners.
func (t Triangle) Normal() math.Vec3 {
	return math.SurfaceNormal(t.V1, t.V2, t.V3)
}

// Build packs the triangle with indices 0, 1, 2.
func (t Triangle) Build() (*Mesh, error) {
	return buildFlat([]math.Vec3{t.V1, t.V2, t.V3}, t.Normal(), []uint16{0, 1, 2}, nil)
}

// Quad is a flat quadrilateral drawn as two triangles. Its normal comes from V1, V2, V3.
type Quad struct {
	V1, V2, V3, V4 math.Vec3
	// Colors holds one RGBA color per corner, or nothing.
	Colors [][4]float32
}

// QuadOrder is the index sequence used to draw a Quad.
var QuadOrder = []uint16{0, 1, 2, 0, 2, 3}

// Normal returns the unnormalized surface normal shared by all four corners.
func (q Quad) Normal() math.Vec3 {
	return math.SurfaceNormal(q.V1, q.V2, q.V3)
}

// Build packs the quad with indices 0, 1, 2, 0, 2, 3.
func (q Quad) Build() (*Mesh, error) {
	if len(q.Colors) != 0 && len(q.Colors) != 4 {
		return nil, fmt.Errorf("quad needs 4 colors, got %d", len(q.Colors))
	}
	return buildFlat([]math.Vec3{q.V1, q.V2, q.V3, q.V4}, q.Normal(), QuadOrder, q.Colors)
}

func buildFlat(corners []math.Vec3, normal math.Vec3, order []uint16, colors [][4]float32) (*Mesh, error) {
	positions := make([]float32, 0, 3*len(corners))
	normals := make([]float32, 0, 3*len(corners))
	for _, c := range corners {
		positions = append(positions, c.X, c.Y, c.Z)
		normals = append(normals, normal.X, normal.Y, normal.Z)
	}

	m := &Mesh{
		positions: PackFloat32(positions),
		indices:   packUint16(order),
		normals:   PackFloat32(normals),
		count:     len(order),
	}
	if len(colors) > 0 {
		flat := make([]float32, 0, 4*len(colors))
		for _, c := range colors {
			flat = append(flat, c[:]...)
		}
		m.colors = PackFloat32(flat)
	}
	return m, nil
}

// FlatShaded expands an indexed triangle list into one vertex per corner, giving each
// corner the surface normal of its triangle. vertices holds 3 floats per position and
// order holds 3 indices per triangle.
func FlatShaded(vertices []float32, order []uint16) (*Mesh, error) {
	if len(vertices)%3 != 0 {
		return nil, fmt.Errorf("vertex data length %d is not a multiple of 3", len(vertices))
	}
	if len(order)%3 != 0 {
		return nil, fmt.Errorf("draw order length %d is not a multiple of 3", len(order))
	}

	size := len(vertices) / 3
	exp := &Expanded{
		Positions: make([]float32, 0, 3*len(order)),
		Normals:   make([]float32, 0, 3*len(order)),
		Indices:   make([]int, 0, len(order)),
	}

	for tri := 0; tri < len(order)/3; tri++ {
		var v [3]math.Vec3
		for c := 0; c < 3; c++ {
			idx := int(order[tri*3+c])
			if idx >= size {
				return nil, cornerError(tri, c, 0, PoolPosition, idx, size)
			}
			v[c] = math.V3(vertices[idx*3:])
		}

		n := math.SurfaceNormal(v[0], v[1], v[2])
		for c := 0; c < 3; c++ {
			exp.Positions = append(exp.Positions, v[c].X, v[c].Y, v[c].Z)
			exp.Normals = append(exp.Normals, n.X, n.Y, n.Z)
			exp.Indices = append(exp.Indices, len(exp.Indices))
		}
	}

	return pack(exp)
}
