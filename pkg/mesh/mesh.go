// Package mesh turns parsed OBJ data into packed vertex, normal, color and index buffers
// ready for upload by a renderer.
package mesh

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/Faultbox/objmesh/pkg/formats"
)

// Mesh is an immutable set of packed buffers. It is safe for concurrent reads.
type Mesh struct {
	positions *Buffer
	indices   *Buffer
	normals   *Buffer
	colors    *Buffer
	count     int
}

// Positions returns the packed positions, 3 floats per corner.
func (m *Mesh) Positions() *Buffer { return m.positions }

// Indices returns the packed 16-bit index sequence.
func (m *Mesh) Indices() *Buffer { return m.indices }

// Normals returns the packed normals, 3 floats per corner.
func (m *Mesh) Normals() *Buffer { return m.normals }

// Colors returns the packed colors, 4 floats per corner, or nil for uncolored meshes.
func (m *Mesh) Colors() *Buffer { return m.colors }

// HasColors reports whether the mesh carries a color buffer.
func (m *Mesh) HasColors() bool { return m.colors != nil }

// Count returns the number of indices to draw.
func (m *Mesh) Count() int { return m.count }

// Sink receives a mesh's buffers, typically to upload them to a graphics API.
// Sinks must treat the buffers as read-only. colors is nil for uncolored meshes.
type Sink interface {
	Upload(positions, indices, normals, colors *Buffer, count int) error
}

// Submit hands the buffers to s.
func (m *Mesh) Submit(s Sink) error {
	return s.Upload(m.positions, m.indices, m.normals, m.colors, m.count)
}

// Options controls mesh loading.
type Options struct {
	// Colors selects the colored dialect ("c" lines and a fourth face slot).
	Colors bool
	// Logger receives debug output; nil disables logging.
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Load parses r and builds a Mesh.
func Load(r io.Reader, opts Options) (*Mesh, error) {
	return LoadContext(context.Background(), r, opts)
}

// LoadContext is like Load but stops between faces once ctx is done.
func LoadContext(ctx context.Context, r io.Reader, opts Options) (*Mesh, error) {
	obj, err := formats.ParseOBJ(r, formats.OBJOptions{Colors: opts.Colors})
	if err != nil {
		return nil, fmt.Errorf("parsing OBJ: %w", err)
	}
	return Build(ctx, obj, opts)
}

// Build expands and packs a parsed OBJ. No Mesh is returned unless every stage succeeds.
func Build(ctx context.Context, obj *formats.OBJ, opts Options) (*Mesh, error) {
	log := opts.logger()
	counts := obj.Counts()
	log.Debug("parsed OBJ",
		zap.Int("positions", counts.Positions),
		zap.Int("normals", counts.Normals),
		zap.Int("colors", counts.Colors),
		zap.Int("faces", counts.Faces),
		zap.Int("corners", counts.Corners))

	if opts.Colors && !obj.Colored {
		return nil, errors.New("building colored mesh from OBJ parsed without colors")
	}

	exp, err := Expand(ctx, obj, opts.Colors)
	if err != nil {
		return nil, fmt.Errorf("expanding faces: %w", err)
	}

	m, err := pack(exp)
	if err != nil {
		return nil, fmt.Errorf("packing buffers: %w", err)
	}

	log.Debug("packed mesh",
		zap.Int("count", m.count),
		zap.Int("position_bytes", m.positions.Len()),
		zap.Int("index_bytes", m.indices.Len()),
		zap.Bool("colored", m.HasColors()))
	return m, nil
}

func pack(exp *Expanded) (*Mesh, error) {
	indices, err := PackIndices(exp.Indices)
	if err != nil {
		return nil, err
	}
	m := &Mesh{
		positions: PackFloat32(exp.Positions),
		indices:   indices,
		normals:   PackFloat32(exp.Normals),
		count:     exp.Count(),
	}
	if exp.Colors != nil {
		m.colors = PackFloat32(exp.Colors)
	}
	return m, nil
}
