// Package loader loads meshes from an asset source, one at a time or in batches.
package loader

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/objmesh/internal/config"
	"github.com/Faultbox/objmesh/pkg/mesh"
)

// Source opens mesh text streams by name.
type Source interface {
	Open(name string) (io.ReadCloser, error)
}

// Loader builds meshes from a Source.
type Loader struct {
	src     Source
	colors  bool
	workers int
	log     *zap.Logger
}

// New creates a loader. A nil logger disables logging.
func New(src Source, cfg config.LoaderConfig, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Loader{
		src:     src,
		colors:  cfg.Colors,
		workers: workers,
		log:     log,
	}
}

// Load opens and builds a single mesh.
func (l *Loader) Load(ctx context.Context, name string) (*mesh.Mesh, error) {
	start := time.Now()

	rc, err := l.src.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	m, err := mesh.LoadContext(ctx, rc, mesh.Options{
		Colors: l.colors,
		Logger: l.log.With(zap.String("path", name)),
	})
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", name, err)
	}

	l.log.Debug("loaded mesh",
		zap.String("path", name),
		zap.Int("count", m.Count()),
		zap.Bool("colored", m.HasColors()),
		zap.Duration("took", time.Since(start)))
	return m, nil
}

// LoadAll loads every named mesh concurrently. Results keep the order of names.
// The first failure cancels the remaining loads and is returned.
func (l *Loader) LoadAll(ctx context.Context, names []string) ([]*mesh.Mesh, error) {
	meshes := make([]*mesh.Mesh, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := l.Load(ctx, name)
			if err != nil {
				return err
			}
			meshes[i] = m
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	l.log.Info("loaded meshes", zap.Int("count", len(names)), zap.Int("workers", l.workers))
	return meshes, nil
}

// Result is the outcome of loading one mesh in Check.
type Result struct {
	Name string
	Mesh *mesh.Mesh
	Err  error
}

// Check loads every named mesh concurrently and reports each outcome instead of
// stopping at the first failure.
func (l *Loader) Check(ctx context.Context, names []string) []Result {
	results := make([]Result, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			m, err := l.Load(ctx, name)
			results[i] = Result{Name: name, Mesh: m, Err: err}
			if err != nil {
				l.log.Warn("mesh failed", zap.String("path", name), zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
