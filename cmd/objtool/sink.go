package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Faultbox/objmesh/pkg/mesh"
)

// fileSink writes each buffer to its own raw file in dir.
type fileSink struct {
	dir     string
	written []string
}

func (s *fileSink) Upload(positions, indices, normals, colors *mesh.Buffer, count int) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	buffers := []struct {
		name string
		buf  *mesh.Buffer
	}{
		{"positions.bin", positions},
		{"indices.bin", indices},
		{"normals.bin", normals},
		{"colors.bin", colors},
	}

	for _, b := range buffers {
		if b.buf == nil {
			continue
		}
		path := filepath.Join(s.dir, b.name)
		if err := writeBuffer(path, b.buf); err != nil {
			return err
		}
		s.written = append(s.written, fmt.Sprintf("%s (%d x %s)", path, b.buf.Count(), b.buf.Element()))
	}

	if got := indices.Count(); got != count {
		return fmt.Errorf("index buffer holds %d entries, expected %d", got, count)
	}
	return nil
}

func writeBuffer(path string, b *mesh.Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := io.Copy(f, b.NewReader()); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
