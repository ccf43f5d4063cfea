package readfiles

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/notargets/goscene/datastructures"
)

var ErrUnsupportedFormat = errors.New("unsupported mesh file format")

// ReadMeshFile reads a mesh, choosing the reader from the file extension.
func ReadMeshFile(filename string) (m *datastructures.Mesh, err error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".su2":
		return ReadSU2(filename)
	case ".neu":
		return ReadGambit(filename)
	case ".yaml", ".yml", ".json":
		return ReadMeshData(filename)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
}

// ReadMeshData reads the YAML or JSON data form of a mesh.
func ReadMeshData(filename string) (m *datastructures.Mesh, err error) {
	var b []byte
	if b, err = os.ReadFile(filename); err != nil {
		return nil, fmt.Errorf("unable to read file %s: %w", filename, err)
	}
	if m, err = datastructures.FromYAML(b); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if m.Name() == "Mesh" {
		m.SetName(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	}
	return
}
