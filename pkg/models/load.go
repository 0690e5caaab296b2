package models

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Load loads a mesh, choosing the loader from the file extension.
func Load(path string) (*Mesh, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return LoadOBJ(path)
	case ".glb", ".gltf":
		return LoadGLB(path)
	default:
		return nil, fmt.Errorf("%w: %q (use .obj or .glb)", ErrUnsupportedFormat, ext)
	}
}
