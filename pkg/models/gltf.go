package models

import (
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/onebit/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
//
// Unlike OBJ, glTF stores one vertex per attribute combination, so vertices
// are never shared across differing normals. Winding is preserved as stored
// in the file.
type GLTFLoader struct {
	// CalculateNormals synthesizes flat normals when the file has none.
	CalculateNormals bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
	}
}

// LoadGLB loads a binary GLTF (.glb) file with the default loader.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file. All triangle primitives of all meshes are
// merged into a single index buffer.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	for _, m := range doc.Meshes {
		if err := l.appendMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}

	if err := mesh.Validate(); err != nil {
		return nil, err
	}
	if l.CalculateNormals && !mesh.hasNormals() {
		mesh.CalculateNormals(false)
	}

	Logger().Debug("loaded gltf",
		"path", path,
		"meshes", len(doc.Meshes),
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount())

	return mesh, nil
}

func (l *GLTFLoader) appendMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Lines and points have no area to fill.
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readFloats(doc, posIdx, gltf.AccessorVec3)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals, uvs [][]float32
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = readFloats(doc, idx, gltf.AccessorVec3); err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = readFloats(doc, idx, gltf.AccessorVec2); err != nil {
				return fmt.Errorf("read uvs: %w", err)
			}
		}

		base := uint32(len(mesh.Vertices))
		for i, p := range positions {
			v := Vertex{
				Position: math3d.V4(float64(p[0]), float64(p[1]), float64(p[2]), 1),
			}
			if i < len(normals) {
				n := normals[i]
				v.Normal = math3d.V3(float64(n[0]), float64(n[1]), float64(n[2]))
			}
			if i < len(uvs) {
				v.UV = math3d.V3(float64(uvs[i][0]), float64(uvs[i][1]), 0)
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		if prim.Indices == nil {
			for i := 0; i+2 < len(positions); i += 3 {
				mesh.Indices = append(mesh.Indices, base+uint32(i), base+uint32(i+1), base+uint32(i+2))
			}
			continue
		}

		indices, err := readIndices(doc, *prim.Indices)
		if err != nil {
			return fmt.Errorf("read indices: %w", err)
		}
		for i := 0; i+2 < len(indices); i += 3 {
			mesh.Indices = append(mesh.Indices, base+indices[i], base+indices[i+1], base+indices[i+2])
		}
	}
	return nil
}

// accessorBytes returns the embedded buffer bytes an accessor reads from,
// the offset of its first element, and its element stride.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, 0, fmt.Errorf("accessor has no buffer view")
	}

	view := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[view.Buffer]
	if buffer.URI != "" && buffer.Data == nil {
		return nil, 0, 0, fmt.Errorf("external buffer %q not supported", buffer.URI)
	}
	if buffer.Data == nil {
		return nil, 0, 0, fmt.Errorf("buffer has no data")
	}

	stride := view.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := view.ByteOffset + accessor.ByteOffset

	if accessor.Count > 0 {
		end := start + (accessor.Count-1)*stride + elemSize
		if end > len(buffer.Data) {
			return nil, 0, 0, fmt.Errorf("accessor reads past end of buffer (%d > %d)", end, len(buffer.Data))
		}
	}
	return buffer.Data, start, stride, nil
}

// readFloats reads a float32 VEC2/VEC3 accessor.
func readFloats(doc *gltf.Document, accessorIdx int, want gltf.AccessorType) ([][]float32, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != want {
		return nil, fmt.Errorf("expected %v, got %v", want, accessor.Type)
	}
	if accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float components, got %v", accessor.ComponentType)
	}

	n := 3
	if want == gltf.AccessorVec2 {
		n = 2
	}

	data, start, stride, err := accessorBytes(doc, accessor, n*4)
	if err != nil {
		return nil, err
	}

	out := make([][]float32, accessor.Count)
	for i := range accessor.Count {
		off := start + i*stride
		elem := make([]float32, n)
		for j := range n {
			elem[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off+j*4:]))
		}
		out[i] = elem
	}
	return out, nil
}

// readIndices reads a scalar index accessor of any unsigned component width.
func readIndices(doc *gltf.Document, accessorIdx int) ([]uint32, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	var size int
	switch accessor.ComponentType {
	case gltf.ComponentUbyte:
		size = 1
	case gltf.ComponentUshort:
		size = 2
	case gltf.ComponentUint:
		size = 4
	default:
		return nil, fmt.Errorf("unexpected index component type: %v", accessor.ComponentType)
	}

	data, start, stride, err := accessorBytes(doc, accessor, size)
	if err != nil {
		return nil, err
	}

	out := make([]uint32, accessor.Count)
	for i := range accessor.Count {
		off := start + i*stride
		switch size {
		case 1:
			out[i] = uint32(data[off])
		case 2:
			out[i] = uint32(binary.LittleEndian.Uint16(data[off:]))
		case 4:
			out[i] = binary.LittleEndian.Uint32(data[off:])
		}
	}
	return out, nil
}
