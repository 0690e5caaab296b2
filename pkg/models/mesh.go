// Package models provides mesh loading and representation for onebit.
package models

import (
	"fmt"

	"github.com/taigrr/onebit/pkg/math3d"
)

// Vertex holds all vertex attributes. A vertex is identified by its position
// index and is shared by every triangle that references it.
type Vertex struct {
	Position math3d.Vec4 // Homogeneous position, W defaults to 1
	UV       math3d.Vec3 // Texture coordinates, W defaults to 0
	Normal   math3d.Vec3
}

// Mesh is an indexed triangle list. Every three consecutive indices form one
// triangle.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: make([]Vertex, 0),
		Indices:  make([]uint32, 0),
	}
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// Triangle returns the three vertex indices of triangle i.
func (m *Mesh) Triangle(i int) [3]uint32 {
	return [3]uint32{m.Indices[3*i], m.Indices[3*i+1], m.Indices[3*i+2]}
}

// Validate checks the index buffer invariants.
func (m *Mesh) Validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %d indices is not a multiple of 3", ErrIndexRange, len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("%w: index %d at position %d, have %d vertices", ErrIndexRange, idx, i, len(m.Vertices))
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of all vertex positions.
// An empty mesh has zero bounds.
func (m *Mesh) Bounds() (lo, hi math3d.Vec3) {
	if len(m.Vertices) == 0 {
		return math3d.Vec3{}, math3d.Vec3{}
	}

	lo = m.Vertices[0].Position.Vec3()
	hi = lo
	for _, v := range m.Vertices[1:] {
		p := v.Position.Vec3()
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return lo, hi
}

// CalculateNormals recomputes every vertex normal.
//
// With smooth false each triangle, in index order, assigns its face normal
// normalize(normalize(v1-v0) × normalize(v2-v0)) to all three of its
// vertices. Shared vertices end up with the normal of the last triangle that
// touched them.
//
// With smooth true each vertex gets the normalized sum of the unnormalized
// normals of its adjacent faces, so larger faces weigh more.
func (m *Mesh) CalculateNormals(smooth bool) {
	if smooth {
		m.calculateSmoothNormals()
		return
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		p0 := m.Vertices[a].Position.Vec3()
		p1 := m.Vertices[b].Position.Vec3()
		p2 := m.Vertices[c].Position.Vec3()

		ab := p1.Sub(p0).Normalize()
		ac := p2.Sub(p0).Normalize()
		normal := ab.Cross(ac).Normalize()

		m.Vertices[a].Normal = normal
		m.Vertices[b].Normal = normal
		m.Vertices[c].Normal = normal
	}
}

func (m *Mesh) calculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	for i := 0; i+2 < len(m.Indices); i += 3 {
		a, b, c := m.Indices[i], m.Indices[i+1], m.Indices[i+2]
		p0 := m.Vertices[a].Position.Vec3()
		p1 := m.Vertices[b].Position.Vec3()
		p2 := m.Vertices[c].Position.Vec3()

		normal := p1.Sub(p0).Cross(p2.Sub(p0))

		m.Vertices[a].Normal = m.Vertices[a].Normal.Add(normal)
		m.Vertices[b].Normal = m.Vertices[b].Normal.Add(normal)
		m.Vertices[c].Normal = m.Vertices[c].Normal.Add(normal)
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// hasNormals reports whether any vertex carries a non-zero normal.
func (m *Mesh) hasNormals() bool {
	for _, v := range m.Vertices {
		if v.Normal.Len() > 0.001 {
			return true
		}
	}
	return false
}

// Clone creates a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:     m.Name,
		Vertices: make([]Vertex, len(m.Vertices)),
		Indices:  make([]uint32, len(m.Indices)),
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Indices, m.Indices)
	return clone
}
