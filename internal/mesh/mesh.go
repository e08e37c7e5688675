package mesh

import "fmt"

// Mesh holds triangle-list geometry buffers ready to hand to a renderer:
// per-vertex positions and normals, an optional UV channel, and a triangle
// index list. It is plain data with no handles to any rendering API.
type Mesh struct {
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32 // optional; nil when the geometry carries no UVs
	Indices   []uint32
}

// VertexCount returns the number of vertices in the mesh.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles in the index list.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Validate checks the structural invariants of the buffers: matched
// position/normal counts, in-bounds indices, and a triangle-multiple index
// length. UVs, when present, must match the vertex count.
func (m *Mesh) Validate() error {
	if len(m.Normals) != len(m.Positions) {
		return fmt.Errorf("mesh has %d normals for %d positions", len(m.Normals), len(m.Positions))
	}
	if m.UVs != nil && len(m.UVs) != len(m.Positions) {
		return fmt.Errorf("mesh has %d uvs for %d positions", len(m.UVs), len(m.Positions))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Positions) {
			return fmt.Errorf("index %d at position %d out of bounds (%d vertices)",
				idx, i, len(m.Positions))
		}
	}
	return nil
}
