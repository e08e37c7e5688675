package mesh

// Merge concatenates the given part meshes into one combined mesh. Output
// buffers are sized once up front; indices of each part are offset by the
// running vertex count, so they always stay valid into the combined position
// buffer. Input order only affects index numbering, never correctness.
//
// No vertex welding happens across part boundaries: adjacent parts that share
// an edge (branch junctions) keep duplicate vertices, which can leave small
// visible seams. That is an accepted trade-off, not a defect.
//
// The UV channel is carried over only when every non-empty part has one;
// mixed inputs drop UVs rather than inventing coordinates.
func Merge(parts []*Mesh) *Mesh {
	totalVerts := 0
	totalIndices := 0
	withUVs := 0
	nonEmpty := 0
	for _, p := range parts {
		if p == nil || len(p.Positions) == 0 {
			continue
		}
		nonEmpty++
		totalVerts += len(p.Positions)
		totalIndices += len(p.Indices)
		if p.UVs != nil {
			withUVs++
		}
	}

	out := &Mesh{
		Positions: make([][3]float32, 0, totalVerts),
		Normals:   make([][3]float32, 0, totalVerts),
		Indices:   make([]uint32, 0, totalIndices),
	}
	keepUVs := nonEmpty > 0 && withUVs == nonEmpty
	if keepUVs {
		out.UVs = make([][2]float32, 0, totalVerts)
	}

	var offset uint32
	for _, p := range parts {
		if p == nil || len(p.Positions) == 0 {
			continue
		}
		out.Positions = append(out.Positions, p.Positions...)
		out.Normals = append(out.Normals, p.Normals...)
		if keepUVs {
			out.UVs = append(out.UVs, p.UVs...)
		}
		for _, idx := range p.Indices {
			out.Indices = append(out.Indices, idx+offset)
		}
		offset += uint32(len(p.Positions))
	}

	return out
}
