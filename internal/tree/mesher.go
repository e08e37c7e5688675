package tree

import (
	"log"
	"math"

	"verdant/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

// Segments shorter than this are treated as degenerate: meshing them would
// produce NaN normals, so they are skipped instead.
const minSegmentLength = 1e-4

var up = mgl32.Vec3{0, 1, 0}

// RingCountFor picks the ring resolution for a branch by its start radius;
// thicker branches get more segments for smoothness.
func RingCountFor(radius float32) int {
	switch {
	case radius > 0.2:
		return 12
	case radius > 0.1:
		return 10
	default:
		return 8
	}
}

// MeshSegment builds a tapered cylinder for one branch segment: two rings of
// ringCount vertices around the start and end points, rotated so the
// cylinder axis follows the segment direction, connected by two triangles
// per ring step. Normals are averaged over adjacent faces for smooth
// shading.
//
// The result always holds 2*ringCount vertices and 6*ringCount indices.
// A degenerate (zero-length) segment yields nil.
func MeshSegment(seg Segment, ringCount int) *mesh.Mesh {
	if ringCount < 3 {
		ringCount = 3
	}
	length := seg.Length()
	if length < minSegmentLength {
		return nil
	}

	direction := seg.Direction()
	rotation := mgl32.QuatBetweenVectors(up, direction)

	m := &mesh.Mesh{
		Positions: make([][3]float32, 0, ringCount*2),
		Indices:   make([]uint32, 0, ringCount*6),
	}

	// Interleaved start/end ring vertices: start_i at 2i, end_i at 2i+1.
	for i := 0; i < ringCount; i++ {
		angle := float64(i) / float64(ringCount) * 2 * math.Pi
		cos := float32(math.Cos(angle))
		sin := float32(math.Sin(angle))

		startVert := rotation.Rotate(mgl32.Vec3{seg.StartRadius * cos, 0, seg.StartRadius * sin}).Add(seg.Start)
		endVert := rotation.Rotate(mgl32.Vec3{seg.EndRadius * cos, length, seg.EndRadius * sin}).Add(seg.Start)

		m.Positions = append(m.Positions, [3]float32{startVert.X(), startVert.Y(), startVert.Z()})
		m.Positions = append(m.Positions, [3]float32{endVert.X(), endVert.Y(), endVert.Z()})
	}

	for i := 0; i < ringCount; i++ {
		next := (i + 1) % ringCount

		m.Indices = append(m.Indices,
			uint32(i*2), uint32(i*2+1), uint32(next*2),
			uint32(i*2+1), uint32(next*2+1), uint32(next*2))
	}

	m.Normals = averageFaceNormals(m.Positions, m.Indices)
	return m
}

// averageFaceNormals computes smooth per-vertex normals by accumulating the
// face normal of every adjacent triangle and normalizing the sums.
func averageFaceNormals(positions [][3]float32, indices []uint32) [][3]float32 {
	acc := make([]mgl32.Vec3, len(positions))

	for t := 0; t+2 < len(indices); t += 3 {
		p0 := mgl32.Vec3(positions[indices[t]])
		p1 := mgl32.Vec3(positions[indices[t+1]])
		p2 := mgl32.Vec3(positions[indices[t+2]])

		faceNormal := p1.Sub(p0).Cross(p2.Sub(p0))
		if faceNormal.Len() == 0 {
			continue
		}
		faceNormal = faceNormal.Normalize()

		acc[indices[t]] = acc[indices[t]].Add(faceNormal)
		acc[indices[t+1]] = acc[indices[t+1]].Add(faceNormal)
		acc[indices[t+2]] = acc[indices[t+2]].Add(faceNormal)
	}

	normals := make([][3]float32, len(positions))
	for i, n := range acc {
		if n.Len() > 0 {
			n = n.Normalize()
		}
		normals[i] = [3]float32{n.X(), n.Y(), n.Z()}
	}
	return normals
}

// MeshGraph meshes every segment of the graph and merges the parts into one
// combined trunk/branch mesh. Degenerate segments are skipped with a warning
// rather than failing the whole tree.
func MeshGraph(g *Graph) *mesh.Mesh {
	parts := make([]*mesh.Mesh, 0, len(g.Segments))
	for i := range g.Segments {
		seg := g.Segments[i]
		part := MeshSegment(seg, RingCountFor(seg.StartRadius))
		if part == nil {
			log.Printf("Warning: skipping degenerate branch segment %d (zero length)", i)
			continue
		}
		parts = append(parts, part)
	}
	return mesh.Merge(parts)
}
