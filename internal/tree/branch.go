package tree

import "github.com/go-gl/mathgl/mgl32"

// Segment is one tapered cylindrical piece of a tree between two 3D points.
// Segments are owned by the Graph that created them and reference their
// children by arena index, never by pointer.
type Segment struct {
	Start       mgl32.Vec3
	End         mgl32.Vec3
	StartRadius float32
	EndRadius   float32

	// Children holds arena indices into the owning Graph, in creation order.
	// Empty for leaf segments.
	Children []int

	// Depth is the recursion level; the trunk is depth 0.
	Depth int
}

// Length returns the segment's world-space length.
func (s Segment) Length() float32 {
	return s.End.Sub(s.Start).Len()
}

// Direction returns the unit vector from start to end. Zero-length segments
// return the zero vector; callers treat those as degenerate.
func (s Segment) Direction() mgl32.Vec3 {
	d := s.End.Sub(s.Start)
	if d.Len() == 0 {
		return mgl32.Vec3{}
	}
	return d.Normalize()
}

// Graph is the full branch structure of one generated tree: a flat arena of
// segments with parent-child links expressed as indices. Index 0 is always
// the trunk root. Building through Add keeps the graph acyclic by
// construction - a child is always appended after its parent.
type Graph struct {
	Segments []Segment

	// BoundsMin/BoundsMax enclose every segment endpoint, for culling by the
	// consumer. Valid after UpdateBounds.
	BoundsMin mgl32.Vec3
	BoundsMax mgl32.Vec3
}

// Add appends a segment to the arena and returns its index for linking
// under a parent.
func (g *Graph) Add(seg Segment) int {
	g.Segments = append(g.Segments, seg)
	return len(g.Segments) - 1
}

// UpdateBounds recomputes the bounding box over all segment endpoints.
// Call after the last segment is added.
func (g *Graph) UpdateBounds() {
	if len(g.Segments) == 0 {
		g.BoundsMin = mgl32.Vec3{}
		g.BoundsMax = mgl32.Vec3{}
		return
	}

	min := g.Segments[0].Start
	max := g.Segments[0].Start
	for _, seg := range g.Segments {
		for _, p := range [2]mgl32.Vec3{seg.Start, seg.End} {
			for i := 0; i < 3; i++ {
				if p[i] < min[i] {
					min[i] = p[i]
				}
				if p[i] > max[i] {
					max[i] = p[i]
				}
			}
		}
	}
	g.BoundsMin = min
	g.BoundsMax = max
}

// LeafIndices returns the indices of every segment without children, in
// arena order. Leaves anchor foliage placement.
func (g *Graph) LeafIndices() []int {
	var leaves []int
	for i := range g.Segments {
		if len(g.Segments[i].Children) == 0 {
			leaves = append(leaves, i)
		}
	}
	return leaves
}

// MaxDepth returns the deepest recursion level present in the graph.
func (g *Graph) MaxDepth() int {
	max := 0
	for i := range g.Segments {
		if g.Segments[i].Depth > max {
			max = g.Segments[i].Depth
		}
	}
	return max
}
