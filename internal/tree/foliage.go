package tree

import (
	"math"

	"verdant/internal/mathutil"
	"verdant/internal/vegrand"

	"github.com/go-gl/mathgl/mgl32"
)

// FoliageBlob is one small sphere primitive of a foliage cluster; the
// consumer renders these as solid 3D volumes rather than camera-facing
// sprites.
type FoliageBlob struct {
	Position mgl32.Vec3
	Radius   float32
}

// FoliageCluster groups the blobs anchored near one leaf segment's end
// point. Clusters are computed once per graph generation and regenerated
// with it; they are never persisted independently.
type FoliageCluster struct {
	// LeafIndex is the arena index of the anchoring leaf segment.
	LeafIndex int
	Blobs     []FoliageBlob
}

// Blobs per leaf at maximum cluster size.
const maxClusterSize = 5

// PlaceFoliage emits a foliage cluster at every leaf segment of the graph.
// Cluster size is round(density*5) clamped to [0, 5]; each blob is offset
// 0.2-0.5 world units sideways and up to 0.1 vertically from the leaf end,
// with a radius of 1.5x the leaf's end radius clamped to [0.3, 0.6].
//
// Density 0.0 yields no clusters at all (bare/dead trees), and a higher
// density never produces fewer blobs, since the per-leaf count depends on
// density alone.
func PlaceFoliage(g *Graph, density float32, rng *vegrand.Source) []FoliageCluster {
	clusterSize := mathutil.ClampInt(mathutil.RoundToInt(density*5), 0, maxClusterSize)
	if clusterSize == 0 {
		return nil
	}

	leaves := g.LeafIndices()
	clusters := make([]FoliageCluster, 0, len(leaves))

	for _, leafIdx := range leaves {
		leaf := g.Segments[leafIdx]
		blobs := make([]FoliageBlob, 0, clusterSize)

		for i := 0; i < clusterSize; i++ {
			offsetRadius := rng.FloatRange(0.2, 0.5)
			angle := rng.Angle()
			offsetY := rng.FloatRange(-0.1, 0.1)

			offset := mgl32.Vec3{
				offsetRadius * float32(math.Cos(float64(angle))),
				offsetY,
				offsetRadius * float32(math.Sin(float64(angle))),
			}

			blobs = append(blobs, FoliageBlob{
				Position: leaf.End.Add(offset),
				Radius:   mathutil.Clamp(leaf.EndRadius*1.5, 0.3, 0.6),
			})
		}

		clusters = append(clusters, FoliageCluster{LeafIndex: leafIdx, Blobs: blobs})
	}

	return clusters
}
