// Package grass generates grass blade layouts and meshes for square
// terrain tiles. A tile's density tier picks a cluster count, each
// cluster scatters a handful of blades around its center, and every
// blade carries its own jittered height, width, curvature and yaw so
// no two blades render identically.
package grass

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"verdant/internal/config"
	"verdant/internal/vegrand"
)

// Blades are scattered within this radius of their cluster center.
const clusterRadius = 0.1

// Cluster centers stay within this fraction of the tile extent so blades
// never poke past the tile edge.
const clusterSpread = 0.4

// Blade is one grass blade placed on a tile. Offset is the blade's base
// position in the tile's local XZ plane; Yaw rotates the blade around
// its vertical axis so the curved sides face random directions.
type Blade struct {
	Offset    mgl32.Vec2
	Height    float32
	Width     float32
	Curvature float32
	Yaw       float32
}

// Cluster groups the blades scattered around one anchor point.
type Cluster struct {
	Center mgl32.Vec2
	Blades []Blade
}

// Patch is the full grass layout for a single tile.
type Patch struct {
	Clusters []Cluster
}

// BladeCount reports the number of blades across all clusters.
func (p *Patch) BladeCount() int {
	n := 0
	for _, c := range p.Clusters {
		n += len(c.Blades)
	}
	return n
}

// GeneratePatch builds the blade layout for one tile. The density tier
// picks a cluster count, every cluster gets 5-10 blades, and each blade
// jitters its height by +-30%, width by +-20%, curvature in [0, 0.3]
// and yaw over the full circle. Density None yields an empty patch.
//
// Generation is deterministic for a given config and rng seed.
func GeneratePatch(cfg config.GrassConfig, rng *vegrand.Source) (*Patch, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("grass patch rejected: %w", err)
	}

	minClusters, maxClusters := cfg.Density.ClusterCountRange()
	if maxClusters == 0 {
		return &Patch{}, nil
	}

	clusterCount := rng.IntRange(minClusters, maxClusters)
	patch := &Patch{Clusters: make([]Cluster, 0, clusterCount)}

	for i := 0; i < clusterCount; i++ {
		center := mgl32.Vec2{
			rng.FloatRange(-clusterSpread, clusterSpread) * cfg.TileExtent,
			rng.FloatRange(-clusterSpread, clusterSpread) * cfg.TileExtent,
		}

		bladeCount := rng.IntRange(5, 10)
		blades := make([]Blade, 0, bladeCount)

		for j := 0; j < bladeCount; j++ {
			angle := rng.Angle()
			distance := rng.FloatRange(0, clusterRadius)
			offset := mgl32.Vec2{
				center.X() + cosf(angle)*distance,
				center.Y() + sinf(angle)*distance,
			}

			blades = append(blades, Blade{
				Offset:    offset,
				Height:    cfg.BladeHeight * rng.FloatRange(0.7, 1.3),
				Width:     cfg.BladeWidth * rng.FloatRange(0.8, 1.2),
				Curvature: rng.FloatRange(0, 0.3),
				Yaw:       rng.Angle(),
			})
		}

		patch.Clusters = append(patch.Clusters, Cluster{Center: center, Blades: blades})
	}

	return patch, nil
}
