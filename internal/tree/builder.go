package tree

import (
	"math"

	"verdant/internal/config"
	"verdant/internal/vegrand"

	"github.com/go-gl/mathgl/mgl32"
)

// Fraction of child length applied as a sideways curvature offset, so
// branches bow away from a straight line.
const curvatureFactor = 0.1

// Per-depth child length factors used when a species leaves the decay range
// unset. Depths past the table reuse the last entry.
var defaultLengthDecay = []float32{0.8, 0.75, 0.7, 0.65}

// Build constructs the branch graph for a species configuration. The trunk
// runs from the origin straight up to (0, height, 0); every further segment
// is derived from its parent by sampling the configured count, angle and
// decay ranges from the supplied RNG. The same (config, RNG seed) pair
// always reproduces the identical graph.
//
// Invalid configurations are rejected before any segment is created; no
// partial graph is ever returned.
func Build(cfg config.VegetationConfig, rng *vegrand.Source) (*Graph, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Graph{Segments: make([]Segment, 0, 16)}
	root := g.Add(Segment{
		Start:       mgl32.Vec3{0, 0, 0},
		End:         mgl32.Vec3{0, cfg.Height, 0},
		StartRadius: cfg.TrunkRadius,
		EndRadius:   cfg.TrunkRadius * cfg.RadiusDecay,
		Depth:       0,
	})

	// Explicit worklist instead of call recursion: the arena stays the only
	// owner of segments and the graph is acyclic by construction.
	type workItem struct {
		index int
		depth int
	}
	stack := []workItem{{root, 0}}

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if item.depth >= cfg.DepthLimit {
			continue
		}

		parent := g.Segments[item.index]
		if parent.EndRadius < cfg.MinRadius {
			// Radius decay outran the depth limit: terminate early and let
			// this segment count as a leaf for foliage placement.
			continue
		}

		childCount := rng.IntRange(cfg.BranchCountMin, cfg.BranchCountMax)
		parentDir := parent.Direction()
		parentLen := parent.Length()

		for i := 0; i < childCount; i++ {
			angle := mgl32.DegToRad(rng.FloatRange(cfg.AngleMin, cfg.AngleMax))
			roll := rng.Angle()

			perp := perpendicularTo(parentDir)
			rolledPerp := mgl32.QuatRotate(roll, parentDir).Rotate(perp)
			childDir := mgl32.QuatRotate(angle, rolledPerp).Rotate(parentDir).Normalize()

			var decay float32
			if cfg.LengthDecayMin == 0 && cfg.LengthDecayMax == 0 {
				decay = defaultLengthDecay[min(item.depth, len(defaultLengthDecay)-1)]
			} else {
				decay = rng.FloatRange(cfg.LengthDecayMin, cfg.LengthDecayMax)
			}
			childLen := parentLen * decay

			curve := rolledPerp.Mul(childLen * curvatureFactor)
			childEnd := parent.End.Add(childDir.Mul(childLen)).Add(curve)

			startRadius := parent.EndRadius * cfg.RadiusDecay
			childIndex := g.Add(Segment{
				Start:       parent.End,
				End:         childEnd,
				StartRadius: startRadius,
				EndRadius:   startRadius * cfg.RadiusDecay,
				Depth:       item.depth + 1,
			})

			g.Segments[item.index].Children = append(g.Segments[item.index].Children, childIndex)
			stack = append(stack, workItem{childIndex, item.depth + 1})
		}
	}

	g.UpdateBounds()
	return g, nil
}

// perpendicularTo returns a unit vector perpendicular to dir, used as the
// base tilt axis before the random roll around the parent direction.
func perpendicularTo(dir mgl32.Vec3) mgl32.Vec3 {
	if float32(math.Abs(float64(dir.X())))+float32(math.Abs(float64(dir.Y()))) < 0.01 {
		return mgl32.Vec3{1, 0, 0}
	}
	return mgl32.Vec3{-dir.Y(), dir.X(), 0}.Normalize()
}
