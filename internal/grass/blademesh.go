package grass

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"verdant/internal/mesh"
)

// Segments along the blade's quadratic bezier spine.
const bladeSegments = 4

func cosf(a float32) float32 { return float32(math.Cos(float64(a))) }
func sinf(a float32) float32 { return float32(math.Sin(float64(a))) }

// BladeMesh builds a single blade as a flat quad strip following a
// quadratic bezier: the spine rises from the origin through (0, h/2, 0)
// to (0, h, curvature), bending the tip sideways. Width tapers linearly
// to zero at the tip so blades end in a point. UVs run 0-1 along the
// blade for consumers that texture it.
func BladeMesh(height, width, curvature float32) *mesh.Mesh {
	spine := make([]mgl32.Vec3, bladeSegments+1)
	for i := 0; i <= bladeSegments; i++ {
		t := float32(i) / bladeSegments
		omt := 1 - t

		// Quadratic bezier with control points at y=0, y=h/2 and
		// (z=curvature, y=h); the sideways bend only appears in the
		// t^2 term so the base stays rooted.
		y := omt*omt*0 + 2*omt*t*(height*0.5) + t*t*height
		z := t * t * curvature

		spine[i] = mgl32.Vec3{0, y, z}
	}

	vertexCount := 2 * (bladeSegments + 1)
	m := &mesh.Mesh{
		Positions: make([][3]float32, 0, vertexCount),
		Normals:   make([][3]float32, 0, vertexCount),
		UVs:       make([][2]float32, 0, vertexCount),
		Indices:   make([]uint32, 0, 6*bladeSegments),
	}

	for i := 0; i <= bladeSegments; i++ {
		t := float32(i) / bladeSegments
		point := spine[i]

		var tangent mgl32.Vec3
		switch i {
		case 0:
			tangent = spine[1].Sub(spine[0])
		case bladeSegments:
			tangent = spine[bladeSegments].Sub(spine[bladeSegments-1])
		default:
			tangent = spine[i+1].Sub(spine[i-1])
		}

		normal := mgl32.Vec3{1, 0, 0}.Cross(tangent)
		if normal.Len() > 0 {
			normal = normal.Normalize()
		}

		taperWidth := width * (1 - t)
		half := taperWidth / 2

		m.Positions = append(m.Positions, [3]float32{-half, point.Y(), point.Z()})
		m.Normals = append(m.Normals, [3]float32{normal.X(), normal.Y(), normal.Z()})
		m.UVs = append(m.UVs, [2]float32{0, t})

		m.Positions = append(m.Positions, [3]float32{half, point.Y(), point.Z()})
		m.Normals = append(m.Normals, [3]float32{normal.X(), normal.Y(), normal.Z()})
		m.UVs = append(m.UVs, [2]float32{1, t})
	}

	for i := 0; i < bladeSegments; i++ {
		base := uint32(i * 2)
		m.Indices = append(m.Indices,
			base, base+1, base+2,
			base+1, base+3, base+2,
		)
	}

	return m
}

// PatchMesh flattens a patch into one mesh: every blade is meshed, spun
// around Y by its yaw, moved to its tile-local offset and merged. The
// result shares the tile's local coordinate space, origin at the tile
// center.
func PatchMesh(p *Patch) *mesh.Mesh {
	var parts []*mesh.Mesh

	for _, cluster := range p.Clusters {
		for _, blade := range cluster.Blades {
			bm := BladeMesh(blade.Height, blade.Width, blade.Curvature)

			rot := mgl32.Rotate3DY(blade.Yaw)
			for i := range bm.Positions {
				v := rot.Mul3x1(mgl32.Vec3{
					bm.Positions[i][0],
					bm.Positions[i][1],
					bm.Positions[i][2],
				})
				bm.Positions[i] = [3]float32{
					v.X() + blade.Offset.X(),
					v.Y(),
					v.Z() + blade.Offset.Y(),
				}

				n := rot.Mul3x1(mgl32.Vec3{
					bm.Normals[i][0],
					bm.Normals[i][1],
					bm.Normals[i][2],
				})
				bm.Normals[i] = [3]float32{n.X(), n.Y(), n.Z()}
			}

			parts = append(parts, bm)
		}
	}

	return mesh.Merge(parts)
}
