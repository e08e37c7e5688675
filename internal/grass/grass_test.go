package grass

import (
	"errors"
	"math"
	"testing"

	"verdant/internal/config"
	"verdant/internal/vegrand"
)

func mediumConfig() config.GrassConfig {
	return config.GrassConfig{
		Density:     config.GrassDensityMedium,
		Seed:        7,
		BladeHeight: 0.4,
		BladeWidth:  0.15,
		TileExtent:  1.0,
	}
}

func TestGeneratePatchNoneDensityIsEmpty(t *testing.T) {
	cfg := mediumConfig()
	cfg.Density = config.GrassDensityNone

	p, err := GeneratePatch(cfg, vegrand.New(1))
	if err != nil {
		t.Fatalf("None density is valid, got error: %v", err)
	}
	if p.BladeCount() != 0 || len(p.Clusters) != 0 {
		t.Errorf("None density should yield an empty patch, got %d blades", p.BladeCount())
	}
}

func TestGeneratePatchRejectsInvalidConfig(t *testing.T) {
	cfg := mediumConfig()
	cfg.BladeHeight = 0

	if _, err := GeneratePatch(cfg, vegrand.New(1)); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestGeneratePatchClusterCountsMatchTier(t *testing.T) {
	tiers := []config.GrassDensity{
		config.GrassDensityLow,
		config.GrassDensityMedium,
		config.GrassDensityHigh,
		config.GrassDensityVeryHigh,
	}

	for _, tier := range tiers {
		minC, maxC := tier.ClusterCountRange()
		for seed := int64(0); seed < 20; seed++ {
			cfg := mediumConfig()
			cfg.Density = tier

			p, err := GeneratePatch(cfg, vegrand.New(seed))
			if err != nil {
				t.Fatal(err)
			}
			if len(p.Clusters) < minC || len(p.Clusters) > maxC {
				t.Errorf("%s seed %d: %d clusters outside [%d, %d]",
					tier.Name(), seed, len(p.Clusters), minC, maxC)
			}
		}
	}
}

func TestGeneratePatchMediumBladeCountInDocumentedRange(t *testing.T) {
	minBlades, maxBlades := config.GrassDensityMedium.BladeCountRange()

	for seed := int64(0); seed < 50; seed++ {
		p, err := GeneratePatch(mediumConfig(), vegrand.New(seed))
		if err != nil {
			t.Fatal(err)
		}
		if n := p.BladeCount(); n < minBlades || n > maxBlades {
			t.Errorf("Seed %d: %d blades outside documented range [%d, %d]",
				seed, n, minBlades, maxBlades)
		}
	}
}

func TestGeneratePatchBladesStayNearTheirCluster(t *testing.T) {
	p, err := GeneratePatch(mediumConfig(), vegrand.New(3))
	if err != nil {
		t.Fatal(err)
	}

	for ci, c := range p.Clusters {
		for bi, b := range c.Blades {
			if d := b.Offset.Sub(c.Center).Len(); d > clusterRadius+1e-5 {
				t.Errorf("Cluster %d blade %d drifted %v from center", ci, bi, d)
			}
		}
	}
}

func TestGeneratePatchJitterStaysInRange(t *testing.T) {
	cfg := mediumConfig()
	p, err := GeneratePatch(cfg, vegrand.New(11))
	if err != nil {
		t.Fatal(err)
	}

	for _, c := range p.Clusters {
		for _, b := range c.Blades {
			if b.Height < cfg.BladeHeight*0.7 || b.Height > cfg.BladeHeight*1.3 {
				t.Errorf("Blade height %v outside +-30%% of %v", b.Height, cfg.BladeHeight)
			}
			if b.Width < cfg.BladeWidth*0.8 || b.Width > cfg.BladeWidth*1.2 {
				t.Errorf("Blade width %v outside +-20%% of %v", b.Width, cfg.BladeWidth)
			}
			if b.Curvature < 0 || b.Curvature > 0.3 {
				t.Errorf("Blade curvature %v outside [0, 0.3]", b.Curvature)
			}
			if b.Yaw < 0 || b.Yaw >= 2*math.Pi {
				t.Errorf("Blade yaw %v outside [0, 2pi)", b.Yaw)
			}
		}
	}
}

func TestGeneratePatchDeterministic(t *testing.T) {
	p1, err := GeneratePatch(mediumConfig(), vegrand.New(9))
	if err != nil {
		t.Fatal(err)
	}
	p2, err := GeneratePatch(mediumConfig(), vegrand.New(9))
	if err != nil {
		t.Fatal(err)
	}

	if len(p1.Clusters) != len(p2.Clusters) {
		t.Fatal("Cluster counts differ between identical runs")
	}
	for i := range p1.Clusters {
		if len(p1.Clusters[i].Blades) != len(p2.Clusters[i].Blades) {
			t.Fatalf("Cluster %d blade counts differ", i)
		}
		for j := range p1.Clusters[i].Blades {
			if p1.Clusters[i].Blades[j] != p2.Clusters[i].Blades[j] {
				t.Fatalf("Blade %d/%d differs between identical runs", i, j)
			}
		}
	}
}

func TestBladeMeshCounts(t *testing.T) {
	m := BladeMesh(0.4, 0.15, 0.1)
	if m.VertexCount() != 10 {
		t.Errorf("Blade should have 10 vertices, got %d", m.VertexCount())
	}
	if len(m.Indices) != 24 {
		t.Errorf("Blade should have 24 indices, got %d", len(m.Indices))
	}
	if len(m.UVs) != 10 {
		t.Errorf("Blade should carry UVs for all vertices, got %d", len(m.UVs))
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Blade mesh invalid: %v", err)
	}
}

func TestBladeMeshTapersToZeroAtTip(t *testing.T) {
	m := BladeMesh(0.4, 0.15, 0.1)

	left := m.Positions[8]
	right := m.Positions[9]
	if left != right {
		t.Errorf("Tip vertices should coincide at zero width: %v vs %v", left, right)
	}
	if math.Abs(float64(left[1]-0.4)) > 1e-5 {
		t.Errorf("Tip should reach full height 0.4, got %v", left[1])
	}
}

func TestBladeMeshBaseWidth(t *testing.T) {
	m := BladeMesh(0.4, 0.15, 0.1)

	if m.Positions[0][0] != -0.075 || m.Positions[1][0] != 0.075 {
		t.Errorf("Base vertices should sit at +-width/2, got %v and %v",
			m.Positions[0][0], m.Positions[1][0])
	}
	if m.Positions[0][1] != 0 || m.Positions[1][1] != 0 {
		t.Errorf("Base vertices should sit on the ground plane")
	}
}

func TestBladeMeshCurvatureBendsTipOnly(t *testing.T) {
	straight := BladeMesh(0.4, 0.15, 0)
	for i, p := range straight.Positions {
		if p[2] != 0 {
			t.Errorf("Zero curvature blade should be planar, vertex %d z=%v", i, p[2])
		}
	}

	curved := BladeMesh(0.4, 0.15, 0.3)
	if curved.Positions[0][2] != 0 {
		t.Errorf("Blade base should stay rooted regardless of curvature")
	}
	if math.Abs(float64(curved.Positions[8][2]-0.3)) > 1e-5 {
		t.Errorf("Tip should bend by the full curvature, got z=%v", curved.Positions[8][2])
	}
}

func TestBladeMeshNormalsAreUnit(t *testing.T) {
	m := BladeMesh(0.4, 0.15, 0.2)
	for i, n := range m.Normals {
		len := math.Sqrt(float64(n[0]*n[0] + n[1]*n[1] + n[2]*n[2]))
		if math.Abs(len-1) > 1e-4 {
			t.Errorf("Normal %d has length %v, want 1", i, len)
		}
		if math.Abs(float64(n[0])) > 0.01 {
			t.Errorf("Blade normals should be perpendicular to the width axis, got x=%v", n[0])
		}
	}
}

func TestPatchMeshMergesAllBlades(t *testing.T) {
	p, err := GeneratePatch(mediumConfig(), vegrand.New(5))
	if err != nil {
		t.Fatal(err)
	}

	m := PatchMesh(p)
	if err := m.Validate(); err != nil {
		t.Fatalf("Patch mesh invalid: %v", err)
	}
	if m.VertexCount() != p.BladeCount()*10 {
		t.Errorf("Want %d vertices for %d blades, got %d",
			p.BladeCount()*10, p.BladeCount(), m.VertexCount())
	}
	if len(m.Indices) != p.BladeCount()*24 {
		t.Errorf("Want %d indices, got %d", p.BladeCount()*24, len(m.Indices))
	}
	if len(m.UVs) != m.VertexCount() {
		t.Errorf("Patch mesh should keep blade UVs")
	}
}

func TestPatchMeshPlacesBladesAtTheirOffsets(t *testing.T) {
	p := &Patch{Clusters: []Cluster{{
		Blades: []Blade{{
			Offset: [2]float32{0.25, -0.3},
			Height: 0.4,
			Width:  0.15,
		}},
	}}}

	m := PatchMesh(p)

	// With zero yaw and curvature the base pair straddles the offset.
	midX := (m.Positions[0][0] + m.Positions[1][0]) / 2
	midZ := (m.Positions[0][2] + m.Positions[1][2]) / 2
	if math.Abs(float64(midX-0.25)) > 1e-5 || math.Abs(float64(midZ+0.3)) > 1e-5 {
		t.Errorf("Blade base centered at (%v, %v), want (0.25, -0.3)", midX, midZ)
	}
}

func TestPatchMeshEmptyPatch(t *testing.T) {
	m := PatchMesh(&Patch{})
	if m.VertexCount() != 0 || len(m.Indices) != 0 {
		t.Errorf("Empty patch should produce an empty mesh")
	}
}
