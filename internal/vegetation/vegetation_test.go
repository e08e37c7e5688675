package vegetation

import (
	"errors"
	"sync"
	"testing"

	"verdant/internal/config"
)

func oakConfig() config.VegetationConfig {
	return config.VegetationConfig{
		Species:        "oak",
		Seed:           42,
		TrunkRadius:    0.3,
		Height:         5.0,
		DepthLimit:     4,
		BranchCountMin: 3,
		BranchCountMax: 4,
		AngleMin:       20,
		AngleMax:       45,
		LengthDecayMin: 0.6,
		LengthDecayMax: 0.8,
		RadiusDecay:    0.7,
		FoliageDensity: 1.0,
		MinRadius:      0.05,
	}
}

func grassConfig() config.GrassConfig {
	return config.GrassConfig{
		Density:     config.GrassDensityMedium,
		Seed:        7,
		BladeHeight: 0.4,
		BladeWidth:  0.15,
		TileExtent:  1.0,
	}
}

func TestGenerateTreeMeshProducesValidOutput(t *testing.T) {
	m, clusters, err := GenerateTreeMesh(oakConfig())
	if err != nil {
		t.Fatalf("GenerateTreeMesh failed: %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Tree mesh invalid: %v", err)
	}
	if m.VertexCount() == 0 {
		t.Errorf("Tree mesh should not be empty")
	}
	if len(clusters) == 0 {
		t.Errorf("Oak with density 1.0 should carry foliage")
	}
}

func TestGenerateTreeMeshDeterministic(t *testing.T) {
	m1, c1, err := GenerateTreeMesh(oakConfig())
	if err != nil {
		t.Fatal(err)
	}
	m2, c2, err := GenerateTreeMesh(oakConfig())
	if err != nil {
		t.Fatal(err)
	}

	if m1.VertexCount() != m2.VertexCount() {
		t.Fatalf("Vertex counts differ: %d vs %d", m1.VertexCount(), m2.VertexCount())
	}
	for i := range m1.Positions {
		if m1.Positions[i] != m2.Positions[i] {
			t.Fatalf("Vertex %d differs between identical configs", i)
		}
	}
	if len(c1) != len(c2) {
		t.Fatalf("Foliage cluster counts differ")
	}
	for i := range c1 {
		for j := range c1[i].Blobs {
			if c1[i].Blobs[j] != c2[i].Blobs[j] {
				t.Fatalf("Foliage blob %d/%d differs between identical configs", i, j)
			}
		}
	}
}

func TestGenerateTreeMeshZeroDensityHasNoFoliage(t *testing.T) {
	cfg := oakConfig()
	cfg.FoliageDensity = 0

	m, clusters, err := GenerateTreeMesh(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if clusters != nil {
		t.Errorf("Density 0 should place no foliage, got %d clusters", len(clusters))
	}
	if m.VertexCount() == 0 {
		t.Errorf("Bare tree still has branch geometry")
	}
}

func TestGenerateTreeMeshRejectsInvalidConfig(t *testing.T) {
	cfg := oakConfig()
	cfg.Height = -1

	if _, _, err := GenerateTreeMesh(cfg); !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
}

func TestGenerateGrassMeshValid(t *testing.T) {
	m, err := GenerateGrassMesh(grassConfig())
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Grass mesh invalid: %v", err)
	}
	if m.VertexCount()%10 != 0 {
		t.Errorf("Grass mesh should be whole blades of 10 vertices, got %d", m.VertexCount())
	}
}

func TestGeneratorReturnsSharedMesh(t *testing.T) {
	g := NewGenerator()
	defer g.Stop()

	m1, err := g.TreeMesh(oakConfig())
	if err != nil {
		t.Fatal(err)
	}
	m2, err := g.TreeMesh(oakConfig())
	if err != nil {
		t.Fatal(err)
	}

	if m1 != m2 {
		t.Errorf("Identical configs should share one mesh buffer")
	}

	s := g.Stats()
	if s.CacheMisses != 1 || s.CacheHits != 1 {
		t.Errorf("Want 1 miss + 1 hit, got %d misses %d hits", s.CacheMisses, s.CacheHits)
	}

	cfg := oakConfig()
	cfg.Seed = 99
	m3, err := g.TreeMesh(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if m3 == m1 {
		t.Errorf("Different seeds must not share a mesh")
	}
}

func TestGeneratorFoliageFollowsCachedTree(t *testing.T) {
	g := NewGenerator()
	defer g.Stop()

	cfg := oakConfig()
	if _, err := g.TreeMesh(cfg); err != nil {
		t.Fatal(err)
	}
	if g.Foliage(cfg) == nil {
		t.Errorf("Cached tree should expose its foliage placements")
	}

	g.ReleaseTree(cfg)
	if g.Foliage(cfg) != nil {
		t.Errorf("Foliage should be dropped with the last mesh reference")
	}
}

func TestGeneratorReleaseEvictsAtZero(t *testing.T) {
	g := NewGenerator()
	defer g.Stop()

	cfg := oakConfig()
	if _, err := g.TreeMesh(cfg); err != nil {
		t.Fatal(err)
	}
	if _, err := g.TreeMesh(cfg); err != nil {
		t.Fatal(err)
	}

	g.ReleaseTree(cfg)
	if g.CachedMeshes() != 1 {
		t.Errorf("One reference remains, mesh should stay cached")
	}
	if g.Foliage(cfg) == nil {
		t.Errorf("Foliage should survive while the mesh is referenced")
	}

	g.ReleaseTree(cfg)
	if g.CachedMeshes() != 0 {
		t.Errorf("Mesh should be evicted at zero references")
	}
}

func TestGeneratorConcurrentRequestsSingleGeneration(t *testing.T) {
	g := NewGenerator()
	defer g.Stop()

	const callers = 16
	meshes := make([]interface{}, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := g.TreeMesh(oakConfig())
			if err != nil {
				t.Errorf("Concurrent TreeMesh failed: %v", err)
				return
			}
			meshes[i] = m
		}(i)
	}
	wg.Wait()

	for i := 1; i < callers; i++ {
		if meshes[i] != meshes[0] {
			t.Fatalf("Caller %d got a different buffer", i)
		}
	}

	if s := g.Stats(); s.TreesGenerated != 1 {
		t.Errorf("Want exactly one generation, got %d", s.TreesGenerated)
	}
}

func TestGeneratorGrassMeshCaching(t *testing.T) {
	g := NewGenerator()
	defer g.Stop()

	m1, err := g.GrassMesh(grassConfig())
	if err != nil {
		t.Fatal(err)
	}
	m2, err := g.GrassMesh(grassConfig())
	if err != nil {
		t.Fatal(err)
	}
	if m1 != m2 {
		t.Errorf("Identical grass configs should share one mesh")
	}

	g.ReleaseGrass(grassConfig())
	g.ReleaseGrass(grassConfig())
	if g.CachedMeshes() != 0 {
		t.Errorf("Grass mesh should be evicted after final release")
	}
}

func TestGeneratorTreeMeshBatch(t *testing.T) {
	g := NewGenerator()
	defer g.Stop()

	cfgs := make([]config.VegetationConfig, 8)
	for i := range cfgs {
		cfgs[i] = oakConfig()
		cfgs[i].Seed = uint64(i % 2) // two distinct trees, four requests each
	}

	results := g.TreeMeshBatch(cfgs)
	if len(results) != len(cfgs) {
		t.Fatalf("Want %d results, got %d", len(cfgs), len(results))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Fatalf("Batch entry %d failed: %v", i, r.Err)
		}
	}

	for i := 2; i < len(results); i++ {
		if results[i].Mesh != results[i%2].Mesh {
			t.Errorf("Entry %d should share the mesh of entry %d", i, i%2)
		}
	}

	if s := g.Stats(); s.TreesGenerated != 2 {
		t.Errorf("Want 2 generations for 2 distinct configs, got %d", s.TreesGenerated)
	}
}
