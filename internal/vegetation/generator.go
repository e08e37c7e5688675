package vegetation

import (
	"sync"

	"verdant/internal/config"
	"verdant/internal/grass"
	"verdant/internal/mesh"
	"verdant/internal/threading/core"
	"verdant/internal/threading/monitoring"
	"verdant/internal/tree"
)

// Generator serves tree and grass meshes through a ref-counted cache so
// a forest of identical oaks shares one vertex buffer. Concurrent
// requests for the same key wait on a single in-flight generation.
//
// Callers pair every TreeMesh/GrassMesh with a matching Release once
// the mesh leaves use; the cache drops an entry when its last reference
// goes away.
type Generator struct {
	cache   *mesh.Cache
	pool    *core.WorkerPool
	monitor *monitoring.GenerationMonitor

	// Foliage placements ride alongside cached tree meshes; they are
	// filled inside the cache's single-flight generation so they stay
	// consistent with the mesh they belong to.
	mu      sync.Mutex
	foliage map[string][]tree.FoliageCluster
}

// NewGenerator creates a generator with its own cache and a worker pool
// sized to the machine.
func NewGenerator() *Generator {
	return &Generator{
		cache:   mesh.NewCache(),
		pool:    core.CreateDefaultWorkerPool(),
		monitor: monitoring.NewGenerationMonitor(),
		foliage: make(map[string][]tree.FoliageCluster),
	}
}

// Stop shuts down the generator's worker pool.
func (g *Generator) Stop() {
	g.pool.Stop()
}

// TreeMesh returns the cached mesh for the config, generating it on
// first request. Repeated calls with an identical config return the
// same mesh pointer until every reference is released.
func (g *Generator) TreeMesh(cfg config.VegetationConfig) (*mesh.Mesh, error) {
	key := cfg.CacheKey()
	generated := false

	m, err := g.cache.GetOrGenerate(key, func() (*mesh.Mesh, error) {
		generated = true
		timer := g.monitor.StartGeneration()

		m, clusters, err := GenerateTreeMesh(cfg)
		if err != nil {
			return nil, err
		}

		g.mu.Lock()
		g.foliage[key] = clusters
		g.mu.Unlock()

		timer.EndTree(m.VertexCount())
		return m, nil
	})
	if err != nil {
		return nil, err
	}

	if generated {
		g.monitor.RecordCacheMiss()
	} else {
		g.monitor.RecordCacheHit()
	}
	return m, nil
}

// Foliage returns the foliage clusters placed for a currently cached
// tree config, or nil when the tree is not resident.
func (g *Generator) Foliage(cfg config.VegetationConfig) []tree.FoliageCluster {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.foliage[cfg.CacheKey()]
}

// ReleaseTree drops one reference to the config's cached mesh. The
// foliage placements go with the mesh when the last reference is
// released.
func (g *Generator) ReleaseTree(cfg config.VegetationConfig) {
	key := cfg.CacheKey()
	g.cache.Release(key)

	if g.cache.Contains(key) {
		return
	}
	g.mu.Lock()
	delete(g.foliage, key)
	g.mu.Unlock()
}

// GrassMesh returns the cached patch mesh for the config, generating it
// on first request.
func (g *Generator) GrassMesh(cfg config.GrassConfig) (*mesh.Mesh, error) {
	key := cfg.CacheKey()
	generated := false

	m, err := g.cache.GetOrGenerate(key, func() (*mesh.Mesh, error) {
		generated = true
		timer := g.monitor.StartGeneration()

		patch, err := GenerateGrassPatch(cfg)
		if err != nil {
			return nil, err
		}
		m := grass.PatchMesh(patch)

		timer.EndPatch(m.VertexCount())
		return m, nil
	})
	if err != nil {
		return nil, err
	}

	if generated {
		g.monitor.RecordCacheMiss()
	} else {
		g.monitor.RecordCacheHit()
	}
	return m, nil
}

// ReleaseGrass drops one reference to the config's cached patch mesh.
func (g *Generator) ReleaseGrass(cfg config.GrassConfig) {
	g.cache.Release(cfg.CacheKey())
}

// TreeBatchResult pairs one batch entry's mesh with its error.
type TreeBatchResult struct {
	Mesh *mesh.Mesh
	Err  error
}

// TreeMeshBatch generates meshes for many configs across the worker
// pool. Results line up with the input slice; duplicate configs resolve
// to the same cached mesh with one generation between them.
func (g *Generator) TreeMeshBatch(cfgs []config.VegetationConfig) []TreeBatchResult {
	results := make([]TreeBatchResult, len(cfgs))

	g.pool.ParallelFor(0, len(cfgs), func(i int) {
		m, err := g.TreeMesh(cfgs[i])
		results[i] = TreeBatchResult{Mesh: m, Err: err}
	})

	return results
}

// Stats returns a snapshot of generation metrics.
func (g *Generator) Stats() monitoring.Stats {
	return g.monitor.Snapshot()
}

// CachedMeshes reports the number of meshes currently resident.
func (g *Generator) CachedMeshes() int {
	return g.cache.Len()
}
