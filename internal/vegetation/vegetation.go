// Package vegetation is the public face of the generator: one-shot
// helpers for producing tree and grass meshes from validated configs,
// plus a cached Generator for consumers that request the same species
// many times.
package vegetation

import (
	"fmt"

	"verdant/internal/config"
	"verdant/internal/grass"
	"verdant/internal/mesh"
	"verdant/internal/tree"
	"verdant/internal/vegrand"
)

// GenerateTreeMesh builds a complete tree from the config: branch graph,
// merged trunk/branch mesh, and foliage cluster placements for the
// consumer to render as blob volumes. The same config always yields
// bit-identical output.
func GenerateTreeMesh(cfg config.VegetationConfig) (*mesh.Mesh, []tree.FoliageCluster, error) {
	rng := vegrand.NewForSpecies(cfg.Species, cfg.Seed)

	graph, err := tree.Build(cfg, rng)
	if err != nil {
		return nil, nil, fmt.Errorf("tree %q: %w", cfg.Species, err)
	}

	// Foliage draws from the same stream, directly after branch
	// growth, so placements are as reproducible as the graph itself.
	clusters := tree.PlaceFoliage(graph, cfg.FoliageDensity, rng)

	return tree.MeshGraph(graph), clusters, nil
}

// GenerateGrassPatch builds the blade layout for one tile.
func GenerateGrassPatch(cfg config.GrassConfig) (*grass.Patch, error) {
	return grass.GeneratePatch(cfg, vegrand.New(vegrand.SeedFor("grass", cfg.Seed)))
}

// GenerateGrassMesh builds the layout and flattens it into a single
// tile-local mesh in one call.
func GenerateGrassMesh(cfg config.GrassConfig) (*mesh.Mesh, error) {
	patch, err := GenerateGrassPatch(cfg)
	if err != nil {
		return nil, err
	}
	return grass.PatchMesh(patch), nil
}
