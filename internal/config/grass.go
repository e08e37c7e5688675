package config

import "fmt"

// GrassDensity is the content-driven density tier for a grass tile. Tiers map
// to cluster count ranges rather than raw blade counts, so blades stay grouped
// in natural-looking clumps instead of being scattered uniformly.
type GrassDensity int

const (
	GrassDensityNone GrassDensity = iota
	GrassDensityLow
	GrassDensityMedium
	GrassDensityHigh
	GrassDensityVeryHigh
)

// ClusterCountRange returns the inclusive range of grass clusters spawned
// per tile for this density tier.
func (d GrassDensity) ClusterCountRange() (int, int) {
	switch d {
	case GrassDensityLow:
		return 2, 3
	case GrassDensityMedium:
		return 5, 7
	case GrassDensityHigh:
		return 10, 15
	case GrassDensityVeryHigh:
		return 18, 25
	default:
		return 0, 0
	}
}

// BladeCountRange returns the documented total blade range per tile for this
// tier. Each cluster holds 5-10 blades, so the bounds follow directly from
// the cluster range.
func (d GrassDensity) BladeCountRange() (int, int) {
	minClusters, maxClusters := d.ClusterCountRange()
	return minClusters * 5, maxClusters * 10
}

// Name returns a display name for UI and debugging.
func (d GrassDensity) Name() string {
	switch d {
	case GrassDensityNone:
		return "None"
	case GrassDensityLow:
		return "Low"
	case GrassDensityMedium:
		return "Medium"
	case GrassDensityHigh:
		return "High"
	case GrassDensityVeryHigh:
		return "Very High"
	default:
		return "Unknown"
	}
}

// UnmarshalYAML reads a density tier from its lowercase name.
func (d *GrassDensity) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	switch name {
	case "none":
		*d = GrassDensityNone
	case "low":
		*d = GrassDensityLow
	case "medium":
		*d = GrassDensityMedium
	case "high":
		*d = GrassDensityHigh
	case "very_high":
		*d = GrassDensityVeryHigh
	default:
		return fmt.Errorf("%w: unknown grass density %q", ErrInvalidConfig, name)
	}
	return nil
}

// GrassConfig holds the parameters for one grass patch generation request.
type GrassConfig struct {
	// Density selects the cluster count tier for the tile.
	Density GrassDensity `yaml:"density"`

	// Seed is an instance-specific sub-seed for blade jitter.
	Seed uint64 `yaml:"seed"`

	// BladeHeight is the nominal blade height before per-blade jitter (+-30%).
	BladeHeight float32 `yaml:"blade_height"`

	// BladeWidth is the nominal blade base width before per-blade jitter (+-20%).
	BladeWidth float32 `yaml:"blade_width"`

	// TileExtent is the half-size of the tile area blades scatter within.
	TileExtent float32 `yaml:"tile_extent"`
}

// Validate rejects structurally invalid grass parameters. Density None is a
// valid tier that produces an empty patch, not an error.
func (c GrassConfig) Validate() error {
	if c.Density < GrassDensityNone || c.Density > GrassDensityVeryHigh {
		return fmt.Errorf("%w: unknown grass density tier %d", ErrInvalidConfig, c.Density)
	}
	if c.BladeHeight <= 0 {
		return fmt.Errorf("%w: blade_height %v must be positive", ErrInvalidConfig, c.BladeHeight)
	}
	if c.BladeWidth <= 0 {
		return fmt.Errorf("%w: blade_width %v must be positive", ErrInvalidConfig, c.BladeWidth)
	}
	if c.TileExtent <= 0 {
		return fmt.Errorf("%w: tile_extent %v must be positive", ErrInvalidConfig, c.TileExtent)
	}
	return nil
}

// CacheKey returns a stable key for caching the generated patch mesh.
func (c GrassConfig) CacheKey() string {
	return fmt.Sprintf("grass/%d/%d|%v|%v|%v", c.Density, c.Seed,
		c.BladeHeight, c.BladeWidth, c.TileExtent)
}
