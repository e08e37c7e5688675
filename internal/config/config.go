package config

import (
	"errors"
	"fmt"
	"hash/fnv"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every configuration validation error, so
// callers can recognize rejected input with errors.Is and resubmit a
// corrected configuration.
var ErrInvalidConfig = errors.New("invalid vegetation config")

// VegetationConfig holds the species parameters that drive tree generation.
// It is plain input data: values are read from assets/species.yaml (or built
// by the caller) and validated before any generation work starts.
type VegetationConfig struct {
	// Species identifies the configuration; its hash seeds the shape RNG.
	Species string `yaml:"-"`

	// Seed is an instance-specific sub-seed mixed into the species hash.
	Seed uint64 `yaml:"seed"`

	// TrunkRadius is the base radius of the trunk at ground level.
	TrunkRadius float32 `yaml:"trunk_radius"`

	// Height is the trunk length from ground to first branching point.
	Height float32 `yaml:"height"`

	// DepthLimit caps branch recursion; must be at least 1. Typical
	// species use 3-5.
	DepthLimit int `yaml:"depth_limit"`

	// BranchCountMin/Max bound the number of children per subdivided branch.
	BranchCountMin int `yaml:"branch_count_min"`
	BranchCountMax int `yaml:"branch_count_max"`

	// AngleMin/Max bound the branch deviation from the parent direction, in degrees.
	AngleMin float32 `yaml:"angle_min"`
	AngleMax float32 `yaml:"angle_max"`

	// LengthDecayMin/Max bound the per-level child length factor (typically
	// 0.6-0.8). Leaving both at zero selects built-in per-depth defaults.
	LengthDecayMin float32 `yaml:"length_decay_min"`
	LengthDecayMax float32 `yaml:"length_decay_max"`

	// RadiusDecay is the per-level radius factor, strictly inside (0, 1).
	RadiusDecay float32 `yaml:"radius_decay"`

	// FoliageDensity scales foliage cluster size at leaf branches. 0.0 means
	// a bare tree (dead trees); valid range 0.0-2.0.
	FoliageDensity float32 `yaml:"foliage_density"`

	// MinRadius terminates branching early once a branch end falls below it.
	MinRadius float32 `yaml:"min_radius"`
}

// Validate rejects structurally invalid parameters before generation begins.
// Edge cases like FoliageDensity 0.0 or DepthLimit 1 are valid input, not errors.
func (c VegetationConfig) Validate() error {
	if c.Species == "" {
		return fmt.Errorf("%w: species identifier is empty", ErrInvalidConfig)
	}
	if c.TrunkRadius <= 0 {
		return fmt.Errorf("%w: trunk_radius %v must be positive", ErrInvalidConfig, c.TrunkRadius)
	}
	if c.Height <= 0 {
		return fmt.Errorf("%w: height %v must be positive", ErrInvalidConfig, c.Height)
	}
	if c.DepthLimit < 1 {
		return fmt.Errorf("%w: depth_limit %d must be at least 1", ErrInvalidConfig, c.DepthLimit)
	}
	if c.BranchCountMin < 1 || c.BranchCountMax < c.BranchCountMin {
		return fmt.Errorf("%w: branch count range %d-%d is not a valid range",
			ErrInvalidConfig, c.BranchCountMin, c.BranchCountMax)
	}
	if c.AngleMin < 0 || c.AngleMax < c.AngleMin {
		return fmt.Errorf("%w: angle range %v-%v is not a valid range",
			ErrInvalidConfig, c.AngleMin, c.AngleMax)
	}
	if c.LengthDecayMin != 0 || c.LengthDecayMax != 0 {
		if c.LengthDecayMin <= 0 || c.LengthDecayMax < c.LengthDecayMin {
			return fmt.Errorf("%w: length decay range %v-%v is not a valid range",
				ErrInvalidConfig, c.LengthDecayMin, c.LengthDecayMax)
		}
	}
	if c.RadiusDecay <= 0 || c.RadiusDecay >= 1 {
		return fmt.Errorf("%w: radius_decay %v must be strictly inside (0, 1)",
			ErrInvalidConfig, c.RadiusDecay)
	}
	if c.FoliageDensity < 0 || c.FoliageDensity > 2 {
		return fmt.Errorf("%w: foliage_density %v must be within 0.0-2.0",
			ErrInvalidConfig, c.FoliageDensity)
	}
	if c.MinRadius <= 0 {
		return fmt.Errorf("%w: min_radius %v must be positive", ErrInvalidConfig, c.MinRadius)
	}
	return nil
}

// CacheKey returns a stable key for mesh caching: the species identifier
// plus an FNV-1a hash of every shape-affecting parameter.
func (c VegetationConfig) CacheKey() string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%v|%v|%d|%d|%d|%v|%v|%v|%v|%v|%v|%v",
		c.Seed, c.TrunkRadius, c.Height, c.DepthLimit,
		c.BranchCountMin, c.BranchCountMax,
		c.AngleMin, c.AngleMax,
		c.LengthDecayMin, c.LengthDecayMax,
		c.RadiusDecay, c.FoliageDensity, c.MinRadius)
	return fmt.Sprintf("tree/%s/%016x", c.Species, h.Sum64())
}

// SpeciesFile is the parsed form of assets/species.yaml: named species
// definitions plus the default grass patch configuration.
type SpeciesFile struct {
	Species map[string]VegetationConfig `yaml:"species"`
	Grass   GrassConfig                 `yaml:"grass"`
}

// LoadSpeciesFile reads and parses a species definition file. Every species
// entry and the grass section are validated; a file with any invalid entry
// is rejected as a whole.
func LoadSpeciesFile(filename string) (*SpeciesFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read species config: %w", err)
	}

	var file SpeciesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse species config: %w", err)
	}

	for name, cfg := range file.Species {
		cfg.Species = name
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("species %q: %w", name, err)
		}
		file.Species[name] = cfg
	}

	if err := file.Grass.Validate(); err != nil {
		return nil, fmt.Errorf("grass section: %w", err)
	}

	return &file, nil
}

// MustLoadSpeciesFile loads the species definitions and panics on error.
func MustLoadSpeciesFile(filename string) *SpeciesFile {
	file, err := LoadSpeciesFile(filename)
	if err != nil {
		panic("Failed to load species config: " + err.Error())
	}
	return file
}

// Get returns the named species configuration.
func (f *SpeciesFile) Get(name string) (VegetationConfig, error) {
	cfg, ok := f.Species[name]
	if !ok {
		return VegetationConfig{}, fmt.Errorf("species %q not defined", name)
	}
	return cfg, nil
}
