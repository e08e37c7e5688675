package main

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"os"
	"path/filepath"
	"sort"

	"verdant/internal/config"
	"verdant/internal/mesh"
	"verdant/internal/vegetation"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebitext "github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"
)

const (
	windowWidth  = 1200
	windowHeight = 800
)

const (
	modeTrees = iota
	modeGrass
)

var grassTiers = []config.GrassDensity{
	config.GrassDensityNone,
	config.GrassDensityLow,
	config.GrassDensityMedium,
	config.GrassDensityHigh,
	config.GrassDensityVeryHigh,
}

// viewer is a wireframe inspector for generated vegetation. It spins the
// current mesh around the vertical axis and overlays generation stats.
type viewer struct {
	generator *vegetation.Generator
	species   *config.SpeciesFile

	names        []string
	speciesIndex int
	mode         int
	tierIndex    int

	// One reference per distinct config, held for the viewer's lifetime.
	meshes map[string]*mesh.Mesh

	angle float32
	zoom  float32

	lastErr string
}

func main() {
	ensureRuntimeCWD()

	species := config.MustLoadSpeciesFile("assets/species.yaml")

	names := make([]string, 0, len(species.Species))
	for name := range species.Species {
		names = append(names, name)
	}
	sort.Strings(names)

	v := &viewer{
		generator: vegetation.NewGenerator(),
		species:   species,
		names:     names,
		meshes:    make(map[string]*mesh.Mesh),
		tierIndex: 2, // medium
		zoom:      1.0,
	}

	ebiten.SetWindowSize(windowWidth, windowHeight)
	ebiten.SetWindowTitle("Verdant Vegetation Viewer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(v); err != nil {
		log.Fatal(err)
	}
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		v.generator.Stop()
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) || inpututil.IsKeyJustPressed(ebiten.KeyG) {
		if v.mode == modeTrees {
			v.mode = modeGrass
		} else {
			v.mode = modeTrees
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyRight) || inpututil.IsKeyJustPressed(ebiten.KeyD) {
		if v.mode == modeTrees && len(v.names) > 0 {
			v.speciesIndex = (v.speciesIndex + 1) % len(v.names)
		} else {
			v.tierIndex = (v.tierIndex + 1) % len(grassTiers)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyLeft) || inpututil.IsKeyJustPressed(ebiten.KeyA) {
		if v.mode == modeTrees && len(v.names) > 0 {
			v.speciesIndex--
			if v.speciesIndex < 0 {
				v.speciesIndex = len(v.names) - 1
			}
		} else {
			v.tierIndex--
			if v.tierIndex < 0 {
				v.tierIndex = len(grassTiers) - 1
			}
		}
	}

	_, wheelY := ebiten.Wheel()
	if wheelY != 0 {
		v.zoom *= float32(math.Pow(1.1, wheelY))
		if v.zoom < 0.2 {
			v.zoom = 0.2
		}
		if v.zoom > 8 {
			v.zoom = 8
		}
	}

	v.angle += 0.01
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{15, 15, 22, 255})

	switch v.mode {
	case modeTrees:
		v.drawTree(screen)
	case modeGrass:
		v.drawGrass(screen)
	}

	v.drawHUD(screen)
}

func (v *viewer) Layout(_, _ int) (int, int) {
	return windowWidth, windowHeight
}

func (v *viewer) currentTreeConfig() (config.VegetationConfig, bool) {
	if len(v.names) == 0 {
		return config.VegetationConfig{}, false
	}
	cfg, err := v.species.Get(v.names[v.speciesIndex])
	if err != nil {
		v.lastErr = err.Error()
		return config.VegetationConfig{}, false
	}
	return cfg, true
}

func (v *viewer) currentGrassConfig() config.GrassConfig {
	cfg := v.species.Grass
	cfg.Density = grassTiers[v.tierIndex]
	return cfg
}

// treeMesh fetches the species mesh, taking a cache reference only on
// the first request for each config.
func (v *viewer) treeMesh(cfg config.VegetationConfig) (*mesh.Mesh, error) {
	if m, ok := v.meshes[cfg.CacheKey()]; ok {
		return m, nil
	}
	m, err := v.generator.TreeMesh(cfg)
	if err != nil {
		return nil, err
	}
	v.meshes[cfg.CacheKey()] = m
	return m, nil
}

func (v *viewer) grassMesh(cfg config.GrassConfig) (*mesh.Mesh, error) {
	if m, ok := v.meshes[cfg.CacheKey()]; ok {
		return m, nil
	}
	m, err := v.generator.GrassMesh(cfg)
	if err != nil {
		return nil, err
	}
	v.meshes[cfg.CacheKey()] = m
	return m, nil
}

func (v *viewer) drawTree(screen *ebiten.Image) {
	cfg, ok := v.currentTreeConfig()
	if !ok {
		return
	}

	m, err := v.treeMesh(cfg)
	if err != nil {
		v.lastErr = err.Error()
		return
	}
	v.lastErr = ""

	// Frame the whole tree: pivot halfway up, camera pulled back past
	// the canopy.
	pivot := mgl32.Vec3{0, cfg.Height * 0.5, 0}
	dist := cfg.Height * 1.6

	drawWireframe(screen, m, v.angle, pivot, dist/v.zoom, color.RGBA{120, 200, 120, 255})

	for _, cluster := range v.generator.Foliage(cfg) {
		for _, blob := range cluster.Blobs {
			sx, sy, vis := project(blob.Position, v.angle, pivot, dist/v.zoom)
			if !vis {
				continue
			}
			r := blob.Radius * float32(windowHeight) / (dist / v.zoom)
			vector.StrokeCircle(screen, sx, sy, r, 1, color.RGBA{70, 160, 70, 180}, true)
		}
	}
}

func (v *viewer) drawGrass(screen *ebiten.Image) {
	cfg := v.currentGrassConfig()

	m, err := v.grassMesh(cfg)
	if err != nil {
		v.lastErr = err.Error()
		return
	}
	v.lastErr = ""

	pivot := mgl32.Vec3{0, cfg.BladeHeight * 0.5, 0}
	dist := cfg.TileExtent * 3

	drawWireframe(screen, m, v.angle, pivot, dist/v.zoom, color.RGBA{140, 220, 100, 255})
}

// project maps a world point to screen coordinates: rotate around the
// pivot's vertical axis, then apply a simple pinhole perspective with
// the camera on the -Z side at the given distance.
func project(p mgl32.Vec3, angle float32, pivot mgl32.Vec3, dist float32) (float32, float32, bool) {
	rel := p.Sub(pivot)
	rot := mgl32.Rotate3DY(angle).Mul3x1(rel)

	z := rot.Z() + dist
	if z <= 0.05 {
		return 0, 0, false
	}

	focal := float32(windowHeight) * 0.9
	sx := float32(windowWidth)/2 + rot.X()/z*focal
	sy := float32(windowHeight)/2 - rot.Y()/z*focal
	return sx, sy, true
}

func drawWireframe(screen *ebiten.Image, m *mesh.Mesh, angle float32, pivot mgl32.Vec3, dist float32, clr color.RGBA) {
	for i := 0; i+2 < len(m.Indices); i += 3 {
		a := m.Positions[m.Indices[i]]
		b := m.Positions[m.Indices[i+1]]
		c := m.Positions[m.Indices[i+2]]

		ax, ay, av := project(mgl32.Vec3(a), angle, pivot, dist)
		bx, by, bv := project(mgl32.Vec3(b), angle, pivot, dist)
		cx, cy, cv := project(mgl32.Vec3(c), angle, pivot, dist)

		if av && bv {
			vector.StrokeLine(screen, ax, ay, bx, by, 1, clr, false)
		}
		if bv && cv {
			vector.StrokeLine(screen, bx, by, cx, cy, 1, clr, false)
		}
		if cv && av {
			vector.StrokeLine(screen, cx, cy, ax, ay, 1, clr, false)
		}
	}
}

func (v *viewer) drawHUD(screen *ebiten.Image) {
	face := basicfont.Face7x13

	var title string
	if v.mode == modeTrees && len(v.names) > 0 {
		title = fmt.Sprintf("Species: %s", v.names[v.speciesIndex])
	} else {
		title = fmt.Sprintf("Grass: %s", grassTiers[v.tierIndex].Name())
	}
	ebitext.Draw(screen, title, face, 16, 16+face.Ascent, color.RGBA{230, 230, 230, 255})

	row := 44
	lines := v.hudLines()
	for _, line := range lines {
		ebitenutil.DebugPrintAt(screen, line, 16, row)
		row += 16
	}

	if v.lastErr != "" {
		ebitenutil.DebugPrintAt(screen, "error: "+v.lastErr, 16, windowHeight-24)
	}
}

func (v *viewer) hudLines() []string {
	lines := []string{
		"Left/Right (or A/D) to cycle, Tab for trees/grass, wheel to zoom, Esc to quit",
	}

	var m *mesh.Mesh
	if v.mode == modeTrees {
		if cfg, ok := v.currentTreeConfig(); ok {
			m = v.meshes[cfg.CacheKey()]
			clusters := v.generator.Foliage(cfg)
			blobs := 0
			for _, c := range clusters {
				blobs += len(c.Blobs)
			}
			lines = append(lines, fmt.Sprintf("Foliage: %d clusters, %d blobs", len(clusters), blobs))
		}
	} else {
		m = v.meshes[v.currentGrassConfig().CacheKey()]
	}

	if m != nil {
		lines = append(lines, fmt.Sprintf("Mesh: %d vertices, %d triangles", m.VertexCount(), m.TriangleCount()))
	}

	s := v.generator.Stats()
	lines = append(lines,
		fmt.Sprintf("Generated: %d trees, %d patches (avg %.2fms)",
			s.TreesGenerated, s.PatchesGenerated, float64(s.AvgGenTime.Microseconds())/1000),
		fmt.Sprintf("Cache: %d resident, %.0f%% hit rate, peak mem %dMB",
			v.generator.CachedMeshes(), s.HitRate()*100, s.PeakMemoryMB),
	)
	return lines
}

func ensureRuntimeCWD() {
	if _, err := os.Stat("assets/species.yaml"); err == nil {
		return
	}
	exe, err := os.Executable()
	if err != nil {
		return
	}
	execDir := filepath.Dir(exe)
	_ = os.Chdir(execDir)
}
