package mapgen

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/unixpickle/model3d/model2d"
	"golang.org/x/image/colornames"
)

// ColourScheme defines how the water layout is coloured when rendered.
type ColourScheme struct {
	Land      color.Color
	Sea       color.Color
	River     color.Color
	Coastline color.Color
	Beach     color.Color
	Peaks     color.Color
	Valleys   color.Color
	Banks     color.Color
}

// DefaultScheme returns a reasonable default ColourScheme.
func DefaultScheme() *ColourScheme {
	return &ColourScheme{
		Land:      colornames.Darkseagreen,
		Sea:       colornames.Steelblue,
		River:     colornames.Cornflowerblue,
		Coastline: colornames.Navy,
		Beach:     colornames.Wheat,
		Peaks:     colornames.Saddlebrown,
		Valleys:   colornames.Darkolivegreen,
		Banks:     colornames.Peru,
	}
}

// Image renders the generated map into an image, one pixel per cellSize
// world units.
func (m *MapGen) Image(scheme *ColourScheme, cellSize float64) image.Image {
	if scheme == nil {
		scheme = DefaultScheme()
	}

	width := int(m.world.Width()/cellSize) + 1
	height := int(m.world.Height()/cellSize) + 1

	ctx := gg.NewContext(width, height)
	ctx.Scale(1/cellSize, 1/cellSize)
	ctx.SetFillRuleEvenOdd()

	ctx.SetColor(scheme.Land)
	drawRing(ctx, m.world.Ring())
	ctx.Fill()

	ctx.SetColor(scheme.Sea)
	for _, ring := range m.water.SeaRings() {
		drawRing(ctx, ring)
	}
	ctx.Fill()

	// islands & landmasses sit on top of the sea
	ctx.SetColor(scheme.Land)
	for _, isl := range m.water.Islands() {
		drawRing(ctx, isl.Coastline)
	}
	for _, lm := range m.water.Landmasses() {
		drawRing(ctx, lm.Outline)
	}
	ctx.Fill()

	ctx.SetColor(scheme.River)
	for _, ring := range m.water.RiverRings() {
		drawRing(ctx, ring)
	}
	ctx.Fill()

	lineWidth := cellSize * 2
	ctx.SetLineWidth(lineWidth)

	ctx.SetColor(scheme.Beach)
	for _, isl := range m.water.Islands() {
		for _, band := range isl.BeachBands {
			strokePath(ctx, band)
		}
	}

	ctx.SetColor(scheme.Coastline)
	strokePath(ctx, m.Coastline)
	for _, isl := range m.water.Islands() {
		strokePath(ctx, isl.Coastline)
	}

	ctx.SetColor(scheme.Banks)
	for _, bank := range m.Banks {
		strokePath(ctx, bank)
	}

	// point features as small dots
	ctx.SetColor(scheme.Peaks)
	for _, isl := range m.water.Islands() {
		drawDots(ctx, isl.Peaks, lineWidth*2)
	}
	ctx.SetColor(scheme.Valleys)
	for _, isl := range m.water.Islands() {
		for _, cluster := range isl.Valleys {
			drawDots(ctx, cluster, lineWidth)
		}
	}

	return ctx.Image()
}

// SavePNG renders with the given scheme & writes a png to the path.
func (m *MapGen) SavePNG(fpath string, scheme *ColourScheme, cellSize float64) error {
	return gg.SavePNG(fpath, m.Image(scheme, cellSize))
}

func drawRing(ctx *gg.Context, ring []model2d.Coord) {
	if len(ring) < 3 {
		return
	}
	ctx.MoveTo(ring[0].X, ring[0].Y)
	for _, p := range ring[1:] {
		ctx.LineTo(p.X, p.Y)
	}
	ctx.ClosePath()
}

func strokePath(ctx *gg.Context, path []model2d.Coord) {
	if len(path) < 2 {
		return
	}
	ctx.MoveTo(path[0].X, path[0].Y)
	for _, p := range path[1:] {
		ctx.LineTo(p.X, p.Y)
	}
	ctx.Stroke()
}

func drawDots(ctx *gg.Context, pts []model2d.Coord, r float64) {
	for _, p := range pts {
		ctx.DrawCircle(p.X, p.Y, r)
	}
	ctx.Fill()
}
