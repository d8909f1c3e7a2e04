package chart

import (
	"fmt"
	"image/color"
	"io"

	"Flexura/internal/engine"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	width  = 16 * vg.Centimeter
	height = 21 * vg.Centimeter
)

var (
	shearColor  = color.RGBA{R: 0, G: 0, B: 139, A: 255}
	momentColor = color.RGBA{R: 178, G: 34, B: 34, A: 255}
	deflColor   = color.RGBA{R: 34, G: 139, B: 34, A: 255}
)

type diagram struct {
	title string
	label string
	color color.RGBA
	value func(engine.Point) float64
}

var diagrams = []diagram{
	{"Shear force", "V (kN)", shearColor, func(p engine.Point) float64 { return p.ShearKN }},
	{"Bending moment", "M (kNm)", momentColor, func(p engine.Point) float64 { return p.MomentKNm }},
	// Deflection is reported downward-positive; plot it below the axis.
	{"Deflection", "δ (mm, down)", deflColor, func(p engine.Point) float64 { return -p.DeflectionMM }},
}

// Render draws the shear, moment and deflection diagrams of b, sampled at
// stations intervals, as one PNG written to w.
func Render(w io.Writer, b engine.BeamSpec, stations int) error {
	pts, err := engine.Stations(b, stations)
	if err != nil {
		return err
	}

	plots := make([][]*plot.Plot, len(diagrams))
	for i, d := range diagrams {
		p, err := diagramPlot(d, pts)
		if err != nil {
			return fmt.Errorf("%s: %w", d.title, err)
		}
		plots[i] = []*plot.Plot{p}
	}

	img := vgimg.New(width, height)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: len(diagrams),
		Cols: 1,
		PadX: vg.Millimeter,
		PadY: 4 * vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

func diagramPlot(d diagram, pts []engine.Point) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = d.title
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = d.label
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		xys[i] = plotter.XY{X: pt.X, Y: d.value(pt)}
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = d.color
	fill := d.color
	fill.A = 60
	line.FillColor = fill
	p.Add(line)

	axis, err := plotter.NewLine(plotter.XYs{
		{X: pts[0].X, Y: 0},
		{X: pts[len(pts)-1].X, Y: 0},
	})
	if err != nil {
		return nil, err
	}
	axis.LineStyle.Color = color.Black
	p.Add(axis)
	return p, nil
}
