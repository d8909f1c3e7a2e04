package main

import (
	"fmt"
	"io"
	"os"

	"Flexura/internal/calc/chart"
	"Flexura/internal/engine"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

var (
	plotBeam     engine.BeamSpec
	plotDiagram  string
	plotStations int
	plotHeight   int
	plotPNG      string
)

var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Draw the shear, moment or deflection diagram of one beam",
	Long: `Sample one beam at evenly spaced stations and draw a diagram in the
terminal. With --png the three diagrams are also rendered to an image.

Examples:
  flexura plot -L 6 -w 10 --diagram moment
  flexura plot -L 6 -w 10 --png beam.png`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if plotPNG != "" {
			if err := writePNG(plotPNG); err != nil {
				return err
			}
		}
		return plotASCII(os.Stdout, plotBeam, plotDiagram, plotStations, plotHeight)
	},
}

func init() {
	rootCmd.AddCommand(plotCmd)
	bindBeam(plotCmd, &plotBeam)
	plotCmd.Flags().StringVarP(&plotDiagram, "diagram", "d", "deflection", "Diagram: shear, moment or deflection")
	plotCmd.Flags().IntVarP(&plotStations, "stations", "n", 60, "Number of sampling intervals")
	plotCmd.Flags().IntVar(&plotHeight, "height", 12, "Plot height in rows")
	plotCmd.Flags().StringVar(&plotPNG, "png", "", "Also write all three diagrams to this PNG file")
	plotCmd.MarkFlagRequired("length")
	plotCmd.MarkFlagRequired("load")
}

func plotASCII(out io.Writer, b engine.BeamSpec, diagram string, stations, height int) error {
	var (
		value   func(engine.Point) float64
		caption string
	)
	switch diagram {
	case "shear", "V":
		value = func(p engine.Point) float64 { return p.ShearKN }
		caption = "Shear force V (kN)"
	case "moment", "M":
		value = func(p engine.Point) float64 { return p.MomentKNm }
		caption = "Bending moment M (kNm)"
	case "deflection", "delta":
		value = func(p engine.Point) float64 { return -p.DeflectionMM }
		caption = "Deflection (mm, downward)"
	default:
		return fmt.Errorf("unknown diagram %q, want shear, moment or deflection", diagram)
	}

	pts, err := engine.Stations(b, stations)
	if err != nil {
		return err
	}
	series := make([]float64, len(pts))
	for i, p := range pts {
		series[i] = value(p)
	}
	graph := asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.Precision(2),
		asciigraph.Caption(fmt.Sprintf("%s over %.2f m", caption, b.LengthM)),
	)
	fmt.Fprintln(out, graph)
	return nil
}

func writePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := chart.Render(f, plotBeam, plotStations); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	return f.Close()
}
