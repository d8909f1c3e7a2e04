package main

import (
	"Flexura/internal/engine"

	"github.com/spf13/cobra"
)

// bindBeam registers the beam flags shared by check and plot.
func bindBeam(cmd *cobra.Command, b *engine.BeamSpec) {
	fs := cmd.Flags()
	*b = engine.DefaultBeamSpec()
	fs.Float64VarP(&b.LengthM, "length", "L", 0, "Span (m) [required]")
	fs.Float64VarP(&b.WKNm, "load", "w", 0, "Uniform downward load (kN/m) [required]")
	fs.Float64Var(&b.EGPa, "E", b.EGPa, "Young's modulus (GPa)")
	fs.Float64Var(&b.IM4, "I", b.IM4, "Second moment of area (m^4)")
	fs.Float64Var(&b.AM2, "A", b.AM2, "Cross-section area (m^2)")
	fs.Float64VarP(&b.LimitRatio, "ratio", "r", b.LimitRatio, "Deflection limit as L/ratio")
}
