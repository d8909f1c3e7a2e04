package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"Flexura/internal/engine"

	"github.com/spf13/cobra"
)

var (
	checkBeam engine.BeamSpec
	checkJSON bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the deflection of one beam",
	Long: `Solve one simply-supported beam and compare its peak deflection
with L/ratio.

Examples:
  # 6 m span, 10 kN/m, default steel section
  flexura check -L 6 -w 10

  # Slender section with an L/250 limit
  flexura check -L 10 -w 10 --I 8e-5 -r 250`,
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := engine.Analyze(checkBeam)
		if err != nil {
			return err
		}
		if checkJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(r)
		}
		printResult(os.Stdout, r)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	bindBeam(checkCmd, &checkBeam)
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Print the result as JSON")
	checkCmd.MarkFlagRequired("length")
	checkCmd.MarkFlagRequired("load")
}

func printResult(out io.Writer, r engine.CheckResult) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Span\t%.3f m\n", r.LengthM)
	fmt.Fprintf(w, "Load\t%.3f kN/m\n", r.WKNm)
	fmt.Fprintf(w, "E / I / A\t%g GPa / %g m^4 / %g m^2\n", r.EGPa, r.IM4, r.AM2)
	fmt.Fprintf(w, "Reaction\t%.3f kN\n", r.ReactionKN)
	fmt.Fprintf(w, "Max shear\t%.3f kN\n", r.VmaxKN)
	fmt.Fprintf(w, "Max moment\t%.3f kNm\n", r.MmaxKNm)
	fmt.Fprintf(w, "Max deflection\t%.3f mm\n", r.DeltaMaxMM)
	fmt.Fprintf(w, "Limit L/%g\t%.3f mm\n", r.LimitRatio, r.LimitMM)
	fmt.Fprintf(w, "Check\t%s\n", verdict(r.OK))
	w.Flush()
}

func verdict(ok bool) string {
	if ok {
		return "OK"
	}
	return "FAIL"
}
