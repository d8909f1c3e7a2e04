package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"Flexura/internal/calc/beam"
	"Flexura/internal/calc/importer"
	"Flexura/internal/calc/report"
	"Flexura/internal/engine"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	batchWorkers int
	batchJSON    bool
	batchPDF     string
	batchProject string
)

var batchCmd = &cobra.Command{
	Use:   "batch FILE",
	Short: "Check every beam listed in an xlsx or YAML file",
	Long: `Check a batch of beams. The file is either an xlsx workbook whose first
row names the columns (L_m, w_kN_m, E_GPa, I_m4, A_m2, limit_L_over) or a
YAML document with a "beams" list using the same keys.

Examples:
  flexura batch beams.xlsx
  flexura batch beams.yaml --pdf report.pdf --project "Warehouse"`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().IntVarP(&batchWorkers, "workers", "j", 0, "Parallel workers (0 = one per CPU)")
	batchCmd.Flags().BoolVar(&batchJSON, "json", false, "Print results and summary as JSON")
	batchCmd.Flags().StringVar(&batchPDF, "pdf", "", "Also write a PDF report to this path")
	batchCmd.Flags().StringVar(&batchProject, "project", "", "Project name for the PDF report")
}

func runBatch(cmd *cobra.Command, args []string) error {
	specs, locate, err := loadBatch(args[0])
	if err != nil {
		return err
	}
	out, err := beam.Calculate(cmd.Context(), beam.CheckInput{Beams: specs}, batchWorkers, 0)
	if err != nil {
		return locate(err)
	}

	if batchPDF != "" {
		if err := writePDF(batchPDF, out); err != nil {
			return err
		}
	}
	if batchJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	printBatch(os.Stdout, out)
	return nil
}

// loadBatch reads beams from path. The returned function rewrites batch
// errors so they point into the file.
func loadBatch(path string) ([]engine.BeamSpec, func(error) error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		sheet, err := importer.Parse(f)
		if err != nil {
			return nil, nil, err
		}
		return sheet.Beams, sheet.Locate, nil
	case ".yaml", ".yml":
		specs, err := decodeYAML(f)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", path, err)
		}
		return specs, func(err error) error { return err }, nil
	default:
		return nil, nil, fmt.Errorf("%s: unsupported file type, want .xlsx or .yaml", path)
	}
}

func decodeYAML(r io.Reader) ([]engine.BeamSpec, error) {
	var doc struct {
		Beams []engine.BeamSpec `yaml:"beams"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, engine.ErrEmptyBatch
		}
		return nil, err
	}
	return doc.Beams, nil
}

func writePDF(path string, out beam.CheckOutput) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.Write(f, report.Meta{Project: batchProject}, out, time.Now()); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}

func printBatch(out io.Writer, res beam.CheckOutput) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "#\tL (m)\tw (kN/m)\tMmax (kNm)\tdelta (mm)\tlimit (mm)\tcheck\t")
	for i, r := range res.Results {
		fmt.Fprintf(w, "%d\t%.3f\t%.2f\t%.2f\t%.3f\t%.3f\t%s\t\n",
			i+1, r.LengthM, r.WKNm, r.MmaxKNm, r.DeltaMaxMM, r.LimitMM, verdict(r.OK))
	}
	w.Flush()
	s := res.Summary
	fmt.Fprintf(out, "\n%d beams: %d OK, %d FAIL, mean peak deflection %.3f mm\n", s.N, s.OK, s.KO, s.MeanDeltaMM)
}
