package report

import (
	"fmt"
	"io"
	"time"

	"Flexura/internal/calc/beam"

	"github.com/phpdave11/gofpdf"
)

type Meta struct {
	Project string `json:"project"`
	Author  string `json:"author"`
	Title   string `json:"title"`
	Notes   string `json:"notes"`
}

var columns = []struct {
	head  string
	width float64
}{
	{"#", 8},
	{"L (m)", 16},
	{"w (kN/m)", 18},
	{"E (GPa)", 17},
	{"I (m4)", 20},
	{"Mmax (kNm)", 22},
	{"Vmax (kN)", 20},
	{"delta (mm)", 20},
	{"limit (mm)", 20},
	{"check", 14},
}

// Write renders a PDF report of a checked batch to w.
func Write(w io.Writer, meta Meta, out beam.CheckOutput, date time.Time) error {
	if meta.Title == "" {
		meta.Title = "Beam Deflection Report"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(meta.Title, false)
	pdf.SetAuthor(meta.Author, false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, meta.Title)
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Project: %s", meta.Project))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Author: %s", meta.Author))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", date.Format("2006-01-02")))
	pdf.Ln(10)
	if meta.Notes != "" {
		pdf.MultiCell(0, 6, meta.Notes, "", "L", false)
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range columns {
		pdf.CellFormat(c.width, 7, c.head, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for i, r := range out.Results {
		cells := []string{
			fmt.Sprintf("%d", i+1),
			fmt.Sprintf("%.3f", r.LengthM),
			fmt.Sprintf("%.2f", r.WKNm),
			fmt.Sprintf("%.1f", r.EGPa),
			fmt.Sprintf("%.3e", r.IM4),
			fmt.Sprintf("%.2f", r.MmaxKNm),
			fmt.Sprintf("%.2f", r.VmaxKN),
			fmt.Sprintf("%.3f", r.DeltaMaxMM),
			fmt.Sprintf("%.3f", r.LimitMM),
			verdict(r.OK),
		}
		if !r.OK {
			pdf.SetTextColor(178, 34, 34)
		}
		for j, c := range columns {
			pdf.CellFormat(c.width, 6, cells[j], "1", 0, "R", false, 0, "")
		}
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(-1)
	}

	s := out.Summary
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, "Summary")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Beams: %d   Passed: %d   Failed: %d", s.N, s.OK, s.KO))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Mean peak deflection: %.3f mm", s.MeanDeltaMM))
	pdf.Ln(6)

	return pdf.Output(w)
}

func verdict(ok bool) string {
	if ok {
		return "OK"
	}
	return "FAIL"
}
