package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"Flexura/internal/calc/beam"
	"Flexura/internal/engine"

	"github.com/xuri/excelize/v2"
)

// Columns is the header row Parse expects, in any order.
var Columns = []string{"L_m", "w_kN_m", "E_GPa", "I_m4", "A_m2", "limit_L_over"}

var required = []string{"L_m", "w_kN_m"}

// RowError reports a bad cell by its sheet row (1-based) and column name.
type RowError struct {
	Row    int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d, %s: %v", e.Row, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Sheet holds the beams read from a workbook and the sheet row of each.
type Sheet struct {
	Beams []engine.BeamSpec
	Rows  []int
}

// Locate rewrites a batch failure so that it names the sheet row.
func (s Sheet) Locate(err error) error {
	var ie *engine.ItemError
	if errors.As(err, &ie) && ie.Index >= 0 && ie.Index < len(s.Rows) {
		return &RowError{Row: s.Rows[ie.Index], Err: err}
	}
	return err
}

// Parse reads beams from the first sheet of an xlsx workbook. The first row
// names the columns; blank optional cells take the beam defaults and blank
// rows are skipped.
func Parse(r io.Reader) (Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Sheet{}, fmt.Errorf("%w: open workbook: %v", beam.ErrInvalidInput, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return Sheet{}, fmt.Errorf("%w: read sheet: %v", beam.ErrInvalidInput, err)
	}
	if len(rows) < 2 {
		return Sheet{}, fmt.Errorf("%w: sheet has no data rows", engine.ErrEmptyBatch)
	}

	index, err := headerIndex(rows[0])
	if err != nil {
		return Sheet{}, &RowError{Row: 1, Err: err}
	}

	var sheet Sheet
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		spec, err := parseRow(row, index)
		if err != nil {
			err.Row = i + 1
			return Sheet{}, err
		}
		sheet.Beams = append(sheet.Beams, spec)
		sheet.Rows = append(sheet.Rows, i+1)
	}
	if len(sheet.Beams) == 0 {
		return Sheet{}, fmt.Errorf("%w: sheet has no data rows", engine.ErrEmptyBatch)
	}
	return sheet, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int)
	for i, cell := range header {
		name := strings.TrimSpace(cell)
		for _, c := range Columns {
			if strings.EqualFold(name, c) {
				index[c] = i
			}
		}
	}
	for _, c := range required {
		if _, ok := index[c]; !ok {
			return nil, fmt.Errorf("%w: missing column %s", beam.ErrInvalidInput, c)
		}
	}
	return index, nil
}

func parseRow(row []string, index map[string]int) (engine.BeamSpec, *RowError) {
	spec := engine.DefaultBeamSpec()
	fields := map[string]*float64{
		"L_m":          &spec.LengthM,
		"w_kN_m":       &spec.WKNm,
		"E_GPa":        &spec.EGPa,
		"I_m4":         &spec.IM4,
		"A_m2":         &spec.AM2,
		"limit_L_over": &spec.LimitRatio,
	}
	for _, name := range Columns {
		col, ok := index[name]
		if !ok {
			continue
		}
		cell := ""
		if col < len(row) {
			cell = strings.TrimSpace(row[col])
		}
		if cell == "" {
			if isRequired(name) {
				return engine.BeamSpec{}, &RowError{Column: name, Err: fmt.Errorf("%w: value required", beam.ErrInvalidInput)}
			}
			continue
		}
		v, err := strconv.ParseFloat(strings.ReplaceAll(cell, ",", "."), 64)
		if err != nil {
			var ne *strconv.NumError
			if errors.As(err, &ne) {
				err = ne.Err
			}
			return engine.BeamSpec{}, &RowError{Column: name, Err: fmt.Errorf("%w: %q: %v", beam.ErrInvalidInput, cell, err)}
		}
		*fields[name] = v
	}
	return spec, nil
}

func isRequired(name string) bool {
	for _, r := range required {
		if r == name {
			return true
		}
	}
	return false
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
