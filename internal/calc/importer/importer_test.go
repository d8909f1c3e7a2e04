package importer

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"Flexura/internal/calc/beam"
	"Flexura/internal/engine"

	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf
}

func TestParse(t *testing.T) {
	buf := workbook(t, [][]any{
		{"L_m", "w_kN_m", "E_GPa", "I_m4", "A_m2", "limit_L_over"},
		{6, 10, 210, 8e-4, 0.02, 300},
		{"", ""},
		{10, 10, "", 8e-5, "", 250},
	})
	sheet, err := Parse(buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(sheet.Beams) != 2 {
		t.Fatalf("expected 2 beams, got %d", len(sheet.Beams))
	}
	if sheet.Rows[0] != 2 || sheet.Rows[1] != 4 {
		t.Fatalf("expected rows 2 and 4, got %v", sheet.Rows)
	}
	want := engine.BeamSpec{LengthM: 10, WKNm: 10, EGPa: 210, IM4: 8e-5, AM2: 0.02, LimitRatio: 250}
	if sheet.Beams[1] != want {
		t.Fatalf("blank cells must take defaults: expected %+v, got %+v", want, sheet.Beams[1])
	}
}

func TestParseColumnOrder(t *testing.T) {
	buf := workbook(t, [][]any{
		{"w_kN_m", "L_m"},
		{12, 5},
	})
	sheet, err := Parse(buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if b := sheet.Beams[0]; b.LengthM != 5 || b.WKNm != 12 || b.EGPa != engine.DefaultEGPa {
		t.Fatalf("unexpected beam %+v", b)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		rows [][]any
		want error
		row  int
	}{
		{"missing column", [][]any{{"L_m"}, {6}}, beam.ErrInvalidInput, 1},
		{"bad number", [][]any{{"L_m", "w_kN_m"}, {6, 10}, {"six", 10}}, beam.ErrInvalidInput, 3},
		{"blank required", [][]any{{"L_m", "w_kN_m"}, {6, ""}}, beam.ErrInvalidInput, 2},
		{"no data", [][]any{{"L_m", "w_kN_m"}}, engine.ErrEmptyBatch, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(workbook(t, tt.rows))
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var re *RowError
			if tt.row == 0 {
				if errors.As(err, &re) {
					t.Fatalf("expected no row, got %v", err)
				}
				return
			}
			if !errors.As(err, &re) || re.Row != tt.row {
				t.Fatalf("expected row %d, got %v", tt.row, err)
			}
		})
	}
}

func TestParseNotWorkbook(t *testing.T) {
	if _, err := Parse(bytes.NewReader([]byte("L_m,w_kN_m\n6,10\n"))); !errors.Is(err, beam.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func upload(t *testing.T, h *Handler, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "beams.xlsx")
	if err != nil {
		t.Fatalf("form file: %v", err)
	}
	part.Write(content)
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.Beam(rec, req)
	return rec
}

func TestBeamHandler(t *testing.T) {
	h := &Handler{Workers: 2, MaxUploadBytes: 1 << 20}
	buf := workbook(t, [][]any{
		{"L_m", "w_kN_m", "I_m4"},
		{6, 10, 8e-4},
		{10, 10, 8e-5},
	})
	rec := upload(t, h, buf.Bytes())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var out ImportOutput
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Summary.N != 2 || out.Summary.OK != 1 || out.Summary.KO != 1 || len(out.Rows) != 2 {
		t.Fatalf("unexpected output %+v", out)
	}
}

func TestBeamHandlerReportsRow(t *testing.T) {
	h := &Handler{Workers: 1}
	buf := workbook(t, [][]any{
		{"L_m", "w_kN_m"},
		{6, 10},
		{"", ""},
		{-2, 10},
	})
	rec := upload(t, h, buf.Bytes())
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body struct {
		Error string `json:"error"`
		Field string `json:"field"`
		Index *int   `json:"index"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Field != "L" || body.Index == nil || *body.Index != 1 {
		t.Fatalf("unexpected error body %+v", body)
	}
	if want := "row 4: "; len(body.Error) < len(want) || body.Error[:len(want)] != want {
		t.Fatalf("expected message to start with %q, got %q", want, body.Error)
	}
}

func TestBeamHandlerRequiresFile(t *testing.T) {
	rec := httptest.NewRecorder()
	(&Handler{}).Beam(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
