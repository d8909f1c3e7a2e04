package chart

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"Flexura/internal/engine"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	spec := engine.DefaultBeamSpec()
	spec.LengthM = 6
	spec.WKNm = 10
	if err := Render(&buf, spec, 40); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Fatalf("output is not a PNG")
	}
}

func TestRenderInvalidBeam(t *testing.T) {
	var buf bytes.Buffer
	err := Render(&buf, engine.BeamSpec{LengthM: 6, WKNm: 10}, 40)
	if !errors.Is(err, engine.ErrInvalidMaterial) {
		t.Fatalf("expected ErrInvalidMaterial, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("nothing must be written on failure")
	}
}

func TestChartHandler(t *testing.T) {
	h := &Handler{Stations: 20}

	rec := httptest.NewRecorder()
	h.Chart(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"beam":{"L_m":5,"w_kN_m":8}}`)))
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("expected PNG, got %d %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), pngMagic) {
		t.Fatalf("body is not a PNG")
	}

	for _, body := range []string{
		`{"beam":{"L_m":-5,"w_kN_m":8}}`,
		`{"beam":{"L_m":5,"w_kN_m":8},"stations":1}`,
	} {
		rec = httptest.NewRecorder()
		h.Chart(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, rec.Code)
		}
	}
}
