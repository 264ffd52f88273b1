package web

import (
	"net/http/httptest"
	"testing"
)

func TestQueryInt_Absent(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/stats/weekly", nil)
	v, ok := queryInt(r, "tz_offset", 0)
	if !ok {
		t.Fatal("expected ok for absent parameter")
	}
	if v != 0 {
		t.Errorf("expected default 0, got %d", v)
	}
}

func TestQueryInt_Valid(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/stats/weekly?tz_offset=-300", nil)
	v, ok := queryInt(r, "tz_offset", 0)
	if !ok {
		t.Fatal("expected ok for valid parameter")
	}
	if v != -300 {
		t.Errorf("expected -300, got %d", v)
	}
}

func TestQueryInt_Malformed(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/stats/weekly?tz_offset=abc", nil)
	_, ok := queryInt(r, "tz_offset", 0)
	if ok {
		t.Error("expected ok=false for malformed parameter")
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	writeError(w, 400, "invalid tz_offset")

	if w.Code != 400 {
		t.Errorf("expected status 400, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %s", ct)
	}
	expected := `{"error":"invalid tz_offset"}` + "\n"
	if w.Body.String() != expected {
		t.Errorf("expected %q, got %q", expected, w.Body.String())
	}
}
