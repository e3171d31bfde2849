package cadengine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSupportedExt(t *testing.T) {
	for ext, want := range map[string]bool{
		".step": true,
		".STP":  true,
		".iges": true,
		".igs":  true,
		".pdf":  false,
		".stl":  false,
		"":      false,
	} {
		if got := SupportedExt(ext); got != want {
			t.Errorf("SupportedExt(%q) = %v, want %v", ext, got, want)
		}
	}
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("path = %s, want /health", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"healthy","opencascade":"7.7.0","capabilities":["step_to_stl"]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, 0, 0)
	status, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	if status.Status != "healthy" || status.OpenCascade != "7.7.0" {
		t.Errorf("status = %+v", status)
	}
}

func TestConvertToSTL(t *testing.T) {
	stl := []byte("solid fake\nendsolid fake\n")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/convert/step-to-stl" {
			t.Errorf("path = %s, want /convert/step-to-stl", r.URL.Path)
		}
		if got := r.URL.Query().Get("linear_deflection"); got != "0.2" {
			t.Errorf("linear_deflection = %s, want 0.2", got)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		defer file.Close()
		if header.Filename != "part.step" {
			t.Errorf("filename = %s, want part.step", header.Filename)
		}
		w.Write(stl)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second, 0.2, 0.5)
	got, err := client.ConvertToSTL(context.Background(), "part.step", strings.NewReader("ISO-10303-21;"))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if string(got) != string(stl) {
		t.Errorf("stl content mismatch: %q", got)
	}
}

func TestConvertToSTLErrorClassification(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"explicit code", `{"detail":"bad geometry","code":"MESHING"}`, ErrCodeMeshing},
		{"step keyword", `{"detail":"failed to read STEP file"}`, ErrCodeStepRead},
		{"mesh keyword", `{"detail":"meshing produced no triangles"}`, ErrCodeMeshing},
		{"fallback", `{"detail":"disk full"}`, ErrCodeStlWrite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnprocessableEntity)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client := NewClient(srv.URL, 5*time.Second, 0, 0)
			_, err := client.ConvertToSTL(context.Background(), "part.step", strings.NewReader("x"))
			var convErr *ConversionError
			if !errors.As(err, &convErr) {
				t.Fatalf("expected ConversionError, got %v", err)
			}
			if convErr.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", convErr.Code, tt.wantCode)
			}
		})
	}
}
