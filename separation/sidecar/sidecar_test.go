package sidecar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/skillsenselab/diarkit/errors"
	"github.com/skillsenselab/diarkit/separation"
)

func tempRequest(t *testing.T) separation.Request {
	t.Helper()
	dir := t.TempDir()
	in := filepath.Join(dir, "mono.wav")
	if err := os.WriteFile(in, []byte("RIFFmono"), 0o644); err != nil {
		t.Fatal(err)
	}
	return separation.Request{InputPath: in, OutputPath: filepath.Join(dir, "stereo.wav")}
}

func TestSeparateWritesOutput(t *testing.T) {
	stereoBytes := []byte("RIFFstereo")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/separate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		w.Header().Set("Content-Type", "audio/wav")
		_, _ = w.Write(stereoBytes)
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL})
	req := tempRequest(t)
	if err := p.Separate(context.Background(), req); err != nil {
		t.Fatalf("Separate() error = %v", err)
	}

	got, err := os.ReadFile(req.OutputPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(stereoBytes) {
		t.Errorf("output = %q, want %q", got, stereoBytes)
	}
}

func TestSeparateSidecarError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL})
	err := p.Separate(context.Background(), tempRequest(t))
	if !errors.HasCode(err, errors.ErrCodeSeparationFailed) {
		t.Errorf("expected SEPARATION_FAILED, got %v", err)
	}
}

func TestSeparateMissingInput(t *testing.T) {
	p := NewProvider(Config{})
	err := p.Separate(context.Background(), separation.Request{
		InputPath:  "/nonexistent/mono.wav",
		OutputPath: filepath.Join(t.TempDir(), "out.wav"),
	})
	if !errors.HasCode(err, errors.ErrCodeAudioUnreadable) {
		t.Errorf("expected AUDIO_UNREADABLE, got %v", err)
	}
}
