package config

import (
	"os"
	"path/filepath"
	"testing"
)

type fakeFS struct {
	files map[string]bool
}

func (f *fakeFS) Exists(path string) bool { return f.files[path] }
func (f *fakeFS) LoadEnv(path string) error {
	return nil
}

func TestServiceConfigApplyDefaults(t *testing.T) {
	t.Run("empty environment defaults to development", func(t *testing.T) {
		cfg := ServiceConfig{Name: "diarkit"}
		cfg.ApplyDefaults()
		if cfg.Environment != "development" {
			t.Errorf("expected 'development', got %q", cfg.Environment)
		}
		if !cfg.Debug {
			t.Error("expected debug=true for development")
		}
	})

	t.Run("production environment keeps debug false", func(t *testing.T) {
		cfg := ServiceConfig{Name: "diarkit", Environment: "production"}
		cfg.ApplyDefaults()
		if cfg.Debug {
			t.Error("expected debug=false for production")
		}
	})
}

func TestServiceConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ServiceConfig
		wantErr bool
	}{
		{"valid", ServiceConfig{Name: "diarkit", Environment: "production"}, false},
		{"missing name", ServiceConfig{Environment: "production"}, true},
		{"bad environment", ServiceConfig{Name: "diarkit", Environment: "qa"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.Logging.ApplyDefaults()
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	body := []byte("name: diarkit\nenvironment: production\nlogging:\n  level: debug\n")
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatal(err)
	}

	var cfg ServiceConfig
	if err := LoadConfig("diarkit", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Name != "diarkit" {
		t.Errorf("expected name diarkit, got %q", cfg.Name)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected logging.level debug, got %q", cfg.Logging.Level)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("LOGGING_LEVEL", "warn")

	var cfg ServiceConfig
	if err := LoadConfig("diarkit", &cfg, WithFileSystem(&fakeFS{files: map[string]bool{}})); err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("expected env override logging.level=warn, got %q", cfg.Logging.Level)
	}
}

func TestEnvKeyVariants(t *testing.T) {
	variants := envKeyVariants("STT_API_KEY")
	want := map[string]bool{
		"stt_api_key": true,
		"stt.api.key": true,
		"stt.api_key": true,
	}
	for w := range want {
		found := false
		for _, v := range variants {
			if v == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected variant %q in %v", w, variants)
		}
	}
}
