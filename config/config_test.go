package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.World.Width != 3000 || cfg.World.Height != 3000 {
		t.Errorf("world = %vx%v, want 3000x3000", cfg.World.Width, cfg.World.Height)
	}
	if cfg.Physics.GridCellSize != 300 {
		t.Errorf("grid cell = %v, want 300", cfg.Physics.GridCellSize)
	}
	if cfg.Mating.K != 1.25e-4 {
		t.Errorf("mating k = %v, want 1.25e-4", cfg.Mating.K)
	}
	if got := cfg.Derived.GestationMs; got != 6300 {
		t.Errorf("gestation = %v, want 6300", got)
	}
	if math.Abs(float64(cfg.Derived.DTSec)-0.016666) > 1e-6 {
		t.Errorf("dt sec = %v", cfg.Derived.DTSec)
	}
}

func TestMaxSatiety(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tests := []struct {
		con  float32
		want float32
	}{
		{1, 82},
		{10, 100},
		{20, 120},
	}
	for _, tt := range tests {
		if got := cfg.MaxSatiety(tt.con); got != tt.want {
			t.Errorf("MaxSatiety(%v) = %v, want %v", tt.con, got, tt.want)
		}
	}
}

func TestLoadOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "override.yaml")
	data := []byte("world:\n  width: 800\npopulation:\n  initial: 4\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.World.Width != 800 {
		t.Errorf("width = %v, want 800", cfg.World.Width)
	}
	// Untouched keys keep their defaults
	if cfg.World.Height != 3000 {
		t.Errorf("height = %v, want 3000", cfg.World.Height)
	}
	if cfg.Population.Initial != 4 {
		t.Errorf("initial = %d, want 4", cfg.Population.Initial)
	}
	if cfg.Derived.WorldW32 != 800 {
		t.Errorf("derived width = %v, want 800", cfg.Derived.WorldW32)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("physics:\n  dt_ms: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	broken := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(broken, []byte("world: [\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "nope.yaml")},
		{"invalid value", bad},
		{"malformed yaml", broken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Population.Initial = 7

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written file: %v", err)
	}
	if back.Population.Initial != 7 {
		t.Errorf("initial = %d, want 7", back.Population.Initial)
	}
}
