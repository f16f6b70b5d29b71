package config

import (
	"testing"
)

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("solar")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if len(cfg.Bodies) != 5 {
		t.Errorf("expected 5 bodies, got %d", len(cfg.Bodies))
	}
	if cfg.Dt != 0.002 {
		t.Errorf("expected dt 0.002, got %f", cfg.Dt)
	}
}

func TestGetPreset_ReturnsCopy(t *testing.T) {
	a := GetPreset("earth")
	a.Bodies[1].Mass = 42
	a.Steps = 1

	b := GetPreset("earth")
	if b.Bodies[1].Mass == 42 || b.Steps == 1 {
		t.Error("preset was mutated through a returned copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	want := []string{"earth", "eccentric", "inner", "solar"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("expected %v, got %v", want, names)
		}
	}
}

func TestPresetsBuild(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			if _, _, err := GetPreset(name).Build(); err != nil {
				t.Errorf("preset %s does not build: %v", name, err)
			}
		})
	}
}
