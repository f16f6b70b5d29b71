package sim

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Dt <= 0 {
		t.Error("DefaultConfig has invalid Dt")
	}
	if cfg.Steps <= 0 {
		t.Error("DefaultConfig has invalid Steps")
	}
	if got := cfg.Duration(); got != 6 {
		t.Errorf("expected 6 years, got %f", got)
	}
}

func TestCaptureIsACopy(t *testing.T) {
	integ := newTestIntegrator(t)
	reg := integ.Registry()

	snap := Capture(reg, 0, 0)
	reg.Orbiters()[0].Position = r2.Vec{X: 42}

	if snap.Bodies[1].Position.X != 1 {
		t.Errorf("snapshot changed with registry: %v", snap.Bodies[1].Position)
	}
	if len(snap.Bodies) != reg.Len() {
		t.Errorf("expected %d bodies, got %d", reg.Len(), len(snap.Bodies))
	}
}

func TestResultSeries(t *testing.T) {
	res := &Result{Samples: []Snapshot{
		{Bodies: []BodyState{{Name: "Sun"}, {Name: "Earth", Position: r2.Vec{X: 1}}}},
		{Bodies: []BodyState{{Name: "Sun"}, {Name: "Earth", Position: r2.Vec{X: 2}}}},
	}}

	s := res.Series("Earth")
	if len(s) != 2 || s[1].Position.X != 2 {
		t.Errorf("unexpected series: %v", s)
	}
	if res.Series("Pluto") != nil {
		t.Error("expected nil for unknown body")
	}
}

func TestConfigError(t *testing.T) {
	err := ConfigError{Field: "dt", Value: -1.0}
	expected := "invalid run config: dt = -1"
	if err.Error() != expected {
		t.Errorf("ConfigError.Error() = %q, want %q", err.Error(), expected)
	}
}
