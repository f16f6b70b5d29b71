package config

import (
	"math"
	"sort"
)

const twoPi = 2 * math.Pi

var Presets = map[string]*Config{
	// The reference system: four planets on circular orbits around the Sun.
	"solar": {
		Name: "solar", Dt: 0.002, Steps: 3000,
		Bodies: []BodyConfig{
			{Name: "Sun", Mass: 1.0, Color: "yellow", Central: true},
			{Name: "Earth", Mass: 3e-6, Position: [2]float64{1, 0}, Velocity: [2]float64{0, twoPi}, Color: "blue", TrackTrail: true},
			{Name: "Mars", Mass: 3.2e-7, Position: [2]float64{1.52, 0}, Velocity: [2]float64{0, twoPi / math.Sqrt(1.52)}, Color: "red", TrackTrail: true},
			{Name: "Venus", Mass: 2.4e-6, Position: [2]float64{0.72, 0}, Velocity: [2]float64{0, twoPi / math.Sqrt(0.72)}, Color: "orange", TrackTrail: true},
			{Name: "Mercury", Mass: 1.7e-7, Position: [2]float64{0.39, 0}, Velocity: [2]float64{0, twoPi / math.Sqrt(0.39)}, Color: "gray", TrackTrail: true},
		},
	},
	"earth": {
		Name: "earth", Dt: 0.002, Steps: 3000,
		Bodies: []BodyConfig{
			{Name: "Sun", Mass: 1.0, Color: "yellow", Central: true},
			{Name: "Earth", Mass: 3e-6, Position: [2]float64{1, 0}, Velocity: [2]float64{0, twoPi}, Color: "blue", TrackTrail: true},
		},
	},
	"inner": {
		Name: "inner", Dt: 0.0005, Steps: 2000,
		Bodies: []BodyConfig{
			{Name: "Sun", Mass: 1.0, Color: "yellow", Central: true},
			{Name: "Mercury", Mass: 1.7e-7, Position: [2]float64{0.39, 0}, Circular: true, Color: "gray", TrackTrail: true},
			{Name: "Venus", Mass: 2.4e-6, Position: [2]float64{0, 0.72}, Circular: true, Color: "orange", TrackTrail: true},
		},
	},
	"eccentric": {
		Name: "eccentric", Dt: 0.0005, Steps: 12000,
		Bodies: []BodyConfig{
			{Name: "Sun", Mass: 1.0, Color: "yellow", Central: true},
			{Name: "Comet", Mass: 1e-12, Position: [2]float64{2, 0}, Velocity: [2]float64{0, 3.0}, Color: "#7fdbff", TrackTrail: true},
		},
	},
}

func init() {
	for _, p := range Presets {
		def := DefaultConfig()
		p.G = def.G
		p.TrailCapacity = def.TrailCapacity
		p.MinSeparation = def.MinSeparation
		p.Strict = def.Strict
		p.SampleEvery = def.SampleEvery
	}
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	return p.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
