package export

import (
	"encoding/json"
	"io"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orbitsim/internal/sim"
)

// RunMetadata describes a saved run.
type RunMetadata struct {
	ID         string             `json:"id"`
	System     string             `json:"system"`
	Timestamp  time.Time          `json:"timestamp"`
	G          float64            `json:"g"`
	Dt         float64            `json:"dt"`
	Steps      int                `json:"steps"`
	StepsTaken int                `json:"steps_taken"`
	Duration   float64            `json:"duration"`
	Elapsed    string             `json:"elapsed"`
	Bodies     []string           `json:"bodies"`
	Metrics    map[string]float64 `json:"metrics"`
	Errors     []string           `json:"errors,omitempty"`
}

// NewMetadata fills the run-derived fields of a RunMetadata.
func NewMetadata(system string, g float64, cfg sim.Config, res *sim.Result) RunMetadata {
	meta := RunMetadata{
		System:     system,
		Timestamp:  time.Now(),
		G:          g,
		Dt:         cfg.Dt,
		Steps:      cfg.Steps,
		StepsTaken: res.StepsTaken,
		Duration:   float64(res.StepsTaken) * cfg.Dt,
		Elapsed:    res.Elapsed.String(),
		Metrics:    res.Metrics,
	}
	if len(res.Samples) > 0 {
		for _, b := range res.Samples[0].Bodies {
			meta.Bodies = append(meta.Bodies, b.Name)
		}
	}
	for _, err := range res.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}
	return meta
}

type jsonVec [2]float64

func vec(v r2.Vec) jsonVec { return jsonVec{v.X, v.Y} }

type jsonBody struct {
	Name     string  `json:"name"`
	Position jsonVec `json:"position"`
	Velocity jsonVec `json:"velocity"`
}

type jsonSample struct {
	Step   int        `json:"step"`
	Time   float64    `json:"time"`
	Bodies []jsonBody `json:"bodies"`
}

type jsonRun struct {
	Meta    RunMetadata  `json:"meta"`
	Samples []jsonSample `json:"samples"`
}

// WriteJSON writes the metadata and every sample as one indented document.
func WriteJSON(w io.Writer, meta RunMetadata, res *sim.Result) error {
	run := jsonRun{Meta: meta, Samples: make([]jsonSample, len(res.Samples))}
	for i, s := range res.Samples {
		js := jsonSample{Step: s.Step, Time: s.Time, Bodies: make([]jsonBody, len(s.Bodies))}
		for j, b := range s.Bodies {
			js.Bodies[j] = jsonBody{Name: b.Name, Position: vec(b.Position), Velocity: vec(b.Velocity)}
		}
		run.Samples[i] = js
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(run)
}
