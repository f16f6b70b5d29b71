package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/orbitsim/internal/sim"
)

var csvHeader = []string{"step", "time", "body", "x", "y", "vx", "vy"}

// WriteCSV writes one row per body per sample.
func WriteCSV(w io.Writer, res *sim.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, s := range res.Samples {
		step := strconv.Itoa(s.Step)
		t := formatFloat(s.Time)
		for _, b := range s.Bodies {
			row := []string{
				step, t, b.Name,
				formatFloat(b.Position.X), formatFloat(b.Position.Y),
				formatFloat(b.Velocity.X), formatFloat(b.Velocity.Y),
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV rebuilds the samples written by WriteCSV.
func ReadCSV(r io.Reader) ([]sim.Snapshot, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Snapshot{}, nil
	}

	var samples []sim.Snapshot
	for i, rec := range records[1:] {
		step, err := strconv.Atoi(rec[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		vals := make([]float64, 5)
		for j, field := range []string{rec[1], rec[3], rec[4], rec[5], rec[6]} {
			if vals[j], err = strconv.ParseFloat(field, 64); err != nil {
				return nil, fmt.Errorf("row %d: %w", i+2, err)
			}
		}

		if len(samples) == 0 || samples[len(samples)-1].Step != step {
			samples = append(samples, sim.Snapshot{Step: step, Time: vals[0]})
		}
		last := &samples[len(samples)-1]
		last.Bodies = append(last.Bodies, sim.BodyState{
			Name:     rec[2],
			Position: r2.Vec{X: vals[1], Y: vals[2]},
			Velocity: r2.Vec{X: vals[3], Y: vals[4]},
		})
	}
	return samples, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
