package storage

import (
	"encoding/csv"
	"encoding/json"
	"os"
)

type ExportData struct {
	ID        string             `json:"id"`
	Dt        float64            `json:"dt"`
	Seed      int64              `json:"seed"`
	Steps     int                `json:"steps"`
	Times     []float64          `json:"times"`
	Positions [][3]float64       `json:"positions"`
	Metrics   map[string]float64 `json:"metrics"`
}

// ExportJSONStdout writes a run as indented JSON to standard output.
func ExportJSONStdout(meta *RunMetadata, samples []Sample) error {
	data := ExportData{
		ID:        meta.ID,
		Dt:        meta.Dt,
		Seed:      meta.Seed,
		Steps:     len(samples),
		Times:     make([]float64, len(samples)),
		Positions: make([][3]float64, len(samples)),
		Metrics:   meta.Metrics,
	}

	for i, s := range samples {
		data.Times[i] = s.Time
		data.Positions[i] = [3]float64{s.Position.X(), s.Position.Y(), s.Position.Z()}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// ExportCSVStdout writes the per-tick states of a run as CSV to
// standard output, same columns as the on-disk states.csv.
func ExportCSVStdout(samples []Sample) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range samples {
		if err := w.Write(sampleRow(s)); err != nil {
			return err
		}
	}
	return w.Error()
}
