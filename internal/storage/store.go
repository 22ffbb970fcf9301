// Package storage persists recorded simulation runs. Each run gets a
// directory under the data dir holding metadata.json and a states.csv
// with one row per tick.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Sample is the recorded body state at one tick.
type Sample struct {
	Time        float64
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	LinearVel   mgl64.Vec3
	AngularVel  mgl64.Vec3
	Contacts    int
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Timestamp time.Time          `json:"timestamp"`
	Seed      int64              `json:"seed"`
	Dt        float64            `json:"dt"`
	Steps     int                `json:"steps"`
	Metrics   map[string]float64 `json:"metrics"`
}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

var csvHeader = []string{
	"time",
	"x", "y", "z",
	"qw", "qx", "qy", "qz",
	"vx", "vy", "vz",
	"wx", "wy", "wz",
	"contacts",
}

// Save writes a run to disk and returns its id.
func (s *Store) Save(dt float64, seed int64, metrics map[string]float64, samples []Sample) (string, error) {
	runID := fmt.Sprintf("drop_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		Seed:      seed,
		Dt:        dt,
		Steps:     len(samples),
		Metrics:   metrics,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return "", err
	}

	for _, sample := range samples {
		if err := w.Write(sampleRow(sample)); err != nil {
			return "", err
		}
	}

	return runID, w.Error()
}

func sampleRow(s Sample) []string {
	vals := []float64{
		s.Time,
		s.Position.X(), s.Position.Y(), s.Position.Z(),
		s.Orientation.W, s.Orientation.X(), s.Orientation.Y(), s.Orientation.Z(),
		s.LinearVel.X(), s.LinearVel.Y(), s.LinearVel.Z(),
		s.AngularVel.X(), s.AngularVel.Y(), s.AngularVel.Z(),
	}

	row := make([]string, 0, len(vals)+1)
	for _, v := range vals {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	return append(row, strconv.Itoa(s.Contacts))
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSamples reads back the per-tick states of a run.
func (s *Store) LoadSamples(runID string) ([]Sample, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(csvHeader)

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	samples := make([]Sample, 0, len(records))
	for i, record := range records {
		if i == 0 {
			continue // header
		}

		vals := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("storage: bad field %q in %s row %d: %w", field, runID, i, err)
			}
			vals[j] = v
		}

		samples = append(samples, Sample{
			Time:        vals[0],
			Position:    mgl64.Vec3{vals[1], vals[2], vals[3]},
			Orientation: mgl64.Quat{W: vals[4], V: mgl64.Vec3{vals[5], vals[6], vals[7]}},
			LinearVel:   mgl64.Vec3{vals[8], vals[9], vals[10]},
			AngularVel:  mgl64.Vec3{vals[11], vals[12], vals[13]},
			Contacts:    int(vals[14]),
		})
	}

	return samples, nil
}
