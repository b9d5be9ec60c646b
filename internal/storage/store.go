package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/odestep/internal/dynamo"
)

const (
	metadataFile   = "metadata.json"
	trajectoryFile = "trajectory.csv"
)

var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type RunMetadata struct {
	ID        string             `json:"id"`
	Model     string             `json:"model"`
	Method    string             `json:"method"`
	Timestamp time.Time          `json:"timestamp"`
	Step      float64            `json:"step"`
	Lo        float64            `json:"lo"`
	Hi        float64            `json:"hi"`
	InitState []float64          `json:"init_state"`
	Params    map[string]float64 `json:"params,omitempty"`
	Samples   int                `json:"samples"`
	Evals     int                `json:"evals"`
	Elapsed   time.Duration      `json:"elapsed_ns"`
	Error     string             `json:"error,omitempty"`
	Metrics   Metrics            `json:"metrics,omitempty"`
}

func newRunID(model string) string {
	return fmt.Sprintf("%s_%s", model, uuid.NewString()[:8])
}

// Save writes meta and the trajectory into a fresh run directory. ID,
// Timestamp and Samples are filled in when empty. A failed save removes the
// run directory.
func (s *Store) Save(meta RunMetadata, traj dynamo.Trajectory) (string, error) {
	if meta.ID == "" {
		meta.ID = newRunID(meta.Model)
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.Samples = len(traj)

	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode metadata: %w", err)
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	if err := writeRun(runDir, append(data, '\n'), traj); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return meta.ID, nil
}

func writeRun(runDir string, meta []byte, traj dynamo.Trajectory) error {
	if err := os.WriteFile(filepath.Join(runDir, metadataFile), meta, 0644); err != nil {
		return err
	}

	csvFile, err := os.Create(filepath.Join(runDir, trajectoryFile))
	if err != nil {
		return err
	}
	if err := WriteCSV(csvFile, traj); err != nil {
		csvFile.Close()
		return err
	}
	return csvFile.Close()
}

// List returns every readable run, newest first.
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
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func (s *Store) LoadTrajectory(runID string) (dynamo.Trajectory, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, trajectoryFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	return ReadCSV(file)
}

// Delete removes a run directory.
func (s *Store) Delete(runID string) error {
	runDir := filepath.Join(s.baseDir, runID)
	if _, err := os.Stat(filepath.Join(runDir, metadataFile)); err != nil {
		return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return os.RemoveAll(runDir)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteCSV writes a header "t,x0,x1,..." and one row per sample.
func WriteCSV(w io.Writer, traj dynamo.Trajectory) error {
	cw := csv.NewWriter(w)

	header := []string{"t"}
	for i := 0; i < traj.Dim(); i++ {
		header = append(header, fmt.Sprintf("x%d", i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, s := range traj {
		row := make([]string, 0, len(s.X)+1)
		row = append(row, formatFloat(s.T))
		for _, val := range s.X {
			row = append(row, formatFloat(val))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func ReadCSV(r io.Reader) (dynamo.Trajectory, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return dynamo.Trajectory{}, nil
	}

	traj := make(dynamo.Trajectory, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		values := make([]float64, len(record))
		for j, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %d: %w", i+2, j+1, err)
			}
			values[j] = v
		}
		traj = append(traj, dynamo.Sample{T: values[0], X: dynamo.State(values[1:])})
	}
	return traj, nil
}
