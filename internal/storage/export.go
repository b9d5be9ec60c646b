package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/odestep/internal/dynamo"
)

type ExportData struct {
	Model   string   `json:"model"`
	Method  string   `json:"method"`
	Step    float64  `json:"step"`
	Lo      float64  `json:"lo"`
	Hi      float64  `json:"hi"`
	Samples int      `json:"samples"`
	Times   Series   `json:"times"`
	States  []Series `json:"states"`
	Metrics Metrics  `json:"metrics,omitempty"`
}

func NewExportData(meta RunMetadata, traj dynamo.Trajectory) ExportData {
	data := ExportData{
		Model:   meta.Model,
		Method:  meta.Method,
		Step:    meta.Step,
		Lo:      meta.Lo,
		Hi:      meta.Hi,
		Samples: len(traj),
		Times:   traj.Times(),
		States:  make([]Series, len(traj)),
		Metrics: meta.Metrics,
	}
	for i, s := range traj {
		data.States[i] = Series(s.X)
	}
	return data
}

func WriteJSON(w io.Writer, meta RunMetadata, traj dynamo.Trajectory) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(meta, traj))
}

// ExportFile writes the run to path as "json" or "csv".
func ExportFile(path, format string, meta RunMetadata, traj dynamo.Trajectory) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Export(file, format, meta, traj); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func Export(w io.Writer, format string, meta RunMetadata, traj dynamo.Trajectory) error {
	switch format {
	case "json":
		return WriteJSON(w, meta, traj)
	case "csv":
		return WriteCSV(w, traj)
	default:
		return fmt.Errorf("storage: unsupported export format %q", format)
	}
}
