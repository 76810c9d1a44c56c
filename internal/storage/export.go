package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/lifenet/internal/sim"
)

type ExportData struct {
	Run     RunMetadata   `json:"run"`
	Samples []sim.Sample  `json:"samples"`
	Network *sim.Snapshot `json:"network,omitempty"`
}

// Export gathers everything stored for a run.
func (s *Store) Export(runID string) (*ExportData, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, err
	}
	samples, err := s.LoadHistory(meta.ID)
	if err != nil {
		return nil, err
	}
	data := &ExportData{Run: *meta, Samples: samples}
	if snap, err := s.LoadNetwork(meta.ID); err == nil {
		data.Network = snap
	}
	return data, nil
}

func ExportJSON(path string, data *ExportData) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return WriteJSON(file, data)
}

func WriteJSON(w io.Writer, data *ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSONStdout(data *ExportData) error {
	return WriteJSON(os.Stdout, data)
}
