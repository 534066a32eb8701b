package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Run      *RunMetadata `json:"run"`
	Energies []float64    `json:"energies"`
}

// Export writes a run's metadata and energy series as indented JSON.
func (s *Store) Export(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	energies, err := s.LoadEnergies(runID)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ExportData{Run: meta, Energies: energies})
}
