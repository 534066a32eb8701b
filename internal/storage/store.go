package storage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/san-kum/mcsim/internal/config"
	"github.com/san-kum/mcsim/internal/coords"
	"github.com/san-kum/mcsim/internal/mc"
	"github.com/san-kum/mcsim/internal/potential"
	"github.com/san-kum/mcsim/internal/vec"
)

const (
	metadataFile = "metadata.json"
	energyFile   = "energy.dat"
	finalFile    = "final.xyz"
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

func (s *Store) BaseDir() string { return s.baseDir }

type RunMetadata struct {
	ID              string             `json:"id"`
	Timestamp       time.Time          `json:"timestamp"`
	Config          *config.Config     `json:"config"`
	Potential       string             `json:"potential"`
	PotentialParams potential.Params   `json:"potential_params,omitempty"`
	Particles       int                `json:"particles"`
	Density         float64            `json:"density"`
	Volume          float64            `json:"volume"`
	Initial         float64            `json:"initial_energy"`
	Final           float64            `json:"final_energy"`
	Recomputed      float64            `json:"recomputed_energy"`
	Drift           float64            `json:"drift"`
	Cycles          int                `json:"cycles"`
	Attempted       int                `json:"attempted"`
	Accepted        int                `json:"accepted"`
	Acceptance      float64            `json:"acceptance"`
	Reports         int                `json:"reports"`
	Metrics         map[string]float64 `json:"metrics"`
	Error           string             `json:"error,omitempty"`
}

// Describe records the potential actually used, with its parameters when the
// potential reports them.
func (m *RunMetadata) Describe(p potential.PairPotential) {
	m.Potential = p.Name()
	if pp, ok := p.(potential.Parameterized); ok {
		m.PotentialParams = pp.Params()
	}
}

// Fill copies the outcome of a run into the metadata.
func (m *RunMetadata) Fill(res *mc.Result) {
	m.Initial = res.Initial
	m.Final = res.Final
	m.Recomputed = res.Recomputed
	m.Drift = res.Drift
	m.Cycles = res.Cycles
	m.Attempted = res.Attempted
	m.Accepted = res.Accepted
	m.Acceptance = res.AcceptanceRatio()
	m.Reports = res.Reports
	m.Metrics = res.Metrics
}

// Run is an open run directory. Its Sink streams energy.dat while the
// simulation runs; Finish writes the metadata and final configuration.
type Run struct {
	ID   string
	Dir  string
	Sink *TextSink
}

// createFile opens energy.dat in a new run directory.
var createFile = os.Create

// Create allocates a fresh run directory named by a random UUID.
func (s *Store) Create() (*Run, error) {
	id := uuid.NewString()
	dir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	f, err := createFile(filepath.Join(dir, energyFile))
	if err != nil {
		os.RemoveAll(dir)
		return nil, err
	}

	return &Run{ID: id, Dir: dir, Sink: NewTextSink(f)}, nil
}

func (r *Run) Finish(meta RunMetadata, final []vec.Vec3) error {
	if err := r.Sink.Close(); err != nil {
		return fmt.Errorf("close energy file: %w", err)
	}

	meta.ID = r.ID
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if err := writeJSON(filepath.Join(r.Dir, metadataFile), meta); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	if final != nil {
		if err := coords.WriteFile(filepath.Join(r.Dir, finalFile), final); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(path string, v any) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// List returns the metadata of every finished run, oldest first.
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
		return runs[i].Timestamp.Before(runs[j].Timestamp)
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
		return nil, err
	}

	return &meta, nil
}

// LoadEnergies reads the reported energy series of a run.
func (s *Store) LoadEnergies(runID string) ([]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, energyFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}
	defer file.Close()

	energies := make([]float64, 0)
	sc := bufio.NewScanner(file)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", energyFile, line, err)
		}
		energies = append(energies, v)
	}
	return energies, sc.Err()
}

func (s *Store) LoadFinal(runID string) ([]vec.Vec3, error) {
	return coords.ReadFile(filepath.Join(s.baseDir, runID, finalFile))
}
