package storage

import (
	"encoding/csv"
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

	"github.com/san-kum/lifenet/internal/sim"
)

const (
	metadataFile = "metadata.json"
	historyFile  = "history.csv"
	networkFile  = "network.json"
)

var ErrRunNotFound = errors.New("storage: run not found")

var historyHeader = []string{"frame", "time", "generation", "nodes", "alive", "edges", "births", "deaths"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type Summary struct {
	Nodes      int `json:"nodes"`
	Alive      int `json:"alive"`
	Edges      int `json:"edges"`
	Generation int `json:"generation"`
	Births     int `json:"births"`
	Deaths     int `json:"deaths"`
}

type RunMetadata struct {
	ID            string             `json:"id"`
	Label         string             `json:"label"`
	Timestamp     time.Time          `json:"timestamp"`
	Seed          int64              `json:"seed"`
	Frames        int                `json:"frames"`
	FrameDuration float64            `json:"frame_duration"`
	World         sim.Config         `json:"world"`
	Metrics       map[string]float64 `json:"metrics"`
	Final         Summary            `json:"final"`
}

// Save writes a run directory holding metadata.json, history.csv and, when
// snap is non-nil, network.json. It returns the new run id.
func (s *Store) Save(label string, cfg sim.Config, rc sim.RunConfig, result *sim.Result, snap *sim.Snapshot) (string, error) {
	runID := uuid.NewString()
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:            runID,
		Label:         label,
		Timestamp:     time.Now().UTC(),
		Seed:          cfg.Seed,
		Frames:        result.FramesRun,
		FrameDuration: rc.FrameDuration,
		World:         cfg,
		Metrics:       result.Metrics,
		Final: Summary{
			Births: result.Births,
			Deaths: result.Deaths,
		},
	}
	if n := len(result.Samples); n > 0 {
		last := result.Samples[n-1]
		meta.Final.Nodes = last.Nodes
		meta.Final.Alive = last.Alive
		meta.Final.Edges = last.Edges
		meta.Final.Generation = last.Generation
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeHistory(filepath.Join(runDir, historyFile), result.Samples); err != nil {
		return "", err
	}
	if snap != nil {
		if err := writeJSON(filepath.Join(runDir, networkFile), snap); err != nil {
			return "", err
		}
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeHistory(path string, samples []sim.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(historyHeader); err != nil {
		return err
	}
	for _, smp := range samples {
		row := []string{
			strconv.Itoa(smp.Frame),
			strconv.FormatFloat(smp.Time, 'f', 3, 64),
			strconv.Itoa(smp.Generation),
			strconv.Itoa(smp.Nodes),
			strconv.Itoa(smp.Alive),
			strconv.Itoa(smp.Edges),
			strconv.Itoa(smp.Births),
			strconv.Itoa(smp.Deaths),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every stored run, newest first.
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
		meta, err := s.readMetadata(entry.Name())
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

// Resolve expands a unique id prefix to a full run id.
func (s *Store) Resolve(prefix string) (string, error) {
	if prefix == "" {
		return "", fmt.Errorf("empty run id: %w", ErrRunNotFound)
	}
	if _, err := os.Stat(filepath.Join(s.baseDir, prefix, metadataFile)); err == nil {
		return prefix, nil
	}
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return "", fmt.Errorf("run %s: %w", prefix, ErrRunNotFound)
	}
	var matches []string
	for _, e := range entries {
		if e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			matches = append(matches, e.Name())
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("run %s: %w", prefix, ErrRunNotFound)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("run prefix %s is ambiguous (%d matches)", prefix, len(matches))
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	id, err := s.Resolve(runID)
	if err != nil {
		return nil, err
	}
	return s.readMetadata(id)
}

func (s *Store) readMetadata(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadHistory reads history.csv back into samples. Rows that fail to parse
// are skipped.
func (s *Store) LoadHistory(runID string) ([]sim.Sample, error) {
	id, err := s.Resolve(runID)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filepath.Join(s.baseDir, id, historyFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for _, record := range records[1:] {
		smp, ok := parseSample(record)
		if !ok {
			continue
		}
		samples = append(samples, smp)
	}
	return samples, nil
}

func parseSample(record []string) (sim.Sample, bool) {
	if len(record) != len(historyHeader) {
		return sim.Sample{}, false
	}
	t, err := strconv.ParseFloat(record[1], 64)
	if err != nil {
		return sim.Sample{}, false
	}
	ints := make([]int, 0, 7)
	for i, field := range record {
		if i == 1 {
			continue
		}
		v, err := strconv.Atoi(field)
		if err != nil {
			return sim.Sample{}, false
		}
		ints = append(ints, v)
	}
	return sim.Sample{
		Frame:      ints[0],
		Time:       t,
		Generation: ints[1],
		Nodes:      ints[2],
		Alive:      ints[3],
		Edges:      ints[4],
		Births:     ints[5],
		Deaths:     ints[6],
	}, true
}

// LoadNetwork reads the final network of a run, if one was saved.
func (s *Store) LoadNetwork(runID string) (*sim.Snapshot, error) {
	id, err := s.Resolve(runID)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, networkFile))
	if err != nil {
		return nil, err
	}
	var snap sim.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}
