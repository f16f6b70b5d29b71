package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/san-kum/orbitsim/internal/orbit"
	"github.com/san-kum/orbitsim/internal/sim"
)

const (
	metadataFile = "metadata.json"
	samplesFile  = "samples.csv"
	runFile      = "run.json"
	trailsFile   = "trails.svg"
)

// Format selects which artifacts Store.Save writes besides metadata.json.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatSVG  Format = "svg"
	FormatAll  Format = "all"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatCSV, FormatJSON, FormatSVG, FormatAll:
		return f, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv, json, svg or all)", s)
}

func (f Format) includes(g Format) bool { return f == FormatAll || f == g }

// Store keeps one directory per saved run under baseDir.
type Store struct {
	baseDir string
}

func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// Save writes metadata.json plus the artifacts selected by format and
// returns the run ID. meta.ID is assigned here.
func (s *Store) Save(meta RunMetadata, format Format, res *sim.Result, reg *orbit.Registry) (string, error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	meta.ID = fmt.Sprintf("%s_%d", dirName(meta.System), meta.Timestamp.UnixNano())
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeFile(filepath.Join(runDir, metadataFile), func(f *os.File) error {
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}); err != nil {
		return "", err
	}

	if format.includes(FormatCSV) {
		if err := writeFile(filepath.Join(runDir, samplesFile), func(f *os.File) error {
			return WriteCSV(f, res)
		}); err != nil {
			return "", err
		}
	}
	if format.includes(FormatJSON) {
		if err := writeFile(filepath.Join(runDir, runFile), func(f *os.File) error {
			return WriteJSON(f, meta, res)
		}); err != nil {
			return "", err
		}
	}
	if format.includes(FormatSVG) && reg != nil {
		svg := TrailsToSVG(reg, 800, 800)
		if err := os.WriteFile(filepath.Join(runDir, trailsFile), []byte(svg), 0644); err != nil {
			return "", err
		}
	}

	return meta.ID, nil
}

// dirName keeps letters, digits, '-' and '_' so a system name cannot leave
// the store directory.
func dirName(system string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, system)
	if name == "" {
		return "run"
	}
	return name
}

func writeFile(path string, fn func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Dir is the directory holding a run's artifacts.
func (s *Store) Dir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}

// List returns the metadata of every saved run, newest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
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

func (s *Store) LoadSamples(runID string) ([]sim.Snapshot, error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, samplesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}
