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
	"strings"
	"time"

	"github.com/san-kum/threephase/internal/export"
)

const (
	metadataFile = "metadata.json"
	waveformFile = "waveform.csv"
)

var ErrNoSamples = errors.New("storage: no waveform samples")

// Store keeps saved operating points, one directory per record.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type Record struct {
	ID        string          `json:"id"`
	Label     string          `json:"label"`
	Timestamp time.Time       `json:"timestamp"`
	Samples   int             `json:"samples"`
	Snapshot  export.Snapshot `json:"snapshot"`
}

// Waveform is one sampled period as stored in waveform.csv.
type Waveform struct {
	Theta  []float64
	Traces [4][]float64
}

// Save writes snap and one period of its waveforms sampled at n points.
// On failure the partly written record directory is removed.
func (s *Store) Save(label string, snap export.Snapshot, n int) (id string, err error) {
	if n <= 0 {
		return "", ErrNoSamples
	}
	label = sanitize(label)
	now := time.Now()
	id = fmt.Sprintf("%s_%d", label, now.UnixNano())
	dir := filepath.Join(s.baseDir, id)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(dir)
			id = ""
		}
	}()

	rec := Record{ID: id, Label: label, Timestamp: now, Samples: n, Snapshot: snap}
	if err := writeFile(filepath.Join(dir, metadataFile), func(w io.Writer) error {
		return export.WriteJSON(w, rec)
	}); err != nil {
		return "", err
	}
	if err := writeFile(filepath.Join(dir, waveformFile), func(w io.Writer) error {
		return export.PeriodToCSV(w, snap.Currents, n)
	}); err != nil {
		return "", err
	}
	return id, nil
}

// writeFile creates path, fills it with write and reports the close error
// when writing succeeded.
func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// List returns all readable records, oldest first.
func (s *Store) List() ([]Record, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Record{}, nil
		}
		return nil, err
	}

	recs := make([]Record, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		rec, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		recs = append(recs, *rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Timestamp.Before(recs[j].Timestamp) })
	return recs, nil
}

func (s *Store) Load(id string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, metadataFile))
	if err != nil {
		return nil, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	return &rec, nil
}

func (s *Store) LoadWaveform(id string) (*Waveform, error) {
	f, err := os.Open(filepath.Join(s.baseDir, id, waveformFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, ErrNoSamples
	}

	w := &Waveform{Theta: make([]float64, 0, len(records)-1)}
	for i, row := range records[1:] {
		if len(row) != 5 {
			return nil, fmt.Errorf("%s: row %d has %d columns", waveformFile, i+2, len(row))
		}
		vals := make([]float64, len(row))
		for j, field := range row {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: row %d: %w", waveformFile, i+2, err)
			}
			vals[j] = v
		}
		w.Theta = append(w.Theta, vals[0])
		for k := range w.Traces {
			w.Traces[k] = append(w.Traces[k], vals[k+1])
		}
	}
	return w, nil
}

func sanitize(label string) string {
	label = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			return r
		}
		return '_'
	}, strings.TrimSpace(label))
	if label == "" {
		return "snapshot"
	}
	return label
}
