package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/EricPacefactory/Station-Test-Patterns/internal/pattern"
)

const (
	metadataFile = "metadata.json"
	truthFile    = "truth.csv"
)

// Store keeps one directory per run under baseDir holding the run's
// metadata and the ground truth of every frame.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID           string             `json:"id"`
	Pattern      string             `json:"pattern"`
	Timestamp    time.Time          `json:"timestamp"`
	Seed         int64              `json:"seed"`
	Width        int                `json:"width"`
	Height       int                `json:"height"`
	FPS          float64            `json:"fps"`
	Duration     float64            `json:"duration"`
	BlinkPeriods []float64          `json:"blink_periods"`
	Noise        string             `json:"noise,omitempty"`
	Output       string             `json:"output,omitempty"`
	Codec        string             `json:"codec,omitempty"`
	Preview      string             `json:"preview,omitempty"`
	Timelapse    float64            `json:"timelapse,omitempty"`
	Frames       int                `json:"frames"`
	Reason       string             `json:"reason,omitempty"`
	Metrics      map[string]float64 `json:"metrics,omitempty"`
}

// Create assigns meta an ID and timestamp, makes its run directory and
// writes the initial metadata.
func (s *Store) Create(meta *RunMetadata) (string, error) {
	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Pattern, now.UnixMilli())
	meta.Timestamp = now

	if err := os.MkdirAll(s.runDir(meta.ID), 0755); err != nil {
		return "", err
	}
	if err := s.Save(meta); err != nil {
		return "", err
	}
	return meta.ID, nil
}

// Save rewrites the metadata of an existing run.
func (s *Store) Save(meta *RunMetadata) error {
	if meta.ID == "" {
		return fmt.Errorf("run metadata has no id")
	}
	path := filepath.Join(s.runDir(meta.ID), metadataFile)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// List returns every readable run, oldest first.
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

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.runDir(runID), metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// TruthWriter opens the ground truth file of a run for writing.
func (s *Store) TruthWriter(runID string) (*TruthWriter, error) {
	f, err := os.Create(filepath.Join(s.runDir(runID), truthFile))
	if err != nil {
		return nil, err
	}
	return &TruthWriter{file: f, w: csv.NewWriter(f)}, nil
}

// TruthWriter appends one CSV row per frame: frame, time and the value of
// every element. The columns are fixed by the first frame.
type TruthWriter struct {
	file  *os.File
	w     *csv.Writer
	names []string
	rows  int
}

func (tw *TruthWriter) OnFrame(f *pattern.Frame) error {
	if tw.names == nil {
		tw.names = f.Truth.Names()
		header := append([]string{"frame", "time"}, tw.names...)
		if err := tw.w.Write(header); err != nil {
			return err
		}
	}

	row := make([]string, 0, len(tw.names)+2)
	row = append(row, strconv.Itoa(f.Index), strconv.FormatFloat(f.Time, 'f', 6, 64))
	for _, name := range tw.names {
		v, _ := f.Truth.Get(name)
		row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
	}
	if err := tw.w.Write(row); err != nil {
		return err
	}
	tw.rows++
	return nil
}

// Rows is the number of frames written.
func (tw *TruthWriter) Rows() int { return tw.rows }

func (tw *TruthWriter) Close() error {
	tw.w.Flush()
	if err := tw.w.Error(); err != nil {
		tw.file.Close()
		return err
	}
	return tw.file.Close()
}

// LoadTruth reads back a run's ground truth: the frame times and, per
// frame, every element's value.
func (s *Store) LoadTruth(runID string) ([]float64, []pattern.Truth, error) {
	file, err := os.Open(filepath.Join(s.runDir(runID), truthFile))
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, []pattern.Truth{}, nil
	}

	names := records[0][2:]
	times := make([]float64, 0, len(records)-1)
	truths := make([]pattern.Truth, 0, len(records)-1)

	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		t, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}

		tr := make(pattern.Truth, 0, len(names))
		for j, name := range names {
			if j+2 >= len(record) {
				break
			}
			v, err := strconv.ParseFloat(record[j+2], 64)
			if err != nil {
				continue
			}
			tr = append(tr, pattern.Sample{Name: name, Value: v})
		}
		times = append(times, t)
		truths = append(truths, tr)
	}

	return times, truths, nil
}

func (s *Store) runDir(runID string) string {
	return filepath.Join(s.baseDir, runID)
}
