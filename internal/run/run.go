package run

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/KaramelBytes/medprep-cli/internal/dataset"
	"github.com/KaramelBytes/medprep-cli/internal/prep"
	"github.com/KaramelBytes/medprep-cli/internal/utils"
)

// Output is a file written by a run.
type Output struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Rows      int       `json:"rows"`
	Cols      int       `json:"cols"`
	WrittenAt time.Time `json:"written_at"`
}

// Run is the manifest of one preprocessing run, persisted as run.json in
// the run's output directory.
type Run struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Source    string             `json:"source"`
	Steps     []string           `json:"steps"`
	Config    map[string]any     `json:"config,omitempty"`
	Artifacts *prep.Artifacts    `json:"artifacts,omitempty"`
	Outputs   map[string]*Output `json:"outputs"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`

	// Not serialized: directory holding run.json and the outputs
	rootDir string `json:"-"`
}

// NewRun constructs an in-memory run. Call Save() to persist.
func NewRun(name, source, rootDir string) *Run {
	now := time.Now()
	return &Run{
		ID:        uuid.NewString(),
		Name:      name,
		Source:    source,
		Outputs:   make(map[string]*Output),
		CreatedAt: now,
		UpdatedAt: now,
		rootDir:   rootDir,
	}
}

// LoadRun loads run.json from the provided directory.
func LoadRun(dir string) (*Run, error) {
	path := filepath.Join(dir, utils.ManifestName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("run not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read run: %w", err)
	}
	var r Run
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("parse run: %w", err)
	}
	r.rootDir = dir
	return &r, nil
}

// RootDir returns the on-disk run directory path.
func (r *Run) RootDir() string { return r.rootDir }

// Save writes run.json using atomic write.
func (r *Run) Save() error {
	if r.rootDir == "" {
		return errors.New("run root directory not set")
	}
	if err := utils.EnsureDir(r.rootDir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	r.UpdatedAt = time.Now()
	data, err := utils.PrettyJSON(r)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(r.rootDir, utils.ManifestName), data)
}

// WriteTable writes t as CSV under the run directory and records it.
func (r *Run) WriteTable(name string, t *dataset.Table) (string, error) {
	if r.rootDir == "" {
		return "", errors.New("run root directory not set")
	}
	path := filepath.Join(r.rootDir, name)
	if err := dataset.WriteCSV(path, t); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	r.record(name, path, t.Rows(), t.Width())
	return path, nil
}

// WriteFile writes raw bytes under the run directory and records them.
func (r *Run) WriteFile(name string, data []byte) (string, error) {
	if r.rootDir == "" {
		return "", errors.New("run root directory not set")
	}
	path := filepath.Join(r.rootDir, name)
	if err := utils.SafeWriteFile(path, data); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	r.record(name, path, 0, 0)
	return path, nil
}

func (r *Run) record(name, path string, rows, cols int) {
	if r.Outputs == nil {
		r.Outputs = make(map[string]*Output)
	}
	id := uuid.NewString()
	if prev, ok := r.Outputs[name]; ok {
		id = prev.ID
	}
	r.Outputs[name] = &Output{ID: id, Name: name, Path: path, Rows: rows, Cols: cols, WrittenAt: time.Now()}
	r.UpdatedAt = time.Now()
}

// AddStep appends a human-readable step line.
func (r *Run) AddStep(step string) {
	r.Steps = append(r.Steps, step)
	r.UpdatedAt = time.Now()
}

// OutputNames returns the recorded output names sorted.
func (r *Run) OutputNames() []string {
	names := make([]string, 0, len(r.Outputs))
	for n := range r.Outputs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// List finds runs directly under dir (and dir itself), sorted by creation time.
func List(dir string) ([]*Run, error) {
	var runs []*Run
	if r, err := LoadRun(dir); err == nil {
		runs = append(runs, r)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return runs, nil
		}
		return nil, fmt.Errorf("read results dir: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		r, err := LoadRun(filepath.Join(dir, e.Name()))
		if err != nil {
			continue
		}
		runs = append(runs, r)
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].CreatedAt.Before(runs[j].CreatedAt) })
	return runs, nil
}
