package store

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dennisdiepolder/monti/dashboard/internal/types"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures/*.yaml
var embedded embed.FS

// Fixtures is the seed data a Store is built from
type Fixtures struct {
	Agents  []types.Agent
	Calls   []types.Call
	Queues  []types.Queue
	Metrics []types.Metric
}

// DefaultFixtures returns the seed set compiled into the binary
func DefaultFixtures() (Fixtures, error) {
	sub, err := fs.Sub(embedded, "fixtures")
	if err != nil {
		return Fixtures{}, err
	}
	return readFixtures(sub)
}

// LoadFixtures reads agents.yaml, calls.yaml, queues.yaml and metrics.yaml
// from dir. A missing file yields an empty collection.
func LoadFixtures(dir string) (Fixtures, error) {
	return readFixtures(os.DirFS(dir))
}

func readFixtures(fsys fs.FS) (Fixtures, error) {
	var f Fixtures
	if err := decodeFile(fsys, "agents.yaml", &f.Agents); err != nil {
		return Fixtures{}, err
	}
	if err := decodeFile(fsys, "calls.yaml", &f.Calls); err != nil {
		return Fixtures{}, err
	}
	if err := decodeFile(fsys, "queues.yaml", &f.Queues); err != nil {
		return Fixtures{}, err
	}
	if err := decodeFile(fsys, "metrics.yaml", &f.Metrics); err != nil {
		return Fixtures{}, err
	}
	if err := f.Validate(); err != nil {
		return Fixtures{}, err
	}
	return f, nil
}

func decodeFile(fsys fs.FS, name string, out any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read fixture %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode fixture %s: %w", name, err)
	}
	return nil
}

// Validate rejects fixtures with duplicate or non-positive ids or with
// records outside their enumerations
func (f Fixtures) Validate() error {
	if err := checkRecords(types.KindAgent, f.Agents, types.Agent.Validate); err != nil {
		return err
	}
	if err := checkRecords(types.KindCall, f.Calls, types.Call.Validate); err != nil {
		return err
	}
	if err := checkRecords(types.KindQueue, f.Queues, types.Queue.Validate); err != nil {
		return err
	}
	return checkRecords(types.KindMetric, f.Metrics, types.Metric.Validate)
}

func checkRecords[T types.Entity[T]](kind types.Kind, records []T, validate func(T) error) error {
	seen := make(map[int]bool, len(records))
	for _, r := range records {
		id := r.EntityID()
		if id <= 0 {
			return fmt.Errorf("%s fixture has non-positive id %d", kind, id)
		}
		if seen[id] {
			return fmt.Errorf("%s fixture has duplicate id %d", kind, id)
		}
		seen[id] = true
		if err := validate(r); err != nil {
			return fmt.Errorf("%s fixture %d: %w", kind, id, err)
		}
	}
	return nil
}
