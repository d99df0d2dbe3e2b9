package reference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/core/ports/driven"
)

// Verify interface compliance.
var (
	_ driven.CensusSource       = (*Loader)(nil)
	_ driven.OccupationalSource = (*Loader)(nil)
	_ driven.JobCodeSource      = (*Loader)(nil)
)

// Loader reads the reference datasets from local files.
type Loader struct {
	censusPath       string
	occupationalPath string
	jobCodesPath     string
	columns          domain.CensusColumns
}

// NewLoader creates a loader for the configured dataset paths.
// Relative paths are read from the data directory.
func NewLoader(settings domain.PipelineSettings) *Loader {
	return &Loader{
		censusPath:       inDir(settings.DataDir, settings.CensusPath),
		occupationalPath: inDir(settings.DataDir, settings.OccupationalPath),
		jobCodesPath:     inDir(settings.DataDir, settings.JobCodesPath),
		columns:          settings.CensusColumns,
	}
}

func inDir(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// LoadOccupational reads the occupational registry. The file holds either
// an object of record lists keyed by lookup key, or a flat list of records
// carrying their key.
func (l *Loader) LoadOccupational(_ context.Context) (map[string][]domain.OccupationalRecord, error) {
	if l.occupationalPath == "" {
		return map[string][]domain.OccupationalRecord{}, nil
	}

	var keyed map[string][]domain.OccupationalRecord
	var flat []domain.OccupationalRecord
	if err := decodeDataset(l.occupationalPath, &keyed, &flat); err != nil {
		return nil, fmt.Errorf("reading occupational registry: %w", err)
	}

	out := make(map[string][]domain.OccupationalRecord)
	for key, records := range keyed {
		for _, r := range records {
			if r.Key == "" {
				r.Key = key
			}
			out[key] = append(out[key], r)
		}
	}
	for _, r := range flat {
		key := r.Key
		if key == "" {
			key = r.RNCP
		}
		if key == "" {
			continue
		}
		r.Key = key
		out[key] = append(out[key], r)
	}
	return out, nil
}

// LoadJobCodes reads the job-code taxonomy, keyed by occupational key.
// Entries take the key they are filed under.
func (l *Loader) LoadJobCodes(_ context.Context) (map[string][]domain.JobCode, error) {
	if l.jobCodesPath == "" {
		return map[string][]domain.JobCode{}, nil
	}

	var keyed map[string][]domain.JobCode
	var flat []domain.JobCode
	if err := decodeDataset(l.jobCodesPath, &keyed, &flat); err != nil {
		return nil, fmt.Errorf("reading job codes: %w", err)
	}

	out := make(map[string][]domain.JobCode)
	for key, codes := range keyed {
		for _, c := range codes {
			c.Key = key
			out[key] = append(out[key], c)
		}
	}
	for _, c := range flat {
		if c.Key == "" {
			continue
		}
		out[c.Key] = append(out[c.Key], c)
	}
	return out, nil
}

// decodeDataset decodes a JSON object into keyed or a JSON array into flat.
func decodeDataset(path string, keyed, flat any) error {
	rc, err := open(path)
	if err != nil {
		return err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty dataset %s", domain.ErrInvalidInput, path)
	}
	if trimmed[0] == '[' {
		return json.Unmarshal(trimmed, flat)
	}
	return json.Unmarshal(trimmed, keyed)
}
