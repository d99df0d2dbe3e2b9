package file

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/core/ports/driven"
	"github.com/custodia-labs/fresq/internal/logger"
)

// Ensure RawSource implements the interface.
var _ driven.RawSource = (*RawSource)(nil)

// RawFileName returns the name of the compressed raw file of a suffix.
func RawFileName(suffix string) string {
	return "fresq_raw_" + suffix + ".json.gz"
}

// RawSource reads harvested records from the data directory.
type RawSource struct {
	dataDir string
	objects driven.ObjectStore
}

// NewRawSource creates a raw source. objects may be nil.
func NewRawSource(dataDir string, objects driven.ObjectStore) *RawSource {
	return &RawSource{dataDir: dataDir, objects: objects}
}

// Records reads the raw records of suffix, in file order.
// The compressed file is preferred over the plain one. When neither
// exists locally, the compressed file is downloaded from object storage.
// Returns domain.ErrNotFound if the input cannot be found anywhere.
func (s *RawSource) Records(ctx context.Context, suffix string) ([]domain.RawRecord, error) {
	if suffix == "" {
		return nil, fmt.Errorf("%w: empty suffix", domain.ErrInvalidInput)
	}

	path, err := s.locate(ctx, suffix)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open raw file: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if filepath.Ext(path) == ".gz" {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}

	records, err := decodeRecords(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	logger.Info("Read %d raw records from %s", len(records), path)
	return records, nil
}

func (s *RawSource) locate(ctx context.Context, suffix string) (string, error) {
	gzPath := filepath.Join(s.dataDir, RawFileName(suffix))
	plainPath := filepath.Join(s.dataDir, "fresq_raw_"+suffix+".json")

	for _, p := range []string{gzPath, plainPath} {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	if s.objects == nil {
		return "", fmt.Errorf("raw file for suffix %s: %w", suffix, domain.ErrNotFound)
	}
	if err := s.objects.Download(ctx, RawFileName(suffix), gzPath); err != nil {
		return "", fmt.Errorf("download raw file: %w", err)
	}
	return gzPath, nil
}

// decodeRecords streams a JSON array of records. An element carrying a
// "data" object is an envelope; any other object is the payload itself.
func decodeRecords(ctx context.Context, r io.Reader) ([]domain.RawRecord, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read opening token: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("%w: raw file is not a JSON array", domain.ErrInvalidInput)
	}

	var records []domain.RawRecord
	for dec.More() {
		if len(records)%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		var obj map[string]any
		if err := dec.Decode(&obj); err != nil {
			return nil, fmt.Errorf("record %d: %w", len(records), err)
		}
		records = append(records, toRecord(obj))
	}

	if _, err := dec.Token(); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read closing token: %w", err)
	}
	return records, nil
}

func toRecord(obj map[string]any) domain.RawRecord {
	rec := domain.RawRecord{
		RecordID:     stringField(obj, "recordId"),
		CollectionID: stringField(obj, "collectionId"),
		BucketID:     stringField(obj, "bucketId"),
	}
	if data, ok := obj["data"].(map[string]any); ok {
		rec.Data = data
		return rec
	}
	rec.Data = obj
	return rec
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return s
}
