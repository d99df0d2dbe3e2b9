package file

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/core/ports/driven"
	"github.com/custodia-labs/fresq/internal/logger"
)

// Ensure DocumentSink implements the interface.
var _ driven.DocumentSink = (*DocumentSink)(nil)

// DocumentsFileName returns the name of the formatted documents file.
func DocumentsFileName(suffix string) string {
	return "fresq_formatted_" + suffix + ".jsonl"
}

// FaultsFileName returns the name of the fault log file.
func FaultsFileName(suffix string) string {
	return "fresq_faults_" + suffix + ".log"
}

// DocumentSink writes documents and faults to the output directory.
type DocumentSink struct {
	outputDir string
	objects   driven.ObjectStore
}

// NewDocumentSink creates a sink. objects may be nil.
func NewDocumentSink(outputDir string, objects driven.ObjectStore) *DocumentSink {
	return &DocumentSink{outputDir: outputDir, objects: objects}
}

// Write replaces the run's output files and uploads them when object
// storage is configured. Documents are written one per line, in order.
func (s *DocumentSink) Write(ctx context.Context, suffix string, docs []domain.Document, faults []domain.Fault) (driven.Artifacts, error) {
	if suffix == "" {
		return driven.Artifacts{}, fmt.Errorf("%w: empty suffix", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(s.outputDir, 0700); err != nil {
		return driven.Artifacts{}, fmt.Errorf("create output directory: %w", err)
	}

	artifacts := driven.Artifacts{
		DocumentsPath: filepath.Join(s.outputDir, DocumentsFileName(suffix)),
		FaultsPath:    filepath.Join(s.outputDir, FaultsFileName(suffix)),
	}

	// 1. Documents
	err := writeLines(artifacts.DocumentsPath, func(w *bufio.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		for i, doc := range docs {
			if err := enc.Encode(doc); err != nil {
				return fmt.Errorf("document %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return driven.Artifacts{}, err
	}

	// 2. Faults
	err = writeLines(artifacts.FaultsPath, func(w *bufio.Writer) error {
		for _, f := range faults {
			if _, err := w.WriteString(f.String() + "\n"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return driven.Artifacts{}, err
	}
	logger.Info("Wrote %d documents to %s", len(docs), artifacts.DocumentsPath)

	// 3. Upload
	if s.objects != nil {
		for _, path := range []string{artifacts.DocumentsPath, artifacts.FaultsPath} {
			if err := s.objects.Upload(ctx, path, filepath.Base(path)); err != nil {
				return artifacts, fmt.Errorf("upload %s: %w", filepath.Base(path), err)
			}
		}
	}
	return artifacts, nil
}

// writeLines writes a file through a temporary sibling and renames it,
// so readers never see a partial file.
func writeLines(path string, fill func(w *bufio.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".write-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	w := bufio.NewWriter(tmp)
	fillErr := fill(w)
	if fillErr == nil {
		fillErr = w.Flush()
	}
	if err := errors.Join(fillErr, tmp.Close()); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
