package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/core/ports/driven"
)

// runStore implements driven.RunStore.
type runStore struct {
	store *Store
}

var _ driven.RunStore = (*runStore)(nil)

// SaveRun stores or updates a run.
func (s *runStore) SaveRun(ctx context.Context, run domain.Run) error {
	if run.ID == "" {
		return domain.ErrInvalidInput
	}

	faults, err := marshalCounts(run.FaultsByCategory)
	if err != nil {
		return fmt.Errorf("marshalling fault counts: %w", err)
	}
	resolutions, err := marshalCounts(run.Resolutions)
	if err != nil {
		return fmt.Errorf("marshalling resolution counts: %w", err)
	}

	var finishedAt sql.NullTime
	if !run.FinishedAt.IsZero() {
		finishedAt = sql.NullTime{Time: run.FinishedAt.UTC(), Valid: true}
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO runs (id, suffix, status, started_at, finished_at, records, programs,
		                  documents, faults, faults_by_category, resolutions,
		                  documents_path, faults_path, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			status = excluded.status,
			finished_at = excluded.finished_at,
			records = excluded.records,
			programs = excluded.programs,
			documents = excluded.documents,
			faults = excluded.faults,
			faults_by_category = excluded.faults_by_category,
			resolutions = excluded.resolutions,
			documents_path = excluded.documents_path,
			faults_path = excluded.faults_path,
			error = excluded.error
	`, run.ID, run.Suffix, string(run.Status), run.StartedAt.UTC(), finishedAt,
		run.Records, run.Programs, run.Documents, run.Faults, faults, resolutions,
		nullString(run.DocumentsPath), nullString(run.FaultsPath), nullString(run.Error))

	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first.
func (s *runStore) ListRuns(ctx context.Context, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		return nil, domain.ErrInvalidInput
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, suffix, status, started_at, finished_at, records, programs, documents,
		       faults, faults_by_category, resolutions, documents_path, faults_path, error
		FROM runs
		ORDER BY started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run //nolint:prealloc // size unknown from query
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}

	return runs, nil
}

func scanRun(rows *sql.Rows) (*domain.Run, error) {
	var run domain.Run
	var status, faults, resolutions string
	var startedAt, finishedAt sql.NullTime
	var documentsPath, faultsPath, runErr sql.NullString

	if err := rows.Scan(&run.ID, &run.Suffix, &status, &startedAt, &finishedAt,
		&run.Records, &run.Programs, &run.Documents, &run.Faults, &faults, &resolutions,
		&documentsPath, &faultsPath, &runErr); err != nil {
		return nil, fmt.Errorf("scanning run: %w", err)
	}

	byCategory, err := unmarshalCounts[domain.FaultCategory](faults)
	if err != nil {
		return nil, fmt.Errorf("unmarshaling fault counts: %w", err)
	}
	byMethod, err := unmarshalCounts[domain.ResolutionMethod](resolutions)
	if err != nil {
		return nil, fmt.Errorf("unmarshaling resolution counts: %w", err)
	}

	run.Status = domain.RunStatus(status)
	run.FaultsByCategory = byCategory
	run.Resolutions = byMethod
	run.DocumentsPath = documentsPath.String
	run.FaultsPath = faultsPath.String
	run.Error = runErr.String
	if startedAt.Valid {
		run.StartedAt = startedAt.Time
	}
	if finishedAt.Valid {
		run.FinishedAt = finishedAt.Time
	}

	return &run, nil
}
