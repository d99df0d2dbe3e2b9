package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/core/ports/driven"
)

// resolutionStore implements driven.ResolutionStore.
type resolutionStore struct {
	store *Store
}

var _ driven.ResolutionStore = (*resolutionStore)(nil)

// Load returns the persisted resolution table.
func (s *resolutionStore) Load(ctx context.Context) (map[string]domain.InstitutionIdentity, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT code, method, matched_id, matched_name, matched_geoloc,
		       resolved_id, resolved_name, resolved_geoloc
		FROM resolutions
	`)
	if err != nil {
		return nil, fmt.Errorf("querying resolutions: %w", err)
	}
	defer rows.Close()

	table := make(map[string]domain.InstitutionIdentity)
	for rows.Next() {
		var id domain.InstitutionIdentity
		var method string
		var matchedID, matchedName, matchedGeoloc sql.NullString
		var resolvedID, resolvedName, resolvedGeoloc sql.NullString
		if err := rows.Scan(&id.Code, &method, &matchedID, &matchedName, &matchedGeoloc,
			&resolvedID, &resolvedName, &resolvedGeoloc); err != nil {
			return nil, fmt.Errorf("scanning resolution: %w", err)
		}
		id.Method = domain.ResolutionMethod(method)
		id.Matched = structureRef(matchedID, matchedName, matchedGeoloc)
		id.Resolved = structureRef(resolvedID, resolvedName, resolvedGeoloc)
		table[id.Code] = id
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating resolutions: %w", err)
	}

	return table, nil
}

// Replace swaps the whole table in one transaction.
func (s *resolutionStore) Replace(ctx context.Context, table map[string]domain.InstitutionIdentity) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM resolutions"); err != nil {
		return fmt.Errorf("clearing resolutions: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO resolutions (code, method, matched_id, matched_name, matched_geoloc,
		                         resolved_id, resolved_name, resolved_geoloc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for code, id := range table {
		matchedID, matchedName, matchedGeoloc := refColumns(id.Matched)
		resolvedID, resolvedName, resolvedGeoloc := refColumns(id.Resolved)
		if _, err := stmt.ExecContext(ctx, code, string(id.Method),
			matchedID, matchedName, matchedGeoloc,
			resolvedID, resolvedName, resolvedGeoloc); err != nil {
			return fmt.Errorf("saving resolution %s: %w", code, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func refColumns(ref *domain.StructureRef) (id, name, geoloc sql.NullString) {
	if ref == nil {
		return
	}
	return nullString(ref.ID), nullString(ref.Name), nullString(ref.Geoloc)
}

func structureRef(id, name, geoloc sql.NullString) *domain.StructureRef {
	if !id.Valid {
		return nil
	}
	return &domain.StructureRef{ID: id.String, Name: name.String, Geoloc: geoloc.String}
}
