package services

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/core/ports/driven"
	"github.com/custodia-labs/fresq/internal/logger"
)

// ReferenceData holds the read-only reference indexes of a run.
// It is built once per run and shared by every enrichment call.
type ReferenceData struct {
	years  []string
	census map[string]*censusYear

	occupational map[string][]domain.OccupationalRecord
	jobCodes     map[string][]domain.JobCode
}

// censusYear indexes the census rows of one academic year.
type censusYear struct {
	rows      []domain.CensusRow
	byCode    map[string][]int
	byProgram map[string][]int
}

// LoadReferenceData loads every reference dataset concurrently.
// Any failure aborts the load: a run never enriches against a half-loaded
// reference set.
func LoadReferenceData(
	ctx context.Context,
	census driven.CensusSource,
	occupational driven.OccupationalSource,
	jobCodes driven.JobCodeSource,
) (*ReferenceData, error) {
	defer logger.Timed("reference data load")()

	var (
		rows []domain.CensusRow
		occ  map[string][]domain.OccupationalRecord
		jobs map[string][]domain.JobCode
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if rows, err = census.LoadCensus(ctx); err != nil {
			return fmt.Errorf("%w: census: %w", domain.ErrReferenceDataUnavailable, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if occ, err = occupational.LoadOccupational(ctx); err != nil {
			return fmt.Errorf("%w: occupational registry: %w", domain.ErrReferenceDataUnavailable, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if jobs, err = jobCodes.LoadJobCodes(ctx); err != nil {
			return fmt.Errorf("%w: job codes: %w", domain.ErrReferenceDataUnavailable, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	ref := NewReferenceData(rows, occ, jobs)
	logger.Info("Loaded %d census rows over %d years, %d occupational keys, %d job-code keys",
		len(rows), len(ref.years), len(occ), len(jobs))
	return ref, nil
}

// NewReferenceData indexes already-loaded datasets.
func NewReferenceData(
	rows []domain.CensusRow,
	occupational map[string][]domain.OccupationalRecord,
	jobCodes map[string][]domain.JobCode,
) *ReferenceData {
	ref := &ReferenceData{
		census:       make(map[string]*censusYear),
		occupational: occupational,
		jobCodes:     jobCodes,
	}

	for _, row := range rows {
		year, ok := ref.census[row.Year]
		if !ok {
			year = &censusYear{
				byCode:    make(map[string][]int),
				byProgram: make(map[string][]int),
			}
			ref.census[row.Year] = year
			ref.years = append(ref.years, row.Year)
		}
		i := len(year.rows)
		year.rows = append(year.rows, row)
		if row.ClassificationCode != "" {
			year.byCode[row.ClassificationCode] = append(year.byCode[row.ClassificationCode], i)
		}
		for _, id := range row.ProgramIDs {
			year.byProgram[id] = append(year.byProgram[id], i)
		}
	}
	sort.Strings(ref.years)

	return ref
}

// Years returns the census academic years, sorted.
func (r *ReferenceData) Years() []string {
	return r.years
}

// CensusCandidates returns the rows of a year whose classification code is
// one of codes or whose program ids contain naturalID, in census order.
// byID reports, per returned row, whether it matched on the natural id.
func (r *ReferenceData) CensusCandidates(year, naturalID string, codes []string) (rows []domain.CensusRow, byID []bool) {
	y, ok := r.census[year]
	if !ok {
		return nil, nil
	}

	matchedID := make(map[int]bool)
	for _, i := range y.byProgram[naturalID] {
		matchedID[i] = true
	}
	seen := make(map[int]bool, len(matchedID))
	for i := range matchedID {
		seen[i] = true
	}
	for _, code := range codes {
		for _, i := range y.byCode[code] {
			seen[i] = true
		}
	}

	indexes := make([]int, 0, len(seen))
	for i := range seen {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	for _, i := range indexes {
		rows = append(rows, y.rows[i])
		byID = append(byID, matchedID[i])
	}
	return rows, byID
}

// Occupational returns the occupational records of a key.
func (r *ReferenceData) Occupational(key string) []domain.OccupationalRecord {
	return r.occupational[key]
}

// JobCodes returns the job codes of a key.
func (r *ReferenceData) JobCodes(key string) []domain.JobCode {
	return r.jobCodes[key]
}
