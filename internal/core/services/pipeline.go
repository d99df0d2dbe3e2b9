package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/fresq/internal/core/domain"
	"github.com/custodia-labs/fresq/internal/core/ports/driven"
	"github.com/custodia-labs/fresq/internal/core/ports/driving"
	"github.com/custodia-labs/fresq/internal/logger"
)

// Ensure Pipeline implements the interface.
var _ driving.PipelineRunner = (*Pipeline)(nil)

// PipelineDeps are the collaborators of a pipeline run.
// RunStore and Normaliser are optional.
type PipelineDeps struct {
	Source         driven.RawSource
	Directory      driven.InstitutionDirectory
	Census         driven.CensusSource
	Occupational   driven.OccupationalSource
	JobCodes       driven.JobCodeSource
	Resolutions    driven.ResolutionStore
	Normaliser     driven.RecordNormaliser
	Formatter      driven.DocumentFormatter
	PostProcessors driven.PostProcessorPipeline
	Sink           driven.DocumentSink
	Runs           driven.RunStore
}

// Pipeline runs the full-rebuild transformation: grouping, resolution,
// enrichment, formatting. It owns the run session; nothing is shared
// between runs except the persisted resolution table.
type Pipeline struct {
	deps   PipelineDeps
	strict bool

	done  atomic.Int64
	total atomic.Int64

	now func() time.Time
}

// NewPipeline creates a pipeline.
func NewPipeline(deps PipelineDeps, settings domain.PipelineSettings) *Pipeline {
	return &Pipeline{deps: deps, strict: settings.StrictGrouping, now: time.Now}
}

// Progress returns the number of programs formatted in the current run.
func (p *Pipeline) Progress() (done, total int) {
	return int(p.done.Load()), int(p.total.Load())
}

// Run executes a run for suffix. Record-level faults are counted in the
// returned run; run-level faults abort it and are returned as errors,
// alongside the failed run.
func (p *Pipeline) Run(ctx context.Context, suffix string) (*domain.Run, error) {
	run := &domain.Run{
		ID:        uuid.New().String(),
		Suffix:    suffix,
		StartedAt: p.now(),
	}
	p.done.Store(0)
	p.total.Store(0)

	logger.Section("Run " + suffix)
	logger.Info("Starting run %s for suffix %s", run.ID, suffix)

	faults := NewFaultLog()
	err := p.execute(ctx, run, faults)

	run.FinishedAt = p.now()
	run.Faults = faults.Len()
	run.FaultsByCategory = faults.CountByCategory()
	if err != nil {
		run.Status = domain.RunFailed
		run.Error = err.Error()
		logger.Error("Run %s failed: %v", run.ID, err)
	} else {
		run.Status = domain.RunSucceeded
		logger.Info("Run %s complete: %d documents, %d faults", run.ID, run.Documents, run.Faults)
	}

	if p.deps.Runs != nil {
		if saveErr := p.deps.Runs.SaveRun(ctx, *run); saveErr != nil {
			err = errors.Join(err, fmt.Errorf("save run: %w", saveErr))
		}
	}
	return run, err
}

//nolint:gocyclo // Orchestration function with necessary sequential steps
func (p *Pipeline) execute(ctx context.Context, run *domain.Run, faults *FaultLog) error {
	// 1. Reference data and resolution table
	logger.Section("Reference data")
	ref, err := LoadReferenceData(ctx, p.deps.Census, p.deps.Occupational, p.deps.JobCodes)
	if err != nil {
		return err
	}
	table, err := p.deps.Resolutions.Load(ctx)
	if err != nil {
		return fmt.Errorf("load resolution table: %w", err)
	}
	logger.Info("Loaded %d persisted resolutions", len(table))

	// 2. Raw records
	records, err := p.deps.Source.Records(ctx, run.Suffix)
	if err != nil {
		return fmt.Errorf("read raw records: %w", err)
	}
	run.Records = len(records)

	if p.deps.Normaliser != nil {
		folded := 0
		for i := range records {
			folded += p.deps.Normaliser.Normalise(&records[i])
		}
		logger.Debug("Folded references of %d etapes", folded)
	}

	// 3. Grouping
	logger.Section("Grouping")
	programs, err := NewGrouper(faults, p.strict).Group(records)
	if err != nil {
		return err
	}
	run.Programs = len(programs)
	p.total.Store(int64(len(programs)))

	// 4. Enrichment and formatting, in input order
	logger.Section("Enrichment")
	resolver := NewResolver(p.deps.Directory, table, faults)
	enricher := NewEnricher(resolver, ref, faults)

	docs := make([]domain.Document, 0, len(programs))
	for _, program := range programs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := enricher.Enrich(ctx, program); err != nil {
			return err
		}

		doc, err := p.deps.Formatter.FormatDocument(program)
		if err != nil {
			return fmt.Errorf("format %s: %w", program.NaturalID, err)
		}
		if p.deps.PostProcessors != nil {
			if doc, err = p.deps.PostProcessors.Process(ctx, doc); err != nil {
				return fmt.Errorf("post-process %s: %w", program.NaturalID, err)
			}
		}
		docs = append(docs, doc)

		if n := p.done.Add(1); n%2000 == 0 {
			logger.Debug("Processed %d/%d programs", n, len(programs))
		}
	}
	run.Documents = len(docs)
	run.Resolutions = resolver.Counts()

	// 5. Output
	logger.Section("Output")
	artifacts, err := p.deps.Sink.Write(ctx, run.Suffix, docs, faults.Faults())
	if err != nil {
		return fmt.Errorf("write documents: %w", err)
	}
	run.DocumentsPath = artifacts.DocumentsPath
	run.FaultsPath = artifacts.FaultsPath

	// 6. Resolution table, replaced as a whole
	if err := p.deps.Resolutions.Replace(ctx, resolver.Table()); err != nil {
		return fmt.Errorf("persist resolution table: %w", err)
	}
	logger.Info("Persisted resolution table (%d new entries)", resolver.Added())

	return nil
}
