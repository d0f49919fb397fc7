package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Jose-Ibz/VIM/internal/cache"
	"github.com/Jose-Ibz/VIM/internal/domain"
	"github.com/Jose-Ibz/VIM/internal/engine"
	"github.com/Jose-Ibz/VIM/internal/ingest"
	"github.com/Jose-Ibz/VIM/internal/snapshot"
)

// RunOptions tunes a single computation pass.
type RunOptions struct {
	// AsOf anchors the campaign window and the snapshot month. Zero means
	// the current time.
	AsOf time.Time
	// Snapshot forces the monthly snapshot on or off. Nil selects the
	// default trigger: the last day of the month.
	Snapshot *bool
}

// RunService runs the whole pipeline on one uploaded dataset and keeps the
// result available for the download endpoints. A run either completes with
// every report table or fails as a whole; no partial artifacts survive.
type RunService struct {
	engine    *engine.Engine
	store     cache.RunStore
	snapshots *snapshot.Store
}

func NewRunService(eng *engine.Engine, store cache.RunStore, snapshots *snapshot.Store) *RunService {
	return &RunService{engine: eng, store: store, snapshots: snapshots}
}

// Process reads one inventory export and produces the complete report set.
func (s *RunService) Process(ctx context.Context, r io.Reader, opts RunOptions) (*domain.RunResult, error) {
	asOf := opts.AsOf
	if asOf.IsZero() {
		asOf = time.Now()
	}

	ds, err := ingest.ReadInventory(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read inventory export: %w", err)
	}

	result, err := s.engine.Run(ctx, ds, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to compute reports: %w", err)
	}

	snapshotPath := ""
	takeSnapshot := snapshot.IsMonthEnd(asOf)
	if opts.Snapshot != nil {
		takeSnapshot = *opts.Snapshot
	}
	if takeSnapshot && s.snapshots != nil {
		path, written, err := s.snapshots.Write(ctx, asOf, result.Records, ds.SalesColumns())
		if err != nil {
			return nil, fmt.Errorf("failed to write snapshot: %w", err)
		}
		snapshotPath = path
		if written {
			log.Info().Str("path", path).Msg("monthly snapshot written")
		}
	}

	runResult := &domain.RunResult{
		Summary: domain.RunSummary{
			ID:             uuid.NewString(),
			ProcessedAt:    asOf,
			Encoding:       ds.Encoding,
			ItemCount:      len(result.Records),
			NormalCount:    len(result.Reports.Normal),
			CampaignCount:  len(result.Reports.Campaign),
			ExceptionCount: len(result.Reports.Exception),
			AnomalyCount:   len(result.Reports.Anomalies),
			CampaignActive: result.CampaignActive,
			SnapshotPath:   snapshotPath,
			KPI:            result.Reports.KPI,
		},
		Reports: result.Reports,
	}

	if err := s.store.Save(ctx, runResult); err != nil {
		return nil, fmt.Errorf("failed to store run result: %w", err)
	}

	log.Info().
		Str("run_id", runResult.Summary.ID).
		Str("encoding", ds.Encoding).
		Int("items", runResult.Summary.ItemCount).
		Int("normal", runResult.Summary.NormalCount).
		Int("campaign", runResult.Summary.CampaignCount).
		Int("exception", runResult.Summary.ExceptionCount).
		Bool("campaign_active", runResult.Summary.CampaignActive).
		Msg("run completed")

	return runResult, nil
}

// Get returns a stored run result by id.
func (s *RunService) Get(ctx context.Context, id string) (*domain.RunResult, bool, error) {
	return s.store.Get(ctx, id)
}
