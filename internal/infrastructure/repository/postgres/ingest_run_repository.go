package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/diamond-odds/internal/domain/ingestrun"
	qb "github.com/riskibarqy/diamond-odds/internal/platform/querybuilder"
)

type IngestRunRepository struct {
	db *sqlx.DB
}

func NewIngestRunRepository(db *sqlx.DB) *IngestRunRepository {
	return &IngestRunRepository{db: db}
}

func (r *IngestRunRepository) Record(ctx context.Context, run ingestrun.Run) error {
	cycleID := strings.TrimSpace(run.CycleID)
	if cycleID == "" {
		return fmt.Errorf("ingest run cycle id is required")
	}
	trigger := run.Trigger
	if trigger == "" {
		trigger = ingestrun.TriggerSchedule
	}

	query, args, err := qb.InsertModel("ingest_runs", ingestRunInsertModel{
		CycleID:          cycleID,
		Trigger:          string(trigger),
		Status:           string(run.Status),
		GamesSeen:        run.GamesSeen,
		GamesProcessed:   run.GamesProcessed,
		GamesSkipped:     run.GamesSkipped,
		SnapshotsWritten: run.SnapshotsWritten,
		PropsWritten:     run.PropsWritten,
		ErrorCount:       run.ErrorCount,
		ErrorMessage:     run.ErrorMessage,
		TraceID:          run.TraceID,
		SpanID:           run.SpanID,
		StartedAt:        run.StartedAt.UTC(),
		FinishedAt:       run.FinishedAt.UTC(),
	}, `ON CONFLICT (cycle_id)
DO UPDATE SET
    status = EXCLUDED.status,
    games_seen = EXCLUDED.games_seen,
    games_processed = EXCLUDED.games_processed,
    games_skipped = EXCLUDED.games_skipped,
    snapshots_written = EXCLUDED.snapshots_written,
    props_written = EXCLUDED.props_written,
    error_count = EXCLUDED.error_count,
    error_message = EXCLUDED.error_message,
    trace_id = EXCLUDED.trace_id,
    span_id = EXCLUDED.span_id,
    finished_at = EXCLUDED.finished_at`)
	if err != nil {
		return fmt.Errorf("build upsert ingest run query: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert ingest run cycle_id=%s status=%s: %w", cycleID, run.Status, err)
	}
	return nil
}

func (r *IngestRunRepository) ListRecent(ctx context.Context, limit int) ([]ingestrun.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query, args, err := qb.Select("*").From("ingest_runs").
		OrderBy("started_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select recent ingest runs query: %w", err)
	}

	var rows []ingestRunTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select recent ingest runs: %w", err)
	}

	out := make([]ingestrun.Run, 0, len(rows))
	for _, row := range rows {
		out = append(out, ingestrun.Run{
			CycleID:          row.CycleID,
			Trigger:          ingestrun.Trigger(row.Trigger),
			Status:           ingestrun.Status(row.Status),
			GamesSeen:        row.GamesSeen,
			GamesProcessed:   row.GamesProcessed,
			GamesSkipped:     row.GamesSkipped,
			SnapshotsWritten: row.SnapshotsWritten,
			PropsWritten:     row.PropsWritten,
			ErrorCount:       row.ErrorCount,
			ErrorMessage:     row.ErrorMessage,
			TraceID:          row.TraceID,
			SpanID:           row.SpanID,
			StartedAt:        row.StartedAt.UTC(),
			FinishedAt:       row.FinishedAt.UTC(),
		})
	}
	return out, nil
}
