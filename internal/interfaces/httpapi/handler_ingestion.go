package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/riskibarqy/diamond-odds/internal/usecase"
)

func (h *Handler) GetIngestionStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetIngestionStatus")
	defer span.End()

	limit, err := parseLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	req := ingestionStatusRequest{Limit: limit}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	out := ingestionStatusDTO{Runs: []ingestionRunDTO{}}
	if h.job != nil {
		out.Scheduler = schedulerStatusDTO{
			Running:      h.job.SchedulerRunning(),
			InFlight:     h.job.InFlight(),
			DroppedTicks: h.job.DroppedTicks(),
		}
	}

	if h.runs != nil {
		runs, err := h.runs.LatestRuns(ctx, req.Limit)
		switch {
		case errors.Is(err, usecase.ErrDependencyUnavailable):
			// No run log configured; scheduler state alone is still useful.
		case err != nil:
			h.logger.WarnContext(ctx, "list ingestion runs failed", "error", err)
			writeError(ctx, w, err)
			return
		default:
			for _, run := range runs {
				out.Runs = append(out.Runs, ingestionRunToDTO(run))
			}
		}
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) RunIngestOddsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunIngestOddsJob")
	defer span.End()

	if h.job == nil {
		writeError(ctx, w, fmt.Errorf("%w: odds ingestion is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	result, err := h.job.RunNow(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "manual odds ingestion failed", "cycle_id", result.CycleID, "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "manual odds ingestion finished",
		"cycle_id", result.CycleID,
		"snapshots_written", result.SnapshotsWritten,
		"error_count", len(result.Errors),
	)
	writeSuccess(ctx, w, http.StatusOK, cycleResultToDTO(result))
}
