package httpapi

import (
	"net/http"
)

func (h *Handler) ListGameLines(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGameLines")
	defer span.End()

	gameReq, err := h.parseGameRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	limit, err := parseLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	req := gameLinesRequest{GameID: gameReq.GameID, Limit: limit}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	item, snapshots, err := h.odds.ListLines(ctx, req.GameID, req.Limit)
	if err != nil {
		h.logger.WarnContext(ctx, "list game lines failed", "game_id", req.GameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := gameLinesDTO{Game: gameToDTO(item), Lines: make([]lineSnapshotDTO, 0, len(snapshots))}
	for _, s := range snapshots {
		out.Lines = append(out.Lines, lineSnapshotToDTO(s))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListGameProps(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGameProps")
	defer span.End()

	req, err := h.parseGameRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	props, err := h.odds.ListProps(ctx, req.GameID)
	if err != nil {
		h.logger.WarnContext(ctx, "list game props failed", "game_id", req.GameID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]playerPropDTO, 0, len(props))
	for _, p := range props {
		out = append(out, playerPropToDTO(p))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
