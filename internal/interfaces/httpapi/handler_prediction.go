package httpapi

import (
	"errors"
	"net/http"

	"github.com/riskibarqy/diamond-odds/internal/usecase"
)

func (h *Handler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPrediction")
	defer span.End()

	req, err := h.parseGameRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.predictions.Get(ctx, req.GameID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(item))
}

func (h *Handler) GeneratePrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GeneratePrediction")
	defer span.End()

	req, err := h.parseGameRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.predictions.Generate(ctx, req.GameID)
	if err != nil {
		if !errors.Is(err, usecase.ErrInsufficientData) && !errors.Is(err, usecase.ErrNotFound) {
			h.logger.ErrorContext(ctx, "generate prediction failed", "game_id", req.GameID, "error", err)
		}
		writeError(ctx, w, err)
		return
	}
	writeSuccess(ctx, w, http.StatusCreated, predictionToDTO(item))
}
