package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerOddsRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/games/{gameID}/lines", handler.ListGameLines)
	mux.HandleFunc("GET /v1/games/{gameID}/props", handler.ListGameProps)
}

func registerPredictionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/predictions/games/{gameID}", handler.GetPrediction)
	mux.HandleFunc("POST /v1/predictions/games/{gameID}", handler.GeneratePrediction)
}

func registerIngestionRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/ingestion/status", handler.GetIngestionStatus)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	// Runs through the scheduler's single-flight guard, so it never overlaps a tick.
	mux.Handle("POST /v1/internal/jobs/ingest-odds", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunIngestOddsJob)))
}
