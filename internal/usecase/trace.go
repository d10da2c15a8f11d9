package usecase

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var usecaseTracer = otel.Tracer("diamond-odds/internal/usecase")
var usecaseNoopSpan = trace.SpanFromContext(context.Background())

// Span attribute keys shared by the odds usecases.
const (
	attrGameID     = "odds.game_id"
	attrTeamID     = "odds.team_id"
	attrTeamName   = "odds.team_name"
	attrOperation  = "odds.usecase"
	spanNamePrefix = "usecase."
)

// startUsecaseSpan only starts a span under a sampled parent. The operation
// attribute is the span name without the usecase prefix.
func startUsecaseSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ctx, usecaseNoopSpan
	}
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, usecaseNoopSpan
	}
	attrs = append(attrs, attribute.String(attrOperation, strings.TrimPrefix(name, spanNamePrefix)))
	return usecaseTracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func gameIDAttr(gameID int64) attribute.KeyValue {
	return attribute.Int64(attrGameID, gameID)
}
