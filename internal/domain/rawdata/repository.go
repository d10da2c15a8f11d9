package rawdata

import "context"

type Repository interface {
	// UpsertMany stores payloads keyed by (source, entity_type, entity_key).
	UpsertMany(ctx context.Context, items []Payload) error
}
