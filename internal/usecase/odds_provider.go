package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/diamond-odds/internal/domain/market"
)

// ExternalOddsEvent is one upcoming game as reported by the odds feed.
// ID is the feed's own event id; it is optional and only used for log context.
type ExternalOddsEvent struct {
	ID           string
	HomeTeam     string             `validate:"required"`
	AwayTeam     string             `validate:"required,nefield=HomeTeam"`
	CommenceTime time.Time          `validate:"required"`
	Bookmakers   []market.Bookmaker `validate:"-"`
	// DecodeError is set when the event block itself could not be decoded.
	DecodeError string `validate:"-"`
	// Malformed lists bookmaker or market blocks dropped while decoding.
	Malformed []MalformedBlock `validate:"-"`
}

// MalformedBlock is a bookmaker block (Market empty) or a single market that
// failed to decode. The rest of the event is kept.
type MalformedBlock struct {
	Bookmaker string
	Market    string
	Reason    string
}

// ExternalOddsSnapshot is the whole-market response of one fetch.
type ExternalOddsSnapshot struct {
	Events []ExternalOddsEvent
	// Raw is the undecoded response body, archived per cycle.
	Raw               []byte
	RequestsRemaining string
	RequestsUsed      string
	FetchedAt         time.Time
}

type OddsProvider interface {
	FetchOdds(ctx context.Context) (ExternalOddsSnapshot, error)
}
