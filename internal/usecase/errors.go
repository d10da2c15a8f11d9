package usecase

import crerr "github.com/cockroachdb/errors"

var (
	ErrInvalidInput          = crerr.New("invalid input")
	ErrNotFound              = crerr.New("resource not found")
	ErrUnauthorized          = crerr.New("unauthorized")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")

	// ErrTeamNotFound is returned when no matcher recognises a feed team name.
	ErrTeamNotFound = crerr.New("team not found")
	// ErrInsufficientData means a team has too few final games to build features.
	ErrInsufficientData = crerr.New("insufficient data")
	// ErrScorerFailed covers every scorer failure: exit code, timeout, bad output.
	ErrScorerFailed = crerr.New("scorer failed")
	// ErrCycleInFlight is returned when a manual trigger overlaps a running cycle.
	ErrCycleInFlight = crerr.New("ingestion cycle already in flight")
	// ErrLeaseUnavailable means the cross-replica ingestion lease could not be
	// taken: another replica holds it or the lease store is down.
	ErrLeaseUnavailable = crerr.New("ingestion lease unavailable")
)
