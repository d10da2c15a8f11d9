package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/diamond-odds/internal/config"
	"github.com/riskibarqy/diamond-odds/internal/domain/game"
	"github.com/riskibarqy/diamond-odds/internal/domain/ingestrun"
	"github.com/riskibarqy/diamond-odds/internal/domain/line"
	"github.com/riskibarqy/diamond-odds/internal/domain/player"
	"github.com/riskibarqy/diamond-odds/internal/domain/playerprop"
	"github.com/riskibarqy/diamond-odds/internal/domain/playerstats"
	"github.com/riskibarqy/diamond-odds/internal/domain/prediction"
	"github.com/riskibarqy/diamond-odds/internal/domain/rawdata"
	"github.com/riskibarqy/diamond-odds/internal/domain/team"
	"github.com/riskibarqy/diamond-odds/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/diamond-odds/internal/infrastructure/repository/postgres"
)

type repositories struct {
	teams       team.Repository
	players     player.Repository
	games       game.Repository
	lines       line.Repository
	props       playerprop.Repository
	stats       playerstats.Repository
	predictions prediction.Repository
	rawData     rawdata.Repository
	runs        ingestrun.Repository
}

func newRepositories(ctx context.Context, cfg config.Config) (repositories, *sqlx.DB, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		players := memory.NewPlayerRepository(nil)
		return repositories{
			teams:       memory.NewTeamRepository(memory.SeedTeams()),
			players:     players,
			games:       memory.NewGameRepository(nil),
			lines:       memory.NewLineRepository(),
			props:       memory.NewPlayerPropRepository(),
			stats:       memory.NewPlayerStatsRepository(players, nil),
			predictions: memory.NewPredictionRepository(),
			rawData:     memory.NewRawDataRepository(),
			runs:        memory.NewIngestRunRepository(),
		}, nil, nil
	case config.StorageDriverPostgres:
		db, err := OpenDB(ctx, cfg)
		if err != nil {
			return repositories{}, nil, err
		}
		return repositories{
			teams:       postgres.NewTeamRepository(db),
			players:     postgres.NewPlayerRepository(db),
			games:       postgres.NewGameRepository(db),
			lines:       postgres.NewLineRepository(db),
			props:       postgres.NewPlayerPropRepository(db),
			stats:       postgres.NewPlayerStatsRepository(db),
			predictions: postgres.NewPredictionRepository(db),
			rawData:     postgres.NewRawDataRepository(db),
			runs:        postgres.NewIngestRunRepository(db),
		}, db, nil
	default:
		return repositories{}, nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
