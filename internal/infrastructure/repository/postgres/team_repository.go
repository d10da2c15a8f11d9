package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/diamond-odds/internal/domain/team"
	qb "github.com/riskibarqy/diamond-odds/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) List(ctx context.Context) ([]team.Team, error) {
	query, args, err := qb.Select("*").From("teams").OrderBy("name").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select teams query: %w", err)
	}

	var rows []teamTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select teams: %w", err)
	}

	out := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id int64) (team.Team, bool, error) {
	return r.getOne(ctx, "id", qb.Eq("id", id))
}

func (r *TeamRepository) GetByName(ctx context.Context, name string) (team.Team, bool, error) {
	return r.getOne(ctx, "name", qb.Eq("name", name))
}

func (r *TeamRepository) getOne(ctx context.Context, by string, cond qb.Condition) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").Where(cond).Limit(1).ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team by %s query: %w", by, err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by %s: %w", by, err)
	}
	return teamFromRow(row), true, nil
}

func (r *TeamRepository) UpsertTeams(ctx context.Context, items []team.Team) ([]team.Team, error) {
	if len(items) == 0 {
		return nil, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx upsert teams: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	out := make([]team.Team, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, fmt.Errorf("invalid team external_id=%d: %w", item.ExternalID, err)
		}

		query, args, err := qb.InsertModel("teams", teamInsertModel{
			ExternalID:   item.ExternalID,
			Name:         item.Name,
			Abbreviation: item.Abbreviation,
			City:         item.City,
			Division:     item.Division,
			League:       item.League,
		}, `ON CONFLICT (external_id)
DO UPDATE SET
    name = EXCLUDED.name,
    abbreviation = EXCLUDED.abbreviation,
    city = EXCLUDED.city,
    division = EXCLUDED.division,
    league = EXCLUDED.league,
    updated_at = NOW()
RETURNING *`)
		if err != nil {
			return nil, fmt.Errorf("build upsert team query: %w", err)
		}

		var row teamTableModel
		if err := tx.GetContext(ctx, &row, query, args...); err != nil {
			return nil, fmt.Errorf("upsert team external_id=%d: %w", item.ExternalID, err)
		}
		out = append(out, teamFromRow(row))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit upsert teams tx: %w", err)
	}
	return out, nil
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:           row.ID,
		ExternalID:   row.ExternalID,
		Name:         row.Name,
		Abbreviation: row.Abbreviation,
		City:         row.City,
		Division:     row.Division,
		League:       row.League,
	}
}
