package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yci-attendance/attendance-backend/internal/domain/master/team"
	"github.com/yci-attendance/attendance-backend/internal/pkg/database"
)

type teamRepositoryImpl struct {
	db *database.DB
}

func NewTeamRepository(db *database.DB) team.TeamRepository {
	return &teamRepositoryImpl{db: db}
}

// GetByID implements team.TeamRepository.
func (r *teamRepositoryImpl) GetByID(ctx context.Context, id string) (team.Team, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM teams WHERE id = $1`

	var t team.Team
	err := r.db.QueryRow(ctx, query, id).Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return team.Team{}, team.ErrTeamNotFound
		}
		return team.Team{}, fmt.Errorf("failed to get team with id %s: %w", id, err)
	}
	t.CreatedAt, t.UpdatedAt = asLocal(t.CreatedAt), asLocal(t.UpdatedAt)
	return t, nil
}

// List implements team.TeamRepository.
func (r *teamRepositoryImpl) List(ctx context.Context) ([]team.Team, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM teams ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]team.Team, 0)
	for rows.Next() {
		var t team.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		t.CreatedAt, t.UpdatedAt = asLocal(t.CreatedAt), asLocal(t.UpdatedAt)
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// Create implements team.TeamRepository.
func (r *teamRepositoryImpl) Create(ctx context.Context, newTeam team.Team) (team.Team, error) {
	query := `
		INSERT INTO teams (id, name, description)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, newTeam.ID, newTeam.Name, newTeam.Description).
		Scan(&newTeam.CreatedAt, &newTeam.UpdatedAt)
	if err != nil {
		return team.Team{}, constraintError(err, map[string]error{"teams_name_key": team.ErrTeamNameExists})
	}
	newTeam.CreatedAt, newTeam.UpdatedAt = asLocal(newTeam.CreatedAt), asLocal(newTeam.UpdatedAt)
	return newTeam, nil
}
