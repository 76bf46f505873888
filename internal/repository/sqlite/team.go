package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/yci-attendance/attendance-backend/internal/domain/master/team"
	"github.com/yci-attendance/attendance-backend/internal/pkg/database"
)

type teamRepositoryImpl struct {
	db *database.SQLiteDB
}

func NewTeamRepository(db *database.SQLiteDB) team.TeamRepository {
	return &teamRepositoryImpl{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTeam(row rowScanner) (team.Team, error) {
	var (
		t                    team.Team
		description          sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&t.ID, &t.Name, &description, &createdAt, &updatedAt); err != nil {
		return team.Team{}, err
	}
	t.Description = stringPtr(description)

	var err error
	if t.CreatedAt, err = parseTime(createdAt); err != nil {
		return team.Team{}, err
	}
	if t.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return team.Team{}, err
	}
	return t, nil
}

// GetByID implements team.TeamRepository.
func (r *teamRepositoryImpl) GetByID(ctx context.Context, id string) (team.Team, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, description, created_at, updated_at FROM teams WHERE id = ?`, id)
	t, err := scanTeam(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return team.Team{}, team.ErrTeamNotFound
		}
		return team.Team{}, fmt.Errorf("failed to get team with id %s: %w", id, err)
	}
	return t, nil
}

// List implements team.TeamRepository.
func (r *teamRepositoryImpl) List(ctx context.Context) ([]team.Team, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, created_at, updated_at FROM teams ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	teams := make([]team.Team, 0)
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// Create implements team.TeamRepository.
func (r *teamRepositoryImpl) Create(ctx context.Context, newTeam team.Team) (team.Team, error) {
	now := time.Now()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO teams (id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		newTeam.ID, newTeam.Name, nullString(newTeam.Description), formatTime(now), formatTime(now),
	)
	if err != nil {
		return team.Team{}, constraintError(err, map[string]error{"teams.name": team.ErrTeamNameExists})
	}
	newTeam.CreatedAt, newTeam.UpdatedAt = now, now
	return newTeam, nil
}
