package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/arena/models"
)

var ErrResultConflict = errors.New("result for this user already recorded")

type ResultRepository interface {
	Create(ctx context.Context, result *models.TournamentResult) error
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.TournamentResult, error)
	CountByTournament(ctx context.Context, tournamentID int) (int, error)
}

type postgresResultRepository struct {
	db SQLExecutor
}

func NewPostgresResultRepository(db SQLExecutor) ResultRepository {
	return &postgresResultRepository{db: db}
}

func (r *postgresResultRepository) Create(ctx context.Context, res *models.TournamentResult) error {
	query := `
		INSERT INTO tournament_results (tournament_id, user_id, team_id, position, kills, points, prize_won)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		res.TournamentID,
		res.UserID,
		res.TeamID,
		res.Position,
		res.Kills,
		res.Points,
		res.PrizeWon,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		if constraint, ok := constraintError(err, pqUniqueViolation); ok && constraint == "tournament_results_tournament_id_user_id_key" {
			return ErrResultConflict
		}
		if constraint, ok := constraintError(err, pqForeignKeyViolation); ok {
			switch constraint {
			case "tournament_results_tournament_id_fkey":
				return ErrTournamentNotFound
			case "tournament_results_user_id_fkey":
				return ErrUserNotFound
			case "tournament_results_team_id_fkey":
				return ErrTeamNotFound
			}
		}
		return fmt.Errorf("failed to create tournament result: %w", err)
	}
	return nil
}

func (r *postgresResultRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.TournamentResult, error) {
	query := `
		SELECT id, tournament_id, user_id, team_id, position, kills, points, prize_won, created_at
		FROM tournament_results
		WHERE tournament_id = $1
		ORDER BY position ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list results for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	results := make([]*models.TournamentResult, 0)
	for rows.Next() {
		var res models.TournamentResult
		var teamID sql.NullInt64
		if err := rows.Scan(&res.ID, &res.TournamentID, &res.UserID, &teamID, &res.Position, &res.Kills, &res.Points, &res.PrizeWon, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}
		if teamID.Valid {
			id := int(teamID.Int64)
			res.TeamID = &id
		}
		results = append(results, &res)
	}
	return results, rows.Err()
}

func (r *postgresResultRepository) CountByTournament(ctx context.Context, tournamentID int) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tournament_results WHERE tournament_id = $1`, tournamentID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count results for tournament %d: %w", tournamentID, err)
	}
	return n, nil
}
