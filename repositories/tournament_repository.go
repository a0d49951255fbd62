package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/arena/models"
)

var (
	ErrTournamentNotFound    = errors.New("tournament not found")
	ErrTournamentFull        = errors.New("tournament is full")
	ErrTournamentGameInvalid = errors.New("tournament game does not exist")
)

type TournamentRepository interface {
	Create(ctx context.Context, t *models.Tournament) error
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter models.TournamentFilter) ([]*models.Tournament, error)
	Update(ctx context.Context, t *models.Tournament) error
	UpdateBannerKey(ctx context.Context, id int, key *string) error
	Delete(ctx context.Context, id int) error
	// IncrementParticipants takes one seat; ErrTournamentFull when none is left.
	IncrementParticipants(ctx context.Context, id int) error
	ListDueForStatusUpdate(ctx context.Context, now time.Time) ([]*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db SQLExecutor
}

func NewPostgresTournamentRepository(db SQLExecutor) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

const tournamentColumns = `id, title, description, game_id, entry_fee, prize_pool, max_participants, current_participants, status, start_time, end_time, rules, banner_key, created_at`

func scanTournament(row interface{ Scan(dest ...interface{}) error }) (*models.Tournament, error) {
	var t models.Tournament
	var description, rules, bannerKey sql.NullString
	var endTime sql.NullTime
	err := row.Scan(
		&t.ID,
		&t.Title,
		&description,
		&t.GameID,
		&t.EntryFee,
		&t.PrizePool,
		&t.MaxParticipants,
		&t.CurrentParticipants,
		&t.Status,
		&t.StartTime,
		&endTime,
		&rules,
		&bannerKey,
		&t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		t.Description = &description.String
	}
	if rules.Valid {
		t.Rules = &rules.String
	}
	if bannerKey.Valid {
		t.BannerKey = &bannerKey.String
	}
	if endTime.Valid {
		t.EndTime = &endTime.Time
	}
	return &t, nil
}

func (r *postgresTournamentRepository) Create(ctx context.Context, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (title, description, game_id, entry_fee, prize_pool, max_participants, current_participants, status, start_time, end_time, rules)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.Title,
		t.Description,
		t.GameID,
		t.EntryFee,
		t.PrizePool,
		t.MaxParticipants,
		t.CurrentParticipants,
		t.Status,
		t.StartTime,
		t.EndTime,
		t.Rules,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		if constraint, ok := constraintError(err, pqForeignKeyViolation); ok && constraint == "tournaments_game_id_fkey" {
			return ErrTournamentGameInvalid
		}
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	t, err := scanTournament(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to get tournament %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) queryTournaments(ctx context.Context, query string, args ...interface{}) ([]*models.Tournament, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t, err := scanTournament(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", err)
		}
		tournaments = append(tournaments, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tournament rows: %w", err)
	}
	return tournaments, nil
}

func (r *postgresTournamentRepository) List(ctx context.Context, filter models.TournamentFilter) ([]*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments
		WHERE ($1::text IS NULL OR status = $1) AND ($2::int IS NULL OR game_id = $2)
		ORDER BY start_time ASC, id ASC
		LIMIT $3 OFFSET $4`

	var status, gameID interface{}
	if filter.Status != nil {
		status = string(*filter.Status)
	}
	if filter.GameID != nil {
		gameID = *filter.GameID
	}
	limit := normalizeLimit(filter.Limit, defaultListLimit, maxListLimit)
	return r.queryTournaments(ctx, query, status, gameID, limit, max(filter.Offset, 0))
}

func (r *postgresTournamentRepository) Update(ctx context.Context, t *models.Tournament) error {
	query := `
		UPDATE tournaments
		SET title = $1, description = $2, game_id = $3, entry_fee = $4, prize_pool = $5,
			max_participants = $6, status = $7, start_time = $8, end_time = $9, rules = $10
		WHERE id = $11`

	result, err := r.db.ExecContext(ctx, query,
		t.Title,
		t.Description,
		t.GameID,
		t.EntryFee,
		t.PrizePool,
		t.MaxParticipants,
		t.Status,
		t.StartTime,
		t.EndTime,
		t.Rules,
		t.ID,
	)
	if err != nil {
		if constraint, ok := constraintError(err, pqForeignKeyViolation); ok && constraint == "tournaments_game_id_fkey" {
			return ErrTournamentGameInvalid
		}
		return fmt.Errorf("failed to update tournament %d: %w", t.ID, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateBannerKey(ctx context.Context, id int, key *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE tournaments SET banner_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return fmt.Errorf("failed to update banner key for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tournaments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) IncrementParticipants(ctx context.Context, id int) error {
	query := `UPDATE tournaments SET current_participants = current_participants + 1 WHERE id = $1 AND current_participants < max_participants`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment participants for tournament %d: %w", id, err)
	}
	if err := checkAffectedRows(result, ErrTournamentFull); err == nil || !errors.Is(err, ErrTournamentFull) {
		return err
	}

	exists, err := rowExists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM tournaments WHERE id = $1)`, id)
	if err != nil {
		return fmt.Errorf("failed to check tournament %d: %w", id, err)
	}
	if !exists {
		return ErrTournamentNotFound
	}
	return ErrTournamentFull
}

func (r *postgresTournamentRepository) ListDueForStatusUpdate(ctx context.Context, now time.Time) ([]*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments
		WHERE (status = 'upcoming' AND start_time <= $1)
			OR (status = 'live' AND end_time IS NOT NULL AND end_time <= $1)
		ORDER BY id ASC`
	return r.queryTournaments(ctx, query, now)
}
