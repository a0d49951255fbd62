package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/arena/models"
)

var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrAlreadyJoined       = errors.New("user has already joined this tournament")
)

type ParticipantRepository interface {
	Create(ctx context.Context, p *models.TournamentParticipant) error
	Get(ctx context.Context, tournamentID, userID int) (*models.TournamentParticipant, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.TournamentParticipant, error)
	ListTournamentsByUser(ctx context.Context, userID int) ([]*models.Tournament, error)
	Count(ctx context.Context) (int, error)
}

type postgresParticipantRepository struct {
	db SQLExecutor
}

func NewPostgresParticipantRepository(db SQLExecutor) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) Create(ctx context.Context, p *models.TournamentParticipant) error {
	query := `
		INSERT INTO tournament_participants (tournament_id, user_id, team_id)
		VALUES ($1, $2, $3)
		RETURNING id, joined_at`

	err := r.db.QueryRowContext(ctx, query, p.TournamentID, p.UserID, p.TeamID).Scan(&p.ID, &p.JoinedAt)
	if err != nil {
		if constraint, ok := constraintError(err, pqUniqueViolation); ok && constraint == "tournament_participants_tournament_id_user_id_key" {
			return ErrAlreadyJoined
		}
		if constraint, ok := constraintError(err, pqForeignKeyViolation); ok {
			switch constraint {
			case "tournament_participants_tournament_id_fkey":
				return ErrTournamentNotFound
			case "tournament_participants_user_id_fkey":
				return ErrUserNotFound
			case "tournament_participants_team_id_fkey":
				return ErrTeamNotFound
			}
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

func scanParticipant(row interface{ Scan(dest ...interface{}) error }) (*models.TournamentParticipant, error) {
	var p models.TournamentParticipant
	var teamID sql.NullInt64
	if err := row.Scan(&p.ID, &p.TournamentID, &p.UserID, &teamID, &p.JoinedAt); err != nil {
		return nil, err
	}
	if teamID.Valid {
		id := int(teamID.Int64)
		p.TeamID = &id
	}
	return &p, nil
}

func (r *postgresParticipantRepository) Get(ctx context.Context, tournamentID, userID int) (*models.TournamentParticipant, error) {
	query := `SELECT id, tournament_id, user_id, team_id, joined_at FROM tournament_participants WHERE tournament_id = $1 AND user_id = $2`
	p, err := scanParticipant(r.db.QueryRowContext(ctx, query, tournamentID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to get participant: %w", err)
	}
	return p, nil
}

func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, tournamentID int) ([]*models.TournamentParticipant, error) {
	query := `SELECT id, tournament_id, user_id, team_id, joined_at FROM tournament_participants WHERE tournament_id = $1 ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list participants for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	participants := make([]*models.TournamentParticipant, 0)
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", err)
		}
		participants = append(participants, p)
	}
	return participants, rows.Err()
}

func (r *postgresParticipantRepository) ListTournamentsByUser(ctx context.Context, userID int) ([]*models.Tournament, error) {
	query := `SELECT t.id, t.title, t.description, t.game_id, t.entry_fee, t.prize_pool, t.max_participants,
			t.current_participants, t.status, t.start_time, t.end_time, t.rules, t.banner_key, t.created_at
		FROM tournaments t
		JOIN tournament_participants p ON p.tournament_id = t.id
		WHERE p.user_id = $1
		ORDER BY t.start_time ASC, t.id ASC`
	return (&postgresTournamentRepository{db: r.db}).queryTournaments(ctx, query, userID)
}

func (r *postgresParticipantRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tournament_participants`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count participants: %w", err)
	}
	return n, nil
}
