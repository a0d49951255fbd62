package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/arena/models"
)

var (
	ErrTeamNotFound         = errors.New("team not found")
	ErrTeamNameConflict     = errors.New("team name is already taken")
	ErrTeamJoinCodeConflict = errors.New("team join code conflict")
	ErrTeamFull             = errors.New("team is full")
	ErrAlreadyMember        = errors.New("user is already a member of this team")
	ErrTeamMemberNotFound   = errors.New("team member not found")
)

type TeamRepository interface {
	Create(ctx context.Context, team *models.Team) error
	GetByID(ctx context.Context, id int) (*models.Team, error)
	GetByJoinCode(ctx context.Context, code string) (*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)
	ListByUser(ctx context.Context, userID int) ([]*models.Team, error)
	Update(ctx context.Context, team *models.Team) error
	Delete(ctx context.Context, id int) error
	// IncrementMembers takes one slot; ErrTeamFull when none is left.
	IncrementMembers(ctx context.Context, id int) error
	AddMember(ctx context.Context, member *models.TeamMember) error
	GetMember(ctx context.Context, teamID, userID int) (*models.TeamMember, error)
	ListMembers(ctx context.Context, teamID int) ([]*models.TeamMember, error)
}

type postgresTeamRepository struct {
	db SQLExecutor
}

func NewPostgresTeamRepository(db SQLExecutor) TeamRepository {
	return &postgresTeamRepository{db: db}
}

const teamColumns = `t.id, t.name, t.captain_id, t.max_members, t.current_members, t.join_code, t.wins, t.matches_played, t.created_at`

func scanTeam(row interface{ Scan(dest ...interface{}) error }) (*models.Team, error) {
	var t models.Team
	err := row.Scan(&t.ID, &t.Name, &t.CaptainID, &t.MaxMembers, &t.CurrentMembers, &t.JoinCode, &t.Wins, &t.MatchesPlayed, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func mapTeamConstraintError(err error) error {
	if constraint, ok := constraintError(err, pqUniqueViolation); ok {
		switch constraint {
		case "teams_name_lower_key", "teams_name_key":
			return ErrTeamNameConflict
		case "teams_join_code_key":
			return ErrTeamJoinCodeConflict
		}
	}
	if constraint, ok := constraintError(err, pqForeignKeyViolation); ok && constraint == "teams_captain_id_fkey" {
		return ErrUserNotFound
	}
	return err
}

func (r *postgresTeamRepository) Create(ctx context.Context, team *models.Team) error {
	query := `
		INSERT INTO teams (name, captain_id, max_members, current_members, join_code, wins, matches_played)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		team.Name,
		team.CaptainID,
		team.MaxMembers,
		team.CurrentMembers,
		team.JoinCode,
		team.Wins,
		team.MatchesPlayed,
	).Scan(&team.ID, &team.CreatedAt)
	if err != nil {
		if mapped := mapTeamConstraintError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams t WHERE ` + where
	team, err := scanTeam(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

func (r *postgresTeamRepository) GetByID(ctx context.Context, id int) (*models.Team, error) {
	return r.getOne(ctx, "t.id = $1", id)
}

func (r *postgresTeamRepository) GetByJoinCode(ctx context.Context, code string) (*models.Team, error) {
	return r.getOne(ctx, "t.join_code = $1", code)
}

func (r *postgresTeamRepository) queryTeams(ctx context.Context, query string, args ...interface{}) ([]*models.Team, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query teams: %w", err)
	}
	defer rows.Close()

	teams := make([]*models.Team, 0)
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team row: %w", err)
		}
		teams = append(teams, team)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating team rows: %w", err)
	}
	return teams, nil
}

func (r *postgresTeamRepository) List(ctx context.Context) ([]*models.Team, error) {
	return r.queryTeams(ctx, `SELECT `+teamColumns+` FROM teams t ORDER BY t.id ASC`)
}

func (r *postgresTeamRepository) ListByUser(ctx context.Context, userID int) ([]*models.Team, error) {
	query := `SELECT ` + teamColumns + ` FROM teams t
		JOIN team_members m ON m.team_id = t.id
		WHERE m.user_id = $1
		ORDER BY t.id ASC`
	return r.queryTeams(ctx, query, userID)
}

func (r *postgresTeamRepository) Update(ctx context.Context, team *models.Team) error {
	query := `
		UPDATE teams
		SET name = $1, max_members = $2, wins = $3, matches_played = $4
		WHERE id = $5`

	result, err := r.db.ExecContext(ctx, query, team.Name, team.MaxMembers, team.Wins, team.MatchesPlayed, team.ID)
	if err != nil {
		if mapped := mapTeamConstraintError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to update team %d: %w", team.ID, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete team %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTeamNotFound)
}

func (r *postgresTeamRepository) IncrementMembers(ctx context.Context, id int) error {
	query := `UPDATE teams SET current_members = current_members + 1 WHERE id = $1 AND current_members < max_members`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to increment members for team %d: %w", id, err)
	}
	if err := checkAffectedRows(result, ErrTeamFull); err == nil || !errors.Is(err, ErrTeamFull) {
		return err
	}

	exists, err := rowExists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM teams WHERE id = $1)`, id)
	if err != nil {
		return fmt.Errorf("failed to check team %d: %w", id, err)
	}
	if !exists {
		return ErrTeamNotFound
	}
	return ErrTeamFull
}

func (r *postgresTeamRepository) AddMember(ctx context.Context, member *models.TeamMember) error {
	query := `
		INSERT INTO team_members (team_id, user_id, role)
		VALUES ($1, $2, $3)
		RETURNING id, joined_at`

	err := r.db.QueryRowContext(ctx, query, member.TeamID, member.UserID, member.Role).Scan(&member.ID, &member.JoinedAt)
	if err != nil {
		if constraint, ok := constraintError(err, pqUniqueViolation); ok && constraint == "team_members_team_id_user_id_key" {
			return ErrAlreadyMember
		}
		if constraint, ok := constraintError(err, pqForeignKeyViolation); ok {
			switch constraint {
			case "team_members_team_id_fkey":
				return ErrTeamNotFound
			case "team_members_user_id_fkey":
				return ErrUserNotFound
			}
		}
		return fmt.Errorf("failed to add team member: %w", err)
	}
	return nil
}

func (r *postgresTeamRepository) GetMember(ctx context.Context, teamID, userID int) (*models.TeamMember, error) {
	query := `SELECT id, team_id, user_id, role, joined_at FROM team_members WHERE team_id = $1 AND user_id = $2`
	var m models.TeamMember
	err := r.db.QueryRowContext(ctx, query, teamID, userID).Scan(&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.JoinedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamMemberNotFound
		}
		return nil, fmt.Errorf("failed to get team member: %w", err)
	}
	return &m, nil
}

func (r *postgresTeamRepository) ListMembers(ctx context.Context, teamID int) ([]*models.TeamMember, error) {
	query := `SELECT id, team_id, user_id, role, joined_at FROM team_members WHERE team_id = $1 ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	members := make([]*models.TeamMember, 0)
	for rows.Next() {
		var m models.TeamMember
		if err := rows.Scan(&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team member row: %w", err)
		}
		members = append(members, &m)
	}
	return members, rows.Err()
}
