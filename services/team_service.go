package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/Dosada05/arena/events"
	"github.com/Dosada05/arena/models"
	"github.com/Dosada05/arena/repositories"
)

const (
	defaultTeamSize = 6
	maxTeamSize     = 100
)

type TeamService interface {
	Create(ctx context.Context, captainID int, input CreateTeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	List(ctx context.Context) ([]*models.Team, error)
	Update(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error)
	Delete(ctx context.Context, id int) error
	Join(ctx context.Context, teamID, userID int) (*models.TeamMember, error)
	JoinByCode(ctx context.Context, code string, userID int) (*models.TeamMember, error)
	ListMembers(ctx context.Context, teamID int) ([]*models.TeamMember, error)
	ListUserTeams(ctx context.Context, userID int) ([]*models.Team, error)
}

type CreateTeamInput struct {
	Name       string `json:"name"`
	MaxMembers int    `json:"maxMembers,omitempty"`
}

type UpdateTeamInput struct {
	Name          *string `json:"name,omitempty"`
	MaxMembers    *int    `json:"maxMembers,omitempty"`
	Wins          *int    `json:"wins,omitempty"`
	MatchesPlayed *int    `json:"matchesPlayed,omitempty"`
}

type teamService struct {
	store   repositories.Store
	effects SideEffects
}

func NewTeamService(store repositories.Store, effects SideEffects) TeamService {
	return &teamService{store: store, effects: effects.withDefaults()}
}

func validateTeam(t *models.Team) error {
	v := ValidationErrors{}
	n := utf8.RuneCountInString(t.Name)
	v.Check(n >= 2 && n <= 100, "name", "must be between 2 and 100 characters")
	v.Check(t.MaxMembers >= 1 && t.MaxMembers <= maxTeamSize, "maxMembers", fmt.Sprintf("must be between 1 and %d", maxTeamSize))
	v.Check(t.MaxMembers >= t.CurrentMembers, "maxMembers", "must not be less than current members")
	v.Check(t.Wins >= 0, "wins", "must not be negative")
	v.Check(t.MatchesPlayed >= t.Wins, "matchesPlayed", "must not be less than wins")
	return v.Err()
}

// Create создает команду; капитан становится первым участником.
func (s *teamService) Create(ctx context.Context, captainID int, input CreateTeamInput) (*models.Team, error) {
	if input.MaxMembers == 0 {
		input.MaxMembers = defaultTeamSize
	}
	base := models.Team{
		Name:           strings.TrimSpace(input.Name),
		CaptainID:      captainID,
		MaxMembers:     input.MaxMembers,
		CurrentMembers: 1,
	}
	if err := validateTeam(&base); err != nil {
		return nil, err
	}

	var team *models.Team
	var err error
	for attempt := 0; ; attempt++ {
		team, err = s.create(ctx, base)
		if !errors.Is(err, repositories.ErrTeamJoinCodeConflict) || attempt >= 4 {
			break
		}
	}
	if err != nil {
		return nil, translate(err, "create team")
	}

	s.effects.Logger.InfoContext(ctx, "Team created", slog.Int("team_id", team.ID), slog.Int("captain_id", captainID))
	return team, nil
}

func (s *teamService) create(ctx context.Context, base models.Team) (*models.Team, error) {
	code, err := randomCode(codeLength)
	if err != nil {
		return nil, fmt.Errorf("generate join code: %w", err)
	}
	team := base
	team.JoinCode = code

	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		if err := tx.Teams().Create(ctx, &team); err != nil {
			return err
		}
		return tx.Teams().AddMember(ctx, &models.TeamMember{TeamID: team.ID, UserID: team.CaptainID, Role: models.RoleCaptain})
	})
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.store.Teams().GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get team")
	}
	return team, nil
}

func (s *teamService) List(ctx context.Context) ([]*models.Team, error) {
	teams, err := s.store.Teams().List(ctx)
	if err != nil {
		return nil, translate(err, "list teams")
	}
	return teams, nil
}

func (s *teamService) Update(ctx context.Context, id int, input UpdateTeamInput) (*models.Team, error) {
	var updated *models.Team
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		team, err := tx.Teams().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if input.Name != nil {
			team.Name = strings.TrimSpace(*input.Name)
		}
		if input.MaxMembers != nil {
			team.MaxMembers = *input.MaxMembers
		}
		if input.Wins != nil {
			team.Wins = *input.Wins
		}
		if input.MatchesPlayed != nil {
			team.MatchesPlayed = *input.MatchesPlayed
		}
		if err := validateTeam(team); err != nil {
			return err
		}
		if err := tx.Teams().Update(ctx, team); err != nil {
			return err
		}
		updated = team
		return nil
	})
	if err != nil {
		return nil, translate(err, "update team")
	}
	return updated, nil
}

func (s *teamService) Delete(ctx context.Context, id int) error {
	if err := s.store.Teams().Delete(ctx, id); err != nil {
		return translate(err, "delete team")
	}
	s.effects.Logger.InfoContext(ctx, "Team deleted", slog.Int("team_id", id))
	return nil
}

func (s *teamService) Join(ctx context.Context, teamID, userID int) (*models.TeamMember, error) {
	return s.join(ctx, userID, func(tx repositories.Store) (*models.Team, error) {
		return tx.Teams().GetByID(ctx, teamID)
	})
}

func (s *teamService) JoinByCode(ctx context.Context, code string, userID int) (*models.TeamMember, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ValidationErrors{"joinCode": "is required"}
	}
	return s.join(ctx, userID, func(tx repositories.Store) (*models.Team, error) {
		return tx.Teams().GetByJoinCode(ctx, code)
	})
}

// join: поиск команды, проверка членства, условный инкремент и вставка
// участника в одной транзакции.
func (s *teamService) join(ctx context.Context, userID int, find func(tx repositories.Store) (*models.Team, error)) (*models.TeamMember, error) {
	var member *models.TeamMember
	var team *models.Team
	var note *models.Notification
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		var err error
		if team, err = find(tx); err != nil {
			return err
		}
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return err
		}

		_, err = tx.Teams().GetMember(ctx, team.ID, userID)
		switch {
		case err == nil:
			return ErrAlreadyMember
		case !errors.Is(err, repositories.ErrTeamMemberNotFound):
			return err
		}

		if err := tx.Teams().IncrementMembers(ctx, team.ID); err != nil {
			return err
		}
		member = &models.TeamMember{TeamID: team.ID, UserID: userID, Role: models.RoleMember}
		if err := tx.Teams().AddMember(ctx, member); err != nil {
			return err
		}
		team.CurrentMembers++

		note, err = createNotification(ctx, tx, team.CaptainID, models.NotificationTeam,
			"New team member",
			fmt.Sprintf("%s joined %s.", user.Username, team.Name))
		return err
	})
	if err != nil {
		return nil, translate(err, "join team")
	}

	s.effects.Logger.InfoContext(ctx, "User joined team", slog.Int("team_id", team.ID), slog.Int("user_id", userID))
	s.effects.deliver(note)
	s.effects.publish(ctx, events.SubjectTeamJoined, map[string]interface{}{
		"teamId":         team.ID,
		"userId":         userID,
		"currentMembers": team.CurrentMembers,
	})
	return member, nil
}

func (s *teamService) ListMembers(ctx context.Context, teamID int) ([]*models.TeamMember, error) {
	if _, err := s.store.Teams().GetByID(ctx, teamID); err != nil {
		return nil, translate(err, "get team")
	}
	members, err := s.store.Teams().ListMembers(ctx, teamID)
	if err != nil {
		return nil, translate(err, "list team members")
	}
	return members, nil
}

func (s *teamService) ListUserTeams(ctx context.Context, userID int) ([]*models.Team, error) {
	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return nil, translate(err, "get user")
	}
	teams, err := s.store.Teams().ListByUser(ctx, userID)
	if err != nil {
		return nil, translate(err, "list user teams")
	}
	return teams, nil
}
