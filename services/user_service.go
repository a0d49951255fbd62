package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/Dosada05/arena/models"
	"github.com/Dosada05/arena/repositories"
	"github.com/Dosada05/arena/storage"
	"github.com/Dosada05/arena/utils"
)

type UserService interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]*models.User, error)
	Update(ctx context.Context, id int, input UpdateUserInput, asAdmin bool) (*models.User, error)
	UploadAvatar(ctx context.Context, id int, contentType string, body io.Reader) (*models.User, error)
	ListReferrals(ctx context.Context, id int) ([]*models.User, error)
	ListTournaments(ctx context.Context, id int) ([]*models.Tournament, error)
	ListTeams(ctx context.Context, id int) ([]*models.Team, error)
}

// UpdateUserInput - частичное обновление профиля. IsAdmin и BonusCoins
// доступны только администратору.
type UpdateUserInput struct {
	Username   *string `json:"username,omitempty"`
	Email      *string `json:"email,omitempty"`
	FullName   *string `json:"fullName,omitempty"`
	Password   *string `json:"password,omitempty"`
	IsAdmin    *bool   `json:"isAdmin,omitempty"`
	BonusCoins *int    `json:"bonusCoins,omitempty"`
}

type userService struct {
	store    repositories.Store
	uploader storage.FileUploader
	effects  SideEffects
}

func NewUserService(store repositories.Store, uploader storage.FileUploader, effects SideEffects) UserService {
	return &userService{store: store, uploader: uploader, effects: effects.withDefaults()}
}

func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get user")
	}
	populateUserURL(user, s.uploader)
	return user, nil
}

func (s *userService) List(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	users, err := s.store.Users().List(ctx, filter)
	if err != nil {
		return nil, translate(err, "list users")
	}
	for _, u := range users {
		populateUserURL(u, s.uploader)
	}
	return users, nil
}

func (s *userService) Update(ctx context.Context, id int, input UpdateUserInput, asAdmin bool) (*models.User, error) {
	if !asAdmin && (input.IsAdmin != nil || input.BonusCoins != nil) {
		return nil, ErrForbidden
	}

	v := ValidationErrors{}
	if input.Username != nil {
		*input.Username = strings.TrimSpace(*input.Username)
		n := utf8.RuneCountInString(*input.Username)
		v.Check(n >= 3 && n <= 50, "username", "must be between 3 and 50 characters")
	}
	if input.Email != nil {
		*input.Email = strings.ToLower(strings.TrimSpace(*input.Email))
		v.Check(utils.IsValidEmail(*input.Email), "email", "must be a valid email address")
	}
	if input.Password != nil {
		v.Check(len(*input.Password) >= minPasswordLength, "password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	if input.BonusCoins != nil {
		v.Check(*input.BonusCoins >= 0, "bonusCoins", "must not be negative")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	var hash string
	if input.Password != nil {
		var err error
		if hash, err = utils.HashPassword(*input.Password); err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
	}

	var updated *models.User
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		user, err := tx.Users().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if input.Username != nil {
			user.Username = *input.Username
		}
		if input.Email != nil {
			user.Email = *input.Email
		}
		if input.FullName != nil {
			user.FullName = strings.TrimSpace(*input.FullName)
		}
		if hash != "" {
			user.PasswordHash = hash
		}
		if input.IsAdmin != nil {
			user.IsAdmin = *input.IsAdmin
		}
		if err := tx.Users().Update(ctx, user); err != nil {
			return err
		}
		if input.BonusCoins != nil && *input.BonusCoins != user.BonusCoins {
			if err := tx.Users().AddBonusCoins(ctx, id, *input.BonusCoins-user.BonusCoins); err != nil {
				return err
			}
		}
		updated, err = tx.Users().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, translate(err, "update user")
	}

	if input.IsAdmin != nil || input.BonusCoins != nil {
		s.effects.invalidateLeaderboard(ctx)
	}
	populateUserURL(updated, s.uploader)
	return updated, nil
}

func (s *userService) UploadAvatar(ctx context.Context, id int, contentType string, body io.Reader) (*models.User, error) {
	if s.uploader == nil {
		return nil, ErrUploadsDisabled
	}
	user, err := s.store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get user")
	}

	key, err := storage.ObjectKey("avatars", id, contentType)
	if err != nil {
		return nil, ErrUnsupportedImageType
	}
	if _, err := s.uploader.Upload(ctx, key, contentType, body); err != nil {
		return nil, fmt.Errorf("upload avatar: %w", err)
	}
	if err := s.store.Users().UpdateAvatarKey(ctx, id, &key); err != nil {
		_ = s.uploader.Delete(ctx, key)
		return nil, translate(err, "save avatar key")
	}

	if user.AvatarKey != nil {
		if err := s.uploader.Delete(ctx, *user.AvatarKey); err != nil {
			s.effects.Logger.WarnContext(ctx, "Failed to delete previous avatar", slog.Int("user_id", id), slog.Any("error", err))
		}
	}
	user.AvatarKey = &key
	populateUserURL(user, s.uploader)
	return user, nil
}

func (s *userService) ListReferrals(ctx context.Context, id int) ([]*models.User, error) {
	if _, err := s.store.Users().GetByID(ctx, id); err != nil {
		return nil, translate(err, "get user")
	}
	users, err := s.store.Users().ListReferrals(ctx, id)
	if err != nil {
		return nil, translate(err, "list referrals")
	}
	for _, u := range users {
		populateUserURL(u, s.uploader)
	}
	return users, nil
}

func (s *userService) ListTournaments(ctx context.Context, id int) ([]*models.Tournament, error) {
	if _, err := s.store.Users().GetByID(ctx, id); err != nil {
		return nil, translate(err, "get user")
	}
	tournaments, err := s.store.Participants().ListTournamentsByUser(ctx, id)
	if err != nil {
		return nil, translate(err, "list user tournaments")
	}
	for _, t := range tournaments {
		populateTournamentURL(t, s.uploader)
	}
	return tournaments, nil
}

func (s *userService) ListTeams(ctx context.Context, id int) ([]*models.Team, error) {
	if _, err := s.store.Users().GetByID(ctx, id); err != nil {
		return nil, translate(err, "get user")
	}
	teams, err := s.store.Teams().ListByUser(ctx, id)
	if err != nil {
		return nil, translate(err, "list user teams")
	}
	return teams, nil
}
