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
	"github.com/Dosada05/arena/utils"
	"github.com/shopspring/decimal"
)

const minPasswordLength = 6

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, input LoginInput) (*models.User, error)
}

type RegisterInput struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	FullName     string `json:"fullName"`
	ReferralCode string `json:"referralCode,omitempty"`
}

// LoginInput принимает имя пользователя или email.
type LoginInput struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

type ReferralSettings struct {
	Bonus      decimal.Decimal
	BonusCoins int
}

type authService struct {
	store    repositories.Store
	referral ReferralSettings
	effects  SideEffects
}

func NewAuthService(store repositories.Store, referral ReferralSettings, effects SideEffects) AuthService {
	return &authService{store: store, referral: referral, effects: effects.withDefaults()}
}

func validateRegisterInput(input *RegisterInput) error {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FullName = strings.TrimSpace(input.FullName)
	input.ReferralCode = strings.ToUpper(strings.TrimSpace(input.ReferralCode))

	v := ValidationErrors{}
	n := utf8.RuneCountInString(input.Username)
	v.Check(n >= 3 && n <= 50, "username", "must be between 3 and 50 characters")
	v.Check(utils.IsValidEmail(input.Email), "email", "must be a valid email address")
	v.Check(len(input.Password) >= minPasswordLength, "password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	return v.Err()
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if err := validateRegisterInput(&input); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	var user *models.User
	var referrerNote *models.Notification
	for attempt := 0; ; attempt++ {
		user, referrerNote, err = s.register(ctx, input, hash)
		if !errors.Is(err, repositories.ErrUserReferralCodeTaken) || attempt >= 4 {
			break
		}
	}
	if err != nil {
		return nil, translate(err, "register user")
	}

	s.effects.Logger.InfoContext(ctx, "User registered", slog.Int("user_id", user.ID), slog.Bool("referred", user.ReferredBy != nil))
	s.effects.publish(ctx, events.SubjectUserRegistered, map[string]interface{}{"userId": user.ID, "referredBy": user.ReferredBy})
	if referrerNote != nil {
		s.effects.deliver(referrerNote)
	}
	// новый игрок сразу попадает в рейтинг, даже с нулевым балансом
	s.effects.invalidateLeaderboard(ctx)

	user.PasswordHash = ""
	return user, nil
}

func (s *authService) register(ctx context.Context, input RegisterInput, hash string) (*models.User, *models.Notification, error) {
	code, err := randomCode(codeLength)
	if err != nil {
		return nil, nil, fmt.Errorf("generate referral code: %w", err)
	}

	user := &models.User{
		Username:      input.Username,
		Email:         input.Email,
		FullName:      input.FullName,
		PasswordHash:  hash,
		WalletBalance: models.NewMoney(decimal.Zero),
		ReferralCode:  code,
	}

	var note *models.Notification
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		var referrer *models.User
		if input.ReferralCode != "" {
			referrer, err = tx.Users().GetByReferralCode(ctx, input.ReferralCode)
			if errors.Is(err, repositories.ErrUserNotFound) {
				return ErrInvalidReferralCode
			}
			if err != nil {
				return err
			}
			user.ReferredBy = &referrer.ID
			user.BonusCoins = s.referral.BonusCoins
		}

		if err := tx.Users().Create(ctx, user); err != nil {
			return err
		}
		if referrer == nil {
			return nil
		}

		bonus := models.NewMoney(s.referral.Bonus)
		if bonus.IsPositive() {
			if _, err := tx.Users().UpdateWallet(ctx, referrer.ID, bonus.Decimal); err != nil {
				return err
			}
			if err := tx.Transactions().Create(ctx, &models.Transaction{
				UserID:      referrer.ID,
				Type:        models.TxReferralBonus,
				Amount:      bonus,
				Status:      models.TxCompleted,
				Description: fmt.Sprintf("Referral bonus for inviting %s", user.Username),
			}); err != nil {
				return err
			}
		}
		note, err = createNotification(ctx, tx, referrer.ID, models.NotificationReferral,
			"Referral bonus",
			fmt.Sprintf("%s joined with your referral code. You earned %s.", user.Username, bonus))
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return user, note, nil
}

func (s *authService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	identifier := strings.TrimSpace(input.Username)
	if identifier == "" {
		identifier = strings.TrimSpace(input.Email)
	}
	if identifier == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}

	var user *models.User
	var err error
	if strings.Contains(identifier, "@") {
		user, err = s.store.Users().GetByEmail(ctx, strings.ToLower(identifier))
	} else {
		user, err = s.store.Users().GetByUsername(ctx, identifier)
	}
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !utils.CheckPasswordHash(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	user.PasswordHash = ""
	return user, nil
}
