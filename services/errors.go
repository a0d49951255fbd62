package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Dosada05/arena/repositories"
)

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Не найдено
	ErrUserNotFound         = errors.New("user not found")
	ErrGameNotFound         = errors.New("game not found")
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// Валидация и бизнес-правила (400)
	ErrValidationFailed        = errors.New("validation failed")
	ErrInvalidReferralCode     = errors.New("referral code is not valid")
	ErrRegistrationClosed      = errors.New("tournament registration is closed")
	ErrInsufficientFunds       = errors.New("insufficient wallet balance")
	ErrNotTeamMember           = errors.New("user is not a member of this team")
	ErrNotParticipant          = errors.New("user is not a participant of this tournament")
	ErrPrizePoolExceeded       = errors.New("total prizes exceed the tournament prize pool")
	ErrInvalidStatusTransition = errors.New("invalid tournament status transition")
	ErrUploadsDisabled         = errors.New("image uploads are not configured")
	ErrUnsupportedImageType    = errors.New("unsupported image content type")

	// Конфликты (409)
	ErrUsernameTaken           = errors.New("username is already taken")
	ErrEmailTaken              = errors.New("email is already taken")
	ErrTeamNameTaken           = errors.New("team name is already taken")
	ErrGameNameTaken           = errors.New("game with this name already exists")
	ErrGameInUse               = errors.New("game is used by tournaments")
	ErrAlreadyJoined           = errors.New("user has already joined this tournament")
	ErrTournamentFull          = errors.New("tournament is full")
	ErrAlreadyMember           = errors.New("user is already a member of this team")
	ErrTeamFull                = errors.New("team is full")
	ErrResultsAlreadySubmitted = errors.New("results have already been submitted for this tournament")
	ErrIdempotencyKeyReused    = errors.New("idempotency key was already used for another operation")

	// Аутентификация и доступ
	ErrInvalidCredentials = errors.New("invalid username/email or password")
	ErrForbidden          = errors.New("operation not allowed for the current user")
)

// ValidationErrors собирает ошибки по полям.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (v ValidationErrors) Is(target error) bool { return target == ErrValidationFailed }

func (v ValidationErrors) Add(field, message string) {
	if _, exists := v[field]; !exists {
		v[field] = message
	}
}

func (v ValidationErrors) Check(ok bool, field, message string) {
	if !ok {
		v.Add(field, message)
	}
}

// Err возвращает nil, если ошибок нет.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

var repoErrors = map[error]error{
	repositories.ErrUserNotFound:          ErrUserNotFound,
	repositories.ErrUserUsernameConflict:  ErrUsernameTaken,
	repositories.ErrUserEmailConflict:     ErrEmailTaken,
	repositories.ErrInsufficientFunds:     ErrInsufficientFunds,
	repositories.ErrGameNotFound:          ErrGameNotFound,
	repositories.ErrGameSlugConflict:      ErrGameNameTaken,
	repositories.ErrGameInUse:             ErrGameInUse,
	repositories.ErrTournamentNotFound:    ErrTournamentNotFound,
	repositories.ErrTournamentFull:        ErrTournamentFull,
	repositories.ErrTournamentGameInvalid: ErrGameNotFound,
	repositories.ErrTeamNotFound:          ErrTeamNotFound,
	repositories.ErrTeamNameConflict:      ErrTeamNameTaken,
	repositories.ErrTeamFull:              ErrTeamFull,
	repositories.ErrAlreadyMember:         ErrAlreadyMember,
	repositories.ErrTeamMemberNotFound:    ErrNotTeamMember,
	repositories.ErrAlreadyJoined:         ErrAlreadyJoined,
	repositories.ErrParticipantNotFound:   ErrNotParticipant,
	repositories.ErrNotificationNotFound:  ErrNotificationNotFound,
	repositories.ErrResultConflict:        ErrResultsAlreadySubmitted,
	repositories.ErrDuplicateReference:    ErrIdempotencyKeyReused,
}

// translate переводит ошибки хранилища в ошибки сервиса, неизвестные
// оборачиваются с op для контекста.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	for repoErr, svcErr := range repoErrors {
		if errors.Is(err, repoErr) {
			return svcErr
		}
	}
	if isServiceError(err) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

var serviceErrors = []error{
	ErrUserNotFound, ErrGameNotFound, ErrTournamentNotFound, ErrTeamNotFound, ErrNotificationNotFound,
	ErrValidationFailed, ErrInvalidReferralCode, ErrRegistrationClosed,
	ErrInsufficientFunds, ErrNotTeamMember, ErrNotParticipant, ErrPrizePoolExceeded,
	ErrInvalidStatusTransition, ErrUploadsDisabled, ErrUnsupportedImageType,
	ErrUsernameTaken, ErrEmailTaken, ErrTeamNameTaken, ErrGameNameTaken, ErrGameInUse,
	ErrAlreadyJoined, ErrTournamentFull, ErrAlreadyMember, ErrTeamFull, ErrResultsAlreadySubmitted,
	ErrIdempotencyKeyReused, ErrInvalidCredentials, ErrForbidden,
}

func isServiceError(err error) bool {
	for _, target := range serviceErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
