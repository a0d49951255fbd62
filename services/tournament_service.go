package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Dosada05/arena/events"
	"github.com/Dosada05/arena/models"
	"github.com/Dosada05/arena/realtime"
	"github.com/Dosada05/arena/repositories"
	"github.com/Dosada05/arena/storage"
	"github.com/shopspring/decimal"
)

const maxTournamentParticipants = 10000

// предел NUMERIC(12,2)
var maxMoneyField = decimal.RequireFromString("9999999999.99")

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, filter models.TournamentFilter) ([]*models.Tournament, error)
	Update(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error)
	Delete(ctx context.Context, id int) error
	UploadBanner(ctx context.Context, id int, contentType string, body io.Reader) (*models.Tournament, error)

	Join(ctx context.Context, input JoinTournamentInput) (*JoinResult, error)
	ListParticipants(ctx context.Context, id int) ([]*models.TournamentParticipant, error)

	SubmitResults(ctx context.Context, id int, entries []ResultInput) ([]*models.TournamentResult, error)
	ListResults(ctx context.Context, id int) ([]*models.TournamentResult, error)

	// AutoUpdateStatuses переводит турниры по времени: upcoming -> live -> ended.
	AutoUpdateStatuses(ctx context.Context, now time.Time) (int, error)
}

type CreateTournamentInput struct {
	Title           string                  `json:"title"`
	Description     *string                 `json:"description,omitempty"`
	GameID          int                     `json:"gameId"`
	EntryFee        models.Money            `json:"entryFee"`
	PrizePool       models.Money            `json:"prizePool"`
	MaxParticipants int                     `json:"maxParticipants"`
	Status          models.TournamentStatus `json:"status,omitempty"`
	StartTime       time.Time               `json:"startTime"`
	EndTime         *time.Time              `json:"endTime,omitempty"`
	Rules           *string                 `json:"rules,omitempty"`
}

type UpdateTournamentInput struct {
	Title           *string                  `json:"title,omitempty"`
	Description     *string                  `json:"description,omitempty"`
	GameID          *int                     `json:"gameId,omitempty"`
	EntryFee        *models.Money            `json:"entryFee,omitempty"`
	PrizePool       *models.Money            `json:"prizePool,omitempty"`
	MaxParticipants *int                     `json:"maxParticipants,omitempty"`
	Status          *models.TournamentStatus `json:"status,omitempty"`
	StartTime       *time.Time               `json:"startTime,omitempty"`
	EndTime         *time.Time               `json:"endTime,omitempty"`
	Rules           *string                  `json:"rules,omitempty"`
}

type JoinTournamentInput struct {
	TournamentID   int
	UserID         int
	TeamID         *int
	IdempotencyKey string
}

type JoinResult struct {
	Participant *models.TournamentParticipant `json:"participant"`
	Tournament  *models.Tournament            `json:"tournament"`
	Transaction *models.Transaction           `json:"transaction"`
	Balance     models.Money                  `json:"balance"`
	Replayed    bool                          `json:"replayed"`
}

type ResultInput struct {
	UserID   int          `json:"userId"`
	TeamID   *int         `json:"teamId,omitempty"`
	Position int          `json:"position"`
	Kills    int          `json:"kills"`
	Points   int          `json:"points"`
	PrizeWon models.Money `json:"prizeWon"`
}

type tournamentService struct {
	store    repositories.Store
	uploader storage.FileUploader
	effects  SideEffects
}

func NewTournamentService(store repositories.Store, uploader storage.FileUploader, effects SideEffects) TournamentService {
	return &tournamentService{store: store, uploader: uploader, effects: effects.withDefaults()}
}

func statusRank(s models.TournamentStatus) int {
	switch s {
	case models.StatusUpcoming:
		return 0
	case models.StatusLive:
		return 1
	case models.StatusEnded:
		return 2
	}
	return -1
}

func validateMoneyField(v ValidationErrors, field string, m models.Money) {
	switch {
	case m.IsNegative():
		v.Add(field, "must not be negative")
	case !m.Decimal.Equal(m.Decimal.Round(2)):
		v.Add(field, "must have at most 2 decimal places")
	case m.GreaterThan(maxMoneyField):
		v.Add(field, "must not exceed 9999999999.99")
	}
}

func validateTournament(t *models.Tournament) error {
	v := ValidationErrors{}
	n := utf8.RuneCountInString(t.Title)
	v.Check(n >= 3 && n <= 200, "title", "must be between 3 and 200 characters")
	v.Check(t.GameID > 0, "gameId", "is required")
	validateMoneyField(v, "entryFee", t.EntryFee)
	validateMoneyField(v, "prizePool", t.PrizePool)
	v.Check(t.MaxParticipants >= 2 && t.MaxParticipants <= maxTournamentParticipants, "maxParticipants",
		fmt.Sprintf("must be between 2 and %d", maxTournamentParticipants))
	v.Check(t.MaxParticipants >= t.CurrentParticipants, "maxParticipants", "must not be less than current participants")
	v.Check(t.Status.Valid(), "status", "must be one of upcoming, live, ended")
	v.Check(!t.StartTime.IsZero(), "startTime", "is required")
	if t.EndTime != nil {
		v.Check(t.EndTime.After(t.StartTime), "endTime", "must be after startTime")
	}
	return v.Err()
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	if input.Status == "" {
		input.Status = models.StatusUpcoming
	}
	t := &models.Tournament{
		Title:           strings.TrimSpace(input.Title),
		Description:     input.Description,
		GameID:          input.GameID,
		EntryFee:        input.EntryFee,
		PrizePool:       input.PrizePool,
		MaxParticipants: input.MaxParticipants,
		Status:          input.Status,
		StartTime:       input.StartTime,
		EndTime:         input.EndTime,
		Rules:           input.Rules,
	}
	if err := validateTournament(t); err != nil {
		return nil, err
	}

	if err := s.store.Tournaments().Create(ctx, t); err != nil {
		return nil, translate(err, "create tournament")
	}
	s.effects.Logger.InfoContext(ctx, "Tournament created", slog.Int("tournament_id", t.ID), slog.Int("game_id", t.GameID))
	return t, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.store.Tournaments().GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get tournament")
	}
	populateTournamentURL(t, s.uploader)
	return t, nil
}

func (s *tournamentService) List(ctx context.Context, filter models.TournamentFilter) ([]*models.Tournament, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, ValidationErrors{"status": "must be one of upcoming, live, ended"}
	}
	items, err := s.store.Tournaments().List(ctx, filter)
	if err != nil {
		return nil, translate(err, "list tournaments")
	}
	for _, t := range items {
		populateTournamentURL(t, s.uploader)
	}
	return items, nil
}

func (s *tournamentService) Update(ctx context.Context, id int, input UpdateTournamentInput) (*models.Tournament, error) {
	var updated *models.Tournament
	var statusChanged bool
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		t, err := tx.Tournaments().GetByID(ctx, id)
		if err != nil {
			return err
		}
		previous := t.Status

		if input.Title != nil {
			t.Title = strings.TrimSpace(*input.Title)
		}
		if input.Description != nil {
			t.Description = input.Description
		}
		if input.GameID != nil {
			t.GameID = *input.GameID
		}
		if input.EntryFee != nil {
			t.EntryFee = *input.EntryFee
		}
		if input.PrizePool != nil {
			t.PrizePool = *input.PrizePool
		}
		if input.MaxParticipants != nil {
			t.MaxParticipants = *input.MaxParticipants
		}
		if input.Status != nil {
			t.Status = *input.Status
		}
		if input.StartTime != nil {
			t.StartTime = *input.StartTime
		}
		if input.EndTime != nil {
			t.EndTime = input.EndTime
		}
		if input.Rules != nil {
			t.Rules = input.Rules
		}

		if err := validateTournament(t); err != nil {
			return err
		}
		if statusRank(t.Status) < statusRank(previous) {
			return ErrInvalidStatusTransition
		}
		if err := tx.Tournaments().Update(ctx, t); err != nil {
			return err
		}
		updated, statusChanged = t, t.Status != previous
		return nil
	})
	if err != nil {
		return nil, translate(err, "update tournament")
	}

	populateTournamentURL(updated, s.uploader)
	s.effects.Notifier.PushToTournament(updated.ID, realtime.MessageTournamentUpdate, updated)
	if statusChanged {
		s.effects.publish(ctx, events.SubjectTournamentStatus, map[string]interface{}{"tournamentId": updated.ID, "status": updated.Status})
	}
	return updated, nil
}

func (s *tournamentService) Delete(ctx context.Context, id int) error {
	t, err := s.store.Tournaments().GetByID(ctx, id)
	if err != nil {
		return translate(err, "get tournament")
	}
	if err := s.store.Tournaments().Delete(ctx, id); err != nil {
		return translate(err, "delete tournament")
	}
	if t.BannerKey != nil && s.uploader != nil {
		if err := s.uploader.Delete(ctx, *t.BannerKey); err != nil {
			s.effects.Logger.WarnContext(ctx, "Failed to delete tournament banner", slog.Int("tournament_id", id), slog.Any("error", err))
		}
	}
	s.effects.Logger.InfoContext(ctx, "Tournament deleted", slog.Int("tournament_id", id))
	return nil
}

func (s *tournamentService) UploadBanner(ctx context.Context, id int, contentType string, body io.Reader) (*models.Tournament, error) {
	if s.uploader == nil {
		return nil, ErrUploadsDisabled
	}
	t, err := s.store.Tournaments().GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get tournament")
	}

	key, err := storage.ObjectKey("tournaments", id, contentType)
	if err != nil {
		return nil, ErrUnsupportedImageType
	}
	if _, err := s.uploader.Upload(ctx, key, contentType, body); err != nil {
		return nil, fmt.Errorf("upload banner: %w", err)
	}
	if err := s.store.Tournaments().UpdateBannerKey(ctx, id, &key); err != nil {
		_ = s.uploader.Delete(ctx, key)
		return nil, translate(err, "save banner key")
	}
	if t.BannerKey != nil {
		if err := s.uploader.Delete(ctx, *t.BannerKey); err != nil {
			s.effects.Logger.WarnContext(ctx, "Failed to delete previous banner", slog.Int("tournament_id", id), slog.Any("error", err))
		}
	}

	t.BannerKey = &key
	populateTournamentURL(t, s.uploader)
	return t, nil
}

// Join регистрирует пользователя и списывает взнос. Все шаги выполняются в
// одной транзакции: при любой ошибке состояние не меняется.
func (s *tournamentService) Join(ctx context.Context, input JoinTournamentInput) (*JoinResult, error) {
	key := strings.TrimSpace(input.IdempotencyKey)
	var reference *string
	if key != "" {
		reference = &key
	}

	res := &JoinResult{}
	var note *models.Notification
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		t, err := tx.Tournaments().GetByID(ctx, input.TournamentID)
		if err != nil {
			return err
		}

		if reference != nil {
			replayed, err := s.replayJoin(ctx, tx, input, key, res)
			if err != nil || replayed {
				return err
			}
		}

		if t.Status == models.StatusEnded {
			return ErrRegistrationClosed
		}
		if _, err := tx.Users().GetByID(ctx, input.UserID); err != nil {
			return err
		}
		if input.TeamID != nil {
			if _, err := tx.Teams().GetByID(ctx, *input.TeamID); err != nil {
				return err
			}
			if _, err := tx.Teams().GetMember(ctx, *input.TeamID, input.UserID); err != nil {
				return err
			}
		}

		_, err = tx.Participants().Get(ctx, t.ID, input.UserID)
		switch {
		case err == nil:
			return ErrAlreadyJoined
		case !errors.Is(err, repositories.ErrParticipantNotFound):
			return err
		}

		if err := tx.Tournaments().IncrementParticipants(ctx, t.ID); err != nil {
			return err
		}
		balance, err := tx.Users().UpdateWallet(ctx, input.UserID, t.EntryFee.Decimal.Neg())
		if err != nil {
			return err
		}

		participant := &models.TournamentParticipant{TournamentID: t.ID, UserID: input.UserID, TeamID: input.TeamID}
		if err := tx.Participants().Create(ctx, participant); err != nil {
			return err
		}
		tournamentID := t.ID
		entry := &models.Transaction{
			UserID:       input.UserID,
			Type:         models.TxTournamentEntry,
			Amount:       t.EntryFee.Neg(),
			Status:       models.TxCompleted,
			Description:  fmt.Sprintf("Entry fee for %s", t.Title),
			Reference:    reference,
			TournamentID: &tournamentID,
		}
		if err := tx.Transactions().Create(ctx, entry); err != nil {
			return err
		}
		note, err = createNotification(ctx, tx, input.UserID, models.NotificationTournament,
			"Tournament joined",
			fmt.Sprintf("You joined %s. Entry fee: %s.", t.Title, t.EntryFee))
		if err != nil {
			return err
		}

		t.CurrentParticipants++
		res.Participant, res.Tournament, res.Transaction, res.Balance = participant, t, entry, balance
		return nil
	})
	if err != nil {
		return nil, translate(err, "join tournament")
	}

	populateTournamentURL(res.Tournament, s.uploader)
	if res.Replayed {
		return res, nil
	}

	s.effects.Logger.InfoContext(ctx, "User joined tournament",
		slog.Int("tournament_id", input.TournamentID),
		slog.Int("user_id", input.UserID),
		slog.String("entry_fee", res.Tournament.EntryFee.String()))
	s.effects.deliver(note)
	s.effects.Notifier.PushToUser(input.UserID, realtime.MessageWalletUpdated, map[string]interface{}{"balance": res.Balance})
	s.effects.Notifier.PushToTournament(input.TournamentID, realtime.MessageTournamentUpdate, res.Tournament)
	s.effects.publish(ctx, events.SubjectTournamentJoined, map[string]interface{}{
		"tournamentId": input.TournamentID,
		"userId":       input.UserID,
		"teamId":       input.TeamID,
		"entryFee":     res.Tournament.EntryFee,
	})
	s.effects.invalidateLeaderboard(ctx)
	return res, nil
}

// replayJoin заполняет res по прошлому вступлению с тем же ключом.
func (s *tournamentService) replayJoin(ctx context.Context, tx repositories.Store, input JoinTournamentInput, key string, res *JoinResult) (bool, error) {
	existing, err := tx.Transactions().GetByReference(ctx, input.UserID, key)
	if errors.Is(err, repositories.ErrTransactionNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if existing.Type != models.TxTournamentEntry || existing.TournamentID == nil || *existing.TournamentID != input.TournamentID {
		return false, ErrIdempotencyKeyReused
	}

	participant, err := tx.Participants().Get(ctx, input.TournamentID, input.UserID)
	if err != nil {
		return false, err
	}
	t, err := tx.Tournaments().GetByID(ctx, input.TournamentID)
	if err != nil {
		return false, err
	}
	user, err := tx.Users().GetByID(ctx, input.UserID)
	if err != nil {
		return false, err
	}
	*res = JoinResult{Participant: participant, Tournament: t, Transaction: existing, Balance: user.WalletBalance, Replayed: true}
	return true, nil
}

func (s *tournamentService) ListParticipants(ctx context.Context, id int) ([]*models.TournamentParticipant, error) {
	if _, err := s.store.Tournaments().GetByID(ctx, id); err != nil {
		return nil, translate(err, "get tournament")
	}
	items, err := s.store.Participants().ListByTournament(ctx, id)
	if err != nil {
		return nil, translate(err, "list participants")
	}
	return items, nil
}

func validateResults(entries []ResultInput) (decimal.Decimal, error) {
	v := ValidationErrors{}
	if len(entries) == 0 {
		v.Add("results", "must contain at least one entry")
		return decimal.Zero, v
	}

	total := decimal.Zero
	seen := make(map[int]struct{}, len(entries))
	for i, e := range entries {
		field := fmt.Sprintf("results[%d]", i)
		v.Check(e.UserID > 0, field+".userId", "is required")
		if _, dup := seen[e.UserID]; dup {
			v.Add(field+".userId", "is duplicated")
		}
		seen[e.UserID] = struct{}{}
		v.Check(e.Position >= 1, field+".position", "must be at least 1")
		v.Check(e.Kills >= 0, field+".kills", "must not be negative")
		v.Check(e.Points >= 0, field+".points", "must not be negative")
		validateMoneyField(v, field+".prizeWon", e.PrizeWon)
		total = total.Add(e.PrizeWon.Decimal)
	}
	return total, v.Err()
}

// SubmitResults сохраняет итоги и выплачивает призы. Пакет применяется
// целиком или не применяется вовсе.
func (s *tournamentService) SubmitResults(ctx context.Context, id int, entries []ResultInput) ([]*models.TournamentResult, error) {
	total, err := validateResults(entries)
	if err != nil {
		return nil, err
	}

	var saved []*models.TournamentResult
	var notes []*models.Notification
	var winners []int
	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		t, err := tx.Tournaments().GetByID(ctx, id)
		if err != nil {
			return err
		}
		existing, err := tx.Results().CountByTournament(ctx, id)
		if err != nil {
			return err
		}
		if existing > 0 {
			return ErrResultsAlreadySubmitted
		}
		if total.GreaterThan(t.PrizePool.Decimal) {
			return ErrPrizePoolExceeded
		}

		for _, e := range entries {
			if _, err := tx.Participants().Get(ctx, id, e.UserID); err != nil {
				return err
			}
			res := &models.TournamentResult{
				TournamentID: id,
				UserID:       e.UserID,
				TeamID:       e.TeamID,
				Position:     e.Position,
				Kills:        e.Kills,
				Points:       e.Points,
				PrizeWon:     models.NewMoney(e.PrizeWon.Decimal),
			}
			if err := tx.Results().Create(ctx, res); err != nil {
				return err
			}
			saved = append(saved, res)

			if !res.PrizeWon.IsPositive() {
				continue
			}
			if _, err := tx.Users().UpdateWallet(ctx, e.UserID, res.PrizeWon.Decimal); err != nil {
				return err
			}
			tournamentID := id
			if err := tx.Transactions().Create(ctx, &models.Transaction{
				UserID:       e.UserID,
				Type:         models.TxTournamentWin,
				Amount:       res.PrizeWon,
				Status:       models.TxCompleted,
				Description:  fmt.Sprintf("Prize for position %d in %s", e.Position, t.Title),
				TournamentID: &tournamentID,
			}); err != nil {
				return err
			}
			note, err := createNotification(ctx, tx, e.UserID, models.NotificationTournament,
				"Prize received",
				fmt.Sprintf("You finished #%d in %s and won %s.", e.Position, t.Title, res.PrizeWon))
			if err != nil {
				return err
			}
			notes = append(notes, note)
			winners = append(winners, e.UserID)
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, "submit results")
	}

	s.effects.Logger.InfoContext(ctx, "Tournament results submitted",
		slog.Int("tournament_id", id),
		slog.Int("results", len(saved)),
		slog.String("prizes_total", models.NewMoney(total).String()))
	s.effects.deliver(notes...)
	s.effects.Notifier.PushToTournament(id, realtime.MessageResultsPublished, saved)
	s.effects.publish(ctx, events.SubjectTournamentResults, map[string]interface{}{
		"tournamentId": id,
		"winners":      winners,
		"prizesTotal":  models.NewMoney(total),
	})
	if len(winners) > 0 {
		s.effects.invalidateLeaderboard(ctx)
	}
	return saved, nil
}

func (s *tournamentService) ListResults(ctx context.Context, id int) ([]*models.TournamentResult, error) {
	if _, err := s.store.Tournaments().GetByID(ctx, id); err != nil {
		return nil, translate(err, "get tournament")
	}
	items, err := s.store.Results().ListByTournament(ctx, id)
	if err != nil {
		return nil, translate(err, "list results")
	}
	return items, nil
}

func nextStatus(t *models.Tournament, now time.Time) (models.TournamentStatus, bool) {
	switch {
	case t.Status == models.StatusUpcoming && !t.StartTime.After(now):
		if t.EndTime != nil && !t.EndTime.After(now) {
			return models.StatusEnded, true
		}
		return models.StatusLive, true
	case t.Status == models.StatusLive && t.EndTime != nil && !t.EndTime.After(now):
		return models.StatusEnded, true
	}
	return t.Status, false
}

func (s *tournamentService) AutoUpdateStatuses(ctx context.Context, now time.Time) (int, error) {
	due, err := s.store.Tournaments().ListDueForStatusUpdate(ctx, now)
	if err != nil {
		return 0, translate(err, "list tournaments due for status update")
	}

	updated := 0
	for _, candidate := range due {
		var changed *models.Tournament
		err := s.store.WithTx(ctx, func(tx repositories.Store) error {
			t, err := tx.Tournaments().GetByID(ctx, candidate.ID)
			if err != nil {
				return err
			}
			status, ok := nextStatus(t, now)
			if !ok {
				return nil
			}
			t.Status = status
			if err := tx.Tournaments().Update(ctx, t); err != nil {
				return err
			}
			changed = t
			return nil
		})
		if err != nil {
			if errors.Is(err, repositories.ErrTournamentNotFound) {
				continue
			}
			return updated, translate(err, "auto update tournament status")
		}
		if changed == nil {
			continue
		}

		updated++
		s.effects.Logger.InfoContext(ctx, "Tournament status updated",
			slog.Int("tournament_id", changed.ID),
			slog.String("status", string(changed.Status)))
		populateTournamentURL(changed, s.uploader)
		s.effects.Notifier.PushToTournament(changed.ID, realtime.MessageTournamentUpdate, changed)
		s.effects.publish(ctx, events.SubjectTournamentStatus, map[string]interface{}{"tournamentId": changed.ID, "status": changed.Status})
	}
	return updated, nil
}
