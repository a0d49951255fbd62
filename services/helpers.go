package services

import (
	"context"
	"crypto/rand"
	"log/slog"
	"math/big"

	"github.com/Dosada05/arena/cache"
	"github.com/Dosada05/arena/events"
	"github.com/Dosada05/arena/models"
	"github.com/Dosada05/arena/realtime"
	"github.com/Dosada05/arena/repositories"
	"github.com/Dosada05/arena/storage"
	"github.com/shopspring/decimal"
)

// Notifier доставляет сообщения подписчикам websocket.
type Notifier interface {
	PushToUser(userID int, msgType string, payload interface{})
	PushToTournament(tournamentID int, msgType string, payload interface{})
}

type noopNotifier struct{}

func (noopNotifier) PushToUser(int, string, interface{})       {}
func (noopNotifier) PushToTournament(int, string, interface{}) {}

// SideEffects - всё, что происходит после успешного коммита.
// Ошибки здесь только логируются и не ломают запрос.
type SideEffects struct {
	Notifier    Notifier
	Publisher   events.Publisher
	Leaderboard cache.LeaderboardCache
	Logger      *slog.Logger
}

func (e SideEffects) withDefaults() SideEffects {
	if e.Notifier == nil {
		e.Notifier = noopNotifier{}
	}
	if e.Publisher == nil {
		e.Publisher = events.NewNoopPublisher()
	}
	if e.Leaderboard == nil {
		e.Leaderboard = cache.NewNoopLeaderboardCache()
	}
	if e.Logger == nil {
		e.Logger = slog.Default()
	}
	return e
}

func (e SideEffects) publish(ctx context.Context, subject string, data interface{}) {
	if err := e.Publisher.Publish(ctx, subject, data); err != nil {
		e.Logger.WarnContext(ctx, "Failed to publish event", slog.String("subject", subject), slog.Any("error", err))
	}
}

func (e SideEffects) deliver(notifications ...*models.Notification) {
	for _, n := range notifications {
		if n != nil {
			e.Notifier.PushToUser(n.UserID, realtime.MessageNotification, n)
		}
	}
}

func (e SideEffects) invalidateLeaderboard(ctx context.Context) {
	if err := e.Leaderboard.Invalidate(ctx); err != nil {
		e.Logger.WarnContext(ctx, "Failed to invalidate leaderboard cache", slog.Any("error", err))
	}
}

func createNotification(ctx context.Context, tx repositories.Store, userID int, typ models.NotificationType, title, message string) (*models.Notification, error) {
	n := &models.Notification{UserID: userID, Type: typ, Title: title, Message: message}
	if err := tx.Notifications().Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// randomCode возвращает код в верхнем регистре без похожих символов.
func randomCode(length int) (string, error) {
	b := make([]byte, length)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return string(b), nil
}

const codeLength = 8

var maxWalletAmount = decimal.NewFromInt(100000)

// validateAmount проверяет положительную сумму с точностью до копеек.
func validateAmount(v ValidationErrors, field string, amount models.Money) {
	switch {
	case !amount.IsPositive():
		v.Add(field, "must be greater than 0")
	case !amount.Decimal.Equal(amount.Decimal.Round(2)):
		v.Add(field, "must have at most 2 decimal places")
	case amount.GreaterThan(maxWalletAmount):
		v.Add(field, "must not exceed 100000")
	}
}

func populateUserURL(user *models.User, uploader storage.FileUploader) {
	if user == nil {
		return
	}
	user.PasswordHash = ""
	if user.AvatarKey != nil && uploader != nil {
		if url := uploader.GetPublicURL(*user.AvatarKey); url != "" {
			user.AvatarURL = &url
		}
	}
}

func populateTournamentURL(t *models.Tournament, uploader storage.FileUploader) {
	if t != nil && t.BannerKey != nil && uploader != nil {
		if url := uploader.GetPublicURL(*t.BannerKey); url != "" {
			t.BannerURL = &url
		}
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
