package services

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/Dosada05/arena/models"
	"github.com/Dosada05/arena/repositories"
)

type NotificationService interface {
	GetByID(ctx context.Context, id int) (*models.Notification, error)
	ListForUser(ctx context.Context, userID int, unreadOnly bool) ([]*models.Notification, error)
	MarkRead(ctx context.Context, id int) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID int) (int, error)
	// Send создаёт уведомление одному пользователю или всем,
	// если input.UserID равен nil.
	Send(ctx context.Context, input SendNotificationInput) ([]*models.Notification, error)
}

type SendNotificationInput struct {
	UserID  *int                    `json:"userId,omitempty"`
	Type    models.NotificationType `json:"type,omitempty"`
	Title   string                  `json:"title"`
	Message string                  `json:"message"`
}

type notificationService struct {
	store   repositories.Store
	effects SideEffects
}

func NewNotificationService(store repositories.Store, effects SideEffects) NotificationService {
	return &notificationService{store: store, effects: effects.withDefaults()}
}

func (s *notificationService) GetByID(ctx context.Context, id int) (*models.Notification, error) {
	n, err := s.store.Notifications().GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get notification")
	}
	return n, nil
}

func (s *notificationService) ListForUser(ctx context.Context, userID int, unreadOnly bool) ([]*models.Notification, error) {
	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return nil, translate(err, "get user")
	}
	items, err := s.store.Notifications().ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		return nil, translate(err, "list notifications")
	}
	return items, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id int) (*models.Notification, error) {
	if err := s.store.Notifications().MarkRead(ctx, id); err != nil {
		return nil, translate(err, "mark notification read")
	}
	return s.GetByID(ctx, id)
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID int) (int, error) {
	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return 0, translate(err, "get user")
	}
	n, err := s.store.Notifications().MarkAllRead(ctx, userID)
	if err != nil {
		return 0, translate(err, "mark all notifications read")
	}
	return n, nil
}

func (s *notificationService) Send(ctx context.Context, input SendNotificationInput) ([]*models.Notification, error) {
	if input.Type == "" {
		input.Type = models.NotificationSystem
	}
	input.Title = strings.TrimSpace(input.Title)
	input.Message = strings.TrimSpace(input.Message)

	v := ValidationErrors{}
	v.Check(input.Type.Valid(), "type", "must be one of tournament, wallet, team, referral, system")
	n := utf8.RuneCountInString(input.Title)
	v.Check(n >= 1 && n <= 200, "title", "must be between 1 and 200 characters")
	v.Check(input.Message != "", "message", "is required")
	if err := v.Err(); err != nil {
		return nil, err
	}

	var created []*models.Notification
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		var recipients []int
		if input.UserID != nil {
			if _, err := tx.Users().GetByID(ctx, *input.UserID); err != nil {
				return err
			}
			recipients = []int{*input.UserID}
		} else {
			ids, err := tx.Users().ListIDs(ctx)
			if err != nil {
				return err
			}
			recipients = ids
		}

		created = make([]*models.Notification, 0, len(recipients))
		for _, id := range recipients {
			note, err := createNotification(ctx, tx, id, input.Type, input.Title, input.Message)
			if err != nil {
				return err
			}
			created = append(created, note)
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, "send notification")
	}

	s.effects.Logger.InfoContext(ctx, "Notification sent",
		slog.String("type", string(input.Type)),
		slog.Int("recipients", len(created)),
		slog.Bool("broadcast", input.UserID == nil))
	s.effects.deliver(created...)
	return created, nil
}
