package services

import (
	"context"
	"log/slog"

	"github.com/Dosada05/arena/models"
	"github.com/Dosada05/arena/repositories"
	"github.com/Dosada05/arena/storage"
)

type LeaderboardService interface {
	// Get возвращает не больше limit записей. limit <= 0 или выше
	// настроенного максимума заменяется максимумом.
	Get(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}

type leaderboardService struct {
	store    repositories.Store
	uploader storage.FileUploader
	maxLimit int
	effects  SideEffects
}

func NewLeaderboardService(store repositories.Store, uploader storage.FileUploader, maxLimit int, effects SideEffects) LeaderboardService {
	if maxLimit <= 0 {
		maxLimit = 50
	}
	return &leaderboardService{store: store, uploader: uploader, maxLimit: maxLimit, effects: effects.withDefaults()}
}

func (s *leaderboardService) Get(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	if limit <= 0 || limit > s.maxLimit {
		limit = s.maxLimit
	}

	entries, ok, err := s.effects.Leaderboard.Get(ctx, limit)
	if err != nil {
		s.effects.Logger.WarnContext(ctx, "Leaderboard cache read failed", slog.Any("error", err))
	}
	if ok {
		return entries, nil
	}

	entries, err = s.store.Users().Leaderboard(ctx, limit)
	if err != nil {
		return nil, translate(err, "load leaderboard")
	}
	for _, e := range entries {
		if e.AvatarKey != nil && s.uploader != nil {
			if url := s.uploader.GetPublicURL(*e.AvatarKey); url != "" {
				e.AvatarURL = &url
			}
		}
	}

	if err := s.effects.Leaderboard.Set(ctx, limit, entries); err != nil {
		s.effects.Logger.WarnContext(ctx, "Leaderboard cache write failed", slog.Any("error", err))
	}
	return entries, nil
}
