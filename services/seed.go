package services

import (
	"context"
	"errors"
	"log/slog"
)

// DemoAdmin - учётная запись администратора для демо-режима.
type DemoAdmin struct {
	Username string
	Email    string
	Password string
}

var demoGames = []string{"Counter-Strike 2", "Dota 2", "Valorant", "League of Legends", "Fortnite"}

// SeedDemoData создаёт демо-администратора и каталог игр.
// Повторный запуск ничего не меняет.
func SeedDemoData(ctx context.Context, admin DemoAdmin, auth AuthService, users UserService, games GameService, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	user, err := auth.Register(ctx, RegisterInput{
		Username: admin.Username,
		Email:    admin.Email,
		Password: admin.Password,
		FullName: "Administrator",
	})
	switch {
	case err == nil:
		isAdmin := true
		if _, err := users.Update(ctx, user.ID, UpdateUserInput{IsAdmin: &isAdmin}, true); err != nil {
			return err
		}
		logger.InfoContext(ctx, "Demo administrator created", slog.String("username", admin.Username))
	case errors.Is(err, ErrUsernameTaken), errors.Is(err, ErrEmailTaken):
	default:
		return err
	}

	existing, err := games.List(ctx, false)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, name := range demoGames {
		if _, err := games.Create(ctx, GameInput{Name: name}); err != nil {
			return err
		}
	}
	logger.InfoContext(ctx, "Demo games created", slog.Int("count", len(demoGames)))
	return nil
}
