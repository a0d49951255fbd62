package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/Dosada05/arena/models"
	"github.com/Dosada05/arena/repositories"
	"github.com/gosimple/slug"
)

type GameService interface {
	Create(ctx context.Context, input GameInput) (*models.Game, error)
	GetByID(ctx context.Context, id int) (*models.Game, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Game, error)
	Update(ctx context.Context, id int, input UpdateGameInput) (*models.Game, error)
	Delete(ctx context.Context, id int) error
}

type GameInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

type UpdateGameInput struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

type gameService struct {
	store repositories.Store
}

func NewGameService(store repositories.Store) GameService {
	return &gameService{store: store}
}

// normalizeGame пересчитывает slug из имени.
func normalizeGame(g *models.Game) error {
	g.Name = strings.TrimSpace(g.Name)
	g.Slug = slug.Make(g.Name)

	v := ValidationErrors{}
	n := utf8.RuneCountInString(g.Name)
	v.Check(n >= 1 && n <= 100, "name", "must be between 1 and 100 characters")
	if n > 0 {
		v.Check(g.Slug != "", "name", "must contain letters or digits")
	}
	return v.Err()
}

func (s *gameService) Create(ctx context.Context, input GameInput) (*models.Game, error) {
	game := &models.Game{
		Name:        input.Name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		IsActive:    input.IsActive == nil || *input.IsActive,
	}
	if err := normalizeGame(game); err != nil {
		return nil, err
	}
	if err := s.store.Games().Create(ctx, game); err != nil {
		return nil, translate(err, "create game")
	}
	return game, nil
}

func (s *gameService) GetByID(ctx context.Context, id int) (*models.Game, error) {
	game, err := s.store.Games().GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get game")
	}
	return game, nil
}

func (s *gameService) List(ctx context.Context, activeOnly bool) ([]*models.Game, error) {
	games, err := s.store.Games().List(ctx, activeOnly)
	if err != nil {
		return nil, translate(err, "list games")
	}
	return games, nil
}

func (s *gameService) Update(ctx context.Context, id int, input UpdateGameInput) (*models.Game, error) {
	game, err := s.store.Games().GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get game")
	}
	if input.Name != nil {
		game.Name = *input.Name
	}
	if input.Description != nil {
		game.Description = input.Description
	}
	if input.ImageURL != nil {
		game.ImageURL = input.ImageURL
	}
	if input.IsActive != nil {
		game.IsActive = *input.IsActive
	}
	if err := normalizeGame(game); err != nil {
		return nil, err
	}
	if err := s.store.Games().Update(ctx, game); err != nil {
		return nil, translate(err, "update game")
	}
	return game, nil
}

func (s *gameService) Delete(ctx context.Context, id int) error {
	if err := s.store.Games().Delete(ctx, id); err != nil {
		return translate(err, "delete game")
	}
	return nil
}
