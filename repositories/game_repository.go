package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/arena/models"
)

var (
	ErrGameNotFound     = errors.New("game not found")
	ErrGameSlugConflict = errors.New("game with this name already exists")
	ErrGameInUse        = errors.New("game is referenced by tournaments")
)

type GameRepository interface {
	Create(ctx context.Context, game *models.Game) error
	GetByID(ctx context.Context, id int) (*models.Game, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Game, error)
	Update(ctx context.Context, game *models.Game) error
	Delete(ctx context.Context, id int) error
}

type postgresGameRepository struct {
	db SQLExecutor
}

func NewPostgresGameRepository(db SQLExecutor) GameRepository {
	return &postgresGameRepository{db: db}
}

func (r *postgresGameRepository) Create(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (name, slug, description, image_url, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, game.Name, game.Slug, game.Description, game.ImageURL, game.IsActive).
		Scan(&game.ID, &game.CreatedAt)
	if err != nil {
		if constraint, ok := constraintError(err, pqUniqueViolation); ok && constraint == "games_slug_key" {
			return ErrGameSlugConflict
		}
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

func scanGame(row interface{ Scan(dest ...interface{}) error }) (*models.Game, error) {
	var g models.Game
	var description, imageURL sql.NullString
	if err := row.Scan(&g.ID, &g.Name, &g.Slug, &description, &imageURL, &g.IsActive, &g.CreatedAt); err != nil {
		return nil, err
	}
	if description.Valid {
		g.Description = &description.String
	}
	if imageURL.Valid {
		g.ImageURL = &imageURL.String
	}
	return &g, nil
}

func (r *postgresGameRepository) GetByID(ctx context.Context, id int) (*models.Game, error) {
	query := `SELECT id, name, slug, description, image_url, is_active, created_at FROM games WHERE id = $1`
	game, err := scanGame(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game %d: %w", id, err)
	}
	return game, nil
}

func (r *postgresGameRepository) List(ctx context.Context, activeOnly bool) ([]*models.Game, error) {
	query := `
		SELECT id, name, slug, description, image_url, is_active, created_at
		FROM games
		WHERE ($1 = FALSE OR is_active = TRUE)
		ORDER BY name ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	defer rows.Close()

	games := make([]*models.Game, 0)
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game row: %w", err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}

func (r *postgresGameRepository) Update(ctx context.Context, game *models.Game) error {
	query := `
		UPDATE games
		SET name = $1, slug = $2, description = $3, image_url = $4, is_active = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query, game.Name, game.Slug, game.Description, game.ImageURL, game.IsActive, game.ID)
	if err != nil {
		if constraint, ok := constraintError(err, pqUniqueViolation); ok && constraint == "games_slug_key" {
			return ErrGameSlugConflict
		}
		return fmt.Errorf("failed to update game %d: %w", game.ID, err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}

func (r *postgresGameRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM games WHERE id = $1`, id)
	if err != nil {
		if constraint, ok := constraintError(err, pqForeignKeyViolation); ok && constraint == "tournaments_game_id_fkey" {
			return ErrGameInUse
		}
		return fmt.Errorf("failed to delete game %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrGameNotFound)
}
