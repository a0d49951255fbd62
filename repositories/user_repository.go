package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/arena/models"
	"github.com/shopspring/decimal"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserUsernameConflict  = errors.New("username is already taken")
	ErrUserEmailConflict     = errors.New("email is already taken")
	ErrUserReferralCodeTaken = errors.New("referral code conflict")
	ErrInsufficientFunds     = errors.New("insufficient wallet balance")
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByReferralCode(ctx context.Context, code string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]*models.User, error)
	ListIDs(ctx context.Context) ([]int, error)
	ListReferrals(ctx context.Context, referrerID int) ([]*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateAvatarKey(ctx context.Context, id int, key *string) error
	// UpdateWallet atomically applies a signed delta and returns the new
	// balance. The balance never goes below zero.
	UpdateWallet(ctx context.Context, id int, delta decimal.Decimal) (models.Money, error)
	AddBonusCoins(ctx context.Context, id int, coins int) error
	Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
	Count(ctx context.Context) (int, error)
}

type postgresUserRepository struct {
	db SQLExecutor
}

func NewPostgresUserRepository(db SQLExecutor) UserRepository {
	return &postgresUserRepository{db: db}
}

const userColumns = `id, username, email, full_name, password_hash, wallet_balance, bonus_coins, referral_code, referred_by, is_admin, avatar_key, created_at`

func scanUser(row interface{ Scan(dest ...interface{}) error }) (*models.User, error) {
	var user models.User
	var referredBy sql.NullInt64
	var avatarKey sql.NullString
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.WalletBalance,
		&user.BonusCoins,
		&user.ReferralCode,
		&referredBy,
		&user.IsAdmin,
		&avatarKey,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if referredBy.Valid {
		id := int(referredBy.Int64)
		user.ReferredBy = &id
	}
	if avatarKey.Valid {
		user.AvatarKey = &avatarKey.String
	}
	return &user, nil
}

func mapUserConstraintError(err error) error {
	if constraint, ok := constraintError(err, pqUniqueViolation); ok {
		switch constraint {
		case "users_username_lower_key", "users_username_key":
			return ErrUserUsernameConflict
		case "users_email_lower_key", "users_email_key":
			return ErrUserEmailConflict
		case "users_referral_code_key":
			return ErrUserReferralCodeTaken
		}
	}
	if constraint, ok := constraintError(err, pqForeignKeyViolation); ok && constraint == "users_referred_by_fkey" {
		return ErrUserNotFound
	}
	return err
}

func (r *postgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, full_name, password_hash, wallet_balance, bonus_coins, referral_code, referred_by, is_admin)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Username,
		user.Email,
		user.FullName,
		user.PasswordHash,
		user.WalletBalance,
		user.BonusCoins,
		user.ReferralCode,
		user.ReferredBy,
		user.IsAdmin,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if mapped := mapUserConstraintError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *postgresUserRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *postgresUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, "LOWER(username) = LOWER($1)", username)
}

func (r *postgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, "LOWER(email) = LOWER($1)", email)
}

func (r *postgresUserRepository) GetByReferralCode(ctx context.Context, code string) (*models.User, error) {
	return r.getOne(ctx, "referral_code = $1", code)
}

func (r *postgresUserRepository) queryUsers(ctx context.Context, query string, args ...interface{}) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}
	return users, nil
}

func (r *postgresUserRepository) List(ctx context.Context, filter models.UserFilter) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users
		WHERE ($1 = '' OR username ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%' OR full_name ILIKE '%' || $1 || '%')
		ORDER BY id ASC
		LIMIT $2 OFFSET $3`
	limit := normalizeLimit(filter.Limit, defaultListLimit, maxListLimit)
	return r.queryUsers(ctx, query, filter.Search, limit, max(filter.Offset, 0))
}

func (r *postgresUserRepository) ListIDs(ctx context.Context) ([]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query user ids: %w", err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *postgresUserRepository) ListReferrals(ctx context.Context, referrerID int) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE referred_by = $1 ORDER BY id ASC`
	return r.queryUsers(ctx, query, referrerID)
}

func (r *postgresUserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET username = $1, email = $2, full_name = $3, password_hash = $4, is_admin = $5
		WHERE id = $6`

	result, err := r.db.ExecContext(ctx, query,
		user.Username,
		user.Email,
		user.FullName,
		user.PasswordHash,
		user.IsAdmin,
		user.ID,
	)
	if err != nil {
		if mapped := mapUserConstraintError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to update user %d: %w", user.ID, err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) UpdateAvatarKey(ctx context.Context, id int, key *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET avatar_key = $1 WHERE id = $2`, key, id)
	if err != nil {
		return fmt.Errorf("failed to update avatar key for user %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) UpdateWallet(ctx context.Context, id int, delta decimal.Decimal) (models.Money, error) {
	query := `UPDATE users SET wallet_balance = wallet_balance + $2 WHERE id = $1 AND wallet_balance + $2 >= 0 RETURNING wallet_balance`

	var balance models.Money
	err := r.db.QueryRowContext(ctx, query, id, delta.Round(2)).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return models.Money{}, fmt.Errorf("failed to update wallet for user %d: %w", id, err)
	}

	exists, err := rowExists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id)
	if err != nil {
		return models.Money{}, fmt.Errorf("failed to check user %d: %w", id, err)
	}
	if !exists {
		return models.Money{}, ErrUserNotFound
	}
	return models.Money{}, ErrInsufficientFunds
}

func (r *postgresUserRepository) AddBonusCoins(ctx context.Context, id int, coins int) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET bonus_coins = bonus_coins + $1 WHERE id = $2`, coins, id)
	if err != nil {
		return fmt.Errorf("failed to add bonus coins for user %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrUserNotFound)
}

func (r *postgresUserRepository) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	query := `
		SELECT id, username, avatar_key, wallet_balance, bonus_coins, wallet_balance + bonus_coins AS score
		FROM users
		WHERE is_admin = FALSE
		ORDER BY score DESC, id ASC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.LeaderboardEntry, 0, limit)
	for rows.Next() {
		var e models.LeaderboardEntry
		var avatarKey sql.NullString
		if err := rows.Scan(&e.UserID, &e.Username, &avatarKey, &e.WalletBalance, &e.BonusCoins, &e.Score); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		if avatarKey.Valid {
			e.AvatarKey = &avatarKey.String
		}
		e.Rank = len(entries) + 1
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating leaderboard rows: %w", err)
	}
	return entries, nil
}

func (r *postgresUserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}
