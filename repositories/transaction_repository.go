package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Dosada05/arena/models"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateReference  = errors.New("transaction reference already used")
)

type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByReference(ctx context.Context, userID int, reference string) (*models.Transaction, error)
	List(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, error)
}

type postgresTransactionRepository struct {
	db SQLExecutor
}

func NewPostgresTransactionRepository(db SQLExecutor) TransactionRepository {
	return &postgresTransactionRepository{db: db}
}

const transactionColumns = `id, user_id, type, amount, status, description, reference, tournament_id, created_at`

func scanTransaction(row interface{ Scan(dest ...interface{}) error }) (*models.Transaction, error) {
	var t models.Transaction
	var reference sql.NullString
	var tournamentID sql.NullInt64
	err := row.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Status, &t.Description, &reference, &tournamentID, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	if reference.Valid {
		t.Reference = &reference.String
	}
	if tournamentID.Valid {
		id := int(tournamentID.Int64)
		t.TournamentID = &id
	}
	return &t, nil
}

func (r *postgresTransactionRepository) Create(ctx context.Context, t *models.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, type, amount, status, description, reference, tournament_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		t.UserID,
		t.Type,
		t.Amount,
		t.Status,
		t.Description,
		t.Reference,
		t.TournamentID,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		if constraint, ok := constraintError(err, pqUniqueViolation); ok && constraint == "transactions_user_id_reference_key" {
			return ErrDuplicateReference
		}
		if constraint, ok := constraintError(err, pqForeignKeyViolation); ok {
			switch constraint {
			case "transactions_user_id_fkey":
				return ErrUserNotFound
			case "transactions_tournament_id_fkey":
				return ErrTournamentNotFound
			}
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *postgresTransactionRepository) GetByReference(ctx context.Context, userID int, reference string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE user_id = $1 AND reference = $2`
	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, userID, reference))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by reference: %w", err)
	}
	return t, nil
}

func (r *postgresTransactionRepository) List(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE ($1::int IS NULL OR user_id = $1)
			AND ($2::text IS NULL OR type = $2)
			AND ($3::text IS NULL OR status = $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5`

	var userID, txType, status interface{}
	if filter.UserID != nil {
		userID = *filter.UserID
	}
	if filter.Type != nil {
		txType = string(*filter.Type)
	}
	if filter.Status != nil {
		status = string(*filter.Status)
	}
	limit := normalizeLimit(filter.Limit, defaultListLimit, maxListLimit)

	rows, err := r.db.QueryContext(ctx, query, userID, txType, status, limit, max(filter.Offset, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]*models.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return transactions, nil
}
