package repositories

import (
	"context"
	"fmt"

	"github.com/Dosada05/arena/models"
)

// StatsRepository отдаёт агрегаты для админской аналитики.
type StatsRepository interface {
	CountTournamentsByStatus(ctx context.Context) (map[models.TournamentStatus]int, error)
	// SumTransactions возвращает сумму завершённых транзакций одного типа со знаком.
	SumTransactions(ctx context.Context, txType models.TransactionType) (models.Money, error)
	CountTeams(ctx context.Context) (int, error)
}

type postgresStatsRepository struct {
	db SQLExecutor
}

func NewPostgresStatsRepository(db SQLExecutor) StatsRepository {
	return &postgresStatsRepository{db: db}
}

func (r *postgresStatsRepository) CountTournamentsByStatus(ctx context.Context) (map[models.TournamentStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM tournaments GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count tournaments by status: %w", err)
	}
	defer rows.Close()

	counts := map[models.TournamentStatus]int{
		models.StatusUpcoming: 0,
		models.StatusLive:     0,
		models.StatusEnded:    0,
	}
	for rows.Next() {
		var status models.TournamentStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

func (r *postgresStatsRepository) SumTransactions(ctx context.Context, txType models.TransactionType) (models.Money, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM transactions WHERE type = $1 AND status = 'completed'`
	var sum models.Money
	if err := r.db.QueryRowContext(ctx, query, txType).Scan(&sum); err != nil {
		return models.Money{}, fmt.Errorf("failed to sum %s transactions: %w", txType, err)
	}
	return sum, nil
}

func (r *postgresStatsRepository) CountTeams(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM teams`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}
	return n, nil
}
