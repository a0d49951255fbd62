package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

type PostgresStore struct {
	db     *sql.DB
	exec   SQLExecutor
	logger *slog.Logger
}

func NewPostgresStore(db *sql.DB, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{db: db, exec: db, logger: logger}
}

func (s *PostgresStore) Users() UserRepository { return &postgresUserRepository{db: s.exec} }
func (s *PostgresStore) Games() GameRepository { return &postgresGameRepository{db: s.exec} }
func (s *PostgresStore) Tournaments() TournamentRepository {
	return &postgresTournamentRepository{db: s.exec}
}
func (s *PostgresStore) Teams() TeamRepository { return &postgresTeamRepository{db: s.exec} }
func (s *PostgresStore) Participants() ParticipantRepository {
	return &postgresParticipantRepository{db: s.exec}
}
func (s *PostgresStore) Transactions() TransactionRepository {
	return &postgresTransactionRepository{db: s.exec}
}
func (s *PostgresStore) Notifications() NotificationRepository {
	return &postgresNotificationRepository{db: s.exec}
}
func (s *PostgresStore) Results() ResultRepository { return &postgresResultRepository{db: s.exec} }
func (s *PostgresStore) Stats() StatsRepository    { return &postgresStatsRepository{db: s.exec} }

func (s *PostgresStore) WithTx(ctx context.Context, fn func(tx Store) error) (txErr error) {
	if _, inTx := s.exec.(*sql.Tx); inTx {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if txErr != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.ErrorContext(ctx, "Error during rollback", slog.Any("error", rbErr), slog.Any("original_error", txErr))
				txErr = fmt.Errorf("%w (rollback also failed: %v)", txErr, rbErr)
			}
			return
		}
		if cErr := tx.Commit(); cErr != nil {
			txErr = fmt.Errorf("failed to commit transaction: %w", cErr)
		}
	}()

	return fn(&PostgresStore{db: s.db, exec: tx, logger: s.logger})
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
