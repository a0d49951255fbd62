package repositories

import "context"

// Store объединяет репозитории всех сущностей. Обе реализации (Postgres и
// память) обязаны вести себя одинаково.
type Store interface {
	Users() UserRepository
	Games() GameRepository
	Tournaments() TournamentRepository
	Teams() TeamRepository
	Participants() ParticipantRepository
	Transactions() TransactionRepository
	Notifications() NotificationRepository
	Results() ResultRepository
	Stats() StatsRepository

	// WithTx выполняет fn в транзакции. Если fn вернула ошибку, все записи
	// через tx отменяются. Вложенные вызовы используют внешнюю транзакцию.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}

const (
	defaultListLimit = 50
	maxListLimit     = 500
)
