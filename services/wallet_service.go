package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dosada05/arena/events"
	"github.com/Dosada05/arena/models"
	"github.com/Dosada05/arena/realtime"
	"github.com/Dosada05/arena/repositories"
	"github.com/shopspring/decimal"
)

type WalletService interface {
	UpdateUserWallet(ctx context.Context, userID int, delta decimal.Decimal) (models.Money, error)
	AddMoney(ctx context.Context, userID int, amount models.Money, idempotencyKey string) (*WalletOperation, error)
	Withdraw(ctx context.Context, userID int, amount models.Money, idempotencyKey string) (*WalletOperation, error)
	CreateTransaction(ctx context.Context, input CreateTransactionInput) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, error)
	ListUserTransactions(ctx context.Context, userID, limit, offset int) ([]*models.Transaction, error)
}

// WalletOperation - результат пополнения или вывода. Replayed означает, что
// операция с этим ключом уже была выполнена раньше и повторно не применялась.
type WalletOperation struct {
	Transaction *models.Transaction `json:"transaction"`
	Balance     models.Money        `json:"balance"`
	Replayed    bool                `json:"replayed"`
}

// CreateTransactionInput - запись журнала от администратора. Amount со знаком.
type CreateTransactionInput struct {
	UserID       int                      `json:"userId"`
	Type         models.TransactionType   `json:"type"`
	Amount       models.Money             `json:"amount"`
	Status       models.TransactionStatus `json:"status"`
	Description  string                   `json:"description"`
	Reference    *string                  `json:"reference,omitempty"`
	TournamentID *int                     `json:"tournamentId,omitempty"`
}

type walletService struct {
	store   repositories.Store
	effects SideEffects
}

func NewWalletService(store repositories.Store, effects SideEffects) WalletService {
	return &walletService{store: store, effects: effects.withDefaults()}
}

func (s *walletService) UpdateUserWallet(ctx context.Context, userID int, delta decimal.Decimal) (models.Money, error) {
	balance, err := s.store.Users().UpdateWallet(ctx, userID, delta)
	if err != nil {
		return models.Money{}, translate(err, "update wallet")
	}
	s.walletChanged(ctx, userID, balance)
	return balance, nil
}

func (s *walletService) AddMoney(ctx context.Context, userID int, amount models.Money, idempotencyKey string) (*WalletOperation, error) {
	return s.apply(ctx, walletMove{
		userID:  userID,
		amount:  amount,
		key:     idempotencyKey,
		txType:  models.TxDeposit,
		subject: events.SubjectWalletDeposit,
		title:   "Deposit completed",
	})
}

func (s *walletService) Withdraw(ctx context.Context, userID int, amount models.Money, idempotencyKey string) (*WalletOperation, error) {
	return s.apply(ctx, walletMove{
		userID:  userID,
		amount:  amount,
		key:     idempotencyKey,
		txType:  models.TxWithdrawal,
		subject: events.SubjectWalletWithdrawal,
		title:   "Withdrawal completed",
		debit:   true,
	})
}

type walletMove struct {
	userID  int
	amount  models.Money
	key     string
	txType  models.TransactionType
	subject string
	title   string
	debit   bool
}

func (s *walletService) apply(ctx context.Context, m walletMove) (*WalletOperation, error) {
	v := ValidationErrors{}
	validateAmount(v, "amount", m.amount)
	if err := v.Err(); err != nil {
		return nil, err
	}

	m.key = strings.TrimSpace(m.key)
	var reference *string
	if m.key != "" {
		reference = &m.key
	}

	signed := m.amount
	if m.debit {
		signed = m.amount.Neg()
	}

	op := &WalletOperation{}
	var note *models.Notification
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		if reference != nil {
			existing, err := tx.Transactions().GetByReference(ctx, m.userID, m.key)
			switch {
			case err == nil:
				if existing.Type != m.txType {
					return ErrIdempotencyKeyReused
				}
				user, err := tx.Users().GetByID(ctx, m.userID)
				if err != nil {
					return err
				}
				op.Transaction, op.Balance, op.Replayed = existing, user.WalletBalance, true
				return nil
			case !errors.Is(err, repositories.ErrTransactionNotFound):
				return err
			}
		}

		balance, err := tx.Users().UpdateWallet(ctx, m.userID, signed.Decimal)
		if err != nil {
			return err
		}
		record := &models.Transaction{
			UserID:      m.userID,
			Type:        m.txType,
			Amount:      signed,
			Status:      models.TxCompleted,
			Description: fmt.Sprintf("Wallet %s of %s", m.txType, m.amount),
			Reference:   reference,
		}
		if err := tx.Transactions().Create(ctx, record); err != nil {
			return err
		}
		note, err = createNotification(ctx, tx, m.userID, models.NotificationWallet, m.title,
			fmt.Sprintf("%s %s. New balance: %s.", m.title, m.amount, balance))
		if err != nil {
			return err
		}
		op.Transaction, op.Balance = record, balance
		return nil
	})
	if err != nil {
		return nil, translate(err, "apply wallet "+string(m.txType))
	}
	if op.Replayed {
		s.effects.Logger.InfoContext(ctx, "Wallet operation replayed", slog.Int("user_id", m.userID), slog.String("reference", m.key))
		return op, nil
	}

	s.effects.Logger.InfoContext(ctx, "Wallet updated",
		slog.Int("user_id", m.userID),
		slog.String("type", string(m.txType)),
		slog.String("amount", signed.String()),
		slog.String("balance", op.Balance.String()))
	s.effects.deliver(note)
	s.effects.publish(ctx, m.subject, map[string]interface{}{
		"userId":        m.userID,
		"transactionId": op.Transaction.ID,
		"amount":        signed,
		"balance":       op.Balance,
	})
	s.walletChanged(ctx, m.userID, op.Balance)
	return op, nil
}

func (s *walletService) walletChanged(ctx context.Context, userID int, balance models.Money) {
	s.effects.Notifier.PushToUser(userID, realtime.MessageWalletUpdated, map[string]interface{}{"balance": balance})
	s.effects.invalidateLeaderboard(ctx)
}

func (s *walletService) CreateTransaction(ctx context.Context, input CreateTransactionInput) (*models.Transaction, error) {
	if input.Status == "" {
		input.Status = models.TxCompleted
	}
	input.Description = strings.TrimSpace(input.Description)

	v := ValidationErrors{}
	v.Check(input.UserID > 0, "userId", "is required")
	v.Check(input.Type.Valid(), "type", "must be one of deposit, withdrawal, tournament_entry, tournament_win, referral_bonus")
	v.Check(input.Status.Valid(), "status", "must be one of pending, completed, failed")
	v.Check(!input.Amount.IsZero(), "amount", "must not be zero")
	v.Check(input.Amount.Decimal.Equal(input.Amount.Decimal.Round(2)), "amount", "must have at most 2 decimal places")
	if err := v.Err(); err != nil {
		return nil, err
	}
	if input.Reference != nil && strings.TrimSpace(*input.Reference) == "" {
		input.Reference = nil
	}

	record := &models.Transaction{
		UserID:       input.UserID,
		Type:         input.Type,
		Amount:       input.Amount,
		Status:       input.Status,
		Description:  input.Description,
		Reference:    input.Reference,
		TournamentID: input.TournamentID,
	}
	var balance models.Money
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		if input.Status == models.TxCompleted {
			var err error
			if balance, err = tx.Users().UpdateWallet(ctx, input.UserID, input.Amount.Decimal); err != nil {
				return err
			}
		}
		return tx.Transactions().Create(ctx, record)
	})
	if err != nil {
		return nil, translate(err, "create transaction")
	}

	if record.Status == models.TxCompleted {
		s.walletChanged(ctx, record.UserID, balance)
	}
	return record, nil
}

func (s *walletService) ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]*models.Transaction, error) {
	v := ValidationErrors{}
	if filter.Type != nil {
		v.Check(filter.Type.Valid(), "type", "unknown transaction type")
	}
	if filter.Status != nil {
		v.Check(filter.Status.Valid(), "status", "unknown transaction status")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	items, err := s.store.Transactions().List(ctx, filter)
	if err != nil {
		return nil, translate(err, "list transactions")
	}
	return items, nil
}

func (s *walletService) ListUserTransactions(ctx context.Context, userID, limit, offset int) ([]*models.Transaction, error) {
	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return nil, translate(err, "get user")
	}
	return s.ListTransactions(ctx, models.TransactionFilter{UserID: &userID, Limit: limit, Offset: offset})
}
