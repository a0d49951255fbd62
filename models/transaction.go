package models

import "time"

type TransactionType string

const (
	TxDeposit         TransactionType = "deposit"
	TxWithdrawal      TransactionType = "withdrawal"
	TxTournamentEntry TransactionType = "tournament_entry"
	TxTournamentWin   TransactionType = "tournament_win"
	TxReferralBonus   TransactionType = "referral_bonus"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TxDeposit, TxWithdrawal, TxTournamentEntry, TxTournamentWin, TxReferralBonus:
		return true
	}
	return false
}

type TransactionStatus string

const (
	TxPending   TransactionStatus = "pending"
	TxCompleted TransactionStatus = "completed"
	TxFailed    TransactionStatus = "failed"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TxPending, TxCompleted, TxFailed:
		return true
	}
	return false
}

// Transaction is an immutable ledger row. Amount is signed: credits are
// positive, debits negative.
type Transaction struct {
	ID           int               `json:"id"`
	UserID       int               `json:"userId"`
	Type         TransactionType   `json:"type"`
	Amount       Money             `json:"amount"`
	Status       TransactionStatus `json:"status"`
	Description  string            `json:"description"`
	Reference    *string           `json:"reference,omitempty"`
	TournamentID *int              `json:"tournamentId,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
}

type TransactionFilter struct {
	UserID *int
	Type   *TransactionType
	Status *TransactionStatus
	Limit  int
	Offset int
}
