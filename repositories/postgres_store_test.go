package repositories

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Dosada05/arena/models"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db, nil), mock
}

func TestPostgresUpdateWallet(t *testing.T) {
	testCases := []struct {
		name    string
		setup   func(mock sqlmock.Sqlmock)
		want    string
		wantErr error
	}{
		{
			name: "credited",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE users SET wallet_balance`).
					WithArgs(1, sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}).AddRow("150.00"))
			},
			want: "150.00",
		},
		{
			name: "insufficient funds",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE users SET wallet_balance`).
					WithArgs(1, sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}))
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs(1).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
			wantErr: ErrInsufficientFunds,
		},
		{
			name: "unknown user",
			setup: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`UPDATE users SET wallet_balance`).
					WithArgs(1, sqlmock.AnyArg()).
					WillReturnRows(sqlmock.NewRows([]string{"wallet_balance"}))
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs(1).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
			},
			wantErr: ErrUserNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			store, mock := newMockStore(t)
			tc.setup(mock)

			balance, err := store.Users().UpdateWallet(context.Background(), 1, decimal.NewFromInt(50))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tc.want, balance.String())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresIncrementParticipantsFull(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`UPDATE tournaments SET current_participants`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := store.Tournaments().IncrementParticipants(context.Background(), 7)
	assert.ErrorIs(t, err, ErrTournamentFull)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresIncrementMembers(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectExec(`UPDATE teams SET current_members`).
		WithArgs(3).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, store.Teams().IncrementMembers(context.Background(), 3))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresConstraintMapping(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`INSERT INTO tournament_participants`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "tournament_participants_tournament_id_user_id_key"})
	mock.ExpectQuery(`INSERT INTO transactions`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "transactions_user_id_reference_key"})

	ctx := context.Background()
	err := store.Participants().Create(ctx, &models.TournamentParticipant{TournamentID: 1, UserID: 2})
	assert.ErrorIs(t, err, ErrAlreadyJoined)

	ref := "abc"
	err = store.Transactions().Create(ctx, &models.Transaction{
		UserID: 2, Type: models.TxDeposit, Amount: models.MustMoney("10"), Status: models.TxCompleted, Reference: &ref,
	})
	assert.ErrorIs(t, err, ErrDuplicateReference)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresWithTx(t *testing.T) {
	t.Run("commit", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE teams SET current_members`).WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := store.WithTx(context.Background(), func(tx Store) error {
			return tx.Teams().IncrementMembers(context.Background(), 1)
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rollback", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		boom := errors.New("boom")
		err := store.WithTx(context.Background(), func(tx Store) error { return boom })
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresCaseInsensitiveConflicts(t *testing.T) {
	tests := []struct {
		name       string
		constraint string
		create     func(ctx context.Context, s *PostgresStore) error
		want       error
	}{
		{
			name:       "username index",
			constraint: "users_username_lower_key",
			create: func(ctx context.Context, s *PostgresStore) error {
				return s.Users().Create(ctx, &models.User{Username: "Alice", Email: "a@arena.test", ReferralCode: "AAAA"})
			},
			want: ErrUserUsernameConflict,
		},
		{
			name:       "email index",
			constraint: "users_email_lower_key",
			create: func(ctx context.Context, s *PostgresStore) error {
				return s.Users().Create(ctx, &models.User{Username: "bob", Email: "A@Arena.Test", ReferralCode: "BBBB"})
			},
			want: ErrUserEmailConflict,
		},
		{
			name:       "team name index",
			constraint: "teams_name_lower_key",
			create: func(ctx context.Context, s *PostgresStore) error {
				return s.Teams().Create(ctx, &models.Team{Name: "Wolves", CaptainID: 1, MaxMembers: 6, JoinCode: "WOLF"})
			},
			want: ErrTeamNameConflict,
		},
		{
			name:       "legacy team name constraint",
			constraint: "teams_name_key",
			create: func(ctx context.Context, s *PostgresStore) error {
				return s.Teams().Create(ctx, &models.Team{Name: "wolves", CaptainID: 1, MaxMembers: 6, JoinCode: "WOLF"})
			},
			want: ErrTeamNameConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, mock := newMockStore(t)
			mock.ExpectQuery(`INSERT INTO`).
				WillReturnError(&pq.Error{Code: "23505", Constraint: tt.constraint})

			err := tt.create(context.Background(), store)
			assert.ErrorIs(t, err, tt.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresGetByUsernameIgnoresCase(t *testing.T) {
	store, mock := newMockStore(t)
	mock.ExpectQuery(`WHERE LOWER\(username\) = LOWER\(\$1\)`).
		WithArgs("ALICE").
		WillReturnError(sql.ErrNoRows)

	_, err := store.Users().GetByUsername(context.Background(), "ALICE")
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
