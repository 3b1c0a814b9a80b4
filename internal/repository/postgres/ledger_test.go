package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"ridepool-backend/internal/domain"
	"ridepool-backend/internal/repository/postgres"
)

func newLedgerMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	return db, mock, func() { db.Close() }
}

func TestLedgerRepository_Hold(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("Success", func(t *testing.T) {
		db, mock, closeFn := newLedgerMock(t)
		defer closeFn()
		repo := postgres.NewLedgerRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE accounts SET spendable").
			WithArgs("acct-1", int32(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery("INSERT INTO credit_holds").
			WithArgs(sqlmock.AnyArg(), "acct-1", int32(2), domain.HoldStatusOpen, "trip-1").
			WillReturnRows(sqlmock.NewRows([]string{"created_on", "updated_on"}).AddRow(now, now))
		mock.ExpectExec("INSERT INTO ledger_entries").
			WithArgs(sqlmock.AnyArg(), "acct-1", int32(2), domain.EntryTypeHold, sqlmock.AnyArg(), "trip-1", "booking fee").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		hold, err := repo.Hold(ctx, "acct-1", 2, "trip-1", "booking fee")
		assert.NoError(t, err)
		assert.Equal(t, domain.HoldStatusOpen, hold.Status)
		assert.Equal(t, int32(2), hold.Amount)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InsufficientCredits", func(t *testing.T) {
		db, mock, closeFn := newLedgerMock(t)
		defer closeFn()
		repo := postgres.NewLedgerRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE accounts SET spendable").
			WithArgs("acct-1", int32(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		_, err := repo.Hold(ctx, "acct-1", 99, "trip-1", "booking fee")
		assert.ErrorIs(t, err, domain.ErrInsufficientCredits)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RejectsNonPositiveAmount", func(t *testing.T) {
		db, _, closeFn := newLedgerMock(t)
		defer closeFn()
		repo := postgres.NewLedgerRepository(db)

		_, err := repo.Hold(ctx, "acct-1", 0, "", "")
		var vErr *domain.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})
}

func TestLedgerRepository_SettleHold(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, closeFn := newLedgerMock(t)
		defer closeFn()
		repo := postgres.NewLedgerRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE credit_holds SET status = 'SETTLED'").
			WithArgs("hold-1").
			WillReturnRows(sqlmock.NewRows([]string{"account_id", "amount", "reason_ref"}).
				AddRow("acct-1", 2, "trip-1"))
		mock.ExpectExec("UPDATE accounts SET held").
			WithArgs("acct-1", int32(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO ledger_entries").
			WithArgs(sqlmock.AnyArg(), "acct-1", int32(-2), domain.EntryTypeDebit, sqlmock.AnyArg(), "trip-1", "hold settled").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.SettleHold(ctx, "hold-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RetryIsTolerated", func(t *testing.T) {
		db, mock, closeFn := newLedgerMock(t)
		defer closeFn()
		repo := postgres.NewLedgerRepository(db)
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE credit_holds SET status = 'SETTLED'").
			WithArgs("hold-1").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT id, account_id, amount, status").
			WithArgs("hold-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "amount", "status", "reason_ref", "created_on", "updated_on"}).
				AddRow("hold-1", "acct-1", 2, "SETTLED", "trip-1", now, now))
		mock.ExpectRollback()

		assert.NoError(t, repo.SettleHold(ctx, "hold-1"))
	})

	t.Run("ReleasedHoldCannotSettle", func(t *testing.T) {
		db, mock, closeFn := newLedgerMock(t)
		defer closeFn()
		repo := postgres.NewLedgerRepository(db)
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE credit_holds SET status = 'SETTLED'").
			WithArgs("hold-1").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT id, account_id, amount, status").
			WithArgs("hold-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "amount", "status", "reason_ref", "created_on", "updated_on"}).
				AddRow("hold-1", "acct-1", 2, "RELEASED", "trip-1", now, now))
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.SettleHold(ctx, "hold-1"), domain.ErrInvalidStateTransition)
	})
}

func TestLedgerRepository_ReleaseHold(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, closeFn := newLedgerMock(t)
		defer closeFn()
		repo := postgres.NewLedgerRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE credit_holds SET status = 'RELEASED'").
			WithArgs("hold-1").
			WillReturnRows(sqlmock.NewRows([]string{"account_id", "amount", "reason_ref"}).
				AddRow("acct-1", 2, "trip-1"))
		mock.ExpectExec("UPDATE accounts SET held").
			WithArgs("acct-1", int32(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO ledger_entries").
			WithArgs(sqlmock.AnyArg(), "acct-1", int32(2), domain.EntryTypeRelease, sqlmock.AnyArg(), "trip-1", "hold released").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.ReleaseHold(ctx, "hold-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DoubleReleaseIsNoOp", func(t *testing.T) {
		db, mock, closeFn := newLedgerMock(t)
		defer closeFn()
		repo := postgres.NewLedgerRepository(db)
		now := time.Now()

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE credit_holds SET status = 'RELEASED'").
			WithArgs("hold-1").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT id, account_id, amount, status").
			WithArgs("hold-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "account_id", "amount", "status", "reason_ref", "created_on", "updated_on"}).
				AddRow("hold-1", "acct-1", 2, "RELEASED", "trip-1", now, now))
		mock.ExpectRollback()

		assert.NoError(t, repo.ReleaseHold(ctx, "hold-1"))
	})

	t.Run("UnknownHold", func(t *testing.T) {
		db, mock, closeFn := newLedgerMock(t)
		defer closeFn()
		repo := postgres.NewLedgerRepository(db)

		mock.ExpectBegin()
		mock.ExpectQuery("UPDATE credit_holds SET status = 'RELEASED'").
			WithArgs("hold-x").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectQuery("SELECT id, account_id, amount, status").
			WithArgs("hold-x").
			WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		assert.ErrorIs(t, repo.ReleaseHold(ctx, "hold-x"), domain.ErrNotFound)
	})
}

func TestLedgerRepository_Credit(t *testing.T) {
	ctx := context.Background()

	t.Run("UpsertsAccount", func(t *testing.T) {
		db, mock, closeFn := newLedgerMock(t)
		defer closeFn()
		repo := postgres.NewLedgerRepository(db)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO accounts").
			WithArgs("acct-1", int32(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO ledger_entries").
			WithArgs(sqlmock.AnyArg(), "acct-1", int32(10), domain.EntryTypeCredit, nil, "", "signup bonus").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.Credit(ctx, "acct-1", 10, "", "signup bonus"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerRepository_GetBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("ExistingAccount", func(t *testing.T) {
		db, mock, closeFn := newLedgerMock(t)
		defer closeFn()
		repo := postgres.NewLedgerRepository(db)

		mock.ExpectQuery("SELECT spendable, held FROM accounts").
			WithArgs("acct-1").
			WillReturnRows(sqlmock.NewRows([]string{"spendable", "held"}).AddRow(8, 2))

		balance, err := repo.GetBalance(ctx, "acct-1")
		assert.NoError(t, err)
		assert.Equal(t, int32(8), balance.Spendable)
		assert.Equal(t, int32(2), balance.Held)
	})

	t.Run("UnknownAccountIsZero", func(t *testing.T) {
		db, mock, closeFn := newLedgerMock(t)
		defer closeFn()
		repo := postgres.NewLedgerRepository(db)

		mock.ExpectQuery("SELECT spendable, held FROM accounts").
			WithArgs("acct-x").
			WillReturnError(sql.ErrNoRows)

		balance, err := repo.GetBalance(ctx, "acct-x")
		assert.NoError(t, err)
		assert.Equal(t, int32(0), balance.Spendable)
		assert.Equal(t, int32(0), balance.Held)
	})
}
