package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"ridepool-backend/internal/domain"
	"ridepool-backend/internal/repository"
)

// ledgerRepository keeps two records per mutation: the guarded accounts row
// (the fast-path projection) and an immutable ledger_entries row, so the
// balance is always derivable by replay. Both are written in one SQL
// transaction.
type ledgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) repository.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) GetBalance(ctx context.Context, accountID string) (*domain.Balance, error) {
	b := &domain.Balance{AccountID: accountID}
	query := `SELECT spendable, held FROM accounts WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, accountID).Scan(&b.Spendable, &b.Held)
	if errors.Is(err, sql.ErrNoRows) {
		// account springs into existence on first credit
		return b, nil
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *ledgerRepository) GetHold(ctx context.Context, holdID string) (*domain.CreditHold, error) {
	h := &domain.CreditHold{}
	query := `SELECT id, account_id, amount, status, COALESCE(reason_ref, ''), created_on, updated_on FROM credit_holds WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, holdID).Scan(&h.ID, &h.AccountID, &h.Amount, &h.Status, &h.ReasonRef, &h.CreatedOn, &h.UpdatedOn)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (r *ledgerRepository) ListEntries(ctx context.Context, accountID string, page, pageSize int32) ([]domain.LedgerEntry, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM ledger_entries WHERE account_id = $1`, accountID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, account_id, amount, type, hold_id, COALESCE(reason_ref, ''), COALESCE(description, ''), created_on
	          FROM ledger_entries WHERE account_id = $1
	          ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, accountID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []domain.LedgerEntry
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Amount, &e.Type, &e.HoldID, &e.ReasonRef, &e.Description, &e.CreatedOn); err != nil {
			return nil, 0, err
		}
		entries = append(entries, e)
	}
	return entries, count, rows.Err()
}

func (r *ledgerRepository) Hold(ctx context.Context, accountID string, amount int32, reasonRef, description string) (*domain.CreditHold, error) {
	if amount <= 0 {
		return nil, domain.NewValidationError("amount", "must be positive")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	// Guarded move from spendable to held. Zero rows means the balance was
	// short or the account is unknown.
	res, err := tx.ExecContext(ctx,
		`UPDATE accounts SET spendable = spendable - $2, held = held + $2, updated_on = NOW()
		 WHERE id = $1 AND spendable >= $2`, accountID, amount)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, domain.ErrInsufficientCredits
	}

	hold := &domain.CreditHold{
		ID:        uuid.NewString(),
		AccountID: accountID,
		Amount:    amount,
		Status:    domain.HoldStatusOpen,
		ReasonRef: reasonRef,
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO credit_holds (id, account_id, amount, status, reason_ref, created_on, updated_on)
		 VALUES ($1, $2, $3, $4, $5, NOW(), NOW()) RETURNING created_on, updated_on`,
		hold.ID, hold.AccountID, hold.Amount, hold.Status, hold.ReasonRef,
	).Scan(&hold.CreatedOn, &hold.UpdatedOn)
	if err != nil {
		return nil, err
	}

	if err := appendEntry(ctx, tx, accountID, amount, domain.EntryTypeHold, &hold.ID, reasonRef, description); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return hold, nil
}

func (r *ledgerRepository) SettleHold(ctx context.Context, holdID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var accountID string
	var amount int32
	var reasonRef string
	err = tx.QueryRowContext(ctx,
		`UPDATE credit_holds SET status = 'SETTLED', updated_on = NOW()
		 WHERE id = $1 AND status = 'OPEN'
		 RETURNING account_id, amount, COALESCE(reason_ref, '')`, holdID,
	).Scan(&accountID, &amount, &reasonRef)
	if errors.Is(err, sql.ErrNoRows) {
		return r.classifyClosedHold(ctx, holdID, domain.HoldStatusSettled)
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE accounts SET held = held - $2, updated_on = NOW() WHERE id = $1`, accountID, amount); err != nil {
		return err
	}

	if err := appendEntry(ctx, tx, accountID, -amount, domain.EntryTypeDebit, &holdID, reasonRef, "hold settled"); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *ledgerRepository) ReleaseHold(ctx context.Context, holdID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var accountID string
	var amount int32
	var reasonRef string
	err = tx.QueryRowContext(ctx,
		`UPDATE credit_holds SET status = 'RELEASED', updated_on = NOW()
		 WHERE id = $1 AND status = 'OPEN'
		 RETURNING account_id, amount, COALESCE(reason_ref, '')`, holdID,
	).Scan(&accountID, &amount, &reasonRef)
	if errors.Is(err, sql.ErrNoRows) {
		// Already released or settled: retried cancellations are tolerated.
		if _, err := r.GetHold(ctx, holdID); err != nil {
			return err
		}
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE accounts SET held = held - $2, spendable = spendable + $2, updated_on = NOW() WHERE id = $1`, accountID, amount); err != nil {
		return err
	}

	if err := appendEntry(ctx, tx, accountID, amount, domain.EntryTypeRelease, &holdID, reasonRef, "hold released"); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *ledgerRepository) Credit(ctx context.Context, accountID string, amount int32, reasonRef, description string) error {
	if amount <= 0 {
		return domain.NewValidationError("amount", "must be positive")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO accounts (id, spendable, held, created_on, updated_on)
		 VALUES ($1, $2, 0, NOW(), NOW())
		 ON CONFLICT (id) DO UPDATE SET spendable = accounts.spendable + EXCLUDED.spendable, updated_on = NOW()`,
		accountID, amount); err != nil {
		return err
	}

	if err := appendEntry(ctx, tx, accountID, amount, domain.EntryTypeCredit, nil, reasonRef, description); err != nil {
		return err
	}

	return tx.Commit()
}

// classifyClosedHold decides whether a conditional update that matched no
// rows is a tolerated retry or a real fault.
func (r *ledgerRepository) classifyClosedHold(ctx context.Context, holdID string, want domain.HoldStatus) error {
	hold, err := r.GetHold(ctx, holdID)
	if err != nil {
		return err
	}
	if hold.Status == want {
		return nil
	}
	return fmt.Errorf("hold %s is %s: %w", holdID, hold.Status, domain.ErrInvalidStateTransition)
}

func appendEntry(ctx context.Context, tx *sql.Tx, accountID string, amount int32, typ domain.EntryType, holdID *string, reasonRef, description string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO ledger_entries (id, account_id, amount, type, hold_id, reason_ref, description, created_on)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`,
		uuid.NewString(), accountID, amount, typ, holdID, reasonRef, description)
	return err
}
