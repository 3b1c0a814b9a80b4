package domain

import "time"

type EntryType string

const (
	EntryTypeCredit  EntryType = "CREDIT"
	EntryTypeDebit   EntryType = "DEBIT"
	EntryTypeHold    EntryType = "HOLD"
	EntryTypeRelease EntryType = "RELEASE"
)

// LedgerEntry is an immutable balance-affecting event. Amount is positive
// for credits and negative for debits; HOLD and RELEASE entries record the
// movement between the spendable and held buckets.
type LedgerEntry struct {
	ID          string    `json:"id"`
	AccountID   string    `json:"account_id"`
	Amount      int32     `json:"amount"`
	Type        EntryType `json:"type"`
	HoldID      *string   `json:"hold_id,omitempty"`
	ReasonRef   string    `json:"reason_ref,omitempty"` // trip or booking id for audit traceability
	Description string    `json:"description"`
	CreatedOn   time.Time `json:"created_on"`
}

type HoldStatus string

const (
	HoldStatusOpen     HoldStatus = "OPEN"
	HoldStatusSettled  HoldStatus = "SETTLED"
	HoldStatusReleased HoldStatus = "RELEASED"
)

type CreditHold struct {
	ID        string     `json:"id"`
	AccountID string     `json:"account_id"`
	Amount    int32      `json:"amount"`
	Status    HoldStatus `json:"status"`
	ReasonRef string     `json:"reason_ref,omitempty"`
	CreatedOn time.Time  `json:"created_on"`
	UpdatedOn time.Time  `json:"updated_on"`
}

type Balance struct {
	AccountID string `json:"account_id"`
	Spendable int32  `json:"spendable"`
	Held      int32  `json:"held"`
}
