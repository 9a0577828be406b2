package models

import "time"

// OrganizerWallet holds an organizer's earnings. Balance is kept in sync with
// the wallet_transactions ledger inside the same transaction as every
// mutation; PendingBalance is the slice reserved for in-flight payouts.
// All amounts are in the smallest currency unit.
type OrganizerWallet struct {
	ID             int       `json:"id" db:"id"`
	OrganizerID    int       `json:"organizer_id" db:"organizer_id"`
	Balance        int64     `json:"balance" db:"balance"`
	PendingBalance int64     `json:"pending_balance" db:"pending_balance"`
	TotalEarned    int64     `json:"total_earned" db:"total_earned"`
	TotalWithdrawn int64     `json:"total_withdrawn" db:"total_withdrawn"`
	Currency       string    `json:"currency" db:"currency"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Available is the balance a new payout request may draw on.
func (w *OrganizerWallet) Available() int64 {
	return w.Balance - w.PendingBalance
}

type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

// Ledger sources.
const (
	TxSourceEntryFee       = "entry_fee"
	TxSourcePayout         = "payout"
	TxSourcePayoutReversal = "payout_reversal"
	TxSourceAdjustment     = "adjustment"
)

// WalletTransaction is an immutable, append-only ledger row. BalanceAfter is
// a snapshot of the wallet balance at write time.
type WalletTransaction struct {
	ID            int             `json:"id" db:"id"`
	WalletID      int             `json:"wallet_id" db:"wallet_id"`
	Type          TransactionType `json:"type" db:"type"`
	Source        string          `json:"source" db:"source"`
	Amount        int64           `json:"amount" db:"amount"`
	BalanceAfter  int64           `json:"balance_after" db:"balance_after"`
	ReferenceType *string         `json:"reference_type,omitempty" db:"reference_type"`
	ReferenceID   *int            `json:"reference_id,omitempty" db:"reference_id"`
	Description   *string         `json:"description,omitempty" db:"description"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}
