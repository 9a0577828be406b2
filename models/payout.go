package models

import "time"

// PayoutStatus mirrors the ENUM persisted in the payout_requests table.
type PayoutStatus string

const (
	PayoutStatusPendingReview    PayoutStatus = "pending_review"
	PayoutStatusSupportConfirmed PayoutStatus = "support_confirmed"
	PayoutStatusAdminApproved    PayoutStatus = "admin_approved"
	PayoutStatusProcessing       PayoutStatus = "processing"
	PayoutStatusCompleted        PayoutStatus = "completed"
	PayoutStatusRejected         PayoutStatus = "rejected"
)

func (s PayoutStatus) IsTerminal() bool {
	return s == PayoutStatusCompleted || s == PayoutStatusRejected
}

// PayoutMethod is a destination account owned by an organizer. Transfers are
// only attempted against verified methods.
type PayoutMethod struct {
	ID            int       `json:"id" db:"id"`
	OrganizerID   int       `json:"organizer_id" db:"organizer_id"`
	Provider      string    `json:"provider" db:"provider"`
	AccountName   string    `json:"account_name" db:"account_name"`
	AccountNumber string    `json:"account_number" db:"account_number"`
	Verified      bool      `json:"verified" db:"verified"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// PayoutRequest is one organizer withdrawal moving through the
// support -> admin -> provider approval pipeline. Amount is in the smallest
// currency unit.
type PayoutRequest struct {
	ID          int          `json:"id" db:"id"`
	OrganizerID int          `json:"organizer_id" db:"organizer_id"`
	MethodID    int          `json:"method_id" db:"method_id"`
	Amount      int64        `json:"amount" db:"amount"`
	Currency    string       `json:"currency" db:"currency"`
	Status      PayoutStatus `json:"status" db:"status"`

	ReviewedBy  *int       `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty" db:"reviewed_at"`
	ReviewNotes *string    `json:"review_notes,omitempty" db:"review_notes"`

	ApprovedBy    *int       `json:"approved_by,omitempty" db:"approved_by"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty" db:"approved_at"`
	ApprovalNotes *string    `json:"approval_notes,omitempty" db:"approval_notes"`

	RejectedBy      *int       `json:"rejected_by,omitempty" db:"rejected_by"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty" db:"rejected_at"`
	RejectionReason *string    `json:"rejection_reason,omitempty" db:"rejection_reason"`

	// PaymentReference is generated once at first ProcessPayment and keys all
	// provider callbacks for this request.
	PaymentReference *string `json:"payment_reference,omitempty" db:"payment_reference"`
	TransferCode     *string `json:"transfer_code,omitempty" db:"transfer_code"`
	PaymentResponse  *string `json:"payment_response,omitempty" db:"payment_response"`
	FailureReason    *string `json:"failure_reason,omitempty" db:"failure_reason"`

	PaidAt    *time.Time `json:"paid_at,omitempty" db:"paid_at"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}
