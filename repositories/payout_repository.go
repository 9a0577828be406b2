package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cuearena/tournament-engine/models"
)

var (
	ErrPayoutNotFound       = errors.New("payout request not found")
	ErrPayoutMethodNotFound = errors.New("payout method not found")
)

const payoutColumns = `
	id, organizer_id, method_id, amount, currency, status,
	reviewed_by, reviewed_at, review_notes,
	approved_by, approved_at, approval_notes,
	rejected_by, rejected_at, rejection_reason,
	payment_reference, transfer_code, payment_response, failure_reason,
	paid_at, created_at`

type PayoutRepository interface {
	Create(ctx context.Context, exec SQLExecutor, p *models.PayoutRequest) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.PayoutRequest, error)
	// GetByIDForUpdate locks the payout row; exec must be a *sql.Tx.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.PayoutRequest, error)
	// GetByReferenceForUpdate resolves a provider callback reference to its
	// payout row and locks it; exec must be a *sql.Tx.
	GetByReferenceForUpdate(ctx context.Context, exec SQLExecutor, reference string) (*models.PayoutRequest, error)
	Update(ctx context.Context, exec SQLExecutor, p *models.PayoutRequest) error
	ListByOrganizer(ctx context.Context, organizerID int, limit, offset int) ([]*models.PayoutRequest, error)
	ListByStatus(ctx context.Context, status models.PayoutStatus, limit, offset int) ([]*models.PayoutRequest, error)

	CreateMethod(ctx context.Context, exec SQLExecutor, m *models.PayoutMethod) error
	GetMethodByID(ctx context.Context, exec SQLExecutor, id int) (*models.PayoutMethod, error)
	ListMethodsByOrganizer(ctx context.Context, organizerID int) ([]*models.PayoutMethod, error)
}

type postgresPayoutRepository struct {
	db *sql.DB
}

func NewPostgresPayoutRepository(db *sql.DB) PayoutRepository {
	return &postgresPayoutRepository{db: db}
}

func (r *postgresPayoutRepository) Create(ctx context.Context, exec SQLExecutor, p *models.PayoutRequest) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO payout_requests (organizer_id, method_id, amount, currency, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		p.OrganizerID, p.MethodID, p.Amount, p.Currency, p.Status,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payout request: %w", err)
	}
	return nil
}

func (r *postgresPayoutRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.PayoutRequest, error) {
	query := `SELECT ` + payoutColumns + ` FROM payout_requests WHERE id = $1`
	return r.scanOne(ctx, exec, query, id)
}

func (r *postgresPayoutRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.PayoutRequest, error) {
	query := `SELECT ` + payoutColumns + ` FROM payout_requests WHERE id = $1 FOR UPDATE`
	return r.scanOne(ctx, exec, query, id)
}

func (r *postgresPayoutRepository) GetByReferenceForUpdate(ctx context.Context, exec SQLExecutor, reference string) (*models.PayoutRequest, error) {
	if exec == nil {
		exec = r.db
	}
	query := `SELECT ` + payoutColumns + ` FROM payout_requests WHERE payment_reference = $1 FOR UPDATE`
	p := &models.PayoutRequest{}
	err := scanPayout(exec.QueryRowContext(ctx, query, reference), p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPayoutNotFound
		}
		return nil, fmt.Errorf("failed to scan payout by reference %q: %w", reference, err)
	}
	return p, nil
}

func (r *postgresPayoutRepository) scanOne(ctx context.Context, exec SQLExecutor, query string, id int) (*models.PayoutRequest, error) {
	if exec == nil {
		exec = r.db
	}
	p := &models.PayoutRequest{}
	err := scanPayout(exec.QueryRowContext(ctx, query, id), p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPayoutNotFound
		}
		return nil, fmt.Errorf("failed to scan payout %d: %w", id, err)
	}
	return p, nil
}

func scanPayout(row rowScanner, p *models.PayoutRequest) error {
	return row.Scan(
		&p.ID, &p.OrganizerID, &p.MethodID, &p.Amount, &p.Currency, &p.Status,
		&p.ReviewedBy, &p.ReviewedAt, &p.ReviewNotes,
		&p.ApprovedBy, &p.ApprovedAt, &p.ApprovalNotes,
		&p.RejectedBy, &p.RejectedAt, &p.RejectionReason,
		&p.PaymentReference, &p.TransferCode, &p.PaymentResponse, &p.FailureReason,
		&p.PaidAt, &p.CreatedAt,
	)
}

func (r *postgresPayoutRepository) Update(ctx context.Context, exec SQLExecutor, p *models.PayoutRequest) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE payout_requests SET
			status = $1,
			reviewed_by = $2, reviewed_at = $3, review_notes = $4,
			approved_by = $5, approved_at = $6, approval_notes = $7,
			rejected_by = $8, rejected_at = $9, rejection_reason = $10,
			payment_reference = $11, transfer_code = $12, payment_response = $13, failure_reason = $14,
			paid_at = $15
		WHERE id = $16`

	result, err := exec.ExecContext(ctx, query,
		p.Status,
		p.ReviewedBy, p.ReviewedAt, p.ReviewNotes,
		p.ApprovedBy, p.ApprovedAt, p.ApprovalNotes,
		p.RejectedBy, p.RejectedAt, p.RejectionReason,
		p.PaymentReference, p.TransferCode, p.PaymentResponse, p.FailureReason,
		p.PaidAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payout %d: %w", p.ID, err)
	}
	return checkAffectedRows(result, ErrPayoutNotFound)
}

func (r *postgresPayoutRepository) ListByOrganizer(ctx context.Context, organizerID int, limit, offset int) ([]*models.PayoutRequest, error) {
	query := `SELECT ` + payoutColumns + ` FROM payout_requests
		WHERE organizer_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, organizerID, limit, offset)
}

func (r *postgresPayoutRepository) ListByStatus(ctx context.Context, status models.PayoutStatus, limit, offset int) ([]*models.PayoutRequest, error) {
	query := `SELECT ` + payoutColumns + ` FROM payout_requests
		WHERE status = $1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, status, limit, offset)
}

func (r *postgresPayoutRepository) list(ctx context.Context, query string, args ...interface{}) ([]*models.PayoutRequest, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payout requests: %w", err)
	}
	defer rows.Close()

	payouts := make([]*models.PayoutRequest, 0)
	for rows.Next() {
		p := &models.PayoutRequest{}
		if scanErr := scanPayout(rows, p); scanErr != nil {
			return nil, fmt.Errorf("failed to scan payout row: %w", scanErr)
		}
		payouts = append(payouts, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during payout rows iteration: %w", err)
	}
	return payouts, nil
}

func (r *postgresPayoutRepository) CreateMethod(ctx context.Context, exec SQLExecutor, m *models.PayoutMethod) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO payout_methods (organizer_id, provider, account_name, account_number, verified)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		m.OrganizerID, m.Provider, m.AccountName, m.AccountNumber, m.Verified,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payout method: %w", err)
	}
	return nil
}

func (r *postgresPayoutRepository) GetMethodByID(ctx context.Context, exec SQLExecutor, id int) (*models.PayoutMethod, error) {
	if exec == nil {
		exec = r.db
	}
	query := `
		SELECT id, organizer_id, provider, account_name, account_number, verified, created_at
		FROM payout_methods WHERE id = $1`

	m := &models.PayoutMethod{}
	err := exec.QueryRowContext(ctx, query, id).Scan(
		&m.ID, &m.OrganizerID, &m.Provider, &m.AccountName, &m.AccountNumber, &m.Verified, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPayoutMethodNotFound
		}
		return nil, fmt.Errorf("failed to scan payout method %d: %w", id, err)
	}
	return m, nil
}

func (r *postgresPayoutRepository) ListMethodsByOrganizer(ctx context.Context, organizerID int) ([]*models.PayoutMethod, error) {
	query := `
		SELECT id, organizer_id, provider, account_name, account_number, verified, created_at
		FROM payout_methods WHERE organizer_id = $1 ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, organizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payout methods for organizer %d: %w", organizerID, err)
	}
	defer rows.Close()

	methods := make([]*models.PayoutMethod, 0)
	for rows.Next() {
		m := &models.PayoutMethod{}
		if scanErr := rows.Scan(
			&m.ID, &m.OrganizerID, &m.Provider, &m.AccountName, &m.AccountNumber, &m.Verified, &m.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan payout method row: %w", scanErr)
		}
		methods = append(methods, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during payout method rows iteration: %w", err)
	}
	return methods, nil
}
