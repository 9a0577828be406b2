package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cuearena/tournament-engine/models"
	"github.com/lib/pq"
)

var (
	ErrWalletNotFound = errors.New("organizer wallet not found")
	ErrWalletConflict = errors.New("organizer already has a wallet")
)

const walletColumns = `
	id, organizer_id, balance, pending_balance, total_earned, total_withdrawn,
	currency, created_at, updated_at`

type WalletRepository interface {
	Create(ctx context.Context, exec SQLExecutor, w *models.OrganizerWallet) error
	GetByOrganizer(ctx context.Context, exec SQLExecutor, organizerID int) (*models.OrganizerWallet, error)
	// GetByOrganizerForUpdate locks the wallet row; exec must be a *sql.Tx.
	GetByOrganizerForUpdate(ctx context.Context, exec SQLExecutor, organizerID int) (*models.OrganizerWallet, error)
	// UpdateBalances persists all four balance columns at once; callers
	// compute the new values while holding the row lock.
	UpdateBalances(ctx context.Context, exec SQLExecutor, w *models.OrganizerWallet) error
	InsertTransaction(ctx context.Context, exec SQLExecutor, txn *models.WalletTransaction) error
	ListTransactions(ctx context.Context, walletID int, limit, offset int) ([]*models.WalletTransaction, error)
}

type postgresWalletRepository struct {
	db *sql.DB
}

func NewPostgresWalletRepository(db *sql.DB) WalletRepository {
	return &postgresWalletRepository{db: db}
}

func (r *postgresWalletRepository) Create(ctx context.Context, exec SQLExecutor, w *models.OrganizerWallet) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO organizer_wallets (organizer_id, balance, pending_balance, total_earned, total_withdrawn, currency)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := exec.QueryRowContext(ctx, query,
		w.OrganizerID, w.Balance, w.PendingBalance, w.TotalEarned, w.TotalWithdrawn, w.Currency,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrWalletConflict
		}
		return fmt.Errorf("failed to create wallet for organizer %d: %w", w.OrganizerID, err)
	}
	return nil
}

func (r *postgresWalletRepository) GetByOrganizer(ctx context.Context, exec SQLExecutor, organizerID int) (*models.OrganizerWallet, error) {
	query := `SELECT ` + walletColumns + ` FROM organizer_wallets WHERE organizer_id = $1`
	return r.scanOne(ctx, exec, query, organizerID)
}

func (r *postgresWalletRepository) GetByOrganizerForUpdate(ctx context.Context, exec SQLExecutor, organizerID int) (*models.OrganizerWallet, error) {
	query := `SELECT ` + walletColumns + ` FROM organizer_wallets WHERE organizer_id = $1 FOR UPDATE`
	return r.scanOne(ctx, exec, query, organizerID)
}

func (r *postgresWalletRepository) scanOne(ctx context.Context, exec SQLExecutor, query string, organizerID int) (*models.OrganizerWallet, error) {
	if exec == nil {
		exec = r.db
	}
	w := &models.OrganizerWallet{}
	err := exec.QueryRowContext(ctx, query, organizerID).Scan(
		&w.ID, &w.OrganizerID, &w.Balance, &w.PendingBalance, &w.TotalEarned, &w.TotalWithdrawn,
		&w.Currency, &w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to scan wallet for organizer %d: %w", organizerID, err)
	}
	return w, nil
}

func (r *postgresWalletRepository) UpdateBalances(ctx context.Context, exec SQLExecutor, w *models.OrganizerWallet) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE organizer_wallets
		SET balance = $1, pending_balance = $2, total_earned = $3, total_withdrawn = $4, updated_at = NOW()
		WHERE id = $5`
	result, err := exec.ExecContext(ctx, query,
		w.Balance, w.PendingBalance, w.TotalEarned, w.TotalWithdrawn, w.ID)
	if err != nil {
		return fmt.Errorf("failed to update balances for wallet %d: %w", w.ID, err)
	}
	return checkAffectedRows(result, ErrWalletNotFound)
}

func (r *postgresWalletRepository) InsertTransaction(ctx context.Context, exec SQLExecutor, txn *models.WalletTransaction) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO wallet_transactions
			(wallet_id, type, source, amount, balance_after, reference_type, reference_id, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		txn.WalletID, txn.Type, txn.Source, txn.Amount, txn.BalanceAfter,
		txn.ReferenceType, txn.ReferenceID, txn.Description,
	).Scan(&txn.ID, &txn.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert wallet transaction: %w", err)
	}
	return nil
}

func (r *postgresWalletRepository) ListTransactions(ctx context.Context, walletID int, limit, offset int) ([]*models.WalletTransaction, error) {
	query := `
		SELECT id, wallet_id, type, source, amount, balance_after, reference_type, reference_id, description, created_at
		FROM wallet_transactions
		WHERE wallet_id = $1
		ORDER BY id DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, walletID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for wallet %d: %w", walletID, err)
	}
	defer rows.Close()

	txns := make([]*models.WalletTransaction, 0)
	for rows.Next() {
		txn := &models.WalletTransaction{}
		if scanErr := rows.Scan(
			&txn.ID, &txn.WalletID, &txn.Type, &txn.Source, &txn.Amount, &txn.BalanceAfter,
			&txn.ReferenceType, &txn.ReferenceID, &txn.Description, &txn.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan wallet transaction row: %w", scanErr)
		}
		txns = append(txns, txn)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during wallet transaction rows iteration: %w", err)
	}
	return txns, nil
}
