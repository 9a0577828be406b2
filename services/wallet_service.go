package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cuearena/tournament-engine/models"
	"github.com/cuearena/tournament-engine/repositories"
)

type WalletService interface {
	// EnsureWallet returns the organizer's wallet, creating an empty one on
	// first use.
	EnsureWallet(ctx context.Context, organizerID int, currency string) (*models.OrganizerWallet, error)
	GetWallet(ctx context.Context, organizerID int) (*models.OrganizerWallet, error)
	ListTransactions(ctx context.Context, organizerID int, limit, offset int) ([]*models.WalletTransaction, error)
	// Credit adds funds and appends a ledger row in the caller's transaction.
	Credit(ctx context.Context, tx *sql.Tx, organizerID int, amount int64, source string, refType *string, refID *int, description string) error
}

type walletService struct {
	db         *sql.DB
	walletRepo repositories.WalletRepository
}

func NewWalletService(db *sql.DB, walletRepo repositories.WalletRepository) WalletService {
	return &walletService{db: db, walletRepo: walletRepo}
}

func (s *walletService) EnsureWallet(ctx context.Context, organizerID int, currency string) (*models.OrganizerWallet, error) {
	wallet, err := s.walletRepo.GetByOrganizer(ctx, nil, organizerID)
	if err == nil {
		return wallet, nil
	}
	if !errors.Is(err, repositories.ErrWalletNotFound) {
		return nil, err
	}

	wallet = &models.OrganizerWallet{OrganizerID: organizerID, Currency: currency}
	if createErr := s.walletRepo.Create(ctx, nil, wallet); createErr != nil {
		if errors.Is(createErr, repositories.ErrWalletConflict) {
			// Lost a race with a concurrent first use.
			return s.walletRepo.GetByOrganizer(ctx, nil, organizerID)
		}
		return nil, createErr
	}
	return wallet, nil
}

func (s *walletService) GetWallet(ctx context.Context, organizerID int) (*models.OrganizerWallet, error) {
	wallet, err := s.walletRepo.GetByOrganizer(ctx, nil, organizerID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return wallet, nil
}

func (s *walletService) ListTransactions(ctx context.Context, organizerID int, limit, offset int) ([]*models.WalletTransaction, error) {
	wallet, err := s.GetWallet(ctx, organizerID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.walletRepo.ListTransactions(ctx, wallet.ID, limit, offset)
}

func (s *walletService) Credit(ctx context.Context, tx *sql.Tx, organizerID int, amount int64, source string, refType *string, refID *int, description string) error {
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive, got %d", amount)
	}
	wallet, err := s.walletRepo.GetByOrganizerForUpdate(ctx, tx, organizerID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return ErrWalletNotFound
		}
		return err
	}

	wallet.Balance += amount
	wallet.TotalEarned += amount
	if err := s.walletRepo.UpdateBalances(ctx, tx, wallet); err != nil {
		return err
	}

	txn := &models.WalletTransaction{
		WalletID:      wallet.ID,
		Type:          models.TransactionCredit,
		Source:        source,
		Amount:        amount,
		BalanceAfter:  wallet.Balance,
		ReferenceType: refType,
		ReferenceID:   refID,
		Description:   ptrString(description),
	}
	return s.walletRepo.InsertTransaction(ctx, tx, txn)
}
