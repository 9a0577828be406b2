package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cuearena/tournament-engine/models"
	"github.com/cuearena/tournament-engine/repositories"
)

type PayoutService interface {
	// RequestPayout reserves the amount against the organizer wallet and
	// opens a pending_review request.
	RequestPayout(ctx context.Context, organizerID, methodID int, amount int64) (*models.PayoutRequest, error)
	SupportConfirm(ctx context.Context, payoutID, actorID int, notes string) (*models.PayoutRequest, error)
	// AdminApprove records the approval and immediately attempts the
	// provider transfer.
	AdminApprove(ctx context.Context, payoutID, actorID int, notes string) (*models.PayoutRequest, error)
	Reject(ctx context.Context, payoutID, actorID int, reason string) (*models.PayoutRequest, error)
	// ProcessPayment retries the provider transfer for an admin_approved
	// request. Safe to call repeatedly; the payment reference is minted once.
	ProcessPayment(ctx context.Context, payoutID int) (*models.PayoutRequest, error)

	// MarkAsCompleted settles a payout from a provider success callback.
	// Replayed callbacks are no-ops.
	MarkAsCompleted(ctx context.Context, reference string, providerResponse string) (*models.PayoutRequest, error)
	// MarkAsFailed returns a processing payout to admin_approved so it can be
	// retried. The wallet reservation is untouched.
	MarkAsFailed(ctx context.Context, reference string, reason string) (*models.PayoutRequest, error)
	// HandleReversal undoes a completed payout after the provider claws the
	// transfer back.
	HandleReversal(ctx context.Context, reference string) (*models.PayoutRequest, error)

	GetByID(ctx context.Context, payoutID int) (*models.PayoutRequest, error)
	ListByOrganizer(ctx context.Context, organizerID, limit, offset int) ([]*models.PayoutRequest, error)
	ListByStatus(ctx context.Context, status models.PayoutStatus, limit, offset int) ([]*models.PayoutRequest, error)

	AddMethod(ctx context.Context, organizerID int, provider, accountName, accountNumber string) (*models.PayoutMethod, error)
	ListMethods(ctx context.Context, organizerID int) ([]*models.PayoutMethod, error)
}

type payoutService struct {
	db         *sql.DB
	payoutRepo repositories.PayoutRepository
	walletRepo repositories.WalletRepository
	userRepo   repositories.UserRepository
	provider   PaymentProvider
	gate       AuthorizationGate
	notifier   Notifier
	activity   ActivityLog
	logger     *slog.Logger
}

func NewPayoutService(
	db *sql.DB,
	payoutRepo repositories.PayoutRepository,
	walletRepo repositories.WalletRepository,
	userRepo repositories.UserRepository,
	provider PaymentProvider,
	gate AuthorizationGate,
	notifier Notifier,
	activity ActivityLog,
	logger *slog.Logger,
) PayoutService {
	return &payoutService{
		db:         db,
		payoutRepo: payoutRepo,
		walletRepo: walletRepo,
		userRepo:   userRepo,
		provider:   provider,
		gate:       gate,
		notifier:   notifier,
		activity:   activity,
		logger:     logger,
	}
}

func (s *payoutService) RequestPayout(ctx context.Context, organizerID, methodID int, amount int64) (*models.PayoutRequest, error) {
	if amount <= 0 {
		return nil, ErrInvalidState
	}

	method, err := s.payoutRepo.GetMethodByID(ctx, nil, methodID)
	if err != nil {
		if errors.Is(err, repositories.ErrPayoutMethodNotFound) {
			return nil, ErrInvalidMethod
		}
		return nil, err
	}
	if method.OrganizerID != organizerID || !method.Verified {
		return nil, ErrInvalidMethod
	}

	var payout *models.PayoutRequest
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		wallet, txErr := s.walletRepo.GetByOrganizerForUpdate(ctx, tx, organizerID)
		if txErr != nil {
			if errors.Is(txErr, repositories.ErrWalletNotFound) {
				return ErrWalletNotFound
			}
			return txErr
		}
		if wallet.Available() < amount {
			return ErrInsufficientBalance
		}

		payout = &models.PayoutRequest{
			OrganizerID: organizerID,
			MethodID:    methodID,
			Amount:      amount,
			Currency:    wallet.Currency,
			Status:      models.PayoutStatusPendingReview,
		}
		if txErr = s.payoutRepo.Create(ctx, tx, payout); txErr != nil {
			return txErr
		}

		// Reserve the amount so concurrent requests cannot overdraw.
		wallet.PendingBalance += amount
		return s.walletRepo.UpdateBalances(ctx, tx, wallet)
	})
	if err != nil {
		return nil, err
	}

	s.activity.Log(ctx, organizerID, "payout.request", "payout", payout.ID,
		fmt.Sprintf("requested %d %s", amount, payout.Currency))
	return payout, nil
}

func (s *payoutService) SupportConfirm(ctx context.Context, payoutID, actorID int, notes string) (*models.PayoutRequest, error) {
	actor, err := s.userRepo.GetByID(ctx, nil, actorID)
	if err != nil {
		return nil, err
	}

	var payout *models.PayoutRequest
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		p, txErr := s.lockPayout(ctx, tx, payoutID)
		if txErr != nil {
			return txErr
		}
		if !s.gate.CanPerform(ctx, actor, ActionSupportPayout, Resource{Type: "payout", ID: p.ID, OwnerID: p.OrganizerID}) {
			return ErrUnauthorized
		}
		if !canTransitionPayout(p.Status, models.PayoutStatusSupportConfirmed) {
			return ErrInvalidState
		}

		p.Status = models.PayoutStatusSupportConfirmed
		p.ReviewedBy = ptrInt(actorID)
		p.ReviewedAt = ptrTime(nowUTC())
		if notes != "" {
			p.ReviewNotes = ptrString(notes)
		}
		payout = p
		return s.payoutRepo.Update(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}

	s.activity.Log(ctx, actorID, "payout.support_confirm", "payout", payoutID, notes)
	return payout, nil
}

func (s *payoutService) AdminApprove(ctx context.Context, payoutID, actorID int, notes string) (*models.PayoutRequest, error) {
	actor, err := s.userRepo.GetByID(ctx, nil, actorID)
	if err != nil {
		return nil, err
	}

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		p, txErr := s.lockPayout(ctx, tx, payoutID)
		if txErr != nil {
			return txErr
		}
		if !s.gate.CanPerform(ctx, actor, ActionApprovePayout, Resource{Type: "payout", ID: p.ID, OwnerID: p.OrganizerID}) {
			return ErrUnauthorized
		}
		if !canTransitionPayout(p.Status, models.PayoutStatusAdminApproved) {
			return ErrInvalidState
		}

		p.Status = models.PayoutStatusAdminApproved
		p.ApprovedBy = ptrInt(actorID)
		p.ApprovedAt = ptrTime(nowUTC())
		if notes != "" {
			p.ApprovalNotes = ptrString(notes)
		}
		return s.payoutRepo.Update(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}
	s.activity.Log(ctx, actorID, "payout.admin_approve", "payout", payoutID, notes)

	// Kick off the transfer right away. A provider failure leaves the payout
	// in admin_approved for a later ProcessPayment retry.
	payout, err := s.ProcessPayment(ctx, payoutID)
	if err != nil && !errors.Is(err, ErrProviderError) {
		return nil, err
	}
	return payout, err
}

func (s *payoutService) Reject(ctx context.Context, payoutID, actorID int, reason string) (*models.PayoutRequest, error) {
	actor, err := s.userRepo.GetByID(ctx, nil, actorID)
	if err != nil {
		return nil, err
	}

	var payout *models.PayoutRequest
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		p, txErr := s.lockPayout(ctx, tx, payoutID)
		if txErr != nil {
			return txErr
		}
		if !s.gate.CanPerform(ctx, actor, ActionRejectPayout, Resource{Type: "payout", ID: p.ID, OwnerID: p.OrganizerID}) {
			return ErrUnauthorized
		}
		if !canTransitionPayout(p.Status, models.PayoutStatusRejected) {
			return ErrInvalidState
		}

		wallet, txErr := s.walletRepo.GetByOrganizerForUpdate(ctx, tx, p.OrganizerID)
		if txErr != nil {
			return txErr
		}

		p.Status = models.PayoutStatusRejected
		p.RejectedBy = ptrInt(actorID)
		p.RejectedAt = ptrTime(nowUTC())
		if reason != "" {
			p.RejectionReason = ptrString(reason)
		}
		if txErr = s.payoutRepo.Update(ctx, tx, p); txErr != nil {
			return txErr
		}

		// Release the reservation made at request time.
		wallet.PendingBalance -= p.Amount
		payout = p
		return s.walletRepo.UpdateBalances(ctx, tx, wallet)
	})
	if err != nil {
		return nil, err
	}

	s.activity.Log(ctx, actorID, "payout.reject", "payout", payoutID, reason)
	s.notifier.Notify(ctx, payout.OrganizerID, "payout.rejected", map[string]interface{}{
		"payout_id": payout.ID,
		"reason":    reason,
	})
	return payout, nil
}

func (s *payoutService) ProcessPayment(ctx context.Context, payoutID int) (*models.PayoutRequest, error) {
	var (
		payout *models.PayoutRequest
		method *models.PayoutMethod
	)

	// Phase 1: mint the reference under the row lock. The reference is
	// created once and reused on every retry so provider callbacks for an
	// earlier attempt still resolve to this payout.
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		p, txErr := s.lockPayout(ctx, tx, payoutID)
		if txErr != nil {
			return txErr
		}
		if p.Status != models.PayoutStatusAdminApproved {
			return ErrInvalidState
		}

		m, txErr := s.payoutRepo.GetMethodByID(ctx, tx, p.MethodID)
		if txErr != nil {
			return txErr
		}

		if p.PaymentReference == nil {
			ref := fmt.Sprintf("PAYOUT_%d_%d", p.ID, nowUTC().Unix())
			p.PaymentReference = ptrString(ref)
			if txErr = s.payoutRepo.Update(ctx, tx, p); txErr != nil {
				return txErr
			}
		}
		payout = p
		method = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	result, provErr := s.provider.InitiateTransfer(ctx, TransferRequest{
		Reference:     *payout.PaymentReference,
		Amount:        payout.Amount,
		Currency:      payout.Currency,
		Provider:      method.Provider,
		AccountName:   method.AccountName,
		AccountNumber: method.AccountNumber,
	})

	// Phase 2: record the outcome. Synchronous failure keeps the payout in
	// admin_approved; success parks it in processing until the webhook lands.
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		p, txErr := s.lockPayout(ctx, tx, payoutID)
		if txErr != nil {
			return txErr
		}
		if p.Status != models.PayoutStatusAdminApproved {
			// A webhook raced us; leave the row alone.
			payout = p
			return nil
		}

		if provErr != nil {
			p.FailureReason = ptrString(provErr.Error())
			payout = p
			return s.payoutRepo.Update(ctx, tx, p)
		}

		p.Status = models.PayoutStatusProcessing
		p.TransferCode = ptrString(result.TrackingID)
		p.FailureReason = nil
		payout = p
		return s.payoutRepo.Update(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}

	if provErr != nil {
		s.logger.WarnContext(ctx, "payout transfer initiation failed",
			slog.Int("payout_id", payoutID), slog.Any("error", provErr))
		return payout, fmt.Errorf("%w: %v", ErrProviderError, provErr)
	}
	return payout, nil
}

func (s *payoutService) MarkAsCompleted(ctx context.Context, reference string, providerResponse string) (*models.PayoutRequest, error) {
	var payout *models.PayoutRequest
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		p, txErr := s.lockByReference(ctx, tx, reference)
		if txErr != nil {
			return txErr
		}
		if p.Status != models.PayoutStatusProcessing {
			// Duplicate or out-of-order callback.
			payout = p
			return nil
		}

		wallet, txErr := s.walletRepo.GetByOrganizerForUpdate(ctx, tx, p.OrganizerID)
		if txErr != nil {
			return txErr
		}

		now := nowUTC()
		p.Status = models.PayoutStatusCompleted
		p.PaidAt = ptrTime(now)
		if providerResponse != "" {
			p.PaymentResponse = ptrString(providerResponse)
		}
		if txErr = s.payoutRepo.Update(ctx, tx, p); txErr != nil {
			return txErr
		}

		wallet.Balance -= p.Amount
		wallet.PendingBalance -= p.Amount
		wallet.TotalWithdrawn += p.Amount
		if txErr = s.walletRepo.UpdateBalances(ctx, tx, wallet); txErr != nil {
			return txErr
		}

		payout = p
		return s.walletRepo.InsertTransaction(ctx, tx, &models.WalletTransaction{
			WalletID:      wallet.ID,
			Type:          models.TransactionDebit,
			Source:        models.TxSourcePayout,
			Amount:        p.Amount,
			BalanceAfter:  wallet.Balance,
			ReferenceType: ptrString("payout"),
			ReferenceID:   ptrInt(p.ID),
			Description:   ptrString(fmt.Sprintf("payout %s completed", reference)),
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, payout.OrganizerID, "payout.completed", map[string]interface{}{
		"payout_id": payout.ID,
		"amount":    payout.Amount,
	})
	return payout, nil
}

func (s *payoutService) MarkAsFailed(ctx context.Context, reference string, reason string) (*models.PayoutRequest, error) {
	var payout *models.PayoutRequest
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		p, txErr := s.lockByReference(ctx, tx, reference)
		if txErr != nil {
			return txErr
		}
		if p.Status != models.PayoutStatusProcessing {
			payout = p
			return nil
		}

		// Back to admin_approved for a retry; the reservation stays in place.
		p.Status = models.PayoutStatusAdminApproved
		if reason != "" {
			p.FailureReason = ptrString(reason)
		}
		payout = p
		return s.payoutRepo.Update(ctx, tx, p)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WarnContext(ctx, "payout transfer failed",
		slog.String("reference", reference), slog.String("reason", reason))
	return payout, nil
}

func (s *payoutService) HandleReversal(ctx context.Context, reference string) (*models.PayoutRequest, error) {
	var payout *models.PayoutRequest
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		p, txErr := s.lockByReference(ctx, tx, reference)
		if txErr != nil {
			return txErr
		}
		if p.Status != models.PayoutStatusCompleted {
			payout = p
			return nil
		}

		wallet, txErr := s.walletRepo.GetByOrganizerForUpdate(ctx, tx, p.OrganizerID)
		if txErr != nil {
			return txErr
		}

		// The money came back; restore the balance, re-reserve it, and hold
		// the payout in admin_approved for staff to retry or reject.
		p.Status = models.PayoutStatusAdminApproved
		p.PaidAt = nil
		p.FailureReason = ptrString("transfer reversed by provider")
		if txErr = s.payoutRepo.Update(ctx, tx, p); txErr != nil {
			return txErr
		}

		wallet.Balance += p.Amount
		wallet.PendingBalance += p.Amount
		wallet.TotalWithdrawn -= p.Amount
		if txErr = s.walletRepo.UpdateBalances(ctx, tx, wallet); txErr != nil {
			return txErr
		}

		payout = p
		return s.walletRepo.InsertTransaction(ctx, tx, &models.WalletTransaction{
			WalletID:      wallet.ID,
			Type:          models.TransactionCredit,
			Source:        models.TxSourcePayoutReversal,
			Amount:        p.Amount,
			BalanceAfter:  wallet.Balance,
			ReferenceType: ptrString("payout"),
			ReferenceID:   ptrInt(p.ID),
			Description:   ptrString(fmt.Sprintf("payout %s reversed", reference)),
		})
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, payout.OrganizerID, "payout.reversed", map[string]interface{}{
		"payout_id": payout.ID,
	})
	return payout, nil
}

func (s *payoutService) GetByID(ctx context.Context, payoutID int) (*models.PayoutRequest, error) {
	p, err := s.payoutRepo.GetByID(ctx, nil, payoutID)
	if err != nil {
		if errors.Is(err, repositories.ErrPayoutNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *payoutService) ListByOrganizer(ctx context.Context, organizerID, limit, offset int) ([]*models.PayoutRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.payoutRepo.ListByOrganizer(ctx, organizerID, limit, offset)
}

func (s *payoutService) ListByStatus(ctx context.Context, status models.PayoutStatus, limit, offset int) ([]*models.PayoutRequest, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.payoutRepo.ListByStatus(ctx, status, limit, offset)
}

func (s *payoutService) AddMethod(ctx context.Context, organizerID int, provider, accountName, accountNumber string) (*models.PayoutMethod, error) {
	provider = strings.TrimSpace(provider)
	accountName = strings.TrimSpace(accountName)
	accountNumber = strings.TrimSpace(accountNumber)
	if provider == "" || accountName == "" || accountNumber == "" {
		return nil, ErrInvalidMethod
	}

	method := &models.PayoutMethod{
		OrganizerID:   organizerID,
		Provider:      provider,
		AccountName:   accountName,
		AccountNumber: accountNumber,
	}
	if err := s.payoutRepo.CreateMethod(ctx, nil, method); err != nil {
		return nil, err
	}
	return method, nil
}

func (s *payoutService) ListMethods(ctx context.Context, organizerID int) ([]*models.PayoutMethod, error) {
	return s.payoutRepo.ListMethodsByOrganizer(ctx, organizerID)
}

func (s *payoutService) lockPayout(ctx context.Context, tx *sql.Tx, payoutID int) (*models.PayoutRequest, error) {
	p, err := s.payoutRepo.GetByIDForUpdate(ctx, tx, payoutID)
	if err != nil {
		if errors.Is(err, repositories.ErrPayoutNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *payoutService) lockByReference(ctx context.Context, tx *sql.Tx, reference string) (*models.PayoutRequest, error) {
	p, err := s.payoutRepo.GetByReferenceForUpdate(ctx, tx, reference)
	if err != nil {
		if errors.Is(err, repositories.ErrPayoutNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}
