package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuearena/tournament-engine/models"
)

func (f *fixture) addMethod(organizerID int, verified bool) *models.PayoutMethod {
	m := &models.PayoutMethod{
		OrganizerID:   organizerID,
		Provider:      "wise",
		AccountName:   "Cue Arena Ltd",
		AccountNumber: "0123456789",
		Verified:      verified,
	}
	m.ID = f.payouts.nextMethodID
	f.payouts.nextMethodID++
	f.payouts.methods[m.ID] = m
	return m
}

// payoutFixture seeds an organizer with a funded wallet and a verified
// payout method, plus the support and admin staff the approval pipeline
// needs.
type payoutFixture struct {
	*fixture
	wallet *models.OrganizerWallet
	method *models.PayoutMethod
}

func newPayoutFixture(t *testing.T) *payoutFixture {
	f := newFixture(t)
	f.addUser(1, models.RoleOrganizer, "NA", 1500)
	f.addUser(2, models.RoleSupport, "NA", 1500)
	f.addUser(3, models.RoleAdmin, "NA", 1500)
	f.addUser(4, models.RolePlayer, "NA", 1500)

	wallet, err := f.walletService.EnsureWallet(context.Background(), 1, "USD")
	require.NoError(t, err)
	wallet.Balance = 100_000
	wallet.TotalEarned = 100_000

	method := f.addMethod(1, true)
	return &payoutFixture{fixture: f, wallet: wallet, method: method}
}

// approved walks a fresh request through support and admin so tests can
// start from the processing state. The fake provider succeeds unless primed.
func (pf *payoutFixture) approved(t *testing.T, amount int64) *models.PayoutRequest {
	t.Helper()
	ctx := context.Background()
	p, err := pf.payoutService.RequestPayout(ctx, 1, pf.method.ID, amount)
	require.NoError(t, err)
	_, err = pf.payoutService.SupportConfirm(ctx, p.ID, 2, "checked")
	require.NoError(t, err)
	p, err = pf.payoutService.AdminApprove(ctx, p.ID, 3, "ok")
	require.NoError(t, err)
	return p
}

func TestRequestPayoutReservesBalance(t *testing.T) {
	pf := newPayoutFixture(t)
	ctx := context.Background()

	p, err := pf.payoutService.RequestPayout(ctx, 1, pf.method.ID, 40_000)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusPendingReview, p.Status)
	assert.Equal(t, "USD", p.Currency)
	assert.Equal(t, int64(40_000), pf.wallet.PendingBalance)
	assert.Equal(t, int64(100_000), pf.wallet.Balance, "reservation does not touch the balance")
	assert.Equal(t, int64(60_000), pf.wallet.Available())

	// The reservation counts against further requests.
	_, err = pf.payoutService.RequestPayout(ctx, 1, pf.method.ID, 70_000)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, int64(40_000), pf.wallet.PendingBalance)
}

func TestRequestPayoutValidation(t *testing.T) {
	pf := newPayoutFixture(t)
	ctx := context.Background()

	_, err := pf.payoutService.RequestPayout(ctx, 1, pf.method.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidState)

	unverified := pf.addMethod(1, false)
	_, err = pf.payoutService.RequestPayout(ctx, 1, unverified.ID, 1_000)
	assert.ErrorIs(t, err, ErrInvalidMethod)

	// Someone else's method.
	pf.addUser(5, models.RoleOrganizer, "NA", 1500)
	foreign := pf.addMethod(5, true)
	_, err = pf.payoutService.RequestPayout(ctx, 1, foreign.ID, 1_000)
	assert.ErrorIs(t, err, ErrInvalidMethod)

	// Organizer without a wallet.
	mine := pf.addMethod(5, true)
	_, err = pf.payoutService.RequestPayout(ctx, 5, mine.ID, 1_000)
	assert.ErrorIs(t, err, ErrWalletNotFound)
}

func TestPayoutApprovalPipeline(t *testing.T) {
	pf := newPayoutFixture(t)
	ctx := context.Background()

	p, err := pf.payoutService.RequestPayout(ctx, 1, pf.method.ID, 25_000)
	require.NoError(t, err)

	// Admin approval needs the support confirmation first.
	_, err = pf.payoutService.AdminApprove(ctx, p.ID, 3, "")
	assert.ErrorIs(t, err, ErrInvalidState)

	// Neither the organizer nor a player can confirm.
	_, err = pf.payoutService.SupportConfirm(ctx, p.ID, 1, "")
	assert.ErrorIs(t, err, ErrUnauthorized)
	_, err = pf.payoutService.SupportConfirm(ctx, p.ID, 4, "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	p, err = pf.payoutService.SupportConfirm(ctx, p.ID, 2, "docs verified")
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusSupportConfirmed, p.Status)
	require.NotNil(t, p.ReviewedBy)
	assert.Equal(t, 2, *p.ReviewedBy)

	// Support cannot give the final approval.
	_, err = pf.payoutService.AdminApprove(ctx, p.ID, 2, "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	p, err = pf.payoutService.AdminApprove(ctx, p.ID, 3, "paying out")
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusProcessing, p.Status)
	require.NotNil(t, p.ApprovedBy)
	assert.Equal(t, 3, *p.ApprovedBy)
	require.NotNil(t, p.PaymentReference)
	require.NotNil(t, p.TransferCode)
	require.Len(t, pf.provider.calls, 1)
	assert.Equal(t, *p.PaymentReference, pf.provider.calls[0].Reference)
	assert.Equal(t, int64(25_000), pf.provider.calls[0].Amount)
}

func TestPayoutProviderFailureKeepsApproval(t *testing.T) {
	pf := newPayoutFixture(t)
	ctx := context.Background()

	p, err := pf.payoutService.RequestPayout(ctx, 1, pf.method.ID, 25_000)
	require.NoError(t, err)
	_, err = pf.payoutService.SupportConfirm(ctx, p.ID, 2, "")
	require.NoError(t, err)

	pf.provider.failNext = true
	p, err = pf.payoutService.AdminApprove(ctx, p.ID, 3, "")
	assert.ErrorIs(t, err, ErrProviderError)
	require.NotNil(t, p, "the approved payout is returned alongside the error")
	assert.Equal(t, models.PayoutStatusAdminApproved, p.Status)
	require.NotNil(t, p.PaymentReference)
	require.NotNil(t, p.FailureReason)
	firstRef := *p.PaymentReference

	// The reservation survives the failure.
	assert.Equal(t, int64(25_000), pf.wallet.PendingBalance)

	// Retry reuses the minted reference and clears the failure.
	p, err = pf.payoutService.ProcessPayment(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusProcessing, p.Status)
	assert.Equal(t, firstRef, *p.PaymentReference)
	assert.Nil(t, p.FailureReason)
	require.Len(t, pf.provider.calls, 2)
	assert.Equal(t, firstRef, pf.provider.calls[1].Reference)
}

func TestPayoutRejectReleasesReservation(t *testing.T) {
	pf := newPayoutFixture(t)
	ctx := context.Background()

	p, err := pf.payoutService.RequestPayout(ctx, 1, pf.method.ID, 30_000)
	require.NoError(t, err)
	assert.Equal(t, int64(30_000), pf.wallet.PendingBalance)

	// Organizers cannot reject their own requests.
	_, err = pf.payoutService.Reject(ctx, p.ID, 1, "changed my mind")
	assert.ErrorIs(t, err, ErrUnauthorized)

	p, err = pf.payoutService.Reject(ctx, p.ID, 2, "account mismatch")
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusRejected, p.Status)
	require.NotNil(t, p.RejectedBy)
	assert.Equal(t, 2, *p.RejectedBy)
	assert.Equal(t, int64(0), pf.wallet.PendingBalance)
	assert.Equal(t, int64(100_000), pf.wallet.Balance)
	assert.Contains(t, pf.notifier.events, "1:payout.rejected")

	// Terminal: nothing moves a rejected payout.
	_, err = pf.payoutService.SupportConfirm(ctx, p.ID, 2, "")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestPayoutRejectWhileProcessingIsIllegal(t *testing.T) {
	pf := newPayoutFixture(t)
	p := pf.approved(t, 20_000)
	require.Equal(t, models.PayoutStatusProcessing, p.Status)

	_, err := pf.payoutService.Reject(context.Background(), p.ID, 2, "too late")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestPayoutCompletionSettlesWallet(t *testing.T) {
	pf := newPayoutFixture(t)
	ctx := context.Background()
	p := pf.approved(t, 20_000)

	p, err := pf.payoutService.MarkAsCompleted(ctx, *p.PaymentReference, `{"status":"success"}`)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusCompleted, p.Status)
	require.NotNil(t, p.PaidAt)

	assert.Equal(t, int64(80_000), pf.wallet.Balance)
	assert.Equal(t, int64(0), pf.wallet.PendingBalance)
	assert.Equal(t, int64(20_000), pf.wallet.TotalWithdrawn)

	require.Len(t, pf.wallets.transactions, 1)
	txn := pf.wallets.transactions[0]
	assert.Equal(t, models.TransactionDebit, txn.Type)
	assert.Equal(t, models.TxSourcePayout, txn.Source)
	assert.Equal(t, int64(20_000), txn.Amount)
	assert.Equal(t, int64(80_000), txn.BalanceAfter)
	assert.Contains(t, pf.notifier.events, "1:payout.completed")
}

func TestPayoutCompletionReplayIsIdempotent(t *testing.T) {
	pf := newPayoutFixture(t)
	ctx := context.Background()
	p := pf.approved(t, 20_000)
	ref := *p.PaymentReference

	_, err := pf.payoutService.MarkAsCompleted(ctx, ref, "")
	require.NoError(t, err)

	// The provider retries the callback; nothing double-settles.
	p, err = pf.payoutService.MarkAsCompleted(ctx, ref, "")
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusCompleted, p.Status)
	assert.Equal(t, int64(80_000), pf.wallet.Balance)
	assert.Equal(t, int64(20_000), pf.wallet.TotalWithdrawn)
	assert.Len(t, pf.wallets.transactions, 1)
}

func TestPayoutAsyncFailureAllowsRetry(t *testing.T) {
	pf := newPayoutFixture(t)
	ctx := context.Background()
	p := pf.approved(t, 20_000)
	ref := *p.PaymentReference

	p, err := pf.payoutService.MarkAsFailed(ctx, ref, "recipient bank down")
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusAdminApproved, p.Status)
	require.NotNil(t, p.FailureReason)
	assert.Equal(t, int64(20_000), pf.wallet.PendingBalance, "reservation held for the retry")

	p, err = pf.payoutService.ProcessPayment(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusProcessing, p.Status)
	assert.Equal(t, ref, *p.PaymentReference)
}

func TestPayoutReversalRestoresWallet(t *testing.T) {
	pf := newPayoutFixture(t)
	ctx := context.Background()
	p := pf.approved(t, 20_000)
	ref := *p.PaymentReference

	_, err := pf.payoutService.MarkAsCompleted(ctx, ref, "")
	require.NoError(t, err)

	p, err = pf.payoutService.HandleReversal(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusAdminApproved, p.Status)
	assert.Nil(t, p.PaidAt)

	assert.Equal(t, int64(100_000), pf.wallet.Balance)
	assert.Equal(t, int64(20_000), pf.wallet.PendingBalance, "amount re-reserved for staff to settle")
	assert.Equal(t, int64(0), pf.wallet.TotalWithdrawn)

	require.Len(t, pf.wallets.transactions, 2)
	reversal := pf.wallets.transactions[1]
	assert.Equal(t, models.TransactionCredit, reversal.Type)
	assert.Equal(t, models.TxSourcePayoutReversal, reversal.Source)
	assert.Contains(t, pf.notifier.events, "1:payout.reversed")

	// A reversal callback for a non-completed payout is a no-op.
	p2, err := pf.payoutService.HandleReversal(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, models.PayoutStatusAdminApproved, p2.Status)
	assert.Len(t, pf.wallets.transactions, 2)
}

func TestAddMethodValidation(t *testing.T) {
	pf := newPayoutFixture(t)
	ctx := context.Background()

	_, err := pf.payoutService.AddMethod(ctx, 1, "  ", "Cue Arena Ltd", "0123456789")
	assert.ErrorIs(t, err, ErrInvalidMethod)

	m, err := pf.payoutService.AddMethod(ctx, 1, " wise ", "Cue Arena Ltd", "0123456789")
	require.NoError(t, err)
	assert.Equal(t, "wise", m.Provider)
	assert.False(t, m.Verified, "new methods start unverified")

	methods, err := pf.payoutService.ListMethods(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, methods, 2)
}
