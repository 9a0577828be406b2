package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuearena/tournament-engine/models"
)

func TestRegisterGuards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(1, models.RoleOrganizer, "EU", 1500)
	f.addUser(10, models.RolePlayer, "EU", 1500)
	f.addUser(11, models.RolePlayer, "NA", 1500)
	f.addUser(12, models.RolePlayer, "EU", 1500)
	f.addUser(13, models.RolePlayer, "EU", 1500)

	tournament := f.addTournament(&models.Tournament{
		Name:            "Berlin Open",
		OrganizerID:     1,
		Status:          models.TournamentStatusDraft,
		Region:          "EU",
		MaxParticipants: 2,
	})

	_, err := f.participantService.Register(ctx, tournament.ID, 10)
	assert.ErrorIs(t, err, ErrRegistrationNotOpen)

	tournament.Status = models.TournamentStatusRegistration

	_, err = f.participantService.Register(ctx, tournament.ID, 11)
	assert.ErrorIs(t, err, ErrIneligibleGeography)

	p, err := f.participantService.Register(ctx, tournament.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, models.ParticipantStatusRegistered, p.Status)
	assert.Equal(t, models.PaymentStatusWaived, p.PaymentStatus, "free tournaments waive payment")

	_, err = f.participantService.Register(ctx, tournament.ID, 10)
	assert.ErrorIs(t, err, ErrAlreadyRegistered)

	_, err = f.participantService.Register(ctx, tournament.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, 2, tournament.ParticipantsCount)

	_, err = f.participantService.Register(ctx, tournament.ID, 13)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestRegisterWithEntryFee(t *testing.T) {
	f := newFixture(t)
	f.addUser(1, models.RoleOrganizer, "NA", 1500)
	f.addUser(10, models.RolePlayer, "NA", 1500)

	tournament := f.addTournament(&models.Tournament{
		Name:        "Money Match",
		OrganizerID: 1,
		Status:      models.TournamentStatusRegistration,
		EntryFee:    5_000,
	})

	p, err := f.participantService.Register(context.Background(), tournament.ID, 10)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentStatusPending, p.PaymentStatus)
}

func TestWithdraw(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(1, models.RoleOrganizer, "NA", 1500)
	f.addUser(10, models.RolePlayer, "NA", 1500)
	f.addUser(11, models.RolePlayer, "NA", 1500)

	tournament := f.addTournament(&models.Tournament{
		Name:        "Open Table",
		OrganizerID: 1,
		Status:      models.TournamentStatusRegistration,
	})

	err := f.participantService.Withdraw(ctx, tournament.ID, 10)
	assert.ErrorIs(t, err, ErrNotRegistered)

	_, err = f.participantService.Register(ctx, tournament.ID, 10)
	require.NoError(t, err)
	_, err = f.participantService.Register(ctx, tournament.ID, 11)
	require.NoError(t, err)

	require.NoError(t, f.participantService.Withdraw(ctx, tournament.ID, 10))
	assert.Equal(t, 1, tournament.ParticipantsCount)

	// Once the bracket exists nobody leaves on their own.
	tournament.Status = models.TournamentStatusActive
	err = f.participantService.Withdraw(ctx, tournament.ID, 11)
	assert.ErrorIs(t, err, ErrTournamentStarted)
}

func TestRemoveParticipantRequiresOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(1, models.RoleOrganizer, "NA", 1500)
	f.addUser(2, models.RoleOrganizer, "NA", 1500)
	f.addUser(10, models.RolePlayer, "NA", 1500)

	tournament := f.addTournament(&models.Tournament{
		Name:        "Owner Only",
		OrganizerID: 1,
		Status:      models.TournamentStatusRegistration,
	})
	p, err := f.participantService.Register(ctx, tournament.ID, 10)
	require.NoError(t, err)

	err = f.participantService.RemoveParticipant(ctx, tournament.ID, p.ID, 2)
	assert.ErrorIs(t, err, ErrUnauthorized)
	err = f.participantService.RemoveParticipant(ctx, tournament.ID, p.ID, 10)
	assert.ErrorIs(t, err, ErrUnauthorized)

	require.NoError(t, f.participantService.RemoveParticipant(ctx, tournament.ID, p.ID, 1))
	assert.Equal(t, 0, tournament.ParticipantsCount)
}

func TestAssignSeed(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(1, models.RoleOrganizer, "NA", 1500)
	f.addUser(10, models.RolePlayer, "NA", 1500)
	f.addUser(11, models.RolePlayer, "NA", 1500)

	tournament := f.addTournament(&models.Tournament{
		Name:        "Seeded Cup",
		OrganizerID: 1,
		Status:      models.TournamentStatusRegistration,
	})
	p1, err := f.participantService.Register(ctx, tournament.ID, 10)
	require.NoError(t, err)
	p2, err := f.participantService.Register(ctx, tournament.ID, 11)
	require.NoError(t, err)

	err = f.participantService.AssignSeed(ctx, tournament.ID, p1.ID, 1, 0)
	assert.ErrorIs(t, err, ErrInvalidState)

	require.NoError(t, f.participantService.AssignSeed(ctx, tournament.ID, p1.ID, 1, 1))
	require.NotNil(t, p1.Seed)
	assert.Equal(t, 1, *p1.Seed)

	err = f.participantService.AssignSeed(ctx, tournament.ID, p2.ID, 1, 1)
	assert.ErrorIs(t, err, ErrSeedTaken)

	tournament.Status = models.TournamentStatusActive
	err = f.participantService.AssignSeed(ctx, tournament.ID, p2.ID, 1, 2)
	assert.ErrorIs(t, err, ErrTournamentStarted)
}

func TestConfirmEntryFeePayment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser(1, models.RoleOrganizer, "NA", 1500)
	f.addUser(10, models.RolePlayer, "NA", 1500)

	tournament := f.addTournament(&models.Tournament{
		Name:        "Paid Entry",
		OrganizerID: 1,
		Status:      models.TournamentStatusRegistration,
		EntryFee:    5_000,
	})
	wallet, err := f.walletService.EnsureWallet(ctx, 1, "USD")
	require.NoError(t, err)

	p, err := f.participantService.Register(ctx, tournament.ID, 10)
	require.NoError(t, err)
	require.Equal(t, models.PaymentStatusPending, p.PaymentStatus)

	require.NoError(t, f.participantService.ConfirmEntryFeePayment(ctx, tournament.ID, 10))
	assert.Equal(t, models.PaymentStatusPaid, p.PaymentStatus)
	assert.Equal(t, int64(5_000), wallet.Balance)
	assert.Equal(t, int64(5_000), wallet.TotalEarned)
	require.Len(t, f.wallets.transactions, 1)
	assert.Equal(t, models.TxSourceEntryFee, f.wallets.transactions[0].Source)

	// A replayed payment callback credits nothing.
	require.NoError(t, f.participantService.ConfirmEntryFeePayment(ctx, tournament.ID, 10))
	assert.Equal(t, int64(5_000), wallet.Balance)
	assert.Len(t, f.wallets.transactions, 1)
}
