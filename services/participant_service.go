package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/cuearena/tournament-engine/models"
	"github.com/cuearena/tournament-engine/repositories"
)

type ParticipantService interface {
	Register(ctx context.Context, tournamentID, playerID int) (*models.Participant, error)
	Withdraw(ctx context.Context, tournamentID, playerID int) error
	// RemoveParticipant is an organizer action, allowed before the bracket
	// exists only.
	RemoveParticipant(ctx context.Context, tournamentID, participantID, actorID int) error
	// AssignSeed sets a participant's seed before the tournament starts.
	AssignSeed(ctx context.Context, tournamentID, participantID, actorID, seed int) error
	// ConfirmEntryFeePayment marks the registration paid and credits the
	// organizer wallet. Invoked by the payment collection callback.
	ConfirmEntryFeePayment(ctx context.Context, tournamentID, playerID int) error
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error)
}

type participantService struct {
	db              *sql.DB
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	userRepo        repositories.UserRepository
	walletService   WalletService
	gate            AuthorizationGate
	activity        ActivityLog
	logger          *slog.Logger
}

func NewParticipantService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	userRepo repositories.UserRepository,
	walletService WalletService,
	gate AuthorizationGate,
	activity ActivityLog,
	logger *slog.Logger,
) ParticipantService {
	return &participantService{
		db:              db,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		userRepo:        userRepo,
		walletService:   walletService,
		gate:            gate,
		activity:        activity,
		logger:          logger,
	}
}

func (s *participantService) Register(ctx context.Context, tournamentID, playerID int) (*models.Participant, error) {
	player, err := s.userRepo.GetByID(ctx, nil, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var participant *models.Participant
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		// Lock the tournament row so capacity checks and the counter update
		// cannot race with a concurrent registration.
		tournament, txErr := s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID)
		if txErr != nil {
			if errors.Is(txErr, repositories.ErrTournamentNotFound) {
				return ErrNotFound
			}
			return txErr
		}
		if tournament.Status != models.TournamentStatusRegistration {
			return ErrRegistrationNotOpen
		}
		if tournament.Region != "" && player.Region != tournament.Region {
			return ErrIneligibleGeography
		}

		count, txErr := s.participantRepo.CountByTournament(ctx, tx, tournamentID)
		if txErr != nil {
			return txErr
		}
		if tournament.MaxParticipants > 0 && count >= tournament.MaxParticipants {
			return ErrCapacityExceeded
		}

		paymentStatus := models.PaymentStatusWaived
		if tournament.EntryFee > 0 {
			paymentStatus = models.PaymentStatusPending
		}
		participant = &models.Participant{
			TournamentID:  tournamentID,
			PlayerID:      playerID,
			Status:        models.ParticipantStatusRegistered,
			PaymentStatus: paymentStatus,
		}
		if txErr = s.participantRepo.Create(ctx, tx, participant); txErr != nil {
			if errors.Is(txErr, repositories.ErrParticipantConflict) {
				return ErrAlreadyRegistered
			}
			return txErr
		}
		return s.tournamentRepo.UpdateCounts(ctx, tx, tournamentID, count+1, tournament.MatchesCount)
	})
	if err != nil {
		return nil, err
	}

	s.activity.Log(ctx, playerID, "participant.register", "tournament", tournamentID, "player registered")
	return participant, nil
}

func (s *participantService) Withdraw(ctx context.Context, tournamentID, playerID int) error {
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		tournament, txErr := s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID)
		if txErr != nil {
			if errors.Is(txErr, repositories.ErrTournamentNotFound) {
				return ErrNotFound
			}
			return txErr
		}
		if tournament.Status == models.TournamentStatusActive || tournament.Status == models.TournamentStatusCompleted {
			return ErrTournamentStarted
		}

		participant, txErr := s.participantRepo.FindByPlayerAndTournament(ctx, tx, playerID, tournamentID)
		if txErr != nil {
			if errors.Is(txErr, repositories.ErrParticipantNotFound) {
				return ErrNotRegistered
			}
			return txErr
		}
		if txErr = s.participantRepo.Delete(ctx, tx, participant.ID); txErr != nil {
			return txErr
		}

		count, txErr := s.participantRepo.CountByTournament(ctx, tx, tournamentID)
		if txErr != nil {
			return txErr
		}
		return s.tournamentRepo.UpdateCounts(ctx, tx, tournamentID, count, tournament.MatchesCount)
	})
	if err != nil {
		return err
	}

	s.activity.Log(ctx, playerID, "participant.withdraw", "tournament", tournamentID, "player withdrew")
	return nil
}

func (s *participantService) RemoveParticipant(ctx context.Context, tournamentID, participantID, actorID int) error {
	actor, err := s.userRepo.GetByID(ctx, nil, actorID)
	if err != nil {
		return err
	}

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		tournament, txErr := s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID)
		if txErr != nil {
			if errors.Is(txErr, repositories.ErrTournamentNotFound) {
				return ErrNotFound
			}
			return txErr
		}
		resource := Resource{Type: "tournament", ID: tournamentID, OwnerID: tournament.OrganizerID}
		if !s.gate.CanPerform(ctx, actor, ActionManageTournament, resource) {
			return ErrUnauthorized
		}
		if tournament.Status == models.TournamentStatusActive || tournament.Status == models.TournamentStatusCompleted {
			return ErrTournamentStarted
		}

		participant, txErr := s.participantRepo.FindByID(ctx, tx, participantID)
		if txErr != nil {
			if errors.Is(txErr, repositories.ErrParticipantNotFound) {
				return ErrNotRegistered
			}
			return txErr
		}
		if participant.TournamentID != tournamentID {
			return ErrNotRegistered
		}
		if txErr = s.participantRepo.Delete(ctx, tx, participant.ID); txErr != nil {
			return txErr
		}

		count, txErr := s.participantRepo.CountByTournament(ctx, tx, tournamentID)
		if txErr != nil {
			return txErr
		}
		return s.tournamentRepo.UpdateCounts(ctx, tx, tournamentID, count, tournament.MatchesCount)
	})
	if err != nil {
		return err
	}

	s.activity.Log(ctx, actorID, "participant.remove", "participant", participantID, "organizer removed participant")
	return nil
}

func (s *participantService) AssignSeed(ctx context.Context, tournamentID, participantID, actorID, seed int) error {
	if seed < 1 {
		return ErrInvalidState
	}
	actor, err := s.userRepo.GetByID(ctx, nil, actorID)
	if err != nil {
		return err
	}

	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		tournament, txErr := s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID)
		if txErr != nil {
			if errors.Is(txErr, repositories.ErrTournamentNotFound) {
				return ErrNotFound
			}
			return txErr
		}
		resource := Resource{Type: "tournament", ID: tournamentID, OwnerID: tournament.OrganizerID}
		if !s.gate.CanPerform(ctx, actor, ActionManageTournament, resource) {
			return ErrUnauthorized
		}
		if tournament.Status == models.TournamentStatusActive || tournament.Status == models.TournamentStatusCompleted {
			return ErrTournamentStarted
		}

		participant, txErr := s.participantRepo.FindByID(ctx, tx, participantID)
		if txErr != nil {
			if errors.Is(txErr, repositories.ErrParticipantNotFound) {
				return ErrNotRegistered
			}
			return txErr
		}
		if participant.TournamentID != tournamentID {
			return ErrNotRegistered
		}
		if txErr = s.participantRepo.UpdateSeed(ctx, tx, participantID, seed); txErr != nil {
			if errors.Is(txErr, repositories.ErrParticipantSeedTaken) {
				return ErrSeedTaken
			}
			return txErr
		}
		return nil
	})
}

func (s *participantService) ConfirmEntryFeePayment(ctx context.Context, tournamentID, playerID int) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		tournament, txErr := s.tournamentRepo.GetByID(ctx, tx, tournamentID)
		if txErr != nil {
			if errors.Is(txErr, repositories.ErrTournamentNotFound) {
				return ErrNotFound
			}
			return txErr
		}
		participant, txErr := s.participantRepo.FindByPlayerAndTournament(ctx, tx, playerID, tournamentID)
		if txErr != nil {
			if errors.Is(txErr, repositories.ErrParticipantNotFound) {
				return ErrNotRegistered
			}
			return txErr
		}
		if participant.PaymentStatus == models.PaymentStatusPaid {
			// Replayed callback, nothing to do.
			return nil
		}
		if txErr = s.participantRepo.UpdatePaymentStatus(ctx, tx, participant.ID, models.PaymentStatusPaid); txErr != nil {
			return txErr
		}
		if tournament.EntryFee <= 0 {
			return nil
		}
		refType := "participant"
		return s.walletService.Credit(ctx, tx, tournament.OrganizerID, tournament.EntryFee,
			models.TxSourceEntryFee, &refType, &participant.ID, "entry fee")
	})
}

func (s *participantService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Participant, error) {
	return s.participantRepo.ListByTournament(ctx, nil, tournamentID, nil)
}
