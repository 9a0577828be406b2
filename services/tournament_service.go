package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"github.com/cuearena/tournament-engine/models"
	"github.com/cuearena/tournament-engine/repositories"
)

type TournamentService interface {
	Create(ctx context.Context, organizerID int, input *models.Tournament) (*models.Tournament, error)
	GetByID(ctx context.Context, id int) (*models.Tournament, error)
	List(ctx context.Context, status *models.TournamentStatus, limit, offset int) ([]*models.Tournament, error)

	// ApproveReview moves an organizer-submitted tournament from
	// pending_review to draft. Staff only.
	ApproveReview(ctx context.Context, tournamentID, actorID int) error
	RejectReview(ctx context.Context, tournamentID, actorID int) error
	OpenRegistration(ctx context.Context, tournamentID, actorID int) error
	// Start generates the bracket and activates the tournament in one
	// transaction; a generation failure leaves it in registration.
	Start(ctx context.Context, tournamentID, actorID int) error
	Cancel(ctx context.Context, tournamentID, actorID int) error
	// AdminComplete is the manual override for a stuck bracket. Admin only.
	AdminComplete(ctx context.Context, tournamentID, actorID int) error
}

type tournamentService struct {
	db              *sql.DB
	tournamentRepo  repositories.TournamentRepository
	participantRepo repositories.ParticipantRepository
	userRepo        repositories.UserRepository
	bracketService  BracketService
	walletService   WalletService
	gate            AuthorizationGate
	activity        ActivityLog
	logger          *slog.Logger
}

func NewTournamentService(
	db *sql.DB,
	tournamentRepo repositories.TournamentRepository,
	participantRepo repositories.ParticipantRepository,
	userRepo repositories.UserRepository,
	bracketService BracketService,
	walletService WalletService,
	gate AuthorizationGate,
	activity ActivityLog,
	logger *slog.Logger,
) TournamentService {
	return &tournamentService{
		db:              db,
		tournamentRepo:  tournamentRepo,
		participantRepo: participantRepo,
		userRepo:        userRepo,
		bracketService:  bracketService,
		walletService:   walletService,
		gate:            gate,
		activity:        activity,
		logger:          logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, organizerID int, t *models.Tournament) (*models.Tournament, error) {
	organizer, err := s.userRepo.GetByID(ctx, nil, organizerID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" || t.RaceTo < 1 || t.MaxParticipants < 2 {
		return nil, ErrInvalidState
	}
	if t.Format == "" {
		t.Format = models.FormatKnockout
	}
	if t.Type == "" {
		t.Type = models.TournamentTypeRegular
	}
	if t.WinnersCount < 1 {
		t.WinnersCount = 1
	}
	t.OrganizerID = organizerID

	// Organizer-submitted tournaments need a staff review before they can be
	// drafted; admin-created special tournaments skip it.
	t.Status = models.TournamentStatusPendingReview
	if t.Type == models.TournamentTypeSpecial {
		if organizer.Role != models.RoleAdmin {
			return nil, ErrUnauthorized
		}
		t.Status = models.TournamentStatusDraft
	}

	if err := s.tournamentRepo.Create(ctx, nil, t); err != nil {
		if errors.Is(err, repositories.ErrTournamentNameConflict) {
			return nil, ErrTournamentNameTaken
		}
		return nil, err
	}

	if t.EntryFee > 0 {
		if _, err := s.walletService.EnsureWallet(ctx, organizerID, t.Currency); err != nil {
			s.logger.WarnContext(ctx, "failed to ensure organizer wallet",
				slog.Int("organizer_id", organizerID), slog.Any("error", err))
		}
	}

	s.activity.Log(ctx, organizerID, "tournament.create", "tournament", t.ID, t.Name)
	return t, nil
}

func (s *tournamentService) GetByID(ctx context.Context, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, nil, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTournamentNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return t, nil
}

func (s *tournamentService) List(ctx context.Context, status *models.TournamentStatus, limit, offset int) ([]*models.Tournament, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.tournamentRepo.List(ctx, status, limit, offset)
}

func (s *tournamentService) ApproveReview(ctx context.Context, tournamentID, actorID int) error {
	return s.reviewTransition(ctx, tournamentID, actorID, models.TournamentStatusDraft, "tournament.approve_review")
}

func (s *tournamentService) RejectReview(ctx context.Context, tournamentID, actorID int) error {
	return s.reviewTransition(ctx, tournamentID, actorID, models.TournamentStatusRejected, "tournament.reject_review")
}

func (s *tournamentService) reviewTransition(ctx context.Context, tournamentID, actorID int, next models.TournamentStatus, action string) error {
	actor, err := s.userRepo.GetByID(ctx, nil, actorID)
	if err != nil {
		return err
	}
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		t, txErr := s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID)
		if txErr != nil {
			if errors.Is(txErr, repositories.ErrTournamentNotFound) {
				return ErrNotFound
			}
			return txErr
		}
		resource := Resource{Type: "tournament", ID: tournamentID, OwnerID: t.OrganizerID}
		if !s.gate.CanPerform(ctx, actor, ActionReviewTournament, resource) {
			return ErrUnauthorized
		}
		if t.Status != models.TournamentStatusPendingReview {
			return ErrInvalidState
		}
		return s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, next)
	})
	if err != nil {
		return err
	}
	s.activity.Log(ctx, actorID, action, "tournament", tournamentID, string(next))
	return nil
}

func (s *tournamentService) OpenRegistration(ctx context.Context, tournamentID, actorID int) error {
	actor, err := s.userRepo.GetByID(ctx, nil, actorID)
	if err != nil {
		return err
	}
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		t, txErr := s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID)
		if txErr != nil {
			if errors.Is(txErr, repositories.ErrTournamentNotFound) {
				return ErrNotFound
			}
			return txErr
		}
		resource := Resource{Type: "tournament", ID: tournamentID, OwnerID: t.OrganizerID}
		if !s.gate.CanPerform(ctx, actor, ActionManageTournament, resource) {
			return ErrUnauthorized
		}
		if !canTransitionTournament(t.Status, models.TournamentStatusRegistration) {
			return ErrInvalidState
		}
		return s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.TournamentStatusRegistration)
	})
	if err != nil {
		return err
	}
	s.activity.Log(ctx, actorID, "tournament.open_registration", "tournament", tournamentID, "registration opened")
	return nil
}

func (s *tournamentService) Start(ctx context.Context, tournamentID, actorID int) error {
	actor, err := s.userRepo.GetByID(ctx, nil, actorID)
	if err != nil {
		return err
	}

	// Bracket generation and activation are one atomic unit: any failure
	// rolls everything back and the tournament stays in registration.
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		t, txErr := s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID)
		if txErr != nil {
			if errors.Is(txErr, repositories.ErrTournamentNotFound) {
				return ErrNotFound
			}
			return txErr
		}
		resource := Resource{Type: "tournament", ID: tournamentID, OwnerID: t.OrganizerID}
		if !s.gate.CanPerform(ctx, actor, ActionManageTournament, resource) {
			return ErrUnauthorized
		}
		if !canTransitionTournament(t.Status, models.TournamentStatusActive) {
			return ErrInvalidState
		}

		participants, txErr := s.participantRepo.ListByTournament(ctx, tx, tournamentID, nil)
		if txErr != nil {
			return txErr
		}
		if len(participants) < 2 {
			return ErrNotEnoughParticipants
		}
		for _, p := range participants {
			if txErr = s.participantRepo.UpdateStatus(ctx, tx, p.ID, models.ParticipantStatusActive); txErr != nil {
				return txErr
			}
		}

		matchCount, txErr := s.bracketService.GenerateForTournament(ctx, tx, t, participants)
		if txErr != nil {
			return txErr
		}
		if txErr = s.tournamentRepo.UpdateCounts(ctx, tx, tournamentID, len(participants), matchCount); txErr != nil {
			return txErr
		}
		return s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.TournamentStatusActive)
	})
	if err != nil {
		return err
	}

	s.activity.Log(ctx, actorID, "tournament.start", "tournament", tournamentID, "bracket generated, tournament active")
	return nil
}

func (s *tournamentService) Cancel(ctx context.Context, tournamentID, actorID int) error {
	actor, err := s.userRepo.GetByID(ctx, nil, actorID)
	if err != nil {
		return err
	}
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		t, txErr := s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID)
		if txErr != nil {
			if errors.Is(txErr, repositories.ErrTournamentNotFound) {
				return ErrNotFound
			}
			return txErr
		}
		resource := Resource{Type: "tournament", ID: tournamentID, OwnerID: t.OrganizerID}
		if !s.gate.CanPerform(ctx, actor, ActionManageTournament, resource) {
			return ErrUnauthorized
		}
		if t.Status.IsTerminal() {
			return ErrInvalidState
		}
		// Cancellation blocks further transitions only; finished matches and
		// payouts stay as they are.
		return s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.TournamentStatusCancelled)
	})
	if err != nil {
		return err
	}
	s.activity.Log(ctx, actorID, "tournament.cancel", "tournament", tournamentID, "tournament cancelled")
	return nil
}

func (s *tournamentService) AdminComplete(ctx context.Context, tournamentID, actorID int) error {
	actor, err := s.userRepo.GetByID(ctx, nil, actorID)
	if err != nil {
		return err
	}
	if actor.Role != models.RoleAdmin {
		return ErrUnauthorized
	}
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		t, txErr := s.tournamentRepo.GetByIDForUpdate(ctx, tx, tournamentID)
		if txErr != nil {
			if errors.Is(txErr, repositories.ErrTournamentNotFound) {
				return ErrNotFound
			}
			return txErr
		}
		if !canTransitionTournament(t.Status, models.TournamentStatusCompleted) {
			return ErrInvalidState
		}
		return s.tournamentRepo.UpdateStatus(ctx, tx, tournamentID, models.TournamentStatusCompleted)
	})
	if err != nil {
		return err
	}
	s.activity.Log(ctx, actorID, "tournament.admin_complete", "tournament", tournamentID, "manually completed")
	return nil
}
