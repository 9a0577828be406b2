package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/google/uuid"

	"github.com/cuearena/tournament-engine/models"
	"github.com/cuearena/tournament-engine/repositories"
	"github.com/cuearena/tournament-engine/storage"
)

type EvidenceService interface {
	// Upload attaches a file to a disputed match. Only the two match
	// participants and the tournament organizer may upload.
	Upload(ctx context.Context, matchID, actorID int, fileName, contentType string, reader io.Reader, note *string) (*models.MatchEvidence, error)
	ListByMatch(ctx context.Context, matchID int) ([]*models.MatchEvidence, error)
	// Delete removes the file and its record. Uploader and organizer only.
	Delete(ctx context.Context, evidenceID, actorID int) error
}

type evidenceService struct {
	evidenceRepo    repositories.EvidenceRepository
	matchRepo       repositories.MatchRepository
	participantRepo repositories.ParticipantRepository
	tournamentRepo  repositories.TournamentRepository
	uploader        storage.FileUploader
	logger          *slog.Logger
}

func NewEvidenceService(
	evidenceRepo repositories.EvidenceRepository,
	matchRepo repositories.MatchRepository,
	participantRepo repositories.ParticipantRepository,
	tournamentRepo repositories.TournamentRepository,
	uploader storage.FileUploader,
	logger *slog.Logger,
) EvidenceService {
	return &evidenceService{
		evidenceRepo:    evidenceRepo,
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		tournamentRepo:  tournamentRepo,
		uploader:        uploader,
		logger:          logger,
	}
}

func (s *evidenceService) Upload(ctx context.Context, matchID, actorID int, fileName, contentType string, reader io.Reader, note *string) (*models.MatchEvidence, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if match.Status != models.MatchStatusDisputed {
		return nil, ErrInvalidState
	}

	tournament, err := s.tournamentRepo.GetByID(ctx, nil, match.TournamentID)
	if err != nil {
		return nil, err
	}
	allowed := tournament.OrganizerID == actorID
	if !allowed {
		p, pErr := s.participantRepo.FindByPlayerAndTournament(ctx, nil, actorID, match.TournamentID)
		if pErr != nil && !errors.Is(pErr, repositories.ErrParticipantNotFound) {
			return nil, pErr
		}
		allowed = p != nil && match.HasParticipant(p.ID)
	}
	if !allowed {
		return nil, ErrUnauthorized
	}

	key := fmt.Sprintf("evidence/match-%d/%s%s", matchID, uuid.NewString(), path.Ext(fileName))
	result, err := s.uploader.Upload(ctx, key, contentType, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to store evidence file: %w", err)
	}

	evidence := &models.MatchEvidence{
		MatchID:     matchID,
		UploadedBy:  actorID,
		FileKey:     result.Key,
		ContentType: contentType,
		Note:        note,
	}
	if err := s.evidenceRepo.Create(ctx, nil, evidence); err != nil {
		// Best effort cleanup of the orphaned object.
		if delErr := s.uploader.Delete(ctx, result.Key); delErr != nil {
			s.logger.WarnContext(ctx, "failed to delete orphaned evidence object",
				slog.String("key", result.Key), slog.Any("error", delErr))
		}
		return nil, err
	}

	evidence.FileURL = s.uploader.GetPublicURL(evidence.FileKey)
	return evidence, nil
}

func (s *evidenceService) ListByMatch(ctx context.Context, matchID int) ([]*models.MatchEvidence, error) {
	items, err := s.evidenceRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	for _, e := range items {
		e.FileURL = s.uploader.GetPublicURL(e.FileKey)
	}
	return items, nil
}

func (s *evidenceService) Delete(ctx context.Context, evidenceID, actorID int) error {
	evidence, err := s.evidenceRepo.GetByID(ctx, nil, evidenceID)
	if err != nil {
		if errors.Is(err, repositories.ErrEvidenceNotFound) {
			return ErrNotFound
		}
		return err
	}

	if evidence.UploadedBy != actorID {
		match, mErr := s.matchRepo.GetByID(ctx, nil, evidence.MatchID)
		if mErr != nil {
			return mErr
		}
		tournament, tErr := s.tournamentRepo.GetByID(ctx, nil, match.TournamentID)
		if tErr != nil {
			return tErr
		}
		if tournament.OrganizerID != actorID {
			return ErrUnauthorized
		}
	}

	if err := s.uploader.Delete(ctx, evidence.FileKey); err != nil {
		s.logger.WarnContext(ctx, "failed to delete evidence object",
			slog.String("key", evidence.FileKey), slog.Any("error", err))
	}
	return s.evidenceRepo.Delete(ctx, nil, evidenceID)
}
