package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cuearena/tournament-engine/models"
	"github.com/cuearena/tournament-engine/repositories"
)

type MatchService interface {
	GetMatch(ctx context.Context, matchID int) (*models.Match, error)
	ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error)
	ListPlayerHistory(ctx context.Context, playerID, limit, offset int) ([]*models.PlayerMatchHistory, error)

	// SubmitResult records a score claim from one of the two participants and
	// moves the match to pending_confirmation.
	SubmitResult(ctx context.Context, matchID, playerID, myScore, opponentScore int) (*models.Match, error)
	// ConfirmResult is only legal for the participant who did not submit.
	// This is the transition that completes the match and advances the
	// bracket.
	ConfirmResult(ctx context.Context, matchID, playerID int) (*models.Match, error)
	DisputeResult(ctx context.Context, matchID, playerID int, reason string, claimedMyScore, claimedOpponentScore *int) (*models.Match, error)
	ReportNoShow(ctx context.Context, matchID, playerID int, description string) (*models.Match, error)
	// ResolveDispute closes a disputed match with authoritative scores.
	// Restricted to the tournament organizer and staff.
	ResolveDispute(ctx context.Context, matchID, actorID, finalScore1, finalScore2 int, notes string) (*models.Match, error)
	// AwardWalkover completes the match without play, crediting winnerID with
	// a race_to score. Legal from scheduled, disputed and expired.
	AwardWalkover(ctx context.Context, matchID, actorID, winnerParticipantID int, reason string) (*models.Match, error)

	// ExpireOverdueMatches applies the tournament's expiry policy to every
	// overdue match. Invoked by the scheduler; returns how many matches were
	// transitioned.
	ExpireOverdueMatches(ctx context.Context) (int, error)
}

type matchService struct {
	db              *sql.DB
	matchRepo       repositories.MatchRepository
	participantRepo repositories.ParticipantRepository
	tournamentRepo  repositories.TournamentRepository
	userRepo        repositories.UserRepository
	historyRepo     repositories.HistoryRepository
	advancer        *Advancer
	rating          RatingEngine
	gate            AuthorizationGate
	notifier        Notifier
	activity        ActivityLog
	logger          *slog.Logger
}

func NewMatchService(
	db *sql.DB,
	matchRepo repositories.MatchRepository,
	participantRepo repositories.ParticipantRepository,
	tournamentRepo repositories.TournamentRepository,
	userRepo repositories.UserRepository,
	historyRepo repositories.HistoryRepository,
	advancer *Advancer,
	rating RatingEngine,
	gate AuthorizationGate,
	notifier Notifier,
	activity ActivityLog,
	logger *slog.Logger,
) MatchService {
	return &matchService{
		db:              db,
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		tournamentRepo:  tournamentRepo,
		userRepo:        userRepo,
		historyRepo:     historyRepo,
		advancer:        advancer,
		rating:          rating,
		gate:            gate,
		notifier:        notifier,
		activity:        activity,
		logger:          logger,
	}
}

func (s *matchService) GetMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, nil, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return match, nil
}

func (s *matchService) ListByTournament(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	return s.matchRepo.ListByTournament(ctx, nil, tournamentID, nil)
}

func (s *matchService) ListPlayerHistory(ctx context.Context, playerID, limit, offset int) ([]*models.PlayerMatchHistory, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.historyRepo.ListMatchHistoryByPlayer(ctx, playerID, limit, offset)
}

// lockMatchForTransition loads the match under a row lock together with its
// tournament and the acting player's participant row. The caller re-checks
// status after the lock; the guard evaluated before the lock is not
// authoritative.
func (s *matchService) lockMatchForTransition(ctx context.Context, tx *sql.Tx, matchID, playerID int) (*models.Match, *models.Tournament, *models.Participant, error) {
	match, err := s.matchRepo.GetByIDForUpdate(ctx, tx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, nil, nil, ErrNotFound
		}
		return nil, nil, nil, err
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, tx, match.TournamentID)
	if err != nil {
		return nil, nil, nil, err
	}
	participant, err := s.participantRepo.FindByPlayerAndTournament(ctx, tx, playerID, match.TournamentID)
	if err != nil {
		if errors.Is(err, repositories.ErrParticipantNotFound) {
			return nil, nil, nil, ErrNotMatchParticipant
		}
		return nil, nil, nil, err
	}
	if !match.HasParticipant(participant.ID) {
		return nil, nil, nil, ErrNotMatchParticipant
	}
	return match, tournament, participant, nil
}

func validateSubmittedScores(raceTo, myScore, opponentScore int) error {
	if myScore < 0 || opponentScore < 0 {
		return ErrInvalidScore
	}
	if myScore == opponentScore {
		return ErrInvalidScore
	}
	high, low := myScore, opponentScore
	if low > high {
		high, low = low, high
	}
	// Exactly one side reaches race_to; the winner stops there.
	if high != raceTo || low >= raceTo {
		return ErrInvalidScore
	}
	return nil
}

func (s *matchService) SubmitResult(ctx context.Context, matchID, playerID, myScore, opponentScore int) (*models.Match, error) {
	var result *models.Match
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		match, tournament, participant, txErr := s.lockMatchForTransition(ctx, tx, matchID, playerID)
		if txErr != nil {
			return txErr
		}
		if tournament.Status != models.TournamentStatusActive {
			return ErrInvalidState
		}
		if match.Status != models.MatchStatusScheduled {
			return ErrInvalidState
		}
		if match.Player1ID == nil || match.Player2ID == nil {
			return ErrMatchSlotEmpty
		}
		if txErr = validateSubmittedScores(tournament.RaceToFor(match.MatchType), myScore, opponentScore); txErr != nil {
			return txErr
		}

		// Orient the claim to the player1/player2 columns.
		if *match.Player1ID == participant.ID {
			match.Player1Score = ptrInt(myScore)
			match.Player2Score = ptrInt(opponentScore)
		} else {
			match.Player1Score = ptrInt(opponentScore)
			match.Player2Score = ptrInt(myScore)
		}
		now := nowUTC()
		match.Status = models.MatchStatusPendingConfirmation
		match.SubmittedBy = ptrInt(participant.ID)
		match.SubmittedAt = ptrTime(now)
		if tournament.ConfirmationHours > 0 {
			match.ConfirmationDeadlineAt = ptrTime(now.Add(time.Duration(tournament.ConfirmationHours) * time.Hour))
		}
		if txErr = s.matchRepo.Update(ctx, tx, match); txErr != nil {
			return txErr
		}
		result = match
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activity.Log(ctx, playerID, "match.submit_result", "match", matchID, "result submitted")
	s.notifyOpponent(ctx, result, *result.SubmittedBy, "match.result_submitted")
	return result, nil
}

func (s *matchService) ConfirmResult(ctx context.Context, matchID, playerID int) (*models.Match, error) {
	var result *models.Match
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		match, tournament, participant, txErr := s.lockMatchForTransition(ctx, tx, matchID, playerID)
		if txErr != nil {
			return txErr
		}
		if tournament.Status != models.TournamentStatusActive {
			return ErrInvalidState
		}
		if match.Status != models.MatchStatusPendingConfirmation {
			return ErrInvalidState
		}
		if match.SubmittedBy == nil || *match.SubmittedBy == participant.ID {
			// The submitter can never confirm their own claim.
			return ErrUnauthorized
		}
		if match.Player1Score == nil || match.Player2Score == nil {
			return ErrInvalidScore
		}

		match.ConfirmedBy = ptrInt(participant.ID)
		match.ConfirmedAt = ptrTime(nowUTC())
		result = match
		return s.completeWithScores(ctx, tx, tournament, match, true)
	})
	if err != nil {
		return nil, err
	}

	s.activity.Log(ctx, playerID, "match.confirm_result", "match", matchID, "result confirmed")
	return result, nil
}

func (s *matchService) DisputeResult(ctx context.Context, matchID, playerID int, reason string, claimedMyScore, claimedOpponentScore *int) (*models.Match, error) {
	var result *models.Match
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		match, tournament, participant, txErr := s.lockMatchForTransition(ctx, tx, matchID, playerID)
		if txErr != nil {
			return txErr
		}
		if tournament.Status != models.TournamentStatusActive {
			return ErrInvalidState
		}
		if match.Status != models.MatchStatusPendingConfirmation {
			return ErrInvalidState
		}
		if match.SubmittedBy == nil || *match.SubmittedBy == participant.ID {
			return ErrUnauthorized
		}

		now := nowUTC()
		match.Status = models.MatchStatusDisputed
		match.DisputedBy = ptrInt(participant.ID)
		match.DisputedAt = ptrTime(now)
		match.DisputeReason = ptrString(reason)
		if claimedMyScore != nil && claimedOpponentScore != nil {
			// Counter-claim oriented to player1/player2, informational only.
			if match.Player1ID != nil && *match.Player1ID == participant.ID {
				match.ClaimedPlayer1Score = claimedMyScore
				match.ClaimedPlayer2Score = claimedOpponentScore
			} else {
				match.ClaimedPlayer1Score = claimedOpponentScore
				match.ClaimedPlayer2Score = claimedMyScore
			}
		}
		if txErr = s.matchRepo.Update(ctx, tx, match); txErr != nil {
			return txErr
		}
		result = match
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activity.Log(ctx, playerID, "match.dispute", "match", matchID, reason)
	s.notifyOpponent(ctx, result, *result.DisputedBy, "match.disputed")
	return result, nil
}

func (s *matchService) ReportNoShow(ctx context.Context, matchID, playerID int, description string) (*models.Match, error) {
	var result *models.Match
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		match, tournament, participant, txErr := s.lockMatchForTransition(ctx, tx, matchID, playerID)
		if txErr != nil {
			return txErr
		}
		if tournament.Status != models.TournamentStatusActive {
			return ErrInvalidState
		}
		if match.Status != models.MatchStatusScheduled {
			return ErrInvalidState
		}
		if match.NoShowReportedBy != nil {
			return ErrAlreadyReported
		}

		now := nowUTC()
		match.Status = models.MatchStatusDisputed
		match.NoShowReportedBy = ptrInt(participant.ID)
		match.DisputedBy = ptrInt(participant.ID)
		match.DisputedAt = ptrTime(now)
		match.DisputeReason = ptrString(fmt.Sprintf("no-show reported: %s", description))
		if txErr = s.matchRepo.Update(ctx, tx, match); txErr != nil {
			return txErr
		}
		result = match
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activity.Log(ctx, playerID, "match.report_no_show", "match", matchID, description)
	return result, nil
}

func (s *matchService) ResolveDispute(ctx context.Context, matchID, actorID, finalScore1, finalScore2 int, notes string) (*models.Match, error) {
	actor, err := s.userRepo.GetByID(ctx, nil, actorID)
	if err != nil {
		return nil, err
	}

	var result *models.Match
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		match, txErr := s.matchRepo.GetByIDForUpdate(ctx, tx, matchID)
		if txErr != nil {
			if errors.Is(txErr, repositories.ErrMatchNotFound) {
				return ErrNotFound
			}
			return txErr
		}
		tournament, txErr := s.tournamentRepo.GetByID(ctx, tx, match.TournamentID)
		if txErr != nil {
			return txErr
		}
		resource := Resource{Type: "match", ID: matchID, OwnerID: tournament.OrganizerID}
		if !s.gate.CanPerform(ctx, actor, ActionResolveDispute, resource) {
			return ErrUnauthorized
		}
		if tournament.Status != models.TournamentStatusActive {
			return ErrInvalidState
		}
		if match.Status != models.MatchStatusDisputed {
			return ErrInvalidState
		}
		// Resolution scores are authoritative and may stop short of race_to
		// (partial forfeits), but must still pick a winner.
		if finalScore1 < 0 || finalScore2 < 0 || finalScore1 == finalScore2 {
			return ErrInvalidScore
		}

		match.Player1Score = ptrInt(finalScore1)
		match.Player2Score = ptrInt(finalScore2)
		match.ResolvedBy = ptrInt(actorID)
		match.ResolvedAt = ptrTime(nowUTC())
		match.ResolutionNotes = ptrString(notes)
		result = match
		return s.completeWithScores(ctx, tx, tournament, match, true)
	})
	if err != nil {
		return nil, err
	}

	s.activity.Log(ctx, actorID, "match.resolve_dispute", "match", matchID, notes)
	return result, nil
}

func (s *matchService) AwardWalkover(ctx context.Context, matchID, actorID, winnerParticipantID int, reason string) (*models.Match, error) {
	actor, err := s.userRepo.GetByID(ctx, nil, actorID)
	if err != nil {
		return nil, err
	}

	var result *models.Match
	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		match, txErr := s.matchRepo.GetByIDForUpdate(ctx, tx, matchID)
		if txErr != nil {
			if errors.Is(txErr, repositories.ErrMatchNotFound) {
				return ErrNotFound
			}
			return txErr
		}
		tournament, txErr := s.tournamentRepo.GetByID(ctx, tx, match.TournamentID)
		if txErr != nil {
			return txErr
		}
		resource := Resource{Type: "match", ID: matchID, OwnerID: tournament.OrganizerID}
		if !s.gate.CanPerform(ctx, actor, ActionAwardWalkover, resource) {
			return ErrUnauthorized
		}
		if tournament.Status != models.TournamentStatusActive {
			return ErrInvalidState
		}
		switch match.Status {
		case models.MatchStatusScheduled, models.MatchStatusDisputed, models.MatchStatusExpired:
		default:
			return ErrInvalidState
		}
		if !match.HasParticipant(winnerParticipantID) {
			return ErrNotMatchParticipant
		}

		raceTo := tournament.RaceToFor(match.MatchType)
		if match.Player1ID != nil && *match.Player1ID == winnerParticipantID {
			match.Player1Score = ptrInt(raceTo)
			match.Player2Score = ptrInt(0)
		} else {
			match.Player1Score = ptrInt(0)
			match.Player2Score = ptrInt(raceTo)
		}
		match.ForfeitType = ptrString(models.ForfeitWalkover)
		match.ResolvedBy = ptrInt(actorID)
		match.ResolvedAt = ptrTime(nowUTC())
		match.ResolutionNotes = ptrString(reason)
		result = match
		// Forfeited matches update stats but never ratings.
		return s.completeWithScores(ctx, tx, tournament, match, false)
	})
	if err != nil {
		return nil, err
	}

	s.activity.Log(ctx, actorID, "match.award_walkover", "match", matchID, reason)
	return result, nil
}

// completeWithScores derives winner and loser from the stored scores, applies
// stats, ratings and history, and hands the match to the advancer. Runs as
// the tail of every completing transition.
func (s *matchService) completeWithScores(ctx context.Context, tx *sql.Tx, tournament *models.Tournament, match *models.Match, applyRating bool) error {
	if match.Player1Score == nil || match.Player2Score == nil || *match.Player1Score == *match.Player2Score {
		return ErrInvalidScore
	}
	if *match.Player1Score > *match.Player2Score {
		match.WinnerID = match.Player1ID
		match.LoserID = match.Player2ID
	} else {
		match.WinnerID = match.Player2ID
		match.LoserID = match.Player1ID
	}
	if match.WinnerID == nil {
		return ErrMatchSlotEmpty
	}

	match.Status = models.MatchStatusCompleted
	match.PlayedAt = ptrTime(nowUTC())
	if err := s.matchRepo.Update(ctx, tx, match); err != nil {
		return err
	}

	if err := s.applyParticipantStats(ctx, tx, match); err != nil {
		return err
	}
	if applyRating && match.ForfeitType == nil && match.LoserID != nil {
		if err := s.applyRatingAndHistory(ctx, tx, match); err != nil {
			return err
		}
	}

	return s.advancer.AfterCompletion(ctx, tx, tournament, match)
}

func (s *matchService) applyParticipantStats(ctx context.Context, tx *sql.Tx, match *models.Match) error {
	s1, s2 := *match.Player1Score, *match.Player2Score
	if match.Player1ID != nil {
		won := match.WinnerID != nil && *match.WinnerID == *match.Player1ID
		if err := s.participantRepo.ApplyMatchOutcome(ctx, tx, *match.Player1ID, s1, s2, won); err != nil {
			return err
		}
	}
	if match.Player2ID != nil {
		won := match.WinnerID != nil && *match.WinnerID == *match.Player2ID
		if err := s.participantRepo.ApplyMatchOutcome(ctx, tx, *match.Player2ID, s2, s1, won); err != nil {
			return err
		}
	}
	return nil
}

func (s *matchService) applyRatingAndHistory(ctx context.Context, tx *sql.Tx, match *models.Match) error {
	p1, err := s.participantRepo.FindByID(ctx, tx, *match.Player1ID)
	if err != nil {
		return err
	}
	p2, err := s.participantRepo.FindByID(ctx, tx, *match.Player2ID)
	if err != nil {
		return err
	}
	u1, err := s.userRepo.GetByID(ctx, tx, p1.PlayerID)
	if err != nil {
		return err
	}
	u2, err := s.userRepo.GetByID(ctx, tx, p2.PlayerID)
	if err != nil {
		return err
	}

	s1, s2 := *match.Player1Score, *match.Player2Score
	delta1, delta2 := s.rating.ComputeRatingDelta(u1.Rating, u2.Rating, s1, s2)

	playedAt := nowUTC()
	if match.PlayedAt != nil {
		playedAt = *match.PlayedAt
	}

	type side struct {
		user       *models.User
		opponent   *models.User
		delta      int
		framesWon  int
		framesLost int
		won        bool
	}
	sides := []side{
		{user: u1, opponent: u2, delta: delta1, framesWon: s1, framesLost: s2, won: s1 > s2},
		{user: u2, opponent: u1, delta: delta2, framesWon: s2, framesLost: s1, won: s2 > s1},
	}
	for _, sd := range sides {
		before := sd.user.Rating
		after := before + sd.delta
		if err := s.userRepo.UpdateRating(ctx, tx, sd.user.ID, after); err != nil {
			return err
		}
		if err := s.historyRepo.InsertRatingHistory(ctx, tx, &models.PlayerRatingHistory{
			PlayerID:     sd.user.ID,
			MatchID:      match.ID,
			RatingBefore: before,
			RatingAfter:  after,
			Delta:        sd.delta,
		}); err != nil {
			return err
		}
		if err := s.historyRepo.InsertMatchHistory(ctx, tx, &models.PlayerMatchHistory{
			PlayerID:     sd.user.ID,
			OpponentID:   sd.opponent.ID,
			TournamentID: match.TournamentID,
			MatchID:      match.ID,
			FramesWon:    sd.framesWon,
			FramesLost:   sd.framesLost,
			Won:          sd.won,
			RatingBefore: before,
			RatingAfter:  after,
			PlayedAt:     playedAt,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *matchService) ExpireOverdueMatches(ctx context.Context) (int, error) {
	now := nowUTC()
	expired := 0

	scheduledIDs, err := s.matchRepo.ListOverdueIDs(ctx, models.MatchStatusScheduled, "deadline_at", now)
	if err != nil {
		return 0, err
	}
	for _, id := range scheduledIDs {
		if expireErr := s.expireScheduledMatch(ctx, id, now); expireErr != nil {
			s.logger.ErrorContext(ctx, "failed to expire scheduled match",
				slog.Int("match_id", id), slog.Any("error", expireErr))
			continue
		}
		expired++
	}

	pendingIDs, err := s.matchRepo.ListOverdueIDs(ctx, models.MatchStatusPendingConfirmation, "confirmation_deadline_at", now)
	if err != nil {
		return expired, err
	}
	for _, id := range pendingIDs {
		if expireErr := s.expirePendingMatch(ctx, id, now); expireErr != nil {
			s.logger.ErrorContext(ctx, "failed to expire pending match",
				slog.Int("match_id", id), slog.Any("error", expireErr))
			continue
		}
		expired++
	}
	return expired, nil
}

// expireScheduledMatch handles a match whose play deadline passed with no
// result submitted. Depending on tournament policy both players forfeit, or
// the match parks as expired awaiting an organizer walkover.
func (s *matchService) expireScheduledMatch(ctx context.Context, matchID int, now time.Time) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		match, err := s.matchRepo.GetByIDForUpdate(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if match.Status != models.MatchStatusScheduled || match.DeadlineAt == nil || match.DeadlineAt.After(now) {
			// Raced with a player action, skip.
			return nil
		}
		tournament, err := s.tournamentRepo.GetByID(ctx, tx, match.TournamentID)
		if err != nil {
			return err
		}
		if tournament.Status != models.TournamentStatusActive {
			// The tournament was cancelled mid-round; leave the match alone.
			return nil
		}

		if tournament.DoubleForfeitOnExpiry && match.Player1ID != nil && match.Player2ID != nil {
			match.Status = models.MatchStatusCompleted
			match.ForfeitType = ptrString(models.ForfeitDoubleForfeit)
			match.Player1Score = ptrInt(0)
			match.Player2Score = ptrInt(0)
			match.WinnerID = nil
			match.LoserID = nil
			match.PlayedAt = ptrTime(now)
			if err = s.matchRepo.Update(ctx, tx, match); err != nil {
				return err
			}
			for _, pid := range []*int{match.Player1ID, match.Player2ID} {
				if err = s.participantRepo.ApplyMatchOutcome(ctx, tx, *pid, 0, 0, false); err != nil {
					return err
				}
				if err = s.participantRepo.UpdateStatus(ctx, tx, *pid, models.ParticipantStatusEliminated); err != nil {
					return err
				}
			}
			// No winner, so nothing advances; the downstream slot stays empty
			// until the organizer awards a walkover there.
			return s.advancer.AfterCompletion(ctx, tx, tournament, match)
		}

		match.Status = models.MatchStatusExpired
		return s.matchRepo.Update(ctx, tx, match)
	})
}

// expirePendingMatch handles a submitted result that was never confirmed.
// With auto_confirm_results the submitted score becomes authoritative;
// otherwise the match expires for manual resolution.
func (s *matchService) expirePendingMatch(ctx context.Context, matchID int, now time.Time) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		match, err := s.matchRepo.GetByIDForUpdate(ctx, tx, matchID)
		if err != nil {
			return err
		}
		if match.Status != models.MatchStatusPendingConfirmation ||
			match.ConfirmationDeadlineAt == nil || match.ConfirmationDeadlineAt.After(now) {
			return nil
		}
		tournament, err := s.tournamentRepo.GetByID(ctx, tx, match.TournamentID)
		if err != nil {
			return err
		}
		if tournament.Status != models.TournamentStatusActive {
			return nil
		}

		if tournament.AutoConfirmResults {
			match.ConfirmedAt = ptrTime(now)
			return s.completeWithScores(ctx, tx, tournament, match, true)
		}

		match.Status = models.MatchStatusExpired
		return s.matchRepo.Update(ctx, tx, match)
	})
}

func (s *matchService) notifyOpponent(ctx context.Context, match *models.Match, actingParticipantID int, event string) {
	opponent := match.Opponent(actingParticipantID)
	if opponent == nil {
		return
	}
	p, err := s.participantRepo.FindByID(ctx, nil, *opponent)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load opponent for notification",
			slog.Int("participant_id", *opponent), slog.Any("error", err))
		return
	}
	s.notifier.Notify(ctx, p.PlayerID, event, map[string]interface{}{
		"match_id":      match.ID,
		"tournament_id": match.TournamentID,
	})
}
