package services

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/cuearena/tournament-engine/models"
	"github.com/cuearena/tournament-engine/repositories"
)

// Advancer propagates match outcomes through the bracket: winners move into
// downstream slots, semi final losers fill the third place match, finished
// group stages trigger knockout generation and a resolved bracket completes
// the tournament. All methods run inside the caller's transaction, as part of
// the transition that completed the match.
type Advancer struct {
	matchRepo       repositories.MatchRepository
	participantRepo repositories.ParticipantRepository
	tournamentRepo  repositories.TournamentRepository
	bracketService  BracketService
	logger          *slog.Logger
}

func NewAdvancer(
	matchRepo repositories.MatchRepository,
	participantRepo repositories.ParticipantRepository,
	tournamentRepo repositories.TournamentRepository,
	bracketService BracketService,
	logger *slog.Logger,
) *Advancer {
	return &Advancer{
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		tournamentRepo:  tournamentRepo,
		bracketService:  bracketService,
		logger:          logger,
	}
}

// AfterCompletion is invoked once per match completion, inside the same
// transaction that set the match to completed.
func (a *Advancer) AfterCompletion(ctx context.Context, tx *sql.Tx, tournament *models.Tournament, match *models.Match) error {
	if match.MatchType == models.MatchTypeGroup {
		return a.afterGroupMatch(ctx, tx, tournament, match)
	}

	if err := a.advanceWinner(ctx, tx, tournament, match); err != nil {
		return err
	}
	if match.MatchType == models.MatchTypeSemiFinal {
		if err := a.fillThirdPlace(ctx, tx, tournament, match); err != nil {
			return err
		}
	}

	complete, err := a.isBracketComplete(ctx, tx, tournament)
	if err != nil {
		return err
	}
	if complete {
		return a.completeTournament(ctx, tx, tournament)
	}
	return nil
}

func (a *Advancer) afterGroupMatch(ctx context.Context, tx *sql.Tx, tournament *models.Tournament, match *models.Match) error {
	// Group losers stay active; elimination happens at stage completion.
	all, err := a.matchRepo.ListByTournament(ctx, tx, tournament.ID, nil)
	if err != nil {
		return err
	}
	for _, m := range all {
		if m.MatchType != models.MatchTypeGroup {
			// Knockout already exists, nothing to trigger.
			return nil
		}
		if m.Status != models.MatchStatusCompleted && m.Status != models.MatchStatusCancelled {
			return nil
		}
	}
	return a.bracketService.CompleteGroupStage(ctx, tx, tournament)
}

func (a *Advancer) advanceWinner(ctx context.Context, tx *sql.Tx, tournament *models.Tournament, match *models.Match) error {
	if match.NextMatchID == nil || match.WinnerID == nil || match.NextMatchSlot == nil {
		return nil
	}
	if err := a.matchRepo.SetPlayerSlot(ctx, tx, *match.NextMatchID, *match.NextMatchSlot, *match.WinnerID); err != nil {
		return err
	}

	next, err := a.matchRepo.GetByID(ctx, tx, *match.NextMatchID)
	if err != nil {
		return err
	}
	if next.Player1ID != nil && next.Player2ID != nil && next.Status == models.MatchStatusScheduled && next.DeadlineAt == nil {
		// The pairing is known now, start the play clock.
		if tournament.MatchDeadlineHours > 0 {
			next.DeadlineAt = ptrTime(nowUTC().Add(time.Duration(tournament.MatchDeadlineHours) * time.Hour))
			next.ScheduledPlayDate = ptrTime(nowUTC())
			if err := a.matchRepo.Update(ctx, tx, next); err != nil {
				return err
			}
		}
	}

	a.logger.InfoContext(ctx, "winner advanced",
		slog.Int("match_id", match.ID),
		slog.Int("next_match_id", *match.NextMatchID),
		slog.String("slot", *match.NextMatchSlot),
		slog.Int("participant_id", *match.WinnerID))
	return nil
}

// fillThirdPlace puts a semi final loser into the third place match. The
// first semi final feeds player1, the second feeds player2.
func (a *Advancer) fillThirdPlace(ctx context.Context, tx *sql.Tx, tournament *models.Tournament, semiFinal *models.Match) error {
	if semiFinal.LoserID == nil {
		return nil
	}
	third, err := a.matchRepo.GetByType(ctx, tx, tournament.ID, models.MatchTypeThirdPlace)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil
		}
		return err
	}
	slot := models.SlotPlayer1
	if semiFinal.BracketPosition == 2 {
		slot = models.SlotPlayer2
	}
	if err := a.matchRepo.SetPlayerSlot(ctx, tx, third.ID, slot, *semiFinal.LoserID); err != nil {
		return err
	}

	third, err = a.matchRepo.GetByID(ctx, tx, third.ID)
	if err != nil {
		return err
	}
	if third.Player1ID != nil && third.Player2ID != nil && third.DeadlineAt == nil && tournament.MatchDeadlineHours > 0 {
		third.DeadlineAt = ptrTime(nowUTC().Add(time.Duration(tournament.MatchDeadlineHours) * time.Hour))
		third.ScheduledPlayDate = ptrTime(nowUTC())
		return a.matchRepo.Update(ctx, tx, third)
	}
	return nil
}

// isBracketComplete reports whether the final is completed and the third
// place match, when present, has reached a terminal state.
func (a *Advancer) isBracketComplete(ctx context.Context, tx *sql.Tx, tournament *models.Tournament) (bool, error) {
	final, err := a.matchRepo.GetByType(ctx, tx, tournament.ID, models.MatchTypeFinal)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return false, nil
		}
		return false, err
	}
	if final.Status != models.MatchStatusCompleted {
		return false, nil
	}

	third, err := a.matchRepo.GetByType(ctx, tx, tournament.ID, models.MatchTypeThirdPlace)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return true, nil
		}
		return false, err
	}
	return third.Status.IsTerminal(), nil
}

func (a *Advancer) completeTournament(ctx context.Context, tx *sql.Tx, tournament *models.Tournament) error {
	if !canTransitionTournament(tournament.Status, models.TournamentStatusCompleted) {
		return ErrInvalidState
	}
	if err := a.calculateFinalPositions(ctx, tx, tournament); err != nil {
		return err
	}
	if err := a.tournamentRepo.UpdateStatus(ctx, tx, tournament.ID, models.TournamentStatusCompleted); err != nil {
		return err
	}
	tournament.Status = models.TournamentStatusCompleted

	a.logger.InfoContext(ctx, "tournament completed", slog.Int("tournament_id", tournament.ID))
	return nil
}

// calculateFinalPositions assigns podium places from the final and third
// place matches and derives the rest from the round a participant was
// eliminated in: losing in round r of an R round bracket yields position
// 2^(R-r) + 1. Participants eliminated in the group stage share the position
// after the last knockout place.
func (a *Advancer) calculateFinalPositions(ctx context.Context, tx *sql.Tx, tournament *models.Tournament) error {
	all, err := a.matchRepo.ListByTournament(ctx, tx, tournament.ID, nil)
	if err != nil {
		return err
	}

	var final, third *models.Match
	var semiFinals []*models.Match
	knockout := make([]*models.Match, 0, len(all))
	finalRound := 0
	for _, m := range all {
		switch m.MatchType {
		case models.MatchTypeGroup:
			continue
		case models.MatchTypeFinal:
			final = m
			finalRound = m.RoundNumber
		case models.MatchTypeThirdPlace:
			third = m
		case models.MatchTypeSemiFinal:
			semiFinals = append(semiFinals, m)
		}
		knockout = append(knockout, m)
	}
	if final == nil {
		return nil
	}

	positions := make(map[int]int)
	assign := func(participantID *int, position int) {
		if participantID == nil {
			return
		}
		if current, ok := positions[*participantID]; !ok || position < current {
			positions[*participantID] = position
		}
	}

	assign(final.WinnerID, 1)
	assign(final.LoserID, 2)
	if third != nil {
		assign(third.WinnerID, 3)
		assign(third.LoserID, 4)
	} else {
		for _, sf := range semiFinals {
			assign(sf.LoserID, 3)
		}
	}

	knockoutSlots := 2
	for _, m := range knockout {
		if m.MatchType == models.MatchTypeThirdPlace || m.Status != models.MatchStatusCompleted {
			continue
		}
		if m.RoundNumber >= finalRound {
			continue
		}
		loserPosition := (1 << uint(finalRound-m.RoundNumber)) + 1
		if loserPosition > knockoutSlots {
			knockoutSlots = loserPosition - 1
		}
		if m.WinnerID == nil {
			// Double forfeit, both players go out at this round.
			assign(m.Player1ID, loserPosition)
			assign(m.Player2ID, loserPosition)
			continue
		}
		assign(m.LoserID, loserPosition)
	}

	participants, err := a.participantRepo.ListByTournament(ctx, tx, tournament.ID, nil)
	if err != nil {
		return err
	}
	for _, p := range participants {
		position, ok := positions[p.ID]
		if !ok {
			// Never reached the knockout phase.
			position = knockoutSlots + 1
		}
		if err := a.participantRepo.SetFinalPosition(ctx, tx, p.ID, position); err != nil {
			return err
		}
		status := models.ParticipantStatusEliminated
		if position == 1 {
			status = models.ParticipantStatusWinner
		}
		if p.Status == models.ParticipantStatusDisqualified {
			status = models.ParticipantStatusDisqualified
		}
		if err := a.participantRepo.UpdateStatus(ctx, tx, p.ID, status); err != nil {
			return err
		}
	}
	return nil
}
