package services

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/cuearena/tournament-engine/brackets"
	"github.com/cuearena/tournament-engine/models"
	"github.com/cuearena/tournament-engine/repositories"
)

type BracketService interface {
	// GenerateForTournament builds the initial bracket and persists it in the
	// caller's transaction. Returns the number of matches created.
	GenerateForTournament(ctx context.Context, tx *sql.Tx, tournament *models.Tournament, participants []*models.Participant) (int, error)
	// CompleteGroupStage ranks every group, eliminates non-qualifiers and
	// generates the knockout phase from the qualifiers.
	CompleteGroupStage(ctx context.Context, tx *sql.Tx, tournament *models.Tournament) error
	ListBracket(ctx context.Context, tournamentID int) ([]*models.Match, error)
}

type bracketService struct {
	matchRepo       repositories.MatchRepository
	participantRepo repositories.ParticipantRepository
	logger          *slog.Logger
}

func NewBracketService(
	matchRepo repositories.MatchRepository,
	participantRepo repositories.ParticipantRepository,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		matchRepo:       matchRepo,
		participantRepo: participantRepo,
		logger:          logger,
	}
}

func (s *bracketService) GenerateForTournament(ctx context.Context, tx *sql.Tx, tournament *models.Tournament, participants []*models.Participant) (int, error) {
	var generator brackets.Generator
	switch tournament.Format {
	case models.FormatGroupsKnockout:
		if len(participants) >= tournament.MinPlayersForGroups {
			generator = brackets.NewGroupStageGenerator()
		} else {
			// Too few entrants for groups, fall back to a straight knockout.
			generator = brackets.NewSingleEliminationGenerator()
		}
	case models.FormatKnockout:
		generator = brackets.NewSingleEliminationGenerator()
	default:
		return 0, fmt.Errorf("unsupported tournament format %q", tournament.Format)
	}

	plan, err := generator.Generate(ctx, brackets.GenerateParams{
		Tournament:   tournament,
		Participants: participants,
	})
	if err != nil {
		return 0, err
	}

	s.logger.InfoContext(ctx, "bracket generated",
		slog.Int("tournament_id", tournament.ID),
		slog.String("generator", generator.Name()),
		slog.Int("participants", len(participants)),
		slog.Int("matches", len(plan)))

	return s.persistPlan(ctx, tx, tournament, plan)
}

// persistPlan stores a generated plan in two passes: insert every match row,
// then resolve source UIDs into next_match_id/next_match_slot links. The
// third place match is never a link target since it is fed by semi final
// losers at runtime, not winners.
func (s *bracketService) persistPlan(ctx context.Context, tx *sql.Tx, tournament *models.Tournament, plan []*brackets.PlannedMatch) (int, error) {
	now := nowUTC()
	uidToID := make(map[string]int, len(plan))

	for _, pm := range plan {
		m := &models.Match{
			TournamentID:    tournament.ID,
			RoundNumber:     pm.Round,
			RoundName:       pm.RoundName,
			MatchType:       pm.MatchType,
			BracketPosition: pm.OrderInRound,
			GroupNumber:     pm.GroupNumber,
			Player1ID:       pm.Participant1ID,
			Player2ID:       pm.Participant2ID,
			Status:          models.MatchStatusScheduled,
		}
		if pm.IsBye {
			m.Status = models.MatchStatusCompleted
			m.WinnerID = pm.ByeWinnerID
			m.PlayedAt = ptrTime(now)
		} else if pm.Participant1ID != nil && pm.Participant2ID != nil {
			m.ScheduledPlayDate = ptrTime(tournament.StartDate)
			if tournament.MatchDeadlineHours > 0 {
				m.DeadlineAt = ptrTime(now.Add(time.Duration(tournament.MatchDeadlineHours) * time.Hour))
			}
		}
		if err := s.matchRepo.Create(ctx, tx, m); err != nil {
			return 0, fmt.Errorf("failed to persist bracket match %s: %w", pm.UID, err)
		}
		uidToID[pm.UID] = m.ID
	}

	for _, pm := range plan {
		if pm.MatchType == models.MatchTypeThirdPlace {
			continue
		}
		for _, target := range plan {
			if target.MatchType == models.MatchTypeThirdPlace {
				continue
			}
			var slot string
			if target.SourceMatch1UID != nil && *target.SourceMatch1UID == pm.UID {
				slot = models.SlotPlayer1
			} else if target.SourceMatch2UID != nil && *target.SourceMatch2UID == pm.UID {
				slot = models.SlotPlayer2
			} else {
				continue
			}
			targetID := uidToID[target.UID]
			if err := s.matchRepo.UpdateNextMatchLink(ctx, tx, uidToID[pm.UID], &targetID, &slot); err != nil {
				return 0, fmt.Errorf("failed to link bracket match %s: %w", pm.UID, err)
			}
			break
		}
	}

	return len(plan), nil
}

func (s *bracketService) CompleteGroupStage(ctx context.Context, tx *sql.Tx, tournament *models.Tournament) error {
	all, err := s.matchRepo.ListByTournament(ctx, tx, tournament.ID, nil)
	if err != nil {
		return err
	}

	groupMatches := make(map[int][]*models.Match)
	for _, m := range all {
		if m.MatchType != models.MatchTypeGroup {
			// Knockout phase already generated.
			return ErrInvalidState
		}
		if m.Status != models.MatchStatusCompleted && m.Status != models.MatchStatusCancelled {
			return fmt.Errorf("%w: group match %d is not finished", ErrInvalidState, m.ID)
		}
		if m.GroupNumber == nil {
			return fmt.Errorf("group match %d has no group number", m.ID)
		}
		groupMatches[*m.GroupNumber] = append(groupMatches[*m.GroupNumber], m)
	}
	if len(groupMatches) == 0 {
		return ErrInvalidState
	}

	participants, err := s.participantRepo.ListByTournament(ctx, tx, tournament.ID, nil)
	if err != nil {
		return err
	}
	byID := make(map[int]*models.Participant, len(participants))
	for _, p := range participants {
		byID[p.ID] = p
	}

	groupNumbers := make([]int, 0, len(groupMatches))
	for gn := range groupMatches {
		groupNumbers = append(groupNumbers, gn)
	}
	sort.Ints(groupNumbers)

	advance := tournament.AdvancePerGroup
	if advance < 1 {
		advance = 2
	}

	// qualifiers[pos] holds the participant finishing at position pos+1 in
	// each group, ordered by group number. Group winners seed ahead of
	// runners-up in the knockout.
	qualifiers := make([][]*models.Participant, advance)
	for _, gn := range groupNumbers {
		members := groupMembers(groupMatches[gn], byID)
		table, cErr := brackets.ComputeStandings(gn, members, groupMatches[gn])
		if cErr != nil {
			return cErr
		}
		for _, line := range table {
			p := byID[line.ParticipantID]
			if p == nil {
				return fmt.Errorf("standings reference unknown participant %d", line.ParticipantID)
			}
			if line.Position <= advance {
				qualifiers[line.Position-1] = append(qualifiers[line.Position-1], p)
				continue
			}
			if uErr := s.participantRepo.UpdateStatus(ctx, tx, p.ID, models.ParticipantStatusEliminated); uErr != nil {
				return uErr
			}
		}
	}

	seeded := make([]*models.Participant, 0)
	seed := 0
	for _, tier := range qualifiers {
		for _, p := range tier {
			seed++
			cp := *p
			cp.Seed = ptrInt(seed)
			seeded = append(seeded, &cp)
		}
	}
	if len(seeded) < 2 {
		return ErrNotEnoughParticipants
	}

	generator := brackets.NewSingleEliminationGenerator()
	plan, err := generator.Generate(ctx, brackets.GenerateParams{
		Tournament:   tournament,
		Participants: seeded,
	})
	if err != nil {
		return err
	}

	created, err := s.persistPlan(ctx, tx, tournament, plan)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "group stage completed, knockout generated",
		slog.Int("tournament_id", tournament.ID),
		slog.Int("qualifiers", len(seeded)),
		slog.Int("knockout_matches", created))
	return nil
}

func groupMembers(matches []*models.Match, byID map[int]*models.Participant) []*models.Participant {
	seen := make(map[int]bool)
	members := make([]*models.Participant, 0)
	for _, m := range matches {
		for _, pid := range []*int{m.Player1ID, m.Player2ID} {
			if pid == nil || seen[*pid] {
				continue
			}
			seen[*pid] = true
			if p := byID[*pid]; p != nil {
				members = append(members, p)
			}
		}
	}
	return members
}

func (s *bracketService) ListBracket(ctx context.Context, tournamentID int) ([]*models.Match, error) {
	return s.matchRepo.ListByTournament(ctx, nil, tournamentID, nil)
}
