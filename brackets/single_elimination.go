package brackets

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/cuearena/tournament-engine/models"
)

type node struct {
	participantID  *int
	sourceMatchUID *string
	isBye          bool
}

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() Generator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) Name() string {
	return "SingleElimination"
}

// Generate builds a full single elimination plan. Participants are ranked by
// seed, placed in standard seeding order (seed s meets seed size+1-s in round
// one), and byes go to the top seeds. A third place match is appended when the
// tournament pays out three or more positions.
func (g *SingleEliminationGenerator) Generate(ctx context.Context, params GenerateParams) ([]*PlannedMatch, error) {
	participants := params.Participants
	n := len(participants)
	if n < 2 {
		return nil, errors.New("not enough participants to generate a single elimination bracket (minimum 2)")
	}

	ranked := make([]*models.Participant, n)
	copy(ranked, participants)
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := ranked[i].Seed, ranked[j].Seed
		if si != nil && sj != nil {
			return *si < *sj
		}
		if si != nil {
			return true
		}
		if sj != nil {
			return false
		}
		return ranked[i].ID < ranked[j].ID
	})

	numRounds := int(math.Ceil(math.Log2(float64(n))))
	size := 1 << uint(numRounds)

	order := seedingOrder(size)
	currentRound := make([]*node, size)
	for i, seedPos := range order {
		if seedPos <= n {
			pid := ranked[seedPos-1].ID
			currentRound[i] = &node{participantID: &pid}
		} else {
			currentRound[i] = &node{isBye: true}
		}
	}

	plan := make([]*PlannedMatch, 0, size)
	var semiFinalUIDs []string

	for r := 1; r <= numRounds; r++ {
		matchesInRound := len(currentRound) / 2
		nextRound := make([]*node, 0, matchesInRound)

		for i := 0; i < matchesInRound; i++ {
			node1 := currentRound[2*i]
			node2 := currentRound[2*i+1]
			uid := fmt.Sprintf("R%dM%d", r, i+1)

			matchType, roundName := roundLabel(matchesInRound, r)
			pm := &PlannedMatch{
				UID:          uid,
				Round:        r,
				OrderInRound: i + 1,
				RoundName:    roundName,
				MatchType:    matchType,
			}

			switch {
			case node1.isBye || node2.isBye:
				// Byes only ever pair with a directly seeded participant,
				// because size is the next power of two above n.
				winner := node1.participantID
				if winner == nil {
					winner = node2.participantID
				}
				pm.MatchType = models.MatchTypeBye
				pm.IsBye = true
				pm.Participant1ID = winner
				pm.ByeWinnerID = winner
				// Carry the UID too so the bye row still gets a next-match
				// link when the plan is persisted.
				nextRound = append(nextRound, &node{participantID: winner, sourceMatchUID: &pm.UID})
			default:
				pm.Participant1ID = node1.participantID
				pm.SourceMatch1UID = node1.sourceMatchUID
				pm.Participant2ID = node2.participantID
				pm.SourceMatch2UID = node2.sourceMatchUID
				nextRound = append(nextRound, &node{sourceMatchUID: &pm.UID})
			}

			if matchType == models.MatchTypeSemiFinal {
				semiFinalUIDs = append(semiFinalUIDs, uid)
			}
			plan = append(plan, pm)
		}
		currentRound = nextRound
	}

	if params.Tournament != nil && params.Tournament.WinnersCount >= 3 && len(semiFinalUIDs) == 2 {
		plan = append(plan, &PlannedMatch{
			UID:             "TP",
			Round:           numRounds,
			OrderInRound:    2,
			RoundName:       "Third Place",
			MatchType:       models.MatchTypeThirdPlace,
			SourceMatch1UID: &semiFinalUIDs[0],
			SourceMatch2UID: &semiFinalUIDs[1],
		})
	}

	sort.SliceStable(plan, func(i, j int) bool {
		if plan[i].Round != plan[j].Round {
			return plan[i].Round < plan[j].Round
		}
		return plan[i].OrderInRound < plan[j].OrderInRound
	})

	return plan, nil
}

// seedingOrder returns the standard bracket placement for a power-of-two
// size: slot i of round one holds seed order[i], so seed 1 and seed 2 can
// only meet in the final.
func seedingOrder(size int) []int {
	order := []int{1}
	for len(order) < size {
		next := make([]int, 0, len(order)*2)
		mirror := len(order)*2 + 1
		for _, s := range order {
			next = append(next, s, mirror-s)
		}
		order = next
	}
	return order
}

func roundLabel(matchesInRound, round int) (models.MatchType, string) {
	switch matchesInRound {
	case 1:
		return models.MatchTypeFinal, "Final"
	case 2:
		return models.MatchTypeSemiFinal, "Semi Final"
	case 4:
		return models.MatchTypeQuarterFinal, "Quarter Final"
	default:
		return models.MatchTypeRegular, fmt.Sprintf("Round %d", round)
	}
}
