package brackets

import (
	"context"
	"fmt"
	"sort"

	"github.com/cuearena/tournament-engine/models"
)

// GroupStageGenerator produces the group phase of a groups_knockout
// tournament: participants are snake-seeded into groups and each group plays
// a single round robin scheduled by the circle method. The knockout phase is
// generated separately once standings are final.
type GroupStageGenerator struct{}

func NewGroupStageGenerator() Generator {
	return &GroupStageGenerator{}
}

func (g *GroupStageGenerator) Name() string {
	return "GroupStage"
}

func (g *GroupStageGenerator) Generate(ctx context.Context, params GenerateParams) ([]*PlannedMatch, error) {
	t := params.Tournament
	participants := params.Participants
	n := len(participants)

	if t == nil {
		return nil, fmt.Errorf("group stage requires tournament settings")
	}
	if n < t.MinPlayersForGroups {
		return nil, fmt.Errorf("not enough participants for a group stage (found %d, need %d)", n, t.MinPlayersForGroups)
	}
	perGroup := t.PlayersPerGroup
	if perGroup < 3 {
		return nil, fmt.Errorf("players_per_group must be at least 3, got %d", perGroup)
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

	numGroups := (n + perGroup - 1) / perGroup
	groups := snakeSeed(ranked, numGroups)

	plan := make([]*PlannedMatch, 0)
	for gi, group := range groups {
		groupNumber := gi + 1
		rounds := circleRounds(len(group))
		for r, pairs := range rounds {
			for pi, pair := range pairs {
				p1 := group[pair[0]].ID
				p2 := group[pair[1]].ID
				gn := groupNumber
				plan = append(plan, &PlannedMatch{
					UID:            fmt.Sprintf("G%dR%dM%d", groupNumber, r+1, pi+1),
					Round:          r + 1,
					OrderInRound:   pi + 1,
					RoundName:      fmt.Sprintf("Group %d", groupNumber),
					MatchType:      models.MatchTypeGroup,
					GroupNumber:    &gn,
					Participant1ID: &p1,
					Participant2ID: &p2,
				})
			}
		}
	}

	sort.SliceStable(plan, func(i, j int) bool {
		if *plan[i].GroupNumber != *plan[j].GroupNumber {
			return *plan[i].GroupNumber < *plan[j].GroupNumber
		}
		if plan[i].Round != plan[j].Round {
			return plan[i].Round < plan[j].Round
		}
		return plan[i].OrderInRound < plan[j].OrderInRound
	})

	return plan, nil
}

// snakeSeed deals ranked participants into groups boustrophedon so seed
// strength stays balanced: 1..k left to right, k+1..2k right to left.
func snakeSeed(ranked []*models.Participant, numGroups int) [][]*models.Participant {
	groups := make([][]*models.Participant, numGroups)
	direction := 1
	gi := 0
	for _, p := range ranked {
		groups[gi] = append(groups[gi], p)
		next := gi + direction
		if next == numGroups || next < 0 {
			direction = -direction
		} else {
			gi = next
		}
	}
	return groups
}

// circleRounds schedules a single round robin for n players using the circle
// method: player 0 is fixed, the rest rotate. Returns index pairs per round;
// odd n gets a ghost player whose pairings are skipped.
func circleRounds(n int) [][][2]int {
	players := make([]int, 0, n+1)
	for i := 0; i < n; i++ {
		players = append(players, i)
	}
	if n%2 == 1 {
		players = append(players, -1)
	}
	m := len(players)

	rounds := make([][][2]int, 0, m-1)
	for r := 0; r < m-1; r++ {
		pairs := make([][2]int, 0, m/2)
		for i := 0; i < m/2; i++ {
			a := players[i]
			b := players[m-1-i]
			if a != -1 && b != -1 {
				pairs = append(pairs, [2]int{a, b})
			}
		}
		rounds = append(rounds, pairs)

		// rotate all but the first element
		last := players[m-1]
		copy(players[2:], players[1:m-1])
		players[1] = last
	}
	return rounds
}
