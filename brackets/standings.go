package brackets

import (
	"fmt"
	"sort"

	"github.com/cuearena/tournament-engine/models"
)

// Standing is one participant's line in a group table, computed from
// completed group matches only.
type Standing struct {
	ParticipantID int
	GroupNumber   int
	Played        int
	Won           int
	Lost          int
	FramesWon     int
	FramesLost    int
	Points        int
	Seed          *int
	Position      int
}

func (s *Standing) frameDiff() int {
	return s.FramesWon - s.FramesLost
}

// ComputeStandings ranks one group. Ordering: points, then frame difference,
// then frames won, then head-to-head result for two-way ties, then seed.
// Matches that are not completed are ignored.
func ComputeStandings(groupNumber int, members []*models.Participant, matches []*models.Match) ([]*Standing, error) {
	byID := make(map[int]*Standing, len(members))
	for _, p := range members {
		byID[p.ID] = &Standing{
			ParticipantID: p.ID,
			GroupNumber:   groupNumber,
			Seed:          p.Seed,
		}
	}

	headToHead := make(map[[2]int]int)

	for _, m := range matches {
		if m.Status != models.MatchStatusCompleted || m.WinnerID == nil {
			continue
		}
		if m.Player1ID == nil || m.Player2ID == nil {
			continue
		}
		s1, ok1 := byID[*m.Player1ID]
		s2, ok2 := byID[*m.Player2ID]
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("match %d references a participant outside group %d", m.ID, groupNumber)
		}

		f1, f2 := 0, 0
		if m.Player1Score != nil {
			f1 = *m.Player1Score
		}
		if m.Player2Score != nil {
			f2 = *m.Player2Score
		}

		s1.Played++
		s2.Played++
		s1.FramesWon += f1
		s1.FramesLost += f2
		s2.FramesWon += f2
		s2.FramesLost += f1
		s1.Points += f1
		s2.Points += f2

		if *m.WinnerID == *m.Player1ID {
			s1.Won++
			s2.Lost++
			headToHead[[2]int{*m.Player1ID, *m.Player2ID}] = 1
		} else {
			s2.Won++
			s1.Lost++
			headToHead[[2]int{*m.Player2ID, *m.Player1ID}] = 1
		}
	}

	table := make([]*Standing, 0, len(byID))
	for _, s := range byID {
		table = append(table, s)
	}

	// Head-to-head only settles exact two-way ties. With three or more
	// players level on points and frames the pairwise results can cycle,
	// so larger groups fall through to seed.
	type tieKey struct{ points, diff, framesWon int }
	tied := make(map[tieKey]int, len(table))
	for _, s := range table {
		tied[tieKey{s.Points, s.frameDiff(), s.FramesWon}]++
	}

	sort.SliceStable(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.frameDiff() != b.frameDiff() {
			return a.frameDiff() > b.frameDiff()
		}
		if a.FramesWon != b.FramesWon {
			return a.FramesWon > b.FramesWon
		}
		if tied[tieKey{a.Points, a.frameDiff(), a.FramesWon}] == 2 {
			if headToHead[[2]int{a.ParticipantID, b.ParticipantID}] == 1 {
				return true
			}
			if headToHead[[2]int{b.ParticipantID, a.ParticipantID}] == 1 {
				return false
			}
		}
		if a.Seed != nil && b.Seed != nil && *a.Seed != *b.Seed {
			return *a.Seed < *b.Seed
		}
		if a.Seed != nil && b.Seed == nil {
			return true
		}
		if a.Seed == nil && b.Seed != nil {
			return false
		}
		return a.ParticipantID < b.ParticipantID
	})

	for i, s := range table {
		s.Position = i + 1
	}
	return table, nil
}
