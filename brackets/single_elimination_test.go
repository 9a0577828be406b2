package brackets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuearena/tournament-engine/models"
)

func seededParticipants(n int) []*models.Participant {
	out := make([]*models.Participant, 0, n)
	for i := 1; i <= n; i++ {
		seed := i
		out = append(out, &models.Participant{ID: 100 + i, Seed: &seed})
	}
	return out
}

func planByUID(plan []*PlannedMatch) map[string]*PlannedMatch {
	m := make(map[string]*PlannedMatch, len(plan))
	for _, pm := range plan {
		m[pm.UID] = pm
	}
	return m
}

func TestSingleEliminationTwoPlayers(t *testing.T) {
	g := NewSingleEliminationGenerator()
	plan, err := g.Generate(context.Background(), GenerateParams{
		Tournament:   &models.Tournament{WinnersCount: 1},
		Participants: seededParticipants(2),
	})
	require.NoError(t, err)
	require.Len(t, plan, 1)

	final := plan[0]
	assert.Equal(t, models.MatchTypeFinal, final.MatchType)
	assert.Equal(t, "Final", final.RoundName)
	require.NotNil(t, final.Participant1ID)
	require.NotNil(t, final.Participant2ID)
	assert.Equal(t, 101, *final.Participant1ID)
	assert.Equal(t, 102, *final.Participant2ID)
}

func TestSingleEliminationOnePlayerRejected(t *testing.T) {
	g := NewSingleEliminationGenerator()
	_, err := g.Generate(context.Background(), GenerateParams{
		Tournament:   &models.Tournament{},
		Participants: seededParticipants(1),
	})
	require.Error(t, err)
}

func TestSingleEliminationThreePlayersByeToTopSeed(t *testing.T) {
	g := NewSingleEliminationGenerator()
	plan, err := g.Generate(context.Background(), GenerateParams{
		Tournament:   &models.Tournament{WinnersCount: 1},
		Participants: seededParticipants(3),
	})
	require.NoError(t, err)
	require.Len(t, plan, 3)

	byUID := planByUID(plan)

	bye := byUID["R1M1"]
	require.NotNil(t, bye)
	assert.True(t, bye.IsBye)
	assert.Equal(t, models.MatchTypeBye, bye.MatchType)
	require.NotNil(t, bye.ByeWinnerID)
	assert.Equal(t, 101, *bye.ByeWinnerID, "bye goes to seed 1")

	played := byUID["R1M2"]
	require.NotNil(t, played)
	assert.False(t, played.IsBye)
	require.NotNil(t, played.Participant1ID)
	require.NotNil(t, played.Participant2ID)
	assert.ElementsMatch(t, []int{102, 103}, []int{*played.Participant1ID, *played.Participant2ID})

	final := byUID["R2M1"]
	require.NotNil(t, final)
	assert.Equal(t, models.MatchTypeFinal, final.MatchType)
}

func TestSingleEliminationEightPlayers(t *testing.T) {
	g := NewSingleEliminationGenerator()
	plan, err := g.Generate(context.Background(), GenerateParams{
		Tournament:   &models.Tournament{WinnersCount: 3},
		Participants: seededParticipants(8),
	})
	require.NoError(t, err)
	// 4 quarter finals + 2 semi finals + final + third place
	require.Len(t, plan, 8)

	byUID := planByUID(plan)

	// Standard seeding: 1v8, 4v5, 2v7, 3v6.
	wantPairs := map[string][2]int{
		"R1M1": {101, 108},
		"R1M2": {104, 105},
		"R1M3": {102, 107},
		"R1M4": {103, 106},
	}
	for uid, want := range wantPairs {
		pm := byUID[uid]
		require.NotNil(t, pm, uid)
		assert.Equal(t, models.MatchTypeQuarterFinal, pm.MatchType, uid)
		require.NotNil(t, pm.Participant1ID)
		require.NotNil(t, pm.Participant2ID)
		assert.Equal(t, want[0], *pm.Participant1ID, uid)
		assert.Equal(t, want[1], *pm.Participant2ID, uid)
	}

	semi1 := byUID["R2M1"]
	require.NotNil(t, semi1)
	assert.Equal(t, models.MatchTypeSemiFinal, semi1.MatchType)
	require.NotNil(t, semi1.SourceMatch1UID)
	require.NotNil(t, semi1.SourceMatch2UID)
	assert.Equal(t, "R1M1", *semi1.SourceMatch1UID)
	assert.Equal(t, "R1M2", *semi1.SourceMatch2UID)

	final := byUID["R3M1"]
	require.NotNil(t, final)
	assert.Equal(t, models.MatchTypeFinal, final.MatchType)

	third := byUID["TP"]
	require.NotNil(t, third, "winners_count 3 adds a third place match")
	assert.Equal(t, models.MatchTypeThirdPlace, third.MatchType)
	require.NotNil(t, third.SourceMatch1UID)
	require.NotNil(t, third.SourceMatch2UID)
	assert.Equal(t, "R2M1", *third.SourceMatch1UID)
	assert.Equal(t, "R2M2", *third.SourceMatch2UID)
}

func TestSingleEliminationNoThirdPlaceForTwoWinners(t *testing.T) {
	g := NewSingleEliminationGenerator()
	plan, err := g.Generate(context.Background(), GenerateParams{
		Tournament:   &models.Tournament{WinnersCount: 2},
		Participants: seededParticipants(8),
	})
	require.NoError(t, err)
	require.Len(t, plan, 7)
	assert.Nil(t, planByUID(plan)["TP"])
}

func TestSingleEliminationTreeInvariant(t *testing.T) {
	// Every non-final, non-third-place match must feed exactly one slot of a
	// later match, and every slot of every match must be fed exactly once.
	g := NewSingleEliminationGenerator()
	for _, n := range []int{2, 3, 5, 8, 13, 16} {
		plan, err := g.Generate(context.Background(), GenerateParams{
			Tournament:   &models.Tournament{WinnersCount: 1},
			Participants: seededParticipants(n),
		})
		require.NoError(t, err, "n=%d", n)

		fed := make(map[string]int)
		for _, pm := range plan {
			slots := 0
			if pm.Participant1ID != nil || pm.SourceMatch1UID != nil {
				slots++
			}
			if pm.SourceMatch1UID != nil {
				fed[*pm.SourceMatch1UID]++
			}
			if pm.IsBye {
				require.Equal(t, 1, slots, "n=%d %s: bye has one filled slot", n, pm.UID)
				continue
			}
			if pm.Participant2ID != nil || pm.SourceMatch2UID != nil {
				slots++
			}
			if pm.SourceMatch2UID != nil {
				fed[*pm.SourceMatch2UID]++
			}
			require.Equal(t, 2, slots, "n=%d %s: both slots sourced", n, pm.UID)
		}

		finalRound := plan[len(plan)-1].Round
		for _, pm := range plan {
			if pm.MatchType == models.MatchTypeFinal {
				assert.Equal(t, finalRound, pm.Round, "n=%d", n)
				continue
			}
			assert.Equal(t, 1, fed[pm.UID], "n=%d %s feeds exactly one slot", n, pm.UID)
		}
	}
}

func TestSeedingOrderPairsSumToSizePlusOne(t *testing.T) {
	for _, size := range []int{2, 4, 8, 16, 32} {
		order := seedingOrder(size)
		require.Len(t, order, size)
		for i := 0; i < size; i += 2 {
			assert.Equal(t, size+1, order[i]+order[i+1], "size=%d pair %d", size, i/2)
		}
		assert.Equal(t, 1, order[0])
	}
}
