package brackets

import (
	"context"

	"github.com/cuearena/tournament-engine/models"
)

// PlannedMatch is one match of a generated bracket before persistence.
// UIDs link matches to their feeder matches so the plan can be stored in two
// passes: insert all rows first, then resolve Source*UID into next-match links.
type PlannedMatch struct {
	UID          string
	Round        int
	OrderInRound int
	RoundName    string
	MatchType    models.MatchType
	GroupNumber  *int

	Participant1ID *int
	Participant2ID *int

	// SourceMatch1UID / SourceMatch2UID name the matches whose winners fill
	// the corresponding slots. Nil when the slot is seeded directly.
	SourceMatch1UID *string
	SourceMatch2UID *string

	// IsBye marks a first-round match with a single seeded participant.
	// ByeWinnerID advances immediately without play.
	IsBye       bool
	ByeWinnerID *int
}

type GenerateParams struct {
	Tournament   *models.Tournament
	Participants []*models.Participant
}

type Generator interface {
	Generate(ctx context.Context, params GenerateParams) ([]*PlannedMatch, error)
	Name() string
}
