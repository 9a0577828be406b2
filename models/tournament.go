package models

import "time"

// TournamentStatus mirrors the ENUM persisted in the tournaments table.
type TournamentStatus string

const (
	TournamentStatusPendingReview TournamentStatus = "pending_review"
	TournamentStatusDraft         TournamentStatus = "draft"
	TournamentStatusRejected      TournamentStatus = "rejected"
	TournamentStatusRegistration  TournamentStatus = "registration"
	TournamentStatusActive        TournamentStatus = "active"
	TournamentStatusCompleted     TournamentStatus = "completed"
	TournamentStatusCancelled     TournamentStatus = "cancelled"
)

// IsTerminal reports whether no further lifecycle transition is legal.
func (s TournamentStatus) IsTerminal() bool {
	return s == TournamentStatusCompleted || s == TournamentStatusCancelled || s == TournamentStatusRejected
}

type TournamentType string

const (
	TournamentTypeRegular TournamentType = "regular"
	TournamentTypeSpecial TournamentType = "special"
)

type TournamentFormat string

const (
	FormatKnockout       TournamentFormat = "knockout"
	FormatGroupsKnockout TournamentFormat = "groups_knockout"
)

type Tournament struct {
	ID          int              `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	Description *string          `json:"description,omitempty" db:"description"`
	Region      string           `json:"region" db:"region"`
	OrganizerID int              `json:"organizer_id" db:"organizer_id"`
	Status      TournamentStatus `json:"status" db:"status"`
	Type        TournamentType   `json:"type" db:"type"`
	Format      TournamentFormat `json:"format" db:"format"`

	RaceTo       int `json:"race_to" db:"race_to"`
	FinalsRaceTo int `json:"finals_race_to" db:"finals_race_to"`

	// WinnersCount is the number of podium places awarded. A third-place
	// match is generated when it is 3 or more.
	WinnersCount int `json:"winners_count" db:"winners_count"`

	ConfirmationHours  int `json:"confirmation_hours" db:"confirmation_hours"`
	MatchDeadlineHours int `json:"match_deadline_hours" db:"match_deadline_hours"`

	AutoConfirmResults    bool `json:"auto_confirm_results" db:"auto_confirm_results"`
	DoubleForfeitOnExpiry bool `json:"double_forfeit_on_expiry" db:"double_forfeit_on_expiry"`

	MinPlayersForGroups int `json:"min_players_for_groups" db:"min_players_for_groups"`
	PlayersPerGroup     int `json:"players_per_group" db:"players_per_group"`
	AdvancePerGroup     int `json:"advance_per_group" db:"advance_per_group"`

	MaxParticipants   int `json:"max_participants" db:"max_participants"`
	ParticipantsCount int `json:"participants_count" db:"participants_count"`
	MatchesCount      int `json:"matches_count" db:"matches_count"`

	// EntryFee is in the smallest currency unit.
	EntryFee int64  `json:"entry_fee" db:"entry_fee"`
	Currency string `json:"currency" db:"currency"`

	StartDate time.Time `json:"start_date" db:"start_date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Participants []Participant `json:"participants,omitempty" db:"-"`
	Matches      []Match       `json:"matches,omitempty" db:"-"`
}

// RaceToFor returns the frames-to-win target for a given match type.
func (t *Tournament) RaceToFor(matchType MatchType) int {
	if matchType == MatchTypeFinal && t.FinalsRaceTo > 0 {
		return t.FinalsRaceTo
	}
	return t.RaceTo
}
