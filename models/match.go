package models

import "time"

// MatchStatus mirrors the ENUM persisted in the matches table.
type MatchStatus string

const (
	MatchStatusScheduled           MatchStatus = "scheduled"
	MatchStatusPendingConfirmation MatchStatus = "pending_confirmation"
	MatchStatusDisputed            MatchStatus = "disputed"
	MatchStatusCompleted           MatchStatus = "completed"
	MatchStatusCancelled           MatchStatus = "cancelled"
	MatchStatusExpired             MatchStatus = "expired"
)

func (s MatchStatus) IsTerminal() bool {
	return s == MatchStatusCompleted || s == MatchStatusCancelled || s == MatchStatusExpired
}

type MatchType string

const (
	MatchTypeRegular      MatchType = "regular"
	MatchTypeQuarterFinal MatchType = "quarter_final"
	MatchTypeSemiFinal    MatchType = "semi_final"
	MatchTypeFinal        MatchType = "final"
	MatchTypeThirdPlace   MatchType = "third_place"
	MatchTypeBye          MatchType = "bye"
	MatchTypeGroup        MatchType = "group"
)

// Next-match slot wire values.
const (
	SlotPlayer1 = "player1"
	SlotPlayer2 = "player2"
)

// Forfeit kinds recorded on completed matches that were not played out.
const (
	ForfeitWalkover      = "walkover"
	ForfeitDoubleForfeit = "double_forfeit"
)

// Match is the single unit of competition between two participants.
// Player1ID/Player2ID reference participant rows and stay nil for bracket
// slots that have not been filled yet.
type Match struct {
	ID              int       `json:"id" db:"id"`
	TournamentID    int       `json:"tournament_id" db:"tournament_id"`
	StageID         *int      `json:"stage_id,omitempty" db:"stage_id"`
	RoundNumber     int       `json:"round_number" db:"round_number"`
	RoundName       string    `json:"round_name" db:"round_name"`
	MatchType       MatchType `json:"match_type" db:"match_type"`
	BracketPosition int       `json:"bracket_position" db:"bracket_position"`
	GroupNumber     *int      `json:"group_number,omitempty" db:"group_number"`

	Player1ID *int `json:"player1_id,omitempty" db:"player1_id"`
	Player2ID *int `json:"player2_id,omitempty" db:"player2_id"`

	Player1Score *int `json:"player1_score,omitempty" db:"player1_score"`
	Player2Score *int `json:"player2_score,omitempty" db:"player2_score"`
	WinnerID     *int `json:"winner_id,omitempty" db:"winner_id"`
	LoserID      *int `json:"loser_id,omitempty" db:"loser_id"`

	Status MatchStatus `json:"status" db:"status"`

	SubmittedBy *int       `json:"submitted_by,omitempty" db:"submitted_by"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty" db:"submitted_at"`
	ConfirmedBy *int       `json:"confirmed_by,omitempty" db:"confirmed_by"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty" db:"confirmed_at"`

	DisputedBy    *int       `json:"disputed_by,omitempty" db:"disputed_by"`
	DisputedAt    *time.Time `json:"disputed_at,omitempty" db:"disputed_at"`
	DisputeReason *string    `json:"dispute_reason,omitempty" db:"dispute_reason"`
	// Counter-scores claimed by the disputer. Informational only.
	ClaimedPlayer1Score *int `json:"claimed_player1_score,omitempty" db:"claimed_player1_score"`
	ClaimedPlayer2Score *int `json:"claimed_player2_score,omitempty" db:"claimed_player2_score"`

	ResolvedBy      *int       `json:"resolved_by,omitempty" db:"resolved_by"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty" db:"resolved_at"`
	ResolutionNotes *string    `json:"resolution_notes,omitempty" db:"resolution_notes"`

	NoShowReportedBy *int    `json:"no_show_reported_by,omitempty" db:"no_show_reported_by"`
	ForfeitType      *string `json:"forfeit_type,omitempty" db:"forfeit_type"`

	ScheduledPlayDate      *time.Time `json:"scheduled_play_date,omitempty" db:"scheduled_play_date"`
	DeadlineAt             *time.Time `json:"deadline_at,omitempty" db:"deadline_at"`
	ConfirmationDeadlineAt *time.Time `json:"confirmation_deadline_at,omitempty" db:"confirmation_deadline_at"`
	PlayedAt               *time.Time `json:"played_at,omitempty" db:"played_at"`

	NextMatchID   *int    `json:"next_match_id,omitempty" db:"next_match_id"`
	NextMatchSlot *string `json:"next_match_slot,omitempty" db:"next_match_slot"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// HasParticipant reports whether the given participant plays in this match.
func (m *Match) HasParticipant(participantID int) bool {
	return (m.Player1ID != nil && *m.Player1ID == participantID) ||
		(m.Player2ID != nil && *m.Player2ID == participantID)
}

// Opponent returns the other participant of the match, or nil for byes.
func (m *Match) Opponent(participantID int) *int {
	if m.Player1ID != nil && *m.Player1ID == participantID {
		return m.Player2ID
	}
	if m.Player2ID != nil && *m.Player2ID == participantID {
		return m.Player1ID
	}
	return nil
}
