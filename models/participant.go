package models

import "time"

type ParticipantStatus string

const (
	ParticipantStatusRegistered   ParticipantStatus = "registered"
	ParticipantStatusActive       ParticipantStatus = "active"
	ParticipantStatusEliminated   ParticipantStatus = "eliminated"
	ParticipantStatusDisqualified ParticipantStatus = "disqualified"
	ParticipantStatusWinner       ParticipantStatus = "winner"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusWaived  PaymentStatus = "waived"
)

// Participant is one player's registration in one tournament. Exactly one row
// exists per (tournament, player) pair; the running counters are mutated by
// every completed match the participant plays and frozen once the tournament
// completes.
type Participant struct {
	ID           int               `json:"id" db:"id"`
	TournamentID int               `json:"tournament_id" db:"tournament_id"`
	PlayerID     int               `json:"player_id" db:"player_id"`
	Seed         *int              `json:"seed,omitempty" db:"seed"`
	Status       ParticipantStatus `json:"status" db:"status"`
	CurrentStage *string           `json:"current_stage,omitempty" db:"current_stage"`

	FinalPosition *int `json:"final_position,omitempty" db:"final_position"`

	MatchesPlayed int `json:"matches_played" db:"matches_played"`
	MatchesWon    int `json:"matches_won" db:"matches_won"`
	MatchesLost   int `json:"matches_lost" db:"matches_lost"`
	FramesWon     int `json:"frames_won" db:"frames_won"`
	FramesLost    int `json:"frames_lost" db:"frames_lost"`
	// Points equals accumulated frames won; used for group standings.
	Points int `json:"points" db:"points"`

	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`

	Player *User `json:"player,omitempty" db:"-"`
}
