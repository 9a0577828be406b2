package models

import "time"

// PlayerMatchHistory is a write-once projection appended after every
// authoritative match completion. It preserves point-in-time rating context
// and is never recomputed.
type PlayerMatchHistory struct {
	ID           int       `json:"id" db:"id"`
	PlayerID     int       `json:"player_id" db:"player_id"`
	OpponentID   int       `json:"opponent_id" db:"opponent_id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	MatchID      int       `json:"match_id" db:"match_id"`
	FramesWon    int       `json:"frames_won" db:"frames_won"`
	FramesLost   int       `json:"frames_lost" db:"frames_lost"`
	Won          bool      `json:"won" db:"won"`
	RatingBefore int       `json:"rating_before" db:"rating_before"`
	RatingAfter  int       `json:"rating_after" db:"rating_after"`
	PlayedAt     time.Time `json:"played_at" db:"played_at"`
}

// PlayerRatingHistory is the audit trail of rating deltas.
type PlayerRatingHistory struct {
	ID           int       `json:"id" db:"id"`
	PlayerID     int       `json:"player_id" db:"player_id"`
	MatchID      int       `json:"match_id" db:"match_id"`
	RatingBefore int       `json:"rating_before" db:"rating_before"`
	RatingAfter  int       `json:"rating_after" db:"rating_after"`
	Delta        int       `json:"delta" db:"delta"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
