package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cuearena/tournament-engine/models"
)

type HistoryRepository interface {
	InsertMatchHistory(ctx context.Context, exec SQLExecutor, h *models.PlayerMatchHistory) error
	InsertRatingHistory(ctx context.Context, exec SQLExecutor, h *models.PlayerRatingHistory) error
	ListMatchHistoryByPlayer(ctx context.Context, playerID int, limit, offset int) ([]*models.PlayerMatchHistory, error)
}

type postgresHistoryRepository struct {
	db *sql.DB
}

func NewPostgresHistoryRepository(db *sql.DB) HistoryRepository {
	return &postgresHistoryRepository{db: db}
}

func (r *postgresHistoryRepository) InsertMatchHistory(ctx context.Context, exec SQLExecutor, h *models.PlayerMatchHistory) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO player_match_history
			(player_id, opponent_id, tournament_id, match_id, frames_won, frames_lost, won, rating_before, rating_after, played_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`

	err := exec.QueryRowContext(ctx, query,
		h.PlayerID, h.OpponentID, h.TournamentID, h.MatchID,
		h.FramesWon, h.FramesLost, h.Won, h.RatingBefore, h.RatingAfter, h.PlayedAt,
	).Scan(&h.ID)
	if err != nil {
		return fmt.Errorf("failed to insert match history for player %d: %w", h.PlayerID, err)
	}
	return nil
}

func (r *postgresHistoryRepository) InsertRatingHistory(ctx context.Context, exec SQLExecutor, h *models.PlayerRatingHistory) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO player_rating_history
			(player_id, match_id, rating_before, rating_after, delta)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		h.PlayerID, h.MatchID, h.RatingBefore, h.RatingAfter, h.Delta,
	).Scan(&h.ID, &h.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert rating history for player %d: %w", h.PlayerID, err)
	}
	return nil
}

func (r *postgresHistoryRepository) ListMatchHistoryByPlayer(ctx context.Context, playerID int, limit, offset int) ([]*models.PlayerMatchHistory, error) {
	query := `
		SELECT id, player_id, opponent_id, tournament_id, match_id, frames_won, frames_lost, won, rating_before, rating_after, played_at
		FROM player_match_history
		WHERE player_id = $1
		ORDER BY played_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.QueryContext(ctx, query, playerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query match history for player %d: %w", playerID, err)
	}
	defer rows.Close()

	history := make([]*models.PlayerMatchHistory, 0)
	for rows.Next() {
		h := &models.PlayerMatchHistory{}
		if scanErr := rows.Scan(
			&h.ID, &h.PlayerID, &h.OpponentID, &h.TournamentID, &h.MatchID,
			&h.FramesWon, &h.FramesLost, &h.Won, &h.RatingBefore, &h.RatingAfter, &h.PlayedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match history row: %w", scanErr)
		}
		history = append(history, h)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match history rows iteration: %w", err)
	}
	return history, nil
}
