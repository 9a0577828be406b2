package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cuearena/tournament-engine/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchParticipantInvalid = errors.New("match participant conflict or invalid")
)

const matchColumns = `
	id, tournament_id, stage_id, round_number, round_name, match_type, bracket_position, group_number,
	player1_id, player2_id, player1_score, player2_score, winner_id, loser_id, status,
	submitted_by, submitted_at, confirmed_by, confirmed_at,
	disputed_by, disputed_at, dispute_reason, claimed_player1_score, claimed_player2_score,
	resolved_by, resolved_at, resolution_notes,
	no_show_reported_by, forfeit_type,
	scheduled_play_date, deadline_at, confirmation_deadline_at, played_at,
	next_match_id, next_match_slot, created_at`

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, m *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	// GetByIDForUpdate locks the match row; exec must be a *sql.Tx.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	// Update persists every mutable field of the match.
	Update(ctx context.Context, exec SQLExecutor, m *models.Match) error
	SetPlayerSlot(ctx context.Context, exec SQLExecutor, id int, slot string, participantID int) error
	UpdateNextMatchLink(ctx context.Context, exec SQLExecutor, id int, nextMatchID *int, slot *string) error
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, statusFilter *models.MatchStatus) ([]*models.Match, error)
	ListGroupMatches(ctx context.Context, exec SQLExecutor, tournamentID, groupNumber int) ([]*models.Match, error)
	// ListOverdueIDs returns ids of matches in the given status whose
	// deadline column is in the past. deadlineColumn is either
	// "deadline_at" or "confirmation_deadline_at".
	ListOverdueIDs(ctx context.Context, status models.MatchStatus, deadlineColumn string, now time.Time) ([]int, error)
	GetByType(ctx context.Context, exec SQLExecutor, tournamentID int, matchType models.MatchType) (*models.Match, error)
	CountUnfinished(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO matches
			(tournament_id, stage_id, round_number, round_name, match_type, bracket_position, group_number,
			 player1_id, player2_id, player1_score, player2_score, winner_id, loser_id, status,
			 scheduled_play_date, deadline_at, next_match_id, next_match_slot, played_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		m.TournamentID, m.StageID, m.RoundNumber, m.RoundName, m.MatchType, m.BracketPosition, m.GroupNumber,
		m.Player1ID, m.Player2ID, m.Player1Score, m.Player2Score, m.WinnerID, m.LoserID, m.Status,
		m.ScheduledPlayDate, m.DeadlineAt, m.NextMatchID, m.NextMatchSlot, m.PlayedAt,
	).Scan(&m.ID, &m.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrMatchParticipantInvalid
		}
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	return r.scanOne(ctx, exec, `SELECT `+matchColumns+` FROM matches WHERE id = $1`, id)
}

func (r *postgresMatchRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	return r.scanOne(ctx, exec, `SELECT `+matchColumns+` FROM matches WHERE id = $1 FOR UPDATE`, id)
}

func (r *postgresMatchRepository) scanOne(ctx context.Context, exec SQLExecutor, query string, id int) (*models.Match, error) {
	if exec == nil {
		exec = r.db
	}
	m := &models.Match{}
	err := scanMatch(exec.QueryRowContext(ctx, query, id), m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match %d: %w", id, err)
	}
	return m, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMatch(row rowScanner, m *models.Match) error {
	return row.Scan(
		&m.ID, &m.TournamentID, &m.StageID, &m.RoundNumber, &m.RoundName, &m.MatchType, &m.BracketPosition, &m.GroupNumber,
		&m.Player1ID, &m.Player2ID, &m.Player1Score, &m.Player2Score, &m.WinnerID, &m.LoserID, &m.Status,
		&m.SubmittedBy, &m.SubmittedAt, &m.ConfirmedBy, &m.ConfirmedAt,
		&m.DisputedBy, &m.DisputedAt, &m.DisputeReason, &m.ClaimedPlayer1Score, &m.ClaimedPlayer2Score,
		&m.ResolvedBy, &m.ResolvedAt, &m.ResolutionNotes,
		&m.NoShowReportedBy, &m.ForfeitType,
		&m.ScheduledPlayDate, &m.DeadlineAt, &m.ConfirmationDeadlineAt, &m.PlayedAt,
		&m.NextMatchID, &m.NextMatchSlot, &m.CreatedAt,
	)
}

func (r *postgresMatchRepository) Update(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		UPDATE matches SET
			player1_id = $1, player2_id = $2, player1_score = $3, player2_score = $4,
			winner_id = $5, loser_id = $6, status = $7,
			submitted_by = $8, submitted_at = $9, confirmed_by = $10, confirmed_at = $11,
			disputed_by = $12, disputed_at = $13, dispute_reason = $14,
			claimed_player1_score = $15, claimed_player2_score = $16,
			resolved_by = $17, resolved_at = $18, resolution_notes = $19,
			no_show_reported_by = $20, forfeit_type = $21,
			scheduled_play_date = $22, deadline_at = $23, confirmation_deadline_at = $24, played_at = $25
		WHERE id = $26`

	result, err := exec.ExecContext(ctx, query,
		m.Player1ID, m.Player2ID, m.Player1Score, m.Player2Score,
		m.WinnerID, m.LoserID, m.Status,
		m.SubmittedBy, m.SubmittedAt, m.ConfirmedBy, m.ConfirmedAt,
		m.DisputedBy, m.DisputedAt, m.DisputeReason,
		m.ClaimedPlayer1Score, m.ClaimedPlayer2Score,
		m.ResolvedBy, m.ResolvedAt, m.ResolutionNotes,
		m.NoShowReportedBy, m.ForfeitType,
		m.ScheduledPlayDate, m.DeadlineAt, m.ConfirmationDeadlineAt, m.PlayedAt,
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update match %d: %w", m.ID, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) SetPlayerSlot(ctx context.Context, exec SQLExecutor, id int, slot string, participantID int) error {
	if exec == nil {
		exec = r.db
	}
	column := "player1_id"
	if slot == models.SlotPlayer2 {
		column = "player2_id"
	}
	query := fmt.Sprintf(`UPDATE matches SET %s = $1 WHERE id = $2`, column)
	result, err := exec.ExecContext(ctx, query, participantID, id)
	if err != nil {
		return fmt.Errorf("failed to set %s on match %d: %w", column, id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateNextMatchLink(ctx context.Context, exec SQLExecutor, id int, nextMatchID *int, slot *string) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx,
		`UPDATE matches SET next_match_id = $1, next_match_slot = $2 WHERE id = $3`,
		nextMatchID, slot, id)
	if err != nil {
		return fmt.Errorf("failed to link match %d to next match: %w", id, err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, statusFilter *models.MatchStatus) ([]*models.Match, error) {
	if exec == nil {
		exec = r.db
	}
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1`
	args := []interface{}{tournamentID}
	if statusFilter != nil {
		query += ` AND status = $2`
		args = append(args, *statusFilter)
	}
	query += ` ORDER BY round_number ASC, bracket_position ASC, id ASC`
	return r.list(ctx, exec, query, args...)
}

func (r *postgresMatchRepository) ListGroupMatches(ctx context.Context, exec SQLExecutor, tournamentID, groupNumber int) ([]*models.Match, error) {
	if exec == nil {
		exec = r.db
	}
	query := `SELECT ` + matchColumns + ` FROM matches
		WHERE tournament_id = $1 AND match_type = $2 AND group_number = $3
		ORDER BY round_number ASC, id ASC`
	return r.list(ctx, exec, query, tournamentID, models.MatchTypeGroup, groupNumber)
}

func (r *postgresMatchRepository) list(ctx context.Context, exec SQLExecutor, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		m := &models.Match{}
		if scanErr := scanMatch(rows, m); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

func (r *postgresMatchRepository) ListOverdueIDs(ctx context.Context, status models.MatchStatus, deadlineColumn string, now time.Time) ([]int, error) {
	if deadlineColumn != "deadline_at" && deadlineColumn != "confirmation_deadline_at" {
		return nil, fmt.Errorf("unsupported deadline column %q", deadlineColumn)
	}
	query := fmt.Sprintf(
		`SELECT id FROM matches WHERE status = $1 AND %s IS NOT NULL AND %s < $2 ORDER BY id ASC`,
		deadlineColumn, deadlineColumn)

	rows, err := r.db.QueryContext(ctx, query, status, now)
	if err != nil {
		return nil, fmt.Errorf("failed to query overdue matches: %w", err)
	}
	defer rows.Close()

	ids := make([]int, 0)
	for rows.Next() {
		var id int
		if scanErr := rows.Scan(&id); scanErr != nil {
			return nil, fmt.Errorf("failed to scan overdue match id: %w", scanErr)
		}
		ids = append(ids, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during overdue match rows iteration: %w", err)
	}
	return ids, nil
}

func (r *postgresMatchRepository) GetByType(ctx context.Context, exec SQLExecutor, tournamentID int, matchType models.MatchType) (*models.Match, error) {
	if exec == nil {
		exec = r.db
	}
	query := `SELECT ` + matchColumns + ` FROM matches WHERE tournament_id = $1 AND match_type = $2`
	m := &models.Match{}
	err := scanMatch(exec.QueryRowContext(ctx, query, tournamentID, matchType), m)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan %s match for tournament %d: %w", matchType, tournamentID, err)
	}
	return m, nil
}

func (r *postgresMatchRepository) CountUnfinished(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	if exec == nil {
		exec = r.db
	}
	var count int
	err := exec.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM matches WHERE tournament_id = $1 AND status NOT IN ($2, $3)`,
		tournamentID, models.MatchStatusCompleted, models.MatchStatusCancelled,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unfinished matches for tournament %d: %w", tournamentID, err)
	}
	return count, nil
}
