package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cuearena/tournament-engine/models"
	"github.com/lib/pq"
)

var (
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrParticipantConflict  = errors.New("participant conflict: player already registered for this tournament")
	ErrParticipantSeedTaken = errors.New("participant seed already taken for this tournament")
)

const participantColumns = `
	id, tournament_id, player_id, seed, status, current_stage, final_position,
	matches_played, matches_won, matches_lost, frames_won, frames_lost, points,
	payment_status, created_at`

type ParticipantRepository interface {
	Create(ctx context.Context, exec SQLExecutor, p *models.Participant) error
	FindByID(ctx context.Context, exec SQLExecutor, id int) (*models.Participant, error)
	FindByPlayerAndTournament(ctx context.Context, exec SQLExecutor, playerID, tournamentID int) (*models.Participant, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, statusFilter *models.ParticipantStatus) ([]*models.Participant, error)
	CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.ParticipantStatus) error
	UpdateSeed(ctx context.Context, exec SQLExecutor, id int, seed int) error
	UpdatePaymentStatus(ctx context.Context, exec SQLExecutor, id int, status models.PaymentStatus) error
	// ApplyMatchOutcome adds one finished match to the participant's running
	// counters. Points track frames won.
	ApplyMatchOutcome(ctx context.Context, exec SQLExecutor, id int, framesWon, framesLost int, won bool) error
	SetFinalPosition(ctx context.Context, exec SQLExecutor, id int, position int) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresParticipantRepository struct {
	db *sql.DB
}

func NewPostgresParticipantRepository(db *sql.DB) ParticipantRepository {
	return &postgresParticipantRepository{db: db}
}

func (r *postgresParticipantRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Participant) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO participants (tournament_id, player_id, seed, status, payment_status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		p.TournamentID, p.PlayerID, p.Seed, p.Status, p.PaymentStatus,
	).Scan(&p.ID, &p.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "participants_tournament_id_player_id_key":
				return ErrParticipantConflict
			case "participants_tournament_id_seed_key":
				return ErrParticipantSeedTaken
			}
			return ErrParticipantConflict
		}
		return fmt.Errorf("failed to create participant: %w", err)
	}
	return nil
}

func (r *postgresParticipantRepository) FindByID(ctx context.Context, exec SQLExecutor, id int) (*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`
	return r.scanOne(ctx, exec, query, id)
}

func (r *postgresParticipantRepository) FindByPlayerAndTournament(ctx context.Context, exec SQLExecutor, playerID, tournamentID int) (*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE player_id = $1 AND tournament_id = $2`
	if exec == nil {
		exec = r.db
	}
	p := &models.Participant{}
	err := r.scanRow(exec.QueryRowContext(ctx, query, playerID, tournamentID), p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to scan participant for player %d in tournament %d: %w", playerID, tournamentID, err)
	}
	return p, nil
}

func (r *postgresParticipantRepository) scanOne(ctx context.Context, exec SQLExecutor, query string, id int) (*models.Participant, error) {
	if exec == nil {
		exec = r.db
	}
	p := &models.Participant{}
	err := r.scanRow(exec.QueryRowContext(ctx, query, id), p)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("failed to scan participant %d: %w", id, err)
	}
	return p, nil
}

func (r *postgresParticipantRepository) scanRow(row *sql.Row, p *models.Participant) error {
	return row.Scan(
		&p.ID, &p.TournamentID, &p.PlayerID, &p.Seed, &p.Status, &p.CurrentStage, &p.FinalPosition,
		&p.MatchesPlayed, &p.MatchesWon, &p.MatchesLost, &p.FramesWon, &p.FramesLost, &p.Points,
		&p.PaymentStatus, &p.CreatedAt,
	)
}

func (r *postgresParticipantRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int, statusFilter *models.ParticipantStatus) ([]*models.Participant, error) {
	if exec == nil {
		exec = r.db
	}
	query := `SELECT ` + participantColumns + ` FROM participants WHERE tournament_id = $1`
	args := []interface{}{tournamentID}
	if statusFilter != nil {
		query += ` AND status = $2`
		args = append(args, *statusFilter)
	}
	query += ` ORDER BY seed ASC NULLS LAST, id ASC`

	rows, err := exec.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query participants for tournament %d: %w", tournamentID, err)
	}
	defer rows.Close()

	participants := make([]*models.Participant, 0)
	for rows.Next() {
		p := &models.Participant{}
		if scanErr := rows.Scan(
			&p.ID, &p.TournamentID, &p.PlayerID, &p.Seed, &p.Status, &p.CurrentStage, &p.FinalPosition,
			&p.MatchesPlayed, &p.MatchesWon, &p.MatchesLost, &p.FramesWon, &p.FramesLost, &p.Points,
			&p.PaymentStatus, &p.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan participant row: %w", scanErr)
		}
		participants = append(participants, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during participant rows iteration: %w", err)
	}
	return participants, nil
}

func (r *postgresParticipantRepository) CountByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) (int, error) {
	if exec == nil {
		exec = r.db
	}
	var count int
	err := exec.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM participants WHERE tournament_id = $1`, tournamentID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count participants for tournament %d: %w", tournamentID, err)
	}
	return count, nil
}

func (r *postgresParticipantRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.ParticipantStatus) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `UPDATE participants SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status for participant %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) UpdateSeed(ctx context.Context, exec SQLExecutor, id int, seed int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `UPDATE participants SET seed = $1 WHERE id = $2`, seed, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrParticipantSeedTaken
		}
		return fmt.Errorf("failed to update seed for participant %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) UpdatePaymentStatus(ctx context.Context, exec SQLExecutor, id int, status models.PaymentStatus) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `UPDATE participants SET payment_status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update payment status for participant %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) ApplyMatchOutcome(ctx context.Context, exec SQLExecutor, id int, framesWon, framesLost int, won bool) error {
	if exec == nil {
		exec = r.db
	}
	wonDelta, lostDelta := 0, 1
	if won {
		wonDelta, lostDelta = 1, 0
	}
	query := `
		UPDATE participants
		SET matches_played = matches_played + 1,
		    matches_won    = matches_won + $1,
		    matches_lost   = matches_lost + $2,
		    frames_won     = frames_won + $3,
		    frames_lost    = frames_lost + $4,
		    points         = points + $3
		WHERE id = $5`
	result, err := exec.ExecContext(ctx, query, wonDelta, lostDelta, framesWon, framesLost, id)
	if err != nil {
		return fmt.Errorf("failed to apply match outcome to participant %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) SetFinalPosition(ctx context.Context, exec SQLExecutor, id int, position int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `UPDATE participants SET final_position = $1 WHERE id = $2`, position, id)
	if err != nil {
		return fmt.Errorf("failed to set final position for participant %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}

func (r *postgresParticipantRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `DELETE FROM participants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete participant %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrParticipantNotFound)
}
