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
	ErrTournamentNotFound     = errors.New("tournament not found")
	ErrTournamentNameConflict = errors.New("tournament name already exists")
)

const tournamentColumns = `
	id, name, description, region, organizer_id, status, type, format,
	race_to, finals_race_to, winners_count, confirmation_hours, match_deadline_hours,
	auto_confirm_results, double_forfeit_on_expiry,
	min_players_for_groups, players_per_group, advance_per_group,
	max_participants, participants_count, matches_count,
	entry_fee, currency, start_date, created_at`

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	// GetByIDForUpdate locks the tournament row for the lifetime of the
	// caller's transaction. exec must be a *sql.Tx.
	GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error
	UpdateCounts(ctx context.Context, exec SQLExecutor, id int, participants, matches int) error
	List(ctx context.Context, statusFilter *models.TournamentStatus, limit, offset int) ([]*models.Tournament, error)
}

type postgresTournamentRepository struct {
	db *sql.DB
}

func NewPostgresTournamentRepository(db *sql.DB) TournamentRepository {
	return &postgresTournamentRepository{db: db}
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO tournaments
			(name, description, region, organizer_id, status, type, format,
			 race_to, finals_race_to, winners_count, confirmation_hours, match_deadline_hours,
			 auto_confirm_results, double_forfeit_on_expiry,
			 min_players_for_groups, players_per_group, advance_per_group,
			 max_participants, entry_fee, currency, start_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		t.Name, t.Description, t.Region, t.OrganizerID, t.Status, t.Type, t.Format,
		t.RaceTo, t.FinalsRaceTo, t.WinnersCount, t.ConfirmationHours, t.MatchDeadlineHours,
		t.AutoConfirmResults, t.DoubleForfeitOnExpiry,
		t.MinPlayersForGroups, t.PlayersPerGroup, t.AdvancePerGroup,
		t.MaxParticipants, t.EntryFee, t.Currency, t.StartDate,
	).Scan(&t.ID, &t.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return ErrTournamentNameConflict
		}
		return fmt.Errorf("failed to create tournament: %w", err)
	}
	return nil
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1`
	return r.scanOne(ctx, exec, query, id)
}

func (r *postgresTournamentRepository) GetByIDForUpdate(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments WHERE id = $1 FOR UPDATE`
	return r.scanOne(ctx, exec, query, id)
}

func (r *postgresTournamentRepository) scanOne(ctx context.Context, exec SQLExecutor, query string, id int) (*models.Tournament, error) {
	if exec == nil {
		exec = r.db
	}
	t := &models.Tournament{}
	err := exec.QueryRowContext(ctx, query, id).Scan(
		&t.ID, &t.Name, &t.Description, &t.Region, &t.OrganizerID, &t.Status, &t.Type, &t.Format,
		&t.RaceTo, &t.FinalsRaceTo, &t.WinnersCount, &t.ConfirmationHours, &t.MatchDeadlineHours,
		&t.AutoConfirmResults, &t.DoubleForfeitOnExpiry,
		&t.MinPlayersForGroups, &t.PlayersPerGroup, &t.AdvancePerGroup,
		&t.MaxParticipants, &t.ParticipantsCount, &t.MatchesCount,
		&t.EntryFee, &t.Currency, &t.StartDate, &t.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTournamentNotFound
		}
		return nil, fmt.Errorf("failed to scan tournament %d: %w", id, err)
	}
	return t, nil
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `UPDATE tournaments SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) UpdateCounts(ctx context.Context, exec SQLExecutor, id int, participants, matches int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx,
		`UPDATE tournaments SET participants_count = $1, matches_count = $2 WHERE id = $3`,
		participants, matches, id)
	if err != nil {
		return fmt.Errorf("failed to update counts for tournament %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrTournamentNotFound)
}

func (r *postgresTournamentRepository) List(ctx context.Context, statusFilter *models.TournamentStatus, limit, offset int) ([]*models.Tournament, error) {
	query := `SELECT ` + tournamentColumns + ` FROM tournaments`
	args := []interface{}{}
	if statusFilter != nil {
		query += ` WHERE status = $1`
		args = append(args, *statusFilter)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT %d OFFSET %d`, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tournaments: %w", err)
	}
	defer rows.Close()

	tournaments := make([]*models.Tournament, 0)
	for rows.Next() {
		t := &models.Tournament{}
		if scanErr := rows.Scan(
			&t.ID, &t.Name, &t.Description, &t.Region, &t.OrganizerID, &t.Status, &t.Type, &t.Format,
			&t.RaceTo, &t.FinalsRaceTo, &t.WinnersCount, &t.ConfirmationHours, &t.MatchDeadlineHours,
			&t.AutoConfirmResults, &t.DoubleForfeitOnExpiry,
			&t.MinPlayersForGroups, &t.PlayersPerGroup, &t.AdvancePerGroup,
			&t.MaxParticipants, &t.ParticipantsCount, &t.MatchesCount,
			&t.EntryFee, &t.Currency, &t.StartDate, &t.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan tournament row: %w", scanErr)
		}
		tournaments = append(tournaments, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during tournament rows iteration: %w", err)
	}
	return tournaments, nil
}
