package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cuearena/tournament-engine/models"
)

var ErrEvidenceNotFound = errors.New("match evidence not found")

type EvidenceRepository interface {
	Create(ctx context.Context, exec SQLExecutor, e *models.MatchEvidence) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.MatchEvidence, error)
	ListByMatch(ctx context.Context, matchID int) ([]*models.MatchEvidence, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
}

type postgresEvidenceRepository struct {
	db *sql.DB
}

func NewPostgresEvidenceRepository(db *sql.DB) EvidenceRepository {
	return &postgresEvidenceRepository{db: db}
}

func (r *postgresEvidenceRepository) Create(ctx context.Context, exec SQLExecutor, e *models.MatchEvidence) error {
	if exec == nil {
		exec = r.db
	}
	query := `
		INSERT INTO match_evidence (match_id, uploaded_by, file_key, content_type, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		e.MatchID, e.UploadedBy, e.FileKey, e.ContentType, e.Note,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create match evidence: %w", err)
	}
	return nil
}

func (r *postgresEvidenceRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.MatchEvidence, error) {
	if exec == nil {
		exec = r.db
	}
	query := `
		SELECT id, match_id, uploaded_by, file_key, content_type, note, created_at
		FROM match_evidence WHERE id = $1`

	e := &models.MatchEvidence{}
	err := exec.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.MatchID, &e.UploadedBy, &e.FileKey, &e.ContentType, &e.Note, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEvidenceNotFound
		}
		return nil, fmt.Errorf("failed to scan evidence %d: %w", id, err)
	}
	return e, nil
}

func (r *postgresEvidenceRepository) ListByMatch(ctx context.Context, matchID int) ([]*models.MatchEvidence, error) {
	query := `
		SELECT id, match_id, uploaded_by, file_key, content_type, note, created_at
		FROM match_evidence WHERE match_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to query evidence for match %d: %w", matchID, err)
	}
	defer rows.Close()

	items := make([]*models.MatchEvidence, 0)
	for rows.Next() {
		e := &models.MatchEvidence{}
		if scanErr := rows.Scan(
			&e.ID, &e.MatchID, &e.UploadedBy, &e.FileKey, &e.ContentType, &e.Note, &e.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan evidence row: %w", scanErr)
		}
		items = append(items, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during evidence rows iteration: %w", err)
	}
	return items, nil
}

func (r *postgresEvidenceRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	if exec == nil {
		exec = r.db
	}
	result, err := exec.ExecContext(ctx, `DELETE FROM match_evidence WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete evidence %d: %w", id, err)
	}
	return checkAffectedRows(result, ErrEvidenceNotFound)
}
