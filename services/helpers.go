package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cuearena/tournament-engine/models"
)

// withTx runs fn inside a transaction, rolling back on error or panic.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

var tournamentTransitions = map[models.TournamentStatus][]models.TournamentStatus{
	models.TournamentStatusPendingReview: {models.TournamentStatusDraft, models.TournamentStatusRejected, models.TournamentStatusCancelled},
	models.TournamentStatusDraft:         {models.TournamentStatusRegistration, models.TournamentStatusCancelled},
	models.TournamentStatusRegistration:  {models.TournamentStatusActive, models.TournamentStatusCancelled},
	models.TournamentStatusActive:        {models.TournamentStatusCompleted, models.TournamentStatusCancelled},
	models.TournamentStatusRejected:      {},
	models.TournamentStatusCompleted:     {},
	models.TournamentStatusCancelled:     {},
}

func canTransitionTournament(current, next models.TournamentStatus) bool {
	for _, allowed := range tournamentTransitions[current] {
		if next == allowed {
			return true
		}
	}
	return false
}

var payoutTransitions = map[models.PayoutStatus][]models.PayoutStatus{
	models.PayoutStatusPendingReview:    {models.PayoutStatusSupportConfirmed, models.PayoutStatusRejected},
	models.PayoutStatusSupportConfirmed: {models.PayoutStatusAdminApproved, models.PayoutStatusRejected},
	models.PayoutStatusAdminApproved:    {models.PayoutStatusProcessing, models.PayoutStatusRejected},
	models.PayoutStatusProcessing:       {models.PayoutStatusCompleted, models.PayoutStatusAdminApproved},
	// completed reverts to admin_approved only through a provider reversal
	models.PayoutStatusCompleted: {models.PayoutStatusAdminApproved},
	models.PayoutStatusRejected:  {},
}

func canTransitionPayout(current, next models.PayoutStatus) bool {
	for _, allowed := range payoutTransitions[current] {
		if next == allowed {
			return true
		}
	}
	return false
}

func ptrInt(v int) *int { return &v }

func ptrString(v string) *string { return &v }

func ptrTime(v time.Time) *time.Time { return &v }

func nowUTC() time.Time {
	return time.Now().UTC()
}
