package services

import (
	"context"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/cuearena/tournament-engine/models"
)

// Actions checked through the authorization gate.
const (
	ActionManageTournament = "tournament:manage"
	ActionReviewTournament = "tournament:review"
	ActionResolveDispute   = "match:resolve_dispute"
	ActionAwardWalkover    = "match:award_walkover"
	ActionSupportPayout    = "payout:support_confirm"
	ActionApprovePayout    = "payout:admin_approve"
	ActionRejectPayout     = "payout:reject"
)

// Resource identifies the object an action targets. OwnerID is the organizer
// for tournament-scoped resources.
type Resource struct {
	Type    string
	ID      int
	OwnerID int
}

// AuthorizationGate answers role and ownership checks. A negative answer is
// surfaced to callers as ErrUnauthorized.
type AuthorizationGate interface {
	CanPerform(ctx context.Context, actor *models.User, action string, resource Resource) bool
}

type roleGate struct{}

// NewRoleGate returns the default gate: admins may do anything, support may
// review and resolve, organizers may manage what they own.
func NewRoleGate() AuthorizationGate {
	return roleGate{}
}

func (roleGate) CanPerform(_ context.Context, actor *models.User, action string, resource Resource) bool {
	if actor == nil {
		return false
	}
	if actor.Role == models.RoleAdmin {
		return true
	}
	switch action {
	case ActionReviewTournament, ActionSupportPayout:
		return actor.Role == models.RoleSupport
	case ActionRejectPayout:
		return actor.Role == models.RoleSupport
	case ActionResolveDispute:
		return actor.Role == models.RoleSupport || actor.ID == resource.OwnerID
	case ActionManageTournament, ActionAwardWalkover:
		return actor.ID == resource.OwnerID
	}
	return false
}

// RatingEngine computes per-match rating deltas for both players.
type RatingEngine interface {
	ComputeRatingDelta(ratingA, ratingB, scoreA, scoreB int) (deltaA, deltaB int)
}

type eloEngine struct {
	kFactor float64
}

func NewEloEngine() RatingEngine {
	return &eloEngine{kFactor: 32}
}

func (e *eloEngine) ComputeRatingDelta(ratingA, ratingB, scoreA, scoreB int) (int, int) {
	expectedA := 1.0 / (1.0 + math.Pow(10, float64(ratingB-ratingA)/400.0))
	actualA := 0.5
	if scoreA > scoreB {
		actualA = 1.0
	} else if scoreA < scoreB {
		actualA = 0.0
	}
	deltaA := int(math.Round(e.kFactor * (actualA - expectedA)))
	return deltaA, -deltaA
}

// TransferRequest is the provider-agnostic payload for an outbound payout.
type TransferRequest struct {
	Reference     string
	Amount        int64
	Currency      string
	Provider      string
	AccountName   string
	AccountNumber string
}

type TransferResult struct {
	TrackingID string
	Raw        string
}

// PaymentProvider initiates transfers to organizer accounts. Completion and
// failure arrive later through webhooks keyed by TransferRequest.Reference.
type PaymentProvider interface {
	InitiateTransfer(ctx context.Context, req TransferRequest) (*TransferResult, error)
}

// loggingPaymentProvider accepts every transfer and logs it. Stands in until a
// real provider integration is configured.
type loggingPaymentProvider struct {
	logger *slog.Logger
}

func NewLoggingPaymentProvider(logger *slog.Logger) PaymentProvider {
	return &loggingPaymentProvider{logger: logger}
}

func (p *loggingPaymentProvider) InitiateTransfer(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	p.logger.InfoContext(ctx, "transfer initiated",
		slog.String("reference", req.Reference),
		slog.Int64("amount", req.Amount),
		slog.String("currency", req.Currency),
		slog.String("provider", req.Provider))
	return &TransferResult{TrackingID: "TRF_" + uuid.NewString()}, nil
}

// Notifier delivers user-facing events. Fire and forget, callers never block
// on delivery.
type Notifier interface {
	Notify(ctx context.Context, userID int, event string, payload map[string]interface{})
}

type slogNotifier struct {
	logger *slog.Logger
}

func NewSlogNotifier(logger *slog.Logger) Notifier {
	return &slogNotifier{logger: logger}
}

func (n *slogNotifier) Notify(ctx context.Context, userID int, event string, payload map[string]interface{}) {
	n.logger.InfoContext(ctx, "notification",
		slog.Int("user_id", userID),
		slog.String("event", event),
		slog.Any("payload", payload))
}

// ActivityLog is a write-only audit sink.
type ActivityLog interface {
	Log(ctx context.Context, actorID int, action, entityType string, entityID int, description string)
}

type slogActivityLog struct {
	logger *slog.Logger
}

func NewSlogActivityLog(logger *slog.Logger) ActivityLog {
	return &slogActivityLog{logger: logger}
}

func (l *slogActivityLog) Log(ctx context.Context, actorID int, action, entityType string, entityID int, description string) {
	l.logger.InfoContext(ctx, "activity",
		slog.Int("actor_id", actorID),
		slog.String("action", action),
		slog.String("entity_type", entityType),
		slog.Int("entity_id", entityID),
		slog.String("description", description))
}
