package handlers

import (
	"context"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/cuearena/tournament-engine/middleware"
	"github.com/cuearena/tournament-engine/models"
	"github.com/cuearena/tournament-engine/services"
)

type TournamentHandler struct {
	tournamentService  services.TournamentService
	bracketService     services.BracketService
	participantService services.ParticipantService
}

func NewTournamentHandler(ts services.TournamentService, bs services.BracketService, ps services.ParticipantService) *TournamentHandler {
	return &TournamentHandler{
		tournamentService:  ts,
		bracketService:     bs,
		participantService: ps,
	}
}

type createTournamentInput struct {
	Name                  string  `json:"name"`
	Description           *string `json:"description"`
	Region                string  `json:"region"`
	Type                  string  `json:"type"`
	Format                string  `json:"format"`
	RaceTo                int     `json:"race_to"`
	FinalsRaceTo          int     `json:"finals_race_to"`
	WinnersCount          int     `json:"winners_count"`
	ConfirmationHours     int     `json:"confirmation_hours"`
	MatchDeadlineHours    int     `json:"match_deadline_hours"`
	AutoConfirmResults    bool    `json:"auto_confirm_results"`
	DoubleForfeitOnExpiry bool    `json:"double_forfeit_on_expiry"`
	MinPlayersForGroups   int     `json:"min_players_for_groups"`
	PlayersPerGroup       int     `json:"players_per_group"`
	AdvancePerGroup       int     `json:"advance_per_group"`
	MaxParticipants       int     `json:"max_participants"`
	EntryFee              int64   `json:"entry_fee"`
	Currency              string  `json:"currency"`
	StartDate             string  `json:"start_date"`
}

// CreateHandler handles POST /tournaments.
func (h *TournamentHandler) CreateHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to create tournament")
		return
	}

	var input createTournamentInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	t := &models.Tournament{
		Name:                  input.Name,
		Description:           input.Description,
		Region:                input.Region,
		Type:                  models.TournamentType(input.Type),
		Format:                models.TournamentFormat(input.Format),
		RaceTo:                input.RaceTo,
		FinalsRaceTo:          input.FinalsRaceTo,
		WinnersCount:          input.WinnersCount,
		ConfirmationHours:     input.ConfirmationHours,
		MatchDeadlineHours:    input.MatchDeadlineHours,
		AutoConfirmResults:    input.AutoConfirmResults,
		DoubleForfeitOnExpiry: input.DoubleForfeitOnExpiry,
		MinPlayersForGroups:   input.MinPlayersForGroups,
		PlayersPerGroup:       input.PlayersPerGroup,
		AdvancePerGroup:       input.AdvancePerGroup,
		MaxParticipants:       input.MaxParticipants,
		EntryFee:              input.EntryFee,
		Currency:              input.Currency,
	}
	if input.StartDate != "" {
		startDate, parseErr := parseRFC3339(input.StartDate)
		if parseErr != nil {
			badRequestResponse(w, r, parseErr)
			return
		}
		t.StartDate = startDate
	}

	tournament, err := h.tournamentService.Create(r.Context(), currentUserID, t)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler handles GET /tournaments/{tournamentID}.
func (h *TournamentHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler handles GET /tournaments.
func (h *TournamentHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := parseLimitOffset(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var status *models.TournamentStatus
	if statusStr := r.URL.Query().Get("status"); statusStr != "" {
		s := models.TournamentStatus(statusStr)
		status = &s
	}

	tournaments, err := h.tournamentService.List(r.Context(), status, limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournaments": tournaments}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// BracketHandler handles GET /tournaments/{tournamentID}/bracket. Matches and
// participants are fetched concurrently.
func (h *TournamentHandler) BracketHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var (
		matches      []*models.Match
		participants []*models.Participant
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var gErr error
		matches, gErr = h.bracketService.ListBracket(ctx, id)
		return gErr
	})
	g.Go(func() error {
		var gErr error
		participants, gErr = h.participantService.ListByTournament(ctx, id)
		return gErr
	})
	if err := g.Wait(); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	payload := jsonResponse{
		"matches":      matches,
		"participants": participants,
	}
	if err := writeJSON(w, http.StatusOK, payload, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ApproveReviewHandler handles POST /tournaments/{tournamentID}/approve.
func (h *TournamentHandler) ApproveReviewHandler(w http.ResponseWriter, r *http.Request) {
	h.lifecycleTransition(w, r, h.tournamentService.ApproveReview)
}

// RejectReviewHandler handles POST /tournaments/{tournamentID}/reject.
func (h *TournamentHandler) RejectReviewHandler(w http.ResponseWriter, r *http.Request) {
	h.lifecycleTransition(w, r, h.tournamentService.RejectReview)
}

// OpenRegistrationHandler handles POST /tournaments/{tournamentID}/open-registration.
func (h *TournamentHandler) OpenRegistrationHandler(w http.ResponseWriter, r *http.Request) {
	h.lifecycleTransition(w, r, h.tournamentService.OpenRegistration)
}

// StartHandler handles POST /tournaments/{tournamentID}/start.
func (h *TournamentHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	h.lifecycleTransition(w, r, h.tournamentService.Start)
}

// CancelHandler handles POST /tournaments/{tournamentID}/cancel.
func (h *TournamentHandler) CancelHandler(w http.ResponseWriter, r *http.Request) {
	h.lifecycleTransition(w, r, h.tournamentService.Cancel)
}

// AdminCompleteHandler handles POST /tournaments/{tournamentID}/complete.
func (h *TournamentHandler) AdminCompleteHandler(w http.ResponseWriter, r *http.Request) {
	h.lifecycleTransition(w, r, h.tournamentService.AdminComplete)
}

func (h *TournamentHandler) lifecycleTransition(w http.ResponseWriter, r *http.Request, transition func(ctx context.Context, tournamentID, actorID int) error) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := transition(r.Context(), id, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	tournament, err := h.tournamentService.GetByID(r.Context(), id)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
