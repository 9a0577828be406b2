package handlers

import (
	"net/http"

	"github.com/cuearena/tournament-engine/middleware"
	"github.com/cuearena/tournament-engine/services"
)

type ParticipantHandler struct {
	participantService services.ParticipantService
}

func NewParticipantHandler(ps services.ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{participantService: ps}
}

// RegisterHandler handles POST /tournaments/{tournamentID}/participants.
func (h *ParticipantHandler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required to register")
		return
	}

	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participant, err := h.participantService.Register(r.Context(), tournamentID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"participant": participant}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// WithdrawHandler handles DELETE /tournaments/{tournamentID}/participants/me.
func (h *ParticipantHandler) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.participantService.Withdraw(r.Context(), tournamentID, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveHandler handles DELETE /tournaments/{tournamentID}/participants/{participantID}.
func (h *ParticipantHandler) RemoveHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	participantID, err := getIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.participantService.RemoveParticipant(r.Context(), tournamentID, participantID, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AssignSeedHandler handles PUT /tournaments/{tournamentID}/participants/{participantID}/seed.
func (h *ParticipantHandler) AssignSeedHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	participantID, err := getIDFromURL(r, "participantID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Seed int `json:"seed"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.participantService.AssignSeed(r.Context(), tournamentID, participantID, currentUserID, input.Seed); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListHandler handles GET /tournaments/{tournamentID}/participants.
func (h *ParticipantHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	tournamentID, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	participants, err := h.participantService.ListByTournament(r.Context(), tournamentID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"participants": participants}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
