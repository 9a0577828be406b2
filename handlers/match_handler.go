package handlers

import (
	"net/http"

	"github.com/cuearena/tournament-engine/middleware"
	"github.com/cuearena/tournament-engine/services"
)

type MatchHandler struct {
	matchService services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: ms}
}

// GetByIDHandler handles GET /matches/{matchID}.
func (h *MatchHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.GetMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// PlayerHistoryHandler handles GET /players/{playerID}/matches.
func (h *MatchHandler) PlayerHistoryHandler(w http.ResponseWriter, r *http.Request) {
	playerID, err := getIDFromURL(r, "playerID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	limit, offset, err := parseLimitOffset(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	history, err := h.matchService.ListPlayerHistory(r.Context(), playerID, limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"history": history}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SubmitResultHandler handles POST /matches/{matchID}/result.
func (h *MatchHandler) SubmitResultHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		MyScore       int `json:"my_score"`
		OpponentScore int `json:"opponent_score"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.SubmitResult(r.Context(), matchID, currentUserID, input.MyScore, input.OpponentScore)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ConfirmResultHandler handles POST /matches/{matchID}/confirm.
func (h *MatchHandler) ConfirmResultHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.ConfirmResult(r.Context(), matchID, currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DisputeResultHandler handles POST /matches/{matchID}/dispute.
func (h *MatchHandler) DisputeResultHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Reason               string `json:"reason"`
		ClaimedMyScore       *int   `json:"claimed_my_score"`
		ClaimedOpponentScore *int   `json:"claimed_opponent_score"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.DisputeResult(r.Context(), matchID, currentUserID, input.Reason, input.ClaimedMyScore, input.ClaimedOpponentScore)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ReportNoShowHandler handles POST /matches/{matchID}/no-show.
func (h *MatchHandler) ReportNoShowHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Description string `json:"description"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.ReportNoShow(r.Context(), matchID, currentUserID, input.Description)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ResolveDisputeHandler handles POST /matches/{matchID}/resolve.
func (h *MatchHandler) ResolveDisputeHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Player1Score int    `json:"player1_score"`
		Player2Score int    `json:"player2_score"`
		Notes        string `json:"notes"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.ResolveDispute(r.Context(), matchID, currentUserID, input.Player1Score, input.Player2Score, input.Notes)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AwardWalkoverHandler handles POST /matches/{matchID}/walkover.
func (h *MatchHandler) AwardWalkoverHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		WinnerParticipantID int    `json:"winner_participant_id"`
		Reason              string `json:"reason"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	match, err := h.matchService.AwardWalkover(r.Context(), matchID, currentUserID, input.WinnerParticipantID, input.Reason)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"match": match}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
