package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/cuearena/tournament-engine/middleware"
	"github.com/cuearena/tournament-engine/models"
	"github.com/cuearena/tournament-engine/services"
)

type PayoutHandler struct {
	payoutService services.PayoutService
}

func NewPayoutHandler(ps services.PayoutService) *PayoutHandler {
	return &PayoutHandler{payoutService: ps}
}

// RequestHandler handles POST /payouts.
func (h *PayoutHandler) RequestHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input struct {
		MethodID int   `json:"method_id"`
		Amount   int64 `json:"amount"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	payout, err := h.payoutService.RequestPayout(r.Context(), currentUserID, input.MethodID, input.Amount)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"payout": payout}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetByIDHandler handles GET /payouts/{payoutID}.
func (h *PayoutHandler) GetByIDHandler(w http.ResponseWriter, r *http.Request) {
	payoutID, err := getIDFromURL(r, "payoutID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	payout, err := h.payoutService.GetByID(r.Context(), payoutID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"payout": payout}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMineHandler handles GET /payouts.
func (h *PayoutHandler) ListMineHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	limit, offset, err := parseLimitOffset(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	payouts, err := h.payoutService.ListByOrganizer(r.Context(), currentUserID, limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"payouts": payouts}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListByStatusHandler handles GET /admin/payouts?status=....
func (h *PayoutHandler) ListByStatusHandler(w http.ResponseWriter, r *http.Request) {
	statusStr := r.URL.Query().Get("status")
	if statusStr == "" {
		badRequestResponse(w, r, errors.New("status query parameter is required"))
		return
	}

	limit, offset, err := parseLimitOffset(r)
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	payouts, err := h.payoutService.ListByStatus(r.Context(), models.PayoutStatus(statusStr), limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"payouts": payouts}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// SupportConfirmHandler handles POST /payouts/{payoutID}/support-confirm.
func (h *PayoutHandler) SupportConfirmHandler(w http.ResponseWriter, r *http.Request) {
	h.reviewTransition(w, r, h.payoutService.SupportConfirm)
}

// AdminApproveHandler handles POST /payouts/{payoutID}/approve.
func (h *PayoutHandler) AdminApproveHandler(w http.ResponseWriter, r *http.Request) {
	h.reviewTransition(w, r, h.payoutService.AdminApprove)
}

// RejectHandler handles POST /payouts/{payoutID}/reject.
func (h *PayoutHandler) RejectHandler(w http.ResponseWriter, r *http.Request) {
	h.reviewTransition(w, r, h.payoutService.Reject)
}

// RetryHandler handles POST /payouts/{payoutID}/retry. Re-attempts the
// provider transfer for an admin_approved payout.
func (h *PayoutHandler) RetryHandler(w http.ResponseWriter, r *http.Request) {
	payoutID, err := getIDFromURL(r, "payoutID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	payout, err := h.payoutService.ProcessPayment(r.Context(), payoutID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"payout": payout}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AddMethodHandler handles POST /payout-methods.
func (h *PayoutHandler) AddMethodHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var input struct {
		Provider      string `json:"provider"`
		AccountName   string `json:"account_name"`
		AccountNumber string `json:"account_number"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	method, err := h.payoutService.AddMethod(r.Context(), currentUserID, input.Provider, input.AccountName, input.AccountNumber)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"method": method}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListMethodsHandler handles GET /payout-methods.
func (h *PayoutHandler) ListMethodsHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	methods, err := h.payoutService.ListMethods(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"methods": methods}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

type payoutTransition func(ctx context.Context, payoutID, actorID int, notes string) (*models.PayoutRequest, error)

func (h *PayoutHandler) reviewTransition(w http.ResponseWriter, r *http.Request, transition payoutTransition) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	payoutID, err := getIDFromURL(r, "payoutID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input struct {
		Notes string `json:"notes"`
	}
	if r.ContentLength > 0 {
		if err := readJSON(w, r, &input); err != nil {
			badRequestResponse(w, r, err)
			return
		}
	}

	payout, err := transition(r.Context(), payoutID, currentUserID, input.Notes)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"payout": payout}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
