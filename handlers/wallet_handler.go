package handlers

import (
	"net/http"

	"github.com/cuearena/tournament-engine/middleware"
	"github.com/cuearena/tournament-engine/services"
)

type WalletHandler struct {
	walletService services.WalletService
}

func NewWalletHandler(ws services.WalletService) *WalletHandler {
	return &WalletHandler{walletService: ws}
}

// GetHandler handles GET /wallet.
func (h *WalletHandler) GetHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	wallet, err := h.walletService.GetWallet(r.Context(), currentUserID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"wallet": wallet}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListTransactionsHandler handles GET /wallet/transactions.
func (h *WalletHandler) ListTransactionsHandler(w http.ResponseWriter, r *http.Request) {
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

	transactions, err := h.walletService.ListTransactions(r.Context(), currentUserID, limit, offset)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"transactions": transactions}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
