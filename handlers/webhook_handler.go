package handlers

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cuearena/tournament-engine/services"
)

// WebhookHandler receives payment provider callbacks. The provider retries on
// non-2xx, so every structurally valid request is ACKed; processing errors
// are logged and the replayed delivery is absorbed idempotently.
type WebhookHandler struct {
	payoutService services.PayoutService
	secret        string
	logger        *slog.Logger
}

func NewWebhookHandler(ps services.PayoutService, secret string, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{payoutService: ps, secret: secret, logger: logger}
}

var errMissingReference = errors.New("webhook payload is missing data.reference")

type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference    string `json:"reference"`
		TransferCode string `json:"transfer_code"`
		Amount       int64  `json:"amount"`
		Reason       string `json:"reason"`
	} `json:"data"`
}

// PaymentWebhookHandler handles POST /webhooks/payments.
func (h *WebhookHandler) PaymentWebhookHandler(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if h.secret != "" && !h.verifySignature(body, r.Header.Get("X-Webhook-Signature")) {
		unauthorizedResponse(w, r, "invalid webhook signature")
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if event.Data.Reference == "" {
		badRequestResponse(w, r, errMissingReference)
		return
	}

	ctx := r.Context()
	switch event.Event {
	case "transfer.success":
		_, err = h.payoutService.MarkAsCompleted(ctx, event.Data.Reference, string(body))
	case "transfer.failed":
		_, err = h.payoutService.MarkAsFailed(ctx, event.Data.Reference, event.Data.Reason)
	case "transfer.reversed":
		_, err = h.payoutService.HandleReversal(ctx, event.Data.Reference)
	default:
		h.logger.InfoContext(ctx, "ignoring webhook event", slog.String("event", event.Event))
	}
	if err != nil {
		// ACK anyway; the provider retry would hit the same error and the
		// handlers are idempotent under replay.
		h.logger.ErrorContext(ctx, "webhook processing failed",
			slog.String("event", event.Event),
			slog.String("reference", event.Data.Reference),
			slog.Any("error", err))
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"status": "ok"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(h.secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
