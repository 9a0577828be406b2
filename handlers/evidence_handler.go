package handlers

import (
	"errors"
	"net/http"

	"github.com/cuearena/tournament-engine/middleware"
	"github.com/cuearena/tournament-engine/services"
)

const maxEvidenceSize = 10 << 20 // 10MB

type EvidenceHandler struct {
	evidenceService services.EvidenceService
}

func NewEvidenceHandler(es services.EvidenceService) *EvidenceHandler {
	return &EvidenceHandler{evidenceService: es}
}

// UploadHandler handles POST /matches/{matchID}/evidence (multipart form,
// "file" field plus optional "note").
func (h *EvidenceHandler) UploadHandler(w http.ResponseWriter, r *http.Request) {
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

	if err := r.ParseMultipartForm(maxEvidenceSize); err != nil {
		badRequestResponse(w, r, errors.New("invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequestResponse(w, r, errors.New("missing file field"))
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	var note *string
	if n := r.FormValue("note"); n != "" {
		note = &n
	}

	evidence, err := h.evidenceService.Upload(r.Context(), matchID, currentUserID, header.Filename, contentType, file, note)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"evidence": evidence}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// ListHandler handles GET /matches/{matchID}/evidence.
func (h *EvidenceHandler) ListHandler(w http.ResponseWriter, r *http.Request) {
	matchID, err := getIDFromURL(r, "matchID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	items, err := h.evidenceService.ListByMatch(r.Context(), matchID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"evidence": items}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// DeleteHandler handles DELETE /evidence/{evidenceID}.
func (h *EvidenceHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	currentUserID, err := middleware.GetUserIDFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	evidenceID, err := getIDFromURL(r, "evidenceID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	if err := h.evidenceService.Delete(r.Context(), evidenceID, currentUserID); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
