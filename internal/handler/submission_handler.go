package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/skillxl/backend/internal/model"
	"github.com/skillxl/backend/internal/repository"
	"github.com/skillxl/backend/internal/service"
)

const maxListLimit = 500

// SubmissionHandler handles lead intake and the admin listing.
type SubmissionHandler struct {
	submissionService service.SubmissionService
}

// NewSubmissionHandler creates a SubmissionHandler with the given service.
func NewSubmissionHandler(submissionService service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

// submitRequest is the expected JSON body for POST /api/submit.
// id, status and createdAt are assigned by the server and ignored if sent.
type submitRequest struct {
	FormType        string `json:"formType"`
	RequestCategory string `json:"requestCategory"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Role            string `json:"role"`
	Organization    string `json:"organization"`
	ServiceInterest string `json:"serviceInterest"`
	Message         string `json:"message"`
}

// Submit handles POST /api/submit.
func (h *SubmissionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "invalid_json"})
		return
	}

	sub := &model.Submission{
		FormType:        model.FormType(req.FormType),
		RequestCategory: req.RequestCategory,
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Role:            req.Role,
		Organization:    req.Organization,
		ServiceInterest: req.ServiceInterest,
		Message:         req.Message,
	}

	if err := h.submissionService.Submit(r.Context(), sub); err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"success": false,
				"error":   "Missing or invalid fields",
				"field":   ve.Field,
			})
			return
		}
		slog.Error("save submission failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "Failed to save submission"})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Submission saved successfully",
		"id":      sub.ID,
	})
}

// List handles GET /api/submissions (admin).
// Supports query params: status, formType, limit, offset.
func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var opts model.ListOptions

	if s := q.Get("status"); s != "" && s != "all" {
		st, err := model.ParseStatus(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_status")
			return
		}
		opts.Status = st
	}
	if f := q.Get("formType"); f != "" {
		ft := model.FormType(f)
		if !ft.Valid() {
			writeError(w, http.StatusBadRequest, "invalid_form_type")
			return
		}
		opts.FormType = ft
	}
	if l := q.Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 || n > maxListLimit {
			writeError(w, http.StatusBadRequest, "invalid_limit")
			return
		}
		opts.Limit = n
	}
	if o := q.Get("offset"); o != "" {
		n, err := strconv.Atoi(o)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid_offset")
			return
		}
		opts.Offset = n
	}

	submissions, err := h.submissionService.List(r.Context(), opts)
	if err != nil {
		slog.Error("list submissions failed", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch submissions")
		return
	}

	// Return [] not null for empty lists
	if submissions == nil {
		submissions = []*model.Submission{}
	}
	writeJSON(w, http.StatusOK, submissions)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PUT /api/submissions/{id} (admin).
func (h *SubmissionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id_required")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	updated, err := h.submissionService.UpdateStatus(r.Context(), id, req.Status)
	switch {
	case errors.Is(err, model.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_status")
		return
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "Submission not found")
		return
	case err != nil:
		slog.Error("update status failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to update status")
		return
	}

	writeJSON(w, http.StatusOK, updated)
}
