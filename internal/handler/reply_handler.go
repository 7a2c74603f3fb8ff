package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/skillxl/backend/internal/mail"
	"github.com/skillxl/backend/internal/model"
	"github.com/skillxl/backend/internal/repository"
	"github.com/skillxl/backend/internal/service"
)

// ReplyHandler sends admin replies to leads.
type ReplyHandler struct {
	replyService service.ReplyService
}

func NewReplyHandler(replyService service.ReplyService) *ReplyHandler {
	return &ReplyHandler{replyService: replyService}
}

// Reply handles POST /api/reply (admin).
func (h *ReplyHandler) Reply(w http.ResponseWriter, r *http.Request) {
	var req model.ReplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	err := h.replyService.Reply(r.Context(), &req)
	if err == nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Email sent successfully"})
		return
	}

	var cfgErr *mail.ConfigError
	var upErr *mail.UpstreamError
	switch {
	case errors.Is(err, service.ErrInvalidReply):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, mail.ErrDomainInvalid):
		writeError(w, http.StatusBadRequest, "Invalid email domain: the recipient's domain cannot receive email")
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "Submission not found")
	case errors.As(err, &cfgErr):
		slog.Error("reply not sent, mail transport not configured", "transport", cfgErr.Transport, "missing", cfgErr.Missing)
		writeError(w, http.StatusInternalServerError, "Server Config Missing: "+strings.Join(cfgErr.Missing, " or "))
	case errors.As(err, &upErr):
		slog.Error("reply rejected by mail provider", "transport", upErr.Transport, "error", upErr.Err)
		writeError(w, http.StatusInternalServerError, "Failed to send email. "+upErr.Err.Error())
	case errors.Is(err, service.ErrStatusNotRecorded):
		writeError(w, http.StatusInternalServerError, "Email sent, but the submission status could not be updated")
	default:
		slog.Error("reply failed", "id", req.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to send email.")
	}
}
