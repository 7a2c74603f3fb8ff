package handler

import (
	"net/http"

	"github.com/skillxl/backend/internal/model"
)

// FormHandler serves the public form catalog.
type FormHandler struct {
	forms []model.Form
}

func NewFormHandler(forms []model.Form) *FormHandler {
	return &FormHandler{forms: forms}
}

// List handles GET /api/forms.
func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.forms)
}

// Get handles GET /api/forms/{key}.
func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	for _, f := range h.forms {
		if f.Key == key {
			writeJSON(w, http.StatusOK, f)
			return
		}
	}
	writeError(w, http.StatusNotFound, "form_not_found")
}
