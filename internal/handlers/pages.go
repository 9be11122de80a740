package handlers

import (
	"net/http"

	"codecanvas-backend/internal/views"
)

type PagesHandler struct{}

func NewPagesHandler() *PagesHandler {
	return &PagesHandler{}
}

func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	views.Render(w, "index.html", nil)
}
