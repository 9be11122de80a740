package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"codecanvas-backend/internal/models"
)

type generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type GenerateHandler struct {
	gemini generator
}

func NewGenerateHandler(gemini generator) *GenerateHandler {
	return &GenerateHandler{gemini: gemini}
}

// Generate proxies the prompt upstream and relays the generated snippet.
// Whether the pair gets recorded into chat history is the browser's
// follow-up call, not this handler's concern.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	text, err := h.gemini.Generate(r.Context(), req.Prompt)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.GenerateResponse{Response: text})
}
