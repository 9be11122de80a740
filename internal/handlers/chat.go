package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"codecanvas-backend/internal/middleware"
	"codecanvas-backend/internal/models"
	"codecanvas-backend/internal/views"
)

type chatService interface {
	Record(ctx context.Context, userID int64, req models.RecordChatRequest) (*models.ChatEntry, error)
	List(ctx context.Context, userID int64) ([]models.ChatHistoryItem, error)
	Get(ctx context.Context, userID, entryID int64) (*models.ChatEntry, error)
}

type ChatHandler struct {
	chatService chatService
}

func NewChatHandler(chatService chatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

type chatPageData struct {
	History []models.ChatHistoryItem
}

func (h *ChatHandler) ChatPage(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	history, err := h.chatService.List(r.Context(), userID)
	if err != nil {
		log.Printf("chat page: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	views.Render(w, "chat.html", chatPageData{History: history})
}

func (h *ChatHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req models.RecordChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	if _, err := h.chatService.Record(r.Context(), userID, req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	history, err := h.chatService.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, history)
}

func (h *ChatHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	entryID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Chat entry not found", r))
		return
	}

	userID := middleware.GetUserID(r.Context())

	entry, err := h.chatService.Get(r.Context(), userID, entryID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, models.ChatEntryResponse{
		Prompt:    entry.Prompt,
		Result:    entry.Result,
		Timestamp: entry.CreatedAt,
	})
}
