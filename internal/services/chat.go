package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"codecanvas-backend/internal/models"
)

type chatStore interface {
	Insert(ctx context.Context, entry *models.ChatEntry) error
	ListByUser(ctx context.Context, userID int64) ([]models.ChatHistoryItem, error)
	GetByID(ctx context.Context, userID, entryID int64) (*models.ChatEntry, error)
}

type ChatService struct {
	entries chatStore

	// allowEmptyResult controls whether an entry may be recorded before
	// a generation result exists (ALLOW_EMPTY_RESULT).
	allowEmptyResult bool
}

func NewChatService(entries chatStore, allowEmptyResult bool) *ChatService {
	return &ChatService{entries: entries, allowEmptyResult: allowEmptyResult}
}

func (s *ChatService) Record(ctx context.Context, userID int64, req models.RecordChatRequest) (*models.ChatEntry, error) {
	fieldErrors := make(map[string]string)

	if strings.TrimSpace(req.Prompt) == "" {
		fieldErrors["prompt"] = "Prompt is required"
	}
	if !s.allowEmptyResult && strings.TrimSpace(req.Result) == "" {
		fieldErrors["result"] = "Result is required"
	}

	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	entry := &models.ChatEntry{
		UserID: userID,
		Prompt: req.Prompt,
		Result: req.Result,
	}
	if err := s.entries.Insert(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

func (s *ChatService) List(ctx context.Context, userID int64) ([]models.ChatHistoryItem, error) {
	return s.entries.ListByUser(ctx, userID)
}

// Get returns a single entry. A missing entry and an entry owned by a
// different user produce the same NotFoundError, so the route never leaks
// whether another user's entry exists.
func (s *ChatService) Get(ctx context.Context, userID, entryID int64) (*models.ChatEntry, error) {
	entry, err := s.entries.GetByID(ctx, userID, entryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{Message: "Chat entry not found"}
		}
		return nil, err
	}
	return entry, nil
}
