package models

import "time"

// ChatEntry is one recorded prompt/result pair. Entries are append-only
// and belong to exactly one user.
type ChatEntry struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	Prompt    string    `json:"prompt"`
	Result    string    `json:"result"`
	CreatedAt time.Time `json:"timestamp"`
}

// ChatHistoryItem is the listing projection: the result text is omitted.
type ChatHistoryItem struct {
	ID        int64     `json:"id"`
	Prompt    string    `json:"prompt"`
	Timestamp time.Time `json:"timestamp"`
}

type RecordChatRequest struct {
	Prompt string `json:"prompt"`
	Result string `json:"result"`
}

type ChatEntryResponse struct {
	Prompt    string    `json:"prompt"`
	Result    string    `json:"result"`
	Timestamp time.Time `json:"timestamp"`
}

type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

type GenerateResponse struct {
	Response string `json:"response"`
}
