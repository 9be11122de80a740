package services

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"

	"codecanvas-backend/internal/models"
)

// fakeChatStore mirrors the database contract: ids are monotonically
// assigned, timestamps are server-side, listing sorts by (created_at, id)
// descending and lookups are scoped to the owner.
type fakeChatStore struct {
	entries []models.ChatEntry
	nextID  int64
	clock   time.Time
}

func newFakeChatStore() *fakeChatStore {
	return &fakeChatStore{clock: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeChatStore) Insert(ctx context.Context, entry *models.ChatEntry) error {
	f.nextID++
	entry.ID = f.nextID
	entry.CreatedAt = f.clock
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeChatStore) ListByUser(ctx context.Context, userID int64) ([]models.ChatHistoryItem, error) {
	items := make([]models.ChatHistoryItem, 0)
	for _, e := range f.entries {
		if e.UserID == userID {
			items = append(items, models.ChatHistoryItem{ID: e.ID, Prompt: e.Prompt, Timestamp: e.CreatedAt})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].Timestamp.Equal(items[j].Timestamp) {
			return items[i].Timestamp.After(items[j].Timestamp)
		}
		return items[i].ID > items[j].ID
	})
	return items, nil
}

func (f *fakeChatStore) GetByID(ctx context.Context, userID, entryID int64) (*models.ChatEntry, error) {
	for _, e := range f.entries {
		if e.ID == entryID && e.UserID == userID {
			copied := e
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func TestRecord_RoundTrip(t *testing.T) {
	store := newFakeChatStore()
	svc := NewChatService(store, true)

	entry, err := svc.Record(context.Background(), 1, models.RecordChatRequest{
		Prompt: "make a button",
		Result: "<button>Click</button>",
	})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	got, err := svc.Get(context.Background(), 1, entry.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Prompt != "make a button" {
		t.Errorf("Expected prompt preserved verbatim, got %q", got.Prompt)
	}
	if got.Result != "<button>Click</button>" {
		t.Errorf("Expected result preserved verbatim, got %q", got.Result)
	}
}

func TestRecord_EmptyPrompt(t *testing.T) {
	store := newFakeChatStore()
	svc := NewChatService(store, true)

	_, err := svc.Record(context.Background(), 1, models.RecordChatRequest{Prompt: "  ", Result: "x"})

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if len(store.entries) != 0 {
		t.Errorf("Expected no entry recorded, got %d", len(store.entries))
	}
}

func TestRecord_EmptyResultPolicy(t *testing.T) {
	tests := []struct {
		name             string
		allowEmptyResult bool
		wantErr          bool
	}{
		{"allowed when configured", true, false},
		{"rejected when configured", false, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeChatStore()
			svc := NewChatService(store, tc.allowEmptyResult)

			_, err := svc.Record(context.Background(), 1, models.RecordChatRequest{Prompt: "make a button"})

			if tc.wantErr {
				var validationErr *ValidationError
				if !errors.As(err, &validationErr) {
					t.Fatalf("Expected ValidationError, got %v", err)
				}
			} else if err != nil {
				t.Fatalf("Expected success, got %v", err)
			}
		})
	}
}

func TestList_MostRecentFirst(t *testing.T) {
	store := newFakeChatStore()
	svc := NewChatService(store, true)

	prompts := []string{"first", "second", "third"}
	for i, p := range prompts {
		store.clock = store.clock.Add(time.Duration(i) * time.Minute)
		if _, err := svc.Record(context.Background(), 1, models.RecordChatRequest{Prompt: p, Result: "r"}); err != nil {
			t.Fatalf("Record %q failed: %v", p, err)
		}
	}

	items, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("Expected 3 items, got %d", len(items))
	}
	if items[0].Prompt != "third" {
		t.Errorf("Expected most recent entry first, got %q", items[0].Prompt)
	}
	for i := 1; i < len(items); i++ {
		if items[i].Timestamp.After(items[i-1].Timestamp) {
			t.Errorf("Timestamps not non-increasing at index %d", i)
		}
	}
}

func TestList_TimestampTieBreaksOnID(t *testing.T) {
	store := newFakeChatStore()
	svc := NewChatService(store, true)

	// Same clock value for both inserts
	if _, err := svc.Record(context.Background(), 1, models.RecordChatRequest{Prompt: "older", Result: "r"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := svc.Record(context.Background(), 1, models.RecordChatRequest{Prompt: "newer", Result: "r"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	items, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if items[0].Prompt != "newer" {
		t.Errorf("Expected later insert first on timestamp tie, got %q", items[0].Prompt)
	}
}

func TestList_EmptyForNewUser(t *testing.T) {
	store := newFakeChatStore()
	svc := NewChatService(store, true)

	items, err := svc.List(context.Background(), 42)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected empty history, got %d items", len(items))
	}
}

func TestList_ScopedToOwner(t *testing.T) {
	store := newFakeChatStore()
	svc := NewChatService(store, true)

	if _, err := svc.Record(context.Background(), 1, models.RecordChatRequest{Prompt: "alice's", Result: "r"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if _, err := svc.Record(context.Background(), 2, models.RecordChatRequest{Prompt: "bob's", Result: "r"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	items, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 1 || items[0].Prompt != "alice's" {
		t.Errorf("Expected only the owner's entries, got %+v", items)
	}
}

func TestGet_OtherUsersEntryIsNotFound(t *testing.T) {
	store := newFakeChatStore()
	svc := NewChatService(store, true)

	entry, err := svc.Record(context.Background(), 2, models.RecordChatRequest{Prompt: "bob's", Result: "r"})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	_, errOther := svc.Get(context.Background(), 1, entry.ID)
	_, errMissing := svc.Get(context.Background(), 1, 9999)

	var notFound *NotFoundError
	if !errors.As(errOther, &notFound) {
		t.Fatalf("Expected NotFoundError for another user's entry, got %v", errOther)
	}
	if !errors.As(errMissing, &notFound) {
		t.Fatalf("Expected NotFoundError for missing entry, got %v", errMissing)
	}
	if errOther.Error() != errMissing.Error() {
		t.Errorf("Not-owned and missing entries must be indistinguishable: %q vs %q",
			errOther.Error(), errMissing.Error())
	}
}

func TestRecord_ThenListShowsEntryFirst(t *testing.T) {
	store := newFakeChatStore()
	svc := NewChatService(store, true)

	if _, err := svc.Record(context.Background(), 1, models.RecordChatRequest{Prompt: "old", Result: "r"}); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	store.clock = store.clock.Add(time.Minute)

	entry, err := svc.Record(context.Background(), 1, models.RecordChatRequest{Prompt: "new", Result: "r"})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	items, err := svc.List(context.Background(), 1)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if items[0].ID != entry.ID {
		t.Errorf("Expected freshly recorded entry first, got id %d", items[0].ID)
	}
}
