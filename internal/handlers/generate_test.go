package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"codecanvas-backend/internal/models"
	"codecanvas-backend/internal/services"
)

type fakeGenerator struct {
	text string
	err  error
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func TestGenerate_Success(t *testing.T) {
	h := NewGenerateHandler(&fakeGenerator{text: "```html\n<button></button>\n```"})

	body, _ := json.Marshal(models.GenerateRequest{Prompt: "make a button"})
	req := httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewReader(body))
	rr := httptest.NewRecorder()

	h.Generate(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	var resp models.GenerateResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.Response != "```html\n<button></button>\n```" {
		t.Errorf("Unexpected response text: %q", resp.Response)
	}
}

func TestGenerate_EmptyPrompt(t *testing.T) {
	h := NewGenerateHandler(&fakeGenerator{
		err: &services.ValidationError{Fields: map[string]string{"prompt": "No prompt provided"}},
	})

	req := httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewReader([]byte(`{"prompt":""}`)))
	rr := httptest.NewRecorder()

	h.Generate(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rr.Code)
	}
}

func TestGenerate_UpstreamError(t *testing.T) {
	h := NewGenerateHandler(&fakeGenerator{err: &services.UpstreamError{Message: "deadline exceeded"}})

	req := httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewReader([]byte(`{"prompt":"x"}`)))
	rr := httptest.NewRecorder()

	h.Generate(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d", rr.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode error body: %v", err)
	}
	if resp.Error.Code != "UPSTREAM_ERROR" {
		t.Errorf("Expected UPSTREAM_ERROR, got %q", resp.Error.Code)
	}
	if resp.Error.Message != "Gemini API error: deadline exceeded" {
		t.Errorf("Expected upstream message surfaced, got %q", resp.Error.Message)
	}
}

func TestGenerate_InvalidBody(t *testing.T) {
	h := NewGenerateHandler(&fakeGenerator{text: "unused"})

	req := httptest.NewRequest(http.MethodPost, "/api/generate", bytes.NewReader([]byte("{")))
	rr := httptest.NewRecorder()

	h.Generate(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rr.Code)
	}
}
