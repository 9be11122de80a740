package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const generateTimeout = 30 * time.Second

type GeminiService struct {
	client   *genai.Client
	model    *genai.GenerativeModel
	rateChan chan struct{} // Token bucket
}

func NewGeminiService(apiKey string, concurrentReqs int) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel("gemini-1.5-flash")
	model.SetTemperature(0.3)
	model.SetTopP(0.95)

	// Token bucket bounding concurrent upstream calls
	rateChan := make(chan struct{}, concurrentReqs)
	for i := 0; i < concurrentReqs; i++ {
		rateChan <- struct{}{}
	}

	return &GeminiService{
		client:   client,
		model:    model,
		rateChan: rateChan,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

func (s *GeminiService) acquireRate(ctx context.Context) error {
	select {
	case <-s.rateChan:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for Gemini rate slot")
	}
}

func (s *GeminiService) releaseRate() {
	s.rateChan <- struct{}{}
}

// Generate wraps the user's prompt in the code-generation instruction,
// issues a single bounded call upstream and returns the first candidate's
// text. It never retries and never persists anything; recording the
// prompt/result pair is the caller's decision.
func (s *GeminiService) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", &ValidationError{Fields: map[string]string{"prompt": "No prompt provided"}}
	}

	if err := s.acquireRate(ctx); err != nil {
		return "", &UpstreamError{Message: err.Error()}
	}
	defer s.releaseRate()

	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	resp, err := s.model.GenerateContent(ctx, genai.Text(buildGeneratePrompt(prompt)))
	if err != nil {
		return "", &UpstreamError{Message: err.Error()}
	}

	text := extractText(resp)
	if text == "" {
		return "", &UpstreamError{Message: "No response from AI."}
	}

	return text, nil
}

func buildGeneratePrompt(prompt string) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("Generate a complete, renderable code snippet based on this prompt: %q. ", prompt))
	b.WriteString("Provide the code within triple backticks (e.g., ```python ... ``` or ```html ... ```). ")
	b.WriteString("If the prompt is vague, assume it refers to a simple webpage and return modern HTML with CSS (e.g., using Tailwind or Bootstrap). ")
	b.WriteString("Ensure the output is executable or renderable.")

	return b.String()
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
