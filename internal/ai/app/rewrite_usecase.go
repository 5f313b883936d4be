package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"chatterbox_service/pkg/config"
	errprocess "chatterbox_service/pkg/err"
	"chatterbox_service/pkg/logger"
)

const (
	systemPrompt = "You are a helpful assistant that rewrites messages according to user requests. Return only the rewritten message, nothing else."

	maxTokens   = 500
	temperature = 0.7
)

// ErrInvalidRequest the caller sent a bad message or rewrite type
var ErrInvalidRequest = errors.New("invalid rewrite request")

// rewritePrompts rewrite option -> instruction sent to the model
var rewritePrompts = map[string]string{
	// tone adjustments
	"professional": "Rewrite this message in a professional, business-appropriate tone while keeping the same meaning.",
	"formal":       "Rewrite this message in a formal tone while keeping the same meaning.",
	"casual":       "Rewrite this message in a casual, relaxed tone while keeping the same meaning.",
	"friendly":     "Rewrite this message in a warm and friendly tone while keeping the same meaning.",
	"assertive":    "Rewrite this message in an assertive, confident tone while keeping the same meaning.",
	"polite":       "Rewrite this message in a more polite tone while keeping the same meaning.",

	// emotion based
	"more-empathetic":   "Rewrite this message to be more empathetic and understanding.",
	"more-enthusiastic": "Rewrite this message to be more enthusiastic and energetic.",
	"more-calm":         "Rewrite this message to be more calm and composed.",
	"more-humorous":     "Rewrite this message to be more humorous and light-hearted.",
	"less-emotional":    "Rewrite this message to be less emotional and more neutral.",

	// grammar and writing
	"fix-grammar":       "Fix any grammar errors in this message while keeping the same meaning and tone.",
	"fix-spelling":      "Fix any spelling and punctuation errors in this message.",
	"improve-structure": "Improve the sentence structure and readability of this message.",
	"more-concise":      "Make this message more concise while keeping all important information.",
	"more-coherent":     "Rewrite this message to be more coherent and well-organized.",
	"more-natural":      "Rewrite this message to sound more natural and conversational.",

	// length based
	"shorter":       "Make this message shorter while keeping the key points.",
	"very-short":    "Make this message very short, like an SMS, while keeping the essential meaning.",
	"longer":        "Expand this message with more details while keeping the same meaning.",
	"summary":       "Create a concise summary version of this message.",
	"bullet-points": "Convert this message into bullet points.",

	// creative
	"more-witty":     "Rewrite this message to be more witty and clever.",
	"poetic":         "Rewrite this message in a poetic style.",
	"emoji-enhanced": "Add appropriate emojis to enhance this message.",
	"gen-z-slang":    "Rewrite this message using Gen Z slang and modern internet language.",
}

// RewriteResult original and rewritten text pair
type RewriteResult struct {
	Original    string `json:"original"`
	Rewritten   string `json:"rewritten"`
	RewriteType string `json:"rewriteType"`
}

// RewriteUseCase message rewriting via an OpenAI-compatible
// chat completions endpoint
type RewriteUseCase struct {
	cfg    config.AIConfig
	client *http.Client
}

// NewRewriteUseCase create RewriteUseCase
func NewRewriteUseCase(cfg config.AIConfig) *RewriteUseCase {
	return &RewriteUseCase{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// RewriteTypes the supported rewrite options
func RewriteTypes() []string {
	types := make([]string, 0, len(rewritePrompts))
	for k := range rewritePrompts {
		types = append(types, k)
	}
	return types
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Execute rewrite the message according to rewriteType
func (uc *RewriteUseCase) Execute(ctx context.Context, message, rewriteType string) (*RewriteResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message is required", ErrInvalidRequest)
	}
	instruction, ok := rewritePrompts[rewriteType]
	if !ok {
		return nil, fmt.Errorf("%w: valid rewrite type is required", ErrInvalidRequest)
	}
	if uc.cfg.APIKey == "" {
		return nil, errprocess.Set("AI service is not configured")
	}

	prompt := fmt.Sprintf("%s\n\nOriginal message: %q\n\nRewritten message:", instruction, message)

	body, err := json.Marshal(chatCompletionRequest{
		Model: uc.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(uc.cfg.BaseURL, "/")+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+uc.cfg.APIKey)

	resp, err := uc.client.Do(req)
	if err != nil {
		logger.Log.Error("ai request failed", zap.Error(err))
		return nil, errprocess.Set("AI service is unavailable")
	}
	defer resp.Body.Close()

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, errprocess.Set("AI service returned an unreadable response")
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, errprocess.Set("AI service authentication failed")
	}
	if resp.StatusCode != http.StatusOK {
		if completion.Error != nil && completion.Error.Message != "" {
			logger.Log.Error("ai completion failed",
				zap.Int("status", resp.StatusCode), zap.String("err", completion.Error.Message))
		}
		return nil, errprocess.Set("AI service request failed")
	}
	if len(completion.Choices) == 0 {
		return nil, errprocess.Set("AI service returned no choices")
	}

	return &RewriteResult{
		Original:    message,
		Rewritten:   strings.TrimSpace(completion.Choices[0].Message.Content),
		RewriteType: rewriteType,
	}, nil
}
