package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const SystemPrompt = "You are a helpful AI assistant."

// FallbackReply is returned to the client whenever the provider fails.
const FallbackReply = "Sorry, I am unable to respond right now. Please try again later."

var ErrNotConfigured = errors.New("GEMINI_API_KEY is not set")

type Assistant interface {
	Reply(ctx context.Context, message string) (string, error)
}

type GeminiAssistant struct {
	apiKey string
	model  string
}

func NewGeminiAssistant(apiKey, model string) *GeminiAssistant {
	return &GeminiAssistant{apiKey: apiKey, model: model}
}

func (g *GeminiAssistant) Reply(ctx context.Context, message string) (string, error) {
	if g.apiKey == "" {
		return "", ErrNotConfigured
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %v", err)
	}
	defer client.Close()

	model := client.GenerativeModel(g.model)
	model.SystemInstruction = genai.NewUserContent(genai.Text(SystemPrompt))

	resp, err := model.GenerateContent(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %v", err)
	}
	return textOf(resp)
}

func textOf(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no content generated")
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", errors.New("no text in response")
	}
	return b.String(), nil
}
