package assistant

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiAssistant_RequiresKey(t *testing.T) {
	_, err := NewGeminiAssistant("", "gemini-1.5-flash").Reply(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestTextOf(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Text("Hello, "), genai.Text("how can I help?")}},
	}}}
	text, err := textOf(resp)
	require.NoError(t, err)
	assert.Equal(t, "Hello, how can I help?", text)

	_, err = textOf(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	_, err = textOf(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Blob{MIMEType: "image/png"}}},
	}}})
	assert.Error(t, err)
}
