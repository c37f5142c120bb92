// Package llm abstracts the model provider behind a small
// client/session pair. A Session is one continuous conversation: every
// Send sees the prior turns of the same session as context, which is
// what lets a correction prompt refer back to the original move list.
package llm

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/genai"
)

// Client creates conversational sessions with a model.
type Client interface {
	NewSession(ctx context.Context, modelID string) (Session, error)
}

// Session is a single multi-turn conversation. Send blocks for the
// model's reply and returns a transport error if the provider is
// unreachable or rejects the call.
type Session interface {
	Send(ctx context.Context, text string) (string, error)
}

// GenAIClient is the production Client over the Google GenAI SDK,
// targeting either the Gemini API or Vertex AI depending on which
// credentials are present.
type GenAIClient struct {
	client *genai.Client
}

// NewGenAIClient builds a client from the environment. GEMINI_API_KEY
// selects the Gemini API backend; otherwise VERTEXAI_PROJECT and
// VERTEXAI_LOCATION select Vertex AI.
func NewGenAIClient(ctx context.Context) (*GenAIClient, error) {
	cfg := &genai.ClientConfig{}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.APIKey = key
		cfg.Backend = genai.BackendGeminiAPI
	} else {
		project := os.Getenv("VERTEXAI_PROJECT")
		location := os.Getenv("VERTEXAI_LOCATION")
		if project == "" || location == "" {
			return nil, fmt.Errorf("no credentials: set GEMINI_API_KEY or VERTEXAI_PROJECT/VERTEXAI_LOCATION")
		}
		cfg.Project = project
		cfg.Location = location
		cfg.Backend = genai.BackendVertexAI
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GenAIClient{client: client}, nil
}

func (c *GenAIClient) NewSession(ctx context.Context, modelID string) (Session, error) {
	chat, err := c.client.Chats.Create(ctx, modelID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create chat session: %w", err)
	}
	return &genAISession{chat: chat}, nil
}

type genAISession struct {
	chat *genai.Chat
}

func (s *genAISession) Send(ctx context.Context, text string) (string, error) {
	resp, err := s.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	return resp.Text(), nil
}
