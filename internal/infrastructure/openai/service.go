package openai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/sashabaranov/go-openai"
)

// Service wraps the OpenAI chat completions API behind the one operation the
// orchestrator needs: given a history and an optional tool manifest, return
// the first choice's message.
type Service struct {
	client *openai.Client
	model  string
}

func NewService(key, orgID, model string) *Service {
	log.Info().Str("model", model).Msg("Initialising OpenAI service")

	cfg := openai.DefaultConfig(key)
	cfg.OrgID = orgID

	return &Service{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Complete issues one chat completion request. toolChoice is forwarded as-is
// ("required" or "auto"); callers pass nil tools for a tool-free synthesis
// call, in which case toolChoice is omitted entirely.
func (s *Service) Complete(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool, toolChoice string) (openai.ChatCompletionMessage, error) {
	req := openai.ChatCompletionRequest{
		Model:    s.model,
		Messages: messages,
	}
	if len(tools) > 0 {
		req.Tools = tools
		req.ToolChoice = toolChoice
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get chat completion")
		return openai.ChatCompletionMessage{}, fmt.Errorf("failed to get chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return openai.ChatCompletionMessage{}, fmt.Errorf("no response choices returned")
	}

	return resp.Choices[0].Message, nil
}

// Ping sends a minimal completion request and returns the reply text. Used by
// the connectivity probe endpoint to verify the API key works end to end.
func (s *Service) Ping(ctx context.Context) (string, error) {
	msg, err := s.Complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleUser, Content: "Say this is a test!"},
	}, nil, "")
	if err != nil {
		return "", err
	}
	return msg.Content, nil
}
