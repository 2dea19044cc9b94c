// Package ai wraps the Gemini API for persona-driven chat, image
// questions and conversation summaries.
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"amanda-bot/internal/database"
	"amanda-bot/internal/database/models"
)

const (
	maxRetries = 3
	retryDelay = time.Second
)

// ErrDisabled is returned when no API key was configured.
var ErrDisabled = errors.New("ai: client disabled, no API key")

// Client talks to Gemini and keeps per-chat history in the store.
type Client struct {
	client    *genai.Client
	modelName string
	personas  *PersonaStore
	history   database.HistoryRepository
}

// NewClient connects to the Gemini API. A nil client with ErrDisabled
// is returned when apiKey is empty, so callers can degrade gracefully.
func NewClient(ctx context.Context, apiKey, modelName string, personas *PersonaStore, history database.HistoryRepository) (*Client, error) {
	if apiKey == "" {
		return nil, ErrDisabled
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("ai: create client: %w", err)
	}
	return &Client{
		client:    client,
		modelName: modelName,
		personas:  personas,
		history:   history,
	}, nil
}

// Close releases the underlying API connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// Chat sends one user message in the context of the chat's stored
// history and persona, appends both turns to the history and returns
// the reply text.
func (c *Client) Chat(ctx context.Context, chatID, userName, text string) (string, error) {
	model := c.client.GenerativeModel(c.modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(c.personas.For(chatID))},
	}

	turns, err := c.history.Get(ctx, chatID)
	if err != nil {
		return "", err
	}

	session := model.StartChat()
	session.History = make([]*genai.Content, 0, len(turns))
	for _, turn := range turns {
		session.History = append(session.History, &genai.Content{
			Role:  turn.Role,
			Parts: []genai.Part{genai.Text(turn.Text)},
		})
	}

	prompt := text
	if userName != "" {
		prompt = userName + ": " + text
	}

	reply, err := c.generate(ctx, func() (*genai.GenerateContentResponse, error) {
		return session.SendMessage(ctx, genai.Text(prompt))
	})
	if err != nil {
		return "", err
	}

	if err := c.history.Append(ctx, chatID,
		models.ChatTurn{Role: "user", Text: prompt},
		models.ChatTurn{Role: "model", Text: reply},
	); err != nil {
		return "", err
	}
	return reply, nil
}

// DescribeImage answers a question about an image. The image is not
// added to the chat history.
func (c *Client) DescribeImage(ctx context.Context, chatID, mimeType string, data []byte, question string) (string, error) {
	model := c.client.GenerativeModel(c.modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(c.personas.For(chatID))},
	}
	if question == "" {
		question = "Descreva essa imagem."
	}

	format := strings.TrimPrefix(mimeType, "image/")
	return c.generate(ctx, func() (*genai.GenerateContentResponse, error) {
		return model.GenerateContent(ctx, genai.ImageData(format, data), genai.Text(question))
	})
}

// Summarize condenses a slice of logged group messages into a short
// recap, outside of any chat history.
func (c *Client) Summarize(ctx context.Context, messages []models.Message) (string, error) {
	var sb strings.Builder
	sb.WriteString("Resuma a conversa abaixo em poucos parágrafos, citando os participantes pelos nomes:\n\n")
	for _, m := range messages {
		sb.WriteString(m.UserName)
		sb.WriteString(": ")
		sb.WriteString(m.Text)
		sb.WriteString("\n")
	}

	model := c.client.GenerativeModel(c.modelName)
	return c.generate(ctx, func() (*genai.GenerateContentResponse, error) {
		return model.GenerateContent(ctx, genai.Text(sb.String()))
	})
}

// generate runs one inference call with bounded fixed-delay retries and
// extracts the text of the first candidate.
func (c *Client) generate(ctx context.Context, call func() (*genai.GenerateContentResponse, error)) (string, error) {
	resp, err := backoff.RetryWithData(func() (*genai.GenerateContentResponse, error) {
		r, err := call()
		if err != nil {
			return nil, err
		}
		return r, nil
	}, backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(retryDelay), maxRetries), ctx))
	if err != nil {
		return "", fmt.Errorf("ai: generate: %w", err)
	}
	return extractText(resp)
}

// extractText flattens the text parts of the first response candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("ai: empty response")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	out := strings.TrimSpace(sb.String())
	if out == "" {
		return "", errors.New("ai: no text in response")
	}
	return out, nil
}
