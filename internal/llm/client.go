// Package llm parses sentences by asking an OpenAI-compatible chat
// completion endpoint for a CoNLL-U dependency parse.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cognicore/concord/pkg/concord/internalerr"
	"github.com/cognicore/concord/pkg/concord/syntax"
)

// DefaultTimeout bounds one completion request when no HTTPClient is set.
const DefaultTimeout = 30 * time.Second

// Client is a syntax.Parser backed by a chat completion endpoint.
// BaseURL is the full completions URL.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string

	HTTPClient *http.Client
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const parseInstructions = "You are a dependency parser. Reply with the CoNLL-U parse of the sentence using Universal Dependencies labels. " +
	"Output only the ten tab-separated columns per token, no prose and no code fences."

// Parse implements syntax.Parser. A reply without any token line is
// reported as internalerr.ErrNotFound so callers can skip the sentence.
func (c *Client) Parse(ctx context.Context, sentence string) ([]syntax.Token, error) {
	reply, err := c.Chat(ctx, parseInstructions, "# text = "+sentence)
	if err != nil {
		return nil, err
	}
	sents, err := syntax.ReadCoNLLU(strings.NewReader(stripFences(reply)))
	if err != nil {
		return nil, fmt.Errorf("llm: parse reply: %w", err)
	}
	var tokens []syntax.Token
	for _, s := range sents {
		tokens = append(tokens, s.Tokens...)
	}
	if len(tokens) == 0 {
		return nil, fmt.Errorf("llm: empty parse of %q: %w", sentence, internalerr.ErrNotFound)
	}
	return tokens, nil
}

// Chat sends one system and one user message and returns the first
// choice's content.
func (c *Client) Chat(ctx context.Context, system, user string) (string, error) {
	if c.BaseURL == "" || c.Model == "" {
		return "", fmt.Errorf("llm: base URL and model required: %w", internalerr.ErrInvalidConfig)
	}
	return c.complete(ctx, completionRequest{
		Model: c.Model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
}

func (c *Client) complete(ctx context.Context, body completionRequest) (string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("llm: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	resp, err := c.client().Do(req)
	if err != nil {
		return "", fmt.Errorf("llm: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("llm: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("llm: decode response: %w", err)
	}
	switch {
	case out.Error != nil:
		return "", fmt.Errorf("llm: %s", out.Error.Message)
	case len(out.Choices) == 0:
		return "", fmt.Errorf("llm: no choices in response")
	}
	return out.Choices[0].Message.Content, nil
}

func (c *Client) client() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return &http.Client{Timeout: DefaultTimeout}
}

// stripFences drops markdown code fence lines around the parse.
func stripFences(s string) string {
	var b strings.Builder
	for _, line := range strings.Split(s, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
