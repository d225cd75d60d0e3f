package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ProductImporter/internal/config"
	"ProductImporter/internal/ports"
)

// ChatGPTClient implements ports.DescriptionWriter backed by OpenAI-compatible APIs.
type ChatGPTClient struct {
	endpoint     string
	model        string
	apiKey       string
	systemPrompt string
	httpClient   *http.Client
}

var _ ports.DescriptionWriter = (*ChatGPTClient)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewChatGPTClient builds a client from configuration.
func NewChatGPTClient(cfg config.ChatGPTConfig) *ChatGPTClient {
	return &ChatGPTClient{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		systemPrompt: cfg.SystemPrompt,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// Enabled reports whether the client has everything it needs to call the API.
func (c *ChatGPTClient) Enabled() bool {
	return c != nil && c.apiKey != "" && c.endpoint != "" && c.model != ""
}

// WriteDescription asks the model for a short product description.
func (c *ChatGPTClient) WriteDescription(ctx context.Context, name, brand string) (string, error) {
	if !c.Enabled() {
		return "", ports.ErrNotConfigured
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []chatMessage{
			{Role: "system", Content: safePrompt(c.systemPrompt)},
			{Role: "user", Content: userPrompt(name, brand)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal chatgpt payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("write description: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("chatgpt error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode chatgpt response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return "", errors.New("chatgpt returned no choices")
	}

	return strings.TrimSpace(decoded.Choices[0].Message.Content), nil
}

func userPrompt(name, brand string) string {
	if brand = strings.TrimSpace(brand); brand != "" {
		return fmt.Sprintf("Marka: %s\nÜrün: %s", brand, strings.TrimSpace(name))
	}
	return fmt.Sprintf("Ürün: %s", strings.TrimSpace(name))
}

func safePrompt(prompt string) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "You write short, factual e-commerce product descriptions in Turkish."
	}
	return prompt
}
