package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ProductImporter/internal/ports"
)

const defaultAPIBase = "https://api.telegram.org"

// Notifier sends import summaries to a Telegram chat via bot API.
type Notifier struct {
	apiBase  string
	botToken string
	chatID   string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		apiBase:  defaultAPIBase,
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// Enabled reports whether both the bot token and the chat id are set.
func (n *Notifier) Enabled() bool {
	return n != nil && n.botToken != "" && n.chatID != ""
}

// PublishSummary posts a plain-text message to Telegram. Product names and
// API errors are not escaped, so no parse mode is requested.
func (n *Notifier) PublishSummary(ctx context.Context, text string) error {
	if !n.Enabled() || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", strings.TrimRight(n.apiBase, "/"), n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}
