package notifier

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

const discordWebhookURL = "https://discord.com/api/webhooks/"

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

type DiscordSender struct {
	webhookURL string
	client     *http.Client
}

func NewDiscordSender(webhookURL string, client *http.Client) *DiscordSender {
	return &DiscordSender{
		webhookURL: webhookURL,
		client:     client,
	}
}

// Send пишет заголовок жирным через markdown Discord.
func (d *DiscordSender) Send(ctx context.Context, title, body string) error {
	content := body
	if title != "" {
		content = fmt.Sprintf("**%s**\n%s", title, body)
	}

	return postJSON(ctx, d.client, d.webhookURL, map[string]string{"content": content})
}

func (d *DiscordSender) Name() string {
	return "discord"
}

// JSONSender шлёт уведомление произвольному JSON-вебхуку.
type JSONSender struct {
	url    string
	client *http.Client
}

type jsonPayload struct {
	Version string `json:"version"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func NewJSONSender(url string, client *http.Client) *JSONSender {
	return &JSONSender{
		url:    url,
		client: client,
	}
}

func (j *JSONSender) Send(ctx context.Context, title, body string) error {
	return postJSON(ctx, j.client, j.url, jsonPayload{
		Version: "1.0",
		Title:   title,
		Message: body,
		Type:    "info",
	})
}

func (j *JSONSender) Name() string {
	return "json"
}

func postJSON(ctx context.Context, client *http.Client, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("client.Do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
