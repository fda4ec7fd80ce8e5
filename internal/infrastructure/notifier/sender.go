package notifier

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

var ErrUnsupportedService = errors.New("notifier: unsupported service url")

// Sender доставляет одно уведомление в один канал.
type Sender interface {
	Send(ctx context.Context, title, body string) error
	Name() string
}

// ParseServers строит отправителей по списку URL вида:
//
//	tgram://<bot token>/<chat id>
//	discord://<webhook id>/<webhook token>
//	json://<host>/<path>, jsons://<host>/<path>
func ParseServers(servers []string, httpClient *http.Client) ([]Sender, error) {
	senders := make([]Sender, 0, len(servers))

	for _, server := range servers {
		sender, err := parseServer(strings.TrimSpace(server), httpClient)
		if err != nil {
			return nil, err
		}

		senders = append(senders, sender)
	}

	return senders, nil
}

func parseServer(server string, httpClient *http.Client) (Sender, error) {
	scheme, rest, ok := strings.Cut(server, "://")
	if !ok || rest == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedService, redact(server))
	}

	switch strings.ToLower(scheme) {
	case "tgram":
		token, chat, ok := strings.Cut(strings.Trim(rest, "/"), "/")
		if !ok {
			return nil, fmt.Errorf("%w: tgram needs token and chat id", ErrUnsupportedService)
		}

		chatID, err := strconv.ParseInt(chat, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("tgram chat id: %w", err)
		}

		return NewTelegramSender(token, chatID)
	case "discord":
		id, token, ok := strings.Cut(strings.Trim(rest, "/"), "/")
		if !ok {
			return nil, fmt.Errorf("%w: discord needs webhook id and token", ErrUnsupportedService)
		}

		return NewDiscordSender(discordWebhookURL+id+"/"+token, httpClient), nil
	case "json":
		return NewJSONSender("http://"+rest, httpClient), nil
	case "jsons":
		return NewJSONSender("https://"+rest, httpClient), nil
	default:
		return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedService, scheme)
	}
}

// redact оставляет в логах только схему: в URL лежат токены.
func redact(server string) string {
	scheme, _, _ := strings.Cut(server, "://")
	return scheme + "://***"
}
