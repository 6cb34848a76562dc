package providers

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/courier/pkg/notify"
	"github.com/dmitrymomot/courier/pkg/webhook"
)

// TelegramConfig configures the Telegram Bot API provider.
type TelegramConfig struct {
	Endpoint  string        `yaml:"endpoint"` // default https://api.telegram.org
	Token     string        `yaml:"token"`
	ParseMode string        `yaml:"parse_mode"` // default HTML
	Timeout   time.Duration `yaml:"timeout"`
}

// Telegram sends messages to a chat id through the Bot API sendMessage call.
type Telegram struct {
	http      httpTransport
	url       string
	token     string
	parseMode string
}

func NewTelegram(cfg TelegramConfig, sender *webhook.Sender) (*Telegram, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, fmt.Errorf("%w: telegram token is required", ErrInvalidConfig)
	}
	endpoint := strings.TrimRight(cfg.Endpoint, "/")
	if endpoint == "" {
		endpoint = "https://api.telegram.org"
	}
	if cfg.ParseMode == "" {
		cfg.ParseMode = "HTML"
	}
	return &Telegram{
		http:      newHTTPTransport(sender, cfg.Timeout),
		url:       endpoint + "/bot" + cfg.Token + "/sendMessage",
		token:     cfg.Token,
		parseMode: cfg.ParseMode,
	}, nil
}

func (t *Telegram) Channel() notify.Channel { return notify.ChannelTelegram }

// redact keeps the bot token, which is part of the URL, out of stored errors.
func (t *Telegram) redact(err error) error {
	return redactedError{err: err, secret: t.token}
}

type redactedError struct {
	err    error
	secret string
}

func (e redactedError) Error() string {
	return strings.ReplaceAll(e.err.Error(), e.secret, "<redacted>")
}

func (e redactedError) Unwrap() error { return e.err }

type telegramRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
	Result      struct {
		MessageID int64 `json:"message_id"`
		Date      int64 `json:"date"`
	} `json:"result"`
}

func (t *Telegram) Send(ctx context.Context, msg notify.Message, chatID string) notify.DeliveryResult {
	if strings.TrimSpace(chatID) == "" {
		return notify.Failed(fmt.Errorf("%w: empty chat id", ErrInvalidAddress))
	}

	req := telegramRequest{ChatID: chatID, Text: t.text(msg), ParseMode: t.parseMode}
	resp, err := t.http.sender.Post(ctx, t.url, req, t.http.options()...)

	var body telegramResponse
	decodeErr := resp.Decode(&body)
	switch {
	case err != nil && decodeErr == nil && body.Description != "":
		return notify.Failed(t.redact(errors.Join(ErrRejected, fmt.Errorf("telegram: %s", body.Description), err)))
	case err != nil:
		return notify.Failed(t.redact(err))
	case decodeErr != nil:
		return notify.Failed(decodeErr)
	case !body.OK:
		return notify.Failed(fmt.Errorf("%w: telegram returned ok=false", ErrRejected))
	}

	var at time.Time
	if body.Result.Date > 0 {
		at = time.Unix(body.Result.Date, 0).UTC()
	}
	return notify.Succeeded(strconv.FormatInt(body.Result.MessageID, 10), at)
}

func (t *Telegram) text(msg notify.Message) string {
	if !strings.EqualFold(t.parseMode, "HTML") {
		return strings.TrimSpace(msg.Title + "\n\n" + msg.Body + "\n" + msg.ActionURL)
	}
	var b strings.Builder
	b.WriteString("<b>")
	b.WriteString(html.EscapeString(msg.Title))
	b.WriteString("</b>\n\n")
	b.WriteString(html.EscapeString(msg.Body))
	if msg.ActionURL != "" {
		b.WriteString("\n")
		b.WriteString(html.EscapeString(msg.ActionURL))
	}
	return b.String()
}
