package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrymomot/courier/pkg/notify"
	"github.com/dmitrymomot/courier/pkg/webhook"
)

// PushConfig configures a generic push gateway addressed by user id.
type PushConfig struct {
	Endpoint      string        `yaml:"endpoint"`
	APIKey        string        `yaml:"api_key"`
	SigningSecret string        `yaml:"signing_secret"`
	Timeout       time.Duration `yaml:"timeout"`
}

// Push posts the whole message to a gateway that fans it out to the user's
// devices and answers {"id": "..."}.
type Push struct {
	http     httpTransport
	endpoint string
	extras   []webhook.SendOption
}

func NewPush(cfg PushConfig, sender *webhook.Sender) (*Push, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: push endpoint is required", ErrInvalidConfig)
	}
	return &Push{
		http:     newHTTPTransport(sender, cfg.Timeout),
		endpoint: cfg.Endpoint,
		extras:   authOptions(cfg.APIKey, cfg.SigningSecret),
	}, nil
}

func (p *Push) Channel() notify.Channel { return notify.ChannelPush }

type pushRequest struct {
	UserID         string `json:"user_id"`
	NotificationID string `json:"notification_id"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	URL            string `json:"url,omitempty"`
	Priority       string `json:"priority"`
}

func (p *Push) Send(ctx context.Context, msg notify.Message, userID string) notify.DeliveryResult {
	if userID == "" {
		return notify.Failed(fmt.Errorf("%w: empty user id", ErrInvalidAddress))
	}
	resp, err := p.http.sender.Post(ctx, p.endpoint, pushRequest{
		UserID:         userID,
		NotificationID: msg.NotificationID,
		Title:          msg.Title,
		Body:           msg.Body,
		URL:            msg.ActionURL,
		Priority:       msg.Priority.String(),
	}, p.http.options(p.extras...)...)
	if err != nil {
		return notify.Failed(err)
	}
	return resultFromID(resp)
}

type idResponse struct {
	ID string `json:"id"`
}

func resultFromID(resp webhook.Response) notify.DeliveryResult {
	var body idResponse
	if err := resp.Decode(&body); err != nil {
		return notify.Failed(err)
	}
	if body.ID == "" {
		return notify.Failed(ErrMissingResponse)
	}
	return notify.Succeeded(body.ID, time.Time{})
}

func authOptions(apiKey, secret string) []webhook.SendOption {
	var opts []webhook.SendOption
	if apiKey != "" {
		opts = append(opts, webhook.WithBearerToken(apiKey))
	}
	if secret != "" {
		opts = append(opts, webhook.WithSignature(secret))
	}
	return opts
}
