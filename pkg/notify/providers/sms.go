package providers

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrymomot/courier/pkg/notify"
	"github.com/dmitrymomot/courier/pkg/webhook"
)

// SMSConfig configures a JSON SMS gateway.
type SMSConfig struct {
	Endpoint      string        `yaml:"endpoint"`
	APIKey        string        `yaml:"api_key"`
	Sender        string        `yaml:"sender"`
	SigningSecret string        `yaml:"signing_secret"`
	Timeout       time.Duration `yaml:"timeout"`
}

var phoneRegex = regexp.MustCompile(`^\+?[0-9]{6,15}$`)

// SMS posts text messages to a gateway that answers {"id": "..."}.
type SMS struct {
	http   httpTransport
	cfg    SMSConfig
	extras []webhook.SendOption
}

func NewSMS(cfg SMSConfig, sender *webhook.Sender) (*SMS, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("%w: sms endpoint is required", ErrInvalidConfig)
	}
	return &SMS{
		http:   newHTTPTransport(sender, cfg.Timeout),
		cfg:    cfg,
		extras: authOptions(cfg.APIKey, cfg.SigningSecret),
	}, nil
}

func (s *SMS) Channel() notify.Channel { return notify.ChannelSMS }

type smsRequest struct {
	To   string `json:"to"`
	From string `json:"from,omitempty"`
	Body string `json:"body"`
}

func (s *SMS) Send(ctx context.Context, msg notify.Message, phone string) notify.DeliveryResult {
	phone = normalizePhone(phone)
	if !phoneRegex.MatchString(phone) {
		return notify.Failed(fmt.Errorf("%w: %q is not a phone number", ErrInvalidAddress, phone))
	}

	body := msg.Title + ": " + msg.Body
	if msg.ActionURL != "" {
		body += " " + msg.ActionURL
	}
	resp, err := s.http.sender.Post(ctx, s.cfg.Endpoint,
		smsRequest{To: phone, From: s.cfg.Sender, Body: body},
		s.http.options(s.extras...)...)
	if err != nil {
		return notify.Failed(err)
	}
	return resultFromID(resp)
}

func normalizePhone(p string) string {
	return strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(p))
}
