package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

type postmarkClient struct {
	client  *postmark.Client
	from    string
	replyTo string
}

// NewPostmarkClient creates a Postmark-backed sender. Both tokens and both
// addresses are required.
func NewPostmarkClient(cfg Config) (EmailSender, error) {
	required := []struct {
		name, value string
		address     bool
	}{
		{"PostmarkServerToken", cfg.PostmarkServerToken, false},
		{"PostmarkAccountToken", cfg.PostmarkAccountToken, false},
		{"SenderEmail", cfg.SenderEmail, true},
		{"SupportEmail", cfg.SupportEmail, true},
	}
	for _, f := range required {
		switch {
		case f.value == "":
			return nil, fmt.Errorf("%w: %s is required", ErrInvalidConfig, f.name)
		case f.address && !IsValidAddress(f.value):
			return nil, fmt.Errorf("%w: %s must be a valid email address", ErrInvalidConfig, f.name)
		}
	}

	return &postmarkClient{
		client:  postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		from:    cfg.SenderEmail,
		replyTo: cfg.SupportEmail,
	}, nil
}

// SendEmail returns the Postmark message id.
func (c *postmarkClient) SendEmail(ctx context.Context, params SendEmailParams) (string, error) {
	if err := params.Validate(); err != nil {
		return "", err
	}

	resp, err := c.client.SendEmail(ctx, postmark.Email{
		From:       c.from,
		ReplyTo:    c.replyTo,
		To:         params.SendTo,
		Subject:    params.Subject,
		Tag:        params.Tag,
		HTMLBody:   params.BodyHTML,
		TrackOpens: true,
		TrackLinks: "HtmlOnly",
	})
	if err != nil {
		return "", errors.Join(ErrFailedToSendEmail, err)
	}
	// Postmark reports rejections in the body with a 200.
	if resp.ErrorCode > 0 {
		return "", fmt.Errorf("%w: postmark error %d: %s", ErrFailedToSendEmail, resp.ErrorCode, resp.Message)
	}
	return resp.MessageID, nil
}
