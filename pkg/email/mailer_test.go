package email_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/courier/pkg/email"
)

func validParams() email.SendEmailParams {
	return email.SendEmailParams{
		SendTo:   "user@example.com",
		Subject:  "Test Subject",
		BodyHTML: "<p>Test body</p>",
		Tag:      "test",
	}
}

func TestSendEmailParams_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*email.SendEmailParams)
		errMsg string
	}{
		{"valid", func(p *email.SendEmailParams) {}, ""},
		{"valid without tag", func(p *email.SendEmailParams) { p.Tag = "" }, ""},
		{"plus addressing", func(p *email.SendEmailParams) { p.SendTo = "test.user+tag@sub.example.com" }, ""},
		{"empty SendTo", func(p *email.SendEmailParams) { p.SendTo = "" }, "SendTo is required"},
		{"blank SendTo", func(p *email.SendEmailParams) { p.SendTo = "   " }, "SendTo is required"},
		{"no at sign", func(p *email.SendEmailParams) { p.SendTo = "invalid-email" }, "SendTo must be a valid email address"},
		{"missing domain", func(p *email.SendEmailParams) { p.SendTo = "user@" }, "SendTo must be a valid email address"},
		{"missing local part", func(p *email.SendEmailParams) { p.SendTo = "@example.com" }, "SendTo must be a valid email address"},
		{"empty Subject", func(p *email.SendEmailParams) { p.Subject = " " }, "Subject is required"},
		{"empty BodyHTML", func(p *email.SendEmailParams) { p.BodyHTML = "" }, "BodyHTML is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := validParams()
			tt.mutate(&p)

			err := p.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, email.ErrInvalidParams)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestDevSender_SendEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("writes html and metadata", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()

		id, err := email.NewDevSender(dir).SendEmail(ctx, validParams())
		require.NoError(t, err)
		assert.NotEmpty(t, id)

		files, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, files, 2)

		var htmlFile, jsonFile string
		for _, f := range files {
			switch {
			case strings.HasSuffix(f.Name(), ".html"):
				htmlFile = filepath.Join(dir, f.Name())
			case strings.HasSuffix(f.Name(), ".json"):
				jsonFile = filepath.Join(dir, f.Name())
			}
		}
		assert.Contains(t, filepath.Base(htmlFile), "_test_")

		html, err := os.ReadFile(htmlFile)
		require.NoError(t, err)
		assert.Equal(t, "<p>Test body</p>", string(html))

		raw, err := os.ReadFile(jsonFile)
		require.NoError(t, err)
		var meta map[string]any
		require.NoError(t, json.Unmarshal(raw, &meta))
		assert.Equal(t, id, meta["message_id"])
		assert.Equal(t, "user@example.com", meta["send_to"])
		assert.Equal(t, "Test Subject", meta["subject"])
	})

	t.Run("two sends in the same second do not collide", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		sender := email.NewDevSender(dir)

		_, err := sender.SendEmail(ctx, validParams())
		require.NoError(t, err)
		_, err = sender.SendEmail(ctx, validParams())
		require.NoError(t, err)

		files, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, files, 4)
	})

	t.Run("subject used when tag is empty", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		p := validParams()
		p.Tag = ""
		p.Subject = "Password Reset!"

		_, err := email.NewDevSender(dir).SendEmail(ctx, p)
		require.NoError(t, err)

		files, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Contains(t, files[0].Name(), "password_reset")
	})

	t.Run("invalid params write nothing", func(t *testing.T) {
		t.Parallel()
		dir := filepath.Join(t.TempDir(), "out")
		p := validParams()
		p.SendTo = "nope"

		_, err := email.NewDevSender(dir).SendEmail(ctx, p)
		assert.ErrorIs(t, err, email.ErrInvalidParams)
		_, statErr := os.Stat(dir)
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestNewPostmarkClient(t *testing.T) {
	t.Parallel()

	valid := email.Config{
		PostmarkServerToken:  "server",
		PostmarkAccountToken: "account",
		SenderEmail:          "noreply@example.com",
		SupportEmail:         "support@example.com",
	}

	_, err := email.NewPostmarkClient(valid)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*email.Config)
	}{
		{"missing server token", func(c *email.Config) { c.PostmarkServerToken = "" }},
		{"missing account token", func(c *email.Config) { c.PostmarkAccountToken = "" }},
		{"missing sender", func(c *email.Config) { c.SenderEmail = "" }},
		{"invalid sender", func(c *email.Config) { c.SenderEmail = "noreply" }},
		{"missing support", func(c *email.Config) { c.SupportEmail = "" }},
		{"invalid support", func(c *email.Config) { c.SupportEmail = "support@" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := valid
			tt.mutate(&cfg)
			_, err := email.NewPostmarkClient(cfg)
			assert.ErrorIs(t, err, email.ErrInvalidConfig)
		})
	}
}

func TestNewSender(t *testing.T) {
	t.Parallel()

	s, err := email.NewSender(email.Config{DevDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &email.DevSender{}, s)

	_, err = email.NewSender(email.Config{})
	assert.ErrorIs(t, err, email.ErrInvalidConfig)
}
