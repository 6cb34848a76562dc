package email

// Config configures the Postmark sender. DevDir switches to DevSender, which
// writes messages to disk instead of sending them.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN" yaml:"postmark_server_token"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN" yaml:"postmark_account_token"`
	SenderEmail          string `env:"SENDER_EMAIL" yaml:"sender_email"`
	SupportEmail         string `env:"SUPPORT_EMAIL" yaml:"support_email"`
	DevDir               string `env:"EMAIL_DEV_DIR" yaml:"dev_dir"`
}

// NewSender returns a DevSender when DevDir is set and a Postmark client otherwise.
func NewSender(cfg Config) (EmailSender, error) {
	if cfg.DevDir != "" {
		return NewDevSender(cfg.DevDir), nil
	}
	return NewPostmarkClient(cfg)
}
