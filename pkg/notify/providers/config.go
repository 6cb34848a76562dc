package providers

import (
	"errors"
	"fmt"

	"github.com/dmitrymomot/courier/pkg/config"
	"github.com/dmitrymomot/courier/pkg/email"
	"github.com/dmitrymomot/courier/pkg/inbox"
	"github.com/dmitrymomot/courier/pkg/notify"
	"github.com/dmitrymomot/courier/pkg/webhook"
)

// Config lists the providers to run. A nil section leaves its channel
// unconfigured, which the dispatcher records as a failed delivery.
type Config struct {
	Telegram  *TelegramConfig  `yaml:"telegram"`
	SMS       *SMSConfig       `yaml:"sms"`
	Push      *PushConfig      `yaml:"push"`
	Email     *email.Config    `yaml:"email"`
	WebSocket *WebSocketConfig `yaml:"websocket"`
	InApp     *InAppConfig     `yaml:"in_app"`
}

// LoadConfig reads a providers file. ${VAR} references are expanded from the
// environment.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if err := config.LoadFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Deps holds what the providers share with the rest of the process.
type Deps struct {
	Sender       *webhook.Sender    // nil means a default sender
	Inbox        inbox.Storage      // required by in_app
	EmailSender  email.EmailSender  // overrides the sender built from Config.Email
	WebSocketOpt []WebSocketOption
}

// Set is the result of Build.
type Set struct {
	Providers []notify.Provider
	// WebSocket is nil unless the websocket section is present.
	WebSocket *WebSocket
}

// Registry wraps the providers into a notify.Registry.
func (s Set) Registry() (*notify.Registry, error) {
	return notify.NewRegistry(s.Providers...)
}

// Build constructs every configured provider. All section errors are
// returned together.
func Build(cfg Config, deps Deps) (Set, error) {
	var (
		set  Set
		errs []error
	)
	add := func(p notify.Provider, err error) {
		if err != nil {
			errs = append(errs, err)
			return
		}
		set.Providers = append(set.Providers, p)
	}

	if cfg.Telegram != nil {
		add(asProvider(NewTelegram(*cfg.Telegram, deps.Sender)))
	}
	if cfg.SMS != nil {
		add(asProvider(NewSMS(*cfg.SMS, deps.Sender)))
	}
	if cfg.Push != nil {
		add(asProvider(NewPush(*cfg.Push, deps.Sender)))
	}
	if cfg.Email != nil || deps.EmailSender != nil {
		sender := deps.EmailSender
		if sender == nil {
			s, err := email.NewSender(*cfg.Email)
			if err != nil {
				errs = append(errs, fmt.Errorf("%w: email: %w", ErrInvalidConfig, err))
			}
			sender = s
		}
		if sender != nil {
			add(asProvider(NewEmail(sender)))
		}
	}
	if cfg.WebSocket != nil {
		set.WebSocket = NewWebSocket(*cfg.WebSocket, deps.WebSocketOpt...)
		set.Providers = append(set.Providers, set.WebSocket)
	}
	if cfg.InApp != nil {
		add(asProvider(NewInApp(*cfg.InApp, deps.Inbox)))
	}

	if len(errs) > 0 {
		return Set{}, errors.Join(errs...)
	}
	return set, nil
}

func asProvider[P notify.Provider](p P, err error) (notify.Provider, error) {
	if err != nil {
		return nil, err
	}
	return p, nil
}
