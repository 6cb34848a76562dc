// Package providers holds the concrete channel providers used by the
// notification dispatcher.
//
// Telegram, SMS and Push talk to HTTP APIs through pkg/webhook. Each of them
// owns a circuit breaker, so a failing endpoint fails deliveries fast instead
// of waiting for the send timeout. Email renders a templ component and sends
// it through pkg/email. WebSocket fans messages out to the live streams of a
// user (the SSE endpoint subscribes to it). InApp writes to the user's inbox.
//
// Providers are configured from a YAML file:
//
//	telegram:
//	  token: ${TELEGRAM_BOT_TOKEN}
//	sms:
//	  endpoint: https://sms.example.com/v1/messages
//	  api_key: ${SMS_API_KEY}
//	websocket:
//	  buffer_size: 32
//	in_app: {}
//
//	cfg, err := providers.LoadConfig(os.Getenv("COURIER_PROVIDERS_FILE"))
//	set, err := providers.Build(cfg, providers.Deps{Inbox: inboxStore})
//	registry, err := set.Registry()
//
// Every Send returns a notify.DeliveryResult; no provider returns a Go error
// or panics past that boundary.
package providers
