package telegram

import (
	"fmt"
	"time"

	tele "gopkg.in/telebot.v4"

	coreconfig "github.com/aestyle/namestyler/core/config"
)

// defaultLongPollWindow keeps the poll request well under the HTTP client's
// response timeout (see BuildHTTPClient).
const defaultLongPollWindow = 10 * time.Second

// BuildPoller selects the update transport from config: a webhook listener
// in webhook mode, a long poller otherwise. Config normalization has already
// validated the webhook fields when that mode is selected.
func BuildPoller(cfg *coreconfig.Config) tele.Poller {
	if cfg.Telegram.RunMode == coreconfig.RunModeWebhook {
		return &tele.Webhook{
			Listen:   fmt.Sprintf("%s:%d", cfg.Webhook.Listen, cfg.Webhook.Port),
			Endpoint: &tele.WebhookEndpoint{PublicURL: cfg.Webhook.URL},
		}
	}

	window := defaultLongPollWindow
	if cfg.Telegram.LongPollTimeoutSeconds > 0 {
		window = time.Duration(cfg.Telegram.LongPollTimeoutSeconds) * time.Second
	}
	return &tele.LongPoller{Timeout: window}
}
