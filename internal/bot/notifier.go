package bot

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/aestyle/namestyler/core/logger"

	tele "gopkg.in/telebot.v4"
)

// Notifier delivers one-shot operator alerts to the configured admin chat.
// The underlying bot is bound late, once the Telegram lifecycle has started;
// alerts raised before binding (or with a zero admin id) are dropped with a
// log line only.
type Notifier struct {
	adminID int64
	bot     atomic.Pointer[tele.Bot]
	send    func(b *tele.Bot, adminID int64, text string) error
}

// NewNotifier constructs a Notifier for the given admin chat id.
func NewNotifier(adminID int64) *Notifier {
	return &Notifier{
		adminID: adminID,
		send: func(b *tele.Bot, adminID int64, text string) error {
			_, err := b.Send(&tele.User{ID: adminID}, text)
			return err
		},
	}
}

// Bind attaches the running bot. Safe to call from OnStart.
func (n *Notifier) Bind(b *tele.Bot) {
	n.bot.Store(b)
}

// Notify queues text for the admin chat and returns immediately. Delivery
// runs in its own goroutine and failures are logged and swallowed; the
// generation flow must never block on operator alerting.
func (n *Notifier) Notify(ctx context.Context, text string) {
	if n.adminID == 0 {
		return
	}
	b := n.bot.Load()
	if b == nil {
		logger.Warn(ctx, "tg", "notify.unbound",
			slog.String("text", logger.SanitizeLimit(text, 128)),
		)
		return
	}
	go func() {
		if err := n.send(b, n.adminID, text); err != nil {
			logger.Warn(context.Background(), "tg", "notify.failed",
				slog.Int64("admin_id", n.adminID),
				slog.String("err", err.Error()),
			)
		}
	}()
}
