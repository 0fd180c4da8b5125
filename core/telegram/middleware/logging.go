package middleware

import (
	"log/slog"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/aestyle/namestyler/core/logger"
	tghelpers "github.com/aestyle/namestyler/core/telegram/helpers"
)

// LoggerMiddleware logs a single receipt line per update and stores a
// request-scoped context on the Telebot context for downstream handlers.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		user := c.Sender()
		chat := c.Chat()

		chatID, userID := int64(0), int64(0)
		if chat != nil {
			chatID = chat.ID
		}
		if user != nil {
			userID = user.ID
		}
		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set("rid", rid)

		ctx := logger.WithRID(logger.Background(), rid)
		ctx = logger.WithUpdateMeta(ctx, upd.ID, userID, chatID)
		ctx = logger.WithLogger(ctx, logger.Component("tg"))
		tghelpers.StoreContext(c, ctx)

		attrs := []slog.Attr{
			slog.String("rid", rid),
			slog.Int("update_id", upd.ID),
			slog.Int64("user_id", userID),
		}
		switch {
		case upd.Callback != nil:
			key := upd.Callback.Unique
			if key == "" {
				key, _, _ = strings.Cut(strings.TrimPrefix(upd.Callback.Data, "\f"), "|")
			}
			attrs = append(attrs, slog.String("cb_key", logger.SanitizeLimit(key, 128)))
		case upd.Message != nil:
			if t := c.Text(); t != "" {
				attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(t, 256)))
			}
		}
		logger.TG.LogAttrs(ctx, slog.LevelDebug, "update.received", attrs...)

		return next(c)
	}
}
