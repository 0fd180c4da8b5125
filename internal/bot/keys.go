package bot

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aestyle/namestyler/core/logger"
	tghelpers "github.com/aestyle/namestyler/core/telegram/helpers"
	"github.com/aestyle/namestyler/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// AddKey starts the add-credential flow.
func (h *Handlers) AddKey(c tele.Context) error {
	h.deps.FSM.SetState(c.Sender().ID, StateAwaitingCredential)
	return c.Send("Paste the new Gemini API key.", keyboard.SingleCancelMarkup(cbCancel))
}

// ReceiveCredential consumes the next text message as a credential value.
func (h *Handlers) ReceiveCredential(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "receive_credential")
	userID := c.Sender().ID
	h.deps.FSM.ClearState(userID)

	value := strings.TrimSpace(c.Text())
	if value == "" {
		return c.Send("That doesn't look like a key. Flow aborted.")
	}

	added, err := h.deps.Credentials.Add(ctx, value)
	if err != nil {
		return fmt.Errorf("add credential: %w", err)
	}
	if !added {
		return c.Send("That key is already in the pool.")
	}

	count, err := h.deps.Credentials.Count(ctx)
	if err != nil {
		logger.Warn(ctx, "tg", "credentials.count_failed", slog.String("err", err.Error()))
		return c.Send("Key added. ✅")
	}
	logger.Info(ctx, "tg", "credentials.added",
		slog.String("key_suffix", logger.KeySuffix(value)),
		slog.Int("pool", count),
	)
	return c.Send(fmt.Sprintf("Key ••••%s added. Pool size: %d ✅", logger.KeySuffix(value), count))
}

// DelKey starts the remove-credential flow with a numbered pool listing.
func (h *Handlers) DelKey(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "delkey")
	values, err := h.deps.Credentials.List(ctx)
	if err != nil {
		return fmt.Errorf("list credentials: %w", err)
	}
	if len(values) == 0 {
		return c.Send("The pool is empty.")
	}

	h.deps.FSM.SetState(c.Sender().ID, StateAwaitingRemovalTarget)
	return c.Send(
		renderPool(values)+"\nReply with the number to remove, or paste the key itself.",
		keyboard.SingleCancelMarkup(cbCancel),
	)
}

// ReceiveRemovalTarget consumes the next text message as a 1-based position
// or a literal credential value.
func (h *Handlers) ReceiveRemovalTarget(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "receive_removal_target")
	userID := c.Sender().ID
	h.deps.FSM.ClearState(userID)

	target := strings.TrimSpace(c.Text())
	if target == "" {
		return c.Send("Nothing to remove. Flow aborted.")
	}

	if pos, err := strconv.Atoi(target); err == nil {
		value, ok, err := h.deps.Credentials.RemoveAt(ctx, pos)
		if err != nil {
			return fmt.Errorf("remove credential at %d: %w", pos, err)
		}
		if !ok {
			return c.Send(fmt.Sprintf("There is no key #%d.", pos))
		}
		logger.Info(ctx, "tg", "credentials.removed",
			slog.String("key_suffix", logger.KeySuffix(value)),
		)
		return c.Send(fmt.Sprintf("Removed key ••••%s. 🗑", logger.KeySuffix(value)))
	}

	removed, err := h.deps.Credentials.Remove(ctx, target)
	if err != nil {
		return fmt.Errorf("remove credential: %w", err)
	}
	if !removed {
		return c.Send("No such key in the pool.")
	}
	logger.Info(ctx, "tg", "credentials.removed",
		slog.String("key_suffix", logger.KeySuffix(target)),
	)
	return c.Send(fmt.Sprintf("Removed key ••••%s. 🗑", logger.KeySuffix(target)))
}

// ListKeys shows the masked pool.
func (h *Handlers) ListKeys(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "listkeys")
	values, err := h.deps.Credentials.List(ctx)
	if err != nil {
		return fmt.Errorf("list credentials: %w", err)
	}
	if len(values) == 0 {
		return c.Send("The pool is empty. Add a key with /addkey.")
	}
	return c.Send(renderPool(values))
}

// renderPool lists credentials by position, masked to the last 4 chars.
func renderPool(values []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🔑 Pool (%d):\n", len(values))
	for i, v := range values {
		fmt.Fprintf(&b, "%d. ••••%s\n", i+1, logger.KeySuffix(v))
	}
	return b.String()
}
