package bot

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aestyle/namestyler/core/logger"
	"github.com/aestyle/namestyler/core/telegram/callbacks"
	"github.com/aestyle/namestyler/core/telegram/format"
	tghelpers "github.com/aestyle/namestyler/core/telegram/helpers"
	"github.com/aestyle/namestyler/core/telegram/keyboard"
	"github.com/aestyle/namestyler/internal/store"
	"github.com/aestyle/namestyler/internal/styler"

	tele "gopkg.in/telebot.v4"
)

const (
	welcomeText = "Hey! ✨ Send me any name and I'll turn it into an aesthetic masterpiece.\n" +
		"Tap *Next Style 🔄* to reroll, *Copy Name 📋* to grab the result."
	progressText    = "🎨 Designing your aesthetic name..."
	expiredText     = "Session expired. Send me a name to style. ✨"
	busyText        = "The design studio is at capacity right now. Try again in a minute. 🎨"
	unavailableText = "Styling is not available right now. Please try again later."
	failedText      = "Something went wrong while styling your name. Send it again?"
)

// Start registers the user and sends the welcome message.
func (h *Handlers) Start(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "start")
	sender := c.Sender()
	if sender == nil {
		return nil
	}
	if err := h.deps.Users.Register(ctx, sender.ID, sender.FirstName); err != nil {
		logger.Warn(ctx, "tg", "user.register_failed",
			slog.Int64("user_id", sender.ID),
			slog.String("err", err.Error()),
		)
	}
	return tghelpers.SendMD(c, welcomeText)
}

// Stats reports usage totals to the admin.
func (h *Handlers) Stats(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "stats")
	users, generations, err := h.deps.Users.Totals(ctx)
	if err != nil {
		return fmt.Errorf("stats totals: %w", err)
	}
	return tghelpers.SendMD(c, fmt.Sprintf("📊 *Stats*\nUsers: %d\nGenerations: %d", users, generations))
}

// Cancel aborts any active admin flow.
func (h *Handlers) Cancel(c tele.Context) error {
	userID := c.Sender().ID
	if !h.deps.FSM.InProgress(userID) {
		return c.Send("Nothing to cancel.")
	}
	h.deps.FSM.ClearState(userID)
	return c.Send("Cancelled.")
}

// CancelCallback handles the inline cancel button in admin flows.
func (h *Handlers) CancelCallback(c tele.Context) error {
	h.deps.FSM.ClearState(c.Sender().ID)
	_ = c.Respond()
	return c.Edit("Cancelled.")
}

/// StyleName is the main flow: any plain text becomes a styling request.
func (h *Handlers) StyleName(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "style_name")
	sender := c.Sender()
	name := strings.TrimSpace(c.Text())
	if sender == nil || name == "" {
		return c.Send("Send me a name to style. ✨")
	}

	// New input always resets the regeneration context.
	if err := h.deps.Users.Register(ctx, sender.ID, sender.FirstName); err != nil {
		logger.Warn(ctx, "tg", "user.register_failed",
			slog.Int64("user_id", sender.ID),
			slog.String("err", err.Error()),
		)
	}
	if err := h.deps.Sessions.SetLastInput(ctx, sender.ID, name); err != nil {
		return fmt.Errorf("persist input: %w", err)
	}

	styleTag := ""
	if sess, err := h.deps.Sessions.Session(ctx, sender.ID); err == nil {
		styleTag = sess.StyleTag
	}

	progress, err := c.Bot().Send(c.Chat(), progressText)
	if err != nil {
		return fmt.Errorf("send progress: %w", err)
	}

	result, err := h.deps.Styler.Generate(ctx, styler.Request{Name: name, Style: styleTag})
	if err != nil {
		_, editErr := c.Bot().Edit(progress, renderError(err))
		if editErr != nil {
			logger.Warn(ctx, "tg", "result.edit_failed", slog.String("err", editErr.Error()))
		}
		return nil
	}

	if err := h.deps.Sessions.SetLastResult(ctx, sender.ID, result); err != nil {
		logger.Warn(ctx, "tg", "session.save_failed", slog.String("err", err.Error()))
	}
	if err := h.deps.Users.IncrementGenerations(ctx, sender.ID); err != nil {
		logger.Warn(ctx, "tg", "counter.bump_failed", slog.String("err", err.Error()))
	}

	_, err = c.Bot().Edit(progress, renderResult(result),
		&tele.SendOptions{ParseMode: tele.ModeMarkdownV2, ReplyMarkup: resultMarkup()})
	if err != nil {
		// Progress message may have been deleted under us.
		logger.Warn(ctx, "tg", "result.edit_failed", slog.String("err", err.Error()))
		return tghelpers.SendMDV2(c, renderResult(result), resultMarkup())
	}
	return nil
}

// NextStyle regenerates the last input with an anti-repetition constraint.
func (h *Handlers) NextStyle(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "next_style")
	userID := c.Sender().ID

	sess, err := h.deps.Sessions.Session(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNoSession) {
			_ = c.Respond()
			return h.editOrSend(c, expiredText, nil)
		}
		return fmt.Errorf("load session: %w", err)
	}

	_ = c.Respond(&tele.CallbackResponse{Text: "Cooking a fresh style... 🎨"})

	result, err := h.deps.Styler.Generate(ctx, styler.Request{
		Name:  sess.LastInput,
		Avoid: sess.LastResult,
		Style: sess.StyleTag,
	})
	if err != nil {
		return h.editOrSend(c, renderError(err), nil)
	}

	if err := h.deps.Sessions.SetLastResult(ctx, userID, result); err != nil {
		logger.Warn(ctx, "tg", "session.save_failed", slog.String("err", err.Error()))
	}
	if err := h.deps.Users.IncrementGenerations(ctx, userID); err != nil {
		logger.Warn(ctx, "tg", "counter.bump_failed", slog.String("err", err.Error()))
	}

	return h.editOrSendMDV2(c, renderResult(result), resultMarkup())
}

// CopyHint answers the copy button with a toast; Telegram renders code spans
// as tap-to-copy, so no state changes here.
func (h *Handlers) CopyHint(c tele.Context) error {
	return c.Respond(&tele.CallbackResponse{Text: "Tap the name to copy it 📋"})
}

// ChooseStyle persists the chosen style tag and regenerates with it.
func (h *Handlers) ChooseStyle(c tele.Context) error {
	ctx := tghelpers.WithHandler(c, "choose_style")
	userID := c.Sender().ID
	tag := callbacks.CallbackPayload(c)
	if tag == "" {
		return c.Respond()
	}

	sess, err := h.deps.Sessions.Session(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNoSession) {
			return c.Respond(&tele.CallbackResponse{Text: "Send me a name first ✨"})
		}
		return fmt.Errorf("load session: %w", err)
	}

	if err := h.deps.Sessions.SetStyle(ctx, userID, tag); err != nil {
		logger.Warn(ctx, "tg", "session.save_failed", slog.String("err", err.Error()))
	}
	_ = c.Respond(&tele.CallbackResponse{Text: fmt.Sprintf("Going %s ✨", tag)})

	result, err := h.deps.Styler.Generate(ctx, styler.Request{
		Name:  sess.LastInput,
		Avoid: sess.LastResult,
		Style: tag,
	})
	if err != nil {
		return h.editOrSend(c, renderError(err), nil)
	}

	if err := h.deps.Sessions.SetLastResult(ctx, userID, result); err != nil {
		logger.Warn(ctx, "tg", "session.save_failed", slog.String("err", err.Error()))
	}
	if err := h.deps.Users.IncrementGenerations(ctx, userID); err != nil {
		logger.Warn(ctx, "tg", "counter.bump_failed", slog.String("err", err.Error()))
	}

	return h.editOrSendMDV2(c, renderResult(result), resultMarkup())
}

// editOrSend edits the callback message in place, falling back to a fresh
// send. Edit failures never propagate to the poller.
func (h *Handlers) editOrSend(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	err := c.Edit(text, markup)
	if err == nil || errors.Is(err, tele.ErrSameMessageContent) {
		return nil
	}
	if sendErr := c.Send(text, markup); sendErr != nil {
		logger.Warn(tghelpers.BuildContext(c), "tg", "result.send_failed",
			slog.String("err", sendErr.Error()))
	}
	return nil
}

func (h *Handlers) editOrSendMDV2(c tele.Context, text string, markup *tele.ReplyMarkup) error {
	err := tghelpers.EditMDV2(c, text, markup)
	if err == nil || errors.Is(err, tele.ErrSameMessageContent) {
		return nil
	}
	if sendErr := tghelpers.SendMDV2(c, text, markup); sendErr != nil {
		logger.Warn(tghelpers.BuildContext(c), "tg", "result.send_failed",
			slog.String("err", sendErr.Error()))
	}
	return nil
}

// renderResult wraps the styled text in a code span so Telegram offers
// tap-to-copy.
func renderResult(result string) string {
	if result == "" {
		result = "✨"
	}
	return "✨ Here's your aesthetic name:\n\n" + format.CodeSpan(result)
}

func renderError(err error) string {
	switch {
	case errors.Is(err, styler.ErrNoCredentials):
		return unavailableText
	case errors.Is(err, styler.ErrAllCredentialsExhausted):
		return busyText
	default:
		return failedText
	}
}

func resultMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "Next Style 🔄", Unique: cbNext},
			{Text: "Copy Name 📋", Unique: cbCopy},
		},
		[]keyboard.InlineBtn{
			{Text: "soft ☁️", Unique: cbStyle, Data: "soft"},
			{Text: "dark 🖤", Unique: cbStyle, Data: "dark"},
			{Text: "kaomoji ✿", Unique: cbStyle, Data: "kaomoji"},
		},
	)
}
