// Package bot wires the Telegram-facing surface: command handlers, inline
// callbacks, the credential-management FSM flows, and the operator notifier.
package bot

import (
	coreconfig "github.com/aestyle/namestyler/core/config"
	tg "github.com/aestyle/namestyler/core/telegram"
	"github.com/aestyle/namestyler/core/telegram/commands"
	"github.com/aestyle/namestyler/core/telegram/router"
	"github.com/aestyle/namestyler/core/telegram/state"
	"github.com/aestyle/namestyler/internal/store"
	"github.com/aestyle/namestyler/internal/styler"

	tele "gopkg.in/telebot.v4"
)

// Conversation states for the admin credential flows.
const (
	// StateAwaitingCredential waits for the admin to paste a new API key.
	StateAwaitingCredential state.State = "awaiting_credential"
	// StateAwaitingRemovalTarget waits for a 1-based position or a literal
	// key value to remove from the pool.
	StateAwaitingRemovalTarget state.State = "awaiting_removal_target"
)

// Callback keys used by inline buttons.
const (
	cbNext   = "next"
	cbCopy   = "copy"
	cbStyle  = "style"
	cbCancel = "cancel"
)

// Deps carries everything the handlers need.
type Deps struct {
	Config      *coreconfig.Config
	Credentials store.Credentials
	Sessions    store.Sessions
	Users       store.Users
	Styler      *styler.Styler
	FSM         state.Manager
}

// Handlers binds the dependency set to the Telegram handler methods.
type Handlers struct {
	deps Deps
}

// NewHandlers constructs the handler set.
func NewHandlers(deps Deps) *Handlers {
	return &Handlers{deps: deps}
}

// BuildRegistry registers every command, callback, and FSM step.
func BuildRegistry(h *Handlers) *tg.Registry {
	reg := tg.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     h.Start,
		Description: "Get a welcome message",
	})
	reg.RegisterCommand("/cancel", commands.Command{
		Handler:     h.Cancel,
		Description: "Abort the current flow",
	})
	reg.RegisterCommand("/stats", commands.Command{
		Handler:     h.Stats,
		Description: "Usage totals",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/addkey", commands.Command{
		Handler:     h.AddKey,
		Description: "Add a Gemini API key",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/delkey", commands.Command{
		Handler:     h.DelKey,
		Description: "Remove a Gemini API key",
		AdminOnly:   true,
		Hidden:      true,
	})
	reg.RegisterCommand("/listkeys", commands.Command{
		Handler:     h.ListKeys,
		Description: "List pooled Gemini API keys",
		AdminOnly:   true,
		Hidden:      true,
	})

	_ = reg.RegisterCallback(cbNext, h.NextStyle)
	_ = reg.RegisterCallback(cbCopy, h.CopyHint)
	_ = reg.RegisterCallback(cbStyle, h.ChooseStyle)
	_ = reg.RegisterCallback(cbCancel, h.CancelCallback)

	reg.SetTextFallback(h.StyleName)

	state.RegisterHandler(StateAwaitingCredential, h.ReceiveCredential)
	state.RegisterHandler(StateAwaitingRemovalTarget, h.ReceiveRemovalTarget)

	return reg
}

// Routes assembles the Telebot route table from the registry.
func (h *Handlers) Routes(reg *tg.Registry) []tg.Route {
	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: h.deps.Config.Telegram.AdminID,
		OnAdminReject: func(c tele.Context) error {
			return c.Send("This command is for the bot admin.")
		},
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoute(h.deps.FSM, reg, router.TextOptions{}))
	return routes
}
