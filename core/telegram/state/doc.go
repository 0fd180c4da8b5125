// Package state provides a lightweight FSM manager for Telegram bots.
// It is intentionally domain-agnostic so it can be reused across bots.
package state
