package bot

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	tele "gopkg.in/telebot.v4"
)

func TestNotifyDoesNotBlockOnSlowDelivery(t *testing.T) {
	n := NewNotifier(99)
	release := make(chan struct{})
	delivered := make(chan string, 1)
	n.send = func(_ *tele.Bot, _ int64, text string) error {
		<-release
		delivered <- text
		return nil
	}
	n.Bind(&tele.Bot{})

	done := make(chan struct{})
	go func() {
		n.Notify(context.Background(), "pool exhausted")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify blocked on a slow transport")
	}

	close(release)
	select {
	case text := <-delivered:
		assert.Equal(t, "pool exhausted", text)
	case <-time.After(2 * time.Second):
		t.Fatal("alert was never delivered")
	}
}

func TestNotifySkipsWithoutAdminOrBot(t *testing.T) {
	calls := 0

	disabled := NewNotifier(0)
	disabled.send = func(*tele.Bot, int64, string) error { calls++; return nil }
	disabled.Bind(&tele.Bot{})
	disabled.Notify(context.Background(), "ignored")

	unbound := NewNotifier(99)
	unbound.send = func(*tele.Bot, int64, string) error { calls++; return nil }
	unbound.Notify(context.Background(), "dropped")

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, calls, "no delivery without an admin id and a bound bot")
}
