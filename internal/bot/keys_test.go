package bot

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aestyle/namestyler/core/telegram/state"
	"github.com/aestyle/namestyler/internal/store"

	tele "gopkg.in/telebot.v4"
)

// chatContext fakes the handful of tele.Context methods the credential
// flows touch. Everything else panics via the embedded nil interface,
// which keeps the fake honest about what handlers actually use.
type chatContext struct {
	tele.Context

	userID int64
	text   string

	kv     map[string]interface{}
	sent   []string
	edited []string
}

func newChatContext(userID int64, text string) *chatContext {
	return &chatContext{userID: userID, text: text, kv: map[string]interface{}{}}
}

func (c *chatContext) Sender() *tele.User { return &tele.User{ID: c.userID} }

func (c *chatContext) Chat() *tele.Chat { return &tele.Chat{ID: c.userID} }

func (c *chatContext) Text() string { return c.text }

func (c *chatContext) Update() tele.Update { return tele.Update{} }

func (c *chatContext) Set(key string, v interface{}) { c.kv[key] = v }

func (c *chatContext) Get(key string) interface{} { return c.kv[key] }

func (c *chatContext) Send(what interface{}, _ ...interface{}) error {
	c.sent = append(c.sent, fmt.Sprint(what))
	return nil
}

func (c *chatContext) Edit(what interface{}, _ ...interface{}) error {
	c.edited = append(c.edited, fmt.Sprint(what))
	return nil
}

func (c *chatContext) Respond(_ ...*tele.CallbackResponse) error { return nil }

func (c *chatContext) lastSent(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, c.sent, "handler sent nothing")
	return c.sent[len(c.sent)-1]
}

func newKeyHandlers(values ...string) (*Handlers, store.Credentials, state.Manager) {
	creds := store.NewMemoryCredentials(values...)
	fsm := state.NewMemoryManager()
	h := NewHandlers(Deps{Credentials: creds, FSM: fsm})
	return h, creds, fsm
}

func TestAddKeyFlowPersistsCredential(t *testing.T) {
	h, creds, fsm := newKeyHandlers()
	const admin = int64(99)

	require.NoError(t, h.AddKey(newChatContext(admin, "/addkey")))
	assert.Equal(t, StateAwaitingCredential, fsm.GetState(admin))

	c := newChatContext(admin, "AIzaSy-fresh-key-abcd")
	require.NoError(t, h.ReceiveCredential(c))

	assert.False(t, fsm.InProgress(admin), "flow must end after one message")
	values, err := creds.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"AIzaSy-fresh-key-abcd"}, values)

	out := c.lastSent(t)
	assert.Contains(t, out, "••••abcd")
	assert.Contains(t, out, "Pool size: 1")
	assert.NotContains(t, out, "AIzaSy-fresh-key-abcd", "full key never echoed back")
}

func TestReceiveCredentialRejectsDuplicateAndBlank(t *testing.T) {
	h, creds, fsm := newKeyHandlers("AIzaSy-known-key-wxyz")
	const admin = int64(99)

	fsm.SetState(admin, StateAwaitingCredential)
	dup := newChatContext(admin, "AIzaSy-known-key-wxyz")
	require.NoError(t, h.ReceiveCredential(dup))
	assert.Contains(t, dup.lastSent(t), "already in the pool")

	fsm.SetState(admin, StateAwaitingCredential)
	blank := newChatContext(admin, "   ")
	require.NoError(t, h.ReceiveCredential(blank))
	assert.Contains(t, blank.lastSent(t), "Flow aborted")
	assert.False(t, fsm.InProgress(admin))

	count, err := creds.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count, "neither message should grow the pool")
}

func TestDelKeyFlowRemovesByPosition(t *testing.T) {
	h, creds, fsm := newKeyHandlers("AIzaSy-one-aaaa", "AIzaSy-two-bbbb", "AIzaSy-three-cccc")
	const admin = int64(99)

	list := newChatContext(admin, "/delkey")
	require.NoError(t, h.DelKey(list))
	assert.Equal(t, StateAwaitingRemovalTarget, fsm.GetState(admin))
	assert.Contains(t, list.lastSent(t), "2. ••••bbbb")

	c := newChatContext(admin, "2")
	require.NoError(t, h.ReceiveRemovalTarget(c))
	assert.Contains(t, c.lastSent(t), "Removed key ••••bbbb")
	assert.False(t, fsm.InProgress(admin))

	values, err := creds.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"AIzaSy-one-aaaa", "AIzaSy-three-cccc"}, values)
}

func TestReceiveRemovalTargetByValueAndOutOfRange(t *testing.T) {
	h, creds, fsm := newKeyHandlers("AIzaSy-one-aaaa", "AIzaSy-two-bbbb")
	const admin = int64(99)

	fsm.SetState(admin, StateAwaitingRemovalTarget)
	miss := newChatContext(admin, "5")
	require.NoError(t, h.ReceiveRemovalTarget(miss))
	assert.Equal(t, "There is no key #5.", miss.lastSent(t))

	fsm.SetState(admin, StateAwaitingRemovalTarget)
	byValue := newChatContext(admin, "AIzaSy-one-aaaa")
	require.NoError(t, h.ReceiveRemovalTarget(byValue))
	assert.Contains(t, byValue.lastSent(t), "Removed key ••••aaaa")

	fsm.SetState(admin, StateAwaitingRemovalTarget)
	unknown := newChatContext(admin, "AIzaSy-never-seen")
	require.NoError(t, h.ReceiveRemovalTarget(unknown))
	assert.Contains(t, unknown.lastSent(t), "No such key")

	count, err := creds.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestDelKeyOnEmptyPoolSkipsState(t *testing.T) {
	h, _, fsm := newKeyHandlers()
	const admin = int64(99)

	c := newChatContext(admin, "/delkey")
	require.NoError(t, h.DelKey(c))
	assert.Equal(t, "The pool is empty.", c.lastSent(t))
	assert.False(t, fsm.InProgress(admin))
}

func TestCancelClearsActiveFlow(t *testing.T) {
	h, _, fsm := newKeyHandlers()
	const admin = int64(99)

	idle := newChatContext(admin, "/cancel")
	require.NoError(t, h.Cancel(idle))
	assert.Equal(t, "Nothing to cancel.", idle.lastSent(t))

	fsm.SetState(admin, StateAwaitingCredential)
	active := newChatContext(admin, "/cancel")
	require.NoError(t, h.Cancel(active))
	assert.Equal(t, "Cancelled.", active.lastSent(t))
	assert.False(t, fsm.InProgress(admin))
}
