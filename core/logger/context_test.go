package logger

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextAccessors(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, "", RIDFrom(ctx))
	assert.Equal(t, "", HandlerFrom(ctx))
	assert.Equal(t, int64(0), UserIDFrom(ctx))
	assert.Equal(t, int64(0), ChatIDFrom(ctx))
	assert.Equal(t, 0, UpdateIDFrom(ctx))

	ctx = WithRID(ctx, "10:20:30")
	ctx = WithHandler(ctx, "style_name")
	ctx = WithUpdateMeta(ctx, 10, 20, 30)

	assert.Equal(t, "10:20:30", RIDFrom(ctx))
	assert.Equal(t, "style_name", HandlerFrom(ctx))
	assert.Equal(t, int64(20), UserIDFrom(ctx))
	assert.Equal(t, int64(30), ChatIDFrom(ctx))
	assert.Equal(t, 10, UpdateIDFrom(ctx))
}

func TestContextAttrs(t *testing.T) {
	assert.Empty(t, ContextAttrs(nil))
	assert.Empty(t, ContextAttrs(context.Background()))

	ctx := WithRID(context.Background(), "10:20:30")
	ctx = WithHandler(ctx, "next_style")
	ctx = WithUpdateMeta(ctx, 10, 20, 30)

	attrs := ContextAttrs(ctx)
	require.Len(t, attrs, 5)

	got := map[string]slog.Value{}
	for _, a := range attrs {
		got[a.Key] = a.Value
	}
	assert.Equal(t, "10:20:30", got["rid"].String())
	assert.Equal(t, "next_style", got["handler"].String())
	assert.Equal(t, int64(20), got["user_id"].Int64())
	assert.Equal(t, int64(30), got["chat_id"].Int64())
	assert.Equal(t, int64(10), got["update_id"].Int64())
}
