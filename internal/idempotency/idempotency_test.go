package idempotency

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPayload(t *testing.T) {
	a := HashPayload([]byte(`{"source_type":"call"}`))
	b := HashPayload([]byte(`{"source_type":"call"}`))
	c := HashPayload([]byte(`{"source_type":"sms"}`))

	assert.Len(t, a, 64)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestMarkIfNew(t *testing.T) {
	mr := miniredis.RunT(t)
	checker := NewChecker(NewRedisClient(mr.Addr(), "", 0))
	ctx := context.Background()

	hash := HashPayload([]byte("payload"))
	assert.True(t, checker.MarkIfNew(ctx, hash))
	assert.False(t, checker.MarkIfNew(ctx, hash))

	ttl := mr.TTL("webhook:seen:" + hash)
	assert.Equal(t, SeenTTL, ttl)
}

func TestForgetAllowsRetry(t *testing.T) {
	mr := miniredis.RunT(t)
	checker := NewChecker(NewRedisClient(mr.Addr(), "", 0))
	ctx := context.Background()

	hash := HashPayload([]byte("payload"))
	require.True(t, checker.MarkIfNew(ctx, hash))

	checker.Forget(ctx, hash)
	assert.True(t, checker.MarkIfNew(ctx, hash))
}

func TestExpiredMarkIsNewAgain(t *testing.T) {
	mr := miniredis.RunT(t)
	checker := NewChecker(NewRedisClient(mr.Addr(), "", 0))
	ctx := context.Background()

	hash := HashPayload([]byte("payload"))
	require.True(t, checker.MarkIfNew(ctx, hash))

	mr.FastForward(SeenTTL)
	assert.True(t, checker.MarkIfNew(ctx, hash))
}

func TestNilCheckerAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	var checker *Checker

	assert.True(t, checker.MarkIfNew(ctx, "h"))
	checker.Forget(ctx, "h")

	checker = NewChecker(nil)
	assert.True(t, checker.MarkIfNew(ctx, "h"))
	assert.True(t, checker.MarkIfNew(ctx, "h"))
}

func TestRedisOutageDegradesToMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	checker := NewChecker(NewRedisClient(mr.Addr(), "", 0))
	mr.Close()

	assert.True(t, checker.MarkIfNew(context.Background(), "h"))
}
