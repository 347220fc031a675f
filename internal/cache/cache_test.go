package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNilClientIsAlwaysEmpty(t *testing.T) {
	c := New("", "", 0)
	assert.Nil(t, c)

	ctx := context.Background()
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Delete(ctx, "k"))
	n, err := c.Incr(ctx, "gen")
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.Error(t, c.Ping(ctx))
	assert.NoError(t, c.Close())
}

func TestUnreachableRedisFailsSafe(t *testing.T) {
	// Nothing listens on port 1; every call must degrade to a miss.
	c := New("127.0.0.1:1", "", 0)
	t.Cleanup(func() { _ = c.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Delete(ctx, "k"))
	n, err := c.Incr(ctx, "gen")
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.Error(t, c.Ping(ctx))
}
