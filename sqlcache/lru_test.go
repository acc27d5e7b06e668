package sqlcache

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/litestar-org/sqlspec-core/sqlspec"
)

func key(s string) sqlspec.Fingerprint {
	return sqlspec.NewFingerprint([]byte(s))
}

func TestLRUMissThenHit(t *testing.T) {
	c := New[string](4, true)
	_, ok := c.Get(key("a"))
	assert.False(t, ok)

	c.Set(key("a"), "value-a")
	v, ok := c.Get(key("a"))
	assert.True(t, ok)
	assert.Equal(t, "value-a", v)

	snap := c.StatsSnapshot()
	assert.Equal(t, int64(1), snap.Hits)
	assert.Equal(t, int64(1), snap.Misses)
	assert.Equal(t, 1, snap.Size)
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int](2, true)
	c.Set(key("a"), 1)
	c.Set(key("b"), 2)
	// touch a so b becomes the LRU victim
	_, _ = c.Get(key("a"))
	c.Set(key("c"), 3)

	_, ok := c.Get(key("b"))
	assert.False(t, ok)
	_, ok = c.Get(key("a"))
	assert.True(t, ok)
	_, ok = c.Get(key("c"))
	assert.True(t, ok)

	snap := c.StatsSnapshot()
	assert.Equal(t, int64(1), snap.Evictions)
}

func TestLRUDisabledAlwaysMisses(t *testing.T) {
	c := New[string](4, false)
	c.Set(key("a"), "value-a")
	_, ok := c.Get(key("a"))
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLRUGetOrComputeFirstWriterWins(t *testing.T) {
	c := New[int](4, true)
	calls := 0
	compute := func() (int, error) {
		calls++
		return calls, nil
	}
	v1, err := c.GetOrCompute(key("x"), compute)
	assert.NoError(t, err)
	v2, err := c.GetOrCompute(key("x"), compute)
	assert.NoError(t, err)
	assert.Equal(t, v1, v2)
	assert.Equal(t, 1, calls)
}

func TestLRUGetOrComputePropagatesError(t *testing.T) {
	c := New[int](4, true)
	boom := errors.New("boom")
	_, err := c.GetOrCompute(key("x"), func() (int, error) { return 0, boom })
	assert.Error(t, err)
	_, ok := c.Get(key("x"))
	assert.False(t, ok)
}

func TestLRUClear(t *testing.T) {
	c := New[string](4, true)
	c.Set(key("a"), "value-a")
	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get(key("a"))
	assert.False(t, ok)
}
