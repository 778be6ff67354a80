package cache

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cloneInts(in []int) []int { return slices.Clone(in) }

func TestResolve(t *testing.T) {
	fallback := func() string { return "default" }

	assert.Equal(t, "value", Resolve("value", true, nil, fallback))
	assert.Equal(t, "default", Resolve("value", false, nil, fallback))
	assert.Equal(t, "default", Resolve("value", true, errors.New("boom"), fallback))
	assert.Equal(t, "default", Resolve("", false, errors.New("boom"), fallback))
}

func TestGetOrLoadCachesLoadedValue(t *testing.T) {
	c := New(cloneInts)
	key := Key{Identity: "u1", Family: "plans"}
	var calls int32
	load := func(context.Context) ([]int, bool, error) {
		atomic.AddInt32(&calls, 1)
		return []int{1, 2}, true, nil
	}

	v, src, err := c.GetOrLoad(context.Background(), key, load, nil)
	require.NoError(t, err)
	assert.Equal(t, SourceLoaded, src)
	assert.Equal(t, []int{1, 2}, v)

	v, src, err = c.GetOrLoad(context.Background(), key, load, nil)
	require.NoError(t, err)
	assert.Equal(t, SourceCache, src)
	assert.Equal(t, []int{1, 2}, v)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestGetOrLoadFallsBackWhenNotFound(t *testing.T) {
	c := New(cloneInts)
	key := Key{Identity: "u1", Family: "logs"}

	v, src, err := c.GetOrLoad(context.Background(), key,
		func(context.Context) ([]int, bool, error) { return nil, false, nil },
		func() []int { return []int{7} },
	)
	require.NoError(t, err)
	assert.Equal(t, SourceDefault, src)
	assert.Equal(t, []int{7}, v)

	cached, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, []int{7}, cached)
}

func TestGetOrLoadDoesNotCacheErrors(t *testing.T) {
	c := New(cloneInts)
	key := Key{Identity: "u1", Family: "logs"}
	boom := errors.New("boom")

	_, _, err := c.GetOrLoad(context.Background(), key,
		func(context.Context) ([]int, bool, error) { return nil, false, boom },
		func() []int { return []int{7} },
	)
	require.ErrorIs(t, err, boom)
	_, ok := c.Get(key)
	assert.False(t, ok)
}

func TestGetOrLoadCollapsesConcurrentMisses(t *testing.T) {
	c := New(cloneInts)
	key := Key{Identity: "u1", Family: "plans"}
	release := make(chan struct{})
	var calls int32
	load := func(context.Context) ([]int, bool, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []int{42}, true, nil
	}

	var wg sync.WaitGroup
	results := make([][]int, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, _, err := c.GetOrLoad(context.Background(), key, load, nil)
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	for _, r := range results {
		assert.Equal(t, []int{42}, r)
	}
}

func TestValuesAreCopied(t *testing.T) {
	c := New(cloneInts)
	key := Key{Identity: "u1", Family: "plans"}
	in := []int{1, 2, 3}
	c.Set(key, in)
	in[0] = 99

	out, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, out)
	out[1] = 99

	again, _ := c.Get(key)
	assert.Equal(t, []int{1, 2, 3}, again)
}

func TestUpdate(t *testing.T) {
	c := New(cloneInts)
	key := Key{Identity: "u1", Family: "plans"}
	c.Set(key, []int{1})

	prev, next, err := c.Update(key, func(cur []int, found bool) ([]int, error) {
		assert.True(t, found)
		return append(cur, 2), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, prev)
	assert.Equal(t, []int{1, 2}, next)

	boom := errors.New("boom")
	_, _, err = c.Update(key, func(cur []int, _ bool) ([]int, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	v, _ := c.Get(key)
	assert.Equal(t, []int{1, 2}, v)

	_, _, err = c.Update(Key{Identity: "u2"}, func(cur []int, found bool) ([]int, error) {
		assert.False(t, found)
		assert.Nil(t, cur)
		return []int{5}, nil
	})
	require.NoError(t, err)
}

func TestConcurrentUpdatesAreAtomic(t *testing.T) {
	c := New[int](nil)
	key := Key{Identity: "u1", Family: "counter"}
	var wg sync.WaitGroup
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = c.Update(key, func(cur int, _ bool) (int, error) { return cur + 1, nil })
		}()
	}
	wg.Wait()
	v, _ := c.Get(key)
	assert.Equal(t, 100, v)
}

func TestInvalidateIdentityIsScoped(t *testing.T) {
	c := New[string](nil)
	a1 := Key{Identity: "anon:a", Family: "profile"}
	a2 := Key{Identity: "anon:a", Family: "daily", Scope: "2026-02-13"}
	b := Key{Identity: "anon:b", Family: "profile"}
	c.Set(a1, "x")
	c.Set(a2, "y")
	c.Set(b, "z")

	c.InvalidateIdentity("anon:a")

	_, ok := c.Get(a1)
	assert.False(t, ok)
	_, ok = c.Get(a2)
	assert.False(t, ok)
	v, ok := c.Get(b)
	assert.True(t, ok)
	assert.Equal(t, "z", v)

	c.Invalidate(b)
	_, ok = c.Get(b)
	assert.False(t, ok)
}

func TestEntriesExpireAndReload(t *testing.T) {
	c := New(cloneInts, WithTTL(30*time.Millisecond))
	key := Key{Identity: "u1", Family: "logs"}
	var calls int32
	load := func(context.Context) ([]int, bool, error) {
		n := atomic.AddInt32(&calls, 1)
		return []int{int(n)}, true, nil
	}

	v, _, err := c.GetOrLoad(context.Background(), key, load, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, v)

	time.Sleep(60 * time.Millisecond)
	_, ok := c.Get(key)
	assert.False(t, ok)

	v, src, err := c.GetOrLoad(context.Background(), key, load, nil)
	require.NoError(t, err)
	assert.Equal(t, SourceLoaded, src)
	assert.Equal(t, []int{2}, v)
}

func TestMaxEntriesEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string](nil, WithMaxEntries(2))
	a := Key{Identity: "anon:a", Family: "missions"}
	b := Key{Identity: "anon:b", Family: "missions"}
	d := Key{Identity: "anon:d", Family: "missions"}

	c.Set(a, "a")
	c.Set(b, "b")
	_, _ = c.Get(a)
	c.Set(d, "d")

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(b)
	assert.False(t, ok)
	v, ok := c.Get(a)
	require.True(t, ok)
	assert.Equal(t, "a", v)
}
