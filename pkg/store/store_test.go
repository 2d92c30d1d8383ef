package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_NewerLoadSupersedesOlder(t *testing.T) {
	s := New[[]string]()

	slow := s.Begin()
	fast := s.Begin()

	assert.True(t, s.Commit(fast, []string{"fresh"}))
	assert.False(t, s.Commit(slow, []string{"stale"}))

	v, ok := s.Get()
	require.True(t, ok)
	assert.Equal(t, []string{"fresh"}, v)
	assert.Equal(t, fast, s.Snapshot().Version)
}

func TestStore_OlderLoadCommitsWhenFirst(t *testing.T) {
	s := New[int]()

	first := s.Begin()
	second := s.Begin()

	assert.True(t, s.Commit(first, 1))
	assert.True(t, s.Commit(second, 2))

	v, _ := s.Get()
	assert.Equal(t, 2, v)
}

func TestStore_LoadErrorLeavesValue(t *testing.T) {
	s := New[int]()
	_, applied, err := s.Load(context.Background(), func(context.Context) (int, error) { return 7, nil })
	require.NoError(t, err)
	require.True(t, applied)

	_, applied, err = s.Load(context.Background(), func(context.Context) (int, error) {
		return 0, errors.New("backend down")
	})
	require.Error(t, err)
	assert.False(t, applied)

	v, ok := s.Get()
	assert.True(t, ok)
	assert.Equal(t, 7, v)
}

func TestStore_WatchAndCancel(t *testing.T) {
	s := New[string]()
	var seen []string
	cancel := s.Watch(func(snap Snapshot[string]) { seen = append(seen, snap.Value) })

	s.Commit(s.Begin(), "a")
	cancel()
	s.Commit(s.Begin(), "b")

	assert.Equal(t, []string{"a"}, seen)
}

func TestStore_EmptyGet(t *testing.T) {
	s := New[[]int]()
	v, ok := s.Get()
	assert.False(t, ok)
	assert.Nil(t, v)
}
