package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueNewestFirst(t *testing.T) {
	var q Queue
	q.Push(Chat("first"))
	q.Push(Chat("second"))
	q.Push(Chat("third"))
	require.Equal(t, 3, q.Len())

	var got []string
	for {
		e, ok := q.PopBack()
		if !ok {
			break
		}
		got = append(got, e.Text)
	}
	assert.Equal(t, []string{"third", "second", "first"}, got)
	assert.Equal(t, 0, q.Len())
}

func TestPopBackEmpty(t *testing.T) {
	var q Queue
	e, ok := q.PopBack()
	assert.False(t, ok)
	assert.Equal(t, Event{}, e)
}

func TestConstructors(t *testing.T) {
	assert.Equal(t, Event{Kind: KindSpawnPlayer, PID: 3}, SpawnPlayer(3))
	assert.Equal(t, Event{Kind: KindDespawnPlayer, PID: 3}, DespawnPlayer(3))
	assert.Equal(t, Event{Kind: KindChat, Text: "hey"}, Chat("hey"))
	assert.Equal(t, Event{Kind: KindSetBlock, X: 1, Y: 2, Z: 3, Block: 4}, SetBlock(1, 2, 3, 4))
}

func TestQueueInterleavedPushPop(t *testing.T) {
	var q Queue
	q.Push(DespawnPlayer(1))
	q.Push(Chat("a"))

	e, ok := q.PopBack()
	require.True(t, ok)
	assert.Equal(t, KindChat, e.Kind)

	q.Push(SetBlock(0, 0, 0, 0))
	e, ok = q.PopBack()
	require.True(t, ok)
	assert.Equal(t, KindSetBlock, e.Kind)

	e, ok = q.PopBack()
	require.True(t, ok)
	assert.Equal(t, KindDespawnPlayer, e.Kind)
}
