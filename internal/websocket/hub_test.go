package websocket

import (
	"context"
	"testing"
	"time"

	"ai-interview-be/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	h := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go h.Run(ctx)
	t.Cleanup(cancel)
	return h, cancel
}

func TestHub_SendToSession(t *testing.T) {
	h, _ := runHub(t)

	watcher := NewClient(h, nil, "s1")
	other := NewClient(h, nil, "s2")
	h.add(watcher)
	h.add(other)
	require.Eventually(t, func() bool { return h.Watchers("s1") == 1 && h.Watchers("s2") == 1 }, time.Second, 5*time.Millisecond)

	h.SendToSession("s1", []byte(`{"type":"QUESTION_ISSUED"}`))

	select {
	case msg := <-watcher.Send:
		assert.JSONEq(t, `{"type":"QUESTION_ISSUED"}`, string(msg))
	case <-time.After(time.Second):
		t.Fatal("watcher got nothing")
	}
	assert.Empty(t, other.Send)
}

func TestHub_Unregister(t *testing.T) {
	h, _ := runHub(t)

	c := NewClient(h, nil, "s1")
	h.add(c)
	h.drop(c)

	require.Eventually(t, func() bool { return h.Watchers("s1") == 0 }, time.Second, 5*time.Millisecond)
	_, open := <-c.Send
	assert.False(t, open)

	// Sending to a session nobody watches is a no-op
	h.SendToSession("s1", []byte("{}"))
}

func TestHub_FullBufferDropsClient(t *testing.T) {
	h, _ := runHub(t)

	c := NewClient(h, nil, "s1")
	h.add(c)
	require.Eventually(t, func() bool { return h.Watchers("s1") == 1 }, time.Second, 5*time.Millisecond)

	for i := 0; i < sendBuffer+1; i++ {
		h.SendToSession("s1", []byte("{}"))
	}

	require.Eventually(t, func() bool { return h.Watchers("s1") == 0 }, time.Second, 5*time.Millisecond)
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	h, cancel := runHub(t)

	c := NewClient(h, nil, "s1")
	h.add(c)
	require.Eventually(t, func() bool { return h.Watchers("s1") == 1 }, time.Second, 5*time.Millisecond)

	cancel()

	require.Eventually(t, func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.closed
	}, time.Second, 5*time.Millisecond)
}

func TestHub_StoppedHubDoesNotBlock(t *testing.T) {
	h, cancel := runHub(t)
	c := NewClient(h, nil, "s1")
	require.True(t, h.add(c))
	require.Eventually(t, func() bool { return h.Watchers("s1") == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-h.done:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}

	late := NewClient(h, nil, "s2")
	finished := make(chan struct{})
	go func() {
		assert.False(t, h.add(late))
		h.drop(c)
		h.drop(late)
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("add/drop blocked after the hub stopped")
	}
	_, open := <-late.Send
	assert.False(t, open)
}
