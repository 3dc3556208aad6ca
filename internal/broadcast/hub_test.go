package broadcast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversToSubscriber(t *testing.T) {
	h := New(4)
	ch, unsubscribe := h.Subscribe()
	defer unsubscribe()

	h.Publish(Message{EventType: "agent-created", Data: []byte("a")})

	select {
	case msg := <-ch:
		assert.Equal(t, "agent-created", msg.EventType)
	case <-time.After(time.Second):
		t.Fatal("expected a message within the timeout")
	}
}

func TestPublishFansOutToAllSubscribers(t *testing.T) {
	h := New(4)
	ch1, unsub1 := h.Subscribe()
	defer unsub1()
	ch2, unsub2 := h.Subscribe()
	defer unsub2()

	h.Publish(Message{EventType: "x", Data: []byte("x")})

	for _, ch := range []<-chan Message{ch1, ch2} {
		select {
		case <-ch:
		case <-time.After(time.Second):
			t.Fatal("expected every subscriber to receive the message")
		}
	}
}

func TestPublishDropsOldestWhenBufferFull(t *testing.T) {
	h := New(2)
	ch, unsubscribe := h.Subscribe()
	defer unsubscribe()

	h.Publish(Message{EventType: "1", Data: nil})
	h.Publish(Message{EventType: "2", Data: nil})
	h.Publish(Message{EventType: "3", Data: nil})

	var got []string
	draining := true
	for draining {
		select {
		case msg := <-ch:
			got = append(got, msg.EventType)
		default:
			draining = false
		}
	}
	require.Len(t, got, 2, "a full subscriber buffer drops the oldest message rather than blocking publish")
	assert.Equal(t, []string{"2", "3"}, got)
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	h := New(4)
	ch, unsubscribe := h.Subscribe()
	assert.Equal(t, 1, h.SubscriberCount())

	unsubscribe()
	assert.Equal(t, 0, h.SubscriberCount())

	_, ok := <-ch
	assert.False(t, ok, "the subscriber channel must be closed on unsubscribe")
}

func TestPublishAfterUnsubscribeIsNoop(t *testing.T) {
	h := New(4)
	_, unsubscribe := h.Subscribe()
	unsubscribe()

	assert.NotPanics(t, func() {
		h.Publish(Message{EventType: "late", Data: nil})
	})
}

func TestDefaultBufferSizeAppliesForNonPositive(t *testing.T) {
	h := New(0)
	assert.Equal(t, DefaultBufferSize, h.bufferSize)

	h2 := New(-5)
	assert.Equal(t, DefaultBufferSize, h2.bufferSize)
}
