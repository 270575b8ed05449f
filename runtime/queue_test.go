package runtime

import (
	"sync"
	"testing"
	"time"

	"chat-relay/domain/event"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestEventQueue_FIFO_Order(t *testing.T) {
	req := require.New(t)
	queue := NewEventQueue()

	// Given three events enqueued in order
	queue.Enqueue(event.NewChat("alice", "first"))
	queue.Enqueue(event.NewChat("bob", "second"))
	queue.Enqueue(event.NewChat("alice", "third"))
	req.Equal(3, queue.Len())

	// When dequeuing them all
	var texts []string
	for i := 0; i < 3; i++ {
		e, ok := queue.Dequeue()
		req.True(ok)
		texts = append(texts, e.Text)
	}

	// Then they come out in enqueue order
	req.Equal([]string{"first", "second", "third"}, texts)
	req.Equal(0, queue.Len())
}

func TestEventQueue_Dequeue_Blocks_Until_Enqueue(t *testing.T) {
	req := require.New(t)
	queue := NewEventQueue()

	got := make(chan event.ChatEvent, 1)

	// Given a consumer blocked on an empty queue
	go func() {
		e, ok := queue.Dequeue()
		if ok {
			got <- e
		}
	}()

	// When an event arrives
	time.Sleep(50 * time.Millisecond)
	queue.Enqueue(event.NewChat("alice", "wake up"))

	// Then the consumer is woken with it
	select {
	case e := <-got:
		req.Equal("wake up", e.Text)
	case <-time.After(500 * time.Millisecond):
		req.Fail("Dequeue should have been woken by Enqueue")
	}
}

func TestEventQueue_Close_Unblocks_Consumer(t *testing.T) {
	req := require.New(t)
	queue := NewEventQueue()

	done := make(chan bool, 1)

	// Given a consumer blocked on an empty queue
	go func() {
		_, ok := queue.Dequeue()
		done <- ok
	}()

	// When the queue is closed
	time.Sleep(50 * time.Millisecond)
	queue.Close()

	// Then the consumer returns with ok=false
	select {
	case ok := <-done:
		req.False(ok)
	case <-time.After(500 * time.Millisecond):
		req.Fail("Dequeue should have been woken by Close")
	}
}

func TestEventQueue_Close_Discards_Remaining(t *testing.T) {
	req := require.New(t)
	queue := NewEventQueue()

	// Given undelivered events
	queue.Enqueue(event.NewChat("alice", "pending"))

	// When the queue is closed
	queue.Close()

	// Then the backlog is dropped, not drained
	_, ok := queue.Dequeue()
	req.False(ok)

	// And later enqueues are discarded silently
	queue.Enqueue(event.NewChat("bob", "too late"))
	_, ok = queue.Dequeue()
	req.False(ok)

	// And closing again is harmless
	queue.Close()
}

func TestEventQueue_Concurrent_Producers_Keep_All_Events(t *testing.T) {
	req := require.New(t)
	queue := NewEventQueue()

	const producers = 8
	const perProducer = 50

	// Given many producers enqueuing concurrently
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				queue.Enqueue(event.NewChat("user", "msg"))
			}
		}()
	}
	wg.Wait()

	// When draining the queue
	events := make([]event.ChatEvent, 0, producers*perProducer)
	for queue.Len() > 0 {
		e, ok := queue.Dequeue()
		req.True(ok)
		events = append(events, e)
	}

	// Then nothing was lost
	senders := lo.Uniq(lo.Map(events, func(e event.ChatEvent, _ int) string {
		return e.Sender
	}))
	req.Len(events, producers*perProducer)
	req.Equal([]string{"user"}, senders)
}
