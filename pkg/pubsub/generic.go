package pubsub

import (
	"context"
	"sync"
)

// PubSub fans a published value out to every subscriber of a topic.
// Publish blocks until each subscriber received the value, ctx is done or the
// PubSub is closed.
type PubSub[T any] struct {
	mu        sync.RWMutex
	subs      map[string][]chan T
	done      chan struct{}
	closeOnce sync.Once
}

func NewPubSub[T any]() *PubSub[T] {
	return &PubSub[T]{
		subs: make(map[string][]chan T),
		done: make(chan struct{}),
	}
}

func (ps *PubSub[T]) Subscribe(topic string) <-chan T {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ch := make(chan T)
	select {
	case <-ps.done:
		close(ch)
		return ch
	default:
	}
	ps.subs[topic] = append(ps.subs[topic], ch)
	return ch
}

// Publish returns the number of subscribers reached.
func (ps *PubSub[T]) Publish(ctx context.Context, topic string, data T) int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	n := 0
	for _, ch := range ps.subs[topic] {
		select {
		case ch <- data:
			n++
		case <-ctx.Done():
			return n
		case <-ps.done:
			return n
		}
	}
	return n
}

// Close releases blocked publishers and closes every subscriber channel.
func (ps *PubSub[T]) Close() {
	ps.closeOnce.Do(func() { close(ps.done) })
	ps.mu.Lock()
	defer ps.mu.Unlock()
	for topic, chans := range ps.subs {
		for _, ch := range chans {
			close(ch)
		}
		delete(ps.subs, topic)
	}
}
