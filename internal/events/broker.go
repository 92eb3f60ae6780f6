package events

import (
	"context"
	"sync"
)

const subscriberBuffer = 16

// Broker fans order events out to in-process subscribers. A subscriber that
// does not keep up misses events; Publish never blocks.
type Broker struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]subscription
}

type subscription struct {
	storeID string
	ch      chan OrderEvent
}

// NewBroker creates an empty Broker
func NewBroker() *Broker {
	return &Broker{subs: make(map[int]subscription)}
}

// Subscribe returns a channel receiving events of storeID, or of every store
// when storeID is empty. The returned cancel function closes the channel.
func (b *Broker) Subscribe(storeID string) (<-chan OrderEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan OrderEvent, subscriberBuffer)
	b.subs[id] = subscription{storeID: storeID, ch: ch}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Publish implements Publisher
func (b *Broker) Publish(ctx context.Context, event OrderEvent) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, s := range b.subs {
		if s.storeID != "" && s.storeID != event.StoreID {
			continue
		}
		select {
		case s.ch <- event:
		default:
		}
	}
	return nil
}

// Subscribers returns the number of open subscriptions
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
