package pubsub

import (
	"sync"

	"go.uber.org/zap"
)

// Broker is a simple in-memory pub/sub hub for live contest state. Each
// topic keeps only its latest message, so a new subscriber immediately sees
// the current snapshot instead of replaying history.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[string][]chan []byte
	latest      map[string][]byte
}

func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[string][]chan []byte),
		latest:      make(map[string][]byte),
	}
}

// Subscribe registers for a topic. The current snapshot, if any, is
// delivered first, followed by live updates. The returned function removes
// the subscription and closes the channel.
func (b *Broker) Subscribe(topic string) (<-chan []byte, func()) {
	b.mu.Lock()

	ch := make(chan []byte, 16)
	if snapshot, ok := b.latest[topic]; ok {
		ch <- snapshot
	}
	b.subscribers[topic] = append(b.subscribers[topic], ch)
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subscribers := b.subscribers[topic]
		for i, sub := range subscribers {
			if sub == ch {
				b.subscribers[topic] = append(subscribers[:i], subscribers[i+1:]...)
				close(ch)
				break
			}
		}
		if len(b.subscribers[topic]) == 0 {
			delete(b.subscribers, topic)
		}
		zap.S().Debugf("unsubscribed from topic %s", topic)
	}

	zap.S().Debugf("new subscription to topic %s", topic)
	return ch, unsubscribe
}

// Publish replaces the topic's snapshot and fans the message out to all live
// subscribers without blocking on slow ones.
func (b *Broker) Publish(topic string, msg []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.latest[topic] = msg

	for _, ch := range b.subscribers[topic] {
		select {
		case ch <- msg:
		default:
			// A full subscriber channel drops the update; the next publish
			// carries the newer snapshot anyway.
		}
	}
}

// CloseTopic closes all subscriber channels and forgets the snapshot.
func (b *Broker) CloseTopic(topic string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subscribers, ok := b.subscribers[topic]; ok {
		for _, ch := range subscribers {
			close(ch)
		}
		delete(b.subscribers, topic)
	}
	delete(b.latest, topic)
}
