// Package impl contains the application-specific business rules implementations.
package impl

import (
	"sync"
)

// notifier fans a value out to its listeners in registration order.
// publish copies the listener list first, so listeners may subscribe or cancel while being called.
//
// Deliveries run one at a time. When version is set, a value older than the last one
// delivered is dropped, so listeners never see a store go back in time. Listeners must not
// mutate the store they listen to.
type notifier[T any] struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []listener[T]

	version   func(T) uint64
	deliver   sync.Mutex
	delivered uint64
}

type listener[T any] struct {
	id uint64
	fn func(T)
}

func (n *notifier[T]) subscribe(fn func(T)) func() {
	if fn == nil {
		return func() {}
	}

	n.mu.Lock()
	n.nextID++
	id := n.nextID
	n.listeners = append(n.listeners, listener[T]{id: id, fn: fn})
	n.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() { n.remove(id) })
	}
}

func (n *notifier[T]) remove(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, l := range n.listeners {
		if l.id == id {
			n.listeners = append(n.listeners[:i:i], n.listeners[i+1:]...)

			return
		}
	}
}

func (n *notifier[T]) publish(value T) {
	n.deliver.Lock()
	defer n.deliver.Unlock()

	if n.version != nil {
		v := n.version(value)
		if v <= n.delivered {
			return
		}
		n.delivered = v
	}

	n.mu.Lock()
	listeners := make([]listener[T], len(n.listeners))
	copy(listeners, n.listeners)
	n.mu.Unlock()

	for _, l := range listeners {
		l.fn(value)
	}
}
