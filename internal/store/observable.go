package store

import "sync"

// observable holds a state value and notifies subscribers after each update.
// Subscribers run outside the lock, in subscription order.
type observable[S any] struct {
	mu        sync.Mutex
	state     S
	listeners map[int]func(S)
	nextID    int
}

func newObservable[S any](initial S) *observable[S] {
	return &observable[S]{state: initial, listeners: make(map[int]func(S))}
}

func (o *observable[S]) snapshot() S {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *observable[S]) subscribe(fn func(S)) func() {
	o.mu.Lock()
	id := o.nextID
	o.nextID++
	o.listeners[id] = fn
	o.mu.Unlock()

	return func() {
		o.mu.Lock()
		delete(o.listeners, id)
		o.mu.Unlock()
	}
}

// update applies mutate under the lock. When mutate fails the state is
// expected to be untouched and nobody is notified.
func (o *observable[S]) update(mutate func(*S) error) error {
	o.mu.Lock()
	if err := mutate(&o.state); err != nil {
		o.mu.Unlock()
		return err
	}
	snapshot := o.state
	listeners := make([]func(S), 0, len(o.listeners))
	for id := 0; id < o.nextID; id++ {
		if fn, ok := o.listeners[id]; ok {
			listeners = append(listeners, fn)
		}
	}
	o.mu.Unlock()

	for _, fn := range listeners {
		fn(snapshot)
	}
	return nil
}
