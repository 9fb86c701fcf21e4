package printer

import (
	"context"
	"sync"
	"time"
)

// DefaultPollInterval is used when the transport cannot push status changes.
const DefaultPollInterval = 2 * time.Second

// Watcher publishes printer connection transitions to subscribers.
type Watcher struct {
	transport Transport
	interval  time.Duration

	mu        sync.Mutex
	connected bool
	subs      map[int]func(bool)
	nextID    int
}

func NewWatcher(t Transport, interval time.Duration) *Watcher {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Watcher{
		transport: t,
		interval:  interval,
		connected: t.IsConnected(),
		subs:      make(map[int]func(bool)),
	}
}

// Connected returns the last observed state.
func (w *Watcher) Connected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.connected
}

// Subscribe registers fn for transitions. The returned func unregisters it.
func (w *Watcher) Subscribe(fn func(connected bool)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextID
	w.nextID++
	w.subs[id] = fn
	return func() {
		w.mu.Lock()
		delete(w.subs, id)
		w.mu.Unlock()
	}
}

// Refresh samples the transport once and publishes a change if there is one.
func (w *Watcher) Refresh() {
	w.publish(w.transport.IsConnected())
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	if n, ok := w.transport.(StatusNotifier); ok {
		w.Refresh()
		cancel := n.Subscribe(w.publish)
		defer cancel()
		<-ctx.Done()
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.Refresh()
		}
	}
}

func (w *Watcher) publish(connected bool) {
	w.mu.Lock()
	if w.connected == connected {
		w.mu.Unlock()
		return
	}
	w.connected = connected
	subs := make([]func(bool), 0, len(w.subs))
	for _, fn := range w.subs {
		subs = append(subs, fn)
	}
	w.mu.Unlock()

	notify(subs, connected)
}
