package notifications

import (
	"context"
	"sync"
)

// Recorder is a Sink that keeps every notification in memory.
type Recorder struct {
	mu    sync.Mutex
	notes []Notification
}

func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, n)
}

// Notifications returns a copy of the recorded notifications.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notes...)
}

// Len reports how many notifications were recorded.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notes)
}
