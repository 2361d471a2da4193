package notifications

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"taildrop/internal/config"
	"taildrop/internal/logging"
	"taildrop/internal/runner"
)

// Icon is a freedesktop icon name hinting at the message's nature.
type Icon string

const (
	IconTransmit Icon = "network-transmit"
	IconReceive  Icon = "network-receive"
	IconWarning  Icon = "dialog-warning"
	IconError    Icon = "dialog-error"
)

// Notification is one user-facing message.
type Notification struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Icon    Icon   `json:"icon"`
}

// Sink receives notifications. Implementations must not block on delivery
// and must never surface their own failures.
type Sink interface {
	Notify(ctx context.Context, n Notification)
}

// Spawner launches detached commands; satisfied by *runner.Runner.
type Spawner interface {
	SpawnDetached(cmd runner.Command)
}

// NewService builds the configured sinks. With desktop notifications disabled
// and no ntfy topic, a noop sink is returned.
func NewService(cfg *config.Config, spawner Spawner, logger *slog.Logger) Sink {
	logger = logging.NewComponentLogger(logger, "notifications")
	var sinks []Sink
	if cfg.Notifications.Desktop && spawner != nil {
		sinks = append(sinks, NewDesktop(cfg.Notifications.NotifySend, spawner))
	}
	if topic := strings.TrimSpace(cfg.Notifications.NtfyTopic); topic != "" {
		client := &http.Client{Timeout: cfg.NotifyTimeout()}
		sinks = append(sinks, NewNtfy(topic, client, logger))
	}
	switch len(sinks) {
	case 0:
		return Noop{}
	case 1:
		return sinks[0]
	default:
		return Fanout(sinks)
	}
}

// TestNotification is the message sent by `taildrop test-notify`.
func TestNotification() Notification {
	return Notification{
		Title:   "Taildrop",
		Message: "🧪 Notification system test",
		Icon:    IconTransmit,
	}
}

// Fanout delivers each notification to every sink in order.
type Fanout []Sink

func (f Fanout) Notify(ctx context.Context, n Notification) {
	for _, sink := range f {
		if sink != nil {
			sink.Notify(ctx, n)
		}
	}
}

// Wait implements Waiter.
func (f Fanout) Wait() {
	for _, sink := range f {
		Wait(sink)
	}
}

// Waiter is implemented by sinks that deliver in the background.
type Waiter interface {
	Wait()
}

// Wait blocks until s has finished pending deliveries. Short-lived processes
// call it before exiting so pushes are not cut off.
func Wait(s Sink) {
	if w, ok := s.(Waiter); ok {
		w.Wait()
	}
}

// Noop discards notifications.
type Noop struct{}

func (Noop) Notify(context.Context, Notification) {}
