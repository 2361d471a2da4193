package notifications

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"taildrop/internal/logging"
)

const userAgent = "taildrop/0.1.0"

// Ntfy pushes notifications to an ntfy topic URL.
type Ntfy struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
	done     func(error)
	inflight sync.WaitGroup
}

// NewNtfy returns a sink posting to endpoint with client.
func NewNtfy(endpoint string, client *http.Client, logger *slog.Logger) *Ntfy {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Ntfy{endpoint: endpoint, client: client, logger: logger}
}

// OnDelivered registers a callback run after each delivery attempt. Tests use
// it to wait for the background request.
func (n *Ntfy) OnDelivered(fn func(error)) {
	n.done = fn
}

// Notify posts in the background; failures are logged.
func (n *Ntfy) Notify(ctx context.Context, note Notification) {
	if n == nil || n.client == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithoutCancel(ctx)
	n.inflight.Add(1)
	go func() {
		defer n.inflight.Done()
		err := n.send(ctx, note)
		if err != nil {
			logging.WarnWithContext(n.logger, "ntfy delivery failed", "ntfy_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "push notification was not delivered"),
				logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"))
		}
		if n.done != nil {
			n.done(err)
		}
	}()
}

// Wait blocks until every background delivery has finished.
func (n *Ntfy) Wait() {
	n.inflight.Wait()
}

func (n *Ntfy) send(ctx context.Context, note Notification) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(note.Message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if note.Title != "" {
		req.Header.Set("Title", note.Title)
	}
	tags, priority := ntfyStyle(note.Icon)
	req.Header.Set("Tags", strings.Join(tags, ","))
	if priority != "" {
		req.Header.Set("Priority", priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// ntfyStyle maps an icon hint to ntfy emoji tags and priority.
func ntfyStyle(icon Icon) ([]string, string) {
	switch icon {
	case IconError:
		return []string{"taildrop", "x"}, "high"
	case IconWarning:
		return []string{"taildrop", "warning"}, ""
	case IconReceive:
		return []string{"taildrop", "inbox_tray"}, ""
	default:
		return []string{"taildrop", "outbox_tray"}, ""
	}
}
