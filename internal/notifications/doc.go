// Package notifications delivers user-facing messages for taildrop.
//
// The desktop implementation hands the message to notify-send through the
// detached runner, so a missing or slow notification daemon never holds up
// the caller. An optional ntfy transport pushes the same messages to a phone.
// Every Sink is fire-and-forget: Notify has no error return and delivery
// failures only reach the log.
package notifications
