// Package runner executes external programs on behalf of the status cache and
// the dispatcher.
//
// RunBounded is the only call in taildrop that may block its caller, and only
// until its timeout elapses; the whole process group is killed at the deadline
// and output pipes are abandoned shortly after so a stuck grandchild cannot
// extend the wait. SpawnDetached launches a command under a session supervisor
// (systemd-run by default), falls back to a direct setsid spawn when the
// supervisor is not installed, and never reports anything back.
package runner
