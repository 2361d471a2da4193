package dispatch_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"taildrop/internal/dispatch"
	"taildrop/internal/logging"
	"taildrop/internal/notifications"
	"taildrop/internal/runner"
	"taildrop/internal/testsupport"
)

type recordingSpawner struct {
	mu       sync.Mutex
	commands []runner.Command
}

func (r *recordingSpawner) SpawnDetached(cmd runner.Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, cmd)
}

func newDispatcher(spawner dispatch.Spawner, sink notifications.Sink, conflict string) *dispatch.Dispatcher {
	return dispatch.New(spawner, sink, dispatch.Options{
		Binary:   "/usr/bin/tailscale",
		Conflict: conflict,
		NewID:    func() string { return "req-1" },
	})
}

func TestSendWithNoPathsDoesNothing(t *testing.T) {
	spawner := &recordingSpawner{}
	sink := &notifications.Recorder{}
	newDispatcher(spawner, sink, "").Send(context.Background(), nil, "laptop")

	if sink.Len() != 0 {
		t.Fatalf("expected no notification, got %+v", sink.Notifications())
	}
	if len(spawner.commands) != 0 {
		t.Fatalf("expected no spawn, got %+v", spawner.commands)
	}
}

func TestSendSingleFile(t *testing.T) {
	spawner := &recordingSpawner{}
	sink := &notifications.Recorder{}
	newDispatcher(spawner, sink, "").Send(context.Background(), []string{"/home/u/report.pdf"}, "laptop")

	notes := sink.Notifications()
	if len(notes) != 1 {
		t.Fatalf("expected one notification, got %+v", notes)
	}
	if notes[0].Message != "Sending “report.pdf” to laptop…" {
		t.Fatalf("unexpected message %q", notes[0].Message)
	}
	if notes[0].Icon != notifications.IconTransmit {
		t.Fatalf("unexpected icon %q", notes[0].Icon)
	}

	want := runner.Command{Path: "/usr/bin/tailscale", Args: []string{"file", "cp", "/home/u/report.pdf", "laptop:"}}
	if !reflect.DeepEqual(spawner.commands, []runner.Command{want}) {
		t.Fatalf("unexpected commands: %+v", spawner.commands)
	}
}

func TestSendMultipleFiles(t *testing.T) {
	spawner := &recordingSpawner{}
	sink := &notifications.Recorder{}
	newDispatcher(spawner, sink, "").Send(context.Background(), []string{"/a", "/b", "/c"}, "phone:")

	if got := sink.Notifications()[0].Message; got != "Sending 3 files to phone:…" {
		t.Fatalf("unexpected message %q", got)
	}
	want := []string{"file", "cp", "/a", "/b", "/c", "phone:"}
	if !reflect.DeepEqual(spawner.commands[0].Args, want) {
		t.Fatalf("unexpected args: got %v want %v", spawner.commands[0].Args, want)
	}
}

func TestReceiveBuildsGetCommand(t *testing.T) {
	tests := []struct {
		name     string
		conflict string
		want     []string
	}{
		{name: "default", want: []string{"file", "get", "/tmp/inbox"}},
		{name: "rename", conflict: "rename", want: []string{"file", "get", "--conflict=rename", "/tmp/inbox"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spawner := &recordingSpawner{}
			sink := &notifications.Recorder{}
			newDispatcher(spawner, sink, tc.conflict).Receive(context.Background(), "/tmp/inbox")

			if len(spawner.commands) != 1 || !reflect.DeepEqual(spawner.commands[0].Args, tc.want) {
				t.Fatalf("unexpected commands: %+v", spawner.commands)
			}
			notes := sink.Notifications()
			if len(notes) != 1 || notes[0].Icon != notifications.IconReceive {
				t.Fatalf("unexpected notifications: %+v", notes)
			}
		})
	}
}

func TestSendReturnsWhileTransferHangs(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "started")
	binary := testsupport.WriteScript(t, filepath.Join(dir, "tailscale"),
		"touch "+marker+"\nexec sleep 30\n")

	exited := make(chan struct{}, 1)
	run := runner.New(runner.WithExitHook(func(runner.Command, error) { exited <- struct{}{} }))
	sink := &notifications.Recorder{}
	d := dispatch.New(run, sink, dispatch.Options{Binary: binary})

	started := time.Now()
	d.Send(context.Background(), []string{"/etc/hostname"}, "laptop")
	if elapsed := time.Since(started); elapsed > time.Second {
		t.Fatalf("Send blocked for %s", elapsed)
	}
	if sink.Len() != 1 {
		t.Fatalf("expected notification, got %d", sink.Len())
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		if _, err := os.Stat(marker); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("detached transfer never started")
		}
		time.Sleep(20 * time.Millisecond)
	}
	select {
	case <-exited:
		t.Fatal("hanging transfer exited early")
	default:
	}
}

func TestSendKeepsCallerCorrelationID(t *testing.T) {
	spawner := &recordingSpawner{}
	d := dispatch.New(spawner, nil, dispatch.Options{NewID: func() string {
		t.Fatal("unexpected id generation")
		return ""
	}})
	ctx := logging.WithCorrelationID(context.Background(), "caller")
	d.Send(ctx, []string{"/a"}, "laptop")
	if len(spawner.commands) != 1 {
		t.Fatalf("expected spawn, got %+v", spawner.commands)
	}
}

func TestFilterLocal(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present.txt")
	testsupport.WriteFile(t, present, 4)
	t.Chdir(dir)

	got := dispatch.FilterLocal([]string{
		"",
		present,
		"present.txt",
		"file://" + present,
		filepath.Join(dir, "missing.txt"),
		"smb://nas/share/file.txt",
	})
	want := []string{present, present, present}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected filter result: got %v want %v", got, want)
	}
}

func TestSendSelectionWithoutLocalFilesWarns(t *testing.T) {
	spawner := &recordingSpawner{}
	sink := &notifications.Recorder{}
	sent := newDispatcher(spawner, sink, "").SendSelection(context.Background(), []string{"sftp://host/x"}, "laptop")

	if sent != 0 || len(spawner.commands) != 0 {
		t.Fatalf("expected nothing sent, got %d %+v", sent, spawner.commands)
	}
	notes := sink.Notifications()
	if len(notes) != 1 || notes[0].Message != "No local file selected." || notes[0].Icon != notifications.IconWarning {
		t.Fatalf("unexpected notifications: %+v", notes)
	}
}
