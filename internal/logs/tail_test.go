package logs_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"taildrop/internal/logs"
)

func writeLog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taildrop.log")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestTailLastLines(t *testing.T) {
	path := writeLog(t, "a\nb\nc\n")

	result, err := logs.Tail(context.Background(), path, logs.TailOptions{Offset: -1, Limit: 2})
	if err != nil {
		t.Fatalf("tail returned error: %v", err)
	}
	if !reflect.DeepEqual(result.Lines, []string{"b", "c"}) {
		t.Fatalf("unexpected lines: %#v", result.Lines)
	}
	if result.Offset != 6 {
		t.Fatalf("expected offset at end of file, got %d", result.Offset)
	}
}

func TestTailFromOffsetLeavesPartialLine(t *testing.T) {
	path := writeLog(t, "one\ntwo\npart")

	result, err := logs.Tail(context.Background(), path, logs.TailOptions{Offset: 4})
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if !reflect.DeepEqual(result.Lines, []string{"two"}) || result.Offset != 8 {
		t.Fatalf("unexpected result %#v", result)
	}
}

func TestTailMissingFile(t *testing.T) {
	result, err := logs.Tail(context.Background(), filepath.Join(t.TempDir(), "none.log"), logs.TailOptions{Offset: -1, Limit: 5})
	if err != nil {
		t.Fatalf("tail: %v", err)
	}
	if len(result.Lines) != 0 || result.Offset != 0 {
		t.Fatalf("unexpected result %#v", result)
	}
}

func TestTailFilterJSON(t *testing.T) {
	path := writeLog(t, `{"level":"INFO","msg":"a","component":"status","correlation_id":"r1"}
{"level":"WARN","msg":"b","component":"status","correlation_id":"r2"}
{"level":"INFO","msg":"c","component":"dispatch","correlation_id":"r2"}
plain console line r2
`)
	tests := []struct {
		name   string
		filter logs.Filter
		want   int
	}{
		{name: "none", want: 4},
		{name: "component", filter: logs.Filter{Component: "status"}, want: 2},
		{name: "correlation", filter: logs.Filter{CorrelationID: "r2"}, want: 3},
		{name: "level", filter: logs.Filter{MinLevel: "warn"}, want: 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := logs.Tail(context.Background(), path, logs.TailOptions{Offset: -1, Limit: 10, Filter: tc.filter})
			if err != nil {
				t.Fatalf("tail: %v", err)
			}
			if len(result.Lines) != tc.want {
				t.Fatalf("expected %d lines, got %#v", tc.want, result.Lines)
			}
		})
	}
}

func TestTailFollowWaits(t *testing.T) {
	path := writeLog(t, "start\n")

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	result, err := logs.Tail(ctx, path, logs.TailOptions{Offset: -1, Limit: 1})
	if err != nil {
		t.Fatalf("initial tail: %v", err)
	}

	done := make(chan logs.TailResult, 1)
	go func(offset int64) {
		res, err := logs.Tail(ctx, path, logs.TailOptions{Offset: offset, Follow: true, Wait: 5 * time.Second})
		if err != nil {
			t.Errorf("follow tail error: %v", err)
		}
		done <- res
	}(result.Offset)

	time.Sleep(200 * time.Millisecond)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if _, err := f.WriteString("later\n"); err != nil {
		t.Fatalf("append log: %v", err)
	}
	_ = f.Close()

	select {
	case res := <-done:
		if !reflect.DeepEqual(res.Lines, []string{"later"}) {
			t.Fatalf("unexpected follow lines: %#v", res.Lines)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("tail follow did not return")
	}
}

func TestFollowStopsOnCancel(t *testing.T) {
	path := writeLog(t, "")
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var got []string
	if err := logs.Follow(ctx, path, 0, logs.Filter{}, func(line string) { got = append(got, line) }); err != nil {
		t.Fatalf("follow: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no lines, got %#v", got)
	}
}
