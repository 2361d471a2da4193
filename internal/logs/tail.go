package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

const pollInterval = 250 * time.Millisecond

// TailOptions selects which part of the log file is returned. A negative
// Offset means "the last Limit lines"; otherwise lines are read from Offset.
type TailOptions struct {
	Offset int64
	Limit  int
	Follow bool
	Wait   time.Duration
	Filter Filter
}

// TailResult holds the matching lines and the offset to resume from.
type TailResult struct {
	Lines  []string
	Offset int64
}

// Tail reads lines from the log at path. A missing file yields no lines and
// offset zero so a follower can start before the daemon writes anything.
func Tail(ctx context.Context, path string, opts TailOptions) (TailResult, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		if opts.Follow && opts.Wait > 0 {
			return waitForLines(ctx, path, 0, opts)
		}
		return TailResult{}, nil
	}
	if err != nil {
		return TailResult{Offset: opts.Offset}, fmt.Errorf("stat log file: %w", err)
	}
	if info.IsDir() {
		return TailResult{Offset: opts.Offset}, fmt.Errorf("log path %q is a directory", path)
	}

	var result TailResult
	if opts.Offset < 0 {
		result.Lines, result.Offset, err = lastLines(path, opts.Limit, opts.Filter)
	} else {
		offset := opts.Offset
		if offset > info.Size() {
			// Truncated or rotated; start over.
			offset = 0
		}
		result.Lines, result.Offset, err = readFrom(path, offset, opts.Filter)
	}
	if err != nil {
		return result, err
	}
	if len(result.Lines) == 0 && opts.Follow && opts.Wait > 0 {
		return waitForLines(ctx, path, result.Offset, opts)
	}
	return result, nil
}

// Follow streams lines appended after offset to emit until ctx ends.
func Follow(ctx context.Context, path string, offset int64, filter Filter, emit func(string)) error {
	opts := TailOptions{Offset: offset, Follow: true, Wait: time.Minute, Filter: filter}
	for {
		result, err := Tail(ctx, path, opts)
		for _, line := range result.Lines {
			emit(line)
		}
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		opts.Offset = result.Offset
	}
}

func lastLines(path string, limit int, filter Filter) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if limit <= 0 {
		end, err := file.Seek(0, io.SeekEnd)
		if err != nil {
			return nil, 0, fmt.Errorf("seek log file: %w", err)
		}
		return nil, end, nil
	}

	ring := make([]string, limit)
	count, next := 0, 0
	end, err := scan(file, filter, func(line string) {
		ring[next] = line
		next = (next + 1) % limit
		if count < limit {
			count++
		}
	})
	if err != nil {
		return nil, 0, err
	}

	lines := make([]string, 0, count)
	start := 0
	if count == limit {
		start = next
	}
	for i := range count {
		lines = append(lines, ring[(start+i)%limit])
	}
	return lines, end, nil
}

func readFrom(path string, offset int64, filter Filter) ([]string, int64, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, offset, fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return nil, offset, fmt.Errorf("seek log file: %w", err)
	}
	var lines []string
	read, err := scan(file, filter, func(line string) { lines = append(lines, line) })
	if err != nil {
		return nil, offset, err
	}
	return lines, offset + read, nil
}

// scan feeds complete, matching lines to fn and returns how many bytes it
// consumed. A trailing partial line is left for the next read.
func scan(r io.Reader, filter Filter, fn func(string)) (int64, error) {
	reader := bufio.NewReaderSize(r, 64*1024)
	var consumed int64
	for {
		line, err := reader.ReadString('\n')
		if errors.Is(err, io.EOF) {
			return consumed, nil
		}
		if err != nil {
			return consumed, fmt.Errorf("read log file: %w", err)
		}
		consumed += int64(len(line))
		line = line[:len(line)-1]
		if filter.Match(line) {
			fn(line)
		}
	}
}

func waitForLines(ctx context.Context, path string, offset int64, opts TailOptions) (TailResult, error) {
	deadline := time.Now().Add(opts.Wait)
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	result := TailResult{Offset: offset}
	for {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-ticker.C:
		}

		lines, next, err := readFrom(path, result.Offset, opts.Filter)
		if err != nil {
			return result, err
		}
		result.Offset = next
		if len(lines) > 0 {
			result.Lines = lines
			return result, nil
		}
		if time.Now().After(deadline) {
			return result, nil
		}
	}
}
