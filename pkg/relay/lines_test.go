// Copyright © 2025 Prabhjot Singh Sethi, All Rights reserved
// Author: Prabhjot Singh Sethi <prabhjot.sethi@gmail.com>

package relay

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// scriptedReader returns one step per Read call, mirroring how a chunked
// network body arrives in pieces.
type scriptedReader struct {
	steps []scriptStep
	pos   int
}

type scriptStep struct {
	data string
	err  error
}

func (r *scriptedReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.steps) {
		return 0, io.EOF
	}
	step := r.steps[r.pos]
	r.pos++
	n := copy(p, step.data)
	return n, step.err
}

type countingFlusher struct {
	flushes int
}

func (f *countingFlusher) Flush() {
	f.flushes++
}

func TestRelayLinesSplitsAcrossReads(t *testing.T) {
	src := &scriptedReader{steps: []scriptStep{
		{data: "data: he"},
		{data: "llo\n\nda"},
		{data: "ta: [DONE]\n\n"},
	}}
	var sink bytes.Buffer
	flusher := &countingFlusher{}

	lines, err := relayLines(&sink, flusher, src)
	if err != nil {
		t.Fatalf("relayLines: %v", err)
	}

	if got, want := sink.String(), "data: hello\ndata: [DONE]\n"; got != want {
		t.Errorf("output mismatch: got %q, want %q", got, want)
	}
	if lines != 2 {
		t.Errorf("expected 2 lines, got %d", lines)
	}
	if flusher.flushes != 2 {
		t.Errorf("expected a flush per line, got %d", flusher.flushes)
	}
}

func TestRelayLinesStripsCarriageReturns(t *testing.T) {
	src := &scriptedReader{steps: []scriptStep{{data: "alpha\r\nbeta\r\n"}}}
	var sink bytes.Buffer

	lines, err := relayLines(&sink, &countingFlusher{}, src)
	if err != nil {
		t.Fatalf("relayLines: %v", err)
	}
	if got, want := sink.String(), "alpha\nbeta\n"; got != want {
		t.Errorf("output mismatch: got %q, want %q", got, want)
	}
	if lines != 2 {
		t.Errorf("expected 2 lines, got %d", lines)
	}
}

func TestRelayLinesBlankInputProducesNothing(t *testing.T) {
	src := &scriptedReader{steps: []scriptStep{{data: "\n\n\r\n\n"}}}
	var sink bytes.Buffer
	flusher := &countingFlusher{}

	lines, err := relayLines(&sink, flusher, src)
	if err != nil {
		t.Fatalf("relayLines: %v", err)
	}
	if sink.Len() != 0 {
		t.Errorf("expected no output, got %q", sink.String())
	}
	if lines != 0 || flusher.flushes != 0 {
		t.Errorf("expected no lines or flushes, got %d lines %d flushes", lines, flusher.flushes)
	}
}

func TestRelayLinesEmitsTrailingPartialAtEOF(t *testing.T) {
	src := &scriptedReader{steps: []scriptStep{{data: "first\nsecond"}}}
	var sink bytes.Buffer

	lines, err := relayLines(&sink, &countingFlusher{}, src)
	if err != nil {
		t.Fatalf("relayLines: %v", err)
	}
	if got, want := sink.String(), "first\nsecond\n"; got != want {
		t.Errorf("output mismatch: got %q, want %q", got, want)
	}
	if lines != 2 {
		t.Errorf("expected 2 lines, got %d", lines)
	}
}

func TestRelayLinesDropsPartialOnReadError(t *testing.T) {
	readErr := errors.New("connection reset")
	src := &scriptedReader{steps: []scriptStep{
		{data: "first\npart"},
		{err: readErr},
	}}
	var sink bytes.Buffer

	lines, err := relayLines(&sink, &countingFlusher{}, src)
	if !errors.Is(err, readErr) {
		t.Fatalf("expected read error, got %v", err)
	}
	if got, want := sink.String(), "first\n"; got != want {
		t.Errorf("output mismatch: got %q, want %q", got, want)
	}
	if lines != 1 {
		t.Errorf("expected 1 line, got %d", lines)
	}
}

type failingWriter struct {
	writes int
	limit  int
}

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.writes > w.limit {
		return 0, errors.New("client gone")
	}
	return len(p), nil
}

func TestRelayLinesStopsOnWriteError(t *testing.T) {
	src := &scriptedReader{steps: []scriptStep{
		{data: "first\nsecond\nthird\n"},
	}}
	// Allow the first line (content + newline), then fail.
	sink := &failingWriter{limit: 2}

	lines, err := relayLines(sink, &countingFlusher{}, src)
	if err == nil {
		t.Fatal("expected write error")
	}
	if lines != 1 {
		t.Errorf("expected 1 line before failure, got %d", lines)
	}
	if src.pos > 1 {
		t.Errorf("expected no further reads after write failure, got %d", src.pos)
	}
}
