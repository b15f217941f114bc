package engine

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// TranscriptEvent is one attempt-terminating transition, written as a
// JSONL record. The transcript is purely observational: it is never
// consulted by engine logic and never used to resume a run.
type TranscriptEvent struct {
	Type       string     `json:"type"` // transition
	Timestamp  time.Time  `json:"timestamp"`
	Step       string     `json:"step"`
	Transition Transition `json:"transition"`
	Attempt    int        `json:"attempt"`
}

// TranscriptWriter appends TranscriptEvents to a JSONL file, flushing
// at every event so a halted process leaves a complete record.
type TranscriptWriter struct {
	file   *os.File
	writer *bufio.Writer
	enc    *json.Encoder
}

// NewTranscriptWriter creates a transcript writer appending to path.
func NewTranscriptWriter(path string) (*TranscriptWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open transcript file: %w", err)
	}
	w := bufio.NewWriter(f)
	return &TranscriptWriter{file: f, writer: w, enc: json.NewEncoder(w)}, nil
}

// Write appends one event and flushes it to disk.
func (tw *TranscriptWriter) Write(step string, t Transition, attempt int) error {
	ev := TranscriptEvent{
		Type:       "transition",
		Timestamp:  time.Now(),
		Step:       step,
		Transition: t,
		Attempt:    attempt,
	}
	if err := tw.enc.Encode(ev); err != nil {
		return fmt.Errorf("encode transcript event: %w", err)
	}
	if err := tw.writer.Flush(); err != nil {
		return fmt.Errorf("flush transcript: %w", err)
	}
	return nil
}

// Close flushes and closes the transcript file.
func (tw *TranscriptWriter) Close() error {
	if err := tw.writer.Flush(); err != nil {
		return err
	}
	return tw.file.Close()
}
