package telemetry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// EventLog writes EventRecords as zstd-compressed JSON lines.
type EventLog struct {
	file *os.File
	zw   *zstd.Encoder
	buf  *bufio.Writer
	enc  *json.Encoder

	written int
}

// NewEventLog creates the log file at path.
func NewEventLog(path string) (*EventLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating event log: %w", err)
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	buf := bufio.NewWriter(zw)
	return &EventLog{file: f, zw: zw, buf: buf, enc: json.NewEncoder(buf)}, nil
}

// Write appends one record.
func (l *EventLog) Write(rec EventRecord) error {
	if l == nil {
		return nil
	}
	if err := l.enc.Encode(rec); err != nil {
		return fmt.Errorf("writing event: %w", err)
	}
	l.written++
	return nil
}

// Written returns the number of records written.
func (l *EventLog) Written() int {
	if l == nil {
		return 0
	}
	return l.written
}

// Close flushes the compressed stream and closes the file.
func (l *EventLog) Close() error {
	if l == nil {
		return nil
	}
	var firstErr error
	if err := l.buf.Flush(); err != nil {
		firstErr = err
	}
	if err := l.zw.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := l.file.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// ReadEventLog decodes every record from a compressed log.
func ReadEventLog(r io.Reader) ([]EventRecord, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening zstd stream: %w", err)
	}
	defer zr.Close()

	var out []EventRecord
	dec := json.NewDecoder(zr)
	for {
		var rec EventRecord
		if err := dec.Decode(&rec); err == io.EOF {
			return out, nil
		} else if err != nil {
			return out, fmt.Errorf("decoding event: %w", err)
		}
		out = append(out, rec)
	}
}
