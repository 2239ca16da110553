// Package dispatch defines the automation-engine boundary: resolved tasks
// are handed over one at a time and executed elsewhere. The Recorder is
// the built-in sink, emitting each task as a JSONL record.
package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/tactcli/tact/pkg/resolver"
)

// Engine accepts resolved tasks for asynchronous execution. The resolver
// does not inspect execution results; progress and completion are the
// engine's own concern.
type Engine interface {
	Append(ctx context.Context, task resolver.ResolvedTask) error
}

// Record is one JSONL line written by the Recorder.
type Record struct {
	RunID    string         `json:"run_id"`
	Seq      int            `json:"seq"`
	Type     string         `json:"type"`
	Params   map[string]any `json:"params"`
	QueuedAt time.Time      `json:"queued_at"`
}

// Recorder writes resolved tasks as JSONL records stamped with a run ID.
// It stands in for the real automation engine at the dispatch boundary
// and doubles as the test sink.
type Recorder struct {
	enc   *json.Encoder
	runID string
	seq   int
	now   func() time.Time
}

// NewRecorder creates a recorder writing to w under a fresh run ID.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{
		enc:   json.NewEncoder(w),
		runID: uuid.NewString(),
		now:   time.Now,
	}
}

// RunID returns the identifier stamped on every record of this run.
func (r *Recorder) RunID() string {
	return r.runID
}

// Append emits one resolved task as a JSONL record.
func (r *Recorder) Append(ctx context.Context, task resolver.ResolvedTask) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.seq++
	rec := Record{
		RunID:    r.runID,
		Seq:      r.seq,
		Type:     task.Type,
		Params:   task.Params,
		QueuedAt: r.now(),
	}
	if err := r.enc.Encode(rec); err != nil {
		return fmt.Errorf("encode task record: %w", err)
	}
	return nil
}
