// Package logtest provides a Logger that records entries for assertions.
package logtest

import (
	"context"
	"sync"

	"github.com/confium/confium-go/pkg/confium/logging"
)

// Entry is one recorded log call.
type Entry struct {
	Level string
	Msg   string
	Args  []any
}

// Recorder implements logging.Logger by appending every call to Entries.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

var _ logging.Logger = (*Recorder)(nil)

func (r *Recorder) Debug(_ context.Context, msg string, args ...any) { r.add("debug", msg, args) }
func (r *Recorder) Info(_ context.Context, msg string, args ...any)  { r.add("info", msg, args) }
func (r *Recorder) Warn(_ context.Context, msg string, args ...any)  { r.add("warn", msg, args) }
func (r *Recorder) Error(_ context.Context, msg string, args ...any) { r.add("error", msg, args) }

// With records args on every later entry of the returned child. Children
// share the parent's entry list.
func (r *Recorder) With(args ...any) logging.Logger {
	return &child{root: r, with: append([]any{}, args...)}
}

func (r *Recorder) add(level, msg string, args []any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Msg: msg, Args: append([]any{}, args...)})
}

// Entries returns a copy of the recorded entries.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Entry(nil), r.entries...)
}

// Levels returns the level of every entry in order.
func (r *Recorder) Levels() []string {
	var out []string
	for _, e := range r.Entries() {
		out = append(out, e.Level)
	}
	return out
}

type child struct {
	root *Recorder
	with []any
}

func (c *child) Debug(_ context.Context, msg string, args ...any) { c.add("debug", msg, args) }
func (c *child) Info(_ context.Context, msg string, args ...any)  { c.add("info", msg, args) }
func (c *child) Warn(_ context.Context, msg string, args ...any)  { c.add("warn", msg, args) }
func (c *child) Error(_ context.Context, msg string, args ...any) { c.add("error", msg, args) }

func (c *child) With(args ...any) logging.Logger {
	return &child{root: c.root, with: append(append([]any{}, c.with...), args...)}
}

func (c *child) add(level, msg string, args []any) {
	c.root.add(level, msg, append(append([]any{}, c.with...), args...))
}
