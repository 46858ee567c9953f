/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package logger is the ambient logging facility every component in this
// module threads through its constructors instead of reaching for a
// process-wide slot. The Logger interface is an io.WriteCloser plus level
// control and a fluent Entry builder, backed by logrus, with a thin
// adapter exposing the same facility as an hclog.Logger for callers in
// that ecosystem.
package logger

import (
	"io"
	"sync/atomic"
)

// Level orders severities the same way logrus and hclog both do.
type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// Entry is a fluent builder for one structured log line: attach fields,
// then terminate with Msg. It is not safe for concurrent use by multiple
// goroutines sharing the same Entry.
type Entry interface {
	Str(key, value string) Entry
	Int(key string, value int) Entry
	Err(err error) Entry
	Msg(msg string)
}

// Logger is the facility every component accepts through its options
// struct. It embeds io.WriteCloser so raw bytes (e.g. from an adapted
// hclog.Logger) can be forwarded without a second interface.
type Logger interface {
	io.WriteCloser

	SetLevel(lvl Level)
	GetLevel() Level

	Debug() Entry
	Info() Entry
	Warn() Entry
	Error() Entry

	// Entry starts a builder at an explicit level, for call sites that
	// decide the level dynamically.
	Entry(lvl Level) Entry
}

// nopLogger discards everything; used as the default when a component's
// options leave Logger nil, so every call site can unconditionally call
// log.Warn()... without a nil check. One Nop instance may be handed to
// several components running on different goroutines, so the level lives
// in an atomic (logrus guards its own level the same way). The zero value
// of the atomic maps to DebugLevel.
type nopLogger struct{ lvl atomic.Int32 }

// Nop returns a Logger that discards every entry.
func Nop() Logger {
	return &nopLogger{}
}

func (n *nopLogger) Write(p []byte) (int, error) { return len(p), nil }
func (n *nopLogger) Close() error                { return nil }
func (n *nopLogger) SetLevel(lvl Level)          { n.lvl.Store(int32(lvl)) }
func (n *nopLogger) GetLevel() Level             { return Level(n.lvl.Load()) }
func (n *nopLogger) Debug() Entry                { return nopEntry{} }
func (n *nopLogger) Info() Entry                 { return nopEntry{} }
func (n *nopLogger) Warn() Entry                 { return nopEntry{} }
func (n *nopLogger) Error() Entry                { return nopEntry{} }
func (n *nopLogger) Entry(Level) Entry           { return nopEntry{} }

type nopEntry struct{}

func (nopEntry) Str(string, string) Entry { return nopEntry{} }
func (nopEntry) Int(string, int) Entry    { return nopEntry{} }
func (nopEntry) Err(error) Entry          { return nopEntry{} }
func (nopEntry) Msg(string)               {}

// OrNop returns l unless it is nil, in which case it returns Nop(). Every
// package in this module that accepts an optional *Options.Logger calls
// this once at construction instead of nil-checking on every log call.
func OrNop(l Logger) Logger {
	if l == nil {
		return Nop()
	}
	return l
}
