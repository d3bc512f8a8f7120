// Copyright 2024 The romscan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package rlog

import (
	"strings"
	"testing"
)

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) Log(level Level, msg string) {
	r.lines = append(r.lines, level.String()+": "+msg)
}

func TestFilterDropsBelowThreshold(t *testing.T) {
	rec := &recordingLogger{}
	f := NewFilter(rec, FilterLevel(LevelWarn))

	f.Log(LevelDebug, "debug line")
	f.Log(LevelInfo, "info line")
	f.Log(LevelWarn, "warn line")
	f.Log(LevelError, "error line")

	if len(rec.lines) != 2 {
		t.Fatalf("got %d lines, want 2: %v", len(rec.lines), rec.lines)
	}
	if !strings.HasPrefix(rec.lines[0], "WARN") || !strings.HasPrefix(rec.lines[1], "ERROR") {
		t.Errorf("lines = %v, want WARN then ERROR", rec.lines)
	}
}

func TestMultiLoggerFansOut(t *testing.T) {
	a, b := &recordingLogger{}, &recordingLogger{}
	m := MultiLogger(a, b)

	m.Log(LevelInfo, "hello")

	if len(a.lines) != 1 || len(b.lines) != 1 {
		t.Fatalf("a=%v b=%v, want one line each", a.lines, b.lines)
	}
}

func TestMultiLoggerSkipsNil(t *testing.T) {
	a := &recordingLogger{}
	m := MultiLogger(a, nil)
	m.Log(LevelInfo, "hello")
	if len(a.lines) != 1 {
		t.Fatalf("a=%v, want one line (nil member must not panic)", a.lines)
	}
}

func TestFuncLogger(t *testing.T) {
	var got string
	l := NewFuncLogger(func(msg string) { got = msg })
	l.Log(LevelError, "boom")
	if got != "boom" {
		t.Errorf("got %q, want %q", got, "boom")
	}
}

func TestHelperFormatsArgs(t *testing.T) {
	rec := &recordingLogger{}
	h := NewHelper(rec)
	h.Warnf("value=%d", 42)
	if len(rec.lines) != 1 || !strings.Contains(rec.lines[0], "value=42") {
		t.Errorf("lines = %v, want a formatted WARN line", rec.lines)
	}
}
