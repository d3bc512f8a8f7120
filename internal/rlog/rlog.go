// Copyright 2024 The romscan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

// Package rlog is a small leveled-logging shim matching the call-site API
// the teacher module (saferwall/pe) uses from its own internal log
// subpackage (log.NewStdLogger, log.NewFilter, log.FilterLevel,
// log.NewHelper, Helper.Debugf/Infof/Warnf/Errorf). That subpackage's
// source is a sibling of the teacher module and wasn't part of the
// retrieved reference pack, so it's reimplemented here with the same
// surface rather than imported under a path this module doesn't own.
package rlog

import (
	"fmt"
	"io"
	"log"
)

// Level orders the severities from most to least verbose.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is the minimal sink every romscan component writes through.
type Logger interface {
	Log(level Level, msg string)
}

// stdLogger writes formatted lines to an io.Writer via the standard
// library logger.
type stdLogger struct {
	std *log.Logger
}

// NewStdLogger wraps w as a Logger, prefixing each line with its level.
func NewStdLogger(w io.Writer) Logger {
	return &stdLogger{std: log.New(w, "", log.LstdFlags)}
}

func (l *stdLogger) Log(level Level, msg string) {
	l.std.Printf("[%s] %s", level, msg)
}

// filterLogger drops any message below its configured threshold.
type filterLogger struct {
	next      Logger
	threshold Level
}

// FilterOption configures a filterLogger; currently only FilterLevel.
type FilterOption func(*filterLogger)

// FilterLevel sets the minimum level that passes the filter.
func FilterLevel(level Level) FilterOption {
	return func(f *filterLogger) { f.threshold = level }
}

// NewFilter wraps next so only messages at or above the configured
// threshold reach it.
func NewFilter(next Logger, opts ...FilterOption) Logger {
	f := &filterLogger{next: next, threshold: LevelDebug}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *filterLogger) Log(level Level, msg string) {
	if level < f.threshold {
		return
	}
	f.next.Log(level, msg)
}

// multiLogger fans a single message out to every member logger.
type multiLogger struct {
	loggers []Logger
}

// MultiLogger combines loggers so a single Log call reaches all of them;
// used to drive a caller-supplied diagnostic-sink callback alongside the
// default stderr logger without the pipeline code special-casing it.
func MultiLogger(loggers ...Logger) Logger {
	return &multiLogger{loggers: loggers}
}

func (m *multiLogger) Log(level Level, msg string) {
	for _, l := range m.loggers {
		if l != nil {
			l.Log(level, msg)
		}
	}
}

// funcLogger adapts a plain func(string) diagnostic sink into a Logger.
type funcLogger struct {
	fn func(string)
}

// NewFuncLogger wraps fn (a caller-supplied diagnostic sink) as a
// Logger; every level is formatted and passed through unconditionally.
func NewFuncLogger(fn func(string)) Logger {
	return &funcLogger{fn: fn}
}

func (f *funcLogger) Log(_ Level, msg string) {
	f.fn(msg)
}

// Helper provides the leveled convenience methods call sites use.
type Helper struct {
	logger Logger
}

// NewHelper wraps logger with Debugf/Infof/Warnf/Errorf convenience
// methods.
func NewHelper(logger Logger) *Helper {
	return &Helper{logger: logger}
}

func (h *Helper) Debugf(format string, args ...interface{}) {
	h.logger.Log(LevelDebug, fmt.Sprintf(format, args...))
}

func (h *Helper) Infof(format string, args ...interface{}) {
	h.logger.Log(LevelInfo, fmt.Sprintf(format, args...))
}

func (h *Helper) Warnf(format string, args ...interface{}) {
	h.logger.Log(LevelWarn, fmt.Sprintf(format, args...))
}

func (h *Helper) Errorf(format string, args ...interface{}) {
	h.logger.Log(LevelError, fmt.Sprintf(format, args...))
}
