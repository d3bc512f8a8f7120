// Copyright 2024 The romscan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package rom

import (
	"os"
	"strings"

	env "github.com/xyproto/env/v2"

	"github.com/open-ecu/romscan/internal/rlog"
)

// Default tuning values, applied by NewAnalyzer when the caller leaves
// the corresponding AnalyzeOptions field at its zero value and no
// environment override is present.
const (
	defaultMaxRAMFDrift = 64
)

// AnalyzeOptions configures an Analyzer, mirroring the teacher's
// Options struct: a plain struct with zero-value defaulting applied by
// the constructor rather than functional options.
type AnalyzeOptions struct {
	// Force disables CheckBounds rejection; analysis proceeds on images
	// outside [MinROMSize, MaxROMSize] or not a multiple of 4. A nil
	// Force is the "unset" sentinel, distinct from an explicit false, so
	// envOverrides can tell a caller's explicit AnalyzeOptions{Force:
	// Bool(false)} apart from a caller who never mentioned it. Use Bool
	// to build a literal.
	Force *bool

	// MaxRAMFDrift bounds how far FindRAMF searches away from the
	// expected position before giving up. Zero means "use the default".
	MaxRAMFDrift uint32

	// Logger receives every diagnostic at its natural level. Nil selects
	// rlog.NewStdLogger(os.Stderr) filtered at rlog.LevelWarn.
	Logger rlog.Logger

	// DiagSink, if non-nil, additionally receives every diagnostic as a
	// formatted string, independent of Logger's filter level.
	DiagSink func(string)
}

// envOverrides applies ROMSCAN_* environment variables to opts, but only
// for fields still at their unset value (zero for MaxRAMFDrift/Logger,
// nil for Force): an explicit caller-set value always wins over the
// environment.
func envOverrides(opts *AnalyzeOptions) {
	if opts.Force == nil {
		if env.Bool("ROMSCAN_FORCE") {
			opts.Force = Bool(true)
		}
	}
	if opts.MaxRAMFDrift == 0 {
		if v := env.Int("ROMSCAN_MAX_RAMF_DRIFT", 0); v > 0 {
			opts.MaxRAMFDrift = uint32(v)
		}
	}
	if opts.Logger == nil {
		if lvl, ok := parseLevel(env.Str("ROMSCAN_LOG_LEVEL", "")); ok {
			opts.Logger = rlog.NewFilter(rlog.NewStdLogger(os.Stderr), rlog.FilterLevel(lvl))
		}
	}
}

// Bool returns a pointer to b, for building AnalyzeOptions.Force literals.
func Bool(b bool) *bool {
	return &b
}

func parseLevel(s string) (rlog.Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return rlog.LevelDebug, true
	case "INFO":
		return rlog.LevelInfo, true
	case "WARN", "WARNING":
		return rlog.LevelWarn, true
	case "ERROR":
		return rlog.LevelError, true
	default:
		return rlog.LevelWarn, false
	}
}
