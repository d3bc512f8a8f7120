// Copyright 2024 The romscan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package rom

import (
	"os"

	"github.com/open-ecu/romscan/internal/rlog"
)

// Analyzer runs the structural recovery pipeline over an Image. It holds
// no per-image state of its own; NewAnalyzer is cheap and an Analyzer
// may be reused across any number of Analyze calls, including
// concurrently, mirroring the teacher's stateless File-parsing entry
// point.
type Analyzer struct {
	opts   AnalyzeOptions
	logger *rlog.Helper
}

// NewAnalyzer applies defaults (in order: caller-supplied value, then
// environment override, then built-in default) and returns a ready
// Analyzer.
func NewAnalyzer(opts *AnalyzeOptions) *Analyzer {
	var o AnalyzeOptions
	if opts != nil {
		o = *opts
	}
	envOverrides(&o)

	if o.Force == nil {
		o.Force = Bool(false)
	}
	if o.MaxRAMFDrift == 0 {
		o.MaxRAMFDrift = defaultMaxRAMFDrift
	}
	if o.Logger == nil {
		o.Logger = rlog.NewFilter(rlog.NewStdLogger(os.Stderr), rlog.FilterLevel(rlog.LevelWarn))
	}

	logger := o.Logger
	if o.DiagSink != nil {
		logger = rlog.MultiLogger(o.Logger, rlog.NewFuncLogger(o.DiagSink))
	}

	return &Analyzer{opts: o, logger: rlog.NewHelper(logger)}
}

// Analyze runs every recovery stage in order over img against fidTable
// and returns a fully populated RomFile. The only bona-fide error is a
// size-bounds violation (unless AnalyzeOptions.Force was set); every
// other missing structure simply leaves its RomFile fields at their
// Unknown/zero defaults and lets the remaining stages run to completion
// as far as they can.
func (a *Analyzer) Analyze(img *Image, fidTable []FidType) (*RomFile, error) {
	diag := func(msg string) { a.logger.Warnf("%s", msg) }

	if err := img.CheckBounds(*a.opts.Force); err != nil {
		a.logger.Errorf("%s", err.Error())
		return nil, err
	}

	rf := newRomFile(img)

	FindLoader(rf, diag)

	if err := FindFID(rf, fidTable, diag); err != nil {
		a.logger.Warnf("find_fid: %s", err.Error())
		return rf, nil
	}

	if rf.Fid.Known() {
		if err := FindRAMF(rf, a.opts.MaxRAMFDrift, diag); err != nil {
			a.logger.Warnf("find_ramf: %s", err.Error())
		}
	}

	if rf.PAcStart.Known() && rf.PAcEnd.Known() {
		ValidateAltCks(rf, diag)
	}
	AnchorAlt2Cks(rf, diag)

	rf.HasRM160 = CheckRM160(img.Data)

	if pCks, pCkx, err := ChecksumStd(img.Data, uint32(img.Len()), diag); err == nil {
		rf.PCks = pCks
		rf.PCkx = pCkx
	} else {
		a.logger.Warnf("checksum_std: %s", err.Error())
	}

	return rf, nil
}
