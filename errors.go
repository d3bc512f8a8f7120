// Copyright 2024 The romscan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package rom

import "fmt"

// Kind discriminates the handful of error conditions the analyzer can
// report. Most stages never return an error at all: a missing structure
// just leaves its offset at Unknown (see NotFound below) and lets the
// pipeline continue.
type Kind int

const (
	// InputBounds: image size is outside [MinROMSize, MaxROMSize] or is
	// not a multiple of 4. Fatal unless AnalyzeOptions.Force is set.
	InputBounds Kind = iota

	// NotFound: a stage could not locate its structure or anchor. Not
	// returned as an error by the pipeline itself (the corresponding
	// offsets are simply left at Unknown); exposed here for callers that
	// want to classify a wrapped error from a lower-level search helper.
	NotFound

	// UnknownFidType: the FID-CPU string didn't match any catalog entry.
	UnknownFidType

	// Infeasible: checksum_fix reached a provably unsolvable mangler
	// floor. The buffer is left untouched.
	Infeasible

	// Malformed: offsets violated a monotonicity or bounds invariant.
	// The pipeline stages do not return it: they leave the offending
	// offsets at Unknown and continue. ChecksumFix returns it for
	// correction offsets that are unaligned, out of range or not
	// distinct, and when its verification fold fails.
	Malformed
)

func (k Kind) String() string {
	switch k {
	case InputBounds:
		return "InputBounds"
	case NotFound:
		return "NotFound"
	case UnknownFidType:
		return "UnknownFidType"
	case Infeasible:
		return "Infeasible"
	case Malformed:
		return "Malformed"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned by romscan. Offset is set
// when the error pertains to a specific location in the image; it is
// Unknown otherwise.
type Error struct {
	Kind    Kind
	Offset  Offset
	Message string
}

func (e *Error) Error() string {
	if e.Offset.Known() {
		return fmt.Sprintf("%s at 0x%x: %s", e.Kind, uint32(e.Offset), e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind Kind, offset Offset, message string) *Error {
	return &Error{Kind: kind, Offset: offset, Message: message}
}

// Sentinel errors for the common cases, in the teacher's flat
// package-level style. Wrap with errors.As(&*Error) to recover Kind and
// Offset when they matter.
var (
	ErrInputBounds     = newError(InputBounds, Unknown, "image size outside bounds or not a multiple of 4")
	ErrUnknownFidType  = newError(UnknownFidType, Unknown, "FID-CPU string does not match any catalog entry")
	ErrInfeasible      = newError(Infeasible, Unknown, "checksum_fix: mangler reached its floor, no solution exists")
	ErrChecksumNoMatch = newError(NotFound, Unknown, "no aligned word in the image matches the computed checksum target")
)
