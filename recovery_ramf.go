// Copyright 2024 The romscan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package rom

import "fmt"

// FindRAMF locates the RAMF record following the FID struct, tolerating
// drift up to the catalog's RAMFMaxDist (capped by maxDrift when
// maxDrift is nonzero). Variants with no RAMF header (RAMFHeader == 0)
// fall through to FindECUREC when the ECUREC feature is set.
//
// Like the other stages, a missing RAMF is not reported as an error:
// rf.Ramf stays Unknown and downstream fields are left unpopulated.
func FindRAMF(rf *RomFile, maxDrift uint32, diag func(string)) error {
	if !rf.Fid.Known() {
		return nil
	}
	typ := rf.Type
	buf := rf.Image.Data
	n := uint32(len(buf))

	if typ.RAMFHeader == 0 {
		if typ.Features.Has(ECUREC) {
			return FindECUREC(rf, diag)
		}
		return nil
	}

	expected := uint32(rf.Fid) + typ.SfidSize
	limit := typ.RAMFMaxDist
	if maxDrift != 0 && maxDrift < limit {
		limit = maxDrift
	}

	pRamf, drift, ok := sweepRAMF(buf, n, expected, typ.RAMFHeader, limit)
	if !ok {
		if diag != nil {
			diag(fmt.Sprintf("find_ramf: no RAMF header found within +/-%d of 0x%x", limit, expected))
		}
		return nil
	}
	if drift != 0 && diag != nil {
		diag(fmt.Sprintf("find_ramf: RAMF located with drift %+d from expected position", drift))
	}

	rf.Ramf = Offset(pRamf)
	rf.RamfOffset = drift

	rf.PRamJump = readRamfPointer(buf, n, pRamf, typ.OffRAMjump)
	rf.PRamDLAmax = readRamfPointer(buf, n, pRamf, typ.OffRAMDLAmax)

	rf.PPacksStart = addOffset(pRamf, typ.OffPacksStart, n)
	rf.PPacksEnd = addOffset(pRamf, typ.OffPacksEnd, n)

	if rf.PPacksStart.Known() && rf.PPacksEnd.Known() {
		start := ReadBE32(buf, uint32(rf.PPacksStart))
		end := ReadBE32(buf, uint32(rf.PPacksEnd))
		if start < end && end < n {
			rf.PAcStart = Offset(start)
			rf.PAcEnd = Offset(end)
		} else if diag != nil {
			diag("find_ramf: packs_start/packs_end out of bounds or non-monotonic, leaving unknown")
		}
	}

	pIVT2Loc := addOffset(pRamf, typ.OffPIVT2, n)
	if pIVT2Loc.Known() {
		cand := ReadBE32(buf, uint32(pIVT2Loc))
		if boundsOK(n, cand, ivtMinLen) && CheckIVT(buf[cand:], n-cand) {
			rf.Ivt2 = Offset(cand)
		} else if diag != nil {
			diag("find_ramf: p_ivt2 failed shape check, clearing to unknown")
		}
	}

	if !rf.Ivt2.Known() && typ.Features.Has(IVT2) {
		if off, confidence := bruteForceIVT2(buf, n); off.Known() {
			rf.Ivt2 = off
			if diag != nil {
				diag(fmt.Sprintf("find_ramf: brute-force located secondary IVT at %s, confidence %d", off, confidence))
			}
		}
	}

	return nil
}

// sweepRAMF reads the word at expected and, on mismatch, tries an
// alternating-sign sweep at increasing 4-byte magnitudes up to limit.
func sweepRAMF(buf []byte, n, expected, header, limit uint32) (pos uint32, drift int32, ok bool) {
	if boundsOK(n, expected, 4) && ReadBE32(buf, expected) == header {
		return expected, 0, true
	}
	for mag := uint32(4); mag <= limit; mag += 4 {
		if expected >= mag {
			lo := expected - mag
			if boundsOK(n, lo, 4) && ReadBE32(buf, lo) == header {
				return lo, -int32(mag), true
			}
		}
		hi := expected + mag
		if boundsOK(n, hi, 4) && ReadBE32(buf, hi) == header {
			return hi, int32(mag), true
		}
	}
	return 0, 0, false
}

func readRamfPointer(buf []byte, n, base, fieldOff uint32) Offset {
	loc := addOffset(base, fieldOff, n)
	if !loc.Known() {
		return Unknown
	}
	return Offset(ReadBE32(buf, uint32(loc)))
}

func addOffset(base, delta, n uint32) Offset {
	sum := base + delta
	if sum < base || !boundsOK(n, sum, 4) {
		return Unknown
	}
	return Offset(sum)
}

// bruteForceIVT2 scans past the primary IVT's minimum length for another
// plausible table, scoring confidence 75 when the SP word matches the
// canonical value and 50 otherwise.
func bruteForceIVT2(buf []byte, n uint32) (Offset, int) {
	for off := uint32(ivtMinLen); off+16 <= n; off += 4 {
		if !CheckIVT(buf[off:], n-off) {
			continue
		}
		confidence := 50
		if ReadBE32(buf, off+4) == canonicalIvtSP {
			confidence = 75
		}
		return Offset(off), confidence
	}
	return Unknown, 0
}
