// Copyright 2024 The romscan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package rom

import "testing"

// TestFindRAMFExact is scenario S2: RAMF sits exactly at p_fid+sfid_size,
// its packs_start/packs_end fields point to a valid [0x20, 0x30) region,
// and its p_ivt2 field points at a shape-valid IVT.
func TestFindRAMFExact(t *testing.T) {
	buf := make([]byte, 0x2000)
	const pFid = 0x100
	const pRamf = pFid + 0x40

	WriteBE32(buf, pRamf, 0xFFFF8000)
	WriteBE32(buf, pRamf+0x0C, 0x20) // packs_start value
	WriteBE32(buf, pRamf+0x10, 0x30) // packs_end value
	WriteBE32(buf, pRamf+0x14, 0x1000)

	WriteBE32(buf, 0x1000, 0x00000104)
	WriteBE32(buf, 0x1004, canonicalIvtSP)
	WriteBE32(buf, 0x1008, 0x00000104)
	WriteBE32(buf, 0x100C, canonicalIvtSP)

	typ := FidType{
		SfidSize:      0x40,
		RAMFHeader:    0xFFFF8000,
		RAMFMaxDist:   64,
		OffRAMjump:    0x04,
		OffRAMDLAmax:  0x08,
		OffPacksStart: 0x0C,
		OffPacksEnd:   0x10,
		OffPIVT2:      0x14,
		Features:      ALTCKS,
	}

	rf := newTestRomFile(buf)
	rf.Fid = pFid
	rf.Type = typ

	if err := FindRAMF(rf, 0, nil); err != nil {
		t.Fatalf("FindRAMF() err = %v", err)
	}
	if rf.Ramf != pRamf {
		t.Fatalf("Ramf = %v, want 0x%x", rf.Ramf, pRamf)
	}
	if rf.RamfOffset != 0 {
		t.Errorf("RamfOffset = %d, want 0", rf.RamfOffset)
	}
	if rf.PAcStart != 0x20 || rf.PAcEnd != 0x30 {
		t.Errorf("PAcStart/PAcEnd = %v/%v, want 0x20/0x30", rf.PAcStart, rf.PAcEnd)
	}
	if rf.Ivt2 != 0x1000 {
		t.Errorf("Ivt2 = %v, want 0x1000", rf.Ivt2)
	}
}

// TestFindRAMFDrift is scenario S3: the header sits 8 bytes past the
// expected position; sweepRAMF tries +/-4 first (no match), then -8
// (no match), then +8 (match), yielding drift +8.
func TestFindRAMFDrift(t *testing.T) {
	buf := make([]byte, 0x400)
	const pFid = 0x100
	const expected = pFid + 0x40
	const pRamf = expected + 8

	WriteBE32(buf, pRamf, 0xFFFF8000)

	typ := FidType{
		SfidSize:    0x40,
		RAMFHeader:  0xFFFF8000,
		RAMFMaxDist: 64,
	}

	rf := newTestRomFile(buf)
	rf.Fid = pFid
	rf.Type = typ

	if err := FindRAMF(rf, 0, nil); err != nil {
		t.Fatalf("FindRAMF() err = %v", err)
	}
	if rf.Ramf != pRamf {
		t.Fatalf("Ramf = %v, want 0x%x", rf.Ramf, pRamf)
	}
	if rf.RamfOffset != 8 {
		t.Errorf("RamfOffset = %d, want 8", rf.RamfOffset)
	}
}

func TestFindRAMFNoHeaderNoECUREC(t *testing.T) {
	buf := make([]byte, 0x400)
	rf := newTestRomFile(buf)
	rf.Fid = 0x100
	rf.Type = FidType{RAMFHeader: 0}

	if err := FindRAMF(rf, 0, nil); err != nil {
		t.Fatalf("FindRAMF() err = %v", err)
	}
	if rf.Ramf.Known() {
		t.Errorf("Ramf = %v, want Unknown", rf.Ramf)
	}
}

// TestFindRAMFRejectsOutOfBoundsIvt2Pointer guards against a regression
// where a RAMF-controlled p_ivt2 value larger than len(buf), combined
// with a buffer shorter than ivtMinLen, passed the old "cand <
// n-ivtMinLen" guard (which underflows when n < ivtMinLen) and slicing
// buf[cand:] panicked.
func TestFindRAMFRejectsOutOfBoundsIvt2Pointer(t *testing.T) {
	buf := make([]byte, 0x80)
	const pFid = 0x10
	const pRamf = pFid + 0x40
	WriteBE32(buf, pRamf, 0xFFFF8000)
	WriteBE32(buf, pRamf+0x14, 0xFFFFFFF0) // p_ivt2: far past len(buf)

	typ := FidType{
		SfidSize:    0x40,
		RAMFHeader:  0xFFFF8000,
		RAMFMaxDist: 64,
		OffPIVT2:    0x14,
	}

	rf := newTestRomFile(buf)
	rf.Fid = pFid
	rf.Type = typ

	if err := FindRAMF(rf, 0, nil); err != nil {
		t.Fatalf("FindRAMF() err = %v", err)
	}
	if rf.Ivt2.Known() {
		t.Errorf("Ivt2 = %v, want Unknown for an out-of-bounds p_ivt2", rf.Ivt2)
	}
}

func TestFindRAMFBrutesForceIVT2(t *testing.T) {
	buf := make([]byte, 0x2000)
	const pFid = 0x100
	const pRamf = pFid + 0x40
	WriteBE32(buf, pRamf, 0xFFFF8000)
	// OffPIVT2 points at a zeroed word, which fails the IVT shape check
	// and forces the brute-force fallback.
	WriteBE32(buf, pRamf+0x14, 0)

	const bruteOff = 300
	WriteBE32(buf, bruteOff, 0x00000104)
	WriteBE32(buf, bruteOff+4, canonicalIvtSP)
	WriteBE32(buf, bruteOff+8, 0x00000104)
	WriteBE32(buf, bruteOff+12, canonicalIvtSP)

	typ := FidType{
		SfidSize:    0x40,
		RAMFHeader:  0xFFFF8000,
		RAMFMaxDist: 64,
		OffPIVT2:    0x14,
		Features:    IVT2,
	}

	rf := newTestRomFile(buf)
	rf.Fid = pFid
	rf.Type = typ

	if err := FindRAMF(rf, 0, nil); err != nil {
		t.Fatalf("FindRAMF() err = %v", err)
	}
	if rf.Ivt2 != bruteOff {
		t.Errorf("Ivt2 = %v, want 0x%x (brute-forced)", rf.Ivt2, bruteOff)
	}
}
