// Copyright 2024 The romscan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package rom

import "testing"

// TestFindECUREC is scenario S4: a decoy occurrence of IVT2Expected at
// 0x40 has no matching ROMend field and must be skipped; the real one at
// 0x200 does, and its packs_start/packs_end fields are read relative to
// the computed ECUREC base.
func TestFindECUREC(t *testing.T) {
	buf := make([]byte, 0x80000)
	const needle = 0x0007FF00

	// Decoy: candVal=0x40, ppEcurec=0x2C, romEndLoc=0x48, left zero so
	// it cannot match expectedEnd.
	WriteBE32(buf, 0x40, needle)

	// Real: candVal=0x200, ppEcurec=0x1EC.
	WriteBE32(buf, 0x200, needle)
	WriteBE32(buf, 0x208, 0x7FFFF) // romEndLoc = 0x1EC + 0x1C, ROMSize-1 = 0x7FFFF
	WriteBE32(buf, 0x20C, 0x10)  // packs_start value
	WriteBE32(buf, 0x210, 0x30)  // packs_end value

	typ := FidType{
		ROMSize:       0x80000,
		OffPIVT2:      0x14,
		OffPROMend:    0x1C,
		OffPacksStart: 0x20,
		OffPacksEnd:   0x24,
		IVT2Expected:  needle,
		Features:      ECUREC,
	}

	rf := newTestRomFile(buf)
	rf.Type = typ

	if err := FindECUREC(rf, nil); err != nil {
		t.Fatalf("FindECUREC() err = %v", err)
	}
	if rf.Ecurec != 0x1EC {
		t.Fatalf("Ecurec = %v, want 0x1EC", rf.Ecurec)
	}
	if rf.Ivt2 != needle {
		t.Errorf("Ivt2 = %v, want 0x%x", rf.Ivt2, needle)
	}
	if rf.PAcStart != 0x10 || rf.PAcEnd != 0x30 {
		t.Errorf("PAcStart/PAcEnd = %v/%v, want 0x10/0x30", rf.PAcStart, rf.PAcEnd)
	}
}

func TestFindECURECNoMatch(t *testing.T) {
	buf := make([]byte, 0x400)
	typ := FidType{ROMSize: 0x400, IVT2Expected: 0x0007FF00, Features: ECUREC}

	rf := newTestRomFile(buf)
	rf.Type = typ

	if err := FindECUREC(rf, nil); err != nil {
		t.Fatalf("FindECUREC() err = %v", err)
	}
	if rf.Ecurec.Known() || rf.Ivt2.Known() {
		t.Errorf("Ecurec/Ivt2 = %v/%v, want both Unknown", rf.Ecurec, rf.Ivt2)
	}
}
