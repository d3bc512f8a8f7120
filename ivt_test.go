// Copyright 2024 The romscan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package rom

import "testing"

func mkIVT(pc, sp uint32) []byte {
	buf := make([]byte, ivtMinLen)
	WriteBE32(buf, 0, pc)
	WriteBE32(buf, 4, sp)
	WriteBE32(buf, 8, pc)
	WriteBE32(buf, 12, sp)
	return buf
}

func TestCheckIVT(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want bool
	}{
		{"canonical", mkIVT(0x00000104, canonicalIvtSP), true},
		{"power-on/reset PC mismatch", func() []byte {
			b := mkIVT(0x00000104, canonicalIvtSP)
			WriteBE32(b, 8, 0x00000200)
			return b
		}(), false},
		{"power-on/reset SP mismatch", func() []byte {
			b := mkIVT(0x00000104, canonicalIvtSP)
			WriteBE32(b, 12, 0xFFFF0000)
			return b
		}(), false},
		{"PC too large", mkIVT(0x01000000, canonicalIvtSP), false},
		{"PC odd", mkIVT(0x00000105, canonicalIvtSP), false},
		{"SP below window", mkIVT(0x00000104, 0xFFFD0000), false},
		{"SP unaligned", mkIVT(0x00000104, 0xFFFF7FFD), false},
		{"too short", mkIVT(0x00000104, canonicalIvtSP)[:200], false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckIVT(tt.buf, uint32(len(tt.buf))); got != tt.want {
				t.Errorf("CheckIVT() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindIVT(t *testing.T) {
	buf := make([]byte, 512)
	ivt := mkIVT(0x00000104, canonicalIvtSP)
	copy(buf[32:], ivt)

	got := FindIVT(buf, 0)
	if got != 32 {
		t.Errorf("FindIVT() = %v, want 32", got)
	}
}

func TestFindIVTNoMatch(t *testing.T) {
	buf := make([]byte, 512)
	if got := FindIVT(buf, 0); got != Unknown {
		t.Errorf("FindIVT() = %v, want Unknown", got)
	}
}

func TestFindIVTRespectsStart(t *testing.T) {
	buf := make([]byte, 512)
	ivt := mkIVT(0x00000104, canonicalIvtSP)
	copy(buf[16:], ivt)

	if got := FindIVT(buf, 32); got != Unknown {
		t.Errorf("FindIVT() with start past the only match = %v, want Unknown", got)
	}
}
