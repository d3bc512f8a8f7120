// Copyright 2024 The romscan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package rom

const (
	rm160ConstA = 0x67452301
	rm160ConstB = 0x98BADCFE
)

// ValidateAltCks recomputes the fold over [p_acstart, p_acend) and
// locates the resulting words anywhere in the image, raising
// CksAltGood only when both are found. The end bound is rounded up
// per an empirically observed quirk in real images, where p_acend is
// sometimes two bytes short of word alignment: add one, mask off the
// low two bits, then add a further word.
func ValidateAltCks(rf *RomFile, diag func(string)) {
	if !rf.PAcStart.Known() || !rf.PAcEnd.Known() {
		return
	}
	buf := rf.Image.Data
	n := uint32(len(buf))

	start := uint32(rf.PAcStart)
	end := (uint32(rf.PAcEnd)+1)&^3 + 4
	if start >= end || end > n {
		if diag != nil {
			diag("validate_altcks: alt-cks block bounds out of range after rounding")
		}
		return
	}

	sumt, xort := sum32Skip(buf, start, end, nil)
	acs := xort
	acx := sumt - 2*xort

	pAcs, countAcs := u32memstrFirstAndCount(buf, 0, n, acs)
	pAcx, countAcx := u32memstrFirstAndCount(buf, 0, n, acx)
	if countAcs == 0 || countAcx == 0 {
		if diag != nil {
			diag("validate_altcks: alt checksum words not found in image")
		}
		return
	}

	rf.PAcs = pAcs
	rf.PAcx = pAcx
	rf.CksAltGood = true
}

// AnchorAlt2Cks runs checksum_alt2 over [p_ecurec, N) when the catalog
// declares ALT2CKS and both p_ecurec and p_ivt2 are known. The IVT2
// pointer word itself (stored 4 bytes before the table it points to) is
// excluded from the fold via skip2, since it lies inside the protected
// suffix and is not a checksum word.
func AnchorAlt2Cks(rf *RomFile, diag func(string)) {
	typ := rf.Type
	if !typ.Features.Has(ALT2CKS) || !rf.Ecurec.Known() || !rf.Ivt2.Known() {
		return
	}
	buf := rf.Image.Data
	n := uint32(len(buf))

	if uint32(rf.Ivt2) < 4 {
		return
	}
	skip2 := Offset(uint32(rf.Ivt2) - 4)

	pA2cs, pA2cx, err := ChecksumAlt2(buf, uint32(rf.Ecurec), n, Unknown, skip2)
	if err != nil {
		if diag != nil {
			diag("checksum_alt2: no anchor found over ECUREC-protected suffix")
		}
		return
	}

	rf.PA2cs = pA2cs
	rf.PA2cx = pA2cx
	rf.CksAlt2Good = true
}

// CheckRM160 reports whether the RIPEMD-160 initialization constants
// 0x67452301 and 0x98BADCFE both appear as aligned 32-bit words anywhere
// in buf, a weak signal that a RIPEMD-160 implementation is linked in.
func CheckRM160(buf []byte) bool {
	n := uint32(len(buf))
	a := u32memstr(buf, 0, n, rm160ConstA)
	b := u32memstr(buf, 0, n, rm160ConstB)
	return a.Known() && b.Known()
}
