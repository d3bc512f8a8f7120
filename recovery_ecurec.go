// Copyright 2024 The romscan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package rom

// FindECUREC is run instead of FindRAMF on variants with no RAMF header
// (FidType.RAMFHeader == 0, ECUREC feature set). It searches for the
// catalog's expected secondary-IVT pointer value anywhere in the image,
// and for each candidate treats it as the IVT2 field of an ECUREC record
// sitting candidate-OffPIVT2 bytes earlier, accepting the first one
// whose ROMend field matches ROMSize-1. Ivt2 is set to IVT2Expected only
// when that offset lies inside the image.
func FindECUREC(rf *RomFile, diag func(string)) error {
	typ := rf.Type
	buf := rf.Image.Data
	n := uint32(len(buf))

	expectedEnd := typ.ROMSize - 1

	for start := uint32(0); start < n; {
		cand := u32memstr(buf, start, n-start, typ.IVT2Expected)
		if !cand.Known() {
			break
		}
		candVal := uint32(cand)

		if candVal >= typ.OffPIVT2 {
			ppEcurec := candVal - typ.OffPIVT2
			romEndLoc := addOffset(ppEcurec, typ.OffPROMend, n)
			if romEndLoc.Known() && ReadBE32(buf, uint32(romEndLoc)) == expectedEnd {
				if typ.IVT2Expected < n {
					rf.Ivt2 = Offset(typ.IVT2Expected)
				}
				rf.Ecurec = Offset(ppEcurec)

				startLoc := addOffset(ppEcurec, typ.OffPacksStart, n)
				endLoc := addOffset(ppEcurec, typ.OffPacksEnd, n)
				if startLoc.Known() && endLoc.Known() {
					acStart := ReadBE32(buf, uint32(startLoc))
					acEnd := ReadBE32(buf, uint32(endLoc))
					if acStart < acEnd && acEnd < n {
						rf.PAcStart = Offset(acStart)
						rf.PAcEnd = Offset(acEnd)
					}
				}
				return nil
			}
		}

		start = candVal + 4
	}

	if diag != nil {
		diag("find_ecurec: no candidate ECUREC record with matching ROMend found")
	}
	return nil
}
