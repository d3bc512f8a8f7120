// Copyright 2024 The romscan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package rom

import "fmt"

// FID struct layout. Invented for the same reason as the loader
// constants in recovery_loader.go: see DESIGN.md.
const (
	fidDatabaseOffset = 0x08 // offset of "DATABASE" within the struct
	fidStringOffset   = 0x10 // offset of the FID string
	fidStringLen      = 16
	fidCPUOffset      = 0x28 // offset of the 8-byte CPU string
)

var fidNeedle = []byte("DATAB")

// FindFID locates the FID struct's "DATABASE" marker, resolves the
// catalog entry by CPU string, and records the FID fields in rf. If the
// first match falls inside the already-located LOADER struct, the
// search resumes past it, since both structs carry a "DATABASE" marker
// and the loader's comes first (§3 invariant).
//
// FindFID returns ErrUnknownFidType when a FID struct is located but its
// CPU string matches no catalog entry; per spec §7 this aborts the rest
// of the pipeline with a partial result, so callers must stop on a
// non-nil error here. A missing FID struct is not an error: rf.Fid stays
// Unknown and the caller should skip the remaining stages itself.
func FindFID(rf *RomFile, table []FidType, diag func(string)) error {
	buf := rf.Image.Data
	n := uint32(len(buf))

	start := uint32(0)
	match := u8memstr(buf, start, n, fidNeedle)
	if match.Known() && rf.Loader.Known() && uint32(match) >= uint32(rf.Loader) &&
		uint32(match) < uint32(rf.Loader)+loaderStructSize {
		start = uint32(rf.Loader) + loaderStructSize
		match = u8memstr(buf, start, n-start, fidNeedle)
	}
	if !match.Known() {
		if diag != nil {
			diag("find_fid: \"DATABASE\" marker not found")
		}
		return nil
	}

	if uint32(match) < fidDatabaseOffset {
		if diag != nil {
			diag("find_fid: \"DATABASE\" marker too close to start of image to back up to struct origin")
		}
		return nil
	}
	pFid := Offset(uint32(match) - fidDatabaseOffset)

	cpuOff := uint32(pFid) + fidCPUOffset
	if !boundsOK(n, cpuOff, 8) {
		if diag != nil {
			diag("find_fid: FID-CPU string out of bounds")
		}
		return nil
	}
	var cpu [8]byte
	copy(cpu[:], buf[cpuOff:cpuOff+8])

	typ, ok := FindFidType(cpu, table)
	if !ok {
		return ErrUnknownFidType
	}

	if uint32(n) != typ.ROMSize {
		if diag != nil {
			diag(fmt.Sprintf("find_fid: image size %d does not match FidType.ROMSize %d", n, typ.ROMSize))
		}
	}

	strOff := uint32(pFid) + fidStringOffset
	var fidString []byte
	if boundsOK(n, strOff, fidStringLen) {
		fidString = buf[strOff : strOff+fidStringLen]
	}

	rf.Fid = pFid
	rf.Type = typ
	rf.FidCPU = buf[cpuOff : cpuOff+8]
	rf.FidString = fidString
	return nil
}
