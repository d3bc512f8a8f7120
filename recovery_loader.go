// Copyright 2024 The romscan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package rom

// Loader struct layout. The original struct layout isn't recoverable
// from context (original_source/ yielded no files for this spec), so
// these are reasonable invented offsets consistent with the "LOADER"
// tag sitting near the front of a small fixed-size header that also
// carries the CPU string; see DESIGN.md.
const (
	loaderTagOffset  = 0x10 // offset of the "LOADER" tag within the struct
	loaderCPUOffset  = 0x20 // offset of the 8-byte CPU string
	loaderStructSize = 0x40 // total size of the struct, used by find_fid
)

var loaderNeedle = []byte("LOADER")

// FindLoader locates the first "LOADER" tag in buf, backs up to the
// start of the owning struct, and parses the two-digit decimal version
// immediately following the tag. It never fails hard: on no match, rf's
// loader fields keep their newRomFile defaults (Loader Unknown,
// LoaderVersion -1, LoaderCPU nil).
func FindLoader(rf *RomFile, diag func(string)) {
	buf := rf.Image.Data
	n := uint32(len(buf))

	match := u8memstr(buf, 0, n, loaderNeedle)
	if !match.Known() {
		if diag != nil {
			diag("find_loader: \"LOADER\" tag not found")
		}
		return
	}

	if uint32(match) < loaderTagOffset {
		if diag != nil {
			diag("find_loader: \"LOADER\" tag too close to start of image to back up to struct origin")
		}
		return
	}
	pLoader := Offset(uint32(match) - loaderTagOffset)

	versionOff := uint32(match) + uint32(len(loaderNeedle))
	version := parseTwoDigits(buf, versionOff)

	cpuOff := uint32(pLoader) + loaderCPUOffset
	var cpu []byte
	if boundsOK(n, cpuOff, 8) {
		cpu = buf[cpuOff : cpuOff+8]
	}

	rf.Loader = pLoader
	rf.LoaderVersion = version
	rf.LoaderCPU = cpu
}

// parseTwoDigits reads exactly two ASCII decimal digits at off, or
// returns -1 if either byte isn't a digit or lies out of bounds.
func parseTwoDigits(buf []byte, off uint32) int {
	if !boundsOK(uint32(len(buf)), off, 2) {
		return -1
	}
	d0, d1 := buf[off], buf[off+1]
	if d0 < '0' || d0 > '9' || d1 < '0' || d1 > '9' {
		return -1
	}
	return int(d0-'0')*10 + int(d1-'0')
}
