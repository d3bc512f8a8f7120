// Copyright 2024 The romscan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package rom

import "encoding/binary"

// ReadBE32 reads a big-endian uint32 at offset. The caller must ensure
// offset+4 <= len(buf); callers in this package always do, via the
// bounds checks in the functions below.
func ReadBE32(buf []byte, offset uint32) uint32 {
	return binary.BigEndian.Uint32(buf[offset:])
}

// ReadBE16 reads a big-endian uint16 at offset.
func ReadBE16(buf []byte, offset uint32) uint16 {
	return binary.BigEndian.Uint16(buf[offset:])
}

// WriteBE32 writes v as a big-endian uint32 at offset.
func WriteBE32(buf []byte, offset uint32, v uint32) {
	binary.BigEndian.PutUint32(buf[offset:], v)
}

// WriteBE16 writes v as a big-endian uint16 at offset.
func WriteBE16(buf []byte, offset uint32, v uint16) {
	binary.BigEndian.PutUint16(buf[offset:], v)
}

// boundsOK reports whether [offset, offset+width) lies within
// [0, bufLen), with no overflow.
func boundsOK(bufLen, offset, width uint32) bool {
	end := offset + width
	if end < offset {
		return false // overflow
	}
	return offset < bufLen && end <= bufLen
}

// u32memstr scans buf[start:start+length] for an aligned (offset%4==0)
// big-endian uint32 equal to needle, returning its offset or Unknown.
// It never reads past start+length or past len(buf).
func u32memstr(buf []byte, start, length uint32, needle uint32) Offset {
	n := uint32(len(buf))
	end := start + length
	if end < start || end > n {
		end = n
	}
	for off := alignUp(start, 4); off+4 <= end; off += 4 {
		if ReadBE32(buf, off) == needle {
			return Offset(off)
		}
	}
	return Unknown
}

// u32memstrReverse walks downward from start (inclusive) looking for the
// greatest aligned offset <= start whose word equals needle.
func u32memstrReverse(buf []byte, start uint32, needle uint32) Offset {
	off := start - start%4
	for {
		if off+4 <= uint32(len(buf)) && ReadBE32(buf, off) == needle {
			return Offset(off)
		}
		if off < 4 {
			return Unknown
		}
		off -= 4
	}
}

// u16memstr scans for an aligned (offset%2==0) big-endian uint16.
func u16memstr(buf []byte, start, length uint32, needle uint16) Offset {
	n := uint32(len(buf))
	end := start + length
	if end < start || end > n {
		end = n
	}
	for off := alignUp(start, 2); off+2 <= end; off += 2 {
		if ReadBE16(buf, off) == needle {
			return Offset(off)
		}
	}
	return Unknown
}

// u8memstr performs an unaligned byte-string search for needle within
// buf[start:start+length], returning the first match's offset or
// Unknown. Zero-length needles and zero-length search windows both fail
// to match, predictably.
func u8memstr(buf []byte, start, length uint32, needle []byte) Offset {
	if len(needle) == 0 {
		return Unknown
	}
	n := uint32(len(buf))
	end := start + length
	if end < start || end > n {
		end = n
	}
	if start >= end || uint32(len(needle)) > end-start {
		return Unknown
	}
	last := end - uint32(len(needle))
	for off := start; off <= last; off++ {
		if bytesEqual(buf[off:off+uint32(len(needle))], needle) {
			return Offset(off)
		}
	}
	return Unknown
}

// u8memstrReverse walks downward from start (inclusive, treated as the
// last byte the needle may begin at) looking for the greatest matching
// offset.
func u8memstrReverse(buf []byte, start uint32, needle []byte) Offset {
	if len(needle) == 0 {
		return Unknown
	}
	n := uint32(len(buf))
	maxStart := n - uint32(len(needle))
	if uint32(len(needle)) > n {
		return Unknown
	}
	off := start
	if off > maxStart {
		off = maxStart
	}
	for {
		if bytesEqual(buf[off:off+uint32(len(needle))], needle) {
			return Offset(off)
		}
		if off == 0 {
			return Unknown
		}
		off--
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func alignUp(v, n uint32) uint32 {
	if r := v % n; r != 0 {
		return v + (n - r)
	}
	return v
}
