// Copyright 2024 The romscan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package rom

import "fmt"

// Sum32 folds buf[:n] (n = length rounded down to a multiple of 4) as a
// sequence of big-endian 32-bit words, returning the wrapping-add sum
// and the xor of all words. Excess trailing bytes are ignored. Arithmetic
// deliberately wraps at 2^32: this is additive + xor checksumming, not
// checked integer math.
func Sum32(buf []byte, length uint32) (sum uint32, xor uint32) {
	n := length
	if uint32(len(buf)) < n {
		n = uint32(len(buf))
	}
	n -= n % 4
	for off := uint32(0); off < n; off += 4 {
		w := ReadBE32(buf, off)
		sum += w
		xor ^= w
	}
	return sum, xor
}

// sum32Skip is Sum32 restricted to [start, end) with any aligned word
// whose offset appears in skip excluded from the fold.
func sum32Skip(buf []byte, start, end uint32, skip []Offset) (sum uint32, xor uint32) {
	if end > uint32(len(buf)) {
		end = uint32(len(buf))
	}
	start -= start % 4
	for off := start; off+4 <= end; off += 4 {
		skipped := false
		for _, s := range skip {
			if s.Known() && uint32(s) == off {
				skipped = true
				break
			}
		}
		if skipped {
			continue
		}
		w := ReadBE32(buf, off)
		sum += w
		xor ^= w
	}
	return sum, xor
}

// u32memstrFirstAndCount scans [start, start+length) for aligned words
// equal to needle, returning the first match and the total match count.
func u32memstrFirstAndCount(buf []byte, start, length uint32, needle uint32) (Offset, int) {
	n := uint32(len(buf))
	end := start + length
	if end < start || end > n {
		end = n
	}
	first := Unknown
	count := 0
	for off := alignUp(start, 4); off+4 <= end; off += 4 {
		if ReadBE32(buf, off) == needle {
			if count == 0 {
				first = Offset(off)
			}
			count++
		}
	}
	return first, count
}

// ChecksumStd locates the standard dual checksum (§4.2): it computes the
// whole-image fold, derives the expected stored words algebraically, and
// scans the image for aligned words matching them. diag receives a
// formatted warning when a target matches more than once; it may be nil.
// Returns the ErrChecksumNoMatch sentinel (its Offset is Unknown) if
// either target has zero matches.
func ChecksumStd(buf []byte, length uint32, diag func(string)) (pCks, pCkx Offset, err error) {
	sumt, xort := Sum32(buf, length)
	cks := xort
	ckx := sumt - 2*xort

	pCks, countCks := u32memstrFirstAndCount(buf, 0, length, cks)
	pCkx, countCkx := u32memstrFirstAndCount(buf, 0, length, ckx)

	if countCks == 0 || countCkx == 0 {
		return Unknown, Unknown, ErrChecksumNoMatch
	}
	if diag != nil {
		if countCks > 1 {
			diag(fmt.Sprintf("checksum_std: CKS target 0x%08x matches %d locations, using first at %s", cks, countCks, pCks))
		}
		if countCkx > 1 {
			diag(fmt.Sprintf("checksum_std: CKX target 0x%08x matches %d locations, using first at %s", ckx, countCkx, pCkx))
		}
	}
	return pCks, pCkx, nil
}

// ChecksumAlt2 locates the alternate checksum protecting [start, end)
// when the checksum words may themselves live inside that range. The
// fold skips up to four offsets: the caller-supplied skip1/skip2 (either
// may be Unknown) plus, once located, the checksum words' own offsets —
// discovered by iterating the fold to a fixed point, since a checksum
// word inside the protected range would otherwise count itself twice.
func ChecksumAlt2(buf []byte, start, end uint32, skip1, skip2 Offset) (pCks, pCkx Offset, err error) {
	skip := []Offset{skip1, skip2}

	var candCks, candCkx Offset
	const maxIterations = 4 // 2 caller skips + at most 2 self-referential ones
	for iter := 0; iter < maxIterations; iter++ {
		sumt, xort := sum32Skip(buf, start, end, skip)
		cks := xort
		ckx := sumt - 2*xort

		candCks, _ = u32memstrFirstAndCount(buf, 0, uint32(len(buf)), cks)
		candCkx, _ = u32memstrFirstAndCount(buf, 0, uint32(len(buf)), ckx)

		grew := false
		if candCks.Known() && uint32(candCks) >= start && uint32(candCks) < end && !inSkip(skip, candCks) {
			skip = append(skip, candCks)
			grew = true
		}
		if candCkx.Known() && uint32(candCkx) >= start && uint32(candCkx) < end && !inSkip(skip, candCkx) {
			skip = append(skip, candCkx)
			grew = true
		}
		if !grew {
			break
		}
	}

	if !candCks.Known() || !candCkx.Known() {
		return Unknown, Unknown, ErrChecksumNoMatch
	}
	return candCks, candCkx, nil
}

func inSkip(skip []Offset, o Offset) bool {
	for _, s := range skip {
		if s == o {
			return true
		}
	}
	return false
}

// solvePair finds 32-bit words a, b such that a+b == ds (mod 2^32) and
// a^b == dx, or reports that none exist. Since a+b = (a^b) + 2*(a&b),
// the carry bits c = a&b must satisfy 2c == ds-dx, so the true
// (non-wrapped) sum is one of {ds, ds+2^32}; for whichever candidate
// makes (candidate - dx) a nonnegative even number that doesn't overlap
// dx's bits, c is exactly half of it and a, b follow directly. This is
// the closed-form equivalent of walking the sum's bits from the MSB down
// while tracking the carry a plain addition would produce.
func solvePair(ds, dx uint32) (a, b uint32, ok bool) {
	for hi := uint64(0); hi <= 1; hi++ {
		total := uint64(ds) + hi<<32
		d := uint64(dx)
		if total < d {
			continue
		}
		diff := total - d
		if diff%2 != 0 {
			continue
		}
		c := diff / 2
		if c > 0xFFFFFFFF {
			continue
		}
		c32 := uint32(c)
		if c32&dx != 0 {
			continue // a&b and a^b must not share a set bit
		}
		return c32 | dx, c32, true
	}
	return 0, 0, false
}

// ChecksumFix solves for three correction words at pA, pB, pC (distinct,
// word-aligned, inside [0, length)) such that after writing them, the
// image's standard checksum (CKS at pCks, CKX at pCkx, already present in
// the buffer) holds. It introduces a free "mangler" word at pC and backs
// it off by one on each infeasible attempt; reaching a mangler of 1 with
// no solution is a fatal, buffer-preserving failure (ErrInfeasible).
//
// ChecksumFix never reads or writes outside [pA, pA+4), [pB, pB+4),
// [pC, pC+4), and the read-only whole-image fold.
func ChecksumFix(buf []byte, length uint32, pCks, pCkx, pA, pB, pC Offset) error {
	offsets := []Offset{pCks, pCkx, pA, pB, pC}
	for i, o := range offsets {
		if !o.Known() || uint32(o)%4 != 0 || uint32(o)+4 > length {
			return newError(Malformed, o, "checksum_fix: offset not word-aligned or out of range")
		}
		for j := i + 1; j < len(offsets); j++ {
			if o == offsets[j] {
				return newError(Malformed, o, "checksum_fix: offsets must be distinct")
			}
		}
	}

	cks := ReadBE32(buf, uint32(pCks))
	ckx := ReadBE32(buf, uint32(pCkx))

	savedA := ReadBE32(buf, uint32(pA))
	savedB := ReadBE32(buf, uint32(pB))
	savedC := ReadBE32(buf, uint32(pC))

	WriteBE32(buf, uint32(pA), 0)
	WriteBE32(buf, uint32(pB), 0)
	WriteBE32(buf, uint32(pC), 0)

	s, x := Sum32(buf, length)

	// cks is matched through the xor channel and ckx through the sum
	// channel, the same pairing checksum_std itself relies on to locate
	// these words (cks = xort, ckx = sumt - 2*xort) — see ChecksumStd.
	// Solving for (a, b, mang) such that the final fold reproduces both
	// simultaneously:
	dx := cks ^ x
	ds := ckx + 2*cks - s

	mang := dx
	if mang == 0 {
		mang = 1
	}

	var a, b uint32
	solved := false
	for {
		dsPrime := ds - mang
		dxPrime := dx ^ mang
		if av, bv, ok := solvePair(dsPrime, dxPrime); ok {
			a, b = av, bv
			solved = true
			break
		}
		if mang == 1 {
			break
		}
		mang--
	}

	if !solved {
		WriteBE32(buf, uint32(pA), savedA)
		WriteBE32(buf, uint32(pB), savedB)
		WriteBE32(buf, uint32(pC), savedC)
		return ErrInfeasible
	}

	WriteBE32(buf, uint32(pA), a)
	WriteBE32(buf, uint32(pB), b)
	WriteBE32(buf, uint32(pC), mang)

	s2, x2 := Sum32(buf, length)
	if x2 != cks || s2-2*x2 != ckx {
		return newError(Malformed, Unknown, "checksum_fix: verification fold did not reproduce CKS/CKX")
	}
	return nil
}
