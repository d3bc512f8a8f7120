// Copyright 2024 The romscan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package rom

import "fmt"

// Offset is a 32-bit address into an Image, or the sentinel Unknown when
// the corresponding structure hasn't been (or couldn't be) located.
type Offset uint32

// Unknown is the sentinel meaning "not located / not applicable",
// matching the 0xFFFFFFFF convention the recovered firmware images
// themselves use for absent pointers.
const Unknown Offset = 0xFFFFFFFF

// Known reports whether o is a real, in-bounds-candidate offset rather
// than the Unknown sentinel. It does not check against any particular
// image length; callers compare against Image.Len() separately.
func (o Offset) Known() bool {
	return o != Unknown
}

func (o Offset) String() string {
	if !o.Known() {
		return "unknown"
	}
	return fmt.Sprintf("0x%x", uint32(o))
}

// RomFile is the analysis record produced by Analyze. All image-offset
// fields are either Unknown or strictly less than Image.Len(); PRamJump
// and PRamDLAmax are the raw words read from RAMF and are not checked
// against the image length. RomFile is
// populated by the recovery pipeline and is otherwise read-only; the one
// exception is the byte buffer owned by Image, which ChecksumFix mutates
// in place through the caller's own offsets, not through RomFile.
type RomFile struct {
	Image *Image

	// Structural anchors.
	Loader Offset
	Fid    Offset
	Ramf   Offset
	Ivt2   Offset
	Ecurec Offset

	// Standard checksum word locations.
	PCks Offset
	PCkx Offset

	// Alt checksum word locations and the bounded region they protect.
	PAcs     Offset
	PAcx     Offset
	PAcStart Offset
	PAcEnd   Offset

	// Alt2 checksum word locations.
	PA2cs Offset
	PA2cx Offset

	// RAMF-derived fields (only meaningful when Ramf.Known()).
	PRamJump   Offset
	PRamDLAmax Offset
	PPacksStart Offset
	PPacksEnd   Offset

	// Selected catalog entry; zero value (FidType{}) if none matched.
	Type FidType

	// LoaderVersion is the parsed two-digit decimal version following
	// the "LOADER" tag, or -1 if unparsed.
	LoaderVersion int

	// Slice views into Image.Data; nil when the owning structure wasn't
	// located. They never outlive Image.
	LoaderCPU []byte
	FidString []byte
	FidCPU    []byte

	// Flags.
	CksAltGood  bool
	CksAlt2Good bool
	HasRM160    bool

	// RamfOffset is the signed drift (in bytes) applied to find Ramf
	// relative to Fid+sizeof(FID struct), when RAMF drifted from its
	// expected position. Zero when RAMF sat exactly where expected or
	// wasn't found at all.
	RamfOffset int32
}

// newRomFile returns a RomFile with every offset at Unknown and no
// catalog entry selected, ready for the recovery pipeline to populate.
func newRomFile(img *Image) *RomFile {
	return &RomFile{
		Image:         img,
		Loader:        Unknown,
		Fid:           Unknown,
		Ramf:          Unknown,
		Ivt2:          Unknown,
		Ecurec:        Unknown,
		PCks:          Unknown,
		PCkx:          Unknown,
		PAcs:          Unknown,
		PAcx:          Unknown,
		PAcStart:      Unknown,
		PAcEnd:        Unknown,
		PA2cs:         Unknown,
		PA2cx:         Unknown,
		PRamJump:      Unknown,
		PRamDLAmax:    Unknown,
		PPacksStart:   Unknown,
		PPacksEnd:     Unknown,
		LoaderVersion: -1,
	}
}
