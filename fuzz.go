// Copyright 2024 The romscan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package rom

// Fuzz drives Analyze over an arbitrary byte slice for legacy
// go-fuzz-compatible tooling. It returns 1 when data parsed without
// panicking and produced a non-nil RomFile, 0 otherwise; Analyze itself
// never panics on malformed input, so this mainly exists to give
// corpus-based fuzzers a stable entry point.
func Fuzz(data []byte) int {
	img := NewImageBytes(data, "fuzz")
	a := NewAnalyzer(&AnalyzeOptions{Force: Bool(true)})
	rf, err := a.Analyze(img, sampleFidTable())
	if err != nil || rf == nil {
		return 0
	}
	return 1
}

// sampleFidTable is a tiny built-in catalog used only by the fuzz entry
// points (Fuzz and FuzzAnalyze), so fuzzing can reach the FID/RAMF/ECUREC stages without requiring the
// caller to supply a real catalog.
func sampleFidTable() []FidType {
	return []FidType{
		{
			CPU:           [8]byte{'S', 'H', '7', '0', '5', '5', 'S', ' '},
			ROMSize:       512 * 1024,
			SfidSize:      0x40,
			RAMFHeader:    0xFFFF8000,
			RAMFMaxDist:   64,
			OffRAMjump:    0x04,
			OffRAMDLAmax:  0x08,
			OffPacksStart: 0x0C,
			OffPacksEnd:   0x10,
			OffPIVT2:      0x14,
			OffPECUREC:    0x18,
			OffPROMend:    0x1C,
			IVT2Expected:  0x7FF00,
			Features:      STDCKS,
		},
	}
}
