// Copyright 2024 The romscan Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package rom

import (
	"fmt"
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// MinROMSize and MaxROMSize bound a well-formed ROM image (§3): a raw
// binary dump between 128 KiB and 2 MiB, size a multiple of 4.
const (
	MinROMSize = 128 * 1024
	MaxROMSize = 2 * 1024 * 1024
)

// Image is an immutable-by-convention byte buffer plus a filename label.
// Slice views handed out by the recovery pipeline (RomFile.LoaderCPU,
// FidString, FidCPU) borrow from Data and must not outlive the Image.
type Image struct {
	Name string
	Data []byte

	data mmap.MMap // non-nil when backed by a memory-mapped file
	f    *os.File
}

// NewImage memory-maps the ROM dump at path read-only, mirroring the
// teacher's File.New/mmap.Map(f, mmap.RDONLY, 0) pairing.
func NewImage(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Image{
		Name: path,
		Data: data,
		data: data,
		f:    f,
	}, nil
}

// NewImageBytes wraps an already-loaded buffer without touching the
// filesystem, mirroring the teacher's NewBytes.
func NewImageBytes(data []byte, name string) *Image {
	return &Image{Name: name, Data: data}
}

// Close releases the backing mmap and file handle, if any. It is a no-op
// for images constructed with NewImageBytes.
func (img *Image) Close() error {
	if img.data != nil {
		_ = img.data.Unmap()
	}
	if img.f != nil {
		return img.f.Close()
	}
	return nil
}

// Len returns the image size in bytes.
func (img *Image) Len() int {
	return len(img.Data)
}

// CheckBounds validates the image size against the [MinROMSize,
// MaxROMSize] range and the "multiple of 4" constraint (§3, §7
// InputBounds). When force is true the check is advisory only: it never
// returns an error, so the caller can proceed with a malformed image
// while every subsequent read still stays bounds-checked.
func (img *Image) CheckBounds(force bool) error {
	n := img.Len()
	if n%4 != 0 || n < MinROMSize || n > MaxROMSize {
		if force {
			return nil
		}
		return newError(InputBounds, Unknown,
			fmt.Sprintf("image size %d is not a multiple of 4 in [%d, %d]", n, MinROMSize, MaxROMSize))
	}
	return nil
}
