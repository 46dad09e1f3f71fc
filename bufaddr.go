// This file is part of https://github.com/emu3270/tn3270/
// Copyright 2026 by the tn3270 authors, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

import "fmt"

// The engine addresses the standard 3278 model 2 screen: 24 rows of 80
// columns, 1920 cells, flat offsets 0-1919.
const (
	Rows    = 24
	Cols    = 80
	BufSize = Rows * Cols
)

// Address is one screen position. The zero value is the top-left corner.
// Addresses are plain values; construct and discard them freely.
type Address struct {
	Row uint8
	Col uint8
}

func (a Address) String() string {
	return fmt.Sprintf("(%d,%d)", a.Row, a.Col)
}

// ToOffset converts row and col to the flat buffer offset. Fails with
// ErrOutOfRange if row >= 24 or col >= 80.
func ToOffset(row, col int) (int, error) {
	if row < 0 || row >= Rows {
		return 0, fmt.Errorf("row %d: %w", row, ErrOutOfRange)
	}
	if col < 0 || col >= Cols {
		return 0, fmt.Errorf("col %d: %w", col, ErrOutOfRange)
	}
	return row*Cols + col, nil
}

// FromOffset converts a flat buffer offset to an Address. Fails with
// ErrOutOfRange if offset is outside [0,1920).
func FromOffset(offset int) (Address, error) {
	if offset < 0 || offset >= BufSize {
		return Address{}, fmt.Errorf("offset %d: %w", offset, ErrOutOfRange)
	}
	return Address{Row: uint8(offset / Cols), Col: uint8(offset % Cols)}, nil
}

// Offset is ToOffset for an Address already known to be valid (the
// Address type can only hold rows 0-255; invalid values fail the same
// bounds check as ToOffset).
func (a Address) Offset() (int, error) {
	return ToOffset(int(a.Row), int(a.Col))
}

// Advance returns the address n cells after a, wrapping past (23,79)
// back to (0,0). Total: any n, including negative, is reduced modulo the
// buffer size. An out-of-range starting address is first reduced into
// the buffer the same way.
func Advance(a Address, n int) Address {
	off := (int(a.Row)*Cols + int(a.Col) + n) % BufSize
	if off < 0 {
		off += BufSize
	}
	addr, _ := FromOffset(off)
	return addr
}

// codes are the 3270 control character I/O codes, pre-computed as
// provided at http://www.tommysprinkle.com/mvs/P3270/iocodes.htm
var codes = []byte{0x40, 0xc1, 0xc2, 0xc3, 0xc4, 0xc5, 0xc6, 0xc7, 0xc8,
	0xc9, 0x4a, 0x4b, 0x4c, 0x4d, 0x4e, 0x4f, 0x50, 0xd1, 0xd2, 0xd3, 0xd4,
	0xd5, 0xd6, 0xd7, 0xd8, 0xd9, 0x5a, 0x5b, 0x5c, 0x5d, 0x5e, 0x5f, 0x60,
	0x61, 0xe2, 0xe3, 0xe4, 0xe5, 0xe6, 0xe7, 0xe8, 0xe9, 0x6a, 0x6b, 0x6c,
	0x6d, 0x6e, 0x6f, 0xf0, 0xf1, 0xf2, 0xf3, 0xf4, 0xf5, 0xf6, 0xf7, 0xf8,
	0xf9, 0x7a, 0x7b, 0x7c, 0x7d, 0x7e, 0x7f}

// decodes is the inverse of the above table; -1 is used in invalid
// positions.
var decodes = []int{-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, 0, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, 10, 11, 12, 13, 14, 15, 16, -1, -1, -1, -1, -1,
	-1, -1, -1, -1, 26, 27, 28, 29, 30, 31, 32, 33, -1, -1, -1, -1, -1, -1,
	-1, -1, 42, 43, 44, 45, 46, 47, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
	58, 59, 60, 61, 62, 63, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, 1, 2,
	3, 4, 5, 6, 7, 8, 9, -1, -1, -1, -1, -1, -1, -1, 17, 18, 19, 20, 21, 22,
	23, 24, 25, -1, -1, -1, -1, -1, -1, -1, -1, 34, 35, 36, 37, 38, 39, 40,
	41, -1, -1, -1, -1, -1, -1, 48, 49, 50, 51, 52, 53, 54, 55, 56, 57, -1,
	-1, -1, -1, -1, -1}

// encodeBufAddr translates a flat buffer offset into the two-byte
// 12-bit wire form used in SBA and cursor position orders.
func encodeBufAddr(offset int) [2]byte {
	hi := (offset & 0xfc0) >> 6
	lo := offset & 0x3f
	return [2]byte{codes[hi], codes[lo]}
}

// decodeBufAddr decodes a raw 2-byte buffer address to a flat offset.
// Both 12-bit (graphic-converted) and 14-bit (raw binary, top two bits
// of the first byte zero) forms are accepted. Fails with ErrProtocol on
// bytes that are valid in neither form.
func decodeBufAddr(raw [2]byte) (int, error) {
	if raw[0]&0xc0 == 0 {
		return int(raw[0])<<8 | int(raw[1]), nil
	}
	hi := decodes[raw[0]]
	lo := decodes[raw[1]]
	if hi < 0 || lo < 0 {
		return 0, fmt.Errorf("buffer address %02x %02x: %w",
			raw[0], raw[1], ErrProtocol)
	}
	return hi<<6 | lo, nil
}
