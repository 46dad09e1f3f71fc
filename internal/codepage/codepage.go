// This file is part of https://github.com/emu3270/tn3270/
// Copyright 2026 by the tn3270 authors, licensed under the MIT license.
// See LICENSE in the project root for license information.

// Package codepage holds the EBCDIC translate tables used by the tn3270
// engine. The 3270 data stream carries EBCDIC; callers work in ASCII. A
// table is a total EBCDIC-to-ASCII mapping plus the derived inverse for
// the representable subset.
package codepage

// Sub is the ASCII substitute character produced when an EBCDIC byte has
// no ASCII equivalent in the active codepage. Decoding is total: every
// one of the 256 input values maps to something, Sub at worst.
const Sub = 0x1a

// EbcdicSub is the EBCDIC substitute character (the only EBCDIC byte
// that legitimately decodes to Sub).
const EbcdicSub = 0x3f

// Table is one codepage: a forward (EBCDIC to ASCII) array and the
// inverse built from it. Tables are immutable after construction and
// safe for concurrent use.
type Table struct {
	id    string
	e2a   [256]byte
	a2e   [256]byte
	valid [256]bool
}

// New builds a Table from a forward translate array. The inverse is
// derived by skipping Sub entries, then restoring the one real Sub
// mapping (EBCDIC 0x3F). Forward entries must be unique apart from Sub,
// so the round-trip law decode(encode(c)) == c holds for every
// encodable c.
func New(id string, e2a [256]byte) *Table {
	t := &Table{id: id, e2a: e2a}
	for i := 0; i < 256; i++ {
		if e2a[i] == Sub {
			continue
		}
		t.a2e[e2a[i]] = byte(i)
		t.valid[e2a[i]] = true
	}
	t.a2e[Sub] = EbcdicSub
	t.valid[Sub] = true
	return t
}

// DecodeByte translates one EBCDIC byte to ASCII. Total: unmapped bytes
// become Sub, never an error.
func (t *Table) DecodeByte(b byte) byte {
	return t.e2a[b]
}

// EncodeByte translates one ASCII byte to EBCDIC. ok is false when the
// character has no representation in this codepage.
func (t *Table) EncodeByte(c byte) (e byte, ok bool) {
	return t.a2e[c], t.valid[c]
}

// ID reports the IBM codepage number as a string, e.g. "037" or "1047".
func (t *Table) ID() string {
	return t.id
}

// CP037 is IBM codepage 037 (US/Canada), restricted to its ASCII subset.
// Positions whose assigned character falls outside ASCII decode to Sub.
var CP037 = New("037", [256]byte{
	/*       x0   x1   x2   x3   x4   x5   x6   x7   x8   x9   xA   xB   xC   xD   xE   xF */
	/* 0x */ 0x00, 0x01, 0x02, 0x03, 0x1a, 0x09, 0x1a, 0x7f, 0x1a, 0x1a, 0x1a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
	/* 1x */ 0x10, 0x11, 0x12, 0x13, 0x1a, 0x1a, 0x08, 0x1a, 0x18, 0x19, 0x1a, 0x1a, 0x1c, 0x1d, 0x1e, 0x1f,
	/* 2x */ 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x0a, 0x17, 0x1b, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x05, 0x06, 0x07,
	/* 3x */ 0x1a, 0x1a, 0x16, 0x1a, 0x1a, 0x1a, 0x1a, 0x04, 0x1a, 0x1a, 0x1a, 0x1a, 0x14, 0x15, 0x1a, 0x1a,
	/* 4x */ 0x20, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x2e, 0x3c, 0x28, 0x2b, 0x7c,
	/* 5x */ 0x26, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x21, 0x24, 0x2a, 0x29, 0x3b, 0x1a,
	/* 6x */ 0x2d, 0x2f, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x2c, 0x25, 0x5f, 0x3e, 0x3f,
	/* 7x */ 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x60, 0x3a, 0x23, 0x40, 0x27, 0x3d, 0x22,
	/* 8x */ 0x1a, 0x61, 0x62, 0x63, 0x64, 0x65, 0x66, 0x67, 0x68, 0x69, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a,
	/* 9x */ 0x1a, 0x6a, 0x6b, 0x6c, 0x6d, 0x6e, 0x6f, 0x70, 0x71, 0x72, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a,
	/* Ax */ 0x1a, 0x7e, 0x73, 0x74, 0x75, 0x76, 0x77, 0x78, 0x79, 0x7a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a,
	/* Bx */ 0x5e, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x5b, 0x5d, 0x1a, 0x1a, 0x1a, 0x1a,
	/* Cx */ 0x7b, 0x41, 0x42, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48, 0x49, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a,
	/* Dx */ 0x7d, 0x4a, 0x4b, 0x4c, 0x4d, 0x4e, 0x4f, 0x50, 0x51, 0x52, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a,
	/* Ex */ 0x5c, 0x1a, 0x53, 0x54, 0x55, 0x56, 0x57, 0x58, 0x59, 0x5a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a,
	/* Fx */ 0x30, 0x31, 0x32, 0x33, 0x34, 0x35, 0x36, 0x37, 0x38, 0x39, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a,
})

// CP1047 is IBM codepage 1047 (Latin-1/Open Systems), the usual default
// for modern tn3270 clients. Within ASCII it differs from CP037 only in
// the placement of the bracket and circumflex characters: '[' at 0xAD,
// ']' at 0xBD, and '^' at 0x5F.
var CP1047 = New("1047", [256]byte{
	/*       x0   x1   x2   x3   x4   x5   x6   x7   x8   x9   xA   xB   xC   xD   xE   xF */
	/* 0x */ 0x00, 0x01, 0x02, 0x03, 0x1a, 0x09, 0x1a, 0x7f, 0x1a, 0x1a, 0x1a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
	/* 1x */ 0x10, 0x11, 0x12, 0x13, 0x1a, 0x1a, 0x08, 0x1a, 0x18, 0x19, 0x1a, 0x1a, 0x1c, 0x1d, 0x1e, 0x1f,
	/* 2x */ 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x0a, 0x17, 0x1b, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x05, 0x06, 0x07,
	/* 3x */ 0x1a, 0x1a, 0x16, 0x1a, 0x1a, 0x1a, 0x1a, 0x04, 0x1a, 0x1a, 0x1a, 0x1a, 0x14, 0x15, 0x1a, 0x1a,
	/* 4x */ 0x20, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x2e, 0x3c, 0x28, 0x2b, 0x7c,
	/* 5x */ 0x26, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x21, 0x24, 0x2a, 0x29, 0x3b, 0x5e,
	/* 6x */ 0x2d, 0x2f, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x2c, 0x25, 0x5f, 0x3e, 0x3f,
	/* 7x */ 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x60, 0x3a, 0x23, 0x40, 0x27, 0x3d, 0x22,
	/* 8x */ 0x1a, 0x61, 0x62, 0x63, 0x64, 0x65, 0x66, 0x67, 0x68, 0x69, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a,
	/* 9x */ 0x1a, 0x6a, 0x6b, 0x6c, 0x6d, 0x6e, 0x6f, 0x70, 0x71, 0x72, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a,
	/* Ax */ 0x1a, 0x7e, 0x73, 0x74, 0x75, 0x76, 0x77, 0x78, 0x79, 0x7a, 0x1a, 0x1a, 0x1a, 0x5b, 0x1a, 0x1a,
	/* Bx */ 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x5d, 0x1a, 0x1a,
	/* Cx */ 0x7b, 0x41, 0x42, 0x43, 0x44, 0x45, 0x46, 0x47, 0x48, 0x49, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a,
	/* Dx */ 0x7d, 0x4a, 0x4b, 0x4c, 0x4d, 0x4e, 0x4f, 0x50, 0x51, 0x52, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a,
	/* Ex */ 0x5c, 0x1a, 0x53, 0x54, 0x55, 0x56, 0x57, 0x58, 0x59, 0x5a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a,
	/* Fx */ 0x30, 0x31, 0x32, 0x33, 0x34, 0x35, 0x36, 0x37, 0x38, 0x39, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a, 0x1a,
})
