// This file is part of https://github.com/emu3270/tn3270/
// Copyright 2026 by the tn3270 authors, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

import (
	"errors"
	"testing"
)

func TestEncodeBufAddr(t *testing.T) {
	encoded := encodeBufAddr(0)
	if encoded[0] != 0x40 || encoded[1] != 0x40 {
		t.Error("offset 0 not correctly encoded")
	}

	encoded = encodeBufAddr(11*80 + 39)
	if encoded[0] != 0x4e || encoded[1] != 0xd7 {
		t.Error("offset 919 not correctly encoded")
	}
}

func TestDecodeBufAddr(t *testing.T) {
	decoded, err := decodeBufAddr([2]byte{0x40, 0x40})
	if err != nil || decoded != 0 {
		t.Errorf("buffer address incorrectly decoded: %d, %v", decoded, err)
	}

	decoded, err = decodeBufAddr([2]byte{0x4e, 0xd7})
	if err != nil || decoded != 919 {
		t.Errorf("buffer address incorrectly decoded: %d, %v", decoded, err)
	}
}

func TestDecodeBufAddr14Bit(t *testing.T) {
	// Top two bits zero selects the raw 14-bit form.
	decoded, err := decodeBufAddr([2]byte{0x03, 0x97})
	if err != nil || decoded != 919 {
		t.Errorf("14-bit buffer address incorrectly decoded: %d, %v", decoded, err)
	}
}

func TestDecodeBufAddrInvalid(t *testing.T) {
	// 0xff in either position: a real data byte (IAC IAC on the wire),
	// valid in neither address form.
	invalid := [][2]byte{{0xff, 0x40}, {0x40, 0xff}, {0xff, 0xff}}
	for _, raw := range invalid {
		if _, err := decodeBufAddr(raw); !errors.Is(err, ErrProtocol) {
			t.Errorf("%02x %02x: expected protocol error, got %v",
				raw[0], raw[1], err)
		}
	}
}

func TestDecodesTableCoversAllBytes(t *testing.T) {
	if len(decodes) != 256 {
		t.Fatalf("decodes table has %d entries, want 256", len(decodes))
	}
	for i, c := range codes {
		if decodes[c] != i {
			t.Errorf("decodes[%#02x] = %d, want %d", c, decodes[c], i)
		}
	}
}

func TestBufAddrRoundTrip(t *testing.T) {
	for off := 0; off < BufSize; off++ {
		enc := encodeBufAddr(off)
		dec, err := decodeBufAddr(enc)
		if err != nil {
			t.Fatalf("offset %d: %v", off, err)
		}
		if dec != off {
			t.Fatalf("offset %d encoded to %02x %02x, decoded to %d",
				off, enc[0], enc[1], dec)
		}
	}
}

func TestOffsetBijection(t *testing.T) {
	for row := 0; row < Rows; row++ {
		for col := 0; col < Cols; col++ {
			off, err := ToOffset(row, col)
			if err != nil {
				t.Fatalf("(%d,%d): %v", row, col, err)
			}
			addr, err := FromOffset(off)
			if err != nil {
				t.Fatalf("offset %d: %v", off, err)
			}
			if int(addr.Row) != row || int(addr.Col) != col {
				t.Fatalf("(%d,%d) -> %d -> %v", row, col, off, addr)
			}
		}
	}
}

func TestOffsetBounds(t *testing.T) {
	tests := []struct {
		name     string
		row, col int
	}{
		{name: "row past bottom", row: 24, col: 0},
		{name: "col past right edge", row: 0, col: 80},
		{name: "negative row", row: -1, col: 0},
		{name: "negative col", row: 0, col: -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ToOffset(tc.row, tc.col); !errors.Is(err, ErrOutOfRange) {
				t.Errorf("expected out of range, got %v", err)
			}
		})
	}

	if _, err := FromOffset(BufSize); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected out of range for offset 1920, got %v", err)
	}
	if _, err := FromOffset(-1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected out of range for offset -1, got %v", err)
	}
}

func TestAdvance(t *testing.T) {
	tests := []struct {
		name  string
		start Address
		n     int
		want  Address
	}{
		{name: "one cell", start: Address{0, 0}, n: 1, want: Address{0, 1}},
		{name: "next row", start: Address{0, 79}, n: 1, want: Address{1, 0}},
		{name: "wrap to origin", start: Address{23, 79}, n: 1, want: Address{0, 0}},
		{name: "full lap", start: Address{5, 40}, n: BufSize, want: Address{5, 40}},
		{name: "negative", start: Address{0, 0}, n: -1, want: Address{23, 79}},
		{name: "zero", start: Address{12, 34}, n: 0, want: Address{12, 34}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Advance(tc.start, tc.n); got != tc.want {
				t.Errorf("Advance(%v, %d) = %v, want %v",
					tc.start, tc.n, got, tc.want)
			}
		})
	}
}
