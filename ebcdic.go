// This file is part of https://github.com/emu3270/tn3270/
// Copyright 2026 by the tn3270 authors, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

import (
	"fmt"

	"github.com/emu3270/tn3270/internal/codepage"
)

// Implementations of Codepage provide EBCDIC<->ASCII translation. By
// default the engine is configured to use CP 1047; a different codepage
// may be set globally with SetCodepage, or per client with
// ClientOpts.Codepage.
type Codepage interface {
	// DecodeByte converts a single EBCDIC byte to ASCII. It is total:
	// every input value produces an output, the substitute character
	// (0x1A) at worst. Decoding never fails on arbitrary network input.
	DecodeByte(b byte) byte

	// EncodeByte converts a single ASCII byte to EBCDIC. ok is false
	// when the character has no EBCDIC representation in this codepage.
	EncodeByte(c byte) (e byte, ok bool)

	// ID returns the name of this codepage, usually a numeric string
	// like "037" or "1047".
	ID() string
}

// The default codepage is IBM CP 1047. In suite3270 (c3270/x3270) the
// default "bracket" codepage places brackets in the 1047 positions, so
// 1047 interoperates with typical client configurations out of the box.
// CP037 is available for hosts configured for "037 United States".
var defaultCodepage Codepage = Codepage1047()

// SetCodepage sets the codepage the engine uses when none is specified
// per client. This is a global setting; set it during application
// initialization and leave it unchanged after.
func SetCodepage(cp Codepage) {
	defaultCodepage = cp
}

// Codepage037 returns the IBM CP037 (US/Canada) translate table.
func Codepage037() Codepage { return codepage.CP037 }

// Codepage1047 returns the IBM CP1047 (Open Systems) translate table.
func Codepage1047() Codepage { return codepage.CP1047 }

var codepageToFunction = map[int]func() Codepage{
	37:   Codepage037,
	1047: Codepage1047,
}

// CodepageByNumber looks up a codepage by its IBM number. ok is false
// for numbers this engine has no table for.
func CodepageByNumber(n int) (cp Codepage, ok bool) {
	f, ok := codepageToFunction[n]
	if !ok {
		return nil, false
	}
	return f(), true
}

// UnencodableError reports the first character of an Encode input that
// has no representation in the active codepage, and its byte index.
type UnencodableError struct {
	Char  byte
	Index int
}

func (e *UnencodableError) Error() string {
	return fmt.Sprintf("character %#02x at index %d: %v",
		e.Char, e.Index, ErrUnencodable)
}

func (e *UnencodableError) Unwrap() error { return ErrUnencodable }

// Decode converts EBCDIC bytes to an ASCII string, element-wise,
// preserving length and order. Total: it never fails; bytes without a
// mapping become the substitute character.
func Decode(cp Codepage, data []byte) string {
	if cp == nil {
		cp = defaultCodepage
	}
	out := make([]byte, len(data))
	for i := range data {
		out[i] = cp.DecodeByte(data[i])
	}
	return string(out)
}

// Encode converts an ASCII string to EBCDIC bytes, element-wise. It
// fails atomically (no partial output) at the first character with no
// EBCDIC representation, reporting its index via UnencodableError.
func Encode(cp Codepage, s string) ([]byte, error) {
	if cp == nil {
		cp = defaultCodepage
	}
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		e, ok := cp.EncodeByte(s[i])
		if !ok {
			return nil, &UnencodableError{Char: s[i], Index: i}
		}
		out[i] = e
	}
	return out, nil
}

// DecodeTo is Decode into a caller-supplied buffer. It fails with
// ErrBufferTooSmall, writing nothing, if dst cannot hold the full
// result; it never truncates. On success it returns the number of
// bytes written, always len(data).
func DecodeTo(cp Codepage, data, dst []byte) (int, error) {
	if len(dst) < len(data) {
		return 0, fmt.Errorf("decode needs %d bytes, have %d: %w",
			len(data), len(dst), ErrBufferTooSmall)
	}
	if cp == nil {
		cp = defaultCodepage
	}
	for i := range data {
		dst[i] = cp.DecodeByte(data[i])
	}
	return len(data), nil
}

// EncodeTo is Encode into a caller-supplied buffer, with the same
// atomic failure behavior: nothing is written unless the whole string
// encodes and fits.
func EncodeTo(cp Codepage, s string, dst []byte) (int, error) {
	if len(dst) < len(s) {
		return 0, fmt.Errorf("encode needs %d bytes, have %d: %w",
			len(s), len(dst), ErrBufferTooSmall)
	}
	buf, err := Encode(cp, s)
	if err != nil {
		return 0, err
	}
	copy(dst, buf)
	return len(buf), nil
}
