// This file is part of https://github.com/emu3270/tn3270/
// Copyright 2026 by the tn3270 authors, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

import "fmt"

// AID is an Attention Identifier: the first byte of an inbound (to the
// host) transmission, identifying which key triggered it.
type AID byte

const (
	AIDNone  AID = 0x60
	AIDEnter AID = 0x7D
	AIDPF1   AID = 0xF1
	AIDPF2   AID = 0xF2
	AIDPF3   AID = 0xF3
	AIDPF4   AID = 0xF4
	AIDPF5   AID = 0xF5
	AIDPF6   AID = 0xF6
	AIDPF7   AID = 0xF7
	AIDPF8   AID = 0xF8
	AIDPF9   AID = 0xF9
	AIDPF10  AID = 0x7A
	AIDPF11  AID = 0x7B
	AIDPF12  AID = 0x7C
	AIDPF13  AID = 0xC1
	AIDPF14  AID = 0xC2
	AIDPF15  AID = 0xC3
	AIDPF16  AID = 0xC4
	AIDPF17  AID = 0xC5
	AIDPF18  AID = 0xC6
	AIDPF19  AID = 0xC7
	AIDPF20  AID = 0xC8
	AIDPF21  AID = 0xC9
	AIDPF22  AID = 0x4A
	AIDPF23  AID = 0x4B
	AIDPF24  AID = 0x4C
	AIDPA1   AID = 0x6C
	AIDPA2   AID = 0x6E
	AIDPA3   AID = 0x6B
	AIDClear AID = 0x6D
)

var aidNames = map[AID]string{
	AIDNone: "[none]", AIDEnter: "Enter", AIDPF1: "PF1", AIDPF2: "PF2",
	AIDPF3: "PF3", AIDPF4: "PF4", AIDPF5: "PF5", AIDPF6: "PF6",
	AIDPF7: "PF7", AIDPF8: "PF8", AIDPF9: "PF9", AIDPF10: "PF10",
	AIDPF11: "PF11", AIDPF12: "PF12", AIDPF13: "PF13", AIDPF14: "PF14",
	AIDPF15: "PF15", AIDPF16: "PF16", AIDPF17: "PF17", AIDPF18: "PF18",
	AIDPF19: "PF19", AIDPF20: "PF20", AIDPF21: "PF21", AIDPF22: "PF22",
	AIDPF23: "PF23", AIDPF24: "PF24", AIDPA1: "PA1", AIDPA2: "PA2",
	AIDPA3: "PA3", AIDClear: "Clear",
}

func (a AID) String() string {
	if s, ok := aidNames[a]; ok {
		return s
	}
	return fmt.Sprintf("[unknown AID %#02x]", byte(a))
}

// shortReadAID reports whether the key generates a "short read": the
// terminal sends the AID byte alone, with no cursor position or field
// data.
func shortReadAID(a AID) bool {
	return a == AIDClear || a == AIDPA1 || a == AIDPA2 || a == AIDPA3
}

// ModifiedField is one field value going back to the host in a
// read-modified transmission.
type ModifiedField struct {
	// Offset is the flat buffer offset of the field's first content
	// cell (one past the attribute position).
	Offset int

	// Value is the field content, ASCII domain.
	Value string
}

// BuildAID assembles the read-modified message body for an attention
// key press: the AID byte, the encoded cursor address, and an SBA/value
// pair per modified field. The result is ready for Client.SendCommand,
// which applies telnet framing. Short-read keys (Clear, PA1-PA3)
// produce the AID byte alone and ignore cursor and fields.
//
// A nil cp uses the engine's default codepage.
func BuildAID(cp Codepage, aid AID, cursor Address, fields []ModifiedField) ([]byte, error) {
	if shortReadAID(aid) {
		return []byte{byte(aid)}, nil
	}

	coff, err := cursor.Offset()
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, 3+len(fields)*8)
	out = append(out, byte(aid))
	ca := encodeBufAddr(coff)
	out = append(out, ca[0], ca[1])

	for i := range fields {
		if fields[i].Offset < 0 || fields[i].Offset >= BufSize {
			return nil, fmt.Errorf("field %d offset %d: %w",
				i, fields[i].Offset, ErrOutOfRange)
		}
		value, err := Encode(cp, fields[i].Value)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		fa := encodeBufAddr(fields[i].Offset)
		out = append(out, orderSBA, fa[0], fa[1])
		out = append(out, value...)
	}

	return out, nil
}
