// This file is part of https://github.com/emu3270/tn3270/
// Copyright 2026 by the tn3270 authors, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

import "fmt"

// 3270 outbound (host to terminal) command codes.
const (
	cmdWrite          = 0xf1
	cmdEraseWrite     = 0xf5
	cmdEraseWriteAlt  = 0x7e
	cmdEraseAllUnprot = 0x6f
	cmdWSF            = 0xf3
)

// 3270 order codes. Orders all fall below 0x40; any other byte in a
// write stream is character data.
const (
	orderPT  = 0x05 // program tab
	orderGE  = 0x08 // graphic escape
	orderSBA = 0x11 // set buffer address
	orderEUA = 0x12 // erase unprotected to address
	orderIC  = 0x13 // insert cursor
	orderSF  = 0x1d // start field
	orderSA  = 0x28 // set attribute (extended)
	orderSFE = 0x29 // start field extended
	orderMF  = 0x2c // modify field
	orderRA  = 0x3c // repeat to address
)

// Write Control Character bits we act on.
const wccResetMDT = 0x01

// sfEntry records a start-field order seen while walking a write
// stream. Field lengths are only known once all attribute positions
// are: each field runs from the cell after its attribute to the next
// attribute position, wrapping past 1919.
type sfEntry struct {
	offset int
	attr   Attr
}

// ApplyHostWrite decodes one complete host write data stream (a single
// EOR-delimited record, as returned by Client.ReadResponse) and applies
// it to screen and fields. Erase variants clear both before applying
// orders. Character data is translated through cp (nil for the engine
// default).
//
// Write Structured Field records are consumed without effect; the
// structured-field extensions are outside this engine's scope. Malformed
// streams fail with ErrProtocol, leaving the screen in the last
// consistent state reached.
func ApplyHostWrite(data []byte, screen *Screen, fields *FieldManager, cp Codepage) error {
	if screen == nil || fields == nil {
		return fmt.Errorf("nil screen or field manager: %w", ErrInvalidArgument)
	}
	if len(data) == 0 {
		return fmt.Errorf("empty data stream: %w", ErrProtocol)
	}
	if cp == nil {
		cp = defaultCodepage
	}

	switch data[0] {
	case cmdWSF:
		// Consumed, not interpreted.
		return nil
	case cmdEraseAllUnprot:
		eraseAllUnprotected(screen, fields)
		return nil
	case cmdEraseWrite, cmdEraseWriteAlt:
		screen.Clear()
		fields.Reset()
	case cmdWrite:
		// Write without erase: orders apply over existing content.
	default:
		return fmt.Errorf("command byte %#02x: %w", data[0], ErrProtocol)
	}

	if len(data) < 2 {
		return fmt.Errorf("missing WCC: %w", ErrProtocol)
	}
	// The WCC's keyboard restore and alarm bits concern a real display;
	// only the reset-MDT bit affects emulator state.
	if wcc := data[1]; decodes[wcc] >= 0 && decodes[wcc]&wccResetMDT != 0 {
		resetMDT(fields)
	}

	return applyOrders(data[2:], screen, fields, cp)
}

func applyOrders(data []byte, screen *Screen, fields *FieldManager, cp Codepage) error {
	var sfs []sfEntry
	pos := 0 // current buffer address

	need := func(i, n int) error {
		if i+n > len(data) {
			return fmt.Errorf("truncated order at byte %d: %w", i, ErrProtocol)
		}
		return nil
	}

	for i := 0; i < len(data); {
		b := data[i]
		switch b {
		case orderSBA:
			if err := need(i, 3); err != nil {
				return err
			}
			addr, err := decodeBufAddr([2]byte{data[i+1], data[i+2]})
			if err != nil {
				return err
			}
			pos = addr % BufSize
			i += 3

		case orderSF:
			if err := need(i, 2); err != nil {
				return err
			}
			sfs = append(sfs, sfEntry{offset: pos, attr: attrFromWire(data[i+1])})
			// The attribute occupies its cell, displayed as a blank.
			pos = screen.setCell(pos, blank)
			i += 2

		case orderSFE:
			if err := need(i, 2); err != nil {
				return err
			}
			count := int(data[i+1])
			if err := need(i, 2+count*2); err != nil {
				return err
			}
			var attr Attr
			for p := 0; p < count; p++ {
				typ, val := data[i+2+p*2], data[i+3+p*2]
				if typ == 0xc0 { // basic field attribute
					attr = attrFromWire(val)
				}
				// Extended attribute types (color, highlighting) are
				// accepted and ignored.
			}
			sfs = append(sfs, sfEntry{offset: pos, attr: attr})
			pos = screen.setCell(pos, blank)
			i += 2 + count*2

		case orderIC:
			addr, err := FromOffset(pos)
			if err != nil {
				return err
			}
			screen.cursor = addr
			i++

		case orderPT:
			pos = nextFieldStart(pos, sfs)
			i++

		case orderRA:
			if err := need(i, 4); err != nil {
				return err
			}
			stop, err := decodeBufAddr([2]byte{data[i+1], data[i+2]})
			if err != nil {
				return err
			}
			stop %= BufSize
			ch := cp.DecodeByte(data[i+3])
			if stop == pos {
				// Repeating to the current address fills the whole
				// buffer.
				for n := 0; n < BufSize; n++ {
					pos = screen.setCell(pos, ch)
				}
			} else {
				for pos != stop {
					pos = screen.setCell(pos, ch)
				}
			}
			i += 4

		case orderEUA:
			if err := need(i, 3); err != nil {
				return err
			}
			stop, err := decodeBufAddr([2]byte{data[i+1], data[i+2]})
			if err != nil {
				return err
			}
			stop %= BufSize
			// Like RA, a stop address equal to the current address
			// covers the whole buffer.
			n := (stop - pos + BufSize) % BufSize
			if n == 0 {
				n = BufSize
			}
			for ; n > 0; n-- {
				if !protectedAt(pos, fields, sfs) {
					screen.setCell(pos, blank)
				}
				pos = (pos + 1) % BufSize
			}
			i += 3

		case orderSA:
			if err := need(i, 3); err != nil {
				return err
			}
			// Extended character attributes are out of scope; consume.
			i += 3

		case orderMF:
			if err := need(i, 2); err != nil {
				return err
			}
			count := int(data[i+1])
			if err := need(i, 2+count*2); err != nil {
				return err
			}
			i += 2 + count*2

		case orderGE:
			if err := need(i, 2); err != nil {
				return err
			}
			// Graphic escape selects CP310 symbols, which have no ASCII
			// form; the cell gets the substitute character.
			pos = screen.setCell(pos, cp.DecodeByte(0xff))
			i += 2

		default:
			if b < 0x40 && b != 0x00 {
				return fmt.Errorf("order byte %#02x at %d: %w", b, i, ErrProtocol)
			}
			// Character data. Nulls display as blanks.
			ch := cp.DecodeByte(b)
			if b == 0x00 {
				ch = blank
			}
			pos = screen.setCell(pos, ch)
			i++
		}
	}

	finishFields(sfs, fields, screen)
	return nil
}

// protectedAt resolves field protection for pos while a record is being
// applied. The governing attribute is the nearest attribute position at
// or before pos in wrapped buffer order, counting both fields from
// earlier records and start-field orders already seen in this record;
// the in-record order wins a tie. Attribute cells themselves count as
// protected. With no attribute positions at all the buffer is
// unformatted and nothing is protected.
func protectedAt(pos int, fields *FieldManager, sfs []sfEntry) bool {
	prot, found := false, false
	bestDist := BufSize
	for i := range fields.fields {
		d := (pos - fields.fields[i].Offset + BufSize) % BufSize
		if d <= bestDist {
			bestDist = d
			prot = d == 0 || fields.fields[i].Attr.Protected
			found = true
		}
	}
	for i := range sfs {
		d := (pos - sfs[i].offset + BufSize) % BufSize
		if d <= bestDist {
			bestDist = d
			prot = d == 0 || sfs[i].attr.Protected
			found = true
		}
	}
	return found && prot
}

// nextFieldStart returns the first content cell of the next unprotected
// field at or after pos, wrapping; protected fields are skipped, as the
// program tab order addresses input fields. With no unprotected field
// defined, program tab moves to the start of the next row, which is how
// terminals treat an unformatted buffer.
func nextFieldStart(pos int, sfs []sfEntry) int {
	best := -1
	bestDist := BufSize + 1
	for i := range sfs {
		if sfs[i].attr.Protected {
			continue
		}
		d := (sfs[i].offset - pos + BufSize) % BufSize
		if d == 0 {
			d = BufSize
		}
		if d < bestDist {
			bestDist = d
			best = sfs[i].offset
		}
	}
	if best < 0 {
		return ((pos / Cols) + 1) % Rows * Cols
	}
	return (best + 1) % BufSize
}

// finishFields converts the collected start-field entries into field
// descriptors, in stream order, computing each length as the wrapped
// distance to the nearest following attribute position in buffer order
// (the stream may define fields out of buffer order). The attribute
// flags are stamped onto the covered cells.
func finishFields(sfs []sfEntry, fields *FieldManager, screen *Screen) {
	for i := range sfs {
		// Nearest other attribute position after this one, wrapping.
		nearest := BufSize
		for j := range sfs {
			if j == i {
				continue
			}
			d := (sfs[j].offset - sfs[i].offset + BufSize) % BufSize
			if d > 0 && d < nearest {
				nearest = d
			}
		}
		length := nearest - 1
		if length == 0 {
			// Adjacent attribute positions bound a zero-length field;
			// there is no content to record or stamp.
			continue
		}
		// AddField bounds were validated when the SF order was applied.
		_ = fields.AddField(sfs[i].offset, length, sfs[i].attr)

		off := (sfs[i].offset + 1) % BufSize
		for n := 0; n < length; n++ {
			screen.setAttr(off, sfs[i].attr)
			off = (off + 1) % BufSize
		}
	}
}

// eraseAllUnprotected blanks the content of every unprotected field and
// clears their MDT bits. Protected cells and field definitions are
// untouched.
func eraseAllUnprotected(screen *Screen, fields *FieldManager) {
	for i := range fields.fields {
		f := &fields.fields[i]
		if f.Attr.Protected {
			continue
		}
		f.Attr.Modified = false
		off := (f.Offset + 1) % BufSize
		for n := 0; n < f.Length; n++ {
			screen.setCell(off, blank)
			off = (off + 1) % BufSize
		}
	}
}

func resetMDT(fields *FieldManager) {
	for i := range fields.fields {
		fields.fields[i].Attr.Modified = false
	}
}
