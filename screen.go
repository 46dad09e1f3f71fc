// This file is part of https://github.com/emu3270/tn3270/
// Copyright 2026 by the tn3270 authors, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

import (
	"fmt"
	"strings"
)

// cell is one screen position: the character content (ASCII domain,
// post-decode) and the attribute flags inherited from the field that
// covers it.
type cell struct {
	ch   byte
	attr Attr
}

const blank = ' '

// Screen is the 24x80 character buffer for one session plus the cursor
// position. A Screen is created empty (all cells blank and unprotected)
// and is never resized. It is not internally synchronized: exactly one
// goroutine may drive a given Screen at a time.
type Screen struct {
	cells  [BufSize]cell
	cursor Address
}

// NewScreen returns an empty 24x80 screen with the cursor at (0,0).
func NewScreen() *Screen {
	s := &Screen{}
	s.Clear()
	return s
}

// Clear resets all 1920 cells to blank/unprotected and moves the cursor
// to (0,0).
func (s *Screen) Clear() {
	for i := range s.cells {
		s.cells[i] = cell{ch: blank}
	}
	s.cursor = Address{}
}

// Write overwrites cell content starting at (row, col) with text. Writes
// do not wrap to the next row: if col+len(text) would run past column
// 79, Write fails with ErrOutOfRange and changes nothing. Callers must
// chunk multi-row writes themselves. Attributes of the written cells are
// unchanged; Write affects character content only.
func (s *Screen) Write(row, col int, text string) error {
	off, err := ToOffset(row, col)
	if err != nil {
		return err
	}
	if col+len(text) > Cols {
		return fmt.Errorf("write of %d chars at col %d exceeds row width: %w",
			len(text), col, ErrOutOfRange)
	}
	for i := 0; i < len(text); i++ {
		s.cells[off+i].ch = text[i]
	}
	return nil
}

// Read returns exactly length characters starting at (row, col), under
// the same no-row-wrap bounds rule as Write. A non-positive length fails
// with ErrInvalidArgument.
func (s *Screen) Read(row, col, length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("read length %d: %w", length, ErrInvalidArgument)
	}
	off, err := ToOffset(row, col)
	if err != nil {
		return "", err
	}
	if col+length > Cols {
		return "", fmt.Errorf("read of %d chars at col %d exceeds row width: %w",
			length, col, ErrOutOfRange)
	}
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		b.WriteByte(s.cells[off+i].ch)
	}
	return b.String(), nil
}

// String serializes the full buffer in row-major order with no
// separators: exactly 1920 characters.
func (s *Screen) String() string {
	var b strings.Builder
	b.Grow(BufSize)
	for i := range s.cells {
		b.WriteByte(s.cells[i].ch)
	}
	return b.String()
}

// Cursor returns the current cursor position, always a valid address.
func (s *Screen) Cursor() Address {
	return s.cursor
}

// SetCursor moves the cursor. Fails with ErrOutOfRange if the address
// is not on the screen.
func (s *Screen) SetCursor(a Address) error {
	if _, err := a.Offset(); err != nil {
		return err
	}
	s.cursor = a
	return nil
}

// setCell writes one cell by flat offset, wrapping. Internal writes from
// the host data stream wrap freely around the buffer; only the public
// Write API enforces the no-row-wrap policy.
func (s *Screen) setCell(offset int, ch byte) int {
	s.cells[offset].ch = ch
	return (offset + 1) % BufSize
}

// setAttr replaces the attribute flags of one cell by flat offset.
func (s *Screen) setAttr(offset int, attr Attr) {
	s.cells[offset%BufSize].attr = attr
}

// attrAt returns the attribute flags of the cell at offset.
func (s *Screen) attrAt(offset int) Attr {
	return s.cells[offset%BufSize].attr
}

// Row returns the 80 characters of one row. Fails with ErrOutOfRange
// for rows outside 0-23.
func (s *Screen) Row(row int) (string, error) {
	return s.Read(row, 0, Cols)
}
