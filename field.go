// This file is part of https://github.com/emu3270/tn3270/
// Copyright 2026 by the tn3270 authors, licensed under the MIT license.
// See LICENSE in the project root for license information.

package tn3270

import "fmt"

// Attr is the set of 3270 field attribute flags. The zero value is an
// ordinary unprotected, visible, normal-intensity field.
type Attr struct {
	// Protected fields reject operator input.
	Protected bool

	// Numeric fields accept digits, sign, and period only.
	Numeric bool

	// Hidden fields are non-display (passwords and the like).
	Hidden bool

	// Intense fields display highlighted.
	Intense bool

	// Modified is the MDT bit: set when the operator has changed the
	// field since the last read.
	Modified bool
}

// Attribute byte bit assignments, after the 6-bit value is extracted
// from its graphic-converted wire form.
const (
	attrProtected = 1 << 5
	attrNumeric   = 1 << 4
	attrIntense   = 1 << 3 // display bits 10
	attrHidden    = 3 << 2 // display bits 11
	attrModified  = 1 << 0
)

// wireByte renders the attribute as the graphic-converted byte that
// follows an SF order. Hidden takes precedence over Intense: the display
// bits can only express one of the two.
func (a Attr) wireByte() byte {
	var v byte
	if a.Protected {
		v |= attrProtected
	}
	if a.Numeric {
		v |= attrNumeric
	}
	if a.Hidden {
		v |= attrHidden
	} else if a.Intense {
		v |= attrIntense
	}
	if a.Modified {
		v |= attrModified
	}
	return codes[v]
}

// attrFromWire decodes the byte following an SF order. Attribute bytes
// arrive graphic-converted; bytes outside the conversion table are
// treated as their low six bits, which is what real terminals do.
func attrFromWire(b byte) Attr {
	v := decodes[b]
	if v < 0 {
		v = int(b) & 0x3f
	}
	return Attr{
		Protected: v&attrProtected != 0,
		Numeric:   v&attrNumeric != 0,
		Hidden:    v&attrHidden == attrHidden,
		Intense:   v&attrHidden == attrIntense,
		Modified:  v&attrModified != 0,
	}
}

// FieldDescriptor is one field definition: the flat offset of its
// attribute position, its content length in cells, and its attribute
// flags. A field whose offset+length passes cell 1919 wraps around to
// cell 0; host data streams define such fields legitimately and this
// engine permits them.
type FieldDescriptor struct {
	Offset int
	Length int
	Attr   Attr
}

// FieldManager holds the ordered field definitions for one session.
// Insertion order is display order and is preserved; duplicate and
// overlapping fields are permitted, since a host may legitimately
// redefine a region mid-session. Interpretation of the attribute flags
// is a screen/editing concern; the manager only stores them.
//
// Like Screen, a FieldManager is not internally synchronized.
type FieldManager struct {
	fields []FieldDescriptor
}

// NewFieldManager returns an empty field list.
func NewFieldManager() *FieldManager {
	return &FieldManager{}
}

// AddField appends a field definition. Fails with ErrOutOfRange if
// offset is outside [0,1920), and with ErrInvalidArgument if length is
// not in [1,1920]. No overlap checking is performed.
func (f *FieldManager) AddField(offset, length int, attr Attr) error {
	if offset < 0 || offset >= BufSize {
		return fmt.Errorf("field offset %d: %w", offset, ErrOutOfRange)
	}
	if length <= 0 || length > BufSize {
		return fmt.Errorf("field length %d: %w", length, ErrInvalidArgument)
	}
	f.fields = append(f.fields, FieldDescriptor{
		Offset: offset,
		Length: length,
		Attr:   attr,
	})
	return nil
}

// Count returns the number of fields currently held.
func (f *FieldManager) Count() int {
	return len(f.fields)
}

// Field returns the descriptor at index, in insertion order. Fails with
// ErrFieldNotFound when index is not in [0,Count()).
func (f *FieldManager) Field(index int) (FieldDescriptor, error) {
	if index < 0 || index >= len(f.fields) {
		return FieldDescriptor{}, fmt.Errorf("index %d of %d: %w",
			index, len(f.fields), ErrFieldNotFound)
	}
	return f.fields[index], nil
}

// Reset discards all field definitions. The host's erase commands do
// this implicitly when a new screen is written.
func (f *FieldManager) Reset() {
	f.fields = f.fields[:0]
}
