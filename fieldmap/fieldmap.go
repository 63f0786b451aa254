// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package fieldmap implements the long-code/short-code field mapping
// table: a tuple of {long UUID code, short uint16 code, value
// type} that higher layers use to translate between the two. The
// certificate core itself treats short codes as opaque uint16s and
// never consults this package.
package fieldmap

import "fmt"

// ValueType enumerates the value encodings a mapped field can carry,
// a mapped field can carry.
type ValueType uint8

const (
	String ValueType = iota
	Int8
	Int16
	Int32
	Int64
	APN
	UUID
	Date
	Bool
)

// String implements fmt.Stringer for readable mismatch errors.
func (t ValueType) String() string {
	switch t {
	case String:
		return "STRING"
	case Int8:
		return "INT8"
	case Int16:
		return "INT16"
	case Int32:
		return "INT32"
	case Int64:
		return "INT64"
	case APN:
		return "APN"
	case UUID:
		return "UUID"
	case Date:
		return "DATE"
	case Bool:
		return "BOOL"
	default:
		return fmt.Sprintf("ValueType(%d)", uint8(t))
	}
}

// Mapping is one entry in a field-mapping table.
type Mapping struct {
	LongCode  [16]byte
	ShortCode uint16
	Type      ValueType
}

// Table indexes a set of Mappings by both their long and short codes.
type Table struct {
	byLong  map[[16]byte]Mapping
	byShort map[uint16]Mapping
}

// NewTable builds a Table from mappings. A duplicate long or short code
// across entries is an error: the mapping must be a bijection.
func NewTable(mappings []Mapping) (*Table, error) {
	t := &Table{
		byLong:  make(map[[16]byte]Mapping, len(mappings)),
		byShort: make(map[uint16]Mapping, len(mappings)),
	}
	for _, m := range mappings {
		if existing, ok := t.byLong[m.LongCode]; ok {
			return nil, fmt.Errorf("fieldmap: long code %x already mapped to short code %d", m.LongCode, existing.ShortCode)
		}
		if existing, ok := t.byShort[m.ShortCode]; ok {
			return nil, fmt.Errorf("fieldmap: short code %d already mapped to long code %x", m.ShortCode, existing.LongCode)
		}
		t.byLong[m.LongCode] = m
		t.byShort[m.ShortCode] = m
	}
	return t, nil
}

// ByLongCode looks up a Mapping by its 16-byte long code.
func (t *Table) ByLongCode(longCode [16]byte) (Mapping, bool) {
	m, ok := t.byLong[longCode]
	return m, ok
}

// ByShortCode looks up a Mapping by its 16-bit short code.
func (t *Table) ByShortCode(shortCode uint16) (Mapping, bool) {
	m, ok := t.byShort[shortCode]
	return m, ok
}

// ShortCodeOf adapts a Table to the shortCodeOf callback parser.Find
// expects.
func (t *Table) ShortCodeOf(longCode [16]byte) (uint16, bool) {
	m, ok := t.ByLongCode(longCode)
	if !ok {
		return 0, false
	}
	return m.ShortCode, true
}
