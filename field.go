package ysiodo

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// FieldType is the decoded type of a register field.
type FieldType uint8

const (
	FieldU8 FieldType = iota
	FieldU16
	FieldU32
	FieldF32
	FieldString // fixed-length ASCII, 2 bytes per word, NUL right-padded
	FieldEnum   // whole-word code looked up in an EnumTable
	FieldPacked // one word, high and low byte each its own EnumTable
)

// wordCount returns the register width fixed by the type, or 0 for
// string fields, whose width is declared per field.
func (t FieldType) wordCount() uint16 {
	switch t {
	case FieldU32, FieldF32:
		return 2
	case FieldU8, FieldU16, FieldEnum, FieldPacked:
		return 1
	}
	return 0
}

// RegisterKind selects the modbus function used to read a layout.
type RegisterKind uint8

const (
	RegisterHolding RegisterKind = iota
	RegisterInput
)

// FieldSpec describes one typed field of the register map.
type FieldSpec struct {
	Name     string
	Addr     uint16
	Quantity uint16
	Type     FieldType
	Enum     *EnumTable // FieldEnum
	Hi       *EnumTable // FieldPacked, high byte
	Lo       *EnumTable // FieldPacked, low byte
}

// LayoutSpec is a named contiguous register range read or written as
// one block and decoded field by field in declared order.
type LayoutSpec struct {
	Name     string
	Kind     RegisterKind
	Addr     uint16
	Quantity uint16
	Fields   []FieldSpec
}

// mustLayout builds a LayoutSpec and verifies the static table: field
// widths must match their types and the fields must tile the range
// with no gaps or overlaps. A broken table is a programmer error, so
// it panics at init.
func mustLayout(name string, kind RegisterKind, addr uint16, fields []FieldSpec) LayoutSpec {
	next := addr
	for i := range fields {
		f := &fields[i]
		if want := f.Type.wordCount(); want != 0 {
			if f.Quantity == 0 {
				f.Quantity = want
			}
			if f.Quantity != want {
				panic(fmt.Sprintf("ysiodo: layout %s: field %s declares %d words, type needs %d",
					name, f.Name, f.Quantity, want))
			}
		} else if f.Quantity == 0 {
			panic(fmt.Sprintf("ysiodo: layout %s: string field %s needs an explicit word count", name, f.Name))
		}
		switch f.Type {
		case FieldEnum:
			if f.Enum == nil {
				panic(fmt.Sprintf("ysiodo: layout %s: enum field %s has no table", name, f.Name))
			}
		case FieldPacked:
			if f.Hi == nil || f.Lo == nil {
				panic(fmt.Sprintf("ysiodo: layout %s: packed field %s needs both tables", name, f.Name))
			}
		}
		if f.Addr != next {
			panic(fmt.Sprintf("ysiodo: layout %s: field %s at 0x%04X, expected 0x%04X",
				name, f.Name, f.Addr, next))
		}
		next += f.Quantity
	}
	return LayoutSpec{
		Name:     name,
		Kind:     kind,
		Addr:     addr,
		Quantity: next - addr,
		Fields:   fields,
	}
}

// EnumTable is a bidirectional mapping between human-readable labels
// and on-wire codes. Both directions are injective.
type EnumTable struct {
	name    string
	byLabel map[string]uint16
	byCode  map[uint16]string
}

func newEnumTable(name string, codes map[string]uint16) *EnumTable {
	t := &EnumTable{
		name:    name,
		byLabel: make(map[string]uint16, len(codes)),
		byCode:  make(map[uint16]string, len(codes)),
	}
	for label, code := range codes {
		if dup, ok := t.byCode[code]; ok {
			panic(fmt.Sprintf("ysiodo: %s table: labels %q and %q share code 0x%02X", name, dup, label, code))
		}
		t.byLabel[label] = code
		t.byCode[code] = label
	}
	return t
}

// Code returns the on-wire code for a label.
func (t *EnumTable) Code(label string) (uint16, bool) {
	code, ok := t.byLabel[label]
	return code, ok
}

// Label returns the label for an on-wire code, or UnknownEnumCodeError
// if the code is not in the table.
func (t *EnumTable) Label(code uint16) (string, error) {
	label, ok := t.byCode[code]
	if !ok {
		return "", &UnknownEnumCodeError{Table: t.name, Code: code}
	}
	return label, nil
}

// Labels returns all labels, sorted.
func (t *EnumTable) Labels() []string {
	labels := maps.Keys(t.byLabel)
	slices.Sort(labels)
	return labels
}
