package ysiodo

// ValueKind tags the decoded representation of a register field.
type ValueKind uint8

const (
	KindU8 ValueKind = iota
	KindU16
	KindU32
	KindF32
	KindString
	KindEnum
	KindPacked
)

// Value is one decoded register field. The kind decides which accessor
// carries the payload; the others return zero values.
type Value struct {
	kind ValueKind
	u    uint32
	f    float32
	s    string
	hi   string
	lo   string
}

// Values maps field names to decoded values for one layout.
type Values map[string]Value

func U8Value(v uint8) Value { return Value{kind: KindU8, u: uint32(v)} }

func U16Value(v uint16) Value { return Value{kind: KindU16, u: uint32(v)} }

func U32Value(v uint32) Value { return Value{kind: KindU32, u: v} }

func F32Value(v float32) Value { return Value{kind: KindF32, f: v} }

// TextValue holds a fixed-length ASCII register string.
func TextValue(s string) Value { return Value{kind: KindString, s: s} }

// LabelValue holds a whole-word enumeration label.
func LabelValue(label string) Value { return Value{kind: KindEnum, s: label} }

// PackedValue holds the two labels of a bit-packed register word,
// high byte first.
func PackedValue(hi, lo string) Value { return Value{kind: KindPacked, hi: hi, lo: lo} }

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) Uint8() uint8 { return uint8(v.u) }

func (v Value) Uint16() uint16 { return uint16(v.u) }

func (v Value) Uint32() uint32 { return v.u }

func (v Value) Float32() float32 { return v.f }

// Text returns the payload of a string field.
func (v Value) Text() string { return v.s }

// Label returns the payload of an enum field.
func (v Value) Label() string { return v.s }

// Packed returns the high- and low-byte labels of a packed field.
func (v Value) Packed() (hi, lo string) { return v.hi, v.lo }
