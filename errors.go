package ysiodo

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotConnected is returned when an operation is attempted on a
	// session whose serial link is not open.
	ErrNotConnected = errors.New("ysiodo: session not connected")

	// ErrUnknownField is returned when a layout or field name is not in
	// the register map.
	ErrUnknownField = errors.New("ysiodo: unknown layout or field")
)

// TransportError reports that the device or the serial link failed a
// register exchange. The protocol layer never retries; retry policy
// belongs to the caller, which knows whether the failure is transient.
type TransportError struct {
	Op   string
	Addr uint16
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("ysiodo: %s at 0x%04X: %v", e.Op, e.Addr, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// DecodeError reports that a structurally successful read produced
// register data the codec could not interpret.
type DecodeError struct {
	Layout string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("ysiodo: decode %s: %v", e.Layout, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// LengthMismatchError reports raw data whose word count does not match
// the field's declared register count.
type LengthMismatchError struct {
	Field string
	Want  uint16
	Got   int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("ysiodo: field %s: want %d register words, got %d", e.Field, e.Want, e.Got)
}

// UnknownEnumCodeError reports an on-wire code with no label in its
// table. Decoding never substitutes a default label.
type UnknownEnumCodeError struct {
	Table string
	Code  uint16
}

func (e *UnknownEnumCodeError) Error() string {
	return fmt.Sprintf("ysiodo: no %s label for code 0x%02X", e.Table, e.Code)
}

// ValidationError reports caller-supplied values that do not match a
// layout's declared field set, or an unknown label passed to a labeled
// setter. It is raised before any transport call.
type ValidationError struct {
	Layout  string
	Missing []string
	Extra   []string
	Reason  string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "ysiodo: invalid values for %s", e.Layout)
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if len(e.Missing) > 0 {
		fmt.Fprintf(&b, ": missing fields %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Extra) > 0 {
		fmt.Fprintf(&b, ": unexpected fields %s", strings.Join(e.Extra, ", "))
	}
	return b.String()
}
