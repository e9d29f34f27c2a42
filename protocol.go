package ysiodo

import (
	"errors"

	"golang.org/x/exp/slices"
)

// Conn is the register-level transport the protocol layer runs on.
// *Session implements it; tests substitute fakes. Register payloads
// are raw bytes, 2 bytes per word, big-endian.
type Conn interface {
	ReadHoldingRegisters(address, quantity uint16) ([]byte, error)
	ReadInputRegisters(address, quantity uint16) ([]byte, error)
	WriteSingleRegister(address, value uint16) ([]byte, error)
	WriteMultipleRegisters(address, quantity uint16, value []byte) ([]byte, error)
}

// readLayout issues exactly one block read spanning the whole layout
// and decodes every field in declared order. Transport failures are
// surfaced as-is, without retry and without a partial result.
func readLayout(c Conn, layout LayoutSpec) (Values, error) {
	var data []byte
	var err error
	switch layout.Kind {
	case RegisterInput:
		data, err = c.ReadInputRegisters(layout.Addr, layout.Quantity)
	default:
		data, err = c.ReadHoldingRegisters(layout.Addr, layout.Quantity)
	}
	if err != nil {
		return nil, transportErr("read "+layout.Name, layout.Addr, err)
	}
	if len(data) != int(layout.Quantity)*2 {
		return nil, &DecodeError{
			Layout: layout.Name,
			Err:    &LengthMismatchError{Field: layout.Name, Want: layout.Quantity, Got: len(data) / 2},
		}
	}

	vals := make(Values, len(layout.Fields))
	for _, f := range layout.Fields {
		off := int(f.Addr-layout.Addr) * 2
		v, err := decodeField(f, data[off:off+int(f.Quantity)*2])
		if err != nil {
			return nil, &DecodeError{Layout: layout.Name, Err: err}
		}
		vals[f.Name] = v
	}
	return vals, nil
}

// writeLayout validates that vals supplies exactly the layout's
// fields, encodes them in declared order into one contiguous buffer
// and issues exactly one block write. Validation failures make zero
// transport calls.
func writeLayout(c Conn, layout LayoutSpec, vals Values) error {
	declared := make(map[string]struct{}, len(layout.Fields))
	var missing []string
	for _, f := range layout.Fields {
		declared[f.Name] = struct{}{}
		if _, ok := vals[f.Name]; !ok {
			missing = append(missing, f.Name)
		}
	}
	var extra []string
	for name := range vals {
		if _, ok := declared[name]; !ok {
			extra = append(extra, name)
		}
	}
	if len(missing) > 0 || len(extra) > 0 {
		slices.Sort(missing)
		slices.Sort(extra)
		return &ValidationError{Layout: layout.Name, Missing: missing, Extra: extra}
	}

	buf := make([]byte, 0, int(layout.Quantity)*2)
	for _, f := range layout.Fields {
		data, err := encodeField(f, vals[f.Name])
		if err != nil {
			return err
		}
		buf = append(buf, data...)
	}

	if _, err := c.WriteMultipleRegisters(layout.Addr, layout.Quantity, buf); err != nil {
		return transportErr("write "+layout.Name, layout.Addr, err)
	}
	return nil
}

// writeCommand fires a single-register command. Success means the
// device accepted the write, not that the command has completed;
// callers needing confirmation poll a status field.
func writeCommand(c Conn, op string, addr, value uint16) error {
	if _, err := c.WriteSingleRegister(addr, value); err != nil {
		return transportErr(op, addr, err)
	}
	return nil
}

// transportErr classifies a failed primitive call. A closed session
// stays a connectivity error; everything else is the device or link
// failing the exchange.
func transportErr(op string, addr uint16, err error) error {
	if errors.Is(err, ErrNotConnected) {
		return err
	}
	return &TransportError{Op: op, Addr: addr, Err: err}
}
