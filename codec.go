package ysiodo

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
)

// The device speaks big-endian byte order within a word and big-endian
// word order within multi-word values, for every field. Register data
// is handled as raw bytes, 2 bytes per word, exactly as the transport
// delivers it.

// decodeField interprets the raw register bytes of one field.
func decodeField(f FieldSpec, data []byte) (Value, error) {
	if len(data) != int(f.Quantity)*2 {
		return Value{}, &LengthMismatchError{Field: f.Name, Want: f.Quantity, Got: len(data) / 2}
	}
	switch f.Type {
	case FieldU8:
		return U8Value(data[1]), nil
	case FieldU16:
		return U16Value(binary.BigEndian.Uint16(data)), nil
	case FieldU32:
		return U32Value(binary.BigEndian.Uint32(data)), nil
	case FieldF32:
		return F32Value(math.Float32frombits(binary.BigEndian.Uint32(data))), nil
	case FieldString:
		return TextValue(string(bytes.TrimRight(data, "\x00"))), nil
	case FieldEnum:
		label, err := f.Enum.Label(binary.BigEndian.Uint16(data))
		if err != nil {
			return Value{}, err
		}
		return LabelValue(label), nil
	case FieldPacked:
		hi, err := f.Hi.Label(uint16(data[0]))
		if err != nil {
			return Value{}, err
		}
		lo, err := f.Lo.Label(uint16(data[1]))
		if err != nil {
			return Value{}, err
		}
		return PackedValue(hi, lo), nil
	}
	return Value{}, &ValidationError{Layout: f.Name, Reason: "unsupported field type"}
}

// encodeField is the inverse of decodeField. Kind mismatches and
// unknown labels are caller errors and fail before any encoding.
func encodeField(f FieldSpec, v Value) ([]byte, error) {
	data := make([]byte, int(f.Quantity)*2)
	switch f.Type {
	case FieldU8:
		if v.Kind() != KindU8 {
			return nil, kindMismatch(f, v)
		}
		data[1] = v.Uint8()
	case FieldU16:
		if v.Kind() != KindU16 {
			return nil, kindMismatch(f, v)
		}
		binary.BigEndian.PutUint16(data, v.Uint16())
	case FieldU32:
		if v.Kind() != KindU32 {
			return nil, kindMismatch(f, v)
		}
		binary.BigEndian.PutUint32(data, v.Uint32())
	case FieldF32:
		if v.Kind() != KindF32 {
			return nil, kindMismatch(f, v)
		}
		binary.BigEndian.PutUint32(data, math.Float32bits(v.Float32()))
	case FieldString:
		if v.Kind() != KindString {
			return nil, kindMismatch(f, v)
		}
		s := v.Text()
		if len(s) > len(data) {
			return nil, &ValidationError{Layout: f.Name, Reason: "string longer than field"}
		}
		copy(data, s)
	case FieldEnum:
		if v.Kind() != KindEnum {
			return nil, kindMismatch(f, v)
		}
		code, ok := f.Enum.Code(v.Label())
		if !ok {
			return nil, unknownLabel(f.Name, v.Label())
		}
		binary.BigEndian.PutUint16(data, code)
	case FieldPacked:
		if v.Kind() != KindPacked {
			return nil, kindMismatch(f, v)
		}
		hi, lo := v.Packed()
		hiCode, ok := f.Hi.Code(hi)
		if !ok {
			return nil, unknownLabel(f.Name, hi)
		}
		loCode, ok := f.Lo.Code(lo)
		if !ok {
			return nil, unknownLabel(f.Name, lo)
		}
		binary.BigEndian.PutUint16(data, hiCode<<8|loCode)
	default:
		return nil, &ValidationError{Layout: f.Name, Reason: "unsupported field type"}
	}
	return data, nil
}

func kindMismatch(f FieldSpec, v Value) error {
	return &ValidationError{
		Layout: f.Name,
		Reason: fmt.Sprintf("value kind %d does not match field type", v.Kind()),
	}
}

func unknownLabel(field, label string) error {
	return &ValidationError{
		Layout: field,
		Reason: "unknown label " + label,
	}
}
