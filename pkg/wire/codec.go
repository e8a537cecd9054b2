package wire

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// encodeScalar appends v, asserted to the Go type that code names, to
// buf in big-endian wire form. This is the one place the dense
// scalar-code jump table from the source's polymorphic writer lives;
// there is no reflection, only a type switch driven by the code that
// was fixed at registration time.
func encodeScalar(buf *bytes.Buffer, code ScalarCode, v any) error {
	switch code {
	case U8:
		x, ok := v.(uint8)
		if !ok {
			return typeMismatch(code, v)
		}
		buf.WriteByte(x)
	case I8:
		x, ok := v.(int8)
		if !ok {
			return typeMismatch(code, v)
		}
		buf.WriteByte(byte(x))
	case U16:
		x, ok := v.(uint16)
		if !ok {
			return typeMismatch(code, v)
		}
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], x)
		buf.Write(b[:])
	case I16:
		x, ok := v.(int16)
		if !ok {
			return typeMismatch(code, v)
		}
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(x))
		buf.Write(b[:])
	case U32:
		x, ok := v.(uint32)
		if !ok {
			return typeMismatch(code, v)
		}
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], x)
		buf.Write(b[:])
	case I32:
		x, ok := v.(int32)
		if !ok {
			return typeMismatch(code, v)
		}
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(x))
		buf.Write(b[:])
	case U64:
		x, ok := v.(uint64)
		if !ok {
			return typeMismatch(code, v)
		}
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], x)
		buf.Write(b[:])
	case I64:
		x, ok := v.(int64)
		if !ok {
			return typeMismatch(code, v)
		}
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], uint64(x))
		buf.Write(b[:])
	case Str:
		x, ok := v.(string)
		if !ok {
			return typeMismatch(code, v)
		}
		return encodeStr(buf, x)
	default:
		return fmt.Errorf("wire: unknown scalar code %d", code)
	}
	return nil
}

// encodeStr writes a u16 length (including the trailing NUL) followed
// by the string bytes and a trailing NUL, per §6.1.
func encodeStr(buf *bytes.Buffer, s string) error {
	n := len(s) + 1
	if n > 0xFFFF {
		return ErrStringTooLong
	}
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(n))
	buf.Write(b[:])
	buf.WriteString(s)
	buf.WriteByte(0)
	return nil
}

func typeMismatch(code ScalarCode, v any) error {
	return fmt.Errorf("wire: field declared %s but value has Go type %T", code, v)
}
