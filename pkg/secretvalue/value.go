// Package secretvalue holds the raw payload of a secret as either text or
// opaque binary data.
package secretvalue

import (
	"bytes"
	"fmt"
)

// Value is an immutable secret payload. It is either text or binary, never
// both. The zero Value is Text("").
type Value struct {
	binary bool
	text   string
	data   []byte
}

// Text wraps a string payload.
func Text(s string) Value {
	return Value{text: s}
}

// Binary wraps a byte payload. The bytes are copied.
func Binary(b []byte) Value {
	return Value{binary: true, data: append([]byte{}, b...)}
}

// Match calls exactly one of the handlers with the payload and returns its
// result. Binary handlers receive a copy of the payload.
func Match[T any](v Value, onText func(string) T, onBinary func([]byte) T) T {
	if v.binary {
		return onBinary(append([]byte{}, v.data...))
	}
	return onText(v.text)
}

func (v Value) IsText() bool {
	return !v.binary
}

func (v Value) IsBinary() bool {
	return v.binary
}

// Len returns the payload size in bytes.
func (v Value) Len() int {
	if v.binary {
		return len(v.data)
	}
	return len(v.text)
}

// Equal reports whether both values hold the same variant and payload.
func (v Value) Equal(other Value) bool {
	if v.binary != other.binary {
		return false
	}
	if v.binary {
		return bytes.Equal(v.data, other.data)
	}
	return v.text == other.text
}

// String describes the value without revealing it.
func (v Value) String() string {
	if v.binary {
		return fmt.Sprintf("binary(%d bytes)", len(v.data))
	}
	return fmt.Sprintf("text(%d bytes)", len(v.text))
}

func (v Value) GoString() string {
	return v.String()
}
