// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"reflect"
	"time"

	"github.com/bsv-blockchain/go-bt/v2/chainhash"
)

// runningTestsFmt is shared by the package's table-driven tests for a
// consistent progress line.
const runningTestsFmt = "running %d tests"

// MaxVarIntPayload is the maximum payload size for a variable length integer.
const MaxVarIntPayload = 9

// littleEndian is the byte order of every fixed-width integer this package
// reads and writes.
var littleEndian = binary.LittleEndian

// errNonCanonicalVarInt is returned when a variable length integer is
// decoded using more bytes than necessary; only minimal-length encoding
// round-trips.
var errNonCanonicalVarInt = fmt.Errorf("non-canonical varint")

// readElement reads the next sequence of bytes from r using little-endian
// depending on the concrete type of element.
func readElement(r io.Reader, element interface{}) error {
	switch e := element.(type) {
	case *int32:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}

		*e = int32(littleEndian.Uint32(b[:])) //nolint:gosec // conversion

		return nil

	case *uint32:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}

		*e = littleEndian.Uint32(b[:])

		return nil

	case *int64:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}

		*e = int64(littleEndian.Uint64(b[:])) //nolint:gosec // conversion

		return nil

	case *uint64:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}

		*e = littleEndian.Uint64(b[:])

		return nil

	case *bool:
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}

		*e = b[0] != 0

		return nil

	case *uint8:
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}

		*e = b[0]

		return nil

	case *[4]byte:
		_, err := io.ReadFull(r, e[:])
		return err

	case *[CommandSize]byte:
		_, err := io.ReadFull(r, e[:])
		return err

	case *[16]byte:
		_, err := io.ReadFull(r, e[:])
		return err

	case *chainhash.Hash:
		_, err := io.ReadFull(r, e[:])
		return err

	case *ServiceFlag:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}

		*e = ServiceFlag(littleEndian.Uint64(b[:]))

		return nil

	case *InvType:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}

		*e = InvType(littleEndian.Uint32(b[:]))

		return nil

	case *BitcoinNet:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}

		*e = BitcoinNet(littleEndian.Uint32(b[:]))

		return nil
	}

	// Fall back to the reflection-based decoder for fixed-width integer
	// types not covered above (keeps the hot path allocation-free for
	// the types actually used on the wire).
	return readElementReflect(r, element)
}

// writeElement writes the little endian representation of element to w.
func writeElement(w io.Writer, element interface{}) error {
	switch e := element.(type) {
	case int32:
		var b [4]byte
		littleEndian.PutUint32(b[:], uint32(e)) //nolint:gosec // conversion
		_, err := w.Write(b[:])

		return err

	case uint32:
		var b [4]byte
		littleEndian.PutUint32(b[:], e)
		_, err := w.Write(b[:])

		return err

	case int64:
		var b [8]byte
		littleEndian.PutUint64(b[:], uint64(e)) //nolint:gosec // conversion
		_, err := w.Write(b[:])

		return err

	case uint64:
		var b [8]byte
		littleEndian.PutUint64(b[:], e)
		_, err := w.Write(b[:])

		return err

	case bool:
		var b [1]byte
		if e {
			b[0] = 1
		}

		_, err := w.Write(b[:])

		return err

	case uint8:
		_, err := w.Write([]byte{e})
		return err

	case [4]byte:
		_, err := w.Write(e[:])
		return err

	case [CommandSize]byte:
		_, err := w.Write(e[:])
		return err

	case [16]byte:
		_, err := w.Write(e[:])
		return err

	case *chainhash.Hash:
		_, err := w.Write(e[:])
		return err

	case chainhash.Hash:
		_, err := w.Write(e[:])
		return err

	case ServiceFlag:
		var b [8]byte
		littleEndian.PutUint64(b[:], uint64(e))
		_, err := w.Write(b[:])

		return err

	case InvType:
		var b [4]byte
		littleEndian.PutUint32(b[:], uint32(e))
		_, err := w.Write(b[:])

		return err

	case BitcoinNet:
		var b [4]byte
		littleEndian.PutUint32(b[:], uint32(e))
		_, err := w.Write(b[:])

		return err
	}

	return writeElementReflect(w, element)
}

// readElementReflect is the slow path for readElement, used for named types
// whose underlying kind is a fixed-width integer (e.g. a type alias created
// solely to document intent on the wire).
func readElementReflect(r io.Reader, element interface{}) error {
	v := reflect.ValueOf(element)
	if v.Kind() != reflect.Ptr || v.IsNil() {
		return messageError("readElement", fmt.Sprintf("unsupported type %T", element))
	}

	elem := v.Elem()

	switch elem.Kind() {
	case reflect.Uint8:
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}

		elem.SetUint(uint64(b[0]))

		return nil

	case reflect.Int32:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}

		elem.SetInt(int64(int32(littleEndian.Uint32(b[:])))) //nolint:gosec // conversion

		return nil

	case reflect.Uint32:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}

		elem.SetUint(uint64(littleEndian.Uint32(b[:])))

		return nil

	case reflect.Int64:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}

		elem.SetInt(int64(littleEndian.Uint64(b[:]))) //nolint:gosec // conversion

		return nil

	case reflect.Uint64:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return err
		}

		elem.SetUint(littleEndian.Uint64(b[:]))

		return nil

	default:
		return messageError("readElement", fmt.Sprintf("unsupported type %T", element))
	}
}

// writeElementReflect is the slow path for writeElement, mirroring
// readElementReflect.
func writeElementReflect(w io.Writer, element interface{}) error {
	v := reflect.ValueOf(element)

	switch v.Kind() {
	case reflect.Uint8:
		_, err := w.Write([]byte{uint8(v.Uint())}) //nolint:gosec // conversion
		return err

	case reflect.Int32:
		var b [4]byte
		littleEndian.PutUint32(b[:], uint32(v.Int())) //nolint:gosec // conversion
		_, err := w.Write(b[:])

		return err

	case reflect.Uint32:
		var b [4]byte
		littleEndian.PutUint32(b[:], uint32(v.Uint())) //nolint:gosec // conversion
		_, err := w.Write(b[:])

		return err

	case reflect.Int64:
		var b [8]byte
		littleEndian.PutUint64(b[:], uint64(v.Int())) //nolint:gosec // conversion
		_, err := w.Write(b[:])

		return err

	case reflect.Uint64:
		var b [8]byte
		littleEndian.PutUint64(b[:], v.Uint())
		_, err := w.Write(b[:])

		return err

	default:
		return messageError("writeElement", fmt.Sprintf("unsupported type %T", element))
	}
}

// readElements reads multiple items from r. It is equivalent to calling
// readElement for each item, but is provided so callers can pass a single
// varargs list instead of chaining error checks by hand.
func readElements(r io.Reader, elements ...interface{}) error {
	for _, element := range elements {
		if err := readElement(r, element); err != nil {
			return err
		}
	}

	return nil
}

// writeElements writes multiple items to w. It is equivalent to calling
// writeElement for each item, but only returns the first error encountered.
func writeElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		if err := writeElement(w, element); err != nil {
			return err
		}
	}

	return nil
}

// ReadVarInt reads a variable length integer from r and returns it as a
// uint64. A canonical (minimal-length) encoding is required; anything else
// is a protocol error.
func ReadVarInt(r io.Reader, _ uint32) (uint64, error) {
	var prefix [1]byte
	if _, err := io.ReadFull(r, prefix[:]); err != nil {
		return 0, err
	}

	var rv uint64

	switch prefix[0] {
	case 0xff:
		var b [8]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}

		rv = littleEndian.Uint64(b[:])

		if rv < 0x100000000 {
			return 0, errNonCanonicalVarInt
		}

	case 0xfe:
		var b [4]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}

		rv = uint64(littleEndian.Uint32(b[:]))

		if rv < 0x10000 {
			return 0, errNonCanonicalVarInt
		}

	case 0xfd:
		var b [2]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}

		rv = uint64(littleEndian.Uint16(b[:]))

		if rv < 0xfd {
			return 0, errNonCanonicalVarInt
		}

	default:
		rv = uint64(prefix[0])
	}

	return rv, nil
}

// WriteVarInt serializes val to w using the minimal number of bytes possible.
func WriteVarInt(w io.Writer, _ uint32, val uint64) error {
	if val < 0xfd {
		_, err := w.Write([]byte{byte(val)})
		return err
	}

	if val <= math.MaxUint16 {
		buf := make([]byte, 3)
		buf[0] = 0xfd
		littleEndian.PutUint16(buf[1:], uint16(val))
		_, err := w.Write(buf)

		return err
	}

	if val <= math.MaxUint32 {
		buf := make([]byte, 5)
		buf[0] = 0xfe
		littleEndian.PutUint32(buf[1:], uint32(val))
		_, err := w.Write(buf)

		return err
	}

	buf := make([]byte, 9)
	buf[0] = 0xff
	littleEndian.PutUint64(buf[1:], val)
	_, err := w.Write(buf)

	return err
}

// VarIntSerializeSize returns the number of bytes it would take to
// serialize val as a variable length integer.
func VarIntSerializeSize(val uint64) int {
	if val < 0xfd {
		return 1
	}

	if val <= math.MaxUint16 {
		return 3
	}

	if val <= math.MaxUint32 {
		return 5
	}

	return 9
}

// ReadVarString reads a variable length string from r and returns it as a
// Go string. A varString is encoded as a varInt containing the length of
// the string followed by the bytes that represent the string itself.
func ReadVarString(r io.Reader, pver uint32) (string, error) {
	count, err := ReadVarInt(r, pver)
	if err != nil {
		return "", err
	}

	if count > uint64(maxMessagePayload()) {
		str := fmt.Sprintf("variable length string is too long "+
			"[count %d, max %d]", count, maxMessagePayload())
		return "", messageError("ReadVarString", str)
	}

	buf := make([]byte, count)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}

	return string(buf), nil
}

// WriteVarString serializes str to w as a varInt containing the length of
// the string followed by the bytes that represent the string itself.
func WriteVarString(w io.Writer, pver uint32, str string) error {
	if err := WriteVarInt(w, pver, uint64(len(str))); err != nil {
		return err
	}

	_, err := w.Write([]byte(str))

	return err
}

// ReadVarBytes reads a variable length byte array. A byte array is encoded
// as a varInt containing the length of the array followed by the bytes
// themselves. fieldName is provided solely for the purpose of generating
// more descriptive error messages.
func ReadVarBytes(r io.Reader, pver uint32, maxAllowed uint64, fieldName string) ([]byte, error) {
	count, err := ReadVarInt(r, pver)
	if err != nil {
		return nil, err
	}

	if count > maxAllowed {
		str := fmt.Sprintf("%s is larger than the max allowed size "+
			"[count %d, max %d]", fieldName, count, maxAllowed)
		return nil, messageError("ReadVarBytes", str)
	}

	b := make([]byte, count)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}

	return b, nil
}

// WriteVarBytes serializes a variable length byte array to w as a varInt
// containing the number of bytes, followed by the bytes themselves.
func WriteVarBytes(w io.Writer, pver uint32, bytes []byte) error {
	if err := WriteVarInt(w, pver, uint64(len(bytes))); err != nil {
		return err
	}

	_, err := w.Write(bytes)

	return err
}

// randomUint64 reads a uint64 from r, used to generate nonces for version
// and ping messages. A short read from r is returned as an error.
func randomUint64(r io.Reader) (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return 0, err
	}

	return littleEndian.Uint64(b[:]), nil
}

// RandomUint64 returns a cryptographically random uint64 for callers outside
// this package (the peer package's version/ping nonce generation).
func RandomUint64() (uint64, error) {
	return randomUint64(rand.Reader)
}

// timeToUnix converts a time.Time to its uint32 unix-seconds wire form,
// clamping to zero for the pre-epoch zero value used to mean "no timestamp".
func timeToUnix(t time.Time) uint32 {
	if t.IsZero() {
		return 0
	}

	//nolint:gosec // wire timestamps are 32-bit by protocol definition
	return uint32(t.Unix())
}
