package cpu

import (
	"encoding/binary"
	"fmt"
	"io"
	"runtime"

	"github.com/pkg/errors"
)

func check(err error) {
	if err != nil {
		panic(err)
	}
}

var endian = binary.BigEndian

func readU8(r io.Reader) (v uint8) {
	check(binary.Read(r, endian, &v))
	return
}

func readI8(r io.Reader) (v int8) {
	check(binary.Read(r, endian, &v))
	return
}

func readU16(r io.Reader) (v uint16) {
	check(binary.Read(r, endian, &v))
	return
}

func readFull(r io.Reader, p []byte) {
	_, err := io.ReadFull(r, p)
	check(err)
}

func writeU8(w io.Writer, v uint8) {
	check(binary.Write(w, endian, v))
}

func writeI8(w io.Writer, v int8) {
	check(binary.Write(w, endian, v))
}

func writeU16(w io.Writer, v uint16) {
	check(binary.Write(w, endian, v))
}

func writeBytes(w io.Writer, p []byte) {
	_, err := w.Write(p)
	check(err)
}

func recoverOnPanic(err *error) {
	x := recover()
	if x == nil {
		return
	}

	switch tx := x.(type) {
	case runtime.Error:
		panic(tx)
	case error:
		*err = errors.Wrapf(tx, "snapshot")
	default:
		*err = fmt.Errorf("snapshot: %v", tx)
	}
}
