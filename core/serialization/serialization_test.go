// Copyright (c) 2018 The learn-blockchain developers

package serialization

import (
	"bytes"
	"io"
	"reflect"
	"testing"

	"github.com/davecgh/go-spew/spew"

	"github.com/aronisstav/learn-blockchain/common/hash"
)

// TestVarIntWire tests encode and decode for variable length integers at the
// discriminant boundaries.
func TestVarIntWire(t *testing.T) {
	tests := []struct {
		in  uint64 // Value to encode
		buf []byte // Wire encoding
	}{
		// Single byte
		{0, []byte{0x00}},
		// Max single byte
		{0xfc, []byte{0xfc}},
		// Min 2-byte
		{0xfd, []byte{0xfd, 0x0fd, 0x00}},
		// Max 2-byte
		{0xffff, []byte{0xfd, 0xff, 0xff}},
		// Min 4-byte
		{0x10000, []byte{0xfe, 0x00, 0x00, 0x01, 0x00}},
		// Max 4-byte
		{0xffffffff, []byte{0xfe, 0xff, 0xff, 0xff, 0xff}},
		// Min 8-byte
		{0x100000000, []byte{0xff, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00}},
	}

	for i, test := range tests {
		var buf bytes.Buffer
		err := WriteVarInt(&buf, 0, test.in)
		if err != nil {
			t.Errorf("WriteVarInt #%d error %v", i, err)
			continue
		}
		if !bytes.Equal(buf.Bytes(), test.buf) {
			t.Errorf("WriteVarInt #%d\n got: %s want: %s", i,
				spew.Sdump(buf.Bytes()), spew.Sdump(test.buf))
			continue
		}

		rbuf := bytes.NewReader(test.buf)
		val, err := ReadVarInt(rbuf, 0)
		if err != nil {
			t.Errorf("ReadVarInt #%d error %v", i, err)
			continue
		}
		if val != test.in {
			t.Errorf("ReadVarInt #%d\n got: %d want: %d", i,
				val, test.in)
			continue
		}
	}
}

// TestVarIntNonCanonical ensures variable length integers that are not
// encoded canonically return an error.
func TestVarIntNonCanonical(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"0 encoded with 3 bytes", []byte{0xfd, 0x00, 0x00}},
		{"max 1-byte encoded with 3 bytes", []byte{0xfd, 0xfc, 0x00}},
		{"0 encoded with 5 bytes", []byte{0xfe, 0x00, 0x00, 0x00, 0x00}},
		{"max 2-byte encoded with 5 bytes", []byte{0xfe, 0xff, 0xff, 0x00, 0x00}},
		{"0 encoded with 9 bytes", []byte{0xff, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
		{"max 4-byte encoded with 9 bytes", []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x00}},
	}

	for _, test := range tests {
		rbuf := bytes.NewReader(test.in)
		if _, err := ReadVarInt(rbuf, 0); err == nil {
			t.Errorf("ReadVarInt %s: no error", test.name)
		}
	}
}

func TestVarIntSerializeSize(t *testing.T) {
	tests := []struct {
		val  uint64
		size int
	}{
		{0, 1},
		{0xfc, 1},
		{0xfd, 3},
		{0xffff, 3},
		{0x10000, 5},
		{0xffffffff, 5},
		{0x100000000, 9},
	}

	for i, test := range tests {
		if got := VarIntSerializeSize(test.val); got != test.size {
			t.Errorf("VarIntSerializeSize #%d got: %d want: %d", i,
				got, test.size)
		}
	}
}

func TestVarBytesWire(t *testing.T) {
	payload := []byte("an opaque address")

	var buf bytes.Buffer
	if err := WriteVarBytes(&buf, 0, payload); err != nil {
		t.Fatalf("WriteVarBytes error %v", err)
	}
	if got := VarBytesSerializeSize(payload); got != buf.Len() {
		t.Errorf("VarBytesSerializeSize got: %d want: %d", got, buf.Len())
	}

	out, err := ReadVarBytes(bytes.NewReader(buf.Bytes()), 0, 32, "address")
	if err != nil {
		t.Fatalf("ReadVarBytes error %v", err)
	}
	if !bytes.Equal(out, payload) {
		t.Errorf("ReadVarBytes\n got: %s want: %s",
			spew.Sdump(out), spew.Sdump(payload))
	}

	// Lengths beyond maxAllowed are rejected before any allocation.
	_, err = ReadVarBytes(bytes.NewReader(buf.Bytes()), 0, 4, "address")
	if err == nil {
		t.Error("ReadVarBytes accepted a field larger than maxAllowed")
	}
}

// TestElements exercises the type switch fast paths used by the wire types.
func TestElements(t *testing.T) {
	h := hash.HashH([]byte("element"))

	var buf bytes.Buffer
	err := WriteElements(&buf, uint8(7), uint16(0x1234), uint32(0xdeadbeef),
		int64(-42), uint64(1<<40), true, &h)
	if err != nil {
		t.Fatalf("WriteElements error %v", err)
	}

	var (
		u8  uint8
		u16 uint16
		u32 uint32
		i64 int64
		u64 uint64
		b   bool
		rh  hash.Hash
	)
	err = ReadElements(bytes.NewReader(buf.Bytes()), &u8, &u16, &u32, &i64,
		&u64, &b, &rh)
	if err != nil {
		t.Fatalf("ReadElements error %v", err)
	}

	got := []interface{}{u8, u16, u32, i64, u64, b, rh}
	want := []interface{}{uint8(7), uint16(0x1234), uint32(0xdeadbeef),
		int64(-42), uint64(1 << 40), true, h}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadElements\n got: %s want: %s",
			spew.Sdump(got), spew.Sdump(want))
	}

	// Signed values travel as two's complement little endian.
	var negBuf bytes.Buffer
	if err := WriteElements(&negBuf, int64(-1)); err != nil {
		t.Fatalf("WriteElements error %v", err)
	}
	wantNeg := []byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}
	if !bytes.Equal(negBuf.Bytes(), wantNeg) {
		t.Errorf("WriteElements int64(-1)\n got: %s want: %s",
			spew.Sdump(negBuf.Bytes()), spew.Sdump(wantNeg))
	}
}

func TestElementsShortRead(t *testing.T) {
	var u64 uint64
	err := ReadElements(bytes.NewReader([]byte{0x01, 0x02}), &u64)
	if err != io.ErrUnexpectedEOF {
		t.Errorf("ReadElements short read got: %v want: %v", err,
			io.ErrUnexpectedEOF)
	}
}
