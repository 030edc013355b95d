// Copyright (c) 2018 The learn-blockchain developers

package main

import (
	"io"

	"github.com/aronisstav/learn-blockchain/core/dbnamespace"
)

// archiveEntry is one length prefixed record in a chain archive.  A chain
// archive starts with a 4 byte block count and holds two entries per block:
// the serialized header followed by the serialized block body.
type archiveEntry struct {
	length uint32
	bytes  []byte
}

func (e *archiveEntry) Encode(w io.Writer) error {
	var serializedLen [4]byte
	dbnamespace.ByteOrder.PutUint32(serializedLen[:], e.length)
	_, err := w.Write(serializedLen[:])
	if err != nil {
		return err
	}
	_, err = w.Write(e.bytes)
	return err
}

func (e *archiveEntry) Decode(r io.Reader) error {
	var serializedLen [4]byte
	if _, err := io.ReadFull(r, serializedLen[:]); err != nil {
		return err
	}
	e.length = dbnamespace.ByteOrder.Uint32(serializedLen[:])
	e.bytes = make([]byte, e.length)
	_, err := io.ReadFull(r, e.bytes)
	return err
}
