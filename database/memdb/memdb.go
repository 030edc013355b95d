// Copyright (c) 2018 The learn-blockchain developers

// Package memdb implements an ephemeral, memory-backed ledger database.  It
// exists for tests and throwaway runs; nothing survives Close.
package memdb

import (
	"sync"

	"github.com/aronisstav/learn-blockchain/core/dbnamespace"
	"github.com/aronisstav/learn-blockchain/database"
)

// db holds both tables behind one lock and implements database.DB.
type db struct {
	lock    sync.RWMutex
	closed  bool
	headers map[string][]byte
	blocks  map[string][]byte
}

// table implements database.Table over one of the maps.
type table struct {
	owner      *db
	bucketName []byte
}

func newDB() *db {
	return &db{
		headers: make(map[string][]byte),
		blocks:  make(map[string][]byte),
	}
}

// errDbClosed is the error returned for operations on a closed database.
func errDbClosed() database.Error {
	return database.Error{
		ErrorCode:   database.ErrDbNotOpen,
		Description: "database is closed",
	}
}

// entries returns the map behind the table.  Callers hold the db lock.
func (t *table) entries() map[string][]byte {
	if string(t.bucketName) == string(dbnamespace.HeadersBucketName) {
		return t.owner.headers
	}
	return t.owner.blocks
}

// Insert stores the value under key.  There is nothing to flush.
func (t *table) Insert(key, value []byte) error {
	t.owner.lock.Lock()
	defer t.owner.lock.Unlock()

	if t.owner.closed {
		return errDbClosed()
	}

	// Copy both slices so later caller mutations cannot reach the store.
	v := make([]byte, len(value))
	copy(v, value)
	t.entries()[string(key)] = v
	return nil
}

// Lookup returns the value stored under key.
func (t *table) Lookup(key []byte) ([]byte, error) {
	t.owner.lock.RLock()
	defer t.owner.lock.RUnlock()

	if t.owner.closed {
		return nil, errDbClosed()
	}

	v, ok := t.entries()[string(key)]
	if !ok {
		return nil, database.Error{
			ErrorCode:   database.ErrKeyNotFound,
			Description: "key does not exist",
		}
	}
	value := make([]byte, len(v))
	copy(value, v)
	return value, nil
}

// Size returns the number of entries in the table.
func (t *table) Size() (uint64, error) {
	t.owner.lock.RLock()
	defer t.owner.lock.RUnlock()

	if t.owner.closed {
		return 0, errDbClosed()
	}

	return uint64(len(t.entries())), nil
}

// Type returns the database driver type the current database instance was
// created with.
func (d *db) Type() string {
	return dbType
}

// Headers returns the headers table.
func (d *db) Headers() database.Table {
	return &table{owner: d, bucketName: dbnamespace.HeadersBucketName}
}

// Blocks returns the blocks table.
func (d *db) Blocks() database.Table {
	return &table{owner: d, bucketName: dbnamespace.BlocksBucketName}
}

// Close releases both tables.  Every access afterwards reports ErrDbNotOpen.
func (d *db) Close() error {
	d.lock.Lock()
	defer d.lock.Unlock()

	if d.closed {
		return errDbClosed()
	}
	d.closed = true
	d.headers = nil
	d.blocks = nil
	return nil
}
