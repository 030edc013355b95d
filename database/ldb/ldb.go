// Copyright (c) 2018 The learn-blockchain developers

// Package ldb implements the ledger database on top of leveldb.  leveldb has
// no buckets, so each logical table prefixes its keys with the table name and
// a separator byte.  Writes go through with the sync option set.
package ldb

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/syndtr/goleveldb/leveldb"
	ldberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/aronisstav/learn-blockchain/core/dbnamespace"
	"github.com/aronisstav/learn-blockchain/database"
)

// tableKey builds the physical key for an entry of the named table.
func tableKey(bucketName, key []byte) []byte {
	return bytes.Join([][]byte{bucketName, []byte("-"), key}, []byte{})
}

// tablePrefix is the physical key prefix shared by every entry of the named
// table.
func tablePrefix(bucketName []byte) []byte {
	return append(append([]byte{}, bucketName...), '-')
}

// db wraps a leveldb instance and implements database.DB.
type db struct {
	store *leveldb.DB
}

// table implements database.Table over a leveldb key prefix.
type table struct {
	store      *leveldb.DB
	bucketName []byte
}

// syncWrites forces every put through to disk, the durability the ledger
// assumes from its store.
var syncWrites = &opt.WriteOptions{Sync: true}

// convertErr wraps a driver-specific error in a database.Error with the
// equivalent error code.
func convertErr(desc string, ldbErr error) database.Error {
	code := database.ErrDriverSpecific
	switch {
	case ldbErr == leveldb.ErrClosed:
		code = database.ErrDbNotOpen
	case ldberrors.IsCorrupted(ldbErr):
		code = database.ErrCorruption
	}
	return database.Error{ErrorCode: code, Description: desc, Err: ldbErr}
}

// Insert stores the value under key and syncs it to disk before returning.
func (t *table) Insert(key, value []byte) error {
	err := t.store.Put(tableKey(t.bucketName, key), value, syncWrites)
	if err != nil {
		str := fmt.Sprintf("failed to insert into %s", t.bucketName)
		return convertErr(str, err)
	}
	return nil
}

// Lookup returns the value stored under key.
func (t *table) Lookup(key []byte) ([]byte, error) {
	value, err := t.store.Get(tableKey(t.bucketName, key), nil)
	if err == leveldb.ErrNotFound {
		str := fmt.Sprintf("key %x does not exist in %s", key, t.bucketName)
		return nil, database.Error{
			ErrorCode:   database.ErrKeyNotFound,
			Description: str,
		}
	}
	if err != nil {
		str := fmt.Sprintf("failed to lookup in %s", t.bucketName)
		return nil, convertErr(str, err)
	}
	return value, nil
}

// Size returns the number of entries in the table by walking the key prefix.
func (t *table) Size() (uint64, error) {
	iter := t.store.NewIterator(util.BytesPrefix(tablePrefix(t.bucketName)), nil)
	defer iter.Release()

	var n uint64
	for iter.Next() {
		n++
	}
	if err := iter.Error(); err != nil {
		str := fmt.Sprintf("failed to size %s", t.bucketName)
		return 0, convertErr(str, err)
	}
	return n, nil
}

// Type returns the database driver type the current database instance was
// created with.
func (d *db) Type() string {
	return dbType
}

// Headers returns the headers table.
func (d *db) Headers() database.Table {
	return &table{store: d.store, bucketName: dbnamespace.HeadersBucketName}
}

// Blocks returns the blocks table.
func (d *db) Blocks() database.Table {
	return &table{store: d.store, bucketName: dbnamespace.BlocksBucketName}
}

// Close cleanly shuts down the database and syncs all data.
func (d *db) Close() error {
	if err := d.store.Close(); err != nil {
		return convertErr("failed to close database", err)
	}
	return nil
}

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// openDB opens the database at the provided path.  database.ErrDbDoesNotExist
// is returned if the database doesn't exist and the create flag is not set.
func openDB(dbPath string, create bool) (database.DB, error) {
	dbExists := fileExists(dbPath)

	if !create && !dbExists {
		str := fmt.Sprintf("database %q does not exist", dbPath)
		return nil, database.Error{
			ErrorCode:   database.ErrDbDoesNotExist,
			Description: str,
		}
	}
	if create && dbExists {
		str := fmt.Sprintf("database %q already exists", dbPath)
		return nil, database.Error{
			ErrorCode:   database.ErrDbExists,
			Description: str,
		}
	}

	if !dbExists {
		// The error can be ignored here since the call to
		// leveldb.OpenFile will fail if the directory couldn't be created.
		_ = os.MkdirAll(filepath.Dir(dbPath), 0700)
	}

	opts := &opt.Options{
		Strict:      opt.DefaultStrict,
		Compression: opt.NoCompression,
	}
	store, err := leveldb.OpenFile(dbPath, opts)
	if err != nil {
		// A half-written store from a crash can usually be recovered.
		corrupted, recoverErr := leveldb.RecoverFile(dbPath, nil)
		if recoverErr != nil {
			return nil, convertErr("failed to open database", err)
		}
		log.Warn("Recovered leveldb database", "path", dbPath)
		store = corrupted
	}

	log.Trace("Opened leveldb database", "path", dbPath)
	return &db{store: store}, nil
}
