// Copyright (c) 2018 The learn-blockchain developers

// Package bdb implements the ledger database on top of bolt.  Each logical
// table maps to a bucket and every insert runs in its own committed
// transaction, so a write that returned is on disk.
package bdb

import (
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/aronisstav/learn-blockchain/core/dbnamespace"
	"github.com/aronisstav/learn-blockchain/database"
)

// db wraps a bolt instance and implements database.DB.
type db struct {
	store *bolt.DB
}

// table implements database.Table over a single bolt bucket.
type table struct {
	store      *bolt.DB
	bucketName []byte
}

// convertErr wraps a driver-specific error in a database.Error with the
// equivalent error code.
func convertErr(desc string, boltErr error) database.Error {
	code := database.ErrDriverSpecific
	if boltErr == bolt.ErrDatabaseNotOpen {
		code = database.ErrDbNotOpen
	}
	return database.Error{ErrorCode: code, Description: desc, Err: boltErr}
}

// Insert stores the value under key.  The enclosing transaction commit syncs
// the write before Insert returns.
func (t *table) Insert(key, value []byte) error {
	err := t.store.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(t.bucketName).Put(key, value)
	})
	if err != nil {
		str := fmt.Sprintf("failed to insert into %s", t.bucketName)
		return convertErr(str, err)
	}
	return nil
}

// Lookup returns the value stored under key.
func (t *table) Lookup(key []byte) ([]byte, error) {
	var value []byte
	err := t.store.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(t.bucketName).Get(key)
		if v != nil {
			// The slice is only valid inside the transaction.
			value = make([]byte, len(v))
			copy(value, v)
		}
		return nil
	})
	if err != nil {
		str := fmt.Sprintf("failed to lookup in %s", t.bucketName)
		return nil, convertErr(str, err)
	}
	if value == nil {
		str := fmt.Sprintf("key %x does not exist in %s", key, t.bucketName)
		return nil, database.Error{
			ErrorCode:   database.ErrKeyNotFound,
			Description: str,
		}
	}
	return value, nil
}

// Size returns the number of entries in the table.
func (t *table) Size() (uint64, error) {
	var n uint64
	err := t.store.View(func(tx *bolt.Tx) error {
		n = uint64(tx.Bucket(t.bucketName).Stats().KeyN)
		return nil
	})
	if err != nil {
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

	// Ensure the full path to the database exists.
	if !dbExists {
		// The error can be ignored here since the call to bolt.Open will
		// fail if the directory couldn't be created.
		_ = os.MkdirAll(filepath.Dir(dbPath), 0700)
	}

	store, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, convertErr("failed to open database", err)
	}

	// The tables are created up front so every later access can assume
	// they exist.
	err = store.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(dbnamespace.HeadersBucketName); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(dbnamespace.BlocksBucketName)
		return err
	})
	if err != nil {
		store.Close()
		return nil, convertErr("failed to create tables", err)
	}

	log.Trace("Opened bolt database", "path", dbPath)
	return &db{store: store}, nil
}
