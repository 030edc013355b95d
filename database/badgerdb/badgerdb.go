// Copyright (c) 2018 The learn-blockchain developers

// Package badgerdb implements the ledger database on top of badger.  Like the
// leveldb backend it separates the logical tables by key prefix, and it opens
// the store with SyncWrites so every committed insert is durable.
package badgerdb

import (
	"bytes"
	"fmt"
	"os"

	"github.com/dgraph-io/badger"

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

// db wraps a badger instance and implements database.DB.
type db struct {
	store *badger.DB
}

// table implements database.Table over a badger key prefix.
type table struct {
	store      *badger.DB
	bucketName []byte
}

// convertErr wraps a driver-specific error in a database.Error with the
// equivalent error code.
func convertErr(desc string, badgerErr error) database.Error {
	return database.Error{
		ErrorCode:   database.ErrDriverSpecific,
		Description: desc,
		Err:         badgerErr,
	}
}

// Insert stores the value under key.  SyncWrites makes the commit durable
// before Insert returns.
func (t *table) Insert(key, value []byte) error {
	err := t.store.Update(func(txn *badger.Txn) error {
		return txn.Set(tableKey(t.bucketName, key), value)
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
	err := t.store.View(func(txn *badger.Txn) error {
		item, err := txn.Get(tableKey(t.bucketName, key))
		if err != nil {
			return err
		}
		v, err := item.Value()
		if err != nil {
			return err
		}
		// The slice is only valid inside the transaction.
		value = make([]byte, len(v))
		copy(value, v)
		return nil
	})
	if err == badger.ErrKeyNotFound {
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
	var n uint64
	err := t.store.View(func(txn *badger.Txn) error {
		opts := badger.IteratorOptions{PrefetchValues: false}
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := tablePrefix(t.bucketName)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
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

	if !dbExists {
		if err := os.MkdirAll(dbPath, 0700); err != nil {
			return nil, convertErr("failed to create database directory", err)
		}
	}

	opts := badger.DefaultOptions
	opts.Dir = dbPath
	opts.ValueDir = dbPath
	opts.SyncWrites = true
	store, err := badger.Open(opts)
	if err != nil {
		return nil, convertErr("failed to open database", err)
	}

	log.Trace("Opened badger database", "path", dbPath)
	return &db{store: store}, nil
}
