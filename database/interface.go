// Copyright (c) 2018 The learn-blockchain developers

package database

// Table is a flat keyspace inside the database.  Implementations flush every
// insert before returning so a write that came back is on disk; the two
// tables of a DB share no transactional guarantee with each other.
type Table interface {
	// Insert stores the value under key, overwriting any existing entry.
	Insert(key, value []byte) error

	// Lookup returns the value stored under key.  A missing key returns an
	// Error with ErrorCode ErrKeyNotFound.
	Lookup(key []byte) ([]byte, error)

	// Size returns the number of entries in the table.
	Size() (uint64, error)
}

// DB provides access to the two tables the ledger persists: block headers
// keyed by big endian chain order and block bodies keyed by content hash.
type DB interface {
	// Type returns the database driver type the current database instance
	// was created with.
	Type() string

	// Headers returns the headers table.
	Headers() Table

	// Blocks returns the blocks table.
	Blocks() Table

	// Close cleanly shuts down the database and syncs all data.  Accessing
	// a table after close returns an Error with ErrorCode ErrDbNotOpen.
	Close() error
}
