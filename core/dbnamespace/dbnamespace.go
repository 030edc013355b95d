// Copyright (c) 2018 The learn-blockchain developers

// Package dbnamespace contains constants that define the database namespaces
// for the ledger, so that external callers may easily access this data.
package dbnamespace

import (
	"encoding/binary"
)

var (
	// ByteOrder is the preferred byte order used for serializing numeric
	// fields for storage in the database.  Order keys are big endian so
	// entries iterate in chain order.
	ByteOrder = binary.BigEndian

	// HeadersBucketName is the name of the db table used to house the block
	// headers, keyed by chain order.
	HeadersBucketName = []byte("headers")

	// BlocksBucketName is the name of the db table used to house the block
	// bodies, keyed by block hash.
	BlocksBucketName = []byte("blocks")
)
