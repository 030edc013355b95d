// Copyright (c) 2018 The learn-blockchain developers

package ledger

import (
	"bytes"
	"fmt"

	"github.com/aronisstav/learn-blockchain/common/hash"
	"github.com/aronisstav/learn-blockchain/core/dbnamespace"
	"github.com/aronisstav/learn-blockchain/core/types"
	"github.com/aronisstav/learn-blockchain/database"
)

// orderKey generates the binary key for an entry in the header table.  The
// key is the chain order encoded as a big-endian 64-bit unsigned int so the
// entries sort in chain order.
func orderKey(order uint64) []byte {
	key := make([]byte, 8)
	dbnamespace.ByteOrder.PutUint64(key, order)
	return key
}

// corruptionError flags a stored value that can no longer be decoded.
func corruptionError(desc string, err error) database.Error {
	return database.Error{
		ErrorCode:   database.ErrCorruption,
		Description: desc,
		Err:         err,
	}
}

// dbPutHeader stores the header under its chain order.
func dbPutHeader(db database.DB, order uint64, header *types.BlockHeader) error {
	buf := bytes.NewBuffer(make([]byte, 0, header.SerializeSize()))
	if err := header.Serialize(buf); err != nil {
		return err
	}
	return db.Headers().Insert(orderKey(order), buf.Bytes())
}

// dbPutBlock stores the block under the provided hash.
func dbPutBlock(db database.DB, h *hash.Hash, block *types.Block) error {
	buf := bytes.NewBuffer(make([]byte, 0, block.SerializeSize()))
	if err := block.Serialize(buf); err != nil {
		return err
	}
	return db.Blocks().Insert(h.Bytes(), buf.Bytes())
}

// dbFetchHeaderByOrder retrieves and decodes the header at the given chain
// order.  A missing entry is reported as ErrMissingHeader.
func dbFetchHeaderByOrder(db database.DB, order uint64) (*types.BlockHeader, error) {
	serialized, err := db.Headers().Lookup(orderKey(order))
	if err != nil {
		if database.IsErrorCode(err, database.ErrKeyNotFound) {
			str := fmt.Sprintf("no header at order %d", order)
			return nil, chainError(ErrMissingHeader, str)
		}
		return nil, err
	}

	var header types.BlockHeader
	if err := header.Deserialize(bytes.NewReader(serialized)); err != nil {
		str := fmt.Sprintf("corrupt header at order %d", order)
		return nil, corruptionError(str, err)
	}
	return &header, nil
}

// dbFetchBlockByHash retrieves and decodes the block stored under the given
// hash.  A missing entry is reported as ErrMissingBlock.
func dbFetchBlockByHash(db database.DB, h *hash.Hash) (*types.Block, error) {
	serialized, err := db.Blocks().Lookup(h.Bytes())
	if err != nil {
		if database.IsErrorCode(err, database.ErrKeyNotFound) {
			str := fmt.Sprintf("no block with hash %v", h)
			return nil, chainError(ErrMissingBlock, str)
		}
		return nil, err
	}

	var block types.Block
	if err := block.Deserialize(bytes.NewReader(serialized)); err != nil {
		str := fmt.Sprintf("corrupt block with hash %v", h)
		return nil, corruptionError(str, err)
	}
	return &block, nil
}
