// Copyright (c) 2018 The learn-blockchain developers

package types

import (
	"github.com/aronisstav/learn-blockchain/common/hash"
)

// NewGenesisHeader returns the header every chain starts from: the all-zero
// hash, the all-zero parent hash and the empty miner address.  Its hash is
// the sentinel value, never a computed digest.
func NewGenesisHeader() *BlockHeader {
	return &BlockHeader{
		Miner:      Address(""),
		Hash:       hash.ZeroHash,
		ParentHash: hash.ZeroHash,
	}
}

// NewGenesisBlock returns the empty block body the genesis header commits to.
// It is stored under the all-zero hash key.
func NewGenesisBlock() *Block {
	return &Block{Transactions: []*Transaction{}}
}

// IsGenesis reports whether the header carries the genesis sentinel values.
func (h *BlockHeader) IsGenesis() bool {
	return h.Miner == Address("") && h.Hash.IsZero() && h.ParentHash.IsZero()
}
