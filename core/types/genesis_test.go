// Copyright (c) 2018 The learn-blockchain developers

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aronisstav/learn-blockchain/common/hash"
)

func TestGenesisHeader(t *testing.T) {
	g := NewGenesisHeader()

	assert.True(t, g.IsGenesis())
	assert.True(t, g.Hash.IsZero())
	assert.True(t, g.ParentHash.IsZero())
	assert.Equal(t, Address(""), g.Miner)
}

func TestGenesisBlockIsEmpty(t *testing.T) {
	b := NewGenesisBlock()
	assert.Len(t, b.Transactions, 0)
}

func TestIsGenesisRejectsRegularHeaders(t *testing.T) {
	mined := &BlockHeader{
		Miner:      "miner",
		Hash:       hash.HashH([]byte("h")),
		ParentHash: hash.ZeroHash,
	}
	assert.False(t, mined.IsGenesis())

	// A zeroed hash alone is not enough.
	withMiner := NewGenesisHeader()
	withMiner.Miner = "miner"
	assert.False(t, withMiner.IsGenesis())

	linked := NewGenesisHeader()
	linked.ParentHash = hash.HashH([]byte("parent"))
	assert.False(t, linked.IsGenesis())
}
