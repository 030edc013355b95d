// Copyright (c) 2018 The learn-blockchain developers

package types

import (
	"bytes"
	"fmt"
	"io"

	"github.com/aronisstav/learn-blockchain/common/hash"
	s "github.com/aronisstav/learn-blockchain/core/serialization"
)

// MaxBlockPayload is the maximum bytes a serialized block can be.  It bounds
// the address lengths and transaction counts accepted by the decoders.
const MaxBlockPayload = 4000000

// maxTxPerBlock is the maximum number of transactions that could possibly fit
// into a block.
const maxTxPerBlock = (MaxBlockPayload / minTxPayload) + 1

// BlockHeader forms the chain.  Each header commits to the block body stored
// under its Hash and to the header before it through ParentHash.
type BlockHeader struct {
	// Miner is the address of the node that attached the block.  The
	// genesis header carries the empty address.
	Miner Address

	// Hash identifies the block.  It commits to the block body and to every
	// other header field; the field itself is zeroed while the digest is
	// computed.  The genesis header keeps the all-zero sentinel instead of a
	// computed digest.
	Hash hash.Hash

	// ParentHash is the Hash of the preceding header in the chain.
	ParentHash hash.Hash
}

// SerializeSize returns the number of bytes it would take to serialize the
// block header.
func (h *BlockHeader) SerializeSize() int {
	return s.VarBytesSerializeSize([]byte(h.Miner)) + hash.HashSize*2
}

// readBlockHeader reads a block header from the io reader.  See Deserialize
// for decoding block headers stored to disk, such as in a database, as
// opposed to decoding from the wire.
func readBlockHeader(r io.Reader, pver uint32, bh *BlockHeader) error {
	miner, err := s.ReadVarBytes(r, pver, MaxBlockPayload, "miner address")
	if err != nil {
		return err
	}
	bh.Miner = Address(miner)
	return s.ReadElements(r, &bh.Hash, &bh.ParentHash)
}

// writeBlockHeader writes a block header to w.  See Serialize for encoding
// block headers to be stored to disk, such as in a database, as opposed to
// encoding for the wire.
func writeBlockHeader(w io.Writer, pver uint32, bh *BlockHeader) error {
	err := s.WriteVarBytes(w, pver, []byte(bh.Miner))
	if err != nil {
		return err
	}
	return s.WriteElements(w, &bh.Hash, &bh.ParentHash)
}

// Serialize encodes the block header to w using a format that is suitable for
// long-term storage such as a database.
func (h *BlockHeader) Serialize(w io.Writer) error {
	// At the current time, there is no difference between the wire encoding
	// and the stable long-term storage format.  As a result, make use of
	// writeBlockHeader.
	return writeBlockHeader(w, 0, h)
}

// Deserialize decodes a block header from r into the receiver using a format
// that is suitable for long-term storage such as a database.
func (h *BlockHeader) Deserialize(r io.Reader) error {
	// At the current time, there is no difference between the wire encoding
	// and the stable long-term storage format.  As a result, make use of
	// readBlockHeader.
	return readBlockHeader(r, 0, h)
}

// Block is the body the header commits to: the batch of transactions that
// entered the ledger together.  The genesis block carries none.
type Block struct {
	Transactions []*Transaction
}

// NewBlock returns a block carrying the given transactions.
func NewBlock(txs []*Transaction) *Block {
	return &Block{Transactions: txs}
}

// SerializeSize returns the number of bytes it would take to serialize the
// block.
func (block *Block) SerializeSize() int {
	// Serialized varint size for the number of transactions.
	n := s.VarIntSerializeSize(uint64(len(block.Transactions)))

	for _, tx := range block.Transactions {
		n += tx.SerializeSize()
	}

	return n
}

// Serialize encodes the block to w using a format that is suitable for
// long-term storage such as a database.
func (block *Block) Serialize(w io.Writer) error {
	// At the current time, there is no difference between the wire encoding
	// and the stable long-term storage format.  As a result, make use of
	// Encode.
	return block.Encode(w, 0)
}

// Encode encodes the receiver to w using the protocol encoding.
func (block *Block) Encode(w io.Writer, pver uint32) error {
	err := s.WriteVarInt(w, pver, uint64(len(block.Transactions)))
	if err != nil {
		return err
	}

	for _, tx := range block.Transactions {
		err = tx.Encode(w, pver)
		if err != nil {
			return err
		}
	}
	return nil
}

// Deserialize decodes a block from r into the receiver using a format that is
// suitable for long-term storage such as a database.
func (b *Block) Deserialize(r io.Reader) error {
	// At the current time, there is no difference between the wire encoding
	// and the stable long-term storage format.  As a result, make use of
	// Decode.
	return b.Decode(r, 0)
}

// Decode decodes r into the receiver using the protocol encoding.
func (b *Block) Decode(r io.Reader, pver uint32) error {
	txCount, err := s.ReadVarInt(r, pver)
	if err != nil {
		return err
	}
	if txCount > maxTxPerBlock {
		return fmt.Errorf("too many transactions to fit into a block "+
			"[count %d, max %d]", txCount, maxTxPerBlock)
	}

	b.Transactions = make([]*Transaction, 0, txCount)
	for i := uint64(0); i < txCount; i++ {
		var tx Transaction
		err := tx.Deserialize(r)
		if err != nil {
			return err
		}
		b.Transactions = append(b.Transactions, &tx)
	}

	return nil
}

// BlockHash computes the identifier hash for a block and its header.  The
// digest covers the serialized block body followed by the serialized header
// with its Hash field zeroed, so the identifier commits to everything except
// itself.
func BlockHash(block *Block, header *BlockHeader) hash.Hash {
	// Encode the block and the cleared header back to back and hash
	// everything.  Ignore the error returns since there is no way the
	// encode could fail except being out of memory which would cause a
	// run-time panic.
	buf := bytes.NewBuffer(make([]byte, 0,
		block.SerializeSize()+header.SerializeSize()))
	_ = block.Serialize(buf)

	cleared := *header
	cleared.Hash = hash.ZeroHash
	_ = cleared.Serialize(buf)

	return hash.HashH(buf.Bytes())
}
