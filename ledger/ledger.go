// Copyright (c) 2018 The learn-blockchain developers

// Package ledger implements a single-node transaction ledger on top of a
// block chain.  Batches of transactions validate against the balances the
// chain replays to, attach as new blocks and are never rewritten; corrupt
// chain state is reported and left alone.
package ledger

import (
	"fmt"
	"sync"

	"github.com/davecgh/go-spew/spew"

	"github.com/aronisstav/learn-blockchain/common/hash"
	"github.com/aronisstav/learn-blockchain/core/types"
	"github.com/aronisstav/learn-blockchain/database"
)

// Config is a descriptor which specifies the ledger instance configuration.
type Config struct {
	// DB defines the database which houses the block headers and block
	// bodies.
	//
	// This field is required.
	DB database.DB

	// Miner is the address recorded as the miner of every block this node
	// attaches.
	//
	// This field is required.
	Miner types.Address
}

// Ledger provides functions for validating and attaching transaction batches
// to the chain and for replaying the chain into account balances.
type Ledger struct {
	// The following fields are set when the instance is created and can't
	// be changed afterwards, so there is no need to protect them with a
	// separate mutex.
	db    database.DB
	miner types.Address

	// chainLock protects concurrent access to the chain state.  Writes
	// take the exclusive lock while reads share it.
	chainLock sync.RWMutex
}

// AddResult describes the outcome of submitting a batch of transactions.  A
// rejected batch is a normal outcome, not an error: Accepted is false and the
// remaining fields are zero.
type AddResult struct {
	// Accepted reports whether the batch passed validation and attached.
	Accepted bool

	// Order is the chain order of the attached block.
	Order uint64

	// Header is the finalized header of the attached block.
	Header *types.BlockHeader
}

// New returns a Ledger instance using the provided configuration details.
//
// When the database holds no chain state yet, it is initialized to contain
// only the genesis block.  A database that already holds chain state is
// checked instead and anything broken is reported, never repaired.
func New(config *Config) (*Ledger, error) {
	// Enforce required config fields.
	if config.DB == nil {
		return nil, AssertError("ledger.New database is nil")
	}
	if config.Miner == "" {
		return nil, AssertError("ledger.New miner address is empty")
	}

	l := Ledger{
		db:    config.DB,
		miner: config.Miner,
	}

	if err := l.initChainState(); err != nil {
		return nil, err
	}

	order, tip, err := l.LatestHeader()
	if err != nil {
		return nil, err
	}
	log.Info("Chain state", "order", order, "hash", tip.Hash, "miner", l.miner)

	return &l, nil
}

// initChainState attempts to load and initialize the chain state from the
// database.  When the db does not yet contain any chain state, both it and
// the chain state are initialized to the genesis block.
func (l *Ledger) initChainState() error {
	n, err := l.db.Headers().Size()
	if err != nil {
		return err
	}

	// Initialize the database if it has not already been done.
	if n == 0 {
		return l.createChainState()
	}

	// The entry at order zero has to be the genesis header.
	genesis, err := dbFetchHeaderByOrder(l.db, 0)
	if err != nil {
		if IsErrorCode(err, ErrMissingHeader) {
			str := fmt.Sprintf("store has %d headers but none at "+
				"order 0", n)
			return chainError(ErrGenesisMissing, str)
		}
		return err
	}
	if !genesis.IsGenesis() {
		str := fmt.Sprintf("header at order 0 is not a genesis "+
			"header: hash %v, miner %q", genesis.Hash, genesis.Miner)
		return chainError(ErrGenesisMissing, str)
	}

	// The body of the latest block has to be present.  A header without
	// its block cannot be replayed, so it fails the load.
	tip, err := dbFetchHeaderByOrder(l.db, n-1)
	if err != nil {
		return err
	}
	if _, err := dbFetchBlockByHash(l.db, &tip.Hash); err != nil {
		return err
	}

	// A crash between the block write and the header write of an attach
	// leaves an orphan block behind.  It is unreachable from any header,
	// so it is logged and left alone.
	blocks, err := l.db.Blocks().Size()
	if err != nil {
		return err
	}
	if blocks != n {
		log.Warn("Block count differs from header count",
			"blocks", blocks, "headers", n)
	}

	return nil
}

// createChainState initializes the database to the genesis state: the empty
// genesis block stored under the all-zero hash and the genesis header at
// order zero.  It must only be called on an empty store.
func (l *Ledger) createChainState() error {
	n, err := l.db.Headers().Size()
	if err != nil {
		return err
	}
	if n != 0 {
		str := fmt.Sprintf("genesis creation over %d existing headers", n)
		return chainError(ErrGenesisExists, str)
	}

	log.Info("Creating genesis block")
	header := types.NewGenesisHeader()
	if err := dbPutBlock(l.db, &header.Hash, types.NewGenesisBlock()); err != nil {
		return err
	}
	return dbPutHeader(l.db, 0, header)
}

// LatestHeader returns the chain order and header of the chain tip.  On a
// store with no headers at all it returns ErrNoHeaders, which cannot happen
// once New has succeeded.
//
// This function is safe for concurrent access.
func (l *Ledger) LatestHeader() (uint64, *types.BlockHeader, error) {
	l.chainLock.RLock()
	defer l.chainLock.RUnlock()

	return l.latestHeader()
}

// latestHeader is the unexported version of LatestHeader.
//
// This function MUST be called with the chain lock held (for reads).
func (l *Ledger) latestHeader() (uint64, *types.BlockHeader, error) {
	n, err := l.db.Headers().Size()
	if err != nil {
		return 0, nil, err
	}
	if n == 0 {
		return 0, nil, chainError(ErrNoHeaders, "the store has no headers")
	}

	header, err := dbFetchHeaderByOrder(l.db, n-1)
	if err != nil {
		return 0, nil, err
	}
	return n - 1, header, nil
}

// attach builds a block from the entries, finalizes a header for it against
// the current tip and persists both.  The block is written before the header,
// so a crash between the two writes leaves an orphan block behind, never a
// header without its block.
//
// This function MUST be called with the chain lock held (for writes).
func (l *Ledger) attach(entries []*types.Transaction) (uint64, *types.BlockHeader, error) {
	tipOrder, tip, err := l.latestHeader()
	if err != nil {
		return 0, nil, err
	}

	block := types.NewBlock(entries)
	header := &types.BlockHeader{
		Miner:      l.miner,
		Hash:       hash.ZeroHash,
		ParentHash: tip.Hash,
	}
	header.Hash = types.BlockHash(block, header)

	if err := dbPutBlock(l.db, &header.Hash, block); err != nil {
		return 0, nil, err
	}
	if err := dbPutHeader(l.db, tipOrder+1, header); err != nil {
		return 0, nil, err
	}

	return tipOrder + 1, header, nil
}

// Balances replays the whole chain into a balance map.  Every transaction of
// every block folds in as a debit against the sender and a credit to the
// receiver; accounts the chain never touched are absent from the map.
// Nothing is cached between calls, so the result always reflects exactly
// what is stored.
//
// This function is safe for concurrent access.
func (l *Ledger) Balances() (types.BalanceMap, error) {
	l.chainLock.RLock()
	defer l.chainLock.RUnlock()

	return l.balances()
}

// balances is the unexported version of Balances.
//
// This function MUST be called with the chain lock held (for reads).
func (l *Ledger) balances() (types.BalanceMap, error) {
	n, err := l.db.Headers().Size()
	if err != nil {
		return nil, err
	}

	balances := make(types.BalanceMap)
	for order := uint64(0); order < n; order++ {
		header, err := dbFetchHeaderByOrder(l.db, order)
		if err != nil {
			return nil, err
		}
		block, err := dbFetchBlockByHash(l.db, &header.Hash)
		if err != nil {
			return nil, err
		}
		for _, tx := range block.Transactions {
			balances.Apply(tx)
		}
	}
	return balances, nil
}

// Balance returns the replayed balance of a single account.  An account the
// chain never touched has balance zero.
//
// This function is safe for concurrent access.
func (l *Ledger) Balance(addr types.Address) (int64, error) {
	balances, err := l.Balances()
	if err != nil {
		return 0, err
	}
	return balances.Get(addr), nil
}

// Add submits a batch of transactions to the chain.  The batch validates
// against the balances the stored chain replays to; an accepted batch
// attaches as a new block whose order and finalized header come back in the
// result.  A rejected batch is reported through the result, leaves the chain
// untouched and is not an error; errors are reserved for store and
// corruption failures.
//
// This function is safe for concurrent access.
func (l *Ledger) Add(entries []*types.Transaction) (*AddResult, error) {
	l.chainLock.Lock()
	defer l.chainLock.Unlock()

	balances, err := l.balances()
	if err != nil {
		return nil, err
	}

	if !Valid(entries, balances) {
		log.Debug("Rejected transaction batch", "entries",
			newLogClosure(func() string {
				return spew.Sdump(entries)
			}))
		return &AddResult{Accepted: false}, nil
	}

	order, header, err := l.attach(entries)
	if err != nil {
		return nil, err
	}

	log.Debug("Attached block", "order", order, "hash", header.Hash,
		"txs", len(entries))
	return &AddResult{Accepted: true, Order: order, Header: header}, nil
}

// VerifyChain walks the whole chain and checks every stored invariant: order
// zero holds the genesis header, every later header links to the hash of the
// header before it and re-hashes to its recorded hash from its stored block,
// and every referenced block exists.  The first violation is returned and
// nothing is modified.
//
// This function is safe for concurrent access.
func (l *Ledger) VerifyChain() error {
	l.chainLock.RLock()
	defer l.chainLock.RUnlock()

	n, err := l.db.Headers().Size()
	if err != nil {
		return err
	}
	if n == 0 {
		return chainError(ErrNoHeaders, "the store has no headers")
	}

	var prev *types.BlockHeader
	for order := uint64(0); order < n; order++ {
		header, err := dbFetchHeaderByOrder(l.db, order)
		if err != nil {
			return err
		}

		if order == 0 {
			if !header.IsGenesis() {
				return chainError(ErrGenesisMissing,
					"header at order 0 is not a genesis header")
			}
		} else if !header.ParentHash.IsEqual(&prev.Hash) {
			str := fmt.Sprintf("header at order %d has parent %v, "+
				"want %v", order, header.ParentHash, prev.Hash)
			return chainError(ErrBadParentHash, str)
		}

		block, err := dbFetchBlockByHash(l.db, &header.Hash)
		if err != nil {
			return err
		}

		// The genesis hash is the zero sentinel, not a digest, so
		// there is nothing to recompute at order zero.
		if order > 0 {
			got := types.BlockHash(block, header)
			if !got.IsEqual(&header.Hash) {
				str := fmt.Sprintf("header at order %d records "+
					"hash %v, recomputed %v", order,
					header.Hash, got)
				return chainError(ErrBadBlockHash, str)
			}
		}

		prev = header
	}

	log.Debug("Chain verified", "headers", n)
	return nil
}

// Close shuts the ledger down by releasing the underlying database.
func (l *Ledger) Close() error {
	l.chainLock.Lock()
	defer l.chainLock.Unlock()

	log.Debug("Closing ledger database", "type", l.db.Type())
	return l.db.Close()
}
