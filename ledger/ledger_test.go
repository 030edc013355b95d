// Copyright (c) 2018 The learn-blockchain developers

package ledger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aronisstav/learn-blockchain/common/hash"
	"github.com/aronisstav/learn-blockchain/core/types"
	"github.com/aronisstav/learn-blockchain/database"
	_ "github.com/aronisstav/learn-blockchain/database/memdb"
)

const testMiner = types.Address("test miner")

// newTestDB spins a fresh memory database.
func newTestDB(t *testing.T) database.DB {
	db, err := database.Create("memdb")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	return db
}

// newTestLedger spins a ledger over a fresh memory database.
func newTestLedger(t *testing.T) *Ledger {
	l, err := New(&Config{DB: newTestDB(t), Miner: testMiner})
	if err != nil {
		t.Fatalf("failed to create ledger: %v", err)
	}
	return l
}

// mustAdd submits a batch and fails the test unless it attaches.
func mustAdd(t *testing.T, l *Ledger, entries ...*types.Transaction) *AddResult {
	res, err := l.Add(entries)
	if err != nil {
		t.Fatalf("failed to add batch: %v", err)
	}
	if !res.Accepted {
		t.Fatalf("batch unexpectedly rejected: %v", entries)
	}
	return res
}

// tableSizes returns the header and block counts of the store.
func tableSizes(t *testing.T, db database.DB) (uint64, uint64) {
	headers, err := db.Headers().Size()
	if err != nil {
		t.Fatalf("failed to size headers: %v", err)
	}
	blocks, err := db.Blocks().Size()
	if err != nil {
		t.Fatalf("failed to size blocks: %v", err)
	}
	return headers, blocks
}

func TestNewRequiredFields(t *testing.T) {
	_, err := New(&Config{Miner: testMiner})
	assert.IsType(t, AssertError(""), err)

	_, err = New(&Config{DB: newTestDB(t)})
	assert.IsType(t, AssertError(""), err)
}

func TestGenesis(t *testing.T) {
	l := newTestLedger(t)

	order, tip, err := l.LatestHeader()
	assert.Nil(t, err)
	assert.Equal(t, uint64(0), order)
	assert.True(t, tip.IsGenesis())

	headers, blocks := tableSizes(t, l.db)
	assert.Equal(t, uint64(1), headers)
	assert.Equal(t, uint64(1), blocks)

	// The genesis block is empty and stored under the all-zero hash.
	block, err := dbFetchBlockByHash(l.db, &hash.ZeroHash)
	assert.Nil(t, err)
	assert.Len(t, block.Transactions, 0)

	assert.Nil(t, l.VerifyChain())
}

func TestGenesisOnce(t *testing.T) {
	l := newTestLedger(t)
	mustAdd(t, l, types.NewMintTransaction("A", 5))

	// A second ledger over the same store loads the existing state
	// instead of creating another genesis.
	again, err := New(&Config{DB: l.db, Miner: testMiner})
	assert.Nil(t, err)

	order, _, err := again.LatestHeader()
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), order)

	headers, blocks := tableSizes(t, again.db)
	assert.Equal(t, uint64(2), headers)
	assert.Equal(t, uint64(2), blocks)

	// Creating the chain state over a non-empty store is an error.
	err = again.createChainState()
	assert.True(t, IsErrorCode(err, ErrGenesisExists))
}

func TestAddAttaches(t *testing.T) {
	l := newTestLedger(t)

	first := mustAdd(t, l, types.NewMintTransaction("A", 100))
	assert.Equal(t, uint64(1), first.Order)
	assert.Equal(t, testMiner, first.Header.Miner)
	assert.True(t, first.Header.ParentHash.IsZero())

	second := mustAdd(t, l, types.NewTransaction("A", "B", 50))
	assert.Equal(t, uint64(2), second.Order)
	assert.True(t, second.Header.ParentHash.IsEqual(&first.Header.Hash))

	// The tip is the block that attached last.
	order, tip, err := l.LatestHeader()
	assert.Nil(t, err)
	assert.Equal(t, uint64(2), order)
	assert.Equal(t, second.Header, tip)

	// Two accepted batches over a fresh store leave three headers and
	// three blocks, genesis included.
	headers, blocks := tableSizes(t, l.db)
	assert.Equal(t, uint64(3), headers)
	assert.Equal(t, uint64(3), blocks)

	assert.Nil(t, l.VerifyChain())
}

func TestAddRejects(t *testing.T) {
	l := newTestLedger(t)
	mustAdd(t, l, types.NewMintTransaction("A", 100))

	before, err := l.Balances()
	assert.Nil(t, err)

	res, err := l.Add([]*types.Transaction{
		types.NewTransaction("A", "B", 150),
	})
	assert.Nil(t, err)
	assert.False(t, res.Accepted)
	assert.Nil(t, res.Header)

	// A rejected batch leaves no trace.
	headers, blocks := tableSizes(t, l.db)
	assert.Equal(t, uint64(2), headers)
	assert.Equal(t, uint64(2), blocks)

	after, err := l.Balances()
	assert.Nil(t, err)
	assert.Equal(t, before, after)

	// The same ledger keeps accepting valid batches afterwards.
	mustAdd(t, l, types.NewTransaction("A", "B", 50))
}

func TestAddRejectsBatchAsUnit(t *testing.T) {
	l := newTestLedger(t)
	mustAdd(t, l, types.NewMintTransaction("A", 10))

	// The second entry spends what the first deposited.
	mustAdd(t, l,
		types.NewTransaction("A", "B", 10),
		types.NewTransaction("B", "C", 10))

	// One uncovered entry rejects everything around it too.
	res, err := l.Add([]*types.Transaction{
		types.NewTransaction("C", "A", 10),
		types.NewTransaction("A", "B", 999),
	})
	assert.Nil(t, err)
	assert.False(t, res.Accepted)

	balance, err := l.Balance("C")
	assert.Nil(t, err)
	assert.Equal(t, int64(10), balance)
}

func TestAddEmptyBatch(t *testing.T) {
	l := newTestLedger(t)

	res, err := l.Add(nil)
	assert.Nil(t, err)
	assert.True(t, res.Accepted)
	assert.Equal(t, uint64(1), res.Order)

	block, err := dbFetchBlockByHash(l.db, &res.Header.Hash)
	assert.Nil(t, err)
	assert.Len(t, block.Transactions, 0)

	assert.Nil(t, l.VerifyChain())
}

func TestMintExemption(t *testing.T) {
	l := newTestLedger(t)
	mustAdd(t, l, types.NewMintTransaction("A", 1000))

	balances, err := l.Balances()
	assert.Nil(t, err)
	assert.Equal(t, int64(1000), balances.Get("A"))

	// Minting debits the mint account; its balance just goes negative.
	assert.Equal(t, int64(-1000), balances.Get(types.MintAddress))
}

func TestBalancesReplay(t *testing.T) {
	l := newTestLedger(t)
	mustAdd(t, l, types.NewMintTransaction("A", 100))
	mustAdd(t, l, types.NewTransaction("A", "B", 30))
	mustAdd(t, l,
		types.NewMintTransaction("C", 5),
		types.NewTransaction("B", "C", 10))

	want := types.BalanceMap{
		types.MintAddress: -105,
		"A":               70,
		"B":               20,
		"C":               15,
	}

	balances, err := l.Balances()
	assert.Nil(t, err)
	assert.Equal(t, want, balances)

	// Replaying the same chain again produces the same map.
	again, err := l.Balances()
	assert.Nil(t, err)
	assert.Equal(t, balances, again)

	// So does a second ledger over the same store.
	other, err := New(&Config{DB: l.db, Miner: "someone else"})
	assert.Nil(t, err)
	theirs, err := other.Balances()
	assert.Nil(t, err)
	assert.Equal(t, balances, theirs)

	balance, err := l.Balance("B")
	assert.Nil(t, err)
	assert.Equal(t, int64(20), balance)

	// Accounts the chain never touched read as zero.
	balance, err = l.Balance("nobody")
	assert.Nil(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestNegativeAmounts(t *testing.T) {
	l := newTestLedger(t)

	// A negative amount always passes the balance check and moves value
	// from the receiver to the sender.
	res := mustAdd(t, l, types.NewTransaction("A", "B", -5))
	assert.Equal(t, uint64(1), res.Order)

	balances, err := l.Balances()
	assert.Nil(t, err)
	assert.Equal(t, int64(5), balances.Get("A"))
	assert.Equal(t, int64(-5), balances.Get("B"))
}

func TestEmptyStore(t *testing.T) {
	l := &Ledger{db: newTestDB(t), miner: testMiner}

	_, _, err := l.LatestHeader()
	assert.True(t, IsErrorCode(err, ErrNoHeaders))

	err = l.VerifyChain()
	assert.True(t, IsErrorCode(err, ErrNoHeaders))
}

func TestLoadBadGenesis(t *testing.T) {
	// A store whose order zero entry is a regular header fails the load.
	db := newTestDB(t)
	header := &types.BlockHeader{Miner: "whoever", ParentHash: hash.ZeroHash}
	header.Hash = types.BlockHash(types.NewBlock(nil), header)
	assert.Nil(t, dbPutHeader(db, 0, header))

	_, err := New(&Config{DB: db, Miner: testMiner})
	assert.True(t, IsErrorCode(err, ErrGenesisMissing))
}

func TestLoadNoGenesisEntry(t *testing.T) {
	// A store with headers but none at order zero fails the load.
	db := newTestDB(t)
	assert.Nil(t, dbPutHeader(db, 1, types.NewGenesisHeader()))

	_, err := New(&Config{DB: db, Miner: testMiner})
	assert.True(t, IsErrorCode(err, ErrGenesisMissing))
}

func TestLoadMissingTipBlock(t *testing.T) {
	// Simulate a crash that persisted a header whose block never made it.
	l := newTestLedger(t)
	res := mustAdd(t, l, types.NewMintTransaction("A", 5))

	orphan := &types.BlockHeader{
		Miner:      testMiner,
		ParentHash: res.Header.Hash,
	}
	orphan.Hash = types.BlockHash(types.NewBlock(nil), orphan)
	assert.Nil(t, dbPutHeader(l.db, 2, orphan))

	_, err := New(&Config{DB: l.db, Miner: testMiner})
	assert.True(t, IsErrorCode(err, ErrMissingBlock))
}

func TestLoadOrphanBlock(t *testing.T) {
	// A crash between the block write and the header write leaves an
	// orphan block behind; loading tolerates it.
	l := newTestLedger(t)
	res := mustAdd(t, l, types.NewMintTransaction("A", 5))

	block := types.NewBlock([]*types.Transaction{
		types.NewTransaction("A", "B", 1),
	})
	header := &types.BlockHeader{
		Miner:      testMiner,
		ParentHash: res.Header.Hash,
	}
	header.Hash = types.BlockHash(block, header)
	assert.Nil(t, dbPutBlock(l.db, &header.Hash, block))

	again, err := New(&Config{DB: l.db, Miner: testMiner})
	assert.Nil(t, err)

	// The orphan is unreachable from any header, so replay ignores it.
	balances, err := again.Balances()
	assert.Nil(t, err)
	assert.Equal(t, int64(5), balances.Get("A"))
}

func TestVerifyChainDetectsForgedBlock(t *testing.T) {
	l := newTestLedger(t)
	mustAdd(t, l, types.NewMintTransaction("A", 100))
	res := mustAdd(t, l, types.NewTransaction("A", "B", 25))
	assert.Nil(t, l.VerifyChain())

	// Rewrite the stored block behind the latest header.
	forged := types.NewBlock([]*types.Transaction{
		types.NewTransaction("A", "B", 99),
	})
	assert.Nil(t, dbPutBlock(l.db, &res.Header.Hash, forged))

	err := l.VerifyChain()
	assert.True(t, IsErrorCode(err, ErrBadBlockHash))
}

func TestVerifyChainDetectsBadLink(t *testing.T) {
	l := newTestLedger(t)
	mustAdd(t, l, types.NewMintTransaction("A", 100))
	res := mustAdd(t, l, types.NewTransaction("A", "B", 25))

	// Point the tip header at a parent that is not its predecessor.
	broken := *res.Header
	broken.ParentHash = hash.Hash{0x01}
	assert.Nil(t, dbPutHeader(l.db, 2, &broken))

	err := l.VerifyChain()
	assert.True(t, IsErrorCode(err, ErrBadParentHash))
}

func TestVerifyChainDetectsMissingBlock(t *testing.T) {
	// Hand-build a chain whose tip header references a block that was
	// never stored.
	db := newTestDB(t)
	assert.Nil(t, dbPutBlock(db, &hash.ZeroHash, types.NewGenesisBlock()))
	assert.Nil(t, dbPutHeader(db, 0, types.NewGenesisHeader()))

	header := &types.BlockHeader{Miner: testMiner, ParentHash: hash.ZeroHash}
	header.Hash = types.BlockHash(types.NewBlock(nil), header)
	assert.Nil(t, dbPutHeader(db, 1, header))

	l := &Ledger{db: db, miner: testMiner}
	err := l.VerifyChain()
	assert.True(t, IsErrorCode(err, ErrMissingBlock))
}

func TestClose(t *testing.T) {
	l := newTestLedger(t)
	assert.Nil(t, l.Close())

	// Store failures propagate unchanged.
	_, err := l.Balances()
	assert.True(t, database.IsErrorCode(err, database.ErrDbNotOpen))

	_, err = l.Add([]*types.Transaction{types.NewMintTransaction("A", 1)})
	assert.True(t, database.IsErrorCode(err, database.ErrDbNotOpen))
}

func TestConcurrentAccess(t *testing.T) {
	l := newTestLedger(t)
	mustAdd(t, l, types.NewMintTransaction("A", 1000))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				if _, err := l.Balances(); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	for i := 0; i < 25; i++ {
		mustAdd(t, l, types.NewTransaction("A", "B", 1))
	}
	wg.Wait()

	balance, err := l.Balance("B")
	assert.Nil(t, err)
	assert.Equal(t, int64(25), balance)
}
