// Copyright (c) 2018 The learn-blockchain developers

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strconv"

	"github.com/aronisstav/learn-blockchain/core/dbnamespace"
	"github.com/aronisstav/learn-blockchain/core/types"
	"github.com/aronisstav/learn-blockchain/database"
	"github.com/aronisstav/learn-blockchain/ledger"
	"github.com/aronisstav/learn-blockchain/log"
	"github.com/pterm/pterm"
	"github.com/schollz/progressbar/v3"
)

// Node ties the block database and the ledger on top of it to the commands
// of this tool.
type Node struct {
	name   string
	ledger *ledger.Ledger
	db     database.DB
	cfg    *Config
}

func (node *Node) init(cfg *Config) error {
	err := cfg.load()
	if err != nil {
		return err
	}
	node.cfg = cfg

	// Load the block database.
	db, err := LoadBlockDB(cfg.DbType, cfg.DataDir, true)
	if err != nil {
		log.Error("load block database", "error", err)
		return err
	}
	node.db = db

	l, err := ledger.New(&ledger.Config{
		DB:    db,
		Miner: types.Address(cfg.Miner),
	})
	if err != nil {
		return err
	}
	node.ledger = l
	node.name = path.Base(cfg.DataDir)

	log.Trace(fmt.Sprintf("Load Data:%s", cfg.DataDir))
	return nil
}

// initDB loads the block database without opening the ledger over it, so a
// chain archive can be written below the ledger first.
func (node *Node) initDB(cfg *Config) error {
	err := cfg.load()
	if err != nil {
		return err
	}
	node.cfg = cfg

	db, err := LoadBlockDB(cfg.DbType, cfg.DataDir, true)
	if err != nil {
		log.Error("load block database", "error", err)
		return err
	}
	node.db = db
	node.name = path.Base(cfg.DataDir)
	return nil
}

func (node *Node) exit() error {
	if node.ledger != nil {
		log.Trace(fmt.Sprintf("Gracefully shutting down the ledger:%s", node.name))
		return node.ledger.Close()
	}
	if node.db != nil {
		log.Trace(fmt.Sprintf("Gracefully shutting down the database:%s", node.name))
		return node.db.Close()
	}
	return nil
}

// Add validates the batch against the replayed balances and attaches it as a
// new block.  A batch the balances cannot cover is reported, not treated as
// an error.
func (node *Node) Add(entries []*types.Transaction) error {
	res, err := node.ledger.Add(entries)
	if err != nil {
		return err
	}
	if !res.Accepted {
		pterm.Error.Printfln("Rejected: batch of %d spends more than the senders hold", len(entries))
		return nil
	}
	pterm.Success.Printfln("Attached block %d", res.Order)
	return pterm.DefaultTable.WithData(pterm.TableData{
		{"Order", strconv.FormatUint(res.Order, 10)},
		{"Hash", res.Header.Hash.String()},
		{"Parent", res.Header.ParentHash.String()},
		{"Miner", res.Header.Miner.String()},
	}).Render()
}

// Balance reports the balance of one address.
func (node *Node) Balance(addr types.Address) error {
	balance, err := node.ledger.Balance(addr)
	if err != nil {
		return err
	}
	pterm.Info.Printfln("%s: %d", addr, balance)
	return nil
}

// Balances reports every address the chain mentions with its balance.
func (node *Node) Balances() error {
	balances, err := node.ledger.Balances()
	if err != nil {
		return err
	}

	addrs := make([]string, 0, len(balances))
	for addr := range balances {
		addrs = append(addrs, string(addr))
	}
	sort.Strings(addrs)

	data := pterm.TableData{{"Address", "Balance"}}
	for _, addr := range addrs {
		data = append(data, []string{
			addr,
			strconv.FormatInt(balances[types.Address(addr)], 10),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// Tip reports the latest header of the chain.
func (node *Node) Tip() error {
	order, header, err := node.ledger.LatestHeader()
	if err != nil {
		return err
	}
	return pterm.DefaultTable.WithData(pterm.TableData{
		{"Order", strconv.FormatUint(order, 10)},
		{"Hash", header.Hash.String()},
		{"Parent", header.ParentHash.String()},
		{"Miner", header.Miner.String()},
	}).Render()
}

// Verify walks the stored chain and reports the first invariant violation.
func (node *Node) Verify() error {
	if err := node.ledger.VerifyChain(); err != nil {
		return err
	}
	pterm.Success.Println("Chain verification complete")
	return nil
}

// Export writes the whole chain, genesis included, to a flat archive file.
func (node *Node) Export() error {
	order, _, err := node.ledger.LatestHeader()
	if err != nil {
		return err
	}

	outFilePath, err := GetArchiveFilePath(node.cfg.OutputPath)
	if err != nil {
		return err
	}
	outFile, err := os.OpenFile(outFilePath, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0600)
	if err != nil {
		return err
	}
	defer func() {
		outFile.Close()
	}()

	count := order + 1

	var bar *progressbar.ProgressBar
	if !node.cfg.DisableBar {
		bar = progressbar.Default(int64(count), "Export:")
	} else {
		log.Info("Export...")
	}

	var serializedCount [4]byte
	dbnamespace.ByteOrder.PutUint32(serializedCount[:], uint32(count))
	_, err = outFile.Write(serializedCount[:])
	if err != nil {
		return err
	}

	headers := node.db.Headers()
	blocks := node.db.Blocks()
	for i := uint64(0); i < count; i++ {
		var orderKey [8]byte
		dbnamespace.ByteOrder.PutUint64(orderKey[:], i)
		headerBytes, err := headers.Lookup(orderKey[:])
		if err != nil {
			return err
		}
		var header types.BlockHeader
		if err := header.Deserialize(bytes.NewReader(headerBytes)); err != nil {
			return err
		}
		blockBytes, err := blocks.Lookup(header.Hash.Bytes())
		if err != nil {
			return err
		}

		he := &archiveEntry{length: uint32(len(headerBytes)), bytes: headerBytes}
		if err := he.Encode(outFile); err != nil {
			return err
		}
		be := &archiveEntry{length: uint32(len(blockBytes)), bytes: blockBytes}
		if err := be.Encode(outFile); err != nil {
			return err
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	log.Info(fmt.Sprintf("Finish: blocks(%d) ------> File:%s", count, outFilePath))
	return nil
}

// Import loads a chain archive into an empty database, then opens the ledger
// over it and verifies every link before reporting success.
func (node *Node) Import() error {
	n, err := node.db.Headers().Size()
	if err != nil {
		return err
	}
	if n != 0 {
		return fmt.Errorf("refusing to import over a chain with %d headers", n)
	}

	inFilePath, err := GetArchiveFilePath(node.cfg.InputPath)
	if err != nil {
		return err
	}
	inFile, err := os.Open(inFilePath)
	if err != nil {
		return err
	}
	defer func() {
		inFile.Close()
	}()

	var serializedCount [4]byte
	if _, err := io.ReadFull(inFile, serializedCount[:]); err != nil {
		return err
	}
	count := dbnamespace.ByteOrder.Uint32(serializedCount[:])
	if count == 0 {
		return fmt.Errorf("archive %s holds no blocks", inFilePath)
	}

	var bar *progressbar.ProgressBar
	if !node.cfg.DisableBar {
		bar = progressbar.Default(int64(count), "Import:")
	} else {
		log.Info("Import...")
	}

	headers := node.db.Headers()
	blocks := node.db.Blocks()
	for i := uint32(0); i < count; i++ {
		var headerEntry, blockEntry archiveEntry
		if err := headerEntry.Decode(inFile); err != nil {
			return err
		}
		if err := blockEntry.Decode(inFile); err != nil {
			return err
		}

		var header types.BlockHeader
		if err := header.Deserialize(bytes.NewReader(headerEntry.bytes)); err != nil {
			return err
		}

		var orderKey [8]byte
		dbnamespace.ByteOrder.PutUint64(orderKey[:], uint64(i))
		if err := blocks.Insert(header.Hash.Bytes(), blockEntry.bytes); err != nil {
			return err
		}
		if err := headers.Insert(orderKey[:], headerEntry.bytes); err != nil {
			return err
		}
		if bar != nil {
			bar.Add(1)
		}
	}

	// Open the ledger over the imported chain and verify every link.
	l, err := ledger.New(&ledger.Config{
		DB:    node.db,
		Miner: types.Address(node.cfg.Miner),
	})
	if err != nil {
		return err
	}
	node.ledger = l
	if err := l.VerifyChain(); err != nil {
		return err
	}

	log.Info(fmt.Sprintf("Finish: blocks(%d) <------ File:%s", count, inFilePath))
	return nil
}
