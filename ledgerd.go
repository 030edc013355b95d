// Copyright (c) 2018 The learn-blockchain developers
// Copyright (c) 2015-2016 The Decred developers
// Copyright (c) 2013-2016 The btcsuite developers

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"

	"github.com/aronisstav/learn-blockchain/config"
	"github.com/aronisstav/learn-blockchain/core/types"
	"github.com/aronisstav/learn-blockchain/database"
	_ "github.com/aronisstav/learn-blockchain/database/badgerdb"
	_ "github.com/aronisstav/learn-blockchain/database/bdb"
	_ "github.com/aronisstav/learn-blockchain/database/ldb"
	_ "github.com/aronisstav/learn-blockchain/database/memdb"
	"github.com/aronisstav/learn-blockchain/ledger"
	"github.com/aronisstav/learn-blockchain/log"
	"github.com/aronisstav/learn-blockchain/version"
)

const (
	// blockDbNamePrefix is the prefix for the block database name.  The
	// database type is appended to this value to form the full block
	// database name.
	blockDbNamePrefix = "blocks"
)

func main() {
	// Initialize the goroutine count,  Use all processor cores.
	runtime.GOMAXPROCS(runtime.NumCPU())

	// Block and transaction processing can cause bursty allocations.  This
	// limits the garbage collector from excessively overallocating during
	// bursts.  This value was arrived at with the help of profiling live
	// usage.
	debug.SetGCPercent(20)

	// Work around defer not working after os.Exit()
	if err := ledgerdMain(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

// ledgerdMain is the real main function for ledgerd.  It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is
// called.
func ledgerdMain() error {
	// Load configuration and parse command line.  This function also
	// initializes logging and configures it accordingly.
	cfg, _, err := config.LoadConfig()
	if err != nil {
		return err
	}

	defer func() {
		if log.LogWrite() != nil {
			log.LogWrite().Close()
		}
	}()

	// Get a channel that will be closed when a shutdown signal has been
	// triggered either from an OS signal such as SIGINT (Ctrl+C) or from
	// another subsystem.
	interrupt := interruptListener()
	defer log.Info("Shutdown complete")

	// Show version and home dir at startup.
	log.Info("System info", "Ledgerd Version", version.String(), "Go version", runtime.Version())
	log.Info("System info", "Home dir", cfg.HomeDir)

	if cfg.NoFileLogging {
		log.Info("File logging disabled")
	}

	// Load the block database.
	db, err := loadBlockDB(cfg)
	if err != nil {
		log.Error("load block database", "error", err)
		return err
	}
	defer func() {
		// Ensure the database is sync'd and closed on shutdown.
		log.Info("Gracefully shutting down the database...")
		db.Close()
	}()

	// Return now if an interrupt signal was triggered.
	if interruptRequested(interrupt) {
		return nil
	}

	// Cleanup the block database
	if cfg.Cleanup {
		db.Close()
		cleanupBlockDB(cfg)
		return nil
	}

	// Open the ledger over the database.  This creates the genesis block
	// when the store is empty and refuses to run over corrupt state.
	l, err := ledger.New(&ledger.Config{
		DB:    db,
		Miner: types.Address(cfg.Miner),
	})
	if err != nil {
		log.Error("Unable to open ledger", "error", err)
		return err
	}

	// Verify the stored chain and exit if requested.
	if cfg.CheckChain {
		if err := l.VerifyChain(); err != nil {
			log.Error("Chain verification failed", "error", err)
			return err
		}
		log.Info("Chain verification complete")
		return nil
	}

	// Wait until the interrupt signal is received from an OS signal or
	// shutdown is requested through one of the subsystems.
	<-interrupt
	return nil
}

// loadBlockDB loads (or creates when needed) the block database taking into
// account the selected database backend and returns a handle to it.
func loadBlockDB(cfg *config.Config) (database.DB, error) {
	// The memdb backend does not have a file path associated with it, so
	// handle it uniquely.
	if cfg.DbType == "memdb" {
		log.Info("Creating block database in memory")
		db, err := database.Create(cfg.DbType)
		if err != nil {
			return nil, err
		}
		return db, nil
	}

	// The database name is based on the database type.
	dbPath := blockDbPath(cfg.DbType, cfg)

	log.Info("Loading block database", "dbPath", dbPath)
	db, err := database.Open(cfg.DbType, dbPath)
	if err != nil {
		// Return the error if it's not because the database doesn't
		// exist.
		if dbErr, ok := err.(database.Error); !ok || dbErr.ErrorCode !=
			database.ErrDbDoesNotExist {

			return nil, err
		}
		// Create the db if it does not exist.
		err = os.MkdirAll(cfg.DataDir, 0700)
		if err != nil {
			return nil, err
		}
		db, err = database.Create(cfg.DbType, dbPath)
		if err != nil {
			return nil, err
		}
	}
	log.Info("Block database loaded")
	return db, nil
}

// blockDbPath returns the path to the block database given a database type.
func blockDbPath(dbType string, cfg *config.Config) string {
	// The database name is based on the database type.
	dbName := blockDbNamePrefix + "_" + dbType
	dbPath := filepath.Join(cfg.DataDir, dbName)
	return dbPath
}

// removeBlockDB removes the existing database
func removeBlockDB(dbPath string) error {
	// Remove the old database if it already exists.
	fi, err := os.Stat(dbPath)
	if err == nil {
		log.Info(fmt.Sprintf("Removing block database from '%s'", dbPath))
		if fi.IsDir() {
			err := os.RemoveAll(dbPath)
			if err != nil {
				return err
			}
		} else {
			err := os.Remove(dbPath)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// cleanupBlockDB removes the block database from the data directory.
func cleanupBlockDB(cfg *config.Config) {
	dbPath := blockDbPath(cfg.DbType, cfg)
	err := removeBlockDB(dbPath)
	if err != nil {
		log.Error(err.Error())
	}
	log.Info("Finished cleanup")
}
