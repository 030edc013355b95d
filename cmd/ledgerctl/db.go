// Copyright (c) 2018 The learn-blockchain developers

package main

import (
	"os"
	"path/filepath"

	"github.com/aronisstav/learn-blockchain/database"
	"github.com/aronisstav/learn-blockchain/log"
)

const (
	// blockDbNamePrefix is the prefix for the block database name.  The
	// database type is appended to this value to form the full block
	// database name.
	blockDbNamePrefix = "blocks"
)

// LoadBlockDB opens the block database for the selected backend and returns
// a handle to it.  When create is set a missing database is created instead
// of reported as an error.
func LoadBlockDB(dbType string, dataDir string, create bool) (database.DB, error) {
	// The database name is based on the database type.
	dbPath := blockDbPath(dbType, dataDir)

	log.Trace("Loading block database", "dbPath", dbPath)
	db, err := database.Open(dbType, dbPath)
	if err != nil {
		if !create {
			return nil, err
		}
		// Return the error if it's not because the database doesn't
		// exist.
		if dbErr, ok := err.(database.Error); !ok || dbErr.ErrorCode !=
			database.ErrDbDoesNotExist {

			return nil, err
		}
		// Create the db if it does not exist.
		err = os.MkdirAll(dataDir, 0700)
		if err != nil {
			return nil, err
		}
		db, err = database.Create(dbType, dbPath)
		if err != nil {
			return nil, err
		}
	}
	log.Trace("Block database loaded")
	return db, nil
}

// blockDbPath returns the path to the block database given a database type.
func blockDbPath(dbType string, dataDir string) string {
	// The database name is based on the database type.
	dbName := blockDbNamePrefix + "_" + dbType
	dbPath := filepath.Join(dataDir, dbName)
	return dbPath
}
