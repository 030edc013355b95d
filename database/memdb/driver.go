// Copyright (c) 2018 The learn-blockchain developers

package memdb

import (
	"fmt"

	"github.com/aronisstav/learn-blockchain/database"
	l "github.com/aronisstav/learn-blockchain/log"
)

const dbType = "memdb"

var log l.Logger

func useLogger(logger l.Logger) {
	log = logger
}

// openDBDriver is the callback provided during driver registration that opens
// an existing database for use.  Memory databases do not persist, so openDB
// always fails.
func openDBDriver(args ...interface{}) (database.DB, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("invalid arguments to %s.Open -- expected "+
			"none", dbType)
	}

	str := "memory database does not persist and therefore cannot be opened"
	return nil, database.Error{
		ErrorCode:   database.ErrDbDoesNotExist,
		Description: str,
	}
}

// createDBDriver is the callback provided during driver registration that
// creates and opens a fresh memory database for use.
func createDBDriver(args ...interface{}) (database.DB, error) {
	if len(args) != 0 {
		return nil, fmt.Errorf("invalid arguments to %s.Create -- expected "+
			"none", dbType)
	}

	return newDB(), nil
}

func init() {
	log = l.New(l.Ctx{"module": "database"})

	// Register the driver.
	driver := database.Driver{
		DbType:    dbType,
		Create:    createDBDriver,
		Open:      openDBDriver,
		UseLogger: useLogger,
	}
	if err := database.RegisterDriver(driver); err != nil {
		panic(fmt.Sprintf("Failed to register database driver '%s': %v",
			dbType, err))
	}
}
