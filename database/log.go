// Copyright (c) 2018 The learn-blockchain developers

package database

import (
	l "github.com/aronisstav/learn-blockchain/log"
)

// log is a logger that is initialized with no output filters.  This
// means the package will not perform any logging by default until the caller
// requests it.
var log l.Logger

// The default amount of logging is none.
func init() {
	UseLogger(l.New(l.Ctx{"module": "database"}))
}

// UseLogger uses a specified Logger to output package logging info.
// It also updates the loggers of the registered drivers.
func UseLogger(logger l.Logger) {
	log = logger

	// Update the logger for the registered drivers.
	for _, drv := range drivers {
		if drv.UseLogger != nil {
			drv.UseLogger(logger)
		}
	}
}
