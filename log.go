// Copyright (c) 2018 The learn-blockchain developers

package main

import (
	"github.com/aronisstav/learn-blockchain/database"
	"github.com/aronisstav/learn-blockchain/ledger"
	"github.com/aronisstav/learn-blockchain/log"
)

func init() {
	database.UseLogger(log.New(log.Ctx{"module": "database"}))
	ledger.UseLogger(log.New(log.Ctx{"module": "ledger"}))
}
