// Copyright (c) 2018 The learn-blockchain developers

package ledger

import (
	"github.com/aronisstav/learn-blockchain/core/types"
)

// Valid decides whether a batch of transactions may extend the chain given
// the balances accumulated so far.  A snapshot of the balances threads
// through the batch left to right, so later entries can spend what earlier
// entries in the same batch deposited:
//
//   - an entry sent from the mint address is accepted unconditionally;
//   - any other entry is accepted iff the sender's accumulated balance
//     covers the amount;
//   - the first rejected entry fails the whole batch.
//
// An empty batch is valid.  The passed map is never modified.
func Valid(entries []*types.Transaction, balances types.BalanceMap) bool {
	acc := balances.Clone()
	for _, tx := range entries {
		if !tx.From.IsMint() && acc.Get(tx.From) < tx.Amount {
			return false
		}
		acc.Apply(tx)
	}
	return true
}
