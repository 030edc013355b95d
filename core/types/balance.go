// Copyright (c) 2018 The learn-blockchain developers

package types

// BalanceMap holds the account balances produced by replaying a chain.
// Accounts that never appeared hold zero; balances are signed because the
// mint account only ever goes negative.
type BalanceMap map[Address]int64

// Get returns the balance for addr, defaulting to zero for accounts the map
// has never seen.
func (m BalanceMap) Get(addr Address) int64 {
	return m[addr]
}

// Add upserts addr by delta, creating the account at zero first if needed.
func (m BalanceMap) Add(addr Address, delta int64) {
	m[addr] += delta
}

// Apply folds a single transaction into the map: the amount leaves the
// sender and arrives at the receiver.
func (m BalanceMap) Apply(tx *Transaction) {
	m.Add(tx.From, -tx.Amount)
	m.Add(tx.To, tx.Amount)
}

// Clone returns an independent copy of the map.
func (m BalanceMap) Clone() BalanceMap {
	c := make(BalanceMap, len(m))
	for addr, balance := range m {
		c[addr] = balance
	}
	return c
}
