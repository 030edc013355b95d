// Copyright (c) 2018 The learn-blockchain developers

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBalanceMapGetDefault(t *testing.T) {
	m := BalanceMap{}
	assert.Equal(t, int64(0), m.Get("nobody"))

	m.Add("alice", 10)
	assert.Equal(t, int64(10), m.Get("alice"))
	m.Add("alice", -4)
	assert.Equal(t, int64(6), m.Get("alice"))
}

func TestBalanceMapApply(t *testing.T) {
	m := BalanceMap{}
	m.Apply(NewMintTransaction("alice", 100))

	// Minting drives the mint account negative by the same amount.
	assert.Equal(t, int64(100), m.Get("alice"))
	assert.Equal(t, int64(-100), m.Get(MintAddress))

	m.Apply(NewTransaction("alice", "bob", 30))
	assert.Equal(t, int64(70), m.Get("alice"))
	assert.Equal(t, int64(30), m.Get("bob"))

	// Negative amounts flow backwards, as the formula says.
	m.Apply(NewTransaction("alice", "bob", -10))
	assert.Equal(t, int64(80), m.Get("alice"))
	assert.Equal(t, int64(20), m.Get("bob"))
}

func TestBalanceMapClone(t *testing.T) {
	m := BalanceMap{"alice": 5, "bob": 7}
	c := m.Clone()
	assert.Equal(t, m, c)

	c.Add("alice", 100)
	c.Add("carol", 1)
	assert.Equal(t, int64(5), m.Get("alice"))
	assert.Equal(t, int64(0), m.Get("carol"))
}
