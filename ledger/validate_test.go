// Copyright (c) 2018 The learn-blockchain developers

package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aronisstav/learn-blockchain/core/types"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name     string
		entries  []*types.Transaction
		balances types.BalanceMap
		want     bool
	}{
		{
			name:     "empty batch",
			entries:  nil,
			balances: types.BalanceMap{},
			want:     true,
		},
		{
			name: "covered transfer",
			entries: []*types.Transaction{
				types.NewTransaction("A", "B", 50),
			},
			balances: types.BalanceMap{"A": 100},
			want:     true,
		},
		{
			name: "transfer of the whole balance",
			entries: []*types.Transaction{
				types.NewTransaction("A", "B", 100),
			},
			balances: types.BalanceMap{"A": 100},
			want:     true,
		},
		{
			name: "overspend",
			entries: []*types.Transaction{
				types.NewTransaction("A", "B", 150),
			},
			balances: types.BalanceMap{"A": 100},
			want:     false,
		},
		{
			name: "unknown sender",
			entries: []*types.Transaction{
				types.NewTransaction("nobody", "B", 1),
			},
			balances: types.BalanceMap{},
			want:     false,
		},
		{
			name: "mint needs no balance",
			entries: []*types.Transaction{
				types.NewMintTransaction("A", 1 << 40),
			},
			balances: types.BalanceMap{},
			want:     true,
		},
		{
			name: "batch spends deposits made earlier in the batch",
			entries: []*types.Transaction{
				types.NewTransaction("A", "B", 10),
				types.NewTransaction("B", "C", 10),
			},
			balances: types.BalanceMap{"A": 10},
			want:     true,
		},
		{
			name: "batch order matters",
			entries: []*types.Transaction{
				types.NewTransaction("B", "C", 10),
				types.NewTransaction("A", "B", 10),
			},
			balances: types.BalanceMap{"A": 10},
			want:     false,
		},
		{
			name: "mint funds a spend within the batch",
			entries: []*types.Transaction{
				types.NewMintTransaction("A", 10),
				types.NewTransaction("A", "B", 10),
			},
			balances: types.BalanceMap{},
			want:     true,
		},
		{
			name: "one bad entry fails the batch",
			entries: []*types.Transaction{
				types.NewMintTransaction("A", 10),
				types.NewTransaction("A", "B", 999),
				types.NewMintTransaction("C", 10),
			},
			balances: types.BalanceMap{},
			want:     false,
		},
		{
			name: "negative amount passes the balance check",
			entries: []*types.Transaction{
				types.NewTransaction("A", "B", -5),
			},
			balances: types.BalanceMap{},
			want:     true,
		},
	}

	for _, test := range tests {
		assert.Equal(t, test.want, Valid(test.entries, test.balances),
			test.name)
	}
}

func TestValidDoesNotMutate(t *testing.T) {
	balances := types.BalanceMap{"A": 10}
	entries := []*types.Transaction{
		types.NewTransaction("A", "B", 10),
		types.NewMintTransaction("A", 7),
	}

	assert.True(t, Valid(entries, balances))
	assert.Equal(t, types.BalanceMap{"A": 10}, balances)
}
