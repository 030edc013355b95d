// Copyright (c) 2018 The learn-blockchain developers

package types

// Address identifies an account in the ledger.  Addresses are opaque byte
// strings and the ledger imposes no structural rules on them, so anything a
// caller hands in is a valid account identity.
type Address string

// MintAddress is the reserved sender identity that creates new value.
// Transfers sent from it bypass the balance check entirely, which is the only
// way value enters the system.
const MintAddress Address = "1"

// IsMint reports whether the address is the reserved mint identity.
func (a Address) IsMint() bool {
	return a == MintAddress
}

func (a Address) String() string {
	return string(a)
}
