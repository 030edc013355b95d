// Copyright (c) 2018 The learn-blockchain developers

package types

import (
	"fmt"
	"io"

	s "github.com/aronisstav/learn-blockchain/core/serialization"
)

// minTxPayload is the minimum payload size for a transaction: one varint byte
// each for the from and to addresses plus 8 bytes for the amount.
const minTxPayload = 1 + 1 + 8

// Transaction moves an amount between two accounts.  The amount is signed and
// no sign check is performed anywhere; a negative amount moves value from the
// receiver to the sender.
type Transaction struct {
	From   Address
	To     Address
	Amount int64
}

// NewTransaction returns a transfer of amount from one account to another.
func NewTransaction(from, to Address, amount int64) *Transaction {
	return &Transaction{From: from, To: to, Amount: amount}
}

// NewMintTransaction returns a transfer from the reserved mint identity,
// creating amount units at the receiving account.
func NewMintTransaction(to Address, amount int64) *Transaction {
	return &Transaction{From: MintAddress, To: to, Amount: amount}
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction.
func (tx *Transaction) SerializeSize() int {
	return s.VarBytesSerializeSize([]byte(tx.From)) +
		s.VarBytesSerializeSize([]byte(tx.To)) + 8
}

// Serialize encodes the transaction to w using a format that is suitable for
// long-term storage such as a database.
func (tx *Transaction) Serialize(w io.Writer) error {
	// At the current time, there is no difference between the wire encoding
	// and the stable long-term storage format.  As a result, make use of
	// Encode.
	return tx.Encode(w, 0)
}

// Encode encodes the receiver to w using the protocol encoding.  Both
// addresses travel as length-prefixed byte strings and the amount as a
// two's-complement little endian integer.
func (tx *Transaction) Encode(w io.Writer, pver uint32) error {
	err := s.WriteVarBytes(w, pver, []byte(tx.From))
	if err != nil {
		return err
	}
	err = s.WriteVarBytes(w, pver, []byte(tx.To))
	if err != nil {
		return err
	}
	return s.WriteElements(w, tx.Amount)
}

// Deserialize decodes a transaction from r into the receiver using a format
// that is suitable for long-term storage such as a database.
func (tx *Transaction) Deserialize(r io.Reader) error {
	// At the current time, there is no difference between the wire encoding
	// and the stable long-term storage format.  As a result, make use of
	// Decode.
	return tx.Decode(r, 0)
}

// Decode decodes r into the receiver using the protocol encoding.
func (tx *Transaction) Decode(r io.Reader, pver uint32) error {
	from, err := s.ReadVarBytes(r, pver, MaxBlockPayload, "from address")
	if err != nil {
		return err
	}
	to, err := s.ReadVarBytes(r, pver, MaxBlockPayload, "to address")
	if err != nil {
		return err
	}
	tx.From = Address(from)
	tx.To = Address(to)
	return s.ReadElements(r, &tx.Amount)
}

// String returns the transaction in the from:to:amount form used by the
// command line tools.
func (tx *Transaction) String() string {
	return fmt.Sprintf("%s:%s:%d", tx.From, tx.To, tx.Amount)
}
