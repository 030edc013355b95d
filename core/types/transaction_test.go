// Copyright (c) 2018 The learn-blockchain developers

package types

import (
	"bytes"
	"testing"

	"github.com/davecgh/go-spew/spew"
)

func TestTransactionSerialize(t *testing.T) {
	tests := []struct {
		name string
		tx   *Transaction
	}{
		{"mint", NewMintTransaction("alice", 100)},
		{"transfer", NewTransaction("alice", "bob", 25)},
		{"negative", NewTransaction("alice", "bob", -25)},
		{"empty addresses", NewTransaction("", "", 0)},
		{"binary address", NewTransaction(Address([]byte{0x00, 0xff, 0x10}), "bob", 1)},
	}

	for _, test := range tests {
		var buf bytes.Buffer
		err := test.tx.Serialize(&buf)
		if err != nil {
			t.Errorf("Serialize (%s): %v", test.name, err)
			continue
		}
		if buf.Len() != test.tx.SerializeSize() {
			t.Errorf("SerializeSize (%s): got %d want %d", test.name,
				test.tx.SerializeSize(), buf.Len())
			continue
		}

		var decoded Transaction
		err = decoded.Deserialize(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Errorf("Deserialize (%s): %v", test.name, err)
			continue
		}
		if decoded != *test.tx {
			t.Errorf("round trip (%s):\n got: %swant: %s", test.name,
				spew.Sdump(decoded), spew.Sdump(*test.tx))
		}
	}
}

func TestTransactionDeserializeShort(t *testing.T) {
	tx := NewTransaction("alice", "bob", 7)
	var buf bytes.Buffer
	if err := tx.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	// Every truncation point must fail, never yield a halfway transaction.
	full := buf.Bytes()
	for i := 0; i < len(full); i++ {
		var decoded Transaction
		if err := decoded.Deserialize(bytes.NewReader(full[:i])); err == nil {
			t.Errorf("Deserialize accepted a %d byte truncation", i)
		}
	}
}

func TestMintAddress(t *testing.T) {
	if !MintAddress.IsMint() {
		t.Fatal("MintAddress does not report itself as mint")
	}
	if Address("alice").IsMint() {
		t.Fatal("a regular address reports as mint")
	}

	tx := NewMintTransaction("alice", 3)
	if !tx.From.IsMint() {
		t.Fatal("NewMintTransaction sender is not the mint identity")
	}
	if got, want := tx.String(), "1:alice:3"; got != want {
		t.Fatalf("String: got %q want %q", got, want)
	}
}
