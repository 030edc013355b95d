// Copyright (c) 2018 The learn-blockchain developers

package ledger

import (
	"fmt"
)

// AssertError identifies an error that indicates an internal code consistency
// issue and should be treated as a critical and unrecoverable error.
type AssertError string

// Error returns the assertion error as a human-readable string and satisfies
// the error interface.
func (e AssertError) Error() string {
	return "assertion failed: " + string(e)
}

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrNoHeaders indicates the store holds no headers at all.  It can
	// only be observed before the genesis block exists.
	ErrNoHeaders ErrorCode = iota

	// ErrGenesisMissing indicates the entry at order zero is absent or is
	// not a genesis header.
	ErrGenesisMissing

	// ErrGenesisExists indicates genesis creation was attempted over a
	// store that already has headers.
	ErrGenesisExists

	// ErrMissingHeader indicates an order inside the chain has no stored
	// header.
	ErrMissingHeader

	// ErrMissingBlock indicates a stored header references a block that is
	// not in the block table.
	ErrMissingBlock

	// ErrBadParentHash indicates a header whose parent hash does not match
	// the hash of the header before it.
	ErrBadParentHash

	// ErrBadBlockHash indicates a header whose recorded hash does not
	// match the digest recomputed from the stored block and header.
	ErrBadBlockHash

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrNoHeaders:      "ErrNoHeaders",
	ErrGenesisMissing: "ErrGenesisMissing",
	ErrGenesisExists:  "ErrGenesisExists",
	ErrMissingHeader:  "ErrMissingHeader",
	ErrMissingBlock:   "ErrMissingBlock",
	ErrBadParentHash:  "ErrBadParentHash",
	ErrBadBlockHash:   "ErrBadBlockHash",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error identifies a violation of the stored chain state invariants.  Corrupt
// state is reported through it and never repaired in place.  The caller can
// use type assertions to determine if a failure was specifically due to a
// chain state violation and access the ErrorCode field to ascertain the
// specific reason.
type Error struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	return e.Description
}

// chainError creates an Error given a set of arguments.
func chainError(c ErrorCode, desc string) Error {
	return Error{ErrorCode: c, Description: desc}
}

// IsErrorCode returns whether or not the provided error is a chain state
// error with the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	cerr, ok := err.(Error)
	return ok && cerr.ErrorCode == c
}
