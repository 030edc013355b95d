// Copyright (c) 2018 The learn-blockchain developers

package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCodeString(t *testing.T) {
	for c := ErrorCode(0); c < numErrorCodes; c++ {
		assert.NotContains(t, c.String(), "Unknown")
	}
	assert.Contains(t, ErrorCode(9999).String(), "Unknown")
}

func TestIsErrorCode(t *testing.T) {
	err := chainError(ErrMissingBlock, "no block")
	assert.Equal(t, "no block", err.Error())
	assert.True(t, IsErrorCode(err, ErrMissingBlock))
	assert.False(t, IsErrorCode(err, ErrMissingHeader))
	assert.False(t, IsErrorCode(assert.AnError, ErrMissingBlock))
}

func TestAssertError(t *testing.T) {
	err := AssertError("ledger broke")
	assert.Equal(t, "assertion failed: ledger broke", err.Error())
}
