package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableIdentity_Deterministic(t *testing.T) {
	a := TableIdentity([]byte("SG=1\n"))
	b := TableIdentity([]byte("SG=1\n"))

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.NotEqual(t, a, TableIdentity([]byte("SG=2\n")))
}

func TestTableIdentity_NFC(t *testing.T) {
	composed := []byte("name=Caf\u00e9\n")
	decomposed := []byte("name=Cafe\u0301\n")

	assert.Equal(t, TableIdentity(composed), TableIdentity(decomposed))
}

func TestTableIdentity_DomainSeparated(t *testing.T) {
	assert.NotEqual(t, hashWithDomain(DomainTable, []byte("x")), hashWithDomain("other/v1", []byte("x")))
}

func TestChecksum(t *testing.T) {
	sum, err := Checksum([]byte("table body"))
	require.NoError(t, err)
	assert.Len(t, sum, 16)

	again, err := Checksum([]byte("table body"))
	require.NoError(t, err)
	assert.Equal(t, sum, again)

	other, err := Checksum([]byte("table body!"))
	require.NoError(t, err)
	assert.NotEqual(t, sum, other)
	assert.Len(t, checksumKey, 32)
}
