package simulation

import (
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		micros int64
		want   string
	}{
		{0, "0.000000"},
		{42, "0.000042"},
		{1_700_000_000_000_042, "1700000000.000042"},
		{1_700_000_000_123_456, "1700000000.123456"},
		{-1_500_000, "-1.500000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatTimestamp(tt.micros))
	}
}

func TestCanonicalBlockText(t *testing.T) {
	got := CanonicalBlockText(1, "payload", "abc", 1_700_000_000_500_000, 17)
	assert.Equal(t, "1payloadabc1700000000.50000017", got)
}

func TestBlockDigestMatchesSHA256OfCanonicalText(t *testing.T) {
	sum := sha256.Sum256([]byte("0Genesis Block01700000000.0000000"))
	want := hex.EncodeToString(sum[:])

	got := BlockDigest(SHA256, 0, GenesisData, GenesisPrevHash, 1_700_000_000_000_000, 0)
	assert.Equal(t, want, got)
	assert.Len(t, got, HashLength)
}

func TestHashersDiffer(t *testing.T) {
	in := []byte("ledger")
	assert.Len(t, Blake3.Sum(in), HashLength)
	assert.NotEqual(t, SHA256.Sum(in), Blake3.Sum(in))
	assert.Equal(t, Blake3.Sum(in), Blake3.Sum(in))
}

func TestHasherByName(t *testing.T) {
	h, err := HasherByName("")
	require.NoError(t, err)
	assert.Equal(t, SHA256, h)

	h, err = HasherByName(" BLAKE3 ")
	require.NoError(t, err)
	assert.Equal(t, Blake3, h)

	_, err = HasherByName("md5")
	assert.ErrorIs(t, err, ErrUnknownHasher)
}
