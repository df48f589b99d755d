package simulation

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTimestamp int64 = 1_700_000_000_000_000

func TestNewBlock(t *testing.T) {
	b := NewBlock(nil, 3, "data", "prev", testTimestamp)
	assert.Equal(t, uint64(0), b.Nonce())
	assert.Equal(t, SHA256, b.Hasher())
	assert.Equal(t, BlockDigest(SHA256, 3, "data", "prev", testTimestamp, 0), b.Hash())
	assert.True(t, b.Consistent())
	assert.Equal(t, testTimestamp, b.Time().UnixMicro())
}

func TestGenesisBlock(t *testing.T) {
	g := GenesisBlock(SHA256, testTimestamp)
	assert.Equal(t, uint64(0), g.Index())
	assert.Equal(t, "Genesis Block", g.Data())
	assert.Equal(t, "0", g.PreviousHash())
}

func TestRecomputeHashAfterMutation(t *testing.T) {
	b := NewBlock(SHA256, 1, "data", "prev", testTimestamp)
	before := b.Hash()

	b.data = "tampered"
	assert.False(t, b.Consistent())
	assert.Equal(t, before, b.Hash(), "hash is only refreshed on demand")

	after := b.RecomputeHash()
	assert.NotEqual(t, before, after)
	assert.True(t, b.Consistent())
}

func TestMineMeetsDifficulty(t *testing.T) {
	for difficulty := 0; difficulty <= 2; difficulty++ {
		b := NewBlock(SHA256, 1, "payload", "prev", testTimestamp)
		stats := b.Mine(difficulty)

		assert.True(t, strings.HasPrefix(b.Hash(), strings.Repeat("0", difficulty)))
		assert.Equal(t, b.Hash(), stats.Hash)
		assert.Equal(t, b.Nonce(), stats.Nonce)
		assert.Equal(t, stats.Nonce, stats.Attempts)
		assert.True(t, b.Consistent())
	}
}

func TestMineZeroDifficultyAcceptsImmediately(t *testing.T) {
	b := NewBlock(SHA256, 1, "payload", "prev", testTimestamp)
	hash := b.Hash()

	stats := b.Mine(0)
	assert.Equal(t, uint64(0), stats.Attempts)
	assert.Equal(t, uint64(0), b.Nonce())
	assert.Equal(t, hash, b.Hash())
}

func TestMineContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBlock(SHA256, 1, "payload", "prev", testTimestamp)
	_, err := b.MineContext(ctx, HashLength)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMeetsDifficulty(t *testing.T) {
	assert.True(t, MeetsDifficulty("abc", 0))
	assert.True(t, MeetsDifficulty("abc", -2))
	assert.True(t, MeetsDifficulty("00ab", 2))
	assert.False(t, MeetsDifficulty("00ab", 3))
	assert.False(t, MeetsDifficulty("0", 2))
}

func TestBlockJSON(t *testing.T) {
	b := NewBlock(SHA256, 2, "payload", "prev", testTimestamp)
	raw, err := json.Marshal(b)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "payload", got["data"])
	assert.Equal(t, "prev", got["previous_hash"])
	assert.Equal(t, "1700000000.000000", got["timestamp"])
	assert.Equal(t, b.Hash(), got["hash"])
	assert.Equal(t, true, got["consistent"])
}

func TestCopyBlockIsIndependent(t *testing.T) {
	b := NewBlock(SHA256, 2, "payload", "prev", testTimestamp)
	cpy := CopyBlock(b)
	cpy.data = "other"
	assert.Equal(t, "payload", b.Data())
}
