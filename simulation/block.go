package simulation

import (
	"encoding/json"
	"fmt"
	"time"
)

// GenesisData is the payload of every chain's first block.
const GenesisData = "Genesis Block"

// GenesisPrevHash is the previous hash sentinel stored in the genesis block.
const GenesisPrevHash = "0"

// Block is a single hash-linked record. Once mined it is only ever changed
// through Chain.Corrupt, which exists to simulate tampering.
type Block struct {
	index     uint64
	data      string
	prevHash  string
	timestamp int64 // microseconds since the Unix epoch
	nonce     uint64
	hash      string
	hasher    Hasher
}

// NewBlock creates an unmined block with nonce 0 and its initial hash.
func NewBlock(hasher Hasher, index uint64, data, prevHash string, timestamp int64) *Block {
	if hasher == nil {
		hasher = SHA256
	}
	b := &Block{
		index:     index,
		data:      data,
		prevHash:  prevHash,
		timestamp: timestamp,
		hasher:    hasher,
	}
	b.RecomputeHash()
	return b
}

// GenesisBlock returns the fixed first block of a chain.
func GenesisBlock(hasher Hasher, timestamp int64) *Block {
	return NewBlock(hasher, 0, GenesisData, GenesisPrevHash, timestamp)
}

func CopyBlock(block *Block) *Block {
	cpy := *block
	return &cpy
}

// CalculateHash returns the digest of the block's current fields without
// storing it.
func (b *Block) CalculateHash() string {
	return BlockDigest(b.hasher, b.index, b.data, b.prevHash, b.timestamp, b.nonce)
}

// RecomputeHash re-derives the stored hash from the current fields.
func (b *Block) RecomputeHash() string {
	b.hash = b.CalculateHash()
	return b.hash
}

// Consistent reports whether the stored hash matches the block's fields.
func (b *Block) Consistent() bool {
	return b.hash == b.CalculateHash()
}

func (b *Block) Index() uint64 {
	return b.index
}

func (b *Block) Data() string {
	return b.data
}

func (b *Block) PreviousHash() string {
	return b.prevHash
}

func (b *Block) Timestamp() int64 {
	return b.timestamp
}

func (b *Block) Time() time.Time {
	return time.UnixMicro(b.timestamp)
}

func (b *Block) Nonce() uint64 {
	return b.nonce
}

func (b *Block) Hash() string {
	return b.hash
}

func (b *Block) Hasher() Hasher {
	return b.hasher
}

func (b *Block) String() string {
	return fmt.Sprintf("{ Index: %v, Data: %q, PreviousHash: %v, Timestamp: %v, Nonce: %v, Hash: %v }",
		b.index, b.data, b.prevHash, FormatTimestamp(b.timestamp), b.nonce, b.hash)
}

type blockJSON struct {
	Index        uint64 `json:"index"`
	Data         string `json:"data"`
	PreviousHash string `json:"previous_hash"`
	Timestamp    string `json:"timestamp"`
	Nonce        uint64 `json:"nonce"`
	Hash         string `json:"hash"`
	Consistent   bool   `json:"consistent"`
}

func (b *Block) MarshalJSON() ([]byte, error) {
	return json.Marshal(blockJSON{
		Index:        b.index,
		Data:         b.data,
		PreviousHash: b.prevHash,
		Timestamp:    FormatTimestamp(b.timestamp),
		Nonce:        b.nonce,
		Hash:         b.hash,
		Consistent:   b.Consistent(),
	})
}
