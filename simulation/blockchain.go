package simulation

import (
	"context"
	"errors"
	"fmt"

	"github.com/dominant-strategies/go-quai/event"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
)

// Chain is an ordered sequence of blocks starting at a genesis block. It is
// not safe for concurrent use; a Network gives each replica chain a single
// owner.
type Chain struct {
	blocks     []*Block
	difficulty int
	merkleRoot string

	hasher  Hasher
	index   *lru.Cache[string, *Block]
	feed    *event.Feed
	replica int
	clock   func() int64
	log     logrus.FieldLogger
}

// ChainSummary is a point in time snapshot of a chain. Valid is always
// recomputed when the summary is taken.
type ChainSummary struct {
	Length      int    `json:"length"`
	Difficulty  int    `json:"difficulty"`
	MerkleRoot  string `json:"merkle_root"`
	Valid       bool   `json:"valid"`
	LatestHash  string `json:"latest_hash"`
	FailedIndex int    `json:"failed_index"`
	Failure     string `json:"failure,omitempty"`
}

// NewChain creates a chain holding only the genesis block. Negative
// difficulties are treated as zero.
func NewChain(difficulty int, opts ...Option) *Chain {
	o := buildOptions(opts)

	index, err := lru.New[string, *Block](o.cacheSize)
	if err != nil {
		// only reachable with a non-positive size, which buildOptions rejects
		panic(fmt.Sprintf("hash index: %v", err))
	}
	clock := o.clock

	c := &Chain{
		difficulty: max(difficulty, 0),
		hasher:     o.hasher,
		index:      index,
		feed:       new(event.Feed),
		replica:    o.replica,
		clock:      func() int64 { return clock().UnixMicro() },
		log:        o.log,
	}
	if c.replica >= 0 {
		c.log = c.log.WithField("replica", c.replica)
	}

	genesis := GenesisBlock(c.hasher, c.clock())
	c.blocks = []*Block{genesis}
	c.index.Add(genesis.Hash(), genesis)
	c.RecomputeMerkleRoot()
	return c
}

// Genesis returns the first block of the chain.
func (c *Chain) Genesis() *Block {
	return c.blocks[0]
}

// Latest returns the last block. A chain always holds its genesis block, so
// an empty chain is a broken invariant and panics.
func (c *Chain) Latest() *Block {
	if len(c.blocks) == 0 {
		panic("simulation: chain has no blocks")
	}
	return c.blocks[len(c.blocks)-1]
}

func (c *Chain) Len() int {
	return len(c.blocks)
}

func (c *Chain) Difficulty() int {
	return c.difficulty
}

func (c *Chain) Hasher() Hasher {
	return c.hasher
}

// Block returns the block at index i.
func (c *Chain) Block(i int) (*Block, error) {
	if i < 0 || i >= len(c.blocks) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, len(c.blocks))
	}
	return c.blocks[i], nil
}

// Blocks returns copies of every block in order.
func (c *Chain) Blocks() []*Block {
	out := make([]*Block, len(c.blocks))
	for i, b := range c.blocks {
		out[i] = CopyBlock(b)
	}
	return out
}

// BlockByHash looks up a block by the hash it was appended with.
func (c *Chain) BlockByHash(hash string) (*Block, bool) {
	return c.index.Get(hash)
}

// Append mines a new block carrying data on top of the latest block, appends
// it and recomputes the Merkle root. It is the only way blocks enter a chain.
func (c *Chain) Append(data string) (*Block, MiningStats) {
	block, stats, _ := c.AppendContext(context.Background(), data)
	return block, stats
}

// AppendContext is Append with an abort signal. Nothing is appended when
// mining is cancelled.
func (c *Chain) AppendContext(ctx context.Context, data string) (*Block, MiningStats, error) {
	prev := c.Latest()
	block := NewBlock(c.hasher, uint64(len(c.blocks)), data, prev.Hash(), c.clock())

	stats, err := block.MineContext(ctx, c.difficulty)
	if err != nil {
		c.log.WithFields(logrus.Fields{
			"index":    block.Index(),
			"attempts": stats.Attempts,
		}).WithError(err).Warn("Mining aborted")
		return nil, stats, err
	}

	c.blocks = append(c.blocks, block)
	c.index.Add(block.Hash(), block)
	c.RecomputeMerkleRoot()

	c.log.WithFields(logrus.Fields{
		"index":    block.Index(),
		"hash":     block.Hash(),
		"nonce":    block.Nonce(),
		"attempts": stats.Attempts,
		"elapsed":  stats.Elapsed,
	}).Debug("Mined a new block")

	c.feed.Send(MinedBlockEvent{
		Replica:  c.replica,
		Index:    block.Index(),
		Data:     block.Data(),
		Hash:     stats.Hash,
		Nonce:    stats.Nonce,
		Attempts: stats.Attempts,
		Elapsed:  stats.Elapsed,
	})
	return block, stats, nil
}

// SubscribeMinedBlocks delivers a MinedBlockEvent for every block appended
// to this chain. Every chain owns its feed, so replicas of a Network never
// see each other's blocks here. Sends block until every subscriber has
// received the event, so subscribers must keep draining ch.
func (c *Chain) SubscribeMinedBlocks(ch chan<- MinedBlockEvent) event.Subscription {
	return c.feed.Subscribe(ch)
}

// MerkleRoot returns the cached Merkle root. It is only refreshed by Append
// and RecomputeMerkleRoot, so it goes stale after Corrupt.
func (c *Chain) MerkleRoot() string {
	return c.merkleRoot
}

// RecomputeMerkleRoot rebuilds the Merkle root from the current block hashes
// and caches it.
func (c *Chain) RecomputeMerkleRoot() string {
	c.merkleRoot = MerkleRoot(c.hasher, c.leaves())
	return c.merkleRoot
}

// MerkleTree returns every level of the Merkle tree over the current block
// hashes, leaves first and root last.
func (c *Chain) MerkleTree() [][]string {
	return MerkleLevels(c.hasher, c.leaves())
}

func (c *Chain) leaves() []string {
	hashes := make([]string, len(c.blocks))
	for i, b := range c.blocks {
		hashes[i] = b.Hash()
	}
	return hashes
}

// Validate re-verifies the whole chain in ascending order. Each block's
// stored hash must match its contents and each non-genesis block must link
// to the stored hash of its predecessor. The first failure is returned as an
// *IntegrityError.
func (c *Chain) Validate() error {
	for i, b := range c.blocks {
		if b.Hash() != b.CalculateHash() {
			return &IntegrityError{Index: uint64(i), Err: ErrHashMismatch}
		}
		if i > 0 && b.PreviousHash() != c.blocks[i-1].Hash() {
			return &IntegrityError{Index: uint64(i), Err: ErrBrokenLink}
		}
	}
	return nil
}

func (c *Chain) IsValid() bool {
	return c.Validate() == nil
}

// Corrupt overwrites the payload of block index in place, without remining,
// relinking or refreshing the Merkle root. It only exists to simulate
// tampering. An out of range index leaves the chain untouched.
func (c *Chain) Corrupt(index int, data string) error {
	if index < 0 || index >= len(c.blocks) {
		return fmt.Errorf("corrupt: %w: %d not in [0, %d)", ErrIndexOutOfRange, index, len(c.blocks))
	}
	c.blocks[index].data = data
	c.log.WithFields(logrus.Fields{
		"index": index,
		"data":  data,
	}).Warn("Block corrupted")
	return nil
}

// Summary validates the chain and reports its current state.
func (c *Chain) Summary() ChainSummary {
	s := ChainSummary{
		Length:      len(c.blocks),
		Difficulty:  c.difficulty,
		MerkleRoot:  c.merkleRoot,
		Valid:       true,
		LatestHash:  c.Latest().Hash(),
		FailedIndex: -1,
	}
	if err := c.Validate(); err != nil {
		s.Valid = false
		s.Failure = err.Error()
		var ierr *IntegrityError
		if errors.As(err, &ierr) {
			s.FailedIndex = int(ierr.Index)
		}
	}
	return s
}
