package handlers

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/shreekarashastry/ledgersim/simulation"
)

// ChainHandler serves the standalone scenario chain
type ChainHandler struct {
	mu    *sync.Mutex
	chain *simulation.Chain
}

// NewChainHandler creates a new ChainHandler
func NewChainHandler(mu *sync.Mutex, chain *simulation.Chain) *ChainHandler {
	return &ChainHandler{mu: mu, chain: chain}
}

// ChainView is a chain summary together with its blocks
type ChainView struct {
	Summary simulation.ChainSummary `json:"summary"`
	Blocks  []*simulation.Block     `json:"blocks"`
}

// NewChainView snapshots c
func NewChainView(c *simulation.Chain) ChainView {
	return ChainView{Summary: c.Summary(), Blocks: c.Blocks()}
}

// Get returns the chain summary and blocks
// GET /api/v1/chain
func (h *ChainHandler) Get(c *gin.Context) {
	h.mu.Lock()
	view := NewChainView(h.chain)
	h.mu.Unlock()

	c.JSON(http.StatusOK, view)
}

// GetMerkle returns every level of the chain's Merkle tree
// GET /api/v1/chain/merkle
func (h *ChainHandler) GetMerkle(c *gin.Context) {
	h.mu.Lock()
	levels := h.chain.MerkleTree()
	root := h.chain.MerkleRoot()
	h.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{"root": root, "levels": levels})
}

// GetBlockByHash looks a block up in the chain's hash index
// GET /api/v1/chain/blocks/:hash
func (h *ChainHandler) GetBlockByHash(c *gin.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()

	blockByHash(c, h.chain)
}

// blockByHash writes the block indexed under the :hash parameter. Blocks are
// found by the hash they were appended with, so a corrupted block is still
// served under its stored hash. The caller holds the lock because the block
// is marshalled while c is written.
func blockByHash(c *gin.Context, chain *simulation.Chain) {
	block, ok := chain.BlockByHash(c.Param("hash"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Block not found"})
		return
	}
	c.JSON(http.StatusOK, block)
}
