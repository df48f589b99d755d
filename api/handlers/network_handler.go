package handlers

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/shreekarashastry/ledgersim/simulation"
)

// NetworkHandler serves the replica networks built by the scenario
type NetworkHandler struct {
	mu       *sync.Mutex
	networks map[string]*simulation.Network
}

// NewNetworkHandler creates a new NetworkHandler
func NewNetworkHandler(mu *sync.Mutex, networks map[string]*simulation.Network) *NetworkHandler {
	return &NetworkHandler{mu: mu, networks: networks}
}

func (h *NetworkHandler) network(c *gin.Context) (*simulation.Network, bool) {
	net, ok := h.networks[c.Param("network")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Network not found"})
	}
	return net, ok
}

// List returns the names and sizes of the known networks
// GET /api/v1/networks
func (h *NetworkHandler) List(c *gin.Context) {
	out := make(map[string]int, len(h.networks))
	for name, net := range h.networks {
		out[name] = net.Size()
	}
	c.JSON(http.StatusOK, out)
}

// GetConsensus validates every replica and returns the consensus report. It
// tallies without publishing to report subscribers, which could otherwise
// block while the lock is held.
// GET /api/v1/networks/:network
func (h *NetworkHandler) GetConsensus(c *gin.Context) {
	net, ok := h.network(c)
	if !ok {
		return
	}

	h.mu.Lock()
	report := net.Tally()
	h.mu.Unlock()

	c.JSON(http.StatusOK, report)
}

// GetRejections returns the accepted and rejected replicas
// GET /api/v1/networks/:network/rejections
func (h *NetworkHandler) GetRejections(c *gin.Context) {
	net, ok := h.network(c)
	if !ok {
		return
	}

	h.mu.Lock()
	report := net.RejectInvalid()
	h.mu.Unlock()

	c.JSON(http.StatusOK, report)
}

// GetReplica returns one replica's chain
// GET /api/v1/networks/:network/replicas/:id
func (h *NetworkHandler) GetReplica(c *gin.Context) {
	net, ok := h.network(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid replica index"})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	replica, err := net.Replica(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":    replica.ID,
		"chain": NewChainView(replica.Chain),
	})
}

// GetReplicaBlock looks a block up in one replica's hash index
// GET /api/v1/networks/:network/replicas/:id/blocks/:hash
func (h *NetworkHandler) GetReplicaBlock(c *gin.Context) {
	net, ok := h.network(c)
	if !ok {
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid replica index"})
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	replica, err := net.Replica(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	blockByHash(c, replica.Chain)
}
