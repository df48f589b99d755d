// Package api exposes the state left behind by a simulation run over a
// read-only HTTP API.
package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/shreekarashastry/ledgersim/api/handlers"
	"github.com/shreekarashastry/ledgersim/api/middleware"
	"github.com/shreekarashastry/ledgersim/simulation"
)

// Router wraps the Gin router with handlers
type Router struct {
	engine         *gin.Engine
	log            logrus.FieldLogger
	chainHandler   *handlers.ChainHandler
	networkHandler *handlers.NetworkHandler
}

// NewRouter creates a new Router. Chains and networks are not safe for
// concurrent use, so every handler shares one lock.
func NewRouter(log logrus.FieldLogger, chain *simulation.Chain, networks map[string]*simulation.Network) *Router {
	gin.SetMode(gin.ReleaseMode)

	mu := new(sync.Mutex)
	r := &Router{
		engine:         gin.New(),
		log:            log,
		chainHandler:   handlers.NewChainHandler(mu, chain),
		networkHandler: handlers.NewNetworkHandler(mu, networks),
	}

	r.setupMiddleware()
	r.setupRoutes()

	return r
}

// setupMiddleware configures middleware
func (r *Router) setupMiddleware() {
	r.engine.Use(middleware.Recovery(r.log))
	r.engine.Use(middleware.Logger(r.log))
}

// setupRoutes configures API routes
func (r *Router) setupRoutes() {
	r.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/chain", r.chainHandler.Get)
		v1.GET("/chain/merkle", r.chainHandler.GetMerkle)
		v1.GET("/chain/blocks/:hash", r.chainHandler.GetBlockByHash)

		networks := v1.Group("/networks")
		{
			networks.GET("", r.networkHandler.List)
			networks.GET("/:network", r.networkHandler.GetConsensus)
			networks.GET("/:network/rejections", r.networkHandler.GetRejections)
			networks.GET("/:network/replicas/:id", r.networkHandler.GetReplica)
			networks.GET("/:network/replicas/:id/blocks/:hash", r.networkHandler.GetReplicaBlock)
		}
	}
}

// Engine returns the underlying Gin engine
func (r *Router) Engine() http.Handler {
	return r.engine
}
