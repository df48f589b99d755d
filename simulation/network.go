package simulation

import (
	"fmt"
	"sync"

	"github.com/dominant-strategies/go-quai/event"
	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

// Replica is one independently owned chain in a Network.
type Replica struct {
	ID    string
	Chain *Chain
}

// Network simulates a set of replicas that all start from a genesis block
// with the same difficulty. Replicas mine independently: identical payloads
// do not produce identical hashes, and any equality between replicas is
// coincidental.
type Network struct {
	replicas   []*Replica
	difficulty int
	parallel   bool

	reportFeed event.Feed

	log logrus.FieldLogger
}

// NormalizeReplicaCount returns the replica count actually used for n: at
// least one, and always odd so a strict majority exists.
func NormalizeReplicaCount(n int) int {
	if n < 1 {
		return 1
	}
	if n%2 == 0 {
		return n + 1
	}
	return n
}

// NewNetwork builds NormalizeReplicaCount(n) replicas at the given difficulty.
func NewNetwork(n, difficulty int, opts ...Option) *Network {
	o := buildOptions(opts)
	size := NormalizeReplicaCount(n)

	net := &Network{
		replicas:   make([]*Replica, 0, size),
		difficulty: max(difficulty, 0),
		parallel:   o.parallel,
		log:        o.log,
	}
	for i := 0; i < size; i++ {
		chainOpts := append(append([]Option(nil), opts...), withReplica(i))
		net.replicas = append(net.replicas, &Replica{
			ID:    uuid.NewV4().String(),
			Chain: NewChain(difficulty, chainOpts...),
		})
	}
	net.log.WithFields(logrus.Fields{
		"requested":  n,
		"replicas":   size,
		"difficulty": net.difficulty,
	}).Info("Network created")
	return net
}

func (n *Network) Size() int {
	return len(n.replicas)
}

func (n *Network) Difficulty() int {
	return n.difficulty
}

// Majority is the smallest number of replicas that outnumbers the rest.
func (n *Network) Majority() int {
	return len(n.replicas)/2 + 1
}

// Replicas returns the replicas in index order. The slice is a copy, the
// replicas are not.
func (n *Network) Replicas() []*Replica {
	return append([]*Replica(nil), n.replicas...)
}

func (n *Network) Replica(i int) (*Replica, error) {
	if i < 0 || i >= len(n.replicas) {
		return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrReplicaOutOfRange, i, len(n.replicas))
	}
	return n.replicas[i], nil
}

// BroadcastAppend appends data to every replica and returns the mining
// stats in replica order. There is no atomicity across replicas.
func (n *Network) BroadcastAppend(data string) []MiningStats {
	results := make([]MiningStats, len(n.replicas))
	if !n.parallel {
		for i, r := range n.replicas {
			_, results[i] = r.Chain.Append(data)
			n.log.WithFields(logrus.Fields{
				"replica": i,
				"hash":    results[i].Hash,
			}).Info("Block added to replica")
		}
		return results
	}

	var pend sync.WaitGroup
	for i, r := range n.replicas {
		pend.Add(1)
		go func(i int, r *Replica) {
			defer pend.Done()
			_, results[i] = r.Chain.Append(data)
		}(i, r)
	}
	pend.Wait()
	for i := range results {
		n.log.WithFields(logrus.Fields{
			"replica": i,
			"hash":    results[i].Hash,
		}).Info("Block added to replica")
	}
	return results
}

// SubscribeMinedBlocks subscribes ch to the feed of every replica chain, so
// it receives a MinedBlockEvent for every block appended to any replica.
// Unsubscribing the returned subscription detaches ch from all of them.
// Subscribers must keep draining ch.
func (n *Network) SubscribeMinedBlocks(ch chan<- MinedBlockEvent) event.Subscription {
	scope := new(event.SubscriptionScope)
	for _, r := range n.replicas {
		scope.Track(r.Chain.SubscribeMinedBlocks(ch))
	}
	return event.NewSubscription(func(quit <-chan struct{}) error {
		<-quit
		scope.Close()
		return nil
	})
}

// SubscribeReports delivers every report produced by ConsensusReport.
// Sending waits until every subscriber has received the report, so a
// subscriber that stops draining ch stalls ConsensusReport and whatever is
// holding a lock around it. Tally builds the same report without
// publishing it.
func (n *Network) SubscribeReports(ch chan<- ConsensusReport) event.Subscription {
	return n.reportFeed.Subscribe(ch)
}
