package main

import (
	"github.com/dominant-strategies/go-quai/event"
	"github.com/sirupsen/logrus"

	"github.com/shreekarashastry/ledgersim/simulation"
)

// watch logs every block mined by the network's replicas until the returned
// subscription is cancelled.
func (sim *Simulation) watch(net *simulation.Network) event.Subscription {
	minedCh := make(chan simulation.MinedBlockEvent, 16)
	sub := net.SubscribeMinedBlocks(minedCh)
	go func() {
		for {
			select {
			case ev := <-minedCh:
				sim.log.WithFields(logrus.Fields{
					"replica":  ev.Replica,
					"index":    ev.Index,
					"hash":     ev.Hash,
					"attempts": ev.Attempts,
					"elapsed":  ev.Elapsed,
				}).Info("Mined a new block")
			case <-sub.Err():
				return
			}
		}
	}()
	return sub
}
