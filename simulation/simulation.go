package simulation

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// AttackTargetBlock is the block every simulated attacker rewrites.
const AttackTargetBlock = 1

// CorruptMajority simulates a coalition controlling a strict majority of the
// network. The first Majority() replicas, in index order, rewrite block 1
// and then mine one adversarial block on top. It returns the indices of the
// corrupted replicas.
func (n *Network) CorruptMajority() []int {
	majority := n.Majority()
	n.log.WithFields(logrus.Fields{
		"corrupting": majority,
		"replicas":   len(n.replicas),
	}).Warn("Simulating majority attack")

	corrupted := make([]int, 0, majority)
	for i := 0; i < majority; i++ {
		n.attack(i, fmt.Sprintf("CORRUPTED_DATA_NODE_%d", i), fmt.Sprintf("MALICIOUS_BLOCK_%d", i))
		corrupted = append(corrupted, i)
	}
	return corrupted
}

// CorruptSingle simulates a lone dishonest replica.
func (n *Network) CorruptSingle(target int) error {
	if target < 0 || target >= len(n.replicas) {
		return fmt.Errorf("corrupt single: %w: %d not in [0, %d)", ErrReplicaOutOfRange, target, len(n.replicas))
	}
	n.log.WithField("replica", target).Warn("Simulating single cheater")
	n.attack(target, "FRAUDULENT_DATA", "FRAUDULENT_BLOCK")
	return nil
}

func (n *Network) attack(i int, forged, adversarial string) {
	chain := n.replicas[i].Chain
	if err := chain.Corrupt(AttackTargetBlock, forged); err != nil {
		// a replica that only holds its genesis block has nothing to rewrite
		n.log.WithField("replica", i).WithError(err).Warn("Corruption skipped")
	}
	chain.Append(adversarial)
}
