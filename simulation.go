package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"

	"github.com/shreekarashastry/ledgersim/config"
	"github.com/shreekarashastry/ledgersim/simulation"
)

// Outcome keeps everything the scenario built so it can be inspected after
// the run.
type Outcome struct {
	Chain        *simulation.Chain
	Attacked     *simulation.Network
	Clean        *simulation.Network
	RootBefore   string
	RootAfter    string
	Majority     simulation.ConsensusReport
	SingleCheat  simulation.RejectionReport
	AttackDetect simulation.RejectionReport
	PoW          []simulation.MiningStats
}

type Simulation struct {
	cfg    *config.Config
	log    *logrus.Logger
	hasher simulation.Hasher
}

func NewSimulation(cfg *config.Config, log *logrus.Logger) (*Simulation, error) {
	hasher, err := simulation.HasherByName(cfg.Chain.Hasher)
	if err != nil {
		return nil, err
	}
	return &Simulation{cfg: cfg, log: log, hasher: hasher}, nil
}

func (sim *Simulation) chainOptions() []simulation.Option {
	return []simulation.Option{
		simulation.WithHasher(sim.hasher),
		simulation.WithLogger(sim.log),
		simulation.WithIndexCacheSize(sim.cfg.Chain.IndexCacheSize),
		simulation.WithParallelMining(sim.cfg.Network.Parallel),
	}
}

// Start runs the scripted scenario: build a chain, demonstrate proof of
// work, show the Merkle tree before and after corruption, then run a
// majority attack and a single cheater against replica networks.
func (sim *Simulation) Start() (*Outcome, error) {
	out := &Outcome{}
	sim.log.WithField("hasher", sim.hasher.Name()).Info("Starting ledger simulation")

	// Step 1: basic chain
	pterm.DefaultSection.Println("Step 1: Building the blockchain")
	out.Chain = simulation.NewChain(sim.cfg.Chain.Difficulty, sim.chainOptions()...)
	for _, data := range []string{"First data block", "Second data block"} {
		b, stats := out.Chain.Append(data)
		printMined(b, stats)
	}
	pterm.Info.Printfln("Blockchain created with %d blocks", out.Chain.Len())
	pterm.Info.Printfln("Chain valid: %v", out.Chain.IsValid())
	if err := renderChain(out.Chain); err != nil {
		return nil, err
	}

	// Step 2: proof of work at increasing difficulties
	pterm.DefaultSection.Println("Step 2: Proof of work")
	for d := 1; d <= sim.cfg.Chain.DemoDifficulty; d++ {
		chain := simulation.NewChain(d, sim.chainOptions()...)
		b, stats := chain.Append(fmt.Sprintf("Test block at difficulty %d", d))
		printMined(b, stats)
		pterm.Info.Printfln("Hash starts with %q: %v", strings.Repeat("0", d), simulation.MeetsDifficulty(b.Hash(), d))
		out.PoW = append(out.PoW, stats)
	}
	if err := renderPoW(out.PoW); err != nil {
		return nil, err
	}

	// Step 3: Merkle tree, corruption and recomputation
	pterm.DefaultSection.Println("Step 3: Merkle tree")
	if err := renderMerkleTree(out.Chain); err != nil {
		return nil, err
	}
	out.RootBefore = out.Chain.MerkleRoot()
	pterm.Info.Printfln("Merkle root before corruption: %s", out.RootBefore)
	if err := out.Chain.Corrupt(sim.cfg.Chain.CorruptionTarget, "CORRUPTED DATA"); err != nil {
		pterm.Warning.Println(err.Error())
	}
	out.RootAfter = out.Chain.RecomputeMerkleRoot()
	pterm.Info.Printfln("Merkle root after corruption:  %s", out.RootAfter)
	if out.RootAfter == out.RootBefore {
		pterm.Info.Println("Stored block hashes were not remined, so the root is unchanged; validation still catches the tampering")
	}
	printChainValidity(out.Chain)
	if err := renderMerkleTree(out.Chain); err != nil {
		return nil, err
	}

	// Step 4: replica network
	pterm.DefaultSection.Println("Step 4: Decentralized network")
	out.Attacked = sim.newNetwork()
	sub := sim.watch(out.Attacked)
	defer sub.Unsubscribe()
	for _, payload := range sim.cfg.Network.Payloads {
		out.Attacked.BroadcastAppend(payload)
	}
	if err := renderConsensus(out.Attacked.ConsensusReport()); err != nil {
		return nil, err
	}

	// Step 5: majority attack
	pterm.DefaultSection.Println("Step 5: 51% attack")
	corrupted := out.Attacked.CorruptMajority()
	pterm.Warning.Printfln("Corrupted %d of %d replicas: %v", len(corrupted), out.Attacked.Size(), corrupted)
	out.Majority = out.Attacked.ConsensusReport()
	if err := renderConsensus(out.Majority); err != nil {
		return nil, err
	}

	// Step 6: detection
	pterm.DefaultSection.Println("Step 6: Corruption detection")
	pterm.Info.Println("Test 1: a single replica cheats")
	out.Clean = sim.newNetwork()
	out.Clean.BroadcastAppend(sim.cfg.Network.CleanPayload)
	if err := out.Clean.CorruptSingle(sim.cfg.Network.CheaterReplica); err != nil {
		return nil, err
	}
	out.SingleCheat = out.Clean.RejectInvalid()
	if err := renderRejection(out.SingleCheat); err != nil {
		return nil, err
	}

	pterm.Info.Println("Test 2: detection after the majority attack")
	out.AttackDetect = out.Attacked.RejectInvalid()
	if err := renderRejection(out.AttackDetect); err != nil {
		return nil, err
	}

	pterm.Success.Println("All scenario steps completed")
	return out, nil
}

func (sim *Simulation) newNetwork() *simulation.Network {
	net := simulation.NewNetwork(sim.cfg.Network.Replicas, sim.cfg.Network.Difficulty, sim.chainOptions()...)
	pterm.Info.Printfln("Decentralized network created with %d replicas", net.Size())
	return net
}
