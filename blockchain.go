package main

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"github.com/shreekarashastry/ledgersim/simulation"
)

func short(hash string, n int) string {
	if len(hash) <= n {
		return hash
	}
	return hash[:n] + "..."
}

func printMined(b *simulation.Block, stats simulation.MiningStats) {
	pterm.Info.Printfln("Block mined: %s in %.2f seconds with %d attempts",
		b.Hash(), stats.Elapsed.Seconds(), stats.Attempts)
}

func printChainValidity(c *simulation.Chain) {
	if err := c.Validate(); err != nil {
		pterm.Error.Printfln("Chain invalid: %v", err)
		return
	}
	pterm.Success.Println("Chain valid")
}

func renderChain(c *simulation.Chain) error {
	data := pterm.TableData{{"Index", "Data", "Previous", "Hash", "Nonce"}}
	for _, b := range c.Blocks() {
		data = append(data, []string{
			strconv.FormatUint(b.Index(), 10),
			b.Data(),
			short(b.PreviousHash(), 16),
			short(b.Hash(), 16),
			strconv.FormatUint(b.Nonce(), 10),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func renderPoW(stats []simulation.MiningStats) error {
	data := pterm.TableData{{"Difficulty", "Nonce", "Attempts", "Elapsed", "Hash"}}
	for i, s := range stats {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			strconv.FormatUint(s.Nonce, 10),
			strconv.FormatUint(s.Attempts, 10),
			s.Elapsed.String(),
			s.Hash,
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// renderMerkleTree draws the Merkle tree of c from the root down. Leaves that
// were added by odd-level duplication are marked.
func renderMerkleTree(c *simulation.Chain) error {
	levels := c.MerkleTree()
	if len(levels) == 0 {
		pterm.Info.Println("No blocks in the chain")
		return nil
	}

	for i, h := range levels[0] {
		if i < c.Len() {
			pterm.Printfln("  Block %d: %s", i, short(h, 16))
		}
	}

	var list pterm.LeveledList
	var walk func(level, pos, depth int)
	walk = func(level, pos, depth int) {
		text := short(levels[level][pos], 16)
		if level == 0 && pos >= c.Len() {
			text += " (duplicate)"
		}
		list = append(list, pterm.LeveledListItem{Level: depth, Text: text})
		if level == 0 {
			return
		}
		walk(level-1, 2*pos, depth+1)
		walk(level-1, 2*pos+1, depth+1)
	}
	walk(len(levels)-1, 0, 0)

	if err := pterm.DefaultTree.WithRoot(putils.TreeFromLeveledList(list)).Render(); err != nil {
		return err
	}
	pterm.Info.Printfln("Merkle root: %s", levels[len(levels)-1][0])
	return nil
}

func renderConsensus(r simulation.ConsensusReport) error {
	data := pterm.TableData{{"Replica", "Status", "Length", "Merkle", "Failure"}}
	for _, s := range r.Replicas {
		status := pterm.LightGreen("VALID")
		if !s.Valid {
			status = pterm.LightRed("CORRUPTED")
		}
		data = append(data, []string{
			strconv.Itoa(s.Replica),
			status,
			strconv.Itoa(s.Length),
			short(s.MerkleRoot, 16),
			s.Failure,
		})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}

	pterm.Info.Printfln("Summary: %d valid chains, %d corrupted chains", r.Valid, r.Invalid)
	printVerdict(r.Verdict)
	return nil
}

func renderRejection(r simulation.RejectionReport) error {
	data := pterm.TableData{{"Replica", "Decision"}}
	for _, i := range r.Accepted {
		data = append(data, []string{strconv.Itoa(i), pterm.LightGreen("accepted")})
	}
	for _, i := range r.Rejected {
		data = append(data, []string{strconv.Itoa(i), pterm.LightRed("rejected")})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		return err
	}

	pterm.Info.Printfln("Valid replicas accepted: %d", len(r.Accepted))
	pterm.Info.Printfln("Corrupted replicas rejected: %d", len(r.Rejected))
	printVerdict(r.Verdict)
	return nil
}

func printVerdict(v simulation.Verdict) {
	if v == simulation.MajorityCompromised {
		pterm.Warning.Println("ALERT: the majority of the network is corrupted!")
		return
	}
	pterm.Success.Println("The network maintains its integrity")
}
