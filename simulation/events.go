package simulation

import "time"

// MinedBlockEvent is sent on a mined-block feed every time a block is
// appended to a chain. Replica is -1 for a chain outside any network.
type MinedBlockEvent struct {
	Replica  int           `json:"replica"`
	Index    uint64        `json:"index"`
	Data     string        `json:"data"`
	Hash     string        `json:"hash"`
	Nonce    uint64        `json:"nonce"`
	Attempts uint64        `json:"attempts"`
	Elapsed  time.Duration `json:"elapsed"`
}
