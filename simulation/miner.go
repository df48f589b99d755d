package simulation

import (
	"context"
	"strings"
	"time"
)

// Mining checks for cancellation once every 2^12 attempts.
const abortCheckInterval = 1 << 12

// MiningStats describes one completed proof-of-work search.
type MiningStats struct {
	Hash     string        `json:"hash"`
	Nonce    uint64        `json:"nonce"`
	Attempts uint64        `json:"attempts"`
	Elapsed  time.Duration `json:"elapsed"`
}

// MeetsDifficulty reports whether hash starts with difficulty '0' characters.
// A difficulty of zero or less is always met.
func MeetsDifficulty(hash string, difficulty int) bool {
	if difficulty <= 0 {
		return true
	}
	return strings.HasPrefix(hash, strings.Repeat("0", difficulty))
}

// Mine increments the nonce and recomputes the hash until the hash meets the
// difficulty target. There is no bound on the number of attempts.
func (b *Block) Mine(difficulty int) MiningStats {
	stats, _ := b.MineContext(context.Background(), difficulty)
	return stats
}

// MineContext is Mine with an abort signal. On cancellation the block is left
// with whatever nonce the search reached and ctx.Err() is returned.
func (b *Block) MineContext(ctx context.Context, difficulty int) (MiningStats, error) {
	var (
		start    = time.Now()
		target   = strings.Repeat("0", max(difficulty, 0))
		attempts = uint64(0)
	)
	for !strings.HasPrefix(b.hash, target) {
		if attempts%abortCheckInterval == 0 {
			select {
			case <-ctx.Done():
				return b.stats(attempts, time.Since(start)), ctx.Err()
			default:
			}
		}
		b.nonce++
		b.hash = b.CalculateHash()
		attempts++
	}
	return b.stats(attempts, time.Since(start)), nil
}

func (b *Block) stats(attempts uint64, elapsed time.Duration) MiningStats {
	return MiningStats{
		Hash:     b.hash,
		Nonce:    b.nonce,
		Attempts: attempts,
		Elapsed:  elapsed,
	}
}
