package simulation

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultIndexCacheSize = 4096

// Option configures a Chain or a Network. Options given to a Network are
// applied to every replica chain it creates.
type Option func(*options)

type options struct {
	hasher    Hasher
	log       logrus.FieldLogger
	clock     func() time.Time
	cacheSize int
	parallel  bool

	// set by Network for its replicas
	replica int
}

func defaultOptions() options {
	discard := logrus.New()
	discard.SetOutput(io.Discard)
	return options{
		hasher:    SHA256,
		log:       discard,
		clock:     time.Now,
		cacheSize: defaultIndexCacheSize,
		replica:   -1,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithHasher selects the digest used for block hashes and Merkle nodes.
func WithHasher(h Hasher) Option {
	return func(o *options) {
		if h != nil {
			o.hasher = h
		}
	}
}

func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithClock overrides the source of block timestamps.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithIndexCacheSize bounds the number of blocks kept in a chain's
// hash index.
func WithIndexCacheSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.cacheSize = n
		}
	}
}

// WithParallelMining makes Network.BroadcastAppend mine every replica in its
// own goroutine. Results are still reported in replica order.
func WithParallelMining(enabled bool) Option {
	return func(o *options) {
		o.parallel = enabled
	}
}

func withReplica(i int) Option {
	return func(o *options) {
		o.replica = i
	}
}
