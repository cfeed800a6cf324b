package provision

import (
	"context"
	"time"

	"github.com/imamik/hostforge/internal/util/retry"
)

const (
	// DefaultWaitAttempts at DefaultWaitInterval gives the host roughly
	// five minutes to boot and start sshd.
	DefaultWaitAttempts = 60
	DefaultWaitInterval = 5 * time.Second
)

// Prober attempts one full authenticated control connection. A nil error
// means the host is reachable in the strong sense (session + command
// execution), not merely that a port is open.
type Prober interface {
	Probe(ctx context.Context) error
}

// WaitReachable polls the host until a probe succeeds or the attempt budget
// is spent. Every probe is bounded by the prober's own connect timeout, so
// a single stalled attempt cannot exhaust the overall budget. Exhaustion is
// terminal; no instance-level remediation is attempted.
func WaitReachable(ctx context.Context, prober Prober, addr string, attempts int, interval time.Duration) error {
	if attempts <= 0 {
		attempts = DefaultWaitAttempts
	}
	if interval <= 0 {
		interval = DefaultWaitInterval
	}

	err := retry.Do(ctx, func() error {
		return prober.Probe(ctx)
	},
		retry.WithMaxAttempts(attempts),
		retry.WithDelay(interval),
		retry.WithFixedInterval(),
	)
	if err != nil {
		return &UnreachableError{Addr: addr, Attempts: attempts, Err: err}
	}
	return nil
}
