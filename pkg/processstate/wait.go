// Package processstate answers whether processes are still alive.
package processstate

import (
	"context"
	"fmt"
	"time"

	"github.com/core-tools/hsu-killtree/pkg/logging"
	"github.com/core-tools/hsu-killtree/pkg/process"

	"github.com/cenkalti/backoff/v5"
)

// ProbeFunc reports whether a process is alive.
type ProbeFunc func(processID process.ProcessID) (bool, error)

// WaitOptions tunes WaitForExit.
type WaitOptions struct {
	Timeout         time.Duration
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// Probe defaults to IsProcessRunning.
	Probe ProbeFunc
}

// DefaultWaitOptions polls for up to five seconds.
func DefaultWaitOptions() WaitOptions {
	return WaitOptions{
		Timeout:         5 * time.Second,
		InitialInterval: 20 * time.Millisecond,
		MaxInterval:     500 * time.Millisecond,
	}
}

// WaitForExit polls processIDs with exponential backoff until none is alive,
// the timeout elapses or ctx is done. It returns the ids still alive at that
// point, in input order. Probe errors count as alive.
func WaitForExit(ctx context.Context, processIDs []process.ProcessID, opts WaitOptions, logger logging.Logger) []process.ProcessID {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	probe := opts.Probe
	if probe == nil {
		probe = IsProcessRunning
	}

	remaining := processIDs
	check := func() (struct{}, error) {
		var alive []process.ProcessID
		for _, id := range remaining {
			running, err := probe(id)
			if err != nil {
				logger.Debugf("Liveness probe failed, process id: %d, error: %v", id, err)
			}
			if running || err != nil {
				alive = append(alive, id)
			}
		}
		remaining = alive
		if len(alive) > 0 {
			return struct{}{}, fmt.Errorf("%d processes still running", len(alive))
		}
		return struct{}{}, nil
	}

	expBackoff := backoff.NewExponentialBackOff()
	expBackoff.InitialInterval = opts.InitialInterval
	expBackoff.MaxInterval = opts.MaxInterval

	_, err := backoff.Retry(ctx, check,
		backoff.WithBackOff(expBackoff),
		backoff.WithMaxElapsedTime(opts.Timeout),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Debugf("Waiting for exit: %v, next check in %s", err, next)
		}),
	)
	if err != nil {
		logger.Warnf("Processes still running after wait: %v", remaining)
	}
	return remaining
}
