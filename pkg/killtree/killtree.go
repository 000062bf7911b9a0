// Package killtree terminates a process together with all of its descendants.
//
// A call validates the target id, takes one snapshot of the process table,
// walks it breadth-first from the target and terminates the discovered ids
// deepest first. KillTree does everything on the calling goroutine;
// KillTreeContext fans the per-process snapshot lookups out across goroutines
// and honours ctx. Termination is sequential in both modes.
package killtree

import (
	"context"

	"github.com/core-tools/hsu-killtree/pkg/errors"
	"github.com/core-tools/hsu-killtree/pkg/logging"
	"github.com/core-tools/hsu-killtree/pkg/process"
	"github.com/core-tools/hsu-killtree/pkg/processtree"
)

// KillTree kills processID and its descendants on the native platform.
func KillTree(processID process.ProcessID, config Config) (Outputs, error) {
	return New(process.NewNativePlatform(nil), nil).KillTree(processID, config)
}

// KillTreeContext is the concurrent variant of KillTree.
func KillTreeContext(ctx context.Context, processID process.ProcessID, config Config) (Outputs, error) {
	return New(process.NewNativePlatform(nil), nil).KillTreeContext(ctx, processID, config)
}

// Killer runs kill-tree invocations against a platform. It holds no
// per-invocation state and is safe for concurrent use.
type Killer struct {
	platform process.Platform
	logger   logging.Logger
}

// New returns a Killer for platform. A nil logger discards output.
func New(platform process.Platform, logger logging.Logger) *Killer {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Killer{
		platform: platform,
		logger:   logger,
	}
}

// KillTree runs every step on the calling goroutine.
//
// A hard termination failure aborts the remaining ids and returns an error;
// processes killed before it stay killed.
func (k *Killer) KillTree(processID process.ProcessID, config Config) (Outputs, error) {
	return k.run(context.Background(), false, processID, config)
}

// KillTreeContext enumerates concurrently and checks ctx between kills. When
// ctx is done the call returns a cancelled error; processes killed so far
// stay killed.
func (k *Killer) KillTreeContext(ctx context.Context, processID process.ProcessID, config Config) (Outputs, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return k.run(ctx, true, processID, config)
}

func (k *Killer) run(ctx context.Context, concurrent bool, processID process.ProcessID, config Config) (Outputs, error) {
	if err := process.ValidateProcessID(processID, k.platform.Limits()); err != nil {
		return nil, err
	}

	terminator, err := k.platform.NewTerminator(config.terminateOptions())
	if err != nil {
		if errors.IsValidationError(err) {
			return nil, err
		}
		return nil, errors.NewTerminationError("failed to create terminator", err)
	}

	infos, err := k.listProcesses(ctx, concurrent)
	if err != nil {
		return nil, err
	}
	k.logger.Debugf("Snapshot taken, processes: %d", len(infos))

	children := processtree.NewChildProcessIDMap(infos, k.platform.ExcludeFromChildMap)
	discovery := processtree.DiscoveryOrder(processID, children, config.IncludeTarget)
	if !config.IncludeTarget {
		k.logger.Debugf("Skipping target process id: %d", processID)
	}

	d := &driver{
		terminator: terminator,
		infos:      processtree.NewProcessInfoMap(infos),
		logger:     k.logger,
	}
	outputs, err := d.execute(ctx, processtree.KillOrder(discovery))
	if err != nil {
		return nil, err
	}

	k.logger.Infof("Kill tree done, target process id: %d, outputs: %d", processID, len(outputs))
	return outputs, nil
}

func (k *Killer) listProcesses(ctx context.Context, concurrent bool) (process.ProcessInfos, error) {
	var (
		infos process.ProcessInfos
		err   error
	)
	if concurrent {
		infos, err = k.platform.ListProcessesContext(ctx)
	} else {
		infos, err = k.platform.ListProcesses()
	}
	if err != nil {
		if errors.IsEnumerationError(err) || errors.IsCancelledError(err) {
			return nil, err
		}
		return nil, errors.NewEnumerationError("failed to list processes", err)
	}
	return infos, nil
}
