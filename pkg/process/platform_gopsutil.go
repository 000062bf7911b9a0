//go:build unix

package process

import (
	"context"
	"fmt"
	"math"

	"github.com/core-tools/hsu-killtree/pkg/errors"

	gopsprocess "github.com/shirou/gopsutil/v4/process"
)

func (p *NativePlatform) ListProcesses() (ProcessInfos, error) {
	return p.listProcesses(context.Background(), false)
}

func (p *NativePlatform) ListProcessesContext(ctx context.Context) (ProcessInfos, error) {
	return p.listProcesses(ctx, true)
}

func (p *NativePlatform) NewTerminator(options TerminateOptions) (Terminator, error) {
	return newSignalTerminator(options, p.logger)
}

func (p *NativePlatform) listProcesses(ctx context.Context, concurrent bool) (ProcessInfos, error) {
	pids, err := gopsprocess.PidsWithContext(ctx)
	if err != nil {
		return nil, errors.NewEnumerationError("failed to list process ids", err)
	}

	processIDs := make([]ProcessID, 0, len(pids))
	for _, pid := range pids {
		if pid < 0 {
			p.logger.Debugf("Skipping negative process id: %d", pid)
			continue
		}
		processIDs = append(processIDs, ProcessID(pid))
	}

	lookup := func(processID ProcessID) (ProcessInfo, error) {
		return lookupGopsutil(ctx, processID)
	}
	return collectProcessInfos(ctx, processIDs, lookup, concurrent, p.logger)
}

// gopsutilProcess is the part of *gopsprocess.Process a lookup reads.
type gopsutilProcess interface {
	PpidWithContext(ctx context.Context) (int32, error)
	NameWithContext(ctx context.Context) (string, error)
}

func lookupGopsutil(ctx context.Context, processID ProcessID) (ProcessInfo, error) {
	if processID > math.MaxInt32 {
		return ProcessInfo{}, errors.NewConversionError(fmt.Sprintf("process id %d does not fit in int32", processID), nil)
	}
	proc, err := gopsprocess.NewProcessWithContext(ctx, int32(processID))
	if err != nil {
		return ProcessInfo{}, err
	}
	return processInfoOf(ctx, processID, proc)
}

func processInfoOf(ctx context.Context, processID ProcessID, proc gopsutilProcess) (ProcessInfo, error) {
	ppid, err := proc.PpidWithContext(ctx)
	if err != nil {
		return ProcessInfo{}, err
	}
	if ppid < 0 {
		return ProcessInfo{}, errors.NewConversionError(fmt.Sprintf("negative parent process id %d", ppid), nil)
	}
	name, err := proc.NameWithContext(ctx)
	if err != nil {
		return ProcessInfo{}, err
	}
	return ProcessInfo{
		ProcessID:       processID,
		ParentProcessID: ProcessID(ppid),
		Name:            name,
	}, nil
}
