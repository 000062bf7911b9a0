//go:build windows

package process

import (
	"context"
	"unsafe"

	"github.com/core-tools/hsu-killtree/pkg/errors"
	"github.com/core-tools/hsu-killtree/pkg/logging"

	"golang.org/x/sys/windows"
)

const (
	systemIdleProcessID ProcessID = 0
	systemProcessID     ProcessID = 4
)

func (p *NativePlatform) Limits() Limits {
	return Limits{
		MaxProcessID: ProcessID(^uint32(0)),
		Protected: map[ProcessID]string{
			systemIdleProcessID: "Not allowed to kill System Idle Process",
			systemProcessID:     "Not allowed to kill System",
		},
	}
}

// ListProcesses takes one ToolHelp snapshot. The snapshot already carries
// parent ids and names, so there is nothing to fan out per process.
func (p *NativePlatform) ListProcesses() (ProcessInfos, error) {
	return snapshotProcesses()
}

// ListProcessesContext runs the snapshot off the calling goroutine and stops
// waiting for it when ctx is done.
func (p *NativePlatform) ListProcessesContext(ctx context.Context) (ProcessInfos, error) {
	type result struct {
		infos ProcessInfos
		err   error
	}
	done := make(chan result, 1)
	go func() {
		infos, err := snapshotProcesses()
		done <- result{infos, err}
	}()

	select {
	case r := <-done:
		return r.infos, r.err
	case <-ctx.Done():
		return nil, errors.NewCancelledError("process enumeration cancelled", ctx.Err())
	}
}

func (p *NativePlatform) NewTerminator(options TerminateOptions) (Terminator, error) {
	if options.Signal != "" {
		p.logger.Debugf("Signal %q is ignored on Windows", options.Signal)
	}
	return &windowsTerminator{logger: p.logger, closeHandle: windows.CloseHandle}, nil
}

func snapshotProcesses() (ProcessInfos, error) {
	snapshot, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, errors.NewEnumerationError("failed to create process snapshot", err)
	}
	defer windows.CloseHandle(snapshot)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	if err := windows.Process32First(snapshot, &entry); err != nil {
		return nil, errors.NewEnumerationError("failed to read first process entry", err)
	}

	var infos ProcessInfos
	for {
		infos = append(infos, ProcessInfo{
			ProcessID:       ProcessID(entry.ProcessID),
			ParentProcessID: ProcessID(entry.ParentProcessID),
			Name:            windows.UTF16ToString(entry.ExeFile[:]),
		})
		if err := windows.Process32Next(snapshot, &entry); err != nil {
			if err == windows.ERROR_NO_MORE_FILES {
				break
			}
			return nil, errors.NewEnumerationError("failed to read next process entry", err)
		}
	}
	return infos, nil
}

// windowsTerminator classifies OpenProcess/TerminateProcess results:
//
//	OpenProcess      ERROR_INVALID_PARAMETER -> MaybeAlreadyTerminated
//	TerminateProcess ERROR_ACCESS_DENIED     -> MaybeAlreadyTerminated
//	success                                  -> Killed
//	anything else                            -> termination error
type windowsTerminator struct {
	logger      logging.Logger
	closeHandle func(windows.Handle) error
}

func (t *windowsTerminator) Kill(processID ProcessID) (output KillOutput, err error) {
	handle, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, uint32(processID))
	if err != nil {
		if err == windows.ERROR_INVALID_PARAMETER {
			return NewMaybeAlreadyTerminatedOutput(processID, err), nil
		}
		return KillOutput{}, errors.NewTerminationError("failed to open process", err).WithContext("process_id", processID)
	}
	defer func() {
		if closeErr := t.closeHandle(handle); closeErr != nil {
			t.logger.Warnf("Failed to close process handle, process id: %d, error: %v", processID, closeErr)
			if err == nil {
				output = KillOutput{}
				err = errors.NewTerminationError("failed to close process handle", closeErr).WithContext("process_id", processID)
			}
		}
	}()

	t.logger.Debugf("Terminating process id: %d", processID)

	if err := windows.TerminateProcess(handle, 1); err != nil {
		if err == windows.ERROR_ACCESS_DENIED {
			return NewMaybeAlreadyTerminatedOutput(processID, err), nil
		}
		return KillOutput{}, errors.NewTerminationError("failed to terminate process", err).WithContext("process_id", processID)
	}
	return NewKilledOutput(processID), nil
}
