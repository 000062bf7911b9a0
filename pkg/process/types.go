package process

import (
	"context"
	"fmt"
)

// ProcessID identifies a process at a given instant. Ids are reused over time.
type ProcessID uint32

// ProcessInfo is the identity of one process as seen by a single enumeration.
type ProcessInfo struct {
	ProcessID       ProcessID
	ParentProcessID ProcessID
	Name            string
}

// ProcessInfos is one pass of a system-wide enumeration.
type ProcessInfos []ProcessInfo

// KillResult classifies a termination attempt that did not fail hard.
type KillResult int

const (
	// Killed means the termination primitive succeeded.
	Killed KillResult = iota
	// MaybeAlreadyTerminated means the attempt failed the way it does when the
	// process exited between enumeration and termination.
	MaybeAlreadyTerminated
)

func (r KillResult) String() string {
	switch r {
	case Killed:
		return "killed"
	case MaybeAlreadyTerminated:
		return "maybe_already_terminated"
	default:
		return fmt.Sprintf("unknown(%d)", int(r))
	}
}

// KillOutput is the outcome of one termination attempt.
type KillOutput struct {
	Result    KillResult
	ProcessID ProcessID
	// Source is the platform error behind a MaybeAlreadyTerminated result.
	Source error
}

func NewKilledOutput(processID ProcessID) KillOutput {
	return KillOutput{Result: Killed, ProcessID: processID}
}

func NewMaybeAlreadyTerminatedOutput(processID ProcessID, source error) KillOutput {
	return KillOutput{Result: MaybeAlreadyTerminated, ProcessID: processID, Source: source}
}

// TerminateOptions carries platform-specific termination parameters.
type TerminateOptions struct {
	// Signal is a POSIX signal name such as "SIGTERM" or "KILL". Ignored on Windows.
	Signal string
}

// Terminator terminates a single process.
//
// Kill returns an error only when the failure cannot be attributed to the
// process being already gone.
type Terminator interface {
	Kill(processID ProcessID) (KillOutput, error)
}

// Platform is the per-OS collaborator behind a kill-tree invocation.
type Platform interface {
	// Limits returns the id range and protected ids of the platform.
	Limits() Limits
	// ExcludeFromChildMap reports whether info must stay out of the
	// parent to children index.
	ExcludeFromChildMap(info ProcessInfo) bool
	// ListProcesses enumerates every visible process on the calling goroutine.
	ListProcesses() (ProcessInfos, error)
	// ListProcessesContext enumerates every visible process, fanning the
	// per-process lookups out across goroutines.
	ListProcessesContext(ctx context.Context) (ProcessInfos, error)
	// NewTerminator validates options and returns a terminator for them.
	NewTerminator(options TerminateOptions) (Terminator, error)
}

// IsSelfParented reports whether a process claims itself as its own parent,
// which is how idle/kernel pseudo-processes appear at the root of the table.
func IsSelfParented(info ProcessInfo) bool {
	return info.ProcessID == info.ParentProcessID
}
