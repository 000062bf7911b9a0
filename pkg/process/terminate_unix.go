//go:build unix

package process

import (
	"math"
	"strconv"
	"strings"
	"syscall"

	"github.com/core-tools/hsu-killtree/pkg/errors"
	"github.com/core-tools/hsu-killtree/pkg/logging"

	"golang.org/x/sys/unix"
)

// DefaultSignal is sent when TerminateOptions.Signal is empty.
const DefaultSignal = "SIGTERM"

// ParseSignal resolves "SIGTERM", "term", "15" and the like.
func ParseSignal(name string) (syscall.Signal, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultSignal
	}
	if n, err := strconv.Atoi(name); err == nil {
		if n <= 0 || unix.SignalName(syscall.Signal(n)) == "" {
			return 0, errors.NewValidationError("unknown signal: "+name, nil).WithContext("signal", name)
		}
		return syscall.Signal(n), nil
	}
	upper := strings.ToUpper(name)
	if !strings.HasPrefix(upper, "SIG") {
		upper = "SIG" + upper
	}
	sig := unix.SignalNum(upper)
	if sig == 0 {
		return 0, errors.NewValidationError("unknown signal: "+name, nil).WithContext("signal", name)
	}
	return sig, nil
}

// signalTerminator classifies kill(2) results:
//
//	success -> Killed
//	ESRCH   -> MaybeAlreadyTerminated
//	other   -> termination error
type signalTerminator struct {
	signal syscall.Signal
	kill   func(pid int, sig syscall.Signal) error
	logger logging.Logger
}

func newSignalTerminator(options TerminateOptions, logger logging.Logger) (*signalTerminator, error) {
	sig, err := ParseSignal(options.Signal)
	if err != nil {
		return nil, err
	}
	return &signalTerminator{signal: sig, kill: unix.Kill, logger: logger}, nil
}

func (t *signalTerminator) Kill(processID ProcessID) (KillOutput, error) {
	if int64(processID) > int64(math.MaxInt) {
		return KillOutput{}, errors.NewTerminationError("failed to terminate process",
			errors.NewConversionError("process id does not fit in int", nil),
		).WithContext("process_id", processID)
	}

	t.logger.Debugf("Sending %s to process id: %d", unix.SignalName(t.signal), processID)

	err := t.kill(int(processID), t.signal)
	switch {
	case err == nil:
		return NewKilledOutput(processID), nil
	case err == unix.ESRCH:
		return NewMaybeAlreadyTerminatedOutput(processID, err), nil
	default:
		return KillOutput{}, errors.NewTerminationError("failed to terminate process", err).
			WithContext("process_id", processID).
			WithContext("signal", unix.SignalName(t.signal))
	}
}
