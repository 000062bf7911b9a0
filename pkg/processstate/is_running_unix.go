//go:build unix

package processstate

import (
	stderrors "errors"
	"math"
	"slices"

	"github.com/core-tools/hsu-killtree/pkg/errors"
	"github.com/core-tools/hsu-killtree/pkg/process"

	gopsprocess "github.com/shirou/gopsutil/v4/process"
	"golang.org/x/sys/unix"
)

// IsProcessRunning probes processID with signal 0. EPERM means the process
// exists but belongs to someone else. A zombie has exited and only waits for
// its parent to reap it, so it counts as not running.
func IsProcessRunning(processID process.ProcessID) (bool, error) {
	if processID == 0 {
		return false, errors.NewValidationError("invalid process id: 0", nil)
	}
	if processID > math.MaxInt32 {
		return false, errors.NewConversionError("process id does not fit in int32", nil).WithContext("process_id", processID)
	}

	err := unix.Kill(int(processID), 0)
	switch err {
	case nil, unix.EPERM:
		return !isZombie(processID), nil
	case unix.ESRCH:
		return false, nil
	default:
		return false, errors.NewInternalError("failed to probe process", err).WithContext("process_id", processID)
	}
}

// isZombie is false when the status cannot be read; kill(pid, 0) already
// said the process exists.
func isZombie(processID process.ProcessID) bool {
	proc, err := gopsprocess.NewProcess(int32(processID))
	if err != nil {
		return stderrors.Is(err, gopsprocess.ErrorProcessNotRunning)
	}
	status, err := proc.Status()
	if err != nil {
		return false
	}
	return slices.Contains(status, gopsprocess.Zombie)
}
