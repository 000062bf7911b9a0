//go:build windows

package processstate

import (
	"github.com/core-tools/hsu-killtree/pkg/errors"
	"github.com/core-tools/hsu-killtree/pkg/process"

	"golang.org/x/sys/windows"
)

// stillActive (STILL_ACTIVE) is the exit code Windows reports for a live process.
const stillActive = 259

// IsProcessRunning opens processID with minimal rights and checks its exit code.
func IsProcessRunning(processID process.ProcessID) (bool, error) {
	handle, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(processID))
	if err != nil {
		if err == windows.ERROR_INVALID_PARAMETER {
			return false, nil
		}
		return false, errors.NewInternalError("failed to open process", err).WithContext("process_id", processID)
	}
	defer windows.CloseHandle(handle)

	var exitCode uint32
	if err := windows.GetExitCodeProcess(handle, &exitCode); err != nil {
		return false, errors.NewInternalError("failed to read exit code", err).WithContext("process_id", processID)
	}
	return exitCode == stillActive, nil
}
