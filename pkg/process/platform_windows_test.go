//go:build windows

package process

import (
	stderrors "errors"
	"os/exec"
	"testing"

	"github.com/core-tools/hsu-killtree/pkg/errors"
	"github.com/core-tools/hsu-killtree/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/windows"
)

func startPing(t *testing.T) ProcessID {
	t.Helper()
	cmd := exec.Command("ping", "-n", "30", "127.0.0.1")
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})
	return ProcessID(cmd.Process.Pid)
}

func TestWindowsTerminator_Kill(t *testing.T) {
	pid := startPing(t)
	term := &windowsTerminator{logger: logging.NewNopLogger(), closeHandle: windows.CloseHandle}

	out, err := term.Kill(pid)
	require.NoError(t, err)
	assert.Equal(t, Killed, out.Result)
	assert.Equal(t, pid, out.ProcessID)
}

func TestWindowsTerminator_CloseHandleFailure(t *testing.T) {
	pid := startPing(t)
	closeErr := stderrors.New("close failed")
	term := &windowsTerminator{
		logger: logging.NewNopLogger(),
		closeHandle: func(h windows.Handle) error {
			_ = windows.CloseHandle(h)
			return closeErr
		},
	}

	_, err := term.Kill(pid)
	require.Error(t, err)
	assert.True(t, errors.IsTerminationError(err))
	assert.ErrorIs(t, err, closeErr)
}

func TestNativePlatform_WindowsLimits(t *testing.T) {
	limits := NewNativePlatform(nil).Limits()

	assert.Equal(t, ProcessID(^uint32(0)), limits.MaxProcessID)
	assert.True(t, errors.IsInvalidProcessIDError(ValidateProcessID(0, limits)))
	assert.True(t, errors.IsInvalidProcessIDError(ValidateProcessID(4, limits)))
}
