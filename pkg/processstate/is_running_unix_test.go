//go:build unix

package processstate

import (
	"context"
	"os"
	"os/exec"
	"syscall"
	"testing"
	"time"

	"github.com/core-tools/hsu-killtree/pkg/errors"
	"github.com/core-tools/hsu-killtree/pkg/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsProcessRunning(t *testing.T) {
	running, err := IsProcessRunning(process.ProcessID(os.Getpid()))
	require.NoError(t, err)
	assert.True(t, running)

	_, err = IsProcessRunning(0)
	assert.True(t, errors.IsValidationError(err))
}

func TestIsProcessRunning_ExitedChild(t *testing.T) {
	cmd := exec.Command("true")
	require.NoError(t, cmd.Run())

	running, err := IsProcessRunning(process.ProcessID(cmd.Process.Pid))
	require.NoError(t, err)
	assert.False(t, running)
}

// startUnreapedKill kills a child and leaves it unreaped until cleanup.
func startUnreapedKill(t *testing.T) process.ProcessID {
	t.Helper()
	cmd := exec.Command("sleep", "30")
	require.NoError(t, cmd.Start())
	t.Cleanup(func() { _ = cmd.Wait() })

	require.NoError(t, cmd.Process.Signal(syscall.SIGKILL))
	return process.ProcessID(cmd.Process.Pid)
}

func TestIsProcessRunning_UnreapedChild(t *testing.T) {
	pid := startUnreapedKill(t)

	assert.Eventually(t, func() bool {
		running, err := IsProcessRunning(pid)
		return err == nil && !running
	}, 2*time.Second, 10*time.Millisecond)
}

func TestWaitForExit_UnreapedChild(t *testing.T) {
	pid := startUnreapedKill(t)

	opts := DefaultWaitOptions()
	opts.Timeout = 2 * time.Second

	survivors := WaitForExit(context.Background(), []process.ProcessID{pid}, opts, nil)
	assert.Empty(t, survivors)
}
