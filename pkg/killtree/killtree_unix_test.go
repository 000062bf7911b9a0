//go:build unix

package killtree

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/core-tools/hsu-killtree/pkg/process"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startShellTree(t *testing.T) (*exec.Cmd, process.ProcessID) {
	t.Helper()
	if testing.Short() {
		t.Skip("spawns real processes")
	}
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep not available")
	}

	cmd := exec.Command("sh", "-c", "sleep 30 & sleep 30 & wait")
	require.NoError(t, cmd.Start())
	root := process.ProcessID(cmd.Process.Pid)
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})

	platform := process.NewNativePlatform(nil)
	require.Eventually(t, func() bool {
		infos, err := platform.ListProcesses()
		if err != nil {
			return false
		}
		children := 0
		for _, info := range infos {
			if info.ParentProcessID == root {
				children++
			}
		}
		return children == 2
	}, 5*time.Second, 20*time.Millisecond)

	return cmd, root
}

func TestKillTree_RealProcessTree(t *testing.T) {
	cmd, root := startShellTree(t)

	outputs, err := KillTree(root, DefaultConfig())
	require.NoError(t, err)

	killed := outputs.KilledProcessIDs()
	require.Len(t, killed, 3)
	assert.Equal(t, root, killed[len(killed)-1], "the target is killed last")

	waitErr := make(chan error, 1)
	go func() { waitErr <- cmd.Wait() }()
	select {
	case err := <-waitErr:
		assert.Error(t, err, "shell must exit by signal")
	case <-time.After(5 * time.Second):
		t.Fatal("shell still running after kill tree")
	}
}

func TestKillTreeContext_RealProcessTreeExcludingTarget(t *testing.T) {
	_, root := startShellTree(t)

	outputs, err := KillTreeContext(context.Background(), root, Config{IncludeTarget: false, Signal: "KILL"})
	require.NoError(t, err)

	for _, o := range outputs {
		assert.NotEqual(t, root, o.ProcessID)
		assert.Equal(t, root, o.ParentProcessID)
		assert.Equal(t, "sleep", o.Name)
	}
	assert.Len(t, outputs, 2)
}
