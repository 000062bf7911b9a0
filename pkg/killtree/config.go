package killtree

import "github.com/core-tools/hsu-killtree/pkg/process"

// Config holds the per-invocation options. It is read-only once passed in.
type Config struct {
	// IncludeTarget controls whether the target process itself is killed and
	// reported. Its descendants are killed either way.
	IncludeTarget bool
	// Signal is the POSIX signal to send, e.g. "SIGTERM" or "KILL". Empty
	// means SIGTERM. Ignored on Windows.
	Signal string
}

// DefaultConfig kills the target and its descendants with SIGTERM.
func DefaultConfig() Config {
	return Config{
		IncludeTarget: true,
	}
}

func (c Config) terminateOptions() process.TerminateOptions {
	return process.TerminateOptions{Signal: c.Signal}
}
