//go:build unix

package process

import "runtime"

const (
	// Linux pid_max cannot exceed 2^22 (PID_MAX_LIMIT on 64-bit kernels).
	linuxMaxProcessID ProcessID = 0x0040_0000 - 1
	// macOS hands out ids below 99999 (PID_MAX in bsd/sys/proc_internal.h).
	bsdMaxProcessID ProcessID = 99999 - 1
)

func unixMaxProcessID(goos string) ProcessID {
	if goos == "linux" {
		return linuxMaxProcessID
	}
	return bsdMaxProcessID
}

func unixProtected() map[ProcessID]string {
	return map[ProcessID]string{
		0: "Not allowed to kill kernel process",
		1: "Not allowed to kill init process",
	}
}

func (p *NativePlatform) Limits() Limits {
	return Limits{
		MaxProcessID: unixMaxProcessID(runtime.GOOS),
		Protected:    unixProtected(),
	}
}
