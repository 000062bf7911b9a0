package process

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/core-tools/hsu-killtree/pkg/errors"
)

// ParseProcessID parses a decimal process id.
func ParseProcessID(s string) (ProcessID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.NewValidationError("process id cannot be empty", nil)
	}
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errors.NewValidationError("invalid process id format: "+s, err)
	}
	return ProcessID(id), nil
}

// ReadPIDFile reads a process id from a PID file. Only the first line counts.
func ReadPIDFile(path string) (ProcessID, error) {
	if path == "" {
		return 0, errors.NewValidationError("PID file path cannot be empty", nil)
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return 0, errors.NewIOError("failed to read PID file", err).WithContext("path", path)
	}

	first, _, _ := strings.Cut(string(data), "\n")
	id, err := ParseProcessID(first)
	if err != nil {
		return 0, errors.NewValidationError("invalid PID file content", err).WithContext("path", path)
	}
	return id, nil
}
