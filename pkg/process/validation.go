package process

import (
	"fmt"

	"github.com/core-tools/hsu-killtree/pkg/errors"
)

// Limits describes which process ids a platform accepts as kill targets.
type Limits struct {
	// MaxProcessID is the largest id the platform hands out.
	MaxProcessID ProcessID
	// Protected maps OS-reserved ids to the reason they may not be killed.
	Protected map[ProcessID]string
}

// ValidateProcessID rejects ids that are protected by the OS or exceed the
// platform maximum. It has no side effects.
func ValidateProcessID(processID ProcessID, limits Limits) error {
	if reason, ok := limits.Protected[processID]; ok {
		return errors.NewInvalidProcessIDError(
			fmt.Sprintf("%s. process id: %d", reason, processID), nil,
		).WithContext("process_id", processID)
	}
	if processID > limits.MaxProcessID {
		return errors.NewInvalidProcessIDError(
			fmt.Sprintf("Process id is too large. process id: %d, available max process id: %d",
				processID, limits.MaxProcessID), nil,
		).WithContext("process_id", processID).WithContext("available_max_process_id", limits.MaxProcessID)
	}
	return nil
}
