package killtree

import (
	"context"

	"github.com/core-tools/hsu-killtree/pkg/errors"
	"github.com/core-tools/hsu-killtree/pkg/logging"
	"github.com/core-tools/hsu-killtree/pkg/process"
	"github.com/core-tools/hsu-killtree/pkg/processtree"
)

// driver terminates ids in the given order and turns kill outputs into
// Outputs. It is owned by a single invocation.
type driver struct {
	terminator process.Terminator
	infos      processtree.ProcessInfoMap
	logger     logging.Logger
}

// execute stops at the first hard failure or when ctx is done.
func (d *driver) execute(ctx context.Context, killOrder []process.ProcessID) (Outputs, error) {
	outputs := make(Outputs, 0, len(killOrder))
	for _, processID := range killOrder {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewCancelledError("kill tree cancelled", err).
				WithContext("process_id", processID).
				WithContext("outputs_before_cancel", len(outputs))
		}

		killOutput, err := d.terminator.Kill(processID)
		if err != nil {
			d.logger.Errorf("Failed to kill process id: %d, error: %v", processID, err)
			if errors.IsTerminationError(err) {
				return nil, err
			}
			return nil, errors.NewTerminationError("failed to terminate process", err).WithContext("process_id", processID)
		}

		if output, ok := d.toOutput(killOutput); ok {
			outputs = append(outputs, output)
		}
	}
	return outputs, nil
}

// toOutput enriches a Killed result from the snapshot, consuming the entry so
// the same id is never reported as killed twice. Ids missing from the
// snapshot are dropped.
func (d *driver) toOutput(killOutput process.KillOutput) (Output, bool) {
	switch killOutput.Result {
	case process.Killed:
		info, ok := d.infos.Take(killOutput.ProcessID)
		if !ok {
			d.logger.Debugf("Process info not found, process id: %d", killOutput.ProcessID)
			return Output{}, false
		}
		return Output{
			Result:          process.Killed,
			ProcessID:       info.ProcessID,
			ParentProcessID: info.ParentProcessID,
			Name:            info.Name,
		}, true
	case process.MaybeAlreadyTerminated:
		d.logger.Debugf("Process maybe already terminated, process id: %d, source: %v", killOutput.ProcessID, killOutput.Source)
		return Output{
			Result:    process.MaybeAlreadyTerminated,
			ProcessID: killOutput.ProcessID,
			Source:    killOutput.Source,
		}, true
	default:
		d.logger.Warnf("Unknown kill result %s, process id: %d", killOutput.Result, killOutput.ProcessID)
		return Output{}, false
	}
}
