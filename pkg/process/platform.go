package process

import (
	"context"

	"github.com/core-tools/hsu-killtree/pkg/errors"
	"github.com/core-tools/hsu-killtree/pkg/logging"

	"golang.org/x/sync/errgroup"
)

// NativePlatform is the Platform of the OS the binary was built for. The
// per-OS halves live in platform_<os>.go.
type NativePlatform struct {
	logger logging.Logger
}

var _ Platform = (*NativePlatform)(nil)

// NewNativePlatform returns the platform adapter selected at build time.
func NewNativePlatform(logger logging.Logger) *NativePlatform {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &NativePlatform{logger: logger}
}

// ExcludeFromChildMap drops self-parented entries on every platform.
func (p *NativePlatform) ExcludeFromChildMap(info ProcessInfo) bool {
	return IsSelfParented(info)
}

// lookupFunc resolves the metadata of one process. An error means the
// process is dropped from the snapshot, not that enumeration failed.
type lookupFunc func(processID ProcessID) (ProcessInfo, error)

// collectProcessInfos runs lookup for every id, either sequentially or one
// goroutine per id. Each lookup writes only its own slot; slots are merged in
// id-list order once all lookups are done.
func collectProcessInfos(ctx context.Context, processIDs []ProcessID, lookup lookupFunc, concurrent bool, logger logging.Logger) (ProcessInfos, error) {
	slots := make([]*ProcessInfo, len(processIDs))

	if !concurrent {
		for i, processID := range processIDs {
			info, err := lookup(processID)
			if err != nil {
				logger.Debugf("Dropping process from snapshot, process id: %d, error: %v", processID, err)
				continue
			}
			slots[i] = &info
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for i, processID := range processIDs {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				info, err := lookup(processID)
				if err != nil {
					logger.Debugf("Dropping process from snapshot, process id: %d, error: %v", processID, err)
					return nil
				}
				slots[i] = &info
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, errors.NewCancelledError("process enumeration cancelled", err)
		}
		if err := ctx.Err(); err != nil {
			return nil, errors.NewCancelledError("process enumeration cancelled", err)
		}
	}

	infos := make(ProcessInfos, 0, len(processIDs))
	for _, slot := range slots {
		if slot != nil {
			infos = append(infos, *slot)
		}
	}
	return infos, nil
}
