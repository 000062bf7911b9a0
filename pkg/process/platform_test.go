package process

import (
	"context"
	"fmt"
	"testing"

	"github.com/core-tools/hsu-killtree/pkg/errors"
	"github.com/core-tools/hsu-killtree/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeLookup(table map[ProcessID]ProcessInfo) lookupFunc {
	return func(processID ProcessID) (ProcessInfo, error) {
		info, ok := table[processID]
		if !ok {
			return ProcessInfo{}, fmt.Errorf("process %d vanished", processID)
		}
		return info, nil
	}
}

func TestCollectProcessInfos_DropsFailedLookups(t *testing.T) {
	table := map[ProcessID]ProcessInfo{
		1: {ProcessID: 1, ParentProcessID: 0, Name: "init"},
		2: {ProcessID: 2, ParentProcessID: 1, Name: "a"},
		4: {ProcessID: 4, ParentProcessID: 1, Name: "c"},
	}
	ids := []ProcessID{1, 2, 3, 4}
	expected := ProcessInfos{table[1], table[2], table[4]}

	for _, concurrent := range []bool{false, true} {
		t.Run(fmt.Sprintf("concurrent=%v", concurrent), func(t *testing.T) {
			infos, err := collectProcessInfos(context.Background(), ids, fakeLookup(table), concurrent, logging.NewNopLogger())
			require.NoError(t, err)
			assert.Equal(t, expected, infos)
		})
	}
}

func TestCollectProcessInfos_ConcurrentManyIDs(t *testing.T) {
	table := make(map[ProcessID]ProcessInfo)
	var ids []ProcessID
	for i := ProcessID(1); i <= 500; i++ {
		ids = append(ids, i)
		if i%7 != 0 {
			table[i] = ProcessInfo{ProcessID: i, ParentProcessID: i / 2, Name: "p"}
		}
	}

	seq, err := collectProcessInfos(context.Background(), ids, fakeLookup(table), false, logging.NewNopLogger())
	require.NoError(t, err)
	conc, err := collectProcessInfos(context.Background(), ids, fakeLookup(table), true, logging.NewNopLogger())
	require.NoError(t, err)

	assert.Equal(t, seq, conc)
	assert.Len(t, conc, len(table))
}

func TestCollectProcessInfos_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := collectProcessInfos(ctx, []ProcessID{1, 2}, fakeLookup(nil), true, logging.NewNopLogger())
	require.Error(t, err)
	assert.True(t, errors.IsCancelledError(err))
}
