package killtree

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/core-tools/hsu-killtree/pkg/logging"
	"github.com/core-tools/hsu-killtree/pkg/process"
	"github.com/core-tools/hsu-killtree/pkg/processtree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDriver(term process.Terminator) *driver {
	return &driver{
		terminator: term,
		infos:      processtree.NewProcessInfoMap(sampleSnapshot()),
		logger:     logging.NewNopLogger(),
	}
}

func TestDriver_DuplicateIDReportedOnce(t *testing.T) {
	term := &MockTerminator{}
	term.On("Kill", process.ProcessID(3)).Return(process.NewKilledOutput(3), nil).Twice()

	outputs, err := newTestDriver(term).execute(context.Background(), []process.ProcessID{3, 3})

	require.NoError(t, err)
	assert.Equal(t, Outputs{{Result: process.Killed, ProcessID: 3, ParentProcessID: 2, Name: "b"}}, outputs)
	term.AssertNumberOfCalls(t, "Kill", 2)
}

func TestDriver_MaybeAlreadyTerminatedPassesThroughWithoutSnapshotEntry(t *testing.T) {
	gone := stderrors.New("gone")
	term := &MockTerminator{}
	term.On("Kill", process.ProcessID(900)).Return(process.NewMaybeAlreadyTerminatedOutput(900, gone), nil)
	term.On("Kill", process.ProcessID(901)).Return(process.NewKilledOutput(901), nil)

	outputs, err := newTestDriver(term).execute(context.Background(), []process.ProcessID{900, 901})

	require.NoError(t, err)
	assert.Equal(t, Outputs{{Result: process.MaybeAlreadyTerminated, ProcessID: 900, Source: gone}}, outputs)
}

func TestDriver_EmptyKillOrder(t *testing.T) {
	outputs, err := newTestDriver(&MockTerminator{}).execute(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, outputs)
}
