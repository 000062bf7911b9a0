package killtree

import (
	"context"

	"github.com/core-tools/hsu-killtree/pkg/process"

	"github.com/stretchr/testify/mock"
)

// MockTerminator records kill calls in order.
type MockTerminator struct {
	mock.Mock
	order []process.ProcessID
}

func (m *MockTerminator) Kill(processID process.ProcessID) (process.KillOutput, error) {
	m.order = append(m.order, processID)
	args := m.Called(processID)
	return args.Get(0).(process.KillOutput), args.Error(1)
}

// MockPlatform serves a fixed snapshot.
type MockPlatform struct {
	mock.Mock
	limits     process.Limits
	snapshot   process.ProcessInfos
	terminator process.Terminator
}

func newMockPlatform(snapshot process.ProcessInfos, terminator process.Terminator) *MockPlatform {
	return &MockPlatform{
		limits: process.Limits{
			MaxProcessID: 99998,
			Protected:    map[process.ProcessID]string{0: "Not allowed to kill kernel process"},
		},
		snapshot:   snapshot,
		terminator: terminator,
	}
}

func (m *MockPlatform) Limits() process.Limits {
	return m.limits
}

func (m *MockPlatform) ExcludeFromChildMap(info process.ProcessInfo) bool {
	return process.IsSelfParented(info)
}

func (m *MockPlatform) ListProcesses() (process.ProcessInfos, error) {
	args := m.Called()
	return m.snapshot, args.Error(0)
}

func (m *MockPlatform) ListProcessesContext(ctx context.Context) (process.ProcessInfos, error) {
	args := m.Called(ctx)
	return m.snapshot, args.Error(0)
}

func (m *MockPlatform) NewTerminator(options process.TerminateOptions) (process.Terminator, error) {
	args := m.Called(options)
	return m.terminator, args.Error(0)
}
