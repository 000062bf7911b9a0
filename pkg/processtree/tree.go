// Package processtree indexes a process snapshot by parent and walks it
// breadth-first to find the processes to terminate.
package processtree

import (
	"slices"

	"github.com/core-tools/hsu-killtree/pkg/process"
)

// ProcessInfoMap maps a process id to its snapshot entry.
type ProcessInfoMap map[process.ProcessID]process.ProcessInfo

// ChildProcessIDMap maps a parent id to its child ids, sorted ascending.
type ChildProcessIDMap map[process.ProcessID][]process.ProcessID

// ExcludeFunc reports whether an entry must stay out of the child index.
type ExcludeFunc func(info process.ProcessInfo) bool

// NewChildProcessIDMap groups infos by parent id, skipping entries for which
// exclude returns true, and sorts every child list.
func NewChildProcessIDMap(infos process.ProcessInfos, exclude ExcludeFunc) ChildProcessIDMap {
	m := make(ChildProcessIDMap)
	for _, info := range infos {
		if exclude != nil && exclude(info) {
			continue
		}
		m[info.ParentProcessID] = append(m[info.ParentProcessID], info.ProcessID)
	}
	for _, children := range m {
		slices.Sort(children)
	}
	return m
}

// NewProcessInfoMap indexes the full, unfiltered snapshot by process id.
func NewProcessInfoMap(infos process.ProcessInfos) ProcessInfoMap {
	m := make(ProcessInfoMap, len(infos))
	for _, info := range infos {
		m[info.ProcessID] = info
	}
	return m
}

// Take removes and returns the entry for processID. The second result is
// false if the id is unknown or was already taken.
func (m ProcessInfoMap) Take(processID process.ProcessID) (process.ProcessInfo, bool) {
	info, ok := m[processID]
	if ok {
		delete(m, processID)
	}
	return info, ok
}

// DiscoveryOrder walks children breadth-first from target and returns the ids
// in the order they were visited: every id at depth d precedes every id at
// depth d+1. The target itself is listed only when includeTarget is set; its
// children are visited either way.
func DiscoveryOrder(target process.ProcessID, children ChildProcessIDMap, includeTarget bool) []process.ProcessID {
	var order []process.ProcessID
	visited := map[process.ProcessID]bool{target: true}
	queue := []process.ProcessID{target}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		if id != target || includeTarget {
			order = append(order, id)
		}

		for _, child := range children[id] {
			if visited[child] {
				continue
			}
			visited[child] = true
			queue = append(queue, child)
		}
	}
	return order
}

// KillOrder is the discovery order reversed, so every process comes after
// all of its descendants.
func KillOrder(discovery []process.ProcessID) []process.ProcessID {
	order := slices.Clone(discovery)
	slices.Reverse(order)
	return order
}
