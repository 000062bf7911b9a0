package killtree

import (
	"encoding/json"
	"fmt"

	"github.com/core-tools/hsu-killtree/pkg/process"
)

// Output reports one processed id. For process.Killed the parent id and name
// come from the snapshot; for process.MaybeAlreadyTerminated only ProcessID
// and Source are set.
type Output struct {
	Result          process.KillResult
	ProcessID       process.ProcessID
	ParentProcessID process.ProcessID
	Name            string
	Source          error
}

// Outputs lists outputs in the order termination was attempted, children
// before parents.
type Outputs []Output

func (o Output) String() string {
	switch o.Result {
	case process.Killed:
		return fmt.Sprintf("Killed process. process id: %d, parent process id: %d, name: %s",
			o.ProcessID, o.ParentProcessID, o.Name)
	case process.MaybeAlreadyTerminated:
		return fmt.Sprintf("Maybe already terminated process. process id: %d, source: %v",
			o.ProcessID, o.Source)
	default:
		return fmt.Sprintf("Unknown result %s. process id: %d", o.Result, o.ProcessID)
	}
}

type outputJSON struct {
	Type            string `json:"type"`
	ProcessID       uint32 `json:"process_id"`
	ParentProcessID uint32 `json:"parent_process_id,omitempty"`
	Name            string `json:"name,omitempty"`
	Source          string `json:"source,omitempty"`
}

func (o Output) MarshalJSON() ([]byte, error) {
	v := outputJSON{
		Type:      o.Result.String(),
		ProcessID: uint32(o.ProcessID),
	}
	if o.Result == process.Killed {
		v.ParentProcessID = uint32(o.ParentProcessID)
		v.Name = o.Name
	}
	if o.Source != nil {
		v.Source = o.Source.Error()
	}
	return json.Marshal(v)
}

// KilledProcessIDs returns the ids reported as process.Killed, in order.
func (outs Outputs) KilledProcessIDs() []process.ProcessID {
	var ids []process.ProcessID
	for _, o := range outs {
		if o.Result == process.Killed {
			ids = append(ids, o.ProcessID)
		}
	}
	return ids
}
