package kernel

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/mr2447/hw3OS/common"
)

// procSnapshot is the human-facing view of a PCB procdump prints: just
// the fields the original's procdump prints (pid, state, name, nice),
// never the rendezvous channels or the raw table slot.
type procSnapshot struct {
	Pid   int
	State string
	Name  string
	Nice  int
}

var dumpConfig = &spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Dump renders every non-UNUSED PCB, mirroring the original's
// procdump: a debug listing a human reads, built on go-spew's
// struct-dumping instead of hand-rolled field-by-field Printf calls.
func (k *Kernel) Dump() string {
	k.mu.Lock()
	snaps := make([]procSnapshot, 0, len(k.procs))
	for i := range k.procs {
		p := &k.procs[i]
		if p.State == common.Unused {
			continue
		}
		snaps = append(snaps, procSnapshot{
			Pid:   p.Pid,
			State: p.State.String(),
			Name:  p.Name,
			Nice:  p.Nice,
		})
	}
	k.mu.Unlock()

	return dumpConfig.Sdump(snaps)
}
