package kernel

import (
	"runtime"

	"github.com/mr2447/hw3OS/common"
)

// Scheduler is a CPU's main loop: it never returns on its own (the Go
// analogue of the original's `for(;;)`), only when stop is closed.
// Each iteration: acquire the lock, ask the policy to Pick a RUNNABLE
// PCB, mark it RUNNING, release the lock, then hand off to its
// goroutine and block until it reports back.
//
// Unlike the original, the lock is not held across the dispatch
// itself: Go gives no safe way for one goroutine to acquire a
// sync.Mutex and have a different goroutine release it, which is
// exactly what the original's lock-handoff through swtch()/forkret()
// does. Instead, every kernel entry point a running PCB can call
// (Sleep/Yield/Exit/Wait/Kill/Nice) reacquires k.mu itself for its own
// critical section. See DESIGN.md for why this preserves every
// concurrency guarantee despite the narrower lock scope.
func (k *Kernel) Scheduler(cpu int, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		k.mu.Lock()
		p := k.policy.Pick(k.procs)
		if p == nil {
			k.mu.Unlock()
			// No RUNNABLE process: the original halts the CPU
			// pending an interrupt ("an allowed optimization"); we
			// just give the Go scheduler a turn and re-poll.
			runtime.Gosched()
			continue
		}
		p.State = common.Running
		k.Metrics.ObserveDispatch(p.Nice)
		k.mu.Unlock()

		k.setCurrent(cpu, p)
		p.Resume()
		p.WaitYielded()
		k.setCurrent(cpu, nil)

		k.Metrics.ObserveContextSwitch()
	}
}
