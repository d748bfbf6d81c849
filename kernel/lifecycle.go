package kernel

import "github.com/mr2447/hw3OS/common"

// Fork duplicates parent: allocate a slot under the lock, then (outside
// it) run the caller's Preparer hook to simulate page-directory/
// file-table duplication, then reacquire the lock to mark the child
// RUNNABLE and enqueue it. nice is inherited from the parent at the
// moment of fork; name is copied, matching the original's safestrcpy.
func (k *Kernel) Fork(parent *common.Proc, exec common.Exec) (int, error) {
	child, err := k.allocproc()
	if err != nil {
		return -1, err
	}

	if prep, ok := exec.(common.Preparer); ok {
		if perr := prep.Prepare(); perr != nil {
			k.mu.Lock()
			child.Reset()
			k.mu.Unlock()
			return -1, ErrPrepareFailed
		}
	}

	child.Name = parent.Name
	child.Parent = parent
	child.Exec = exec

	go k.runProc(child, exec)

	k.mu.Lock()
	child.Nice = parent.Nice
	child.State = common.Runnable
	k.policy.Enqueue(child)
	k.syncQueueDepthLocked()
	k.mu.Unlock()

	return child.Pid, nil
}

// Exit transitions the caller to ZOMBIE and never returns to it: the
// PCB's goroutine ends here. Exiting the init process is a fatal
// programming error, matching the original's panic("init exiting").
func (k *Kernel) Exit(p *common.Proc) {
	if p == k.initProc {
		panic("kernel: init exiting")
	}

	k.mu.Lock()
	k.wakeup1Locked(p.Parent)

	for i := range k.procs {
		c := &k.procs[i]
		if c.Parent == p {
			c.Parent = k.initProc
			if c.State == common.Zombie {
				k.wakeup1Locked(k.initProc)
			}
		}
	}

	k.policy.Dequeue(p)
	p.State = common.Zombie
	k.syncQueueDepthLocked()
	k.mu.Unlock()

	// Tell the scheduler we've stopped running for good; no WaitResume
	// follows because this PCB's goroutine is now finished.
	p.Yielded()
}

// reapLocked performs the ZOMBIE -> UNUSED transition (requires k.mu
// held): release owned resources exactly once and clear identifying
// fields so the slot can be reused by a later allocproc.
func (k *Kernel) reapLocked(c *common.Proc) {
	c.Reset()
	k.Metrics.ObserveReap()
}

// Wait blocks until a child of p exits, reaps it, and returns its pid.
// Returns (-1, false) if p has no children or has been killed. The
// havekids scan and the commitment to sleep happen inside one
// continuous lock hold (parkLocked releases only to block) so a
// concurrent Exit's wakeup can never land in the gap between "decide
// to sleep" and "recorded as sleeping" — the protocol that guarantees
// no wakeup is ever missed.
func (k *Kernel) Wait(p *common.Proc) (int, bool) {
	k.mu.Lock()
	for {
		havekids := false
		for i := range k.procs {
			c := &k.procs[i]
			if c.Parent != p {
				continue
			}
			havekids = true
			if c.State == common.Zombie {
				pid := c.Pid
				k.reapLocked(c)
				k.mu.Unlock()
				return pid, true
			}
		}
		if !havekids || p.Killed.Load() {
			k.mu.Unlock()
			return -1, false
		}
		// Sleep on the caller's own PCB identity — exit() wakes
		// exactly this channel via wakeup1Locked(p.Parent).
		k.parkLocked(p, p)
	}
}

// Kill sets the killed flag and, if the target is SLEEPING, promotes
// it to RUNNABLE so it can observe the flag and unwind. Termination
// itself is deferred to the next kernel-to-user-mode return, enforced
// by the (out of scope) trap layer; here that contract is upheld by
// every blocking kernel entry point (Sleep/Wait) rechecking Killed.
func (k *Kernel) Kill(pid int) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	for i := range k.procs {
		c := &k.procs[i]
		if c.Pid == pid {
			c.Killed.Store(true)
			if c.State == common.Sleeping {
				c.State = common.Runnable
				k.policy.Enqueue(c)
				k.syncQueueDepthLocked()
			}
			return true
		}
	}
	return false
}

// Growproc grows or shrinks the caller's simulated heap by n bytes,
// returning the old break or an error if the new size would be
// negative or exceed the configured MaxHeap. It never touches
// scheduler state.
func (k *Kernel) Growproc(p *common.Proc, n int) (int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	old := p.Brk
	next := old + n
	if next < 0 || next > k.cfg.MaxHeap {
		return -1, ErrOutOfMemory
	}
	p.Brk = next
	return old, nil
}
