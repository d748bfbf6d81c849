package kernel

import "github.com/mr2447/hw3OS/common"

// SetNice finds the PCB with the given pid, changes its nice value,
// and re-queues it, returning the old value (or ErrNotFound).
//
// The original always calls remove-then-add unconditionally, which
// would insert a SLEEPING or ZOMBIE PCB into a priority queue it has
// no business being in. We resolve that by only re-enqueuing when the
// PCB is RUNNABLE or RUNNING; Dequeue stays unconditional since it is
// already idempotent on an unqueued PCB.
//
// This is also the *only* nice-setting path: the original's sys_nice
// bypasses queue maintenance entirely by writing p->nice directly,
// which breaks strict-priority dispatch under the priority scheduler.
// This rewrite routes every caller — the Nice syscall included —
// through SetNice instead.
func (k *Kernel) SetNice(pid, value int) (int, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for i := range k.procs {
		c := &k.procs[i]
		if c.Pid == pid {
			old := c.Nice
			k.policy.Dequeue(c)
			c.Nice = value
			if c.State == common.Runnable || c.State == common.Running {
				k.policy.Enqueue(c)
			}
			k.syncQueueDepthLocked()
			return old, nil
		}
	}
	return -1, ErrNotFound
}
