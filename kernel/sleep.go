package kernel

import "github.com/mr2447/hw3OS/common"

// parkLocked requires k.mu held. It records the sleep channel, marks p
// SLEEPING, dequeues it (sleepers are never queued for dispatch), then
// releases the lock only for the blocking rendezvous with the
// scheduler, reacquiring it before returning. Callers that need the
// "decide to sleep" and "recorded as sleeping" steps to be atomic with
// respect to a concurrent wakeup must call this without releasing k.mu
// in between (see Wait and SysSleep).
func (k *Kernel) parkLocked(p *common.Proc, ch common.Chan) {
	p.SleepChan = ch
	p.State = common.Sleeping
	k.policy.Dequeue(p)
	k.syncQueueDepthLocked()
	k.mu.Unlock()

	p.Yielded()
	p.WaitResume()

	k.mu.Lock()
	p.SleepChan = nil
}

// wakeup1Locked requires k.mu held. Every SLEEPING PCB whose channel
// matches ch becomes RUNNABLE and is re-enqueued at its current
// priority level's tail.
func (k *Kernel) wakeup1Locked(ch common.Chan) {
	if ch == nil {
		return
	}
	for i := range k.procs {
		c := &k.procs[i]
		if c.State == common.Sleeping && c.SleepChan == ch {
			c.State = common.Runnable
			k.policy.Enqueue(c)
			k.Metrics.ObserveWakeup()
		}
	}
	k.syncQueueDepthLocked()
}

// Wakeup wakes every PCB sleeping on ch.
func (k *Kernel) Wakeup(ch common.Chan) {
	k.mu.Lock()
	k.wakeup1Locked(ch)
	k.mu.Unlock()
}

// Yield gives up the CPU for one scheduling round: the caller stays
// RUNNABLE and, since it was already queued while RUNNING, needs no
// dequeue/enqueue — just the state flip and a round through the
// scheduler.
func (k *Kernel) Yield(p *common.Proc) {
	k.mu.Lock()
	p.State = common.Runnable
	k.mu.Unlock()

	p.Yielded()
	p.WaitResume()
}

// SysSleep blocks the caller for n simulated ticks, waking and
// rechecking Killed on every tick the way sys_sleep loops on the ticks
// channel in the original. Returns -1 if killed before the deadline,
// 0 on a normal wakeup.
func (k *Kernel) SysSleep(p *common.Proc, n int) int {
	k.mu.Lock()
	target := k.ticks + n
	for k.ticks < target {
		if p.Killed.Load() {
			k.mu.Unlock()
			return -1
		}
		k.parkLocked(p, &k.ticksChan)
	}
	k.mu.Unlock()
	return 0
}
