// Package kernel implements the multi-level priority process scheduler
// and the process lifecycle (fork/exit/wait/kill/sleep/wakeup/nice)
// layer described by the spec this module implements. It is the Go
// translation of the original's ptable + scheduler() + proc.c, with
// the hardware context switch replaced by a cooperative goroutine
// rendezvous (see common.Proc's Resume/Yielded channels) since Go
// cannot hand-roll a stack switch the way the original's swtch()
// assembly does.
package kernel

import (
	"fmt"
	"sync"

	"github.com/mr2447/hw3OS/common"
	"github.com/mr2447/hw3OS/internal/metrics"
)

// Kernel owns the process table, the priority index, and every piece
// of state that must be serialized by a single global lock: all reads
// and writes to process state, nice, queue links, and priority_head go
// through k.mu. There is exactly one Kernel per booted system; CPUs
// are goroutines running Kernel.Scheduler.
type Kernel struct {
	mu sync.Mutex

	procs     []common.Proc
	policy    Policy
	nextPid   int
	ticks     int
	ticksChan int // address-equivalent identity for the ticks sleep channel

	initProc *common.Proc
	current  []*common.Proc // per-CPU "current process", indexed by cpu id

	cfg     Config
	Metrics *metrics.Collector
}

// NewKernel builds an un-booted Kernel: a process table of cfg.NPROC
// UNUSED slots and a policy per cfg.Policy. Call Userinit to create
// the first process; Scheduler goroutines started before that idle
// until a process is RUNNABLE.
func NewKernel(cfg Config) *Kernel {
	cfg = cfg.withDefaults()
	k := &Kernel{
		procs:   make([]common.Proc, cfg.NPROC),
		policy:  newPolicy(cfg.Policy),
		cfg:     cfg,
		Metrics: metrics.NewCollector(),
	}
	for i := range k.procs {
		k.procs[i].SetSlot(i)
		k.procs[i].Reset()
	}
	return k
}

// logf writes a console line, mirroring the original kernel's
// fmt.Printf-based console logging (biscuit has no structured logger;
// neither does this rewrite — see DESIGN.md).
func (k *Kernel) logf(format string, args ...any) {
	fmt.Fprintf(k.cfg.Console, format, args...)
}

// syncQueueDepthLocked requires k.mu held. It pushes the policy's
// current per-level queue depth into the metrics gauge; called after
// every enqueue/dequeue so queue_depth never drifts from reality.
func (k *Kernel) syncQueueDepthLocked() {
	for nice, depth := range k.policy.QueueDepth() {
		k.Metrics.SetQueueDepth(nice, depth)
	}
}

// allocproc scans for the first UNUSED slot, holding the lock only
// briefly, then releases before any heavier setup.
func (k *Kernel) allocproc() (*common.Proc, error) {
	k.mu.Lock()
	var p *common.Proc
	for i := range k.procs {
		if k.procs[i].State == common.Unused {
			p = &k.procs[i]
			break
		}
	}
	if p == nil {
		k.mu.Unlock()
		return nil, ErrTableFull
	}
	p.State = common.Embryo
	k.nextPid++
	p.Pid = k.nextPid
	p.Nice = common.DefaultNice
	k.mu.Unlock()
	return p, nil
}

// Userinit creates the first process (pid 1), the kernel's initproc.
// Exiting it is a fatal programming error (see Exit).
func (k *Kernel) Userinit(name string, exec common.Exec) *common.Proc {
	p, err := k.allocproc()
	if err != nil {
		panic("userinit: out of process slots")
	}
	p.Name = name
	p.Exec = exec

	go k.runProc(p, exec)

	k.mu.Lock()
	k.initProc = p
	p.State = common.Runnable
	k.policy.Enqueue(p)
	k.syncQueueDepthLocked()
	k.mu.Unlock()
	k.logf("kernel: userinit pid=%d name=%s\n", p.Pid, p.Name)
	return p
}

// runProc is the body of every PCB's goroutine: it blocks until the
// scheduler's first dispatch (the Go analogue of forkret/trapret),
// runs the supplied workload, and then exits the process when the
// workload returns control for the last time.
func (k *Kernel) runProc(p *common.Proc, exec common.Exec) {
	p.WaitResume()
	exec.Run(p)
	k.Exit(p)
}

// setCurrent records what a given CPU is presently running, growing
// the per-CPU slice lazily as new CPU ids are seen.
func (k *Kernel) setCurrent(cpu int, p *common.Proc) {
	k.mu.Lock()
	for len(k.current) <= cpu {
		k.current = append(k.current, nil)
	}
	k.current[cpu] = p
	k.mu.Unlock()
}

// Current returns the process a given CPU is presently running, or
// nil if that CPU is idle.
func (k *Kernel) Current(cpu int) *common.Proc {
	k.mu.Lock()
	defer k.mu.Unlock()
	if cpu < 0 || cpu >= len(k.current) {
		return nil
	}
	return k.current[cpu]
}

// Ticks returns the number of simulated timer ticks since boot.
func (k *Kernel) Ticks() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.ticks
}

// Tick advances the simulated timer by one and wakes anyone sleeping
// on it, standing in for the out-of-scope timer-interrupt handler.
func (k *Kernel) Tick() {
	k.mu.Lock()
	k.ticks++
	k.wakeup1Locked(&k.ticksChan)
	k.mu.Unlock()
}
