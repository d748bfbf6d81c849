package kernel

import "github.com/mr2447/hw3OS/common"

// Policy is the boot-time-selected scheduling discipline: a
// type-parameterized scheduler in place of the original's
// PRIORITY_SCHEDULER preprocessor switch. All four methods are called
// with the kernel's table lock already held; implementations must not
// acquire any lock of their own.
type Policy interface {
	// Enqueue adds a RUNNABLE/RUNNING PCB to whatever structure the
	// policy tracks. No-op for round-robin.
	Enqueue(p *common.Proc)
	// Dequeue removes a PCB. Idempotent: a no-op if the PCB isn't
	// currently tracked. No-op for round-robin.
	Dequeue(p *common.Proc)
	// Pick scans procs for the next RUNNABLE PCB to dispatch and
	// performs whatever rotation the policy's fairness rule requires.
	// Returns nil if nothing is RUNNABLE.
	Pick(procs []common.Proc) *common.Proc
	// QueueDepth reports, for metrics, how many PCBs are queued at
	// each priority level. Round-robin reports an empty map.
	QueueDepth() map[int]int
}

// priorityPolicy implements strict-priority, round-robin-within-level
// scheduling using one circular doubly-linked list per priority level,
// exactly as the original's priority_head[] does.
type priorityPolicy struct {
	heads [common.MaxPriority + 1]*common.Proc // index 1..MaxPriority used
}

func newPriorityPolicy() *priorityPolicy {
	return &priorityPolicy{}
}

// Enqueue splices p in at the tail of its nice level's circular list —
// "immediately before the head in list order" — so the existing head
// stays next-to-run and p is the last to be reached by rotation.
func (pp *priorityPolicy) Enqueue(p *common.Proc) {
	k := p.Nice
	head := pp.heads[k]
	if head == nil {
		p.Next, p.Prev = p, p
		pp.heads[k] = p
		return
	}
	p.Next = head
	p.Prev = head.Prev
	head.Prev.Next = p
	head.Prev = p
}

// Dequeue is idempotent: a PCB with nil Prev/Next is already removed.
func (pp *priorityPolicy) Dequeue(p *common.Proc) {
	if p.Prev == nil && p.Next == nil {
		return
	}
	k := p.Nice
	head := pp.heads[k]
	if p.Next == p {
		pp.heads[k] = nil
	} else {
		p.Prev.Next = p.Next
		p.Next.Prev = p.Prev
		if p == head {
			pp.heads[k] = p.Next
		}
	}
	p.Prev, p.Next = nil, nil
}

// Pick walks levels 1..MaxPriority in strict priority order. Within a
// level it walks the circular list from the head looking for a
// RUNNABLE member (another CPU may have the head itself RUNNING).
// Dispatching rotates the head to the dispatched PCB's successor —
// the "priority_head[k] <- p.next, done *before* dispatch" sequence
// is load-bearing for fairness: change either this rotation or the
// tail-insert rule in Enqueue and round-robin-within-a-level breaks.
func (pp *priorityPolicy) Pick(_ []common.Proc) *common.Proc {
	for k := 1; k <= common.MaxPriority; k++ {
		head := pp.heads[k]
		if head == nil {
			continue
		}
		p := head
		for {
			if p.State == common.Runnable {
				pp.heads[k] = p.Next
				return p
			}
			p = p.Next
			if p == head {
				break
			}
		}
	}
	return nil
}

func (pp *priorityPolicy) QueueDepth() map[int]int {
	depths := make(map[int]int, common.MaxPriority)
	for k := 1; k <= common.MaxPriority; k++ {
		head := pp.heads[k]
		if head == nil {
			depths[k] = 0
			continue
		}
		n := 1
		for p := head.Next; p != head; p = p.Next {
			n++
		}
		depths[k] = n
	}
	return depths
}

// roundRobinPolicy implements the compile-time-switch fallback: the
// priority index is entirely absent, and the scheduler linearly scans
// the whole table.
type roundRobinPolicy struct{}

func newRoundRobinPolicy() *roundRobinPolicy { return &roundRobinPolicy{} }

func (roundRobinPolicy) Enqueue(*common.Proc) {}
func (roundRobinPolicy) Dequeue(*common.Proc) {}

func (roundRobinPolicy) Pick(procs []common.Proc) *common.Proc {
	for i := range procs {
		if procs[i].State == common.Runnable {
			return &procs[i]
		}
	}
	return nil
}

func (roundRobinPolicy) QueueDepth() map[int]int { return nil }

func newPolicy(kind PolicyKind) Policy {
	if kind == PolicyRoundRobin {
		return newRoundRobinPolicy()
	}
	return newPriorityPolicy()
}
