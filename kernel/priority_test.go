package kernel

import (
	"testing"

	"github.com/mr2447/hw3OS/common"
	"github.com/stretchr/testify/require"
)

func newTestProc(pid, nice int, state common.State) *common.Proc {
	p := &common.Proc{Pid: pid, Nice: nice, State: state}
	return p
}

// assertCircular checks that a non-empty queue is a valid circular
// doubly-linked list: traversal from the head returns to the head.
func assertCircular(t *testing.T, head *common.Proc) {
	t.Helper()
	if head == nil {
		return
	}
	p := head
	for {
		require.Same(t, p, p.Next.Prev, "p.next.prev must equal p")
		require.Same(t, p, p.Prev.Next, "p.prev.next must equal p")
		p = p.Next
		if p == head {
			break
		}
	}
}

func TestPriorityEnqueueTailInsertion(t *testing.T) {
	pp := newPriorityPolicy()
	a := newTestProc(1, 3, common.Runnable)
	b := newTestProc(2, 3, common.Runnable)
	c := newTestProc(3, 3, common.Runnable)

	pp.Enqueue(a)
	require.Same(t, a, pp.heads[3])
	assertCircular(t, pp.heads[3])

	pp.Enqueue(b)
	require.Same(t, a, pp.heads[3], "head must not move on enqueue")
	require.Same(t, b, a.Prev, "b is the new tail")
	assertCircular(t, pp.heads[3])

	pp.Enqueue(c)
	require.Same(t, a, pp.heads[3])
	require.Same(t, c, a.Prev)
	require.Same(t, b, c.Prev)
	assertCircular(t, pp.heads[3])
}

// N processes RUNNABLE at the same level cycle with period N across
// successive dispatches at that level.
func TestPriorityPickRotatesRoundRobin(t *testing.T) {
	pp := newPriorityPolicy()
	procs := []*common.Proc{
		newTestProc(1, 3, common.Runnable),
		newTestProc(2, 3, common.Runnable),
		newTestProc(3, 3, common.Runnable),
	}
	for _, p := range procs {
		pp.Enqueue(p)
	}

	var order []int
	for i := 0; i < 12; i++ {
		p := pp.Pick(nil)
		require.NotNil(t, p)
		order = append(order, p.Pid)
		// simulate the dispatched process immediately becoming
		// RUNNABLE again (a tight CPU loop yielding every round)
		p.State = common.Runnable
	}
	require.Equal(t, []int{1, 2, 3, 1, 2, 3, 1, 2, 3, 1, 2, 3}, order)
}

// Strict priority — a RUNNABLE process at a higher (numerically lower)
// level is always picked before any lower-priority one.
func TestPriorityPickStrictPriority(t *testing.T) {
	pp := newPriorityPolicy()
	hi := newTestProc(1, 1, common.Runnable)
	lo := newTestProc(2, 5, common.Runnable)
	pp.Enqueue(hi)
	pp.Enqueue(lo)

	for i := 0; i < 5; i++ {
		p := pp.Pick(nil)
		require.Equal(t, 1, p.Pid, "level 1 must always win over level 5")
		p.State = common.Runnable
	}
}

// Dequeue is idempotent on an already-removed PCB.
func TestPriorityDequeueIdempotent(t *testing.T) {
	pp := newPriorityPolicy()
	a := newTestProc(1, 2, common.Runnable)
	pp.Enqueue(a)
	pp.Dequeue(a)
	require.Nil(t, a.Prev)
	require.Nil(t, a.Next)
	require.Nil(t, pp.heads[2])

	// second dequeue is a no-op, not a panic
	require.NotPanics(t, func() { pp.Dequeue(a) })
}

// dequeue(p); enqueue(p) round-trips to the same logical queue.
func TestDequeueThenEnqueueRoundTrips(t *testing.T) {
	pp := newPriorityPolicy()
	a := newTestProc(1, 4, common.Runnable)
	b := newTestProc(2, 4, common.Runnable)
	pp.Enqueue(a)
	pp.Enqueue(b)

	pp.Dequeue(a)
	pp.Enqueue(a)

	var pids []int
	p := pp.heads[4]
	start := p
	for {
		pids = append(pids, p.Pid)
		p = p.Next
		if p == start {
			break
		}
	}
	require.ElementsMatch(t, []int{1, 2}, pids)
}

func TestPriorityDequeueSoleMember(t *testing.T) {
	pp := newPriorityPolicy()
	a := newTestProc(1, 5, common.Runnable)
	pp.Enqueue(a)
	pp.Dequeue(a)
	require.Nil(t, pp.heads[5])
}

func TestRoundRobinPolicyIgnoresNice(t *testing.T) {
	rr := newRoundRobinPolicy()
	procs := []common.Proc{
		{Pid: 1, Nice: 5, State: common.Unused},
		{Pid: 2, Nice: 1, State: common.Runnable},
		{Pid: 3, Nice: 5, State: common.Runnable},
	}
	p := rr.Pick(procs)
	require.Equal(t, 2, p.Pid, "round robin picks the first RUNNABLE slot regardless of nice")
	require.Nil(t, rr.QueueDepth())
}
