package kernel

import (
	"sync"
	"testing"
	"time"

	"github.com/mr2447/hw3OS/common"
	"github.com/stretchr/testify/require"
)

// spinWorkload yields back to the scheduler count times, recording its
// own pid into order on every dispatch, then exits. It models the
// original's tight CPU-bound test processes (test1.c et al.): no
// blocking, just repeated Yield calls so the scheduler's priority and
// rotation rules are the only thing deciding dispatch order.
func spinWorkload(k *Kernel, order *[]int, mu *sync.Mutex, count int) common.Exec {
	return FuncExec(func(p *common.Proc) {
		for i := 0; i < count; i++ {
			mu.Lock()
			*order = append(*order, p.Pid)
			mu.Unlock()
			k.Yield(p)
		}
	})
}

// parkedInit is an init workload that goes to sleep on the tick channel
// and never wakes (these tests never call Tick), so init leaves the run
// queues after its first dispatch and never exits.
func parkedInit(k *Kernel) common.Exec {
	return FuncExec(func(p *common.Proc) {
		k.SysSleep(p, 1000)
		select {}
	})
}

// A high-priority (low nice) process starves a lower priority one as
// long as it stays RUNNABLE.
func TestHighPriorityStarvesLowPriority(t *testing.T) {
	k, cpu := bootTestKernel(t, 4, PolicyPriority)

	var mu sync.Mutex
	var order []int

	init := k.Userinit("init", parkedInit(k))
	_, err := k.Fork(init, spinWorkload(k, &order, &mu, 6))
	require.NoError(t, err)
	hi := &k.procs[1]
	_, err = k.SetNice(hi.Pid, 1)
	require.NoError(t, err)

	done := make(chan struct{})
	defer close(done)
	_, err = k.Fork(init, blockUntil(done))
	require.NoError(t, err)
	lo := &k.procs[2]
	require.NoError(t, err)
	_, err = k.SetNice(lo.Pid, 5)
	require.NoError(t, err)

	cpu(0)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) >= 6
	}, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	for _, pid := range order {
		require.Equal(t, hi.Pid, pid, "only the high-priority process should ever be dispatched while runnable")
	}
}

// Two RUNNABLE processes at the same level alternate turn for turn:
// round-robin within a level.
func TestSameLevelProcessesAlternate(t *testing.T) {
	k, cpu := bootTestKernel(t, 4, PolicyPriority)

	var mu sync.Mutex
	var order []int

	init := k.Userinit("init", parkedInit(k))
	_, err := k.Fork(init, spinWorkload(k, &order, &mu, 4))
	require.NoError(t, err)
	_, err = k.Fork(init, spinWorkload(k, &order, &mu, 4))
	require.NoError(t, err)

	cpu(0)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) >= 8
	}, time.Second, time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, order, 8)
	// Both pids must appear, alternating: neither runs twice in a row
	// once both are RUNNABLE at the same level.
	for i := 2; i < len(order); i++ {
		require.Equal(t, order[i-2], order[i], "same pid should recur every other dispatch")
	}
}

// Round-robin policy dispatch ignores nice entirely: the linear table
// scan dispatches a nice-1 process and a default-nice process alike,
// and both run to completion.
func TestRoundRobinSchedulerIgnoresNice(t *testing.T) {
	k, cpu := bootTestKernel(t, 4, PolicyRoundRobin)

	var mu sync.Mutex
	var order []int

	init := k.Userinit("init", parkedInit(k))
	_, err := k.Fork(init, spinWorkload(k, &order, &mu, 3))
	require.NoError(t, err)
	a := &k.procs[1]
	_, err = k.SetNice(a.Pid, 1)
	require.NoError(t, err)
	_, err = k.Fork(init, spinWorkload(k, &order, &mu, 3))
	require.NoError(t, err)

	cpu(0)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(order) >= 6
	}, time.Second, time.Millisecond)
}
