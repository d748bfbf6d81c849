package kernel

import (
	"testing"
	"time"

	"github.com/mr2447/hw3OS/common"
	"github.com/stretchr/testify/require"
)

// SetNice returns the previous value, and a RUNNABLE process
// re-appears in its new level's queue.
func TestSetNiceReturnsOldValueAndRequeues(t *testing.T) {
	k := NewKernel(Config{NPROC: 4, Policy: PolicyPriority})
	done := make(chan struct{})
	defer close(done)
	p := k.Userinit("init", blockUntil(done))

	old, err := k.SetNice(p.Pid, 1)
	require.NoError(t, err)
	require.Equal(t, common.DefaultNice, old)
	require.Equal(t, 1, p.Nice)

	pp := k.policy.(*priorityPolicy)
	require.Same(t, p, pp.heads[1], "process must be re-queued at its new level")
	require.Nil(t, pp.heads[common.DefaultNice], "old level's queue must be empty")

	old, err = k.SetNice(p.Pid, 4)
	require.NoError(t, err)
	require.Equal(t, 1, old)
}

func TestSetNiceUnknownPid(t *testing.T) {
	k := NewKernel(Config{NPROC: 2, Policy: PolicyPriority})
	_, err := k.SetNice(999, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

// set_nice must not insert a non-runnable PCB into a run queue: a
// SLEEPING process keeps its nice change but stays out of every level's
// queue until it wakes.
func TestSetNiceOnSleepingProcessDoesNotEnqueue(t *testing.T) {
	k, cpu := bootTestKernel(t, 4, PolicyPriority)
	cpu(0)

	parked := make(chan struct{})
	init := k.Userinit("sleeper", FuncExec(func(p *common.Proc) {
		close(parked)
		k.SysSleep(p, 1000)
		select {}
	}))
	<-parked
	time.Sleep(10 * time.Millisecond)

	old, err := k.SetNice(init.Pid, 1)
	require.NoError(t, err)
	require.Equal(t, common.DefaultNice, old)
	require.Equal(t, common.Sleeping, init.State)

	pp := k.policy.(*priorityPolicy)
	require.Nil(t, pp.heads[1], "a sleeping process must not be queued at its new level")
}

// The Nice syscall goes through SetNice: it returns the old value and
// updates the PCB's nice.
func TestNiceSyscallAliasesSetNice(t *testing.T) {
	k := NewKernel(Config{NPROC: 2, Policy: PolicyPriority})
	done := make(chan struct{})
	defer close(done)
	p := k.Userinit("init", blockUntil(done))

	old, err := k.Nice(p.Pid, 2)
	require.NoError(t, err)
	require.Equal(t, common.DefaultNice, old)
	require.Equal(t, 2, p.Nice)
}
