package kernel

import "github.com/mr2447/hw3OS/common"

// This file is the syscall surface: one method per syscall the kernel
// exposes. It is the seam a real trap/argument-marshalling layer would
// bind to; every method here takes its arguments as ordinary Go values
// because that marshalling is explicitly out of this module's scope.

// Getpid returns the caller's pid.
func (k *Kernel) Getpid(p *common.Proc) int {
	return p.Pid
}

// Sbrk grows the caller's heap by n bytes, returning the previous
// break, or -1 on allocation failure.
func (k *Kernel) Sbrk(p *common.Proc, n int) (int, error) {
	return k.Growproc(p, n)
}

// Uptime returns the number of simulated ticks since boot.
func (k *Kernel) Uptime() int {
	return k.Ticks()
}

// Nice sets pid's priority to value, returning the old value, or -1 if
// pid is not found. It is a direct alias of SetNice kept so the
// syscall-surface naming matches the syscall table.
func (k *Kernel) Nice(pid, value int) (int, error) {
	return k.SetNice(pid, value)
}
