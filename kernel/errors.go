package kernel

import "errors"

// Sentinel errors for the resource-exhaustion and invalid-argument
// failure paths. Callers needing the raw -1/-ish return value the
// syscall table promises should check these with errors.Is and map to
// -1 themselves; the lifecycle layer never panics for these cases.
var (
	// ErrTableFull is returned when allocproc finds no UNUSED slot.
	ErrTableFull = errors.New("kernel: process table full")
	// ErrPrepareFailed is returned when fork's outside-the-lock
	// duplication step (the Preparer hook) fails.
	ErrPrepareFailed = errors.New("kernel: fork preparation failed")
	// ErrNotFound is returned by SetNice/Nice when no PCB matches pid
	// (Kill reports the same case by returning false).
	ErrNotFound = errors.New("kernel: no such pid")
	// ErrOutOfMemory is returned by growproc/sbrk when the simulated
	// heap limit would be exceeded.
	ErrOutOfMemory = errors.New("kernel: out of memory")
)
