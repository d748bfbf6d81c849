package kernel

import "github.com/mr2447/hw3OS/common"

// FuncExec adapts a plain function to common.Exec, the way
// http.HandlerFunc adapts a function to http.Handler. Most workloads
// in this repo's tests and demos are simple closures over a *Kernel,
// so they don't need a dedicated named type.
type FuncExec func(p *common.Proc)

func (f FuncExec) Run(p *common.Proc) { f(p) }
