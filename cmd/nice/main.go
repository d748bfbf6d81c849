// Command nice is the Go replacement for the original's userspace
// nice.c: a thin client of the nice syscall, supporting both call
// shapes ("nice <value>" for the caller itself, "nice <pid> <value>"
// for a named process). Since the real trap/syscall-marshalling
// boundary is out of scope, this binary talks directly to an
// in-process demo kernel instead of crossing into a live system, the
// way arctir-proctor's cmd package wires cobra commands straight to a
// library call.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mr2447/hw3OS/common"
	"github.com/mr2447/hw3OS/kernel"
)

var rootCmd = &cobra.Command{
	Use:   "nice <value> | nice <pid> <value>",
	Short: "Set a process's scheduling priority and print its old value.",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// A bare "nice <value>" applies to the caller. This binary has
		// no real calling process of its own, so it boots a one-process
		// demo kernel and treats that process as "self" for that call
		// shape; "nice <pid> <value>" still needs a live kernel to name
		// a pid against, so it uses the same demo instance.
		k := kernel.NewKernel(kernel.Config{NPROC: 8, Console: os.Stdout})
		self := k.Userinit("nice-cli", kernel.FuncExec(func(p *common.Proc) {
			select {} // idles forever; this CLI only needs its pid
		}))

		var pid, value int
		var err error
		if len(args) == 2 {
			pid, err = strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid pid %q", args[0])
			}
			value, err = strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid nice value %q", args[1])
			}
		} else {
			pid = self.Pid
			value, err = strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid nice value %q", args[0])
			}
		}

		old, err := k.Nice(pid, value)
		if err != nil {
			return fmt.Errorf("unable to set nice value for pid %d: %w", pid, err)
		}
		fmt.Printf("%d %d\n", pid, old)
		return nil
	},
}

func main() {
	rootCmd.SilenceUsage = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
