// Command kerneldemo boots a Kernel and runs selectable scenarios
// reproducing the original source's test1.c, test2.c, edgetest5.c, and
// nicetest.c: CPU-bound workloads under various nice assignments,
// printed the same narrative way the C versions did via their own
// printf calls. It exists to give the scheduler and lifecycle package
// a runnable demonstration harness the way arctir-proctor's cmd
// package gives its process-inspection library a CLI front end.
package main

import (
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/mr2447/hw3OS/common"
	"github.com/mr2447/hw3OS/kernel"
)

// dumpFlag, set by --dump on any scenario subcommand, prints the
// process table (C11) once the scenario's processes have all been
// reaped, for a human to eyeball alongside the printed narration.
var dumpFlag bool

func finish(k *kernel.Kernel) {
	if dumpFlag {
		fmt.Println(k.Dump())
	}
}

// spin burns a bit of CPU and yields, the Go analogue of the original
// test programs' "for (i = 0; i < N; i++);" busy loops: enough rounds
// through the scheduler to make priority and rotation effects visible
// without actually pegging a core for long.
func spin(k *kernel.Kernel, p *common.Proc, rounds int) {
	for i := 0; i < rounds; i++ {
		k.Yield(p)
	}
}

// bootDemo boots a Kernel, starts two CPU goroutines, and forks a
// "shell" process off the kernel's own initproc to run the scenario
// body in. Scenarios fork their own children from this shell rather
// than from initproc directly, because Exit refuses to ever retire
// initproc (see kernel.Exit) and every scenario body naturally falls
// off the end of its closure when done.
func bootDemo(nproc int, body common.Exec) (k *kernel.Kernel, stop func(), done <-chan struct{}) {
	k = kernel.NewKernel(kernel.Config{NPROC: nproc, Console: os.Stdout})
	stopCh := make(chan struct{})
	for c := 0; c < 2; c++ {
		go k.Scheduler(c, stopCh)
	}

	doneCh := make(chan struct{})
	init := k.Userinit("init", kernel.FuncExec(func(p *common.Proc) {
		shellDone := make(chan struct{})
		if _, err := k.Fork(p, kernel.FuncExec(func(cp *common.Proc) {
			body.Run(cp)
			close(shellDone)
		})); err != nil {
			fmt.Fprintf(os.Stderr, "fork failed: %v\n", err)
			close(shellDone)
		}
		<-shellDone
		close(doneCh)
		select {} // initproc never exits
	}))
	_ = init

	return k, func() { close(stopCh) }, doneCh
}

func waitAll(k *kernel.Kernel, parent *common.Proc, n int) {
	for i := 0; i < n; i++ {
		k.Wait(parent)
	}
}

// runTest1 reproduces test1.c: the shell process sets its own nice to
// 2, then forks five children assigned nice 1..5, each printing its
// own completion line.
func runTest1() {
	fmt.Println("Starting nice test")
	var wg sync.WaitGroup
	k, stop, done := bootDemo(16, kernel.FuncExec(func(p *common.Proc) {
		k.Nice(p.Pid, 2)
		for _, niceVal := range []int{1, 2, 3, 4, 5} {
			niceVal := niceVal
			wg.Add(1)
			_, err := k.Fork(p, kernel.FuncExec(func(cp *common.Proc) {
				defer wg.Done()
				old, _ := k.Nice(cp.Pid, niceVal)
				fmt.Printf("Child PID %d: Set nice to %d, old nice was %d\n", cp.Pid, niceVal, old)
				k.SysSleep(cp, 1)
			}))
			if err != nil {
				fmt.Fprintf(os.Stderr, "fork failed: %v\n", err)
				wg.Done()
				continue
			}
			k.SysSleep(p, 1)
		}
		waitAll(k, p, 5)
	}))
	defer stop()
	wg.Wait()
	<-done
	fmt.Println("Nice test completed")
	finish(k)
}

// runTest2 reproduces test2.c: the parent sets nice 1 on itself, then
// forks three children each given a distinct nice via the two-argument
// call, printing its previous and new nice value from inside each
// child.
func runTest2() {
	fmt.Println("Starting test_nice program to demonstrate `nice` system call with one and two argument cases.")
	var wg sync.WaitGroup
	k, stop, done := bootDemo(16, kernel.FuncExec(func(p *common.Proc) {
		oldParent, _ := k.Nice(p.Pid, 1)
		fmt.Printf("Parent (PID: %d), Previous nice: %d, New nice: 1\n", p.Pid, oldParent)

		for _, niceVal := range []int{5, 3, 2} {
			niceVal := niceVal
			wg.Add(1)
			_, err := k.Fork(p, kernel.FuncExec(func(cp *common.Proc) {
				defer wg.Done()
				old, _ := k.Nice(cp.Pid, niceVal)
				fmt.Printf("Child (PID: %d), Previous nice: %d, New nice: %d\n", cp.Pid, old, niceVal)
			}))
			if err != nil {
				fmt.Fprintf(os.Stderr, "fork failed: %v\n", err)
				wg.Done()
			}
		}
		waitAll(k, p, 3)
	}))
	defer stop()
	wg.Wait()
	<-done
	fmt.Println("All child processes have completed. Test of `nice` system call with one and two arguments finished.")
	finish(k)
}

// runEdgeTest5 reproduces edgetest5.c: ten low-priority (nice 5)
// processes compete against a single high-priority (nice 1) process.
func runEdgeTest5() {
	fmt.Println("Starting test for competition between high and low priority processes.")
	var wg sync.WaitGroup
	k, stop, done := bootDemo(16, kernel.FuncExec(func(p *common.Proc) {
		spawn := func(niceVal, id int) {
			wg.Add(1)
			_, err := k.Fork(p, kernel.FuncExec(func(cp *common.Proc) {
				defer wg.Done()
				k.Nice(cp.Pid, niceVal)
				spin(k, cp, 50)
				fmt.Printf("Process %d with nice=%d completed\n", id, niceVal)
			}))
			if err != nil {
				fmt.Fprintf(os.Stderr, "fork failed: %v\n", err)
				wg.Done()
			}
		}
		for i := 0; i < 10; i++ {
			spawn(5, i)
		}
		spawn(1, 99)
		waitAll(k, p, 11)
	}))
	defer stop()
	wg.Wait()
	<-done
	fmt.Println("All processes completed.")
	finish(k)
}

// runNiceTest reproduces nicetest.c: the parent assigns each of five
// children a distinct, non-sequential nice value from the outside
// (the two-argument "nice <pid> <value>" shape called by someone other
// than the target), rather than the child setting its own.
func runNiceTest() {
	var wg sync.WaitGroup
	niceValues := []int{5, 3, 2, 1, 4}
	k, stop, done := bootDemo(16, kernel.FuncExec(func(p *common.Proc) {
		k.Nice(p.Pid, 1)
		for _, niceVal := range niceValues {
			niceVal := niceVal
			wg.Add(1)
			pid, err := k.Fork(p, kernel.FuncExec(func(cp *common.Proc) {
				defer wg.Done()
				spin(k, cp, 20)
				fmt.Printf("[Child PID %d] Completed with assigned nice value %d\n", cp.Pid, niceVal)
			}))
			if err != nil {
				fmt.Fprintf(os.Stderr, "fork failed: %v\n", err)
				wg.Done()
				continue
			}
			fmt.Printf("[Parent PID %d] setting child to %d\n", p.Pid, niceVal)
			k.Nice(pid, niceVal)
		}
		waitAll(k, p, len(niceValues))
	}))
	defer stop()
	wg.Wait()
	<-done
	finish(k)
}

// runMetricsServer boots an otherwise-idle kernel and serves its
// Prometheus registry over HTTP until interrupted, the way a real
// kernel's metrics would be scraped out of a long-running process
// instead of printed once at exit.
func runMetricsServer(addr string) error {
	k := kernel.NewKernel(kernel.Config{NPROC: 8, Console: os.Stdout})
	k.Userinit("init", kernel.FuncExec(func(p *common.Proc) { select {} }))
	stopCh := make(chan struct{})
	defer close(stopCh)
	go k.Scheduler(0, stopCh)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(k.Metrics.Registry, promhttp.HandlerOpts{}))
	fmt.Printf("serving metrics on %s/metrics\n", addr)
	return http.ListenAndServe(addr, mux)
}

func main() {
	root := &cobra.Command{Use: "kerneldemo", Short: "Runnable scheduler scenarios."}
	root.PersistentFlags().BoolVar(&dumpFlag, "dump", false, "print the process table once the scenario finishes")

	var metricsAddr string
	metricsCmd := &cobra.Command{
		Use:   "metrics",
		Short: "Serve a kernel's Prometheus registry over HTTP.",
		RunE:  func(*cobra.Command, []string) error { return runMetricsServer(metricsAddr) },
	}
	metricsCmd.Flags().StringVar(&metricsAddr, "addr", ":9090", "listen address for /metrics")

	root.AddCommand(
		&cobra.Command{Use: "test1", Short: "Sequential nice assignment across five children.", Run: func(*cobra.Command, []string) { runTest1() }},
		&cobra.Command{Use: "test2", Short: "One- and two-argument nice calls across three children.", Run: func(*cobra.Command, []string) { runTest2() }},
		&cobra.Command{Use: "edgetest5", Short: "Ten low-priority children against one high-priority child.", Run: func(*cobra.Command, []string) { runEdgeTest5() }},
		&cobra.Command{Use: "nicetest", Short: "Parent-assigned, non-sequential nice values.", Run: func(*cobra.Command, []string) { runNiceTest() }},
		metricsCmd,
	)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
