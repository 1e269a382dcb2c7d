// Package cpu binds worker goroutines to OS threads.
//
// A worker that calls SetupWorkerAffinity owns its OS thread until the
// returned release function runs. Where the platform allows it the thread is
// also pinned to one logical CPU, chosen as workerID mod NumCPU.
package cpu

import "runtime"

// NumCPU returns the number of logical CPUs available.
func NumCPU() int {
	return runtime.NumCPU()
}

// coreFor maps a worker onto a logical CPU.
func coreFor(workerID int) int {
	n := runtime.NumCPU()
	if n <= 0 {
		return 0
	}
	c := workerID % n
	if c < 0 {
		c += n
	}
	return c
}
