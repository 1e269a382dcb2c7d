//go:build linux

package cpu

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinToCore restricts the calling OS thread to a single CPU.
// Must be called after runtime.LockOSThread().
func pinToCore(core int) error {
	var mask unix.CPUSet
	mask.Zero()
	mask.Set(core)
	return unix.SchedSetaffinity(0, &mask) // 0 = current thread
}

// CurrentCore returns the CPU the calling thread is running on, or -1 if it
// cannot be determined.
func CurrentCore() int {
	var mask unix.CPUSet
	if err := unix.SchedGetaffinity(0, &mask); err != nil {
		return -1
	}
	if mask.Count() != 1 {
		return -1
	}
	for c := range runtime.NumCPU() {
		if mask.IsSet(c) {
			return c
		}
	}
	return -1
}

// SetupWorkerAffinity locks the goroutine to an OS thread and pins that
// thread to the worker's CPU. Pinning failures are ignored; the thread lock
// still holds. The returned function undoes the lock and must be deferred.
func SetupWorkerAffinity(workerID int) func() {
	runtime.LockOSThread()

	var original unix.CPUSet
	restore := unix.SchedGetaffinity(0, &original) == nil
	_ = pinToCore(coreFor(workerID))

	return func() {
		if restore {
			_ = unix.SchedSetaffinity(0, &original)
		}
		runtime.UnlockOSThread()
	}
}
