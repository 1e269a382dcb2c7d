//go:build !linux && !windows

package cpu

import "runtime"

// CurrentCore is not tracked on this platform.
func CurrentCore() int {
	return -1
}

// SetupWorkerAffinity locks the goroutine to an OS thread.
// CPU pinning is not available here (macOS and the BSDs have no per-thread
// affinity call), so only the thread lock applies.
func SetupWorkerAffinity(workerID int) func() {
	runtime.LockOSThread()

	return func() {
		runtime.UnlockOSThread()
	}
}
