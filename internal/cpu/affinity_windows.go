//go:build windows

package cpu

import (
	"runtime"

	"golang.org/x/sys/windows"
)

var (
	kernel32              = windows.NewLazySystemDLL("kernel32.dll")
	setThreadAffinityMask = kernel32.NewProc("SetThreadAffinityMask")
)

// pinToCore restricts the calling OS thread to a single CPU and returns the
// previous mask. Must be called after runtime.LockOSThread().
func pinToCore(core int) (uintptr, error) {
	prev, _, err := setThreadAffinityMask.Call(uintptr(windows.CurrentThread()), uintptr(1)<<uint(core))
	if prev == 0 {
		return 0, err
	}
	return prev, nil
}

// CurrentCore is not tracked on Windows.
func CurrentCore() int {
	return -1
}

// SetupWorkerAffinity locks the goroutine to an OS thread and pins that
// thread to the worker's CPU. The returned function restores the previous
// mask, unlocks the thread, and must be deferred.
func SetupWorkerAffinity(workerID int) func() {
	runtime.LockOSThread()
	prev, err := pinToCore(coreFor(workerID))

	return func() {
		if err == nil {
			_, _, _ = setThreadAffinityMask.Call(uintptr(windows.CurrentThread()), prev)
		}
		runtime.UnlockOSThread()
	}
}
