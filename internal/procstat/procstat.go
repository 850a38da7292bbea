// Package procstat turns a raw process wait status into the exit-status
// shape the rest of this module works with: a numeric exit code, a signal
// number, or unknown.
package procstat

import "github.com/ja7ad/benchcore/internal/timing"

// WaitStatus is the minimal subset of syscall.WaitStatus this package needs,
// kept as an interface so callers on any platform can supply their own
// concrete status type without this package importing syscall directly.
type WaitStatus interface {
	Exited() bool
	ExitStatus() int
	Signaled() bool
	Signal() int
}

// ExitStatusFromWait converts a raw wait status into the driver's
// ExitStatus shape: a numeric code when the process exited normally, the
// terminating signal number when it didn't, or both nil if the platform
// could not determine either.
func ExitStatusFromWait(ws WaitStatus) timing.ExitStatus {
	switch {
	case ws.Exited():
		code := ws.ExitStatus()
		return timing.ExitStatus{Code: &code}
	case ws.Signaled():
		sig := ws.Signal()
		return timing.ExitStatus{Signal: &sig}
	default:
		return timing.ExitStatus{}
	}
}
