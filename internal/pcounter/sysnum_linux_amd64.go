//go:build linux && amd64

package pcounter

// sysPerfEventOpen is __NR_perf_event_open on x86_64.
const sysPerfEventOpen = 298
