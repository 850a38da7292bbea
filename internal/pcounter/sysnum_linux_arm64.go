//go:build linux && arm64

package pcounter

// sysPerfEventOpen is __NR_perf_event_open on arm64. This number differs
// from x86_64's — see the per-architecture unistd tables — which is why it
// lives in its own build-tagged file instead of a single hard-coded
// constant.
const sysPerfEventOpen = 241
