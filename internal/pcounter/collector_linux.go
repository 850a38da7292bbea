//go:build linux

package pcounter

import (
	"encoding/binary"
	"io"
	"unsafe"

	"golang.org/x/sys/unix"
)

// counter owns exactly one perf_event file descriptor.
type counter struct {
	fd int
}

func perfEventOpen(attr *perfEventAttr, pid, cpu, groupFD int, flags uintptr) (int, error) {
	fd, _, errno := unix.Syscall6(
		sysPerfEventOpen,
		uintptr(unsafe.Pointer(attr)),
		uintptr(pid),
		uintptr(cpu),
		uintptr(groupFD),
		flags,
		0,
	)
	if errno != 0 {
		return -1, errno
	}
	return int(fd), nil
}

func openCounter(attr *perfEventAttr, pid int) (*counter, error) {
	fd, err := perfEventOpen(attr, pid, -1, -1, perfFlagFDCloexec)
	if err != nil {
		return nil, err
	}
	return &counter{fd: fd}, nil
}

func (c *counter) enable() error {
	return unix.IoctlSetInt(c.fd, perfEventIOCEnable, 0)
}

func (c *counter) disable() error {
	return unix.IoctlSetInt(c.fd, perfEventIOCDisable, 0)
}

func (c *counter) read() (uint64, error) {
	var buf [8]byte
	n, err := unix.Read(c.fd, buf[:])
	if err != nil {
		return 0, err
	}
	if n != len(buf) {
		return 0, io.ErrShortBuffer
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func (c *counter) Close() error {
	return unix.Close(c.fd)
}

// Collector attaches a group of performance counters to a single target
// process. Each successfully opened counter owns one kernel file
// descriptor, released on Close; a counter that failed to open (missing
// privilege, unsupported event) simply leaves its slot absent — the
// collector as a whole always succeeds once constructed.
type Collector struct {
	slots [numMetrics]*counter
}

// Open opens one file descriptor per requested metric, in disabled and
// inherit-to-children mode, so the armed-but-inactive window excludes fork
// and exec setup. If metrics is empty, all seven metrics are attempted.
func Open(pid int, metrics []Metric) (*Collector, error) {
	collectAll := len(metrics) == 0
	want := func(m Metric) bool {
		if collectAll {
			return true
		}
		for _, x := range metrics {
			if x == m {
				return true
			}
		}
		return false
	}

	c := &Collector{}
	for _, m := range allMetrics {
		if !want(m) {
			continue
		}
		cnt, err := openCounter(attrFor(m), pid)
		if err != nil {
			// Swallowed: this metric's slot stays absent.
			continue
		}
		c.slots[m] = cnt
	}
	return c, nil
}

// Enable arms every successfully opened counter, returning the first error
// encountered (if any). Call immediately before releasing the workload.
func (c *Collector) Enable() error {
	for _, cnt := range c.slots {
		if cnt == nil {
			continue
		}
		if err := cnt.enable(); err != nil {
			return err
		}
	}
	return nil
}

// Disable stops every successfully opened counter, returning the first
// error encountered (if any). Call immediately after the workload exits.
func (c *Collector) Disable() error {
	for _, cnt := range c.slots {
		if cnt == nil {
			continue
		}
		if err := cnt.disable(); err != nil {
			return err
		}
	}
	return nil
}

// Read reads each counter's accumulated value. A per-counter read failure
// degrades that field to absent but does not fail the call.
func (c *Collector) Read() Sample {
	var s Sample
	for _, m := range allMetrics {
		cnt := c.slots[m]
		if cnt == nil {
			continue
		}
		if v, err := cnt.read(); err == nil {
			s.set(m, v)
		}
	}
	return s
}

// Close releases every opened file descriptor. Safe to call more than
// once; subsequent calls are no-ops for already-closed slots.
func (c *Collector) Close() error {
	var firstErr error
	for i, cnt := range c.slots {
		if cnt == nil {
			continue
		}
		if err := cnt.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		c.slots[i] = nil
	}
	return firstErr
}
