//go:build linux

package pcounter

import "unsafe"

// perfEventAttr mirrors struct perf_event_attr from <linux/perf_event.h>,
// field order and widths exactly as the kernel ABI expects. All fields this
// package doesn't use are left zero, which the kernel accepts.
type perfEventAttr struct {
	Type         uint32
	Size         uint32
	Config       uint64
	SamplePeriod uint64 // union with sample_freq; unused, left 0
	SampleType   uint64
	ReadFormat   uint64
	Flags        uint64
	Wakeup       uint32 // union with wakeup_watermark; unused, left 0
	BPType       uint32
	BPAddr       uint64 // union with config1; unused, left 0
	BPLen        uint64 // union with config2; unused, left 0
	BranchSampleType  uint64
	SampleRegsUser    uint64
	SampleStackUser   uint32
	ClockID           int32
	SampleRegsIntr    uint64
	AuxWatermark      uint32
	SampleMaxStack    uint16
	Reserved2         uint16
}

const (
	perfTypeHardware uint32 = 0
	perfTypeSoftware uint32 = 1
)

// perf_hw_id values (type == perfTypeHardware).
const (
	perfCountHWCPUCycles          uint64 = 0
	perfCountHWInstructions       uint64 = 1
	perfCountHWCacheReferences    uint64 = 2
	perfCountHWCacheMisses        uint64 = 3
	perfCountHWBranchInstructions uint64 = 4
	perfCountHWBranchMisses       uint64 = 5
)

// perf_sw_ids values (type == perfTypeSoftware).
const perfCountSWPageFaults uint64 = 2

const (
	attrFlagDisabled uint64 = 1 << 0
	attrFlagInherit  uint64 = 1 << 1
)

const perfFlagFDCloexec uintptr = 1 << 3

const (
	perfEventIOCEnable  = 0x2400
	perfEventIOCDisable = 0x2401
)

var sizeofPerfEventAttr = uint32(unsafe.Sizeof(perfEventAttr{}))

func newHardwareAttr(config uint64) *perfEventAttr {
	return &perfEventAttr{
		Type:   perfTypeHardware,
		Size:   sizeofPerfEventAttr,
		Config: config,
		Flags:  attrFlagDisabled | attrFlagInherit,
	}
}

func newSoftwareAttr(config uint64) *perfEventAttr {
	return &perfEventAttr{
		Type:   perfTypeSoftware,
		Size:   sizeofPerfEventAttr,
		Config: config,
		Flags:  attrFlagDisabled | attrFlagInherit,
	}
}

// attrFor builds the attribute record for a given metric.
func attrFor(m Metric) *perfEventAttr {
	switch m {
	case CPUCycles:
		return newHardwareAttr(perfCountHWCPUCycles)
	case Instructions:
		return newHardwareAttr(perfCountHWInstructions)
	case CacheReferences:
		return newHardwareAttr(perfCountHWCacheReferences)
	case CacheMisses:
		return newHardwareAttr(perfCountHWCacheMisses)
	case Branches:
		return newHardwareAttr(perfCountHWBranchInstructions)
	case BranchMisses:
		return newHardwareAttr(perfCountHWBranchMisses)
	case PageFaults:
		return newSoftwareAttr(perfCountSWPageFaults)
	default:
		return nil
	}
}
