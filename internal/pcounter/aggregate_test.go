package pcounter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u64(v uint64) *uint64 { return &v }

func TestAggregate_SameValue_RoundTrips(t *testing.T) {
	samples := []Sample{
		{CPUCycles: u64(100)},
		{CPUCycles: u64(100)},
		{CPUCycles: u64(100)},
	}
	got := Aggregate(samples)
	require.NotNil(t, got)
	require.NotNil(t, got.CPUCycles)
	assert.Equal(t, uint64(100), *got.CPUCycles)
}

func TestAggregate_AllAbsent_SlotStaysAbsent(t *testing.T) {
	samples := []Sample{{}, {}, {}}
	got := Aggregate(samples)
	assert.Nil(t, got)
}

func TestAggregate_PartialPresence(t *testing.T) {
	samples := []Sample{
		{Instructions: u64(10)},
		{},
		{Instructions: u64(20)},
	}
	got := Aggregate(samples)
	require.NotNil(t, got)
	require.NotNil(t, got.Instructions)
	assert.Equal(t, uint64(15), *got.Instructions)
	assert.Nil(t, got.CPUCycles)
}

func TestAggregate_EmptyInput(t *testing.T) {
	assert.Nil(t, Aggregate(nil))
}

func TestSample_RateDefinitionalProperty(t *testing.T) {
	s := &Sample{CacheReferences: u64(0), CacheMisses: u64(5)}
	_, ok := s.CacheMissRate()
	assert.False(t, ok, "zero denominator must not produce a rate")

	s = &Sample{CacheReferences: u64(10)}
	_, ok = s.CacheMissRate()
	assert.False(t, ok, "missing numerator must not produce a rate")

	s = &Sample{CacheReferences: u64(10), CacheMisses: u64(2)}
	rate, ok := s.CacheMissRate()
	require.True(t, ok)
	assert.InDelta(t, 0.2, rate, 1e-12)
}

func TestSample_IPC(t *testing.T) {
	s := &Sample{CPUCycles: u64(0), Instructions: u64(5)}
	_, ok := s.InstructionsPerCycle()
	assert.False(t, ok)

	s = &Sample{CPUCycles: u64(2), Instructions: u64(5)}
	ipc, ok := s.InstructionsPerCycle()
	require.True(t, ok)
	assert.InDelta(t, 2.5, ipc, 1e-12)
}

func TestParseMetric_Aliases(t *testing.T) {
	m, ok := ParseMetric("cycles")
	require.True(t, ok)
	assert.Equal(t, CPUCycles, m)

	m, ok = ParseMetric("faults")
	require.True(t, ok)
	assert.Equal(t, PageFaults, m)

	_, ok = ParseMetric("nonsense")
	assert.False(t, ok)
}
