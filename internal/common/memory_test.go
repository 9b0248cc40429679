package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetMemoryStats(t *testing.T) {
	stats := GetMemoryStats()
	assert.Positive(t, stats.Alloc)
	assert.Positive(t, stats.Sys)
	assert.GreaterOrEqual(t, stats.TotalAlloc, stats.Alloc)
}

func TestMemoryStatsString(t *testing.T) {
	stats := GetMemoryStats()
	s := stats.String()
	assert.Contains(t, s, "Alloc:")
	assert.Contains(t, s, "GC:")
}

func TestMemoryStatsDelta(t *testing.T) {
	before := GetMemoryStats()

	// Force some allocation churn
	buf := make([][]byte, 0, 64)
	for range 64 {
		buf = append(buf, make([]byte, 64*1024))
	}
	_ = buf

	after := GetMemoryStats()
	delta := after.Delta(before)
	assert.Positive(t, delta.TotalAlloc)
}
