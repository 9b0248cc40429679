package common

import (
	"fmt"
	"runtime"
)

// MemoryStats is a snapshot of the allocator counters a processing run cares
// about.
type MemoryStats struct {
	Alloc      uint64
	TotalAlloc uint64
	Sys        uint64
	HeapInuse  uint64
	NumGC      uint32
	GCCPU      float64
}

// GetMemoryStats reads the current runtime memory statistics.
func GetMemoryStats() MemoryStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemoryStats{
		Alloc:      m.Alloc,
		TotalAlloc: m.TotalAlloc,
		Sys:        m.Sys,
		HeapInuse:  m.HeapInuse,
		NumGC:      m.NumGC,
		GCCPU:      m.GCCPUFraction,
	}
}

// String returns a one-line summary of the snapshot.
func (m MemoryStats) String() string {
	return fmt.Sprintf("Alloc: %d KB, Total: %d KB, Sys: %d KB, GC: %d (%.2f%% CPU)",
		m.Alloc/1024,
		m.TotalAlloc/1024,
		m.Sys/1024,
		m.NumGC,
		m.GCCPU*100)
}

// Delta returns the growth of the cumulative counters between two snapshots.
func (m MemoryStats) Delta(since MemoryStats) MemoryStats {
	return MemoryStats{
		Alloc:      m.Alloc,
		TotalAlloc: m.TotalAlloc - since.TotalAlloc,
		Sys:        m.Sys,
		HeapInuse:  m.HeapInuse,
		NumGC:      m.NumGC - since.NumGC,
		GCCPU:      m.GCCPU,
	}
}
