package parfor

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// defaultPartitionSize derives the partition size from the number of logical cores.
func defaultPartitionSize() uint {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return uint(n)
	}
	return uint(runtime.NumCPU())
}
