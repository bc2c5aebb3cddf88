package osutil

import (
	"os"
	"strconv"
	"strings"

	"github.com/pbnjay/memory"
)

// cgroup v1 reports this page-aligned maximum when no limit is set.
const cgroupV1Unlimited = 9223372036854771712

var cgroupLimitFiles = []string{
	"/sys/fs/cgroup/memory.max",                   // v2
	"/sys/fs/cgroup/memory/memory.limit_in_bytes", // v1
}

// GetTotalMemory returns the memory available to the process, honouring a
// container memory limit when one is set.
func GetTotalMemory() uint64 {
	return totalMemory(memory.TotalMemory(), cgroupLimitFiles)
}

func totalMemory(physical uint64, limitFiles []string) uint64 {
	for _, path := range limitFiles {
		if limit, ok := readCgroupLimit(path); ok && limit < physical {
			return limit
		}
	}
	return physical
}

func readCgroupLimit(path string) (uint64, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}

	value := strings.TrimSpace(string(raw))
	if value == "max" {
		return 0, false
	}

	limit, err := strconv.ParseUint(value, 10, 64)
	if err != nil || limit == 0 || limit == cgroupV1Unlimited {
		return 0, false
	}
	return limit, true
}
