package rpcstats

import (
	"sync"
)

// RPCUsageStats counts how often each RPC method was served.
type RPCUsageStats struct {
	mu               sync.Mutex
	total            uint
	counterPerMethod map[string]uint
}

var (
	instanceOnce sync.Once
	instance     *RPCUsageStats
)

func getInstance() *RPCUsageStats {
	instanceOnce.Do(func() {
		instance = &RPCUsageStats{counterPerMethod: map[string]uint{}}
	})
	return instance
}

// CountCall registers a single served request for method.
func CountCall(method string) {
	stats := getInstance()
	stats.mu.Lock()
	defer stats.mu.Unlock()
	stats.total++
	stats.counterPerMethod[method]++
}

// Stats returns the total number of served requests and a copy of the
// per-method counters.
func Stats() (uint, map[string]uint) {
	stats := getInstance()
	stats.mu.Lock()
	defer stats.mu.Unlock()
	perMethod := make(map[string]uint, len(stats.counterPerMethod))
	for method, count := range stats.counterPerMethod {
		perMethod[method] = count
	}
	return stats.total, perMethod
}

// Reset clears all counters.
func Reset() {
	stats := getInstance()
	stats.mu.Lock()
	defer stats.mu.Unlock()
	stats.total = 0
	stats.counterPerMethod = map[string]uint{}
}
