package partition

import "hash/fnv"

// For returns the lane for key among n lanes.
// Stable and deterministic for a fixed n: the same campaign always lands on the same lane.
// Uses FNV-32a.
func For(key string, n int) int {
	if n <= 1 {
		return 0
	}
	h := fnv.New32a()
	h.Write([]byte(key))
	return int(h.Sum32() % uint32(n))
}
