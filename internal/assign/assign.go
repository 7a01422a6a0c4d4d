// Package assign splits an ordered task list across launch replicas.
package assign

// Distribute assigns taskIDs round-robin across replicaCount replicas:
// the task at position i goes to replica i mod replicaCount. The split is
// stable (identical inputs always produce identical output) and even to
// within one task per replica. An empty taskIDs yields replicaCount empty
// assignments. A replicaCount below 1 yields nil.
//
// It is valid for len(taskIDs) to exceed replicaCount (replicas receive
// several tasks) or fall short of it (trailing replicas receive none).
func Distribute(taskIDs []string, replicaCount int) [][]string {
	if replicaCount < 1 {
		return nil
	}

	buckets := make([][]string, replicaCount)
	for i, id := range taskIDs {
		r := i % replicaCount
		buckets[r] = append(buckets[r], id)
	}
	return buckets
}
