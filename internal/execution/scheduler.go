package execution

import (
	"sort"

	"tcr/internal/discovery"
)

// Scheduler distributes collections across workers
type Scheduler interface {
	Schedule(groups []discovery.Group, workerCount int) [][]discovery.Group
}

// CollectionScheduler keeps every collection on a single worker and balances
// workers by class count, largest collections first.
type CollectionScheduler struct{}

// NewCollectionScheduler creates a new CollectionScheduler
func NewCollectionScheduler() *CollectionScheduler {
	return &CollectionScheduler{}
}

// Schedule returns one slice of collections per worker
func (s *CollectionScheduler) Schedule(groups []discovery.Group, workerCount int) [][]discovery.Group {
	if workerCount <= 0 {
		workerCount = 1
	}

	distribution := make([][]discovery.Group, workerCount)
	for i := range distribution {
		distribution[i] = make([]discovery.Group, 0)
	}

	ordered := make([]discovery.Group, len(groups))
	copy(ordered, groups)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Classes) > len(ordered[j].Classes)
	})

	load := make([]int, workerCount)
	for _, group := range ordered {
		target := 0
		for w := 1; w < workerCount; w++ {
			if load[w] < load[target] {
				target = w
			}
		}
		distribution[target] = append(distribution[target], group)
		load[target] += len(group.Classes)
	}

	return distribution
}
