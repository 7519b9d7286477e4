package posting

import (
	"sort"
	"sync"
)

// productLocks serializes postings per product: check-availability, allocate
// and append form one critical section for each product touched. Locks are
// acquired in sorted id order so two documents sharing products cannot
// deadlock; documents with disjoint product sets run in parallel.
type productLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newProductLocks() *productLocks {
	return &productLocks{locks: make(map[string]*sync.Mutex)}
}

func (p *productLocks) get(id string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	m, ok := p.locks[id]
	if !ok {
		m = &sync.Mutex{}
		p.locks[id] = m
	}
	return m
}

// lockAll locks the given product ids (deduplicated, sorted) and returns the
// matching unlock function.
func (p *productLocks) lockAll(ids []string) (unlock func()) {
	unique := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		unique[id] = struct{}{}
	}
	ordered := make([]string, 0, len(unique))
	for id := range unique {
		ordered = append(ordered, id)
	}
	sort.Strings(ordered)

	held := make([]*sync.Mutex, 0, len(ordered))
	for _, id := range ordered {
		m := p.get(id)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
