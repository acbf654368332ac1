package core

import "sync"

// Ticket identifies one fetch of a resource.
type Ticket struct {
	resource string
	gen      uint64
}

// Generations tags fetches per resource so a response that arrives after a newer
// fetch began can be discarded instead of overwriting fresher state.
type Generations struct {
	mu     sync.Mutex
	latest map[string]uint64
}

// Begin starts a fetch of resource and supersedes every earlier ticket for it.
func (g *Generations) Begin(resource string) Ticket {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.latest == nil {
		g.latest = make(map[string]uint64)
	}
	g.latest[resource]++
	return Ticket{resource: resource, gen: g.latest[resource]}
}

// Current reports whether t is still the newest fetch of its resource.
func (g *Generations) Current(t Ticket) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.latest[t.resource] == t.gen
}
