package portfolio

import "sync"

// viewCache memoizes the consolidated view between mutations. Any write to
// the document (CRUD, refresh, import) invalidates it.
type viewCache struct {
	mu    sync.RWMutex
	view  ConsolidatedPortfolio
	valid bool
}

func newViewCache() *viewCache {
	return &viewCache{}
}

func (c *viewCache) get() (ConsolidatedPortfolio, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.valid {
		return ConsolidatedPortfolio{}, false
	}
	return c.view, true
}

func (c *viewCache) set(view ConsolidatedPortfolio) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = view
	c.valid = true
}

func (c *viewCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.view = ConsolidatedPortfolio{}
	c.valid = false
}
