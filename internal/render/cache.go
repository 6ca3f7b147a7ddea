package render

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// rendererPool hands out glamour renderers per Options. A TermRenderer must not
// be used by two goroutines at once, so each Render borrows one from a sync.Pool.
type rendererPool struct {
	mu    sync.RWMutex
	pools map[Options]*sync.Pool
}

var globalPool = newRendererPool()

func newRendererPool() *rendererPool {
	return &rendererPool{pools: make(map[Options]*sync.Pool)}
}

// poolFor returns the pool for opts, creating it on first use
func (p *rendererPool) poolFor(opts Options) *sync.Pool {
	p.mu.RLock()
	pool, ok := p.pools[opts]
	p.mu.RUnlock()
	if ok {
		return pool
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if pool, ok := p.pools[opts]; ok {
		return pool
	}

	pool = &sync.Pool{}
	p.pools[opts] = pool
	return pool
}

// borrow takes a renderer from the pool or builds a new one
func (p *rendererPool) borrow(opts Options) (*glamour.TermRenderer, error) {
	if r, ok := p.poolFor(opts).Get().(*glamour.TermRenderer); ok {
		return r, nil
	}
	return createRenderer(opts)
}

// release returns a renderer for reuse
func (p *rendererPool) release(opts Options, r *glamour.TermRenderer) {
	if r == nil {
		return
	}
	p.poolFor(opts).Put(r)
}

func (p *rendererPool) size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.pools)
}

func createRenderer(opts Options) (*glamour.TermRenderer, error) {
	rendererOpts := []glamour.TermRendererOption{
		glamour.WithStylePath(opts.Style),
		glamour.WithWordWrap(opts.Width),
		glamour.WithTableWrap(opts.TableWrap),
	}
	if opts.EnableEmoji {
		rendererOpts = append(rendererOpts, glamour.WithEmoji())
	}
	if opts.PreserveNewLines {
		rendererOpts = append(rendererOpts, glamour.WithPreservedNewLines())
	}
	return glamour.NewTermRenderer(rendererOpts...)
}
