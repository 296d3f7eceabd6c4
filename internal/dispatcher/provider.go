package dispatcher

import "sync"

// Provider owns the process's single Dispatcher. The zero value is ready to
// use. A Provider must not be copied after first use.
type Provider struct {
	once sync.Once
	d    *Dispatcher
}

// Get returns the Dispatcher, creating it on the first call. Concurrent first
// calls observe the same instance.
func (p *Provider) Get() *Dispatcher {
	p.once.Do(func() {
		p.d = newDispatcher()
	})
	return p.d
}
