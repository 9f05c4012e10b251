package transport

import (
	"sync"

	"github.com/san-kum/radsim/internal/particle"
)

// BankPool recycles banks between batches.
type BankPool struct {
	pool sync.Pool
}

func NewBankPool() *BankPool {
	return &BankPool{
		pool: sync.Pool{
			New: func() any {
				return new(particle.Bank)
			},
		},
	}
}

func (p *BankPool) Get() *particle.Bank {
	return p.pool.Get().(*particle.Bank)
}

// Put drops anything still waiting in b before recycling it.
func (p *BankPool) Put(b *particle.Bank) {
	for b.Pop() != nil {
	}
	p.pool.Put(b)
}
