package memory

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/database"
)

type txKey struct{}

// Transactor serialises units of work. There is no rollback: a failing unit
// keeps the writes it already made.
type Transactor struct {
	mu sync.Mutex
}

var _ database.Transactor = (*Transactor)(nil)

func NewTransactor() *Transactor {
	return &Transactor{}
}

func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}
