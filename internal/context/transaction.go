package context

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

type contextKey string

const (
	TRANSACTION_KEY  contextKey = "transaction"
	AFTER_COMMIT_KEY contextKey = "afterCommit"
)

// GetTransaction returns the transaction opened by an enclosing unit of work.
func GetTransaction(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(TRANSACTION_KEY).(*gorm.DB)
	return tx, ok && tx != nil
}

func WithTransaction(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, TRANSACTION_KEY, tx)
}

type commitHooks struct {
	mu  sync.Mutex
	fns []func()
}

// WithCommitHooks attaches an empty hook list to ctx. The returned function
// runs the registered hooks in order and must be called only after commit.
func WithCommitHooks(ctx context.Context) (context.Context, func()) {
	hooks := &commitHooks{}
	return context.WithValue(ctx, AFTER_COMMIT_KEY, hooks), hooks.run
}

// AfterCommit defers fn until the transaction carried by ctx has committed.
// Without one, fn runs immediately. Hooks of a rolled back transaction are
// dropped.
func AfterCommit(ctx context.Context, fn func()) {
	hooks, ok := ctx.Value(AFTER_COMMIT_KEY).(*commitHooks)
	if !ok || hooks == nil {
		fn()
		return
	}

	hooks.mu.Lock()
	hooks.fns = append(hooks.fns, fn)
	hooks.mu.Unlock()
}

func (h *commitHooks) run() {
	h.mu.Lock()
	fns := h.fns
	h.fns = nil
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
