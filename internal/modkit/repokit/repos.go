// Package repokit is the glue between store adapters and the interaction log repositories
package repokit

import (
	"context"

	"sentibot/internal/platform/store"
)

type (
	Queryer    = store.RowQuerier
	TxRunner   = store.TxRunner
	Rows       = store.Rows
	Row        = store.Row
	CommandTag = store.CommandTag
)

// Binder builds a repository of type T over a Queryer
type Binder[T any] interface {
	Bind(Queryer) T
}

// RequireQueryer panics on a nil q so a miswired repo fails at bind time
func RequireQueryer(q Queryer) Queryer {
	if q == nil {
		panic("repokit: nil Queryer")
	}
	return q
}

// BeginHook runs first inside every transaction, on the tx scoped Queryer
type BeginHook func(ctx context.Context, q Queryer) error

// WithBeginHooks returns a TxRunner whose Tx runs hooks before fn.
// Statements issued outside Tx go straight to inner.
func WithBeginHooks(inner TxRunner, hooks ...BeginHook) TxRunner {
	return hooked{TxRunner: inner, hooks: hooks}
}

type hooked struct {
	TxRunner
	hooks []BeginHook
}

func (h hooked) Tx(ctx context.Context, fn func(q Queryer) error) error {
	return h.TxRunner.Tx(ctx, func(q Queryer) error {
		for _, run := range h.hooks {
			if err := run(ctx, q); err != nil {
				return err
			}
		}
		return fn(q)
	})
}

// InTx runs fn inside a transaction when q can open one, with hooks first.
// A plain Queryer runs fn directly and skips the hooks.
func InTx(ctx context.Context, q Queryer, fn func(q Queryer) error, hooks ...BeginHook) error {
	tx, ok := q.(TxRunner)
	if !ok {
		return fn(q)
	}
	if len(hooks) > 0 {
		tx = WithBeginHooks(tx, hooks...)
	}
	return tx.Tx(ctx, fn)
}
