package uowmock

import (
	"context"
	"errors"

	"lcflow/internal/domain/lc"
	"lcflow/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn   func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinLCTxFn func(ctx context.Context, lcID string, fn func(r uow.Repos, l *lc.LC) error) error
}

// Convenience fluent setters
func New() *UoW { return &UoW{} }
func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinLCTx(fn func(context.Context, string, func(uow.Repos, *lc.LC) error) error) *UoW {
	m.WithinLCTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

// Passthrough runs bodies directly against repos without a transaction.
// WithinLCTx loads the LC through repos.LCs.GetByLCIDForUpdate.
func Passthrough(repos uow.Repos) *UoW {
	return New().
		WithWithinTx(func(_ context.Context, fn func(uow.Repos) error) error {
			return fn(repos)
		}).
		WithWithinLCTx(func(ctx context.Context, lcID string, fn func(uow.Repos, *lc.LC) error) error {
			l, err := repos.LCs.GetByLCIDForUpdate(ctx, lcID)
			if err != nil {
				return err
			}
			return fn(repos, l)
		})
}

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinLCTx(ctx context.Context, lcID string, fn func(r uow.Repos, l *lc.LC) error) error {
	if m.WithinLCTxFn != nil {
		return m.WithinLCTxFn(ctx, lcID, fn)
	}
	return errUnimplemented
}
