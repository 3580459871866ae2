package uowmock

import (
	"context"
	"errors"
	"testing"

	"lcflow/internal/domain/lc"
	"lcflow/internal/domain/uow"
	"lcflow/internal/testutil/lcmock"
	"lcflow/internal/testutil/notificationmock"
)

func TestUoW_WithinTx_Happy(t *testing.T) {
	ctx := context.Background()

	lcs := &lcmock.Repo{}
	notes := &notificationmock.Repo{}
	repos := uow.Repos{LCs: lcs, Notifications: notes}

	innerCalled := false
	m := &UoW{
		WithinTxFn: func(gotCtx context.Context, fn func(r uow.Repos) error) error {
			if gotCtx != ctx {
				t.Fatalf("WithinTx: ctx mismatch")
			}
			return fn(repos)
		},
	}

	err := m.WithinTx(ctx, func(r uow.Repos) error {
		innerCalled = true
		if r.LCs != lcs || r.Notifications != notes {
			t.Fatalf("WithinTx: repos not forwarded correctly")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: unexpected err: %v", err)
	}
	if !innerCalled {
		t.Fatalf("WithinTx: inner fn not called")
	}
}

func TestUoW_Default_Unimplemented(t *testing.T) {
	ctx := context.Background()
	m := &UoW{}
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx default: want errUnimplemented, got %v", err)
	}
	if err := m.WithinLCTx(ctx, "LC-X", func(uow.Repos, *lc.LC) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinLCTx default: want errUnimplemented, got %v", err)
	}
}

func TestUoW_WithinLCTx_PropagatesError(t *testing.T) {
	sentinel := errors.New("stop")
	m := &UoW{
		WithinLCTxFn: func(context.Context, string, func(uow.Repos, *lc.LC) error) error {
			return sentinel
		},
	}
	if err := m.WithinLCTx(context.Background(), "LC-X", func(uow.Repos, *lc.LC) error { return nil }); !errors.Is(err, sentinel) {
		t.Fatalf("WithinLCTx: want %v, got %v", sentinel, err)
	}
}

func TestPassthrough_LocksThroughRepo(t *testing.T) {
	ctx := context.Background()
	locked := &lc.LC{ID: 7, LCID: "LC-7"}
	lcs := &lcmock.Repo{
		GetByLCIDForUpdateFn: func(_ context.Context, id string) (*lc.LC, error) {
			if id != "LC-7" {
				t.Fatalf("lock id mismatch: %s", id)
			}
			return locked, nil
		},
	}
	m := Passthrough(uow.Repos{LCs: lcs})

	var got *lc.LC
	if err := m.WithinLCTx(ctx, "LC-7", func(_ uow.Repos, l *lc.LC) error {
		got = l
		return nil
	}); err != nil {
		t.Fatalf("WithinLCTx: %v", err)
	}
	if got != locked {
		t.Fatalf("WithinLCTx: lc not forwarded: %+v", got)
	}

	lcs.GetByLCIDForUpdateFn = nil
	if err := m.WithinLCTx(ctx, "LC-7", func(uow.Repos, *lc.LC) error {
		t.Fatalf("body must not run when the lock fails")
		return nil
	}); !errors.Is(err, context.Canceled) {
		t.Fatalf("WithinLCTx: want context.Canceled, got %v", err)
	}
}

func TestUoW_FluentSetters_And_Reset(t *testing.T) {
	m := New()
	if m.WithinTxFn != nil || m.WithinLCTxFn != nil {
		t.Fatalf("New should start with nil funcs")
	}

	m.WithWithinTx(func(context.Context, func(uow.Repos) error) error { return nil }).
		WithWithinLCTx(func(context.Context, string, func(uow.Repos, *lc.LC) error) error { return nil })

	if m.WithinTxFn == nil || m.WithinLCTxFn == nil {
		t.Fatalf("fluent setters didn't assign funcs")
	}

	m.Reset()
	if m.WithinTxFn != nil || m.WithinLCTxFn != nil {
		t.Fatalf("Reset should clear function fields")
	}
}
