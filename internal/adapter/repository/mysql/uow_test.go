package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	lcDomain "lcflow/internal/domain/lc"
	notifDomain "lcflow/internal/domain/notification"
	"lcflow/internal/domain/uow"

	"gorm.io/gorm"
)

func TestGormUoW_WithinTx_Commit(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)

	l := makeLC("Acme", "Globex", "alice")
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.LCs.Create(ctx, l); err != nil {
			return err
		}
		return r.Notifications.Create(ctx, notifDomain.New("n-1", notifDomain.TypeLCCreated, "t", "m", l.LCID, time.Now()))
	})
	if err != nil {
		t.Fatalf("WithinTx: %v", err)
	}

	if _, err := NewLCRepository(db).GetByLCID(ctx, l.LCID); err != nil {
		t.Fatalf("lc not committed: %v", err)
	}
	if _, err := NewNotificationRepository(db).GetByNotificationID(ctx, "n-1"); err != nil {
		t.Fatalf("notification not committed: %v", err)
	}
}

func TestGormUoW_WithinTx_Rollback(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)
	sentinel := errors.New("abort")

	l := makeLC("Acme", "Globex", "alice")
	err := guow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.LCs.Create(ctx, l); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("WithinTx: want %v, got %v", sentinel, err)
	}
	if _, err := NewLCRepository(db).GetByLCID(ctx, l.LCID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("lc must be rolled back, got %v", err)
	}
}

func TestGormUoW_WithinLCTx(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	guow := NewGormUoW(db)
	repo := NewLCRepository(db)

	l := makeLC("Acme", "Globex", "alice")
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := guow.WithinLCTx(ctx, l.LCID, func(r uow.Repos, locked *lcDomain.LC) error {
		if locked.LCID != l.LCID {
			t.Fatalf("wrong lc locked: %s", locked.LCID)
		}
		locked.Status = lcDomain.StatusAwaitingAdminReview
		if err := r.Blobs.Create(ctx, &lcDomain.DocumentBlob{DocumentID: "doc-1", LCID: l.LCID, Content: []byte("x")}); err != nil {
			return err
		}
		return r.LCs.Save(ctx, locked)
	})
	if err != nil {
		t.Fatalf("WithinLCTx: %v", err)
	}
	got, _ := repo.GetByLCID(ctx, l.LCID)
	if got.Status != lcDomain.StatusAwaitingAdminReview {
		t.Fatalf("status not committed: %s", got.Status)
	}

	called := false
	err = guow.WithinLCTx(ctx, "LC-missing", func(uow.Repos, *lcDomain.LC) error {
		called = true
		return nil
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("missing lc: want ErrRecordNotFound, got %v", err)
	}
	if called {
		t.Fatalf("body must not run when the lc is missing")
	}
}
