package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"lcflow/internal/domain/lc"
	"lcflow/internal/domain/notification"
	"lcflow/internal/domain/session"
	"lcflow/internal/domain/uow"
	"lcflow/internal/testutil/lcmock"
	"lcflow/internal/testutil/notificationmock"
	"lcflow/internal/testutil/sessionmock"
	"lcflow/internal/testutil/uowmock"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func sampleState() State {
	ts := time.Date(2025, 9, 6, 10, 0, 0, 0, time.UTC)
	return State{
		LCs: []lc.LC{{
			LCID:      "LC-1",
			Reference: "IMP-1",
			Status:    lc.StatusOnchain,
			CreatedBy: "importer",
			Onchain:   &lc.OnchainData{TxHash: "0xabc", BlockNumber: "100", Timestamp: ts},
			CreatedAt: ts,
			UpdatedAt: ts,
		}},
		Notifications: []notification.Notification{{
			NotificationID: "notif-1", Type: notification.TypeAdminApproved, Title: "t", Timestamp: ts, LCID: "LC-1",
		}},
		CurrentUser: "admin@example.com",
		UserRole:    session.RoleAdmin,
	}
}

func missing(context.Context, string) (*lc.LC, error) { return nil, gorm.ErrRecordNotFound }

func TestExport_CollectsEverything(t *testing.T) {
	st := sampleState()
	lcs := &lcmock.Repo{ListFn: func(context.Context, lc.Filter) ([]lc.LC, error) { return st.LCs, nil }}
	notes := &notificationmock.Repo{ListFn: func(_ context.Context, f notification.Filter) ([]notification.Notification, error) {
		if f.UnreadOnly {
			t.Fatalf("export must include read notifications")
		}
		return st.Notifications, nil
	}}
	sessions := &sessionmock.Repo{GetFn: func(_ context.Context, id string) (session.Session, error) {
		return session.Session{ID: id, CurrentUser: st.CurrentUser, UserRole: st.UserRole}, nil
	}}

	got, err := NewUsecase(lcs, notes, sessions, nil).Export(context.Background(), "sess-1")
	require.NoError(t, err)
	if diff := cmp.Diff(st, *got); diff != "" {
		t.Fatalf("export mismatch (-want +got):\n%s", diff)
	}
}

func TestExport_EmptyStoreHasEmptyLists(t *testing.T) {
	lcs := &lcmock.Repo{ListFn: func(context.Context, lc.Filter) ([]lc.LC, error) { return nil, nil }}
	notes := &notificationmock.Repo{ListFn: func(context.Context, notification.Filter) ([]notification.Notification, error) { return nil, nil }}

	got, err := NewUsecase(lcs, notes, nil, nil).Export(context.Background(), "")
	require.NoError(t, err)
	assert.NotNil(t, got.LCs)
	assert.NotNil(t, got.Notifications)
	assert.Equal(t, session.RoleImporter, got.UserRole)
}

func TestImport_UpsertsInOneTx(t *testing.T) {
	var upLCs []string
	var upNotes []string
	lcs := &lcmock.Repo{
		GetByLCIDForUpdateFn: missing,
		UpsertFn: func(_ context.Context, l *lc.LC) error {
			upLCs = append(upLCs, l.LCID)
			return nil
		},
	}
	notes := &notificationmock.Repo{UpsertFn: func(_ context.Context, n *notification.Notification) error {
		upNotes = append(upNotes, n.NotificationID)
		return nil
	}}
	fields := map[string]string{}
	sessions := &sessionmock.Repo{SetFieldFn: func(_ context.Context, _ string, f, v string) error {
		fields[f] = v
		return nil
	}}
	txs := 0
	tx := uowmock.New().WithWithinTx(func(_ context.Context, fn func(uow.Repos) error) error {
		txs++
		return fn(uow.Repos{LCs: lcs, Notifications: notes})
	})

	err := NewUsecase(lcs, notes, sessions, tx).Import(context.Background(), "sess-1", sampleState())
	require.NoError(t, err)
	assert.Equal(t, 1, txs)
	assert.Equal(t, []string{"LC-1"}, upLCs)
	assert.Equal(t, []string{"notif-1"}, upNotes)
	assert.Equal(t, "admin@example.com", fields[session.FieldCurrentUser])
	assert.Equal(t, "ADMIN", fields[session.FieldUserRole])
}

func TestImport_RejectsInvalid(t *testing.T) {
	bad := sampleState()
	bad.LCs[0].Status = "REJECTED"
	err := NewUsecase(nil, nil, nil, uowmock.New()).Import(context.Background(), "", bad)
	assert.ErrorIs(t, err, ErrInvalidSnapshot)

	bad = sampleState()
	bad.Notifications[0].NotificationID = ""
	err = NewUsecase(nil, nil, nil, uowmock.New()).Import(context.Background(), "", bad)
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
}

func TestImport_RollsBackOnError(t *testing.T) {
	sentinel := errors.New("constraint")
	lcs := &lcmock.Repo{
		GetByLCIDForUpdateFn: missing,
		UpsertFn:             func(context.Context, *lc.LC) error { return sentinel },
	}
	tx := uowmock.Passthrough(uow.Repos{LCs: lcs, Notifications: &notificationmock.Repo{}})
	err := NewUsecase(lcs, nil, nil, tx).Import(context.Background(), "", sampleState())
	assert.ErrorIs(t, err, sentinel)
}

func TestEncodeDecode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleState()))
	assert.Contains(t, buf.String(), `"name": "lc-store"`)

	got, err := Decode(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(sampleState(), got); diff != "" {
		t.Fatalf("decode mismatch (-want +got):\n%s", diff)
	}

	_, err = Decode(bytes.NewBufferString(`{"name":"other-store","state":{}}`))
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
	_, err = Decode(bytes.NewBufferString(`not json`))
	assert.ErrorIs(t, err, ErrInvalidSnapshot)
}

func TestImport_SameOrLaterStatusOverwrites(t *testing.T) {
	var upserted int
	lcs := &lcmock.Repo{
		GetByLCIDForUpdateFn: func(_ context.Context, id string) (*lc.LC, error) {
			return &lc.LC{LCID: id, Status: lc.StatusAwaitingAdminReview}, nil
		},
		UpsertFn: func(context.Context, *lc.LC) error { upserted++; return nil },
	}
	tx := uowmock.Passthrough(uow.Repos{LCs: lcs, Notifications: &notificationmock.Repo{}})

	err := NewUsecase(lcs, nil, nil, tx).Import(context.Background(), "", sampleState())
	require.NoError(t, err)
	assert.Equal(t, 1, upserted)
}

func TestImport_RefusesToMoveStatusBackwards(t *testing.T) {
	lcs := &lcmock.Repo{
		GetByLCIDForUpdateFn: func(_ context.Context, id string) (*lc.LC, error) {
			return &lc.LC{LCID: id, Status: lc.StatusShipmentCompleted}, nil
		},
		UpsertFn: func(context.Context, *lc.LC) error {
			t.Fatal("upsert must not run")
			return nil
		},
	}
	tx := uowmock.Passthrough(uow.Repos{LCs: lcs, Notifications: &notificationmock.Repo{}})

	err := NewUsecase(lcs, nil, nil, tx).Import(context.Background(), "", sampleState())
	assert.ErrorIs(t, err, lc.ErrInvalidTransition)
}

func TestImport_LoadErrorAborts(t *testing.T) {
	boom := errors.New("db down")
	lcs := &lcmock.Repo{GetByLCIDForUpdateFn: func(context.Context, string) (*lc.LC, error) { return nil, boom }}
	tx := uowmock.Passthrough(uow.Repos{LCs: lcs, Notifications: &notificationmock.Repo{}})

	err := NewUsecase(lcs, nil, nil, tx).Import(context.Background(), "", sampleState())
	assert.ErrorIs(t, err, boom)
}

func TestDecode_BareState(t *testing.T) {
	want := sampleState()
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(want))

	got, err := Decode(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decode mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_RejectsBodiesWithoutState(t *testing.T) {
	for name, body := range map[string]string{
		"empty object": `{}`,
		"unknown keys": `{"items":[{"id":"LC-1"}]}`,
		"null state":   `{"name":"lc-store","state":null}`,
		"null body":    `null`,
		"array":        `[]`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(bytes.NewBufferString(body))
			assert.ErrorIs(t, err, ErrInvalidSnapshot)
		})
	}
}
