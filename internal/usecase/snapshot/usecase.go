package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"lcflow/internal/domain/lc"
	"lcflow/internal/domain/notification"
	"lcflow/internal/domain/session"
	"lcflow/internal/domain/uow"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// StoreKey names the persisted blob.
const StoreKey = "lc-store"

var ErrInvalidSnapshot = errors.New("invalid snapshot")

// State is the whole persisted application state. Document blobs are not
// part of it; only their metadata travels with each LC.
type State struct {
	LCs           []lc.LC                     `json:"lcs"`
	Notifications []notification.Notification `json:"notifications"`
	CurrentUser   string                      `json:"currentUser"`
	UserRole      session.Role                `json:"userRole"`
}

type envelope struct {
	Name    string `json:"name"`
	State   State  `json:"state"`
	Version int    `json:"version"`
}

type Usecase struct {
	lcs           lc.Repository
	notifications notification.Repository
	sessions      session.Repository
	uow           uow.UnitOfWork
}

// NewUsecase: sessions may be nil, in which case the session part of the
// state is left at its defaults.
func NewUsecase(lcs lc.Repository, notes notification.Repository, sessions session.Repository, tx uow.UnitOfWork) *Usecase {
	return &Usecase{lcs: lcs, notifications: notes, sessions: sessions, uow: tx}
}

func (u *Usecase) Export(ctx context.Context, sessionID string) (*State, error) {
	lcs, err := u.lcs.List(ctx, lc.Filter{})
	if err != nil {
		return nil, fmt.Errorf("list lcs: %w", err)
	}
	notes, err := u.notifications.List(ctx, notification.Filter{})
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	st := &State{LCs: lcs, Notifications: notes, UserRole: session.RoleImporter}
	if st.LCs == nil {
		st.LCs = []lc.LC{}
	}
	if st.Notifications == nil {
		st.Notifications = []notification.Notification{}
	}
	if u.sessions != nil && sessionID != "" {
		s, err := u.sessions.Get(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("get session: %w", err)
		}
		st.CurrentUser, st.UserRole = s.CurrentUser, s.UserRole
	}
	return st, nil
}

// Import rehydrates the state whole: every LC and notification is upserted
// by its public id in one transaction.
func (u *Usecase) Import(ctx context.Context, sessionID string, st State) error {
	if err := validate(st); err != nil {
		return err
	}

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		for i := range st.LCs {
			l := st.LCs[i]
			if err := notBehind(ctx, r.LCs, &l); err != nil {
				return err
			}
			l.ID = 0
			if err := r.LCs.Upsert(ctx, &l); err != nil {
				return fmt.Errorf("upsert lc %s: %w", l.LCID, err)
			}
		}
		for i := range st.Notifications {
			n := st.Notifications[i]
			n.ID = 0
			if err := r.Notifications.Upsert(ctx, &n); err != nil {
				return fmt.Errorf("upsert notification %s: %w", n.NotificationID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if u.sessions != nil && sessionID != "" {
		if err := u.sessions.SetField(ctx, sessionID, session.FieldCurrentUser, st.CurrentUser); err != nil {
			return err
		}
		if st.UserRole != "" {
			if err := u.sessions.SetField(ctx, sessionID, session.FieldUserRole, string(st.UserRole)); err != nil {
				return err
			}
		}
	}

	logrus.WithFields(logrus.Fields{"lcs": len(st.LCs), "notifications": len(st.Notifications)}).
		Info("snapshot imported")
	return nil
}

// notBehind refuses to move a stored LC back to an earlier status.
func notBehind(ctx context.Context, repo lc.Repository, l *lc.LC) error {
	cur, err := repo.GetByLCIDForUpdate(ctx, l.LCID)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, lc.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("load lc %s: %w", l.LCID, err)
	}
	if l.Status.Rank() < cur.Status.Rank() {
		return fmt.Errorf("%w: lc %s is %s, snapshot has %s",
			lc.ErrInvalidTransition, l.LCID, cur.Status, l.Status)
	}
	return nil
}

func validate(st State) error {
	for i, l := range st.LCs {
		if l.LCID == "" {
			return fmt.Errorf("%w: lcs[%d]: missing id", ErrInvalidSnapshot, i)
		}
		if !l.Status.Valid() {
			return fmt.Errorf("%w: lcs[%d]: unknown status %q", ErrInvalidSnapshot, i, string(l.Status))
		}
	}
	for i, n := range st.Notifications {
		if n.NotificationID == "" {
			return fmt.Errorf("%w: notifications[%d]: missing id", ErrInvalidSnapshot, i)
		}
		if !n.Type.Valid() {
			return fmt.Errorf("%w: notifications[%d]: unknown type %q", ErrInvalidSnapshot, i, string(n.Type))
		}
	}
	if st.UserRole != "" && !st.UserRole.Valid() {
		return fmt.Errorf("%w: unknown user role %q", ErrInvalidSnapshot, string(st.UserRole))
	}
	return nil
}

// Encode writes the state wrapped in its named envelope.
func Encode(w io.Writer, st State) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(envelope{Name: StoreKey, State: st})
}

// Decode accepts the envelope written by Encode, or a bare state object
// with the same fields. A body carrying neither is rejected.
func Decode(r io.Reader) (State, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(body, &top); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	raw, wrapped := top["state"]
	if wrapped {
		var name string
		if n, ok := top["name"]; ok {
			if err := json.Unmarshal(n, &name); err != nil {
				return State{}, fmt.Errorf("%w: name: %v", ErrInvalidSnapshot, err)
			}
		}
		if name != "" && name != StoreKey {
			return State{}, fmt.Errorf("%w: unexpected name %q", ErrInvalidSnapshot, name)
		}
	} else {
		if !hasStateFields(top) {
			return State{}, fmt.Errorf("%w: missing state", ErrInvalidSnapshot)
		}
		raw = body
	}

	var st *State
	if err := json.Unmarshal(raw, &st); err != nil {
		return State{}, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if st == nil {
		return State{}, fmt.Errorf("%w: missing state", ErrInvalidSnapshot)
	}
	return *st, nil
}

func hasStateFields(top map[string]json.RawMessage) bool {
	for _, k := range []string{"lcs", "notifications", "currentUser", "userRole"} {
		if _, ok := top[k]; ok {
			return true
		}
	}
	return false
}
