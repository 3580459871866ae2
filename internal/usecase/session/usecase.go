package session

import (
	"context"
	"strings"

	domain "lcflow/internal/domain/session"
)

type Usecase struct{ repo domain.Repository }

func NewUsecase(r domain.Repository) *Usecase { return &Usecase{repo: r} }

func (u *Usecase) Get(ctx context.Context, sessionID string) (domain.Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return domain.Session{}, domain.ErrMissingID
	}
	return u.repo.Get(ctx, sessionID)
}

func (u *Usecase) SetCurrentUser(ctx context.Context, sessionID, user string) (domain.Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return domain.Session{}, domain.ErrMissingID
	}
	if err := u.repo.SetField(ctx, sessionID, domain.FieldCurrentUser, user); err != nil {
		return domain.Session{}, err
	}
	return u.repo.Get(ctx, sessionID)
}

func (u *Usecase) SetUserRole(ctx context.Context, sessionID, role string) (domain.Session, error) {
	if strings.TrimSpace(sessionID) == "" {
		return domain.Session{}, domain.ErrMissingID
	}
	r, err := domain.ParseRole(role)
	if err != nil {
		return domain.Session{}, err
	}
	if err := u.repo.SetField(ctx, sessionID, domain.FieldUserRole, string(r)); err != nil {
		return domain.Session{}, err
	}
	return u.repo.Get(ctx, sessionID)
}
