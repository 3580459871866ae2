package lc

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	domain "lcflow/internal/domain/lc"
	"lcflow/internal/domain/notification"
	"lcflow/internal/domain/onchain"
	"lcflow/internal/domain/uow"
	"lcflow/pkg/id"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrNoAnchorer   = errors.New("no on-chain anchorer configured")
	ErrAnchorFailed = errors.New("anchor documents")
)

type Usecase struct {
	lcs        domain.Repository
	blobs      domain.BlobRepository
	uow        uow.UnitOfWork
	anchorer   onchain.Anchorer
	dispatcher notification.Dispatcher
	now        func() time.Time
}

type Option func(*Usecase)

func WithAnchorer(a onchain.Anchorer) Option { return func(u *Usecase) { u.anchorer = a } }

func WithDispatcher(d notification.Dispatcher) Option {
	return func(u *Usecase) { u.dispatcher = d }
}

func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }

// NewUsecase: reads go through the repos, mutations through the UoW.
func NewUsecase(lcs domain.Repository, blobs domain.BlobRepository, tx uow.UnitOfWork, opts ...Option) *Usecase {
	u := &Usecase{lcs: lcs, blobs: blobs, uow: tx, now: time.Now}
	for _, o := range opts {
		o(u)
	}
	return u
}

func (u *Usecase) Create(ctx context.Context, in CreateInput) (*domain.LC, error) {
	now := u.now().UTC()
	l := &domain.LC{
		LCID:      id.NewLCID(now),
		Reference: id.NewReference(now),
		FormData:  in.FormData,
		Status:    domain.StatusCreated,
		CreatedBy: in.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var n *notification.Notification
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.LCs.Create(ctx, l); err != nil {
			return err
		}
		var err error
		n, err = appendNotification(ctx, r, notification.TypeLCCreated,
			"New LC Created",
			fmt.Sprintf("Letter of Credit %s has been created successfully.", l.Reference),
			l.LCID, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"lc_id": l.LCID, "created_by": l.CreatedBy}).Info("lc created")
	u.dispatch(ctx, n)
	return l, nil
}

func (u *Usecase) SubmitExporterDocs(ctx context.Context, in SubmitDocsInput) (*domain.LC, error) {
	if err := checkDocuments(in.Documents); err != nil {
		return nil, err
	}
	now := u.now().UTC()

	var (
		out *domain.LC
		n   *notification.Notification
	)
	err := u.uow.WithinLCTx(ctx, in.LCID, func(r uow.Repos, l *domain.LC) error {
		if l.ExporterDocs != nil {
			return domain.ErrDocsAlreadySubmitted
		}
		if !l.Status.CanTransitionTo(domain.StatusAwaitingAdminReview) {
			return domain.ErrInvalidTransition
		}

		docs := make([]domain.Document, 0, len(in.Documents))
		for _, d := range in.Documents {
			sum := sha256.Sum256(d.Content)
			doc := domain.Document{
				ID:         id.WithPrefix("doc"),
				Type:       d.Type,
				Name:       d.Name,
				FileSize:   int64(len(d.Content)),
				MimeType:   d.MimeType,
				SHA256:     hex.EncodeToString(sum[:]),
				UploadedAt: now,
				UploadedBy: in.UserID,
			}
			blob := &domain.DocumentBlob{DocumentID: doc.ID, LCID: l.LCID, Content: d.Content}
			if err := r.Blobs.Create(ctx, blob); err != nil {
				return err
			}
			docs = append(docs, doc)
		}

		l.ExporterDocs = &domain.ExporterDocuments{
			ID:          id.WithPrefix("docs"),
			LCID:        l.LCID,
			Status:      domain.ReviewSubmitted,
			Documents:   docs,
			SubmittedAt: &now,
			SubmittedBy: in.UserID,
		}
		l.Status = domain.StatusAwaitingAdminReview
		l.UpdatedAt = now
		if err := r.LCs.Save(ctx, l); err != nil {
			return err
		}

		var err error
		n, err = appendNotification(ctx, r, notification.TypeExporterDocsSubmitted,
			"Exporter Documents Submitted",
			fmt.Sprintf("Documents for LC %s have been submitted and are awaiting admin review.", l.LCID),
			l.LCID, now)
		out = l
		return err
	})
	if err != nil {
		return nil, translate(err)
	}

	logrus.WithFields(logrus.Fields{"lc_id": out.LCID, "documents": len(out.ExporterDocs.Documents)}).
		Info("exporter documents submitted")
	u.dispatch(ctx, n)
	return out, nil
}

// Approve records the admin review and the on-chain receipt as given; the
// receipt is not verified.
func (u *Usecase) Approve(ctx context.Context, in ApproveInput) (*domain.LC, error) {
	now := u.now().UTC()

	var (
		out *domain.LC
		n   *notification.Notification
	)
	err := u.uow.WithinLCTx(ctx, in.LCID, func(r uow.Repos, l *domain.LC) error {
		if err := approvable(l); err != nil {
			return err
		}

		data := in.Onchain
		review := &domain.AdminReview{
			ID:                 id.WithPrefix("review"),
			LCID:               l.LCID,
			Status:             domain.ReviewApproved,
			ReviewedAt:         &now,
			ReviewedBy:         in.AdminID,
			Comments:           in.Comments,
			OnchainTxHash:      data.TxHash,
			OnchainBlockNumber: data.BlockNumber,
		}
		if !data.Timestamp.IsZero() {
			ts := data.Timestamp
			review.OnchainTimestamp = &ts
		}

		l.AdminReview = review
		l.Onchain = &data
		l.Status = domain.StatusOnchain
		l.UpdatedAt = now
		if err := r.LCs.Save(ctx, l); err != nil {
			return err
		}

		var err error
		n, err = appendNotification(ctx, r, notification.TypeAdminApproved,
			"LC Approved and On-chain",
			fmt.Sprintf("LC %s has been approved and is now on the blockchain.", l.LCID),
			l.LCID, now)
		out = l
		return err
	})
	if err != nil {
		return nil, translate(err)
	}

	logrus.WithFields(logrus.Fields{"lc_id": out.LCID, "tx_hash": out.Onchain.TxHash, "reviewed_by": in.AdminID}).
		Info("lc approved")
	u.dispatch(ctx, n)
	return out, nil
}

// ApproveAndAnchor submits the exporter document hashes to the anchorer,
// outside any transaction, then approves with the returned receipt.
func (u *Usecase) ApproveAndAnchor(ctx context.Context, in AnchorInput) (*domain.LC, error) {
	if u.anchorer == nil {
		return nil, ErrNoAnchorer
	}
	l, err := u.Get(ctx, in.LCID)
	if err != nil {
		return nil, err
	}
	if err := approvable(l); err != nil {
		return nil, err
	}

	var batch []onchain.DocumentHash
	if l.ExporterDocs != nil {
		for _, d := range l.ExporterDocs.Documents {
			batch = append(batch, onchain.DocumentHash{
				Hash: "0x" + d.SHA256,
				Name: d.Name,
				Size: d.FileSize,
				Type: string(d.Type),
			})
		}
	}

	receipt, err := u.anchorer.SubmitDocumentBatch(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %w", ErrAnchorFailed, l.LCID, err)
	}

	return u.Approve(ctx, ApproveInput{
		LCID:     in.LCID,
		AdminID:  in.AdminID,
		Comments: in.Comments,
		Onchain: domain.OnchainData{
			TxHash:      receipt.TxHash,
			BlockNumber: receipt.BlockNumber,
			Timestamp:   receipt.Timestamp,
			Network:     receipt.Network,
			GasUsed:     receipt.GasUsed,
			GasPrice:    receipt.GasPrice,
		},
	})
}

func (u *Usecase) UpdateShipmentStatus(ctx context.Context, in ShipmentInput) (*domain.LC, error) {
	target, err := in.Phase.LCStatus()
	if err != nil {
		return nil, err
	}
	now := u.now().UTC()

	var (
		out *domain.LC
		n   *notification.Notification
	)
	err = u.uow.WithinLCTx(ctx, in.LCID, func(r uow.Repos, l *domain.LC) error {
		if !l.Status.CanTransitionTo(target) {
			return domain.ErrInvalidTransition
		}

		s := l.Shipment
		if s == nil {
			s = &domain.ShipmentStatus{ID: id.WithPrefix("shipment"), LCID: l.LCID}
		}
		s.Status = in.Phase
		if s.Provider == "" {
			s.Provider = in.Provider
		}
		if in.Notes != "" {
			s.Notes = in.Notes
		}
		if in.TrackingNumber != "" {
			s.TrackingNumber = in.TrackingNumber
		}
		if in.EstimatedDelivery != nil {
			est := in.EstimatedDelivery.UTC()
			s.EstimatedDelivery = &est
		}
		stampPhase(s, in.Phase, now)
		s.UpdatedAt = now

		l.Shipment = s
		l.Status = target
		l.UpdatedAt = now
		if err := r.LCs.Save(ctx, l); err != nil {
			return err
		}

		typ := notification.TypeShipmentStarted
		if in.Phase == domain.PhaseCompleted {
			typ = notification.TypeShipmentCompleted
		}
		label := strings.ToLower(strings.ReplaceAll(string(in.Phase), "_", " "))
		var err error
		n, err = appendNotification(ctx, r, typ,
			"Shipment "+label,
			fmt.Sprintf("Shipment for LC %s has been %s.", l.LCID, label),
			l.LCID, now)
		out = l
		return err
	})
	if err != nil {
		return nil, translate(err)
	}

	logrus.WithFields(logrus.Fields{"lc_id": out.LCID, "phase": in.Phase, "status": out.Status}).
		Info("shipment updated")
	u.dispatch(ctx, n)
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, lcID string) (*domain.LC, error) {
	l, err := u.lcs.GetByLCID(ctx, lcID)
	if err != nil {
		return nil, translate(err)
	}
	return l, nil
}

func (u *Usecase) ListByStatus(ctx context.Context, s domain.Status) ([]domain.LC, error) {
	return u.lcs.List(ctx, domain.Filter{Status: s})
}

func (u *Usecase) ListByCreator(ctx context.Context, userID string) ([]domain.LC, error) {
	return u.lcs.List(ctx, domain.Filter{CreatedBy: userID})
}

func (u *Usecase) List(ctx context.Context, f domain.Filter) ([]domain.LC, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, string(f.Status))
	}
	return u.lcs.List(ctx, f)
}

func (u *Usecase) Summary(ctx context.Context) (*Summary, error) {
	all, err := u.lcs.List(ctx, domain.Filter{})
	if err != nil {
		return nil, err
	}

	out := &Summary{ByStatus: make(map[domain.Status]int, len(domain.Lifecycle)), TotalValue: decimal.Zero}
	for _, s := range domain.Lifecycle {
		out.ByStatus[s] = 0
	}
	for _, l := range all {
		out.Total++
		out.ByStatus[l.Status]++
		switch l.Status {
		case domain.StatusAwaitingAdminReview:
			out.PendingReview++
		case domain.StatusOnchain:
			out.Onchain++
		case domain.StatusShipmentInitiated, domain.StatusShipmentInTransit:
			out.InShipment++
		case domain.StatusShipmentCompleted:
			out.Completed++
		}
		// amounts typed into the form may carry thousands separators
		amt, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(l.FormData.LCAmount), ",", ""))
		if err != nil {
			continue
		}
		out.TotalValue = out.TotalValue.Add(amt)
	}
	return out, nil
}

func (u *Usecase) DocumentContent(ctx context.Context, lcID, docID string) (*domain.Document, []byte, error) {
	l, err := u.Get(ctx, lcID)
	if err != nil {
		return nil, nil, err
	}
	doc, ok := l.FindDocument(docID)
	if !ok {
		return nil, nil, domain.ErrDocumentNotFound
	}
	b, err := u.blobs.GetByDocumentID(ctx, docID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, domain.ErrDocumentNotFound
		}
		return nil, nil, err
	}
	return &doc, b.Content, nil
}

func (u *Usecase) dispatch(ctx context.Context, n *notification.Notification) {
	if u.dispatcher == nil || n == nil {
		return
	}
	if err := u.dispatcher.Dispatch(ctx, *n); err != nil {
		logrus.WithFields(logrus.Fields{"notification_id": n.NotificationID, "lc_id": n.LCID}).
			Warnf("dispatch notification: %v", err)
	}
}

func appendNotification(ctx context.Context, r uow.Repos, t notification.Type, title, msg, lcID string, now time.Time) (*notification.Notification, error) {
	n := notification.New(id.WithPrefix("notif"), t, title, msg, lcID, now)
	if err := r.Notifications.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func approvable(l *domain.LC) error {
	switch {
	case l.Status == domain.StatusAwaitingAdminReview:
		return nil
	case l.Status.Rank() > domain.StatusAwaitingAdminReview.Rank():
		return domain.ErrAlreadyApproved
	}
	return domain.ErrInvalidTransition
}

// stampPhase sets the phase timestamp only the first time the phase is reached.
func stampPhase(s *domain.ShipmentStatus, p domain.ShipmentPhase, now time.Time) {
	t := now
	switch p {
	case domain.PhaseInitiated:
		if s.InitiatedAt == nil {
			s.InitiatedAt = &t
		}
	case domain.PhaseInTransit:
		if s.InTransitAt == nil {
			s.InTransitAt = &t
		}
	case domain.PhaseCompleted:
		if s.CompletedAt == nil {
			s.CompletedAt = &t
			s.ActualDelivery = &t
		}
	}
}

func checkDocuments(docs []DocumentInput) error {
	if len(docs) == 0 {
		return fmt.Errorf("%w: at least one document is required", domain.ErrInvalidDocument)
	}
	for i, d := range docs {
		switch {
		case !d.Type.Valid():
			return fmt.Errorf("%w: documents[%d]: unknown type %q", domain.ErrInvalidDocument, i, d.Type)
		case strings.TrimSpace(d.Name) == "":
			return fmt.Errorf("%w: documents[%d]: name is required", domain.ErrInvalidDocument, i)
		case len(d.Content) == 0:
			return fmt.Errorf("%w: documents[%d]: empty content", domain.ErrInvalidDocument, i)
		case len(d.Content) > domain.MaxDocumentSize:
			return fmt.Errorf("%w: documents[%d]: exceeds %d bytes", domain.ErrInvalidDocument, i, domain.MaxDocumentSize)
		case !domain.AllowedMimeTypes[d.MimeType]:
			return fmt.Errorf("%w: documents[%d]: unsupported mime type %q", domain.ErrInvalidDocument, i, d.MimeType)
		}
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}
