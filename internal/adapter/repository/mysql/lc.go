package mysql

import (
	"context"
	"strings"

	lcDomain "lcflow/internal/domain/lc"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LCRepository struct{ db *gorm.DB }

func NewLCRepository(db *gorm.DB) *LCRepository { return &LCRepository{db: db} }

func (r *LCRepository) Create(ctx context.Context, l *lcDomain.LC) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LCRepository) Save(ctx context.Context, l *lcDomain.LC) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LCRepository) GetByLCID(ctx context.Context, lcID string) (*lcDomain.LC, error) {
	var out lcDomain.LC
	res := r.db.WithContext(ctx).Where("lc_id = ?", lcID).First(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

// GetByLCIDForUpdate issues SELECT ... FOR UPDATE; sqlite drops the clause
// and relies on its single writer.
func (r *LCRepository) GetByLCIDForUpdate(ctx context.Context, lcID string) (*lcDomain.LC, error) {
	var out lcDomain.LC
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("lc_id = ?", lcID).
		First(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

// List filters status and creator in SQL. Search runs over the decoded
// rows since applicant and beneficiary live inside the form_data JSON.
func (r *LCRepository) List(ctx context.Context, f lcDomain.Filter) ([]lcDomain.LC, error) {
	q := r.db.WithContext(ctx).Model(&lcDomain.LC{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CreatedBy != "" {
		q = q.Where("created_by = ?", f.CreatedBy)
	}

	var rows []lcDomain.LC
	if err := q.Order("created_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return rows, nil
	}
	out := rows[:0]
	for _, l := range rows {
		if matches(l, term) {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *LCRepository) Upsert(ctx context.Context, l *lcDomain.LC) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "lc_id"}}, UpdateAll: true}).
		Create(l).Error
}

func matches(l lcDomain.LC, term string) bool {
	for _, s := range []string{l.Reference, l.FormData.ApplicantName, l.FormData.BeneficiaryName} {
		if strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}

type BlobRepository struct{ db *gorm.DB }

func NewBlobRepository(db *gorm.DB) *BlobRepository { return &BlobRepository{db: db} }

func (r *BlobRepository) Create(ctx context.Context, b *lcDomain.DocumentBlob) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BlobRepository) GetByDocumentID(ctx context.Context, documentID string) (*lcDomain.DocumentBlob, error) {
	var out lcDomain.DocumentBlob
	res := r.db.WithContext(ctx).Where("document_id = ?", documentID).First(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}
