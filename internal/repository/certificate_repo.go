package repository

import (
	"context"

	"gorm.io/gorm"

	"certhub/backend/internal/model"
)

// CertificateRepository 证书数据访问接口
type CertificateRepository interface {
	Create(ctx context.Context, cert *model.Certificate) error
	// GetOwned 查询属于指定提交者的证书；他人记录与不存在的记录同样返回 gorm.ErrRecordNotFound
	GetOwned(ctx context.Context, certID, submitterID string) (*model.Certificate, error)
	Update(ctx context.Context, cert *model.Certificate) error
	Delete(ctx context.Context, certID string) error
	ListBySubmitter(ctx context.Context, submitterID, statusFilter string) ([]model.Certificate, error)
	ListSubmitted(ctx context.Context) ([]model.Certificate, error)
	DeleteBySubmitter(ctx context.Context, submitterID string) error
}

// certificateRepo CertificateRepository 的 GORM 实现
type certificateRepo struct {
	db *gorm.DB
}

// NewCertificateRepo 创建 CertificateRepository 实例
func NewCertificateRepo(db *gorm.DB) CertificateRepository {
	return &certificateRepo{db: db}
}

func (r *certificateRepo) Create(ctx context.Context, cert *model.Certificate) error {
	return r.db.WithContext(ctx).Create(cert).Error
}

func (r *certificateRepo) GetOwned(ctx context.Context, certID, submitterID string) (*model.Certificate, error) {
	var cert model.Certificate
	err := r.db.WithContext(ctx).
		Where("cert_id = ? AND submitter_id = ?", certID, submitterID).
		First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *certificateRepo) Update(ctx context.Context, cert *model.Certificate) error {
	return r.db.WithContext(ctx).Save(cert).Error
}

func (r *certificateRepo) Delete(ctx context.Context, certID string) error {
	return r.db.WithContext(ctx).Where("cert_id = ?", certID).Delete(&model.Certificate{}).Error
}

func (r *certificateRepo) ListBySubmitter(ctx context.Context, submitterID, statusFilter string) ([]model.Certificate, error) {
	var certs []model.Certificate
	db := r.db.WithContext(ctx).Where("submitter_id = ?", submitterID)
	if statusFilter != "" {
		db = db.Where("status = ?", statusFilter)
	}
	err := db.Order("created_at DESC").Find(&certs).Error
	if err != nil {
		return nil, err
	}
	return certs, nil
}

func (r *certificateRepo) ListSubmitted(ctx context.Context) ([]model.Certificate, error) {
	var certs []model.Certificate
	err := r.db.WithContext(ctx).
		Preload("Submitter").
		Where("status = ?", model.CertStatusSubmitted).
		Order("submitted_at ASC").
		Find(&certs).Error
	if err != nil {
		return nil, err
	}
	return certs, nil
}

func (r *certificateRepo) DeleteBySubmitter(ctx context.Context, submitterID string) error {
	return r.db.WithContext(ctx).
		Where("submitter_id = ?", submitterID).
		Delete(&model.Certificate{}).Error
}
