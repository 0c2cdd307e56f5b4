package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"gorm.io/gorm"

	"certhub/backend/internal/model"
)

// ── Mock UserRepository ──

type mockUserRepo struct {
	users map[string]*model.User
	seq   int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	if user.UserID == "" {
		m.seq++
		user.UserID = fmt.Sprintf("uid-%03d", m.seq)
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByAccountID(_ context.Context, accountID string) (*model.User, error) {
	for _, u := range m.users {
		if u.AccountID == accountID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	m.users[user.UserID] = user
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	delete(m.users, id)
	return nil
}

func (m *mockUserRepo) List(_ context.Context, roleFilter, keyword string, offset, limit int) ([]model.User, int64, error) {
	var all []model.User
	for _, u := range m.users {
		if roleFilter != "" && u.Role != roleFilter {
			continue
		}
		if keyword != "" && !strings.Contains(u.Name, keyword) && !strings.Contains(u.AccountID, keyword) {
			continue
		}
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].AccountID < all[j].AccountID })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

// ── Mock CertificateRepository ──

type mockCertificateRepo struct {
	certs map[string]*model.Certificate
	users *mockUserRepo // ListSubmitted 需要关联提交者
	seq   int
}

func newMockCertificateRepo() *mockCertificateRepo {
	return &mockCertificateRepo{certs: make(map[string]*model.Certificate)}
}

func (m *mockCertificateRepo) Create(_ context.Context, cert *model.Certificate) error {
	if cert.CertID == "" {
		m.seq++
		cert.CertID = fmt.Sprintf("cert-%03d", m.seq)
	}
	if cert.CreatedAt.IsZero() {
		cert.CreatedAt = time.Now()
	}
	stored := *cert
	m.certs[cert.CertID] = &stored
	return nil
}

func (m *mockCertificateRepo) GetOwned(_ context.Context, certID, submitterID string) (*model.Certificate, error) {
	if c, ok := m.certs[certID]; ok && c.SubmitterID == submitterID {
		copied := *c
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCertificateRepo) Update(_ context.Context, cert *model.Certificate) error {
	stored := *cert
	m.certs[cert.CertID] = &stored
	return nil
}

func (m *mockCertificateRepo) Delete(_ context.Context, certID string) error {
	delete(m.certs, certID)
	return nil
}

func (m *mockCertificateRepo) ListBySubmitter(_ context.Context, submitterID, statusFilter string) ([]model.Certificate, error) {
	var result []model.Certificate
	for _, c := range m.certs {
		if c.SubmitterID != submitterID {
			continue
		}
		if statusFilter != "" && c.Status != statusFilter {
			continue
		}
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CertID < result[j].CertID })
	return result, nil
}

func (m *mockCertificateRepo) ListSubmitted(_ context.Context) ([]model.Certificate, error) {
	var result []model.Certificate
	for _, c := range m.certs {
		if c.Status != model.CertStatusSubmitted {
			continue
		}
		copied := *c
		if m.users != nil {
			if u, ok := m.users.users[c.SubmitterID]; ok {
				copied.Submitter = u
			}
		}
		result = append(result, copied)
	}
	sort.Slice(result, func(i, j int) bool {
		ti, tj := result[i].SubmittedAt, result[j].SubmittedAt
		if ti == nil || tj == nil {
			return result[i].CertID < result[j].CertID
		}
		return ti.Before(*tj)
	})
	return result, nil
}

func (m *mockCertificateRepo) DeleteBySubmitter(_ context.Context, submitterID string) error {
	for id, c := range m.certs {
		if c.SubmitterID == submitterID {
			delete(m.certs, id)
		}
	}
	return nil
}

// ── Mock FileRecordRepository ──

type mockFileRecordRepo struct {
	records map[string]*model.FileRecord
	seq     int
}

func newMockFileRecordRepo() *mockFileRecordRepo {
	return &mockFileRecordRepo{records: make(map[string]*model.FileRecord)}
}

func (m *mockFileRecordRepo) Create(_ context.Context, record *model.FileRecord) error {
	if record.FileID == "" {
		m.seq++
		record.FileID = fmt.Sprintf("file-%03d", m.seq)
	}
	if record.UploadTime.IsZero() {
		record.UploadTime = time.Now()
	}
	m.records[record.FileID] = record
	return nil
}

func (m *mockFileRecordRepo) ListByUser(_ context.Context, userID string) ([]model.FileRecord, error) {
	var result []model.FileRecord
	for _, r := range m.records {
		if r.UserID == userID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockFileRecordRepo) DeleteByUser(_ context.Context, userID string) error {
	for id, r := range m.records {
		if r.UserID == userID {
			delete(m.records, id)
		}
	}
	return nil
}

// ── Mock SystemConfigRepository ──

type mockSystemConfigRepo struct {
	configs map[string]*model.SystemConfig
	seq     int
}

func newMockSystemConfigRepo() *mockSystemConfigRepo {
	return &mockSystemConfigRepo{configs: make(map[string]*model.SystemConfig)}
}

func (m *mockSystemConfigRepo) GetByKey(_ context.Context, key string) (*model.SystemConfig, error) {
	if c, ok := m.configs[key]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSystemConfigRepo) Upsert(_ context.Context, cfg *model.SystemConfig) error {
	if existing, ok := m.configs[cfg.ConfigKey]; ok {
		existing.ConfigValue = cfg.ConfigValue
		existing.UpdatedBy = cfg.UpdatedBy
		if cfg.Description != nil {
			existing.Description = cfg.Description
		}
		existing.UpdatedAt = time.Now()
		return nil
	}
	m.seq++
	cfg.ConfigID = fmt.Sprintf("conf-%03d", m.seq)
	cfg.UpdatedAt = time.Now()
	stored := *cfg
	m.configs[cfg.ConfigKey] = &stored
	return nil
}

func (m *mockSystemConfigRepo) List(_ context.Context) ([]model.SystemConfig, error) {
	var result []model.SystemConfig
	for _, c := range m.configs {
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ConfigKey < result[j].ConfigKey })
	return result, nil
}
