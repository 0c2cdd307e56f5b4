package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"certhub/backend/internal/dto"
	"certhub/backend/internal/model"
	"certhub/backend/internal/repository"
)

// ── 证书模块业务错误 ──

var (
	ErrCertNotFoundOrForbidden = errors.New("证书不存在或无权限")
	ErrCertImmutable           = errors.New("已提交的证书不可修改")
	ErrCertDeleteImmutable     = errors.New("已提交的证书不可删除")
	ErrStudentIDRequired       = errors.New("请填写学号")
	ErrStudentNameRequired     = errors.New("请填写学生姓名")
	ErrAdvisorRequired         = errors.New("请填写指导教师")
	ErrStudentIDNot13          = errors.New("学号必须为13位")
	ErrFilePathRequired        = errors.New("请先上传证书文件")
	ErrDeadlinePassed          = errors.New("提交截止时间已过")
	ErrRecognitionUnavailable  = errors.New("识别服务未配置，请联系管理员")
)

// deadlineLayout 截止时间配置值的格式
const deadlineLayout = "2006-01-02 15:04:05"

// extractionMethodGLM4V 视觉模型识别方式标记
const extractionMethodGLM4V = "glm4v"

// recognitionClient 视觉识别客户端（便于测试替换）
type recognitionClient interface {
	ExtractText(ctx context.Context, imagePath, prompt string) (string, error)
}

// imageNormalizer 图片预处理器：PDF 渲染与尺寸归一
type imageNormalizer interface {
	PDFToImage(ctx context.Context, pdfPath string) (string, error)
	ResizeIfNeeded(imagePath string) (string, error)
}

// CertificateService 证书业务接口
type CertificateService interface {
	Extract(ctx context.Context, callerID string, req *dto.ExtractRequest) (*dto.ExtractResponse, error)
	SaveDraft(ctx context.Context, callerID string, req *dto.SaveDraftRequest) (*dto.CertificateResponse, error)
	Submit(ctx context.Context, callerID string, req *dto.SubmitRequest) (*dto.CertificateResponse, error)
	ListMine(ctx context.Context, callerID string, req *dto.CertificateListRequest) ([]dto.CertificateResponse, error)
	Update(ctx context.Context, callerID string, certID string, req *dto.UpdateCertificateRequest) (*dto.CertificateResponse, error)
	Delete(ctx context.Context, callerID string, certID string) error
}

type certificateService struct {
	repo       *repository.Repository
	recognizer recognitionClient
	normalizer imageNormalizer
	logger     *zap.Logger
	now        func() time.Time // 测试时可替换
}

// NewCertificateService 创建 CertificateService 实例；recognizer 允许为 nil（未配置识别服务）
func NewCertificateService(
	repo *repository.Repository,
	recognizer recognitionClient,
	normalizer imageNormalizer,
	logger *zap.Logger,
) CertificateService {
	return &certificateService{
		repo:       repo,
		recognizer: recognizer,
		normalizer: normalizer,
		logger:     logger,
		now:        time.Now,
	}
}

// ────────────────────── Extract ──────────────────────

// Extract 对已上传的证书文件执行识别：PDF 先渲染为 PNG，
// 过大的图片等比缩小后交给视觉模型，返回十个字段（未识别为空）。
func (s *certificateService) Extract(ctx context.Context, callerID string, req *dto.ExtractRequest) (*dto.ExtractResponse, error) {
	if s.recognizer == nil {
		return nil, ErrRecognitionUnavailable
	}
	caller, err := s.loadCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(req.FilePath); err != nil {
		return nil, ErrCertNotFoundOrForbidden
	}

	imagePath := req.FilePath
	if strings.EqualFold(filepath.Ext(req.FilePath), ".pdf") {
		rendered, err := s.normalizer.PDFToImage(ctx, req.FilePath)
		if err != nil {
			s.logger.Error("PDF 渲染失败", zap.String("path", req.FilePath), zap.Error(err))
			return nil, err
		}
		imagePath = rendered
	}

	resized, err := s.normalizer.ResizeIfNeeded(imagePath)
	if err != nil {
		s.logger.Error("图片缩放失败", zap.String("path", imagePath), zap.Error(err))
		return nil, err
	}

	text, err := s.recognizer.ExtractText(ctx, resized, buildExtractionPrompt())
	if err != nil {
		s.logger.Error("证书识别失败", zap.String("path", resized), zap.Error(err))
		return nil, err
	}

	fields := parseRecognitionText(text)
	fields["award_date"] = formatAwardDate(fields["award_date"])
	applyRoleDefaults(caller, fields)

	return &dto.ExtractResponse{
		Fields:           fields,
		ExtractionMethod: extractionMethodGLM4V,
	}, nil
}

// applyRoleDefaults 按角色覆盖身份字段：
// 学生提交自己的证书，学号与姓名取自账号；教师代学生提交，指导教师为其本人。
func applyRoleDefaults(caller *model.User, fields map[string]string) {
	switch caller.Role {
	case model.RoleStudent:
		fields["student_id"] = caller.AccountID
		fields["student_name"] = caller.Name
	case model.RoleTeacher:
		fields["advisor"] = caller.Name
	}
}

// ────────────────────── SaveDraft ──────────────────────

func (s *certificateService) SaveDraft(ctx context.Context, callerID string, req *dto.SaveDraftRequest) (*dto.CertificateResponse, error) {
	caller, err := s.loadCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	cert := s.buildCertificate(caller, &req.CertificateFields, req.FilePath, req.ExtractionMethod)
	cert.Status = model.CertStatusDraft

	if err := s.repo.Certificate.Create(ctx, cert); err != nil {
		s.logger.Error("保存草稿失败", zap.String("submitter_id", caller.UserID), zap.Error(err))
		return nil, err
	}
	return toCertificateResponse(cert), nil
}

// ────────────────────── Submit ──────────────────────

// Submit 提交证书。req.CertID 非空时把对应草稿原地转为已提交，
// 为空时直接以已提交状态创建新记录。
func (s *certificateService) Submit(ctx context.Context, callerID string, req *dto.SubmitRequest) (*dto.CertificateResponse, error) {
	caller, err := s.loadCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	fields := req.CertificateFields
	s.forceRoleFields(caller, &fields)

	if fields.StudentID == "" {
		return nil, ErrStudentIDRequired
	}
	if fields.StudentName == "" {
		return nil, ErrStudentNameRequired
	}
	if fields.Advisor == "" {
		return nil, ErrAdvisorRequired
	}
	if len(fields.StudentID) != 13 {
		return nil, ErrStudentIDNot13
	}
	if err := s.checkDeadline(ctx); err != nil {
		return nil, err
	}

	submittedAt := s.now()

	if req.CertID != "" {
		cert, err := s.repo.Certificate.GetOwned(ctx, req.CertID, caller.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCertNotFoundOrForbidden
			}
			s.logger.Error("查询证书失败", zap.String("cert_id", req.CertID), zap.Error(err))
			return nil, err
		}
		if cert.Status == model.CertStatusSubmitted {
			return nil, ErrCertImmutable
		}

		applyFields(cert, &fields)
		cert.Status = model.CertStatusSubmitted
		cert.SubmittedAt = &submittedAt
		if err := s.repo.Certificate.Update(ctx, cert); err != nil {
			s.logger.Error("提交证书失败", zap.String("cert_id", cert.CertID), zap.Error(err))
			return nil, err
		}
		return toCertificateResponse(cert), nil
	}

	if req.FilePath == "" {
		return nil, ErrFilePathRequired
	}
	cert := s.buildCertificate(caller, &fields, req.FilePath, req.ExtractionMethod)
	cert.Status = model.CertStatusSubmitted
	cert.SubmittedAt = &submittedAt
	if err := s.repo.Certificate.Create(ctx, cert); err != nil {
		s.logger.Error("提交证书失败", zap.String("submitter_id", caller.UserID), zap.Error(err))
		return nil, err
	}
	return toCertificateResponse(cert), nil
}

// checkDeadline 读取截止时间配置；未配置或格式异常视为不限制
func (s *certificateService) checkDeadline(ctx context.Context) error {
	cfg, err := s.repo.SystemConfig.GetByKey(ctx, model.ConfigKeySubmissionDeadline)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		s.logger.Error("查询截止时间配置失败", zap.Error(err))
		return err
	}
	deadline, err := time.ParseInLocation(deadlineLayout, cfg.ConfigValue, time.Local)
	if err != nil {
		s.logger.Warn("截止时间配置格式异常", zap.String("value", cfg.ConfigValue))
		return nil
	}
	if s.now().After(deadline) {
		return ErrDeadlinePassed
	}
	return nil
}

// ────────────────────── ListMine ──────────────────────

func (s *certificateService) ListMine(ctx context.Context, callerID string, req *dto.CertificateListRequest) ([]dto.CertificateResponse, error) {
	certs, err := s.repo.Certificate.ListBySubmitter(ctx, callerID, req.Status)
	if err != nil {
		s.logger.Error("查询证书列表失败", zap.String("submitter_id", callerID), zap.Error(err))
		return nil, err
	}
	resp := make([]dto.CertificateResponse, 0, len(certs))
	for i := range certs {
		resp = append(resp, *toCertificateResponse(&certs[i]))
	}
	return resp, nil
}

// ────────────────────── Update ──────────────────────

// Update 更新草稿字段；他人记录与不存在的记录一律按无权限处理
func (s *certificateService) Update(ctx context.Context, callerID string, certID string, req *dto.UpdateCertificateRequest) (*dto.CertificateResponse, error) {
	caller, err := s.loadCaller(ctx, callerID)
	if err != nil {
		return nil, err
	}
	cert, err := s.repo.Certificate.GetOwned(ctx, certID, caller.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertNotFoundOrForbidden
		}
		s.logger.Error("查询证书失败", zap.String("cert_id", certID), zap.Error(err))
		return nil, err
	}
	if cert.Status == model.CertStatusSubmitted {
		return nil, ErrCertImmutable
	}

	if req.StudentID != nil {
		cert.StudentID = *req.StudentID
	}
	if req.StudentName != nil {
		cert.StudentName = *req.StudentName
	}
	if req.Department != nil {
		cert.Department = req.Department
	}
	if req.CompetitionName != nil {
		cert.CompetitionName = req.CompetitionName
	}
	if req.AwardCategory != nil {
		cert.AwardCategory = req.AwardCategory
	}
	if req.AwardLevel != nil {
		cert.AwardLevel = req.AwardLevel
	}
	if req.CompetitionType != nil {
		cert.CompetitionType = req.CompetitionType
	}
	if req.Organizer != nil {
		cert.Organizer = req.Organizer
	}
	if req.AwardDate != nil {
		normalized := formatAwardDate(*req.AwardDate)
		cert.AwardDate = &normalized
	}
	if req.Advisor != nil {
		cert.Advisor = *req.Advisor
	}

	// 身份字段始终以账号为准
	switch caller.Role {
	case model.RoleStudent:
		cert.StudentID = caller.AccountID
		cert.StudentName = caller.Name
	case model.RoleTeacher:
		cert.Advisor = caller.Name
	}

	if err := s.repo.Certificate.Update(ctx, cert); err != nil {
		s.logger.Error("更新证书失败", zap.String("cert_id", certID), zap.Error(err))
		return nil, err
	}
	return toCertificateResponse(cert), nil
}

// ────────────────────── Delete ──────────────────────

func (s *certificateService) Delete(ctx context.Context, callerID string, certID string) error {
	cert, err := s.repo.Certificate.GetOwned(ctx, certID, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCertNotFoundOrForbidden
		}
		s.logger.Error("查询证书失败", zap.String("cert_id", certID), zap.Error(err))
		return err
	}
	if cert.Status == model.CertStatusSubmitted {
		return ErrCertDeleteImmutable
	}

	if err := s.repo.Certificate.Delete(ctx, cert.CertID); err != nil {
		s.logger.Error("删除证书失败", zap.String("cert_id", certID), zap.Error(err))
		return err
	}
	// 落盘文件一并清理，失败只记录
	if cert.FilePath != "" {
		if err := os.Remove(cert.FilePath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("删除证书文件失败", zap.String("path", cert.FilePath), zap.Error(err))
		}
	}
	return nil
}

// ── 内部辅助 ──

// loadCaller 读取调用方账号信息（角色自动填充需要姓名与账号）
func (s *certificateService) loadCaller(ctx context.Context, callerID string) (*model.User, error) {
	user, err := s.repo.User.GetByID(ctx, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", callerID), zap.Error(err))
		return nil, err
	}
	return user, nil
}

// forceRoleFields 与 applyRoleDefaults 对应的 DTO 版本
func (s *certificateService) forceRoleFields(caller *model.User, fields *dto.CertificateFields) {
	switch caller.Role {
	case model.RoleStudent:
		fields.StudentID = caller.AccountID
		fields.StudentName = caller.Name
	case model.RoleTeacher:
		fields.Advisor = caller.Name
	}
}

func (s *certificateService) buildCertificate(caller *model.User, fields *dto.CertificateFields, filePath, method string) *model.Certificate {
	f := *fields
	s.forceRoleFields(caller, &f)
	if method == "" {
		method = extractionMethodGLM4V
	}
	awardDate := formatAwardDate(f.AwardDate)
	return &model.Certificate{
		SubmitterID:      caller.UserID,
		SubmitterRole:    caller.Role,
		StudentID:        f.StudentID,
		StudentName:      f.StudentName,
		Department:       optString(f.Department),
		CompetitionName:  optString(f.CompetitionName),
		AwardCategory:    optString(f.AwardCategory),
		AwardLevel:       optString(f.AwardLevel),
		CompetitionType:  optString(f.CompetitionType),
		Organizer:        optString(f.Organizer),
		AwardDate:        optString(awardDate),
		Advisor:          f.Advisor,
		FilePath:         filePath,
		ExtractionMethod: optString(method),
	}
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// applyFields 将 DTO 字段整体写入模型（提交时使用）
func applyFields(cert *model.Certificate, f *dto.CertificateFields) {
	cert.StudentID = f.StudentID
	cert.StudentName = f.StudentName
	cert.Department = optString(f.Department)
	cert.CompetitionName = optString(f.CompetitionName)
	cert.AwardCategory = optString(f.AwardCategory)
	cert.AwardLevel = optString(f.AwardLevel)
	cert.CompetitionType = optString(f.CompetitionType)
	cert.Organizer = optString(f.Organizer)
	cert.AwardDate = optString(formatAwardDate(f.AwardDate))
	cert.Advisor = f.Advisor
}

func toCertificateResponse(cert *model.Certificate) *dto.CertificateResponse {
	resp := &dto.CertificateResponse{
		CertID:           cert.CertID,
		SubmitterID:      cert.SubmitterID,
		SubmitterRole:    cert.SubmitterRole,
		StudentID:        cert.StudentID,
		StudentName:      cert.StudentName,
		Department:       derefString(cert.Department),
		CompetitionName:  derefString(cert.CompetitionName),
		AwardCategory:    derefString(cert.AwardCategory),
		AwardLevel:       derefString(cert.AwardLevel),
		CompetitionType:  derefString(cert.CompetitionType),
		Organizer:        derefString(cert.Organizer),
		AwardDate:        derefString(cert.AwardDate),
		Advisor:          cert.Advisor,
		FilePath:         cert.FilePath,
		ExtractionMethod: derefString(cert.ExtractionMethod),
		Status:           cert.Status,
		CreatedAt:        cert.CreatedAt.Format(time.RFC3339),
	}
	if cert.SubmittedAt != nil {
		resp.SubmittedAt = cert.SubmittedAt.Format(time.RFC3339)
	}
	return resp
}
