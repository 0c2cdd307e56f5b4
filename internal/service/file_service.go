package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"certhub/backend/config"
	"certhub/backend/internal/dto"
	"certhub/backend/internal/model"
	"certhub/backend/internal/repository"
	"certhub/backend/pkg/validate"
)

// ── 文件模块业务错误 ──

var (
	ErrFileEmpty       = errors.New("上传的文件为空")
	ErrIncompleteWrite = errors.New("文件保存不完整，请重新上传")
)

// FileService 文件上传业务接口
type FileService interface {
	Upload(ctx context.Context, ownerID string, fileName string, src io.Reader, size int64) (*dto.UploadFileResponse, error)
}

type fileService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewFileService 创建 FileService 实例
func NewFileService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) FileService {
	return &fileService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── Upload ──────────────────────

// Upload 校验并落盘上传文件，按日期分目录、按账号加时间戳命名。
// 写入后重新读取文件大小核对，防止落盘不完整。
func (s *fileService) Upload(ctx context.Context, ownerID string, fileName string, src io.Reader, size int64) (*dto.UploadFileResponse, error) {
	ext, err := validate.FileExt(fileName)
	if err != nil {
		return nil, err
	}
	owner, err := s.repo.User.GetByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", ownerID), zap.Error(err))
		return nil, err
	}
	if size <= 0 {
		return nil, ErrFileEmpty
	}
	if size > s.cfg.Upload.MaxFileSize {
		return nil, validate.ErrFileTooLarge
	}

	now := time.Now()
	// 落库路径统一为绝对路径，与工作目录解耦
	dir, err := filepath.Abs(filepath.Join(s.cfg.Upload.Dir, now.Format("20060102")))
	if err != nil {
		return nil, fmt.Errorf("解析上传目录失败: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		s.logger.Error("创建上传目录失败", zap.String("dir", dir), zap.Error(err))
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}

	savedName := fmt.Sprintf("user%s_%s%s", owner.AccountID, now.Format("20060102_150405"), ext)
	savedPath := filepath.Join(dir, savedName)

	dst, err := os.Create(savedPath)
	if err != nil {
		s.logger.Error("创建目标文件失败", zap.String("path", savedPath), zap.Error(err))
		return nil, fmt.Errorf("保存文件失败: %w", err)
	}
	written, copyErr := io.Copy(dst, src)
	closeErr := dst.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(savedPath)
		s.logger.Error("写入文件失败", zap.String("path", savedPath),
			zap.NamedError("copy", copyErr), zap.NamedError("close", closeErr))
		return nil, ErrIncompleteWrite
	}

	// 落盘后核对实际大小
	info, err := os.Stat(savedPath)
	if err != nil || info.Size() != written || info.Size() != size {
		os.Remove(savedPath)
		return nil, ErrIncompleteWrite
	}

	fileType := model.FileTypeImage
	if strings.EqualFold(ext, ".pdf") {
		fileType = model.FileTypePDF
	}

	record := &model.FileRecord{
		UserID:   owner.UserID,
		FileName: fileName,
		FilePath: savedPath,
		FileType: fileType,
		FileSize: info.Size(),
	}
	// 上传记录失败不阻断主流程，仅记录日志
	if err := s.repo.FileRecord.Create(ctx, record); err != nil {
		s.logger.Warn("写入文件记录失败", zap.String("path", savedPath), zap.Error(err))
	}

	return &dto.UploadFileResponse{
		FileID:   record.FileID,
		FileName: fileName,
		FilePath: savedPath,
		FileType: fileType,
		FileSize: info.Size(),
	}, nil
}
