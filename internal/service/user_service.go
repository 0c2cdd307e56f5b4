package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"certhub/backend/internal/dto"
	"certhub/backend/internal/model"
	"certhub/backend/internal/repository"
	"certhub/backend/pkg/validate"
)

// ── 用户模块业务错误 ──

var (
	ErrUserNotFound   = errors.New("用户不存在")
	ErrUserSelfDelete = errors.New("不能删除自己")
	ErrEmailExists    = errors.New("邮箱已存在")
)

// UserService 用户业务接口
type UserService interface {
	GetByID(ctx context.Context, id string) (*dto.UserResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	ResetPassword(ctx context.Context, id string) (*dto.ResetPasswordResponse, error)
	ParseImportFile(reader io.Reader) ([]ImportUserRow, error)
	ImportUsers(ctx context.Context, rows []ImportUserRow) (*dto.ImportUserResponse, error)
}

// ImportUserRow Excel 导入解析后的单行数据
type ImportUserRow struct {
	Row        int
	AccountID  string
	Name       string
	RoleLabel  string // 原始角色列文本（学生/教师/student/teacher）
	Department string
	Email      string
	Password   string // 初始密码列，可为空
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建 UserService 实例
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────────────────── GetByID ──────────────────────

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

// ────────────────────── List ──────────────────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserResponse, int64, error) {
	users, total, err := s.repo.User.List(ctx, req.Role, req.Keyword, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("列出用户失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		result = append(result, *toUserResponse(&users[i]))
	}
	return result, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Department != nil {
		user.Department = *req.Department
	}
	if req.Email != nil {
		if err := validate.Email(*req.Email); err != nil {
			return nil, err
		}
		existing, err := s.repo.User.GetByEmail(ctx, *req.Email)
		if err == nil && existing.UserID != id {
			return nil, ErrEmailExists
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user.Email = *req.Email
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("更新用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toUserResponse(user), nil
}

// ────────────────────── Delete ──────────────────────

// Delete 删除用户及其名下证书与文件记录（同一事务）
func (s *userService) Delete(ctx context.Context, id string, callerID string) error {
	if id == callerID {
		return ErrUserSelfDelete
	}

	if _, err := s.repo.User.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		s.logger.Error("开启事务失败", zap.Error(err))
		return err
	}
	txRepo := s.repo.WithTx(tx)
	rollback := func() {
		if tx != nil {
			tx.Rollback()
		}
	}

	if err := txRepo.Certificate.DeleteBySubmitter(ctx, id); err != nil {
		rollback()
		s.logger.Error("删除用户证书失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if err := txRepo.FileRecord.DeleteByUser(ctx, id); err != nil {
		rollback()
		s.logger.Error("删除用户文件记录失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if err := txRepo.User.Delete(ctx, id); err != nil {
		rollback()
		s.logger.Error("删除用户失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			s.logger.Error("提交事务失败", zap.Error(err))
			return err
		}
	}
	return nil
}

// ────────────────────── ResetPassword ──────────────────────

func (s *userService) ResetPassword(ctx context.Context, id string) (*dto.ResetPasswordResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("查询用户失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	tempPassword, err := generateTempPassword(8)
	if err != nil {
		s.logger.Error("生成临时密码失败", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("密码哈希失败", zap.Error(err))
		return nil, err
	}

	user.PasswordHash = string(hash)
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.logger.Error("重置密码失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return &dto.ResetPasswordResponse{TempPassword: tempPassword}, nil
}

// ────────────────────── ParseImportFile ──────────────────────

const maxImportRows = 1000

var (
	ErrImportNoData      = errors.New("Excel文件无数据行（第一行为表头）")
	ErrImportTooManyRows = fmt.Errorf("数据行数超过上限 %d 行", maxImportRows)
	ErrImportBadHeader   = errors.New("Excel表头缺少必要列（学（工）号/姓名/角色类型/单位/邮箱）")
)

// ParseImportFile 解析导入 Excel 文件，返回解析后的行数据。
// 必要列：学（工）号、姓名、角色类型、单位、邮箱；初始密码列可选。
func (s *userService) ParseImportFile(reader io.Reader) ([]ImportUserRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, fmt.Errorf("无法解析Excel文件: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	excelRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("读取工作表失败: %w", err)
	}

	if len(excelRows) < 2 {
		return nil, ErrImportNoData
	}

	// 解析表头（支持灵活列序）
	colIndex := parseHeaderIndex(excelRows[0])
	for _, key := range []string{"account_id", "name", "role", "department", "email"} {
		if colIndex[key] < 0 {
			return nil, ErrImportBadHeader
		}
	}

	cell := func(row []string, key string) string {
		if idx := colIndex[key]; idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	var rows []ImportUserRow
	for i := 1; i < len(excelRows); i++ {
		row := excelRows[i]
		item := ImportUserRow{
			Row:        i + 1, // Excel 行号（表头为第 1 行）
			AccountID:  cell(row, "account_id"),
			Name:       cell(row, "name"),
			RoleLabel:  cell(row, "role"),
			Department: cell(row, "department"),
			Email:      cell(row, "email"),
			Password:   cell(row, "password"),
		}

		// 跳过全空行
		if item.AccountID == "" && item.Name == "" && item.RoleLabel == "" &&
			item.Department == "" && item.Email == "" {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, ErrImportNoData
	}
	if len(rows) > maxImportRows {
		return nil, ErrImportTooManyRows
	}
	return rows, nil
}

// parseHeaderIndex 解析 Excel 表头，返回列名 -> 列索引映射
func parseHeaderIndex(header []string) map[string]int {
	idx := map[string]int{
		"account_id": -1,
		"name":       -1,
		"role":       -1,
		"department": -1,
		"email":      -1,
		"password":   -1,
	}
	for i, h := range header {
		lower := strings.ToLower(strings.TrimSpace(h))
		switch {
		case lower == "学（工）号" || lower == "学(工)号" || lower == "account_id":
			idx["account_id"] = i
		case lower == "姓名" || lower == "name":
			idx["name"] = i
		case lower == "角色类型" || lower == "role":
			idx["role"] = i
		case lower == "单位" || lower == "department":
			idx["department"] = i
		case lower == "邮箱" || lower == "email":
			idx["email"] = i
		case lower == "初始密码" || lower == "password":
			idx["password"] = i
		}
	}
	return idx
}

// mapRoleLabel 角色列文本 -> 系统角色；不认识的返回空串
func mapRoleLabel(label string) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "学生", "student":
		return model.RoleStudent
	case "教师", "teacher":
		return model.RoleTeacher
	default:
		return ""
	}
}

// ────────────────────── ImportUsers ──────────────────────

// ImportUsers 批量导入用户：先逐行校验，再把通过的行放入同一事务写库。
// 学（工）号或邮箱已存在的行计入 skipped，校验不通过的行计入 failed。
// 未提供初始密码时默认为 学（工）号@123。
func (s *userService) ImportUsers(ctx context.Context, rows []ImportUserRow) (*dto.ImportUserResponse, error) {
	resp := &dto.ImportUserResponse{Total: len(rows)}

	// 第一阶段：数据预校验（不接触数据库写操作）
	type validatedRow struct {
		row  ImportUserRow
		role string
		hash []byte
	}
	var validRows []validatedRow
	seenAccounts := make(map[string]bool, len(rows))
	seenEmails := make(map[string]bool, len(rows))

	for _, row := range rows {
		if row.AccountID == "" || row.Name == "" || row.RoleLabel == "" ||
			row.Department == "" || row.Email == "" {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportUserError{
				Row: row.Row, Reason: "必填字段为空",
			})
			continue
		}

		role := mapRoleLabel(row.RoleLabel)
		if role == "" {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportUserError{
				Row: row.Row, Reason: fmt.Sprintf("无法识别的角色类型: %s", row.RoleLabel),
			})
			continue
		}

		if err := validate.AccountID(row.AccountID, role); err != nil {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportUserError{
				Row: row.Row, Reason: err.Error(),
			})
			continue
		}
		if err := validate.Email(row.Email); err != nil {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportUserError{
				Row: row.Row, Reason: err.Error(),
			})
			continue
		}

		// 同文件内重复
		if seenAccounts[row.AccountID] || seenEmails[row.Email] {
			resp.Skipped++
			continue
		}

		// 库内已存在的账号/邮箱跳过（不算失败）
		if _, err := s.repo.User.GetByAccountID(ctx, row.AccountID); err == nil {
			resp.Skipped++
			seenAccounts[row.AccountID] = true
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询用户失败", zap.Error(err))
			return nil, err
		}
		if _, err := s.repo.User.GetByEmail(ctx, row.Email); err == nil {
			resp.Skipped++
			seenEmails[row.Email] = true
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Error("查询用户失败", zap.Error(err))
			return nil, err
		}

		password := row.Password
		if password == "" {
			password = row.AccountID + "@123"
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			resp.Failed++
			resp.Errors = append(resp.Errors, dto.ImportUserError{
				Row: row.Row, Reason: "密码哈希失败",
			})
			continue
		}

		seenAccounts[row.AccountID] = true
		seenEmails[row.Email] = true
		validRows = append(validRows, validatedRow{row: row, role: role, hash: hash})
	}

	// 第二阶段：在事务中批量创建所有通过校验的用户
	if len(validRows) > 0 {
		tx, err := s.repo.BeginTx(ctx)
		if err != nil {
			s.logger.Error("开启事务失败", zap.Error(err))
			return nil, err
		}
		defer func() {
			if r := recover(); r != nil {
				if tx != nil {
					tx.Rollback()
				}
				panic(r)
			}
		}()

		txRepo := s.repo.WithTx(tx)

		for _, vr := range validRows {
			user := &model.User{
				AccountID:    vr.row.AccountID,
				Name:         vr.row.Name,
				Role:         vr.role,
				Department:   vr.row.Department,
				Email:        vr.row.Email,
				PasswordHash: string(vr.hash),
				IsActive:     true,
				CreatedBy:    model.CreatedByAdminImport,
			}

			if err := txRepo.User.Create(ctx, user); err != nil {
				// 事务中任一写入失败则全部回滚
				if tx != nil {
					tx.Rollback()
				}
				s.logger.Error("导入用户写入失败，事务回滚",
					zap.Int("row", vr.row.Row), zap.Error(err))
				return nil, fmt.Errorf("第 %d 行写入数据库失败，已回滚全部导入: %w", vr.row.Row, err)
			}
			resp.Success++
		}

		if tx != nil {
			if err := tx.Commit().Error; err != nil {
				s.logger.Error("提交事务失败", zap.Error(err))
				return nil, err
			}
		}
	}

	return resp, nil
}

// ── 内部辅助方法 ──

// generateTempPassword 生成指定长度的临时密码（保证包含字母和数字）
func generateTempPassword(length int) (string, error) {
	const letters = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ"
	const digits = "23456789"
	const all = letters + digits

	if length < 4 {
		length = 8
	}

	result := make([]byte, length)

	// 保证至少1个字母+1个数字
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
	if err != nil {
		return "", err
	}
	result[0] = letters[n.Int64()]

	n, err = rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
	if err != nil {
		return "", err
	}
	result[1] = digits[n.Int64()]

	// 剩余位随机填充
	for i := 2; i < length; i++ {
		n, err = rand.Int(rand.Reader, big.NewInt(int64(len(all))))
		if err != nil {
			return "", err
		}
		result[i] = all[n.Int64()]
	}

	// Fisher-Yates 洗牌
	for i := length - 1; i > 0; i-- {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return "", err
		}
		result[i], result[j.Int64()] = result[j.Int64()], result[i]
	}

	return string(result), nil
}
