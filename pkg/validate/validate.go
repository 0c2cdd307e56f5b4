package validate

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// 文件校验常量
const (
	MaxFileSize = 10 * 1024 * 1024 // 10 MiB
)

// AllowedExts 允许上传的文件扩展名（均为小写，含点）
var AllowedExts = []string{".pdf", ".jpg", ".jpeg", ".png", ".bmp"}

var (
	ErrAccountIDNotDigits = errors.New("学（工）号必须为数字")
	ErrStudentIDLength    = errors.New("学生学号必须为13位数字")
	ErrTeacherIDLength    = errors.New("教师工号必须为8位数字")
	ErrInvalidRole        = errors.New("无效的角色类型")
	ErrInvalidEmail       = errors.New("邮箱格式不正确")
	ErrPasswordTooShort   = errors.New("密码至少需要8位")
	ErrPasswordTooWeak    = errors.New("密码必须包含字母和数字")
	ErrFileTooLarge       = fmt.Errorf("文件大小超过限制（最大 %.1fMB）", float64(MaxFileSize)/(1024*1024))
)

// ErrUnsupportedFormat 不支持的文件格式
var ErrUnsupportedFormat = fmt.Errorf("不支持的文件格式，仅支持：%s", strings.Join(AllowedExts, ", "))

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// AccountID 校验学（工）号格式：学生13位数字，教师8位数字
func AccountID(accountID, role string) error {
	if !digitsOnly.MatchString(accountID) {
		return ErrAccountIDNotDigits
	}
	switch role {
	case "student":
		if len(accountID) != 13 {
			return ErrStudentIDLength
		}
	case "teacher":
		if len(accountID) != 8 {
			return ErrTeacherIDLength
		}
	default:
		return ErrInvalidRole
	}
	return nil
}

// Email 校验邮箱格式
func Email(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// Password 校验密码强度：至少8位，包含字母和数字
func Password(password string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	var hasLetter, hasDigit bool
	for _, c := range password {
		switch {
		case unicode.IsLetter(c):
			hasLetter = true
		case unicode.IsDigit(c):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return ErrPasswordTooWeak
	}
	return nil
}

// FileExt 校验文件扩展名，返回小写扩展名（含点）
func FileExt(filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range AllowedExts {
		if ext == allowed {
			return ext, nil
		}
	}
	return "", ErrUnsupportedFormat
}

// FileSize 校验文件大小
func FileSize(size int64) error {
	if size > MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}
