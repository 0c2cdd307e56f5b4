package validate

import (
	"errors"
	"testing"
)

// ── AccountID 测试 ──

func TestAccountID_Student(t *testing.T) {
	if err := AccountID("2023010203045", "student"); err != nil {
		t.Errorf("13位学号应通过校验: %v", err)
	}
	if err := AccountID("202301020304", "student"); !errors.Is(err, ErrStudentIDLength) {
		t.Errorf("12位学号应失败，实际: %v", err)
	}
	if err := AccountID("20230102030456", "student"); !errors.Is(err, ErrStudentIDLength) {
		t.Errorf("14位学号应失败，实际: %v", err)
	}
}

func TestAccountID_Teacher(t *testing.T) {
	if err := AccountID("20230001", "teacher"); err != nil {
		t.Errorf("8位工号应通过校验: %v", err)
	}
	if err := AccountID("2023010203045", "teacher"); !errors.Is(err, ErrTeacherIDLength) {
		t.Errorf("13位工号应失败，实际: %v", err)
	}
}

func TestAccountID_NonDigit(t *testing.T) {
	if err := AccountID("20230a0203045", "student"); !errors.Is(err, ErrAccountIDNotDigits) {
		t.Errorf("含字母学号应失败，实际: %v", err)
	}
	if err := AccountID("", "student"); !errors.Is(err, ErrAccountIDNotDigits) {
		t.Errorf("空学号应失败，实际: %v", err)
	}
}

func TestAccountID_UnknownRole(t *testing.T) {
	if err := AccountID("20230001", "admin"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("未知角色应失败，实际: %v", err)
	}
}

// ── Email 测试 ──

func TestEmail(t *testing.T) {
	valid := []string{"a@b.cn", "zhang.san+tag@example.com.cn", "x_1%@mail.edu"}
	for _, e := range valid {
		if err := Email(e); err != nil {
			t.Errorf("邮箱 %q 应通过校验: %v", e, err)
		}
	}
	invalid := []string{"", "a@b", "a.b.cn", "@b.cn", "a@.cn"}
	for _, e := range invalid {
		if err := Email(e); err == nil {
			t.Errorf("邮箱 %q 应失败", e)
		}
	}
}

// ── Password 测试 ──

func TestPassword(t *testing.T) {
	if err := Password("abc12345"); err != nil {
		t.Errorf("字母数字混合密码应通过: %v", err)
	}
	if err := Password("ab1"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("短密码应失败，实际: %v", err)
	}
	if err := Password("abcdefgh"); !errors.Is(err, ErrPasswordTooWeak) {
		t.Errorf("纯字母密码应失败，实际: %v", err)
	}
	if err := Password("12345678"); !errors.Is(err, ErrPasswordTooWeak) {
		t.Errorf("纯数字密码应失败，实际: %v", err)
	}
}

// ── 文件校验测试 ──

func TestFileExt(t *testing.T) {
	ext, err := FileExt("证书.PDF")
	if err != nil || ext != ".pdf" {
		t.Errorf("大写扩展名应归一为小写并通过，ext=%q err=%v", ext, err)
	}
	if _, err := FileExt("cert.gif"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("gif 应失败，实际: %v", err)
	}
	if _, err := FileExt("noext"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("无扩展名应失败，实际: %v", err)
	}
}

func TestFileSize(t *testing.T) {
	if err := FileSize(MaxFileSize); err != nil {
		t.Errorf("恰好 10MiB 应通过: %v", err)
	}
	if err := FileSize(MaxFileSize + 1); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("超过 10MiB 应失败，实际: %v", err)
	}
}
