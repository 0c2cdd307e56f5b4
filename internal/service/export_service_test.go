package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"certhub/backend/internal/model"
	"certhub/backend/internal/repository"
)

// ── 测试辅助 ──

func setupTestExportService() (ExportService, *mockCertificateRepo, *mockUserRepo) {
	userRepo := newMockUserRepo()
	certRepo := newMockCertificateRepo()
	certRepo.users = userRepo
	repo := &repository.Repository{
		User:         userRepo,
		Certificate:  certRepo,
		FileRecord:   newMockFileRecordRepo(),
		SystemConfig: newMockSystemConfigRepo(),
	}
	svc := NewExportService(repo, zap.NewNop())
	return svc, certRepo, userRepo
}

func seedSubmittedCert(certRepo *mockCertificateRepo, submitterID, studentID, studentName string, submittedAt time.Time) {
	dept := "计算机学院"
	comp := "程序设计竞赛"
	certRepo.Create(context.Background(), &model.Certificate{
		SubmitterID:     submitterID,
		SubmitterRole:   model.RoleStudent,
		StudentID:       studentID,
		StudentName:     studentName,
		Department:      &dept,
		CompetitionName: &comp,
		Advisor:         "李四",
		FilePath:        "/uploads/x.png",
		Status:          model.CertStatusSubmitted,
		SubmittedAt:     &submittedAt,
	})
}

// ── ExportXLSX 测试 ──

func TestExportService_ExportXLSX(t *testing.T) {
	svc, certRepo, userRepo := setupTestExportService()
	seedUser(userRepo, "uid-001", "2021123456789", "张三", model.RoleStudent)
	seedSubmittedCert(certRepo, "uid-001", "2021123456789", "张三", time.Now())

	buf, filename, err := svc.ExportXLSX(context.Background())
	if err != nil {
		t.Fatalf("ExportXLSX 应成功: %v", err)
	}
	if !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名应以 .xlsx 结尾，实际 %s", filename)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("导出内容应为合法 xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("证书数据")
	if err != nil {
		t.Fatalf("读取工作表失败: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("期望表头+1数据行，实际 %d 行", len(rows))
	}
	if len(rows[0]) != len(exportColumns) {
		t.Errorf("期望 %d 列，实际 %d 列", len(exportColumns), len(rows[0]))
	}
	if rows[0][1] != "提交者学（工）号" {
		t.Errorf("第二列表头异常: %q", rows[0][1])
	}
	if rows[1][1] != "2021123456789" {
		t.Errorf("提交者学（工）号应关联用户表，实际 %q", rows[1][1])
	}
	if rows[1][3] != "学生" {
		t.Errorf("提交者角色应本地化为 学生，实际 %q", rows[1][3])
	}
}

func TestExportService_ExportXLSX_NoData(t *testing.T) {
	svc, _, _ := setupTestExportService()

	_, _, err := svc.ExportXLSX(context.Background())
	if !errors.Is(err, ErrExportNoData) {
		t.Errorf("期望 ErrExportNoData，实际: %v", err)
	}
}

func TestExportService_DraftsExcluded(t *testing.T) {
	svc, certRepo, userRepo := setupTestExportService()
	seedUser(userRepo, "uid-001", "2021123456789", "张三", model.RoleStudent)
	// 只有草稿
	certRepo.Create(context.Background(), &model.Certificate{
		SubmitterID: "uid-001", SubmitterRole: model.RoleStudent,
		StudentID: "2021123456789", StudentName: "张三", Advisor: "李四",
		FilePath: "/uploads/x.png", Status: model.CertStatusDraft,
	})

	_, _, err := svc.ExportXLSX(context.Background())
	if !errors.Is(err, ErrExportNoData) {
		t.Errorf("草稿不应导出，期望 ErrExportNoData，实际: %v", err)
	}
}

// ── ExportCSV 测试 ──

func TestExportService_ExportCSV(t *testing.T) {
	svc, certRepo, userRepo := setupTestExportService()
	seedUser(userRepo, "uid-001", "2021123456789", "张三", model.RoleStudent)
	seedSubmittedCert(certRepo, "uid-001", "2021123456789", "张三", time.Now())

	buf, filename, err := svc.ExportCSV(context.Background())
	if err != nil {
		t.Fatalf("ExportCSV 应成功: %v", err)
	}
	if !strings.HasSuffix(filename, ".csv") {
		t.Errorf("文件名应以 .csv 结尾，实际 %s", filename)
	}

	data := buf.Bytes()
	if !bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("CSV 应带 UTF-8 BOM")
	}
	content := string(data[3:])
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) != 2 {
		t.Fatalf("期望表头+1数据行，实际 %d 行", len(lines))
	}
	if !strings.HasPrefix(lines[0], "证书ID,提交者学（工）号") {
		t.Errorf("表头异常: %q", lines[0])
	}
	if !strings.Contains(lines[1], "张三") {
		t.Errorf("数据行缺少姓名: %q", lines[1])
	}
}

func TestExportService_OrderBySubmittedAt(t *testing.T) {
	svc, certRepo, userRepo := setupTestExportService()
	seedUser(userRepo, "uid-001", "2021123456789", "张三", model.RoleStudent)
	later := time.Now()
	earlier := later.Add(-time.Hour)
	seedSubmittedCert(certRepo, "uid-001", "2021123456789", "后提交", later)
	seedSubmittedCert(certRepo, "uid-001", "2021123456780", "先提交", earlier)

	buf, _, err := svc.ExportCSV(context.Background())
	if err != nil {
		t.Fatalf("ExportCSV 应成功: %v", err)
	}
	content := string(buf.Bytes()[3:])
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) != 3 {
		t.Fatalf("期望 3 行，实际 %d", len(lines))
	}
	if !strings.Contains(lines[1], "先提交") {
		t.Errorf("应按提交时间升序，第一条数据行: %q", lines[1])
	}
}
