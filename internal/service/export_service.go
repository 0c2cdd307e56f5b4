package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"certhub/backend/internal/model"
	"certhub/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoData       = errors.New("暂无已提交的证书数据")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// exportColumns 导出列（固定顺序）
var exportColumns = []string{
	"证书ID",
	"提交者学（工）号",
	"提交者姓名",
	"提交者角色",
	"学生学号",
	"学生姓名",
	"学生所在学院",
	"竞赛项目",
	"获奖类别",
	"获奖等级",
	"竞赛类型",
	"主办单位",
	"获奖时间",
	"指导教师",
	"提交时间",
}

// ExportService 导出业务接口
//
// 设计说明：
//   - 仅导出 submitted 状态的证书，按提交时间升序
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
//   - CSV 带 UTF-8 BOM，Excel 直接打开不乱码
type ExportService interface {
	// ExportXLSX 导出已提交证书为 Excel
	ExportXLSX(ctx context.Context) (*bytes.Buffer, string, error)
	// ExportCSV 导出已提交证书为 CSV
	ExportCSV(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// listRows 查询已提交证书并展开为导出行
func (s *exportService) listRows(ctx context.Context) ([][]string, error) {
	certs, err := s.repo.Certificate.ListSubmitted(ctx)
	if err != nil {
		s.logger.Error("查询已提交证书失败", zap.Error(err))
		return nil, err
	}
	if len(certs) == 0 {
		return nil, ErrExportNoData
	}

	rows := make([][]string, 0, len(certs))
	for i := range certs {
		cert := &certs[i]

		submitterAccount, submitterName := "", ""
		if cert.Submitter != nil {
			submitterAccount = cert.Submitter.AccountID
			submitterName = cert.Submitter.Name
		}
		roleLabel := "教师"
		if cert.SubmitterRole == model.RoleStudent {
			roleLabel = "学生"
		}
		submittedAt := ""
		if cert.SubmittedAt != nil {
			submittedAt = cert.SubmittedAt.Format("2006-01-02 15:04:05")
		}

		rows = append(rows, []string{
			cert.CertID,
			submitterAccount,
			submitterName,
			roleLabel,
			cert.StudentID,
			cert.StudentName,
			derefString(cert.Department),
			derefString(cert.CompetitionName),
			derefString(cert.AwardCategory),
			derefString(cert.AwardLevel),
			derefString(cert.CompetitionType),
			derefString(cert.Organizer),
			derefString(cert.AwardDate),
			cert.Advisor,
			submittedAt,
		})
	}
	return rows, nil
}

// ────────────────────── ExportXLSX ──────────────────────

func (s *exportService) ExportXLSX(ctx context.Context) (*bytes.Buffer, string, error) {
	rows, err := s.listRows(ctx)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "证书数据"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		s.logger.Error("创建工作表失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 表头样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, name := range exportColumns {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
		cellRef := fmt.Sprintf("%s1", col)
		f.SetCellValue(sheetName, cellRef, name)
		f.SetCellStyle(sheetName, cellRef, cellRef, headerStyle)
	}

	for r, row := range rows {
		for c, value := range row {
			cellRef, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(sheetName, cellRef, value)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("证书数据导出_%s.xlsx", time.Now().Format("20060102_150405"))
	return buf, filename, nil
}

// ────────────────────── ExportCSV ──────────────────────

func (s *exportService) ExportCSV(ctx context.Context) (*bytes.Buffer, string, error) {
	rows, err := s.listRows(ctx)
	if err != nil {
		return nil, "", err
	}

	buf := new(bytes.Buffer)
	// UTF-8 BOM，Excel 打开中文不乱码
	buf.Write([]byte{0xEF, 0xBB, 0xBF})

	w := csv.NewWriter(buf)
	if err := w.Write(exportColumns); err != nil {
		s.logger.Error("写入 CSV 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			s.logger.Error("写入 CSV 失败", zap.Error(err))
			return nil, "", ErrExportGenerateFail
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		s.logger.Error("写入 CSV 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("证书数据导出_%s.csv", time.Now().Format("20060102_150405"))
	return buf, filename, nil
}
