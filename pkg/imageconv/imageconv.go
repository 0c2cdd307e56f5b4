package imageconv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"
)

// MaxDimension 识别前允许的最大图片边长（像素），超出则等比缩小
const MaxDimension = 2048

var (
	// ErrRasterizerUnavailable poppler 未安装或不在 PATH 中
	ErrRasterizerUnavailable = errors.New(
		"Poppler 未安装或未配置到 PATH。请安装 poppler-utils（提供 pdftoppm）后重试；" +
			"临时解决方案：将 PDF 转换为 JPG/PNG 格式后上传")
	// ErrPDFUnreadable PDF 损坏、受密码保护或版本不兼容
	ErrPDFUnreadable = errors.New(
		"无法读取 PDF 页面。可能原因：PDF 文件损坏、受密码保护或格式不兼容；" +
			"建议将 PDF 转换为图片格式后重新上传")
	// ErrEmptyRender 转换未产出任何页面图片
	ErrEmptyRender = errors.New("PDF 转换失败：未能渲染出任何页面")
	// ErrMissingFile 输入文件不存在
	ErrMissingFile = errors.New("文件不存在")
	// ErrEmptyFile 输入文件为空
	ErrEmptyFile = errors.New("文件为空")
)

// Converter PDF 栅格化与图片缩放工具
type Converter struct {
	pdftoppm string // pdftoppm 可执行文件名或绝对路径
}

// NewConverter 创建 Converter；pdftoppm 为空时使用默认命令名
func NewConverter(pdftoppm string) *Converter {
	if pdftoppm == "" {
		pdftoppm = "pdftoppm"
	}
	return &Converter{pdftoppm: pdftoppm}
}

// checkFile 确认文件存在且非空
func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrMissingFile, path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	return nil
}

// PDFToImage 将 PDF 的第一页渲染为 PNG 图片，输出到 PDF 同目录下 <name>_page1.png
func (c *Converter) PDFToImage(ctx context.Context, pdfPath string) (string, error) {
	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return "", fmt.Errorf("解析路径失败: %w", err)
	}
	if err := checkFile(absPath); err != nil {
		return "", err
	}

	// pdftoppm -f 1 -l 1 -png <in.pdf> <prefix> → <prefix>-1.png
	prefix := strings.TrimSuffix(absPath, filepath.Ext(absPath)) + "_page1"
	cmd := exec.CommandContext(ctx, c.pdftoppm, "-f", "1", "-l", "1", "-png", absPath, prefix)
	if out, err := cmd.CombinedOutput(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", ErrRasterizerUnavailable
		}
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", ErrRasterizerUnavailable
		}
		return "", fmt.Errorf("%w: %s", ErrPDFUnreadable, strings.TrimSpace(string(out)))
	}

	// pdftoppm 的页码后缀位数随总页数变化，用 glob 收集
	matches, _ := filepath.Glob(prefix + "-*.png")
	if len(matches) == 0 {
		return "", ErrEmptyRender
	}
	sort.Strings(matches)
	output := matches[0]

	if err := checkFile(output); err != nil {
		return "", ErrEmptyRender
	}

	return output, nil
}

// ResizeIfNeeded 任一边长超过 MaxDimension 时等比缩小，输出到同目录 <name>_resized.png
// 原图不做修改；尺寸合规的图片原样返回（幂等）
func (c *Converter) ResizeIfNeeded(imagePath string) (string, error) {
	absPath, err := filepath.Abs(imagePath)
	if err != nil {
		return "", fmt.Errorf("解析路径失败: %w", err)
	}
	if err := checkFile(absPath); err != nil {
		return "", err
	}

	img, err := imaging.Open(absPath)
	if err != nil {
		return "", fmt.Errorf("打开图片失败: %w", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= MaxDimension && height <= MaxDimension {
		return absPath, nil
	}

	resized := imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)

	ext := filepath.Ext(absPath)
	resizedPath := strings.TrimSuffix(absPath, ext) + "_resized.png"
	if err := imaging.Save(resized, resizedPath); err != nil {
		return "", fmt.Errorf("保存缩放图片失败: %w", err)
	}

	return resizedPath, nil
}
