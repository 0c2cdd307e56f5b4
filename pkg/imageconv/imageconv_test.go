package imageconv

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTestPNG 生成指定尺寸的纯色 PNG 测试图片
func writeTestPNG(t *testing.T, dir string, name string, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: 200, B: 200, A: 255})
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("创建测试图片失败: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("编码测试图片失败: %v", err)
	}
	return path
}

func TestResizeIfNeeded_SmallImagePassthrough(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "small.png", 800, 600)

	c := NewConverter("")
	out, err := c.ResizeIfNeeded(path)
	if err != nil {
		t.Fatalf("ResizeIfNeeded 应成功: %v", err)
	}
	if out != path {
		t.Errorf("小图应原样返回，期望 %s，实际 %s", path, out)
	}

	// 幂等：再次调用仍返回原路径
	out2, err := c.ResizeIfNeeded(out)
	if err != nil {
		t.Fatalf("二次调用应成功: %v", err)
	}
	if out2 != path {
		t.Errorf("二次调用应仍返回原路径，实际 %s", out2)
	}
}

func TestResizeIfNeeded_LargeImageResized(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "large.png", 4096, 1024)

	c := NewConverter("")
	out, err := c.ResizeIfNeeded(path)
	if err != nil {
		t.Fatalf("ResizeIfNeeded 应成功: %v", err)
	}
	if !strings.HasSuffix(out, "_resized.png") {
		t.Errorf("大图应输出 _resized.png 副本，实际 %s", out)
	}

	// 原图保持不变
	if _, err := os.Stat(path); err != nil {
		t.Errorf("原图不应被删除: %v", err)
	}

	// 缩放结果边长不超过上限且保持纵横比
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("打开缩放结果失败: %v", err)
	}
	defer f.Close()
	cfgImg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("解码缩放结果失败: %v", err)
	}
	if cfgImg.Width > MaxDimension || cfgImg.Height > MaxDimension {
		t.Errorf("缩放后尺寸 %dx%d 超出上限 %d", cfgImg.Width, cfgImg.Height, MaxDimension)
	}
	if cfgImg.Width != MaxDimension {
		t.Errorf("4096x1024 应缩放到宽度 %d，实际 %d", MaxDimension, cfgImg.Width)
	}
	if cfgImg.Height != 512 {
		t.Errorf("应保持纵横比，期望高度 512，实际 %d", cfgImg.Height)
	}
}

func TestResizeIfNeeded_MissingFile(t *testing.T) {
	c := NewConverter("")
	_, err := c.ResizeIfNeeded(filepath.Join(t.TempDir(), "nonexistent.png"))
	if !errors.Is(err, ErrMissingFile) {
		t.Errorf("期望 ErrMissingFile，实际: %v", err)
	}
}

func TestResizeIfNeeded_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.png")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("创建空文件失败: %v", err)
	}

	c := NewConverter("")
	_, err := c.ResizeIfNeeded(path)
	if !errors.Is(err, ErrEmptyFile) {
		t.Errorf("期望 ErrEmptyFile，实际: %v", err)
	}
}

func TestPDFToImage_MissingFile(t *testing.T) {
	c := NewConverter("")
	_, err := c.PDFToImage(context.Background(), filepath.Join(t.TempDir(), "nonexistent.pdf"))
	if !errors.Is(err, ErrMissingFile) {
		t.Errorf("期望 ErrMissingFile，实际: %v", err)
	}
}

func TestPDFToImage_RasterizerUnavailable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o644); err != nil {
		t.Fatalf("创建测试 PDF 失败: %v", err)
	}

	c := NewConverter("definitely-not-a-real-binary")
	_, err := c.PDFToImage(context.Background(), path)
	if !errors.Is(err, ErrRasterizerUnavailable) {
		t.Errorf("期望 ErrRasterizerUnavailable，实际: %v", err)
	}
}
