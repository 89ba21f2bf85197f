package services

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/draw"

	"malaria-http-service/config"
	"malaria-http-service/models"
)

// 允许上传的图像扩展名（不区分大小写）
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// InterfacePreprocessService 定义图像预处理服务接口
type InterfacePreprocessService interface {
	Preprocess(src io.Reader, filename string) (*models.ImageTensor, error)
}

// PreprocessService 将上传的血涂片图像归一化为固定尺寸的张量
type PreprocessService struct {
	Config *config.Config
}

// NewPreprocessService 创建一个新的图像预处理服务
func NewPreprocessService(cfg *config.Config) *PreprocessService {
	return &PreprocessService{Config: cfg}
}

// AllowedFile 判断文件名扩展是否在白名单内
func AllowedFile(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Preprocess 校验并归一化一次上传。
// 上传内容先落到暂存目录（uuid 命名，避免并发同名冲突），
// 解码完成后无论成败都会删除暂存文件。
func (s *PreprocessService) Preprocess(src io.Reader, filename string) (*models.ImageTensor, error) {
	if !AllowedFile(filename) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filename)
	}

	scratchPath, err := s.saveScratch(src, filename)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := os.Remove(scratchPath); err != nil {
			config.Warning("删除暂存文件失败: %v", err)
		}
	}()

	f, err := os.Open(scratchPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: 无法解码图像: %v", ErrUnsupportedFormat, err)
	}

	return normalize(img), nil
}

// saveScratch 将上传流写入暂存目录，并实施大小上限策略
func (s *PreprocessService) saveScratch(src io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(s.Config.UploadDir, 0755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))
	scratchPath := filepath.Join(s.Config.UploadDir, name)

	dst, err := os.Create(scratchPath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	reader := src
	if s.Config.MaxUploadBytes > 0 {
		reader = io.LimitReader(src, s.Config.MaxUploadBytes+1)
	}

	written, err := io.Copy(dst, reader)
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(scratchPath)
		return "", fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if s.Config.MaxUploadBytes > 0 && written > s.Config.MaxUploadBytes {
		os.Remove(scratchPath)
		return "", fmt.Errorf("%w: 超过 %d 字节", ErrUploadTooLarge, s.Config.MaxUploadBytes)
	}
	return scratchPath, nil
}

// normalize 将图像缩放到固定尺寸并把通道值归一化到 [0,1]
func normalize(img image.Image) *models.ImageTensor {
	resized := image.NewRGBA(image.Rect(0, 0, models.ImageSize, models.ImageSize))
	draw.ApproxBiLinear.Scale(resized, resized.Bounds(), img, img.Bounds(), draw.Src, nil)

	tensor := models.NewImageTensor()
	for y := 0; y < models.ImageSize; y++ {
		for x := 0; x < models.ImageSize; x++ {
			r, g, b, _ := resized.At(x, y).RGBA()
			// RGBA() 返回16位值，先降到8位再归一化
			tensor.Set(y, x, 0, float32(r>>8)/255.0)
			tensor.Set(y, x, 1, float32(g>>8)/255.0)
			tensor.Set(y, x, 2, float32(b>>8)/255.0)
		}
	}
	return tensor
}
