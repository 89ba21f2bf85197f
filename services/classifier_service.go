package services

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"malaria-http-service/models"
)

// 模型权重文件格式（小端）:
// magic "MMDL" | uint32 版本 | uint32 输入维度 | uint32 隐藏层维度 |
// float32 W1[输入*隐藏] | float32 b1[隐藏] | float32 W2[隐藏] | float32 b2
// 由训练侧从 Keras 模型导出，本服务只做前向推理。
const (
	modelMagic   = "MMDL"
	modelVersion = 1

	// 分类阈值，分数大于该值判为感染
	infectedThreshold = 0.5
)

// InterfaceClassifierService 定义分类器服务接口
type InterfaceClassifierService interface {
	Classify(tensor *models.ImageTensor) (*models.Verdict, error)
	InputDim() int
}

// ClassifierService 持有进程级只读的模型权重。
// 权重在启动时加载一次，之后在并发分类调用间共享。
type ClassifierService struct {
	inputDim  int
	hiddenDim int
	w1        []float32
	b1        []float32
	w2        []float32
	b2        float32
}

// NewClassifierService 从固定路径加载模型权重，失败时由调用方终止启动
func NewClassifierService(modelPath string) (*ClassifierService, error) {
	f, err := os.Open(modelPath)
	if err != nil {
		return nil, fmt.Errorf("打开模型文件失败: %w", err)
	}
	defer f.Close()

	s, err := readModel(f)
	if err != nil {
		return nil, fmt.Errorf("读取模型文件 %s 失败: %w", modelPath, err)
	}
	return s, nil
}

func readModel(r io.Reader) (*ClassifierService, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, err
	}
	if string(magic[:]) != modelMagic {
		return nil, fmt.Errorf("无效的模型文件头: %q", magic)
	}

	var header struct {
		Version   uint32
		InputDim  uint32
		HiddenDim uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, err
	}
	if header.Version != modelVersion {
		return nil, fmt.Errorf("不支持的模型版本: %d", header.Version)
	}
	if header.InputDim == 0 || header.HiddenDim == 0 {
		return nil, fmt.Errorf("无效的模型维度: %d x %d", header.InputDim, header.HiddenDim)
	}

	s := &ClassifierService{
		inputDim:  int(header.InputDim),
		hiddenDim: int(header.HiddenDim),
		w1:        make([]float32, int(header.InputDim)*int(header.HiddenDim)),
		b1:        make([]float32, header.HiddenDim),
		w2:        make([]float32, header.HiddenDim),
	}
	for _, dst := range [][]float32{s.w1, s.b1, s.w2} {
		if err := binary.Read(r, binary.LittleEndian, dst); err != nil {
			return nil, err
		}
	}
	if err := binary.Read(r, binary.LittleEndian, &s.b2); err != nil {
		return nil, err
	}
	return s, nil
}

// InputDim 返回模型期望的展平输入维度
func (s *ClassifierService) InputDim() int {
	return s.inputDim
}

// Classify 对归一化图像张量执行一次前向推理。
// 同样的权重和输入总是产生同样的判定；运行时错误统一映射为 ErrInferenceFailure。
func (s *ClassifierService) Classify(tensor *models.ImageTensor) (*models.Verdict, error) {
	if tensor == nil || len(tensor.Data) != s.inputDim {
		return nil, fmt.Errorf("%w: 输入维度不匹配, 期望 %d", ErrInferenceFailure, s.inputDim)
	}

	score := s.forward(tensor.Data)
	if math.IsNaN(float64(score)) || math.IsInf(float64(score), 0) {
		return nil, fmt.Errorf("%w: 推理输出无效", ErrInferenceFailure)
	}

	label := models.ResultUninfected
	if score > infectedThreshold {
		label = models.ResultInfected
	}
	return &models.Verdict{Label: label, Score: score}, nil
}

// forward 执行 dense -> ReLU -> dense -> sigmoid 前向计算
func (s *ClassifierService) forward(x []float32) float32 {
	hidden := make([]float32, s.hiddenDim)
	for j := 0; j < s.hiddenDim; j++ {
		sum := s.b1[j]
		for i := 0; i < s.inputDim; i++ {
			sum += x[i] * s.w1[i*s.hiddenDim+j]
		}
		if sum > 0 {
			hidden[j] = sum
		}
	}

	z := s.b2
	for j := 0; j < s.hiddenDim; j++ {
		z += hidden[j] * s.w2[j]
	}
	return float32(1.0 / (1.0 + math.Exp(-float64(z))))
}
