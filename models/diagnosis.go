package models

// 图像张量的固定尺寸
const (
	ImageSize     = 50
	ImageChannels = 3
)

// ImageTensor 表示归一化后的单张图像批次，形状 [1, H, W, C]，
// 取值范围 [0,1]。仅在一次分类调用期间存在，不做持久化。
type ImageTensor struct {
	Shape [4]int
	Data  []float32 // 按 NHWC 展平
}

// NewImageTensor 创建一个固定尺寸的空张量
func NewImageTensor() *ImageTensor {
	return &ImageTensor{
		Shape: [4]int{1, ImageSize, ImageSize, ImageChannels},
		Data:  make([]float32, ImageSize*ImageSize*ImageChannels),
	}
}

// At 返回 (h, w, c) 处的值
func (t *ImageTensor) At(h, w, c int) float32 {
	return t.Data[(h*t.Shape[2]+w)*t.Shape[3]+c]
}

// Set 设置 (h, w, c) 处的值
func (t *ImageTensor) Set(h, w, c int, v float32) {
	t.Data[(h*t.Shape[2]+w)*t.Shape[3]+c] = v
}

// Verdict 表示一次分类的输出：标签和置信分数
type Verdict struct {
	Label string  `json:"label"` // Infected 或 Uninfected
	Score float32 `json:"score"` // sigmoid 输出，范围 [0,1]
}
