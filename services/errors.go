package services

import "errors"

// 诊断流水线的错误分类。预处理与分类错误直接中断当前请求，
// 打印错误不影响持久化结果。
var (
	// ErrUnsupportedFormat 上传的文件扩展名不在白名单内，或无法解码为图像
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrInferenceFailure 模型推理过程中发生运行时错误
	ErrInferenceFailure = errors.New("inference failure")

	// ErrMissingRecord 请求的病例记录不存在
	ErrMissingRecord = errors.New("missing case record")

	// ErrPrintUnavailable 打印设施不可用，不影响已持久化的记录
	ErrPrintUnavailable = errors.New("print facility unavailable")

	// ErrPersistence 存储层错误的统一包装
	ErrPersistence = errors.New("persistence failure")

	// ErrUploadTooLarge 上传超出边界策略允许的大小
	ErrUploadTooLarge = errors.New("upload too large")
)
