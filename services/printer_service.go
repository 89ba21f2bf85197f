package services

import (
	"context"
	"fmt"
	"os/exec"

	"malaria-http-service/config"
)

// InterfacePrinterService 定义打印分发服务接口
type InterfacePrinterService interface {
	Dispatch(ctx context.Context, documentPath string) error
}

// PrinterService 将生成的报告交给操作系统打印设施，尽力而为。
// 打印失败不回滚任何持久化结果。
type PrinterService struct {
	Config *config.Config
}

// NewPrinterService 创建一个新的打印分发服务
func NewPrinterService(cfg *config.Config) *PrinterService {
	return &PrinterService{Config: cfg}
}

// Dispatch 调用打印命令发送文档，失败映射为 ErrPrintUnavailable
func (s *PrinterService) Dispatch(ctx context.Context, documentPath string) error {
	cmd := exec.CommandContext(ctx, s.Config.PrinterCommand, documentPath)
	if output, err := cmd.CombinedOutput(); err != nil {
		config.Warning("打印命令 %s 执行失败: %v, 输出: %s", s.Config.PrinterCommand, err, output)
		return fmt.Errorf("%w: %v", ErrPrintUnavailable, err)
	}
	return nil
}
