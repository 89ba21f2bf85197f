package services

import (
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"malaria-http-service/config"
)

// InterfaceMaintenanceService 定义后台清理服务接口
type InterfaceMaintenanceService interface {
	Start() error
	Stop()
	SweepOnce() (int, error)
}

// MaintenanceService 定期清理残留的上传暂存文件和过期的报告PDF。
// 正常流程会删掉暂存文件，这里兜底处理进程崩溃留下的残留。
type MaintenanceService struct {
	Config *config.Config
	cron   *cron.Cron
}

// NewMaintenanceService 创建一个新的后台清理服务
func NewMaintenanceService(cfg *config.Config) *MaintenanceService {
	return &MaintenanceService{Config: cfg}
}

// Start 注册并启动定时清理任务
func (s *MaintenanceService) Start() error {
	if s.Config.CleanupDisabled {
		config.Info("清理任务已禁用")
		return nil
	}

	s.cron = cron.New()
	_, err := s.cron.AddFunc(s.Config.CleanupSpec, func() {
		removed, err := s.SweepOnce()
		if err != nil {
			config.Warning("清理任务执行失败: %v", err)
			return
		}
		config.Info("清理任务完成，删除 %d 个过期文件", removed)
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	config.Info("清理任务已启动: %s", s.Config.CleanupSpec)
	return nil
}

// Stop 停止定时任务
func (s *MaintenanceService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

// SweepOnce 清理一次过期文件，返回删除数量
func (s *MaintenanceService) SweepOnce() (int, error) {
	cutoff := time.Now().Add(-time.Duration(s.Config.RetentionHours) * time.Hour)
	removed := 0

	for _, dir := range []string{s.Config.UploadDir, s.Config.ReportDir} {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return removed, err
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.ModTime().Before(cutoff) {
				if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
					config.Warning("删除过期文件 %s 失败: %v", entry.Name(), err)
					continue
				}
				removed++
			}
		}
	}
	return removed, nil
}
