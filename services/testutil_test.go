package services

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"malaria-http-service/config"
	"malaria-http-service/models"
)

// newTestDB 在临时目录创建一个sqlite数据库并迁移全部模型
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}

	err = db.AutoMigrate(
		&models.Patient{},
		&models.Recommendation{},
		&models.User{},
		&models.Doctor{},
		&models.LabStaff{},
		&models.OfficeStaff{},
	)
	if err != nil {
		t.Fatalf("迁移测试数据库失败: %v", err)
	}
	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		DefaultDoctorPassword: "abc@123",
		DefaultLabPassword:    "lab@123",
		DefaultOfficePassword: "office@123",
	}
}
