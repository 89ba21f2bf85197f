package main

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"malaria-http-service/config"
	"malaria-http-service/models"
)

func newMigrationTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	if err := autoMigrate(db); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}
	return db
}

func TestNormalizeLegacyResults(t *testing.T) {
	db := newMigrationTestDB(t)

	legacy := []models.Patient{
		{FName: "A", Insurance: "I1", Result: "patient looks infected"},
		{FName: "B", Insurance: "I2", Result: "Uninfected - second reading"},
		{FName: "C", Insurance: "I3", Result: "awaiting microscopy"},
		{FName: "D", Insurance: "I4", Result: models.ResultInfected},
	}
	for i := range legacy {
		if err := db.Create(&legacy[i]).Error; err != nil {
			t.Fatal(err)
		}
	}

	if err := normalizeLegacyResults(db); err != nil {
		t.Fatalf("normalizeLegacyResults: %v", err)
	}

	cases := []struct {
		insurance string
		want      string
		wantNote  string
	}{
		{"I1", models.ResultInfected, "patient looks infected"},
		{"I2", models.ResultUninfected, "Uninfected - second reading"},
		{"I3", models.ResultPending, "awaiting microscopy"},
		{"I4", models.ResultInfected, ""},
	}
	for _, tc := range cases {
		var p models.Patient
		if err := db.Where("insurance = ?", tc.insurance).First(&p).Error; err != nil {
			t.Fatal(err)
		}
		if p.Result != tc.want {
			t.Errorf("%s: Result = %q, want %q", tc.insurance, p.Result, tc.want)
		}
		if p.ResultNote != tc.wantNote {
			t.Errorf("%s: ResultNote = %q, want %q", tc.insurance, p.ResultNote, tc.wantNote)
		}
	}
}

func TestEnsureAdminExists(t *testing.T) {
	db := newMigrationTestDB(t)
	cfg := &config.Config{DefaultAdminPassword: "admin123"}

	ensureAdminExists(db, cfg)

	var admin models.User
	if err := db.Where("username = ?", "admin").First(&admin).Error; err != nil {
		t.Fatalf("default admin missing: %v", err)
	}
	if admin.UserType != models.RoleAdmin {
		t.Errorf("UserType = %q, want %q", admin.UserType, models.RoleAdmin)
	}
	if !models.CheckPasswordHash("admin123", admin.Password) {
		t.Error("admin password not hashed from default")
	}

	// 再次调用不会重复创建
	ensureAdminExists(db, cfg)
	var count int64
	db.Model(&models.User{}).Where("user_type = ?", models.RoleAdmin).Count(&count)
	if count != 1 {
		t.Errorf("admin count = %d, want 1", count)
	}
}
