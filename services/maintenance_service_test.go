package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"malaria-http-service/config"
)

func TestSweepOnce(t *testing.T) {
	uploadDir := filepath.Join(t.TempDir(), "uploads")
	reportDir := filepath.Join(t.TempDir(), "reports")
	for _, dir := range []string{uploadDir, reportDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}

	cfg := &config.Config{
		UploadDir:      uploadDir,
		ReportDir:      reportDir,
		RetentionHours: 72,
	}
	svc := NewMaintenanceService(cfg)

	stale := filepath.Join(uploadDir, "stale.png")
	fresh := filepath.Join(reportDir, "patient_1.pdf")
	for _, path := range []string{stale, fresh} {
		if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	old := time.Now().Add(-100 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatal(err)
	}

	removed, err := svc.SweepOnce()
	if err != nil {
		t.Fatalf("SweepOnce: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Error("stale file survived the sweep")
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Errorf("fresh file removed: %v", err)
	}
}

func TestSweepOnceMissingDirs(t *testing.T) {
	cfg := &config.Config{
		UploadDir:      filepath.Join(t.TempDir(), "does-not-exist"),
		ReportDir:      filepath.Join(t.TempDir(), "also-missing"),
		RetentionHours: 72,
	}
	svc := NewMaintenanceService(cfg)

	removed, err := svc.SweepOnce()
	if err != nil {
		t.Fatalf("SweepOnce: %v", err)
	}
	if removed != 0 {
		t.Errorf("removed = %d, want 0", removed)
	}
}
