package services

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"

	"malaria-http-service/config"
	"malaria-http-service/models"
)

// 报告的固定纵向布局：左边距 100pt，从页顶 42pt 起每行 20pt
const (
	reportMarginX   = 100.0
	reportTopY      = 42.0
	reportLineStep  = 20.0
	reportFontSize  = 12.0
	reportFontName  = "Helvetica"
	reportPageSize  = "Letter"
	reportPageUnits = "pt"
)

// InterfaceReportService 定义报告生成服务接口
type InterfaceReportService interface {
	RenderPatientReport(patient *models.Patient) (string, error)
	RenderJoinedReport(row *models.PatientRecoRow) (string, error)
}

// ReportService 将病例记录渲染为单页固定布局的PDF文档
type ReportService struct {
	Config *config.Config
}

// NewReportService 创建一个新的报告生成服务
func NewReportService(cfg *config.Config) *ReportService {
	return &ReportService{Config: cfg}
}

// RenderPatientReport 渲染病例报告，返回生成的PDF路径
func (s *ReportService) RenderPatientReport(patient *models.Patient) (string, error) {
	if patient == nil {
		return "", ErrMissingRecord
	}

	lines := []string{
		fmt.Sprintf("Patient ID: %d", patient.PatientID),
		fmt.Sprintf("First Name: %s", patient.FName),
		fmt.Sprintf("Last Name: %s", patient.LName),
		fmt.Sprintf("Insurance: %s", patient.Insurance),
		fmt.Sprintf("Contact Number: %s", patient.Phone),
		fmt.Sprintf("Result: %s", patient.Result),
	}
	return s.render(patient.PatientID, lines)
}

// RenderJoinedReport 渲染带推荐的病例报告
func (s *ReportService) RenderJoinedReport(row *models.PatientRecoRow) (string, error) {
	if row == nil || row.PatientID == nil {
		return "", ErrMissingRecord
	}

	lines := []string{
		fmt.Sprintf("Patient ID: %d", *row.PatientID),
		fmt.Sprintf("First Name: %s", deref(row.FName)),
		fmt.Sprintf("Last Name: %s", deref(row.LName)),
		fmt.Sprintf("Insurance: %s", row.Insurance),
		fmt.Sprintf("Contact Number: %s", deref(row.Phone)),
		fmt.Sprintf("Result: %s", deref(row.Result)),
		fmt.Sprintf("Recommendation: %s", row.Reco),
	}
	return s.render(*row.PatientID, lines)
}

// render 将标签行写入单页PDF
func (s *ReportService) render(patientID uint, lines []string) (string, error) {
	if err := os.MkdirAll(s.Config.ReportDir, 0755); err != nil {
		return "", fmt.Errorf("创建报告目录失败: %w", err)
	}

	pdf := gofpdf.New("P", reportPageUnits, reportPageSize, "")
	pdf.AddPage()
	pdf.SetFont(reportFontName, "", reportFontSize)

	y := reportTopY
	for _, line := range lines {
		pdf.Text(reportMarginX, y, line)
		y += reportLineStep
	}

	path := filepath.Join(s.Config.ReportDir, fmt.Sprintf("patient_%d.pdf", patientID))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("写入报告文件失败: %w", err)
	}
	return path, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
