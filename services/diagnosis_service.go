package services

import (
	"context"
	"errors"
	"io"

	"malaria-http-service/config"
	"malaria-http-service/models"
)

// InterfaceDiagnosisService 定义诊断流水线编排服务接口
type InterfaceDiagnosisService interface {
	ClassifyOnly(ctx context.Context, src io.Reader, filename string) (*models.Verdict, error)
	ClassifyAndCreate(ctx context.Context, src io.Reader, filename string, patient *models.Patient) (*models.Verdict, error)
	ReportAndPrint(ctx context.Context, id uint, joined bool) (*ReportOutcome, error)
}

// ReportOutcome 表示报告打印流程的终态。
// 打印失败降级为警告，不影响 Reported 终态。
type ReportOutcome struct {
	DocumentPath string `json:"document_path"`
	Printed      bool   `json:"printed"`
	PrintWarning string `json:"print_warning,omitempty"`
}

// DiagnosisService 按请求变体编排预处理、分类、持久化、报告与打印
type DiagnosisService struct {
	Preprocess InterfacePreprocessService
	Classifier InterfaceClassifierService
	Patients   InterfacePatientService
	Reports    InterfaceReportService
	Printer    InterfacePrinterService
	Events     InterfaceEventService
}

// NewDiagnosisService 创建一个新的诊断编排服务
func NewDiagnosisService(
	preprocess InterfacePreprocessService,
	classifier InterfaceClassifierService,
	patients InterfacePatientService,
	reports InterfaceReportService,
	printer InterfacePrinterService,
	events InterfaceEventService,
) *DiagnosisService {
	return &DiagnosisService{
		Preprocess: preprocess,
		Classifier: classifier,
		Patients:   patients,
		Reports:    reports,
		Printer:    printer,
		Events:     events,
	}
}

// 1 ClassifyOnly 仅分类，不持久化：预处理 -> 推理 -> 返回判定
func (s *DiagnosisService) ClassifyOnly(ctx context.Context, src io.Reader, filename string) (*models.Verdict, error) {
	tensor, err := s.Preprocess.Preprocess(src, filename)
	if err != nil {
		return nil, err
	}

	verdict, err := s.Classifier.Classify(tensor)
	if err != nil {
		return nil, err
	}

	s.Events.PublishDiagnosis("", verdict)
	return verdict, nil
}

// 2 ClassifyAndCreate 分类并建档。先分类后入库：
// 分类失败时不产生任何记录，入库失败时直接上抛，无需回滚。
func (s *DiagnosisService) ClassifyAndCreate(ctx context.Context, src io.Reader, filename string, patient *models.Patient) (*models.Verdict, error) {
	tensor, err := s.Preprocess.Preprocess(src, filename)
	if err != nil {
		return nil, err
	}

	verdict, err := s.Classifier.Classify(tensor)
	if err != nil {
		return nil, err
	}

	patient.Result = verdict.Label
	if err := s.Patients.CreatePatient(ctx, patient); err != nil {
		return nil, err
	}

	s.Events.PublishDiagnosis(patient.Insurance, verdict)
	return verdict, nil
}

// 3 ReportAndPrint 报告并打印：取记录 -> 渲染 -> 分发。
// joined 为 true 时使用连接了推荐的报告变体。
// 分发失败降级为警告，流程终态仍为成功。
func (s *DiagnosisService) ReportAndPrint(ctx context.Context, id uint, joined bool) (*ReportOutcome, error) {
	var docPath string

	if joined {
		row, err := s.Patients.GetPatientJoinedByID(ctx, id)
		if err != nil {
			return nil, err
		}
		docPath, err = s.Reports.RenderJoinedReport(row)
		if err != nil {
			return nil, err
		}
	} else {
		patient, err := s.Patients.GetPatientByID(ctx, id)
		if err != nil {
			return nil, err
		}
		docPath, err = s.Reports.RenderPatientReport(patient)
		if err != nil {
			return nil, err
		}
	}

	outcome := &ReportOutcome{DocumentPath: docPath, Printed: true}
	if err := s.Printer.Dispatch(ctx, docPath); err != nil {
		if !errors.Is(err, ErrPrintUnavailable) {
			config.Warning("打印分发出现未分类错误: %v", err)
		}
		outcome.Printed = false
		outcome.PrintWarning = "打印服务不可用，报告已生成"
	}

	s.Events.PublishReportPrinted(id, outcome.Printed)
	return outcome, nil
}
