package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"malaria-http-service/config"
	"malaria-http-service/models"
)

// 病例与推荐的右外连接：没有匹配病例的推荐行也保留，病例字段为 NULL
const patientRecoJoinSQL = `
SELECT patients.patientid, patients.fname, patients.lname, patients.phone, patients.result,
       reco.insurance, reco.reco
FROM patients
RIGHT JOIN reco ON patients.insurance = reco.insurance`

// InterfacePatientService 定义病例记录服务接口
type InterfacePatientService interface {
	CreatePatient(ctx context.Context, patient *models.Patient) error
	GetPatientByID(ctx context.Context, id uint) (*models.Patient, error)
	GetAllPatients(page, pageSize int) ([]models.Patient, int64, error)
	UpdateResultByInsurance(ctx context.Context, insurance, result string) (int64, error)
	DeletePatient(ctx context.Context, id uint) error
	ListPatientsJoinedWithReco(ctx context.Context) ([]models.PatientRecoRow, error)
	GetPatientJoinedByID(ctx context.Context, id uint) (*models.PatientRecoRow, error)
	CountPatients() (int64, error)
}

// PatientService 提供病例记录相关的服务，是诊断结果的唯一持久化入口
type PatientService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewPatientService 创建一个新的病例记录服务
func NewPatientService(db *gorm.DB, cfg *config.Config) *PatientService {
	return &PatientService{
		DB:     db,
		Config: cfg,
	}
}

// 1 CreatePatient 创建新病例。结果为空时落默认哨兵值（先建档后分类的流程）
func (s *PatientService) CreatePatient(ctx context.Context, patient *models.Patient) error {
	if patient.Result == "" {
		patient.Result = models.ResultPending
	}
	if err := s.DB.WithContext(ctx).Create(patient).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// 2 GetPatientByID 根据ID获取病例
func (s *PatientService) GetPatientByID(ctx context.Context, id uint) (*models.Patient, error) {
	var patient models.Patient
	if err := s.DB.WithContext(ctx).First(&patient, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMissingRecord
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &patient, nil
}

// 3 GetAllPatients 获取所有病例，支持分页，按入库顺序返回
func (s *PatientService) GetAllPatients(page, pageSize int) ([]models.Patient, int64, error) {
	var patients []models.Patient
	var total int64

	if err := s.DB.Model(&models.Patient{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	offset := (page - 1) * pageSize
	if err := s.DB.Limit(pageSize).Offset(offset).Find(&patients).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return patients, total, nil
}

// 4 UpdateResultByInsurance 按保险号批量更新诊断结果。
// 影响零行不算错误，重复执行结果不变。
func (s *PatientService) UpdateResultByInsurance(ctx context.Context, insurance, result string) (int64, error) {
	if !models.IsKnownResult(result) {
		return 0, fmt.Errorf("无效的诊断结果 %q", result)
	}

	res := s.DB.WithContext(ctx).Model(&models.Patient{}).
		Where("insurance = ?", insurance).
		Update("result", result)
	if res.Error != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, res.Error)
	}
	return res.RowsAffected, nil
}

// 5 DeletePatient 删除病例。ID不存在时静默成功，不影响其他记录
func (s *PatientService) DeletePatient(ctx context.Context, id uint) error {
	if err := s.DB.WithContext(ctx).Delete(&models.Patient{}, id).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// 6 ListPatientsJoinedWithReco 病例与推荐的右外连接列表，按入库顺序
func (s *PatientService) ListPatientsJoinedWithReco(ctx context.Context) ([]models.PatientRecoRow, error) {
	var rows []models.PatientRecoRow
	if err := s.DB.WithContext(ctx).Raw(patientRecoJoinSQL).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return rows, nil
}

// 7 GetPatientJoinedByID 按病例ID获取连接了推荐的单行记录
func (s *PatientService) GetPatientJoinedByID(ctx context.Context, id uint) (*models.PatientRecoRow, error) {
	var rows []models.PatientRecoRow
	query := patientRecoJoinSQL + " WHERE patients.patientid = ?"
	if err := s.DB.WithContext(ctx).Raw(query, id).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if len(rows) == 0 {
		return nil, ErrMissingRecord
	}
	return &rows[0], nil
}

// 8 CountPatients 统计病例总数（仪表盘用）
func (s *PatientService) CountPatients() (int64, error) {
	var count int64
	if err := s.DB.Model(&models.Patient{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return count, nil
}
