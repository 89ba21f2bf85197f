package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"malaria-http-service/config"
	"malaria-http-service/models"
)

// InterfaceStaffService 定义员工服务接口
type InterfaceStaffService interface {
	CreateDoctor(ctx context.Context, doctor *models.Doctor) error
	GetAllDoctors(page, pageSize int) ([]models.Doctor, int64, error)
	DeleteDoctor(ctx context.Context, id uint) error

	CreateLabStaff(ctx context.Context, staff *models.LabStaff) error
	GetAllLabStaff(page, pageSize int) ([]models.LabStaff, int64, error)
	DeleteLabStaff(ctx context.Context, id uint) error

	CreateOfficeStaff(ctx context.Context, staff *models.OfficeStaff) error
	GetAllOfficeStaff(page, pageSize int) ([]models.OfficeStaff, int64, error)
	DeleteOfficeStaff(ctx context.Context, id uint) error

	CountDoctors() (int64, error)
	CountLabStaff() (int64, error)
	CountOfficeStaff() (int64, error)
}

// StaffService 提供医生、检验员、前台员工相关的服务。
// 创建员工的同时在同一事务内创建配对的登录账户，
// 避免两条独立语句部分失败产生孤儿账户。
type StaffService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewStaffService 创建一个新的员工服务
func NewStaffService(db *gorm.DB, cfg *config.Config) *StaffService {
	return &StaffService{
		DB:     db,
		Config: cfg,
	}
}

// createPairedAccount 在事务内创建员工配对的登录账户，使用角色默认密码
func (s *StaffService) createPairedAccount(tx *gorm.DB, username, role, defaultPassword string) error {
	var count int64
	if err := tx.Model(&models.User{}).Where("LOWER(username) = LOWER(?)", username).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errors.New("用户名已存在")
	}

	user := models.User{
		Username: username,
		Password: defaultPassword, // BeforeCreate 钩子负责哈希
		UserType: role,
	}
	return tx.Create(&user).Error
}

// 1 CreateDoctor 创建医生及配对账户
func (s *StaffService) CreateDoctor(ctx context.Context, doctor *models.Doctor) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(doctor).Error; err != nil {
			return err
		}
		return s.createPairedAccount(tx, doctor.FName, models.RoleDoctor, s.Config.DefaultDoctorPassword)
	})
	if err != nil {
		return fmt.Errorf("创建医生失败: %w", err)
	}
	return nil
}

// 2 GetAllDoctors 获取所有医生，支持分页
func (s *StaffService) GetAllDoctors(page, pageSize int) ([]models.Doctor, int64, error) {
	var doctors []models.Doctor
	var total int64

	if err := s.DB.Model(&models.Doctor{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := s.DB.Limit(pageSize).Offset(offset).Find(&doctors).Error; err != nil {
		return nil, 0, err
	}

	return doctors, total, nil
}

// 3 DeleteDoctor 删除医生
func (s *StaffService) DeleteDoctor(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Delete(&models.Doctor{}, id).Error
}

// 4 CreateLabStaff 创建检验员及配对账户
func (s *StaffService) CreateLabStaff(ctx context.Context, staff *models.LabStaff) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(staff).Error; err != nil {
			return err
		}
		return s.createPairedAccount(tx, staff.FName, models.RoleLab, s.Config.DefaultLabPassword)
	})
	if err != nil {
		return fmt.Errorf("创建检验员失败: %w", err)
	}
	return nil
}

// 5 GetAllLabStaff 获取所有检验员，支持分页
func (s *StaffService) GetAllLabStaff(page, pageSize int) ([]models.LabStaff, int64, error) {
	var staff []models.LabStaff
	var total int64

	if err := s.DB.Model(&models.LabStaff{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := s.DB.Limit(pageSize).Offset(offset).Find(&staff).Error; err != nil {
		return nil, 0, err
	}

	return staff, total, nil
}

// 6 DeleteLabStaff 删除检验员
func (s *StaffService) DeleteLabStaff(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Delete(&models.LabStaff{}, id).Error
}

// 7 CreateOfficeStaff 创建前台员工及配对账户
func (s *StaffService) CreateOfficeStaff(ctx context.Context, staff *models.OfficeStaff) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(staff).Error; err != nil {
			return err
		}
		return s.createPairedAccount(tx, staff.FName, models.RoleOffice, s.Config.DefaultOfficePassword)
	})
	if err != nil {
		return fmt.Errorf("创建前台员工失败: %w", err)
	}
	return nil
}

// 8 GetAllOfficeStaff 获取所有前台员工，支持分页
func (s *StaffService) GetAllOfficeStaff(page, pageSize int) ([]models.OfficeStaff, int64, error) {
	var staff []models.OfficeStaff
	var total int64

	if err := s.DB.Model(&models.OfficeStaff{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := s.DB.Limit(pageSize).Offset(offset).Find(&staff).Error; err != nil {
		return nil, 0, err
	}

	return staff, total, nil
}

// 9 DeleteOfficeStaff 删除前台员工
func (s *StaffService) DeleteOfficeStaff(ctx context.Context, id uint) error {
	return s.DB.WithContext(ctx).Delete(&models.OfficeStaff{}, id).Error
}

// CountDoctors 统计医生总数
func (s *StaffService) CountDoctors() (int64, error) {
	var count int64
	err := s.DB.Model(&models.Doctor{}).Count(&count).Error
	return count, err
}

// CountLabStaff 统计检验员总数
func (s *StaffService) CountLabStaff() (int64, error) {
	var count int64
	err := s.DB.Model(&models.LabStaff{}).Count(&count).Error
	return count, err
}

// CountOfficeStaff 统计前台员工总数
func (s *StaffService) CountOfficeStaff() (int64, error) {
	var count int64
	err := s.DB.Model(&models.OfficeStaff{}).Count(&count).Error
	return count, err
}
