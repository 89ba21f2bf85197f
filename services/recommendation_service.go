package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"malaria-http-service/config"
	"malaria-http-service/models"
)

// InterfaceRecommendationService 定义推荐服务接口
type InterfaceRecommendationService interface {
	CreateRecommendation(ctx context.Context, reco *models.Recommendation) error
	GetAllRecommendations(page, pageSize int) ([]models.Recommendation, int64, error)
	DeleteRecommendation(ctx context.Context, id uint) error
}

// RecommendationService 提供按保险号维护的建议文本服务
type RecommendationService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewRecommendationService 创建一个新的推荐服务
func NewRecommendationService(db *gorm.DB, cfg *config.Config) *RecommendationService {
	return &RecommendationService{
		DB:     db,
		Config: cfg,
	}
}

// 1 CreateRecommendation 创建推荐。同一保险号允许重复
func (s *RecommendationService) CreateRecommendation(ctx context.Context, reco *models.Recommendation) error {
	if err := s.DB.WithContext(ctx).Create(reco).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}

// 2 GetAllRecommendations 获取所有推荐，支持分页
func (s *RecommendationService) GetAllRecommendations(page, pageSize int) ([]models.Recommendation, int64, error) {
	var recos []models.Recommendation
	var total int64

	if err := s.DB.Model(&models.Recommendation{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	offset := (page - 1) * pageSize
	if err := s.DB.Limit(pageSize).Offset(offset).Find(&recos).Error; err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return recos, total, nil
}

// 3 DeleteRecommendation 删除推荐
func (s *RecommendationService) DeleteRecommendation(ctx context.Context, id uint) error {
	if err := s.DB.WithContext(ctx).Delete(&models.Recommendation{}, id).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
