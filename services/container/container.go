package container

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"malaria-http-service/config"
	"malaria-http-service/services"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config
	redis  *redis.Client

	// 基础服务
	jwtService   services.InterfaceJWTService
	redisService services.InterfaceRedisService

	// 事件总线服务
	eventService services.InterfaceEventService

	// 诊断流水线服务
	classifierService services.InterfaceClassifierService
	preprocessService services.InterfacePreprocessService
	reportService     services.InterfaceReportService
	printerService    services.InterfacePrinterService
	diagnosisService  services.InterfaceDiagnosisService

	// 业务服务
	patientService        services.InterfacePatientService
	recommendationService services.InterfaceRecommendationService
	staffService          services.InterfaceStaffService

	// 后台清理服务
	maintenanceService services.InterfaceMaintenanceService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器。
// 分类器在启动时由 main 构造并注入，加载失败在那里直接终止进程。
func NewServiceContainer(db *gorm.DB, cfg *config.Config, redisClient *redis.Client, classifier services.InterfaceClassifierService) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	if classifier == nil {
		panic("分类器为空")
	}

	// 测试Redis连接
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Redis连接测试失败: %v，将不使用Redis缓存", err)
		}
	}

	container := &ServiceContainer{
		db:                db,
		config:            cfg,
		redis:             redisClient,
		classifierService: classifier,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config)
	c.redisService = services.NewRedisService(c.config, c.redis)

	// 初始化事件总线服务
	c.eventService = services.NewEventService(c.config)
	if err := c.eventService.Connect(); err != nil {
		log.Printf("MQTT事件总线连接失败: %v", err)
	}

	// 初始化业务服务
	c.patientService = services.NewPatientService(c.db, c.config)
	c.recommendationService = services.NewRecommendationService(c.db, c.config)
	c.staffService = services.NewStaffService(c.db, c.config)

	// 初始化诊断流水线服务
	c.preprocessService = services.NewPreprocessService(c.config)
	c.reportService = services.NewReportService(c.config)
	c.printerService = services.NewPrinterService(c.config)
	c.diagnosisService = services.NewDiagnosisService(
		c.preprocessService,
		c.classifierService,
		c.patientService,
		c.reportService,
		c.printerService,
		c.eventService,
	)

	// 初始化后台清理服务
	c.maintenanceService = services.NewMaintenanceService(c.config)
	if err := c.maintenanceService.Start(); err != nil {
		log.Printf("清理任务启动失败: %v", err)
	}
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "event":
		return c.eventService
	case "classifier":
		return c.classifierService
	case "preprocess":
		return c.preprocessService
	case "report":
		return c.reportService
	case "printer":
		return c.printerService
	case "diagnosis":
		return c.diagnosisService
	case "patient":
		return c.patientService
	case "recommendation":
		return c.recommendationService
	case "staff":
		return c.staffService
	case "maintenance":
		return c.maintenanceService
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}
