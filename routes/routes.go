package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"malaria-http-service/config"
	"malaria-http-service/controllers"
	"malaria-http-service/middleware"
	"malaria-http-service/services"
	"malaria-http-service/services/container"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config, redisClient *redis.Client, classifier services.InterfaceClassifierService) *gin.Engine {
	// 初始化 Gin
	r := gin.Default()

	// 添加 CORS 中间件
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	r.Use(cors.New(corsConfig))

	// 设置正确的Content-Type，确保UTF-8编码
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		c.Next()
	})

	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg, redisClient, classifier)
	// 初始化中间件
	middleware.InitAuthMiddleware(cfg)
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册路由
	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes 配置所有API路由
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	// API 路由根路径
	api := r.Group("/api")
	// 注册公共路由
	registerPublicRoutes(api, container)
	// 注册需要认证的路由
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 健康检查
	api.GET("/ping", controllers.Ping)

	// 认证路由
	api.POST("/auth/login", controllers.HandleJWTFunc(container, "login"))
}

// registerAuthenticatedRoutes 注册需要认证的路由
func registerAuthenticatedRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 诊断路由：仅检验员（及管理员）可上传血涂片
	diagnosis := api.Group("/diagnosis")
	diagnosis.Use(middleware.AuthenticateLab())
	diagnosis.POST("/predict", controllers.HandleDiagnosisFunc(container, "predict"))
	diagnosis.POST("/patients", controllers.HandleDiagnosisFunc(container, "predictAndCreate"))

	// 病例路由：任何已认证角色可读，写操作按角色细分
	patients := api.Group("/patients")
	patients.Use(middleware.Authentication())
	patients.GET("", controllers.HandlePatientFunc(container, "getPatients"))
	patients.GET("/joined", controllers.HandlePatientFunc(container, "getPatientsJoined"))
	patients.GET("/:id", controllers.HandlePatientFunc(container, "getPatient"))

	// 医生或检验员可写入诊断结论并打印报告
	clinical := api.Group("/patients")
	clinical.Use(middleware.AuthenticateClinician())
	clinical.POST("", controllers.HandlePatientFunc(container, "addPatient"))
	clinical.PUT("/result", controllers.HandlePatientFunc(container, "updateResult"))
	clinical.DELETE("/:id", controllers.HandlePatientFunc(container, "deletePatient"))
	clinical.POST("/:id/print", controllers.HandleReportFunc(container, "print"))

	// 前台接诊登记
	intake := api.Group("/patients")
	intake.Use(middleware.AuthenticateOffice())
	intake.POST("/intake", controllers.HandlePatientFunc(container, "intake"))

	// 建议路由：医生维护
	recommendations := api.Group("/recommendations")
	recommendations.Use(middleware.AuthenticateDoctor())
	recommendations.GET("", controllers.HandleRecommendationFunc(container, "getRecommendations"))
	recommendations.POST("", controllers.HandleRecommendationFunc(container, "addRecommendation"))
	recommendations.DELETE("/:id", controllers.HandleRecommendationFunc(container, "deleteRecommendation"))

	// 员工管理路由：仅管理员
	admin := api.Group("/")
	admin.Use(middleware.AuthenticateAdmin())
	admin.Group("/doctors").GET("", controllers.HandleStaffFunc(container, "getDoctors"))
	admin.Group("/doctors").POST("", controllers.HandleStaffFunc(container, "addDoctor"))
	admin.Group("/doctors").DELETE("/:id", controllers.HandleStaffFunc(container, "deleteDoctor"))
	admin.Group("/labs").GET("", controllers.HandleStaffFunc(container, "getLabStaff"))
	admin.Group("/labs").POST("", controllers.HandleStaffFunc(container, "addLabStaff"))
	admin.Group("/labs").DELETE("/:id", controllers.HandleStaffFunc(container, "deleteLabStaff"))
	admin.Group("/offices").GET("", controllers.HandleStaffFunc(container, "getOfficeStaff"))
	admin.Group("/offices").POST("", controllers.HandleStaffFunc(container, "addOfficeStaff"))
	admin.Group("/offices").DELETE("/:id", controllers.HandleStaffFunc(container, "deleteOfficeStaff"))

	// 仪表盘路由：按角色裁剪统计
	dashboard := api.Group("/dashboard")
	dashboard.Use(middleware.Authentication())
	dashboard.GET("", controllers.HandleDashboardFunc(container, "getCounts"))
}
