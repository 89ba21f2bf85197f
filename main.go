// @title           Malaria Diagnosis HTTP Service API
// @version         1.0
// @description     A clinic management backend with blood smear classification, case records and printable reports

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Enter the token with the `Bearer: ` prefix
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"malaria-http-service/config"
	"malaria-http-service/models"
	"malaria-http-service/routes"
	"malaria-http-service/services"
)

func main() {
	// 初始化日志配置
	if err := config.SetupLogger(); err != nil {
		fmt.Printf("初始化日志配置失败: %v\n", err)
		os.Exit(1)
	}

	// 加载.env文件
	if err := godotenv.Load(); err != nil {
		config.Warning("无法加载.env文件: %v", err)
		// 即使加载失败也继续执行，可能环境变量已经通过其他方式设置
	} else {
		config.Info("成功加载.env文件")
	}

	// 获取配置
	cfg := config.GetConfig()

	// 连接数据库
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("无法连接数据库: %v", err)
	}

	// 根据配置执行不同的数据库操作
	if cfg.DBMigrationMode == "drop" {
		// 删除并重建表
		log.Println("警告: 在drop模式下运行，将删除并重建所有表")
		if err := dropAndRecreateTables(db); err != nil {
			log.Fatalf("删除并重建表失败: %v", err)
		}
	} else {
		// 默认AutoMigrate，只会添加新列和新表，不会删除或修改列
		log.Println("在标准模式下运行，将只添加新列和新表")
		if err := autoMigrate(db); err != nil {
			log.Fatalf("自动迁移失败: %v", err)
		}
	}

	// 归一化历史数据中的自由文本结论
	if err := normalizeLegacyResults(db); err != nil {
		log.Printf("归一化历史结论失败: %v", err)
	}

	// 确保系统中有管理员账户
	ensureAdminExists(db, cfg)

	// 加载分类模型权重，失败则拒绝启动
	classifier, err := services.NewClassifierService(cfg.ModelPath)
	if err != nil {
		log.Fatalf("无法加载分类模型 %s: %v", cfg.ModelPath, err)
	}
	config.Info("分类模型已加载: %s (输入维度 %d)", cfg.ModelPath, classifier.InputDim())

	// 创建Redis客户端，不可用时仪表盘缓存自动退化
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.GetRedisAddr(),
		Password: "",
		DB:       cfg.RedisDB,
	})

	// 初始化路由
	r := routes.SetupRouter(db, cfg, redisClient, classifier)

	// 启动服务器
	port := cfg.ServerPort
	config.Info("服务器启动在: http://localhost:%s", port)
	if err := r.Run(":" + port); err != nil {
		config.Error("启动服务器失败: %v", err)
		os.Exit(1)
	}
}

// initDB 初始化数据库连接，按配置选择驱动
func initDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.DBDriver == "mysql" {
		dialector = mysql.Open(cfg.GetDSN())
	} else {
		dialector = sqlite.Open(cfg.DBSQLitePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	fmt.Println("Database connection established")
	return db, nil
}

// autoMigrate 自动迁移所有模型（只添加新列和新表）
func autoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Patient{},
		&models.Recommendation{},
		&models.User{},
		&models.Doctor{},
		&models.LabStaff{},
		&models.OfficeStaff{},
	)
	if err != nil {
		return err
	}

	fmt.Println("Database migration completed")
	return nil
}

// dropAndRecreateTables 删除并重建所有表
func dropAndRecreateTables(db *gorm.DB) error {
	// 警告: 这将删除所有数据
	log.Println("警告: 正在删除并重建所有表，所有数据将丢失")

	tables := []interface{}{
		&models.Patient{},
		&models.Recommendation{},
		&models.User{},
		&models.Doctor{},
		&models.LabStaff{},
		&models.OfficeStaff{},
	}
	for _, table := range tables {
		if err := db.Migrator().DropTable(table); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}

	// 重新创建所有表
	log.Println("正在重新创建所有表")
	return autoMigrate(db)
}

// normalizeLegacyResults 将历史自由文本结论归一化为枚举值。
// 原始文本保留在result_note列中以便追溯
func normalizeLegacyResults(db *gorm.DB) error {
	var patients []models.Patient
	if err := db.Find(&patients).Error; err != nil {
		return err
	}

	for i := range patients {
		p := &patients[i]
		if models.IsKnownResult(p.Result) {
			continue
		}

		normalized := models.ResultPending
		switch lower := strings.ToLower(strings.TrimSpace(p.Result)); {
		case lower == "":
			normalized = models.ResultPending
		case strings.Contains(lower, "uninfected") || strings.Contains(lower, "negative"):
			normalized = models.ResultUninfected
		case strings.Contains(lower, "infected") || strings.Contains(lower, "positive"):
			normalized = models.ResultInfected
		}

		updates := map[string]interface{}{"result": normalized}
		if p.Result != "" && p.ResultNote == "" {
			updates["result_note"] = p.Result
		}
		if err := db.Model(&models.Patient{}).Where("patientid = ?", p.PatientID).Updates(updates).Error; err != nil {
			return err
		}
	}
	return nil
}

// ensureAdminExists 确保系统中至少有一个管理员账户
func ensureAdminExists(db *gorm.DB, cfg *config.Config) {
	var count int64
	db.Model(&models.User{}).Where("user_type = ?", models.RoleAdmin).Count(&count)

	// 如果没有管理员，则创建一个默认管理员
	if count == 0 {
		admin := models.User{
			Username: "admin",
			Password: cfg.DefaultAdminPassword, // BeforeCreate 钩子负责哈希
			UserType: models.RoleAdmin,
		}

		if err := db.Create(&admin).Error; err != nil {
			log.Printf("无法创建默认管理员: %v", err)
			return
		}

		log.Println("已创建默认管理员账户 (用户名: admin)")
	}
}
