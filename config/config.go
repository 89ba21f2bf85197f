package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

var (
	config     *Config
	configOnce sync.Once
)

// Config stores all configuration of the application
type Config struct {
	// Environment type
	EnvType string

	// Database
	DBDriver        string // 数据库驱动: "sqlite"(默认) 或 "mysql"
	DBHost          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBPort          string
	DBSQLitePath    string // sqlite 数据库文件路径
	DBMigrationMode string // 数据库迁移模式: "auto"(默认), "drop"(删除重建)

	// Server
	ServerPort string

	// Redis
	RedisHost string
	RedisPort string
	RedisDB   int

	// MQTT 事件总线（可选，Broker为空时禁用）
	MQTTBroker   string
	MQTTClientID string

	// 分类模型
	ModelPath string

	// 上传与报告
	UploadDir      string
	ReportDir      string
	MaxUploadBytes int64

	// 打印
	PrinterCommand string

	// 清理任务
	CleanupSpec     string // cron 表达式
	RetentionHours  int    // 报告与残留上传的保留时长
	CleanupDisabled bool

	// JWT Authentication
	JWTSecretKey string

	// 默认账户密码
	DefaultAdminPassword  string
	DefaultDoctorPassword string
	DefaultLabPassword    string
	DefaultOfficePassword string
}

// LoadConfig loads config from environment variables based on ENV_TYPE
func LoadConfig() *Config {
	// Get environment type (default to LOCAL if not set)
	envType := getEnv("ENV_TYPE", "LOCAL")
	prefix := ""

	// Set prefix based on environment type
	if strings.ToUpper(envType) == "LOCAL" {
		prefix = "LOCAL_"
	} else if strings.ToUpper(envType) == "SERVER" {
		prefix = "SERVER_"
	} else {
		fmt.Printf("Warning: Unknown ENV_TYPE '%s', defaulting to LOCAL environment\n", envType)
		prefix = "LOCAL_"
		envType = "LOCAL"
	}

	fmt.Printf("Loading configuration for environment: %s\n", envType)

	return &Config{
		// Environment type
		EnvType: envType,

		// Database config - use environment-specific variables if available
		DBDriver:        getEnv(prefix+"DB_DRIVER", getEnv("DB_DRIVER", "sqlite")),
		DBHost:          getEnv(prefix+"DB_HOST", getEnv("DB_HOST", "localhost")),
		DBUser:          getEnv(prefix+"DB_USER", getEnv("DB_USER", "root")),
		DBPassword:      getEnv(prefix+"DB_PASSWORD", getEnv("DB_PASSWORD", "")),
		DBName:          getEnv(prefix+"DB_NAME", getEnv("DB_NAME", "malaria_management")),
		DBPort:          getEnv(prefix+"DB_PORT", getEnv("DB_PORT", "3306")),
		DBSQLitePath:    getEnv(prefix+"DB_SQLITE_PATH", getEnv("DB_SQLITE_PATH", "malaria_management.db")),
		DBMigrationMode: getEnv(prefix+"DB_MIGRATION_MODE", getEnv("DB_MIGRATION_MODE", "auto")),

		// Server config
		ServerPort: getEnv(prefix+"SERVER_PORT", getEnv("SERVER_PORT", "8080")),

		// Redis config
		RedisHost: getEnv(prefix+"REDIS_HOST", getEnv("REDIS_HOST", "localhost")),
		RedisPort: getEnv(prefix+"REDIS_PORT", getEnv("REDIS_PORT", "6379")),
		RedisDB:   getEnvAsInt("REDIS_DB", 0),

		// MQTT config
		MQTTBroker:   getEnv("MQTT_BROKER", ""),
		MQTTClientID: getEnv("MQTT_CLIENT_ID", "malaria-http-service"),

		// Model config
		ModelPath: getEnv("MODEL_PATH", "models_data/malaria_model.bin"),

		// Upload and report config
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		ReportDir:      getEnv("REPORT_DIR", "reports"),
		MaxUploadBytes: int64(getEnvAsInt("MAX_UPLOAD_BYTES", 10<<20)),

		// Printer config
		PrinterCommand: getEnv("PRINTER_COMMAND", "lpr"),

		// Cleanup config
		CleanupSpec:     getEnv("CLEANUP_SPEC", "0 3 * * *"),
		RetentionHours:  getEnvAsInt("RETENTION_HOURS", 72),
		CleanupDisabled: getEnvAsBool("CLEANUP_DISABLED", false),

		// JWT Config
		JWTSecretKey: getEnv("JWT_SECRET_KEY", "malaria-secret-key-change-in-production"),

		// 默认账户密码
		DefaultAdminPassword:  getEnv("DEFAULT_ADMIN_PASSWORD", "admin123"),
		DefaultDoctorPassword: getEnv("DEFAULT_DOCTOR_PASSWORD", "abc@123"),
		DefaultLabPassword:    getEnv("DEFAULT_LAB_PASSWORD", "lab@123"),
		DefaultOfficePassword: getEnv("DEFAULT_OFFICE_PASSWORD", "office@123"),
	}
}

// GetConfig returns the application configuration as a singleton
func GetConfig() *Config {
	configOnce.Do(func() {
		config = LoadConfig()
	})
	return config
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?charset=utf8mb4&parseTime=True&loc=Local&allowNativePasswords=true&multiStatements=true"
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// Helper function to get environment variable with default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as integer with default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as boolean with default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}
