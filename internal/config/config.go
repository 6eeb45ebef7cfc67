package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用配置
type Config struct {
	App        AppConfig
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Storage    StorageConfig
	Upload     UploadConfig
	Deletion   DeletionConfig
	AI         AIConfig
	Generation GenerationConfig
	Auth       AuthConfig
}

// AppConfig 应用配置
type AppConfig struct {
	Name        string
	Environment string
	Version     string
	Debug       bool
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host         string
	Port         int
	Mode         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver       string // postgres, mysql
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  int
}

// RedisConfig Redis配置，仅用于生成结果缓存
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// StorageConfig 对象存储配置
type StorageConfig struct {
	Type  string // local, minio, s3
	Local LocalStorageConfig
	MinIO MinIOStorageConfig
	S3    S3StorageConfig
}

// LocalStorageConfig 本地存储配置
type LocalStorageConfig struct {
	BasePath   string
	PublicURL  string // 签名下载地址前缀，例如 http://localhost:8080/objects
	SigningKey string
}

// MinIOStorageConfig MinIO 配置
type MinIOStorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3StorageConfig S3 兼容存储配置
type S3StorageConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
}

// UploadConfig 上传限制
type UploadConfig struct {
	MaxFileSize     int64
	MaxFilesPerUser int64
	SignedURLTTL    time.Duration
	LimitAsError    bool // 达到文件数上限时返回 409 而不是成功
}

// DeletionConfig 删除策略
type DeletionConfig struct {
	Concurrent bool // 存储删除和记录删除并发发出
}

// AIConfig AI配置
type AIConfig struct {
	Provider string // openai, openrouter, deepseek
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  int
}

// GenerationConfig 生成配置
type GenerationConfig struct {
	MaxInputChars int
	Persist       bool
	CacheTTL      time.Duration
}

// AuthConfig JWT 配置
type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

// Load 加载配置
// 配置文件不存在时使用默认值，环境变量始终覆盖文件中的值
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config: %w", err)
		}
	}

	// 环境变量
	v.SetEnvPrefix("EDU_AI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("auth.jwtSecret is required")
	}

	switch c.Storage.Type {
	case "local":
		if c.Storage.Local.SigningKey == "" {
			return errors.New("storage.local.signingKey is required")
		}
	case "minio":
		m := c.Storage.MinIO
		if m.Endpoint == "" || m.AccessKey == "" || m.SecretKey == "" || m.Bucket == "" {
			return errors.New("missing required MinIO config")
		}
	case "s3":
		if c.Storage.S3.Bucket == "" || c.Storage.S3.Region == "" {
			return errors.New("missing required S3 config")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}

	switch c.Database.Driver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if c.Upload.MaxFileSize <= 0 {
		return errors.New("upload.maxFileSize must be positive")
	}
	if c.Upload.MaxFilesPerUser <= 0 {
		return errors.New("upload.maxFilesPerUser must be positive")
	}
	return nil
}

// GetDSN 获取数据库连接字符串
func (c *DatabaseConfig) GetDSN() string {
	if c.Driver == "mysql" {
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, c.Host, c.Port, c.DBName)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// GetAddr 获取服务器地址
func (c *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// GetAddr 获取 Redis 地址
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func setDefaults(v *viper.Viper) {
	// App
	v.SetDefault("app.name", "edu-ai")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.debug", true)

	// Server
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.readTimeout", 60)
	v.SetDefault("server.writeTimeout", 180)

	// Database
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "edu_ai")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.maxLifetime", 300)

	// Redis
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Storage
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local.basePath", "./data/files")
	v.SetDefault("storage.local.publicURL", "http://localhost:8080/objects")
	v.SetDefault("storage.local.signingKey", "")
	v.SetDefault("storage.minio.endpoint", "")
	v.SetDefault("storage.minio.accessKey", "")
	v.SetDefault("storage.minio.secretKey", "")
	v.SetDefault("storage.minio.bucket", "files")
	v.SetDefault("storage.minio.useSSL", false)
	v.SetDefault("storage.s3.endpoint", "")
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.accessKeyID", "")
	v.SetDefault("storage.s3.secretAccessKey", "")
	v.SetDefault("storage.s3.bucket", "files")

	// Upload
	v.SetDefault("upload.maxFileSize", 50*1024*1024)
	v.SetDefault("upload.maxFilesPerUser", 3)
	v.SetDefault("upload.signedURLTTL", "17520h") // 两年
	v.SetDefault("upload.limitAsError", false)

	// Deletion
	v.SetDefault("deletion.concurrent", false)

	// AI
	v.SetDefault("ai.provider", "openrouter")
	v.SetDefault("ai.apiKey", "")
	v.SetDefault("ai.baseUrl", "https://openrouter.ai/api/v1")
	v.SetDefault("ai.model", "openai/gpt-oss-20b:free")
	v.SetDefault("ai.timeout", 0)

	// Generation
	v.SetDefault("generation.maxInputChars", 60000)
	v.SetDefault("generation.persist", false)
	v.SetDefault("generation.cacheTTL", "0s")

	// Auth
	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.issuer", "")
}
