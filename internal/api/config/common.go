package config

import "time"

// Config 配置主体
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Redis    RedisConfig    `mapstructure:"redis"`
	MinIO    MinIOConfig    `mapstructure:"minio"`
	Logstash LogstashConfig `mapstructure:"logstash"`
	Security SecurityConfig `mapstructure:"security"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Jobs     JobsConfig     `mapstructure:"jobs"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// MongoConfig 文档存储配置
type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	InternalEndpoint string `mapstructure:"internal_endpoint"`
	ExternalEndpoint string `mapstructure:"external_endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	MainBucket       string `mapstructure:"main_bucket"`
	InternalUseSSL   bool   `mapstructure:"internal_use_ssl"`
	ExternalUseSSL   bool   `mapstructure:"external_use_ssl"`
}

// LogstashConfig 远程日志
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// SecurityConfig 密码哈希
type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

// UploadConfig 图片上传限制
type UploadConfig struct {
	MaxBytes     int64         `mapstructure:"max_bytes"`
	MaxImageEdge int           `mapstructure:"max_image_edge"`
	PendingTTL   time.Duration `mapstructure:"pending_ttl"`
}

// JobsConfig 定时任务 cron 表达式
type JobsConfig struct {
	OwnershipRepair string `mapstructure:"ownership_repair"`
	CounterSync     string `mapstructure:"counter_sync"`
	ImageCleanup    string `mapstructure:"image_cleanup"`
}
