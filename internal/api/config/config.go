package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg，MEMORIA_ 前缀的环境变量优先
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	viper.SetEnvPrefix("MEMORIA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("mongo.url", "mongodb://localhost:27017")
	viper.SetDefault("mongo.database", "memoria")
	viper.SetDefault("redis.addr", "localhost:6379")
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("minio.main_bucket", "memoria")
	viper.SetDefault("logstash.index", "logstash-memoria")
	viper.SetDefault("security.bcrypt_cost", 10)
	viper.SetDefault("upload.max_bytes", 10<<20)
	viper.SetDefault("upload.max_image_edge", 2048)
	viper.SetDefault("upload.pending_ttl", "24h")
	viper.SetDefault("jobs.ownership_repair", "0 */5 * * * *")
	viper.SetDefault("jobs.counter_sync", "0 0 * * * *")
	viper.SetDefault("jobs.image_cleanup", "0 30 3 * * *")
}
