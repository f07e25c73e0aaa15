package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig 从文件加载配置，CHATTER_ 前缀的环境变量可覆盖同名配置项
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.AddConfigPath(path)
	}
	v.AddConfigPath("./configs")

	v.SetEnvPrefix("CHATTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Publish.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.max_idle", 10)
	v.SetDefault("database.max_open", 100)
	v.SetDefault("database.max_lifetime", 60)
	v.SetDefault("redis.pool_size", 20)
	v.SetDefault("mongo.database", "chatter")
	v.SetDefault("publish.fanout_chunk_size", 500)
	v.SetDefault("publish.fanout_mode", FanoutInline)
	v.SetDefault("publish.cover_max_width", 1600)
	v.SetDefault("publish.max_cover_bytes", 10<<20)
	v.SetDefault("publish.upload_session_ttl", 24*60)
	v.SetDefault("publish.lock_ttl", 60)
	v.SetDefault("publish.fanout_timeout", 120)
	v.SetDefault("kafka.consumer.max_processing_time", 30)
	v.SetDefault("kafka_fanout_consumer.topic", "chatter.post.published")
	v.SetDefault("converter.timeout", 5)
	v.SetDefault("cron.media_sweep", "@hourly")
	v.SetDefault("logstash.index", "logstash-chatter")
}
