package config

import (
	"fmt"
	"time"
)

// Config 配置主体
type Config struct {
	Server      ServerConfig        `mapstructure:"server"`
	DB          DBConfig            `mapstructure:"database"`
	Redis       RedisConfig         `mapstructure:"redis"`
	Mongo       MongoConfig         `mapstructure:"mongo"`
	MinIO       MinIOConfig         `mapstructure:"minio"`
	Kafka       KafkaConfig         `mapstructure:"kafka"`
	KafkaFanout KafkaFanoutConsumer `mapstructure:"kafka_fanout_consumer"`
	Logstash    LogstashConfig      `mapstructure:"logstash"`
	JWT         JWTConfig           `mapstructure:"jwt"`
	Publish     PublishConfig       `mapstructure:"publish"`
	Converter   ConverterConfig     `mapstructure:"converter"`
	Cron        CronConfig          `mapstructure:"cron"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// MinIOConfig MinIO配置
type MinIOConfig struct {
	InternalEndpoint string `mapstructure:"internal_endpoint"`
	ExternalEndpoint string `mapstructure:"external_endpoint"`
	AccessKey        string `mapstructure:"access_key"`
	SecretKey        string `mapstructure:"secret_key"`
	MainBucket       string `mapstructure:"main_bucket"`
	InternalUseSSL   bool   `mapstructure:"internal_use_ssl"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

// KafkaFanoutConsumer 通知扇出事件的 topic 与消费组
type KafkaFanoutConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

const (
	FanoutInline = "inline"
	FanoutKafka  = "kafka"
)

// PublishConfig 发布流水线参数
type PublishConfig struct {
	// FanoutChunkSize 单个原子批次的最大通知条数
	FanoutChunkSize int    `mapstructure:"fanout_chunk_size"`
	FanoutMode      string `mapstructure:"fanout_mode"`
	CoverMaxWidth   int    `mapstructure:"cover_max_width"`
	MaxCoverBytes   int64  `mapstructure:"max_cover_bytes"`
	// UploadSessionTTL 分钟
	UploadSessionTTL int `mapstructure:"upload_session_ttl"`
	// LockTTL 秒
	LockTTL int `mapstructure:"lock_ttl"`
	// FanoutTimeout 秒，inline 模式下单次扇出的上限
	FanoutTimeout int `mapstructure:"fanout_timeout"`
}

func (c PublishConfig) SessionTTL() time.Duration {
	return time.Duration(c.UploadSessionTTL) * time.Minute
}

func (c PublishConfig) FanoutDeadline() time.Duration {
	return time.Duration(c.FanoutTimeout) * time.Second
}

func (c PublishConfig) PublishLockTTL() time.Duration {
	return time.Duration(c.LockTTL) * time.Second
}

func (c PublishConfig) validate() error {
	if c.FanoutChunkSize <= 0 {
		return fmt.Errorf("publish.fanout_chunk_size must be positive, got %d", c.FanoutChunkSize)
	}
	if c.FanoutMode != FanoutInline && c.FanoutMode != FanoutKafka {
		return fmt.Errorf("publish.fanout_mode must be %q or %q, got %q", FanoutInline, FanoutKafka, c.FanoutMode)
	}
	return nil
}

// ConverterConfig 为空 URL 时使用进程内转换器
type ConverterConfig struct {
	RemoteURL string `mapstructure:"remote_url"`
	// Timeout 秒
	Timeout int `mapstructure:"timeout"`
}

type CronConfig struct {
	MediaSweep string `mapstructure:"media_sweep"`
}
