package core

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

func MustLoadBaseConfig(path string) CoreConfig {
	if path == "" {
		return LoadBaseConfigFromENV()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	conf := &CoreConfig{}
	if err = toml.Unmarshal(raw, conf); err != nil {
		panic(err)
	}

	return *conf
}

func LoadBaseConfigFromENV() CoreConfig {
	var c CoreConfig
	c.FromENV()
	return c
}

type CoreConfig struct {
	Addr          string              `toml:"addr"`
	Log           Log                 `toml:"log"`
	Postgres      PGConfig            `toml:"postgres"`
	Redis         RedisConfig         `toml:"redis"`
	ObjectStorage ObjectStorageDriver `toml:"object_storage"`
	Ingest        IngestConfig        `toml:"ingest"`
	Site          Site                `toml:"site"`
}

type ObjectStorageDriver struct {
	StaticDomain string    `toml:"static_domain"`
	Driver       string    `toml:"driver"`
	S3           *S3Config `toml:"s3"`
}

type S3Config struct {
	Bucket    string `toml:"bucket"`
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
}

type Site struct {
	Title string `toml:"title"`
}

// IngestConfig 文档处理流水线的可调参数
type IngestConfig struct {
	Concurrency int `toml:"concurrency"` // asynq worker 并发数，默认 5
	// ReviewThreshold 置信度低于该值的记录进入 needs_review，默认 0.5
	ReviewThreshold float64 `toml:"review_threshold"`
	// StuckAfterSeconds 处理中状态超过该秒数视为卡死，由巡检任务重新入队，默认 1800
	StuckAfterSeconds int64 `toml:"stuck_after_seconds"`
}

func (c IngestConfig) GetConcurrency() int {
	if c.Concurrency <= 0 {
		return 5
	}
	return c.Concurrency
}

func (c IngestConfig) GetReviewThreshold() float64 {
	if c.ReviewThreshold <= 0 {
		return 0.5
	}
	return c.ReviewThreshold
}

func (c IngestConfig) GetStuckAfterSeconds() int64 {
	if c.StuckAfterSeconds <= 0 {
		return 1800
	}
	return c.StuckAfterSeconds
}

func (c *CoreConfig) FromENV() {
	c.Addr = os.Getenv("KHUB_API_SERVICE_ADDRESS")
	c.Log.FromENV()
	c.Postgres.FromENV()
	c.Redis.FromENV()
}

type PGConfig struct {
	DSN string `toml:"dsn"`
}

func (m *PGConfig) FromENV() {
	m.DSN = os.Getenv("KHUB_API_POSTGRESQL_DSN")
}

func (c PGConfig) FormatDSN() string {
	return c.DSN
}

type RedisConfig struct {
	Addr     string `toml:"addr"`     // Redis地址，格式: host:port
	Password string `toml:"password"` // Redis密码
	DB       int    `toml:"db"`       // Redis数据库索引 (0-15)

	// 集群模式配置
	Cluster      bool     `toml:"cluster"`
	ClusterAddrs []string `toml:"cluster_addrs"`

	// 队列配置
	KeyPrefix string `toml:"key_prefix"` // Redis键前缀，用于隔离不同环境/应用
}

func (r *RedisConfig) FromENV() {
	r.Addr = os.Getenv("KHUB_REDIS_ADDR")
	r.Password = os.Getenv("KHUB_REDIS_PASSWORD")
	if dbStr := os.Getenv("KHUB_REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			r.DB = db
		}
	}
}

type Log struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

func (l *Log) FromENV() {
	l.Level = os.Getenv("KHUB_API_LOG_LEVEL")
	l.Path = os.Getenv("KHUB_API_LOG_PATH")
}

func (l *Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
