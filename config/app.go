package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/shoprank/core"
	"github.com/rushteam/shoprank/feedback"
	"github.com/rushteam/shoprank/pkg/logger"
)

// EnvPrefix 是环境变量前缀，环境变量优先于配置文件。
const EnvPrefix = "SHOPRANK_"

// 默认值。
const (
	DefaultPort         = 8080
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "console"
	DefaultCacheBackend = BackendMemory
	DefaultCacheTTL     = 10 * time.Minute
	DefaultRedisAddr    = "localhost:6379"
)

// 缓存后端。
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// App 是服务的完整配置。
type App struct {
	Port      int    `koanf:"port"`
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`

	Cache   CacheConfig   `koanf:"cache"`
	Redis   RedisConfig   `koanf:"redis"`
	Ranking RankingConfig `koanf:"ranking"`
	Kafka   KafkaConfig   `koanf:"kafka"`

	// CatalogFile 为空时使用内置示例目录。
	CatalogFile string `koanf:"catalog_file"`
	// PipelineFile 为空时使用默认过滤阶段。
	PipelineFile string `koanf:"pipeline_file"`
}

type CacheConfig struct {
	Backend string        `koanf:"backend"`
	TTL     time.Duration `koanf:"ttl"`
}

type RedisConfig struct {
	Addr string `koanf:"addr"`
	DB   int    `koanf:"db"`
}

type RankingConfig struct {
	TopN        int `koanf:"top_n"`
	Concurrency int `koanf:"concurrency"`
}

// KafkaConfig 配置曝光事件的投递；Brokers 为空时不投递。
type KafkaConfig struct {
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic"`
}

// Default 返回全部默认值。
func Default() *App {
	return &App{
		Port:      DefaultPort,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Cache: CacheConfig{
			Backend: DefaultCacheBackend,
			TTL:     DefaultCacheTTL,
		},
		Redis: RedisConfig{
			Addr: DefaultRedisAddr,
		},
		Ranking: RankingConfig{
			TopN: core.DefaultTopN,
		},
		Kafka: KafkaConfig{
			Topic: feedback.DefaultTopic,
		},
	}
}

// Load 读取配置：默认值 < YAML 文件（可选）< 环境变量。
// 返回配置与全部校验错误（合法时为空）；文件无法读取时只返回该错误。
func Load(path string) (*App, []error) {
	cfg := Default()

	if path != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("load config file %s: %w", path, err)}
		}
		if err := k.Unmarshal("", cfg); err != nil {
			return nil, []error{fmt.Errorf("decode config file %s: %w", path, err)}
		}
	}

	errs := applyEnv(cfg)
	errs = append(errs, cfg.Validate()...)
	return cfg, errs
}

func applyEnv(cfg *App) []error {
	var errs []error

	envString("LOG_LEVEL", &cfg.LogLevel)
	envString("LOG_FORMAT", &cfg.LogFormat)
	envString("CACHE_BACKEND", &cfg.Cache.Backend)
	envString("REDIS_ADDR", &cfg.Redis.Addr)
	envString("CATALOG_FILE", &cfg.CatalogFile)
	envString("PIPELINE_FILE", &cfg.PipelineFile)
	envString("KAFKA_TOPIC", &cfg.Kafka.Topic)

	for name, dst := range map[string]*int{
		"PORT":                &cfg.Port,
		"REDIS_DB":            &cfg.Redis.DB,
		"RANKING_TOP_N":       &cfg.Ranking.TopN,
		"RANKING_CONCURRENCY": &cfg.Ranking.Concurrency,
	} {
		if err := envInt(name, dst); err != nil {
			errs = append(errs, err)
		}
	}

	if v := os.Getenv(EnvPrefix + "CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sCACHE_TTL must be a duration: %w", EnvPrefix, err))
		} else {
			cfg.Cache.TTL = d
		}
	}

	if v := os.Getenv(EnvPrefix + "KAFKA_BROKERS"); v != "" {
		var brokers []string
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		cfg.Kafka.Brokers = brokers
	}
	return errs
}

func envString(name string, dst *string) {
	if v := os.Getenv(EnvPrefix + name); v != "" {
		*dst = v
	}
}

func envInt(name string, dst *int) error {
	v := os.Getenv(EnvPrefix + name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s%s must be an integer: %w", EnvPrefix, name, err)
	}
	*dst = n
	return nil
}

// 校验错误。
var (
	ErrInvalidPort      = errors.New("port must be in 1..65535")
	ErrInvalidBackend   = errors.New("cache.backend must be memory or redis")
	ErrInvalidTTL       = errors.New("cache.ttl must be positive")
	ErrMissingRedisAddr = errors.New("redis.addr is required for the redis cache backend")
	ErrInvalidTopN      = errors.New("ranking.top_n must be positive")
	ErrInvalidWorkers   = errors.New("ranking.concurrency must not be negative")
	ErrInvalidLogFormat = errors.New("log_format must be console or json")
)

// Validate 返回全部校验错误。
func (c *App) Validate() []error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, ErrInvalidPort)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.LogFormat != "console" && c.LogFormat != "json" {
		errs = append(errs, ErrInvalidLogFormat)
	}
	switch c.Cache.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Redis.Addr == "" {
			errs = append(errs, ErrMissingRedisAddr)
		}
	default:
		errs = append(errs, ErrInvalidBackend)
	}
	if c.Cache.TTL <= 0 {
		errs = append(errs, ErrInvalidTTL)
	}
	if c.Ranking.TopN <= 0 {
		errs = append(errs, ErrInvalidTopN)
	}
	if c.Ranking.Concurrency < 0 {
		errs = append(errs, ErrInvalidWorkers)
	}
	return errs
}

// Addr 返回 HTTP 监听地址。
func (c *App) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// RankingOptions 把排序相关配置转为引擎选项。
func (c *App) RankingOptions() []core.ConfigOption {
	return []core.ConfigOption{
		core.WithTopN(c.Ranking.TopN),
		core.WithConcurrency(c.Ranking.Concurrency),
	}
}
