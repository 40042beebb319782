// Command shoprank 启动商品排序 HTTP 服务。
//
//	shoprank -config /etc/shoprank/app.yaml
//
// 配置项见 config.App，环境变量（SHOPRANK_*）优先于配置文件。
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/rushteam/shoprank/cache"
	"github.com/rushteam/shoprank/config"
	"github.com/rushteam/shoprank/config/builders"
	"github.com/rushteam/shoprank/core"
	"github.com/rushteam/shoprank/engine"
	"github.com/rushteam/shoprank/feedback"
	"github.com/rushteam/shoprank/pipeline"
	"github.com/rushteam/shoprank/pkg/logger"
	"github.com/rushteam/shoprank/recall"
	"github.com/rushteam/shoprank/server"
	"github.com/rushteam/shoprank/store"
)

const recallTimeout = 2 * time.Second

func main() {
	configPath := flag.String("config", os.Getenv(config.EnvPrefix+"CONFIG"), "path to YAML config file")
	flag.Parse()

	cfg, errs := config.Load(*configPath)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
		}
		os.Exit(2)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("shoprank exited", zap.Error(err))
		os.Exit(1)
	}
	log.Info("shoprank stopped")
}

func run(ctx context.Context, cfg *config.App, log *zap.Logger) error {
	kv, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer kv.Close()
	log.Info("store ready", zap.String("backend", kv.Name()))

	catalog, err := openCatalog(cfg.CatalogFile)
	if err != nil {
		return err
	}
	log.Info("catalog loaded", zap.Int("products", catalog.Len()))

	p, err := openPipeline(cfg.PipelineFile, kv)
	if err != nil {
		return err
	}

	collector := openFeedback(cfg, log)
	defer collector.Close()

	m := server.NewMetrics()
	if err := m.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	srv := &server.Server{
		Engine: engine.New(p, log.Named("engine"), cfg.RankingOptions()...),
		Source: &recall.Fanout{
			Sources: []recall.Source{
				&recall.Pinned{Store: kv, Resolver: catalog},
				catalog,
			},
			Timeout: recallTimeout,
			Logger:  log.Named("recall"),
		},
		Cache:    cache.New[server.ChatResponse](kv, cfg.Cache.TTL, log.Named("cache")),
		Feedback: collector,
		Metrics:  m,
		Gatherer: prometheus.DefaultGatherer,
		Logger:   log.Named("http"),
	}
	return srv.Run(ctx, cfg.Addr())
}

func openStore(cfg *config.App) (core.Store, error) {
	if cfg.Cache.Backend == config.BackendRedis {
		return store.NewRedisStore(cfg.Redis.Addr, cfg.Redis.DB)
	}
	return store.NewMemoryStore(), nil
}

func openCatalog(path string) (*recall.Catalog, error) {
	if path == "" {
		return recall.DefaultCatalog(), nil
	}
	return recall.LoadCatalogFile(path)
}

// openPipeline 构建可配置节点链；blacklist 过滤器从 kv 读取运营黑名单。
func openPipeline(path string, kv core.Store) (*pipeline.Pipeline, error) {
	if path == "" {
		return engine.DefaultPipeline(), nil
	}
	config.Register("filter", builders.FilterNodeBuilder(kv))
	p, err := config.LoadPipeline(path)
	if err != nil {
		return nil, fmt.Errorf("load pipeline %s: %w", path, err)
	}
	return p, nil
}

func openFeedback(cfg *config.App, log *zap.Logger) feedback.Collector {
	if len(cfg.Kafka.Brokers) == 0 {
		return feedback.NopCollector{}
	}
	log.Info("impressions enabled",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic),
	)
	return feedback.NewKafkaCollector(cfg.Kafka.Brokers, cfg.Kafka.Topic, log.Named("feedback"))
}
