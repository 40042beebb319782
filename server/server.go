// Package server 是排序服务的 HTTP 传输层：
//
//	POST /api/chat   消息 -> 解析 -> 检索 -> 排序 -> 响应（按原始消息缓存）
//	GET  /healthz    存活检查
//	GET  /metrics    Prometheus 指标
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/rushteam/shoprank/cache"
	"github.com/rushteam/shoprank/core"
	"github.com/rushteam/shoprank/engine"
	"github.com/rushteam/shoprank/feedback"
	"github.com/rushteam/shoprank/pkg/logger"
	"github.com/rushteam/shoprank/query"
	"github.com/rushteam/shoprank/recall"
)

const maxBodyBytes = 1 << 20

// ChatRequest 是 POST /api/chat 的请求体。
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse 是 POST /api/chat 的响应体，整体可缓存。
type ChatResponse struct {
	Products      []core.Product    `json:"products"`
	RankedItems   []core.RankedItem `json:"rankedItems"`
	Metrics       core.Metrics      `json:"metrics"`
	Explanation   string            `json:"explanation"`
	OriginalQuery string            `json:"originalQuery"`
	Query         core.Query        `json:"query"`
	TotalResults  int               `json:"totalResults"`
	Timestamp     string            `json:"timestamp"`
}

// Server 组装请求处理链路。Engine 与 Source 必填，其余可为 nil。
type Server struct {
	Engine   *engine.Engine
	Source   recall.Source
	Cache    *cache.ResponseCache[ChatResponse]
	Feedback feedback.Collector
	Metrics  *Metrics
	Gatherer prometheus.Gatherer
	Logger   *zap.Logger

	// Now 用于生成响应时间戳，默认 time.Now。
	Now func() time.Time
}

func (s *Server) log() *zap.Logger { return logger.OrNop(s.Logger) }

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Handler 返回完整的 HTTP handler（路由 + 中间件）。
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(requestID, s.observe)

	r.HandleFunc("/api/chat", s.handleChat).Methods(http.MethodPost)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	gatherer := s.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	var h http.Handler = r
	h = handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type", HeaderRequestID}),
	)(h)
	h = handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{s.log()}))(h)
	return h
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required and must be a non-empty string")
		return
	}

	ctx := r.Context()
	var (
		resp ChatResponse
		hit  bool
		err  error
	)
	if s.Cache != nil {
		resp, hit, err = s.Cache.GetOrCompute(ctx, req.Message, func(ctx context.Context) (ChatResponse, error) {
			return s.answer(ctx, req.Message)
		})
		if s.Metrics != nil {
			s.Metrics.CacheLookup(hit)
		}
	} else {
		resp, err = s.answer(ctx, req.Message)
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		if core.IsInvalidInput(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.log().Error("chat failed", zap.String("request_id", core.RequestIDFromContext(ctx)), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if hit {
		s.log().Debug("served from cache", zap.String("message", req.Message))
	}
	writeJSON(w, http.StatusOK, resp)
}

// answer 执行一次完整的解析 -> 检索 -> 排序，并记录曝光。
func (s *Server) answer(ctx context.Context, message string) (ChatResponse, error) {
	q := query.Parse(message)

	candidates, err := s.Source.Recall(ctx, q)
	if err != nil {
		return ChatResponse{}, err
	}

	res, err := s.Engine.Rank(ctx, q, candidates)
	if err != nil {
		return ChatResponse{}, err
	}
	if s.Metrics != nil {
		s.Metrics.ObserveRanked(len(res.RankedItems))
	}

	now := s.now()
	s.record(ctx, message, res, now)

	return ChatResponse{
		Products:      res.TopItems,
		RankedItems:   res.RankedItems,
		Metrics:       res.Metrics,
		Explanation:   res.Explanation,
		OriginalQuery: message,
		Query:         q,
		TotalResults:  len(res.RankedItems),
		Timestamp:     now.UTC().Format(time.RFC3339),
	}, nil
}

func (s *Server) record(ctx context.Context, message string, res *core.RankingResult, at time.Time) {
	if s.Feedback == nil {
		return
	}
	events := feedback.Impressions(core.RequestIDFromContext(ctx), message, res.RankedItems, len(res.TopItems), at)
	if err := s.Feedback.Record(ctx, events); err != nil {
		s.log().Warn("record impressions failed", zap.Error(err))
	}
}

// Run 启动 HTTP 服务，ctx 取消后优雅退出。
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log().Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// recoveryLogger 把 handlers.RecoveryHandler 的 panic 日志转到 zap。
type recoveryLogger struct {
	l *zap.Logger
}

func (r recoveryLogger) Println(v ...any) {
	r.l.Error("panic recovered", zap.Any("panic", v))
}
