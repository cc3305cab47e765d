// Package app はアプリケーションの起動とワイヤリングを提供する。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/somlutionsom/dday-project/internal/config"
	"github.com/somlutionsom/dday-project/internal/handler"
	"github.com/somlutionsom/dday-project/internal/logger"
	"github.com/somlutionsom/dday-project/internal/metrics"
	"github.com/somlutionsom/dday-project/internal/middleware"
	"github.com/somlutionsom/dday-project/internal/notion"
	"github.com/somlutionsom/dday-project/internal/security"
	"github.com/somlutionsom/dday-project/internal/store"
	"github.com/somlutionsom/dday-project/internal/widget"
)

// Init はアプリケーションの初期化を行う。
// JSON構造化ログをセットアップし、環境変数からConfigを読み込む。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) *config.Config {
	// 設定読み込み前にログを使えるようにする
	logger.SetupDefault(w)
	return config.Load()
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg := Init(w)

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("base_url", cfg.BaseURL),
	)

	return runServe(cfg)
}

// newConfigStore は設定ストアを構築する。
// REDIS_URLが設定されている場合はRedisに保存するランダムキー方式、
// 未設定の場合はURL自体に設定を内蔵するステートレス方式を使う。
func newConfigStore(cfg *config.Config) (store.ConfigStore, func(), error) {
	if cfg.RedisURL == "" {
		return store.NewCodecStore(), func() {}, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	slog.Info("redis connection established")
	return store.NewRedisStore(client), func() { client.Close() }, nil
}

// runServe はAPIサーバーモードで起動する。
// 全依存関係をワイヤリングし、HTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. メトリクス
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 2. 設定ストア
	configStore, closeStore, err := newConfigStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// 3. Notionクライアント
	notionClient := notion.NewClient(
		&http.Client{Timeout: cfg.NotionTimeout},
		slog.Default(),
		notion.Options{
			BaseURL:    cfg.NotionAPIBase,
			TokenCheck: cfg.NotionTokenCheck,
			Metrics:    collector,
		},
	)

	// 4. リゾルバー
	resolver := widget.NewResolver(configStore, notionClient, slog.Default())

	// 5. 画像プロキシ用のSSRF防止クライアント
	ssrfGuard := security.NewSSRFGuard()
	imageClient := ssrfGuard.NewSafeClient(cfg.ImgProxyTimeout)

	// 6. レート制限
	rateLimiter := middleware.NewRateLimiter(
		middleware.NewRateLimiterConfig(cfg.RateLimitGeneral, cfg.RateLimitSetup),
	)
	defer rateLimiter.Stop()

	// 7. ルーターの構築
	router := handler.NewRouter(&handler.RouterDeps{
		Logger:            slog.Default(),
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,

		DatabaseService: notionClient,
		TokenValidator:  notionClient,
		ConfigStore:     configStore,
		BaseURL:         cfg.BaseURL,

		WidgetResolver: resolver,
		RenderRecorder: collector,

		ImageClient:  imageClient,
		URLValidator: ssrfGuard,
		ImageMaxSize: cfg.ImgProxyMaxSize,
	})

	// 8. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// メトリクスサーバーはMETRICS_PORT設定時のみ内部向けポートで起動する
	var metricsServer *http.Server
	if cfg.MetricsPort != "" {
		metricsServer = &http.Server{
			Addr:        ":" + cfg.MetricsPort,
			Handler:     metrics.SetupMetricsRoute(registry),
			ReadTimeout: 15 * time.Second,
		}
		go func() {
			slog.Info("metrics server starting",
				slog.String("addr", metricsServer.Addr),
			)
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("metrics server listen error", slog.String("error", err.Error()))
			}
		}()
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			slog.Error("metrics server shutdown failed", slog.String("error", err.Error()))
		}
	}

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
