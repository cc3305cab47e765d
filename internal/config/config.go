// Package config は環境変数からのアプリケーション設定読み込みを提供する。
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Server
	ServerPort string
	// BaseURL は埋め込みURL生成用のベースURL。
	// 未設定の場合はX-Forwarded-Proto/Hostヘッダーからリクエストごとに導出する。
	BaseURL string

	// Notion
	NotionAPIBase string
	// NotionTokenCheck はトークン検証方式。"format" または "live"。
	NotionTokenCheck string
	NotionTimeout    time.Duration

	// Store
	// RedisURL が設定された場合、設定はURLではなくRedisに保存され、
	// ランダムキーで参照される。未設定の場合はステートレスなURL内蔵方式。
	RedisURL string

	// Rate Limit（req/min単位）
	RateLimitGeneral int
	RateLimitSetup   int

	// CORS
	CORSAllowedOrigin string

	// 画像プロキシ
	ImgProxyTimeout time.Duration
	ImgProxyMaxSize int64

	// Metrics
	// MetricsPort が設定された場合のみ/metricsサーバーを別ポートで起動する。
	MetricsPort string
}

// トークン検証方式
const (
	TokenCheckFormat = "format"
	TokenCheckLive   = "live"
)

// Load は環境変数からConfigを読み込む。
// カレントディレクトリに.envファイルがあれば先に読み込む（無くてもエラーにしない）。
// 全フィールドにデフォルト値があるため、Loadは失敗しない。
func Load() *Config {
	// .envはローカル開発用。本番では環境変数が直接設定される想定。
	_ = godotenv.Load()

	cfg := &Config{
		ServerPort:        getEnvString("SERVER_PORT", "8080"),
		BaseURL:           strings.TrimRight(os.Getenv("BASE_URL"), "/"),
		NotionAPIBase:     getEnvString("NOTION_API_BASE", "https://api.notion.com/v1"),
		NotionTokenCheck:  getEnvString("NOTION_TOKEN_CHECK", TokenCheckFormat),
		NotionTimeout:     getEnvDuration("NOTION_TIMEOUT", 10*time.Second),
		RedisURL:          os.Getenv("REDIS_URL"),
		RateLimitGeneral:  getEnvInt("RATE_LIMIT_GENERAL", 120),
		RateLimitSetup:    getEnvInt("RATE_LIMIT_SETUP", 10),
		CORSAllowedOrigin: getEnvString("CORS_ALLOWED_ORIGIN", "*"),
		ImgProxyTimeout:   getEnvDuration("IMG_PROXY_TIMEOUT", 10*time.Second),
		ImgProxyMaxSize:   getEnvInt64("IMG_PROXY_MAX_SIZE", 5242880),
		MetricsPort:       os.Getenv("METRICS_PORT"),
	}

	if cfg.NotionTokenCheck != TokenCheckLive {
		cfg.NotionTokenCheck = TokenCheckFormat
	}

	return cfg
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvInt64(key string, defaultVal int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
