// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ウィジェット描画の結果ラベル。
const (
	RenderOK            = "ok"
	RenderConfigInvalid = "config_invalid"
	RenderUpstreamError = "upstream_error"
	RenderNoItems       = "no_items"
)

// Collector はPrometheusメトリクスを収集する実装。
// notion.CallRecorderを実装し、クライアントから直接記録される。
type Collector struct {
	widgetRenders     *prometheus.CounterVec
	notionCalls       *prometheus.CounterVec
	notionLatency     *prometheus.HistogramVec
	configDecodeFails prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		widgetRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dday_widget_renders_total",
			Help: "ウィジェット描画の結果別合計数",
		}, []string{"outcome"}),
		notionCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dday_notion_calls_total",
			Help: "Notion API呼び出しの操作・ステータスコード別合計数",
		}, []string{"operation", "status_code"}),
		notionLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dday_notion_latency_seconds",
			Help:    "Notion API呼び出しのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		configDecodeFails: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dday_config_decode_failures_total",
			Help: "ウィジェット設定のデコード失敗の合計数",
		}),
	}

	reg.MustRegister(
		c.widgetRenders,
		c.notionCalls,
		c.notionLatency,
		c.configDecodeFails,
	)

	return c
}

// RecordWidgetRender はウィジェット描画の結果を記録する。
func (c *Collector) RecordWidgetRender(outcome string) {
	c.widgetRenders.WithLabelValues(outcome).Inc()
}

// RecordNotionCall はNotion API呼び出しの結果を記録する。
// 通信自体が失敗した場合はstatusCode 0で記録される。
func (c *Collector) RecordNotionCall(operation string, statusCode int) {
	c.notionCalls.WithLabelValues(operation, strconv.Itoa(statusCode)).Inc()
}

// RecordNotionLatency はNotion API呼び出しのレイテンシを記録する。
func (c *Collector) RecordNotionLatency(operation string, duration time.Duration) {
	c.notionLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordConfigDecodeFailure は設定デコード失敗を記録する。
func (c *Collector) RecordConfigDecodeFailure() {
	c.configDecodeFails.Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
