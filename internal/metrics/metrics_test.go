package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector_RecordWidgetRender(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordWidgetRender(RenderOK)
	c.RecordWidgetRender(RenderOK)
	c.RecordWidgetRender(RenderConfigInvalid)

	if got := testutil.ToFloat64(c.widgetRenders.WithLabelValues(RenderOK)); got != 2 {
		t.Errorf("renders[ok] = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.widgetRenders.WithLabelValues(RenderConfigInvalid)); got != 1 {
		t.Errorf("renders[config_invalid] = %v, want 1", got)
	}
}

func TestCollector_RecordNotionCall(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordNotionCall("query_database", 200)
	c.RecordNotionCall("query_database", 200)
	c.RecordNotionCall("query_database", 502)
	c.RecordNotionCall("list_databases", 0)

	if got := testutil.ToFloat64(c.notionCalls.WithLabelValues("query_database", "200")); got != 2 {
		t.Errorf("calls[query_database,200] = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.notionCalls.WithLabelValues("list_databases", "0")); got != 1 {
		t.Errorf("calls[list_databases,0] = %v, want 1", got)
	}
}

func TestCollector_RecordConfigDecodeFailure(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordConfigDecodeFailure()

	if got := testutil.ToFloat64(c.configDecodeFails); got != 1 {
		t.Errorf("decode failures = %v, want 1", got)
	}
}

func TestSetupMetricsRoute_ExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordWidgetRender(RenderOK)
	c.RecordNotionLatency("query_database", 150*time.Millisecond)

	handler := SetupMetricsRoute(reg)
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, "dday_widget_renders_total") {
		t.Error("expected dday_widget_renders_total in scrape output")
	}
	if !strings.Contains(body, "dday_notion_latency_seconds") {
		t.Error("expected dday_notion_latency_seconds in scrape output")
	}
}
