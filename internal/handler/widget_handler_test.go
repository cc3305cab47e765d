package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/somlutionsom/dday-project/internal/metrics"
	"github.com/somlutionsom/dday-project/internal/model"
)

// mockWidgetResolver はWidgetResolverInterfaceのモック実装。
type mockWidgetResolver struct {
	resolveFunc func(ctx context.Context, key string) (*model.DisplayItem, error)
}

func (m *mockWidgetResolver) Resolve(ctx context.Context, key string) (*model.DisplayItem, error) {
	return m.resolveFunc(ctx, key)
}

// mockRenderRecorder は描画結果の記録を捕捉する。
type mockRenderRecorder struct {
	outcomes       []string
	decodeFailures int
}

func (m *mockRenderRecorder) RecordWidgetRender(outcome string) {
	m.outcomes = append(m.outcomes, outcome)
}

func (m *mockRenderRecorder) RecordConfigDecodeFailure() {
	m.decodeFailures++
}

func renderRequest(key string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/u/"+key, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("cfg", key)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestWidgetRender_Success(t *testing.T) {
	resolver := &mockWidgetResolver{
		resolveFunc: func(ctx context.Context, key string) (*model.DisplayItem, error) {
			if key != "encoded-cfg" {
				t.Errorf("key = %q", key)
			}
			return &model.DisplayItem{
				Title:      "韓国旅行",
				ImageURL:   "https://prod-files-secure.s3.us-west-2.amazonaws.com/a/b/cover.png?sig=xyz",
				TargetDate: "2030-01-01",
				ColorTheme: model.ThemePink,
				PageID:     "page-1",
				PageURL:    "https://www.notion.so/page-1",
			}, nil
		},
	}
	recorder := &mockRenderRecorder{}
	h := NewWidgetHandler(resolver, recorder, testLogger())
	h.now = func() time.Time {
		return time.Date(2029, 12, 29, 10, 0, 0, 0, time.UTC)
	}

	w := httptest.NewRecorder()
	h.Render(w, renderRequest("encoded-cfg"))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}

	body := w.Body.String()
	if !strings.Contains(body, "韓国旅行") {
		t.Error("expected title in rendered page")
	}
	if !strings.Contains(body, "D-3") {
		t.Errorf("expected D-3 badge in rendered page: %s", body)
	}
	// 画像は署名付きURLのためプロキシ経由で参照される
	if !strings.Contains(body, "/img?src=") {
		t.Error("expected proxied image source")
	}
	if strings.Contains(body, "s3.us-west-2.amazonaws.com/a/b/cover.png?sig") {
		t.Error("raw image URL must not appear unescaped")
	}
	// pinkテーマの配色が適用される
	if !strings.Contains(body, "#FFE6EF") {
		t.Error("expected pink header color")
	}

	if len(recorder.outcomes) != 1 || recorder.outcomes[0] != metrics.RenderOK {
		t.Errorf("outcomes = %v, want [ok]", recorder.outcomes)
	}
}

func TestWidgetRender_NoDateOmitsBadge(t *testing.T) {
	resolver := &mockWidgetResolver{
		resolveFunc: func(ctx context.Context, key string) (*model.DisplayItem, error) {
			return &model.DisplayItem{
				Title:      "Untitled",
				ColorTheme: model.DefaultTheme,
				PageID:     "page-1",
			}, nil
		},
	}
	h := NewWidgetHandler(resolver, &mockRenderRecorder{}, testLogger())

	w := httptest.NewRecorder()
	h.Render(w, renderRequest("encoded-cfg"))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if strings.Contains(w.Body.String(), `class="badge"`) {
		t.Error("badge must be omitted when no target date")
	}
}

func TestWidgetRender_FailureRendersPlaceholder(t *testing.T) {
	tests := []struct {
		name               string
		err                error
		wantOutcome        string
		wantDecodeFailures int
	}{
		{"config not found", model.NewConfigNotFoundError(), metrics.RenderConfigInvalid, 1},
		{"no items", model.NewNoItemsError(), metrics.RenderNoItems, 0},
		{"upstream error", model.NewUpstreamError(502, "bad gateway"), metrics.RenderUpstreamError, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &mockWidgetResolver{
				resolveFunc: func(ctx context.Context, key string) (*model.DisplayItem, error) {
					return nil, tt.err
				},
			}
			recorder := &mockRenderRecorder{}
			h := NewWidgetHandler(resolver, recorder, testLogger())

			w := httptest.NewRecorder()
			h.Render(w, renderRequest("broken"))

			// 埋め込みウィジェットはエラーでも200でプレースホルダーを返す
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			if !strings.Contains(w.Body.String(), "ウィジェットを表示できません") {
				t.Error("expected placeholder message")
			}
			if len(recorder.outcomes) != 1 || recorder.outcomes[0] != tt.wantOutcome {
				t.Errorf("outcomes = %v, want [%s]", recorder.outcomes, tt.wantOutcome)
			}
			// デコード失敗カウンターは設定起因の失敗でのみ増える
			if recorder.decodeFailures != tt.wantDecodeFailures {
				t.Errorf("decodeFailures = %d, want %d", recorder.decodeFailures, tt.wantDecodeFailures)
			}
		})
	}
}

func TestWidgetRender_TitleIsEscaped(t *testing.T) {
	resolver := &mockWidgetResolver{
		resolveFunc: func(ctx context.Context, key string) (*model.DisplayItem, error) {
			return &model.DisplayItem{
				Title:      "<script>alert(1)</script>",
				ColorTheme: model.DefaultTheme,
			}, nil
		},
	}
	h := NewWidgetHandler(resolver, &mockRenderRecorder{}, testLogger())

	w := httptest.NewRecorder()
	h.Render(w, renderRequest("encoded-cfg"))

	if strings.Contains(w.Body.String(), "<script>alert(1)</script>") {
		t.Error("title must be HTML-escaped")
	}
}
