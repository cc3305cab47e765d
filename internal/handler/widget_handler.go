package handler

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/somlutionsom/dday-project/internal/metrics"
	"github.com/somlutionsom/dday-project/internal/model"
	"github.com/somlutionsom/dday-project/internal/widget"
)

//go:embed templates/widget.html
var templateFS embed.FS

// widgetTemplate はウィジェットカードのHTMLテンプレート。起動時に1回だけパースする。
var widgetTemplate = template.Must(template.ParseFS(templateFS, "templates/widget.html"))

// WidgetResolverInterface はウィジェットハンドラーが必要とするリゾルバーインターフェース。
type WidgetResolverInterface interface {
	Resolve(ctx context.Context, key string) (*model.DisplayItem, error)
}

// RenderRecorder はウィジェット描画結果のメトリクス記録インターフェース。
type RenderRecorder interface {
	RecordWidgetRender(outcome string)
	RecordConfigDecodeFailure()
}

// WidgetHandler はウィジェット表示のHTTPハンドラー。
type WidgetHandler struct {
	resolver WidgetResolverInterface
	metrics  RenderRecorder
	logger   *slog.Logger
	// now は現在時刻の供給源。テストで固定するため差し替え可能にする。
	now func() time.Time
}

// NewWidgetHandler はWidgetHandlerを生成する。
func NewWidgetHandler(resolver WidgetResolverInterface, recorder RenderRecorder, logger *slog.Logger) *WidgetHandler {
	return &WidgetHandler{
		resolver: resolver,
		metrics:  recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// widgetPageData はウィジェットテンプレートに渡すデータ。
type widgetPageData struct {
	Title      string
	Label      string
	TargetDate string
	ImageSrc   string
	PageURL    string
	Palette    widget.Palette
	// Placeholder は設定・取得エラー時の案内カード表示フラグ。
	Placeholder bool
}

// Render はエンコード済み設定からウィジェットHTMLを描画する。
// GET /u/{cfg}
// 解決に失敗してもHTTPエラーにせず、200でプレースホルダーカードを返す。
// ウィジェットはNotionページにiframe埋め込みされるため、
// エラーページよりも案内カードの方がユーザーに状況を伝えられる。
func (h *WidgetHandler) Render(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "cfg")

	item, err := h.resolver.Resolve(r.Context(), key)
	if err != nil {
		outcome := renderOutcome(err)
		h.metrics.RecordWidgetRender(outcome)
		if outcome == metrics.RenderConfigInvalid {
			h.metrics.RecordConfigDecodeFailure()
		}
		h.logger.Warn("ウィジェットの解決に失敗しました",
			slog.String("error", err.Error()),
		)
		h.writePage(w, widgetPageData{
			Title:       "ウィジェットを表示できません",
			Palette:     widget.PaletteFor(model.DefaultTheme),
			Placeholder: true,
		})
		return
	}

	data := widgetPageData{
		Title:      item.Title,
		TargetDate: item.TargetDate,
		PageURL:    item.PageURL,
		Palette:    widget.PaletteFor(item.ColorTheme),
	}

	if item.TargetDate != "" {
		if label, err := widget.DdayLabel(item.TargetDate, h.now()); err == nil {
			data.Label = label
		}
	}

	// Notionの添付ファイルURLは署名付きで期限切れになるため、
	// 毎回プロキシ経由で取得させる。
	if item.ImageURL != "" {
		data.ImageSrc = "/img?src=" + url.QueryEscape(item.ImageURL)
	}

	h.metrics.RecordWidgetRender(metrics.RenderOK)
	h.writePage(w, data)
}

// writePage はテンプレートを描画してレスポンスに書き込む。
func (h *WidgetHandler) writePage(w http.ResponseWriter, data widgetPageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := widgetTemplate.Execute(w, data); err != nil {
		h.logger.Error("テンプレートの描画に失敗しました",
			slog.String("error", err.Error()),
		)
	}
}

// renderOutcome は解決エラーをメトリクスの結果ラベルに分類する。
func renderOutcome(err error) string {
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		return metrics.RenderUpstreamError
	}
	switch apiErr.Code {
	case model.ErrCodeConfigNotFound:
		return metrics.RenderConfigInvalid
	case model.ErrCodeNoItems:
		return metrics.RenderNoItems
	default:
		return metrics.RenderUpstreamError
	}
}
