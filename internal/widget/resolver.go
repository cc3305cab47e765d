// Package widget はウィジェット表示データの解決を提供する。
// 設定の復元 → Notionからの最新アイテム取得 → 表示用レコードへの射影を統括する。
package widget

import (
	"context"
	"log/slog"

	"github.com/somlutionsom/dday-project/internal/model"
	"github.com/somlutionsom/dday-project/internal/notion"
)

// untitledFallback はタイトルが解決できない場合の表示名。
const untitledFallback = "Untitled"

// ConfigGetter は設定復元のインターフェース。store.ConfigStoreの読み取り側を抽象化する。
type ConfigGetter interface {
	Get(ctx context.Context, key string) (*model.WidgetConfig, error)
}

// ItemQuerier は最新アイテム取得のインターフェース。
// テスタビリティのためnotion.Clientを抽象化する。
type ItemQuerier interface {
	QueryLatestItem(ctx context.Context, token, databaseID string) (*notion.Page, error)
}

// Resolver は不透明な設定文字列からDisplayItemを解決する。
type Resolver struct {
	store  ConfigGetter
	notion ItemQuerier
	logger *slog.Logger
}

// NewResolver はResolverの新しいインスタンスを生成する。
func NewResolver(store ConfigGetter, querier ItemQuerier, logger *slog.Logger) *Resolver {
	return &Resolver{
		store:  store,
		notion: querier,
		logger: logger,
	}
}

// Resolve は設定キーからウィジェット表示データを解決する。
// フロー: 設定復元 → 最新アイテム取得 → 射影
// 設定が復元できない場合はCONFIG_NOT_FOUND、
// 取得の失敗は種別を変えずそのまま伝播する（リトライしない）。
func (r *Resolver) Resolve(ctx context.Context, key string) (*model.DisplayItem, error) {
	// 1. 設定の復元
	cfg, err := r.store.Get(ctx, key)
	if err != nil {
		r.logger.Warn("ウィジェット設定を復元できませんでした",
			slog.String("error", err.Error()),
		)
		return nil, model.NewConfigNotFoundError()
	}

	// 2. 最新アイテムの取得。設定の有効性はここで毎回遅延検証される。
	page, err := r.notion.QueryLatestItem(ctx, cfg.Token, cfg.DatabaseID)
	if err != nil {
		return nil, err
	}

	// 3. 表示用レコードへの射影
	item := &model.DisplayItem{
		Title:      untitledFallback,
		ColorTheme: model.DefaultTheme,
		PageID:     page.ID,
		PageURL:    page.URL,
	}

	if title, ok := page.Title(); ok {
		item.Title = title
	}
	if image, ok := page.ImageURL(cfg.ImageProp); ok {
		item.ImageURL = image
	}
	if date, ok := page.TargetDate(cfg.DateProp); ok {
		item.TargetDate = date
	}
	if selection, ok := page.SelectName(cfg.ColorProp); ok {
		item.ColorTheme = themeForSelection(selection)
	}

	r.logger.Info("ウィジェットデータを解決しました",
		slog.String("page_id", item.PageID),
		slog.String("theme", item.ColorTheme),
	)

	return item, nil
}
