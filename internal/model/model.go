// Package model はドメインモデルを定義する。
package model

import "time"

// WidgetConfig はウィジェット1つ分の設定を表す。
// エンコード済み文字列が唯一の識別子であり、エンコード後は不変として扱う。
type WidgetConfig struct {
	// Token はNotion APIのベアラートークン。秘匿情報として扱う。
	Token string `json:"token"`
	// DatabaseID は対象のNotionデータベースID。
	DatabaseID string `json:"dbId"`
	// ImageProp は画像を供給するカラム名。
	ImageProp string `json:"imageProp"`
	// DateProp は目標日を供給するカラム名。
	DateProp string `json:"dateProp"`
	// ColorProp はカラーテーマ選択を供給するカラム名（任意）。
	ColorProp string `json:"colorProp,omitempty"`
	// CreatedAt は作成時刻。参考情報であり有効期限には使用しない。
	// エンコード対象外のためJSONには含めない。
	CreatedAt time.Time `json:"-"`
}

// Database はNotionデータベースの一覧表示用レコード。
type Database struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	// Icon はデータベースアイコンがemojiの場合のみ設定される。
	Icon string `json:"icon,omitempty"`
}

// DisplayItem はウィジェット表示用に射影した1行分のデータ。
// リクエストごとに生成される一時データであり、永続化しない。
type DisplayItem struct {
	// Title はタイトル型プロパティの先頭スパン。解決できない場合は "Untitled"。
	Title string `json:"title"`
	// ImageURL は画像プロパティのURL。未設定の場合は空文字列。
	ImageURL string `json:"image,omitempty"`
	// TargetDate は目標日のISO日付文字列。未設定の場合は空文字列。
	TargetDate string `json:"targetDate,omitempty"`
	// ColorTheme はカラーテーマ名。未設定・未対応の場合はデフォルトテーマ。
	ColorTheme string `json:"colorTheme"`
	// PageID は取得元NotionページのID。
	PageID string `json:"pageId"`
	// PageURL は「Notionで開く」リンク用のページURL。
	PageURL string `json:"url"`
}

// カラーテーマ名。ウィジェットの配色セットに対応する。
const (
	ThemeBlue   = "blue"
	ThemePink   = "pink"
	ThemeRed    = "red"
	ThemeBlack  = "black"
	ThemeGreen  = "green"
	ThemePurple = "purple"

	// DefaultTheme はテーマ未選択・未対応時のフォールバック。
	DefaultTheme = ThemeBlue
)

// DefaultColorProp はcolorProp省略時のカラム名フォールバック。
const DefaultColorProp = "Color"
