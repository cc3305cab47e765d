// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, notion, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeAuthMissing        = "AUTH_MISSING"
	ErrCodeTokenInvalid       = "TOKEN_INVALID"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeConfigNotFound     = "CONFIG_NOT_FOUND"
	ErrCodeInvalidDatabaseURL = "INVALID_DATABASE_URL"
	ErrCodeDatabaseAccess     = "DATABASE_ACCESS"
	ErrCodeNoItems            = "NO_ITEMS"
	ErrCodeUpstreamError      = "UPSTREAM_ERROR"
)

// NewAuthMissingError はAuthorizationヘッダー欠落・不正エラーを生成する。
func NewAuthMissingError() *APIError {
	return &APIError{
		Code:     ErrCodeAuthMissing,
		Message:  "Authorizationヘッダーがありません。",
		Category: "auth",
		Action:   "Authorization: Bearer <token> 形式でNotion APIトークンを指定してください。",
	}
}

// NewTokenInvalidError はトークン検証失敗エラーを生成する。
func NewTokenInvalidError() *APIError {
	return &APIError{
		Code:     ErrCodeTokenInvalid,
		Message:  "Notion APIトークンが無効です。",
		Category: "auth",
		Action:   "Notionインテグレーションのトークンを確認してください。",
	}
}

// NewConfigNotFoundError は設定文字列のデコード失敗エラーを生成する。
func NewConfigNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeConfigNotFound,
		Message:  "ウィジェット設定が見つかりません。",
		Category: "validation",
		Action:   "埋め込みURLが正しいか確認し、必要であれば設定をやり直してください。",
	}
}

// NewInvalidDatabaseURLError はデータベースURLからIDを抽出できない場合のエラーを生成する。
func NewInvalidDatabaseURLError(url string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDatabaseURL,
		Message:  fmt.Sprintf("NotionデータベースのURLとして解釈できません: %s", url),
		Category: "validation",
		Action:   "NotionでデータベースのURLをコピーし、そのまま貼り付けてください。",
	}
}

// NewDatabaseAccessError はデータベース取得失敗エラーを生成する。
// トークンの権限不足、またはIDに対応するデータベースが存在しない場合に使用する。
func NewDatabaseAccessError() *APIError {
	return &APIError{
		Code:     ErrCodeDatabaseAccess,
		Message:  "データベースにアクセスできませんでした。",
		Category: "notion",
		Action:   "URLが正しいか、インテグレーションがこのデータベースに接続されているか確認してください。",
	}
}

// NewNoItemsError はデータベースにアイテムが存在しない場合のエラーを生成する。
func NewNoItemsError() *APIError {
	return &APIError{
		Code:     ErrCodeNoItems,
		Message:  "データベースにアイテムがありません。",
		Category: "notion",
		Action:   "Notionのデータベースに1件以上の行を追加してください。",
	}
}

// NewUpstreamError はNotion APIの非2xx応答・通信失敗エラーを生成する。
// 取得できた場合はupstreamのステータスコードとボディをメッセージに含める。
func NewUpstreamError(status int, body string) *APIError {
	return &APIError{
		Code:     ErrCodeUpstreamError,
		Message:  fmt.Sprintf("Notion APIがエラーを返しました: %d - %s", status, body),
		Category: "notion",
		Action:   "しばらく待ってからページを再読み込みしてください。",
	}
}
