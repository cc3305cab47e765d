// Package notion はNotion REST APIのステートレスなクライアントを提供する。
// トークンは保持せず、すべての操作で呼び出し元から受け取る。
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/somlutionsom/dday-project/internal/config"
	"github.com/somlutionsom/dday-project/internal/model"
)

const (
	// defaultBaseURL はNotion APIのベースURL。
	defaultBaseURL = "https://api.notion.com/v1"
	// apiVersion はNotion-Versionヘッダーに設定するAPIバージョン。
	apiVersion = "2022-06-28"
	// tokenPrefix はNotionインテグレーショントークンの先頭形式。
	tokenPrefix = "ntn_"
	// tokenMinLength はトークンの最小長。
	tokenMinLength = 50
)

// databaseIDPatterns はNotionのURLからデータベースIDを抽出するパターン。
// ホスト名付きの最も限定的なパターンから順に試し、
// 最後に裸の32桁hex・UUIDへフォールバックする。順序に意味がある。
var databaseIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`notion\.so/[^/]+/([a-f0-9]{32})`),
	regexp.MustCompile(`notion\.so/([a-f0-9]{32})`),
	regexp.MustCompile(`([a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12})`),
	regexp.MustCompile(`([a-f0-9]{32})`),
}

// CallRecorder はNotion API呼び出しのメトリクス記録インターフェース。
type CallRecorder interface {
	RecordNotionCall(operation string, statusCode int)
	RecordNotionLatency(operation string, duration time.Duration)
}

// Options はClientの生成オプション。ゼロ値はすべてデフォルトに解決される。
type Options struct {
	// BaseURL はテスト用にエンドポイントを差し替えるためのオーバーライド。
	BaseURL string
	// TokenCheck はValidateTokenの検証方式（config.TokenCheckFormat / Live）。
	TokenCheck string
	// Metrics は呼び出しメトリクスの記録先。nilの場合は記録しない。
	Metrics CallRecorder
}

// Client はNotion APIのクライアント。
// 状態を持たず、同一インスタンスを複数goroutineから安全に共有できる。
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	tokenCheck string
	metrics    CallRecorder
}

// NewClient はClientの新しいインスタンスを生成する。
func NewClient(httpClient *http.Client, logger *slog.Logger, opts Options) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	tokenCheck := opts.TokenCheck
	if tokenCheck == "" {
		tokenCheck = config.TokenCheckFormat
	}
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokenCheck: tokenCheck,
		metrics:    opts.Metrics,
	}
}

// ValidateToken はトークンが有効かを返す。エラーは返さず、常にboolに畳み込む。
// formatモードではプレフィックスと長さの形式チェックのみを行う。
// liveモードでは形式チェックに加えて最小コストの検索APIを1回呼び、
// upstreamがトークンを受理した場合のみtrueを返す。
// レート制限や一時的な通信失敗もfalseになる（契約はboolのみのため）。
func (c *Client) ValidateToken(ctx context.Context, token string) bool {
	if token == "" || !strings.HasPrefix(token, tokenPrefix) || len(token) < tokenMinLength {
		return false
	}

	if c.tokenCheck != config.TokenCheckLive {
		return true
	}

	body := map[string]any{"page_size": 1}
	status, _, err := c.do(ctx, "validate_token", http.MethodPost, "/search", token, body)
	if err != nil {
		return false
	}
	return status == http.StatusOK
}

// ListDatabases はトークンがアクセス可能なデータベースを列挙する。
// 失敗時は空スライスを返す。呼び出し側は「空＝URL貼り付けに誘導」と解釈する。
func (c *Client) ListDatabases(ctx context.Context, token string) []model.Database {
	body := map[string]any{
		"filter":    map[string]string{"property": "object", "value": "database"},
		"page_size": 100,
	}

	status, data, err := c.do(ctx, "list_databases", http.MethodPost, "/search", token, body)
	if err != nil || status != http.StatusOK {
		c.logger.Warn("データベース一覧の取得に失敗しました",
			slog.Int("http_status", status),
		)
		return []model.Database{}
	}

	var result searchResponse
	if err := json.Unmarshal(data, &result); err != nil {
		c.logger.Warn("検索レスポンスのパースに失敗しました",
			slog.String("error", err.Error()),
		)
		return []model.Database{}
	}

	databases := make([]model.Database, 0, len(result.Results))
	for _, db := range result.Results {
		if db.Object != "database" {
			continue
		}
		databases = append(databases, toDatabase(db))
	}

	c.logger.Info("データベース一覧を取得しました",
		slog.Int("count", len(databases)),
	)
	return databases
}

// ExtractDatabaseID はNotionのURLからデータベースIDを抽出する。
// どのパターンにも一致しない場合はINVALID_DATABASE_URLエラーを返す。
func ExtractDatabaseID(rawURL string) (string, error) {
	for _, pattern := range databaseIDPatterns {
		if m := pattern.FindStringSubmatch(rawURL); m != nil {
			return m[1], nil
		}
	}
	return "", model.NewInvalidDatabaseURLError(rawURL)
}

// DatabaseFromURL はNotionのURLからデータベースを解決する。
// IDが抽出できない場合はINVALID_DATABASE_URL、
// 取得に失敗した場合（権限不足・存在しないID）はDATABASE_ACCESSエラーを返す。
func (c *Client) DatabaseFromURL(ctx context.Context, token, rawURL string) (*model.Database, error) {
	dbID, err := ExtractDatabaseID(rawURL)
	if err != nil {
		return nil, err
	}

	status, data, err := c.do(ctx, "retrieve_database", http.MethodGet, "/databases/"+dbID, token, nil)
	if err != nil {
		return nil, model.NewDatabaseAccessError()
	}
	if status != http.StatusOK {
		c.logger.Warn("データベースの取得に失敗しました",
			slog.String("database_id", dbID),
			slog.Int("http_status", status),
		)
		return nil, model.NewDatabaseAccessError()
	}

	var db databaseObject
	if err := json.Unmarshal(data, &db); err != nil {
		return nil, model.NewDatabaseAccessError()
	}

	result := toDatabase(db)
	return &result, nil
}

// QueryLatestItem はデータベースから最終編集が最新の1行を取得する。
// データベースが空の場合はNO_ITEMS、非2xx応答の場合は
// upstreamのステータスとボディを含むUPSTREAM_ERRORを返す。
func (c *Client) QueryLatestItem(ctx context.Context, token, databaseID string) (*Page, error) {
	body := map[string]any{
		"sorts": []any{
			map[string]string{"timestamp": "last_edited_time", "direction": "descending"},
		},
		"page_size": 1,
	}

	status, data, err := c.do(ctx, "query_database", http.MethodPost, "/databases/"+databaseID+"/query", token, body)
	if err != nil {
		return nil, model.NewUpstreamError(0, err.Error())
	}
	if status != http.StatusOK {
		c.logger.Error("データベースクエリがエラーステータスを返しました",
			slog.String("database_id", databaseID),
			slog.Int("http_status", status),
		)
		return nil, model.NewUpstreamError(status, string(data))
	}

	var result queryResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, model.NewUpstreamError(status, fmt.Sprintf("レスポンスのパースに失敗しました: %v", err))
	}

	if len(result.Results) == 0 {
		return nil, model.NewNoItemsError()
	}

	return &result.Results[0], nil
}

// do はNotion APIへの1リクエストを実行し、ステータスコードとボディを返す。
// 通信エラー以外（非2xxを含む）はエラーにせず、判断を呼び出し元に委ねる。
func (c *Client) do(ctx context.Context, operation, method, path, token string, body any) (int, []byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("リクエストボディの生成に失敗しました: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Notion-Version", apiVersion)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.metrics != nil {
		c.metrics.RecordNotionLatency(operation, time.Since(start))
	}
	if err != nil {
		if c.metrics != nil {
			c.metrics.RecordNotionCall(operation, 0)
		}
		c.logger.Error("Notion APIの呼び出しに失敗しました",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
		return 0, nil, err
	}
	defer resp.Body.Close()

	if c.metrics != nil {
		c.metrics.RecordNotionCall(operation, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	return resp.StatusCode, data, nil
}

// toDatabase はデータベースオブジェクトを一覧表示用レコードに変換する。
// タイトルは先頭スパンのテキストを採用し、空の場合はIDへフォールバックする。
// アイコンはemoji型の場合のみ設定する。
func toDatabase(db databaseObject) model.Database {
	title := db.ID
	if len(db.Title) > 0 {
		span := db.Title[0]
		if span.Type == "text" && span.Text != nil && span.Text.Content != "" {
			title = span.Text.Content
		}
	}

	result := model.Database{
		ID:    db.ID,
		Title: title,
	}
	if db.Icon != nil && db.Icon.Type == "emoji" {
		result.Icon = db.Icon.Emoji
	}
	return result
}
