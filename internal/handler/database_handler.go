// Package handler はHTTPハンドラーとルーティングを提供する。
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/somlutionsom/dday-project/internal/middleware"
	"github.com/somlutionsom/dday-project/internal/model"
)

// DatabaseServiceInterface はデータベースハンドラーが必要とするサービスインターフェース。
type DatabaseServiceInterface interface {
	// ListDatabases はトークンがアクセス可能なデータベースを列挙する。失敗時は空スライス。
	ListDatabases(ctx context.Context, token string) []model.Database
	// DatabaseFromURL はNotionのURLからデータベースを解決する。
	DatabaseFromURL(ctx context.Context, token, rawURL string) (*model.Database, error)
}

// DatabaseHandler はデータベース列挙・解決のHTTPハンドラー。
type DatabaseHandler struct {
	service DatabaseServiceInterface
	logger  *slog.Logger
}

// NewDatabaseHandler はDatabaseHandlerを生成する。
func NewDatabaseHandler(service DatabaseServiceInterface, logger *slog.Logger) *DatabaseHandler {
	return &DatabaseHandler{
		service: service,
		logger:  logger,
	}
}

// databaseFromURLRequest はデータベースURL解決リクエストのボディ。
type databaseFromURLRequest struct {
	URL string `json:"url"`
}

// ListDatabases はトークンがアクセス可能なデータベース一覧を返す。
// GET /databases
// 失敗しても200と空配列を返す。クライアントは空をURL貼り付けへの誘導と解釈する。
func (h *DatabaseHandler) ListDatabases(w http.ResponseWriter, r *http.Request) {
	token, err := middleware.TokenFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthMissingError())
		return
	}

	databases := h.service.ListDatabases(r.Context(), token)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(databases)
}

// DatabaseFromURL はNotionのURLからデータベースを解決する。
// POST /databases-from-url
func (h *DatabaseHandler) DatabaseFromURL(w http.ResponseWriter, r *http.Request) {
	token, err := middleware.TokenFromContext(r.Context())
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthMissingError())
		return
	}

	var req databaseFromURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, newInvalidRequestError("リクエストボディの解析に失敗しました。"))
		return
	}

	if req.URL == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, newInvalidRequestError("urlが空です。"))
		return
	}

	db, err := h.service.DatabaseFromURL(r.Context(), token, req.URL)
	if err != nil {
		handleServiceError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(db)
}

// --- ヘルパー関数 ---

// newInvalidRequestError はリクエスト形式エラーを生成する。
func newInvalidRequestError(message string) *model.APIError {
	return &model.APIError{
		Code:     model.ErrCodeInvalidRequest,
		Message:  message,
		Category: "validation",
		Action:   "正しいJSON形式でリクエストしてください。",
	}
}

// handleServiceError はサービス層から返されたエラーを適切なHTTPステータスコードに変換する。
func handleServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		middleware.WriteErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	logger.Error("internal server error", slog.String("error", err.Error()))
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeAuthMissing, model.ErrCodeTokenInvalid:
		return http.StatusUnauthorized
	case model.ErrCodeInvalidRequest, model.ErrCodeInvalidDatabaseURL:
		return http.StatusBadRequest
	case model.ErrCodeConfigNotFound:
		return http.StatusNotFound
	case model.ErrCodeDatabaseAccess, model.ErrCodeNoItems, model.ErrCodeUpstreamError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
