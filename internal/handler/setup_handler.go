package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/somlutionsom/dday-project/internal/middleware"
	"github.com/somlutionsom/dday-project/internal/model"
)

// TokenValidator はトークン検証のインターフェース。
type TokenValidator interface {
	// ValidateToken はトークンが有効かを返す。エラーは返さない。
	ValidateToken(ctx context.Context, token string) bool
}

// ConfigPutter は設定保存のインターフェース。store.ConfigStoreの書き込み側を抽象化する。
type ConfigPutter interface {
	Put(ctx context.Context, cfg *model.WidgetConfig) (string, error)
}

// SetupHandler はウィジェットセットアップのHTTPハンドラー。
type SetupHandler struct {
	validator TokenValidator
	store     ConfigPutter
	// baseURL は埋め込みURL生成用。空の場合はリクエストヘッダーから導出する。
	baseURL string
	logger  *slog.Logger
}

// NewSetupHandler はSetupHandlerを生成する。
func NewSetupHandler(validator TokenValidator, store ConfigPutter, baseURL string, logger *slog.Logger) *SetupHandler {
	return &SetupHandler{
		validator: validator,
		store:     store,
		baseURL:   baseURL,
		logger:    logger,
	}
}

// setupRequest はセットアップリクエストのボディ。
// データベースIDはdbId・databaseIdの両キーを受け付ける（クライアント実装の揺れ対応）。
type setupRequest struct {
	Token      string `json:"token"`
	DBID       string `json:"dbId"`
	DatabaseID string `json:"databaseId"`
	ImageProp  string `json:"imageProp"`
	DateProp   string `json:"dateProp"`
	ColorProp  string `json:"colorProp"`
}

// databaseID は受け付けた2キーのうち設定されている方を返す。
func (r *setupRequest) databaseID() string {
	if r.DBID != "" {
		return r.DBID
	}
	return r.DatabaseID
}

// setupResponse はセットアップ成功レスポンス。
type setupResponse struct {
	OK       bool   `json:"ok"`
	Cfg      string `json:"cfg"`
	EmbedURL string `json:"embedUrl"`
}

// Setup はウィジェット設定を検証・エンコードし、埋め込みURLを返す。
// POST /setup
// トークンはこのエンドポイントのみボディで受け取る（オンボーディングの最終ステップのため）。
func (h *SetupHandler) Setup(w http.ResponseWriter, r *http.Request) {
	var req setupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, newInvalidRequestError("リクエストボディの解析に失敗しました。"))
		return
	}

	if req.Token == "" || req.databaseID() == "" || req.ImageProp == "" || req.DateProp == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, newInvalidRequestError("token, dbId, imageProp, dateProp は必須です。"))
		return
	}

	if !h.validator.ValidateToken(r.Context(), req.Token) {
		middleware.WriteErrorResponse(w, http.StatusUnauthorized, model.NewTokenInvalidError())
		return
	}

	cfg := &model.WidgetConfig{
		Token:      req.Token,
		DatabaseID: req.databaseID(),
		ImageProp:  req.ImageProp,
		DateProp:   req.DateProp,
		ColorProp:  req.ColorProp,
	}
	if cfg.ColorProp == "" {
		cfg.ColorProp = model.DefaultColorProp
	}

	key, err := h.store.Put(r.Context(), cfg)
	if err != nil {
		h.logger.Error("ウィジェット設定の保存に失敗しました",
			slog.String("error", err.Error()),
		)
		middleware.WriteInternalServerError(w)
		return
	}

	h.logger.Info("ウィジェット設定を発行しました",
		slog.String("database_id", cfg.DatabaseID),
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(setupResponse{
		OK:       true,
		Cfg:      key,
		EmbedURL: h.embedBaseURL(r) + "/u/" + key,
	})
}

// embedBaseURL は埋め込みURLのベースを決定する。
// BASE_URLが設定されていればそれを使い、
// 無ければリバースプロキシが付与するX-Forwarded-Proto/Hostから導出する。
func (h *SetupHandler) embedBaseURL(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL
	}

	scheme := r.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		scheme = "http"
		if r.TLS != nil {
			scheme = "https"
		}
	}
	host := r.Header.Get("X-Forwarded-Host")
	if host == "" {
		host = r.Host
	}
	return scheme + "://" + host
}
