package handler

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/somlutionsom/dday-project/internal/middleware"
	"github.com/somlutionsom/dday-project/internal/model"
)

// URLValidator は取得先URLの事前検証インターフェース。
type URLValidator interface {
	ValidateURL(rawURL string) error
}

// ImageHandler はNotion添付画像のプロキシハンドラー。
// Notionのファイルは署名付きの期限切れURLで配信されるため、
// ウィジェット側ではキャッシュせず毎回ここを経由して取得する。
type ImageHandler struct {
	// client はSSRF防止機能付きのHTTPクライアント。
	client  *http.Client
	guard   URLValidator
	maxSize int64
	logger  *slog.Logger
}

// NewImageHandler はImageHandlerを生成する。
func NewImageHandler(client *http.Client, guard URLValidator, maxSize int64, logger *slog.Logger) *ImageHandler {
	return &ImageHandler{
		client:  client,
		guard:   guard,
		maxSize: maxSize,
		logger:  logger,
	}
}

// Proxy は指定されたURLの画像を取得して中継する。
// GET /img?src=<url>
// 危険なURL（非https、プライベートIP等）は400、取得失敗は502を返す。
func (h *ImageHandler) Proxy(w http.ResponseWriter, r *http.Request) {
	src := r.URL.Query().Get("src")
	if src == "" {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, newInvalidRequestError("srcパラメータが必要です。"))
		return
	}

	if err := h.guard.ValidateURL(src); err != nil {
		h.logger.Warn("画像URLの検証に失敗しました",
			slog.String("error", err.Error()),
		)
		middleware.WriteErrorResponse(w, http.StatusBadRequest, newInvalidRequestError("このURLの画像は取得できません。"))
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, src, nil)
	if err != nil {
		middleware.WriteErrorResponse(w, http.StatusBadRequest, newInvalidRequestError("URLとして解釈できません。"))
		return
	}

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Warn("画像の取得に失敗しました",
			slog.String("error", err.Error()),
		)
		writeImageFetchError(w)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		h.logger.Warn("画像の取得がエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
		)
		writeImageFetchError(w)
		return
	}

	if ct := resp.Header.Get("Content-Type"); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	// 署名付きURLは期限切れになるため、中継結果もキャッシュさせない
	w.Header().Set("Cache-Control", "no-store")

	// 巨大レスポンスからの防御としてサイズ上限で打ち切る
	if _, err := io.Copy(w, io.LimitReader(resp.Body, h.maxSize)); err != nil {
		h.logger.Warn("画像の転送が中断されました",
			slog.String("error", err.Error()),
		)
	}
}

// writeImageFetchError は画像取得失敗の502レスポンスを書き込む。
func writeImageFetchError(w http.ResponseWriter) {
	middleware.WriteErrorResponse(w, http.StatusBadGateway, &model.APIError{
		Code:     "IMAGE_FETCH_FAILED",
		Message:  "画像を取得できませんでした。",
		Category: "notion",
		Action:   "ページを再読み込みしてください。",
	})
}
