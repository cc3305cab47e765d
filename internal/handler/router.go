package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/somlutionsom/dday-project/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Logger *slog.Logger

	// ミドルウェア依存
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// オンボーディングAPI
	DatabaseService DatabaseServiceInterface
	TokenValidator  TokenValidator
	ConfigStore     ConfigPutter
	BaseURL         string

	// ウィジェット
	WidgetResolver WidgetResolverInterface
	RenderRecorder RenderRecorder

	// 画像プロキシ
	ImageClient  *http.Client
	URLValidator URLValidator
	ImageMaxSize int64
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → CORS → (ルートグループごとのミドルウェア)
//
// オンボーディングAPIにはフレーミング拒否のセキュリティヘッダーを適用し、
// ウィジェット系ルートはiframe埋め込みのためフレーミング可能なヘッダーに留める。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	dbHandler := NewDatabaseHandler(deps.DatabaseService, deps.Logger)
	setupHandler := NewSetupHandler(deps.TokenValidator, deps.ConfigStore, deps.BaseURL, deps.Logger)
	widgetHandler := NewWidgetHandler(deps.WidgetResolver, deps.RenderRecorder, deps.Logger)
	imageHandler := NewImageHandler(deps.ImageClient, deps.URLValidator, deps.ImageMaxSize, deps.Logger)

	// ヘルスチェック（ミドルウェア最小限）
	r.Get("/health", healthCheck)

	// --- オンボーディングAPI ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSecurityHeadersMiddleware())
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// Bearerヘッダー必須のルート
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewBearerAuthMiddleware())
			r.Get("/databases", dbHandler.ListDatabases)
			r.Post("/databases-from-url", dbHandler.DatabaseFromURL)
		})

		// POST /setup - トークンはボディで受け取る（セットアップ専用レート制限を追加）
		r.With(deps.RateLimiter.SetupMiddleware()).Post("/setup", setupHandler.Setup)
	})

	// --- ウィジェット系ルート（埋め込み前提、フレーミング可能） ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewWidgetHeadersMiddleware())
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/u/{cfg}", widgetHandler.Render)
		r.Get("/img", imageHandler.Proxy)
	})

	return r
}

// healthCheck は稼働確認用のレスポンスを返す。
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
