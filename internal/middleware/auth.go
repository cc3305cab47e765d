// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/somlutionsom/dday-project/internal/model"
)

// contextKey はコンテキストキーの衝突を避けるための非公開型。
type contextKey string

// tokenContextKey はリクエストコンテキスト上のNotionトークンのキー。
const tokenContextKey contextKey = "notion_token"

// ErrTokenNotFound はコンテキストにトークンが存在しないことを表す。
var ErrTokenNotFound = errors.New("notion token not found in context")

// ContextWithToken はコンテキストにNotionトークンを設定する。
func ContextWithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

// TokenFromContext はコンテキストからNotionトークンを取得する。
func TokenFromContext(ctx context.Context) (string, error) {
	token, ok := ctx.Value(tokenContextKey).(string)
	if !ok || token == "" {
		return "", ErrTokenNotFound
	}
	return token, nil
}

// NewBearerAuthMiddleware はAuthorization: Bearerヘッダーからトークンを取り出し、
// リクエストコンテキストに注入するミドルウェアを返す。
// ヘッダーが欠落・不正な場合は401を返す。トークンの有効性はここでは検証しない。
// このサービスはアカウントを持たず、リクエストごとに委譲されたトークンが唯一の識別子となる。
func NewBearerAuthMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthMissingError())
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			if token == "" {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewAuthMissingError())
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithToken(r.Context(), token)))
		})
	}
}
