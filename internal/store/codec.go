// Package store はウィジェット設定の保存と復元を提供する。
// デフォルトはURL自体に設定を埋め込むステートレスなコーデック方式で、
// REDIS_URL指定時のみRedisをキーバリューストアとして使用する。
package store

import (
	"encoding/base64"
	"encoding/json"

	"github.com/somlutionsom/dday-project/internal/model"
)

// encodedConfig はエンコード対象のフィールドのみを持つ中間表現。
// CreatedAtは復元に不要なため含めない。
type encodedConfig struct {
	Token      string `json:"token"`
	DatabaseID string `json:"dbId"`
	ImageProp  string `json:"imageProp"`
	DateProp   string `json:"dateProp"`
	ColorProp  string `json:"colorProp,omitempty"`
}

// EncodeConfig は設定をURLセーフな不透明文字列にエンコードする。
// JSON化した上でパディング無しのbase64url変換を行う。
// 入力が同じであれば常に同じ出力を返す（ソルト・乱数は使用しない）。
func EncodeConfig(cfg *model.WidgetConfig) string {
	data, _ := json.Marshal(encodedConfig{
		Token:      cfg.Token,
		DatabaseID: cfg.DatabaseID,
		ImageProp:  cfg.ImageProp,
		DateProp:   cfg.DateProp,
		ColorProp:  cfg.ColorProp,
	})
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeConfig は不透明文字列から設定を復元する。
// base64として不正、JSONとして不正、または必須フィールド
// （token・dbId）がJSONに存在しない場合はErrConfigNotFoundを返す。
// colorProp省略時はデフォルトのカラム名にフォールバックする。
// トークンやデータベースIDが空文字列でもデコード自体は成功する。
// その場合の失敗は後段のNotion取得時に検出される。
func DecodeConfig(encoded string) (*model.WidgetConfig, error) {
	if encoded == "" {
		return nil, ErrConfigNotFound
	}

	data, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		// パディング付きで生成された過去の文字列も受け付ける
		data, err = base64.URLEncoding.DecodeString(encoded)
		if err != nil {
			return nil, ErrConfigNotFound
		}
	}

	// 必須キーの存在確認のため、一度生のマップとして展開する
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, ErrConfigNotFound
	}
	if _, ok := raw["token"]; !ok {
		return nil, ErrConfigNotFound
	}
	if _, ok := raw["dbId"]; !ok {
		return nil, ErrConfigNotFound
	}

	var ec encodedConfig
	if err := json.Unmarshal(data, &ec); err != nil {
		return nil, ErrConfigNotFound
	}

	cfg := &model.WidgetConfig{
		Token:      ec.Token,
		DatabaseID: ec.DatabaseID,
		ImageProp:  ec.ImageProp,
		DateProp:   ec.DateProp,
		ColorProp:  ec.ColorProp,
	}
	if cfg.ColorProp == "" {
		cfg.ColorProp = model.DefaultColorProp
	}

	return cfg, nil
}
