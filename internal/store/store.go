package store

import (
	"context"
	"errors"
	"time"

	"github.com/somlutionsom/dday-project/internal/model"
)

// ErrConfigNotFound はキーに対応する設定が存在しない、
// または文字列が設定として復元できないことを表す。
var ErrConfigNotFound = errors.New("widget config not found")

// ConfigStore はウィジェット設定の保存・取得のケーパビリティインターフェース。
// 書き込みはオンボーディング時の1回のみで、以降は読み取り専用に使われる。
type ConfigStore interface {
	// Put は設定を保存し、参照用のキーを返す。
	Put(ctx context.Context, cfg *model.WidgetConfig) (string, error)
	// Get はキーから設定を復元する。存在しない場合はErrConfigNotFoundを返す。
	Get(ctx context.Context, key string) (*model.WidgetConfig, error)
	// Delete はキーに対応する設定を削除する。
	Delete(ctx context.Context, key string) error
}

// CodecStore はステートレスなConfigStore実装。
// キー自体がエンコード済み設定であり、サーバー側の状態を一切持たない。
// プロセス再起動や複数インスタンス構成でも同じURLがそのまま機能する。
// 代償としてトークンがURLに露出するが、これは意図されたトレードオフである。
type CodecStore struct{}

// NewCodecStore はCodecStoreを生成する。
func NewCodecStore() *CodecStore {
	return &CodecStore{}
}

// Put は設定をエンコードし、その文字列をキーとして返す。
func (s *CodecStore) Put(ctx context.Context, cfg *model.WidgetConfig) (string, error) {
	return EncodeConfig(cfg), nil
}

// Get はキーをデコードして設定を復元する。
func (s *CodecStore) Get(ctx context.Context, key string) (*model.WidgetConfig, error) {
	cfg, err := DecodeConfig(key)
	if err != nil {
		return nil, err
	}
	cfg.CreatedAt = time.Now()
	return cfg, nil
}

// Delete はステートレス方式では削除対象が存在しないため常に成功する。
func (s *CodecStore) Delete(ctx context.Context, key string) error {
	return nil
}
