package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/somlutionsom/dday-project/internal/model"
)

// RedisStore はRedisをバックエンドとするConfigStore実装。
// トークンをURLに載せたくないデプロイ向けの代替方式で、
// 設定はランダムキーで参照される。キーの衝突はuuidにより実用上発生しない。
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore はRedisStoreを生成する。
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// storedConfig はRedisに保存するJSON表現。
type storedConfig struct {
	Token      string    `json:"token"`
	DatabaseID string    `json:"dbId"`
	ImageProp  string    `json:"imageProp"`
	DateProp   string    `json:"dateProp"`
	ColorProp  string    `json:"colorProp,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// configKey はRedis上のキー名を組み立てる。
func configKey(key string) string {
	return fmt.Sprintf("widget:config:%s", key)
}

// Put は設定をJSON化してRedisに保存し、ランダムキーを返す。
// TTLは設定しない。設定の有効性はNotion側で遅延検証されるため、
// ストア側での失効管理は行わない。
func (s *RedisStore) Put(ctx context.Context, cfg *model.WidgetConfig) (string, error) {
	key := strings.ReplaceAll(uuid.NewString(), "-", "")

	data, err := json.Marshal(storedConfig{
		Token:      cfg.Token,
		DatabaseID: cfg.DatabaseID,
		ImageProp:  cfg.ImageProp,
		DateProp:   cfg.DateProp,
		ColorProp:  cfg.ColorProp,
		CreatedAt:  time.Now(),
	})
	if err != nil {
		return "", err
	}

	if err := s.client.Set(ctx, configKey(key), data, 0).Err(); err != nil {
		return "", err
	}

	return key, nil
}

// Get はキーから設定を復元する。キーが存在しない場合はErrConfigNotFoundを返す。
func (s *RedisStore) Get(ctx context.Context, key string) (*model.WidgetConfig, error) {
	data, err := s.client.Get(ctx, configKey(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var sc storedConfig
	if err := json.Unmarshal([]byte(data), &sc); err != nil {
		return nil, ErrConfigNotFound
	}

	cfg := &model.WidgetConfig{
		Token:      sc.Token,
		DatabaseID: sc.DatabaseID,
		ImageProp:  sc.ImageProp,
		DateProp:   sc.DateProp,
		ColorProp:  sc.ColorProp,
		CreatedAt:  sc.CreatedAt,
	}
	if cfg.ColorProp == "" {
		cfg.ColorProp = model.DefaultColorProp
	}

	return cfg, nil
}

// Delete はキーに対応する設定を削除する。存在しないキーの削除は成功扱い。
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, configKey(key)).Err()
}
