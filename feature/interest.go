package feature

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wandergram/wanderkit/core"
)

// InterestProvider 提供用户声明式兴趣（与行为推断的偏好互补）。
// 查不到兴趣返回空切片，不视为错误。
type InterestProvider interface {
	GetUserInterests(ctx context.Context, userID string) ([]core.UserInterest, error)
}

// StoreInterestProvider 基于 core.Store 的兴趣实现，
// 以 JSON 形式存取 `{prefix}{userID}` 键。
type StoreInterestProvider struct {
	Store core.Store

	// KeyPrefix 默认 "interest:user:"
	KeyPrefix string
}

func (p *StoreInterestProvider) prefix() string {
	if p.KeyPrefix != "" {
		return p.KeyPrefix
	}
	return "interest:user:"
}

// GetUserInterests 读取并反序列化用户兴趣，键不存在时返回空。
func (p *StoreInterestProvider) GetUserInterests(ctx context.Context, userID string) ([]core.UserInterest, error) {
	if p.Store == nil {
		return nil, fmt.Errorf("store interest provider: store is nil")
	}
	data, err := p.Store.Get(ctx, p.prefix()+userID)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("store interest provider: get %q: %w", userID, err)
	}
	var interests []core.UserInterest
	if err := json.Unmarshal(data, &interests); err != nil {
		return nil, fmt.Errorf("store interest provider: decode %q: %w", userID, err)
	}
	return interests, nil
}

// SetUserInterests 写入用户兴趣，便于测试与离线导入。
func (p *StoreInterestProvider) SetUserInterests(ctx context.Context, userID string, interests []core.UserInterest) error {
	if p.Store == nil {
		return fmt.Errorf("store interest provider: store is nil")
	}
	data, err := json.Marshal(interests)
	if err != nil {
		return fmt.Errorf("store interest provider: encode %q: %w", userID, err)
	}
	return p.Store.Set(ctx, p.prefix()+userID, data)
}
