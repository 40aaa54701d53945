package feature

import (
	"context"
	"testing"

	"github.com/wandergram/wanderkit/core"
	"github.com/wandergram/wanderkit/store"
)

func TestStoreInterestProvider_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := store.NewMemoryStore()
	defer kv.Close()

	p := &StoreInterestProvider{Store: kv}

	// 未写入时返回空且无错误
	got, err := p.GetUserInterests(ctx, "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("未写入的用户应返回空兴趣，得到 %v", got)
	}

	interests := []core.UserInterest{
		{Category: "beach", Weight: 0.8},
		{Category: "mountain", Weight: 0.3},
	}
	if err := p.SetUserInterests(ctx, "u1", interests); err != nil {
		t.Fatalf("set interests: %v", err)
	}

	got, err = p.GetUserInterests(ctx, "u1")
	if err != nil {
		t.Fatalf("get interests: %v", err)
	}
	if len(got) != 2 || got[0].Category != "beach" || got[0].Weight != 0.8 {
		t.Errorf("兴趣读写不一致：%v", got)
	}
}

// 需要连接真实的 Feast 服务器才能运行。
func TestFeastInterestProvider_GetUserInterests(t *testing.T) {
	t.Skip("需要连接真实的 Feast 服务器才能运行")

	p, err := NewFeastInterestProvider("localhost", 6565, "wandergram", map[string]string{
		"interest_beach":    "beach",
		"interest_mountain": "mountain",
	})
	if err != nil {
		t.Fatalf("创建客户端失败: %v", err)
	}
	defer p.Close()

	interests, err := p.GetUserInterests(context.Background(), "u1")
	if err != nil {
		t.Fatalf("获取兴趣失败: %v", err)
	}
	for _, in := range interests {
		if in.Weight <= 0 {
			t.Errorf("兴趣权重应为正：%+v", in)
		}
	}
}
