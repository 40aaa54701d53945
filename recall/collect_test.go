package recall

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wandergram/wanderkit/core"
)

type stubSource struct {
	name  string
	items []*core.Item
	err   error
	delay time.Duration
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	if s.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.delay):
		}
	}
	return s.items, s.err
}

func TestCollect(t *testing.T) {
	ok := &stubSource{name: "src.a", items: []*core.Item{core.NewItem("p-1"), core.NewItem("p-2")}}
	bad := &stubSource{name: "src.b", err: errors.New("backend down")}

	results := Collect(context.Background(), &core.RecommendContext{UserID: "alice"}, 0, ok, bad)
	if len(results) != 2 {
		t.Fatalf("应返回每个源各一个结果，得到 %d", len(results))
	}

	// 按传入顺序返回
	if results[0].Source != "src.a" || results[1].Source != "src.b" {
		t.Errorf("结果顺序不对：%v, %v", results[0].Source, results[1].Source)
	}
	if results[0].Err != nil || len(results[0].Items) != 2 {
		t.Errorf("正常源应返回完整候选：%+v", results[0])
	}
	// 单源出错不影响其余源
	if results[1].Err == nil {
		t.Errorf("出错的源应记录 Err")
	}

	// 候选应带召回来源 label
	lb, found := results[0].Items[0].GetLabel("recall_source")
	if !found || lb.Value != "src.a" {
		t.Errorf("候选应带 recall_source 标签，得到 %+v", lb)
	}
}

func TestCollect_Timeout(t *testing.T) {
	slow := &stubSource{name: "src.slow", delay: 200 * time.Millisecond}
	fast := &stubSource{name: "src.fast", items: []*core.Item{core.NewItem("p-1")}}

	results := Collect(context.Background(), &core.RecommendContext{UserID: "alice"}, 20*time.Millisecond, slow, fast)
	if results[0].Err == nil {
		t.Errorf("超时的源应记录 Err")
	}
	if results[1].Err != nil || len(results[1].Items) != 1 {
		t.Errorf("快源不应受慢源超时影响：%+v", results[1])
	}
}
