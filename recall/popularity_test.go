package recall

import (
	"context"
	"testing"

	"github.com/wandergram/wanderkit/store"
)

func TestPopularity_RecommendPosts_CounterOrder(t *testing.T) {
	snap := buildSnap(t)
	p := &Popularity{}

	// dave 零互动：按热度计数全量排序
	items := p.RecommendPosts(context.Background(), snap, "dave", 10)
	if len(items) != 4 {
		t.Fatalf("应返回全部 4 篇帖子，得到 %d", len(items))
	}
	// p-bali 计数最高（like+share+like=3）
	if items[0].ID != "p-bali" {
		t.Errorf("首位 = %s，期望热度最高的 p-bali", items[0].ID)
	}
	for i := 1; i < len(items); i++ {
		prev, cur := items[i-1], items[i]
		if cur.Score > prev.Score {
			t.Fatalf("应按热度降序：%v", items)
		}
		if cur.Score == prev.Score && cur.ID < prev.ID {
			t.Fatalf("同分应按 ID 升序：%v", items)
		}
	}
}

func TestPopularity_RecommendPosts_Exclusion(t *testing.T) {
	snap := buildSnap(t)
	p := &Popularity{}

	items := p.RecommendPosts(context.Background(), snap, "alice", 10)
	for _, it := range items {
		if it.ID == "p-bali" || it.ID == "p-goa" {
			t.Errorf("alice 已互动的 %s 不应出现在兜底候选中", it.ID)
		}
	}
	if len(items) == 0 {
		t.Errorf("排除后仍应有候选")
	}
}

func TestPopularity_HotListBackend(t *testing.T) {
	snap := buildSnap(t)
	ctx := context.Background()

	kv := store.NewMemoryStore()
	defer kv.Close()
	// 离线任务写入的热门榜单与计数顺序相反
	kv.ZAdd(ctx, "hot:posts", 100, "p-rockies")
	kv.ZAdd(ctx, "hot:posts", 50, "p-alps")
	kv.ZAdd(ctx, "hot:posts", 10, "p-bali")

	p := &Popularity{HotStore: kv}
	items := p.RecommendPosts(ctx, snap, "dave", 10)
	if len(items) == 0 {
		t.Fatalf("热门榜单应有输出")
	}
	if items[0].ID != "p-rockies" {
		t.Errorf("首位 = %s，配置榜单后应以榜单为准（p-rockies）", items[0].ID)
	}
	if items[0].Score != 100 {
		t.Errorf("榜单分数 = %v，期望 100", items[0].Score)
	}
}

func TestPopularity_HotListFallsBackToCounters(t *testing.T) {
	snap := buildSnap(t)
	kv := store.NewMemoryStore()
	defer kv.Close()

	// 榜单为空：回退到快照计数
	p := &Popularity{HotStore: kv}
	items := p.RecommendPosts(context.Background(), snap, "dave", 10)
	if len(items) == 0 || items[0].ID != "p-bali" {
		t.Errorf("榜单为空应回退到计数排序，得到 %v", items)
	}
}

func TestPopularity_PopularUsers(t *testing.T) {
	snap := buildSnap(t)
	p := &Popularity{}

	items := p.PopularUsers(snap, "dave", 10)
	if len(items) == 0 {
		t.Fatalf("应有热门账号")
	}
	// eva 粉丝最多（alice、bob 关注）
	if items[0].ID != "eva" {
		t.Errorf("首位 = %s，期望粉丝最多的 eva", items[0].ID)
	}
	for _, it := range items {
		if it.ID == "dave" {
			t.Errorf("不应推荐用户本人")
		}
	}

	// 已关注的账号应被排除
	for _, it := range p.PopularUsers(snap, "alice", 10) {
		if it.ID == "eva" {
			t.Errorf("alice 已关注 eva，不应再推荐")
		}
	}
}

func TestPopularity_PopularDestinations(t *testing.T) {
	snap := buildSnap(t)
	p := &Popularity{}

	dests := p.PopularDestinations(snap, 10)
	if len(dests) != 4 {
		t.Fatalf("应返回 4 个地点，得到 %d", len(dests))
	}
	for i := 1; i < len(dests); i++ {
		if dests[i].Score > dests[i-1].Score {
			t.Fatalf("应按热度降序")
		}
	}
	if n := 2; len(p.PopularDestinations(snap, n)) != n {
		t.Errorf("应截断到 %d 条", n)
	}
}
