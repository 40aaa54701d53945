// Package rerank 提供融合后的列表修饰节点：多样性重排与 Top-N 截断。
package rerank

import (
	"context"
	"time"

	"github.com/wandergram/wanderkit/core"
	"github.com/wandergram/wanderkit/pipeline"
	"github.com/wandergram/wanderkit/snapshot"
)

// SnapshotProvider 为重排节点提供当前快照。*snapshot.Cache 即实现。
type SnapshotProvider interface {
	Get(ctx context.Context) (*snapshot.Snapshot, error)
}

// Diversity 是多样性重排节点：贪心逐个选取「加成 + 原始分」最高的候选，
// 只重排不增删（截断除外），不改写 Score。
//
// 加成规则：
//   - 作者首次出现 +3；已出现但选中作者数 <3 时 +1
//   - 地点首次出现 +2
//   - 该媒体类型数量未达 limit/2 时 +1
//   - 发布 1~7 天 +2；30 天内 +1
//
// 同分按帖子 ID 升序，结果完全确定。
type Diversity struct {
	Snapshots SnapshotProvider

	// Limit 截断条数；<=0 时取 rctx.Limit。
	Limit int

	// Now 便于测试注入时钟，空时取 time.Now。
	Now func() time.Time
}

func (n *Diversity) Name() string {
	return "rerank.diversity"
}

func (n *Diversity) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *Diversity) now() time.Time {
	if n.Now != nil {
		return n.Now()
	}
	return time.Now()
}

// resolvePost 优先从 item.Meta 取已解析的帖子，取不到再查快照。
func (n *Diversity) resolvePost(ctx context.Context, it *core.Item) *core.Post {
	if v, ok := it.Meta["post"]; ok {
		if post, ok := v.(*core.Post); ok {
			return post
		}
	}
	if n.Snapshots == nil {
		return nil
	}
	snap, err := n.Snapshots.Get(ctx)
	if err != nil {
		return nil
	}
	if post, ok := snap.Post(it.ID); ok {
		return post
	}
	return nil
}

func (n *Diversity) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	if len(items) == 0 {
		return items, nil
	}

	limit := n.Limit
	if limit <= 0 && rctx != nil {
		limit = rctx.Limit
	}
	if limit <= 0 || limit > len(items) {
		limit = len(items)
	}

	posts := make(map[string]*core.Post, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		posts[it.ID] = n.resolvePost(ctx, it)
	}

	now := n.now()
	seenAuthors := make(map[string]struct{})
	seenLocations := make(map[string]struct{})
	mediaCounts := make(map[string]int)
	mediaLimit := limit / 2
	if mediaLimit < 1 {
		mediaLimit = 1
	}

	bonus := func(it *core.Item) float64 {
		post := posts[it.ID]
		if post == nil {
			return 0
		}
		var b float64
		if post.AuthorID != "" {
			if _, ok := seenAuthors[post.AuthorID]; !ok {
				b += 3
			} else if len(seenAuthors) < 3 {
				b += 1
			}
		}
		if post.Location != nil && post.Location.Name != "" {
			if _, ok := seenLocations[post.Location.Name]; !ok {
				b += 2
			}
		}
		if post.MediaType != "" && mediaCounts[post.MediaType] < mediaLimit {
			b += 1
		}
		if !post.CreatedAt.IsZero() {
			days := now.Sub(post.CreatedAt).Hours() / 24
			if days >= 1 && days <= 7 {
				b += 2
			} else if days >= 0 && days <= 30 {
				b += 1
			}
		}
		return b
	}

	remaining := make([]*core.Item, 0, len(items))
	for _, it := range items {
		if it != nil {
			remaining = append(remaining, it)
		}
	}

	out := make([]*core.Item, 0, limit)
	for len(out) < limit && len(remaining) > 0 {
		bestIdx := -1
		var bestKey float64
		for i, it := range remaining {
			key := it.Score + bonus(it)
			if bestIdx < 0 || key > bestKey ||
				(key == bestKey && it.ID < remaining[bestIdx].ID) {
				bestIdx = i
				bestKey = key
			}
		}

		picked := remaining[bestIdx]
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
		out = append(out, picked)

		if post := posts[picked.ID]; post != nil {
			if post.AuthorID != "" {
				seenAuthors[post.AuthorID] = struct{}{}
			}
			if post.Location != nil && post.Location.Name != "" {
				seenLocations[post.Location.Name] = struct{}{}
			}
			if post.MediaType != "" {
				mediaCounts[post.MediaType]++
			}
		}
	}

	return out, nil
}
