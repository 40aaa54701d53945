package recall

import (
	"context"
	"math"
	"sort"

	"github.com/wandergram/wanderkit/core"
	"github.com/wandergram/wanderkit/snapshot"
)

// Popularity 是兜底召回源：按帖子的原始互动计数排序。
// 对任何用户都有输出（只要存在帖子），是策略状态机的最后一级。
//
// 配置了 HotStore 时优先读有序集合里的热门榜单（由离线任务维护），
// 读不到或为空再回退到快照内的互动计数。
type Popularity struct {
	Snapshots SnapshotProvider

	// HotStore 可选的热门榜单后端。
	HotStore core.KeyValueStore

	// HotKey 有序集合的 key，默认 "hot:posts"。
	HotKey string
}

func (s *Popularity) Name() string { return "recall.popularity" }

func (s *Popularity) hotKey() string {
	if s.HotKey != "" {
		return s.HotKey
	}
	return "hot:posts"
}

// Recall 实现 Source 接口。
func (s *Popularity) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	snap, err := s.Snapshots.Get(ctx)
	if err != nil {
		return nil, err
	}
	limit := rctx.Limit
	if limit <= 0 {
		limit = 20
	}
	return s.RecommendPosts(ctx, snap, rctx.UserID, limit), nil
}

// RecommendPosts 返回热门帖子，排除用户已互动和本人发布的。
// userID 为空（匿名请求）时不做排除。
func (s *Popularity) RecommendPosts(ctx context.Context, snap *snapshot.Snapshot, userID string, n int) []*core.Item {
	var row map[string]float64
	var authored map[string]struct{}
	if userID != "" {
		row = snap.UserRow(userID)
		authored = snap.AuthoredPosts(userID)
	}
	excluded := func(postID string) bool {
		if _, ok := row[postID]; ok {
			return true
		}
		if _, ok := authored[postID]; ok {
			return true
		}
		return false
	}

	if items := s.fromHotList(ctx, snap, excluded, n); len(items) > 0 {
		return items
	}

	items := make([]*core.Item, 0, len(snap.Posts()))
	for _, post := range snap.Posts() {
		if excluded(post.ID) {
			continue
		}
		it := core.NewItem(post.ID)
		it.Score = post.EngagementScore()
		items = append(items, it)
	}
	sortItems(items)
	if n > 0 && len(items) > n {
		items = items[:n]
	}
	return items
}

// fromHotList 读 KV 热门榜单。后端未配置、出错或为空都返回 nil，
// 调用方回退到快照计数。
func (s *Popularity) fromHotList(ctx context.Context, snap *snapshot.Snapshot, excluded func(string) bool, n int) []*core.Item {
	if s.HotStore == nil {
		return nil
	}
	// 多取一截，排除后仍能填满 n
	members, err := s.HotStore.ZRange(ctx, s.hotKey(), 0, int64(n*3))
	if err != nil || len(members) == 0 {
		return nil
	}
	items := make([]*core.Item, 0, n)
	for _, postID := range members {
		if excluded(postID) {
			continue
		}
		if _, ok := snap.Post(postID); !ok {
			continue
		}
		it := core.NewItem(postID)
		if score, err := s.HotStore.ZScore(ctx, s.hotKey(), postID); err == nil {
			it.Score = score
		}
		items = append(items, it)
		if n > 0 && len(items) >= n {
			break
		}
	}
	return items
}

// PopularUsers 返回热门账号：粉丝数降序，其次发帖数，排除自己和已关注。
func (s *Popularity) PopularUsers(snap *snapshot.Snapshot, userID string, n int) []*core.Item {
	following := snap.Following(userID)

	type cand struct {
		id        string
		followers int
		posts     int
	}
	cands := make([]cand, 0, len(snap.Users()))
	for id := range snap.Users() {
		if id == userID {
			continue
		}
		if _, already := following[id]; already {
			continue
		}
		cands = append(cands, cand{
			id:        id,
			followers: snap.FollowerCount(id),
			posts:     len(snap.AuthoredPosts(id)),
		})
	}
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].followers != cands[j].followers {
			return cands[i].followers > cands[j].followers
		}
		if cands[i].posts != cands[j].posts {
			return cands[i].posts > cands[j].posts
		}
		return cands[i].id < cands[j].id
	})
	if n > 0 && len(cands) > n {
		cands = cands[:n]
	}

	items := make([]*core.Item, 0, len(cands))
	for _, c := range cands {
		it := core.NewItem(c.id)
		it.Score = float64(c.followers)
		it.Meta["follower_count"] = c.followers
		it.Meta["post_count"] = c.posts
		items = append(items, it)
	}
	return items
}

// PopularDestinations 返回热门目的地：按地点聚合帖子数与互动热度。
func (s *Popularity) PopularDestinations(snap *snapshot.Snapshot, n int) []*core.DestinationRecommendation {
	type destAgg struct {
		loc        core.Location
		count      int
		engagement float64
	}
	dests := make(map[string]*destAgg)
	for _, post := range snap.Posts() {
		if post.Location == nil || post.Location.Name == "" {
			continue
		}
		d, ok := dests[post.Location.Name]
		if !ok {
			d = &destAgg{loc: *post.Location}
			dests[post.Location.Name] = d
		}
		d.count++
		d.engagement += post.EngagementScore()
	}

	out := make([]*core.DestinationRecommendation, 0, len(dests))
	for _, d := range dests {
		out = append(out, &core.DestinationRecommendation{
			Location:  d.loc,
			Score:     float64(d.count) + math.Log1p(d.engagement),
			Strategy:  core.StrategyPopularityFallback,
			Reasons:   []string{"Trending destination"},
			PostCount: d.count,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Location.Name < out[j].Location.Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
