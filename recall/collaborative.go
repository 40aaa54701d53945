package recall

import (
	"context"
	"sort"
	"time"

	"github.com/wandergram/wanderkit/core"
	"github.com/wandergram/wanderkit/pkg/utils"
	"github.com/wandergram/wanderkit/snapshot"
)

// Collaborative 是协同过滤召回源：基于用户-帖子互动矩阵的余弦相似度，
// 把相似用户互动过的帖子推荐给目标用户。
//
// 冷用户（无互动或无正相似邻居）返回空列表、nil error，这是正常分支，
// 由混合引擎的策略选择兜底。
type Collaborative struct {
	Snapshots SnapshotProvider

	// TopKUsers 实际参与打分的邻居数，默认 10。
	TopKUsers int

	// PoolSize 备选邻居池大小，默认 20。配合 RotationBuckets 在池内轮换，
	// 给重度用户带来会话间的多样性。
	PoolSize int

	// RotationBuckets >0 时启用确定性轮换：按小时桶在邻居池内偏移起点。
	// 同一小时内结果完全一致，绝不引入随机数。
	RotationBuckets int

	// Now 便于测试注入时钟，空时取 time.Now。
	Now func() time.Time
}

func (s *Collaborative) Name() string { return "recall.collaborative" }

func (s *Collaborative) topK() int {
	if s.TopKUsers > 0 {
		return s.TopKUsers
	}
	return 10
}

func (s *Collaborative) poolSize() int {
	if s.PoolSize > 0 {
		return s.PoolSize
	}
	return 20
}

func (s *Collaborative) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Recall 实现 Source 接口：返回带原始协同分数的候选集。
func (s *Collaborative) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	snap, err := s.Snapshots.Get(ctx)
	if err != nil {
		return nil, err
	}
	limit := rctx.Limit
	if limit <= 0 {
		limit = 20
	}
	return s.RecommendPosts(snap, rctx.UserID, limit), nil
}

// FindSimilarUsers 返回目标用户的前 k 个相似邻居：排除自身、相似度>0、
// 降序排列，同分按用户 ID 升序。
func (s *Collaborative) FindSimilarUsers(snap *snapshot.Snapshot, userID string, k int) []snapshot.UserSimilarity {
	neighbors := snap.SimilarUsers(userID)
	if k > 0 && len(neighbors) > k {
		neighbors = neighbors[:k]
	}
	return neighbors
}

// pickNeighbors 从邻居池内取 TopK。启用轮换时按小时桶偏移起点，
// 偏移量是池长的确定性函数。
func (s *Collaborative) pickNeighbors(snap *snapshot.Snapshot, userID string) []snapshot.UserSimilarity {
	pool := s.FindSimilarUsers(snap, userID, s.poolSize())
	k := s.topK()
	if len(pool) <= k {
		return pool
	}
	if s.RotationBuckets <= 0 {
		return pool[:k]
	}

	bucket := s.now().Hour() % s.RotationBuckets
	offset := bucket % len(pool)
	picked := make([]snapshot.UserSimilarity, 0, k)
	for i := 0; i < k; i++ {
		picked = append(picked, pool[(offset+i)%len(pool)])
	}
	return picked
}

// RecommendPosts 返回协同过滤的帖子候选：相似邻居互动过、目标用户未
// 互动且非其本人发布的帖子，分数 = 邻居互动次数 × 邻居行为平均权重。
// 降序排列，同分按帖子 ID 升序，截断到 n。
func (s *Collaborative) RecommendPosts(snap *snapshot.Snapshot, userID string, n int) []*core.Item {
	row := snap.UserRow(userID)
	if len(row) == 0 {
		return nil
	}
	neighbors := s.pickNeighbors(snap, userID)
	if len(neighbors) == 0 {
		return nil
	}

	authored := snap.AuthoredPosts(userID)
	type agg struct {
		count     int
		weightSum float64
	}
	scores := make(map[string]*agg)

	for _, nb := range neighbors {
		for _, it := range snap.UserInteractions(nb.UserID) {
			if _, interacted := row[it.PostID]; interacted {
				continue
			}
			if _, own := authored[it.PostID]; own {
				continue
			}
			a, ok := scores[it.PostID]
			if !ok {
				a = &agg{}
				scores[it.PostID] = a
			}
			a.count++
			a.weightSum += it.WeightedValue()
		}
	}
	if len(scores) == 0 {
		return nil
	}

	items := make([]*core.Item, 0, len(scores))
	for postID, a := range scores {
		it := core.NewItem(postID)
		// 互动次数 × 平均行为权重（即加权互动总量）
		it.Score = float64(a.count) * (a.weightSum / float64(a.count))
		it.PutSubScore("collab_raw", it.Score)
		items = append(items, it)
	}
	sortItems(items)
	if n > 0 && len(items) > n {
		items = items[:n]
	}
	return items
}

// RecommendUsers 返回「可关注账号」候选：相似邻居关注、目标用户尚未
// 关注且非其本人的账号，按被多少个邻居关注排序。
func (s *Collaborative) RecommendUsers(snap *snapshot.Snapshot, userID string, n int) []*core.Item {
	neighbors := s.pickNeighbors(snap, userID)
	if len(neighbors) == 0 {
		return nil
	}
	following := snap.Following(userID)

	counts := make(map[string]int)
	for _, nb := range neighbors {
		for candidate := range snap.Following(nb.UserID) {
			if candidate == userID {
				continue
			}
			if _, already := following[candidate]; already {
				continue
			}
			counts[candidate]++
		}
	}
	if len(counts) == 0 {
		return nil
	}

	items := make([]*core.Item, 0, len(counts))
	for id, c := range counts {
		it := core.NewItem(id)
		it.Score = float64(c)
		it.PutLabel("followed_by_similar", utils.Label{Value: "true", Source: "recall"})
		items = append(items, it)
	}
	sortItems(items)
	if n > 0 && len(items) > n {
		items = items[:n]
	}
	return items
}

// sortItems 统一的确定性排序：分数降序，同分按 ID 升序。
func sortItems(items []*core.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ID < items[j].ID
	})
}
