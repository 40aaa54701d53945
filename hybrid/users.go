package hybrid

import (
	"context"
	"math"
	"sort"

	"github.com/wandergram/wanderkit/core"
	"github.com/wandergram/wanderkit/snapshot"
)

// 账号推荐理由文案。
const (
	reasonUserCollab  = "Followed by travelers like you"
	reasonUserContent = "Posts match your interests"
	reasonUserPopular = "Popular traveler"
)

// RecommendUsers 返回「可关注账号」推荐：
// 协同侧（相似用户关注的账号）按配置占比优先，内容侧（发帖内容贴近
// 用户偏好的作者）去重后补足，仍不够时用热门账号兜底。
func (e *Engine) RecommendUsers(ctx context.Context, userID string, limit int) ([]*core.UserRecommendation, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.RequestTimeout)
	defer cancel()

	if err := e.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	limit = e.limitOrDefault(limit)

	snap := e.currentSnapshot(ctx)
	if snap == nil {
		return []*core.UserRecommendation{}, nil
	}

	collabItems := e.collab.RecommendUsers(snap, userID, limit)
	contentItems := e.contentAuthors(ctx, snap, userID, limit)

	collabShare := int(math.Ceil(float64(limit) * e.cfg.UserMergeCollabRatio))
	if collabShare > limit {
		collabShare = limit
	}

	picked := make([]*core.UserRecommendation, 0, limit)
	seen := map[string]struct{}{userID: {}}

	strategy := core.StrategyHybrid
	if len(collabItems) == 0 && len(contentItems) == 0 {
		strategy = core.StrategyPopularityFallback
	} else if len(collabItems) == 0 {
		strategy = core.StrategyContentOnly
	} else if len(contentItems) == 0 {
		strategy = core.StrategyCollaborativeOnly
	}

	take := func(items []*core.Item, max int, reason string) {
		for _, it := range items {
			if len(picked) >= limit || max <= 0 {
				return
			}
			if _, dup := seen[it.ID]; dup {
				continue
			}
			seen[it.ID] = struct{}{}
			picked = append(picked, e.toUserRecommendation(snap, it, strategy, reason))
			max--
		}
	}

	take(collabItems, collabShare, reasonUserCollab)
	take(contentItems, limit-len(picked), reasonUserContent)
	// 协同侧剩余候选继续补位
	take(collabItems, limit-len(picked), reasonUserCollab)

	if len(picked) < limit {
		popular := e.popularity.PopularUsers(snap, userID, limit*2)
		reason := reasonUserPopular
		fallbackStrategy := strategy
		if len(picked) == 0 {
			fallbackStrategy = core.StrategyPopularityFallback
		}
		for _, it := range popular {
			if len(picked) >= limit {
				break
			}
			if _, dup := seen[it.ID]; dup {
				continue
			}
			seen[it.ID] = struct{}{}
			picked = append(picked, e.toUserRecommendation(snap, it, fallbackStrategy, reason))
		}
	}

	return picked, nil
}

// contentAuthors 从内容相似候选聚合作者：帖子分数按作者求和，
// 排除自己与已关注账号。
func (e *Engine) contentAuthors(ctx context.Context, snap *snapshot.Snapshot, userID string, n int) []*core.Item {
	posts, err := e.content.RecommendPosts(ctx, snap, userID, n*3)
	if err != nil || len(posts) == 0 {
		return nil
	}
	following := snap.Following(userID)

	scores := make(map[string]float64)
	for _, it := range posts {
		post, ok := snap.Post(it.ID)
		if !ok || post.AuthorID == "" || post.AuthorID == userID {
			continue
		}
		if _, already := following[post.AuthorID]; already {
			continue
		}
		scores[post.AuthorID] += it.Score
	}
	if len(scores) == 0 {
		return nil
	}

	items := make([]*core.Item, 0, len(scores))
	for id, score := range scores {
		it := core.NewItem(id)
		it.Score = score
		items = append(items, it)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].ID < items[j].ID
	})
	if len(items) > n {
		items = items[:n]
	}
	return items
}

func (e *Engine) toUserRecommendation(snap *snapshot.Snapshot, it *core.Item, strategy core.Strategy, reason string) *core.UserRecommendation {
	rec := &core.UserRecommendation{
		UserID:        it.ID,
		Score:         it.Score,
		Strategy:      strategy,
		Reason:        reason,
		FollowerCount: snap.FollowerCount(it.ID),
		PostCount:     len(snap.AuthoredPosts(it.ID)),
	}
	if u, ok := snap.User(it.ID); ok {
		rec.User = u
	}
	return rec
}
