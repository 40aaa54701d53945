package hybrid

import (
	"context"
	"math"
	"sort"

	"github.com/wandergram/wanderkit/core"
	"github.com/wandergram/wanderkit/snapshot"
)

const reasonDestCollab = "Popular among travelers like you"

// RecommendDestinations 返回目的地推荐：内容侧打底（偏好匹配的未访问
// 地点），再用相似用户的足迹做协同加成；冷用户退化为热门目的地。
func (e *Engine) RecommendDestinations(ctx context.Context, userID string, limit int) ([]*core.DestinationRecommendation, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.RequestTimeout)
	defer cancel()

	if err := e.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	limit = e.limitOrDefault(limit)

	snap := e.currentSnapshot(ctx)
	if snap == nil {
		return []*core.DestinationRecommendation{}, nil
	}

	dests, err := e.content.RecommendDestinations(ctx, snap, userID, limit*2)
	if err != nil && !core.IsUserNotFound(err) {
		e.log.Warn().Err(err).Str("user_id", userID).Msg("destination recall failed")
	}
	if len(dests) == 0 {
		return e.popularity.PopularDestinations(snap, limit), nil
	}

	e.boostDestinations(snap, userID, dests)
	if len(dests) > limit {
		dests = dests[:limit]
	}
	return dests, nil
}

// boostDestinations 统计相似用户在各地点上的互动次数，
// 加成 = min(次数/10, 上限)，有加成的条目升级为 hybrid 策略。
func (e *Engine) boostDestinations(snap *snapshot.Snapshot, userID string, dests []*core.DestinationRecommendation) {
	neighbors := e.collab.FindSimilarUsers(snap, userID, 0)
	if len(neighbors) == 0 {
		return
	}

	counts := make(map[string]int)
	for _, nb := range neighbors {
		for _, it := range snap.UserInteractions(nb.UserID) {
			post, ok := snap.Post(it.PostID)
			if !ok || post.Location == nil || post.Location.Name == "" {
				continue
			}
			counts[post.Location.Name]++
		}
	}

	for _, d := range dests {
		c := counts[d.Location.Name]
		if c == 0 {
			continue
		}
		boost := math.Min(float64(c)/10, e.cfg.DestinationBoostCap)
		d.CollaborativeBoost = boost
		d.Score += boost
		d.Strategy = core.StrategyHybrid
		d.Reasons = append(d.Reasons, reasonDestCollab)
	}

	// 加成可能改变顺序，重排一次
	sort.SliceStable(dests, func(i, j int) bool {
		if dests[i].Score != dests[j].Score {
			return dests[i].Score > dests[j].Score
		}
		return dests[i].Location.Name < dests[j].Location.Name
	})
}
