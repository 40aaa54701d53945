package hybrid

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/wandergram/wanderkit/core"
	"github.com/wandergram/wanderkit/snapshot"
)

// 推荐理由文案。
const (
	reasonBoth       = "Matches both your behavior and interests"
	reasonCollab     = "Similar users loved this"
	reasonContent    = "Matches your travel preferences"
	reasonPopularity = "Trending in the community"
)

// RecommendPosts 返回帖子推荐。策略在请求内一次性选定：
//
//	无用户          → ErrUserNotFound
//	互动 ≥3 且两侧都有结果 → hybrid（加权融合）
//	仅协同有结果      → collaborative_only
//	仅内容有结果      → content_only
//	其余（含超时）    → popularity_fallback
func (e *Engine) RecommendPosts(ctx context.Context, userID string, limit int) ([]*core.Recommendation, error) {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.RequestTimeout)
	defer cancel()

	if err := e.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	limit = e.limitOrDefault(limit)

	snap := e.currentSnapshot(ctx)
	if snap == nil {
		return []*core.Recommendation{}, nil
	}

	interactionCount := len(snap.UserInteractions(userID))
	collabEligible := interactionCount >= e.cfg.MinInteractionsForCollaborative

	// 两侧各取 2 倍候选，给融合与重排留余量
	candidateN := limit * 2
	collabItems, contentItems := e.collectPostCandidates(ctx, snap, userID, candidateN, collabEligible)

	var (
		items    []*core.Item
		strategy core.Strategy
	)
	switch {
	case ctx.Err() != nil:
		strategy = core.StrategyPopularityFallback
	case collabEligible && len(collabItems) > 0 && len(contentItems) > 0:
		strategy = core.StrategyHybrid
		items = fuse(collabItems, contentItems, e.cfg.CollabWeight, e.cfg.ContentWeight)
	case len(collabItems) > 0:
		strategy = core.StrategyCollaborativeOnly
		items = rankNormalize(collabItems, subScoreCollab)
	case len(contentItems) > 0:
		strategy = core.StrategyContentOnly
		items = rankNormalize(contentItems, subScoreContent)
	default:
		strategy = core.StrategyPopularityFallback
	}

	if strategy == core.StrategyPopularityFallback {
		// 请求超时时原 ctx 已不可用，兜底计算只读内存快照
		fallbackCtx := context.WithoutCancel(ctx)
		items = e.popularity.RecommendPosts(fallbackCtx, snap, userID, candidateN)
		items = rankNormalize(items, "")
		ctx = fallbackCtx
	}

	items = e.decorate(ctx, snap, userID, items, limit)
	return e.toRecommendations(snap, items, strategy), nil
}

// collectPostCandidates 并发执行两侧召回，单源超时或出错按空列表处理。
func (e *Engine) collectPostCandidates(
	ctx context.Context,
	snap *snapshot.Snapshot,
	userID string,
	n int,
	collabEligible bool,
) (collabItems, contentItems []*core.Item) {
	var eg errgroup.Group

	if collabEligible {
		eg.Go(func() error {
			collabItems = e.collab.RecommendPosts(snap, userID, n)
			return nil
		})
	}
	eg.Go(func() error {
		srcCtx, cancel := context.WithTimeout(ctx, e.cfg.SourceTimeout)
		defer cancel()
		items, err := e.content.RecommendPosts(srcCtx, snap, userID, n)
		if err != nil {
			// 存在性已由 store 校验过；快照滞后当成空结果
			if !core.IsUserNotFound(err) {
				e.log.Warn().Err(err).Str("user_id", userID).Msg("content recall failed")
			}
			return nil
		}
		contentItems = items
		return nil
	})
	_ = eg.Wait()
	return collabItems, contentItems
}

// decorate 给候选挂上帖子元数据并走修饰管道：过滤 → 多样性 → 截断。
// 管道失败时退回简单截断，保证请求总有输出。
func (e *Engine) decorate(ctx context.Context, snap *snapshot.Snapshot, userID string, items []*core.Item, limit int) []*core.Item {
	for _, it := range items {
		if post, ok := snap.Post(it.ID); ok {
			it.Meta["post"] = post
		}
	}

	rctx := &core.RecommendContext{UserID: userID, Scene: "feed", Limit: limit}
	out, err := e.post.Run(ctx, rctx, items)
	if err != nil {
		e.log.Warn().Err(err).Msg("post pipeline failed, truncating raw list")
		if len(items) > limit {
			return items[:limit]
		}
		return items
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// toRecommendations 把管道产物映射为对外的推荐记录。
func (e *Engine) toRecommendations(snap *snapshot.Snapshot, items []*core.Item, strategy core.Strategy) []*core.Recommendation {
	out := make([]*core.Recommendation, 0, len(items))
	for _, it := range items {
		rec := &core.Recommendation{
			PostID:       it.ID,
			Score:        it.Score,
			CollabScore:  it.SubScore(subScoreCollab),
			ContentScore: it.SubScore(subScoreContent),
			Strategy:     strategy,
		}
		if post, ok := snap.Post(it.ID); ok {
			rec.Post = post
		}
		switch {
		case strategy == core.StrategyPopularityFallback:
			rec.Reason = reasonPopularity
		case rec.CollabScore > 0 && rec.ContentScore > 0:
			rec.Reason = reasonBoth
		case rec.CollabScore > 0:
			rec.Reason = reasonCollab
		case rec.ContentScore > 0:
			rec.Reason = reasonContent
		default:
			rec.Reason = reasonPopularity
		}
		out = append(out, rec)
	}
	return out
}
