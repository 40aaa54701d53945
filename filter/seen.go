package filter

import (
	"context"

	"github.com/wandergram/wanderkit/core"
	"github.com/wandergram/wanderkit/snapshot"
)

// SeenFilter 剔除用户已经互动过或本人发布的帖子。
// 召回源各自也做排除，这一层是管道末端的最终保障：
// 无论候选从哪条路径进来，都不会把用户自己的内容推回给他们。
type SeenFilter struct {
	Snapshots SnapshotProvider
}

// SnapshotProvider 为过滤器提供当前快照。*snapshot.Cache 即实现。
type SnapshotProvider interface {
	Get(ctx context.Context) (*snapshot.Snapshot, error)
}

func (f *SeenFilter) Name() string {
	return "filter.seen"
}

func (f *SeenFilter) ShouldFilter(
	ctx context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if item == nil {
		return true, nil
	}
	if rctx == nil || rctx.UserID == "" {
		return false, nil
	}
	snap, err := f.Snapshots.Get(ctx)
	if err != nil {
		return false, err
	}
	if _, interacted := snap.UserRow(rctx.UserID)[item.ID]; interacted {
		return true, nil
	}
	if _, own := snap.AuthoredPosts(rctx.UserID)[item.ID]; own {
		return true, nil
	}
	return false, nil
}
