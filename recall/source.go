// Package recall 提供候选生成：协同过滤、内容相似、热门兜底三个召回源，
// 以及把它们并发执行的收集器。召回源都是快照的纯读者。
package recall

import (
	"context"

	"github.com/wandergram/wanderkit/core"
	"github.com/wandergram/wanderkit/snapshot"
)

// Source 表示一个可复用的召回源（CF/内容/热门/...）。
// 可以把它理解为「可并发 fan-out 的策略单元」。
type Source interface {
	Name() string
	Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error)
}

// SnapshotProvider 为召回源提供当前快照。*snapshot.Cache 即实现。
type SnapshotProvider interface {
	Get(ctx context.Context) (*snapshot.Snapshot, error)
}
