package rerank

import (
	"context"

	"github.com/wandergram/wanderkit/core"
	"github.com/wandergram/wanderkit/pipeline"
)

// TopNNode 是 Top-N 截断节点，在排序/重排之后截取前 N 个物品。
type TopNNode struct {
	// N 要保留的物品数量；<=0 时取 rctx.Limit；都没有则不截断。
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(
	_ context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	limit := n.N
	if limit <= 0 && rctx != nil {
		limit = rctx.Limit
	}
	if limit <= 0 || len(items) <= limit {
		return items, nil
	}
	return items[:limit], nil
}
