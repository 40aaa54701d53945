package pipeline

import (
	"context"

	"github.com/wandergram/wanderkit/core"
)

// Pipeline 把推荐后处理逻辑拆成可组合的 Node 链：过滤 → 多样性重排 → 截断。
// 混合引擎在融合完成后用它修饰最终列表。
type Pipeline struct {
	Nodes []Node
}

func (p *Pipeline) Run(
	ctx context.Context,
	rctx *core.RecommendContext,
	items []*core.Item,
) ([]*core.Item, error) {
	cur := items
	for _, node := range p.Nodes {
		next, err := node.Process(ctx, rctx, cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}
