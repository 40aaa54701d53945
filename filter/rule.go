package filter

import (
	"context"

	"github.com/wandergram/wanderkit/core"
	"github.com/wandergram/wanderkit/pkg/dsl"
)

// RuleFilter 是基于 Label DSL（CEL 表达式）的规则过滤器。
// 表达式求值为 true 的物品被过滤掉，例如：
//   - `label.recall_source == "recall.popularity"` 剔除纯兜底候选
//   - `item.score < 0.1` 剔除低分候选
//
// 表达式出错时保留物品（规则失效不应清空推荐结果）。
type RuleFilter struct {
	// Expr CEL 表达式，空表达式不过滤任何物品。
	Expr string
}

func (f *RuleFilter) Name() string {
	return "filter.rule"
}

func (f *RuleFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	if f.Expr == "" || item == nil {
		return false, nil
	}
	matched, err := dsl.NewEval(item, rctx).Evaluate(f.Expr)
	if err != nil {
		return false, nil
	}
	return matched, nil
}
