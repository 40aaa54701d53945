package config

import (
	"time"

	"github.com/wandergram/wanderkit/filter"
	"github.com/wandergram/wanderkit/pipeline"
	"github.com/wandergram/wanderkit/pkg/conv"
	"github.com/wandergram/wanderkit/rerank"
)

// 内置 Node 的注册。召回源依赖快照等运行时对象，由引擎代码装配；
// 这里只注册纯配置即可构建的修饰节点。
func init() {
	Register("filter", buildFilterNode)
	Register("rerank.diversity", buildDiversityNode)
	Register("rerank.topn", buildTopNNode)
}

// buildFilterNode 构建过滤节点。配置示例：
//
//	type: filter
//	config:
//	  rules:
//	    - 'label.recall_source == "recall.popularity"'
func buildFilterNode(config map[string]interface{}) (pipeline.Node, error) {
	node := &filter.FilterNode{}
	if rules := conv.SliceAnyToString(config["rules"]); len(rules) > 0 {
		for _, expr := range rules {
			node.Filters = append(node.Filters, &filter.RuleFilter{Expr: expr})
		}
	}
	return node, nil
}

// buildDiversityNode 构建多样性重排节点。配置示例：
//
//	type: rerank.diversity
//	config:
//	  limit: 20
func buildDiversityNode(config map[string]interface{}) (pipeline.Node, error) {
	return &rerank.Diversity{
		Limit: conv.ConfigGetInt(config, "limit", 0),
		Now:   time.Now,
	}, nil
}

// buildTopNNode 构建 Top-N 截断节点。
func buildTopNNode(config map[string]interface{}) (pipeline.Node, error) {
	return &rerank.TopNNode{
		N: conv.ConfigGetInt(config, "n", 0),
	}, nil
}
