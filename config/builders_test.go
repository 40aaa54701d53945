package config

import (
	"context"
	"testing"

	"github.com/wandergram/wanderkit/core"
	"github.com/wandergram/wanderkit/filter"
	"github.com/wandergram/wanderkit/pipeline"
	"github.com/wandergram/wanderkit/rerank"
)

const sampleYAML = `
pipeline:
  name: feed-post
  nodes:
    - type: filter
      config:
        rules:
          - 'item.score < 0.1'
    - type: rerank.diversity
      config:
        limit: 10
    - type: rerank.topn
      config:
        n: 5
`

func TestBuildPipelineFromYAML(t *testing.T) {
	cfg, err := pipeline.ParseYAML([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}
	if cfg.Pipeline.Name != "feed-post" {
		t.Errorf("名称 = %s，期望 feed-post", cfg.Pipeline.Name)
	}
	if err := ValidatePipelineConfig(cfg); err != nil {
		t.Fatalf("ValidatePipelineConfig() error = %v", err)
	}

	p, err := cfg.BuildPipeline(DefaultFactory())
	if err != nil {
		t.Fatalf("BuildPipeline() error = %v", err)
	}
	if len(p.Nodes) != 3 {
		t.Fatalf("应构建 3 个 Node，得到 %d", len(p.Nodes))
	}

	fn, ok := p.Nodes[0].(*filter.FilterNode)
	if !ok || len(fn.Filters) != 1 {
		t.Errorf("第 1 个 Node 应是带 1 条规则的 FilterNode")
	}
	dv, ok := p.Nodes[1].(*rerank.Diversity)
	if !ok || dv.Limit != 10 {
		t.Errorf("第 2 个 Node 应是 Limit=10 的 Diversity")
	}
	tn, ok := p.Nodes[2].(*rerank.TopNNode)
	if !ok || tn.N != 5 {
		t.Errorf("第 3 个 Node 应是 N=5 的 TopNNode")
	}
}

func TestBuiltPipelineRuns(t *testing.T) {
	cfg, err := pipeline.ParseYAML([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("ParseYAML() error = %v", err)
	}
	p, err := cfg.BuildPipeline(DefaultFactory())
	if err != nil {
		t.Fatalf("BuildPipeline() error = %v", err)
	}

	items := make([]*core.Item, 0, 8)
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		it := core.NewItem(id)
		it.Score = 0.5
		items = append(items, it)
	}
	low := core.NewItem("z")
	low.Score = 0.01
	items = append(items, low)

	out, err := p.Run(context.Background(), &core.RecommendContext{UserID: "alice", Limit: 5}, items)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(out) != 5 {
		t.Errorf("管道产出 = %d 条，期望截断到 5", len(out))
	}
	for _, it := range out {
		if it.ID == "z" {
			t.Errorf("低分物品应被规则过滤")
		}
	}
}

func TestValidatePipelineConfig_Unknown(t *testing.T) {
	cfg := &pipeline.Config{}
	cfg.Pipeline.Nodes = []pipeline.NodeConfig{{Type: "no.such.node"}}
	if err := ValidatePipelineConfig(cfg); err == nil {
		t.Errorf("未注册的类型应校验失败")
	}
}

func TestSupportedTypes(t *testing.T) {
	types := SupportedTypes()
	want := map[string]bool{"filter": false, "rerank.diversity": false, "rerank.topn": false}
	for _, typ := range types {
		if _, ok := want[typ]; ok {
			want[typ] = true
		}
	}
	for typ, seen := range want {
		if !seen {
			t.Errorf("内置类型 %s 未注册", typ)
		}
	}
}
