package dsl

import (
	"testing"

	"github.com/wandergram/wanderkit/core"
	"github.com/wandergram/wanderkit/pkg/utils"
)

func newTestItem() *core.Item {
	item := core.NewItem("p-1")
	item.Score = 0.85
	item.PutLabel("recall_source", utils.Label{Value: "recall.collaborative", Source: "recall"})
	item.PutLabel("category", utils.Label{Value: "beach", Source: "feature"})
	return item
}

func TestEvaluate(t *testing.T) {
	rctx := &core.RecommendContext{UserID: "alice", Scene: "feed", Limit: 20}
	e := NewEval(newTestItem(), rctx)

	tests := []struct {
		name string
		expr string
		want bool
	}{
		{"空表达式恒为真", "", true},
		{"标签相等", `label.recall_source == "recall.collaborative"`, true},
		{"标签不等", `label.recall_source == "recall.popularity"`, false},
		{"数值比较", `item.score > 0.7`, true},
		{"数值比较不成立", `item.score > 0.9`, false},
		{"逻辑组合", `label.category == "beach" && item.score > 0.8`, true},
		{"包含判断", `label.recall_source.contains("collab")`, true},
		{"请求上下文", `rctx.scene == "feed"`, true},
		{"物品 ID", `item.id == "p-1"`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Evaluate(tt.expr)
			if err != nil {
				t.Fatalf("Evaluate(%q) error = %v", tt.expr, err)
			}
			if got != tt.want {
				t.Errorf("Evaluate(%q) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluate_Errors(t *testing.T) {
	e := NewEval(newTestItem(), nil)

	// 语法错误
	if _, err := e.Evaluate(`item.score <`); err == nil {
		t.Errorf("语法错误应返回 error")
	}
	// 非布尔结果
	if _, err := e.Evaluate(`item.score`); err == nil {
		t.Errorf("非布尔表达式应返回 error")
	}
	// 访问不存在的标签
	if _, err := e.Evaluate(`label.no_such_key == "x"`); err == nil {
		t.Errorf("不存在的标签 key 应返回 error")
	}
}
