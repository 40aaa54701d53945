package core

import "github.com/wandergram/wanderkit/pkg/utils"

// RecommendContext 承载一次请求的用户与场景信息，贯穿召回、过滤、重排全程透传。
type RecommendContext struct {
	UserID string
	Scene  string // feed / follow_suggest / destination

	// Limit 是调用方要求的返回条数，重排截断节点读取。
	Limit int

	// Labels 是用户级标签，可驱动过滤与重排行为（如新用户、重度用户）。
	Labels map[string]utils.Label

	// Params 请求级上下文参数（time_bucket、latitude 等）。
	Params map[string]any
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
