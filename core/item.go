package core

import "github.com/wandergram/wanderkit/pkg/utils"

// Item 是推荐链路中的统一承载结构：分数、子分数、元信息、标签。
// Labels 用于解释与策略驱动；Score 用于排序决策；SubScores 保留各召回源的
// 原始贡献（例如 "collab" / "content" 的 rank 分数），供融合与解释使用。
type Item struct {
	ID        string
	Score     float64
	SubScores map[string]float64
	Meta      map[string]any
	Labels    map[string]utils.Label
}

func NewItem(id string) *Item {
	return &Item{
		ID:        id,
		Score:     0,
		SubScores: make(map[string]float64),
		Meta:      make(map[string]any),
		Labels:    make(map[string]utils.Label),
	}
}

// PutSubScore 记录某个来源的子分数；同名来源累加。
func (it *Item) PutSubScore(source string, score float64) {
	if it.SubScores == nil {
		it.SubScores = make(map[string]float64)
	}
	it.SubScores[source] += score
}

// SubScore 读取某个来源的子分数，不存在时返回 0。
func (it *Item) SubScore(source string) float64 {
	if it.SubScores == nil {
		return 0
	}
	return it.SubScores[source]
}

// PutLabel 写入 Label；若已存在同名 key，则按默认 Merge 规则累积。
func (it *Item) PutLabel(key string, lbl utils.Label) {
	if it.Labels == nil {
		it.Labels = make(map[string]utils.Label)
	}
	if old, ok := it.Labels[key]; ok {
		it.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	it.Labels[key] = lbl
}

// GetLabel 读取 Label。
func (it *Item) GetLabel(key string) (utils.Label, bool) {
	if it.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := it.Labels[key]
	return lbl, ok
}
