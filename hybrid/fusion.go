package hybrid

import (
	"sort"

	"github.com/wandergram/wanderkit/core"
)

// 子分数 key：各列表内的 rank 归一分数（未加权）。
const (
	subScoreCollab  = "collab"
	subScoreContent = "content"
)

// rankScore 返回列表内第 i 位（0 起）的 rank 归一分数 (len-i)/len。
// 只看位置不看原始分值，两侧量纲天然对齐。
func rankScore(i, length int) float64 {
	return float64(length-i) / float64(length)
}

// rankNormalize 把一条有序候选列表的 Score 替换为 rank 归一分数。
// subKey 非空时同时记入对应子分数。
func rankNormalize(items []*core.Item, subKey string) []*core.Item {
	n := len(items)
	for i, it := range items {
		it.Score = rankScore(i, n)
		if subKey != "" {
			it.SubScores[subKey] = it.Score
		}
	}
	return items
}

// fuse 融合两条有序候选列表：
// 每侧按位置给 rank 分，融合分 = 协同 rank × wCollab + 内容 rank × wContent；
// 两侧都命中的帖子两项相加，天然高于单侧命中。
// 融合分降序，同分按帖子 ID 升序。
func fuse(collabItems, contentItems []*core.Item, wCollab, wContent float64) []*core.Item {
	merged := make(map[string]*core.Item, len(collabItems)+len(contentItems))

	nc := len(collabItems)
	for i, it := range collabItems {
		rank := rankScore(i, nc)
		fused := core.NewItem(it.ID)
		fused.SubScores[subScoreCollab] = rank
		fused.Score = rank * wCollab
		for k, v := range it.Labels {
			fused.PutLabel(k, v)
		}
		merged[it.ID] = fused
	}

	nt := len(contentItems)
	for i, it := range contentItems {
		rank := rankScore(i, nt)
		fused, ok := merged[it.ID]
		if !ok {
			fused = core.NewItem(it.ID)
			merged[it.ID] = fused
		}
		fused.SubScores[subScoreContent] = rank
		fused.Score += rank * wContent
		for k, v := range it.Labels {
			fused.PutLabel(k, v)
		}
	}

	out := make([]*core.Item, 0, len(merged))
	for _, it := range merged {
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out
}
