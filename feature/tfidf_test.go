package feature

import (
	"math"
	"testing"
)

func TestVectorizerFit_DocFreqFiltering(t *testing.T) {
	// "beach" 出现在 2 篇文档、"glacier" 只出现在 1 篇：min_df=2 应剔除后者
	docs := [][]string{
		{"beach", "sunset"},
		{"beach", "sunset"},
		{"glacier"},
	}
	v := &Vectorizer{NoBigrams: true}
	m := v.Fit(docs)

	if _, ok := m.Vocab["beach"]; !ok {
		t.Errorf("beach 应在词表中")
	}
	if _, ok := m.Vocab["glacier"]; ok {
		t.Errorf("glacier 文档频率为 1，应被 min_df 剔除")
	}
}

func TestVectorizerFit_MaxDocRatio(t *testing.T) {
	// "travel" 出现在全部 5 篇文档：max_df=0.8 → 上限 4 篇，应被剔除
	docs := [][]string{
		{"travel", "beach", "x1"},
		{"travel", "beach", "x2"},
		{"travel", "mountain", "x3"},
		{"travel", "mountain", "x4"},
		{"travel", "x5", "x6"},
	}
	v := &Vectorizer{NoBigrams: true}
	m := v.Fit(docs)

	if _, ok := m.Vocab["travel"]; ok {
		t.Errorf("travel 出现在全部文档，应被 max_df 剔除")
	}
	if _, ok := m.Vocab["beach"]; !ok {
		t.Errorf("beach 应保留")
	}
}

func TestVectorizerFit_Bigrams(t *testing.T) {
	docs := [][]string{
		{"goa", "beach"},
		{"goa", "beach"},
	}
	v := &Vectorizer{}
	m := v.Fit(docs)

	if _, ok := m.Vocab["goa beach"]; !ok {
		t.Errorf("应生成二元词组 \"goa beach\"，词表：%v", m.Vocab)
	}
}

func TestVectorizerFit_StopWords(t *testing.T) {
	docs := [][]string{
		{"the", "beach", "is", "good"},
		{"the", "beach", "is", "good"},
	}
	v := &Vectorizer{NoBigrams: true}
	m := v.Fit(docs)

	for _, stop := range []string{"the", "is"} {
		if _, ok := m.Vocab[stop]; ok {
			t.Errorf("停用词 %q 不应进入词表", stop)
		}
	}
}

func TestVectorizerFit_L2Normalized(t *testing.T) {
	docs := [][]string{
		{"beach", "sunset", "goa"},
		{"beach", "sunset"},
		{"goa", "beach"},
	}
	v := &Vectorizer{NoBigrams: true}
	m := v.Fit(docs)

	for i, row := range m.Rows {
		if len(row) == 0 {
			continue
		}
		var norm float64
		for _, w := range row {
			norm += w * w
		}
		if math.Abs(math.Sqrt(norm)-1) > 1e-9 {
			t.Errorf("第 %d 行的 L2 范数为 %v，应为 1", i, math.Sqrt(norm))
		}
	}
}

func TestVectorizerFit_MaxFeatures(t *testing.T) {
	docs := [][]string{
		{"a1", "b1", "c1", "d1"},
		{"a1", "b1", "c1", "d1"},
	}
	v := &Vectorizer{MaxFeatures: 2, NoBigrams: true}
	m := v.Fit(docs)

	if m.VocabSize() != 2 {
		t.Errorf("词表大小 %d，应截断到 2", m.VocabSize())
	}
	// 同频词按字典序保留
	for _, term := range []string{"a1", "b1"} {
		if _, ok := m.Vocab[term]; !ok {
			t.Errorf("同频截断应保留字典序靠前的 %q", term)
		}
	}
}

func TestCosineSparse(t *testing.T) {
	docs := [][]string{
		{"beach", "sunset", "goa"},
		{"beach", "sunset", "goa"},
		{"mountain", "hike"},
		{"mountain", "hike"},
	}
	v := &Vectorizer{NoBigrams: true}
	m := v.Fit(docs)

	// 自相似恒为 1
	if sim := CosineSparse(m.Rows[0], m.Rows[0]); math.Abs(sim-1) > 1e-9 {
		t.Errorf("自相似 = %v，应为 1", sim)
	}
	// 相同内容相似度 1
	if sim := CosineSparse(m.Rows[0], m.Rows[1]); math.Abs(sim-1) > 1e-9 {
		t.Errorf("相同文档相似度 = %v，应为 1", sim)
	}
	// 无公共词相似度 0
	if sim := CosineSparse(m.Rows[0], m.Rows[2]); sim != 0 {
		t.Errorf("无公共词相似度 = %v，应为 0", sim)
	}
	// 所有相似度落在 [0,1]
	for i := range m.Rows {
		for j := range m.Rows {
			sim := CosineSparse(m.Rows[i], m.Rows[j])
			if sim < 0 || sim > 1 {
				t.Errorf("sim(%d,%d) = %v，越界", i, j, sim)
			}
		}
	}
}
