package feature

import (
	"math"
	"sort"
)

// SparseVector 是稀疏特征向量：词表下标 → 权重。
type SparseVector map[int]float64

// Vectorizer 是 TF-IDF 向量器：unigram+bigram、词表截断、文档频率过滤。
// 零值字段在 Fit 时按默认值处理。
type Vectorizer struct {
	// MaxFeatures 词表上限，默认 1000
	MaxFeatures int

	// MinDocFreq 至少出现在多少篇文档中才保留，默认 2（去噪声）
	MinDocFreq int

	// MaxDocRatio 出现在超过该比例文档中的词被剔除，默认 0.8（去近全集词）
	MaxDocRatio float64

	// Bigrams 是否追加二元词组，默认开启（NoBigrams=true 关闭）
	NoBigrams bool

	// KeepStopWords 保留停用词，默认剔除
	KeepStopWords bool
}

// Matrix 是 Fit 的产物：词表与每篇文档的 L2 归一化 TF-IDF 向量。
// 构建后只读，可被任意多个 goroutine 并发读取。
type Matrix struct {
	Vocab map[string]int
	Rows  []SparseVector
}

// VocabSize 返回词表大小。
func (m *Matrix) VocabSize() int {
	return len(m.Vocab)
}

// Fit 在词袋语料上构建 TF-IDF 矩阵。
// 词表筛选顺序：停用词 → ngram 展开 → 文档频率过滤 → 按文档频率截断
// （同频按字典序，保证确定性）。IDF 采用平滑口径 ln((1+n)/(1+df))+1。
func (v *Vectorizer) Fit(docs [][]string) *Matrix {
	maxFeatures := v.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = 1000
	}
	minDF := v.MinDocFreq
	if minDF <= 0 {
		minDF = 2
	}
	maxRatio := v.MaxDocRatio
	if maxRatio <= 0 || maxRatio > 1 {
		maxRatio = 0.8
	}

	n := len(docs)
	grams := make([][]string, n)
	docFreq := make(map[string]int)

	for i, doc := range docs {
		terms := v.ngrams(doc)
		grams[i] = terms

		seen := make(map[string]struct{}, len(terms))
		for _, t := range terms {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			docFreq[t]++
		}
	}

	// 文档频率过滤
	maxDF := int(math.Floor(maxRatio * float64(n)))
	if maxDF < 1 {
		maxDF = 1
	}
	type termDF struct {
		term string
		df   int
	}
	kept := make([]termDF, 0, len(docFreq))
	for t, df := range docFreq {
		if df < minDF || df > maxDF {
			continue
		}
		kept = append(kept, termDF{term: t, df: df})
	}

	// 词表截断：高频优先，同频字典序
	sort.Slice(kept, func(i, j int) bool {
		if kept[i].df != kept[j].df {
			return kept[i].df > kept[j].df
		}
		return kept[i].term < kept[j].term
	})
	if len(kept) > maxFeatures {
		kept = kept[:maxFeatures]
	}

	vocab := make(map[string]int, len(kept))
	idf := make([]float64, len(kept))
	for i, td := range kept {
		vocab[td.term] = i
		idf[i] = math.Log(float64(1+n)/float64(1+td.df)) + 1
	}

	rows := make([]SparseVector, n)
	for i, terms := range grams {
		counts := make(map[int]float64)
		for _, t := range terms {
			if idx, ok := vocab[t]; ok {
				counts[idx]++
			}
		}

		row := make(SparseVector, len(counts))
		var norm float64
		for idx, tf := range counts {
			w := tf * idf[idx]
			row[idx] = w
			norm += w * w
		}
		if norm > 0 {
			norm = math.Sqrt(norm)
			for idx := range row {
				row[idx] /= norm
			}
		}
		rows[i] = row
	}

	return &Matrix{Vocab: vocab, Rows: rows}
}

// ngrams 展开 unigram（+bigram），并剔除停用词。
func (v *Vectorizer) ngrams(doc []string) []string {
	out := make([]string, 0, len(doc)*2)
	filtered := make([]string, 0, len(doc))
	for _, t := range doc {
		if t == "" {
			continue
		}
		if !v.KeepStopWords && IsStopWord(t) {
			continue
		}
		filtered = append(filtered, t)
	}
	out = append(out, filtered...)

	if !v.NoBigrams {
		for i := 0; i+1 < len(filtered); i++ {
			out = append(out, filtered[i]+" "+filtered[i+1])
		}
	}
	return out
}

// CosineSparse 计算两个 L2 归一化稀疏向量的余弦相似度。
// 输入非负时结果落在 [0,1]。
func CosineSparse(a, b SparseVector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	// 遍历较小的一侧
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for idx, av := range a {
		if bv, ok := b[idx]; ok {
			dot += av * bv
		}
	}
	// 行向量已归一化，点积即余弦；数值误差截断到 [0,1]
	if dot > 1 {
		dot = 1
	}
	if dot < 0 {
		dot = 0
	}
	return dot
}
