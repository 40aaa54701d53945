package recall

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/wandergram/wanderkit/core"
	"github.com/wandergram/wanderkit/feature"
	"github.com/wandergram/wanderkit/snapshot"
)

// 偏好加成系数：地点 0.3、国家 0.2、类别 0.4。
const (
	prefLocationFactor = 0.3
	prefCountryFactor  = 0.2
	prefCategoryFactor = 0.4
)

// ContentBased 是内容相似召回源：基于帖子 TF-IDF 特征矩阵，
// 从用户近期互动的种子帖出发找相似内容，并叠加地点/国家/类别的偏好加成。
type ContentBased struct {
	Snapshots SnapshotProvider

	// Interests 可选的显式兴趣信号，缺失时算法照常工作。
	Interests feature.InterestProvider

	// SeedWindow 参与打分的近期互动条数上限，默认 50。
	SeedWindow int

	// PerSeedNeighbors 每个种子帖展开的相似帖数量，默认 10。
	PerSeedNeighbors int
}

func (s *ContentBased) Name() string { return "recall.content" }

func (s *ContentBased) seedWindow() int {
	if s.SeedWindow > 0 {
		return s.SeedWindow
	}
	return 50
}

func (s *ContentBased) perSeed() int {
	if s.PerSeedNeighbors > 0 {
		return s.PerSeedNeighbors
	}
	return 10
}

// Recall 实现 Source 接口。
func (s *ContentBased) Recall(ctx context.Context, rctx *core.RecommendContext) ([]*core.Item, error) {
	snap, err := s.Snapshots.Get(ctx)
	if err != nil {
		return nil, err
	}
	limit := rctx.Limit
	if limit <= 0 {
		limit = 20
	}
	return s.RecommendPosts(ctx, snap, rctx.UserID, limit)
}

// FindSimilarPosts 返回与指定帖子内容最相似的前 n 个帖子。
func (s *ContentBased) FindSimilarPosts(snap *snapshot.Snapshot, postID string, n int) []snapshot.PostSimilarity {
	neighbors := snap.SimilarPosts(postID)
	if n > 0 && len(neighbors) > n {
		neighbors = neighbors[:n]
	}
	return neighbors
}

// preferences 是从互动历史累积出的偏好权重。
type preferences struct {
	location  map[string]float64
	country   map[string]float64
	continent map[string]float64
	category  map[string]float64
	total     float64 // 全部互动的权重和，归一化用
}

// buildPreferences 遍历种子互动，把互动权重累积到帖子地点的各个维度上。
func (s *ContentBased) buildPreferences(snap *snapshot.Snapshot, seeds []core.Interaction) preferences {
	p := preferences{
		location:  make(map[string]float64),
		country:   make(map[string]float64),
		continent: make(map[string]float64),
		category:  make(map[string]float64),
	}
	for _, it := range seeds {
		post, ok := snap.Post(it.PostID)
		if !ok || post.Location == nil {
			continue
		}
		w := it.WeightedValue()
		p.total += w
		loc := post.Location
		if loc.Name != "" {
			p.location[loc.Name] += w
		}
		if loc.Country != "" {
			p.country[loc.Country] += w
		}
		if loc.Continent != "" {
			p.continent[loc.Continent] += w
		}
		if loc.Category != "" {
			p.category[loc.Category] += w
		}
	}
	return p
}

// addDeclaredInterests 把显式声明的兴趣折算进类别偏好。兴趣权重 ∈ (0,1]，
// 折算到与行为偏好同一量纲（乘以总互动权重；零历史用户直接用原始权重）。
func (s *ContentBased) addDeclaredInterests(ctx context.Context, userID string, p *preferences) {
	if s.Interests == nil {
		return
	}
	interests, err := s.Interests.GetUserInterests(ctx, userID)
	if err != nil || len(interests) == 0 {
		return
	}
	scale := p.total
	if scale <= 0 {
		scale = 1
	}
	for _, in := range interests {
		if in.Category == "" || in.Weight <= 0 {
			continue
		}
		p.category[in.Category] += in.Weight * scale
	}
}

// RecommendPosts 返回内容相似的帖子候选。
// 种子 = 用户近期互动（时间降序，窗口截断）；每个种子展开相似帖，
// 相似度 × 种子行为权重累加；再叠加地点/国家/类别偏好加成。
// 用户不存在返回 ErrUserNotFound；存在但无历史返回空列表。
func (s *ContentBased) RecommendPosts(ctx context.Context, snap *snapshot.Snapshot, userID string, n int) ([]*core.Item, error) {
	if _, ok := snap.User(userID); !ok {
		return nil, core.ErrUserNotFound
	}

	seeds := snap.UserInteractions(userID)
	if len(seeds) == 0 {
		return nil, nil
	}
	if len(seeds) > s.seedWindow() {
		seeds = seeds[:s.seedWindow()]
	}

	row := snap.UserRow(userID)
	authored := snap.AuthoredPosts(userID)
	scores := make(map[string]float64)

	for _, seed := range seeds {
		w := seed.WeightedValue()
		for _, nb := range s.FindSimilarPosts(snap, seed.PostID, s.perSeed()) {
			if _, interacted := row[nb.PostID]; interacted {
				continue
			}
			if _, own := authored[nb.PostID]; own {
				continue
			}
			scores[nb.PostID] += nb.Score * w
		}
	}
	if len(scores) == 0 {
		return nil, nil
	}

	prefs := s.buildPreferences(snap, seeds)
	s.addDeclaredInterests(ctx, userID, &prefs)

	items := make([]*core.Item, 0, len(scores))
	for postID, score := range scores {
		it := core.NewItem(postID)
		it.Score = score
		if post, ok := snap.Post(postID); ok && post.Location != nil {
			loc := post.Location
			bonus := prefs.location[loc.Name]*prefLocationFactor +
				prefs.country[loc.Country]*prefCountryFactor +
				prefs.category[loc.Category]*prefCategoryFactor
			it.Score += bonus
			it.PutSubScore("pref_bonus", bonus)
		}
		it.PutSubScore("content_raw", it.Score)
		items = append(items, it)
	}
	sortItems(items)
	if n > 0 && len(items) > n {
		items = items[:n]
	}
	return items, nil
}

// 目的地打分的维度倍数：类别 ×4、国家 ×3、大洲 ×2。
const (
	destCategoryFactor  = 4.0
	destCountryFactor   = 3.0
	destContinentFactor = 2.0
)

// RecommendDestinations 返回目的地候选：用户没互动过的地点，
// 按归一化偏好 ×（类别 4 / 国家 3 / 大洲 2）打分，叠加热度加成
// min(帖子数/10, 1)，并附带人类可读的推荐理由。
func (s *ContentBased) RecommendDestinations(ctx context.Context, snap *snapshot.Snapshot, userID string, n int) ([]*core.DestinationRecommendation, error) {
	if _, ok := snap.User(userID); !ok {
		return nil, core.ErrUserNotFound
	}
	seeds := snap.UserInteractions(userID)
	if len(seeds) == 0 {
		return nil, nil
	}

	prefs := s.buildPreferences(snap, seeds)
	s.addDeclaredInterests(ctx, userID, &prefs)
	if prefs.total <= 0 {
		return nil, nil
	}

	// 已经互动过的地点不再推荐
	visited := make(map[string]struct{})
	for _, it := range seeds {
		if post, ok := snap.Post(it.PostID); ok && post.Location != nil && post.Location.Name != "" {
			visited[post.Location.Name] = struct{}{}
		}
	}

	// 按地点名聚合帖子
	type destAgg struct {
		loc   core.Location
		count int
	}
	dests := make(map[string]*destAgg)
	for _, post := range snap.Posts() {
		if post.Location == nil || post.Location.Name == "" {
			continue
		}
		name := post.Location.Name
		if _, seen := visited[name]; seen {
			continue
		}
		d, ok := dests[name]
		if !ok {
			d = &destAgg{loc: *post.Location}
			dests[name] = d
		}
		d.count++
	}
	if len(dests) == 0 {
		return nil, nil
	}

	out := make([]*core.DestinationRecommendation, 0, len(dests))
	for _, d := range dests {
		// 偏好按总互动权重归一化到 [0,1]
		catPref := prefs.category[d.loc.Category] / prefs.total
		countryPref := prefs.country[d.loc.Country] / prefs.total
		contPref := prefs.continent[d.loc.Continent] / prefs.total

		score := catPref*destCategoryFactor + countryPref*destCountryFactor + contPref*destContinentFactor
		if score <= 0 {
			continue
		}
		popularity := math.Min(float64(d.count)/10, 1)
		score += popularity

		var reasons []string
		if catPref > 0 {
			reasons = append(reasons, fmt.Sprintf("You love %s destinations", d.loc.Category))
		}
		if countryPref > 0 {
			reasons = append(reasons, fmt.Sprintf("You've enjoyed posts from %s", d.loc.Country))
		}
		if popularity >= 0.5 {
			reasons = append(reasons, "Popular among travelers")
		}

		out = append(out, &core.DestinationRecommendation{
			Location:  d.loc,
			Score:     score,
			Strategy:  core.StrategyContentOnly,
			Reasons:   reasons,
			PostCount: d.count,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Location.Name < out[j].Location.Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}
