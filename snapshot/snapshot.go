// Package snapshot 维护推荐引擎的不可变数据快照：互动矩阵、用户相似度、
// 帖子特征矩阵与各类索引一次性构建完成，之后只读。并发请求共享同一份
// 快照，重建通过 Cache 原子替换完成。
package snapshot

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/wandergram/wanderkit/core"
	"github.com/wandergram/wanderkit/feature"
)

// UserSimilarity 是一条用户相似度记录。
type UserSimilarity struct {
	UserID string
	Score  float64
}

// PostSimilarity 是一条帖子相似度记录。
type PostSimilarity struct {
	PostID string
	Score  float64
}

// Snapshot 是某个时刻的完整引擎视图。构建完成后所有字段只读，
// 任意多个 goroutine 可以并发查询。
type Snapshot struct {
	builtAt          time.Time
	interactionCount int

	users map[string]*core.User
	posts map[string]*core.Post

	// postList 按 ID 升序，保证遍历顺序确定。
	postList []*core.Post

	// rows 互动矩阵的稀疏行：userID → postID → 权重和。
	rows map[string]map[string]float64

	// userInteractions 按时间降序。
	userInteractions map[string][]core.Interaction

	// postInteractions 某帖子收到的全部互动。
	postInteractions map[string][]core.Interaction

	// authored 用户发布过的帖子 ID 集合。
	authored map[string]map[string]struct{}

	// follows 关注图：userID → 被关注账号集合。
	follows map[string]map[string]struct{}

	// followerCount 粉丝数（follows 的反向聚合）。
	followerCount map[string]int

	// userNeighbors 预计算的用户相似邻居（相似度>0，降序，同分按 ID 升序）。
	userNeighbors map[string][]UserSimilarity

	// postNeighbors 预计算的帖子相似邻居（同上口径）。
	postNeighbors map[string][]PostSimilarity
}

// Builder 控制快照构建参数。零值可用。
type Builder struct {
	// BagWeights 词袋字段倍数，零值取 DefaultBagWeights。
	BagWeights feature.BagWeights

	// Vectorizer TF-IDF 参数，零值取默认（1000 词表 / min_df=2 / max_df=0.8 / bigram）。
	Vectorizer feature.Vectorizer

	// MaxPostNeighbors 每个帖子保留的相似邻居上限，默认 100。
	MaxPostNeighbors int
}

// Build 从互动存储拉取全量数据并构建快照。存储出错直接返回错误，
// 由 Cache 决定是沿用旧快照还是向上暴露。
func (b *Builder) Build(ctx context.Context, st core.InteractionStore) (*Snapshot, error) {
	users, err := st.GetUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: load users: %w", err)
	}
	posts, err := st.GetPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: load posts: %w", err)
	}
	interactions, err := st.GetAllInteractions(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: load interactions: %w", err)
	}
	follows := make(map[string][]string, len(users))
	for _, u := range users {
		following, err := st.GetFollowing(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("snapshot: load following of %q: %w", u.ID, err)
		}
		if len(following) > 0 {
			follows[u.ID] = following
		}
	}
	return b.build(users, posts, interactions, follows), nil
}

func (b *Builder) build(users []*core.User, posts []*core.Post, interactions []core.Interaction, follows map[string][]string) *Snapshot {
	s := &Snapshot{
		builtAt:          time.Now(),
		interactionCount: len(interactions),
		users:            make(map[string]*core.User, len(users)),
		posts:            make(map[string]*core.Post, len(posts)),
		rows:             make(map[string]map[string]float64),
		userInteractions: make(map[string][]core.Interaction),
		postInteractions: make(map[string][]core.Interaction),
		authored:         make(map[string]map[string]struct{}),
		follows:          make(map[string]map[string]struct{}, len(follows)),
		followerCount:    make(map[string]int),
		userNeighbors:    make(map[string][]UserSimilarity),
		postNeighbors:    make(map[string][]PostSimilarity),
	}

	for _, u := range users {
		s.users[u.ID] = u
	}
	for _, p := range posts {
		s.posts[p.ID] = p
		if p.AuthorID != "" {
			set, ok := s.authored[p.AuthorID]
			if !ok {
				set = make(map[string]struct{})
				s.authored[p.AuthorID] = set
			}
			set[p.ID] = struct{}{}
		}
	}
	s.postList = make([]*core.Post, 0, len(posts))
	for _, p := range posts {
		s.postList = append(s.postList, p)
	}
	sort.Slice(s.postList, func(i, j int) bool { return s.postList[i].ID < s.postList[j].ID })

	for follower, followed := range follows {
		set := make(map[string]struct{}, len(followed))
		for _, id := range followed {
			if id == follower {
				continue
			}
			if _, dup := set[id]; dup {
				continue
			}
			set[id] = struct{}{}
			s.followerCount[id]++
		}
		s.follows[follower] = set
	}

	for _, it := range interactions {
		row, ok := s.rows[it.UserID]
		if !ok {
			row = make(map[string]float64)
			s.rows[it.UserID] = row
		}
		row[it.PostID] += it.WeightedValue()

		s.userInteractions[it.UserID] = append(s.userInteractions[it.UserID], it)
		s.postInteractions[it.PostID] = append(s.postInteractions[it.PostID], it)
	}
	for _, list := range s.userInteractions {
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Timestamp.After(list[j].Timestamp)
		})
	}

	b.computeUserNeighbors(s)
	b.computePostNeighbors(s)
	return s
}

// computeUserNeighbors 对有互动的用户两两计算余弦相似度。
func (b *Builder) computeUserNeighbors(s *Snapshot) {
	ids := make([]string, 0, len(s.rows))
	for id := range s.rows {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	norms := make(map[string]float64, len(ids))
	for _, id := range ids {
		var sum float64
		for _, w := range s.rows[id] {
			sum += w * w
		}
		norms[id] = math.Sqrt(sum)
	}

	for i, a := range ids {
		for _, bID := range ids[i+1:] {
			sim := cosineRows(s.rows[a], s.rows[bID], norms[a], norms[bID])
			if sim <= 0 {
				continue
			}
			s.userNeighbors[a] = append(s.userNeighbors[a], UserSimilarity{UserID: bID, Score: sim})
			s.userNeighbors[bID] = append(s.userNeighbors[bID], UserSimilarity{UserID: a, Score: sim})
		}
	}
	for _, neighbors := range s.userNeighbors {
		sort.SliceStable(neighbors, func(i, j int) bool {
			if neighbors[i].Score != neighbors[j].Score {
				return neighbors[i].Score > neighbors[j].Score
			}
			return neighbors[i].UserID < neighbors[j].UserID
		})
	}
}

// computePostNeighbors 构建帖子 TF-IDF 矩阵并预计算相似邻居。
func (b *Builder) computePostNeighbors(s *Snapshot) {
	if len(s.postList) == 0 {
		return
	}

	weights := b.BagWeights
	if weights == (feature.BagWeights{}) {
		weights = feature.DefaultBagWeights()
	}
	maxNeighbors := b.MaxPostNeighbors
	if maxNeighbors <= 0 {
		maxNeighbors = 100
	}

	docs := make([][]string, len(s.postList))
	for i, p := range s.postList {
		style := ""
		if author, ok := s.users[p.AuthorID]; ok {
			style = author.TravelStyle
		}
		docs[i] = feature.BuildTermBag(p, style, weights)
	}
	matrix := b.Vectorizer.Fit(docs)

	for i, p := range s.postList {
		neighbors := make([]PostSimilarity, 0, maxNeighbors)
		for j, q := range s.postList {
			if i == j {
				continue
			}
			sim := feature.CosineSparse(matrix.Rows[i], matrix.Rows[j])
			if sim <= 0 {
				continue
			}
			neighbors = append(neighbors, PostSimilarity{PostID: q.ID, Score: sim})
		}
		sort.SliceStable(neighbors, func(x, y int) bool {
			if neighbors[x].Score != neighbors[y].Score {
				return neighbors[x].Score > neighbors[y].Score
			}
			return neighbors[x].PostID < neighbors[y].PostID
		})
		if len(neighbors) > maxNeighbors {
			neighbors = neighbors[:maxNeighbors]
		}
		if len(neighbors) > 0 {
			s.postNeighbors[p.ID] = neighbors
		}
	}
}

func cosineRows(a, b map[string]float64, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for k, av := range a {
		if bv, ok := b[k]; ok {
			dot += av * bv
		}
	}
	sim := dot / (normA * normB)
	if sim > 1 {
		sim = 1
	}
	if sim < 0 {
		sim = 0
	}
	return sim
}

// BuiltAt 返回快照构建时间。
func (s *Snapshot) BuiltAt() time.Time { return s.builtAt }

// InteractionCount 返回构建时的互动总数。
func (s *Snapshot) InteractionCount() int { return s.interactionCount }

// User 获取用户画像。
func (s *Snapshot) User(id string) (*core.User, bool) {
	u, ok := s.users[id]
	return u, ok
}

// Users 返回全部用户（无序）。
func (s *Snapshot) Users() map[string]*core.User { return s.users }

// Post 获取帖子。
func (s *Snapshot) Post(id string) (*core.Post, bool) {
	p, ok := s.posts[id]
	return p, ok
}

// Posts 返回按 ID 升序的全部帖子。
func (s *Snapshot) Posts() []*core.Post { return s.postList }

// UserRow 返回用户的互动矩阵行（postID → 权重和），无互动时为 nil。
func (s *Snapshot) UserRow(userID string) map[string]float64 { return s.rows[userID] }

// UserInteractions 返回用户互动（时间降序）。
func (s *Snapshot) UserInteractions(userID string) []core.Interaction {
	return s.userInteractions[userID]
}

// PostInteractions 返回帖子收到的互动。
func (s *Snapshot) PostInteractions(postID string) []core.Interaction {
	return s.postInteractions[postID]
}

// AuthoredPosts 返回用户发布过的帖子 ID 集合。
func (s *Snapshot) AuthoredPosts(userID string) map[string]struct{} {
	return s.authored[userID]
}

// Following 返回用户关注的账号集合（可能为 nil）。
func (s *Snapshot) Following(userID string) map[string]struct{} {
	return s.follows[userID]
}

// FollowerCount 返回用户的粉丝数。
func (s *Snapshot) FollowerCount(userID string) int {
	return s.followerCount[userID]
}

// SimilarUsers 返回用户的相似邻居（相似度>0，降序，同分按 ID 升序）。
func (s *Snapshot) SimilarUsers(userID string) []UserSimilarity {
	return s.userNeighbors[userID]
}

// SimilarPosts 返回帖子的相似邻居。
func (s *Snapshot) SimilarPosts(postID string) []PostSimilarity {
	return s.postNeighbors[postID]
}

// UserSimilarityScore 返回两个用户的相似度；自身恒为 1。
func (s *Snapshot) UserSimilarityScore(a, b string) float64 {
	if a == b {
		if _, ok := s.rows[a]; ok {
			return 1
		}
		return 0
	}
	for _, n := range s.userNeighbors[a] {
		if n.UserID == b {
			return n.Score
		}
	}
	return 0
}
